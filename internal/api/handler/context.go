package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atomconnect/atom-connect-api/internal/api/middleware"
	"github.com/atomconnect/atom-connect-api/internal/core/domain"
	"github.com/atomconnect/atom-connect-api/internal/core/ports"
)

// ctxActor extracts the session claims injected by the gatekeeper and
// performs a fast-fail check before any service call: both the identity id
// and a valid role must be present, which proves the middleware ran on
// this route. A gated route missing claims is a wiring bug surfaced as 401.
func ctxActor(c echo.Context) (ports.Actor, error) {
	id, _ := c.Get(middleware.CtxIdentityID).(string)
	role, _ := c.Get(middleware.CtxRole).(domain.Role)
	if id == "" || !role.Valid() {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return ports.Actor{ID: id, Role: role}, nil
}
