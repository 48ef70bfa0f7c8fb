package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atomconnect/atom-connect-api/internal/core/domain"
)

// RequireRoles enforces an exact-match role allow-list on a route group.
// There is no hierarchy: ADMIN must be listed explicitly wherever it is
// allowed. A request with no role claim (gatekeeper not run, or a public
// route wired into a gated group by mistake) is rejected as
// unauthenticated rather than forbidden.
func RequireRoles(allowed ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRole).(domain.Role)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if err := domain.Authorize(role, allowed...); err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			return next(c)
		}
	}
}
