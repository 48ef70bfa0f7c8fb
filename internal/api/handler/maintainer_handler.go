package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atomconnect/atom-connect-api/internal/core/domain"
	"github.com/atomconnect/atom-connect-api/internal/core/ports"
)

// MaintainerHandler handles the ADMIN-only back-office staff endpoints.
// Maintainers are users; the handler narrows the user service to the
// MAINTAINER role.
type MaintainerHandler struct {
	service ports.UserService
}

func NewMaintainerHandler(service ports.UserService) *MaintainerHandler {
	return &MaintainerHandler{service: service}
}

type createMaintainerRequest struct {
	Name       string `json:"name"     validate:"required,min=2"`
	Email      string `json:"email"    validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Phone      string `json:"phone,omitempty"`
	Department string `json:"department,omitempty"`
}

// List handles GET /v1/maintainers.
//
// @Summary      List maintainers
// @Tags         maintainers
// @Produce      json
// @Security     BearerAuth
// @Param        page    query  int     false  "Page (1-based)"
// @Param        limit   query  int     false  "Page size (max 100)"
// @Param        search  query  string  false  "Partial match on name or email"
// @Success      200  {object}  listUsersResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/maintainers [get]
func (h *MaintainerHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	filter := ports.UserFilter{
		Search: c.QueryParam("search"),
		Role:   domain.RoleMaintainer,
	}
	filter.Page, filter.Limit = pageParams(c)

	result, err := h.service.List(c.Request().Context(), actor, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listUsersResponse{
		Data: result.Items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Create handles POST /v1/maintainers.
//
// @Summary      Create a maintainer
// @Tags         maintainers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createMaintainerRequest  true  "Maintainer details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/maintainers [post]
func (h *MaintainerHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createMaintainerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.Create(c.Request().Context(), actor, ports.CreateUserInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		Role:       domain.RoleMaintainer,
		Department: req.Department,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Delete handles DELETE /v1/maintainers?id=<id>.
//
// @Summary      Delete a maintainer
// @Tags         maintainers
// @Produce      json
// @Security     BearerAuth
// @Param        id   query     string  true  "User id"
// @Success      200  {object}  successResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/maintainers [delete]
func (h *MaintainerHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	id := c.QueryParam("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id query parameter is required")
	}

	user, err := h.service.Get(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	if user.Role != domain.RoleMaintainer {
		return domain.ErrUserNotFound
	}

	if err := h.service.Delete(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true, Message: "maintainer deleted"})
}
