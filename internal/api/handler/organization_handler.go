package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atomconnect/atom-connect-api/internal/core/domain"
	"github.com/atomconnect/atom-connect-api/internal/core/ports"
)

// OrganizationHandler handles organization listing, self-service profile
// updates, and the verification workflow.
type OrganizationHandler struct {
	service ports.OrganizationService
}

func NewOrganizationHandler(service ports.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{service: service}
}

type updateOrganizationRequest struct {
	Name        string `json:"name"         validate:"required,min=2"`
	Phone       string `json:"phone,omitempty"`
	CompanyName string `json:"company_name" validate:"required,min=2"`
	Website     string `json:"website,omitempty"`
	Location    string `json:"location,omitempty"`
}

// List handles GET /v1/organizations.
//
// @Summary      List organizations
// @Tags         organizations
// @Produce      json
// @Security     BearerAuth
// @Param        page          query  int     false  "Page (1-based)"
// @Param        limit         query  int     false  "Page size (max 100)"
// @Param        search        query  string  false  "Partial match on name or email"
// @Param        verification  query  string  false  "Filter by review state (PENDING|VERIFIED|REJECTED)"
// @Success      200  {object}  listUsersResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/organizations [get]
func (h *OrganizationHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	filter := ports.UserFilter{
		Search:       c.QueryParam("search"),
		Verification: domain.VerificationStatus(c.QueryParam("verification")),
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

// Get handles GET /v1/organizations/:id.
//
// @Summary      Get an organization
// @Tags         organizations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Organization user id"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  errorResponse
// @Router       /v1/organizations/{id} [get]
func (h *OrganizationHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	user, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /v1/organizations/profile, the caller's own
// profile.
//
// @Summary      Update own organization profile
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateOrganizationRequest  true  "Profile"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/organizations/profile [put]
func (h *OrganizationHandler) UpdateProfile(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateOrganizationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.UpdateOwnProfile(c.Request().Context(), actor, ports.UpdateOrganizationInput{
		Name:        req.Name,
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
		Website:     req.Website,
		Location:    req.Location,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Bulk handles PATCH /v1/organizations, approve or reject a set of ids.
//
// @Summary      Bulk verification action
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bulkRequest  true  "Ids and action (approve|reject)"
// @Success      200   {object}  bulkResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/organizations [patch]
func (h *OrganizationHandler) Bulk(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req bulkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.BulkVerify(c.Request().Context(), actor, req.IDs, ports.OrgBulkAction(req.Action))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bulkResponse{Success: true, Requested: result.Requested, Matched: result.Matched})
}
