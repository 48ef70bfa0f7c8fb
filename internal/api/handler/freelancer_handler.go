package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atomconnect/atom-connect-api/internal/core/ports"
)

// FreelancerHandler handles the trainer marketplace browse and the
// freelancer's own profile.
type FreelancerHandler struct {
	service ports.FreelancerService
}

func NewFreelancerHandler(service ports.FreelancerService) *FreelancerHandler {
	return &FreelancerHandler{service: service}
}

type updateFreelancerRequest struct {
	Name            string   `json:"name" validate:"required,min=2"`
	Phone           string   `json:"phone,omitempty"`
	Headline        string   `json:"headline,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	StackIDs        []string `json:"stack_ids,omitempty"`
	Location        string   `json:"location,omitempty"`
	YearsExperience int      `json:"years_experience,omitempty" validate:"gte=0,lte=60"`
	HourlyRate      float64  `json:"hourly_rate,omitempty"      validate:"gte=0"`
}

// List handles GET /v1/freelancers.
//
// @Summary      Browse freelance trainers
// @Tags         freelancers
// @Produce      json
// @Security     BearerAuth
// @Param        page    query  int     false  "Page (1-based)"
// @Param        limit   query  int     false  "Page size (max 100)"
// @Param        search  query  string  false  "Partial match on name or email"
// @Success      200  {object}  listUsersResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/freelancers [get]
func (h *FreelancerHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	filter := ports.UserFilter{Search: c.QueryParam("search")}
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

// Get handles GET /v1/freelancers/:id.
//
// @Summary      Get a freelancer
// @Tags         freelancers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Freelancer user id"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  errorResponse
// @Router       /v1/freelancers/{id} [get]
func (h *FreelancerHandler) Get(c echo.Context) error {
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

// UpdateProfile handles PUT /v1/freelancers/profile, the caller's own
// marketplace profile.
//
// @Summary      Update own freelancer profile
// @Tags         freelancers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateFreelancerRequest  true  "Profile"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/freelancers/profile [put]
func (h *FreelancerHandler) UpdateProfile(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateFreelancerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.UpdateOwnProfile(c.Request().Context(), actor, ports.UpdateFreelancerInput{
		Name:            req.Name,
		Phone:           req.Phone,
		Headline:        req.Headline,
		Bio:             req.Bio,
		StackIDs:        req.StackIDs,
		Location:        req.Location,
		YearsExperience: req.YearsExperience,
		HourlyRate:      req.HourlyRate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
