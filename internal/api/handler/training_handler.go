package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atomconnect/atom-connect-api/internal/core/domain"
	"github.com/atomconnect/atom-connect-api/internal/core/ports"
)

// TrainingHandler handles the training catalogue endpoints.
type TrainingHandler struct {
	service ports.TrainingService
}

func NewTrainingHandler(service ports.TrainingService) *TrainingHandler {
	return &TrainingHandler{service: service}
}

type saveTrainingRequest struct {
	Title       string   `json:"title"       validate:"required,min=3"`
	Description string   `json:"description,omitempty"`
	CategoryID  string   `json:"category_id" validate:"required"`
	StackIDs    []string `json:"stack_ids,omitempty"`
	Location    string   `json:"location,omitempty"`
	Mode        string   `json:"mode"        validate:"required,oneof=ONSITE REMOTE HYBRID"`
	Price       float64  `json:"price"       validate:"gte=0"`
	Seats       int      `json:"seats"       validate:"gte=0"`
}

type feedbackRequest struct {
	Rating  int    `json:"rating"  validate:"required,gte=1,lte=5"`
	Comment string `json:"comment,omitempty"`
}

type listTrainingsResponse struct {
	Data       []*domain.Training `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// List handles GET /v1/trainings.
//
// @Summary      List trainings
// @Tags         trainings
// @Produce      json
// @Security     BearerAuth
// @Param        page      query  int     false  "Page (1-based)"
// @Param        limit     query  int     false  "Page size (max 100)"
// @Param        search    query  string  false  "Partial match on title"
// @Param        category  query  string  false  "Filter by category id"
// @Param        stack     query  string  false  "Filter by stack id"
// @Param        mode      query  string  false  "Filter by mode (ONSITE|REMOTE|HYBRID)"
// @Param        status    query  string  false  "Filter by status (owner and admin only)"
// @Success      200  {object}  listTrainingsResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/trainings [get]
func (h *TrainingHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	filter := ports.TrainingFilter{
		Search:     c.QueryParam("search"),
		CategoryID: c.QueryParam("category"),
		StackID:    c.QueryParam("stack"),
		Mode:       domain.TrainingMode(c.QueryParam("mode")),
		Status:     domain.TrainingStatus(c.QueryParam("status")),
	}
	filter.Page, filter.Limit = pageParams(c)

	result, err := h.service.List(c.Request().Context(), actor, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listTrainingsResponse{
		Data: result.Items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Get handles GET /v1/trainings/:id.
//
// @Summary      Get a training
// @Tags         trainings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Training id"
// @Success      200  {object}  domain.Training
// @Failure      404  {object}  errorResponse
// @Router       /v1/trainings/{id} [get]
func (h *TrainingHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	t, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

// Create handles POST /v1/trainings.
//
// @Summary      Create a training (DRAFT)
// @Tags         trainings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      saveTrainingRequest  true  "Training details"
// @Success      201   {object}  domain.Training
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/trainings [post]
func (h *TrainingHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req saveTrainingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	t, err := h.service.Create(c.Request().Context(), actor, toSaveInput("", req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, t)
}

// Update handles PUT /v1/trainings/:id.
//
// @Summary      Update a training
// @Tags         trainings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Training id"
// @Param        body  body      saveTrainingRequest  true  "Training details"
// @Success      200   {object}  domain.Training
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/trainings/{id} [put]
func (h *TrainingHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req saveTrainingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	t, err := h.service.Update(c.Request().Context(), actor, toSaveInput(c.Param("id"), req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func toSaveInput(id string, req saveTrainingRequest) ports.SaveTrainingInput {
	return ports.SaveTrainingInput{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		StackIDs:    req.StackIDs,
		Location:    req.Location,
		Mode:        domain.TrainingMode(req.Mode),
		Price:       req.Price,
		Seats:       req.Seats,
	}
}

// Bulk handles PATCH /v1/trainings.
//
// @Summary      Bulk training action
// @Tags         trainings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bulkRequest  true  "Ids and action (publish|unpublish|delete)"
// @Success      200   {object}  bulkResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/trainings [patch]
func (h *TrainingHandler) Bulk(c echo.Context) error {
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

	result, err := h.service.BulkAction(c.Request().Context(), actor, req.IDs, ports.TrainingBulkAction(req.Action))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bulkResponse{Success: true, Requested: result.Requested, Matched: result.Matched})
}

// Delete handles DELETE /v1/trainings?id=<id>.
//
// @Summary      Delete a training
// @Tags         trainings
// @Produce      json
// @Security     BearerAuth
// @Param        id   query     string  true  "Training id"
// @Success      200  {object}  successResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/trainings [delete]
func (h *TrainingHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	id := c.QueryParam("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id query parameter is required")
	}

	if err := h.service.Delete(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true, Message: "training deleted"})
}

// AddFeedback handles POST /v1/trainings/:id/feedback.
//
// @Summary      Leave feedback on a training
// @Tags         trainings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Training id"
// @Param        body  body      feedbackRequest  true  "Rating and comment"
// @Success      201   {object}  domain.Feedback
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/trainings/{id}/feedback [post]
func (h *TrainingHandler) AddFeedback(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	f, err := h.service.AddFeedback(c.Request().Context(), actor, ports.FeedbackInput{
		TrainingID: c.Param("id"),
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, f)
}

// ListFeedback handles GET /v1/trainings/:id/feedback.
//
// @Summary      List feedback on a training
// @Tags         trainings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Training id"
// @Success      200  {array}   domain.Feedback
// @Failure      404  {object}  errorResponse
// @Router       /v1/trainings/{id}/feedback [get]
func (h *TrainingHandler) ListFeedback(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	items, err := h.service.ListFeedback(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}
