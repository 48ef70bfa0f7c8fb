package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atomconnect/atom-connect-api/internal/core/ports"
)

// TaxonomyHandler handles training categories and tech stacks.
type TaxonomyHandler struct {
	service ports.TaxonomyService
}

func NewTaxonomyHandler(service ports.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{service: service}
}

type saveTaxonomyRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Description string `json:"description,omitempty"`
}

// ListCategories handles GET /v1/training-categories.
//
// @Summary      List training categories
// @Tags         taxonomy
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.TrainingCategory
// @Router       /v1/training-categories [get]
func (h *TaxonomyHandler) ListCategories(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	items, err := h.service.ListCategories(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// GetCategory handles GET /v1/training-categories/:id.
//
// @Summary      Get a training category
// @Tags         taxonomy
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Category id"
// @Success      200  {object}  domain.TrainingCategory
// @Failure      404  {object}  errorResponse
// @Router       /v1/training-categories/{id} [get]
func (h *TaxonomyHandler) GetCategory(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	item, err := h.service.GetCategory(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// CreateCategory handles POST /v1/training-categories.
//
// @Summary      Create a training category
// @Tags         taxonomy
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      saveTaxonomyRequest  true  "Category"
// @Success      201   {object}  domain.TrainingCategory
// @Failure      409   {object}  errorResponse
// @Router       /v1/training-categories [post]
func (h *TaxonomyHandler) CreateCategory(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req saveTaxonomyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.service.CreateCategory(c.Request().Context(), actor, ports.SaveTaxonomyInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateCategory handles PUT /v1/training-categories/:id.
//
// @Summary      Update a training category
// @Tags         taxonomy
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Category id"
// @Param        body  body      saveTaxonomyRequest  true  "Category"
// @Success      200   {object}  domain.TrainingCategory
// @Failure      404   {object}  errorResponse
// @Router       /v1/training-categories/{id} [put]
func (h *TaxonomyHandler) UpdateCategory(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req saveTaxonomyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.service.UpdateCategory(c.Request().Context(), actor, ports.SaveTaxonomyInput{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteCategory handles DELETE /v1/training-categories/:id. Refused while any
// training still references the category.
//
// @Summary      Delete a training category
// @Tags         taxonomy
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Category id"
// @Success      200  {object}  successResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/training-categories/{id} [delete]
func (h *TaxonomyHandler) DeleteCategory(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteCategory(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true, Message: "category deleted"})
}

// ListStacks handles GET /v1/stacks.
//
// @Summary      List tech stacks
// @Tags         taxonomy
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.TechStack
// @Router       /v1/stacks [get]
func (h *TaxonomyHandler) ListStacks(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	items, err := h.service.ListStacks(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// GetStack handles GET /v1/stacks/:id.
//
// @Summary      Get a tech stack
// @Tags         taxonomy
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Stack id"
// @Success      200  {object}  domain.TechStack
// @Failure      404  {object}  errorResponse
// @Router       /v1/stacks/{id} [get]
func (h *TaxonomyHandler) GetStack(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	item, err := h.service.GetStack(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// CreateStack handles POST /v1/stacks.
//
// @Summary      Create a tech stack
// @Tags         taxonomy
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      saveTaxonomyRequest  true  "Stack"
// @Success      201   {object}  domain.TechStack
// @Failure      409   {object}  errorResponse
// @Router       /v1/stacks [post]
func (h *TaxonomyHandler) CreateStack(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req saveTaxonomyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.service.CreateStack(c.Request().Context(), actor, ports.SaveTaxonomyInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateStack handles PUT /v1/stacks/:id.
//
// @Summary      Update a tech stack
// @Tags         taxonomy
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Stack id"
// @Param        body  body      saveTaxonomyRequest  true  "Stack"
// @Success      200   {object}  domain.TechStack
// @Failure      404   {object}  errorResponse
// @Router       /v1/stacks/{id} [put]
func (h *TaxonomyHandler) UpdateStack(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req saveTaxonomyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.service.UpdateStack(c.Request().Context(), actor, ports.SaveTaxonomyInput{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteStack handles DELETE /v1/stacks/:id. Refused while any training
// still references the stack.
//
// @Summary      Delete a tech stack
// @Tags         taxonomy
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Stack id"
// @Success      200  {object}  successResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/stacks/{id} [delete]
func (h *TaxonomyHandler) DeleteStack(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteStack(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true, Message: "stack deleted"})
}

// ListLocations handles GET /v1/locations.
//
// @Summary      List locations
// @Tags         taxonomy
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Location
// @Router       /v1/locations [get]
func (h *TaxonomyHandler) ListLocations(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	items, err := h.service.ListLocations(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// GetLocation handles GET /v1/locations/:id.
//
// @Summary      Get a location
// @Tags         taxonomy
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Location id"
// @Success      200  {object}  domain.Location
// @Failure      404  {object}  errorResponse
// @Router       /v1/locations/{id} [get]
func (h *TaxonomyHandler) GetLocation(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	item, err := h.service.GetLocation(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// CreateLocation handles POST /v1/locations.
//
// @Summary      Create a location
// @Tags         taxonomy
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      saveTaxonomyRequest  true  "Location"
// @Success      201   {object}  domain.Location
// @Failure      409   {object}  errorResponse
// @Router       /v1/locations [post]
func (h *TaxonomyHandler) CreateLocation(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req saveTaxonomyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.service.CreateLocation(c.Request().Context(), actor, ports.SaveTaxonomyInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateLocation handles PUT /v1/locations/:id.
//
// @Summary      Update a location
// @Tags         taxonomy
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Location id"
// @Param        body  body      saveTaxonomyRequest  true  "Location"
// @Success      200   {object}  domain.Location
// @Failure      404   {object}  errorResponse
// @Router       /v1/locations/{id} [put]
func (h *TaxonomyHandler) UpdateLocation(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req saveTaxonomyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.service.UpdateLocation(c.Request().Context(), actor, ports.SaveTaxonomyInput{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteLocation handles DELETE /v1/locations/:id. Refused while any
// training still references the location.
//
// @Summary      Delete a location
// @Tags         taxonomy
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Location id"
// @Success      200  {object}  successResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/locations/{id} [delete]
func (h *TaxonomyHandler) DeleteLocation(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteLocation(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true, Message: "location deleted"})
}
