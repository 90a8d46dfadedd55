package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/ports"
)

// TemplateHandler handles template requests, including the ones that turn a
// template into a schedule and back.
type TemplateHandler struct {
	templateService ports.TemplateService
	scheduleService ports.ScheduleService
	logger          *logger.Logger
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templateService ports.TemplateService, scheduleService ports.ScheduleService, logger *logger.Logger) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
		scheduleService: scheduleService,
		logger:          logger.WithComponent("template_handler"),
	}
}

// ListTemplates godoc
// @Summary List templates
// @Tags templates
// @Produce json
// @Param category query string false "Only templates of this category"
// @Success 200 {object} Response
// @Router /templates [get]
func (h *TemplateHandler) ListTemplates(c echo.Context) error {
	if category := c.QueryParam("category"); category != "" {
		return h.listByCategory(c, category)
	}
	return c.JSON(http.StatusOK, list(h.templateService.ListTemplates(c.Request().Context())))
}

// ListTemplatesByCategory godoc
// @Summary List templates of one category
// @Tags templates
// @Produce json
// @Param category path string true "Category"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Router /templates/category/{category} [get]
func (h *TemplateHandler) ListTemplatesByCategory(c echo.Context) error {
	return h.listByCategory(c, c.Param("category"))
}

func (h *TemplateHandler) listByCategory(c echo.Context, value string) error {
	category := entities.Category(value)
	if !category.IsValid() {
		return entities.NewValidationError("category", "is not a known category")
	}
	return c.JSON(http.StatusOK, list(h.templateService.ListTemplatesByCategory(c.Request().Context(), category)))
}

// GetTemplate godoc
// @Summary Get template by ID
// @Tags templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Router /templates/{id} [get]
func (h *TemplateHandler) GetTemplate(c echo.Context) error {
	tmpl, err := h.templateService.GetTemplate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Response{Data: tmpl})
}

// CreateTemplate godoc
// @Summary Create a template
// @Tags templates
// @Accept json
// @Produce json
// @Param request body ports.CreateTemplateRequest true "Template data"
// @Success 201 {object} Response
// @Failure 400 {object} ErrorResponse
// @Router /templates [post]
func (h *TemplateHandler) CreateTemplate(c echo.Context) error {
	var req ports.CreateTemplateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tmpl, err := h.templateService.CreateTemplate(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Response{Data: tmpl, Message: "template created"})
}

func (h *TemplateHandler) UpdateTemplate(c echo.Context) error {
	var req ports.UpdateTemplateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tmpl, err := h.templateService.UpdateTemplate(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Response{Data: tmpl, Message: "template updated"})
}

func (h *TemplateHandler) DeleteTemplate(c echo.Context) error {
	if err := h.templateService.DeleteTemplate(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Response{Message: "template deleted"})
}

func (h *TemplateHandler) DuplicateTemplate(c echo.Context) error {
	var req ports.DuplicateTemplateRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
		}
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	dup, err := h.templateService.DuplicateTemplate(c.Request().Context(), c.Param("id"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Response{Data: dup, Message: "template duplicated"})
}

// UseTemplate godoc
// @Summary Create a schedule from a template
// @Tags templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param request body ports.UseTemplateRequest true "Start and overrides"
// @Success 201 {object} Response
// @Failure 404 {object} ErrorResponse
// @Router /templates/{id}/use [post]
func (h *TemplateHandler) UseTemplate(c echo.Context) error {
	var req ports.UseTemplateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	req.TemplateID = c.Param("id")
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := h.scheduleService.CreateFromTemplate(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Response{Data: created, Message: "schedule created from template"})
}

// FromSchedule godoc
// @Summary Create a template from a schedule
// @Tags templates
// @Accept json
// @Produce json
// @Param scheduleId path string true "Schedule ID"
// @Param request body ports.TemplateFromScheduleRequest true "Template name"
// @Success 201 {object} Response
// @Failure 404 {object} ErrorResponse
// @Router /templates/from-schedule/{scheduleId} [post]
func (h *TemplateHandler) FromSchedule(c echo.Context) error {
	var req ports.TemplateFromScheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tmpl, err := h.scheduleService.CreateTemplateFromSchedule(c.Request().Context(), c.Param("scheduleId"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Response{Data: tmpl, Message: "template created from schedule"})
}
