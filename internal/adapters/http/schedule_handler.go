package http

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/planner/internal/adapters/export"
	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/ports"
)

// maxICSBody bounds the size of an uploaded calendar.
const maxICSBody = 5 << 20

// ScheduleHandler handles schedule-related requests
type ScheduleHandler struct {
	scheduleService ports.ScheduleService
	logger          *logger.Logger
	now             func() time.Time
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(scheduleService ports.ScheduleService, logger *logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
		logger:          logger.WithComponent("schedule_handler"),
		now:             time.Now,
	}
}

// ListSchedules godoc
// @Summary List schedules
// @Description List schedules ordered by start date, optionally filtered
// @Tags schedules
// @Produce json
// @Param category query string false "Category"
// @Param priority query string false "Priority"
// @Param isCompleted query bool false "Completion state"
// @Param startDate query string false "Start of range (RFC3339 or YYYY-MM-DD)"
// @Param endDate query string false "End of range (RFC3339 or YYYY-MM-DD)"
// @Param search query string false "Substring of title or description"
// @Param tags query string false "Comma-separated tags, any match"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Router /schedules [get]
func (h *ScheduleHandler) ListSchedules(c echo.Context) error {
	query, err := parseScheduleQuery(c)
	if err != nil {
		return err
	}

	schedules := h.scheduleService.ListSchedules(c.Request().Context(), query)
	return c.JSON(http.StatusOK, list(schedules))
}

// GetSchedule godoc
// @Summary Get schedule by ID
// @Tags schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) GetSchedule(c echo.Context) error {
	schedule, err := h.scheduleService.GetSchedule(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Response{Data: schedule})
}

// CreateSchedule godoc
// @Summary Create a schedule
// @Description Create a schedule; repeating schedules also store their occurrences
// @Tags schedules
// @Accept json
// @Produce json
// @Param request body ports.CreateScheduleRequest true "Schedule data"
// @Success 201 {object} Response
// @Failure 400 {object} ErrorResponse
// @Router /schedules [post]
func (h *ScheduleHandler) CreateSchedule(c echo.Context) error {
	var req ports.CreateScheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, occurrences, err := h.scheduleService.CreateSchedule(c.Request().Context(), req)
	if err != nil {
		return err
	}

	msg := "schedule created"
	if occurrences > 0 {
		msg = fmt.Sprintf("schedule created with %d occurrences", occurrences)
	}
	return c.JSON(http.StatusCreated, Response{Data: created, Message: msg})
}

// UpdateSchedule godoc
// @Summary Update a schedule
// @Tags schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param request body ports.UpdateScheduleRequest true "Fields to change"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /schedules/{id} [put]
func (h *ScheduleHandler) UpdateSchedule(c echo.Context) error {
	var req ports.UpdateScheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := h.scheduleService.UpdateSchedule(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Response{Data: updated, Message: "schedule updated"})
}

// DeleteSchedule godoc
// @Summary Delete a schedule
// @Tags schedules
// @Param id path string true "Schedule ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) DeleteSchedule(c echo.Context) error {
	if err := h.scheduleService.DeleteSchedule(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Response{Message: "schedule deleted"})
}

// DeleteSchedules godoc
// @Summary Delete several schedules
// @Tags schedules
// @Accept json
// @Produce json
// @Param request body ports.BulkDeleteRequest true "IDs to delete"
// @Success 200 {object} Response
// @Router /schedules/bulk [delete]
func (h *ScheduleHandler) DeleteSchedules(c echo.Context) error {
	var req ports.BulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.scheduleService.DeleteSchedules(c.Request().Context(), req.IDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Response{
		Data:    result,
		Message: fmt.Sprintf("%d schedules deleted", result.DeletedCount),
	})
}

// DeleteAllSchedules godoc
// @Summary Delete every schedule
// @Description Backs up the schedule file, then clears it
// @Tags schedules
// @Success 200 {object} Response
// @Router /schedules/all [delete]
func (h *ScheduleHandler) DeleteAllSchedules(c echo.Context) error {
	deleted, err := h.scheduleService.DeleteAllSchedules(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Response{
		Data:    map[string]int{"deletedCount": deleted},
		Message: fmt.Sprintf("%d schedules deleted", deleted),
	})
}

// Analytics godoc
// @Summary Schedule analytics
// @Tags schedules
// @Produce json
// @Success 200 {object} Response
// @Router /schedules/analytics [get]
func (h *ScheduleHandler) Analytics(c echo.Context) error {
	return c.JSON(http.StatusOK, Response{Data: h.scheduleService.Analytics(c.Request().Context())})
}

// Stats godoc
// @Summary Data file statistics
// @Tags schedules
// @Produce json
// @Success 200 {object} Response
// @Router /schedules/stats [get]
func (h *ScheduleHandler) Stats(c echo.Context) error {
	stats, err := h.scheduleService.DataStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Response{Data: stats})
}

// Export godoc
// @Summary Export schedules
// @Description Download every schedule as json, csv, yaml or ics
// @Tags schedules
// @Produce json,text/csv,application/yaml,text/calendar
// @Param format path string false "json, csv, yaml or ics"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Router /schedules/export/{format} [get]
func (h *ScheduleHandler) Export(c echo.Context) error {
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	stats, err := h.scheduleService.DataStats(ctx)
	if err != nil {
		return err
	}

	snap := export.Snapshot{
		Schedules:  h.scheduleService.ListSchedules(ctx, ports.ScheduleQuery{}),
		Stats:      stats,
		ExportedAt: h.now().UTC(),
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, snap); err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}

	h.logger.Infow("Schedules exported", "format", format, "count", len(snap.Schedules))
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", format.FileName(snap.ExportedAt)))
	return c.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}

// Import godoc
// @Summary Import schedules
// @Description Back up, then re-create each record with a fresh id
// @Tags schedules
// @Accept json
// @Produce json
// @Param request body ports.ImportRequest true "Records to import"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Router /schedules/import [post]
func (h *ScheduleHandler) Import(c echo.Context) error {
	var req ports.ImportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.scheduleService.Import(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, importResponse(result))
}

// ImportICS godoc
// @Summary Import an iCalendar feed
// @Tags schedules
// @Accept text/calendar
// @Produce json
// @Param replace query bool false "Replace every stored schedule"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Router /schedules/import/ics [post]
func (h *ScheduleHandler) ImportICS(c echo.Context) error {
	replace := false
	if v := c.QueryParam("replace"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return entities.NewValidationError("replace", "must be a boolean")
		}
		replace = b
	}

	records, problems, err := export.ReadICS(io.LimitReader(c.Request().Body, maxICSBody))
	if err != nil {
		return entities.NewValidationError("calendar", err.Error())
	}

	result, err := h.scheduleService.Import(c.Request().Context(), ports.ImportRequest{
		Schedules: records,
		Replace:   replace,
	})
	if err != nil {
		return err
	}

	result.Errors = append(problems, result.Errors...)
	result.ErrorCount += len(problems)
	return c.JSON(http.StatusOK, importResponse(result))
}

func importResponse(result ports.ImportResult) Response {
	return Response{
		Data:    result,
		Message: fmt.Sprintf("imported %d schedules, %d errors", result.ImportedCount, result.ErrorCount),
	}
}

// parseScheduleQuery reads the list filters. Dates accept RFC3339 or a bare
// YYYY-MM-DD in UTC.
func parseScheduleQuery(c echo.Context) (ports.ScheduleQuery, error) {
	var (
		q    ports.ScheduleQuery
		errs entities.ValidationErrors
	)

	if v := c.QueryParam("category"); v != "" {
		category := entities.Category(v)
		if !category.IsValid() {
			errs = append(errs, entities.ValidationError{Field: "category", Message: "is not a known category"})
		}
		q.Category = &category
	}
	if v := c.QueryParam("priority"); v != "" {
		priority := entities.Priority(v)
		if !priority.IsValid() {
			errs = append(errs, entities.ValidationError{Field: "priority", Message: "is not a known priority"})
		}
		q.Priority = &priority
	}
	if v := c.QueryParam("isCompleted"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, entities.ValidationError{Field: "isCompleted", Message: "must be a boolean"})
		}
		q.IsCompleted = &b
	}
	for _, d := range []struct {
		field string
		dst   **time.Time
	}{{"startDate", &q.StartDate}, {"endDate", &q.EndDate}} {
		v := c.QueryParam(d.field)
		if v == "" {
			continue
		}
		t, err := parseDate(v)
		if err != nil {
			errs = append(errs, entities.ValidationError{Field: d.field, Message: "must be an RFC3339 timestamp or YYYY-MM-DD"})
			continue
		}
		*d.dst = &t
	}

	q.Search = strings.TrimSpace(c.QueryParam("search"))
	if v := c.QueryParam("tags"); v != "" {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				q.Tags = append(q.Tags, tag)
			}
		}
	}

	if len(errs) > 0 {
		return q, errs
	}
	return q, nil
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
