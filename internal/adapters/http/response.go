package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/planner/internal/adapters/export"
	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/infrastructure/validation"
)

// Response is the envelope for every successful API response.
type Response struct {
	Data    interface{} `json:"data,omitempty"`
	Total   *int        `json:"total,omitempty"`
	Message string      `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func list[T any](items []T) Response {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	return Response{Data: items, Total: &n}
}

// CustomValidator plugs the domain validator into echo.
type CustomValidator struct {
	validator *validation.Validator
}

func NewCustomValidator() *CustomValidator {
	return &CustomValidator{validator: validation.New()}
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// NewErrorHandler maps domain errors onto status codes and the error
// envelope.
func NewErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code, body := classify(err)

		if code >= http.StatusInternalServerError {
			log.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		if c.Response().Committed {
			return
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			log.Errorw("Error sending response", "error", err)
		}
	}
}

func classify(err error) (int, ErrorResponse) {
	var (
		he    *echo.HTTPError
		verrs entities.ValidationErrors
	)

	switch {
	case errors.As(err, &he):
		msg := fmt.Sprint(he.Message)
		if m, ok := he.Message.(string); ok {
			msg = m
		}
		return he.Code, ErrorResponse{Error: msg}
	case errors.As(err, &verrs):
		return http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: verrs}
	case errors.Is(err, entities.ErrInvalidDateRange):
		return http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: entities.NewValidationError("endDate", entities.ErrInvalidDateRange.Error()),
		}
	case errors.Is(err, entities.ErrScheduleNotFound):
		return http.StatusNotFound, ErrorResponse{Error: entities.ErrScheduleNotFound.Error()}
	case errors.Is(err, entities.ErrTemplateNotFound):
		return http.StatusNotFound, ErrorResponse{Error: entities.ErrTemplateNotFound.Error()}
	case errors.Is(err, export.ErrUnsupportedFormat):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error()}
	case errors.Is(err, entities.ErrPersistence):
		return http.StatusInternalServerError, ErrorResponse{Error: entities.ErrPersistence.Error()}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: http.StatusText(http.StatusInternalServerError)}
}
