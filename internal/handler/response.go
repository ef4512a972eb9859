package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"feedpress/internal/service"
	"feedpress/pkg/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

// Error writes a JSON error body with the given status.
func Error(c echo.Context, status int, message string) error {
	return c.JSON(status, errorResponse{Error: message})
}

func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalid):
		return Error(c, http.StatusBadRequest, "invalid request")
	case errors.Is(err, sql.ErrNoRows):
		return Error(c, http.StatusNotFound, "resource not found")
	case errors.Is(err, service.ErrAlreadyRunning):
		return Error(c, http.StatusConflict, "generation already in progress")
	case errors.Is(err, service.ErrFeedFetch):
		return Error(c, http.StatusBadGateway, "feed fetch failed")
	default:
		logger.Error("request failed", "module", "handler", "action", "request", "resource", "http", "result", "failed", "path", c.Request().URL.Path, "error", err)
		return Error(c, http.StatusInternalServerError, "internal error")
	}
}

func itoa(value int64) string {
	return strconv.FormatInt(value, 10)
}
