package http

import (
	"time"

	"github.com/labstack/echo/v4"

	"feedpress/pkg/logger"
)

// RequestLoggerMiddleware logs one line per request; 4xx as warn, 5xx as error.
func RequestLoggerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			args := []any{
				"module", "http", "action", "request", "resource", "http",
				"method", req.Method, "path", req.URL.Path, "status", status,
				"duration", time.Since(start).Round(time.Microsecond),
			}
			switch {
			case status >= 500:
				logger.Error("http request", append(args, "result", "failed")...)
			case status >= 400:
				logger.Warn("http request", append(args, "result", "failed")...)
			default:
				logger.Debug("http request", append(args, "result", "ok")...)
			}
			return nil
		}
	}
}

// NoCacheMiddleware makes browsers revalidate every page so a regenerated
// site shows up on reload.
func NoCacheMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			return next(c)
		}
	}
}
