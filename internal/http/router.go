package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"feedpress/internal/handler"
)

// NewRouter builds the preview server: the JSON API under /api and the
// generated site at the root. runHandler is nil when the archive is disabled.
func NewRouter(
	siteHandler *handler.SiteHandler,
	runHandler *handler.RunHandler,
	opmlHandler *handler.OPMLHandler,
	staticDir string,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(RequestLoggerMiddleware())

	api := e.Group("/api", NoCacheMiddleware())
	siteHandler.RegisterRoutes(api)
	opmlHandler.RegisterRoutes(api)
	if runHandler != nil {
		runHandler.RegisterRoutes(api)
	}

	registerStatic(e, staticDir)
	return e
}
