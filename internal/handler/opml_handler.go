package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"feedpress/internal/config"
	"feedpress/internal/service"
)

// OPMLHandler exports the resolved feed list.
type OPMLHandler struct {
	title   string
	sources service.SourceFunc
}

func NewOPMLHandler(title string, sources service.SourceFunc) *OPMLHandler {
	return &OPMLHandler{title: title, sources: sources}
}

func (h *OPMLHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/opml/export", h.Export)
}

func (h *OPMLHandler) Export(c echo.Context) error {
	sources, err := h.sources()
	if err != nil {
		return writeServiceError(c, err)
	}
	payload, err := config.ExportOPML(h.title, sources)
	if err != nil {
		return writeServiceError(c, err)
	}
	c.Response().Header().Set("Content-Disposition", `attachment; filename="feedpress.opml"`)
	return c.Blob(http.StatusOK, "application/xml", payload)
}
