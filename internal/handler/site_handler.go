package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"feedpress/internal/service"
)

// SiteHandler exposes generator status and on-demand regeneration.
type SiteHandler struct {
	generator service.GeneratorService
	sources   service.SourceFunc
}

type generateResponse struct {
	RunID       string   `json:"runId"`
	Articles    int      `json:"articles"`
	FailedFeeds []string `json:"failedFeeds"`
	StartedAt   string   `json:"startedAt"`
	FinishedAt  string   `json:"finishedAt"`
}

func NewSiteHandler(generator service.GeneratorService, sources service.SourceFunc) *SiteHandler {
	return &SiteHandler{generator: generator, sources: sources}
}

func (h *SiteHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/status", h.Status)
	g.POST("/generate", h.Generate)
}

func (h *SiteHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, h.generator.GetStatus())
}

func (h *SiteHandler) Generate(c echo.Context) error {
	if h.generator.IsGenerating() {
		return writeServiceError(c, service.ErrAlreadyRunning)
	}
	sources, err := h.sources()
	if err != nil {
		return writeServiceError(c, err)
	}

	result, err := h.generator.Generate(c.Request().Context(), sources)
	if err != nil {
		return writeServiceError(c, err)
	}

	failed := result.FailedFeeds
	if failed == nil {
		failed = []string{}
	}
	return c.JSON(http.StatusOK, generateResponse{
		RunID:       itoa(result.RunID),
		Articles:    len(result.Articles),
		FailedFeeds: failed,
		StartedAt:   result.StartedAt.Format(time.RFC3339),
		FinishedAt:  result.FinishedAt.Format(time.RFC3339),
	})
}
