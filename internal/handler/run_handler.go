package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"feedpress/internal/model"
	"feedpress/internal/service"
)

// RunHandler serves the archived generation history.
type RunHandler struct {
	service service.ArchiveService
}

type runResponse struct {
	ID           string `json:"id"`
	OutputDir    string `json:"outputDir"`
	Layout       string `json:"layout"`
	ArticleCount int    `json:"articleCount"`
	FailedFeeds  int    `json:"failedFeeds"`
	StartedAt    string `json:"startedAt"`
	FinishedAt   string `json:"finishedAt"`
}

type archivedArticleResponse struct {
	ID          string  `json:"id"`
	Hash        string  `json:"hash"`
	FeedTitle   string  `json:"feedTitle"`
	Title       string  `json:"title"`
	Link        string  `json:"link"`
	FileName    string  `json:"fileName"`
	PublishedAt *string `json:"publishedAt,omitempty"`
}

func NewRunHandler(service service.ArchiveService) *RunHandler {
	return &RunHandler{service: service}
}

func (h *RunHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/runs", h.List)
	g.GET("/runs/:id/articles", h.Articles)
}

func (h *RunHandler) List(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return Error(c, http.StatusBadRequest, "invalid request")
		}
		limit = parsed
	}

	runs, err := h.service.History(c.Request().Context(), limit)
	if err != nil {
		return writeServiceError(c, err)
	}
	response := make([]runResponse, 0, len(runs))
	for _, run := range runs {
		response = append(response, toRunResponse(run))
	}
	return c.JSON(http.StatusOK, response)
}

func (h *RunHandler) Articles(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid request")
	}

	articles, err := h.service.RunArticles(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	response := make([]archivedArticleResponse, 0, len(articles))
	for _, a := range articles {
		response = append(response, toArchivedArticleResponse(a))
	}
	return c.JSON(http.StatusOK, response)
}

func toRunResponse(run model.Run) runResponse {
	return runResponse{
		ID:           itoa(run.ID),
		OutputDir:    run.OutputDir,
		Layout:       run.Layout,
		ArticleCount: run.ArticleCount,
		FailedFeeds:  run.FailedFeeds,
		StartedAt:    run.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt:   run.FinishedAt.UTC().Format(time.RFC3339),
	}
}

func toArchivedArticleResponse(a model.ArchivedArticle) archivedArticleResponse {
	resp := archivedArticleResponse{
		ID:        itoa(a.ID),
		Hash:      a.Hash,
		FeedTitle: a.FeedTitle,
		Title:     a.Title,
		Link:      a.Link,
		FileName:  a.FileName,
	}
	if a.PublishedAt != nil {
		formatted := a.PublishedAt.UTC().Format(time.RFC3339)
		resp.PublishedAt = &formatted
	}
	return resp
}
