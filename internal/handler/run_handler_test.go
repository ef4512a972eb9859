package handler_test

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"
	"time"

	"feedpress/internal/handler"
	"feedpress/internal/model"
	"feedpress/internal/service/mock"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRunHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	archive := mock.NewMockArchiveService(ctrl)
	h := handler.NewRunHandler(archive)

	started := time.Date(2025, 1, 4, 12, 0, 0, 0, time.UTC)
	archive.EXPECT().History(gomock.Any(), 5).Return([]model.Run{
		{ID: 9007199254740993, OutputDir: "public", Layout: "flat", ArticleCount: 2, StartedAt: started, FinishedAt: started},
	}, nil)

	e := newTestEcho()
	c, rec := newTestContext(e, newJSONRequest(http.MethodGet, "/api/runs?limit=5", nil))
	require.NoError(t, h.List(c))

	var resp []handler.RunResponse
	assertJSONResponse(t, rec, http.StatusOK, &resp)
	require.Len(t, resp, 1)
	require.Equal(t, "9007199254740993", resp[0].ID)
	require.Equal(t, 2, resp[0].ArticleCount)
	require.Equal(t, "2025-01-04T12:00:00Z", resp[0].StartedAt)
}

func TestRunHandler_List_InvalidLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := handler.NewRunHandler(mock.NewMockArchiveService(ctrl))

	e := newTestEcho()
	c, rec := newTestContext(e, newJSONRequest(http.MethodGet, "/api/runs?limit=abc", nil))
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunHandler_Articles(t *testing.T) {
	ctrl := gomock.NewController(t)
	archive := mock.NewMockArchiveService(ctrl)
	h := handler.NewRunHandler(archive)

	pub := time.Date(2025, 1, 3, 8, 0, 0, 0, time.UTC)
	archive.EXPECT().RunArticles(gomock.Any(), int64(7)).Return([]model.ArchivedArticle{
		{ID: 1, RunID: 7, Title: "Alpha", Link: "http://x/1", FileName: "article-1.html", PublishedAt: &pub},
		{ID: 2, RunID: 7, Title: "Beta", Link: "http://x/2", FileName: "article-2.html"},
	}, nil)

	e := newTestEcho()
	c, rec := newTestContext(e, newJSONRequest(http.MethodGet, "/api/runs/7/articles", nil))
	setPathParams(c, map[string]string{"id": "7"})
	require.NoError(t, h.Articles(c))

	var resp []handler.ArchivedArticleResponse
	assertJSONResponse(t, rec, http.StatusOK, &resp)
	require.Len(t, resp, 2)
	require.Equal(t, "article-1.html", resp[0].FileName)
	require.NotNil(t, resp[0].PublishedAt)
	require.Equal(t, "2025-01-03T08:00:00Z", *resp[0].PublishedAt)
	require.Nil(t, resp[1].PublishedAt)
}

func TestRunHandler_Articles_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	archive := mock.NewMockArchiveService(ctrl)
	h := handler.NewRunHandler(archive)

	archive.EXPECT().RunArticles(gomock.Any(), int64(8)).Return(nil, fmt.Errorf("get run 8: %w", sql.ErrNoRows))

	e := newTestEcho()
	c, rec := newTestContext(e, newJSONRequest(http.MethodGet, "/api/runs/8/articles", nil))
	setPathParams(c, map[string]string{"id": "8"})
	require.NoError(t, h.Articles(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunHandler_Articles_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := handler.NewRunHandler(mock.NewMockArchiveService(ctrl))

	e := newTestEcho()
	c, rec := newTestContext(e, newJSONRequest(http.MethodGet, "/api/runs/x/articles", nil))
	setPathParams(c, map[string]string{"id": "x"})
	require.NoError(t, h.Articles(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
