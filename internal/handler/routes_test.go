package handler_test

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"feedpress/internal/handler"
)

func assertRoute(t *testing.T, routes []*echo.Route, method, path string) {
	t.Helper()
	for _, r := range routes {
		if r.Method == method && r.Path == path {
			return
		}
	}
	t.Fatalf("route not found: %s %s", method, path)
}

func TestHandler_RegisterRoutes(t *testing.T) {
	e := newTestEcho()
	g := e.Group("")

	handler.NewSiteHandler(nil, nil).RegisterRoutes(g)
	handler.NewRunHandler(nil).RegisterRoutes(g)
	handler.NewOPMLHandler("", nil).RegisterRoutes(g)

	routes := e.Routes()

	assertRoute(t, routes, http.MethodGet, "/status")
	assertRoute(t, routes, http.MethodPost, "/generate")
	assertRoute(t, routes, http.MethodGet, "/runs")
	assertRoute(t, routes, http.MethodGet, "/runs/:id/articles")
	assertRoute(t, routes, http.MethodGet, "/opml/export")
}
