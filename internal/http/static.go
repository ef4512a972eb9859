package http

import (
	nethttp "net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"feedpress/internal/site"
)

// registerStatic serves the generated site. Files are looked up per request
// because the directory is wiped and rebuilt by every run.
func registerStatic(e *echo.Echo, dir string) {
	if dir == "" {
		return
	}
	fileServer := nethttp.FileServer(nethttp.Dir(dir))

	e.GET("/*", func(c echo.Context) error {
		requestPath := c.Request().URL.Path
		if requestPath == "/api" || strings.HasPrefix(requestPath, "/api/") {
			return echo.ErrNotFound
		}

		cleanPath := strings.TrimPrefix(path.Clean(requestPath), "/")
		if cleanPath == "." || cleanPath == "" {
			cleanPath = site.IndexFile
		}

		candidate := filepath.Join(dir, filepath.FromSlash(cleanPath))
		fileInfo, err := os.Stat(candidate)
		if err != nil || fileInfo.IsDir() {
			return echo.ErrNotFound
		}
		if cleanPath == site.IndexFile {
			return c.File(candidate)
		}
		fileServer.ServeHTTP(c.Response(), c.Request())
		return nil
	}, NoCacheMiddleware())
}
