package cli

import (
	"database/sql"
	"fmt"

	"feedpress/internal/config"
	"feedpress/internal/db"
	"feedpress/internal/repository"
	"feedpress/internal/service"
	"feedpress/internal/site"
	"feedpress/pkg/logger"
	"feedpress/pkg/network"
	"feedpress/pkg/sanitizer"
)

// app is the wired service graph for one command invocation.
type app struct {
	cfg       config.Config
	generator service.GeneratorService
	archive   service.ArchiveService // nil when the archive is disabled
	database  *sql.DB
}

func newApp(cfg config.Config) (*app, error) {
	var proxy network.ProxyProvider
	if cfg.ProxyURL != "" {
		proxy = network.StaticProxy(cfg.ProxyURL)
	}
	clientFactory := network.NewClientFactory(proxy)

	fetcher := service.NewFeedFetcher(clientFactory, service.FetcherOptions{
		UserAgent:    cfg.UserAgent,
		Timeout:      cfg.RequestTimeout,
		HostInterval: cfg.HostInterval,
		Impersonate:  cfg.ImpersonateBrowser,
	})
	qr, err := service.NewQREncoder(cfg.QR.Size, cfg.QR.Level)
	if err != nil {
		return nil, err
	}

	var extractor service.ContentExtractor
	if cfg.FullContent {
		extractor = service.NewContentExtractor(clientFactory)
	}

	a := &app{cfg: cfg}
	if cfg.Archive.Enabled {
		database, err := db.Open(cfg.Archive.Path)
		if err != nil {
			return nil, fmt.Errorf("open archive: %w", err)
		}
		a.database = database
		a.archive = service.NewArchiveService(repository.NewRunRepository(database))
		logger.Debug("archive opened", "module", "cli", "action", "open", "resource", "archive", "result", "ok", "path", cfg.Archive.Path)
	}

	a.generator = service.NewGeneratorService(fetcher, qr, extractor, a.archive, site.NewWriter(cfg.OutputDir), service.GeneratorOptions{
		SiteTitle:       cfg.SiteTitle,
		Layout:          cfg.Layout,
		Order:           cfg.Order,
		MaxItemsPerFeed: cfg.MaxItemsPerFeed,
		Concurrency:     cfg.Concurrency,
		Harden:          cfg.Sanitize.Harden,
		Style: sanitizer.Style{
			MaxWidth:        cfg.Sanitize.MaxWidth,
			BackgroundColor: cfg.Sanitize.BackgroundColor,
			HeadingFontSize: cfg.Sanitize.HeadingFontSize,
		},
		FullContent: cfg.FullContent,
	})
	return a, nil
}

func (a *app) Close() error {
	if a.database != nil {
		return a.database.Close()
	}
	return nil
}
