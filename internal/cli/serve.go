package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"feedpress/internal/handler"
	apphttp "feedpress/internal/http"
	"feedpress/internal/scheduler"
	"feedpress/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated site for preview",
		Long: `Serve the output directory over HTTP together with a small JSON API
(/api/status, /api/generate, /api/runs, /api/opml/export).
With --watch the site is regenerated on the configured interval.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Serve.Addr
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			sources := c.sourceFunc()
			var runHandler *handler.RunHandler
			if a.archive != nil {
				runHandler = handler.NewRunHandler(a.archive)
			}
			e := apphttp.NewRouter(
				handler.NewSiteHandler(a.generator, sources),
				runHandler,
				handler.NewOPMLHandler(cfg.SiteTitle, sources),
				cfg.OutputDir,
			)

			if watch {
				s := scheduler.New(a.generator, sources, cfg.Watch.Interval)
				s.Start()
				defer s.Stop()
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server listening", "module", "cli", "action", "serve", "resource", "http", "result", "ok", "addr", addr)
				if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()
			c.ui.printSuccess("Serving %s on %s", cfg.OutputDir, addr)

			select {
			case err, ok := <-errCh:
				if ok {
					return err
				}
				return nil
			case <-cmd.Context().Done():
			}

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := e.Shutdown(ctx); err != nil {
				return err
			}
			logger.Info("server stopped", "module", "cli", "action", "shutdown", "resource", "http", "result", "ok")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&watch, "watch", false, "regenerate the site periodically while serving")
	return cmd
}
