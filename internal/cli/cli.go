// Package cli implements the feedpress command-line interface.
package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"feedpress/internal/config"
	"feedpress/internal/model"
	"feedpress/internal/service"
	"feedpress/pkg/logger"
)

var version = "dev"

// SetVersion sets the version displayed by --version; main injects it via ldflags.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// CLI holds shared state for all commands.
type CLI struct {
	out        io.Writer
	ui         *ui
	configPath string
	verbose    bool
}

func New(out io.Writer) *CLI {
	return &CLI{out: out, ui: newUI(out)}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "feedpress",
		Short:         "feedpress renders RSS/Atom feeds into a static reading site",
		Long:          `feedpress fetches a list of feeds, attaches a QR code to every article and writes one HTML page per article plus an index.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(c.out)

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default $FEEDPRESS_CONFIG or "+config.DefaultPath+")")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.feedsCommand())

	return root
}

// loadConfig reads the configuration and sets the log level from it.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	level := logger.ParseLevel(cfg.LogLevel)
	if c.verbose {
		level = slog.LevelDebug
	}
	logger.Init(level)
	return cfg, nil
}

// sourceFunc re-reads the configuration on every call so long-running
// commands pick up feed list edits.
func (c *CLI) sourceFunc() service.SourceFunc {
	return func() ([]model.FeedSource, error) {
		cfg, err := config.Load(c.configPath)
		if err != nil {
			return nil, err
		}
		return cfg.Feeds, nil
	}
}
