package cli

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

func (c *CLI) generateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Fetch all feeds and render the site once",
		Long: `Fetch every configured feed, attach QR codes, render one page per article
and write index.html. Feeds that fail are skipped; any other error aborts the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.generator.Generate(cmd.Context(), cfg.Feeds)
			if err != nil {
				return err
			}

			c.ui.printSuccess("Generated %d articles in %s", len(result.Articles), result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))
			c.ui.printFile(filepath.Join(result.OutputDir, "index.html"))
			if len(result.FailedFeeds) > 0 {
				c.ui.printWarning("%d of %d feeds failed", len(result.FailedFeeds), len(cfg.Feeds))
				for _, u := range result.FailedFeeds {
					c.ui.printDetail("%s", u)
				}
			}
			return nil
		},
	}
}
