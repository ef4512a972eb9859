package cli

import (
	"os"

	"github.com/spf13/cobra"

	"feedpress/internal/config"
)

func (c *CLI) feedsCommand() *cobra.Command {
	var exportPath string

	cmd := &cobra.Command{
		Use:   "feeds",
		Short: "Print the resolved feed sources",
		Long: `Print the feed list after config, environment and OPML sources are merged.
With --export-opml the list is also written as an OPML document ("-" for stdout).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			if exportPath != "" {
				data, err := config.ExportOPML(cfg.SiteTitle, cfg.Feeds)
				if err != nil {
					return err
				}
				if exportPath == "-" {
					_, err = c.out.Write(data)
					return err
				}
				if err := os.WriteFile(exportPath, data, 0o644); err != nil {
					return err
				}
				c.ui.printSuccess("Exported %d feeds", len(cfg.Feeds))
				c.ui.printFile(exportPath)
				return nil
			}

			c.ui.printTitle("%d feeds", len(cfg.Feeds))
			for _, feed := range cfg.Feeds {
				c.ui.printKeyValue(feed.Title, feed.URL)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&exportPath, "export-opml", "", "write the feed list as OPML to this path")
	return cmd
}
