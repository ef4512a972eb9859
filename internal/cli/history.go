package cli

import (
	"errors"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var errArchiveDisabled = errors.New("archive is disabled (set archive.enabled in the config)")

func (c *CLI) historyCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List archived runs, or the articles of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cfg.Archive.Enabled {
				return errArchiveDisabled
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if len(args) == 1 {
				runID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return errors.New("run id must be a number")
				}
				articles, err := a.archive.RunArticles(cmd.Context(), runID)
				if err != nil {
					return err
				}
				c.ui.printTitle("Run %d", runID)
				for _, article := range articles {
					c.ui.printKeyValue(article.FileName, article.Title)
					c.ui.printDetail("%s · %s", article.FeedTitle, article.Link)
				}
				return nil
			}

			runs, err := a.archive.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				c.ui.printInfo("No runs archived yet")
				return nil
			}
			for _, run := range runs {
				c.ui.printKeyValue(strconv.FormatInt(run.ID, 10), run.StartedAt.Local().Format(time.DateTime))
				c.ui.printDetail("%d articles, %d failed feeds, %s layout", run.ArticleCount, run.FailedFeeds, run.Layout)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	return cmd
}
