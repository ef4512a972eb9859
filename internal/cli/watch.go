package cli

import (
	"github.com/spf13/cobra"

	"feedpress/internal/scheduler"
)

func (c *CLI) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the site on a fixed interval",
		Long: `Generate the site immediately and then every watch.interval until interrupted.
The feed list is re-read from the config before each run.`,
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

			s := scheduler.New(a.generator, c.sourceFunc(), cfg.Watch.Interval)
			c.ui.printInfo("Watching %d feeds every %s", len(cfg.Feeds), cfg.Watch.Interval)
			s.Start()

			<-cmd.Context().Done()
			s.Stop()
			return nil
		},
	}
}
