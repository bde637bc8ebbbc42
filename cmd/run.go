package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/creatorstation/tweetbot/internal/appcron"
	"github.com/creatorstation/tweetbot/internal/models"
)

var runCmd = &cobra.Command{
	Use:       "run <tweet|poll|replies>",
	Short:     "Run one job immediately and exit",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{appcron.JobTweet, appcron.JobPoll, appcron.JobReplies},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		a, err := newApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		run := a.scheduler.Run(cmd.Context(), args[0], appcron.TriggerCLI)
		if run.Status != models.RunStatusOK {
			return fmt.Errorf("%s job failed: %s", args[0], run.Error)
		}

		if run.PostIDs != "" {
			fmt.Fprintln(cmd.OutOrStdout(), strings.ReplaceAll(run.PostIDs, ",", "\n"))
		}
		return nil
	},
}
