// Package cmd holds the tweetbot command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/creatorstation/tweetbot/internal/config"
	"github.com/creatorstation/tweetbot/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "tweetbot",
	Short: "Scheduled AI-generated tweets, polls and replies",
	Long: `tweetbot posts generated tweets with images every few hours, a weekly poll,
and replies to the conversations under its recent posts.

Run without a subcommand to start the scheduler and HTTP server.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, runCmd, renderCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads the configuration and builds the process logger from it.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
