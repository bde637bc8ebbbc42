package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/creatorstation/tweetbot/internal/api"
	"github.com/creatorstation/tweetbot/internal/appcron"
	"github.com/creatorstation/tweetbot/internal/config"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scheduler and the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		server := newServer(cfg, a, logger)

		a.scheduler.Start()
		logger.Info("Scheduler started", zap.Strings("jobs", a.scheduler.Jobs()))

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("Server listening", zap.String("port", cfg.Port))
			return server.Listen(":" + cfg.Port)
		})
		g.Go(func() error {
			<-ctx.Done()
			logger.Info("Shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			return errors.Join(
				server.ShutdownWithContext(shutdownCtx),
				a.scheduler.Stop(shutdownCtx),
			)
		})

		return g.Wait()
	},
}

// newServer mounts the health routes, and the write and job routes when an
// admin token is configured.
func newServer(cfg *config.Config, a *app, logger *zap.Logger) *fiber.App {
	server := fiber.New(fiber.Config{DisableStartupMessage: true})
	api.MountHealth(server)

	if cfg.AdminToken == "" {
		logger.Warn("ADMIN_TOKEN is not set, write and job routes are disabled")
		return server
	}

	auth := api.TokenAuth(cfg.AdminToken)
	api.MountController(server, a.poster, logger, auth)
	appcron.MountController(server.Group("/jobs", auth), a.scheduler)
	return server
}
