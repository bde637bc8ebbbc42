package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/creatorstation/tweetbot/internal/appcron"
	"github.com/creatorstation/tweetbot/internal/config"
	"github.com/creatorstation/tweetbot/internal/db"
	"github.com/creatorstation/tweetbot/internal/dedup"
	"github.com/creatorstation/tweetbot/internal/generator"
	"github.com/creatorstation/tweetbot/internal/history"
	"github.com/creatorstation/tweetbot/internal/poster"
	"github.com/creatorstation/tweetbot/internal/responder"
	"github.com/creatorstation/tweetbot/internal/twitter"
	"github.com/creatorstation/tweetbot/pkg/web"
)

// replyGuardTTL bounds how long an answered tweet id is remembered.
const replyGuardTTL = 30 * 24 * time.Hour

// app is everything a command needs, wired once from the configuration.
type app struct {
	scheduler *appcron.Scheduler
	poster    *poster.Poster
	closers   []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}

	gen, err := generator.New(ctx, cfg.Generation, generator.WithTimeout(cfg.HTTPTimeout))
	if err != nil {
		return nil, fmt.Errorf("error creating generator: %w", err)
	}

	web.SetTimeout(cfg.HTTPTimeout)
	tw := twitter.NewClient(cfg.Twitter, cfg.HTTPTimeout)
	a.poster = poster.New(tw, logger)

	replies := responder.New(tw, gen, cfg.Generation.PromptReply, logger)
	if cfg.ReplyDedup {
		rdb, err := dedup.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("error connecting to redis: %w", err)
		}
		a.closers = append(a.closers, func() { rdb.Close() })
		replies.WithGuard(dedup.NewRedisGuard(rdb, replyGuardTTL))
		logger.Info("Reply dedup enabled", zap.String("redis", cfg.RedisAddr))
	}

	recorder, err := newRecorder(ctx, cfg, a)
	if err != nil {
		a.Close()
		return nil, err
	}

	opts := []appcron.Option{appcron.WithRecorder(recorder)}
	if cfg.SentryDSN != "" {
		client, err := sentry.NewClient(sentry.ClientOptions{Dsn: cfg.SentryDSN})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("error initializing sentry: %w", err)
		}
		a.closers = append(a.closers, func() { client.Flush(2 * time.Second) })
		opts = append(opts, appcron.WithSentry(sentry.NewHub(client, sentry.NewScope())))
	}

	loc, err := appcron.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("invalid CRON_TZ: %w", err)
	}

	a.scheduler = appcron.NewScheduler(loc, logger, opts...)
	err = appcron.Setup(a.scheduler, cfg.Schedule, appcron.Deps{
		Generator: gen,
		Publisher: a.poster,
		Responder: replies,
		Timeline:  tw,
		Prompts:   appcron.PromptsFromConfig(cfg.Generation),
		UserID:    cfg.Twitter.UserID,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// newRecorder picks the run history backend: Postgres, then MongoDB, else none.
func newRecorder(ctx context.Context, cfg *config.Config, a *app) (history.Recorder, error) {
	switch {
	case cfg.DatabaseDSN != "":
		gdb, err := db.ConnectPG(cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("error connecting to postgres: %w", err)
		}
		if sqlDB, err := gdb.DB(); err == nil {
			a.closers = append(a.closers, func() { sqlDB.Close() })
		}
		return history.NewGormRecorder(gdb)
	case cfg.MongoURI != "":
		database, err := db.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("error connecting to mongo: %w", err)
		}
		a.closers = append(a.closers, func() { database.Client().Disconnect(context.Background()) })
		return history.NewMongoRecorder(database), nil
	default:
		return history.Nop{}, nil
	}
}
