package responder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/creatorstation/tweetbot/internal/generator"
	"github.com/creatorstation/tweetbot/internal/twitter"
)

type Platform interface {
	SearchConversation(ctx context.Context, conversationID string) ([]twitter.Tweet, error)
	Reply(ctx context.Context, text, tweetID string) (string, error)
}

// Guard remembers which tweets were already answered.
type Guard interface {
	Seen(ctx context.Context, tweetID string) (bool, error)
	Mark(ctx context.Context, tweetID string) error
}

// Responder answers every reply in a conversation with a generated reply.
// Without a Guard, running it twice over the same thread answers every reply twice.
type Responder struct {
	platform Platform
	text     generator.TextGenerator
	prompt   string
	guard    Guard
	logger   *zap.Logger
}

// New builds a Responder. prompt is a format string receiving the reply text via %s.
func New(platform Platform, text generator.TextGenerator, prompt string, logger *zap.Logger) *Responder {
	return &Responder{
		platform: platform,
		text:     text,
		prompt:   prompt,
		logger:   logger,
	}
}

func (r *Responder) WithGuard(guard Guard) *Responder {
	r.guard = guard
	return r
}

// ReplyToThread replies to every tweet in the conversation rooted at postID except
// the root itself. It stops at the first failure.
func (r *Responder) ReplyToThread(ctx context.Context, postID string) error {
	tweets, err := r.platform.SearchConversation(ctx, postID)
	if err != nil {
		return fmt.Errorf("error searching conversation %s: %w", postID, err)
	}

	for _, tweet := range tweets {
		if tweet.ID == postID {
			continue
		}

		if r.guard != nil {
			seen, err := r.guard.Seen(ctx, tweet.ID)
			if err != nil {
				return fmt.Errorf("error checking reply guard for %s: %w", tweet.ID, err)
			}
			if seen {
				r.logger.Debug("Already replied, skipping", zap.String("tweet_id", tweet.ID))
				continue
			}
		}

		text, err := r.text.GenerateText(ctx, fmt.Sprintf(r.prompt, tweet.Text))
		if err != nil {
			return fmt.Errorf("error generating reply to %s: %w", tweet.ID, err)
		}

		if _, err := r.platform.Reply(ctx, text, tweet.ID); err != nil {
			return fmt.Errorf("error replying to %s: %w", tweet.ID, err)
		}

		if r.guard != nil {
			if err := r.guard.Mark(ctx, tweet.ID); err != nil {
				r.logger.Warn("Failed to mark reply", zap.String("tweet_id", tweet.ID), zap.Error(err))
			}
		}

		r.logger.Info("Replied to comment", zap.String("tweet_id", tweet.ID))
	}

	return nil
}
