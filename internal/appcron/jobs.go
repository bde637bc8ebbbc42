package appcron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/creatorstation/tweetbot/internal/config"
	"github.com/creatorstation/tweetbot/internal/generator"
	"github.com/creatorstation/tweetbot/internal/poster"
	"github.com/creatorstation/tweetbot/internal/twitter"
)

const (
	JobTweet   = "tweet"
	JobPoll    = "poll"
	JobReplies = "replies"

	// RecentPostsCount is how many of the bot's own posts the replies job revisits.
	RecentPostsCount = 5
)

type Publisher interface {
	Post(ctx context.Context, text, imageURL string) (string, error)
	PostPoll(ctx context.Context, question string, options []string) (string, error)
}

type ThreadResponder interface {
	ReplyToThread(ctx context.Context, postID string) error
}

type Timeline interface {
	UserTimeline(ctx context.Context, userID string, maxResults int) ([]twitter.Tweet, error)
}

type Prompts struct {
	Tweet       string
	Image       string
	Poll        string
	PollOptions string
}

func PromptsFromConfig(cfg config.Generation) Prompts {
	return Prompts{
		Tweet:       cfg.PromptTweet,
		Image:       cfg.PromptImage,
		Poll:        cfg.PromptPoll,
		PollOptions: cfg.PromptOption,
	}
}

// Deps are the client handles the jobs run against, built once at startup.
type Deps struct {
	Generator generator.Generator
	Publisher Publisher
	Responder ThreadResponder
	Timeline  Timeline
	Prompts   Prompts
	UserID    string
}

// Setup registers the tweet, poll and replies jobs on s.
func Setup(s *Scheduler, schedule config.Schedule, deps Deps) error {
	for _, job := range []struct {
		name string
		spec string
		fn   JobFunc
	}{
		{JobTweet, schedule.Tweet, TweetJob(deps)},
		{JobPoll, schedule.Poll, PollJob(deps)},
		{JobReplies, schedule.Replies, RepliesJob(deps)},
	} {
		if err := s.Register(job.name, job.spec, job.fn); err != nil {
			return err
		}
	}
	return nil
}

// LoadLocation resolves the cron time zone; empty means the server's local zone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

// TweetJob generates a tweet, an image prompt derived from it and an image, then posts both.
func TweetJob(d Deps) JobFunc {
	return func(ctx context.Context) ([]string, error) {
		text, err := d.Generator.GenerateText(ctx, d.Prompts.Tweet)
		if err != nil {
			return nil, fmt.Errorf("error generating tweet: %w", err)
		}

		imagePrompt, err := d.Generator.GenerateText(ctx, d.Prompts.Image+text)
		if err != nil {
			return nil, fmt.Errorf("error generating image prompt: %w", err)
		}

		imageURL, err := d.Generator.GenerateImage(ctx, imagePrompt)
		if err != nil {
			return nil, fmt.Errorf("error generating image: %w", err)
		}

		id, err := d.Publisher.Post(ctx, text, imageURL)
		if err != nil {
			return nil, err
		}
		return []string{id}, nil
	}
}

// PollJob generates a question and its options and posts them as a poll.
func PollJob(d Deps) JobFunc {
	return func(ctx context.Context) ([]string, error) {
		question, err := d.Generator.GenerateText(ctx, d.Prompts.Poll)
		if err != nil {
			return nil, fmt.Errorf("error generating poll question: %w", err)
		}

		raw, err := d.Generator.GenerateText(ctx, d.Prompts.PollOptions+question)
		if err != nil {
			return nil, fmt.Errorf("error generating poll options: %w", err)
		}

		id, err := d.Publisher.PostPoll(ctx, question, poster.SplitPollOptions(raw))
		if err != nil {
			return nil, err
		}
		return []string{id}, nil
	}
}

// RepliesJob answers the conversations under the bot's most recent posts. A failing
// thread does not stop the others; all failures come back joined.
func RepliesJob(d Deps) JobFunc {
	return func(ctx context.Context) ([]string, error) {
		recent, err := d.Timeline.UserTimeline(ctx, d.UserID, RecentPostsCount)
		if err != nil {
			return nil, fmt.Errorf("error fetching recent tweets: %w", err)
		}

		var errs []error
		for _, tweet := range recent {
			if err := d.Responder.ReplyToThread(ctx, tweet.ID); err != nil {
				errs = append(errs, err)
			}
		}
		return nil, errors.Join(errs...)
	}
}
