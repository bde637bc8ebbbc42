package poster

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/creatorstation/tweetbot/internal/twitter"
	"github.com/creatorstation/tweetbot/pkg/convert/img"
	"github.com/creatorstation/tweetbot/pkg/web"
)

const (
	MaxPollOptions      = 4
	PollDurationMinutes = 1440
)

// Platform is the part of the social platform API the poster publishes through.
type Platform interface {
	UploadMedia(ctx context.Context, data []byte, mimeType string) (string, error)
	CreateTweet(ctx context.Context, req twitter.TweetRequest) (string, error)
}

type Poster struct {
	platform Platform
	logger   *zap.Logger
}

func New(platform Platform, logger *zap.Logger) *Poster {
	return &Poster{platform: platform, logger: logger}
}

// Post publishes text, attaching the image behind imageURL when one is given.
// An empty imageURL creates a text-only post and nothing is fetched or uploaded.
func (p *Poster) Post(ctx context.Context, text, imageURL string) (string, error) {
	req := twitter.TweetRequest{Text: text}

	if imageURL != "" {
		mediaID, err := p.uploadFromURL(ctx, imageURL)
		if err != nil {
			return "", err
		}
		req.Media = &twitter.Media{MediaIDs: []string{mediaID}}
	}

	id, err := p.platform.CreateTweet(ctx, req)
	if err != nil {
		return "", fmt.Errorf("error posting tweet: %w", err)
	}

	p.logger.Info("Tweet posted", zap.String("tweet_id", id))
	return id, nil
}

func (p *Poster) uploadFromURL(ctx context.Context, imageURL string) (string, error) {
	data, err := web.FetchMedia(ctx, imageURL)
	if err != nil {
		return "", fmt.Errorf("error fetching image: %w", err)
	}

	data, mimeType, err := img.FitForUpload(data, img.MaxUploadBytes)
	if err != nil {
		return "", fmt.Errorf("error preparing image: %w", err)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/png"
	}

	mediaID, err := p.platform.UploadMedia(ctx, data, mimeType)
	if err != nil {
		return "", fmt.Errorf("error uploading image: %w", err)
	}

	p.logger.Debug("Media uploaded", zap.String("media_id", mediaID), zap.Int("bytes", len(data)))
	return mediaID, nil
}

// PostPoll publishes question with a one-day poll over the first four options.
func (p *Poster) PostPoll(ctx context.Context, question string, options []string) (string, error) {
	if len(options) > MaxPollOptions {
		options = options[:MaxPollOptions]
	}

	id, err := p.platform.CreateTweet(ctx, twitter.TweetRequest{
		Text: question,
		Poll: &twitter.Poll{Options: options, DurationMinutes: PollDurationMinutes},
	})
	if err != nil {
		return "", fmt.Errorf("error posting poll: %w", err)
	}

	p.logger.Info("Poll posted", zap.String("tweet_id", id))
	return id, nil
}

// SplitPollOptions turns generated option text into poll options: one per line,
// blank lines dropped, order kept, at most four.
func SplitPollOptions(raw string) []string {
	options := make([]string, 0, MaxPollOptions)
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		options = append(options, line)
		if len(options) == MaxPollOptions {
			break
		}
	}
	return options
}
