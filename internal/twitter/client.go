package twitter

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/go-resty/resty/v2"

	"github.com/creatorstation/tweetbot/internal/config"
)

// Client calls the v2 tweet endpoints and the v1.1 media upload endpoint
// with OAuth 1.0a user-context signatures.
type Client struct {
	api    *resty.Client
	upload *resty.Client
}

// NewClient signs every request with the app and access credentials in cfg.
// A zero timeout leaves requests unbounded.
func NewClient(cfg config.Twitter, timeout time.Duration) *Client {
	oauth := oauth1.NewConfig(cfg.APIKey, cfg.APISecret)
	token := oauth1.NewToken(cfg.AccessToken, cfg.AccessSecret)
	return newClient(oauth.Client(oauth1.NoContext, token), cfg.APIBaseURL, cfg.UploadBaseURL, timeout)
}

func newClient(httpClient *http.Client, apiBaseURL, uploadBaseURL string, timeout time.Duration) *Client {
	api := resty.NewWithClient(httpClient).
		SetBaseURL(strings.TrimRight(apiBaseURL, "/")).
		SetHeader("User-Agent", "tweetbot-twitter")
	upload := resty.NewWithClient(httpClient).
		SetBaseURL(strings.TrimRight(uploadBaseURL, "/")).
		SetHeader("User-Agent", "tweetbot-twitter")

	if timeout > 0 {
		api.SetTimeout(timeout)
		upload.SetTimeout(timeout)
	}

	return &Client{api: api, upload: upload}
}

// UploadMedia uploads raw image bytes and returns the media id to attach to a tweet.
func (c *Client) UploadMedia(ctx context.Context, data []byte, mimeType string) (string, error) {
	var result mediaResponse
	var failure apiError

	resp, err := c.upload.R().
		SetContext(ctx).
		SetMultipartField("media", "media", mimeType, bytes.NewReader(data)).
		SetMultipartFormData(map[string]string{"media_category": "tweet_image"}).
		SetResult(&result).
		SetError(&failure).
		Post("/1.1/media/upload.json")
	if err != nil {
		return "", fmt.Errorf("error uploading media: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("media upload returned %s: %s", resp.Status(), failure)
	}

	if result.MediaIDString != "" {
		return result.MediaIDString, nil
	}
	if result.MediaID != 0 {
		return strconv.FormatInt(result.MediaID, 10), nil
	}
	return "", fmt.Errorf("media upload returned no media id")
}

// CreateTweet publishes req and returns the new tweet id.
func (c *Client) CreateTweet(ctx context.Context, req TweetRequest) (string, error) {
	var result tweetResponse
	var failure apiError

	resp, err := c.api.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		SetError(&failure).
		Post("/2/tweets")
	if err != nil {
		return "", fmt.Errorf("error creating tweet: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("create tweet returned %s: %s", resp.Status(), failure)
	}

	return result.Data.ID, nil
}

// Reply publishes text as a reply to tweetID.
func (c *Client) Reply(ctx context.Context, text, tweetID string) (string, error) {
	return c.CreateTweet(ctx, TweetRequest{
		Text:  text,
		Reply: &Reply{InReplyToTweetID: tweetID},
	})
}

// SearchConversation returns the recent tweets of a conversation. The root tweet is
// included when it is recent enough to be indexed.
func (c *Client) SearchConversation(ctx context.Context, conversationID string) ([]Tweet, error) {
	return c.listTweets(ctx, "/2/tweets/search/recent", map[string]string{
		"query":        "conversation_id:" + conversationID,
		"tweet.fields": "conversation_id",
	})
}

// UserTimeline returns the user's most recent tweets. The API accepts 5 to 100.
func (c *Client) UserTimeline(ctx context.Context, userID string, maxResults int) ([]Tweet, error) {
	return c.listTweets(ctx, "/2/users/"+userID+"/tweets", map[string]string{
		"max_results": strconv.Itoa(maxResults),
	})
}

func (c *Client) listTweets(ctx context.Context, path string, params map[string]string) ([]Tweet, error) {
	var result tweetsResponse
	var failure apiError

	resp, err := c.api.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&result).
		SetError(&failure).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("error listing %s: %w", path, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%s returned %s: %s", path, resp.Status(), failure)
	}

	return result.Data, nil
}
