package web

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

var client = resty.New().SetHeader("User-Agent", "tweetbot-fetchmedia")

// SetTimeout caps every fetch. Zero leaves fetches unbounded.
func SetTimeout(d time.Duration) {
	client.SetTimeout(d)
}

// FetchMedia downloads mediaURI in full and returns the raw bytes.
func FetchMedia(ctx context.Context, mediaURI string) ([]byte, error) {
	resp, err := client.R().SetContext(ctx).Get(mediaURI)
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch media: %s, %s", resp.Status(), resp.String())
	}

	return resp.Body(), nil
}
