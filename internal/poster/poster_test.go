package poster

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/creatorstation/tweetbot/internal/twitter"
)

type fakePlatform struct {
	uploads   [][]byte
	mimeTypes []string
	tweets    []twitter.TweetRequest

	mediaID   string
	tweetID   string
	uploadErr error
	createErr error
}

func (f *fakePlatform) UploadMedia(_ context.Context, data []byte, mimeType string) (string, error) {
	f.uploads = append(f.uploads, data)
	f.mimeTypes = append(f.mimeTypes, mimeType)
	return f.mediaID, f.uploadErr
}

func (f *fakePlatform) CreateTweet(_ context.Context, req twitter.TweetRequest) (string, error) {
	f.tweets = append(f.tweets, req)
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.tweetID, nil
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n" + "rest-of-image")

func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngHeader)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPostWithoutImageSkipsUpload(t *testing.T) {
	platform := &fakePlatform{tweetID: "t1"}
	p := New(platform, zap.NewNop())

	id, err := p.Post(context.Background(), "text only", "")
	require.NoError(t, err)

	assert.Equal(t, "t1", id)
	assert.Len(t, platform.uploads, 0)
	require.Len(t, platform.tweets, 1)
	assert.Nil(t, platform.tweets[0].Media)
}

func TestPostWithImage(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	platform := &fakePlatform{mediaID: "m1", tweetID: "t1"}
	p := New(platform, zap.New(core))

	srv := imageServer(t)
	id, err := p.Post(context.Background(), "Check out the future of AI! #tech", srv.URL+"/img.png")
	require.NoError(t, err)

	assert.Equal(t, "t1", id)
	require.Len(t, platform.uploads, 1)
	assert.Equal(t, pngHeader, platform.uploads[0])
	assert.Equal(t, "image/png", platform.mimeTypes[0])
	assert.Equal(t, []twitter.TweetRequest{{
		Text:  "Check out the future of AI! #tech",
		Media: &twitter.Media{MediaIDs: []string{"m1"}},
	}}, platform.tweets)

	posted := logs.FilterMessage("Tweet posted").All()
	require.Len(t, posted, 1)
	assert.Equal(t, "t1", posted[0].ContextMap()["tweet_id"])
}

func TestPostUploadFailureSkipsCreate(t *testing.T) {
	platform := &fakePlatform{uploadErr: errors.New("413 too large")}
	p := New(platform, zap.NewNop())

	srv := imageServer(t)
	id, err := p.Post(context.Background(), "text", srv.URL)
	require.Error(t, err)
	assert.Empty(t, id)
	assert.Empty(t, platform.tweets)
}

func TestPostFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "AuthenticationFailed", http.StatusForbidden)
	}))
	defer srv.Close()

	platform := &fakePlatform{}
	p := New(platform, zap.NewNop())

	_, err := p.Post(context.Background(), "text", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error fetching image")
	assert.Empty(t, platform.uploads)
	assert.Empty(t, platform.tweets)
}

func TestPostCreateFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	platform := &fakePlatform{createErr: errors.New("403 duplicate content")}
	p := New(platform, zap.New(core))

	id, err := p.Post(context.Background(), "text", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, platform.createErr)
	assert.Empty(t, id)
	assert.Equal(t, 0, logs.FilterMessage("Tweet posted").Len())
}

func TestPostPoll(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	platform := &fakePlatform{tweetID: "p1"}
	p := New(platform, zap.New(core))

	id, err := p.PostPoll(context.Background(), "Which tech trend excites you most?",
		[]string{"A) AI", "B) AR", "C) Quantum", "D) 5G", "E) ignored"})
	require.NoError(t, err)

	assert.Equal(t, "p1", id)
	assert.Equal(t, []twitter.TweetRequest{{
		Text: "Which tech trend excites you most?",
		Poll: &twitter.Poll{
			Options:         []string{"A) AI", "B) AR", "C) Quantum", "D) 5G"},
			DurationMinutes: 1440,
		},
	}}, platform.tweets)
	assert.Equal(t, 1, logs.FilterMessage("Poll posted").Len())
}

func TestPostPollFailure(t *testing.T) {
	platform := &fakePlatform{createErr: errors.New("poll options must be 1-25 chars")}
	p := New(platform, zap.NewNop())

	id, err := p.PostPoll(context.Background(), "q", []string{"a", "b"})
	require.Error(t, err)
	assert.Empty(t, id)
}

func TestSplitPollOptions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "blank lines dropped",
			raw:  "A) AI\nB) AR\n\nC) Quantum\nD) 5G",
			want: []string{"A) AI", "B) AR", "C) Quantum", "D) 5G"},
		},
		{
			name: "whitespace-only lines dropped, others kept verbatim",
			raw:  "\n  \n1. Rust \n\t\n2. Go\n",
			want: []string{"1. Rust ", "2. Go"},
		},
		{
			name: "at most four",
			raw:  "a\nb\nc\nd\ne\nf",
			want: []string{"a", "b", "c", "d"},
		},
		{
			name: "empty",
			raw:  "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitPollOptions(tt.raw))
		})
	}
}
