package twitter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorstation/tweetbot/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.Twitter{
		APIKey:        "consumer-key",
		APISecret:     "consumer-secret",
		AccessToken:   "access-token",
		AccessSecret:  "access-secret",
		APIBaseURL:    srv.URL,
		UploadBaseURL: srv.URL,
	}, 0)
}

func TestRequestsAreSigned(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		assert.Contains(t, auth, "OAuth ")
		assert.Contains(t, auth, `oauth_consumer_key="consumer-key"`)
		assert.Contains(t, auth, `oauth_token="access-token"`)
		assert.Contains(t, auth, `oauth_signature_method="HMAC-SHA1"`)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[]}`))
	})

	_, err := c.UserTimeline(context.Background(), "42", 5)
	require.NoError(t, err)
}

func TestUploadMedia(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1.1/media/upload.json", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "tweet_image", r.FormValue("media_category"))

		file, header, err := r.FormFile("media")
		if assert.NoError(t, err) {
			defer file.Close()
			body, _ := io.ReadAll(file)
			assert.Equal(t, "PNGDATA", string(body))
			assert.Equal(t, "image/png", header.Header.Get("Content-Type"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"media_id":1100,"media_id_string":"1100"}`))
	})

	id, err := c.UploadMedia(context.Background(), []byte("PNGDATA"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "1100", id)
}

func TestUploadMediaError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"code":324,"message":"Image file size must be <= 5242880 bytes"}]}`))
	})

	_, err := c.UploadMedia(context.Background(), []byte("x"), "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Image file size must be")
}

func TestCreateTweet(t *testing.T) {
	var got map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/2/tweets", r.URL.Path)
		got = nil
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":"t1","text":"hello"}}`))
	})

	t.Run("media", func(t *testing.T) {
		id, err := c.CreateTweet(context.Background(), TweetRequest{
			Text:  "hello",
			Media: &Media{MediaIDs: []string{"m1"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "t1", id)
		assert.Equal(t, map[string]interface{}{
			"text":  "hello",
			"media": map[string]interface{}{"media_ids": []interface{}{"m1"}},
		}, got)
	})

	t.Run("poll", func(t *testing.T) {
		_, err := c.CreateTweet(context.Background(), TweetRequest{
			Text: "Which?",
			Poll: &Poll{Options: []string{"a", "b"}, DurationMinutes: 1440},
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{
			"text": "Which?",
			"poll": map[string]interface{}{
				"options":          []interface{}{"a", "b"},
				"duration_minutes": float64(1440),
			},
		}, got)
	})

	t.Run("reply", func(t *testing.T) {
		_, err := c.Reply(context.Background(), "thanks!", "r9")
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{
			"text":  "thanks!",
			"reply": map[string]interface{}{"in_reply_to_tweet_id": "r9"},
		}, got)
	})
}

func TestCreateTweetError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"title":"Forbidden","detail":"You are not allowed to create a Tweet with duplicate content.","status":403}`))
	})

	_, err := c.CreateTweet(context.Background(), TweetRequest{Text: "dup"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate content")
}

func TestSearchConversation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/tweets/search/recent", r.URL.Path)
		assert.Equal(t, "conversation_id:100", r.URL.Query().Get("query"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"100","text":"root"},{"id":"101","text":"nice post"}],"meta":{"result_count":2}}`))
	})

	tweets, err := c.SearchConversation(context.Background(), "100")
	require.NoError(t, err)
	assert.Equal(t, []Tweet{{ID: "100", Text: "root"}, {ID: "101", Text: "nice post"}}, tweets)
}

func TestSearchConversationEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"meta":{"result_count":0}}`))
	})

	tweets, err := c.SearchConversation(context.Background(), "100")
	require.NoError(t, err)
	assert.Empty(t, tweets)
}

func TestUserTimeline(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/users/42/tweets", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("max_results"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"1","text":"a"},{"id":"2","text":"b"}]}`))
	})

	tweets, err := c.UserTimeline(context.Background(), "42", 5)
	require.NoError(t, err)
	require.Len(t, tweets, 2)
	assert.Equal(t, "1", tweets[0].ID)
}
