package config

import (
	"time"

	v "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Twitter holds the user-context credentials the bot posts with.
type Twitter struct {
	APIKey        string
	APISecret     string
	AccessToken   string
	AccessSecret  string
	UserID        string
	APIBaseURL    string
	UploadBaseURL string
}

// Generation selects and configures the text/image generation backend.
type Generation struct {
	Provider     string
	OpenAIKey    string
	OpenAIURL    string
	TextModel    string
	GeminiKey    string
	GeminiModel  string
	MaxTokens    int
	ImageSize    string
	PromptTweet  string
	PromptPoll   string
	PromptImage  string
	PromptOption string
	PromptReply  string
}

type Schedule struct {
	Timezone string
	Tweet    string
	Poll     string
	Replies  string
}

type Config struct {
	Port        string
	LogLevel    string
	LogFormat   string
	HTTPTimeout time.Duration
	SentryDSN   string
	DatabaseDSN string
	MongoURI    string
	RedisAddr   string
	ReplyDedup  bool
	AdminToken  string

	Twitter    Twitter
	Generation Generation
	Schedule   Schedule
}

// Load reads the process environment (and a .env file, if one exists) into a Config.
func Load() (*Config, error) {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	vp := viper.New()
	vp.AutomaticEnv()
	setDefaults(vp)

	cfg := fromViper(vp)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(vp *viper.Viper) {
	vp.SetDefault("PORT", "8080")
	vp.SetDefault("LOG_LEVEL", "info")
	vp.SetDefault("LOG_FORMAT", "json")
	vp.SetDefault("HTTP_TIMEOUT", "0s")
	vp.SetDefault("REPLY_DEDUP", false)

	vp.SetDefault("TWITTER_API_BASE_URL", "https://api.twitter.com")
	vp.SetDefault("TWITTER_UPLOAD_BASE_URL", "https://upload.twitter.com")

	vp.SetDefault("GENERATION_PROVIDER", ProviderOpenAI)
	vp.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	vp.SetDefault("OPENAI_TEXT_MODEL", "gpt-3.5-turbo-instruct")
	vp.SetDefault("GEMINI_TEXT_MODEL", "gemini-2.0-flash")
	vp.SetDefault("GENERATION_MAX_TOKENS", 100)
	vp.SetDefault("IMAGE_SIZE", "1024x1024")

	vp.SetDefault("PROMPT_TWEET", "Generate an engaging tweet about technology with relevant hashtags")
	vp.SetDefault("PROMPT_IMAGE", "Generate a prompt for an image related to this tweet: ")
	vp.SetDefault("PROMPT_POLL", "Generate a poll question about technology trends")
	vp.SetDefault("PROMPT_POLL_OPTIONS", "Generate 4 short options for the poll: ")
	vp.SetDefault("PROMPT_REPLY", `Generate a friendly and engaging reply to this tweet: "%s"`)

	vp.SetDefault("CRON_TZ", "")
	vp.SetDefault("TWEET_SCHEDULE", "0 */3 * * *")
	vp.SetDefault("POLL_SCHEDULE", "0 12 * * 1")
	vp.SetDefault("REPLY_SCHEDULE", "0 */6 * * *")
}

func fromViper(vp *viper.Viper) *Config {
	return &Config{
		Port:        vp.GetString("PORT"),
		LogLevel:    vp.GetString("LOG_LEVEL"),
		LogFormat:   vp.GetString("LOG_FORMAT"),
		HTTPTimeout: vp.GetDuration("HTTP_TIMEOUT"),
		SentryDSN:   vp.GetString("SENTRY_DSN"),
		DatabaseDSN: vp.GetString("DATABASE_DSN"),
		MongoURI:    vp.GetString("MONGO_URI"),
		RedisAddr:   vp.GetString("REDIS_ADDR"),
		ReplyDedup:  vp.GetBool("REPLY_DEDUP"),
		AdminToken:  vp.GetString("ADMIN_TOKEN"),
		Twitter: Twitter{
			APIKey:        vp.GetString("TWITTER_API_KEY"),
			APISecret:     vp.GetString("TWITTER_API_SECRET"),
			AccessToken:   vp.GetString("TWITTER_ACCESS_TOKEN"),
			AccessSecret:  vp.GetString("TWITTER_ACCESS_SECRET"),
			UserID:        vp.GetString("TWITTER_USER_ID"),
			APIBaseURL:    vp.GetString("TWITTER_API_BASE_URL"),
			UploadBaseURL: vp.GetString("TWITTER_UPLOAD_BASE_URL"),
		},
		Generation: Generation{
			Provider:     vp.GetString("GENERATION_PROVIDER"),
			OpenAIKey:    vp.GetString("OPENAI_API_KEY"),
			OpenAIURL:    vp.GetString("OPENAI_BASE_URL"),
			TextModel:    vp.GetString("OPENAI_TEXT_MODEL"),
			GeminiKey:    vp.GetString("GEMINI_API_KEY"),
			GeminiModel:  vp.GetString("GEMINI_TEXT_MODEL"),
			MaxTokens:    vp.GetInt("GENERATION_MAX_TOKENS"),
			ImageSize:    vp.GetString("IMAGE_SIZE"),
			PromptTweet:  vp.GetString("PROMPT_TWEET"),
			PromptImage:  vp.GetString("PROMPT_IMAGE"),
			PromptPoll:   vp.GetString("PROMPT_POLL"),
			PromptOption: vp.GetString("PROMPT_POLL_OPTIONS"),
			PromptReply:  vp.GetString("PROMPT_REPLY"),
		},
		Schedule: Schedule{
			Timezone: vp.GetString("CRON_TZ"),
			Tweet:    vp.GetString("TWEET_SCHEDULE"),
			Poll:     vp.GetString("POLL_SCHEDULE"),
			Replies:  vp.GetString("REPLY_SCHEDULE"),
		},
	}
}

// Validate only checks that the required credentials are present.
func (c *Config) Validate() error {
	if err := v.ValidateStruct(&c.Twitter,
		v.Field(&c.Twitter.APIKey, v.Required.Error("TWITTER_API_KEY is required")),
		v.Field(&c.Twitter.APISecret, v.Required.Error("TWITTER_API_SECRET is required")),
		v.Field(&c.Twitter.AccessToken, v.Required.Error("TWITTER_ACCESS_TOKEN is required")),
		v.Field(&c.Twitter.AccessSecret, v.Required.Error("TWITTER_ACCESS_SECRET is required")),
		v.Field(&c.Twitter.UserID, v.Required.Error("TWITTER_USER_ID is required")),
	); err != nil {
		return err
	}

	if err := v.ValidateStruct(c,
		v.Field(&c.RedisAddr, v.When(c.ReplyDedup,
			v.Required.Error("REDIS_ADDR is required when REPLY_DEDUP=true"))),
	); err != nil {
		return err
	}

	return v.ValidateStruct(&c.Generation,
		v.Field(&c.Generation.Provider, v.In(ProviderOpenAI, ProviderGemini)),
		// Image generation always goes through the OpenAI endpoint.
		v.Field(&c.Generation.OpenAIKey, v.Required.Error("OPENAI_API_KEY is required")),
		v.Field(&c.Generation.GeminiKey, v.When(c.Generation.Provider == ProviderGemini,
			v.Required.Error("GEMINI_API_KEY is required when GENERATION_PROVIDER=gemini"))),
	)
}
