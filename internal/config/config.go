package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	// DBPath is the SQLite database file. ":memory:" works for throwaway runs.
	DBPath string `envconfig:"KINDLING_DB" default:"kindling.db"`

	// LLM endpoint for prompt generation and chat. Empty disables both and
	// the service falls back to offline question templates.
	LLMURL   string `envconfig:"LLM_URL"`
	LLMToken string `envconfig:"LLM_TOKEN"`
	LLMModel string `envconfig:"LLM_MODEL" default:"gpt-4o-mini"`

	// Optional remote embeddings, used by the re-embed command only.
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	// Ingestion inputs.
	ProjectsPath string `envconfig:"KINDLING_PROJECTS" default:"projects.json"`
	ChatPath     string `envconfig:"KINDLING_CHAT_HTML" default:"chat.html"`

	// News fetch. Comma-separated subreddit names.
	NewsSubreddits   string `envconfig:"NEWS_SUBREDDITS" default:"programming,selfhosted"`
	NewsLimit        int    `envconfig:"NEWS_LIMIT" default:"20"`
	NewsRefreshHours int    `envconfig:"NEWS_REFRESH_HOURS" default:"24"`

	SentryDSN string `envconfig:"SENTRY_DSN"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("KINDLING", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// Subreddits splits the comma-separated NEWS_SUBREDDITS value.
func (c *Config) Subreddits() []string {
	parts := strings.Split(c.NewsSubreddits, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) HasLLM() bool {
	return c.LLMURL != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}
