package trivia

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds trivia API client configuration.
type Config struct {
	QuestionsURL  string `env:"QUESTIONS_URL"`
	CategoriesURL string `env:"CATEGORIES_URL"`
	TokenURL      string `env:"TOKEN_URL"`

	// Amount is the number of questions fetched per load cycle. Default: 50.
	Amount int `env:"AMOUNT"`

	// RequestTimeout bounds a single HTTP attempt. Retries and backoff
	// waits are not included. Default: 10s.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	Retry RetryConfig `envPrefix:"RETRY_"`
}

// RetryConfig configures retry behavior for rate limits and rejected
// session tokens.
type RetryConfig struct {
	MaxAttempts int           `env:"MAX_ATTEMPTS"`
	InitialWait time.Duration `env:"INITIAL_WAIT"`
	MaxWait     time.Duration `env:"MAX_WAIT"` // 0 = uncapped
	Multiplier  float64       `env:"MULTIPLIER"`
}

// DefaultConfig returns a Config pointing at opentdb.com.
func DefaultConfig() Config {
	return Config{
		QuestionsURL:   "https://opentdb.com/api.php",
		CategoriesURL:  "https://opentdb.com/api_category.php",
		TokenURL:       "https://opentdb.com/api_token.php",
		Amount:         50,
		RequestTimeout: 10 * time.Second,
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 2 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// ConfigFromEnv overlays TRIVIABOARD_* environment variables on the
// defaults, e.g. TRIVIABOARD_AMOUNT or TRIVIABOARD_RETRY_INITIAL_WAIT.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "TRIVIABOARD_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the config for values the client cannot work with.
func (c Config) Validate() error {
	if c.QuestionsURL == "" || c.CategoriesURL == "" || c.TokenURL == "" {
		return fmt.Errorf("all trivia API endpoints must be set")
	}
	if c.Amount <= 0 {
		return fmt.Errorf("TRIVIABOARD_AMOUNT must be positive, got %d", c.Amount)
	}
	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("TRIVIABOARD_RETRY_MAX_ATTEMPTS must be positive, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.Multiplier < 1 {
		return fmt.Errorf("TRIVIABOARD_RETRY_MULTIPLIER must be at least 1, got %g", c.Retry.Multiplier)
	}
	return nil
}
