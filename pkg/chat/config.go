package chat

import (
	"strings"

	"github.com/rs/zerolog"
)

const (
	DefaultModel       = "gpt-4o-mini"
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
)

// Config is the construction input of a Session.
// MaxTokens and Temperature are pointers so an explicit zero is not
// mistaken for "use the default".
type Config struct {
	APIKey        string
	Model         string
	BaseURL       string
	MaxTokens     *int
	Temperature   *float64
	Intro         string
	SystemMessage string

	// Logger is optional; the zero value discards everything.
	Logger zerolog.Logger
}

// Settings are the resolved values a Session works with
type Settings struct {
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float64
	Intro       string
}

// Int returns a pointer to n, for Config.MaxTokens
func Int(n int) *int { return &n }

// Float returns a pointer to f, for Config.Temperature
func Float(f float64) *float64 { return &f }

// Resolve applies defaults and validates the configuration.
func (c Config) Resolve() (Settings, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return Settings{}, &ConfigError{Field: "apiKey", Reason: "is required"}
	}

	s := Settings{
		Model:       c.Model,
		BaseURL:     c.BaseURL,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
		Intro:       c.Intro,
	}
	if s.Model == "" {
		s.Model = DefaultModel
	}
	if s.BaseURL == "" {
		s.BaseURL = DefaultBaseURL
	}

	if c.MaxTokens != nil {
		if *c.MaxTokens <= 0 {
			return Settings{}, &ConfigError{Field: "maxTokens", Reason: "must be greater than 0"}
		}
		s.MaxTokens = *c.MaxTokens
	}
	if c.Temperature != nil {
		t := *c.Temperature
		// NaN fails both comparisons, so test the accepted range
		if !(t >= 0 && t <= 1) {
			return Settings{}, &ConfigError{Field: "temperature", Reason: "must be between 0 and 1"}
		}
		s.Temperature = t
	}

	return s, nil
}
