package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/harun/decachat/pkg/chat"
	"github.com/rs/zerolog"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config represents the decachat configuration file
type Config struct {
	Provider      string   `json:"provider" mapstructure:"provider"` // openai, anthropic
	APIKey        string   `json:"api_key" mapstructure:"api_key"`
	Model         string   `json:"model" mapstructure:"model"`
	BaseURL       string   `json:"base_url" mapstructure:"base_url"`
	MaxTokens     *int     `json:"max_tokens,omitempty" mapstructure:"max_tokens"`
	Temperature   *float64 `json:"temperature,omitempty" mapstructure:"temperature"`
	Intro         string   `json:"intro" mapstructure:"intro"`
	SystemMessage string   `json:"system_message" mapstructure:"system_message"`

	// Timeout bounds a single completion call, in seconds. 0 disables it.
	Timeout int `json:"timeout" mapstructure:"timeout"`

	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
	Metrics MetricsConfig `json:"metrics" mapstructure:"metrics"`
	Tracing TracingConfig `json:"tracing" mapstructure:"tracing"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	Pretty    bool   `json:"pretty" mapstructure:"pretty"`
	Redaction bool   `json:"redaction" mapstructure:"redaction"`
}

// MetricsConfig holds the Prometheus endpoint configuration
type MetricsConfig struct {
	Addr string `json:"addr" mapstructure:"addr"` // empty disables the endpoint
}

// TracingConfig holds OpenTelemetry settings
type TracingConfig struct {
	SampleRatio *float64 `json:"sample_ratio,omitempty" mapstructure:"sample_ratio"` // unset samples everything
	LogSpans    bool     `json:"log_spans" mapstructure:"log_spans"`                 // write spans to the debug log
}

// Ratio returns the configured sample ratio, 1 when unset
func (t TracingConfig) Ratio() float64 {
	if t.SampleRatio == nil {
		return 1
	}
	return *t.SampleRatio
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Logging: LoggingConfig{
			Level:     "warn",
			Pretty:    true,
			Redaction: true,
		},
	}
}

// RequestTimeout returns the per-request timeout, 0 when disabled
func (c *Config) RequestTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 0
	}
	return time.Duration(c.Timeout) * time.Second
}

// Validate checks every field and reports all problems at once
func (c *Config) Validate() error {
	v := NewValidator()
	var errs []error

	if err := v.ValidateProvider(c.Provider); err != nil {
		errs = append(errs, err)
	}
	if c.BaseURL != "" {
		if err := v.ValidateBaseURL(c.BaseURL); err != nil {
			errs = append(errs, err)
		}
	}
	if c.MaxTokens != nil {
		if err := v.ValidateMaxTokens(*c.MaxTokens); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Temperature != nil {
		if err := v.ValidateTemperature(*c.Temperature); err != nil {
			errs = append(errs, err)
		}
	}
	if r := c.Tracing.SampleRatio; r != nil && !(*r >= 0 && *r <= 1) {
		errs = append(errs, fmt.Errorf("tracing sample ratio must be between 0 and 1, got %f", *r))
	}
	if c.Timeout < 0 {
		errs = append(errs, errors.New("timeout cannot be negative"))
	}
	if err := v.ValidateLogLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ResolveAPIKey fills APIKey from provider specific environment variables
// when neither the file nor DECACHAT_API_KEY supplied one.
func (c *Config) ResolveAPIKey() {
	if c.APIKey != "" {
		return
	}

	var candidates []string
	switch {
	case c.Provider == ProviderAnthropic:
		candidates = []string{"ANTHROPIC_API_KEY"}
	case strings.Contains(c.BaseURL, "groq.com"):
		candidates = []string{"GROQ_API_KEY", "OPENAI_API_KEY"}
	default:
		candidates = []string{"OPENAI_API_KEY", "GROQ_API_KEY"}
	}

	for _, name := range candidates {
		if key := os.Getenv(name); key != "" {
			c.APIKey = key
			return
		}
	}
}

// SessionConfig maps the file configuration onto the chat session input
func (c *Config) SessionConfig(logger zerolog.Logger) chat.Config {
	cfg := chat.Config{
		APIKey:        c.APIKey,
		Model:         c.Model,
		BaseURL:       c.BaseURL,
		Intro:         c.Intro,
		SystemMessage: c.SystemMessage,
		Logger:        logger,
	}
	if c.MaxTokens != nil {
		cfg.MaxTokens = chat.Int(*c.MaxTokens)
	}
	if c.Temperature != nil {
		cfg.Temperature = chat.Float(*c.Temperature)
	}
	return cfg
}
