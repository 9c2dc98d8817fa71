package provider

import (
	"fmt"
	"net/http"

	"github.com/harun/decachat/internal/metrics"
	"github.com/harun/decachat/pkg/chat"
	"github.com/rs/zerolog"
)

// Supported backend kinds
const (
	KindOpenAI    = "openai"
	KindAnthropic = "anthropic"
)

// Config holds the connection settings shared by every backend
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a completer for the named backend
func New(kind string, cfg Config) (chat.Completer, error) {
	switch kind {
	case KindOpenAI, "":
		return NewOpenAI(OpenAIConfig(cfg)), nil
	case KindAnthropic:
		return NewAnthropic(AnthropicConfig(cfg)), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", kind)
	}
}

// Options carries the optional collaborators of NewSession
type Options struct {
	HTTPClient *http.Client
	Metrics    *metrics.Metrics // nil disables metrics
	Logger     zerolog.Logger   // used by the instrumentation layer
}

// NewSession builds an instrumented completer for kind and returns a session
// bound to it.
func NewSession(kind string, cfg chat.Config, opts Options) (*chat.Session, error) {
	if kind == "" {
		kind = KindOpenAI
	}

	if kind == KindAnthropic {
		if cfg.Model == "" {
			cfg.Model = DefaultAnthropicModel
		}
		if cfg.BaseURL == "" {
			cfg.BaseURL = DefaultAnthropicBaseURL
		}
	}

	settings, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}

	completer, err := New(kind, Config{
		APIKey:     cfg.APIKey,
		BaseURL:    settings.BaseURL,
		HTTPClient: opts.HTTPClient,
	})
	if err != nil {
		return nil, err
	}

	session, err := chat.New(cfg, Instrument(completer, kind, opts.Metrics, opts.Logger))
	if err != nil {
		return nil, err
	}

	opts.Metrics.RecordSession()
	return session, nil
}
