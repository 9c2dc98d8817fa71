package provider

import (
	"context"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/harun/decachat/pkg/chat"
)

// Defaults applied by NewSession to anthropic sessions
const (
	DefaultAnthropicModel   = "claude-3-5-haiku-latest"
	DefaultAnthropicBaseURL = "https://api.anthropic.com/"
)

// AnthropicConfig configures the Anthropic backend
type AnthropicConfig struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Anthropic implements chat.Completer over the Messages API
type Anthropic struct {
	client anthropic.Client
}

// NewAnthropic creates a new Anthropic completer
func NewAnthropic(cfg AnthropicConfig) *Anthropic {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Anthropic{
		client: anthropic.NewClient(opts...),
	}
}

// Complete makes one Messages call. System turns are sent as the system
// prompt; the text blocks of the reply become choice 0.
func (p *Anthropic) Complete(ctx context.Context, req chat.CompletionRequest) (*chat.CompletionResponse, error) {
	var system []anthropic.TextBlockParam
	messages := make([]anthropic.MessageParam, 0, len(req.Messages))

	for _, msg := range req.Messages {
		switch msg.Role {
		case chat.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case chat.RoleUser:
			messages = append(messages, anthropic.NewUserMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		case chat.RoleAssistant:
			messages = append(messages, anthropic.MessageParam{
				Role: anthropic.MessageParamRoleAssistant,
				Content: []anthropic.ContentBlockParamUnion{
					anthropic.NewTextBlock(msg.Content),
				},
			})
		}
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		Messages:    messages,
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(req.Temperature),
	}
	if len(system) > 0 {
		params.System = system
	}

	response, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	hasText := false
	for _, block := range response.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(b.Text)
			hasText = true
		}
	}

	out := &chat.CompletionResponse{
		Usage: &chat.Usage{
			PromptTokens:     int(response.Usage.InputTokens),
			CompletionTokens: int(response.Usage.OutputTokens),
		},
	}
	if hasText {
		out.Choices = []chat.Choice{{
			Message: &chat.Message{Role: chat.RoleAssistant, Content: text.String()},
		}}
	}

	return out, nil
}
