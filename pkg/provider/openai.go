package provider

import (
	"context"
	"net/http"

	"github.com/harun/decachat/pkg/chat"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIConfig configures an OpenAI-compatible backend
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string       // empty uses the SDK default
	HTTPClient *http.Client // optional
}

// OpenAI implements chat.Completer over the Chat Completions API
type OpenAI struct {
	client openai.Client
}

// NewOpenAI creates a new OpenAI-compatible completer
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
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

	return &OpenAI{
		client: openai.NewClient(opts...),
	}
}

// Complete makes one Chat Completions call
func (p *OpenAI) Complete(ctx context.Context, req chat.CompletionRequest) (*chat.CompletionResponse, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case chat.RoleSystem:
			messages = append(messages, openai.SystemMessage(msg.Content))
		case chat.RoleUser:
			messages = append(messages, openai.UserMessage(msg.Content))
		case chat.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    messages,
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
		Temperature: openai.Float(req.Temperature),
	}

	response, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, err
	}

	// No choices is a valid, empty reply
	out := &chat.CompletionResponse{
		Usage: &chat.Usage{
			PromptTokens:     int(response.Usage.PromptTokens),
			CompletionTokens: int(response.Usage.CompletionTokens),
		},
	}
	for _, choice := range response.Choices {
		out.Choices = append(out.Choices, chat.Choice{
			Message: &chat.Message{
				Role:    chat.RoleAssistant,
				Content: choice.Message.Content,
			},
		})
	}

	return out, nil
}
