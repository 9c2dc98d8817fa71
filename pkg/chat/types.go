package chat

import "context"

// Role identifies who authored a message
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message is a single conversation turn
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Completer is the remote chat-completion capability used by a Session.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// CompletionFunc adapts a plain function to the Completer interface
type CompletionFunc func(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

// Complete calls f
func (f CompletionFunc) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	return f(ctx, req)
}

// CompletionRequest contains the parameters of one completion call
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// CompletionResponse is the decoded reply of a completion call.
// Only the first choice is read; a missing message counts as empty content.
type CompletionResponse struct {
	Choices []Choice
	Usage   *Usage
}

// Choice is one candidate reply
type Choice struct {
	Message *Message
}

// Usage reports token consumption as returned by the provider
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Text returns the content of the first choice, or "" when there is none.
func (r *CompletionResponse) Text() string {
	if r == nil || len(r.Choices) == 0 || r.Choices[0].Message == nil {
		return ""
	}
	return r.Choices[0].Message.Content
}

func cloneMessages(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
