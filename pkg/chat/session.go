package chat

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Session holds one ordered conversation and mediates every call to the
// completion capability.
type Session struct {
	id        string
	settings  Settings
	completer Completer
	logger    zerolog.Logger

	// sendMu serializes Send so turns are appended in request order
	sendMu sync.Mutex

	mu           sync.RWMutex
	history      []Message
	introPending bool
	// generation changes on every reset; a reply requested before a reset
	// is not appended after it
	generation uint64
}

// New validates cfg and creates a session. No session is returned on error.
func New(cfg Config, completer Completer) (*Session, error) {
	settings, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	if completer == nil {
		return nil, &ConfigError{Field: "completer", Reason: "is required"}
	}

	id := uuid.New().String()
	s := &Session{
		id:        id,
		settings:  settings,
		completer: completer,
		logger:    cfg.Logger.With().Str("session_id", id).Logger(),
		history:   []Message{},
	}

	if cfg.SystemMessage != "" {
		s.history = []Message{{Role: RoleSystem, Content: cfg.SystemMessage}}
	}
	if settings.Intro != "" {
		s.introPending = true
	}

	s.logger.Debug().
		Str("model", settings.Model).
		Str("base_url", settings.BaseURL).
		Bool("intro_pending", s.introPending).
		Msg("Chat session created")

	return s, nil
}

// ID returns the session identifier used in logs and traces
func (s *Session) ID() string {
	return s.id
}

// Settings returns the resolved configuration
func (s *Session) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetSystemMessage discards the whole history and starts over with a
// single system message.
func (s *Session) SetSystemMessage(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := len(s.history)
	s.history = []Message{{Role: RoleSystem, Content: text}}
	s.generation++
	s.logger.Debug().Int("dropped", dropped).Msg("System message set, history reset")
}

// SetIntro stores the intro text. It only becomes pending while no user or
// assistant turn exists yet; otherwise nothing visible happens. An empty
// text cancels a pending intro.
func (s *Session) SetIntro(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.Intro = text
	switch {
	case text == "":
		s.introPending = false
	case !s.hasTurns():
		s.introPending = true
	}
}

// hasTurns reports whether anything besides the system message was appended.
// Callers hold mu.
func (s *Session) hasTurns() bool {
	for _, m := range s.history {
		if m.Role != RoleSystem {
			return true
		}
	}
	return false
}

// IntroPending reports whether the intro will be inserted on the next Send
func (s *Session) IntroPending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.introPending
}

// Send appends text as a user turn, asks the completer for the next
// assistant turn and returns it. On failure the user turn is kept and a
// *CompletionError is returned. If SetSystemMessage or Clear runs while the
// request is in flight, the reply is returned but not added to the history.
func (s *Session) Send(ctx context.Context, text string) (string, error) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	s.mu.Lock()
	if s.introPending {
		s.history = append(s.history, Message{Role: RoleAssistant, Content: s.settings.Intro})
		s.introPending = false
	}
	s.history = append(s.history, Message{Role: RoleUser, Content: text})
	req := CompletionRequest{
		Model:       s.settings.Model,
		Messages:    cloneMessages(s.history),
		MaxTokens:   s.settings.MaxTokens,
		Temperature: s.settings.Temperature,
	}
	generation := s.generation
	s.mu.Unlock()

	resp, err := s.completer.Complete(ctx, req)
	if err != nil {
		s.logger.Warn().Err(err).Int("history", len(req.Messages)).Msg("Completion failed, user turn kept")
		return "", &CompletionError{Err: err}
	}

	reply := resp.Text()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		s.logger.Debug().Msg("Conversation reset during completion, reply not recorded")
		return reply, nil
	}
	s.history = append(s.history, Message{Role: RoleAssistant, Content: reply})

	return reply, nil
}

// Clear empties the history. The intro is not re-armed.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = []Message{}
	s.generation++
	s.logger.Debug().Msg("Conversation cleared")
}

// Conversation returns an independent copy of the history
func (s *Session) Conversation() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMessages(s.history)
}
