package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is matched by every *ConfigError
	ErrInvalidConfig = errors.New("invalid chat configuration")

	// ErrCompletion is matched by every *CompletionError
	ErrCompletion = errors.New("completion failed")
)

// ConfigError reports an invalid construction parameter
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidConfig) true
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// CompletionError wraps a failure of the completion capability.
// The session stays usable after it is returned.
type CompletionError struct {
	Err error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("failed to get response: %v", e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrCompletion) true
func (e *CompletionError) Is(target error) bool {
	return target == ErrCompletion
}
