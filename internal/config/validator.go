package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validator validates configuration values
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateProvider validates the provider name
func (v *Validator) ValidateProvider(provider string) error {
	switch provider {
	case ProviderOpenAI, ProviderAnthropic:
		return nil
	case "":
		return fmt.Errorf("provider cannot be empty")
	}
	return fmt.Errorf("invalid provider: %s (must be one of: %s, %s)", provider, ProviderOpenAI, ProviderAnthropic)
}

// ValidateBaseURL requires an absolute http(s) URL
func (v *Validator) ValidateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base URL %q: missing host", raw)
	}
	return nil
}

// ValidateTemperature validates temperature value
func (v *Validator) ValidateTemperature(temp float64) error {
	if !(temp >= 0 && temp <= 1) {
		return fmt.Errorf("temperature must be between 0 and 1, got %f", temp)
	}
	return nil
}

// ValidateMaxTokens validates the completion token limit
func (v *Validator) ValidateMaxTokens(n int) error {
	if n <= 0 {
		return fmt.Errorf("max tokens must be greater than 0, got %d", n)
	}
	return nil
}

// ValidateLogLevel validates a log level name; empty means the default
func (v *Validator) ValidateLogLevel(level string) error {
	if level == "" {
		return nil
	}

	validLevels := []string{"trace", "debug", "info", "warn", "error", "disabled"}
	for _, valid := range validLevels {
		if level == valid {
			return nil
		}
	}

	return fmt.Errorf("invalid log level: %s (must be one of: %s)", level, strings.Join(validLevels, ", "))
}
