package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

// envKeys are the settings that DECACHAT_* environment variables override
var envKeys = []string{
	"provider",
	"api_key",
	"model",
	"base_url",
	"max_tokens",
	"temperature",
	"intro",
	"system_message",
	"timeout",
}

// Loader handles configuration loading
type Loader struct {
	configPath string
	overrides  Overrides
}

// Overrides are command line values that win over the file and environment.
// Empty fields leave the loaded value alone.
type Overrides struct {
	Provider      string
	Model         string
	BaseURL       string
	SystemMessage string
	Intro         string
	LogLevel      string
	MetricsAddr   string
}

func (o Overrides) apply(cfg *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Provider, o.Provider)
	set(&cfg.Model, o.Model)
	set(&cfg.BaseURL, o.BaseURL)
	set(&cfg.SystemMessage, o.SystemMessage)
	set(&cfg.Intro, o.Intro)
	set(&cfg.Logging.Level, o.LogLevel)
	set(&cfg.Metrics.Addr, o.MetricsAddr)
}

// NewLoader creates a new config loader. An empty path means the default
// location under the user's home directory.
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
	}
}

// WithOverrides sets the values applied on top of the file and environment
func (l *Loader) WithOverrides(o Overrides) *Loader {
	l.overrides = o
	return l
}

// Load reads the configuration file (JSON or YAML), applies DECACHAT_*
// environment variables and then the overrides, resolves the provider API
// key fallback for the final provider and base URL, and validates the
// result. A missing file is not an error.
func (l *Loader) Load() (*Config, error) {
	configPath := l.GetConfigPath()

	v := viper.New()
	v.SetEnvPrefix("DECACHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if configPath != "" {
		raw, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := validateSchema(configPath, raw); err != nil {
				return nil, err
			}
			v.SetConfigFile(configPath)
			v.SetConfigType(configType(configPath))
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
			// defaults and environment only
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	l.overrides.apply(cfg)
	cfg.ResolveAPIKey()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetConfigPath returns the config file path
func (l *Loader) GetConfigPath() string {
	if l.configPath != "" {
		return l.configPath
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".decachat", "config.json")
}

// Load is a convenience function that creates a loader and loads the config
func Load(configPath string) (*Config, error) {
	return NewLoader(configPath).Load()
}

func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

// validateSchema checks the raw file against the embedded JSON schema
func validateSchema(path string, raw []byte) error {
	var doc gojsonschema.JSONLoader
	if configType(path) == "yaml" {
		var parsed map[string]interface{}
		if err := yaml.Unmarshal(raw, &parsed); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
		if parsed == nil {
			parsed = map[string]interface{}{}
		}
		doc = gojsonschema.NewGoLoader(parsed)
	} else {
		doc = gojsonschema.NewBytesLoader(raw)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), doc)
	if err != nil {
		return fmt.Errorf("failed to validate config file: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("config file %s does not match schema: %s", path, strings.Join(msgs, "; "))
	}
	return nil
}
