package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"DECACHAT_API_KEY", "DECACHAT_MODEL", "DECACHAT_MAX_TOKENS", "DECACHAT_TEMPERATURE", "DECACHAT_PROVIDER", "OPENAI_API_KEY", "GROQ_API_KEY", "ANTHROPIC_API_KEY"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader("/path/to/config.json")
	assert.NotNil(t, loader)
	assert.Equal(t, "/path/to/config.json", loader.GetConfigPath())
}

func TestGetConfigPathDefault(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, filepath.Join("/home/tester", ".decachat", "config.json"), NewLoader("").GetConfigPath())
}

func TestLoaderLoad(t *testing.T) {
	t.Run("load default config when file doesn't exist", func(t *testing.T) {
		clearKeyEnv(t)
		cfg, err := NewLoader(filepath.Join(t.TempDir(), "missing.json")).Load()

		require.NoError(t, err)
		assert.Equal(t, ProviderOpenAI, cfg.Provider)
		assert.Empty(t, cfg.APIKey)
	})

	t.Run("load json config", func(t *testing.T) {
		clearKeyEnv(t)
		path := writeFile(t, "config.json", `{
			"api_key": "sk-file",
			"model": "mixtral-8x7b-32768",
			"base_url": "https://api.groq.com/openai/v1",
			"max_tokens": 512,
			"temperature": 0,
			"intro": "Hello! How can I help you today?",
			"system_message": "You are a helpful AI assistant.",
			"timeout": 20,
			"logging": {"level": "debug"}
		}`)

		cfg, err := NewLoader(path).Load()
		require.NoError(t, err)

		assert.Equal(t, "sk-file", cfg.APIKey)
		assert.Equal(t, "mixtral-8x7b-32768", cfg.Model)
		assert.Equal(t, "https://api.groq.com/openai/v1", cfg.BaseURL)
		require.NotNil(t, cfg.MaxTokens)
		assert.Equal(t, 512, *cfg.MaxTokens)
		require.NotNil(t, cfg.Temperature)
		assert.Equal(t, 0.0, *cfg.Temperature)
		assert.Equal(t, "Hello! How can I help you today?", cfg.Intro)
		assert.Equal(t, "You are a helpful AI assistant.", cfg.SystemMessage)
		assert.Equal(t, 20, cfg.Timeout)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.True(t, cfg.Logging.Redaction, "unset nested fields keep defaults")
	})

	t.Run("load yaml config", func(t *testing.T) {
		clearKeyEnv(t)
		path := writeFile(t, "config.yaml", "provider: anthropic\napi_key: sk-ant-file\nmodel: claude-3-5-haiku-latest\nmax_tokens: 200\n")

		cfg, err := NewLoader(path).Load()
		require.NoError(t, err)

		assert.Equal(t, ProviderAnthropic, cfg.Provider)
		assert.Equal(t, "sk-ant-file", cfg.APIKey)
		assert.Equal(t, "claude-3-5-haiku-latest", cfg.Model)
		assert.Equal(t, 200, *cfg.MaxTokens)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		clearKeyEnv(t)
		t.Setenv("DECACHAT_API_KEY", "sk-env")
		t.Setenv("DECACHAT_MODEL", "gpt-4o")
		t.Setenv("DECACHAT_MAX_TOKENS", "64")
		path := writeFile(t, "config.json", `{"api_key": "sk-file", "model": "gpt-4o-mini"}`)

		cfg, err := NewLoader(path).Load()
		require.NoError(t, err)

		assert.Equal(t, "sk-env", cfg.APIKey)
		assert.Equal(t, "gpt-4o", cfg.Model)
		require.NotNil(t, cfg.MaxTokens)
		assert.Equal(t, 64, *cfg.MaxTokens)
	})

	t.Run("provider key fallback", func(t *testing.T) {
		clearKeyEnv(t)
		t.Setenv("GROQ_API_KEY", "gsk-env")
		path := writeFile(t, "config.json", `{"base_url": "https://api.groq.com/openai/v1"}`)

		cfg, err := NewLoader(path).Load()
		require.NoError(t, err)
		assert.Equal(t, "gsk-env", cfg.APIKey)
	})

	t.Run("schema rejects unknown keys", func(t *testing.T) {
		clearKeyEnv(t)
		path := writeFile(t, "config.json", `{"api_key": "k", "use_browser": true}`)

		_, err := NewLoader(path).Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema")
	})

	t.Run("schema rejects out of range temperature", func(t *testing.T) {
		clearKeyEnv(t)
		path := writeFile(t, "config.yaml", "temperature: 1.5\n")

		_, err := NewLoader(path).Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "temperature")
	})

	t.Run("schema rejects zero max tokens", func(t *testing.T) {
		clearKeyEnv(t)
		path := writeFile(t, "config.json", `{"max_tokens": 0}`)

		_, err := NewLoader(path).Load()
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		clearKeyEnv(t)
		path := writeFile(t, "config.json", `{"api_key": `)

		_, err := NewLoader(path).Load()
		assert.Error(t, err)
	})

	t.Run("invalid env value fails validation", func(t *testing.T) {
		clearKeyEnv(t)
		t.Setenv("DECACHAT_PROVIDER", "gemini")

		_, err := NewLoader(filepath.Join(t.TempDir(), "missing.json")).Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid provider")
	})
}

func TestLoadConvenience(t *testing.T) {
	clearKeyEnv(t)
	path := writeFile(t, "config.json", `{"api_key": "sk-x"}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-x", cfg.APIKey)
}

func TestLoaderOverrides(t *testing.T) {
	t.Run("overrides win over file", func(t *testing.T) {
		clearKeyEnv(t)
		path := writeFile(t, "config.json", `{"api_key": "k", "model": "gpt-4o-mini", "intro": "Hi", "logging": {"level": "warn"}}`)

		cfg, err := NewLoader(path).WithOverrides(Overrides{
			Model:       "gpt-4o",
			Intro:       "Hello!",
			LogLevel:    "debug",
			MetricsAddr: ":9090",
		}).Load()
		require.NoError(t, err)

		assert.Equal(t, "gpt-4o", cfg.Model)
		assert.Equal(t, "Hello!", cfg.Intro)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, ":9090", cfg.Metrics.Addr)
	})

	t.Run("key fallback follows overridden provider", func(t *testing.T) {
		clearKeyEnv(t)
		t.Setenv("OPENAI_API_KEY", "openai-key")
		t.Setenv("ANTHROPIC_API_KEY", "anthropic-key")

		cfg, err := NewLoader(filepath.Join(t.TempDir(), "missing.json")).
			WithOverrides(Overrides{Provider: ProviderAnthropic}).
			Load()
		require.NoError(t, err)
		assert.Equal(t, "anthropic-key", cfg.APIKey)
	})

	t.Run("key fallback follows overridden base url", func(t *testing.T) {
		clearKeyEnv(t)
		t.Setenv("OPENAI_API_KEY", "openai-key")
		t.Setenv("GROQ_API_KEY", "groq-key")
		path := writeFile(t, "config.json", `{"base_url": "https://api.openai.com/v1"}`)

		cfg, err := NewLoader(path).
			WithOverrides(Overrides{BaseURL: "https://api.groq.com/openai/v1"}).
			Load()
		require.NoError(t, err)
		assert.Equal(t, "groq-key", cfg.APIKey)
	})

	t.Run("overrides are validated", func(t *testing.T) {
		clearKeyEnv(t)
		_, err := NewLoader(filepath.Join(t.TempDir(), "missing.json")).
			WithOverrides(Overrides{BaseURL: "ftp://example.com"}).
			Load()
		assert.Error(t, err)
	})
}

func TestLoaderTracingSection(t *testing.T) {
	clearKeyEnv(t)
	path := writeFile(t, "config.yaml", "api_key: k\ntracing:\n  sample_ratio: 0.25\n  log_spans: true\n")

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)
	require.NotNil(t, cfg.Tracing.SampleRatio)
	assert.Equal(t, 0.25, cfg.Tracing.Ratio())
	assert.True(t, cfg.Tracing.LogSpans)
}
