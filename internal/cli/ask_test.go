package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskCommand(t *testing.T) {
	resetFlags(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DECACHAT_API_KEY", "sk-test")

	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"4"}}],"usage":{"prompt_tokens":5,"completion_tokens":1,"total_tokens":6}}`))
	}))
	defer server.Close()

	cmd := GetRootCmd()
	output := &bytes.Buffer{}
	cmd.SetOut(output)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{
		"ask",
		"--config", filepath.Join(t.TempDir(), "missing.json"),
		"--base-url", server.URL,
		"--model", "mixtral-8x7b-32768",
		"--system", "You are a helpful AI assistant.",
		"What", "is", "2+2?",
	})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "4\n", output.String())

	require.NotNil(t, got)
	assert.Equal(t, "mixtral-8x7b-32768", got["model"])
	messages := got["messages"].([]interface{})
	require.Len(t, messages, 2)
	assert.Equal(t, "What is 2+2?", messages[1].(map[string]interface{})["content"])
}

func TestAskCommandMissingKey(t *testing.T) {
	resetFlags(t)
	t.Setenv("HOME", t.TempDir())
	for _, name := range []string{"DECACHAT_API_KEY", "OPENAI_API_KEY", "GROQ_API_KEY", "ANTHROPIC_API_KEY"} {
		t.Setenv(name, "")
	}

	cmd := GetRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"ask", "--config", filepath.Join(t.TempDir(), "missing.json"), "hi"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apiKey")
}
