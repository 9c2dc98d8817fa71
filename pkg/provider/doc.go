// Package provider adapts hosted chat-completion APIs to chat.Completer.
//
// Two backends are available:
//
//   - openai: any OpenAI-compatible Chat Completions endpoint (OpenAI, Groq,
//     local gateways) through github.com/openai/openai-go
//   - anthropic: the Anthropic Messages API through
//     github.com/anthropics/anthropic-sdk-go
//
// Clients are built with retries disabled. A failed call is reported once
// and the session decides what to keep.
//
// Instrument wraps any Completer with Prometheus metrics, an OpenTelemetry
// span per call and failure logging.
//
// # Usage
//
//	sess, err := provider.NewSession(provider.KindOpenAI, chat.Config{
//	    APIKey:  os.Getenv("GROQ_API_KEY"),
//	    BaseURL: "https://api.groq.com/openai/v1",
//	    Model:   "mixtral-8x7b-32768",
//	}, provider.Options{Metrics: m, Logger: log})
//	if err != nil {
//	    return err
//	}
//	reply, err := sess.Send(ctx, "What is 2+2?")
package provider
