package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/harun/decachat/internal/metrics"
	"github.com/harun/decachat/internal/tracing"
	"github.com/harun/decachat/pkg/chat"
	"github.com/openai/openai-go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Instrumented decorates a Completer with metrics, tracing and logging
type Instrumented struct {
	inner   chat.Completer
	name    string
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// Instrument wraps inner. m may be nil.
func Instrument(inner chat.Completer, name string, m *metrics.Metrics, logger zerolog.Logger) *Instrumented {
	return &Instrumented{
		inner:   inner,
		name:    name,
		metrics: m,
		logger:  logger.With().Str("component", "provider").Str("provider", name).Logger(),
	}
}

// Complete forwards to the wrapped completer and records the outcome
func (i *Instrumented) Complete(ctx context.Context, req chat.CompletionRequest) (*chat.CompletionResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "chat.completion",
		attribute.String("llm.provider", i.name),
		attribute.String("llm.model", req.Model),
		attribute.Int("llm.messages", len(req.Messages)),
	)
	defer span.End()

	log := tracing.LoggerFromContext(ctx, i.logger)
	start := time.Now()

	resp, err := i.inner.Complete(ctx, req)
	duration := time.Since(start)

	if err != nil {
		errType := classifyError(ctx, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, errType)
		i.metrics.ObserveCompletion(i.name, req.Model, duration, false, errType)

		log.Warn().
			Err(err).
			Str("model", req.Model).
			Str("error_type", errType).
			Dur("duration", duration).
			Msg("Completion failed")
		return nil, err
	}

	i.metrics.ObserveCompletion(i.name, req.Model, duration, true, "")
	if resp != nil && resp.Usage != nil {
		i.metrics.ObserveTokens(i.name, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
		span.SetAttributes(
			attribute.Int("llm.usage.prompt_tokens", resp.Usage.PromptTokens),
			attribute.Int("llm.usage.completion_tokens", resp.Usage.CompletionTokens),
		)
	}
	span.SetStatus(codes.Ok, "")

	log.Debug().
		Str("model", req.Model).
		Dur("duration", duration).
		Msg("Completion succeeded")

	return resp, nil
}

// classifyError maps a completion failure to a low-cardinality label
func classifyError(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}

	var oaiErr *openai.Error
	if errors.As(err, &oaiErr) {
		return statusClass(oaiErr.StatusCode)
	}
	var antErr *anthropic.Error
	if errors.As(err, &antErr) {
		return statusClass(antErr.StatusCode)
	}

	if ctx.Err() != nil {
		return "canceled"
	}
	return "transport"
}

func statusClass(code int) string {
	switch {
	case code == 429:
		return "rate_limited"
	case code >= 500:
		return "status_5xx"
	case code >= 400:
		return "status_4xx"
	}
	return fmt.Sprintf("status_%d", code)
}
