package tracing

import (
	"context"

	"github.com/rs/zerolog"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// LogExporter writes finished spans to a zerolog logger
type LogExporter struct {
	logger zerolog.Logger
}

// NewLogExporter creates a span exporter backed by logger
func NewLogExporter(logger zerolog.Logger) *LogExporter {
	return &LogExporter{
		logger: logger.With().Str("component", "tracing").Logger(),
	}
}

// ExportSpans logs one debug line per span
func (e *LogExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		ev := e.logger.Debug().
			Str("span", span.Name()).
			Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String()).
			Dur("duration", span.EndTime().Sub(span.StartTime())).
			Str("status", span.Status().Code.String())
		for _, kv := range span.Attributes() {
			ev = ev.Str(string(kv.Key), kv.Value.Emit())
		}
		ev.Msg("Span finished")
	}
	return nil
}

// Shutdown has nothing to release
func (e *LogExporter) Shutdown(ctx context.Context) error {
	return nil
}
