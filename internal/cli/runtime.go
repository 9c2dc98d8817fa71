package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/harun/decachat/internal/config"
	"github.com/harun/decachat/internal/logger"
	"github.com/harun/decachat/internal/metrics"
	"github.com/harun/decachat/internal/tracing"
	"github.com/harun/decachat/pkg/chat"
	"github.com/harun/decachat/pkg/provider"
)

// runtime bundles what a command needs to talk to the model
type runtime struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Metrics
	session *chat.Session
	server  *http.Server

	shutdownTracing func(context.Context) error
}

// loadConfig reads the config file with the command line overrides applied
// before the provider key fallback runs.
func loadConfig() (*config.Config, error) {
	return config.NewLoader(cfgFile).WithOverrides(config.Overrides{
		Provider:      providerName,
		Model:         model,
		BaseURL:       baseURL,
		SystemMessage: systemPrompt,
		Intro:         intro,
		LogLevel:      logLevel,
		MetricsAddr:   metricsAddr,
	}).Load()
}

// newRuntime loads configuration and builds a ready session.
// Logs go to logOut; stdout is left to the conversation.
func newRuntime(logOut io.Writer) (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Config{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		Console:   true,
		Pretty:    cfg.Logging.Pretty,
		Redaction: cfg.Logging.Redaction,
		Output:    logOut,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	traceOpts := tracing.Options{
		ServiceName: "decachat",
		Version:     version,
		SampleRatio: cfg.Tracing.Ratio(),
	}
	if cfg.Tracing.LogSpans {
		zl := log.Zerolog()
		traceOpts.SpanLogger = &zl
	}
	shutdownTracing, err := tracing.Setup(traceOpts)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize tracing")
	}

	m := metrics.NewMetrics()

	session, err := provider.NewSession(cfg.Provider, cfg.SessionConfig(log.Zerolog()), provider.Options{
		Metrics: m,
		Logger:  log.Zerolog(),
	})
	if err != nil {
		if shutdownTracing != nil {
			_ = shutdownTracing(context.Background())
		}
		_ = log.Close()
		return nil, err
	}

	rt := &runtime{
		cfg:     cfg,
		log:     log,
		metrics: m,
		session: session,

		shutdownTracing: shutdownTracing,
	}

	if cfg.Metrics.Addr != "" {
		rt.startMetricsServer(cfg.Metrics.Addr)
	}

	return rt, nil
}

// startMetricsServer serves /metrics in the background
func (r *runtime) startMetricsServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.metrics.Handler())

	r.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	r.log.Info().Str("addr", addr).Msg("Starting metrics server")

	go func() {
		if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.log.Error().Err(err).Msg("Metrics server failed")
		}
	}()
}

// send runs one turn with request ids and the configured timeout
func (r *runtime) send(ctx context.Context, text string) (string, error) {
	ctx = tracing.NewRequestContext(ctx, r.session.ID())
	if timeout := r.cfg.RequestTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return r.session.Send(ctx, text)
}

// Close stops the metrics server and flushes logs and traces
func (r *runtime) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	if r.server != nil {
		if err := r.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown metrics server: %w", err))
		}
	}
	if r.shutdownTracing != nil {
		if err := r.shutdownTracing(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown tracing: %w", err))
		}
	}
	if err := r.log.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
