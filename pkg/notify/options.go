package notify

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/dmitrymomot/entityhub/pkg/notify"

type options struct {
	logger     *slog.Logger
	tracer     trace.Tracer
	metrics    *Metrics
	bestEffort bool
}

// Option configures dispatchers and registries.
type Option func(*options)

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracer overrides the tracer taken from the global otel provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithMetrics records dispatch outcomes in m. A nil m disables metrics.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithBestEffort makes a dispatch attempt every group even after a failure.
// Per-group errors are combined and returned once all groups were tried.
func WithBestEffort() Option {
	return func(o *options) {
		o.bestEffort = true
	}
}

// WithConfig applies settings loaded from the environment.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.bestEffort = cfg.BestEffort
	}
}

func newOptions(opts ...Option) options {
	o := options{
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
