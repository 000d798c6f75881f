package instrumented

import (
	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type Option func(*options)

type options struct {
	logger         log.Logger
	reg            prometheus.Registerer
	tracerProvider trace.TracerProvider
}

func defaultOptions() *options {
	return &options{
		logger:         log.NewNopLogger(),
		tracerProvider: noop.NewTracerProvider(),
	}
}

func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegisterer registers the decorator's metrics with reg. Without it the
// metrics are still maintained but not exported.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.reg = reg
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}
