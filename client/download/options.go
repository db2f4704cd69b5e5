package download

import (
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Option is a functional option for configuring an [Engine] via [New].
type Option func(*options) error

type options struct {
	logger      *slog.Logger
	tracer      trace.Tracer
	onProgress  func(Progress)
	keepPartial bool
}

// WithLogger injects a custom [slog.Logger] into the [Engine].
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		o.logger = logger
		return nil
	}
}

// WithTracer sets the tracer used for download spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		o.tracer = tracer
		return nil
	}
}

// WithProgressFunc registers a callback invoked for each throttled
// progress event, in addition to the engine's logger.
func WithProgressFunc(fn func(Progress)) Option {
	return func(o *options) error {
		if fn == nil {
			return errors.New("progress func must not be nil")
		}
		o.onProgress = fn
		return nil
	}
}

// WithKeepPartial retains the partially written temp file after a
// mid-transfer failure, for manual inspection or recovery. The
// default is to remove it.
func WithKeepPartial() Option {
	return func(o *options) error {
		o.keepPartial = true
		return nil
	}
}
