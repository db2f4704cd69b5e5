package resolve

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/trace"
)

// Option is a functional option for configuring a [Resolver] via [New].
type Option func(*options)

type options struct {
	logger     *slog.Logger
	tracer     trace.Tracer
	identities []string
	header     http.Header
}

// WithLogger injects a custom [slog.Logger] into the [Resolver].
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTracer sets the tracer used for resolution spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}

// WithIdentities replaces the default identity candidate list. An
// empty string entry means "no identity" for that attempt.
func WithIdentities(candidates ...string) Option {
	return func(o *options) {
		o.identities = candidates
	}
}

// WithHeader applies extra request headers to every attempt.
func WithHeader(header http.Header) Option {
	return func(o *options) {
		o.header = header
	}
}
