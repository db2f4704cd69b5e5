// Package resolve performs metadata-only resolution of remote
// resources: effective URL, filename, size, and last-modified time.
package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/awalker/snarf/client/identity"
)

// Resolver issues metadata-only fetches against remote URLs.
type Resolver struct {
	client     *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
	identities []string
	header     http.Header
}

// New returns a Resolver backed by the given client. The client is
// shared, not owned; the Resolver never mutates it.
func New(c *http.Client, optFns ...Option) *Resolver {
	r := &Resolver{
		client:     c,
		logger:     slog.Default(),
		tracer:     noop.NewTracerProvider().Tracer("no-op tracer"),
		identities: identity.Defaults(),
	}

	if c == nil {
		r.client = http.DefaultClient
	}

	var opts options
	for _, opt := range optFns {
		opt(&opts)
	}

	if opts.logger != nil {
		r.logger = opts.logger
	}
	if opts.tracer != nil {
		r.tracer = opts.tracer
	}
	if opts.identities != nil {
		r.identities = opts.identities
	}
	if opts.header != nil {
		r.header = opts.header
	}

	return r
}

// Resolve performs a metadata-only fetch of rawURL: a GET whose body
// is closed as soon as response headers arrive (some servers reject
// HEAD). Identity candidates are tried in order until one produces a
// success status. Missing or unparseable size/date headers leave the
// corresponding fields unset — incomplete metadata is a normal
// outcome, never an error.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (Resource, error) {
	ctx, span := r.tracer.Start(ctx, "resolve")
	span.SetAttributes(attribute.String("url", rawURL))
	defer span.End()

	build := func(ctx context.Context) (*http.Request, error) {
		return buildGet(ctx, rawURL, r.header)
	}

	resp, winner, err := identity.Try(ctx, r.client, build, r.identities)
	if err != nil {
		return Resource{}, fmt.Errorf("%w: %w", ErrResolution, err)
	}
	// Headers are all we want; closing without draining abandons the body.
	defer resp.Body.Close()

	res := Resource{
		OriginalURL:  rawURL,
		EffectiveURL: resp.Request.URL.String(),
		Size:         resp.ContentLength,
	}

	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			res.LastModified = t
		}
	}

	res.Filename = FromDisposition(resp.Header.Get("Content-Disposition"))
	if res.Filename == "" {
		res.Filename = FromURL(resp.Request.URL)
	}
	if res.Filename == "" {
		res.Filename = FromRawURL(rawURL)
	}

	span.SetAttributes(
		attribute.String("filename", res.Filename),
		attribute.Int64("size", res.Size),
	)
	r.logger.Debug("resolved resource",
		"url", res.EffectiveURL,
		"filename", res.Filename,
		"size", res.Size,
		"identity", winner,
	)

	return res, nil
}

// buildGet constructs a fresh GET request with the extra headers
// applied. Called once per identity attempt.
func buildGet(ctx context.Context, rawURL string, header http.Header) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "*/*")
	}

	return req, nil
}
