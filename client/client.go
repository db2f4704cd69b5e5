package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/awalker/snarf/client/download"
	"github.com/awalker/snarf/client/resolve"
	"github.com/awalker/snarf/client/throttle"
)

// Client wraps the std-lib *http.Client.
// It sets a default *http.Client and *http.Transport, which
// can be customized via optional funcs. One Client is intended to be
// shared across a whole sequence of items so the connection pool is
// set up once.
type Client struct {
	c      *http.Client
	logger *slog.Logger
	tracer trace.Tracer
}

func Build(optFns ...Option) (*Client, error) {
	client := &Client{
		c:      &http.Client{},
		logger: slog.Default(),
		tracer: noop.NewTracerProvider().Tracer("no-op tracer"),
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	if opts.client != nil {
		client.c = opts.client
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.tracer != nil {
		client.tracer = opts.tracer
	}

	if opts.timeout != nil {
		client.c.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		client.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(opts.throttle.RPS, opts.throttle.Burst, func() *slog.Logger { return client.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	client.c.Transport = transport

	return client, nil
}

// Resolve performs a metadata-only fetch of rawURL, returning the
// effective URL, derived filename, declared size, and last-modified
// time. Incomplete server metadata is a normal outcome, not an error.
func (c *Client) Resolve(ctx context.Context, rawURL string, opts ...resolve.Option) (resolve.Resource, error) {
	base := []resolve.Option{
		resolve.WithLogger(c.logger),
		resolve.WithTracer(c.tracer),
	}
	r := resolve.New(c.c, append(base, opts...)...)

	return r.Resolve(ctx, rawURL)
}

// Download streams the resource described by req to disk via a
// uniquely named temp file and atomic placement. See
// [download.Engine.Download].
func (c *Client) Download(ctx context.Context, req download.Request, opts ...download.Option) (*download.Result, error) {
	e, err := c.engine(opts)
	if err != nil {
		return nil, err
	}

	return e.Download(ctx, req)
}

// DownloadAll processes requests sequentially over this client's
// connection pool; per-item failures do not stop the batch. See
// [download.Engine.DownloadAll].
func (c *Client) DownloadAll(ctx context.Context, reqs []download.Request, opts ...download.Option) ([]*download.Result, error) {
	e, err := c.engine(opts)
	if err != nil {
		return nil, err
	}

	return e.DownloadAll(ctx, reqs)
}

func (c *Client) engine(opts []download.Option) (*download.Engine, error) {
	base := []download.Option{
		download.WithLogger(c.logger),
		download.WithTracer(c.tracer),
	}

	e, err := download.New(c.c, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("building download engine: %w", err)
	}

	return e, nil
}
