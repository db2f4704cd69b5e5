// Package download streams remote resources to disk: metadata-backed
// naming, a uniquely named temp file, a chunked copy with throttled
// progress, and atomic placement into the destination with timestamp
// and provenance handling.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/awalker/snarf/client/identity"
	"github.com/awalker/snarf/client/resolve"
)

// chunkSize is the fixed read size of the copy loop.
const chunkSize = 64 << 10 // 64KiB

// tempExt is the extension given to in-flight temp files.
const tempExt = ".part"

// Engine downloads resources one at a time over a shared client.
type Engine struct {
	client      *http.Client
	logger      *slog.Logger
	tracer      trace.Tracer
	onProgress  func(Progress)
	keepPartial bool
}

// New returns an Engine backed by the given client. The client is
// shared, not owned; the Engine never mutates it.
func New(c *http.Client, optFns ...Option) (*Engine, error) {
	e := &Engine{
		client: c,
		logger: slog.Default(),
		tracer: noop.NewTracerProvider().Tracer("no-op tracer"),
	}

	if c == nil {
		e.client = http.DefaultClient
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying engine option: %w", err)
		}
	}

	if opts.logger != nil {
		e.logger = opts.logger
	}
	if opts.tracer != nil {
		e.tracer = opts.tracer
	}
	e.onProgress = opts.onProgress
	e.keepPartial = opts.keepPartial

	return e, nil
}

// Download fetches one resource per the request and places it at
// dir/filename. The body streams through a uniquely named temp file
// that is renamed into the destination only after a clean end of
// stream, so the destination never shows a partial file.
func (e *Engine) Download(ctx context.Context, req Request) (*Result, error) {
	req = req.withDefaults()
	if err := Validate(req); err != nil {
		return nil, fmt.Errorf("validating request: %w", err)
	}

	ctx, span := e.tracer.Start(ctx, "download")
	span.SetAttributes(attribute.String("url", req.URL))
	defer span.End()

	// With an explicit filename the destination is fully determined, so
	// a clobber can be reported before any connection is opened.
	if req.Filename != "" && req.NoClobber {
		dest := filepath.Join(req.Dir, req.Filename)
		if _, err := os.Stat(dest); err == nil {
			return nil, &Error{Err: ErrClobber, Detail: dest}
		}
	}

	// The engine resolves even when Filename is explicit: size feeds
	// percent progress and Last-Modified feeds the timestamp. A failed
	// resolution is tolerated as long as naming can still proceed.
	resolver := resolve.New(e.client,
		resolve.WithLogger(e.logger),
		resolve.WithTracer(e.tracer),
		resolve.WithIdentities(req.Identities...),
		resolve.WithHeader(req.Header),
	)
	res, resErr := resolver.Resolve(ctx, req.URL)
	if resErr != nil {
		e.logger.Warn("metadata resolution failed", "url", req.URL, "error", resErr)
	}

	name := req.Filename
	if name == "" && resErr == nil {
		name = res.Filename
	}
	if name == "" {
		name = resolve.FromRawURL(req.URL)
	}
	if name == "" {
		return nil, &Error{Err: ErrNoFilename, Detail: req.URL}
	}

	dest := filepath.Join(req.Dir, name)
	if req.NoClobber {
		if _, err := os.Stat(dest); err == nil {
			return nil, &Error{Err: ErrClobber, Detail: dest}
		}
	}

	build := func(ctx context.Context) (*http.Request, error) {
		return buildGet(ctx, req.URL, req.Header)
	}
	resp, winner, err := identity.Try(ctx, e.client, build, req.Identities)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStreamUnavailable, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			e.logger.Error("closing response body", "error", err)
		}
	}()

	for _, dir := range []string{req.TempDir, req.Dir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCreateDir, dir, err)
		}
	}

	tmpPath := filepath.Join(req.TempDir, uuid.NewString()+tempExt)
	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTempFile, err)
	}

	// The stream response declares a length of its own; use it when
	// resolution failed so progress and the result stay determinate.
	total := resp.ContentLength
	if resErr == nil {
		total = res.Size
	}

	var writer io.Writer = file
	var pw *progressWriter
	if !req.NoProgress {
		pw = newProgressWriter(file, e.logger, e.onProgress, total)
		writer = pw
	}

	n, copyErr := io.CopyBuffer(writer, resp.Body, make([]byte, chunkSize))
	if copyErr == nil {
		if pw != nil {
			pw.finish()
		}
		if total >= 0 && n != total {
			// Advisory only: the declared length may legitimately differ.
			e.logger.Warn("content length mismatch", "declared", total, "written", n, "url", req.URL)
		}
		copyErr = file.Sync()
	}
	if copyErr != nil {
		if err := file.Close(); err != nil {
			e.logger.Error("closing temp file", "error", err)
		}
		e.discardPartial(tmpPath)
		return nil, fmt.Errorf("%w: %w", ErrTransfer, copyErr)
	}
	if err := file.Close(); err != nil {
		e.discardPartial(tmpPath)
		return nil, fmt.Errorf("%w: %w", ErrTransfer, err)
	}

	if err := moveFile(tmpPath, dest); err != nil {
		// Temp file is left in place; the destination is untouched.
		return nil, fmt.Errorf("%w: %w", ErrFinalize, err)
	}

	// Failures past this point are logged, never fatal: the file is
	// already durably placed and xattr support varies by filesystem.
	sourceURL := resp.Request.URL.String()
	if req.MarkUntrusted {
		if err := markUntrusted(dest, sourceURL); err != nil {
			e.logger.Warn("marking provenance failed", "path", dest, "error", err)
		}
	} else {
		if err := clearUntrusted(dest); err != nil {
			e.logger.Warn("clearing provenance failed", "path", dest, "error", err)
		}
	}

	var applied time.Time
	if !req.IgnoreDate && resErr == nil && res.HasModTime() {
		if err := os.Chtimes(dest, res.LastModified, res.LastModified); err != nil {
			e.logger.Warn("setting modification time failed", "path", dest, "error", err)
		} else {
			applied = res.LastModified
		}
	}

	span.SetAttributes(attribute.Int64("bytes", n), attribute.String("path", dest))
	e.logger.Debug("download complete",
		"path", dest,
		"bytes", n,
		"identity", winner,
	)

	return &Result{
		Path:         dest,
		BytesWritten: n,
		SizeKnown:    total >= 0,
		ModTime:      applied,
	}, nil
}

// DownloadAll processes requests strictly one at a time over the
// shared client. A per-item failure is recorded and processing
// continues with the next item; the returned slice is positional with
// nil entries for failed items, and all errors are joined.
func (e *Engine) DownloadAll(ctx context.Context, reqs []Request) ([]*Result, error) {
	results := make([]*Result, len(reqs))

	var errs []error
	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		result, err := e.Download(ctx, req)
		if err != nil {
			errs = append(errs, fmt.Errorf("item %d (%s): %w", i, req.URL, err))
			continue
		}
		results[i] = result
	}

	return results, errors.Join(errs...)
}

// discardPartial removes (or, with WithKeepPartial, retains) the
// temp file after a failed transfer.
func (e *Engine) discardPartial(tmpPath string) {
	if e.keepPartial {
		e.logger.Warn("partial temp file retained", "path", tmpPath)
		return
	}
	if err := os.Remove(tmpPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		e.logger.Error("removing partial temp file", "path", tmpPath, "error", err)
	}
}

// moveFile renames src onto dst, overwriting dst. When rename fails
// (typically a cross-device temp dir) it stages a copy next to dst and
// renames that, so dst itself only ever changes atomically.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	staged, err := stageCopy(src, filepath.Dir(dst))
	if err != nil {
		return err
	}

	if err := os.Rename(staged, dst); err != nil {
		os.Remove(staged)
		return fmt.Errorf("placing staged copy: %w", err)
	}

	return os.Remove(src)
}

// stageCopy copies src into a fresh temp file inside dir and returns
// its path. The caller renames the staged file into place; on any
// failure the staged file is removed and dir is left as it was.
func stageCopy(src, dir string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("opening temp file for copy: %w", err)
	}
	defer in.Close()

	out, err := os.CreateTemp(dir, ".stage-*"+tempExt)
	if err != nil {
		return "", fmt.Errorf("staging next to destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", fmt.Errorf("copying across filesystems: %w", err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", fmt.Errorf("syncing staged copy: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("closing staged copy: %w", err)
	}

	return out.Name(), nil
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

	return req, nil
}
