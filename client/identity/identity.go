package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Browser and Crawler are the default identity candidates. Some
// servers refuse browser identities but accept crawlers, and vice
// versa, so both are tried in order.
const (
	Browser = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	Crawler = "Googlebot/2.1 (+http://www.google.com/bot.html)"
)

// maxDrainSize caps how much of a refused response body is read
// before closing, keeping the connection reusable without
// unbounded reads.
const maxDrainSize = 4 << 10 // 4KB

var (
	// ErrAllRefused is the sentinel error wrapped by [RefusedError].
	ErrAllRefused = errors.New("all identity candidates refused")
)

// RefusedError is returned by [Try] when no candidate produced a
// successful response. It carries the status of the last attempt.
type RefusedError struct {
	StatusCode int
	Status     string
	Candidates int
	Err        error
}

func (e *RefusedError) Error() string {
	return fmt.Sprintf("%v: %d candidate(s), last status %q", e.Err, e.Candidates, e.Status)
}

func (e *RefusedError) Unwrap() error {
	return e.Err
}

// Doer abstracts *http.Client for [Try].
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// BuildFunc constructs a fresh request for a single attempt. Each
// attempt gets its own request so no header state survives between
// candidates.
type BuildFunc func(ctx context.Context) (*http.Request, error)

// Defaults returns the standard candidate order: a common browser
// identity followed by a crawler identity.
func Defaults() []string {
	return []string{Browser, Crawler}
}

// Apply sets the candidate as the request's User-Agent. An empty
// candidate suppresses the header entirely, including the Go
// default.
func Apply(req *http.Request, candidate string) {
	req.Header.Set("User-Agent", candidate)
}

// Try issues one request per candidate, in order, and returns the
// first response with a 2xx status along with the candidate that
// produced it. The response body is open; the caller owns it.
// Refused responses are drained and closed before the next attempt.
// A nil or empty candidate list is treated as a single anonymous
// attempt.
func Try(ctx context.Context, doer Doer, build BuildFunc, candidates []string) (*http.Response, string, error) {
	if len(candidates) == 0 {
		candidates = []string{""}
	}

	var lastStatus string
	var lastCode int
	var lastErr error

	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		req, err := build(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("building attempt request: %w", err)
		}
		Apply(req, candidate)

		resp, err := doer.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, candidate, nil
		}

		lastCode = resp.StatusCode
		lastStatus = resp.Status
		drainClose(resp.Body)
	}

	if lastErr != nil && lastCode == 0 {
		return nil, "", fmt.Errorf("%w: %w", ErrAllRefused, lastErr)
	}

	// A transport failure on an earlier candidate stays in the chain
	// alongside the last refusal status.
	cause := error(ErrAllRefused)
	if lastErr != nil {
		cause = fmt.Errorf("%w: earlier attempt failed: %w", ErrAllRefused, lastErr)
	}

	return nil, "", &RefusedError{
		StatusCode: lastCode,
		Status:     lastStatus,
		Candidates: len(candidates),
		Err:        cause,
	}
}

func drainClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxDrainSize))
	_ = body.Close()
}
