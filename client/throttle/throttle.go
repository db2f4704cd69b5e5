package throttle

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// NewRoundTripper returns an http.RoundTripper that paces outbound
// requests through a token bucket. logFn resolves the logger lazily at
// request time so option ordering does not matter; a nil-returning
// logFn disables wait logging.
func NewRoundTripper(rps, burst int, logFn func() *slog.Logger, next http.RoundTripper) (http.RoundTripper, error) {
	if rps <= 0 || burst <= 0 {
		return nil, fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, ErrMustNotBeZero)
	}

	return &throttle{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		rps:     rps,
		burst:   burst,
		next:    next,
		logFn:   logFn,
	}, nil
}

// RoundTrip consumes one token per request. A request that finds a
// token proceeds immediately; otherwise it blocks until the bucket
// refills or its context ends.
func (t *throttle) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w before wait: %w", ErrContextEnded, err)
	}

	if t.limiter.Allow() {
		return t.next.RoundTrip(r)
	}

	logger := t.logFn()
	if logger != nil {
		logger.Info("pacing request", "rps", t.rps, "burst", t.burst, "path", r.URL.Path)
	}

	start := time.Now()
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWaitingFailed, err)
	}
	if logger != nil {
		logger.Info("pacing wait complete", "waited", time.Since(start).Round(time.Millisecond).String())
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w after wait: %w", ErrContextEnded, err)
	}

	return t.next.RoundTrip(r)
}
