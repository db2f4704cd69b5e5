package throttle

import (
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"
)

var (
	ErrMustNotBeZero = errors.New("must be greater than zero")
	ErrWaitingFailed = errors.New("limiter waiting failed")
	ErrContextEnded  = errors.New("throttle context ended")
)

// Config carries the requests-per-second rate and burst capacity that
// the client builder hands to [NewRoundTripper].
type Config struct {
	RPS   int
	Burst int
}

// throttle paces a download client's sequential fetches against a
// host: metadata and stream requests for a whole batch share one
// bucket, so a long item list cannot hammer the origin.
type throttle struct {
	limiter *rate.Limiter
	rps     int
	burst   int
	next    http.RoundTripper
	logFn   func() *slog.Logger
}
