// Package throttle rate-limits outbound HTTP requests with a
// token-bucket [http.RoundTripper] built on [golang.org/x/time/rate].
//
// The download client wraps its base transport with one of these when
// rate limiting is requested, so every metadata fetch and body stream
// in a batch draws from the same bucket:
//
//	rt, err := throttle.NewRoundTripper(
//		10, // requests per second
//		5,  // burst capacity
//		func() *slog.Logger { return slog.Default() },
//		http.DefaultTransport,
//	)
//	httpClient := &http.Client{Transport: rt}
//
// A request that finds no token blocks until the bucket refills or the
// request context ends.
package throttle
