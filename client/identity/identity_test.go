package identity_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/awalker/snarf/client/identity"
)

func buildFor(url string) identity.BuildFunc {
	return func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	}
}

func TestTry_FirstSuccessWins(t *testing.T) {
	var mu sync.Mutex
	var served []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		served = append(served, r.Header.Get("User-Agent"))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	resp, winner, err := identity.Try(t.Context(), ts.Client(), buildFor(ts.URL), []string{"first/1.0", "second/1.0"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	defer resp.Body.Close()

	if winner != "first/1.0" {
		t.Errorf("expected winner first/1.0, got %q", winner)
	}

	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff([]string{"first/1.0"}, served); diff != "" {
		t.Errorf("expected a single attempt (-want +got):\n%s", diff)
	}
}

func TestTry_FallsBackInOrder(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "second/1.0" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	resp, winner, err := identity.Try(t.Context(), ts.Client(), buildFor(ts.URL), []string{"first/1.0", "second/1.0"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	defer resp.Body.Close()

	if winner != "second/1.0" {
		t.Errorf("expected winner second/1.0, got %q", winner)
	}
}

func TestTry_AllRefused(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, _, err := identity.Try(t.Context(), ts.Client(), buildFor(ts.URL), identity.Defaults())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, identity.ErrAllRefused) {
		t.Errorf("expected ErrAllRefused, got: %v", err)
	}

	var refused *identity.RefusedError
	if !errors.As(err, &refused) {
		t.Fatalf("expected RefusedError, got: %v", err)
	}
	if refused.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, refused.StatusCode)
	}
}

func TestTry_EmptyCandidateListMeansOneAnonymousAttempt(t *testing.T) {
	var count atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count.Add(1)
		if _, present := r.Header["User-Agent"]; present {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	resp, winner, err := identity.Try(t.Context(), ts.Client(), buildFor(ts.URL), nil)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	defer resp.Body.Close()

	if winner != "" {
		t.Errorf("expected empty winner, got %q", winner)
	}
	if n := count.Load(); n != 1 {
		t.Errorf("expected exactly one attempt, got %d", n)
	}
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }

func TestTry_TransportErrorSurvivesLaterRefusal(t *testing.T) {
	errTransport := errors.New("connection reset")
	doer := doerFunc(func(r *http.Request) (*http.Response, error) {
		if r.Header.Get("User-Agent") == "flaky/1.0" {
			return nil, errTransport
		}
		return &http.Response{
			StatusCode: http.StatusForbidden,
			Status:     "403 Forbidden",
			Body:       http.NoBody,
		}, nil
	})

	_, _, err := identity.Try(t.Context(), doer, buildFor("http://example.com/file"), []string{"flaky/1.0", "steady/1.0"})
	if err == nil {
		t.Fatal("expected an error")
	}

	var refused *identity.RefusedError
	if !errors.As(err, &refused) {
		t.Fatalf("expected RefusedError, got: %v", err)
	}
	if refused.StatusCode != http.StatusForbidden {
		t.Errorf("expected last status %d, got %d", http.StatusForbidden, refused.StatusCode)
	}
	if !errors.Is(err, errTransport) {
		t.Errorf("expected the earlier transport error in the chain, got: %v", err)
	}
	if !errors.Is(err, identity.ErrAllRefused) {
		t.Errorf("expected ErrAllRefused in the chain, got: %v", err)
	}
}

func TestTry_CancelledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, _, err := identity.Try(ctx, ts.Client(), buildFor(ts.URL), identity.Defaults())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}

func TestApply(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://example.com", nil)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}

	identity.Apply(req, "agent/1.0")
	if got := req.Header.Get("User-Agent"); got != "agent/1.0" {
		t.Errorf("expected agent/1.0, got %q", got)
	}

	// An empty candidate must still set the key: net/http only
	// suppresses its default when the header is explicitly empty.
	identity.Apply(req, "")
	if got, present := req.Header["User-Agent"]; !present || got[0] != "" {
		t.Errorf("expected explicitly empty User-Agent, got %v (present=%v)", got, present)
	}
}
