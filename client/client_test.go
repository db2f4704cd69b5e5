package client_test

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/awalker/snarf/client"
)

func quiet() client.Option {
	return client.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBuild_OptionValidation(t *testing.T) {
	testCases := []struct {
		name string
		opt  client.Option
	}{
		{
			name: "Nil client rejected",
			opt:  client.WithClient(nil),
		},
		{
			name: "Nil transport rejected",
			opt:  client.WithTransport(nil),
		},
		{
			name: "Negative timeout rejected",
			opt:  client.WithTimeout(-time.Second),
		},
		{
			name: "Zero throttle rejected",
			opt:  client.WithThrottle(0, 0),
		},
		{
			name: "Nil tracer rejected",
			opt:  client.WithTracer(nil),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := client.Build(tc.opt); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestClient_Resolve(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="report.pdf"`)
		w.Header().Set("Content-Length", "9")
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c, err := client.Build(quiet(), client.WithClient(ts.Client()))
	if err != nil {
		t.Fatalf("building client: %v", err)
	}

	res, err := c.Resolve(t.Context(), ts.URL+"/anything")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if res.Filename != "report.pdf" {
		t.Errorf("expected filename report.pdf, got %q", res.Filename)
	}
	if res.Size != 9 {
		t.Errorf("expected size 9, got %d", res.Size)
	}
}

func TestClient_Download(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "payload")
	}))
	defer ts.Close()

	c, err := client.Build(quiet(), client.WithClient(ts.Client()))
	if err != nil {
		t.Fatalf("building client: %v", err)
	}

	dir := t.TempDir()
	result, err := c.Download(t.Context(), client.Request{
		URL:        ts.URL + "/data.bin",
		Dir:        dir,
		TempDir:    t.TempDir(),
		NoProgress: true,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if result.Path != filepath.Join(dir, "data.bin") {
		t.Errorf("unexpected destination %q", result.Path)
	}
	if result.BytesWritten != int64(len("payload")) {
		t.Errorf("expected %d bytes, got %d", len("payload"), result.BytesWritten)
	}
}

func TestClient_DownloadAll(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer ts.Close()

	c, err := client.Build(quiet(), client.WithClient(ts.Client()))
	if err != nil {
		t.Fatalf("building client: %v", err)
	}

	dir := t.TempDir()
	reqs := []client.Request{
		{URL: ts.URL + "/a.txt", Dir: dir, TempDir: t.TempDir(), NoProgress: true},
		{URL: ts.URL + "/b.txt", Dir: dir, TempDir: t.TempDir(), NoProgress: true},
	}

	results, err := c.DownloadAll(t.Context(), reqs)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	for i, r := range results {
		if r == nil {
			t.Errorf("expected result for item %d", i)
		}
	}
}

func TestClient_NoFollowRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c, err := client.Build(quiet(),
		client.WithClient(ts.Client()),
		client.WithNoFollowRedirects(),
	)
	if err != nil {
		t.Fatalf("building client: %v", err)
	}

	// The redirect is returned as-is, which no identity candidate can
	// turn into a success.
	if _, err := c.Resolve(t.Context(), ts.URL+"/old"); !errors.Is(err, client.ErrResolution) {
		t.Errorf("expected ErrResolution, got: %v", err)
	}
}

func TestClient_WithThrottle(t *testing.T) {
	var hits atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, "ok")
	}))
	defer ts.Close()

	c, err := client.Build(quiet(),
		client.WithClient(ts.Client()),
		client.WithThrottle(100, 1),
	)
	if err != nil {
		t.Fatalf("building client: %v", err)
	}

	if _, err := c.Resolve(t.Context(), ts.URL+"/file.txt"); err != nil {
		t.Fatalf("expected throttled request to succeed, got: %v", err)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("expected one request through the throttle, got %d", n)
	}
}
