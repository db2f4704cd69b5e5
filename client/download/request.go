package download

import (
	"net/http"
	"os"
	"strings"

	"github.com/awalker/snarf/client/identity"
)

// Request describes a single download. It is read-only to the engine;
// zero-value fields are filled with defaults before any work starts.
type Request struct {
	// URL of the resource to fetch.
	URL string `json:"url" validate:"required,url"`

	// Dir is the destination directory. Defaults to the current
	// working directory.
	Dir string `json:"dir"`

	// Filename overrides derived naming when set. It is trimmed and
	// used verbatim; Content-Disposition and URL parsing are skipped.
	Filename string `json:"filename"`

	// Identities is the ordered candidate list presented to the
	// server. An empty string entry sends no User-Agent at all.
	// Defaults to a browser identity followed by a crawler identity.
	Identities []string `json:"identities"`

	// Header holds extra request headers applied to every attempt.
	Header http.Header `json:"header"`

	// TempDir is where the in-flight temp file lives. Defaults to
	// the platform temp location. It may be on a different filesystem
	// than Dir.
	TempDir string `json:"temp_dir"`

	// IgnoreDate leaves the destination's filesystem timestamp alone
	// even when the server supplied Last-Modified.
	IgnoreDate bool `json:"ignore_date"`

	// MarkUntrusted attaches the platform's internet-origin
	// provenance marker to the final file. When false any existing
	// marker is cleared instead.
	MarkUntrusted bool `json:"mark_untrusted"`

	// NoClobber fails the request before any transfer when the
	// destination path already exists.
	NoClobber bool `json:"no_clobber"`

	// NoProgress suppresses progress emission.
	NoProgress bool `json:"no_progress"`
}

// withDefaults returns a copy of r with zero-value fields filled in.
// The caller's Request is never mutated.
func (r Request) withDefaults() Request {
	r.Filename = strings.TrimSpace(r.Filename)

	if r.Dir == "" {
		r.Dir = "."
	}
	if r.TempDir == "" {
		r.TempDir = os.TempDir()
	}
	if r.Identities == nil {
		r.Identities = identity.Defaults()
	}
	if r.Header == nil {
		r.Header = http.Header{"Accept": []string{"*/*"}}
	}

	return r
}
