package resolve

import (
	"time"
)

// Resource is the normalized description of a remote resource,
// produced once per resolution and never mutated.
type Resource struct {
	// OriginalURL is the URL as supplied by the caller.
	OriginalURL string

	// EffectiveURL is the final URL after redirects.
	EffectiveURL string

	// Filename is the sanitized derived filename. It may be empty
	// when no name could be determined from any source.
	Filename string

	// Size is the server-declared byte length, or -1 when the server
	// omitted Content-Length. The value is advisory only.
	Size int64

	// LastModified is the parsed Last-Modified header. The zero
	// value means the header was missing or unparseable.
	LastModified time.Time
}

// SizeKnown reports whether the server declared a content length.
func (r Resource) SizeKnown() bool {
	return r.Size >= 0
}

// HasModTime reports whether a Last-Modified timestamp was resolved.
func (r Resource) HasModTime() bool {
	return !r.LastModified.IsZero()
}
