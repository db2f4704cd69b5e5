package resolve

import (
	"mime"
	"net/url"
	"path"
	"strings"
)

// invalidFilenameChars is the portable superset of characters that
// are invalid in filenames on at least one supported platform. The
// same set is applied everywhere so derived names are deterministic.
const invalidFilenameChars = `<>:"/\|?*`

// Sanitize replaces filesystem-invalid characters (including control
// characters) with spaces and trims the result.
func Sanitize(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(invalidFilenameChars, r) {
			return ' '
		}
		return r
	}, name)

	return strings.TrimSpace(cleaned)
}

// FromDisposition extracts a filename from a Content-Disposition
// header value per RFC 6266, preferring the RFC 2231 encoded
// filename* parameter when present (mime.ParseMediaType decodes it
// into the "filename" key). Directory components are discarded and
// the result is sanitized. Returns "" when no usable name exists.
func FromDisposition(header string) string {
	if header == "" {
		return ""
	}

	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}

	name := params["filename"]
	if name == "" {
		return ""
	}

	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}

	return Sanitize(lastSegment(name))
}

// FromURL derives a filename from the last path segment of u with
// any query string ignored, percent-decoded and sanitized. Returns
// "" when the URL has no usable final segment.
func FromURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	// u.Path is already percent-decoded by net/url.
	return Sanitize(lastSegment(u.Path))
}

// FromRawURL is FromURL for an unparsed URL string.
func FromRawURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return FromURL(u)
}

// lastSegment returns the final path segment of p, treating both
// slash styles as separators. Bare roots and dots yield "".
func lastSegment(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")

	base := path.Base(p)
	if base == "." || base == "/" || base == ".." {
		return ""
	}

	return base
}
