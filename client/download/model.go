package download

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoFilename indicates no filename was derivable from the
	// explicit name, response headers, or either URL.
	ErrNoFilename = errors.New("no filename could be determined")

	// ErrClobber indicates the destination exists and overwriting is
	// disallowed for this request.
	ErrClobber = errors.New("destination already exists")

	// ErrStreamUnavailable indicates no identity candidate produced a
	// readable body stream.
	ErrStreamUnavailable = errors.New("no identity candidate produced a readable stream")

	// ErrCreateDir indicates the destination or temp directory could
	// not be created.
	ErrCreateDir = errors.New("creating directory failed")

	// ErrTempFile indicates the temporary transfer file could not be
	// created.
	ErrTempFile = errors.New("creating temp file failed")

	// ErrTransfer indicates a read or write failure mid-copy.
	ErrTransfer = errors.New("transfer failed")

	// ErrFinalize indicates the completed temp file could not be
	// moved into the destination. The temp file is left in place and
	// the destination is untouched.
	ErrFinalize = errors.New("finalizing download failed")
)

// Error wraps a sentinel error with additional detail.
type Error struct {
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Result describes a completed download. Produced exactly once on
// success.
type Result struct {
	// Path is the final destination path.
	Path string

	// BytesWritten is the number of bytes streamed to disk.
	BytesWritten int64

	// SizeKnown reports whether the server declared a content length.
	SizeKnown bool

	// ModTime is the modification time applied from Last-Modified.
	// Zero when no timestamp was applied.
	ModTime time.Time
}
