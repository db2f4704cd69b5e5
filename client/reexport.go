package client

import (
	"github.com/awalker/snarf/client/download"
	"github.com/awalker/snarf/client/identity"
	"github.com/awalker/snarf/client/resolve"
)

// ————————————————————————————————————————————————————————————————————
// Type aliases – re-export user-facing types from the subpackages.
// ————————————————————————————————————————————————————————————————————

type (
	// Request describes a single download.
	Request = download.Request

	// Result describes a completed download.
	Result = download.Result

	// Progress is a single throttled progress event.
	Progress = download.Progress

	// Resource is the normalized description of a remote resource.
	Resource = resolve.Resource

	// DownloadError wraps a download sentinel error with detail.
	DownloadError = download.Error
)

// ————————————————————————————————————————————————————————————————————
// Sentinel errors
// ————————————————————————————————————————————————————————————————————

var (
	// ErrResolution indicates no identity candidate produced a
	// successful header response.
	ErrResolution = resolve.ErrResolution

	// ErrNoFilename indicates no filename was derivable from any source.
	ErrNoFilename = download.ErrNoFilename

	// ErrClobber indicates the destination exists and overwriting is disallowed.
	ErrClobber = download.ErrClobber

	// ErrStreamUnavailable indicates no identity candidate produced a readable stream.
	ErrStreamUnavailable = download.ErrStreamUnavailable

	// ErrTransfer indicates a read or write failure mid-copy.
	ErrTransfer = download.ErrTransfer

	// ErrFinalize indicates the completed temp file could not be placed.
	ErrFinalize = download.ErrFinalize
)

// ————————————————————————————————————————————————————————————————————
// Option forwarding functions
// ————————————————————————————————————————————————————————————————————

// DefaultIdentities returns the standard candidate order: a browser
// identity followed by a crawler identity.
func DefaultIdentities() []string { return identity.Defaults() }

// WithProgressFunc registers a callback invoked for each throttled
// progress event, in addition to the client's logger.
func WithProgressFunc(fn func(Progress)) download.Option { return download.WithProgressFunc(fn) }

// WithKeepPartial retains the partially written temp file after a
// mid-transfer failure instead of removing it.
func WithKeepPartial() download.Option { return download.WithKeepPartial() }
