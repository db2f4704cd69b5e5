package download

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
)

// progressInterval is the minimum wall-clock gap between progress
// emissions, regardless of chunk size or transfer speed.
const progressInterval = 250 * time.Millisecond

// Progress is a single progress event. Events flow to the engine's
// logger and, when configured, to a caller-supplied callback — never
// into the primary result.
type Progress struct {
	// Activity labels the operation, e.g. "downloading".
	Activity string

	// Status is human-readable, e.g. "1.2 MiB of 34 MiB".
	Status string

	// Transferred is the cumulative byte count written so far.
	Transferred int64

	// Total is the server-declared length, or -1 when unknown.
	Total int64

	// Percent is Transferred/Total*100, or -1 when Total is unknown.
	Percent float64
}

// progressWriter wraps the temp-file writer and emits throttled
// progress. The throttle window is primed at construction so the
// very first chunk does not necessarily emit.
type progressWriter struct {
	w           io.Writer
	logger      *slog.Logger
	onEvent     func(Progress)
	interval    time.Duration
	transferred int64
	total       int64
	startTime   time.Time
	lastEmit    time.Time
}

func newProgressWriter(w io.Writer, logger *slog.Logger, onEvent func(Progress), total int64) *progressWriter {
	now := time.Now()
	return &progressWriter{
		w:         w,
		logger:    logger,
		onEvent:   onEvent,
		interval:  progressInterval,
		total:     total,
		startTime: now,
		lastEmit:  now,
	}
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	pw.transferred += int64(n)

	if time.Since(pw.lastEmit) >= pw.interval {
		pw.lastEmit = time.Now()
		pw.emit("downloading")
	}

	return n, err
}

// finish emits one final event after a clean end of stream.
func (pw *progressWriter) finish() {
	pw.emit("download complete")
}

func (pw *progressWriter) emit(activity string) {
	event := Progress{
		Activity:    activity,
		Transferred: pw.transferred,
		Total:       pw.total,
		Percent:     -1,
	}

	if pw.total >= 0 {
		event.Status = fmt.Sprintf("%s of %s",
			humanize.IBytes(uint64(pw.transferred)), humanize.IBytes(uint64(pw.total)))
		if pw.total > 0 {
			event.Percent = float64(pw.transferred) / float64(pw.total) * 100
		}
	} else {
		event.Status = fmt.Sprintf("%s of unknown size", humanize.IBytes(uint64(pw.transferred)))
	}

	elapsed := time.Since(pw.startTime)
	pw.logger.Info(activity,
		"status", event.Status,
		"percent", fmt.Sprintf("%.1f", event.Percent),
		"elapsed", elapsed.Round(time.Millisecond),
	)

	if pw.onEvent != nil {
		pw.onEvent(event)
	}
}
