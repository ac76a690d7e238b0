// Package engine defines the contract with the external media-extraction
// engine. The rest of the program only sees the Engine interface and the
// closed Event type; the real work happens in the yt-dlp adapter.
package engine

import "context"

// Status is the kind of progress event the engine reports.
type Status int

const (
	StatusDownloading Status = iota
	StatusFinished
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusDownloading:
		return "downloading"
	case StatusFinished:
		return "finished"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is a single progress callback payload.
type Event struct {
	Status          Status
	Filename        string // path of the file currently being written
	DownloadedBytes int64
	TotalBytes      int64 // 0 when the engine does not know the total
	SpeedBps        float64
	ETASeconds      int
}

// Hook receives progress events. Hooks must be safe to call from the
// goroutine driving the engine.
type Hook func(Event)

// Request is the full download configuration handed to the engine for one
// batch of URLs.
type Request struct {
	Format         string // quality selector string
	OutputTemplate string // e.g. /dst/%(title)s.%(ext)s

	// Video post-processing
	MergeFormat  string // container to merge A/V streams into
	RecodeFormat string // final container to recode to

	// Subtitles (video mode only)
	WriteSubs     bool
	WriteAutoSubs bool
	ConvertSubsTo string
	EmbedSubs     bool

	// Politeness pacing between items
	SleepIntervalSec    float64
	MaxSleepIntervalSec float64

	// Per-item errors are swallowed so the batch continues
	IgnoreErrors bool
}

// Logger receives the engine's diagnostic output.
type Logger interface {
	Debug(msg string)
	Warning(msg string)
	Error(msg string)
}

// Engine downloads a batch of URLs. URLs are processed in submission order
// and each URL yields one primary output file; the worker's filename
// mapping depends on both properties. A returned error is an engine-level
// fatal error, never a per-item failure (those are swallowed when
// Request.IgnoreErrors is set).
type Engine interface {
	Download(ctx context.Context, urls []string, req Request, hook Hook) error
}
