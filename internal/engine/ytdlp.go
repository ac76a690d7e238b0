package engine

import (
	"context"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

// progressInterval is how often yt-dlp emits progress updates.
const progressInterval = 500 * time.Millisecond

// YTDLP drives downloads through the yt-dlp binary via go-ytdlp.
type YTDLP struct {
	log Logger
}

// NewYTDLP returns an engine backed by yt-dlp. Diagnostic output from each
// run is forwarded to log.
func NewYTDLP(log Logger) *YTDLP {
	return &YTDLP{log: log}
}

// Download runs one batch of URLs through yt-dlp. yt-dlp processes the URLs
// in submission order and writes one primary output per URL, which is what
// the caller's filename mapping relies on.
func (e *YTDLP) Download(ctx context.Context, urls []string, req Request, hook Hook) error {
	if len(urls) == 0 {
		return nil
	}

	dl := ytdlp.New().
		Format(req.Format).
		Output(req.OutputTemplate).
		NoPlaylist()

	if req.IgnoreErrors {
		dl = dl.IgnoreErrors()
	}
	if req.SleepIntervalSec > 0 {
		dl = dl.SleepInterval(req.SleepIntervalSec)
	}
	if req.MaxSleepIntervalSec > 0 {
		dl = dl.MaxSleepInterval(req.MaxSleepIntervalSec)
	}
	if req.MergeFormat != "" {
		dl = dl.MergeOutputFormat(req.MergeFormat)
	}
	if req.RecodeFormat != "" {
		dl = dl.RecodeVideo(req.RecodeFormat)
	}
	if req.WriteSubs {
		dl = dl.WriteSubs()
	}
	if req.WriteAutoSubs {
		dl = dl.WriteAutoSubs()
	}
	if req.ConvertSubsTo != "" {
		dl = dl.ConvertSubs(req.ConvertSubsTo)
	}
	if req.EmbedSubs {
		dl = dl.EmbedSubs()
	}

	if hook != nil {
		dl = dl.ProgressFunc(progressInterval, func(u ytdlp.ProgressUpdate) {
			ev, ok := translate(u)
			if ok {
				hook(ev)
			}
		})
	}

	res, err := dl.Run(ctx, urls...)
	e.flushLogs(res)
	if err != nil {
		if e.log != nil {
			e.log.Error(err.Error())
		}
		return err
	}
	return nil
}

// translate maps a yt-dlp progress update onto the closed Event type.
// Speed is derived from elapsed wall time because yt-dlp does not report it
// through the structured progress stream.
func translate(u ytdlp.ProgressUpdate) (Event, bool) {
	ev := Event{
		Filename:        u.Filename,
		DownloadedBytes: int64(u.DownloadedBytes),
		TotalBytes:      int64(u.TotalBytes),
		ETASeconds:      int(u.ETA().Seconds()),
	}
	if !u.Started.IsZero() {
		elapsed := time.Since(u.Started).Seconds()
		if elapsed > 0 {
			ev.SpeedBps = float64(u.DownloadedBytes) / elapsed
		}
	}

	switch u.Status {
	case ytdlp.ProgressStatusDownloading:
		ev.Status = StatusDownloading
	case ytdlp.ProgressStatusFinished:
		ev.Status = StatusFinished
	case ytdlp.ProgressStatusError:
		ev.Status = StatusError
	default:
		// pre/post-processing stages are not interesting to the display
		return Event{}, false
	}
	return ev, true
}

// flushLogs forwards the run's captured output to the logger. Stdout lines
// become debug entries (the logger filters per-tick progress text itself);
// stderr carries yt-dlp's warnings and errors.
func (e *YTDLP) flushLogs(res *ytdlp.Result) {
	if e.log == nil || res == nil {
		return
	}
	for _, line := range splitLines(res.Stdout) {
		e.log.Debug(line)
	}
	for _, line := range splitLines(res.Stderr) {
		if strings.Contains(line, "ERROR") {
			e.log.Error(line)
		} else {
			e.log.Warning(line)
		}
	}
}

func splitLines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
