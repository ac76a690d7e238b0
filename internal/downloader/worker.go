// Package downloader drives the external engine over one worker's URL
// partition and keeps the link store and progress board current.
package downloader

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"tuber/internal/engine"
	"tuber/internal/links"
	"tuber/internal/model"
	"tuber/internal/progress"
	"tuber/internal/util/format"
)

// Worker owns one partition of the link list. It derives the engine
// configuration once, runs its whole partition to completion, and resolves
// filenames back onto its entries as progress events arrive.
//
// Filename mapping assumes the engine processes this worker's URLs in
// submission order and emits exactly one primary output file per URL; the
// cursor advances each time a new output file is first seen. Two URLs that
// legitimately resolve to identical output names are undefined behavior
// (first match wins).
type Worker struct {
	id       int
	entries  []*links.Entry
	settings model.Settings
	board    *progress.Board
	reporter progress.Reporter
	eng      engine.Engine

	cursor int
	seen   map[string]bool
}

// NewWorker builds a worker for slot id over the given partition.
func NewWorker(id int, entries []*links.Entry, s model.Settings, board *progress.Board, rep progress.Reporter, eng engine.Engine) *Worker {
	return &Worker{
		id:       id,
		entries:  entries,
		settings: s,
		board:    board,
		reporter: rep,
		eng:      eng,
		seen:     make(map[string]bool),
	}
}

// Run downloads the worker's partition. The returned error is an
// engine-level fatal error; per-item failures are swallowed by the engine
// and surface later at reconciliation.
func (w *Worker) Run(ctx context.Context) error {
	if len(w.entries) == 0 {
		return nil
	}
	urls := make([]string, 0, len(w.entries))
	for _, e := range w.entries {
		urls = append(urls, e.URL)
	}
	req := BuildRequest(w.settings)
	return w.eng.Download(ctx, urls, req, w.onEvent)
}

// onEvent is the progress callback handed to the engine.
func (w *Worker) onEvent(e engine.Event) {
	if e.Status != engine.StatusDownloading {
		return
	}

	name := filepath.Base(e.Filename)
	w.mapFilename(name)
	w.board.Set(w.id, w.statusBlock(name, e))
	if w.reporter != nil {
		w.reporter.Repaint()
	}
}

// statusBlock formats the four-line status text for this worker's slot.
func (w *Worker) statusBlock(name string, e engine.Event) string {
	short := format.ShortName(name)
	eta := format.TimeLeft(e.ETASeconds)

	// MB figures; -1 is the sentinel for an unknown total.
	sizeMB := -1.0
	if e.TotalBytes > 0 {
		sizeMB = format.Megabytes(e.TotalBytes)
	}
	downloadedMB := format.Megabytes(e.DownloadedBytes)
	speedMB := format.Megabytes(int64(e.SpeedBps))

	pct := format.Percent(downloadedMB, sizeMB)
	label := floatStr(pct) + "%"
	if pct == 100 {
		label = "Done"
	}

	return fmt.Sprintf("%-12s\t\t%s\n%s / %s MB | %s MB/s\n%s\n\n",
		short, label, floatStr(downloadedMB), floatStr(sizeMB), floatStr(speedMB), eta)
}

// mapFilename resolves the next unresolved entry of this partition the
// first time a new output file shows up.
func (w *Worker) mapFilename(name string) {
	if name == "" || w.seen[name] {
		return
	}
	w.seen[name] = true

	for w.cursor < len(w.entries) {
		e := w.entries[w.cursor]
		w.cursor++
		if e.Resolved() {
			continue
		}
		e.Filename = expectedName(name, w.settings.OutputExt())
		return
	}
}

// expectedName predicts the final on-disk filename for an in-flight file:
// the engine's intermediate names carry stream suffixes ("title.f137.mp4",
// "title.mp4.part"), so up to two trailing dot-segments are stripped before
// the final extension is appended.
func expectedName(name, ext string) string {
	base := name
	for i := 0; i < 2; i++ {
		dot := strings.LastIndex(base, ".")
		if dot < 0 {
			break
		}
		base = base[:dot]
	}
	return base + "." + ext
}

// floatStr renders a float the way the status block wants it: no trailing
// zeros, "100" not "100.00".
func floatStr(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
