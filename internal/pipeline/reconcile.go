package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tuber/internal/links"
	"tuber/internal/model"
	"tuber/internal/util"
)

// FailureFileName is written into the destination directory, one
// un-downloaded URL per line, truncated every run.
const FailureFileName = "failed.txt"

// Report is the outcome of reconciliation.
type Report struct {
	Total       int
	Completed   int // files with the expected extension present on disk
	Failed      int
	BytesOnDisk int64
	FailedURLs  []string
	FailureFile string // path written, empty when the run fully succeeded
}

// Complete reports whether every expected file is present.
func (r Report) Complete() bool {
	return r.Completed == r.Total
}

// Reconcile scans the destination for finished files and matches them
// against the store's resolved filenames. Entries that never resolved, or
// whose resolved name is not on disk, are failures; their URLs are written
// to the failure file. Files already present before the run count as
// completed, which is what makes reruns idempotent.
func Reconcile(store *links.Store, s model.Settings) (Report, error) {
	onDisk, bytes, err := scanDestination(s)
	if err != nil {
		return Report{}, err
	}

	r := Report{
		Total:       store.Len(),
		Completed:   len(onDisk),
		BytesOnDisk: bytes,
	}
	for _, e := range store.Entries() {
		if !e.Resolved() || !onDisk[e.Filename] {
			r.FailedURLs = append(r.FailedURLs, e.URL)
		}
	}
	r.Failed = len(r.FailedURLs)

	failPath := filepath.Join(s.Destination, FailureFileName)
	if r.Complete() {
		// Stale failure lists from earlier runs must not survive a clean run.
		if err := util.RemoveIfExists(failPath); err != nil {
			return r, fmt.Errorf("remove failure file: %w", err)
		}
		return r, nil
	}

	var b strings.Builder
	for _, u := range r.FailedURLs {
		b.WriteString(u)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(failPath, []byte(b.String()), 0o644); err != nil {
		return r, fmt.Errorf("write failure file: %w", err)
	}
	r.FailureFile = failPath
	return r, nil
}

// scanDestination globs the destination for files with the run's expected
// extension and returns their basenames and combined size.
func scanDestination(s model.Settings) (map[string]bool, int64, error) {
	matches, err := filepath.Glob(filepath.Join(s.Destination, "*."+s.OutputExt()))
	if err != nil {
		return nil, 0, fmt.Errorf("scan destination: %w", err)
	}
	onDisk := make(map[string]bool, len(matches))
	var total int64
	for _, m := range matches {
		onDisk[filepath.Base(m)] = true
		if fi, err := os.Stat(m); err == nil {
			total += fi.Size()
		}
	}
	return onDisk, total, nil
}
