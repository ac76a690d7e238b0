package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"tuber/internal/engine"
	"tuber/internal/links"
	"tuber/internal/progress"
)

// fakeEngine simulates a batch download: for each URL it emits a couple of
// progress events and drops a finished file into the destination, except
// for URLs listed in skip (the engine's per-item continue-on-error policy).
type fakeEngine struct {
	mu      sync.Mutex
	dest    string
	ext     string
	skip    map[string]bool
	fatal   error
	batches [][]string
}

func (f *fakeEngine) Download(_ context.Context, urls []string, _ engine.Request, hook engine.Hook) error {
	f.mu.Lock()
	f.batches = append(f.batches, urls)
	f.mu.Unlock()

	for _, u := range urls {
		name := titleOf(u) + "." + f.ext
		hook(engine.Event{
			Status:          engine.StatusDownloading,
			Filename:        filepath.Join(f.dest, name),
			DownloadedBytes: 1_000_000,
			TotalBytes:      2_000_000,
			ETASeconds:      1,
		})
		if f.skip[u] {
			continue
		}
		hook(engine.Event{
			Status:          engine.StatusDownloading,
			Filename:        filepath.Join(f.dest, name),
			DownloadedBytes: 2_000_000,
			TotalBytes:      2_000_000,
		})
		if err := os.WriteFile(filepath.Join(f.dest, name), []byte("media"), 0o644); err != nil {
			return err
		}
	}
	return f.fatal
}

func titleOf(u string) string {
	return u[strings.LastIndex(u, "/")+1:]
}

func TestServiceRunFullSuccess(t *testing.T) {
	dest := t.TempDir()
	s := testSettings(dest)
	s.Threads = 2

	store := links.New("https://u/a", "https://u/b", "https://u/c")
	eng := &fakeEngine{dest: dest, ext: "mp4"}

	svc := NewService(
		WithSettings(s),
		WithEngine(eng),
		WithStore(store),
	)
	r, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if !r.Complete() || r.Completed != 3 {
		t.Errorf("report = %+v, want 3/3 complete", r)
	}

	// Every URL went to the engine exactly once, split round-robin.
	var all []string
	for _, b := range eng.batches {
		all = append(all, b...)
	}
	sort.Strings(all)
	want := []string{"https://u/a", "https://u/b", "https://u/c"}
	if len(all) != 3 {
		t.Fatalf("engine saw %d urls, want 3", len(all))
	}
	for i := range want {
		if all[i] != want[i] {
			t.Errorf("engine urls = %v, want %v", all, want)
		}
	}
	if len(eng.batches) != 2 {
		t.Errorf("engine ran %d batches, want one per worker (2)", len(eng.batches))
	}

	// Every entry resolved to its on-disk name.
	for _, e := range store.Entries() {
		if e.Filename != titleOf(e.URL)+".mp4" {
			t.Errorf("entry %q resolved to %q", e.URL, e.Filename)
		}
	}
}

func TestServiceRunSkippedItemLandsInFailureFile(t *testing.T) {
	dest := t.TempDir()
	s := testSettings(dest)
	s.Threads = 2

	store := links.New("https://u/a", "https://u/b", "https://u/c")
	eng := &fakeEngine{dest: dest, ext: "mp4", skip: map[string]bool{"https://u/b": true}}

	svc := NewService(WithSettings(s), WithEngine(eng), WithStore(store))
	r, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if r.Completed != 2 || r.Failed != 1 {
		t.Errorf("report = %+v, want 2 completed / 1 failed", r)
	}
	data, err := os.ReadFile(filepath.Join(dest, FailureFileName))
	if err != nil {
		t.Fatalf("failure file missing: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "https://u/b" {
		t.Errorf("failure file = %q, want the skipped URL", got)
	}
}

func TestServiceRunFatalErrorStillReconciles(t *testing.T) {
	dest := t.TempDir()
	s := testSettings(dest)
	s.Threads = 1

	fatal := errors.New("engine exploded")
	store := links.New("https://u/a", "https://u/b")
	eng := &fakeEngine{dest: dest, ext: "mp4", fatal: fatal, skip: map[string]bool{"https://u/b": true}}

	svc := NewService(WithSettings(s), WithEngine(eng), WithStore(store))
	r, err := svc.Run(context.Background())
	if !errors.Is(err, fatal) {
		t.Errorf("Run() error = %v, want the fatal engine error", err)
	}

	// Reconciliation happened anyway: a report and a failure file exist.
	if r.Total != 2 || r.Completed != 1 {
		t.Errorf("report after fatal error = %+v, want 1/2", r)
	}
	if _, serr := os.Stat(filepath.Join(dest, FailureFileName)); serr != nil {
		t.Errorf("failure file not produced after fatal error: %v", serr)
	}
}

func TestServiceRunParsesSourceFile(t *testing.T) {
	dest := t.TempDir()
	src := filepath.Join(t.TempDir(), "links.txt")
	if err := os.WriteFile(src, []byte("https://u/a\nhttps://u/b\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := testSettings(dest)
	s.Source = src
	s.Threads = 4 // more workers than links

	eng := &fakeEngine{dest: dest, ext: "mp4"}
	svc := NewService(WithSettings(s), WithEngine(eng))
	r, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !r.Complete() || r.Total != 2 {
		t.Errorf("report = %+v, want 2/2 complete", r)
	}
}

func TestServiceRunManyThreadsManyLinks(t *testing.T) {
	dest := t.TempDir()
	s := testSettings(dest)
	s.Threads = 5

	var urls []string
	for i := 0; i < 23; i++ {
		urls = append(urls, fmt.Sprintf("https://u/v%02d", i))
	}
	store := links.New(urls...)
	eng := &fakeEngine{dest: dest, ext: "mp4"}

	board := progress.NewBoard(s.Threads)
	svc := NewService(WithSettings(s), WithEngine(eng), WithStore(store), WithBoard(board))
	r, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !r.Complete() || r.Completed != 23 {
		t.Errorf("report = %+v, want 23/23", r)
	}

	// Each worker slot saw at least one status write.
	for i, slot := range board.Snapshot() {
		if slot == "" {
			t.Errorf("slot %d never written", i)
		}
	}
}
