package downloader

import (
	"context"
	"strings"
	"testing"

	"tuber/internal/engine"
	"tuber/internal/links"
	"tuber/internal/progress"
)

// scriptedEngine replays a fixed event sequence into the hook and records
// what it was asked to download.
type scriptedEngine struct {
	urls   []string
	req    engine.Request
	events []engine.Event
	err    error
}

func (f *scriptedEngine) Download(_ context.Context, urls []string, req engine.Request, hook engine.Hook) error {
	f.urls = urls
	f.req = req
	for _, ev := range f.events {
		hook(ev)
	}
	return f.err
}

func dl(file string, done, total int64, eta int) engine.Event {
	return engine.Event{
		Status:          engine.StatusDownloading,
		Filename:        file,
		DownloadedBytes: done,
		TotalBytes:      total,
		ETASeconds:      eta,
	}
}

func TestWorkerRunSubmitsPartitionInOrder(t *testing.T) {
	store := links.New("https://u/1", "https://u/2", "https://u/3")
	part := store.Partition(1)[0]

	eng := &scriptedEngine{}
	w := NewWorker(0, part, videoSettings(), progress.NewBoard(1), progress.Nop{}, eng)
	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := []string{"https://u/1", "https://u/2", "https://u/3"}
	if len(eng.urls) != len(want) {
		t.Fatalf("engine got %d urls, want %d", len(eng.urls), len(want))
	}
	for i, u := range want {
		if eng.urls[i] != u {
			t.Errorf("url[%d] = %q, want %q", i, eng.urls[i], u)
		}
	}
	if eng.req.Format == "" {
		t.Error("engine request has empty format selector")
	}
}

func TestWorkerEmptyPartitionSkipsEngine(t *testing.T) {
	eng := &scriptedEngine{err: context.DeadlineExceeded}
	w := NewWorker(0, nil, videoSettings(), progress.NewBoard(1), progress.Nop{}, eng)
	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run() on empty partition should not touch the engine, got %v", err)
	}
}

func TestWorkerFilenameMapping(t *testing.T) {
	store := links.New("https://u/1", "https://u/2")
	part := store.Partition(1)[0]

	eng := &scriptedEngine{events: []engine.Event{
		dl("/dl/first video.f137.mp4", 10, 100, 9),
		dl("/dl/first video.f137.mp4", 50, 100, 5),  // same file: cursor must not advance
		dl("/dl/first video.f251.webm", 10, 100, 2), // audio stream of the same item
		dl("/dl/second video.mp4", 5, 50, 30),
	}}
	w := NewWorker(0, part, videoSettings(), progress.NewBoard(1), progress.Nop{}, eng)
	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	entries := store.Entries()
	if got := entries[0].Filename; got != "first video.mp4" {
		t.Errorf("entry[0].Filename = %q, want %q", got, "first video.mp4")
	}
	// Known fragility of cursor matching: the second stream of the first
	// item consumes the next slot. The scripted engine here emits one
	// primary file per URL except that probe, so the second URL maps from
	// the third distinct name.
	if !entries[1].Resolved() {
		t.Error("entry[1] never resolved")
	}
}

func TestWorkerFilenameMappingOnePerURL(t *testing.T) {
	store := links.New("https://u/1", "https://u/2")
	part := store.Partition(1)[0]

	eng := &scriptedEngine{events: []engine.Event{
		dl("/dl/alpha.mp4", 10, 100, 9),
		dl("/dl/alpha.mp4", 100, 100, 0),
		dl("/dl/beta.mp4", 10, 200, 9),
		dl("/dl/beta.mp4", 200, 200, 0),
	}}
	w := NewWorker(0, part, videoSettings(), progress.NewBoard(1), progress.Nop{}, eng)
	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	entries := store.Entries()
	if entries[0].Filename != "alpha.mp4" {
		t.Errorf("entry[0].Filename = %q, want alpha.mp4", entries[0].Filename)
	}
	if entries[1].Filename != "beta.mp4" {
		t.Errorf("entry[1].Filename = %q, want beta.mp4", entries[1].Filename)
	}
}

func TestWorkerAudioModeMapsM4A(t *testing.T) {
	store := links.New("https://u/1")
	part := store.Partition(1)[0]

	s := videoSettings()
	s.NoVideo = true
	eng := &scriptedEngine{events: []engine.Event{
		dl("/dl/track.m4a", 1, 10, 3),
	}}
	w := NewWorker(0, part, s, progress.NewBoard(1), progress.Nop{}, eng)
	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if got := store.Entries()[0].Filename; got != "track.m4a" {
		t.Errorf("Filename = %q, want track.m4a", got)
	}
}

func TestWorkerStatusBlock(t *testing.T) {
	board := progress.NewBoard(2)
	store := links.New("https://u/1")
	part := store.Partition(1)[0]

	eng := &scriptedEngine{events: []engine.Event{
		{
			Status:          engine.StatusDownloading,
			Filename:        "/dl/clip.mp4",
			DownloadedBytes: 5_000_000,
			TotalBytes:      10_000_000,
			SpeedBps:        2_500_000,
			ETASeconds:      2,
		},
	}}
	w := NewWorker(1, part, videoSettings(), board, progress.Nop{}, eng)
	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	snap := board.Snapshot()
	if snap[0] != "" {
		t.Errorf("slot 0 written by worker 1: %q", snap[0])
	}
	block := snap[1]
	for _, want := range []string{"clip.mp4", "50%", "5 / 10 MB", "2.5 MB/s", "2 seconds left"} {
		if !strings.Contains(block, want) {
			t.Errorf("status block missing %q:\n%q", want, block)
		}
	}
}

func TestWorkerStatusBlockDoneAndSentinel(t *testing.T) {
	board := progress.NewBoard(1)
	store := links.New("https://u/1")
	part := store.Partition(1)[0]

	eng := &scriptedEngine{events: []engine.Event{
		dl("/dl/clip.mp4", 10_000_000, 10_000_000, 0),
		dl("/dl/clip.mp4.part", 1_000_000, 0, 0), // unknown total
	}}
	w := NewWorker(0, part, videoSettings(), board, progress.Nop{}, eng)
	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	block := board.Snapshot()[0]
	if !strings.Contains(block, "/ -1 MB") {
		t.Errorf("unknown total not rendered as -1 MB sentinel:\n%q", block)
	}

	// Replay just the finished tick to check the Done label.
	board2 := progress.NewBoard(1)
	store2 := links.New("https://u/1")
	eng2 := &scriptedEngine{events: []engine.Event{
		dl("/dl/clip.mp4", 10_000_000, 10_000_000, 0),
	}}
	w2 := NewWorker(0, store2.Partition(1)[0], videoSettings(), board2, progress.Nop{}, eng2)
	if err := w2.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if block := board2.Snapshot()[0]; !strings.Contains(block, "Done") {
		t.Errorf("100%% not rendered as Done:\n%q", block)
	}
}

func TestWorkerIgnoresNonDownloadingEvents(t *testing.T) {
	board := progress.NewBoard(1)
	store := links.New("https://u/1")

	eng := &scriptedEngine{events: []engine.Event{
		{Status: engine.StatusFinished, Filename: "/dl/clip.mp4"},
		{Status: engine.StatusError, Filename: "/dl/clip.mp4"},
	}}
	w := NewWorker(0, store.Partition(1)[0], videoSettings(), board, progress.Nop{}, eng)
	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if board.Snapshot()[0] != "" {
		t.Errorf("non-downloading events wrote to the board: %q", board.Snapshot()[0])
	}
	if store.Entries()[0].Resolved() {
		t.Error("non-downloading events advanced the filename cursor")
	}
}

func TestExpectedName(t *testing.T) {
	tests := []struct {
		in   string
		ext  string
		want string
	}{
		{in: "title.f137.mp4", ext: "mp4", want: "title.mp4"},
		{in: "title.mp4", ext: "mp4", want: "title.mp4"},
		{in: "title.webm", ext: "mp4", want: "title.mp4"},
		{in: "my.video.f251.webm", ext: "mp4", want: "my.video.mp4"},
		{in: "track.m4a", ext: "m4a", want: "track.m4a"},
		{in: "noext", ext: "mp4", want: "noext.mp4"},
	}
	for _, tt := range tests {
		if got := expectedName(tt.in, tt.ext); got != tt.want {
			t.Errorf("expectedName(%q, %q) = %q, want %q", tt.in, tt.ext, got, tt.want)
		}
	}
}
