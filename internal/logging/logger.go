// Package logging provides the append-only file sink for engine
// diagnostics. The file is truncated once per run and closed explicitly at
// end-of-run.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// progressMarker identifies per-tick progress lines, which the dedicated
// progress display already shows and which would otherwise flood the log.
const progressMarker = "ETA"

// FileLog writes engine diagnostics to a single file. Safe for use from
// multiple worker goroutines.
type FileLog struct {
	mu    sync.Mutex
	f     *os.File
	runID string
}

// Open truncates (or creates) the log file at path and stamps a run header.
func Open(path string) (*FileLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l := &FileLog{f: f, runID: uuid.NewString()}
	l.write(fmt.Sprintf("run %s started %s", l.runID, time.Now().Format(time.RFC3339)))
	return l, nil
}

// RunID identifies this run in the log header.
func (l *FileLog) RunID() string {
	return l.runID
}

// Debug writes a debug line unless it is per-tick progress noise.
func (l *FileLog) Debug(msg string) {
	if strings.Contains(msg, progressMarker) {
		return
	}
	l.write(msg)
}

// Warning writes a warning line.
func (l *FileLog) Warning(msg string) {
	l.write(msg)
}

// Error writes an error line.
func (l *FileLog) Error(msg string) {
	l.write(msg)
}

// Close flushes and closes the underlying file.
func (l *FileLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}

func (l *FileLog) write(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return
	}
	_, _ = l.f.WriteString(msg + "\n")
}
