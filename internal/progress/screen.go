package progress

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
)

// clearSequence resets the terminal before each repaint.
const clearSequence = "\033c"

// Screen is the plain full-screen reporter: each repaint clears the
// terminal, prints a header with the count of finished files already on
// disk, then every worker slot in index order.
type Screen struct {
	mu    sync.Mutex
	board *Board
	dest  string
	ext   string
	out   io.Writer
}

// NewScreen builds a Screen reporter writing to out. dest and ext locate
// the finished files counted in the header.
func NewScreen(board *Board, dest, ext string, out io.Writer) *Screen {
	return &Screen{board: board, dest: dest, ext: ext, out: out}
}

// Repaint renders the current snapshot. Which snapshot a concurrent caller
// observes is unspecified; every slot string is rendered whole.
func (s *Screen) Repaint() {
	done := s.countFinished()
	snap := s.board.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.out, clearSequence)
	fmt.Fprintf(s.out, "Completed: %d\n\n", done)
	fmt.Fprint(s.out, strings.Join(snap, ""))
}

func (s *Screen) countFinished() int {
	matches, err := filepath.Glob(filepath.Join(s.dest, "*."+s.ext))
	if err != nil {
		return 0
	}
	return len(matches)
}
