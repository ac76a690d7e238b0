// Package links holds the in-memory list of URLs for a run and its
// round-robin split across workers.
package links

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Entry pairs a source URL with the output filename its worker resolved for
// it. Filename stays empty until the first progress event for the matching
// download arrives.
type Entry struct {
	URL      string
	Filename string
}

// Resolved reports whether a filename has been mapped to this entry.
func (e *Entry) Resolved() bool {
	return e.Filename != ""
}

// Store is the ordered list of entries for one run. Entries are shared by
// pointer with worker partitions; each entry is written only by the worker
// owning its partition, so no lock is taken here.
type Store struct {
	entries []*Entry
}

// Parse reads a newline-delimited URL file into a Store, one entry per
// non-empty line.
func Parse(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source file: %w", err)
	}
	defer f.Close()

	s := &Store{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		s.entries = append(s.entries, &Entry{URL: line})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read source file: %w", err)
	}
	return s, nil
}

// New builds a Store directly from URLs (used by tests and programmatic callers).
func New(urls ...string) *Store {
	s := &Store{entries: make([]*Entry, 0, len(urls))}
	for _, u := range urls {
		s.entries = append(s.entries, &Entry{URL: u})
	}
	return s
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Entries returns the entries in file order.
func (s *Store) Entries() []*Entry {
	return s.entries
}

// Partition splits the entries round-robin across n workers: entry i goes to
// partition i mod n. Partitions share the Store's entry pointers, so a
// worker resolving a filename updates the Store directly. Every entry lands
// in exactly one partition.
func (s *Store) Partition(n int) [][]*Entry {
	if n < 1 {
		n = 1
	}
	parts := make([][]*Entry, n)
	for i, e := range s.entries {
		parts[i%n] = append(parts[i%n], e)
	}
	return parts
}
