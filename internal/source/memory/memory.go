package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"

	"radiodash/internal/core"
	"radiodash/internal/source"
)

// Store is an in-memory report, used for demos and tests.
type Store struct {
	mu    sync.Mutex
	name  string
	rows  []core.RawRow
	err   error
	reads int
}

var _ source.Reader = (*Store)(nil)

func New(name string, rows []core.RawRow) *Store {
	return &Store{name: name, rows: append([]core.RawRow(nil), rows...)}
}

// NewFromFile seeds the store from a delimited report file. A missing or
// unreadable file leaves the store failing every read with that error.
func NewFromFile(name, path string) *Store {
	s := &Store{name: name}
	f, err := os.Open(path)
	if err != nil {
		s.err = fmt.Errorf("%w: open seed file: %w", core.ErrDataUnavailable, err)
		return s
	}
	defer f.Close()
	s.rows, s.err = source.DecodeCSV(bufio.NewReader(f))
	return s
}

func (s *Store) Identity() string {
	return "memory:" + s.name
}

// ReadRows returns a copy of the stored rows.
func (s *Store) ReadRows(_ context.Context) ([]core.RawRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.err != nil {
		return nil, s.err
	}
	return append([]core.RawRow(nil), s.rows...), nil
}

// Replace swaps the stored rows and clears any failure.
func (s *Store) Replace(rows []core.RawRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append([]core.RawRow(nil), rows...)
	s.err = nil
}

// Fail makes every following read return err.
func (s *Store) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Reads returns how many times ReadRows was called.
func (s *Store) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}
