package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"radiodash/internal/core"
)

func TestMemoryStoreReadAndReplace(t *testing.T) {
	s := New("demo", []core.RawRow{{Client: "A", Insertions: "1"}})
	rows, err := s.ReadRows(context.Background())
	if err != nil || len(rows) != 1 {
		t.Fatalf("unexpected read: rows=%v err=%v", rows, err)
	}
	rows[0].Client = "mutated"

	again, _ := s.ReadRows(context.Background())
	if again[0].Client != "A" {
		t.Fatalf("store leaked its slice: %v", again)
	}

	s.Replace([]core.RawRow{{Client: "B"}, {Client: "C"}})
	rows, _ = s.ReadRows(context.Background())
	if len(rows) != 2 || s.Reads() != 3 {
		t.Fatalf("unexpected after replace: rows=%v reads=%d", rows, s.Reads())
	}
	if s.Identity() != "memory:demo" {
		t.Fatalf("identity: %q", s.Identity())
	}
}

func TestMemoryStoreFail(t *testing.T) {
	s := New("demo", nil)
	boom := errors.New("boom")
	s.Fail(boom)
	if _, err := s.ReadRows(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	s.Replace(nil)
	if _, err := s.ReadRows(context.Background()); err != nil {
		t.Fatalf("replace should clear failure: %v", err)
	}
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()

	s := NewFromFile("missing", filepath.Join(dir, "absent.csv"))
	if _, err := s.ReadRows(context.Background()); !errors.Is(err, core.ErrDataUnavailable) {
		t.Fatalf("expected data unavailable, got %v", err)
	}

	path := filepath.Join(dir, "seed.csv")
	if err := os.WriteFile(path, []byte("Cliente;Inserções\nA;1\nB;2\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s = NewFromFile("seed", path)
	rows, err := s.ReadRows(context.Background())
	if err != nil || len(rows) != 2 || rows[1].Client != "B" {
		t.Fatalf("unexpected seed rows: %v err=%v", rows, err)
	}
}
