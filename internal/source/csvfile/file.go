// Package csvfile reads a report from a delimited file on local disk.
package csvfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"radiodash/internal/core"
	"radiodash/internal/source"
)

type File struct {
	path string
}

var _ source.Reader = (*File)(nil)

// New returns a reader for the file at path. The path is made absolute so
// the identity stays stable across working directory changes.
func New(path string) *File {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &File{path: path}
}

func (f *File) Identity() string {
	return "csv:" + f.path
}

// ReadRows opens and decodes the file. A missing file is reported as
// core.ErrDataUnavailable.
func (f *File) ReadRows(ctx context.Context) ([]core.RawRow, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: report file not found: %s", core.ErrDataUnavailable, f.path)
		}
		return nil, fmt.Errorf("%w: open report file: %w", core.ErrDataUnavailable, err)
	}
	defer fh.Close()

	rows, err := source.DecodeCSV(fh)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	slog.DebugContext(ctx, "Report file decoded", "path", f.path, "rows", len(rows))
	return rows, nil
}
