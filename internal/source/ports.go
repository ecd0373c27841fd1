package source

import (
	"context"

	"radiodash/internal/core"
)

// Ports for inbound report adapters.
type (
	// Reader loads the raw rows of one report.
	Reader interface {
		// ReadRows returns every row of the report. Failures to read the
		// report as a table are reported wrapping core.ErrDataUnavailable.
		ReadRows(ctx context.Context) ([]core.RawRow, error)

		// Identity names the report location; it is the cache key.
		Identity() string
	}

	// Closer is implemented by readers holding connections.
	Closer interface {
		Close() error
	}
)
