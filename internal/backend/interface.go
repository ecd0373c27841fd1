package backend

import (
	"context"

	"radiodash/internal/source"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// SourceResult contains the report reader and optional cleanup function
type SourceResult struct {
	Reader  source.Reader
	Cleanup CleanupFunc
}

// Factory creates report readers based on configuration
type Factory interface {
	// CreateSource creates a reader for the configured report location
	CreateSource(ctx context.Context, config Config) (*SourceResult, error)
}
