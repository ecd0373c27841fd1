package backend

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"radiodash/internal/source/csvfile"
	"radiodash/internal/source/google"
	"radiodash/internal/source/memory"
	"radiodash/internal/source/objectstore"
	"radiodash/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new source factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateSource implements Factory.CreateSource
func (f *DefaultFactory) CreateSource(ctx context.Context, config Config) (*SourceResult, error) {
	switch config.Type {
	case CSVSource:
		return f.createCSVSource(config)
	case SQLiteSource:
		return f.createSQLiteSource(config)
	case PostgresSource:
		return f.createPostgresSource(ctx, config)
	case SheetsSource:
		return f.createSheetsSource(ctx, config)
	case MinioSource:
		return f.createMinioSource(config)
	case MemorySource:
		return f.createMemorySource(config)
	default:
		return nil, fmt.Errorf("unsupported report source: %s", config.Type)
	}
}

func (f *DefaultFactory) createCSVSource(config Config) (*SourceResult, error) {
	if config.ReportFile == "" {
		return nil, fmt.Errorf("report file is required for csv source")
	}
	file := csvfile.New(config.ReportFile)
	f.logger.Info("Initialized CSV report source", "source", file.Identity())
	return &SourceResult{Reader: file}, nil
}

func (f *DefaultFactory) createSQLiteSource(config Config) (*SourceResult, error) {
	table, err := storage.OpenSQLite(config.SQLiteDBPath, config.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite source: %w", err)
	}
	f.logger.Info("Initialized SQLite report source", "db_path", config.SQLiteDBPath, "table", config.Table)
	return &SourceResult{Reader: table, Cleanup: table.Close}, nil
}

func (f *DefaultFactory) createPostgresSource(ctx context.Context, config Config) (*SourceResult, error) {
	table, err := storage.OpenPostgres(ctx, config.PostgresURL, config.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Postgres source: %w", err)
	}
	f.logger.Info("Initialized Postgres report source", "source", table.Identity())
	return &SourceResult{Reader: table, Cleanup: table.Close}, nil
}

func (f *DefaultFactory) createSheetsSource(ctx context.Context, config Config) (*SourceResult, error) {
	cli, err := google.New(ctx, google.Config{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		Range:           config.GoogleSheetRange,
		CredentialsFile: config.GoogleServiceAccountFile,
		CredentialsJSON: config.GoogleServiceAccountJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}
	f.logger.Info("Initialized Google Sheets report source", "source", cli.Identity())
	return &SourceResult{Reader: cli}, nil
}

func (f *DefaultFactory) createMinioSource(config Config) (*SourceResult, error) {
	obj, err := objectstore.New(objectstore.Config{
		Endpoint:  config.MinioEndpoint,
		AccessKey: config.MinioAccessKey,
		SecretKey: config.MinioSecretKey,
		Bucket:    config.MinioBucket,
		Object:    config.MinioObject,
		UseSSL:    config.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO source: %w", err)
	}
	f.logger.Info("Initialized MinIO report source", "source", obj.Identity())
	return &SourceResult{Reader: obj}, nil
}

// createMemorySource reads the report file once at startup; reloads serve
// the same snapshot.
func (f *DefaultFactory) createMemorySource(config Config) (*SourceResult, error) {
	if config.ReportFile == "" {
		return nil, fmt.Errorf("report file is required for memory source")
	}
	store := memory.NewFromFile(filepath.Base(config.ReportFile), config.ReportFile)
	f.logger.Info("Initialized memory report source", "source", store.Identity(), "seed", config.ReportFile)
	return &SourceResult{Reader: store}, nil
}
