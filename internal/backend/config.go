package backend

import (
	"fmt"

	"radiodash/internal/config"
)

// Config holds configuration for report source creation
type Config struct {
	Type SourceType

	// CSV file, also the seed of the memory source
	ReportFile string

	// SQL table sources
	SQLiteDBPath string
	PostgresURL  string
	Table        string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleSheetRange         string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string

	// MinIO object
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioObject    string
	MinioUseSSL    bool
}

// SourceType represents where the report is read from
type SourceType string

const (
	CSVSource      SourceType = "csv"
	SQLiteSource   SourceType = "sqlite"
	PostgresSource SourceType = "postgres"
	SheetsSource   SourceType = "sheets"
	MinioSource    SourceType = "minio"
	MemorySource   SourceType = "memory"
)

// String implements fmt.Stringer
func (st SourceType) String() string {
	return string(st)
}

// IsValid returns true if the source type is valid
func (st SourceType) IsValid() bool {
	switch st {
	case CSVSource, SQLiteSource, PostgresSource, SheetsSource, MinioSource, MemorySource:
		return true
	default:
		return false
	}
}

// FromAppConfig converts the application config to source config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	sourceType := SourceType(appConfig.ReportSource)
	if !sourceType.IsValid() {
		return Config{}, fmt.Errorf("invalid report source in config: %s", appConfig.ReportSource)
	}

	return Config{
		Type:       sourceType,
		ReportFile: appConfig.ReportFile,

		SQLiteDBPath: appConfig.SQLiteDBPath,
		PostgresURL:  appConfig.PostgresURL,
		Table:        appConfig.ReportTable,

		GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
		GoogleSheetRange:         appConfig.GoogleSheetRange,
		GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,
		GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,

		MinioEndpoint:  appConfig.MinioEndpoint,
		MinioAccessKey: appConfig.MinioAccessKey,
		MinioSecretKey: appConfig.MinioSecretKey,
		MinioBucket:    appConfig.MinioBucket,
		MinioObject:    appConfig.MinioObject,
		MinioUseSSL:    appConfig.MinioUseSSL,
	}, nil
}
