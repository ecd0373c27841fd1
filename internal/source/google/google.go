package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"radiodash/internal/core"
	"radiodash/internal/source"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Config selects the spreadsheet range holding the report and the service
// account used to read it.
type Config struct {
	SpreadsheetID   string
	Range           string // sheet name or A1 range, e.g. "relatorio!A:F"
	CredentialsFile string
	CredentialsJSON string
}

type Client struct {
	spreadsheetID string
	rng           string
	fetch         func(ctx context.Context) ([][]interface{}, error)
}

// Ensure interface conformance
var _ source.Reader = (*Client)(nil)

// Numbers come back raw so locale grouping such as "1.500" never reaches
// ParseInsertions; dates come back as the sheet displays them.
const (
	valueRender    = "UNFORMATTED_VALUE"
	dateTimeRender = "FORMATTED_STRING"
)

// New creates a Sheets report reader using service account credentials.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(cfg.Range) == "" {
		return nil, errors.New("missing sheet range")
	}
	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	c := &Client{spreadsheetID: cfg.SpreadsheetID, rng: cfg.Range}
	c.fetch = func(ctx context.Context) ([][]interface{}, error) {
		resp, err := svc.Spreadsheets.Values.Get(c.spreadsheetID, c.rng).
			ValueRenderOption(valueRender).
			DateTimeRenderOption(dateTimeRender).
			Context(ctx).
			Do()
		if err != nil {
			return nil, err
		}
		return resp.Values, nil
	}
	return c, nil
}

// newSheetsService initializes a read-only Sheets Service from inline JSON or
// a credentials file.
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	var credentialsJSON []byte
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(cfg.CredentialsJSON)
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		slog.InfoContext(ctx, "Read credentials file", "path", cfg.CredentialsFile, "size", len(b))
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func (c *Client) Identity() string {
	return "sheets:" + c.spreadsheetID + "!" + c.rng
}

// ReadRows reads the configured range; the first row is the header.
func (c *Client) ReadRows(ctx context.Context) ([]core.RawRow, error) {
	if c.fetch == nil {
		return nil, fmt.Errorf("%w: sheets service not initialized", core.ErrDataUnavailable)
	}
	values, err := c.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", core.ErrDataUnavailable, c.rng, err)
	}
	rows, err := parseValues(values)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", c.rng, err)
	}
	slog.DebugContext(ctx, "Sheet range read", "range", c.rng, "rows", len(rows))
	return rows, nil
}
