// Package storage reads the contracts report from a SQL table. Column names
// follow the report headers, so any table with cliente and insercoes
// columns can be read.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"radiodash/internal/core"
	"radiodash/internal/source"
)

// ContractsTable is a report reader over one SQL table.
type ContractsTable struct {
	db       *sql.DB
	table    string
	identity string
}

var (
	_ source.Reader = (*ContractsTable)(nil)
	_ source.Closer = (*ContractsTable)(nil)
)

// OpenSQLite opens (creating if needed) a SQLite database and applies the
// embedded migrations. table must be a plain identifier.
func OpenSQLite(dbPath, table string) (*ContractsTable, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	abs, err := filepath.Abs(dbPath)
	if err != nil {
		abs = dbPath
	}
	return &ContractsTable{db: db, table: table, identity: "sqlite:" + abs + "#" + table}, nil
}

// OpenPostgres connects through the pgx database/sql driver. The table is
// managed outside this service.
func OpenPostgres(ctx context.Context, dsn, table string) (*ContractsTable, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &ContractsTable{db: db, table: table, identity: "postgres:" + redactDSN(dsn) + "#" + table}, nil
}

func (t *ContractsTable) Identity() string { return t.identity }

func (t *ContractsTable) Close() error {
	if t.db != nil {
		return t.db.Close()
	}
	return nil
}

// ReadRows selects the whole table. NULL cells read as missing values.
func (t *ContractsTable) ReadRows(ctx context.Context) ([]core.RawRow, error) {
	// table is validated as an identifier by config
	rows, err := t.db.QueryContext(ctx, "SELECT * FROM "+t.table)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %w", core.ErrDataUnavailable, t.table, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: columns: %w", core.ErrDataUnavailable, err)
	}

	var records [][]string
	for rows.Next() {
		values := make([]any, len(header))
		ptrs := make([]any, len(header))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%w: scan: %w", core.ErrDataUnavailable, err)
		}
		rec := make([]string, len(values))
		for i, v := range values {
			rec[i] = stringify(v)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate rows: %w", core.ErrDataUnavailable, err)
	}

	out, err := source.RowsFromRecords(header, records)
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "Contracts table read", "table", t.table, "rows", len(out))
	return out, nil
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

// redactDSN hides the password of URL style DSNs; keyword DSNs are not echoed.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return "dsn"
	}
	return u.Redacted()
}
