package backend

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"radiodash/internal/config"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{ReportSource: "excel"}); err == nil {
		t.Fatal("expected error for unknown source")
	}
	cfg, err := FromAppConfig(&config.Config{ReportSource: "sqlite", SQLiteDBPath: "x.db", ReportTable: "contracts"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Type != SQLiteSource || cfg.Table != "contracts" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestFactory_CreateSource(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(nil)

	t.Run("csv", func(t *testing.T) {
		res, err := f.CreateSource(ctx, Config{Type: CSVSource, ReportFile: "relatorio.csv"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if !strings.HasPrefix(res.Reader.Identity(), "csv:") || res.Cleanup != nil {
			t.Fatalf("unexpected result: %q", res.Reader.Identity())
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		res, err := f.CreateSource(ctx, Config{Type: SQLiteSource, SQLiteDBPath: filepath.Join(t.TempDir(), "r.db"), Table: "contracts"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		defer res.Cleanup()
		rows, err := res.Reader.ReadRows(ctx)
		if err != nil || len(rows) != 0 {
			t.Fatalf("rows=%v err=%v", rows, err)
		}
	})

	t.Run("minio", func(t *testing.T) {
		res, err := f.CreateSource(ctx, Config{Type: MinioSource, MinioEndpoint: "localhost:9000", MinioBucket: "b", MinioObject: "r.csv"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if res.Reader.Identity() != "minio:b/r.csv" {
			t.Fatalf("identity: %q", res.Reader.Identity())
		}
	})

	t.Run("memory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "relatorio.csv")
		if err := os.WriteFile(file, []byte("Cliente;Inserções\nAcme;10\n"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		res, err := f.CreateSource(ctx, Config{Type: MemorySource, ReportFile: file})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if res.Reader.Identity() != "memory:relatorio.csv" {
			t.Fatalf("identity: %q", res.Reader.Identity())
		}
		rows, err := res.Reader.ReadRows(ctx)
		if err != nil || len(rows) != 1 || rows[0].Client != "Acme" {
			t.Fatalf("rows=%v err=%v", rows, err)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		if _, err := f.CreateSource(ctx, Config{Type: "excel"}); err == nil {
			t.Fatal("expected error")
		}
	})
}
