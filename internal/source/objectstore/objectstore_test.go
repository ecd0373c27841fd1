package objectstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radiodash/internal/core"
)

const report = "Cliente;Agência;Inserções;Data_Inicio;Data_Fim\nAcme;;10;01/10/2026;\nBeta;Norte;3;;\n"

// fakeS3 serves a single object and answers NoSuchKey for anything else.
func fakeS3(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reports/relatorio.csv" {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message><Key>missing.csv</Key><BucketName>reports</BucketName></Error>`))
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Length", strconv.Itoa(len(report)))
		w.Header().Set("ETag", `"0123456789abcdef"`)
		w.Header().Set("Last-Modified", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC).Format(http.TimeFormat))
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write([]byte(report))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newObject(t *testing.T, endpoint, object string) *Object {
	t.Helper()
	o, err := New(Config{
		Endpoint:  strings.TrimPrefix(endpoint, "http://"),
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "reports",
		Object:    object,
		Region:    "us-east-1",
	})
	require.NoError(t, err)
	return o
}

func TestObject_ReadRows(t *testing.T) {
	srv := fakeS3(t)
	o := newObject(t, srv.URL, "relatorio.csv")

	rows, err := o.ReadRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Acme", rows[0].Client)
	assert.False(t, rows[0].HasAgency)
	assert.Equal(t, "Norte", rows[1].Agency)
	assert.Equal(t, "minio:reports/relatorio.csv", o.Identity())
}

func TestObject_MissingObject(t *testing.T) {
	srv := fakeS3(t)
	o := newObject(t, srv.URL, "missing.csv")

	_, err := o.ReadRows(context.Background())
	assert.ErrorIs(t, err, core.ErrDataUnavailable)
}

func TestNew_InvalidEndpoint(t *testing.T) {
	_, err := New(Config{Endpoint: "http://bad endpoint", Bucket: "b", Object: "o"})
	assert.Error(t, err)
}
