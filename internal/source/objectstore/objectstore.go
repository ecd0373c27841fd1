// Package objectstore reads the report file from an S3 compatible bucket.
package objectstore

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"radiodash/internal/core"
	"radiodash/internal/source"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Object    string
	UseSSL    bool
	Region    string
}

type Object struct {
	client *minio.Client
	bucket string
	object string
}

var _ source.Reader = (*Object)(nil)

func New(cfg Config) (*Object, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &Object{client: client, bucket: cfg.Bucket, object: cfg.Object}, nil
}

func (o *Object) Identity() string {
	return "minio:" + o.bucket + "/" + o.object
}

// ReadRows downloads the object and decodes it as a delimited report.
func (o *Object) ReadRows(ctx context.Context) ([]core.RawRow, error) {
	obj, err := o.client.GetObject(ctx, o.bucket, o.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: get object: %w", core.ErrDataUnavailable, err)
	}
	defer obj.Close()

	if _, err := obj.Stat(); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: report object not found: %s", core.ErrDataUnavailable, o.Identity())
		}
		return nil, fmt.Errorf("%w: stat object: %w", core.ErrDataUnavailable, err)
	}
	return source.DecodeCSV(obj)
}
