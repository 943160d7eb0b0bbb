// Package storage delivers avatar payloads to an object store.
package storage

import (
	"context"
	"fmt"
	"strings"
)

// Driver names accepted in Config.Driver.
const (
	DriverNoop     = "noop"
	DriverS3       = "s3"
	DriverMinio    = "minio"
	DriverSupabase = "supabase"
)

// Uploader stores payload under key in bucket.
type Uploader interface {
	Upload(ctx context.Context, bucket, key string, payload []byte, contentType string) error
}

// Config selects and configures one driver.
type Config struct {
	Driver   string
	S3       S3ClientConfig
	Minio    MinioConfig
	Supabase SupabaseConfig
}

// Open builds the uploader for cfg.Driver. An empty driver means noop.
func Open(ctx context.Context, cfg Config) (Uploader, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", DriverNoop:
		return NoopUploader{}, nil
	case DriverS3:
		client, err := NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return NewS3Uploader(client), nil
	case DriverMinio:
		return NewMinioUploader(cfg.Minio)
	case DriverSupabase:
		return NewSupabaseUploader(cfg.Supabase)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}

// NoopUploader discards every payload.
type NoopUploader struct{}

func (NoopUploader) Upload(context.Context, string, string, []byte, string) error {
	return nil
}
