package storage

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultMinioRegion = "us-east-1"

type MinioConfig struct {
	Endpoint  string // host:port, no scheme
	AccessKey string
	SecretKey string
	UseSSL    bool
	// Region of the server; set so the client skips bucket location lookups.
	Region string
}

// MinioUploader writes objects to a MinIO server, creating buckets on first use.
type MinioUploader struct {
	client *minio.Client
	region string

	mu      sync.Mutex
	buckets map[string]bool
}

func NewMinioUploader(cfg MinioConfig) (*MinioUploader, error) {
	region := cfg.Region
	if region == "" {
		region = defaultMinioRegion
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &MinioUploader{client: client, region: region, buckets: map[string]bool{}}, nil
}

func (u *MinioUploader) Upload(ctx context.Context, bucket, key string, payload []byte, contentType string) error {
	if err := u.ensureBucket(ctx, bucket); err != nil {
		return err
	}
	_, err := u.client.PutObject(ctx, bucket, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("minio put %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (u *MinioUploader) ensureBucket(ctx context.Context, bucket string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.buckets[bucket] {
		return nil
	}

	exists, err := u.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := u.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: u.region}); err != nil {
			return fmt.Errorf("minio make bucket: %w", err)
		}
	}
	u.buckets[bucket] = true
	return nil
}
