package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type SupabaseConfig struct {
	URL        string // project URL, e.g. https://xyz.supabase.co
	ServiceKey string
	HTTPClient *http.Client
}

// SupabaseUploader posts objects to the Supabase Storage REST API.
type SupabaseUploader struct {
	baseURL string
	key     string
	client  *http.Client
}

func NewSupabaseUploader(cfg SupabaseConfig) (*SupabaseUploader, error) {
	if cfg.URL == "" || cfg.ServiceKey == "" {
		return nil, errors.New("supabase storage: URL and service key are required")
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &SupabaseUploader{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		key:     cfg.ServiceKey,
		client:  client,
	}, nil
}

func (u *SupabaseUploader) Upload(ctx context.Context, bucket, key string, payload []byte, contentType string) error {
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", u.baseURL, url.PathEscape(bucket), url.PathEscape(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("supabase storage: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+u.key)
	req.Header.Set("Content-Type", contentType)

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("supabase storage: upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("supabase storage: upload failed: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}
