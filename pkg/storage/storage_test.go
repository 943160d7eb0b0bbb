package storage_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"advanced-form/pkg/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestTaskWaitReturnsResult(t *testing.T) {
	boom := errors.New("boom")
	task := storage.Go(context.Background(), func(context.Context) error { return boom })
	assert.ErrorIs(t, task.Wait(context.Background()), boom)

	select {
	case <-task.Done():
	default:
		t.Fatal("task not done after Wait returned")
	}
}

func TestTaskWaitHonoursContext(t *testing.T) {
	release := make(chan struct{})
	task := storage.Go(context.Background(), func(context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, task.Wait(ctx), context.DeadlineExceeded)

	close(release)
	assert.NoError(t, task.Wait(context.Background()))
}

type fakePut struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePut) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3UploaderPutsObject(t *testing.T) {
	fake := &fakePut{}
	u := storage.NewS3Uploader(fake)

	task := storage.UploadAsync(context.Background(), u, "avatars", "me.png", []byte("png"), "image/png")
	require.NoError(t, task.Wait(context.Background()))

	assert.Equal(t, "avatars", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "me.png", aws.ToString(fake.input.Key))
	assert.Equal(t, "image/png", aws.ToString(fake.input.ContentType))
	assert.Equal(t, []byte("png"), fake.body)

	fake.err = errors.New("denied")
	assert.ErrorContains(t, u.Upload(context.Background(), "avatars", "me.png", nil, ""), "denied")
}

func TestSupabaseUploader(t *testing.T) {
	var gotPath, gotAuth, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		if r.URL.Path == "/storage/v1/object/avatars/taken.png" {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"Duplicate"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	u, err := storage.NewSupabaseUploader(storage.SupabaseConfig{URL: srv.URL + "/", ServiceKey: "secret", HTTPClient: srv.Client()})
	require.NoError(t, err)

	require.NoError(t, u.Upload(context.Background(), "avatars", "my photo.png", []byte("data"), "image/png"))
	assert.Equal(t, "/storage/v1/object/avatars/my%20photo.png", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, []byte("data"), gotBody)

	err = u.Upload(context.Background(), "avatars", "taken.png", []byte("x"), "image/png")
	assert.ErrorContains(t, err, "status=409")

	srv.Client().CloseIdleConnections()
}

// fakeMinio answers the S3 calls the MinIO uploader makes and records them.
type fakeMinio struct {
	mu       sync.Mutex
	calls    []string
	buckets  map[string]bool
	objects  map[string]string // key -> content type
	denyKeys map[string]bool
}

func (f *fakeMinio) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, _ = io.Copy(io.Discard, r.Body)

	path := strings.Trim(r.URL.Path, "/")
	bucket, key, _ := strings.Cut(path, "/")
	f.calls = append(f.calls, r.Method+" /"+path)

	switch {
	case key == "" && r.Method == http.MethodHead:
		if !f.buckets[bucket] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case key == "" && r.Method == http.MethodPut:
		f.buckets[bucket] = true
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut && f.denyKeys[key]:
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`+
			`<Error><Code>AccessDenied</Code><Message>Access Denied.</Message>`+
			`<BucketName>`+bucket+`</BucketName><Key>`+key+`</Key></Error>`)
	case r.Method == http.MethodPut:
		f.objects[key] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func TestMinioUploaderCreatesBucketOnce(t *testing.T) {
	fake := &fakeMinio{
		buckets:  map[string]bool{},
		objects:  map[string]string{},
		denyKeys: map[string]bool{"denied.png": true},
	}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	u, err := storage.NewMinioUploader(storage.MinioConfig{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "minio",
		SecretKey: "minio-secret",
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, u.Upload(ctx, "avatars", "me.png", []byte("png"), "image/png"))
	require.NoError(t, u.Upload(ctx, "avatars", "you.png", []byte("png"), "image/png"))

	err = u.Upload(ctx, "avatars", "denied.png", []byte("png"), "image/png")
	assert.ErrorContains(t, err, "minio put avatars/denied.png")

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, []string{
		"HEAD /avatars",
		"PUT /avatars",
		"PUT /avatars/me.png",
		"PUT /avatars/you.png",
		"PUT /avatars/denied.png",
	}, fake.calls)
	assert.Equal(t, map[string]string{"me.png": "image/png", "you.png": "image/png"}, fake.objects)
}

func TestMinioUploaderReusesExistingBucket(t *testing.T) {
	fake := &fakeMinio{buckets: map[string]bool{"avatars": true}, objects: map[string]string{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	u, err := storage.NewMinioUploader(storage.MinioConfig{Endpoint: strings.TrimPrefix(srv.URL, "http://")})
	require.NoError(t, err)
	require.NoError(t, u.Upload(context.Background(), "avatars", "me.png", nil, "application/octet-stream"))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, []string{"HEAD /avatars", "PUT /avatars/me.png"}, fake.calls)
}

func TestOpen(t *testing.T) {
	u, err := storage.Open(context.Background(), storage.Config{})
	require.NoError(t, err)
	assert.IsType(t, storage.NoopUploader{}, u)
	assert.NoError(t, u.Upload(context.Background(), "b", "k", nil, ""))

	_, err = storage.Open(context.Background(), storage.Config{Driver: "ftp"})
	assert.ErrorContains(t, err, "unknown driver")

	_, err = storage.Open(context.Background(), storage.Config{Driver: storage.DriverSupabase})
	assert.Error(t, err)
}

func TestS3ClientConfigEndpoint(t *testing.T) {
	assert.Equal(t, "", storage.S3ClientConfig{Provider: storage.S3ProviderAWS}.Endpoint())
	assert.Equal(t, "s3.eu-west-1.wasabisys.com", storage.S3ClientConfig{Provider: storage.S3ProviderWasabi, Region: "eu-west-1"}.Endpoint())
	assert.Equal(t, "custom", storage.S3ClientConfig{Provider: storage.S3ProviderWasabi, WasabiEndpoint: "custom"}.Endpoint())
}
