package cache

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

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const noSuchKeyBody = `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`

// fakeBucket is a path style object store good enough for GetObject,
// PutObject and DeleteObject
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b.objects[r.URL.Path] = body
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		body, ok := b.objects[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(noSuchKeyBody))
			return
		}
		_, _ = w.Write(body)
	case http.MethodDelete:
		delete(b.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

func newTestS3Store(t *testing.T) (*S3Store, *fakeBucket) {
	t.Helper()
	bucket := &fakeBucket{objects: make(map[string][]byte)}
	server := httptest.NewServer(bucket)
	t.Cleanup(server.Close)

	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(server.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("test", "test", ""),
	})
	return NewS3StoreWithClient(client, "catalog-cache", "snapshots/"), bucket
}

func TestS3StoreRoundTrip(t *testing.T) {
	store, bucket := newTestS3Store(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, "sheet_cache_x_0"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a new key, got %v", err)
	}

	c := NewSnapshotCache(store, "sheet_cache_x_0", time.Hour)
	if err := c.Write(ctx, sampleEntries()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	bucket.mu.Lock()
	_, stored := bucket.objects["/catalog-cache/snapshots/sheet_cache_x_0.json"]
	bucket.mu.Unlock()
	if !stored {
		t.Errorf("Expected the snapshot under the prefixed key, got %v", keys(bucket))
	}

	entries, ok := c.Read(ctx)
	if !ok || len(entries) != 2 {
		t.Fatalf("Expected 2 cached entries, got %d (hit=%v)", len(entries), ok)
	}

	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if _, ok := c.Read(ctx); ok {
		t.Error("Expected a miss after Invalidate")
	}
}

func TestS3StoreDeleteMissingKey(t *testing.T) {
	store, _ := newTestS3Store(t)
	if err := store.Delete(context.Background(), "never-written"); err != nil {
		t.Errorf("Expected deleting a missing object to succeed, got %v", err)
	}
}

func keys(b *fakeBucket) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.objects))
	for k := range b.objects {
		out = append(out, k)
	}
	return strings.Join(out, ", ")
}
