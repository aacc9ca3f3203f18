// Package storage adapts the external object store to the small surface the
// rest of the system needs: upload, fetch, delete and a displayable URL per
// key. The store gives at-least-once semantics and no transactions; callers
// own the ordering rules that keep records and blobs consistent.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	storage "github.com/supabase-community/storage-go"

	"nursery-tracker/internal/models"
)

// thumbnailWidth is the size hint embedded in display URLs. The gallery
// renders fixed-width cards, so one hint serves every view.
const thumbnailWidth = 300

// BlobStore is the object-store surface the service layer depends on.
type BlobStore interface {
	Upload(ctx context.Context, data []byte, key, mimeType string) error
	Delete(ctx context.Context, key string) error
	Download(ctx context.Context, key string) ([]byte, error)
	URLFor(key string) string
}

// BlobClient implements BlobStore against the cloud storage folder. Calls
// are not retried; a failure is terminal for the triggering operation.
// The context parameters satisfy the interface and leave room for
// cancellation, but the underlying client API takes none, so today a call
// runs to completion or failure once issued.
type BlobClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewBlobClient(storageURL, serviceKey, bucket string) (*BlobClient, error) {
	baseURL := strings.TrimSuffix(storageURL, "/")
	client := storage.NewClient(baseURL+"/storage/v1", serviceKey, nil)

	return &BlobClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

func (b *BlobClient) Upload(ctx context.Context, data []byte, key, mimeType string) error {
	contentType := mimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	upsert := false
	_, err := b.client.UploadFile(b.bucket, key, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("failed to upload blob %q: %v: %w", key, err, models.ErrBlobStore)
	}
	return nil
}

func (b *BlobClient) Delete(ctx context.Context, key string) error {
	_, err := b.client.RemoveFile(b.bucket, []string{key})
	if err != nil {
		return fmt.Errorf("failed to delete blob %q: %v: %w", key, err, models.ErrBlobStore)
	}
	return nil
}

func (b *BlobClient) Download(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.DownloadFile(b.bucket, key)
	if err != nil {
		return nil, fmt.Errorf("failed to download blob %q: %v: %w", key, err, models.ErrBlobStore)
	}
	return data, nil
}

// URLFor returns the public render URL for a key with a thumbnail width
// hint. No signature, no expiry.
func (b *BlobClient) URLFor(key string) string {
	return fmt.Sprintf("%s/storage/v1/render/image/public/%s/%s?width=%d",
		b.baseURL, b.bucket, key, thumbnailWidth)
}
