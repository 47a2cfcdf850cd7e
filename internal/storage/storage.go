package storage

import (
	"context"
	"fmt"

	gcstorage "cloud.google.com/go/storage"
)

// Uploader archives rendered invoice payloads. Upload returns the public URL
// of the stored object.
type Uploader interface {
	Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
}

// Noop is used when no bucket is configured.
type Noop struct{}

func (Noop) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	return "", nil
}

// GCS stores objects in a Google Cloud Storage bucket using application
// default credentials.
type GCS struct {
	bucket string
}

func NewGCS(bucket string) *GCS {
	return &GCS{bucket: bucket}
}

func (g *GCS) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	client, err := gcstorage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("gcs client: %w", err)
	}
	defer client.Close()

	wc := client.Bucket(g.bucket).Object(objectName).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := wc.Write(data); err != nil {
		return "", fmt.Errorf("upload %s: %w", objectName, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", objectName, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, objectName), nil
}
