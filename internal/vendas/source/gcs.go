package source

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/shandysiswandi/vendasload/internal/pkg/pkgerror"
	"google.golang.org/api/option"
)

// GCS reads objects from Google Cloud Storage.
type GCS struct {
	client *storage.Client
}

// NewGCS creates a storage client using Application Default Credentials.
func NewGCS(ctx context.Context, opts ...option.ClientOption) (*GCS, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs: create client: %w", err)
	}

	return &GCS{client: client}, nil
}

func (g *GCS) Fetch(ctx context.Context, bucket, name string) ([]byte, error) {
	rc, err := g.client.Bucket(bucket).Object(name).NewReader(ctx)
	if err != nil {
		return nil, gcsErr(bucket, name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, gcsErr(bucket, name, err)
	}

	return content, nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}

func gcsErr(bucket, name string, err error) error {
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return fmt.Errorf("gs://%s/%s: %w: %w", bucket, name, pkgerror.ErrNotFound, err)
	}
	return fmt.Errorf("gs://%s/%s: %w", bucket, name, err)
}
