package source

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/shandysiswandi/vendasload/internal/pkg/pkgerror"
)

// S3Config selects the region and, for S3-compatible services such as MinIO
// or LocalStack, a custom endpoint addressed path-style.
type S3Config struct {
	Region   string
	Endpoint string
}

// S3 reads objects from Amazon S3 or an S3-compatible store.
type S3 struct {
	client *s3.Client
}

// NewS3 builds a client from the default AWS credential chain.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	return NewS3FromClient(s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})), nil
}

// NewS3FromClient wraps an already configured client.
func NewS3FromClient(client *s3.Client) *S3 {
	return &S3{client: client}
}

func (s *S3) Fetch(ctx context.Context, bucket, name string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		return nil, s3Err(bucket, name, err)
	}
	defer out.Body.Close()

	content, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, s3Err(bucket, name, err)
	}

	return content, nil
}

func s3Err(bucket, name string, err error) error {
	var noKey *types.NoSuchKey
	var noBucket *types.NoSuchBucket
	if errors.As(err, &noKey) || errors.As(err, &noBucket) {
		return fmt.Errorf("s3://%s/%s: %w: %w", bucket, name, pkgerror.ErrNotFound, err)
	}
	return fmt.Errorf("s3://%s/%s: %w", bucket, name, err)
}
