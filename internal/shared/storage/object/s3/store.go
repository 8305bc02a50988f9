package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"portfolio-backend/internal/shared/storage/object"
)

// Store implements BlobStore on Amazon S3. Containers map to buckets.
type Store struct {
	client  *s3.Client
	presign *s3.PresignClient
}

// New creates a new S3-backed blob store.
func New(ctx context.Context, region string) (*Store, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &Store{
		client:  client,
		presign: s3.NewPresignClient(client),
	}, nil
}

// Upload writes the reader contents to the bucket. With Overwrite disabled the
// put is conditional on the key being absent (If-None-Match: *).
func (s *Store) Upload(ctx context.Context, container, key string, r io.Reader, opts object.UploadOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(container),
		Key:    aws.String(key),
		Body:   r,
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	if !opts.Overwrite {
		input.IfNoneMatch = aws.String("*")
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3 put object bucket=%s key=%s: %w", container, key, classify(err))
	}
	return nil
}

// CreateSignedURL returns a presigned GET URL valid for ttl.
func (s *Store) CreateSignedURL(ctx context.Context, container, key string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	out, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(container),
		Key:    aws.String(key),
	}, func(po *s3.PresignOptions) {
		po.Expires = ttl
	})
	if err != nil {
		return "", fmt.Errorf("s3 presign bucket=%s key=%s: %w", container, key, err)
	}
	return out.URL, nil
}

// ListContainers lists the buckets visible to the configured credentials.
func (s *Store) ListContainers(ctx context.Context) ([]object.Container, error) {
	out, err := s.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("s3 list buckets: %w", err)
	}
	containers := make([]object.Container, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		if b.Name != nil {
			containers = append(containers, object.Container{Name: *b.Name})
		}
	}
	return containers, nil
}

// Open downloads a stored object for reading.
func (s *Store) Open(ctx context.Context, container, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(container),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get object bucket=%s key=%s: %w", container, key, classify(err))
	}
	return out.Body, nil
}

func classify(err error) error {
	var noBucket *s3types.NoSuchBucket
	if errors.As(err, &noBucket) {
		return fmt.Errorf("%w: %v", object.ErrContainerNotFound, err)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchBucket":
			return fmt.Errorf("%w: %v", object.ErrContainerNotFound, err)
		case "PreconditionFailed":
			return fmt.Errorf("%w: %v", object.ErrKeyExists, err)
		}
	}
	return err
}

var _ object.BlobStore = (*Store)(nil)
