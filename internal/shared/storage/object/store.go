package object

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrContainerNotFound is returned when the target container (bucket)
	// does not exist.
	ErrContainerNotFound = errors.New("bucket not found")
	// ErrKeyExists is returned by overwrite-disabled uploads when an object
	// already exists at the target key.
	ErrKeyExists = errors.New("object already exists")
)

// Container is a named namespace holding uploaded objects.
type Container struct {
	Name string
}

// UploadOptions controls how an object is written.
type UploadOptions struct {
	ContentType string
	// Overwrite false means the upload must fail, not silently replace,
	// when an object already exists at the key.
	Overwrite bool
}

// BlobStore defines the contract for storing and retrieving binary objects.
type BlobStore interface {
	Upload(ctx context.Context, container, key string, r io.Reader, opts UploadOptions) error
	CreateSignedURL(ctx context.Context, container, key string, ttl time.Duration) (string, error)
	ListContainers(ctx context.Context) ([]Container, error)
	Open(ctx context.Context, container, key string) (io.ReadCloser, error)
}
