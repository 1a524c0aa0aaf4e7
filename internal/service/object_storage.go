package service

import (
	"context"
	"errors"
	"time"
)

// ErrObjectNotFound is returned by Get for a key that does not exist.
var ErrObjectNotFound = errors.New("object not found")

type ObjectInfo struct {
	Key     string
	ModTime time.Time
}

// ObjectStorage abstracts the document/dataset bucket.
type ObjectStorage interface {
	// Put stores data under key, overwriting any previous object.
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the object content, or ErrObjectNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns every object under the prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
