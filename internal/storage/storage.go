// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup —
// both backends speak the S3 protocol (MinIO locally, AWS S3 in the cloud).
package storage

import (
	"context"
	"io"
	"time"
)

// Page is one page of a prefix-scoped bucket listing. NextToken is an
// opaque continuation cursor; empty means no further results.
type Page struct {
	Keys      []string
	NextToken string
}

// Storage is the interface for uploading, listing, and retrieving objects.
type Storage interface {
	// Upload streams data to the store under the given key and returns the
	// permanent (unsigned) URL of the stored object.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	// Delete removes an object identified by key. Deleting a key that does
	// not exist is not an error.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL granting read access to one object.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	// List returns up to size keys under prefix, resuming from token.
	List(ctx context.Context, prefix string, size int, token string) (Page, error)
}
