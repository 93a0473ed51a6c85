package domain

import "context"

// DocumentStore reads and writes whole JSON documents by key.
// Get returns ErrBlobNotFound when nothing is stored under key.
type DocumentStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}
