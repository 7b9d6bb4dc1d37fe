package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no blob exists for a key.
var ErrNotFound = errors.New("storage: not found")

// Storage abstracts a flat keyed blob container.
// Writes are all-or-nothing: a reader sees either the previous blob or the new one.
type Storage interface {
	// Put stores data under key, replacing any existing blob.
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the blob stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the blob stored under key or returns ErrNotFound.
	Delete(ctx context.Context, key string) error

	// Keys lists every key currently stored, in no particular order.
	Keys(ctx context.Context) ([]string, error)
}
