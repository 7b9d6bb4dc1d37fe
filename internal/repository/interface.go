package repository

import (
	"context"

	"github.com/NdeyeSokhna722/loumshoes/internal/model"
)

// DB checks that the backing store is reachable.
type DB interface {
	Ping(ctx context.Context) error
}

// ContactRepository is durable keyed storage for contact messages.
// It is defined here (in repository) to avoid an import cycle with service.
type ContactRepository interface {
	// Put writes msg keyed by msg.ID, replacing any existing record.
	Put(ctx context.Context, msg *model.ContactMessage) error

	// Get returns the record for id or ErrNotFound.
	Get(ctx context.Context, id int64) (*model.ContactMessage, error)

	// List returns every stored record, unordered. Entries that cannot be
	// decoded as a complete record are skipped.
	List(ctx context.Context) ([]*model.ContactMessage, error)

	// Delete removes the record for id or returns ErrNotFound.
	Delete(ctx context.Context, id int64) error
}

// Store is a ContactRepository that owns its connection.
type Store interface {
	ContactRepository
	DB
	Close() error
}
