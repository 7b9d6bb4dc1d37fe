package repository

import (
	"context"
	"fmt"

	"github.com/NdeyeSokhna722/loumshoes/internal/storage"
)

// Supported values for OpenOptions.Driver.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// OpenOptions selects and configures a Store backend.
type OpenOptions struct {
	Driver      string
	Dir         string // file driver
	DatabaseURL string // postgres driver
	SQLitePath  string // sqlite driver
}

// Open returns the Store selected by opts.Driver.
func Open(ctx context.Context, opts OpenOptions) (Store, error) {
	switch opts.Driver {
	case DriverFile, "":
		blobs, err := storage.NewLocalStorage(opts.Dir)
		if err != nil {
			return nil, err
		}
		return NewFileContactRepository(blobs), nil
	case DriverPostgres:
		if opts.DatabaseURL == "" {
			return nil, fmt.Errorf("postgres driver requires DATABASE_URL")
		}
		pool, err := NewPool(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		return NewPgContactRepository(pool), nil
	case DriverSQLite:
		return OpenSQLiteContactRepository(ctx, opts.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
