package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/NdeyeSokhna722/loumshoes/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgContactRepository is the PostgreSQL implementation of ContactRepository.
// Each row holds the whole record as JSONB; the table comes from migrations/.
type PgContactRepository struct {
	pool *pgxpool.Pool
}

// NewPgContactRepository creates a PgContactRepository backed by the given pool.
func NewPgContactRepository(pool *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{pool: pool}
}

// Ensure PgContactRepository implements Store at compile time.
var _ Store = (*PgContactRepository)(nil)

func (r *PgContactRepository) Put(ctx context.Context, msg *model.ContactMessage) error {
	data, err := encodeRecord(msg)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO contact_messages (id, created_at, record)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET record = EXCLUDED.record`,
		msg.ID, msg.Timestamp, data,
	)
	return err
}

func (r *PgContactRepository) Get(ctx context.Context, id int64) (*model.ContactMessage, error) {
	var data []byte
	err := r.pool.QueryRow(ctx, `SELECT record FROM contact_messages WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeRecord(data)
}

func (r *PgContactRepository) List(ctx context.Context) ([]*model.ContactMessage, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, record FROM contact_messages`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*model.ContactMessage
	for rows.Next() {
		var (
			id   int64
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		msg, err := decodeRecord(data)
		if err != nil {
			slog.Warn("skipping malformed record", "id", id, "error", err)
			continue
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *PgContactRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgContactRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *PgContactRepository) Close() error {
	r.pool.Close()
	return nil
}
