package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/NdeyeSokhna722/loumshoes/internal/model"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS contact_messages (
	id         INTEGER PRIMARY KEY,
	created_at TEXT NOT NULL,
	record     TEXT NOT NULL
)`

// SQLiteContactRepository keeps contact messages in a single SQLite file.
type SQLiteContactRepository struct {
	db *sqlx.DB
}

type sqliteRow struct {
	ID     int64  `db:"id"`
	Record string `db:"record"`
}

// Ensure SQLiteContactRepository implements Store at compile time.
var _ Store = (*SQLiteContactRepository)(nil)

// OpenSQLiteContactRepository opens (creating if needed) the database at path
// and ensures the contact_messages table exists.
func OpenSQLiteContactRepository(ctx context.Context, path string) (*SQLiteContactRepository, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite3", "file:"+path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}
	return &SQLiteContactRepository{db: db}, nil
}

func (r *SQLiteContactRepository) Put(ctx context.Context, msg *model.ContactMessage) error {
	data, err := encodeRecord(msg)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO contact_messages (id, created_at, record) VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET record = excluded.record`,
		msg.ID, msg.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z"), string(data),
	)
	return err
}

func (r *SQLiteContactRepository) Get(ctx context.Context, id int64) (*model.ContactMessage, error) {
	var record string
	err := r.db.GetContext(ctx, &record, `SELECT record FROM contact_messages WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeRecord([]byte(record))
}

func (r *SQLiteContactRepository) List(ctx context.Context) ([]*model.ContactMessage, error) {
	var rows []sqliteRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, record FROM contact_messages`); err != nil {
		return nil, err
	}
	messages := make([]*model.ContactMessage, 0, len(rows))
	for _, row := range rows {
		msg, err := decodeRecord([]byte(row.Record))
		if err != nil {
			slog.Warn("skipping malformed record", "id", row.ID, "error", err)
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (r *SQLiteContactRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteContactRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteContactRepository) Close() error {
	return r.db.Close()
}
