package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/NdeyeSokhna722/loumshoes/internal/model"
	"github.com/NdeyeSokhna722/loumshoes/internal/storage"
)

const (
	recordPrefix = "message_"
	recordExt    = ".json"
)

// RecordKey returns the storage key for a contact message id.
func RecordKey(id int64) string {
	return recordPrefix + strconv.FormatInt(id, 10) + recordExt
}

// recordID parses the id out of a key produced by RecordKey.
func recordID(key string) (int64, bool) {
	if !strings.HasPrefix(key, recordPrefix) || !strings.HasSuffix(key, recordExt) {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimPrefix(key, recordPrefix), recordExt), 10, 64)
	if err != nil || id <= 0 || RecordKey(id) != key {
		return 0, false
	}
	return id, true
}

// FileContactRepository stores one JSON document per contact message.
type FileContactRepository struct {
	blobs storage.Storage
}

// NewFileContactRepository creates a FileContactRepository over the given storage.
func NewFileContactRepository(blobs storage.Storage) *FileContactRepository {
	return &FileContactRepository{blobs: blobs}
}

// Ensure FileContactRepository implements Store at compile time.
var _ Store = (*FileContactRepository)(nil)

func (r *FileContactRepository) Put(ctx context.Context, msg *model.ContactMessage) error {
	data, err := encodeRecord(msg)
	if err != nil {
		return err
	}
	return r.blobs.Put(ctx, RecordKey(msg.ID), data)
}

func (r *FileContactRepository) Get(ctx context.Context, id int64) (*model.ContactMessage, error) {
	data, err := r.blobs.Get(ctx, RecordKey(id))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	msg, err := decodeRecord(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", RecordKey(id), err)
	}
	if msg.ID != id {
		return nil, fmt.Errorf("decode %s: record has id %d", RecordKey(id), msg.ID)
	}
	return msg, nil
}

// List reads every message_<id>.json entry. Entries that are unreadable,
// malformed or whose id does not match their key are logged and skipped.
func (r *FileContactRepository) List(ctx context.Context) ([]*model.ContactMessage, error) {
	keys, err := r.blobs.Keys(ctx)
	if err != nil {
		return nil, err
	}

	messages := make([]*model.ContactMessage, 0, len(keys))
	for _, key := range keys {
		id, ok := recordID(key)
		if !ok {
			if strings.HasSuffix(key, recordExt) {
				slog.Warn("skipping foreign record file", "key", key)
			}
			continue
		}
		data, err := r.blobs.Get(ctx, key)
		if err != nil {
			// Deleted between Keys and Get, or unreadable.
			if !errors.Is(err, storage.ErrNotFound) {
				slog.Warn("skipping unreadable record", "key", key, "error", err)
			}
			continue
		}
		msg, err := decodeRecord(data)
		if err != nil {
			slog.Warn("skipping malformed record", "key", key, "error", err)
			continue
		}
		if msg.ID != id {
			slog.Warn("skipping record stored under another id", "key", key, "record_id", msg.ID)
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (r *FileContactRepository) Delete(ctx context.Context, id int64) error {
	err := r.blobs.Delete(ctx, RecordKey(id))
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Ping delegates to the underlying storage when it can report health.
func (r *FileContactRepository) Ping(ctx context.Context) error {
	if p, ok := r.blobs.(DB); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close is a no-op; files need no teardown.
func (r *FileContactRepository) Close() error { return nil }
