package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const tempPrefix = ".tmp-"

// LocalStorage is a Storage backed by one file per key in a single directory.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage creates baseDir if needed and returns a LocalStorage rooted there.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: mkdir: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Dir returns the directory holding the blobs.
func (s *LocalStorage) Dir() string { return s.baseDir }

// Put writes data to a temp file in the same directory, syncs it and renames
// it over the destination.
func (s *LocalStorage) Put(_ context.Context, key string, data []byte) error {
	dest, err := s.path(key)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(s.baseDir, tempPrefix+key+"-*")
	if err != nil {
		return fmt.Errorf("storage: create: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp) // no-op once renamed

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("storage: write: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("storage: sync: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("storage: close: %w", err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		return fmt.Errorf("storage: chmod: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	return nil
}

func (s *LocalStorage) Get(_ context.Context, key string) ([]byte, error) {
	dest, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(dest)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read: %w", err)
	}
	return data, nil
}

func (s *LocalStorage) Delete(_ context.Context, key string) error {
	dest, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dest); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("storage: remove: %w", err)
	}
	return nil
}

// Keys skips directories and in-flight temp files.
func (s *LocalStorage) Keys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("storage: readdir: %w", err)
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), tempPrefix) {
			continue
		}
		keys = append(keys, e.Name())
	}
	return keys, nil
}

// Ping reports whether the base directory is still reachable.
func (s *LocalStorage) Ping(_ context.Context) error {
	info, err := os.Stat(s.baseDir)
	if err != nil {
		return fmt.Errorf("storage: stat: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage: %s is not a directory", s.baseDir)
	}
	return nil
}

// path rejects keys that would escape baseDir.
func (s *LocalStorage) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	return filepath.Join(s.baseDir, key), nil
}
