package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestLocalStorage_CreatesBaseDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "messages")
	if _, err := NewLocalStorage(dir); err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("expected directory %s to exist", dir)
	}
}

func TestLocalStorage_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Put(ctx, "a.json", []byte("one")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "a.json", []byte("two")); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, err := s.Get(ctx, "a.json")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "two" {
		t.Errorf("expected overwritten content, got %q", got)
	}

	if err := s.Delete(ctx, "a.json"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "a.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, "a.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestLocalStorage_KeysSkipsTempFilesAndDirs(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Put(ctx, "b.json", []byte("{}"))
	_ = s.Put(ctx, "a.json", []byte("{}"))
	_ = os.WriteFile(filepath.Join(dir, tempPrefix+"c.json-123"), []byte("partial"), 0o644)
	_ = os.Mkdir(filepath.Join(dir, "sub"), 0o755)

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "a.json" || keys[1] != "b.json" {
		t.Errorf("unexpected keys: %v", keys)
	}
}

func TestLocalStorage_PutLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, _ := NewLocalStorage(dir)
	for i := 0; i < 5; i++ {
		if err := s.Put(ctx, "x.json", []byte("data")); err != nil {
			t.Fatal(err)
		}
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected a single file, got %d entries", len(entries))
	}
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	s, _ := NewLocalStorage(t.TempDir())
	for _, key := range []string{"", "../x.json", "a/b.json", ".hidden"} {
		if err := s.Put(ctx, key, []byte("x")); err == nil {
			t.Errorf("expected error for key %q", key)
		}
	}
}

func TestLocalStorage_Ping(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewLocalStorage(dir)
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
	_ = os.RemoveAll(dir)
	if err := s.Ping(context.Background()); err == nil {
		t.Error("expected Ping to fail after the directory is removed")
	}
}
