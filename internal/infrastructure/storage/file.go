package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/research-tracker/dashboard/internal/core/domain"
)

const fileMode = 0o600

// FileStore persists the session as a single JSON object on disk. With a
// secret configured the file is sealed, so a copied file is useless without
// the secret.
type FileStore struct {
	path   string
	sealer *sealer

	mu sync.Mutex
}

// NewFileStore opens a store at path. An empty secret stores plain JSON.
func NewFileStore(path, secret string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("file store: empty path")
	}
	store := &FileStore{path: path}
	if secret != "" {
		s, err := newSealer(secret)
		if err != nil {
			return nil, err
		}
		store.sealer = s
	}
	return store, nil
}

func (f *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *FileStore) Set(_ context.Context, values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.read()
	if err != nil {
		return err
	}
	for k, v := range values {
		current[k] = v
	}
	return f.write(current)
}

func (f *FileStore) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.read()
	if err != nil {
		// An unreadable file holds nothing worth keeping.
		return f.remove()
	}
	for _, k := range keys {
		delete(current, k)
	}
	if len(current) == 0 {
		return f.remove()
	}
	return f.write(current)
}

// Ping checks that the directory holding the file is usable.
func (f *FileStore) Ping(context.Context) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".ping-*")
	if err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	name := tmp.Name()
	_ = tmp.Close()
	return os.Remove(name)
}

func (f *FileStore) Close(context.Context) error { return nil }

func (f *FileStore) read() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file store: read: %w", err)
	}
	if f.sealer != nil {
		if raw, err = f.sealer.open(raw); err != nil {
			return nil, fmt.Errorf("file store: %w: %w", domain.ErrUnreadableSession, err)
		}
	}
	values := map[string]string{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("file store: %w: %w", domain.ErrUnreadableSession, err)
	}
	return values, nil
}

// write replaces the file atomically via a temp file in the same directory.
func (f *FileStore) write(values map[string]string) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("file store: encode: %w", err)
	}
	if f.sealer != nil {
		if raw, err = f.sealer.seal(raw); err != nil {
			return err
		}
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	name := tmp.Name()
	defer os.Remove(name)

	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file store: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file store: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	if err := os.Rename(name, f.path); err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	return nil
}

func (f *FileStore) remove() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file store: %w", err)
	}
	return nil
}
