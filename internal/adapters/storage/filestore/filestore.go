// Package filestore provides a JSON-file-backed key-value store. The
// whole store is one human-readable JSON document; every write rewrites
// the file through a temp-file rename so a crash never leaves a
// half-written store behind.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/quotify-desktop/quotify/internal/domain"
	"github.com/quotify-desktop/quotify/internal/ports"
)

// Store is a file-backed ports.KeyValueStore. Values must be valid
// JSON; the store keeps them verbatim inside the document. Safe for
// concurrent use within one process; the file is not locked against
// other processes.
type Store struct {
	path string

	mu   sync.Mutex
	data map[string]json.RawMessage
}

var _ ports.KeyValueStore = (*Store)(nil)

// Open loads the store at path, creating parent directories and
// starting empty when the file does not exist yet.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, domain.NewStorageError("open cache file", errors.New("cache path is required"))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, domain.NewStorageError("open cache file", err)
	}

	s := &Store{
		path: filepath.Clean(path),
		data: make(map[string]json.RawMessage),
	}

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, domain.NewStorageError("open cache file", err)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return s, nil
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, domain.NewStorageError("open cache file", fmt.Errorf("decode store: %w", err))
	}

	return s, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.data[key]
	if !ok {
		return nil, domain.NewNotFoundError("cache entry", key)
	}

	return bytes.Clone(v), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return domain.NewStorageError("set cache entry", errors.New("value is not valid JSON"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = bytes.Clone(value)

	if err := s.flushLocked(); err != nil {
		return domain.NewStorageError("set cache entry", err)
	}

	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return nil
	}

	delete(s.data, key)

	if err := s.flushLocked(); err != nil {
		return domain.NewStorageError("delete cache entry", err)
	}

	return nil
}

// flushLocked rewrites the backing file. Callers hold s.mu.
func (s *Store) flushLocked() error {
	doc, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"

	if err := os.WriteFile(tmp, append(doc, '\n'), 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, s.path)
}
