// internal/storage/filestore.go
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore is a JSON-file-backed key-value store. The whole map lives in one
// file and every mutation rewrites it, so a crash loses at most the mutation
// in progress.
type FileStore struct {
	path string
	mu   sync.Mutex
	data map[string][]byte
}

// NewFileStore opens (or creates) the store file at the given path.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path: path,
		data: make(map[string][]byte),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read store file: %w", err)
	}

	var stored map[string]string
	if err := json.Unmarshal(raw, &stored); err != nil {
		return fmt.Errorf("unmarshal store file: %w", err)
	}
	for k, v := range stored {
		s.data[k] = []byte(v)
	}
	return nil
}

// save writes the whole map atomically. Caller must hold the lock.
func (s *FileStore) save() error {
	stored := make(map[string]string, len(s.data))
	for k, v := range s.data {
		stored[k] = string(v)
	}

	raw, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	// Atomic write: write to temp file then rename
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write temp store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp store file: %w", err)
	}
	return nil
}

// Get returns the value for key, with ok reporting whether it exists.
func (s *FileStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Put stores the value and syncs the file before returning.
func (s *FileStore) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	s.data[key] = v
	return s.save()
}

// Delete removes the key and syncs the file before returning.
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.save()
}

// Close is a no-op; every mutation is already synced.
func (s *FileStore) Close() error {
	return nil
}
