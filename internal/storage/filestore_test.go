// internal/storage/filestore_test.go
package storage

import (
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Put("key", []byte("value")); err != nil {
		t.Fatal(err)
	}

	v, ok, err := s.Get("key")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || string(v) != "value" {
		t.Errorf("expected value, got %q ok=%v", v, ok)
	}

	_, ok, err = s.Get("missing")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected missing key to report !ok")
	}
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put("key", []byte("value")); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	v, ok, err := s2.Get("key")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || string(v) != "value" {
		t.Errorf("expected persisted value after reopen, got %q ok=%v", v, ok)
	}
}

func TestFileStoreDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put("key", []byte("value")); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("key"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get("key"); ok {
		t.Error("expected key gone after delete")
	}

	// Deleting a missing key is not an error.
	if err := s.Delete("missing"); err != nil {
		t.Errorf("unexpected error deleting missing key: %v", err)
	}
}
