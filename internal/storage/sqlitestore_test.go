// internal/storage/sqlitestore_test.go
package storage

import (
	"path/filepath"
	"testing"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

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

	// Upsert replaces.
	if err := s.Put("key", []byte("other")); err != nil {
		t.Fatal(err)
	}
	v, _, err = s.Get("key")
	if err != nil {
		t.Fatal(err)
	}
	if string(v) != "other" {
		t.Errorf("expected upserted value, got %q", v)
	}

	if err := s.Delete("key"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get("key"); ok {
		t.Error("expected key gone after delete")
	}
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put("key", []byte("value")); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	v, ok, err := s2.Get("key")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || string(v) != "value" {
		t.Errorf("expected persisted value after reopen, got %q ok=%v", v, ok)
	}
}
