// internal/config/config_test.go
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Endpoint != DefaultEndpoint {
		t.Errorf("expected default endpoint, got %s", cfg.Endpoint)
	}
	if cfg.FlushIntervalSeconds != 30 || cfg.MaxEventPairs != 1000 {
		t.Errorf("unexpected flush defaults: %d/%d", cfg.FlushIntervalSeconds, cfg.MaxEventPairs)
	}
	if !cfg.Collectors.Gaze.Enabled || cfg.Collectors.Gaze.PeriodMillis != 200 {
		t.Errorf("unexpected gaze defaults: %+v", cfg.Collectors.Gaze)
	}

	// The default file was written and parses back.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var onDisk Config
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatal(err)
	}
	if onDisk.Endpoint != DefaultEndpoint {
		t.Errorf("expected default endpoint on disk, got %s", onDisk.Endpoint)
	}
}

func TestLoadReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	custom := `{"endpoint": "https://collector.example.com/data", "max_event_pairs": 50}`
	if err := os.WriteFile(path, []byte(custom), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Endpoint != "https://collector.example.com/data" {
		t.Errorf("expected custom endpoint, got %s", cfg.Endpoint)
	}
	if cfg.MaxEventPairs != 50 {
		t.Errorf("expected custom pair cap, got %d", cfg.MaxEventPairs)
	}
	// Unspecified fields keep their defaults.
	if cfg.FlushIntervalSeconds != 30 {
		t.Errorf("expected default flush interval, got %d", cfg.FlushIntervalSeconds)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("VRTRACE_ENDPOINT", "https://override.example.com/data")
	t.Setenv("VRTRACE_APP_ID", "app-env")
	t.Setenv("VRTRACE_TEST_MODE", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Endpoint != "https://override.example.com/data" {
		t.Errorf("expected env endpoint, got %s", cfg.Endpoint)
	}
	if cfg.App.ID != "app-env" {
		t.Errorf("expected env app id, got %s", cfg.App.ID)
	}
	if !cfg.TestMode {
		t.Error("expected test mode from env")
	}
}
