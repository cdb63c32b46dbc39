// internal/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// DefaultEndpoint is the hosted collector.
const DefaultEndpoint = "https://vadr.io/analytics/api/v1.1/register/data/"

// CollectorConfig enables one default-event sampler at a period.
type CollectorConfig struct {
	Enabled      bool  `json:"enabled"`
	PeriodMillis int64 `json:"period_millis"`
}

type Config struct {
	DataDir  string `json:"data_dir"`
	LogLevel int    `json:"log_level"` // 0 none .. 4 debug
	Storage  string `json:"storage"`   // "file" | "sqlite"

	Endpoint             string `json:"endpoint"`
	FlushIntervalSeconds int    `json:"flush_interval_seconds"`
	MaxEventPairs        int    `json:"max_event_pairs"`
	RetryDelaySeconds    int    `json:"retry_delay_seconds"`
	TestMode             bool   `json:"test_mode"`

	SessionTTLMinutes int `json:"session_ttl_minutes"`
	DeviceTTLYears    int `json:"device_ttl_years"`

	App struct {
		ID      string `json:"id"`
		Token   string `json:"token"`
		Version string `json:"version"`
	} `json:"app"`

	Device struct {
		Language       string `json:"language"`
		OS             string `json:"os"`
		OSV            string `json:"osv"`
		BrowserName    string `json:"browser_name"`
		BrowserVersion string `json:"browser_version"`
	} `json:"device"`

	Collectors struct {
		Gaze        CollectorConfig `json:"gaze"`
		Orientation CollectorConfig `json:"orientation"`
		Performance CollectorConfig `json:"performance"`
	} `json:"collectors"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	cfg := &Config{
		DataDir:              filepath.Join(os.Getenv("HOME"), ".vrtrace"),
		LogLevel:             1,
		Storage:              "file",
		Endpoint:             DefaultEndpoint,
		FlushIntervalSeconds: 30,
		MaxEventPairs:        1000,
		RetryDelaySeconds:    10,
		SessionTTLMinutes:    5,
		DeviceTTLYears:       3,
	}
	cfg.Collectors.Gaze = CollectorConfig{Enabled: true, PeriodMillis: 200}
	cfg.Collectors.Orientation = CollectorConfig{Enabled: true, PeriodMillis: 200}
	cfg.Collectors.Performance = CollectorConfig{Enabled: true, PeriodMillis: 200}
	return cfg
}

// Load reads the config file at path, writing defaults there first if it does
// not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if os.IsNotExist(err) {
		if err := writeDefaults(path, cfg); err != nil {
			return nil, err
		}
	}

	// Override from env (highest precedence)
	if v := os.Getenv("VRTRACE_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("VRTRACE_APP_ID"); v != "" {
		cfg.App.ID = v
	}
	if v := os.Getenv("VRTRACE_APP_TOKEN"); v != "" {
		cfg.App.Token = v
	}
	if v := os.Getenv("VRTRACE_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("VRTRACE_TEST_MODE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.TestMode = b
		}
	}

	return cfg, nil
}

func writeDefaults(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename default config: %w", err)
	}
	return nil
}
