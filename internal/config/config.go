// ABOUTME: Configuration management for moodlog with YAML config loading and env overrides.
// ABOUTME: Handles storage backend selection, swipe tuning, remote backup settings, and ~ expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. MOODLOG_STORAGE_BACKEND.
const EnvPrefix = "MOODLOG"

// Storage backends.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Backends lists the supported storage backends in the order the setup wizard offers them.
var Backends = []string{BackendFile, BackendBadger, BackendSQLite, BackendMemory}

// Swipe defaults mirror the mobile row: 80 units to commit, 150ms before the entry is removed.
const (
	DefaultSwipeThreshold = 80.0
	DefaultDeleteDelay    = 150 * time.Millisecond
	DefaultCellUnits      = 8.0
)

// Config stores moodlog configuration loaded from ~/.config/moodlog/config.yaml.
type Config struct {
	Storage  StorageConfig `yaml:"storage"`
	Swipe    SwipeConfig   `yaml:"swipe"`
	Remote   RemoteConfig  `yaml:"remote"`
	LogLevel string        `yaml:"log_level,omitempty" split_words:"true"`
}

// StorageConfig selects where the mood list is persisted.
type StorageConfig struct {
	Backend string `yaml:"backend,omitempty" split_words:"true"`
	DataDir string `yaml:"data_dir,omitempty" split_words:"true"`
}

// SwipeConfig tunes the swipe-to-delete gesture.
type SwipeConfig struct {
	Threshold   float64       `yaml:"threshold,omitempty" split_words:"true"`
	DeleteDelay time.Duration `yaml:"delete_delay,omitempty" split_words:"true"`
	CellUnits   float64       `yaml:"cell_units,omitempty" split_words:"true"`
}

// RemoteConfig holds optional remote backup API settings.
type RemoteConfig struct {
	APIKey string `yaml:"api_key,omitempty" split_words:"true"`
	TeamID string `yaml:"team_id,omitempty" split_words:"true"`
	APIURL string `yaml:"api_url,omitempty" split_words:"true"`
}

// HasRemote returns true if remote backup is configured.
func (c *Config) HasRemote() bool {
	return c.Remote.APIKey != "" && c.Remote.TeamID != "" && c.Remote.APIURL != ""
}

// StorageBackend returns the configured backend, defaulting to file.
func (c *Config) StorageBackend() string {
	if c.Storage.Backend == "" {
		return BackendFile
	}
	return strings.ToLower(c.Storage.Backend)
}

// GetDataDir returns the data directory, defaulting to $XDG_DATA_HOME/moodlog.
func (c *Config) GetDataDir() (string, error) {
	if c.Storage.DataDir != "" {
		return ExpandPath(c.Storage.DataDir)
	}
	return DefaultDataDir()
}

// SwipeThreshold returns the distance a row must travel to commit a delete.
func (c *Config) SwipeThreshold() float64 {
	if c.Swipe.Threshold <= 0 {
		return DefaultSwipeThreshold
	}
	return c.Swipe.Threshold
}

// DeleteDelay returns how long a dismissed row animates before its entry is removed.
func (c *Config) DeleteDelay() time.Duration {
	if c.Swipe.DeleteDelay <= 0 {
		return DefaultDeleteDelay
	}
	return c.Swipe.DeleteDelay
}

// CellUnits returns how many gesture units one terminal column of mouse travel is worth.
func (c *Config) CellUnits() float64 {
	if c.Swipe.CellUnits <= 0 {
		return DefaultCellUnits
	}
	return c.Swipe.CellUnits
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() error {
	backend := c.StorageBackend()
	for _, b := range Backends {
		if b == backend {
			return nil
		}
	}
	return fmt.Errorf("unsupported storage backend %q (want one of %s)", c.Storage.Backend, strings.Join(Backends, ", "))
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "moodlog"), nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "moodlog", "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// Load reads config from disk and applies MOODLOG_* environment overrides.
// A missing file yields the default config.
func Load() (*Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads only the config file, ignoring the environment. Use it when the
// result will be saved back, so overrides never end up on disk.
func LoadFile() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, err
	}
	return cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
