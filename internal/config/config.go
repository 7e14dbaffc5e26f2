// ABOUTME: Coach configuration management: data paths and user identity.
// ABOUTME: JSON config under XDG config dir; opens storage and cache.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/conradlabs/coach/internal/cache"
	"github.com/conradlabs/coach/internal/models"
	"github.com/conradlabs/coach/internal/storage"
)

// Config stores coach tool configuration.
type Config struct {
	// UserID identifies the tracked individual. Defaults to "local";
	// the schema keys everything by user so a second profile is just a
	// different ID.
	UserID string `json:"user_id,omitempty"`

	// DataDir is the root directory for data storage: coach.db and the
	// cache/ directory live here. Supports ~ expansion for home
	// directory. Defaults to ~/.local/share/coach.
	DataDir string `json:"data_dir,omitempty"`
}

// GetUserID returns the configured user, defaulting to the local user.
func (c *Config) GetUserID() string {
	if c.UserID == "" {
		return models.DefaultUserID
	}
	return c.UserID
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage opens the SQLite repository at the configured data dir.
func (c *Config) OpenStorage() (storage.Repository, error) {
	return storage.Open(filepath.Join(c.GetDataDir(), "coach.db"))
}

// OpenCache opens the result cache at the configured data dir.
func (c *Config) OpenCache() (*cache.Cache, error) {
	return cache.Open(filepath.Join(c.GetDataDir(), "cache"))
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "coach", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
