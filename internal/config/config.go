// ABOUTME: Configuration management for munch with YAML config loading.
// ABOUTME: Handles catalog, storage, recognition, and log settings plus ~ expansion.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultTopK is the number of matches shown when recognition.top_k is unset.
const DefaultTopK = 3

// Config stores munch configuration loaded from ~/.config/munch/config.yaml.
type Config struct {
	Catalog     CatalogConfig     `yaml:"catalog"`
	Recognition RecognitionConfig `yaml:"recognition"`
	Storage     StorageConfig     `yaml:"storage"`
	Log         LogConfig         `yaml:"log"`
}

// CatalogConfig points at the reference food catalog. Empty uses the built-in one.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// RecognitionConfig tunes food matching.
type RecognitionConfig struct {
	TopK int `yaml:"top_k"`
}

// StorageConfig selects where logged entries live.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "markdown" or "sqlite"
	DataDir string `yaml:"data_dir"`
}

// LogConfig sets the diagnostic log level.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// TopK returns the configured match count, falling back to DefaultTopK.
func (c *Config) TopK() int {
	if c.Recognition.TopK > 0 {
		return c.Recognition.TopK
	}
	return DefaultTopK
}

// GetCatalogPath returns the expanded catalog path, or "" for the built-in catalog.
func (c *Config) GetCatalogPath() (string, error) {
	return ExpandPath(c.Catalog.Path)
}

// GetDataDir returns the storage directory, defaulting to $XDG_DATA_HOME/munch.
func (c *Config) GetDataDir() (string, error) {
	if c.Storage.DataDir != "" {
		return ExpandPath(c.Storage.DataDir)
	}
	return DataDir()
}

// LogLevel parses the configured level. Unknown or empty values mean warn.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// DataDir returns the default data directory.
func DataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "munch"), nil
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
	return filepath.Join(configDir, "munch", "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// Load reads config from disk. Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
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
