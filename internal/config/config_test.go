// ABOUTME: Tests for munch configuration loading and path expansion.
// ABOUTME: Covers YAML parsing, defaults, path expansion, and log level parsing.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"tilde only", "~", home},
		{"tilde slash", "~/foo/bar", filepath.Join(home, "foo", "bar")},
		{"absolute", "/tmp/foo", "/tmp/foo"},
		{"relative", "foo/bar", "foo/bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.input)
			if err != nil {
				t.Fatalf("ExpandPath(%q) error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadDefaultConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Catalog.Path != "" {
		t.Error("expected empty catalog path in default config")
	}
	if cfg.TopK() != DefaultTopK {
		t.Errorf("TopK() = %d, want %d", cfg.TopK(), DefaultTopK)
	}
	if cfg.LogLevel() != slog.LevelWarn {
		t.Errorf("LogLevel() = %v, want warn", cfg.LogLevel())
	}
}

func TestLoadYAMLConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "munch")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	configData := `catalog:
  path: "~/foods.json"
recognition:
  top_k: 5
storage:
  backend: sqlite
  data_dir: "~/munch-data"
log:
  level: debug
`
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configData), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	if got, err := cfg.GetCatalogPath(); err != nil {
		t.Fatalf("GetCatalogPath() error: %v", err)
	} else if got != filepath.Join(home, "foods.json") {
		t.Errorf("GetCatalogPath() = %q, want %q", got, filepath.Join(home, "foods.json"))
	}
	if cfg.TopK() != 5 {
		t.Errorf("TopK() = %d, want 5", cfg.TopK())
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("expected backend 'sqlite', got %q", cfg.Storage.Backend)
	}
	if got, err := cfg.GetDataDir(); err != nil {
		t.Fatalf("GetDataDir() error: %v", err)
	} else if got != filepath.Join(home, "munch-data") {
		t.Errorf("GetDataDir() = %q, want %q", got, filepath.Join(home, "munch-data"))
	}
	if cfg.LogLevel() != slog.LevelDebug {
		t.Errorf("LogLevel() = %v, want debug", cfg.LogLevel())
	}
}

func TestLoadMalformedConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "munch")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("recognition: [unclosed"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{
		Catalog:     CatalogConfig{Path: "/tmp/foods.yaml"},
		Recognition: RecognitionConfig{TopK: 7},
		Storage:     StorageConfig{Backend: "markdown"},
	}

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if loaded.Catalog.Path != "/tmp/foods.yaml" {
		t.Errorf("expected catalog path '/tmp/foods.yaml', got %q", loaded.Catalog.Path)
	}
	if loaded.TopK() != 7 {
		t.Errorf("expected top_k 7, got %d", loaded.TopK())
	}
}

func TestDefaultDataDir(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmpDir)

	cfg := &Config{}
	got, err := cfg.GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir() error: %v", err)
	}
	if want := filepath.Join(tmpDir, "munch"); got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"", slog.LevelWarn},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"chatty", slog.LevelWarn},
	}

	for _, tt := range tests {
		cfg := &Config{Log: LogConfig{Level: tt.input}}
		if got := cfg.LogLevel(); got != tt.expected {
			t.Errorf("LogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
