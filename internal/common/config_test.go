package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	if config.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", config.Server.Port)
	}
	if config.Images.MaxWidth != 1024 {
		t.Errorf("expected default max width 1024, got %d", config.Images.MaxWidth)
	}
	if config.Images.Quality != 70 {
		t.Errorf("expected default quality 70, got %d", config.Images.Quality)
	}
	if config.IsProduction() {
		t.Error("default environment must not be production")
	}
}

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "refero.toml")
	content := `
environment = "production"

[server]
port = 9090

[storage.badger]
path = "/var/lib/refero"
reset_on_startup = true

[images]
max_width = 800
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if config.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", config.Server.Port)
	}
	if config.Server.Host != "localhost" {
		t.Errorf("expected default host to survive partial config, got %q", config.Server.Host)
	}
	if config.Storage.Badger.Path != "/var/lib/refero" {
		t.Errorf("unexpected badger path: %q", config.Storage.Badger.Path)
	}
	if !config.Storage.Badger.ResetOnStartup {
		t.Error("expected reset_on_startup true")
	}
	if config.Images.MaxWidth != 800 {
		t.Errorf("expected max width 800, got %d", config.Images.MaxWidth)
	}
	if !config.IsProduction() {
		t.Error("expected production environment")
	}
}

func TestLoadFromFileMissingFile(t *testing.T) {
	if _, err := LoadFromFile("/no/such/refero.toml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("REFERO_SERVER_PORT", "7070")
	t.Setenv("REFERO_LOG_LEVEL", "debug")
	t.Setenv("REFERO_IMAGE_QUALITY", "55")

	config, err := LoadFromFiles()
	if err != nil {
		t.Fatal(err)
	}

	if config.Server.Port != 7070 {
		t.Errorf("expected env port 7070, got %d", config.Server.Port)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("expected env log level debug, got %q", config.Logging.Level)
	}
	if config.Images.Quality != 55 {
		t.Errorf("expected env quality 55, got %d", config.Images.Quality)
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()
	ApplyFlagOverrides(config, 6060, "0.0.0.0")

	if config.Server.Port != 6060 || config.Server.Host != "0.0.0.0" {
		t.Errorf("flag overrides not applied: %+v", config.Server)
	}

	ApplyFlagOverrides(config, 0, "")
	if config.Server.Port != 6060 || config.Server.Host != "0.0.0.0" {
		t.Error("zero-value flags must not override")
	}
}
