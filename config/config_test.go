package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/chime/errors"
	"github.com/grovetools/chime/testutil"
)

// TestExtensions verifies that custom extensions in chime.yml are properly loaded
func TestExtensions(t *testing.T) {
	yamlContent := []byte(`
version: "1"
notifications:
  toast: true

# Extension fields from a hypothetical soundpack tool
soundpack:
  name: temple-bell
  gain: 2

# Extension fields from another hypothetical tool
forwarding:
  enabled: true
  url: "https://ntfy.example.com/claude"
`)

	cfg, err := LoadFromBytes(yamlContent)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify extensions were captured
	if cfg.Extensions == nil {
		t.Fatal("Extensions map should not be nil")
	}

	if _, ok := cfg.Extensions["soundpack"]; !ok {
		t.Fatal("Expected 'soundpack' extension to be present")
	}

	// Test UnmarshalExtension for soundpack
	type SoundpackConfig struct {
		Name string `yaml:"name"`
		Gain int    `yaml:"gain"`
	}

	var spCfg SoundpackConfig
	if err := cfg.UnmarshalExtension("soundpack", &spCfg); err != nil {
		t.Fatalf("Failed to unmarshal soundpack extension: %v", err)
	}

	if spCfg.Name != "temple-bell" {
		t.Errorf("Expected name to be 'temple-bell', got '%s'", spCfg.Name)
	}

	if spCfg.Gain != 2 {
		t.Errorf("Expected gain to be 2, got %d", spCfg.Gain)
	}

	// Known sections must not leak into extensions
	if _, ok := cfg.Extensions["notifications"]; ok {
		t.Error("'notifications' should be parsed as a known section, not an extension")
	}

	// Unmarshal of a missing extension is a no-op, not an error
	var missing SoundpackConfig
	if err := cfg.UnmarshalExtension("nope", &missing); err != nil {
		t.Fatalf("Unexpected error for missing extension: %v", err)
	}
	if missing.Name != "" {
		t.Errorf("Expected zero value for missing extension, got '%s'", missing.Name)
	}
}

func TestLoadFromBytes(t *testing.T) {
	yamlContent := []byte(`
version: "1"
broker:
  enabled: false
bus:
  url: "tcp://10.0.0.5:1883"
  client_id: "chime-laptop"
notifications:
  sound_volume: 0.5
  mute:
    - "**/scratch/**"
history:
  limit: 25
sessions:
  timeout_seconds: 120
`)

	cfg, err := LoadFromBytes(yamlContent)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Broker.Enabled {
		t.Error("Expected broker to be disabled")
	}
	if cfg.Bus.URL != "tcp://10.0.0.5:1883" {
		t.Errorf("Expected bus url override, got '%s'", cfg.Bus.URL)
	}
	if cfg.Bus.ClientID != "chime-laptop" {
		t.Errorf("Expected client_id override, got '%s'", cfg.Bus.ClientID)
	}
	// Defaults still apply to omitted fields and sections
	if cfg.Bus.QueueSize != 1024 {
		t.Errorf("Expected default queue_size 1024, got %d", cfg.Bus.QueueSize)
	}
	if cfg.Notifications == nil || !cfg.Notifications.Toast {
		t.Error("Expected toast to default to true")
	}
	if cfg.History.Limit != 25 {
		t.Errorf("Expected history limit 25, got %d", cfg.History.Limit)
	}
	if cfg.Sessions.TimeoutSeconds != 120 {
		t.Errorf("Expected session timeout 120, got %d", cfg.Sessions.TimeoutSeconds)
	}
	if cfg.Tray == nil || !cfg.Tray.Enabled {
		t.Error("Expected tray section to default to enabled")
	}
}

func TestLoadFromBytesInvalid(t *testing.T) {
	if _, err := LoadFromBytes([]byte("bus: [not, a, mapping]")); err == nil {
		t.Fatal("Expected error for malformed config")
	}

	if _, err := LoadFromBytes([]byte("history:\n  limit: 0\n")); err == nil {
		t.Fatal("Expected error for zero history limit")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("CHIME_TEST_BROKER", "tcp://bus.internal:1883")

	yamlContent := []byte(`
bus:
  url: "${CHIME_TEST_BROKER}"
`)

	cfg, err := LoadFromBytes(yamlContent)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Bus.URL != "tcp://bus.internal:1883" {
		t.Errorf("Expected env var to expand, got '%s'", cfg.Bus.URL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yml"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if code := errors.GetCode(err); code != errors.ErrCodeConfigNotFound {
		t.Errorf("Expected CONFIG_NOT_FOUND, got %s", code)
	}
}

func TestLoadDefaultMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("CHIME_HOME", t.TempDir())
	t.Setenv("CHIME_CONFIG", "")

	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault should not fail without a config file: %v", err)
	}
	if cfg.Bus == nil || cfg.Bus.URL != "tcp://127.0.0.1:1883" {
		t.Error("Expected built-in defaults when no config file exists")
	}
}

func TestLoadDefaultHonorsEnvOverride(t *testing.T) {
	testutil.WriteConfig(t, `
version: "1"
bus:
  url: tcp://10.0.0.9:1883
notifications:
  sound_volume: 0.1
`)

	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}
	if cfg.Bus.URL != "tcp://10.0.0.9:1883" {
		t.Errorf("Expected CHIME_CONFIG file to win, got bus url %q", cfg.Bus.URL)
	}
	if cfg.Notifications.SoundVolume != 0.1 {
		t.Errorf("Expected volume 0.1 from file, got %v", cfg.Notifications.SoundVolume)
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chime.yml")

	cfg := Default()
	cfg.Notifications.Toast = false
	cfg.Notifications.SoundVolume = 0.25

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	// The temp file must not linger after a successful save
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("Expected temp file to be renamed away")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}

	if loaded.Notifications.Toast {
		t.Error("Expected toast=false to survive save/reload")
	}
	if loaded.Notifications.SoundVolume != 0.25 {
		t.Errorf("Expected volume 0.25, got %v", loaded.Notifications.SoundVolume)
	}
	if !loaded.Notifications.Sound {
		t.Error("Expected sound to remain enabled")
	}
}
