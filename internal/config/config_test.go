package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

// setupConfigDir creates a temp data dir, sets the env var,
// and returns (dir, configPath).
func setupConfigDir(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TWINSIGHT_DATA_DIR", dir)
	return dir, filepath.Join(dir, "config.json")
}

// writeConfigRaw writes raw string content to config.json.
func writeConfigRaw(t *testing.T, dir, content string) {
	t.Helper()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want 127.0.0.1", cfg.Host)
	}
	if cfg.Port != 8090 {
		t.Errorf("Port = %d, want 8090", cfg.Port)
	}
	if cfg.DBPath != filepath.Join(cfg.DataDir, "twinsight.db") {
		t.Errorf("DBPath = %q not under DataDir %q", cfg.DBPath, cfg.DataDir)
	}
	if cfg.WriteTimeout <= 0 {
		t.Errorf("WriteTimeout = %v, want positive", cfg.WriteTimeout)
	}
}

func TestLoadMinimalEnvOverrides(t *testing.T) {
	dir, _ := setupConfigDir(t)
	t.Setenv("TWINSIGHT_HOST", "0.0.0.0")
	t.Setenv("TWINSIGHT_PORT", "9999")

	cfg, err := LoadMinimal()
	if err != nil {
		t.Fatalf("LoadMinimal: %v", err)
	}
	if cfg.DataDir != dir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, dir)
	}
	if cfg.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want 0.0.0.0", cfg.Host)
	}
	if cfg.Port != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.Port)
	}
	if cfg.DBPath != filepath.Join(dir, "twinsight.db") {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
}

func TestLoadMinimalBadPortEnvIgnored(t *testing.T) {
	setupConfigDir(t)
	t.Setenv("TWINSIGHT_PORT", "not-a-port")

	cfg, err := LoadMinimal()
	if err != nil {
		t.Fatalf("LoadMinimal: %v", err)
	}
	if cfg.Port != 8090 {
		t.Errorf("Port = %d, want default 8090", cfg.Port)
	}
}

func TestLoadMinimalConfigFile(t *testing.T) {
	dir, _ := setupConfigDir(t)
	writeConfigRaw(t, dir, `{"host": "10.0.0.5", "port": 7070}`)

	cfg, err := LoadMinimal()
	if err != nil {
		t.Fatalf("LoadMinimal: %v", err)
	}
	if cfg.Host != "10.0.0.5" || cfg.Port != 7070 {
		t.Errorf("got %s:%d, want 10.0.0.5:7070", cfg.Host, cfg.Port)
	}
}

func TestLoadMinimalInvalidConfigFile(t *testing.T) {
	dir, _ := setupConfigDir(t)
	writeConfigRaw(t, dir, `{not json`)

	if _, err := LoadMinimal(); err == nil {
		t.Error("expected error for invalid config file")
	}
}

func TestEnvBeatsConfigFile(t *testing.T) {
	dir, _ := setupConfigDir(t)
	writeConfigRaw(t, dir, `{"port": 7070}`)

	cfg, err := LoadMinimal()
	if err != nil {
		t.Fatalf("LoadMinimal: %v", err)
	}
	// No port env var set, so the file value wins over the default.
	if cfg.Port != 7070 {
		t.Errorf("Port = %d, want 7070", cfg.Port)
	}
}

func TestLoadAppliesExplicitFlags(t *testing.T) {
	setupConfigDir(t)

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	RegisterServeFlags(fs)
	if err := fs.Parse([]string{"--port", "6060", "--no-browser"}); err != nil {
		t.Fatalf("parsing flags: %v", err)
	}

	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 6060 {
		t.Errorf("Port = %d, want 6060", cfg.Port)
	}
	if !cfg.NoBrowser {
		t.Error("NoBrowser = false, want true")
	}
	// Host flag was not set explicitly; default survives.
	if cfg.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want default", cfg.Host)
	}
}
