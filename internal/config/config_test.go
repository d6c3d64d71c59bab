package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Test.Mode != nil || cfg.Test.Time != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[test]
mode = "quote"
time = 30
sound = true

[history]
curve-window = 5
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Test.Mode == nil || *cfg.Test.Mode != "quote" {
		t.Fatalf("unexpected mode: %v", cfg.Test.Mode)
	}
	if cfg.Test.Time == nil || *cfg.Test.Time != 30 {
		t.Fatalf("unexpected time: %v", cfg.Test.Time)
	}
	if cfg.Test.Words != nil {
		t.Fatalf("expected unset words")
	}
	if cfg.Test.Sound == nil || !*cfg.Test.Sound {
		t.Fatalf("expected sound enabled")
	}
	if cfg.History.CurveWindow == nil || *cfg.History.CurveWindow != 5 {
		t.Fatalf("unexpected curve window: %v", cfg.History.CurveWindow)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[test]\nduration = 30\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "test.duration") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "typesprint", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/tmp/data", "typesprint", "typesprint.db") {
		t.Fatalf("unexpected db path %q", got)
	}
}
