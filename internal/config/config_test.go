package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != 8080 {
		t.Errorf("HTTPPort = %d, want 8080", cfg.HTTPPort)
	}
	if !cfg.Sources.Tasks || !cfg.Sources.ChildLogs.Sleep {
		t.Errorf("default toggles not enabled: %+v", cfg.Sources)
	}
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.yaml")
	content := `
httpPort: 9090
logLevel: debug
sources:
  tasks: true
  leave: false
  childLogs:
    feeding: true
  importantDates: true
  schedules: false
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PORTAL_HTTP_PORT", "7070")
	t.Setenv("PORTAL_SQLITE_DSN", "file:override.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != 7070 {
		t.Errorf("env did not override file: port = %d", cfg.HTTPPort)
	}
	if cfg.SQLiteDSN != "file:override.db" {
		t.Errorf("SQLiteDSN = %s", cfg.SQLiteDSN)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s", cfg.LogLevel)
	}
	if cfg.Sources.Leave {
		t.Error("file toggle for leave not applied")
	}
	// Partial blocks merge over the defaults; unspecified keys keep theirs.
	if !cfg.Sources.ChildLogs.Sleep {
		t.Error("unspecified childLogs keys should keep their defaults")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("PORTAL_HTTP_PORT", "not-a-port")
	if _, err := Load(""); err == nil {
		t.Fatal("expected an error for a malformed port")
	}

	t.Setenv("PORTAL_HTTP_PORT", "8080")
	t.Setenv("PORTAL_LOG_LEVEL", "verbose")
	if _, err := Load(""); err == nil {
		t.Fatal("expected an error for an unknown log level")
	}
}
