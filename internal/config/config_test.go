package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvAudit, "")
	t.Setenv(EnvHistory, "")
	t.Setenv(EnvRules, "")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir()) // No config file present
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.AuditPath != DefaultAuditPath {
		t.Errorf("AuditPath = %q, want %q", cfg.AuditPath, DefaultAuditPath)
	}
	if cfg.HistoryPath != "" || cfg.RulesFile != "" {
		t.Errorf("unexpected non-defaults: %+v", cfg)
	}
}

func TestLoad_File(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	clearEnv(t)

	dir := filepath.Join(configHome, ConfigDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "audit_path: review.xlsx\nhistory_path: runs.db\nrules_file: extra.yml\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.AuditPath != "review.xlsx" || cfg.HistoryPath != "runs.db" || cfg.RulesFile != "extra.yml" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir := filepath.Join(configHome, ConfigDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte("audit_path: from-file.xlsx\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvAudit, "from-env.xlsx")
	t.Setenv(EnvHistory, "env.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.AuditPath != "from-env.xlsx" {
		t.Errorf("AuditPath = %q, env should override file", cfg.AuditPath)
	}
	if cfg.HistoryPath != "env.db" {
		t.Errorf("HistoryPath = %q", cfg.HistoryPath)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir := filepath.Join(configHome, ConfigDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(": not yaml ["), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load() should fail on malformed config")
	}
}
