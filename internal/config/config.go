// Package config handles tool configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in ~/.config/bibcheck/config.yml.
// Command-line flags override environment variables, which override the
// file; zero values fall back to defaults.
type Config struct {
	AuditPath   string `yaml:"audit_path,omitempty"`   // Audit workbook location
	HistoryPath string `yaml:"history_path,omitempty"` // Run-history SQLite database
	RulesFile   string `yaml:"rules_file,omitempty"`   // Extra schema rules to merge
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "bibcheck"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"

	// DefaultAuditPath is where the audit workbook lands unless configured.
	DefaultAuditPath = "report.xlsx"
)

// Environment variable overrides, loadable from a .env file.
const (
	EnvAudit   = "BIBCHECK_AUDIT"
	EnvHistory = "BIBCHECK_HISTORY"
	EnvRules   = "BIBCHECK_RULES"
)

// Path returns the global config file path. Respects XDG_CONFIG_HOME,
// defaults to ~/.config/bibcheck/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load reads the configuration file and applies environment overrides.
// A missing file is not an error; it yields the defaults.
func Load() (*Config, error) {
	cfg := &Config{}

	path := Path()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults only
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	if v := os.Getenv(EnvAudit); v != "" {
		cfg.AuditPath = v
	}
	if v := os.Getenv(EnvHistory); v != "" {
		cfg.HistoryPath = v
	}
	if v := os.Getenv(EnvRules); v != "" {
		cfg.RulesFile = v
	}

	if cfg.AuditPath == "" {
		cfg.AuditPath = DefaultAuditPath
	}

	return cfg, nil
}
