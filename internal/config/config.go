// Package config loads portal configuration from an optional YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config captures the portal service configuration.
type Config struct {
	HTTPPort  int    `yaml:"httpPort"`
	SQLiteDSN string `yaml:"sqliteDSN"`
	LogLevel  string `yaml:"logLevel"`

	// Sources holds the default visibility toggles applied when a calendar
	// request does not specify its own.
	Sources SourceDefaults `yaml:"sources"`
}

// SourceDefaults mirrors the calendar source toggles.
type SourceDefaults struct {
	Tasks          bool          `yaml:"tasks"`
	Leave          bool          `yaml:"leave"`
	ChildLogs      ChildLogFlags `yaml:"childLogs"`
	ImportantDates bool          `yaml:"importantDates"`
	Schedules      bool          `yaml:"schedules"`
}

// ChildLogFlags enables individual child-log categories.
type ChildLogFlags struct {
	Feeding  bool `yaml:"feeding"`
	Sleep    bool `yaml:"sleep"`
	Diaper   bool `yaml:"diaper"`
	Activity bool `yaml:"activity"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() Config {
	return Config{
		HTTPPort:  8080,
		SQLiteDSN: "file:portal.db?_foreign_keys=on",
		LogLevel:  "info",
		Sources: SourceDefaults{
			Tasks:          true,
			Leave:          true,
			ChildLogs:      ChildLogFlags{Feeding: true, Sleep: true, Diaper: true, Activity: true},
			ImportantDates: true,
			Schedules:      true,
		},
	}
}

// Load reads configuration in three layers: defaults, then the YAML file at
// path (skipped when path is empty or the file does not exist), then PORTAL_*
// environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Optional file; defaults and environment carry the config.
		default:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("PORTAL_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "PORTAL_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}
	if dsn := strings.TrimSpace(os.Getenv("PORTAL_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}
	if level := strings.TrimSpace(os.Getenv("PORTAL_LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("config: invalid environment values: %s", strings.Join(invalid, ", "))
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("config: http port %d out of range", c.HTTPPort)
	}
	if strings.TrimSpace(c.SQLiteDSN) == "" {
		return fmt.Errorf("config: sqlite dsn must not be empty")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	return nil
}
