// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/patro/internal/workday"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendREST   = "rest"
	BackendMemory = "memory"
)

// Calendar modes.
const (
	ModeAD = "ad"
	ModeBS = "bs"
)

// Themes are the names of the embedded TUI themes.
var Themes = []string{"mocha", "macchiato", "frappe", "latte"}

// ErrUnknownKey is returned by Set for keys that do not exist.
var ErrUnknownKey = errors.New("unknown config key")

// Config holds the application configuration.
type Config struct {
	Calendar CalendarConfig `toml:"calendar"`
	Storage  StorageConfig  `toml:"storage"`
	Log      LogConfig      `toml:"log"`
	UI       UIConfig       `toml:"ui"`
}

// CalendarConfig holds the starting calendar state.
type CalendarConfig struct {
	Mode   string `toml:"mode"`   // "ad" or "bs"
	Policy string `toml:"policy"` // "all", "weekdays", "custom:N"
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	Backend string `toml:"backend"`  // "sqlite", "rest", "memory"
	DBPath  string `toml:"db_path"`  // sqlite file
	RESTURL string `toml:"rest_url"` // e.g., "https://xyz.supabase.co"
	RESTKey string `toml:"rest_key"`
	Timeout string `toml:"timeout"` // e.g., "10s"
}

// LogConfig holds logger settings.
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"` // "debug", "info", "warn", "error"
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Calendar: CalendarConfig{
			Mode:   ModeAD,
			Policy: "all",
		},
		Storage: StorageConfig{
			Backend: BackendSQLite,
			DBPath:  defaultDBPath(),
			Timeout: "10s",
		},
		Log: LogConfig{
			File:  defaultLogPath(),
			Level: "warn",
		},
		UI: UIConfig{
			Theme: "frappe",
		},
	}
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "patro")
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	dir := dataDir()
	if dir == "" {
		return "patro.db"
	}
	return filepath.Join(dir, "patro.db")
}

func defaultLogPath() string {
	dir := dataDir()
	if dir == "" {
		return "patro.log"
	}
	return filepath.Join(dir, "patro.log")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "patro", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// envKeys maps environment variables to config keys.
var envKeys = []struct {
	env string
	key string
}{
	{"PATRO_MODE", "calendar.mode"},
	{"PATRO_POLICY", "calendar.policy"},
	{"PATRO_BACKEND", "storage.backend"},
	{"PATRO_DB_PATH", "storage.db_path"},
	{"PATRO_REST_URL", "storage.rest_url"},
	{"PATRO_REST_KEY", "storage.rest_key"},
	{"PATRO_TIMEOUT", "storage.timeout"},
	{"PATRO_LOG_FILE", "log.file"},
	{"PATRO_LOG_LEVEL", "log.level"},
	{"PATRO_UI_THEME", "ui.theme"},
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	for _, e := range envKeys {
		if v := os.Getenv(e.env); v != "" {
			_ = cfg.Set(e.key, v)
		}
	}
}

// field returns a pointer to the string field named by a dotted key.
func (c *Config) field(key string) (*string, bool) {
	switch strings.ToLower(key) {
	case "calendar.mode":
		return &c.Calendar.Mode, true
	case "calendar.policy":
		return &c.Calendar.Policy, true
	case "storage.backend":
		return &c.Storage.Backend, true
	case "storage.db_path":
		return &c.Storage.DBPath, true
	case "storage.rest_url":
		return &c.Storage.RESTURL, true
	case "storage.rest_key":
		return &c.Storage.RESTKey, true
	case "storage.timeout":
		return &c.Storage.Timeout, true
	case "log.file":
		return &c.Log.File, true
	case "log.level":
		return &c.Log.Level, true
	case "ui.theme":
		return &c.UI.Theme, true
	default:
		return nil, false
	}
}

// Keys lists every settable key.
func Keys() []string {
	keys := make([]string, 0, len(envKeys))
	for _, e := range envKeys {
		keys = append(keys, e.key)
	}
	return keys
}

// Get returns the value of a dotted key such as "calendar.policy".
func (c *Config) Get(key string) (string, error) {
	f, ok := c.field(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return *f, nil
}

// Set assigns a dotted key. The result is not validated.
func (c *Config) Set(key, value string) error {
	f, ok := c.field(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	*f = strings.TrimSpace(value)
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Calendar.Mode) {
	case ModeAD, ModeBS:
	default:
		return fmt.Errorf("mode must be %q or %q, got %q", ModeAD, ModeBS, c.Calendar.Mode)
	}
	if _, err := workday.ParsePolicy(c.Calendar.Policy); err != nil {
		return fmt.Errorf("policy: %w", err)
	}

	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.DBPath == "" {
			return errors.New("db_path must be set")
		}
	case BackendREST:
		if c.Storage.RESTURL == "" {
			return errors.New("rest_url must be set for the rest backend")
		}
		if c.Storage.RESTKey == "" {
			return errors.New("rest_key must be set for the rest backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("invalid backend: %s", c.Storage.Backend)
	}
	if c.Storage.Timeout != "" {
		d, err := time.ParseDuration(c.Storage.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("timeout must be a positive duration, got %q", c.Storage.Timeout)
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	if c.UI.Theme != "" && !slices.Contains(Themes, strings.ToLower(c.UI.Theme)) {
		return fmt.Errorf("invalid theme: %s", c.UI.Theme)
	}
	return nil
}

// Policy returns the configured working-day policy.
func (c *Config) Policy() workday.Policy {
	p, err := workday.ParsePolicy(c.Calendar.Policy)
	if err != nil {
		return workday.AllDays()
	}
	return p
}

// IsBS reports whether the calendar starts in B.S. mode.
func (c *Config) IsBS() bool {
	return strings.EqualFold(c.Calendar.Mode, ModeBS)
}

// Timeout returns the storage timeout, or zero for the backend default.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.Storage.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
