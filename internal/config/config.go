package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	dirName        = ".tada"
	configFileName = "config.yaml"
	logFileName    = "tada.log"
)

// Storage backends understood by `tada serve`.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
	StorageJSON   = "json"
)

// Config holds everything the client and the reference server need.
type Config struct {
	Client ClientConfig `yaml:"client"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Theme  string       `yaml:"theme"` // classic, neon, mono
}

// ClientConfig points the client at a Remote Todo Service.
type ClientConfig struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"` // Go duration, "0" disables
}

// ServerConfig configures `tada serve`.
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	Storage  string `yaml:"storage"`
	DBPath   string `yaml:"db_path"`
	TestMode bool   `yaml:"test_mode"` // exposes POST /api/test/truncate
}

// LogConfig configures internal/log.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console, json
	File   string `yaml:"file"`   // used by the interactive UI
}

// Default returns the built-in configuration.
func Default() *Config {
	dir, err := Dir()
	if err != nil {
		dir = "."
	}
	return &Config{
		Client: ClientConfig{
			URL:     "http://localhost:8080",
			Timeout: "10s",
		},
		Server: ServerConfig{
			Addr:    ":8080",
			Storage: StorageSQLite,
			DBPath:  "todos.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			File:   filepath.Join(dir, logFileName),
		},
		Theme: "classic",
	}
}

// Dir is ~/.tada.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// DefaultPath is ~/.tada/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads path on top of the defaults, then applies env overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Client.URL = getEnv("TADA_SERVER", c.Client.URL)
	c.Client.Timeout = getEnv("TADA_TIMEOUT", c.Client.Timeout)
	c.Theme = getEnv("TADA_THEME", c.Theme)
	c.Log.Level = getEnv("TADA_LOG_LEVEL", c.Log.Level)
	c.Server.Storage = getEnv("TADA_STORAGE", c.Server.Storage)
	c.Server.DBPath = getEnv("DB_PATH", c.Server.DBPath)
	if port := getEnv("PORT", ""); port != "" {
		c.Server.Addr = ":" + port
	}
	if v := getEnv("TADA_TEST_MODE", ""); v != "" {
		c.Server.TestMode, _ = strconv.ParseBool(v)
	}
}

// Validate rejects settings that would only fail later.
func (c *Config) Validate() error {
	switch c.Server.Storage {
	case StorageMemory, StorageSQLite, StorageJSON:
	default:
		return fmt.Errorf("config: unknown storage %q (want memory, sqlite or json)", c.Server.Storage)
	}
	if _, err := c.ClientTimeout(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Client.URL) == "" {
		return errors.New("config: client url is empty")
	}
	return nil
}

// ClientTimeout parses Client.Timeout; empty means no timeout.
func (c *Config) ClientTimeout() (time.Duration, error) {
	if c.Client.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Client.Timeout)
	if err != nil {
		return 0, fmt.Errorf("config: client timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config: client timeout must not be negative, got %s", d)
	}
	return d, nil
}

// Save writes the config as YAML, creating the parent directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
