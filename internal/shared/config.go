package shared

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Backend  BackendConfig  `toml:"backend"`
	Database DatabaseConfig `toml:"database"`
	UI       UIConfig       `toml:"ui"`
}

// BackendConfig describes how to reach the album/song REST API.
type BackendConfig struct {
	BaseURL           string  `toml:"base_url"`
	APIPrefix         string  `toml:"api_prefix"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Token             string  `toml:"token"`
}

// DatabaseConfig contains settings for the local request journal.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	Journal      bool   `toml:"journal"`
}

// UIConfig contains TUI settings.
type UIConfig struct {
	ShowErrors bool   `toml:"show_errors"`
	LogFile    string `toml:"log_file"`
}

// Timeout returns the per-request timeout. Zero means no timeout.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// LoadConfig reads a TOML configuration file from the specified path.
//
// Values in the file override the embedded defaults; keys that are absent keep their default.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports the first invalid setting, wrapped with [ErrInvalidConfig].
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: backend.base_url: %v", ErrInvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: backend.base_url must be http or https, got %q", ErrInvalidConfig, c.Backend.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: backend.base_url has no host", ErrInvalidConfig)
	}
	if c.Backend.APIPrefix != "" && !strings.HasPrefix(c.Backend.APIPrefix, "/") {
		return fmt.Errorf("%w: backend.api_prefix must start with /", ErrInvalidConfig)
	}
	if c.Backend.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: backend.timeout_seconds must not be negative", ErrInvalidConfig)
	}
	if c.Backend.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: backend.requests_per_second must not be negative", ErrInvalidConfig)
	}
	if c.Database.Journal && c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is required when the journal is enabled", ErrInvalidConfig)
	}
	return nil
}
