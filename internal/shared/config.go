package shared

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	// EnvAPIURL selects the API base URL, taking precedence over the config file.
	EnvAPIURL = "IMPORTDASH_API_URL"
	// EnvAPIURLAlias is read when [EnvAPIURL] is unset, for deployments configured for the web dashboard.
	EnvAPIURLAlias = "NEXT_PUBLIC_API_URL"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML (or YAML) file.
type Config struct {
	API       APIConfig       `toml:"api" yaml:"api"`
	Dashboard DashboardConfig `toml:"dashboard" yaml:"dashboard"`
	Trigger   TriggerConfig   `toml:"trigger" yaml:"trigger"`
	Database  DatabaseConfig  `toml:"database" yaml:"database"`
	Server    ServerConfig    `toml:"server" yaml:"server"`
	Log       LogConfig       `toml:"log" yaml:"log"`
}

// APIConfig points the client at the import backend.
type APIConfig struct {
	BaseURL string        `toml:"base_url" yaml:"base_url"`
	Timeout time.Duration `toml:"timeout" yaml:"timeout"`
}

// DashboardConfig controls polling and display.
type DashboardConfig struct {
	RefreshInterval     time.Duration `toml:"refresh_interval" yaml:"refresh_interval"`
	TriggerRefreshDelay time.Duration `toml:"trigger_refresh_delay" yaml:"trigger_refresh_delay"`
	Timezone            string        `toml:"timezone" yaml:"timezone"`
}

// TriggerConfig limits manual import triggers.
type TriggerConfig struct {
	MinInterval time.Duration `toml:"min_interval" yaml:"min_interval"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path" yaml:"path"`
	MaxOpenConns int    `toml:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns" yaml:"max_idle_conns"`
}

// ServerConfig contains settings for the development API server.
type ServerConfig struct {
	Host         string        `toml:"host" yaml:"host"`
	Port         int           `toml:"port" yaml:"port"`
	ProcessEvery time.Duration `toml:"process_every" yaml:"process_every"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"`
}

// LoadConfig reads and parses a configuration file from the specified path.
//
// Files ending in .yaml or .yml are decoded as YAML, anything else as TOML.
// Keys absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = toml.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
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

// ResolveConfig loads the config at path when it exists, falling back to defaults,
// then applies environment overrides and validates the result.
func ResolveConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if config, err = LoadConfig(path); err != nil {
				return nil, err
			}
		}
	}

	config.ApplyEnv(os.LookupEnv)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides settings from the environment using the given lookup function.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	for _, key := range []string{EnvAPIURL, EnvAPIURLAlias} {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			c.API.BaseURL = strings.TrimSpace(v)
			return
		}
	}
}

// Validate checks the configuration and normalizes the API base URL.
func (c *Config) Validate() error {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url is empty", ErrInvalidConfig)
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api.base_url %q must be an http(s) URL", ErrInvalidConfig, c.API.BaseURL)
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive", ErrInvalidConfig)
	}
	if c.Dashboard.RefreshInterval <= 0 {
		return fmt.Errorf("%w: dashboard.refresh_interval must be positive", ErrInvalidConfig)
	}
	if c.Dashboard.TriggerRefreshDelay <= 0 {
		return fmt.Errorf("%w: dashboard.trigger_refresh_delay must be positive", ErrInvalidConfig)
	}
	if c.Trigger.MinInterval < 0 {
		return fmt.Errorf("%w: trigger.min_interval cannot be negative", ErrInvalidConfig)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}

	return nil
}

// Location resolves the dashboard timezone. Empty and "Local" map to [time.Local].
func (c *Config) Location() (*time.Location, error) {
	switch c.Dashboard.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Dashboard.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: dashboard.timezone %q", ErrInvalidConfig, c.Dashboard.Timezone)
	}
	return loc, nil
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
