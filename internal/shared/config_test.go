package shared

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "http://localhost:5000" {
			t.Errorf("expected api base URL http://localhost:5000, got %s", config.API.BaseURL)
		}
		if config.API.Timeout != 5*time.Second {
			t.Errorf("expected api timeout 5s, got %v", config.API.Timeout)
		}
		if config.Dashboard.RefreshInterval != 10*time.Second {
			t.Errorf("expected refresh interval 10s, got %v", config.Dashboard.RefreshInterval)
		}
		if config.Dashboard.TriggerRefreshDelay != time.Second {
			t.Errorf("expected trigger refresh delay 1s, got %v", config.Dashboard.TriggerRefreshDelay)
		}
		if config.Trigger.MinInterval != 0 {
			t.Errorf("expected trigger limit disabled by default, got %v", config.Trigger.MinInterval)
		}
		if config.Database.Path != "./importdash.db" {
			t.Errorf("expected database path ./importdash.db, got %s", config.Database.Path)
		}
		if config.Server.Port != 5000 {
			t.Errorf("expected server port 5000, got %d", config.Server.Port)
		}
		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate, got %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		testConfig := `[api]
base_url = "http://imports.internal:8080/"
timeout = "3s"

[dashboard]
refresh_interval = "30s"
timezone = "UTC"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.Timeout != 3*time.Second {
			t.Errorf("expected timeout 3s, got %v", config.API.Timeout)
		}
		if config.Dashboard.RefreshInterval != 30*time.Second {
			t.Errorf("expected refresh interval 30s, got %v", config.Dashboard.RefreshInterval)
		}
		if config.Dashboard.TriggerRefreshDelay != time.Second {
			t.Errorf("unset keys should keep defaults, got %v", config.Dashboard.TriggerRefreshDelay)
		}

		if err := config.Validate(); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if config.API.BaseURL != "http://imports.internal:8080" {
			t.Errorf("expected trailing slash trimmed, got %s", config.API.BaseURL)
		}
	})

	t.Run("LoadConfig YAML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		testConfig := `api:
  base_url: http://yaml.example:9000
  timeout: 7s
trigger:
  min_interval: 3s
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "http://yaml.example:9000" {
			t.Errorf("expected yaml base URL, got %s", config.API.BaseURL)
		}
		if config.API.Timeout != 7*time.Second {
			t.Errorf("expected timeout 7s, got %v", config.API.Timeout)
		}
		if config.Trigger.MinInterval != 3*time.Second {
			t.Errorf("expected min interval 3s, got %v", config.Trigger.MinInterval)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		config := DefaultConfig()
		config.ApplyEnv(func(key string) (string, bool) {
			if key == EnvAPIURL {
				return " http://from-env:5001 ", true
			}
			return "", false
		})

		if config.API.BaseURL != "http://from-env:5001" {
			t.Errorf("expected env override, got %s", config.API.BaseURL)
		}

		config.ApplyEnv(func(string) (string, bool) { return "", true })
		if config.API.BaseURL != "http://from-env:5001" {
			t.Errorf("blank env value should not override, got %s", config.API.BaseURL)
		}
	})

	t.Run("ApplyEnv Alias", func(t *testing.T) {
		env := map[string]string{EnvAPIURLAlias: "http://next-public:5000"}
		lookup := func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		}

		config := DefaultConfig()
		config.ApplyEnv(lookup)
		if config.API.BaseURL != "http://next-public:5000" {
			t.Errorf("expected alias override, got %s", config.API.BaseURL)
		}

		env[EnvAPIURL] = "http://importdash:5000"
		config = DefaultConfig()
		config.ApplyEnv(lookup)
		if config.API.BaseURL != "http://importdash:5000" {
			t.Errorf("expected %s to win over the alias, got %s", EnvAPIURL, config.API.BaseURL)
		}
	})

	t.Run("ResolveConfig", func(t *testing.T) {
		t.Setenv(EnvAPIURL, "https://imports.example.com")
		t.Setenv(EnvAPIURLAlias, "")

		config, err := ResolveConfig(filepath.Join(t.TempDir(), "absent.toml"))
		if err != nil {
			t.Fatalf("ResolveConfig() error = %v", err)
		}
		if config.API.BaseURL != "https://imports.example.com" {
			t.Errorf("expected env base URL, got %s", config.API.BaseURL)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tt := []struct {
			name   string
			mutate func(*Config)
		}{
			{name: "empty base URL", mutate: func(c *Config) { c.API.BaseURL = "" }},
			{name: "non-http base URL", mutate: func(c *Config) { c.API.BaseURL = "ftp://host" }},
			{name: "missing host", mutate: func(c *Config) { c.API.BaseURL = "http://" }},
			{name: "zero timeout", mutate: func(c *Config) { c.API.Timeout = 0 }},
			{name: "zero refresh interval", mutate: func(c *Config) { c.Dashboard.RefreshInterval = 0 }},
			{name: "negative refresh delay", mutate: func(c *Config) { c.Dashboard.TriggerRefreshDelay = -time.Second }},
			{name: "zero refresh delay", mutate: func(c *Config) { c.Dashboard.TriggerRefreshDelay = 0 }},
			{name: "negative trigger interval", mutate: func(c *Config) { c.Trigger.MinInterval = -time.Second }},
			{name: "unknown timezone", mutate: func(c *Config) { c.Dashboard.Timezone = "Mars/Olympus" }},
			{name: "unknown log level", mutate: func(c *Config) { c.Log.Level = "loud" }},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				config := DefaultConfig()
				tc.mutate(config)

				err := config.Validate()
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})

	t.Run("Location", func(t *testing.T) {
		config := DefaultConfig()
		loc, err := config.Location()
		if err != nil || loc != time.Local {
			t.Errorf("expected time.Local, got %v (%v)", loc, err)
		}

		config.Dashboard.Timezone = "UTC"
		loc, err = config.Location()
		if err != nil || loc.String() != "UTC" {
			t.Errorf("expected UTC, got %v (%v)", loc, err)
		}
	})
}

func TestConfigWatcher(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvAPIURLAlias, "")
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	if err := CreateConfigFile(configPath); err != nil {
		t.Fatalf("failed to create config: %v", err)
	}

	watcher, err := NewConfigWatcher(configPath, NewLogger(io.Discard))
	if err != nil {
		t.Fatalf("NewConfigWatcher() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 8)
	done := make(chan error, 1)
	go func() {
		done <- watcher.Run(ctx, func(c *Config) { reloaded <- c })
	}()

	updated := "[api]\nbase_url = \"http://reloaded:7000\"\n"
	if err := os.WriteFile(configPath, []byte(updated), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-reloaded:
			if c.API.BaseURL != "http://reloaded:7000" {
				// A truncating write can surface an intermediate event; wait for the final one.
				continue
			}
			cancel()
			if err := <-done; err != nil {
				t.Errorf("Run() error = %v", err)
			}
			return
		case <-deadline:
			t.Fatal("timed out waiting for config reload")
		}
	}
}
