// Package config loads the YAML configuration shared by the CLI and the HTTP
// service. Missing values fall back to defaults and KAGZAT_* environment
// variables override the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
	Wizard  WizardConfig  `yaml:"wizard"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// RequireAuth puts the builder, entries and wizard APIs behind a bearer
	// token.
	RequireAuth bool `yaml:"require_auth"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"` // memory, sqlite
	DSN    string `yaml:"dsn"`
}

type AuthConfig struct {
	ProviderURL string `yaml:"provider_url"`
	APIKey      string `yaml:"api_key"`
	JWTSecret   string `yaml:"jwt_secret"`
	// Simulate swaps the hosted provider for the demo provider with the given
	// artificial latency.
	Simulate        bool          `yaml:"simulate"`
	SimulateLatency time.Duration `yaml:"simulate_latency"`
}

type WizardConfig struct {
	DraftDebounce time.Duration `yaml:"draft_debounce"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads path (when non-empty), applies defaults and then environment
// overrides.
func Load(path string) (Config, error) {
	cfg := Config{}
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyDefaults()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports configuration combinations that cannot work.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case "memory":
	case "sqlite":
		if c.Storage.DSN == "" {
			return errors.New("config: storage.dsn is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	if !c.Auth.Simulate && c.Auth.ProviderURL == "" {
		return errors.New("config: auth.provider_url is required unless auth.simulate is set")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Auth.ProviderURL == "" && c.Auth.APIKey == "" {
		c.Auth.Simulate = true
	}
	if c.Auth.SimulateLatency == 0 {
		c.Auth.SimulateLatency = 800 * time.Millisecond
	}
	if c.Wizard.DraftDebounce == 0 {
		c.Wizard.DraftDebounce = 500 * time.Millisecond
	}
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, target *string) {
		if value, ok := lookup(key); ok && value != "" {
			*target = value
		}
	}
	dur := func(key string, target *time.Duration) error {
		value, ok := lookup(key)
		if !ok || value == "" {
			return nil
		}
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*target = parsed
		return nil
	}

	str("KAGZAT_ADDR", &c.Server.Addr)
	str("KAGZAT_LOG_LEVEL", &c.Log.Level)
	str("KAGZAT_LOG_FORMAT", &c.Log.Format)
	str("KAGZAT_STORAGE_DRIVER", &c.Storage.Driver)
	str("KAGZAT_STORAGE_DSN", &c.Storage.DSN)
	str("KAGZAT_AUTH_PROVIDER_URL", &c.Auth.ProviderURL)
	str("KAGZAT_AUTH_API_KEY", &c.Auth.APIKey)
	str("KAGZAT_AUTH_JWT_SECRET", &c.Auth.JWTSecret)

	boolean := func(key string, target *bool) error {
		value, ok := lookup(key)
		if !ok || value == "" {
			return nil
		}
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*target = parsed
		return nil
	}
	if err := boolean("KAGZAT_AUTH_SIMULATE", &c.Auth.Simulate); err != nil {
		return err
	}
	if err := boolean("KAGZAT_REQUIRE_AUTH", &c.Server.RequireAuth); err != nil {
		return err
	}
	if err := dur("KAGZAT_READ_TIMEOUT", &c.Server.ReadTimeout); err != nil {
		return err
	}
	if err := dur("KAGZAT_WRITE_TIMEOUT", &c.Server.WriteTimeout); err != nil {
		return err
	}
	return dur("KAGZAT_DRAFT_DEBOUNCE", &c.Wizard.DraftDebounce)
}
