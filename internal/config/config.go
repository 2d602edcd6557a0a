// Package config loads the pbi18n CLI configuration from TOML or YAML files
// and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/blenderbox/pbi18n"
)

// Environment variables read by ApplyEnv.
const (
	EnvURL           = "PB_I18N_URL"
	EnvAdminName     = "PB_I18N_ADMIN_NAME"
	EnvAdminPassword = "PB_I18N_ADMIN_PASSWORD"
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvConfig        = "PB_I18N_CONFIG"
)

// Config holds the complete CLI configuration
type Config struct {
	PocketBase PocketBaseConfig `toml:"pocketbase" yaml:"pocketbase"`
	Cache      CacheConfig      `toml:"cache" yaml:"cache"`
	Translate  TranslateConfig  `toml:"translate" yaml:"translate"`
	Log        LogConfig        `toml:"log" yaml:"log"`
}

// PocketBaseConfig holds the remote store settings
type PocketBaseConfig struct {
	URL             string   `toml:"url" yaml:"url"`
	AdminName       string   `toml:"admin_name" yaml:"admin_name"`
	AdminPassword   string   `toml:"admin_password" yaml:"admin_password"`
	AuthPath        string   `toml:"auth_path" yaml:"auth_path"`
	PageSize        int      `toml:"page_size" yaml:"page_size"`
	RefetchInterval Duration `toml:"refetch_interval" yaml:"refetch_interval"`
	Timeout         Duration `toml:"timeout" yaml:"timeout"`
}

// CacheConfig selects the translation cache backend
type CacheConfig struct {
	Type      string   `toml:"type" yaml:"type"` // "memory" or "redis"
	RedisURL  string   `toml:"redis_url" yaml:"redis_url"`
	TTL       Duration `toml:"ttl" yaml:"ttl"`
	KeyPrefix string   `toml:"key_prefix" yaml:"key_prefix"`
}

// TranslateConfig configures prefilling of missing values
type TranslateConfig struct {
	Enabled           bool    `toml:"enabled" yaml:"enabled"`
	Provider          string  `toml:"provider" yaml:"provider"` // "openai" or "mock"
	SourceLanguage    string  `toml:"source_language" yaml:"source_language"`
	Model             string  `toml:"model" yaml:"model"`
	APIKey            string  `toml:"api_key" yaml:"api_key"`
	BaseURL           string  `toml:"base_url" yaml:"base_url"`
	Temperature       float32 `toml:"temperature" yaml:"temperature"`
	AppContext        string  `toml:"app_context" yaml:"app_context"`
	RequestsPerMinute int     `toml:"requests_per_minute" yaml:"requests_per_minute"`
	MaxRetries        int     `toml:"max_retries" yaml:"max_retries"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`   // debug, info, warn, error
	Format string `toml:"format" yaml:"format"` // text or json
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration string
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a .toml, .yaml or .yml file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, err
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (use .toml, .yaml or .yml)", ext)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	return &cfg, nil
}

// LoadOrDefault loads path, or the file named by PB_I18N_CONFIG when path
// is empty, or returns the defaults when neither is set.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// ApplyEnv overrides file settings with environment variables. lookup is
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvURL); ok && v != "" {
		c.PocketBase.URL = v
	}
	if v, ok := lookup(EnvAdminName); ok && v != "" {
		c.PocketBase.AdminName = v
	}
	if v, ok := lookup(EnvAdminPassword); ok && v != "" {
		c.PocketBase.AdminPassword = v
	}
	if v, ok := lookup(EnvOpenAIKey); ok && v != "" && c.Translate.APIKey == "" {
		c.Translate.APIKey = v
	}
}

// Validate reports settings the CLI cannot work without.
func (c *Config) Validate() error {
	if c.PocketBase.URL == "" {
		return fmt.Errorf("pocketbase url is required (set it in the config file, with --url or %s)", EnvURL)
	}
	switch c.Cache.Type {
	case "memory":
	case "redis":
		if c.Cache.RedisURL == "" {
			return errors.New("cache.redis_url is required for the redis cache")
		}
	default:
		return fmt.Errorf("unknown cache type %q", c.Cache.Type)
	}
	if c.Translate.Enabled {
		switch c.Translate.Provider {
		case "openai":
			if c.Translate.APIKey == "" {
				return fmt.Errorf("translate.api_key or %s is required for the openai provider", EnvOpenAIKey)
			}
		case "mock":
		default:
			return fmt.Errorf("unknown translate provider %q", c.Translate.Provider)
		}
	}
	return nil
}

// BackendOptions converts the PocketBase section to backend options.
func (c *Config) BackendOptions() pbi18n.Options {
	return pbi18n.Options{
		PocketBaseURL:   c.PocketBase.URL,
		AdminName:       c.PocketBase.AdminName,
		AdminPassword:   c.PocketBase.AdminPassword,
		RefetchInterval: c.PocketBase.RefetchInterval.Duration,
	}
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.PocketBase.Timeout.Duration == 0 {
		c.PocketBase.Timeout.Duration = 30 * time.Second
	}

	if c.Cache.Type == "" {
		c.Cache.Type = "memory"
	}

	if c.Translate.Provider == "" {
		c.Translate.Provider = "openai"
	}
	if c.Translate.SourceLanguage == "" {
		c.Translate.SourceLanguage = "en"
	}
	if c.Translate.RequestsPerMinute == 0 {
		c.Translate.RequestsPerMinute = 60
	}
	if c.Translate.MaxRetries == 0 {
		c.Translate.MaxRetries = 3
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// expandEnvVars expands environment variables in secrets and URLs
func (c *Config) expandEnvVars() {
	c.PocketBase.URL = os.ExpandEnv(c.PocketBase.URL)
	c.PocketBase.AdminPassword = os.ExpandEnv(c.PocketBase.AdminPassword)
	c.Cache.RedisURL = os.ExpandEnv(c.Cache.RedisURL)
	c.Translate.APIKey = os.ExpandEnv(c.Translate.APIKey)
}
