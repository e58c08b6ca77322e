// Package config loads the server configuration from defaults, an optional
// config.yaml and GEOFORM_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Address sources.
const (
	SourceMemory   = "memory"
	SourcePostgres = "postgres"
)

// Config holds all server configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Address  AddressConfig  `mapstructure:"address"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Theme    ThemeConfig    `mapstructure:"theme"`
	Render   RenderConfig   `mapstructure:"render"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AddressConfig selects where address metadata comes from. Dataset is an
// optional YAML file replacing the embedded memory dataset.
type AddressConfig struct {
	Source  string `mapstructure:"source"`
	Dataset string `mapstructure:"dataset"`
}

type DatabaseConfig struct {
	DSN      string `mapstructure:"dsn"`
	MaxConns int32  `mapstructure:"max_conns"`
	Migrate  bool   `mapstructure:"migrate"`
}

// CacheConfig enables the valkey read-through cache when Addr is set.
type CacheConfig struct {
	Addr   string        `mapstructure:"addr"`
	TTL    time.Duration `mapstructure:"ttl"`
	Prefix string        `mapstructure:"prefix"`
}

type ThemeConfig struct {
	Name    string `mapstructure:"name"`
	Variant string `mapstructure:"variant"`
}

// RenderConfig points the HTML renderer at a directory of template overrides.
// Templates missing from the directory fall back to the embedded set.
type RenderConfig struct {
	TemplatesDir string `mapstructure:"templates_dir"`
}

// Option customises the loader.
type Option func(*viper.Viper)

// WithConfigPaths replaces the directories searched for config.yaml.
func WithConfigPaths(paths ...string) Option {
	return func(v *viper.Viper) {
		for _, path := range paths {
			v.AddConfigPath(path)
		}
	}
}

// WithConfigFile reads an explicit file instead of searching for config.yaml.
func WithConfigFile(path string) Option {
	return func(v *viper.Viper) {
		if strings.TrimSpace(path) != "" {
			v.SetConfigFile(path)
		}
	}
}

// Load reads configuration from file and environment variables. A missing
// config.yaml is not an error; a malformed one is.
func Load(options ...Option) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(options) == 0 {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}
	for _, opt := range options {
		if opt != nil {
			opt(v)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	// GEOFORM_DATABASE_DSN → database.dsn
	v.SetEnvPrefix("GEOFORM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("address.source", SourceMemory)
	v.SetDefault("address.dataset", "")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.migrate", false)
	v.SetDefault("cache.addr", "")
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("cache.prefix", "geoform:address:")
	v.SetDefault("theme.name", "")
	v.SetDefault("theme.variant", "")
	v.SetDefault("render.templates_dir", "")
}

func (c *Config) normalize() {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.Address.Source = strings.ToLower(strings.TrimSpace(c.Address.Source))
	c.Render.TemplatesDir = strings.TrimSpace(c.Render.TemplatesDir)
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, "server.addr is required")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be json or console, got %q", c.Log.Format))
	}
	switch c.Address.Source {
	case SourceMemory:
	case SourcePostgres:
		if strings.TrimSpace(c.Database.DSN) == "" {
			errs = append(errs, "database.dsn is required when address.source is postgres")
		}
	default:
		errs = append(errs, fmt.Sprintf("address.source must be memory or postgres, got %q", c.Address.Source))
	}
	if c.Database.MaxConns <= 0 {
		errs = append(errs, "database.max_conns must be positive")
	}
	if c.Cache.Addr != "" && c.Cache.TTL <= 0 {
		errs = append(errs, "cache.ttl must be positive when cache.addr is set")
	}
	if c.Theme.Variant != "" && c.Theme.Name == "" {
		errs = append(errs, "theme.variant requires theme.name")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
