// Package config loads application configuration from an optional YAML file
// and AGROVISION_ environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Backend names accepted by Store.Backend.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds all application configuration.
type Config struct {
	Store   StoreConfig   `mapstructure:"store"`
	Academy AcademyConfig `mapstructure:"academy"`
	Log     LogConfig     `mapstructure:"log"`
	HTTP    HTTPConfig    `mapstructure:"http"`
}

// StoreConfig selects and configures the progress persistence backend.
type StoreConfig struct {
	Backend   string `mapstructure:"backend"`
	DBPath    string `mapstructure:"db_path"` // empty = XDG default
	RedisURL  string `mapstructure:"redis_url"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// AcademyConfig holds catalog and session settings.
type AcademyConfig struct {
	Language        string        `mapstructure:"language"`
	TranslationsDir string        `mapstructure:"translations_dir"`
	AdvanceDelay    time.Duration `mapstructure:"advance_delay"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Mode string `mapstructure:"mode"`
	File string `mapstructure:"file"` // empty = stderr, or discarded under the TUI
}

// HTTPConfig holds API server settings.
type HTTPConfig struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// Load reads configuration. If file is empty, agrovision.yaml is searched in
// the working directory; a missing file is not an error.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("agrovision")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("AGROVISION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.backend", BackendSQLite)
	v.SetDefault("store.db_path", "")
	v.SetDefault("store.redis_url", "redis://localhost:6379/0")
	v.SetDefault("store.key_prefix", "agrovision:")
	v.SetDefault("academy.language", "en")
	v.SetDefault("academy.translations_dir", "")
	v.SetDefault("academy.advance_delay", "1500ms")
	v.SetDefault("log.mode", "dev")
	v.SetDefault("log.file", "")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.cors_origins", []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	})
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	switch c.Store.Backend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.Store.RedisURL == "" {
			errs = append(errs, errors.New("store.redis_url is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend must be one of sqlite, redis, memory; got %q", c.Store.Backend))
	}
	if c.Academy.AdvanceDelay <= 0 {
		errs = append(errs, fmt.Errorf("academy.advance_delay must be positive, got %s", c.Academy.AdvanceDelay))
	}
	if c.Academy.Language == "" {
		errs = append(errs, errors.New("academy.language is required"))
	}
	return errors.Join(errs...)
}
