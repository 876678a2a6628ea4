// Package config loads the recipe-decider configuration.
//
// Sources are applied in order: built-in defaults, an optional YAML file,
// RECIPES_* environment variables, then command-line flags (applied by the
// caller).
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/aretw0/recipe-decider/internal/logging"
	"github.com/aretw0/recipe-decider/pkg/domain"
	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config is the full client and server configuration.
type Config struct {
	BaseURL        string        `mapstructure:"base_url" env:"RECIPES_BASE_URL"`
	SessionID      string        `mapstructure:"session" env:"RECIPES_SESSION"`
	Node           string        `mapstructure:"node" env:"RECIPES_NODE"`
	Process        string        `mapstructure:"process" env:"RECIPES_PROCESS"`
	StateBackend   string        `mapstructure:"state_backend" env:"RECIPES_STATE_BACKEND"`
	StateDir       string        `mapstructure:"state_dir" env:"RECIPES_STATE_DIR"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" env:"RECIPES_REQUEST_TIMEOUT"`
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay" env:"RECIPES_RECONNECT_DELAY"`
	LogLevel       string        `mapstructure:"log_level" env:"RECIPES_LOG_LEVEL"`
	LogFormat      string        `mapstructure:"log_format" env:"RECIPES_LOG_FORMAT"`

	Redis  RedisConfig  `mapstructure:"redis" envPrefix:"RECIPES_REDIS_"`
	Server ServerConfig `mapstructure:"server" envPrefix:"RECIPES_SERVER_"`
}

// RedisConfig is shared by the UI-state store, the recipe repository and the locker.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr" env:"ADDR"`
	Password string        `mapstructure:"password" env:"PASSWORD"`
	DB       int           `mapstructure:"db" env:"DB"`
	Prefix   string        `mapstructure:"prefix" env:"PREFIX"`
	TTL      time.Duration `mapstructure:"ttl" env:"TTL"`
}

// ServerConfig configures the reference backend.
type ServerConfig struct {
	Port           int    `mapstructure:"port" env:"PORT"`
	Storage        string `mapstructure:"storage" env:"STORAGE"`
	RecipesFile    string `mapstructure:"recipes_file" env:"RECIPES_FILE"`
	MetricsEnabled bool   `mapstructure:"metrics" env:"METRICS"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:        "http://localhost:3000",
		SessionID:      domain.DefaultSessionID,
		StateBackend:   BackendFile,
		RequestTimeout: 10 * time.Second,
		ReconnectDelay: 2 * time.Second,
		LogLevel:       "info",
		LogFormat:      string(logging.FormatText),
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "recipe_decider:",
			TTL:    24 * time.Hour,
		},
		Server: ServerConfig{
			Port:        3000,
			Storage:     BackendFile,
			RecipesFile: "recipes.json",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Node == "" {
		host, err := os.Hostname()
		if err != nil || host == "" {
			host = "local"
		}
		cfg.Node = host
	}
	if cfg.Process == "" {
		cfg.Process = uuid.NewString()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// decodeFile reads YAML into a loose map and decodes it over cfg, so keys that
// are absent keep their defaults and unknown keys are reported.
func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	return nil
}

// Validate checks enumerations and URLs.
func (c *Config) Validate() error {
	if !validBackend(c.StateBackend) {
		return fmt.Errorf("invalid state_backend %q (memory, file or redis)", c.StateBackend)
	}
	if !validBackend(c.Server.Storage) {
		return fmt.Errorf("invalid server.storage %q (memory, file or redis)", c.Server.Storage)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q", c.BaseURL)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch logging.Format(c.LogFormat) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("invalid log_format %q (text or json)", c.LogFormat)
	}
	if c.SessionID == "" {
		return fmt.Errorf("session cannot be empty")
	}
	return nil
}

func validBackend(b string) bool {
	switch b {
	case BackendMemory, BackendFile, BackendRedis:
		return true
	}
	return false
}
