// Package config loads fake-useragent settings from a YAML file, the
// environment and command line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/urfave/cli/v3"

	"github.com/Danny-Dasilva/fake-useragent/internal/useragent"
)

// Config holds all application configuration.
type Config struct {
	// Filter is the raw filter section, decoded by useragent.ParseOptions
	Filter map[string]any `koanf:"filter"`

	Server ServerConfig `koanf:"server" validate:"required"`
}

// ServerConfig holds HTTP service and runtime settings.
type ServerConfig struct {
	Port          string        `koanf:"port" env:"FAKEUA_PORT" validate:"required,numeric"`
	LogLevel      string        `koanf:"log_level" env:"FAKEUA_LOG_LEVEL" validate:"oneof=debug info warn error fatal"`
	Timeout       time.Duration `koanf:"timeout" env:"FAKEUA_TIMEOUT" validate:"gte=1s,lte=300s"`
	RateLimit     float64       `koanf:"rate_limit" env:"FAKEUA_RATE_LIMIT" validate:"gte=0"`
	RateBurst     int           `koanf:"rate_burst" env:"FAKEUA_RATE_BURST" validate:"gte=0"`
	SessionSticky bool          `koanf:"session_sticky" env:"FAKEUA_SESSION_STICKY"`
	MaxSessions   int           `koanf:"max_sessions" env:"FAKEUA_MAX_SESSIONS" validate:"gte=0"`
	MaxIdleTime   time.Duration `koanf:"max_idle_time" env:"FAKEUA_MAX_IDLE_TIME" validate:"gte=0"`
	Dataset       string        `koanf:"dataset" env:"FAKEUA_DATASET"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Filter: map[string]any{},
		Server: ServerConfig{
			Port:          "8080",
			LogLevel:      "info",
			Timeout:       30 * time.Second,
			RateBurst:     20,
			SessionSticky: true,
			MaxSessions:   10000,
			MaxIdleTime:   5 * time.Minute,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, a .env file and FAKEUA_* environment variables, in that order of
// precedence. A missing file is only an error when required is true.
func Load(path string, required bool) (*Config, error) {
	// The .env file is optional.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil || required {
			if err := loadFile(path, cfg); err != nil {
				return nil, err
			}
		}
	}

	if err := env.Parse(&cfg.Server); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("loading config from %s: %w", path, err)
	}

	if err := k.Unmarshal("server", &cfg.Server); err != nil {
		return fmt.Errorf("unmarshaling server config: %w", err)
	}

	if k.Exists("filter") {
		filter, ok := k.Get("filter").(map[string]any)
		if !ok {
			return fmt.Errorf("filter section must be a mapping, got %T", k.Get("filter"))
		}
		cfg.Filter = filter
	}
	return nil
}

// Validate checks the server section.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	return nil
}

// Options converts the filter section into engine options. overrides are
// applied on top of the file values with the same key semantics.
func (c *Config) Options(overrides map[string]any) (useragent.Options, error) {
	raw := make(map[string]any, len(c.Filter)+len(overrides))
	for k, v := range c.Filter {
		raw[k] = v
	}
	for k, v := range overrides {
		raw[k] = v
	}

	opts, err := useragent.ParseOptions(raw)
	if err != nil {
		return useragent.Options{}, err
	}
	if c.Server.Dataset != "" {
		opts.Loader = useragent.FileLoader{Path: c.Server.Dataset}
	}
	return opts, nil
}

// ErrNoConfig is returned by From when no configuration was attached.
var ErrNoConfig = errors.New("config not found in command metadata")

// From extracts the Config from the CLI command metadata.
func From(cmd *cli.Command) (*Config, error) {
	v, ok := cmd.Root().Metadata["config"]
	if !ok {
		return nil, ErrNoConfig
	}
	cfg, ok := v.(*Config)
	if !ok {
		return nil, fmt.Errorf("config has unexpected type %T", v)
	}
	return cfg, nil
}
