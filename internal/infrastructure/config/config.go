package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
)

// ConfigFileEnv names the environment variable holding an optional config file path.
const ConfigFileEnv = "CONFIG_FILE"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Logging   LogConfig       `yaml:"logging" toml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit" toml:"rate_limit"`
	Storage   StorageConfig   `yaml:"storage" toml:"storage"`
	Features  FeatureConfig   `yaml:"features" toml:"features"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        string   `envconfig:"PORT" yaml:"port" toml:"port"`
	Host        string   `envconfig:"HOST" yaml:"host" toml:"host"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" yaml:"cors_origins" toml:"cors_origins"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" yaml:"level" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" yaml:"development" toml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" yaml:"rps" toml:"rps"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" yaml:"burst" toml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" yaml:"enabled" toml:"enabled"`
}

// StorageConfig locates the directories the commands operate on.
// Empty paths are discovered from the OS.
type StorageConfig struct {
	AppDataDir    string `envconfig:"APP_DATA_DIR" yaml:"app_data_dir" toml:"app_data_dir"`
	AppIdentifier string `envconfig:"APP_IDENTIFIER" yaml:"app_identifier" toml:"app_identifier"`
	DownloadsDir  string `envconfig:"DOWNLOADS_DIR" yaml:"downloads_dir" toml:"downloads_dir"`
}

// FeatureConfig toggles capabilities that need a desktop session.
type FeatureConfig struct {
	DialogEnabled bool `envconfig:"DIALOG_ENABLED" yaml:"dialog_enabled" toml:"dialog_enabled"`
	WatchEnabled  bool `envconfig:"WATCH_ENABLED" yaml:"watch_enabled" toml:"watch_enabled"`
}

// Load loads configuration from the file named by CONFIG_FILE (if set)
// and then from environment variables.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv(ConfigFileEnv))
}

// LoadFrom applies defaults, then the config file at path (skipped when
// empty), then environment variables.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "127.0.0.1",
			CORSOrigins: []string{
				"tauri://localhost",
				"http://tauri.localhost",
				"http://localhost:1420",
			},
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Storage: StorageConfig{
			AppIdentifier: "com.klin.app",
		},
		Features: FeatureConfig{
			DialogEnabled: true,
			WatchEnabled:  true,
		},
	}
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("invalid config: port is required")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("invalid config: rate limit rps and burst must be positive")
	}
	if c.Storage.AppIdentifier == "" || strings.ContainsAny(c.Storage.AppIdentifier, `/\`) {
		return fmt.Errorf("invalid config: app identifier %q", c.Storage.AppIdentifier)
	}
	return nil
}

// Addr returns host:port for the HTTP listener.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(cfg)
	default:
		return fmt.Errorf("unsupported config file format: %s", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}
