package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	appName        = "motocrm"
	envPrefix      = "MOTOCRM"
	configFileName = "config"
	configFileType = "yaml"
)

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Timezone string         `mapstructure:"timezone"`
	FollowUp FollowUpConfig `mapstructure:"followup"`
	Events   EventsConfig   `mapstructure:"events"`
	Log      LogConfig      `mapstructure:"log"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	Issuer    string        `mapstructure:"issuer"`
	JWKSURL   string        `mapstructure:"jwks_url"` // optional external identity provider
}

// RedisConfig enables the shared token revocation store when URL is set
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type FollowUpConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type EventsConfig struct {
	BroadcastBuffer int `mapstructure:"broadcast_buffer"`
	ClientBuffer    int `mapstructure:"client_buffer"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func setDefaults(v *viper.Viper) {
	dataDir := DataDir()
	v.SetDefault("database.path", filepath.Join(dataDir, appName+".db"))
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.issuer", appName)
	v.SetDefault("auth.jwks_url", "")
	v.SetDefault("redis.url", "")
	v.SetDefault("timezone", "Local")
	v.SetDefault("followup.poll_interval", time.Minute)
	v.SetDefault("events.broadcast_buffer", 100)
	v.SetDefault("events.client_buffer", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(dataDir, "logs", appName+".log"))
}

// Load reads the configuration. An explicit path must exist; otherwise
// config.yaml is looked up in the user's config directory and defaults are
// used when it is missing. MOTOCRM_* environment variables override both
// (MOTOCRM_SERVER_ADDR for server.addr).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if dir, err := Dir(); err == nil {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late at startup
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database.path must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	if c.FollowUp.PollInterval <= 0 {
		return errors.New("followup.poll_interval must be positive")
	}
	if c.Events.BroadcastBuffer <= 0 || c.Events.ClientBuffer <= 0 {
		return errors.New("events buffers must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// Location resolves the reporting timezone
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// LogLevel parses log.level ("debug", "info", "warn", "error")
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return level, nil
}

// Dir returns the directory holding config.yaml
func Dir() (string, error) {
	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", appName), nil
}

// DataDir returns the directory for the database and logs (~/.motocrm)
func DataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(homeDir, "."+appName)
}
