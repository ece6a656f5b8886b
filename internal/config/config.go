// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvBotToken       = "BOT_TOKEN"
	EnvBotTokenLegacy = "TELEGRAM_BOT_TOKEN"
	EnvImgBBKey       = "IMGBB_API_KEY"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogFormat      = "LOG_FORMAT"

	DefaultImgBBEndpoint = "https://api.imgbb.com/1/upload"
)

// ImgBB accepts auto-delete expirations between 60 seconds and 180 days.
const (
	minExpiration = 60 * time.Second
	maxExpiration = 180 * 24 * time.Hour
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string `yaml:"token"`
	Workers  int    `yaml:"workers"`  // polling workers
	Language string `yaml:"language"` // locale file under i18n/locales
}

type ImgBBConfig struct {
	APIKey     string        `yaml:"api_key"`
	Endpoint   string        `yaml:"endpoint"`
	Expiration time.Duration `yaml:"expiration"` // 0 keeps images forever
	Timeout    time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port     int  `yaml:"port"`
	Disabled bool `yaml:"disabled"`
}

type Config struct {
	Bot   BotConfig   `yaml:"bot"`
	ImgBB ImgBBConfig `yaml:"imgbb"`
	Log   LogConfig   `yaml:"log"`
	Admin AdminConfig `yaml:"admin"`

	Runtime RuntimeConfig `yaml:"-"`
}

// ConfigError reports a missing or invalid setting. It is always fatal at startup.
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config: %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none)
// without overriding variables already present in the environment.
// Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := gotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return &ConfigError{Field: f, Reason: "cannot load env file", Err: err}
		}
	}
	return nil
}

// LoadConfig reads the optional YAML file at path, applies environment
// overrides and defaults, and validates the result.
// An empty path means environment-only configuration.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, &ConfigError{Field: "config", Reason: "read " + path, Err: err}
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, &ConfigError{Field: "config", Reason: "parse " + path, Err: err}
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := firstEnv(EnvBotToken, EnvBotTokenLegacy); v != "" {
		cfg.Bot.Token = v
	}
	if v := firstEnv(EnvImgBBKey); v != "" {
		cfg.ImgBB.APIKey = v
	}
	if v := firstEnv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := firstEnv(EnvLogFormat); v != "" {
		cfg.Log.Format = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Bot.Language == "" {
		cfg.Bot.Language = "en"
	}
	if cfg.ImgBB.Endpoint == "" {
		cfg.ImgBB.Endpoint = DefaultImgBBEndpoint
	}
	if cfg.ImgBB.Timeout <= 0 {
		cfg.ImgBB.Timeout = 30 * time.Second
	}
	if cfg.Admin.Port == 0 {
		cfg.Admin.Port = 9090
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}

// Validate checks required secrets and value ranges.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Bot.Token) == "" {
		return &ConfigError{Field: EnvBotToken, Reason: "is required"}
	}
	if strings.TrimSpace(c.ImgBB.APIKey) == "" {
		return &ConfigError{Field: EnvImgBBKey, Reason: "is required"}
	}
	if e := c.ImgBB.Expiration; e != 0 && (e < minExpiration || e > maxExpiration) {
		return &ConfigError{Field: "imgbb.expiration", Reason: fmt.Sprintf("must be between %s and %s; use a duration string such as 1h", minExpiration, maxExpiration)}
	}
	// yaml reads a bare integer as nanoseconds
	if c.ImgBB.Timeout < time.Second {
		return &ConfigError{Field: "imgbb.timeout", Reason: "must be at least 1s; use a duration string such as 30s"}
	}
	if c.Admin.Port <= 0 || c.Admin.Port > 65535 {
		return &ConfigError{Field: "admin.port", Reason: "out of range"}
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
