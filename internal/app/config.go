package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"certchat/internal/pki"
)

// EnvPrefix prefixes every environment override, e.g. CERTCHAT_LOG_LEVEL.
const EnvPrefix = "CERTCHAT"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds runtime wiring options for building the app.
type Config struct {
	Home     string         `mapstructure:"home"` // e.g. $HOME/.certchat
	Log      LogConfig      `mapstructure:"log"`
	PKI      PKIConfig      `mapstructure:"pki"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Messages MessagesConfig `mapstructure:"messages"`
}

// LogConfig configures the zerolog logger.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // console or json
	File       string `mapstructure:"file"`   // relative to Home; empty disables
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// PKIConfig configures the session certificate authority.
type PKIConfig struct {
	CAName       string        `mapstructure:"ca_name"`
	ValidityDays int           `mapstructure:"validity_days"`
	IssueRate    float64       `mapstructure:"issue_rate"` // certificates per second; 0 disables
	IssueBurst   int           `mapstructure:"issue_burst"`
	IssueTimeout time.Duration `mapstructure:"issue_timeout"`
}

// MessagesConfig selects how message bodies are encrypted. With
// ForwardSecrecy off, messages are sealed directly under the shared secret.
type MessagesConfig struct {
	ForwardSecrecy bool `mapstructure:"forward_secrecy"`
}

// MetricsConfig toggles the Prometheus recorder.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("home", defaultHome())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("pki.ca_name", pki.DefaultName)
	v.SetDefault("pki.validity_days", pki.DefaultValidityDays)
	v.SetDefault("pki.issue_rate", 5.0)
	v.SetDefault("pki.issue_burst", 10)
	v.SetDefault("pki.issue_timeout", "5s")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("messages.forward_secrecy", true)
}

func defaultHome() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".certchat")
	}
	return ".certchat"
}

// newViper creates a viper instance with defaults and environment binding.
func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads configuration with this precedence, highest first:
// overrides (keyed like "home" or "log.level", typically from flags),
// environment variables, configFile (or <home>/config.yaml when empty),
// built-in defaults. A missing default config file is not an error.
func LoadConfig(configFile string, overrides map[string]any) (*Config, error) {
	v := newViper()
	for key, val := range overrides {
		v.Set(key, val)
	}

	explicit := configFile != ""
	if !explicit {
		configFile = filepath.Join(v.GetString("home"), "config.yaml")
	}
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound), !explicit && errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decoderOption()); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// decoderOption lets durations be written as strings such as "5s".
func decoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Home) == "" {
		return fmt.Errorf("%w: home is empty", ErrInvalidConfig)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("%w: log.format must be console or json", ErrInvalidConfig)
	}
	if c.Log.MaxSizeMB < 1 {
		return fmt.Errorf("%w: log.max_size_mb must be positive", ErrInvalidConfig)
	}
	if c.PKI.ValidityDays < 1 || c.PKI.ValidityDays > pki.MaxValidityDays {
		return fmt.Errorf("%w: pki.validity_days must be in [1, %d]", ErrInvalidConfig, pki.MaxValidityDays)
	}
	if c.PKI.IssueRate < 0 {
		return fmt.Errorf("%w: pki.issue_rate must not be negative", ErrInvalidConfig)
	}
	if c.PKI.IssueRate > 0 && c.PKI.IssueBurst < 1 {
		return fmt.Errorf("%w: pki.issue_burst must be at least 1", ErrInvalidConfig)
	}
	if c.PKI.IssueTimeout < 0 {
		return fmt.Errorf("%w: pki.issue_timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}
