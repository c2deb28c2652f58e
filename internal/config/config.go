// Package config loads posnetctl settings from defaults, an optional file and
// POSNET_ environment variables, in increasing priority.
package config

import (
	"time"

	"github.com/moffa90/go-posnet/internal/logging"
)

// EnvPrefix is the prefix of environment overrides, e.g. POSNET_LOG_LEVEL.
const EnvPrefix = "POSNET"

// Config is the complete posnetctl configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Reader  ReaderConfig  `mapstructure:"reader"`
	Device  DeviceConfig  `mapstructure:"device"`
	Metrics MetricsConfig `mapstructure:"metrics"`

	configPath string
}

// LogConfig mirrors logging.Config.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ReaderConfig configures the stream reader.
type ReaderConfig struct {
	MaxCapacity int `mapstructure:"max_capacity"`
}

// DeviceConfig locates the cash register.
type DeviceConfig struct {
	// Address is host:port of the register; empty means use files or stdio
	Address     string        `mapstructure:"address"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Addr is the listen address of /metrics; empty disables the endpoint
	Addr string `mapstructure:"addr"`
}

// Logging returns the logging configuration.
func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:      c.Log.Level,
		Format:     c.Log.Format,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
		Compress:   c.Log.Compress,
	}
}

// Path returns the file the configuration was read from, or "".
func (c *Config) Path() string {
	return c.configPath
}
