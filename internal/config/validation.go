package config

import (
	"fmt"
	"net"

	"github.com/moffa90/go-posnet/internal/logging"
	"github.com/moffa90/go-posnet/protocol"
)

// Validate checks value ranges and formats.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("log.format: must be %q or %q, got %q", logging.FormatConsole, logging.FormatJSON, c.Log.Format)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("log rotation settings cannot be negative")
	}

	if c.Reader.MaxCapacity < protocol.MinFrameSize {
		return fmt.Errorf("reader.max_capacity: must be at least %d, got %d", protocol.MinFrameSize, c.Reader.MaxCapacity)
	}

	if c.Device.Address != "" {
		if _, _, err := net.SplitHostPort(c.Device.Address); err != nil {
			return fmt.Errorf("device.address: %w", err)
		}
	}
	if c.Device.DialTimeout < 0 {
		return fmt.Errorf("device.dial_timeout cannot be negative")
	}

	if c.Metrics.Addr != "" {
		if _, _, err := net.SplitHostPort(c.Metrics.Addr); err != nil {
			return fmt.Errorf("metrics.addr: %w", err)
		}
	}
	return nil
}
