package stream

import "github.com/moffa90/go-posnet/protocol"

// DefaultMaxCapacity is the default reader buffer limit in bytes.
const DefaultMaxCapacity = 100 * 1024

// Config holds the reader and writer configuration.
type Config struct {
	// MaxCapacity is the number of buffered bytes past which the reader drops
	// the frame it is assembling
	MaxCapacity int

	// Logger is used for logging discards and frames (optional)
	Logger Logger

	// Codec parses received frames
	Codec protocol.Codec
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		MaxCapacity: DefaultMaxCapacity,
		Logger:      nopLogger{},
		Codec:       protocol.DefaultCodec,
	}
}

// Option is a functional option for configuring readers, writers and channels.
type Option func(*Config)

// WithMaxCapacity sets the reader buffer limit. Values below MinFrameSize are ignored.
//
// Example:
//
//	r := stream.NewReader(conn, stream.WithMaxCapacity(4096))
func WithMaxCapacity(n int) Option {
	return func(c *Config) {
		if n >= protocol.MinFrameSize {
			c.MaxCapacity = n
		}
	}
}

// WithLogger sets a logger.
//
// Example:
//
//	r := stream.NewReader(conn, stream.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithCodec sets the codec used to parse received frames.
func WithCodec(codec protocol.Codec) Option {
	return func(c *Config) {
		c.Codec = codec
	}
}

func newConfig(opts []Option) Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
