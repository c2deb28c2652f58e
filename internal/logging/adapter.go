package logging

import "github.com/rs/zerolog"

// Adapter exposes a zerolog logger through the key/value Logger interface of
// package stream.
type Adapter struct {
	log zerolog.Logger
}

// NewAdapter wraps l.
func NewAdapter(l zerolog.Logger) *Adapter {
	return &Adapter{log: l}
}

// Debug logs at debug level.
func (a *Adapter) Debug(msg string, keysAndValues ...interface{}) {
	a.log.Debug().Fields(keysAndValues).Msg(msg)
}

// Info logs at info level.
func (a *Adapter) Info(msg string, keysAndValues ...interface{}) {
	a.log.Info().Fields(keysAndValues).Msg(msg)
}

// Error logs at error level.
func (a *Adapter) Error(msg string, keysAndValues ...interface{}) {
	a.log.Error().Fields(keysAndValues).Msg(msg)
}
