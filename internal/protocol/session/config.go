package session

import (
	"time"

	"github.com/danmuck/mapcctl/internal/protocol/frame"
)

// Config defines transport defaults for one connection.
type Config struct {
	ConnectTimeout time.Duration
	WriteTimeout   time.Duration
	ReadBufferSize int
	Limits         frame.Limits
}

// DefaultConfig returns the transport defaults used by the CLI.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout: 5 * time.Second,
		WriteTimeout:   5 * time.Second,
		ReadBufferSize: 16 * 1024,
		Limits:         frame.DefaultLimits(),
	}
}

// WithDefaults fills zero-valued fields from DefaultConfig. A zero
// timeout stays zero and means no deadline.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = d.ReadBufferSize
	}
	if c.Limits.MaxFrameBytes <= 0 {
		c.Limits = d.Limits
	}
	return c
}
