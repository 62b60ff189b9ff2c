package session

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danmuck/mapcctl/internal/protocol/frame"
	"github.com/rs/zerolog/log"
)

var (
	ErrAddressRequired  = errors.New("session: address required")
	ErrConnectionClosed = errors.New("session: connection closed")
)

// Conn is one live connection to the simulation server.
//
// Frames are delivered on Frames in arrival order over an unbuffered
// channel, so the reader never runs ahead of the consumer by more than one
// frame. The channel is closed when the connection is lost; Err then
// reports why.
type Conn struct {
	conn   net.Conn
	cfg    Config
	frames chan []byte
	done   chan struct{}

	closeOnce sync.Once
	closed    atomic.Bool
	err       error
}

// Dial connects to address and starts the connection's reader.
func Dial(ctx context.Context, address string, cfg Config) (*Conn, error) {
	if address == "" {
		return nil, ErrAddressRequired
	}
	cfg = cfg.WithDefaults()
	dialer := net.Dialer{Timeout: cfg.ConnectTimeout}
	nc, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}
	return NewConn(nc, cfg), nil
}

// NewConn wraps an established connection and starts its reader.
func NewConn(nc net.Conn, cfg Config) *Conn {
	c := &Conn{
		conn:   nc,
		cfg:    cfg.WithDefaults(),
		frames: make(chan []byte),
		done:   make(chan struct{}),
	}
	go c.readLoop()
	return c
}

func (c *Conn) Frames() <-chan []byte {
	return c.frames
}

// Err reports why the connection was lost. It is only meaningful after
// Frames has been closed; io.EOF means the peer closed cleanly.
func (c *Conn) Err() error {
	return c.err
}

func (c *Conn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// Send frames payload and writes it without waiting for any reply.
func (c *Conn) Send(payload []byte) error {
	if c.closed.Load() {
		return ErrConnectionClosed
	}
	b, err := frame.Encode(payload)
	if err != nil {
		return err
	}
	if c.cfg.WriteTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	}
	_, err = c.conn.Write(b)
	return err
}

// Close closes the socket. Frames already read but not yet consumed are
// discarded. Close is idempotent.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

func (c *Conn) readLoop() {
	defer close(c.frames)

	dec := frame.NewDecoder(c.cfg.Limits)
	buf := make([]byte, c.cfg.ReadBufferSize)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			frames, ferr := dec.Feed(buf[:n])
			for _, f := range frames {
				if !c.deliver(f) {
					c.err = ErrConnectionClosed
					return
				}
			}
			if ferr != nil {
				log.Error().Str("remote", c.RemoteAddr()).Int("buffered", dec.Buffered()).Err(ferr).Msg("session: dropping connection")
				c.err = ferr
				_ = c.Close()
				return
			}
		}
		if err != nil {
			if c.closed.Load() {
				err = ErrConnectionClosed
			}
			c.err = err
			return
		}
	}
}

func (c *Conn) deliver(f []byte) bool {
	if c.closed.Load() {
		return false
	}
	select {
	case c.frames <- f:
		return true
	case <-c.done:
		return false
	}
}
