package agent

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/danmuck/mapcctl/internal/belief"
	"github.com/danmuck/mapcctl/internal/observability"
	"github.com/danmuck/mapcctl/internal/protocol"
	"github.com/danmuck/mapcctl/internal/protocol/session"
	"github.com/rs/zerolog/log"
)

const (
	DefaultHost = "localhost"
	DefaultPort = 12300
)

// Config identifies one agent and where its server lives.
type Config struct {
	Name     string
	Password string
	Address  string
	Session  session.Config
}

func DefaultAddress() string {
	return net.JoinHostPort(DefaultHost, strconv.Itoa(DefaultPort))
}

type Option func(*Agent)

// WithStop sets the process-wide shutdown hook invoked by stopProcess.
func WithStop(stop func()) Option {
	return func(a *Agent) { a.stop = stop }
}

// WithReporter receives every non-fatal warning after it is logged.
func WithReporter(fn func(error)) Option {
	return func(a *Agent) { a.reporter = fn }
}

// Agent is the connection state of one agent.
type Agent struct {
	cfg      Config
	engine   Engine
	stop     func()
	reporter func(error)

	conn       *session.Conn
	pending    int64
	hasPending bool
}

// New validates cfg and registers the agent's actions with eng.
func New(cfg Config, eng Engine, opts ...Option) (*Agent, error) {
	cfg.Name = strings.TrimSpace(cfg.Name)
	if cfg.Name == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(cfg.Address) == "" {
		cfg.Address = DefaultAddress()
	}
	cfg.Session = cfg.Session.WithDefaults()

	a := &Agent{cfg: cfg, engine: eng}
	for _, opt := range opts {
		opt(a)
	}
	eng.RegisterAction(ActionDisconnect, a.Disconnect)
	eng.RegisterAction(ActionStopProcess, a.StopProcess)
	eng.RegisterAction(ActionSkip, a.Skip)
	return a, nil
}

func (a *Agent) Name() string {
	return a.cfg.Name
}

// PendingAction returns the action id awaiting a reply, if any.
func (a *Agent) PendingAction() (int64, bool) {
	return a.pending, a.hasPending
}

// Run dials the server and serves the connection until it is lost or ctx
// is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	conn, err := session.Dial(ctx, a.cfg.Address, a.cfg.Session)
	if err != nil {
		return fmt.Errorf("agent %s: dial %s: %w", a.cfg.Name, a.cfg.Address, err)
	}
	log.Info().Str("agent", a.cfg.Name).Str("addr", a.cfg.Address).Msg("socket connected")
	return a.Serve(ctx, conn)
}

// Serve runs the event loop over an established connection. It returns
// nil once the connection is lost (after the loss cleanup) or ctx is
// cancelled (without it). Cancellation observed after a pass wins over a
// waiting frame or a concurrent loss. conn is closed on return.
func (a *Agent) Serve(ctx context.Context, conn *session.Conn) error {
	a.conn = conn
	defer func() {
		_ = conn.Close()
		for range conn.Frames() {
		}
	}()

	a.authenticate()

	for {
		// A pass may have cancelled ctx; stop before taking another frame.
		if ctx.Err() != nil {
			log.Info().Str("agent", a.cfg.Name).Msg("stopping")
			return nil
		}
		select {
		case <-ctx.Done():
			log.Info().Str("agent", a.cfg.Name).Msg("stopping")
			return nil
		case f, ok := <-conn.Frames():
			if !ok {
				a.lost(ctx, conn.Err())
				return nil
			}
			if err := a.handleFrame(ctx, f); err != nil {
				log.Error().Str("agent", a.cfg.Name).Err(err).Msg("closing connection")
				_ = conn.Close()
			}
		}
	}
}

func (a *Agent) authenticate() {
	doc, err := protocol.EncodeAuthRequest(protocol.AuthRequest{
		Username: a.cfg.Name,
		Password: a.cfg.Password,
	})
	if err == nil {
		err = a.send(doc)
	}
	if err != nil {
		log.Error().Str("agent", a.cfg.Name).Err(err).Msg("auth-request not sent")
	}
}

// handleFrame decodes and dispatches one frame. Malformed frames are
// dropped; any returned error is fatal for the connection.
func (a *Agent) handleFrame(ctx context.Context, f []byte) error {
	observability.RecordFrame(a.cfg.Name)
	log.Debug().Str("agent", a.cfg.Name).Msgf("<< %s", f)

	msg, err := protocol.Decode(f)
	if err != nil {
		if errors.Is(err, protocol.ErrMalformedMessage) {
			observability.RecordMalformedFrame(a.cfg.Name)
			a.warn(err)
			return nil
		}
		return err
	}
	if err := a.Dispatch(ctx, msg); err != nil {
		log.Error().Str("agent", a.cfg.Name).Err(err).Msg("dispatch failed")
	}
	return nil
}

func (a *Agent) lost(ctx context.Context, reason error) {
	log.Warn().Str("agent", a.cfg.Name).Err(reason).Msg("socket connection lost")
	a.engine.Retract(belief.Percept("connected", belief.Str(a.cfg.Name)))
	a.schedule(ctx)
}

func (a *Agent) send(doc []byte) error {
	if a.conn == nil {
		return session.ErrConnectionClosed
	}
	log.Debug().Str("agent", a.cfg.Name).Msgf(">> %s", doc)
	return a.conn.Send(doc)
}

func (a *Agent) schedule(ctx context.Context) {
	if err := a.engine.Schedule(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error().Str("agent", a.cfg.Name).Err(err).Msg("scheduling pass failed")
	}
}

func (a *Agent) warn(err error) {
	kind := warningKind(err)
	observability.RecordWarning(a.cfg.Name, kind)
	ev := log.Warn()
	if errors.Is(err, ErrAuthRejected) || errors.Is(err, protocol.ErrMalformedMessage) {
		ev = log.Error()
	}
	ev.Str("agent", a.cfg.Name).Str("kind", kind).Err(err).Msg("protocol warning")
	if a.reporter != nil {
		a.reporter(err)
	}
}
