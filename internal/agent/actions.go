package agent

import (
	"context"
	"fmt"

	"github.com/danmuck/mapcctl/internal/observability"
	"github.com/danmuck/mapcctl/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Action names registered with the engine.
const (
	ActionDisconnect  = "disconnect"
	ActionStopProcess = "stopProcess"
	ActionSkip        = "skip"
)

// Skip answers the pending request-action with a skip. With nothing
// pending it only warns.
func (a *Agent) Skip(ctx context.Context) error {
	if !a.hasPending {
		a.warn(fmt.Errorf("%w: %s already did an action in this step", ErrNoPendingAction, a.cfg.Name))
		return nil
	}
	doc, err := protocol.EncodeAction(protocol.SkipAction(a.pending))
	if err != nil {
		return err
	}
	if err := a.send(doc); err != nil {
		return fmt.Errorf("agent %s: send skip: %w", a.cfg.Name, err)
	}
	observability.RecordAction(a.cfg.Name, protocol.ActionSkip)
	a.hasPending = false
	return nil
}

// Disconnect closes the transport. The loss cleanup runs once the event
// loop observes the closed connection.
func (a *Agent) Disconnect(ctx context.Context) error {
	log.Info().Str("agent", a.cfg.Name).Msg("disconnect requested")
	if a.conn == nil {
		return nil
	}
	return a.conn.Close()
}

// StopProcess shuts down every agent sharing the stop hook.
func (a *Agent) StopProcess(ctx context.Context) error {
	log.Info().Str("agent", a.cfg.Name).Msg("process stop requested")
	if a.stop != nil {
		a.stop()
	}
	return nil
}
