package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/danmuck/mapcctl/internal/belief"
	"github.com/danmuck/mapcctl/internal/observability"
	"github.com/danmuck/mapcctl/internal/protocol"
)

// Dispatch routes one decoded message to its handler, then runs exactly
// one scheduling pass, whether or not the handler reported a warning.
func (a *Agent) Dispatch(ctx context.Context, msg protocol.Message) error {
	observability.RecordMessage(a.cfg.Name, msg.Type())

	var err error
	switch m := msg.(type) {
	case protocol.AuthResponse:
		a.handleAuthResponse(m)
	case protocol.SimStart:
		a.reconcileAll(simStartPercepts(m))
	case protocol.SimEnd:
		a.reconcileAll(simEndPercepts(m))
	case protocol.RequestAction:
		a.handleRequestAction(m)
	case protocol.Unknown:
		a.warn(fmt.Errorf("%w: %q", ErrUnknownMessageType, m.Kind))
	default:
		err = fmt.Errorf("%w: %T", ErrUnhandledMessage, msg)
		a.warn(err)
	}

	a.schedule(ctx)
	return err
}

func (a *Agent) handleAuthResponse(m protocol.AuthResponse) {
	if !m.OK() {
		a.warn(fmt.Errorf("%w: agent=%s result=%q", ErrAuthRejected, a.cfg.Name, m.Result))
		return
	}
	a.reconcile(belief.Percept("connected", belief.Str(a.cfg.Name)))
}

func (a *Agent) handleRequestAction(m protocol.RequestAction) {
	if a.hasPending {
		a.warn(fmt.Errorf("%w: agent=%s action_id=%d", ErrUnusedAction, a.cfg.Name, a.pending))
	}
	a.pending = m.ID
	a.hasPending = true
	a.reconcileAll(requestActionPercepts(m))
}

func (a *Agent) reconcileAll(facts []belief.Fact) {
	for _, f := range facts {
		a.reconcile(f)
	}
}

// reconcile brings observed's group in line with observed.
func (a *Agent) reconcile(observed belief.Fact) {
	d := belief.Reconcile(a.engine.Beliefs(observed.Group()), observed)
	for _, f := range d.Remove {
		a.engine.Retract(f)
		observability.RecordBeliefChange(a.cfg.Name, observability.BeliefRemoved)
	}
	for _, f := range d.Add {
		a.engine.Assert(f)
		observability.RecordBeliefChange(a.cfg.Name, observability.BeliefAdded)
	}
}

func simStartPercepts(m protocol.SimStart) []belief.Fact {
	return []belief.Fact{
		belief.Percept("id", belief.Str(m.ID)),
		belief.Percept("map", belief.Str(m.Map)),
		belief.Percept("seedCapital", belief.Int(m.SeedCapital)),
		belief.Percept("steps", belief.Int(m.Steps)),
		belief.Percept("team", belief.Str(m.Team)),
		belief.Percept("role",
			belief.Name(strings.ToLower(m.Role.Name)),
			belief.Int(m.Role.Speed),
			belief.Int(m.Role.Load),
			belief.Int(m.Role.Battery),
			belief.Names(m.Role.Tools),
		),
	}
}

func simEndPercepts(m protocol.SimEnd) []belief.Fact {
	return []belief.Fact{
		belief.Percept("ranking", belief.Int(m.Ranking)),
		belief.Percept("score", belief.Int(m.Score)),
	}
}

// The request-action deadline is only passed through as a belief; it is
// not enforced locally.
func requestActionPercepts(m protocol.RequestAction) []belief.Fact {
	return []belief.Fact{
		belief.Percept("timestamp", belief.Int(m.Timestamp)),
		belief.Percept("deadline", belief.Int(m.Deadline)),
		belief.Percept("step", belief.Int(m.Step)),
		belief.Percept("charge", belief.Int(m.Charge)),
		belief.Percept("load", belief.Int(m.Load)),
		belief.Percept("lat", belief.Float(m.Lat)),
		belief.Percept("lon", belief.Float(m.Lon)),
		belief.Percept("routeLength", belief.Int(m.RouteLength)),
		belief.Percept("money", belief.Int(m.Money)),
	}
}
