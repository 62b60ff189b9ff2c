package agent

import (
	"context"

	"github.com/danmuck/mapcctl/internal/belief"
	"github.com/google/mangle/ast"
)

// ActionFunc is a zero-argument action the engine may invoke. It runs to
// completion before the engine moves on.
type ActionFunc func(ctx context.Context) error

// Engine is the reasoning engine the agent feeds.
type Engine interface {
	// Beliefs returns the facts currently held for one functor/arity group.
	Beliefs(sym ast.PredicateSym) []belief.Fact
	Assert(f belief.Fact)
	Retract(f belief.Fact)
	// Schedule runs one decision cycle. Registered actions are only ever
	// invoked from within Schedule.
	Schedule(ctx context.Context) error
	RegisterAction(name string, fn ActionFunc)
}
