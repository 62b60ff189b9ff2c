// Package engine is a small trigger/plan reasoning engine over a belief
// base. Belief changes queue events; Schedule drains them and runs the
// plans whose trigger and predicate match.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/danmuck/mapcctl/internal/agent"
	"github.com/danmuck/mapcctl/internal/belief"
	"github.com/google/mangle/ast"
	"github.com/rs/zerolog/log"
)

var ErrUnknownAction = errors.New("engine: unknown action")

type Trigger int

const (
	Addition Trigger = iota
	Removal
)

func (t Trigger) String() string {
	if t == Removal {
		return "-"
	}
	return "+"
}

// Event is one belief change awaiting the next scheduling pass.
type Event struct {
	Trigger Trigger
	Fact    belief.Fact
}

func (e Event) String() string {
	return e.Trigger.String() + e.Fact.String()
}

// Plan reacts to belief changes of one predicate.
type Plan struct {
	Trigger   Trigger
	Predicate string
	Body      func(ctx context.Context, e *Engine, ev Event) error
}

func (p Plan) applies(ev Event) bool {
	return p.Trigger == ev.Trigger && p.Predicate == ev.Fact.Functor()
}

// Engine satisfies agent.Engine. It is driven from one goroutine.
type Engine struct {
	beliefs *belief.Base
	plans   []Plan
	actions map[string]agent.ActionFunc
	queue   []Event
}

var _ agent.Engine = (*Engine)(nil)

func New(plans ...Plan) *Engine {
	return &Engine{
		beliefs: belief.NewBase(),
		plans:   plans,
		actions: make(map[string]agent.ActionFunc),
	}
}

func (e *Engine) Beliefs(sym ast.PredicateSym) []belief.Fact {
	return e.beliefs.Group(sym)
}

// Holds reports the facts held for functor/arity.
func (e *Engine) Holds(functor string, arity int) []belief.Fact {
	return e.beliefs.Lookup(functor, arity)
}

// Assert adds f and queues an addition event if f was new.
func (e *Engine) Assert(f belief.Fact) {
	if e.beliefs.Add(f) {
		e.queue = append(e.queue, Event{Trigger: Addition, Fact: f})
	}
}

// Retract removes f and queues a removal event if f was held.
func (e *Engine) Retract(f belief.Fact) {
	if e.beliefs.Remove(f) {
		e.queue = append(e.queue, Event{Trigger: Removal, Fact: f})
	}
}

func (e *Engine) RegisterAction(name string, fn agent.ActionFunc) {
	e.actions[name] = fn
}

// Act invokes a registered action by name.
func (e *Engine) Act(ctx context.Context, name string) error {
	fn, ok := e.actions[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	return fn(ctx)
}

// Pending reports how many events wait for the next pass.
func (e *Engine) Pending() int {
	return len(e.queue)
}

// Schedule drains the event queue in order. Events queued by plan bodies
// during the pass are handled in the same pass. Plan failures are joined
// and returned after the queue is empty.
func (e *Engine) Schedule(ctx context.Context) error {
	var errs []error
	for len(e.queue) > 0 {
		if err := ctx.Err(); err != nil {
			e.queue = nil
			return errors.Join(append(errs, err)...)
		}
		ev := e.queue[0]
		e.queue = e.queue[1:]
		for _, p := range e.plans {
			if !p.applies(ev) {
				continue
			}
			log.Debug().Str("event", ev.String()).Msg("plan selected")
			if err := p.Body(ctx, e, ev); err != nil {
				errs = append(errs, fmt.Errorf("plan %s%s: %w", p.Trigger, p.Predicate, err))
			}
		}
	}
	return errors.Join(errs...)
}

// SkipEachStep answers every new step percept with a skip.
func SkipEachStep() Plan {
	return Plan{
		Trigger:   Addition,
		Predicate: "step",
		Body: func(ctx context.Context, e *Engine, ev Event) error {
			return e.Act(ctx, agent.ActionSkip)
		},
	}
}
