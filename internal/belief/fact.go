// Package belief holds the fact model shared by the agent and its
// reasoning engine, and the reconciliation step that keeps a functor/arity
// group in line with the latest percepts.
package belief

import (
	"strings"

	"github.com/google/mangle/ast"
)

// Fact is one belief: a mangle atom plus annotations recording where it
// came from. Annotations do not take part in matching.
type Fact struct {
	Atom        ast.Atom
	Annotations []ast.Atom
}

// PerceptSource annotates facts observed from the server.
var PerceptSource = ast.NewAtom("source", Name("percept"))

func New(functor string, args ...ast.BaseTerm) Fact {
	return Fact{Atom: ast.NewAtom(functor, args...)}
}

// Percept builds a fact annotated with source(/percept).
func Percept(functor string, args ...ast.BaseTerm) Fact {
	f := New(functor, args...)
	f.Annotations = []ast.Atom{PerceptSource}
	return f
}

// Group is the functor/arity group the fact reconciles within.
func (f Fact) Group() ast.PredicateSym {
	return f.Atom.Predicate
}

func (f Fact) Functor() string {
	return f.Atom.Predicate.Symbol
}

func (f Fact) Args() []ast.BaseTerm {
	return f.Atom.Args
}

func (f Fact) String() string {
	if len(f.Annotations) == 0 {
		return f.Atom.String()
	}
	anns := make([]string, len(f.Annotations))
	for i, a := range f.Annotations {
		anns[i] = a.String()
	}
	return f.Atom.String() + "[" + strings.Join(anns, ", ") + "]"
}

// Str, Int and Float build constant arguments.
func Str(s string) ast.BaseTerm { return ast.String(s) }

func Int(n int64) ast.BaseTerm { return ast.Number(n) }

func Float(v float64) ast.BaseTerm { return ast.Float64(v) }

// Name builds a name constant (/drone). Symbols mangle rejects as names
// fall back to string constants.
func Name(symbol string) ast.Constant {
	if c, err := ast.Name("/" + strings.TrimPrefix(symbol, "/")); err == nil {
		return c
	}
	return ast.String(symbol)
}

// Names builds a list constant of name constants.
func Names(symbols []string) ast.BaseTerm {
	items := make([]ast.Constant, len(symbols))
	for i, s := range symbols {
		items[i] = Name(s)
	}
	return ast.List(items)
}
