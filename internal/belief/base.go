package belief

import (
	"sort"

	"github.com/google/mangle/ast"
	"github.com/google/mangle/factstore"
)

// Base is an in-memory belief base. Atoms live in a mangle fact store;
// annotations are kept alongside, keyed by the atom's text form.
// A Base is not safe for concurrent use.
type Base struct {
	store       factstore.FactStoreWithRemove
	annotations map[string][]ast.Atom
}

func NewBase() *Base {
	return &Base{
		store:       factstore.NewSimpleInMemoryStore(),
		annotations: make(map[string][]ast.Atom),
	}
}

// Add stores f and reports whether it was new. Adding an atom that is
// already held leaves the held annotations untouched.
func (b *Base) Add(f Fact) bool {
	if !b.store.Add(f.Atom) {
		return false
	}
	if len(f.Annotations) > 0 {
		b.annotations[f.Atom.String()] = append([]ast.Atom(nil), f.Annotations...)
	}
	return true
}

// Remove deletes f's atom and reports whether it was held.
func (b *Base) Remove(f Fact) bool {
	if !b.store.Remove(f.Atom) {
		return false
	}
	delete(b.annotations, f.Atom.String())
	return true
}

func (b *Base) Contains(f Fact) bool {
	return b.store.Contains(f.Atom)
}

// Group returns every fact held for sym, ordered by text form.
func (b *Base) Group(sym ast.PredicateSym) []Fact {
	var out []Fact
	_ = b.store.GetFacts(ast.NewQuery(sym), func(a ast.Atom) error {
		out = append(out, Fact{Atom: a, Annotations: b.annotations[a.String()]})
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].Atom.String() < out[j].Atom.String()
	})
	return out
}

// Lookup returns the facts held for functor with the given arity.
func (b *Base) Lookup(functor string, arity int) []Fact {
	return b.Group(ast.PredicateSym{Symbol: functor, Arity: arity})
}

func (b *Base) Len() int {
	return b.store.EstimateFactCount()
}
