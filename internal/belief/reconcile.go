package belief

import (
	"github.com/google/mangle/unionfind"
)

// Matches reports whether a and b unify: same predicate symbol and arity,
// pairwise unifiable arguments.
func Matches(a, b Fact) bool {
	if a.Atom.Predicate != b.Atom.Predicate {
		return false
	}
	_, err := unionfind.UnifyTerms(a.Atom.Args, b.Atom.Args)
	return err == nil
}

// Delta is the change needed to bring a group in line with one
// observation. Remove is applied before Add.
type Delta struct {
	Add    []Fact
	Remove []Fact
}

func (d Delta) Empty() bool {
	return len(d.Add) == 0 && len(d.Remove) == 0
}

// Reconcile compares the facts currently held for observed's group with
// observed. Held facts that do not match are stale and go to Remove. A
// matching held fact is kept as is; observed is added only when nothing
// matched. held may contain facts of other groups; they are ignored.
func Reconcile(held []Fact, observed Fact) Delta {
	var d Delta
	found := false
	for _, f := range held {
		if f.Group() != observed.Group() {
			continue
		}
		if Matches(observed, f) {
			found = true
			continue
		}
		d.Remove = append(d.Remove, f)
	}
	if !found {
		d.Add = append(d.Add, observed)
	}
	return d
}
