package belief

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danmuck/mapcctl/internal/testutil/testlog"
)

// apply mirrors what the agent does with a Delta against a Base.
func apply(b *Base, d Delta) {
	for _, f := range d.Remove {
		b.Remove(f)
	}
	for _, f := range d.Add {
		b.Add(f)
	}
}

func TestMatches(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name string
		a, b Fact
		want bool
	}{
		{"same int", Percept("step", Int(3)), Percept("step", Int(3)), true},
		{"different int", Percept("step", Int(3)), Percept("step", Int(4)), false},
		{"different functor", Percept("step", Int(3)), Percept("charge", Int(3)), false},
		{"different arity", Percept("pos", Int(1)), Percept("pos", Int(1), Int(2)), false},
		{"string vs name", Percept("team", Str("A")), Percept("team", Name("A")), false},
		{"annotations ignored", Percept("lat", Float(48.8)), New("lat", Float(48.8)), true},
		{"lists", Percept("role", Name("drone"), Names([]string{"t1", "t2"})), Percept("role", Name("drone"), Names([]string{"t1", "t2"})), true},
		{"list order", Percept("role", Names([]string{"t1", "t2"})), Percept("role", Names([]string{"t2", "t1"})), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Matches(tc.a, tc.b))
		})
	}
}

func TestReconcileAddsIntoEmptyGroup(t *testing.T) {
	testlog.Start(t)
	obs := Percept("step", Int(1))
	d := Reconcile(nil, obs)
	require.Len(t, d.Add, 1)
	require.Empty(t, d.Remove)
	require.True(t, Matches(d.Add[0], obs))
}

func TestReconcileIsIdempotent(t *testing.T) {
	testlog.Start(t)
	b := NewBase()
	obs := Percept("money", Int(5000))

	first := Reconcile(b.Group(obs.Group()), obs)
	require.Len(t, first.Add, 1)
	require.Empty(t, first.Remove)
	apply(b, first)

	second := Reconcile(b.Group(obs.Group()), obs)
	require.True(t, second.Empty(), "second reconcile produced %+v", second)
	require.Equal(t, 1, b.Len())
}

func TestReconcileEvictsStaleFact(t *testing.T) {
	testlog.Start(t)
	b := NewBase()
	f1 := Percept("charge", Int(250))
	f2 := Percept("charge", Int(240))
	apply(b, Reconcile(nil, f1))

	d := Reconcile(b.Group(f2.Group()), f2)
	require.Len(t, d.Remove, 1)
	require.Len(t, d.Add, 1)
	require.True(t, Matches(d.Remove[0], f1))
	require.True(t, Matches(d.Add[0], f2))

	apply(b, d)
	held := b.Group(f2.Group())
	require.Len(t, held, 1)
	require.True(t, Matches(held[0], f2))
}

func TestReconcileKeepsMatchingAndDropsRest(t *testing.T) {
	testlog.Start(t)
	held := []Fact{
		New("lat", Float(1)),
		Percept("lat", Float(2)),
		Percept("lat", Float(3)),
		Percept("lon", Float(2)),
	}
	d := Reconcile(held, Percept("lat", Float(2)))
	require.Empty(t, d.Add)
	require.Len(t, d.Remove, 2)
	require.Equal(t, held[0].String(), d.Remove[0].String())
	require.Equal(t, held[2].String(), d.Remove[1].String())
}

func TestReconcilePreservesHeldAnnotations(t *testing.T) {
	testlog.Start(t)
	b := NewBase()
	held := New("connected", Str("a1"))
	require.True(t, b.Add(held))

	d := Reconcile(b.Group(held.Group()), Percept("connected", Str("a1")))
	require.True(t, d.Empty())
	got := b.Group(held.Group())
	require.Len(t, got, 1)
	require.Empty(t, got[0].Annotations)
}
