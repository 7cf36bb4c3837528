package evaluator_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/irregpack/stripsep/evaluator"
	"github.com/irregpack/stripsep/geo"
	"github.com/irregpack/stripsep/layout"
	"github.com/irregpack/stripsep/tracker"
)

func squareItem() *geo.Item {
	poly := orb.Polygon{{{0, 0}, {2, 0}, {2, 2}, {0, 2}}}
	sur := geo.Surrogate{Poles: []geo.Pole{{Center: orb.Point{1, 1}, Radius: 0.9}}}
	return geo.NewItem("sq", poly, sur, nil, 1)
}

func TestEvalKindOrdering(t *testing.T) {
	valid := evaluator.SampleEval{Kind: evaluator.Valid}
	colliding := evaluator.SampleEval{Kind: evaluator.Colliding, Score: 100}
	invalid := evaluator.SampleEval{Kind: evaluator.Invalid}

	require.True(t, valid.Less(colliding))
	require.True(t, colliding.Less(invalid))
	require.False(t, invalid.Less(valid))
}

func TestEvalWithinKindOrdersByScore(t *testing.T) {
	lo := evaluator.SampleEval{Kind: evaluator.Colliding, Score: 1}
	hi := evaluator.SampleEval{Kind: evaluator.Colliding, Score: 2}
	require.True(t, lo.Less(hi))
}

func TestEvalValidWhenNoOtherItems(t *testing.T) {
	l := layout.NewSimpleLayout(100, 50)
	tr := tracker.New()
	item := squareItem()
	p := l.Place(item, geo.Transform{})
	tr.RegisterLayout(l)

	ev := evaluator.New(l, tr)
	e := ev.Eval(p, item, geo.Transform{TX: 10, TY: 10}, nil)
	require.Equal(t, evaluator.Valid, e.Kind)
}

func TestEvalCollidingWhenOverlapping(t *testing.T) {
	l := layout.NewSimpleLayout(100, 50)
	tr := tracker.New()
	item := squareItem()
	_ = l.Place(item, geo.Transform{})
	p2 := l.Place(item, geo.Transform{TX: 50, TY: 0})
	tr.RegisterLayout(l)

	ev := evaluator.New(l, tr)
	e := ev.Eval(p2, item, geo.Transform{TX: 0.1, TY: 0}, nil)
	require.Equal(t, evaluator.Colliding, e.Kind)
	require.Greater(t, e.Score, 0.0)
}

func TestInvocationsCounted(t *testing.T) {
	l := layout.NewSimpleLayout(100, 50)
	tr := tracker.New()
	item := squareItem()
	p := l.Place(item, geo.Transform{})
	tr.RegisterLayout(l)

	ev := evaluator.New(l, tr)
	ev.Eval(p, item, geo.Transform{TX: 1, TY: 1}, nil)
	ev.Eval(p, item, geo.Transform{TX: 2, TY: 2}, nil)
	require.Equal(t, 2, ev.Invocations())
}
