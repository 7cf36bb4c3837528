package sampler_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/irregpack/stripsep/evaluator"
	"github.com/irregpack/stripsep/geo"
	"github.com/irregpack/stripsep/layout"
	"github.com/irregpack/stripsep/sampler"
	"github.com/irregpack/stripsep/tracker"
)

func squareItem() *geo.Item {
	poly := orb.Polygon{{{0, 0}, {2, 0}, {2, 2}, {0, 2}}}
	sur := geo.Surrogate{Poles: []geo.Pole{{Center: orb.Point{1, 1}, Radius: 0.9}}}
	return geo.NewItem("sq", poly, sur, nil, 1)
}

func TestSampleFindsValidPlacementInEmptyBin(t *testing.T) {
	l := layout.NewSimpleLayout(100, 50)
	item := squareItem()
	p := l.Place(item, geo.Transform{TX: -1000, TY: -1000}) // placeholder; Sample ignores p's own placement
	tr := tracker.New()
	tr.RegisterLayout(l)

	ev := evaluator.New(l, tr)
	cfg := sampler.DefaultConfig()
	cfg.Seed = 1
	rng := sampler.RNGFromSeed(cfg.Seed)

	_, e := sampler.Sample(ev, p, item, l.BinBound(), rng, cfg)
	require.Equal(t, evaluator.Valid, e.Kind)
}

func TestSampleDeterministicGivenSameSeed(t *testing.T) {
	newLayout := func() (*layout.SimpleLayout, *tracker.OverlapTracker, *geo.Item) {
		l := layout.NewSimpleLayout(100, 50)
		item := squareItem()
		l.Place(item, geo.Transform{TX: 10, TY: 10})
		tr := tracker.New()
		tr.RegisterLayout(l)
		return l, tr, item
	}

	cfg := sampler.DefaultConfig()
	l1, tr1, item1 := newLayout()
	p1 := l1.Place(item1, geo.Transform{TX: 0, TY: 0})
	tr1.MoveItem(l1, p1)
	ev1 := evaluator.New(l1, tr1)
	t1, e1 := sampler.Sample(ev1, p1, item1, l1.BinBound(), sampler.RNGFromSeed(123), cfg)

	l2, tr2, item2 := newLayout()
	p2 := l2.Place(item2, geo.Transform{TX: 0, TY: 0})
	tr2.MoveItem(l2, p2)
	ev2 := evaluator.New(l2, tr2)
	t2, e2 := sampler.Sample(ev2, p2, item2, l2.BinBound(), sampler.RNGFromSeed(123), cfg)

	require.Equal(t, t1, t2)
	require.Equal(t, e1, e2)
}
