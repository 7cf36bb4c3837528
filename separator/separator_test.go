package separator_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/irregpack/stripsep/geo"
	"github.com/irregpack/stripsep/layout"
	"github.com/irregpack/stripsep/sampler"
	"github.com/irregpack/stripsep/separator"
	"github.com/irregpack/stripsep/terminator"
	"github.com/irregpack/stripsep/tracker"
)

func squareItem() *geo.Item {
	poly := orb.Polygon{{{0, 0}, {2, 0}, {2, 2}, {0, 2}}}
	sur := geo.Surrogate{Poles: []geo.Pole{{Center: orb.Point{1, 1}, Radius: 0.9}}}
	return geo.NewItem("sq", poly, sur, nil, 1)
}

func TestSeparateClearsInitialOverlap(t *testing.T) {
	l := layout.NewSimpleLayout(50, 20)
	item := squareItem()
	l.Place(item, geo.Transform{TX: 10, TY: 10})
	l.Place(item, geo.Transform{TX: 10.5, TY: 10}) // starts overlapping

	tr := tracker.New()
	tr.RegisterLayout(l)
	require.Greater(t, tr.TotalActualOverlap(), 0.0)

	cfg := separator.ExploreConfig()
	cfg.NWorkers = 1
	sep := separator.New(cfg)
	term := terminator.New()
	rng := sampler.RNGFromSeed(1)

	snap, err := sep.Separate(l, tr, term, rng)
	require.NoError(t, err)
	require.True(t, snap.Feasible)
	require.Equal(t, 0.0, snap.TotalWeightedOverlap)
}

func TestSeparateReturnsTerminatedWhenAlreadyStopped(t *testing.T) {
	l := layout.NewSimpleLayout(50, 20)
	item := squareItem()
	l.Place(item, geo.Transform{TX: 10, TY: 10})
	l.Place(item, geo.Transform{TX: 10.5, TY: 10})

	tr := tracker.New()
	tr.RegisterLayout(l)

	cfg := separator.ExploreConfig()
	sep := separator.New(cfg)
	term := terminator.New()
	term.Interrupt()
	rng := sampler.RNGFromSeed(1)

	_, err := sep.Separate(l, tr, term, rng)
	require.ErrorIs(t, err, separator.ErrTerminated)
}

func manyOverlappingItems() (*layout.SimpleLayout, *tracker.OverlapTracker) {
	l := layout.NewSimpleLayout(50, 20)
	item := squareItem()
	for i := 0; i < 6; i++ {
		l.Place(item, geo.Transform{TX: 10 + float64(i)*0.6, TY: 10})
	}
	tr := tracker.New()
	tr.RegisterLayout(l)
	return l, tr
}

func TestSeparateDeterministicAcrossMultipleWorkers(t *testing.T) {
	cfg := separator.ExploreConfig()
	cfg.NWorkers = 3

	run := func() separator.SolutionSnapshot {
		l, tr := manyOverlappingItems()
		sep := separator.New(cfg)
		term := terminator.New()
		rng := sampler.RNGFromSeed(7)
		snap, err := sep.Separate(l, tr, term, rng)
		require.NoError(t, err)
		return snap
	}

	first := run()
	second := run()

	require.Equal(t, first.Feasible, second.Feasible)
	require.Equal(t, len(first.Transforms), len(second.Transforms))
	for p, t1 := range first.Transforms {
		t2, ok := second.Transforms[p]
		require.True(t, ok)
		require.Equal(t, t1, t2)
	}
}

func TestSnapshotReflectsUsageRatio(t *testing.T) {
	l := layout.NewSimpleLayout(10, 10)
	item := squareItem()
	l.Place(item, geo.Transform{TX: 5, TY: 5})
	tr := tracker.New()
	tr.RegisterLayout(l)

	snap := separator.Snapshot(l, tr)
	require.InDelta(t, item.HullArea/100, snap.UsageRatio, 1e-9)
	require.True(t, snap.Feasible)
}
