package layout_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/irregpack/stripsep/geo"
	"github.com/irregpack/stripsep/layout"
	"github.com/irregpack/stripsep/pk"
)

func squareItem() *geo.Item {
	poly := orb.Polygon{{{0, 0}, {2, 0}, {2, 2}, {0, 2}}}
	sur := geo.Surrogate{Poles: []geo.Pole{{Center: orb.Point{1, 1}, Radius: 0.9}}}
	return geo.NewItem("sq", poly, sur, nil, 1)
}

func TestPlaceAndGet(t *testing.T) {
	l := layout.NewSimpleLayout(100, 50)
	item := squareItem()
	p := l.Place(item, geo.Transform{TX: 10, TY: 10})

	pi, ok := l.Get(p)
	require.True(t, ok)
	require.Equal(t, 10.0, pi.Transform().TX)
}

func TestStaleGenerationAfterRemove(t *testing.T) {
	l := layout.NewSimpleLayout(100, 50)
	item := squareItem()
	p := l.Place(item, geo.Transform{})
	require.NoError(t, l.RemovePlaced(p))

	_, ok := l.Get(p)
	require.False(t, ok)
}

func TestRecycledSlotGetsNewGeneration(t *testing.T) {
	l := layout.NewSimpleLayout(100, 50)
	item := squareItem()
	p1 := l.Place(item, geo.Transform{})
	require.NoError(t, l.RemovePlaced(p1))
	p2 := l.Place(item, geo.Transform{})

	require.Equal(t, p1.Index(), p2.Index())
	require.NotEqual(t, p1.Generation(), p2.Generation())
	_, ok := l.Get(p1)
	require.False(t, ok, "stale handle into a recycled slot must not resolve")
}

func TestCollectPolyCollisionsDetectsBinExterior(t *testing.T) {
	l := layout.NewSimpleLayout(10, 10)
	item := squareItem()
	shape := geo.NewShape(item, geo.Transform{TX: 100, TY: 100})

	hazards := l.CollectPolyCollisions(shape, nil)
	require.Len(t, hazards, 1)
	require.Equal(t, layout.HazardBinExterior, hazards[0].Kind)
	require.False(t, hazards[0].Hard())
}

func TestCollectPolyCollisionsDetectsOtherItem(t *testing.T) {
	l := layout.NewSimpleLayout(100, 50)
	item := squareItem()
	p1 := l.Place(item, geo.Transform{TX: 20, TY: 20})
	shape := geo.NewShape(item, geo.Transform{TX: 20.5, TY: 20})

	hazards := l.CollectPolyCollisions(shape, nil)
	require.Len(t, hazards, 1)
	require.Equal(t, layout.HazardPlacedItem, hazards[0].Kind)
	require.Equal(t, p1, hazards[0].PK)
}

func TestCollectPolyCollisionsIgnoresSelf(t *testing.T) {
	l := layout.NewSimpleLayout(100, 50)
	item := squareItem()
	p1 := l.Place(item, geo.Transform{TX: 20, TY: 20})
	pi, ok := l.Get(p1)
	require.True(t, ok)

	hazards := l.CollectPolyCollisions(pi.Shape, []pk.PK{p1})
	require.Empty(t, hazards)
}

func TestDetectorDeduplicates(t *testing.T) {
	d := layout.NewDetector()
	require.True(t, d.Add(layout.BinExterior))
	require.False(t, d.Add(layout.BinExterior))
	require.Equal(t, 1, d.Len())
}
