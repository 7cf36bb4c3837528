package overlap_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/irregpack/stripsep/geo"
	"github.com/irregpack/stripsep/overlap"
)

func squareItem() *geo.Item {
	poly := orb.Polygon{{{0, 0}, {2, 0}, {2, 2}, {0, 2}}}
	sur := geo.Surrogate{Poles: []geo.Pole{{Center: orb.Point{1, 1}, Radius: 0.9}}}
	return geo.NewItem("sq", poly, sur, nil, 1)
}

func TestPolyOverlapProxyPositiveWhenSeparated(t *testing.T) {
	item := squareItem()
	a := geo.NewShape(item, geo.Transform{})
	b := geo.NewShape(item, geo.Transform{TX: 100, TY: 100})
	require.Greater(t, overlap.PolyOverlapProxy(a, b), 0.0)
}

func TestPolyOverlapProxyLargerWhenCoincident(t *testing.T) {
	item := squareItem()
	a := geo.NewShape(item, geo.Transform{})
	far := geo.NewShape(item, geo.Transform{TX: 100, TY: 100})
	near := geo.NewShape(item, geo.Transform{TX: 0.1, TY: 0})

	require.Greater(t, overlap.PolyOverlapProxy(a, near), overlap.PolyOverlapProxy(a, far))
}

func TestBinOverlapProxySmallWellInside(t *testing.T) {
	item := squareItem()
	s := geo.NewShape(item, geo.Transform{})
	bin := orb.Bound{Min: orb.Point{-50, -50}, Max: orb.Point{50, 50}}
	// Still positive due to the 0.001*bboxArea floor, but should be small.
	require.Less(t, overlap.BinOverlapProxy(s, bin), 1.0)
}

func TestBinOverlapProxyLargeWhenOutside(t *testing.T) {
	item := squareItem()
	inside := geo.NewShape(item, geo.Transform{})
	outside := geo.NewShape(item, geo.Transform{TX: 1000, TY: 1000})
	bin := orb.Bound{Min: orb.Point{-50, -50}, Max: orb.Point{50, 50}}

	require.Greater(t, overlap.BinOverlapProxy(outside, bin), overlap.BinOverlapProxy(inside, bin))
}
