package geo_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/irregpack/stripsep/geo"
)

func rawSquare() orb.Polygon {
	return orb.Polygon{{{0, 0}, {2, 0}, {2, 2}, {0, 2}}}
}

func TestNewItemRecentersOnCentroid(t *testing.T) {
	it := geo.NewItem("sq", rawSquare(), geo.Surrogate{}, nil, 1)
	b := it.Polygon[0].Bound()
	require.InDelta(t, -1, b.Min[0], 1e-9)
	require.InDelta(t, 1, b.Max[0], 1e-9)
	require.InDelta(t, 2, it.MinDim, 1e-9)
	require.InDelta(t, 4, it.HullArea, 1e-9)
	require.Equal(t, []float64{0}, it.Rotations)
	require.Equal(t, 1, it.Demand())
}

func TestNewItemRecentersSurrogate(t *testing.T) {
	sur := geo.Surrogate{
		Poles: []geo.Pole{{Center: orb.Point{1, 1}, Radius: 0.5}},
	}
	it := geo.NewItem("sq", rawSquare(), sur, []float64{0, 1.57}, 3)
	require.InDelta(t, 0, it.Surrogate.Poles[0].Center[0], 1e-9)
	require.InDelta(t, 0, it.Surrogate.Poles[0].Center[1], 1e-9)
	require.Len(t, it.Rotations, 2)
}

func TestNewShapeAppliesTransform(t *testing.T) {
	it := geo.NewItem("sq", rawSquare(), geo.Surrogate{}, nil, 1)
	s := geo.NewShape(it, geo.Transform{TX: 5, TY: 5})
	b := s.Outer().Bound()
	require.InDelta(t, 4, b.Min[0], 1e-9)
	require.InDelta(t, 6, b.Max[0], 1e-9)
}
