package geo_test

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/irregpack/stripsep/geo"
)

func unitSquare() orb.Ring {
	return orb.Ring{
		{0, 0}, {1, 0}, {1, 1}, {0, 1},
	}
}

func TestApplyPointTranslateOnly(t *testing.T) {
	p := geo.ApplyPoint(orb.Point{1, 2}, geo.Transform{TX: 10, TY: -5})
	require.InDelta(t, 11, p[0], 1e-9)
	require.InDelta(t, -3, p[1], 1e-9)
}

func TestApplyPointQuarterTurn(t *testing.T) {
	p := geo.ApplyPoint(orb.Point{1, 0}, geo.Transform{Rot: math.Pi / 2})
	require.InDelta(t, 0, p[0], 1e-9)
	require.InDelta(t, 1, p[1], 1e-9)
}

func TestPointInRing(t *testing.T) {
	r := unitSquare()
	require.True(t, geo.PointInRing(orb.Point{0.5, 0.5}, r))
	require.False(t, geo.PointInRing(orb.Point{2, 2}, r))
}

func TestDistPointToSegmentClampsToEndpoints(t *testing.T) {
	d := geo.DistPointToSegment(orb.Point{-1, 0}, orb.Point{0, 0}, orb.Point{1, 0})
	require.InDelta(t, 1, d, 1e-9)
}

func TestPenetrationDepthOutsideIsZero(t *testing.T) {
	r := unitSquare()
	depth := geo.PenetrationDepth(orb.Point{5, 5}, 0.1, r)
	require.Equal(t, 0.0, depth)
}

func TestPenetrationDepthInsideIsPositive(t *testing.T) {
	r := unitSquare()
	depth := geo.PenetrationDepth(orb.Point{0.5, 0.5}, 0.1, r)
	require.Greater(t, depth, 0.0)
}

func TestHullAreaOfSquareIsOne(t *testing.T) {
	require.InDelta(t, 1.0, geo.HullArea(unitSquare()), 1e-9)
}

func TestDiameterOfUnitSquareIsSqrt2(t *testing.T) {
	require.InDelta(t, math.Sqrt2, geo.Diameter(unitSquare()), 1e-9)
}

func TestSegmentsIntersect(t *testing.T) {
	require.True(t, geo.SegmentsIntersect(orb.Point{0, 0}, orb.Point{2, 2}, orb.Point{0, 2}, orb.Point{2, 0}))
	require.False(t, geo.SegmentsIntersect(orb.Point{0, 0}, orb.Point{1, 0}, orb.Point{0, 1}, orb.Point{1, 1}))
}

func TestRingsOverlapDisjoint(t *testing.T) {
	a := unitSquare()
	b := orb.Ring{{5, 5}, {6, 5}, {6, 6}, {5, 6}}
	require.False(t, geo.RingsOverlap(a, b))
}

func TestRingsOverlapCrossing(t *testing.T) {
	a := unitSquare()
	b := orb.Ring{{0.5, 0.5}, {1.5, 0.5}, {1.5, 1.5}, {0.5, 1.5}}
	require.True(t, geo.RingsOverlap(a, b))
}

func TestRingsOverlapContained(t *testing.T) {
	a := unitSquare()
	b := orb.Ring{{0.25, 0.25}, {0.75, 0.25}, {0.75, 0.75}, {0.25, 0.75}}
	require.True(t, geo.RingsOverlap(a, b))
}

func TestCentroidOfSquareIsCenter(t *testing.T) {
	c := geo.Centroid(unitSquare())
	require.InDelta(t, 0.5, c[0], 1e-9)
	require.InDelta(t, 0.5, c[1], 1e-9)
}

func TestRecenter(t *testing.T) {
	r := geo.Recenter(unitSquare(), orb.Point{0.5, 0.5})
	require.InDelta(t, -0.5, r[0][0], 1e-9)
	require.InDelta(t, -0.5, r[0][1], 1e-9)
}
