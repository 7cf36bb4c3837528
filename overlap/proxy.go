// Package overlap implements the overlap proxy (spec.md §4.1, component C1):
// two continuous, strictly-positive-on-overlap scalar measures that guide
// local search. Neither function returns a true overlap area; both are
// smooth surrogates whose gradient a coordinate-descent sampler can climb
// down.
package overlap

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/irregpack/stripsep/geo"
)

// ProxyEpsilonDiamRatio is OVERLAP_PROXY_EPSILON_DIAM_RATIO: the epsilon
// added to PolyOverlapProxy is this fraction of the larger of the two
// shapes' diameters.
const ProxyEpsilonDiamRatio = 0.01

// PolyOverlapProxy computes the overlap proxy between two shapes' surrogates
// (spec.md §4.1): for each pole of a's surrogate, its deepest penetration
// into b's outer ring, plus the symmetric term for b's poles into a, summed
// and weighted by pole radius, plus ε² for strict positivity, scaled by the
// geometric mean of the two shapes' convex-hull areas.
func PolyOverlapProxy(a, b *geo.Shape) float64 {
	sum := penetrationSum(a.Surrogate, b.Outer()) + penetrationSum(b.Surrogate, a.Outer())

	diam := a.Item.Diameter
	if b.Item.Diameter > diam {
		diam = b.Item.Diameter
	}
	eps := ProxyEpsilonDiamRatio * diam
	sum += eps * eps

	shapePenalty := math.Sqrt(a.Item.HullArea * b.Item.HullArea)
	return sum * shapePenalty
}

func penetrationSum(sur geo.Surrogate, into orb.Ring) float64 {
	var sum float64
	for _, p := range sur.Poles {
		depth := geo.PenetrationDepth(p.Center, p.Radius, into)
		sum += depth * p.Radius
	}
	return sum
}

// BinOverlapProxy computes the bin-exterior overlap proxy between a shape
// and the bin's bounding box (spec.md §4.1): if the shape's bbox intersects
// the bin's bbox, the area outside the bin plus a small relative floor;
// otherwise the shape's bbox area plus its distance from the bin's centroid.
// The result is scaled by the square root of the shape's convex-hull area
// and a factor of 10.
func BinOverlapProxy(s *geo.Shape, bin orb.Bound) float64 {
	bboxArea := boundArea(s.Bound)

	var base float64
	if s.Bound.Intersects(bin) {
		inter := intersection(s.Bound, bin)
		interArea := boundArea(inter)
		base = (bboxArea - interArea) + 0.001*bboxArea
	} else {
		base = bboxArea + centroidDistance(s.Bound, bin)
	}

	return base * math.Sqrt(s.Item.HullArea) * 10
}

func boundArea(b orb.Bound) float64 {
	w := b.Max[0] - b.Min[0]
	h := b.Max[1] - b.Min[1]
	if w < 0 || h < 0 {
		return 0
	}
	return w * h
}

func intersection(a, b orb.Bound) orb.Bound {
	minX := math.Max(a.Min[0], b.Min[0])
	minY := math.Max(a.Min[1], b.Min[1])
	maxX := math.Min(a.Max[0], b.Max[0])
	maxY := math.Min(a.Max[1], b.Max[1])
	return orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}}
}

func centroidDistance(a, b orb.Bound) float64 {
	ac, bc := a.Center(), b.Center()
	dx, dy := ac[0]-bc[0], ac[1]-bc[1]
	return math.Sqrt(dx*dx + dy*dy)
}
