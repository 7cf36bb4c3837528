// Package geo holds the minimal computational-geometry primitives the
// separator core needs: rigid transforms, surrogates (poles and piers), and
// the handful of polygon queries (point-in-ring, point-to-ring distance,
// convex hull area) the overlap proxy and the reference collision engine
// build on.
//
// This package is intentionally small. spec.md places the production
// computational-geometry library (quadtree collision detection, polygon
// simplification, surrogate generation, instance parsing) out of scope for
// the separator core; what lives here is only the reference-quality surface
// needed to make the core testable end to end, grounded on
// github.com/paulmach/orb for the shape types themselves (Point, Ring,
// Polygon, Bound) and on orb/planar and orb/convexhull for area and hull
// queries. Point-in-ring and segment-distance queries are hand-rolled: no
// corpus dependency exposes them with a simple enough surface to wire
// confidently, and they are a handful of lines each.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/convexhull"
	"github.com/paulmach/orb/planar"
)

// Transform is a decomposed rigid transform: rotation about the shape's own
// centroid (computed once, at Item construction, from the base polygon),
// then translation. Rotation is in radians.
type Transform struct {
	TX, TY float64
	Rot    float64
}

// IdentityTransform is the zero transform.
var IdentityTransform = Transform{}

// Translate returns a copy of t translated by (dx, dy).
func (t Transform) Translate(dx, dy float64) Transform {
	t.TX += dx
	t.TY += dy
	return t
}

// WithRotation returns a copy of t with its rotation replaced.
func (t Transform) WithRotation(rot float64) Transform {
	t.Rot = rot
	return t
}

// Pole is an inscribed disc of an item's surrogate.
type Pole struct {
	Center orb.Point
	Radius float64
}

// Pier is a line segment of an item's surrogate.
type Pier struct {
	A, B orb.Point
}

// Surrogate is a compact, conservative stand-in for a polygon: a small set
// of inscribed poles and piers, used for fast-reject collision checks before
// falling back to exact polygon queries.
type Surrogate struct {
	Poles []Pole
	Piers []Pier
}

// Transformed returns a copy of s with every pole/pier point transformed by t.
func (s Surrogate) Transformed(t Transform) Surrogate {
	out := Surrogate{
		Poles: make([]Pole, len(s.Poles)),
		Piers: make([]Pier, len(s.Piers)),
	}
	for i, p := range s.Poles {
		out.Poles[i] = Pole{Center: ApplyPoint(p.Center, t), Radius: p.Radius}
	}
	for i, pr := range s.Piers {
		out.Piers[i] = Pier{A: ApplyPoint(pr.A, t), B: ApplyPoint(pr.B, t)}
	}
	return out
}

// ApplyPoint rotates p about the origin by t.Rot then translates by
// (t.TX, t.TY). Callers are expected to have already re-centred their
// geometry on the item's local origin (the centroid at construction time),
// so that "rotate about the origin" means "rotate about the item's centroid".
func ApplyPoint(p orb.Point, t Transform) orb.Point {
	sin, cos := math.Sincos(t.Rot)
	x, y := p[0], p[1]
	return orb.Point{
		x*cos - y*sin + t.TX,
		x*sin + y*cos + t.TY,
	}
}

// ApplyRing transforms every vertex of r by t.
func ApplyRing(r orb.Ring, t Transform) orb.Ring {
	out := make(orb.Ring, len(r))
	for i, p := range r {
		out[i] = ApplyPoint(p, t)
	}
	return out
}

// ApplyPolygon transforms every ring of poly by t.
func ApplyPolygon(poly orb.Polygon, t Transform) orb.Polygon {
	out := make(orb.Polygon, len(poly))
	for i, r := range poly {
		out[i] = ApplyRing(r, t)
	}
	return out
}

// Centroid returns the area-weighted centroid of ring r (an item's outer ring),
// used at Item-construction time to re-centre surrogate and ring coordinates
// on the item's local origin.
func Centroid(r orb.Ring) orb.Point {
	c, area := planar.CentroidArea(r)
	if area == 0 {
		// Degenerate ring (zero area, e.g. collinear points): fall back to
		// the vertex average so callers still get a finite, stable point.
		var sx, sy float64
		for _, p := range r {
			sx += p[0]
			sy += p[1]
		}
		n := float64(len(r))
		if n == 0 {
			return orb.Point{}
		}
		return orb.Point{sx / n, sy / n}
	}
	return c
}

// Recenter translates every point of r by -c.
func Recenter(r orb.Ring, c orb.Point) orb.Ring {
	out := make(orb.Ring, len(r))
	for i, p := range r {
		out[i] = orb.Point{p[0] - c[0], p[1] - c[1]}
	}
	return out
}

// HullArea returns the area of the convex hull of r's vertices. Used by the
// overlap proxy's shape penalty (spec.md §4.1): the geometric mean of two
// shapes' convex-hull areas, not their true polygon areas.
func HullArea(r orb.Ring) float64 {
	if len(r) < 3 {
		return 0
	}
	hull := convexhull.Ring(orb.MultiPoint(r))
	return planar.Area(hull)
}

// Diameter returns the largest pairwise distance between r's vertices. A
// conservative but adequate stand-in for the true shape diameter: it is
// taken over every vertex, not just the convex hull, but callers only ever
// need it as an item-scale reference distance (e.g. for the overlap proxy's
// epsilon and the sampler's step sizes), not a metrically exact value.
func Diameter(r orb.Ring) float64 {
	var maxD float64
	for i := 0; i < len(r); i++ {
		for j := i + 1; j < len(r); j++ {
			if d := dist(r[i], r[j]); d > maxD {
				maxD = d
			}
		}
	}
	return maxD
}

func dist(a, b orb.Point) float64 {
	dx, dy := a[0]-b[0], a[1]-b[1]
	return math.Sqrt(dx*dx + dy*dy)
}

// PointInRing reports whether p lies inside r using the standard even-odd
// ray-casting rule. Ring need not be explicitly closed (first==last); both
// forms are handled.
func PointInRing(p orb.Point, r orb.Ring) bool {
	n := len(r)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := r[i], r[j]
		if (pi[1] > p[1]) != (pj[1] > p[1]) {
			xIntersect := (pj[0]-pi[0])*(p[1]-pi[1])/(pj[1]-pi[1]) + pi[0]
			if p[0] < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}

// DistPointToSegment returns the distance from p to the segment ab.
func DistPointToSegment(p, a, b orb.Point) float64 {
	abx, aby := b[0]-a[0], b[1]-a[1]
	apx, apy := p[0]-a[0], p[1]-a[1]
	abLenSq := abx*abx + aby*aby
	if abLenSq == 0 {
		return dist(p, a)
	}
	t := (apx*abx + apy*aby) / abLenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := orb.Point{a[0] + t*abx, a[1] + t*aby}
	return dist(p, closest)
}

// DistPointToRing returns the minimum distance from p to any edge of r.
func DistPointToRing(p orb.Point, r orb.Ring) float64 {
	n := len(r)
	if n == 0 {
		return math.Inf(1)
	}
	if n == 1 {
		return dist(p, r[0])
	}
	min := math.Inf(1)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		if d := DistPointToSegment(p, r[i], r[j]); d < min {
			min = d
		}
	}
	return min
}

// PenetrationDepth returns how deeply a disc of the given center/radius
// penetrates into ring r: 0 if it doesn't touch r at all, radius+boundary
// distance if the center is fully engulfed, radius-boundary distance if the
// center is outside but within reach of the boundary.
func PenetrationDepth(center orb.Point, radius float64, r orb.Ring) float64 {
	d := DistPointToRing(center, r)
	if PointInRing(center, r) {
		return radius + d
	}
	if d < radius {
		return radius - d
	}
	return 0
}

// RingBound returns the axis-aligned bounding box of r.
func RingBound(r orb.Ring) orb.Bound {
	return r.Bound()
}

// segOrientation returns the orientation of the ordered triple (p, q, r):
// 0 collinear, 1 clockwise, 2 counter-clockwise.
func segOrientation(p, q, r orb.Point) int {
	val := (q[1]-p[1])*(r[0]-q[0]) - (q[0]-p[0])*(r[1]-q[1])
	switch {
	case val == 0:
		return 0
	case val > 0:
		return 1
	default:
		return 2
	}
}

func onSegment(p, q, r orb.Point) bool {
	return q[0] <= math.Max(p[0], r[0]) && q[0] >= math.Min(p[0], r[0]) &&
		q[1] <= math.Max(p[1], r[1]) && q[1] >= math.Min(p[1], r[1])
}

// SegmentsIntersect reports whether segment p1p2 intersects segment q1q2,
// including touching endpoints and collinear overlap.
func SegmentsIntersect(p1, p2, q1, q2 orb.Point) bool {
	o1 := segOrientation(p1, p2, q1)
	o2 := segOrientation(p1, p2, q2)
	o3 := segOrientation(q1, q2, p1)
	o4 := segOrientation(q1, q2, p2)

	if o1 != o2 && o3 != o4 {
		return true
	}
	if o1 == 0 && onSegment(p1, q1, p2) {
		return true
	}
	if o2 == 0 && onSegment(p1, q2, p2) {
		return true
	}
	if o3 == 0 && onSegment(q1, p1, q2) {
		return true
	}
	if o4 == 0 && onSegment(q1, p2, q2) {
		return true
	}
	return false
}

// RingsOverlap reports whether simple rings a and b overlap: their
// boundaries cross, or one is entirely contained in the other. Exact for
// simple (non-self-intersecting) polygons without holes, which is all the
// separator core ever deals with (spec.md Non-goals exclude bins with holes
// from the separator's own geometry).
func RingsOverlap(a, b orb.Ring) bool {
	if !a.Bound().Intersects(b.Bound()) {
		return false
	}
	na, nb := len(a), len(b)
	if na < 3 || nb < 3 {
		return false
	}
	for i := 0; i < na; i++ {
		a1, a2 := a[i], a[(i+1)%na]
		for j := 0; j < nb; j++ {
			b1, b2 := b[j], b[(j+1)%nb]
			if SegmentsIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}
	if PointInRing(a[0], b) {
		return true
	}
	if PointInRing(b[0], a) {
		return true
	}
	return false
}
