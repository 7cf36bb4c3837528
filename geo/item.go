package geo

import "github.com/paulmach/orb"

// Item is an immutable polygonal shape plus a surrogate, as described in
// spec.md §3. Items outlive any single run: a solve attempt creates
// PlacedItems that reference an Item by pointer but never mutate it.
//
// Polygon and Surrogate are stored already re-centred on the item's own
// centroid (local origin), so that Transform.Rot always means "rotate about
// the item's own centre of mass" regardless of where the item started out.
type Item struct {
	ID         string
	Polygon    orb.Polygon
	Surrogate  Surrogate
	Diameter   float64
	MinDim     float64 // shorter side of the polygon's bounding box, local frame
	Rotations  []float64
	HullArea   float64
	demand     int
}

// NewItem builds an Item from a raw (not necessarily centred) polygon, a
// surrogate expressed in the same raw coordinates, the item's allowed
// rotation set (radians) and its demand count (how many copies the instance
// asks for). The polygon and surrogate are re-centred on the outer ring's
// centroid.
func NewItem(id string, rawPolygon orb.Polygon, rawSurrogate Surrogate, rotations []float64, demand int) *Item {
	outer := rawPolygon[0]
	c := Centroid(outer)

	centredPoly := make(orb.Polygon, len(rawPolygon))
	for i, r := range rawPolygon {
		centredPoly[i] = Recenter(r, c)
	}

	centredSurrogate := Surrogate{
		Poles: make([]Pole, len(rawSurrogate.Poles)),
		Piers: make([]Pier, len(rawSurrogate.Piers)),
	}
	for i, p := range rawSurrogate.Poles {
		centredSurrogate.Poles[i] = Pole{
			Center: orb.Point{p.Center[0] - c[0], p.Center[1] - c[1]},
			Radius: p.Radius,
		}
	}
	for i, pr := range rawSurrogate.Piers {
		centredSurrogate.Piers[i] = Pier{
			A: orb.Point{pr.A[0] - c[0], pr.A[1] - c[1]},
			B: orb.Point{pr.B[0] - c[0], pr.B[1] - c[1]},
		}
	}

	bound := centredPoly[0].Bound()
	w, h := bound.Max[0]-bound.Min[0], bound.Max[1]-bound.Min[1]
	minDim := w
	if h < minDim {
		minDim = h
	}

	rots := rotations
	if len(rots) == 0 {
		rots = []float64{0}
	}

	return &Item{
		ID:        id,
		Polygon:   centredPoly,
		Surrogate: centredSurrogate,
		Diameter:  Diameter(centredPoly[0]),
		MinDim:    minDim,
		Rotations: rots,
		HullArea:  HullArea(centredPoly[0]),
		demand:    demand,
	}
}

// Demand returns how many placed copies of this item the instance requested.
func (it *Item) Demand() int { return it.demand }

// Shape is an item together with a committed Transform and the
// pre-transformed geometry (polygon, surrogate, bounding box) cached for
// repeated geometry queries. Unlike PlacedItem (layout.go), Shape carries no
// notion of a PK; it is the pure geometric value a PlacedItem wraps.
type Shape struct {
	Item      *Item
	Transform Transform
	Polygon   orb.Polygon
	Surrogate Surrogate
	Bound     orb.Bound
}

// NewShape transforms item's cached geometry by t and caches the result.
func NewShape(item *Item, t Transform) *Shape {
	poly := ApplyPolygon(item.Polygon, t)
	return &Shape{
		Item:      item,
		Transform: t,
		Polygon:   poly,
		Surrogate: item.Surrogate.Transformed(t),
		Bound:     poly[0].Bound(),
	}
}

// Outer returns the shape's outer ring.
func (s *Shape) Outer() orb.Ring { return s.Polygon[0] }
