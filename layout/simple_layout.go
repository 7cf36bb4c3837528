package layout

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"

	"github.com/irregpack/stripsep/geo"
	"github.com/irregpack/stripsep/pk"
)

// SimpleLayout is a reference Layout+CDE implementation: a dense slot array
// for O(1) PK access and straightforward polygon queries for collision
// detection. It is adequate for the boundary scenarios in spec.md §8 and for
// unit/property tests, but is not the production geometry engine spec.md §1
// places out of scope (no spatial index accelerates the hot collision
// queries; every query is O(n) in the number of placed items). Quadtree()
// builds a throwaway github.com/paulmach/orb/quadtree index from the
// current pole positions for diagnostics, mirroring the external CDE
// contract in spec.md §6 ("quadtree(), haz_prox_grid() for diagnostics
// only") without making it load-bearing for correctness.
type SimpleLayout struct {
	width, height float64
	slots         []*PlacedItem
	generation    []uint32
	freeList      []uint32
}

// NewSimpleLayout returns an empty layout over a bin of the given height and
// initial width.
func NewSimpleLayout(width, height float64) *SimpleLayout {
	return &SimpleLayout{width: width, height: height}
}

func (l *SimpleLayout) slotOf(p pk.PK) (*PlacedItem, error) {
	idx := p.Index()
	if int(idx) >= len(l.slots) || l.slots[idx] == nil {
		return nil, ErrUnknownPK
	}
	if l.generation[idx] != p.Generation() {
		return nil, ErrStaleGeneration
	}
	return l.slots[idx], nil
}

// Get implements Layout.
func (l *SimpleLayout) Get(p pk.PK) (*PlacedItem, bool) {
	pi, err := l.slotOf(p)
	if err != nil {
		return nil, false
	}
	return pi, true
}

// Keys implements Layout.
func (l *SimpleLayout) Keys() []pk.PK {
	out := make([]pk.PK, 0, len(l.slots))
	for _, pi := range l.slots {
		if pi != nil {
			out = append(out, pi.PK)
		}
	}
	return out
}

// Place implements Layout.
func (l *SimpleLayout) Place(item *geo.Item, t geo.Transform) pk.PK {
	shape := geo.NewShape(item, t)

	var idx uint32
	if n := len(l.freeList); n > 0 {
		idx = l.freeList[n-1]
		l.freeList = l.freeList[:n-1]
	} else {
		idx = uint32(len(l.slots))
		l.slots = append(l.slots, nil)
		l.generation = append(l.generation, 0)
	}
	l.generation[idx]++ // generation 0 is reserved for pk.Nil; first use becomes 1
	newPK := pk.New(idx, l.generation[idx])
	l.slots[idx] = &PlacedItem{PK: newPK, Shape: shape}
	return newPK
}

// Move implements Layout.
func (l *SimpleLayout) Move(p pk.PK, t geo.Transform) error {
	pi, err := l.slotOf(p)
	if err != nil {
		return err
	}
	pi.Shape = geo.NewShape(pi.Shape.Item, t)
	return nil
}

// RemovePlaced implements Layout.
func (l *SimpleLayout) RemovePlaced(p pk.PK) error {
	idx := p.Index()
	if _, err := l.slotOf(p); err != nil {
		return err
	}
	l.slots[idx] = nil
	l.freeList = append(l.freeList, idx)
	return nil
}

// BinWidth implements Layout.
func (l *SimpleLayout) BinWidth() float64 { return l.width }

// BinHeight implements Layout.
func (l *SimpleLayout) BinHeight() float64 { return l.height }

// SetBinWidth implements Layout.
func (l *SimpleLayout) SetBinWidth(w float64) { l.width = w }

// BinBound implements Layout.
func (l *SimpleLayout) BinBound() orb.Bound {
	return orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{l.width, l.height}}
}

func ignoreSet(ignore []pk.PK) map[pk.PK]struct{} {
	s := make(map[pk.PK]struct{}, len(ignore))
	for _, p := range ignore {
		s[p] = struct{}{}
	}
	return s
}

// CollectPolyCollisions implements CDE.
func (l *SimpleLayout) CollectPolyCollisions(shape *geo.Shape, ignore []pk.PK) []HazardEntity {
	ign := ignoreSet(ignore)
	var out []HazardEntity

	if !l.binBoundContains(shape.Bound) {
		out = append(out, BinExterior)
	}

	outer := shape.Outer()
	for _, pi := range l.slots {
		if pi == nil {
			continue
		}
		if _, skip := ign[pi.PK]; skip {
			continue
		}
		if !shape.Bound.Intersects(pi.Shape.Bound) {
			continue
		}
		if geo.RingsOverlap(outer, pi.Shape.Outer()) {
			out = append(out, Item(pi.PK))
		}
	}
	return out
}

// CollectSurrogateCollisions implements CDE.
func (l *SimpleLayout) CollectSurrogateCollisions(sur geo.Surrogate, ignore []pk.PK, det *Detector) {
	ign := ignoreSet(ignore)

	surBound := surrogateBound(sur)
	if !l.binBoundContains(surBound) {
		det.Add(BinExterior)
	}

	for _, pi := range l.slots {
		if pi == nil {
			continue
		}
		if _, skip := ign[pi.PK]; skip {
			continue
		}
		if !surBound.Intersects(pi.Shape.Bound) {
			continue
		}
		other := pi.Shape.Outer()
		hit := false
		for _, pole := range sur.Poles {
			if geo.PenetrationDepth(pole.Center, pole.Radius, other) > 0 {
				hit = true
				break
			}
		}
		if !hit {
			for _, pier := range sur.Piers {
				if d := geo.DistPointToRing(pier.A, other); d == 0 {
					hit = true
					break
				}
				if geo.PointInRing(pier.A, other) || geo.PointInRing(pier.B, other) {
					hit = true
					break
				}
			}
		}
		if hit {
			det.Add(Item(pi.PK))
		}
	}
}

func (l *SimpleLayout) binBoundContains(b orb.Bound) bool {
	bin := l.BinBound()
	return b.Min[0] >= bin.Min[0] && b.Min[1] >= bin.Min[1] &&
		b.Max[0] <= bin.Max[0] && b.Max[1] <= bin.Max[1]
}

func surrogateBound(sur geo.Surrogate) orb.Bound {
	b := orb.Bound{Min: orb.Point{1, 1}, Max: orb.Point{-1, -1}}
	first := true
	extend := func(p orb.Point, r float64) {
		lo := orb.Point{p[0] - r, p[1] - r}
		hi := orb.Point{p[0] + r, p[1] + r}
		if first {
			b = orb.Bound{Min: lo, Max: hi}
			first = false
			return
		}
		b = b.Union(orb.Bound{Min: lo, Max: hi})
	}
	for _, p := range sur.Poles {
		extend(p.Center, p.Radius)
	}
	for _, pr := range sur.Piers {
		extend(pr.A, 0)
		extend(pr.B, 0)
	}
	return b
}

// poleRef adapts a pole center to orb.Pointer so it can be indexed by an
// orb/quadtree.Quadtree.
type poleRef struct {
	p  pk.PK
	at orb.Point
}

func (r poleRef) Point() orb.Point { return r.at }

// Quadtree builds a fresh quadtree over every currently placed item's pole
// centers. Diagnostics only, per spec.md §6; the separator never calls it on
// a hot path.
func (l *SimpleLayout) Quadtree() *quadtree.Quadtree {
	qt := quadtree.New(l.BinBound())
	for _, pi := range l.slots {
		if pi == nil {
			continue
		}
		for _, pole := range pi.Shape.Surrogate.Poles {
			_ = qt.Add(poleRef{p: pi.PK, at: pole.Center})
		}
	}
	return qt
}
