package layout

import (
	"errors"

	"github.com/paulmach/orb"

	"github.com/irregpack/stripsep/geo"
	"github.com/irregpack/stripsep/pk"
)

// Sentinel errors for layout operations.
var (
	// ErrUnknownPK indicates an operation referenced a PK the layout has no
	// placed item for (never placed, or already removed).
	ErrUnknownPK = errors.New("layout: unknown pk")

	// ErrStaleGeneration indicates a PK's generation no longer matches the
	// slot's current generation: the caller is holding a handle to an item
	// that has since been removed and the slot recycled.
	ErrStaleGeneration = errors.New("layout: stale pk generation")
)

// PlacedItem is an Item together with a committed rigid transform and its
// pre-transformed, cached Shape (spec.md §3).
type PlacedItem struct {
	PK    pk.PK
	Shape *geo.Shape
}

// Item returns the underlying (immutable) item definition.
func (p *PlacedItem) Item() *geo.Item { return p.Shape.Item }

// Transform returns the placed item's current rigid transform.
func (p *PlacedItem) Transform() geo.Transform { return p.Shape.Transform }

// CDE is the external collision-detection engine the separator core
// consumes opaquely (spec.md §6). A production implementation would be
// quadtree-backed and aware of bin holes/quality zones; SimpleLayout below
// is a reference implementation adequate for tests and small instances.
type CDE interface {
	// CollectPolyCollisions returns every hazard whose exact geometry
	// overlaps shape, excluding any PK present in ignore.
	CollectPolyCollisions(shape *geo.Shape, ignore []pk.PK) []HazardEntity

	// CollectSurrogateCollisions queries shape's surrogate (poles/piers)
	// against the current layout and records every hazard found into det,
	// excluding any PK present in ignore. It is a fast under-approximation:
	// the surrogate lies inside its polygon, so every hazard it reports is
	// also an exact-polygon collision, but an exact collision the surrogate
	// does not reach is not reported here (CollectPolyCollisions finds it).
	CollectSurrogateCollisions(sur geo.Surrogate, ignore []pk.PK, det *Detector)
}

// Layout owns the mutable bin bounding box and the PK -> PlacedItem mapping,
// plus whatever collision-detection index a concrete implementation keeps
// consistent with it. The separator core mutates positions only through
// Move and RemovePlaced; it never reaches into a Layout's internals
// directly.
type Layout interface {
	CDE

	// Get returns the placed item for pk, or (nil, false) if unknown.
	Get(p pk.PK) (*PlacedItem, bool)

	// Keys returns every currently placed PK. Order is unspecified; callers
	// that need determinism sort it themselves.
	Keys() []pk.PK

	// Move commits a new transform for an existing placed item, updating
	// any internal spatial index. Returns ErrUnknownPK if p is not placed.
	Move(p pk.PK, t geo.Transform) error

	// Place inserts item at t and returns its newly allocated PK.
	Place(item *geo.Item, t geo.Transform) pk.PK

	// RemovePlaced removes p from the layout, recycling its slot (bumping
	// the slot's generation so stale PKs are detectably invalid).
	RemovePlaced(p pk.PK) error

	// BinWidth/BinHeight/SetBinWidth expose the strip's current dimensions;
	// the height is fixed for the lifetime of a Layout, only the width
	// shrinks as the optimiser driver tightens the strip (spec.md §4.6).
	BinWidth() float64
	BinHeight() float64
	SetBinWidth(w float64)

	// BinBound returns the current bin bounding box, [0,width]x[0,height].
	BinBound() orb.Bound
}
