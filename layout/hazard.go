// Package layout owns the mutable placed-item positions and the
// collision-detection contract the separator core consumes opaquely
// (spec.md §3, §6). It defines the Layout and CDE interfaces plus a
// SimpleLayout reference implementation sufficient to exercise and test the
// core end to end; a production geometry engine (quadtree-indexed, exact
// no-fit-polygon aware, bin-hole/quality-zone capable) is explicitly out of
// scope for this repo per spec.md §1 and would satisfy the same interfaces.
package layout

import (
	"fmt"

	"github.com/irregpack/stripsep/pk"
)

// HazardKind tags the variant carried by a HazardEntity.
type HazardKind uint8

const (
	// HazardPlacedItem is a collision against another placed item.
	HazardPlacedItem HazardKind = iota
	// HazardBinExterior is a collision against the outside of the bin.
	HazardBinExterior
	// HazardBinHole is a collision against a hole in the bin. The separator
	// never produces these itself (spec.md Non-goals); they are handled as
	// hard obstacles when a Layout implementation reports them.
	HazardBinHole
	// HazardQualityZone is a collision against a quality zone constraint,
	// likewise a hard obstacle from the separator's point of view.
	HazardQualityZone
)

func (k HazardKind) String() string {
	switch k {
	case HazardPlacedItem:
		return "PlacedItem"
	case HazardBinExterior:
		return "BinExterior"
	case HazardBinHole:
		return "BinHole"
	case HazardQualityZone:
		return "QualityZone"
	default:
		return "Unknown"
	}
}

// HazardEntity is the tagged variant the CDE reports collisions against
// (spec.md §6): {PlacedItem(pk) | BinExterior | BinHole(i) | QualityZone(q,i)}.
// Index is the hole/zone index for HazardBinHole/HazardQualityZone and is
// unused for the other two kinds; Index2 additionally distinguishes
// QualityZone's (q, i) pair.
type HazardEntity struct {
	Kind   HazardKind
	PK     pk.PK
	Index  int
	Index2 int
}

// Item builds a HazardPlacedItem hazard.
func Item(p pk.PK) HazardEntity { return HazardEntity{Kind: HazardPlacedItem, PK: p} }

// BinExterior is the singleton bin-exterior hazard.
var BinExterior = HazardEntity{Kind: HazardBinExterior}

// Hard reports whether the hazard is one the separator treats as a hard
// obstacle (cannot be resolved by relocating the *other* item): bin holes
// and quality zones are opaque constraints the separator does not own.
func (h HazardEntity) Hard() bool {
	return h.Kind == HazardBinHole || h.Kind == HazardQualityZone
}

func (h HazardEntity) String() string {
	switch h.Kind {
	case HazardPlacedItem:
		return fmt.Sprintf("Hazard(item=%s)", h.PK)
	case HazardBinExterior:
		return "Hazard(bin-exterior)"
	case HazardBinHole:
		return fmt.Sprintf("Hazard(hole=%d)", h.Index)
	case HazardQualityZone:
		return fmt.Sprintf("Hazard(zone=%d,%d)", h.Index, h.Index2)
	default:
		return "Hazard(?)"
	}
}

// Detector accumulates hazards discovered across the two-stage collision
// query described in spec.md §4.3: a fast surrogate-only pass followed by a
// full-polygon pass that must not double-count hazards the surrogate pass
// already found. The "interleaved index counter" from §6 is Detector's
// insertion-order index, which lets the evaluator tell surrogate-only hits
// from hits newly discovered by the full-polygon query apart.
type Detector struct {
	order []HazardEntity
	index map[HazardEntity]int
}

// NewDetector returns an empty Detector.
func NewDetector() *Detector {
	return &Detector{index: make(map[HazardEntity]int)}
}

// Add records h if it is not already present and reports whether it was new.
func (d *Detector) Add(h HazardEntity) bool {
	if _, ok := d.index[h]; ok {
		return false
	}
	d.index[h] = len(d.order)
	d.order = append(d.order, h)
	return true
}

// Has reports whether h has already been recorded.
func (d *Detector) Has(h HazardEntity) bool {
	_, ok := d.index[h]
	return ok
}

// Len returns the number of distinct hazards recorded so far.
func (d *Detector) Len() int { return len(d.order) }

// Slice returns the recorded hazards in insertion order. The returned slice
// is owned by the caller; Detector keeps its own backing array.
func (d *Detector) Slice() []HazardEntity {
	out := make([]HazardEntity, len(d.order))
	copy(out, d.order)
	return out
}
