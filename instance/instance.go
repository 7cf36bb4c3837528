// Package instance parses the JSON input instance format described in
// spec.md §6: bin height plus a list of item polygons with allowed
// rotations and demand counts. Parsing itself is explicitly external to the
// core per spec.md §1, but a concrete decoder still has to live somewhere
// for the CLI to hand the core anything — this package is that boundary.
package instance

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/irregpack/stripsep/geo"
)

// ErrNoItems is returned when an instance file names zero items.
var ErrNoItems = errors.New("instance: no items")

// ErrZeroDemand is returned when an item's demand count is not positive.
var ErrZeroDemand = errors.New("instance: item demand must be >= 1")

// rawPoint, rawItem, rawFile mirror the on-disk JSON schema directly; they
// are translated into geo.Item values by Load, which is the only exported
// entry point.
type rawPoint [2]float64

type rawPole struct {
	Center rawPoint `json:"center"`
	Radius float64  `json:"radius"`
}

type rawPier struct {
	A rawPoint `json:"a"`
	B rawPoint `json:"b"`
}

type rawSurrogate struct {
	Poles []rawPole `json:"poles"`
	Piers []rawPier `json:"piers"`
}

type rawItem struct {
	ID        string       `json:"id"`
	Polygon   [][]rawPoint `json:"polygon"` // outer ring first, holes follow
	Surrogate rawSurrogate `json:"surrogate"`
	Rotations []float64    `json:"rotations"`
	Demand    int          `json:"demand"`
}

type rawFile struct {
	BinHeight float64   `json:"bin_height"`
	Items     []rawItem `json:"items"`
}

// Instance is the in-memory form the optimiser driver consumes: a fixed bin
// height and the distinct item shapes (each already demand-expanded into
// that many *geo.Item values sharing the same underlying geometry, since
// geo.Item carries no mutable per-copy state).
type Instance struct {
	BinHeight float64
	Items     []*geo.Item
}

// Load reads and validates an instance file at path.
func Load(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("instance: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses an instance from r.
func Decode(r io.Reader) (*Instance, error) {
	var raw rawFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("instance: decode: %w", err)
	}
	if len(raw.Items) == 0 {
		return nil, ErrNoItems
	}

	var items []*geo.Item
	for _, ri := range raw.Items {
		if ri.Demand < 1 {
			return nil, fmt.Errorf("instance: item %q: %w", ri.ID, ErrZeroDemand)
		}
		poly, err := toPolygon(ri.Polygon)
		if err != nil {
			return nil, fmt.Errorf("instance: item %q: %w", ri.ID, err)
		}
		sur := toSurrogate(ri.Surrogate)
		id := ri.ID
		if id == "" {
			// Input omitted an id; mint a random unique one so downstream
			// rendering/logging still has something unique to key on.
			id = uuid.NewString()
		}
		item := geo.NewItem(id, poly, sur, ri.Rotations, ri.Demand)
		for n := 0; n < ri.Demand; n++ {
			items = append(items, item)
		}
	}

	return &Instance{BinHeight: raw.BinHeight, Items: items}, nil
}

func toPolygon(rings [][]rawPoint) (orb.Polygon, error) {
	if len(rings) == 0 {
		return nil, errors.New("polygon has no outer ring")
	}
	poly := make(orb.Polygon, len(rings))
	for i, ring := range rings {
		if len(ring) < 3 {
			return nil, fmt.Errorf("ring %d has fewer than 3 points", i)
		}
		r := make(orb.Ring, len(ring))
		for j, p := range ring {
			r[j] = orb.Point{p[0], p[1]}
		}
		poly[i] = r
	}
	return poly, nil
}

func toSurrogate(rs rawSurrogate) geo.Surrogate {
	sur := geo.Surrogate{
		Poles: make([]geo.Pole, len(rs.Poles)),
		Piers: make([]geo.Pier, len(rs.Piers)),
	}
	for i, p := range rs.Poles {
		sur.Poles[i] = geo.Pole{Center: orb.Point{p.Center[0], p.Center[1]}, Radius: p.Radius}
	}
	for i, pr := range rs.Piers {
		sur.Piers[i] = geo.Pier{A: orb.Point{pr.A[0], pr.A[1]}, B: orb.Point{pr.B[0], pr.B[1]}}
	}
	return sur
}
