// Package optimizer implements the optimiser driver (spec.md §4.6, component
// C6): alternating explore (aggressive shrink) and compress (fine shrink)
// cycles around the separator, best-feasible bookkeeping, and the
// large-item LBF pre-placement heuristic.
package optimizer

import (
	"math/rand"
	"sort"
	"time"

	"github.com/irregpack/stripsep/evaluator"
	"github.com/irregpack/stripsep/geo"
	"github.com/irregpack/stripsep/layout"
	"github.com/irregpack/stripsep/sampler"
	"github.com/irregpack/stripsep/separator"
	"github.com/irregpack/stripsep/terminator"
	"github.com/irregpack/stripsep/tracker"
)

// Driver tuning constants (spec.md §4.6).
const (
	ExploreTimeRatio           = 0.8
	ExploreShrinkStep          = 0.001
	LargeAreaCHAreaCutoffRatio = 0.5
)

// CompressShrinkRange is (min, max) for the uniformly sampled per-attempt
// compress-phase shrink fraction.
var CompressShrinkRange = [2]float64{0.00001, 0.0005}

// Config bundles the explore- and compress-phase separator configurations.
type Config struct {
	ExploreCfg  separator.Config
	CompressCfg separator.Config
}

// DefaultConfig pairs separator.ExploreConfig with separator.CompressConfig.
func DefaultConfig() Config {
	return Config{ExploreCfg: separator.ExploreConfig(), CompressCfg: separator.CompressConfig()}
}

// Driver owns the item set, the fixed bin height, and the RNG/terminator the
// whole solve attempt shares.
type Driver struct {
	items     []*geo.Item
	binHeight float64
	cfg       Config
	rng       *rand.Rand
	term      *terminator.Terminator
}

// New returns a Driver over items (one entry per copy to place: Item.Demand
// copies are expanded by the caller, as instance.Decode does — spec.md §6
// leaves instance parsing external). seed drives every random draw via sampler.RNGFromSeed.
func New(items []*geo.Item, binHeight float64, cfg Config, seed int64, term *terminator.Terminator) *Driver {
	return &Driver{
		items:     items,
		binHeight: binHeight,
		cfg:       cfg,
		rng:       sampler.RNGFromSeed(seed),
		term:      term,
	}
}

// Solve runs the full explore-then-compress schedule against deadline and
// returns the best feasible snapshot found (spec.md §4.6). If no feasible
// layout was ever reached, the returned snapshot is the best-known
// (initial) layout and Feasible is false — the caller surfaces this as
// NoFeasibleLayout (spec.md §7).
func (d *Driver) Solve(deadline time.Time) separator.SolutionSnapshot {
	d.term.SetDeadline(deadline)

	start := time.Now()
	total := deadline.Sub(start)
	exploreEnd := start.Add(time.Duration(float64(total) * ExploreTimeRatio))

	initialWidth := d.initialWidth()
	l := layout.NewSimpleLayout(initialWidth, d.binHeight)
	tr := tracker.New()

	large, small := d.splitLargeItems(initialWidth * d.binHeight)
	d.placeLBF(l, tr, large)
	d.placeLBF(l, tr, small)
	tr.RegisterLayout(l)

	best := separator.Snapshot(l, tr)
	best.Feasible = tr.TotalActualOverlap() == 0
	bestWidth := l.BinWidth()

	exploreSep := separator.New(d.cfg.ExploreCfg)
	for time.Now().Before(exploreEnd) && !d.term.Stopped() {
		newWidth := l.BinWidth() * (1 - ExploreShrinkStep)
		l.SetBinWidth(newWidth)
		tr.Resync(l) // weights retained across explore attempts (spec.md §4.6)

		snap, err := exploreSep.Separate(l, tr, d.term, d.rng)
		if err == nil && snap.Feasible {
			best = snap
			bestWidth = newWidth
			continue
		}
		d.revert(l, tr, best, bestWidth)
	}

	compressSep := separator.New(d.cfg.CompressCfg)
	for !d.term.Stopped() {
		step := CompressShrinkRange[0] + d.rng.Float64()*(CompressShrinkRange[1]-CompressShrinkRange[0])
		newWidth := l.BinWidth() * (1 - step)
		l.SetBinWidth(newWidth)
		tr.RegisterLayout(l) // weights reset every compress attempt (spec.md §4.6)

		snap, err := compressSep.Separate(l, tr, d.term, d.rng)
		if err == nil && snap.Feasible {
			best = snap
			bestWidth = newWidth
			continue
		}
		d.revert(l, tr, best, bestWidth)
	}

	return best
}

// revert restores l to the last known best-feasible layout: every placed
// item's transform is reset from best.Transforms and the bin width is
// restored to bestWidth. The tracker is resynchronised (preserving whatever
// weights the failed attempt accumulated, mirroring the reference
// implementation's "weights carry the lesson of the failed attempt forward"
// behaviour for the explore phase; the compress phase immediately resets
// them again on its next RegisterLayout call).
func (d *Driver) revert(l layout.Layout, tr *tracker.OverlapTracker, best separator.SolutionSnapshot, bestWidth float64) {
	l.SetBinWidth(bestWidth)
	for _, p := range l.Keys() {
		if t, ok := best.Transforms[p]; ok {
			_ = l.Move(p, t)
		}
	}
	tr.Resync(l)
}

// initialWidth picks a generous starting strip width guaranteed to hold
// every item side by side without overlap: the sum of each item's
// characteristic diameter. Spec.md §1 describes the strip as starting at
// "infinite" width; a concrete, safely-large finite width is this driver's
// stand-in; instance-level configuration (spec.md §6) may override it via a
// wider Driver constructor in a full CLI integration.
func (d *Driver) initialWidth() float64 {
	var w float64
	for _, it := range d.items {
		w += it.Diameter
	}
	if w <= 0 {
		w = 1
	}
	return w
}

// splitLargeItems partitions d.items into those whose hull area exceeds
// LargeAreaCHAreaCutoffRatio of binArea (placed first) and the rest, each
// group sorted by descending hull area (spec.md §4.6).
func (d *Driver) splitLargeItems(binArea float64) (large, small []*geo.Item) {
	cutoff := LargeAreaCHAreaCutoffRatio * binArea
	for _, it := range d.items {
		if it.HullArea > cutoff {
			large = append(large, it)
		} else {
			small = append(small, it)
		}
	}
	sort.SliceStable(large, func(i, j int) bool { return large[i].HullArea > large[j].HullArea })
	sort.SliceStable(small, func(i, j int) bool { return small[i].HullArea > small[j].HullArea })
	return large, small
}

// placeLBF places each item in order using the sampler's LBFConfig against
// the evaluator reading the layout/tracker as they stand after each prior
// placement, approximating a left-bottom-fill heuristic within the
// overlap-tolerant sampling model this repo otherwise uses throughout
// (spec.md §4.5 "Initial construction").
func (d *Driver) placeLBF(l layout.Layout, tr *tracker.OverlapTracker, items []*geo.Item) {
	cfg := sampler.LBFConfig()
	for _, item := range items {
		p := l.Place(item, geo.Transform{})
		ev := evaluator.New(l, tr)
		bin := l.BinBound()
		best, _ := sampler.Sample(ev, p, item, bin, d.rng, cfg)
		_ = l.Move(p, best)
		_ = tr.MoveItem(l, p)
	}
}
