// Package sampler implements the sampler (spec.md §4.4, component C4): a
// hybrid of bin-wide Monte-Carlo samples, focussed samples around known good
// placements, and a coordinate-descent refinement, plus BestSamples
// (component C8, best_samples.go).
package sampler

import "math/rand"

// defaultRNGSeed is the fixed "zero" seed used when callers pass seed==0,
// mirroring the teacher's tsp/rng.go policy: a deterministic default rather
// than a time-based one.
const defaultRNGSeed int64 = 1

// RNGFromSeed returns a deterministic *rand.Rand. seed==0 maps to
// defaultRNGSeed so that a caller's zero-value Config still produces
// reproducible runs.
func RNGFromSeed(seed int64) *rand.Rand {
	s := seed
	if s == 0 {
		s = defaultRNGSeed
	}
	return rand.New(rand.NewSource(s))
}

// DeriveSeed mixes a parent seed and a stream identifier via a SplitMix64
// avalanche step, giving well-distributed, independent-looking seeds for
// per-worker child RNGs (spec.md §5: "workers receive independent child
// RNGs seeded from it via a hash of worker index").
func DeriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// DeriveRNG creates an independent deterministic RNG stream from a base RNG
// and a stream identifier, consuming one value from base first to decorrelate
// repeated derivations with the same stream id.
func DeriveRNG(base *rand.Rand, stream uint64) *rand.Rand {
	var parent int64
	if base == nil {
		parent = defaultRNGSeed
	} else {
		parent = base.Int63()
	}
	return rand.New(rand.NewSource(DeriveSeed(parent, stream)))
}
