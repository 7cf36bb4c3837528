package sampler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irregpack/stripsep/sampler"
)

func TestRNGFromSeedDeterministic(t *testing.T) {
	a := sampler.RNGFromSeed(42)
	b := sampler.RNGFromSeed(42)
	require.Equal(t, a.Int63(), b.Int63())
}

func TestRNGFromSeedZeroUsesDefault(t *testing.T) {
	zero := sampler.RNGFromSeed(0)
	one := sampler.RNGFromSeed(1)
	require.Equal(t, zero.Int63(), one.Int63())
}

func TestDeriveSeedDiffersByStream(t *testing.T) {
	require.NotEqual(t, sampler.DeriveSeed(7, 0), sampler.DeriveSeed(7, 1))
}

func TestDeriveRNGIsDeterministicFromSameBase(t *testing.T) {
	base1 := sampler.RNGFromSeed(99)
	base2 := sampler.RNGFromSeed(99)

	child1 := sampler.DeriveRNG(base1, 3)
	child2 := sampler.DeriveRNG(base2, 3)
	require.Equal(t, child1.Int63(), child2.Int63())
}

func TestDeriveRNGDiffersByStreamID(t *testing.T) {
	base := sampler.RNGFromSeed(5)
	a := sampler.DeriveRNG(base, 0)
	b := sampler.DeriveRNG(base, 1)
	require.NotEqual(t, a.Int63(), b.Int63())
}
