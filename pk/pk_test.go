package pk_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irregpack/stripsep/pk"
)

func TestNewRoundTrips(t *testing.T) {
	k := pk.New(7, 3)
	require.Equal(t, uint32(7), k.Index())
	require.Equal(t, uint32(3), k.Generation())
	require.True(t, k.Valid())
}

func TestNilIsInvalid(t *testing.T) {
	require.False(t, pk.Nil.Valid())
	require.Equal(t, uint32(0), pk.Nil.Generation())
}

func TestSameIndexDifferentGenerationDiffers(t *testing.T) {
	a := pk.New(5, 1)
	b := pk.New(5, 2)
	require.NotEqual(t, a, b)
	require.Equal(t, a.Index(), b.Index())
	require.True(t, pk.Less(a, b))
}

func TestLessIsATotalOrder(t *testing.T) {
	a := pk.New(1, 1)
	b := pk.New(2, 1)
	require.True(t, pk.Less(a, b))
	require.False(t, pk.Less(b, a))
	require.False(t, pk.Less(a, a))
}

func TestString(t *testing.T) {
	k := pk.New(2, 1)
	require.Equal(t, "pk(2#1)", k.String())
}
