package terminator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/irregpack/stripsep/terminator"
)

func TestFreshTerminatorNotStopped(t *testing.T) {
	term := terminator.New()
	require.False(t, term.Stopped())
}

func TestInterruptStops(t *testing.T) {
	term := terminator.New()
	term.Interrupt()
	require.True(t, term.Stopped())
}

func TestDeadlineInPastStops(t *testing.T) {
	term := terminator.WithDeadline(time.Now().Add(-time.Second))
	require.True(t, term.Stopped())
}

func TestDeadlineInFutureDoesNotStop(t *testing.T) {
	term := terminator.WithDeadline(time.Now().Add(time.Hour))
	require.False(t, term.Stopped())
	require.Greater(t, term.Remaining(), time.Duration(0))
}

func TestResetClearsBoth(t *testing.T) {
	term := terminator.WithDeadline(time.Now().Add(-time.Second))
	term.Interrupt()
	term.Reset()
	require.False(t, term.Stopped())
}

func TestSetDeadlineZeroClears(t *testing.T) {
	term := terminator.WithDeadline(time.Now().Add(-time.Second))
	term.SetDeadline(time.Time{})
	require.False(t, term.Stopped())
}
