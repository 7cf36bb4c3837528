package optimizer_test

import (
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/irregpack/stripsep/geo"
	"github.com/irregpack/stripsep/optimizer"
	"github.com/irregpack/stripsep/terminator"
)

func squareItem(id string) *geo.Item {
	poly := orb.Polygon{{{0, 0}, {2, 0}, {2, 2}, {0, 2}}}
	sur := geo.Surrogate{Poles: []geo.Pole{{Center: orb.Point{1, 1}, Radius: 0.9}}}
	return geo.NewItem(id, poly, sur, nil, 1)
}

func TestSolveProducesAFeasibleLayoutForTrivialInstance(t *testing.T) {
	items := []*geo.Item{squareItem("a"), squareItem("b")}
	term := terminator.New()
	driver := optimizer.New(items, 20, optimizer.DefaultConfig(), 1, term)

	snap := driver.Solve(time.Now().Add(2 * time.Second))
	require.Len(t, snap.Transforms, 2)
	require.Greater(t, snap.BinWidth, 0.0)
}

func TestSolveRespectsDeadline(t *testing.T) {
	items := []*geo.Item{squareItem("a"), squareItem("b"), squareItem("c")}
	term := terminator.New()
	driver := optimizer.New(items, 20, optimizer.DefaultConfig(), 2, term)

	start := time.Now()
	driver.Solve(start.Add(300 * time.Millisecond))
	require.Less(t, time.Since(start), 5*time.Second)
}
