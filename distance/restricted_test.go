package distance_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/urbanform/superblock/core"
	"github.com/urbanform/superblock/distance"
)

// buildTwoCells returns a graph with two cells and a connecting backbone:
//
//	cell A: 1-2-3 (interior 2, boundary 1 and 3)
//	backbone: 1-4-5-3 (the long way around A), plus 4-6's boundary 4
//	cell B: 4-6 (interior 6)
//
// All edges have length 1 in both directions. The shortest unrestricted
// route between backbone nodes 1 and 3 cuts through cell A (1-2-3 = 2);
// the restricted route must take the backbone (1-4-5-3 = 3).
func buildTwoCells(t *testing.T) (*core.Graph, []distance.Cell, *core.View) {
	t.Helper()
	g := core.NewGraph(core.WithCRS("EPSG:32633"))
	for id, xy := range map[core.NodeID][2]float64{
		1: {0, 0}, 2: {1, 0}, 3: {2, 0}, 4: {0, 1}, 5: {2, 1}, 6: {0, 2},
	} {
		g.AddNode(id, xy[0], xy[1])
	}
	addBoth(t, g, 1, 2, 1) // cell A
	addBoth(t, g, 2, 3, 1) // cell A
	addBoth(t, g, 1, 4, 1) // backbone
	addBoth(t, g, 4, 5, 1) // backbone
	addBoth(t, g, 5, 3, 1) // backbone
	addBoth(t, g, 4, 6, 1) // cell B

	cellA := core.NewView(g)
	for _, uv := range [][2]core.NodeID{{1, 2}, {2, 1}, {2, 3}, {3, 2}} {
		require.NoError(t, cellA.AddEdge(core.EdgeKey{U: uv[0], V: uv[1]}))
	}
	cellB := core.NewView(g)
	for _, uv := range [][2]core.NodeID{{4, 6}, {6, 4}} {
		require.NoError(t, cellB.AddEdge(core.EdgeKey{U: uv[0], V: uv[1]}))
	}
	sparse := core.NewView(g)
	for _, uv := range [][2]core.NodeID{{1, 4}, {4, 1}, {4, 5}, {5, 4}, {5, 3}, {3, 5}} {
		require.NoError(t, sparse.AddEdge(core.EdgeKey{U: uv[0], V: uv[1]}))
	}

	cells := []distance.Cell{
		{Name: "A", Subgraph: cellA},
		{Name: "B", Subgraph: cellB},
	}
	return g, cells, sparse
}

func TestRestrictedMatrix(t *testing.T) {
	g, cells, sparse := buildTwoCells(t)
	order := distance.OrderFromGraph(g)

	distN, predN, err := distance.RestrictedMatrix(context.Background(), cells, sparse, core.AttrLength, order)
	require.NoError(t, err)
	require.Equal(t, order.Len(), distN.N)
	require.Equal(t, order.Len(), predN.N)

	distS, _, err := distance.PathMatrix(g, core.AttrLength, order)
	require.NoError(t, err)

	idx := func(id core.NodeID) int {
		i, ok := order.IndexOf(id)
		require.True(t, ok)
		return i
	}

	// Backbone pair 1-3: unrestricted cuts through cell A, restricted must
	// take the long way around.
	require.Equal(t, 2.0, distS.At(idx(1), idx(3)))
	require.Equal(t, 3.0, distN.At(idx(1), idx(3)))

	// Interior-to-interior across cells composites through the backbone:
	// 2 → 1 → 4 → 6.
	require.Equal(t, 3.0, distS.At(idx(2), idx(6)))
	require.Equal(t, 3.0, distN.At(idx(2), idx(6)))

	// Within a cell, travel is unrestricted.
	require.Equal(t, 1.0, distN.At(idx(1), idx(2)))
	require.Equal(t, 1.0, distN.At(idx(2), idx(3)))

	// Restriction never shortens a trip.
	for i := 0; i < order.Len(); i++ {
		for j := 0; j < order.Len(); j++ {
			n, s := distN.At(i, j), distS.At(i, j)
			if math.IsInf(n, 1) {
				continue
			}
			require.GreaterOrEqualf(t, n, s, "pair (%d,%d)", i, j)
		}
	}

	// Diagonal is exactly 0.
	for i := 0; i < order.Len(); i++ {
		require.Zero(t, distN.At(i, i))
	}

	// Composite predecessor: the entry for 2→6 must be the predecessor on
	// the destination-side segment, i.e. node 4.
	require.Equal(t, int32(idx(4)), predN.At(idx(2), idx(6)))
}

func TestRestrictedMatrix_WorkerVariants(t *testing.T) {
	g, cells, sparse := buildTwoCells(t)
	order := distance.OrderFromGraph(g)

	base, _, err := distance.RestrictedMatrix(context.Background(), cells, sparse, core.AttrLength, order)
	require.NoError(t, err)

	// Worker count and memory factor must not change the output.
	for _, opts := range [][]distance.Option{
		{distance.WithNumWorkers(1)},
		{distance.WithNumWorkers(8), distance.WithMaxMemFactor(0.5)},
		{distance.WithMaxMemFactor(0)},
	} {
		got, _, err := distance.RestrictedMatrix(context.Background(), cells, sparse, core.AttrLength, order, opts...)
		require.NoError(t, err)
		require.Equal(t, base.Data, got.Data)
	}
}

func TestRestrictedMatrix_DuplicateNames(t *testing.T) {
	_, cells, sparse := buildTwoCells(t)
	cells[1].Name = cells[0].Name
	_, _, err := distance.RestrictedMatrix(context.Background(), cells, sparse,
		core.AttrLength, distance.OrderFromGraph(sparse.Parent()))
	require.ErrorIs(t, err, distance.ErrDuplicateName)
}

func TestRestrictedMatrix_Overlap(t *testing.T) {
	g, cells, sparse := buildTwoCells(t)
	// Graft cell A's interior node into cell B.
	require.NoError(t, cells[1].Subgraph.AddNode(2))

	order := distance.OrderFromGraph(g)
	_, _, err := distance.RestrictedMatrix(context.Background(), cells, sparse, core.AttrLength, order)
	require.ErrorIs(t, err, distance.ErrCellOverlap)

	// The defensive check can be disabled, in which case the computation
	// proceeds.
	_, _, err = distance.RestrictedMatrix(context.Background(), cells, sparse, core.AttrLength, order,
		distance.WithCheckOverlap(false))
	require.NoError(t, err)
}

func TestRestrictedMatrix_NegativeWeight(t *testing.T) {
	_, cells, sparse := buildTwoCells(t)
	sparse.Edges()[0].Length = -2
	_, _, err := distance.RestrictedMatrix(context.Background(), cells, sparse,
		core.AttrLength, distance.OrderFromGraph(sparse.Parent()))
	require.ErrorIs(t, err, distance.ErrNegativeWeight)
}

func TestRestrictedMatrix_CanceledContext(t *testing.T) {
	_, cells, sparse := buildTwoCells(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := distance.RestrictedMatrix(ctx, cells, sparse,
		core.AttrLength, distance.OrderFromGraph(sparse.Parent()))
	require.ErrorIs(t, err, context.Canceled)
}
