package measure_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/urbanform/superblock/core"
	"github.com/urbanform/superblock/distance"
	"github.com/urbanform/superblock/measure"
)

func TestBetweennessCentrality_Path(t *testing.T) {
	// 1 - 2 - 3 in both directions: node 2 sits on both cross pairs.
	g := core.NewGraph(core.WithCRS("EPSG:32633"))
	g.AddNode(1, 0, 0)
	g.AddNode(2, 1, 0)
	g.AddNode(3, 2, 0)
	addBoth(t, g, 1, 2, 1)
	addBoth(t, g, 2, 3, 1)

	order := distance.OrderFromGraph(g)
	dm, pm, err := distance.PathMatrix(g, core.AttrLength, order)
	require.NoError(t, err)
	require.NoError(t, measure.BetweennessCentrality(g, order, dm, pm, ""))

	// Raw count 2 for the middle node, normalized by (n-1)(n-2) = 2.
	require.Equal(t, 1.0, g.Node(2).GetAttr(measure.AttrNodeBetweenness))
	require.Equal(t, 0.0, g.Node(1).GetAttr(measure.AttrNodeBetweenness))
	require.Equal(t, 0.0, g.Node(3).GetAttr(measure.AttrNodeBetweenness))
}

func TestBetweennessCentrality_Suffix(t *testing.T) {
	g := core.NewGraph(core.WithCRS("EPSG:32633"))
	g.AddNode(1, 0, 0)
	g.AddNode(2, 1, 0)
	addBoth(t, g, 1, 2, 1)

	order := distance.OrderFromGraph(g)
	dm, pm, err := distance.PathMatrix(g, core.AttrLength, order)
	require.NoError(t, err)
	require.NoError(t, measure.BetweennessCentrality(g, order, dm, pm, measure.SuffixRestricted))

	require.False(t, math.IsNaN(g.Node(1).GetAttr(measure.AttrNodeBetweenness+measure.SuffixRestricted)))
	require.True(t, math.IsNaN(g.Node(1).GetAttr(measure.AttrNodeBetweenness)))
}

func TestHighBCClustering_PercentileBounds(t *testing.T) {
	xs := []float64{0, 1, 2}
	for _, p := range []float64{0, 100, -5, 120} {
		_, _, err := measure.HighBCClustering(xs, xs, xs, p)
		require.ErrorIs(t, err, measure.ErrBadPercentile, "percentile %v", p)
	}
	_, _, err := measure.HighBCClustering(nil, nil, nil, 90)
	require.ErrorIs(t, err, measure.ErrNoNodes)
}

func TestHighBCClustering_ClusteredBackbone(t *testing.T) {
	// Seven low-betweenness nodes spread out, three high ones packed
	// together near the origin.
	xs := []float64{0, 0.5, 0.5, 10, -10, 0, 0, 12, -12, 6}
	ys := []float64{0, 0, 0.5, 10, 10, 12, -12, 0, 0, -8}
	bc := []float64{5, 6, 7, 0, 0, 0, 0, 0, 0, 0}

	clustering, anisotropy, err := measure.HighBCClustering(xs, ys, bc, 70)
	require.NoError(t, err)
	require.Less(t, clustering, 1.0)
	require.Greater(t, clustering, 0.0)
	require.GreaterOrEqual(t, anisotropy, 1.0)
}

func TestHighBCClustering_CollinearAnisotropy(t *testing.T) {
	xs := []float64{0, 1, 2, 5, 6, 7, 8, 9, 10, 11}
	ys := []float64{0, 0, 0, 3, -3, 4, -4, 5, -5, 6}
	bc := []float64{9, 8, 7, 0, 0, 0, 0, 0, 0, 0}

	_, anisotropy, err := measure.HighBCClustering(xs, ys, bc, 70)
	require.NoError(t, err)
	require.True(t, math.IsInf(anisotropy, 1))
}

func TestHighBCClustering_TooFewHighNodes(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	bc := []float64{1, 0, 0, 0, 0, 0, 0, 0, 0, 0}

	clustering, anisotropy, err := measure.HighBCClustering(xs, xs, bc, 90)
	require.NoError(t, err)
	require.True(t, math.IsNaN(clustering))
	require.True(t, math.IsNaN(anisotropy))
}
