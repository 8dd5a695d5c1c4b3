package partition_test

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/urbanform/superblock/config"
	"github.com/urbanform/superblock/core"
	"github.com/urbanform/superblock/measure"
	"github.com/urbanform/superblock/partition"
)

func addBoth(t *testing.T, g *core.Graph, u, v core.NodeID) {
	t.Helper()
	if _, err := g.AddEdge(u, v, core.Length(1), core.TravelTime(1)); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddEdge(v, u, core.Length(1), core.TravelTime(1)); err != nil {
		t.Fatal(err)
	}
}

// buildTwoCellGraph is the two-cell fixture: cell edges 1-2, 2-3 and 4-6,
// backbone edges 1-4, 4-5, 5-3, all bidirectional with unit length.
func buildTwoCellGraph(t *testing.T) *core.Graph {
	t.Helper()
	g := core.NewGraph(core.WithCRS("EPSG:32633"))
	for id, xy := range map[core.NodeID][2]float64{
		1: {0, 0}, 2: {1, 0}, 3: {2, 0}, 4: {0, 1}, 5: {2, 1}, 6: {0, 2},
	} {
		g.AddNode(id, xy[0], xy[1])
	}
	addBoth(t, g, 1, 2)
	addBoth(t, g, 2, 3)
	addBoth(t, g, 1, 4)
	addBoth(t, g, 4, 5)
	addBoth(t, g, 5, 3)
	addBoth(t, g, 4, 6)
	return g
}

// cellStrategy labels the fixture's cell edges with a "cell" attribute:
// value 1 for the 1-2-3 cell, value 2 for the 4-6 cell. Backbone edges
// stay unlabeled.
type cellStrategy struct {
	err      error
	labelAll bool
}

func (s cellStrategy) Apply(g *core.Graph, _ *slog.Logger) (string, []partition.Group, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	value := func(u, v core.NodeID) float64 {
		if u > v {
			u, v = v, u
		}
		switch {
		case u == 1 && v == 2, u == 2 && v == 3:
			return 1
		case u == 4 && v == 6:
			return 2
		}
		if s.labelAll {
			return 1
		}
		return math.NaN()
	}
	for _, e := range g.Edges() {
		if v := value(e.U, e.V); !math.IsNaN(v) {
			e.SetAttr("cell", v)
		}
	}
	groups := []partition.Group{{Name: "A", Value: 1}, {Name: "B", Value: 2}}
	return "cell", groups, nil
}

func TestPartitioner_Run(t *testing.T) {
	g := buildTwoCellGraph(t)
	p := partition.New(g, "fixture", cellStrategy{})
	require.Equal(t, partition.Created, p.State())

	require.NoError(t, p.Run())
	require.Equal(t, partition.Partitioned, p.State())
	require.Equal(t, "cell", p.AttributeLabel())

	comps := p.Components()
	require.Len(t, comps, 2)
	require.Equal(t, "A_0", comps[0].Name)
	require.Equal(t, "B_0", comps[1].Name)
	require.Equal(t, 3, comps[0].Subgraph.NumNodes())
	require.Equal(t, 2, comps[1].Subgraph.NumNodes())
	require.Equal(t, 6, p.Sparsified().NumEdges())

	require.NoError(t, p.Validate())

	// Terminal for Run: a second run is a state error.
	require.ErrorIs(t, p.Run(), partition.ErrWrongState)
}

func TestPartitioner_FailedRunReverts(t *testing.T) {
	g := buildTwoCellGraph(t)
	boom := errors.New("boom")
	p := partition.New(g, "fixture", cellStrategy{err: boom})

	require.ErrorIs(t, p.Run(), boom)
	require.Equal(t, partition.Created, p.State())
	require.Nil(t, p.Components())
	require.Nil(t, p.Sparsified())
	require.Empty(t, p.AttributeLabel())

	// The same instance can run again with a working strategy state.
	q := partition.New(g, "fixture", cellStrategy{})
	require.NoError(t, q.Run())
}

func TestPartitioner_InvalidPartitioningReverts(t *testing.T) {
	g := buildTwoCellGraph(t)
	// Labeling every edge pulls the backbone into cell A, which then
	// shares node 4 with cell B and validation fails.
	p := partition.New(g, "fixture", cellStrategy{labelAll: true})

	err := p.Run()
	require.ErrorIs(t, err, partition.ErrNodeOverlap)
	require.Equal(t, partition.Created, p.State())
	require.Nil(t, p.Components())
}

func TestPartitioner_ComputeMetrics(t *testing.T) {
	g := buildTwoCellGraph(t)
	p := partition.New(g, "fixture", cellStrategy{})

	_, err := p.ComputeMetrics(context.Background(), measure.UnitTime, 15, 50)
	require.ErrorIs(t, err, partition.ErrWrongState)

	require.NoError(t, p.Run())
	metric, err := p.ComputeMetrics(context.Background(), measure.UnitTime, 15, 50)
	require.NoError(t, err)
	require.Equal(t, partition.MetricsComputed, p.State())
	require.Same(t, metric, p.Metric())

	require.InDelta(t, 0.5, metric.Coverage, 1e-12)
	require.Equal(t, 2, metric.NumComponents)
	require.False(t, math.IsNaN(metric.Directness["SN"]))

	// Speed caps were applied: 15 km/h inside cells, 50 km/h on the
	// backbone, over unit-length edges.
	cell := g.Edge(core.EdgeKey{U: 1, V: 2})
	sparse := g.Edge(core.EdgeKey{U: 4, V: 5})
	require.InDelta(t, 1/(15.0/3.6), cell.TravelTimeRestricted, 1e-12)
	require.InDelta(t, 1/(50.0/3.6), sparse.TravelTimeRestricted, 1e-12)
}

func TestPartitioner_ComputeMetricsWith(t *testing.T) {
	g := buildTwoCellGraph(t)
	p := partition.New(g, "configured", cellStrategy{})
	require.NoError(t, p.Run())

	bad := config.Default()
	bad.VMaxLTN = -1
	_, err := p.ComputeMetricsWith(context.Background(), measure.UnitTime, bad)
	require.ErrorIs(t, err, config.ErrBadConfig)
	require.Equal(t, partition.Partitioned, p.State())

	cfg := config.Default()
	cfg.NumWorkers = 1
	m, err := p.ComputeMetricsWith(context.Background(), measure.UnitTime, cfg)
	require.NoError(t, err)
	require.Same(t, m, p.Metric())
	require.Equal(t, partition.MetricsComputed, p.State())
}

func TestPartitioner_AttributeMinMax(t *testing.T) {
	p := partition.New(buildTwoCellGraph(t), "fixture", cellStrategy{})
	require.ErrorIs(t, p.SetAttributeMinMax(90, 0), partition.ErrBadRange)
	require.ErrorIs(t, p.SetAttributeMinMax(1, 1), partition.ErrBadRange)

	require.NoError(t, p.SetAttributeMinMax(0, 90))
	lo, hi := p.AttributeMinMax()
	require.Equal(t, 0.0, lo)
	require.Equal(t, 90.0, hi)
}
