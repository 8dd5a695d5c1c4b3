package partition_test

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanform/superblock/core"
	"github.com/urbanform/superblock/partition"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBearingStrategy_BadBins(t *testing.T) {
	g := core.NewGraph(core.WithCRS("EPSG:32633"))
	_, _, err := partition.BearingStrategy{NumBins: 180}.Apply(g, discardLogger())
	require.ErrorIs(t, err, partition.ErrBadBins)
}

// A small grid-aligned graph has every bearing at a multiple of 90, so the
// whole histogram collapses into the bin at the boundary of [0, 90) and no
// interior peak exists.
func TestBearingStrategy_NoPeaksOnAxisAlignedGraph(t *testing.T) {
	g := core.NewGraph(core.WithCRS("EPSG:32633"))
	for id, xy := range map[core.NodeID][2]float64{1: {0, 0}, 2: {1, 0}, 3: {1, 1}, 4: {0, 1}} {
		g.AddNode(id, xy[0], xy[1])
	}
	for _, e := range []struct {
		u, v    core.NodeID
		bearing float64
	}{
		{1, 2, 90}, {2, 3, 0}, {3, 4, 270}, {4, 1, 180},
	} {
		_, err := g.AddEdge(e.u, e.v, core.Length(1), core.Bearing(e.bearing))
		require.NoError(t, err)
	}

	p := partition.New(g, "axis", partition.BearingStrategy{})
	err := p.Run()
	require.ErrorIs(t, err, partition.ErrNoPeaks)

	// The failed run leaves the partitioner where it started.
	assert.Equal(t, partition.Created, p.State())
	assert.Nil(t, p.Partitions())
	assert.Nil(t, p.Sparsified())
}

// Two clean bearing families at 30 and 60 degrees, with 120 reducing to 30
// modulo 90. Each family lands in a single histogram bin, so the prominence
// bases sit one bin to either side of each peak and the interval centers are
// the exact peak positions.
func TestBearingStrategy_Apply_TwoPeaks(t *testing.T) {
	g := core.NewGraph(core.WithCRS("EPSG:32633"))
	var next core.NodeID
	addBearing := func(b float64) *core.Edge {
		g.AddNode(next, float64(next), 0)
		g.AddNode(next+1, float64(next)+1, 1)
		e, err := g.AddEdge(next, next+1, core.Length(1), core.Bearing(b))
		require.NoError(t, err)
		next += 2
		return e
	}

	var group30, group60 []*core.Edge
	for i := 0; i < 4; i++ {
		group30 = append(group30, addBearing(30))
		group60 = append(group60, addBearing(60))
	}
	group30 = append(group30, addBearing(120)) // 120 mod 90 = 30

	g.AddNode(next, 99, 99)
	g.AddNode(next+1, 99, 100)
	noBearing, err := g.AddEdge(next, next+1, core.Length(1))
	require.NoError(t, err)

	label, groups, err := partition.BearingStrategy{}.Apply(g, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, partition.AttrBearingGroup, label)

	require.Len(t, groups, 2)
	assert.Equal(t, "[29.75, 30.25]", groups[0].Name)
	assert.Equal(t, 30.0, groups[0].Value)
	assert.Equal(t, "[59.75, 60.25]", groups[1].Name)
	assert.Equal(t, 60.0, groups[1].Value)

	for _, e := range group30 {
		assert.Equal(t, 30.0, e.GetAttr(partition.AttrBearingGroup))
	}
	for _, e := range group60 {
		assert.Equal(t, 60.0, e.GetAttr(partition.AttrBearingGroup))
	}
	assert.True(t, math.IsNaN(noBearing.GetAttr(partition.AttrBearingGroup)))

	// The reduced bearings were written as their own attribute.
	assert.Equal(t, 30.0, group30[len(group30)-1].GetAttr(partition.AttrBearing90))
}
