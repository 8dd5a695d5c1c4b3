package partition

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalMaxima(t *testing.T) {
	require.Equal(t, []int{2}, localMaxima([]float64{0, 1, 3, 1, 0}))
	// Plateau counts once, at its midpoint.
	require.Equal(t, []int{2}, localMaxima([]float64{0, 2, 2, 2, 0}))
	// Boundary samples cannot be maxima.
	require.Empty(t, localMaxima([]float64{5, 1, 0, 1, 5}))
	require.Empty(t, localMaxima([]float64{1, 1, 1}))
}

func TestFindPeaks_HeightAndProminence(t *testing.T) {
	x := []float64{0, 5, 0, 1.2, 1, 1.2, 0, 4, 0}

	peaks := findPeaks(x, 2, 2, 1)
	require.Len(t, peaks, 2)
	require.Equal(t, 1, peaks[0].idx)
	require.Equal(t, 7, peaks[1].idx)
	require.Equal(t, 5.0, peaks[0].height)
	require.Equal(t, 5.0, peaks[0].prominence)

	// Lowering the height floor admits the small bumps, but the
	// prominence floor still rejects them.
	require.Len(t, findPeaks(x, 0.5, 2, 1), 2)
	require.Len(t, findPeaks(x, 0.5, 0.1, 1), 4)
}

func TestFindPeaks_Distance(t *testing.T) {
	// Two peaks one sample apart: the higher one wins.
	x := []float64{0, 3, 0, 4, 0}
	peaks := findPeaks(x, 0, 0, 3)
	require.Len(t, peaks, 1)
	require.Equal(t, 3, peaks[0].idx)
}

func TestFindPeaks_Bases(t *testing.T) {
	x := []float64{0, 1, 0.5, 3, 0.2, 1, 0}
	peaks := findPeaks(x, 2, 1, 1)
	require.Len(t, peaks, 1)
	require.Equal(t, 3, peaks[0].idx)
	// The walk passes the lower peaks on both sides down to the signal
	// minima.
	require.Equal(t, 0, peaks[0].leftBase)
	require.Equal(t, 6, peaks[0].rightBase)
	require.Equal(t, 3.0, peaks[0].prominence)
}

func TestMergeSets(t *testing.T) {
	sets := []map[int]struct{}{
		{1: {}, 2: {}},
		{2: {}, 3: {}},
		{4: {}, 5: {}},
	}
	merged := MergeSets(sets)
	require.Len(t, merged, 2)
	require.Equal(t, map[int]struct{}{1: {}, 2: {}, 3: {}}, merged[0])
	require.Equal(t, map[int]struct{}{4: {}, 5: {}}, merged[1])

	// Idempotent: a second application changes nothing.
	again := MergeSets(merged)
	require.Equal(t, merged, again)
}

func TestGroupOverlappingIntervals(t *testing.T) {
	left := []int{0, 0, 1, 3, 4, 9}
	right := []int{1, 2, 3, 4, 10, 10}
	groups := GroupOverlappingIntervals(left, right)
	require.Len(t, groups, 2)
	require.Equal(t, map[int]struct{}{0: {}, 1: {}, 2: {}}, groups[0])
	require.Equal(t, map[int]struct{}{4: {}, 5: {}}, groups[1])

	// Touching borders do not overlap.
	require.Empty(t, GroupOverlappingIntervals([]int{0, 2}, []int{2, 4}))
}

func TestMakeBoundaries_Tiling(t *testing.T) {
	hist := histogram{
		edges: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90},
		freq:  []float64{0, 0.4, 0, 0, 0, 0.6, 0, 0, 0},
	}
	peaks := []peak{
		{idx: 1, leftBase: 0, rightBase: 2},
		{idx: 5, leftBase: 4, rightBase: 6},
	}
	boundaries, centers, err := makeBoundaries(hist, peaks)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 20, 40, 60, 90}, boundaries)
	require.Len(t, centers, 4)
	require.Equal(t, 10.0, centers[0])
	require.Equal(t, 50.0, centers[2])
}

func TestMakeBoundaries_IdenticalBases(t *testing.T) {
	hist := histogram{
		edges: []float64{0, 10, 20, 30},
		freq:  []float64{0, 1, 1},
	}
	peaks := []peak{
		{idx: 1, leftBase: 0, rightBase: 2},
		{idx: 2, leftBase: 0, rightBase: 2},
	}
	_, _, err := makeBoundaries(hist, peaks)
	require.ErrorIs(t, err, ErrIdenticalBases)
}
