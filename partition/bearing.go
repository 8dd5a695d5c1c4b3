package partition

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/urbanform/superblock/attribute"
	"github.com/urbanform/superblock/core"
)

// minPeakSeparationDeg is the required angular separation between two
// bearing peaks.
const minPeakSeparationDeg = 0.4

// BearingStrategy partitions a graph by the prominent directions of its
// edge-bearing histogram. Street grids show strong peaks at their grid
// directions once bearings are reduced modulo 90 degrees; each peak
// becomes one partition group and edges are assigned by the interval of
// [0, 90) their bearing falls into.
//
// NumBins is the angular resolution of the histogram and must be at least
// 360 (common street networks need a resolution finer than general
// histogram binning rules suggest). The zero value uses 360.
type BearingStrategy struct {
	NumBins int
}

// histogram is the paired-bin bearing histogram over [0, 90).
type histogram struct {
	edges []float64 // len numBins+1, edges[i] = 90*i/numBins
	freq  []float64 // len numBins, normalized
}

// Apply bins the bearings, finds prominent peaks, tiles [0, 90) into
// intervals around them, and writes each edge's interval center as the
// bearing_group attribute. Edges without a bearing keep NaN and fall to
// the backbone. Returns ErrNoPeaks when the histogram is too uniform,
// which is the expected outcome on small synthetic graphs.
func (s BearingStrategy) Apply(g *core.Graph, logger *slog.Logger) (string, []Group, error) {
	numBins := s.NumBins
	if numBins == 0 {
		numBins = 360
	}
	if numBins < 360 {
		return "", nil, fmt.Errorf("partition: %d bins: %w", numBins, ErrBadBins)
	}

	attribute.NewEdgeAttr(g, core.AttrBearing, AttrBearing90, func(b float64) float64 {
		return math.Mod(b, 90)
	})

	hist := binBearings(g, numBins)
	mean := stat.Mean(hist.freq, nil)
	std := stat.PopStdDev(hist.freq, nil)
	minDistance := int(minPeakSeparationDeg * float64(numBins) / 90)
	peaks := findPeaks(hist.freq, mean, std, minDistance)
	logger.Debug("bearing peaks",
		"bins", numBins, "peaks", len(peaks), "mean", mean, "std", std)
	if len(peaks) < 1 {
		return "", nil, ErrNoPeaks
	}

	boundaries, centers, err := makeBoundaries(hist, peaks)
	if err != nil {
		return "", nil, err
	}

	// Assign each edge the center value of the interval holding its
	// reduced bearing; NaN bearings stay NaN.
	for _, e := range g.Edges() {
		b := e.GetAttr(AttrBearing90)
		if math.IsNaN(b) {
			continue
		}
		i := sort.Search(len(boundaries), func(i int) bool { return boundaries[i] > b }) - 1
		e.SetAttr(AttrBearingGroup, centers[i])
	}

	groups := make([]Group, 0, len(centers))
	for i, c := range centers {
		if math.IsNaN(c) {
			continue
		}
		groups = append(groups, Group{
			Name:  fmt.Sprintf("[%g, %g]", boundaries[i], boundaries[i+1]),
			Value: c,
		})
	}
	return AttrBearingGroup, groups, nil
}

// binBearings builds the histogram of bearing_90 over twice numBins
// sub-bins, rotates the last sub-bin to the front so bearings just below
// 90 merge with those just above 0, and pair-sums into numBins bins.
func binBearings(g *core.Graph, numBins int) histogram {
	sub := 2 * numBins
	counts := make([]float64, sub)
	for _, e := range g.Edges() {
		b := e.GetAttr(AttrBearing90)
		if math.IsNaN(b) {
			continue
		}
		i := int(b / 90 * float64(sub))
		if i >= sub {
			i = sub - 1
		}
		counts[i]++
	}

	rolled := make([]float64, sub)
	rolled[0] = counts[sub-1]
	copy(rolled[1:], counts[:sub-1])

	freq := make([]float64, numBins)
	var total float64
	for i := range freq {
		freq[i] = rolled[2*i] + rolled[2*i+1]
		total += freq[i]
	}
	if total > 0 {
		for i := range freq {
			freq[i] /= total
		}
	}

	edges := make([]float64, numBins+1)
	for i := range edges {
		edges[i] = 90 * float64(i) / float64(numBins)
	}
	return histogram{edges: edges, freq: freq}
}

// interval is a half-open bearing range [lo, hi) with the peak value it
// encloses.
type interval struct {
	lo, hi float64
	value  float64
}

// makeBoundaries turns peak bases into a tiling of [0, 90): overlapping
// base intervals are regrouped along their shared unique borders, every
// interval is keyed by the peak it encloses, and the intervals are laid
// out with NaN-valued gaps so boundaries cover the half-circle without
// gaps or overlaps.
func makeBoundaries(hist histogram, peaks []peak) (boundaries []float64, centers []float64, err error) {
	for i := range peaks {
		for j := range peaks {
			if i != j && peaks[i].leftBase == peaks[j].leftBase && peaks[i].rightBase == peaks[j].rightBase {
				return nil, nil, ErrIdenticalBases
			}
		}
	}

	intervals := make([]interval, len(peaks))
	for i, pk := range peaks {
		intervals[i] = interval{lo: hist.edges[pk.leftBase], hi: hist.edges[pk.rightBase]}
	}

	// Resolve overlapping base intervals: within each overlap group, the
	// unique base positions tile the group's span, handed out to members
	// in ascending order.
	left := make([]int, len(peaks))
	right := make([]int, len(peaks))
	for i, pk := range peaks {
		left[i], right[i] = pk.leftBase, pk.rightBase
	}
	for _, group := range GroupOverlappingIntervals(left, right) {
		members := make([]int, 0, len(group))
		for m := range group {
			members = append(members, m)
		}
		sort.Ints(members)

		borderSet := make(map[int]struct{})
		for _, m := range members {
			borderSet[left[m]] = struct{}{}
			borderSet[right[m]] = struct{}{}
		}
		borders := make([]int, 0, len(borderSet))
		for b := range borderSet {
			borders = append(borders, b)
		}
		sort.Ints(borders)
		if len(borders) < len(members)+1 {
			return nil, nil, ErrIdenticalBases
		}

		for k, m := range members {
			intervals[m] = interval{lo: hist.edges[borders[k]], hi: hist.edges[borders[k+1]]}
		}
	}

	// Key every interval by the peak position it encloses.
	for i := range intervals {
		found := false
		for _, pk := range peaks {
			pos := hist.edges[pk.idx]
			if intervals[i].lo < pos && pos < intervals[i].hi {
				intervals[i].value = pos
				found = true
				break
			}
		}
		if !found {
			return nil, nil, fmt.Errorf("partition: interval [%g, %g) encloses no peak: %w",
				intervals[i].lo, intervals[i].hi, ErrIdenticalBases)
		}
	}
	sort.Slice(intervals, func(a, b int) bool { return intervals[a].lo < intervals[b].lo })

	// Tile [0, 90): gaps between intervals get NaN centers.
	boundaries = []float64{0}
	centers = []float64{math.NaN()}
	for _, iv := range intervals {
		if boundaries[len(boundaries)-1] == iv.lo {
			boundaries = append(boundaries, iv.hi)
			centers[len(centers)-1] = iv.value
			centers = append(centers, math.NaN())
		} else {
			boundaries = append(boundaries, iv.lo, iv.hi)
			centers = append(centers, iv.value, math.NaN())
		}
	}
	if boundaries[len(boundaries)-1] == 90 {
		centers = centers[:len(centers)-1]
	} else {
		boundaries = append(boundaries, 90)
	}
	return boundaries, centers, nil
}

// GroupOverlappingIntervals finds the groups of pairwise-overlapping
// [left, right) intervals. Intervals that touch only at a border do not
// overlap. Groups transitively connected through shared members are
// merged.
func GroupOverlappingIntervals(left, right []int) []map[int]struct{} {
	var groups []map[int]struct{}
	for i := range left {
		for j := i + 1; j < len(left); j++ {
			if left[i] >= right[j] || left[j] >= right[i] {
				continue
			}
			placed := false
			for _, grp := range groups {
				if _, ok := grp[i]; ok {
					grp[j] = struct{}{}
					placed = true
					break
				}
				if _, ok := grp[j]; ok {
					grp[i] = struct{}{}
					placed = true
					break
				}
			}
			if !placed {
				groups = append(groups, map[int]struct{}{i: {}, j: {}})
			}
		}
	}
	return MergeSets(groups)
}

// MergeSets merges sets sharing at least one element until all sets are
// pairwise disjoint. Idempotent: applying it to its own output changes
// nothing.
func MergeSets(sets []map[int]struct{}) []map[int]struct{} {
	merged := true
	for merged {
		merged = false
		for i := 0; i < len(sets); i++ {
			for j := i + 1; j < len(sets); j++ {
				if !intersects(sets[i], sets[j]) {
					continue
				}
				for e := range sets[j] {
					sets[i][e] = struct{}{}
				}
				sets = append(sets[:j], sets[j+1:]...)
				merged = true
				j--
			}
		}
	}
	return sets
}

func intersects(a, b map[int]struct{}) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for e := range a {
		if _, ok := b[e]; ok {
			return true
		}
	}
	return false
}
