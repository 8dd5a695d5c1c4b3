package partition

import "sort"

// peak is one detected histogram peak with its prominence bases.
type peak struct {
	idx        int
	height     float64
	prominence float64
	leftBase   int
	rightBase  int
}

// findPeaks locates local maxima of x that clear minHeight, sit at least
// minDistance samples from any higher surviving peak, and have a
// prominence of at least minProminence. Plateaus count as a single peak at
// their midpoint. Filters apply in that order, matching the usual signal
// peak-detection pipeline.
func findPeaks(x []float64, minHeight, minProminence float64, minDistance int) []peak {
	maxima := localMaxima(x)

	// Height filter.
	kept := maxima[:0]
	for _, i := range maxima {
		if x[i] >= minHeight {
			kept = append(kept, i)
		}
	}
	maxima = kept

	// Distance filter: highest peaks win, lower neighbours within
	// minDistance are dropped.
	if minDistance > 1 && len(maxima) > 1 {
		maxima = enforceDistance(x, maxima, minDistance)
	}

	// Prominence filter, computing bases on the way.
	peaks := make([]peak, 0, len(maxima))
	for _, i := range maxima {
		pk := measureProminence(x, i)
		if pk.prominence >= minProminence {
			peaks = append(peaks, pk)
		}
	}
	return peaks
}

// localMaxima returns the midpoints of all strict local maxima, treating a
// flat run higher than both neighbours as one maximum.
func localMaxima(x []float64) []int {
	var maxima []int
	i := 1
	for i < len(x)-1 {
		if x[i-1] >= x[i] {
			i++
			continue
		}
		// Ascending into i; scan past any plateau.
		ahead := i + 1
		for ahead < len(x)-1 && x[ahead] == x[i] {
			ahead++
		}
		if x[ahead] < x[i] {
			maxima = append(maxima, (i+ahead-1)/2)
			i = ahead
			continue
		}
		i = ahead
	}
	return maxima
}

// enforceDistance keeps the highest peaks, removing any lower peak closer
// than minDistance samples to a kept one.
func enforceDistance(x []float64, maxima []int, minDistance int) []int {
	order := append([]int(nil), maxima...)
	sort.Slice(order, func(a, b int) bool { return x[order[a]] > x[order[b]] })

	removed := make(map[int]bool, len(maxima))
	for _, i := range order {
		if removed[i] {
			continue
		}
		for _, j := range maxima {
			if j == i || removed[j] {
				continue
			}
			if abs(i-j) < minDistance {
				removed[j] = true
			}
		}
	}

	kept := maxima[:0]
	for _, i := range maxima {
		if !removed[i] {
			kept = append(kept, i)
		}
	}
	return kept
}

// measureProminence walks out from the peak on both sides until the signal
// rises above the peak height or the data ends; the lowest point of each
// walk is that side's base, and the prominence is the peak height over the
// higher of the two bases.
func measureProminence(x []float64, i int) peak {
	leftBase, leftMin := i, x[i]
	for j := i - 1; j >= 0 && x[j] <= x[i]; j-- {
		if x[j] < leftMin {
			leftMin = x[j]
			leftBase = j
		}
	}
	rightBase, rightMin := i, x[i]
	for j := i + 1; j < len(x) && x[j] <= x[i]; j++ {
		if x[j] < rightMin {
			rightMin = x[j]
			rightBase = j
		}
	}
	base := leftMin
	if rightMin > base {
		base = rightMin
	}
	return peak{
		idx:        i,
		height:     x[i],
		prominence: x[i] - base,
		leftBase:   leftBase,
		rightBase:  rightBase,
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
