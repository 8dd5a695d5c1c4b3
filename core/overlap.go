// Pairwise set-overlap tests shared by the validity checker and the
// restricted distance computation, so both agree on what counts as an
// overlap violation.

package core

// PairwiseOverlap returns every pair (i, j), i < j, of sets sharing at
// least one element. Conceptually this fills the boolean pairwise
// intersection matrix with a cleared diagonal and collects the upper
// triangle.
//
// Time: O(Σ|set| · k) worst case for k sets.
func PairwiseOverlap[K comparable](sets []map[K]struct{}) [][2]int {
	var pairs [][2]int
	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			small, large := sets[i], sets[j]
			if len(large) < len(small) {
				small, large = large, small
			}
			for k := range small {
				if _, ok := large[k]; ok {
					pairs = append(pairs, [2]int{i, j})
					break
				}
			}
		}
	}

	return pairs
}
