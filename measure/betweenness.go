package measure

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/urbanform/superblock/core"
	"github.com/urbanform/superblock/distance"
)

// BetweennessCentrality accumulates, for every node, the fraction of
// shortest paths passing through it, read off the predecessor matrix of a
// prior all-pairs run. Each finite (s, t) pair contributes along its
// unique recorded path. Values are normalized by 1/((n-1)(n-2)) and
// written to the graph as node attributes named AttrNodeBetweenness plus
// suffix. This mutates the graph.
func BetweennessCentrality(g *core.Graph, order *distance.NodeOrder, dist *distance.Matrix, pred *distance.Predecessors, suffix string) error {
	n := order.Len()
	if n == 0 {
		return ErrNoNodes
	}
	if dist.N != n || pred.N != n {
		return fmt.Errorf("measure: matrix dimension %d for %d nodes: %w", dist.N, n, distance.ErrOrderMismatch)
	}

	bc := make([]float64, n)
	// Brandes-style dependency accumulation per source. Paths are unique
	// here (one predecessor per pair), so every sigma is 1 and the
	// dependency of t folds straight onto its predecessor. Targets are
	// visited in order of decreasing distance from the source.
	targets := make([]int, 0, n)
	delta := make([]float64, n)
	for s := 0; s < n; s++ {
		row := dist.Row(s)
		targets = targets[:0]
		for t, d := range row {
			if t == s || math.IsInf(d, 1) {
				continue
			}
			targets = append(targets, t)
		}
		sort.Slice(targets, func(a, b int) bool { return row[targets[a]] > row[targets[b]] })

		for i := range delta {
			delta[i] = 0
		}
		for _, t := range targets {
			p := pred.At(s, t)
			if p == distance.NoPredecessor {
				continue
			}
			delta[int(p)] += 1 + delta[t]
		}
		for v, d := range delta {
			if v == s || d == 0 {
				continue
			}
			bc[v] += d
		}
	}

	norm := 0.0
	if n > 2 {
		norm = 1 / float64((n-1)*(n-2))
	}
	attr := AttrNodeBetweenness + suffix
	for i, id := range order.IDs() {
		node := g.Node(id)
		if node == nil {
			return fmt.Errorf("measure: node %d in order but not in graph: %w", id, core.ErrNodeNotFound)
		}
		node.SetAttr(attr, bc[i]*norm)
	}
	return nil
}

// HighBCClustering selects the nodes whose betweenness exceeds the given
// percentile of the distribution and returns two shape statistics of that
// node set:
//
//   - clustering: mean distance of high-betweenness nodes to their own
//     centroid, divided by the mean distance of all nodes to the overall
//     centroid. Values below 1 mean the backbone is spatially clustered.
//   - anisotropy: ratio of the larger to the smaller eigenvalue of the
//     2x2 positional covariance of the high-betweenness set. 1 is
//     isotropic.
//
// Fewer than three selected nodes make both statistics NaN. The
// percentile must be strictly between 0 and 100.
func HighBCClustering(xs, ys, bc []float64, percentile float64) (clustering, anisotropy float64, err error) {
	if !(percentile > 0 && percentile < 100) {
		return 0, 0, fmt.Errorf("measure: percentile %v: %w", percentile, ErrBadPercentile)
	}
	if len(xs) == 0 || len(xs) != len(ys) || len(xs) != len(bc) {
		return 0, 0, fmt.Errorf("measure: %d coordinates, %d betweenness values: %w", len(xs), len(bc), ErrNoNodes)
	}

	sorted := append([]float64(nil), bc...)
	sort.Float64s(sorted)
	threshold := stat.Quantile(percentile/100, stat.Empirical, sorted, nil)

	var high []r2.Vec
	for i, b := range bc {
		if b > threshold {
			high = append(high, r2.Vec{X: xs[i], Y: ys[i]})
		}
	}
	if len(high) < 3 {
		return math.NaN(), math.NaN(), nil
	}

	all := make([]r2.Vec, len(xs))
	for i := range xs {
		all[i] = r2.Vec{X: xs[i], Y: ys[i]}
	}
	clustering = meanCentroidDistance(high) / meanCentroidDistance(all)

	hx := make([]float64, len(high))
	hy := make([]float64, len(high))
	for i, v := range high {
		hx[i], hy[i] = v.X, v.Y
	}
	sxx := stat.Variance(hx, nil)
	syy := stat.Variance(hy, nil)
	sxy := stat.Covariance(hx, hy, nil)
	// Eigenvalues of the symmetric 2x2 covariance matrix.
	tr, det := sxx+syy, sxx*syy-sxy*sxy
	disc := math.Sqrt(math.Max(tr*tr-4*det, 0))
	lmax, lmin := (tr+disc)/2, (tr-disc)/2
	if lmin <= 0 {
		anisotropy = math.Inf(1)
	} else {
		anisotropy = lmax / lmin
	}
	return clustering, anisotropy, nil
}

func meanCentroidDistance(pts []r2.Vec) float64 {
	var c r2.Vec
	for _, p := range pts {
		c = r2.Add(c, p)
	}
	c = r2.Scale(1/float64(len(pts)), c)
	var sum float64
	for _, p := range pts {
		sum += r2.Norm(r2.Sub(p, c))
	}
	return sum / float64(len(pts))
}
