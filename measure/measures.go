package measure

import (
	"fmt"
	"math"

	"github.com/urbanform/superblock/core"
	"github.com/urbanform/superblock/distance"
)

// Coverage returns the share of total edge weight lying inside any cell,
// in [0, 1]. Edges with a NaN weight are skipped on both sides of the
// ratio. Returns NaN for a graph with zero total weight.
func Coverage(g *core.Graph, cells []distance.Cell, weightAttr string) float64 {
	total := core.TotalEdgeWeight(g, weightAttr)
	if total == 0 {
		return math.NaN()
	}
	var inside float64
	for _, cell := range cells {
		inside += core.TotalEdgeWeight(cell.Subgraph, weightAttr)
	}
	return inside / total
}

// AveragePathLength returns the mean of finite off-diagonal entries of m.
// Unreachable pairs are excluded from the mean. Returns NaN when no pair
// is reachable.
func AveragePathLength(m *distance.Matrix) float64 {
	var sum float64
	var count int
	for i := 0; i < m.N; i++ {
		row := m.Row(i)
		for j, d := range row {
			if j == i || math.IsInf(d, 1) {
				continue
			}
			sum += d
			count++
		}
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}

// Directness returns D(X,Y), the mean over ordered pairs i != j of
// dx(i,j)/dy(i,j). Pairs where either entry is zero or infinite are
// undefined and excluded rather than folded into the mean. Returns NaN
// when no pair qualifies.
func Directness(dx, dy *distance.Matrix) float64 {
	var sum float64
	var count int
	for i := 0; i < dx.N; i++ {
		rx, ry := dx.Row(i), dy.Row(i)
		for j := range rx {
			if j == i {
				continue
			}
			x, y := rx[j], ry[j]
			if x == 0 || y == 0 || math.IsInf(x, 1) || math.IsInf(y, 1) {
				continue
			}
			sum += x / y
			count++
		}
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}

// GlobalEfficiency returns G(X;Y) = sum(1/dx) / sum(1/dy) over ordered
// pairs i != j, with 1/inf treated as 0. Zero off-diagonal entries are
// excluded from both sums so a duplicate-coordinate pair cannot blow up
// the ratio. Returns NaN when the denominator sum is zero.
func GlobalEfficiency(dx, dy *distance.Matrix) float64 {
	var sumX, sumY float64
	for i := 0; i < dx.N; i++ {
		rx, ry := dx.Row(i), dy.Row(i)
		for j := range rx {
			if j == i {
				continue
			}
			if x := rx[j]; x != 0 && !math.IsInf(x, 1) {
				sumX += 1 / x
			}
			if y := ry[j]; y != 0 && !math.IsInf(y, 1) {
				sumY += 1 / y
			}
		}
	}
	if sumY == 0 {
		return math.NaN()
	}
	return sumX / sumY
}

// WriteRelativeIncrease writes (dn - ds) / ds between each edge's
// endpoints as the rel_increase edge attribute. Edges whose S-distance is
// zero or infinite, or whose endpoints are missing from the order, get
// NaN. This mutates the graph.
func WriteRelativeIncrease(g *core.Graph, dn, ds *distance.Matrix, order *distance.NodeOrder) error {
	if dn == nil || ds == nil {
		return fmt.Errorf("measure: relative increase needs N and S: %w", ErrMissingMatrix)
	}
	for _, e := range g.Edges() {
		rel := math.NaN()
		i, iok := order.IndexOf(e.U)
		j, jok := order.IndexOf(e.V)
		if iok && jok {
			s := ds.At(i, j)
			if n := dn.At(i, j); s != 0 && !math.IsInf(s, 1) && !math.IsInf(n, 1) {
				rel = (n - s) / s
			}
		}
		e.SetAttr(AttrRelativeIncrease, rel)
	}
	return nil
}
