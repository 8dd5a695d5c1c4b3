// Euclidean distance matrix over projected node coordinates.

package distance

import (
	"fmt"
	"math"
	"strings"

	"github.com/urbanform/superblock/core"
)

// geographicCRS lists coordinate reference systems in degrees; Euclidean
// distances over them would be meaningless.
var geographicCRS = map[string]struct{}{
	"epsg:4326": {},
	"ogc:crs84": {},
	"wgs84":     {},
}

// Projected reports whether crs names a projected (planar) coordinate
// reference system. The empty string counts as unprojected.
func Projected(crs string) bool {
	if crs == "" {
		return false
	}
	_, geo := geographicCRS[strings.ToLower(crs)]

	return !geo
}

// Euclidean computes the pairwise straight-line distance matrix over the
// graph's projected node coordinates, indexed by order.
//
// Preconditions: the graph carries a projected CRS, every ordered node
// exists, and every coordinate is finite. Violations surface as
// ErrUnprojected, ErrOrderMismatch or ErrBadCoordinate, never as NaN in
// the result.
//
// Time: O(n²). Memory: O(n²) for the dense result.
func Euclidean(g *core.Graph, order *NodeOrder) (*Matrix, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if !Projected(g.CRS()) {
		return nil, fmt.Errorf("distance: Euclidean over CRS %q: %w", g.CRS(), ErrUnprojected)
	}

	n := order.Len()
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		node := g.Node(order.ID(i))
		if node == nil {
			return nil, fmt.Errorf("distance: node %d in order but not in graph: %w", order.ID(i), ErrOrderMismatch)
		}
		if !isFinite(node.X) || !isFinite(node.Y) {
			return nil, fmt.Errorf("distance: node %d at (%v, %v): %w", node.ID, node.X, node.Y, ErrBadCoordinate)
		}
		xs[i], ys[i] = node.X, node.Y
	}

	m := NewMatrix(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := math.Hypot(xs[i]-xs[j], ys[i]-ys[j])
			m.Set(i, j, d)
			m.Set(j, i, d)
		}
	}

	return m, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
