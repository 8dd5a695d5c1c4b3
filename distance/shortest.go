// Single-source shortest paths and the full-graph path matrix.
//
// Dijkstra over an indexed min-heap: every node's heap slot is its matrix
// index, so Put doubles as decrease-key and each node is popped at most
// once. NaN-weight edges are treated as impassable rather than an error;
// partial attribute coverage is normal in street data.

package distance

import (
	"fmt"
	"math"

	"github.com/rhartert/yagh"

	"github.com/urbanform/superblock/core"
)

// sssp runs Dijkstra from src over set, writing shortest distances and
// predecessor indices into dist and pred (both length order.Len(),
// pre-filled with +Inf / NoPredecessor; dist[srcIdx] must be 0).
// Nodes of set absent from order are skipped.
//
// Time: O((V + E) log V). Memory: O(V) for the heap.
func sssp(set core.EdgeSet, weight string, order *NodeOrder, src core.NodeID, dist []float64, pred []int32) error {
	srcIdx, ok := order.IndexOf(src)
	if !ok {
		return fmt.Errorf("distance: source %d not in node order: %w", src, ErrOrderMismatch)
	}

	heap := yagh.New[float64](order.Len())
	heap.Put(srcIdx, 0)

	for heap.Size() > 0 {
		entry := heap.Pop()
		u, du := entry.Elem, entry.Cost
		if du > dist[u] {
			continue // stale entry
		}

		for _, e := range set.OutEdges(order.ID(u)) {
			w := e.Weight(weight)
			if math.IsNaN(w) {
				continue
			}
			if w < 0 {
				return fmt.Errorf("distance: edge %d→%d weight=%v: %w", e.U, e.V, w, ErrNegativeWeight)
			}
			v, ok := order.IndexOf(e.V)
			if !ok {
				continue
			}
			if nd := du + w; nd < dist[v] {
				dist[v] = nd
				pred[v] = int32(u)
				heap.Put(v, nd)
			}
		}
	}

	return nil
}

// PathMatrix computes the all-pairs shortest-path distance and predecessor
// matrices over s using the named nonnegative edge weight ("" counts
// hops), indexed by order. Every ordered node must belong to s.
//
// Fails with ErrNegativeWeight before any work if an edge weight is
// negative, and with ErrOrderMismatch if the ordering and s disagree.
//
// Time: O(V·(V + E) log V). Memory: O(V²) for the dense result.
func PathMatrix(s core.EdgeSet, weight string, order *NodeOrder) (*Matrix, *Predecessors, error) {
	if s == nil {
		return nil, nil, ErrNilGraph
	}

	// Fail fast on negative weights before the per-source loop.
	for _, e := range s.Edges() {
		if w := e.Weight(weight); w < 0 {
			return nil, nil, fmt.Errorf("distance: edge %d→%d weight=%v: %w", e.U, e.V, w, ErrNegativeWeight)
		}
	}

	n := order.Len()
	for i := 0; i < n; i++ {
		if !s.HasNode(order.ID(i)) {
			return nil, nil, fmt.Errorf("distance: node %d in order but not in graph: %w", order.ID(i), ErrOrderMismatch)
		}
	}

	dist := NewMatrix(n)
	pred := NewPredecessors(n)
	for i := 0; i < n; i++ {
		if err := sssp(s, weight, order, order.ID(i), dist.Row(i), pred.Row(i)); err != nil {
			return nil, nil, err
		}
	}

	return dist, pred, nil
}

// ReconstructPath walks the predecessor row of source index i back from
// target index j, returning the path as matrix indices from i to j
// inclusive, or nil when j is unreachable from i.
func ReconstructPath(pred *Predecessors, i, j int) []int {
	if i == j {
		return []int{i}
	}
	if pred.At(i, j) == NoPredecessor {
		return nil
	}
	// Walk backwards; a path can visit each node at most once.
	path := []int{j}
	for cur := j; cur != i; {
		p := pred.At(i, cur)
		if p == NoPredecessor || len(path) > pred.N {
			return nil
		}
		cur = int(p)
		path = append(path, cur)
	}
	// Reverse in place.
	for a, b := 0, len(path)-1; a < b; a, b = a+1, b-1 {
		path[a], path[b] = path[b], path[a]
	}

	return path
}
