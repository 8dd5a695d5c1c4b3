// Partition-restricted all-pairs shortest paths.
//
// Travel model: a trip may traverse its origin cell, the sparsified
// backbone, and its destination cell, never a foreign cell. Rows for a
// cell's nodes are therefore computed on the induced subgraph of
// (cell ∪ backbone); backbone-to-backbone rows come from a backbone-only
// run; and cross-cell entries are composited through the backbone:
//
//	d(i∈A, j∈B) = min over backbone k of d_{A∪S}(i, k) + d_{B∪S}(k, j)
//
// Every matrix element is written by exactly one worker (rows for a
// cell's own nodes, plus that cell's columns of the backbone rows), so
// compositing needs no locks and worker completion order cannot change
// the result.

package distance

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/urbanform/superblock/core"
)

// Cell couples a named partition component with its subgraph view. The
// distance package deliberately knows nothing about partitioner state;
// callers hand over the pieces the computation needs.
type Cell struct {
	Name     string
	Subgraph *core.View
}

// RestrictedMatrix computes the partition-restricted distance and
// predecessor matrices over order, fanning per-cell shortest-path runs
// out to a bounded worker pool.
//
// Preconditions checked up front: cell names are unique
// (ErrDuplicateName), cells do not overlap outside the backbone
// (ErrCellOverlap, unless disabled via WithCheckOverlap), and no involved
// edge weight is negative (ErrNegativeWeight). The overlap test repeats
// what the validity checker verifies because this function is a public
// entry point that may run on an unvalidated partitioning.
//
// Time: O((V + m·|S|)·(V + E) log V + V²·|S|) for m cells and backbone
// size |S|. Memory: O(V²) for the result plus O(V) scratch per in-flight
// worker, bounded by the memory factor.
func RestrictedMatrix(ctx context.Context, parts []Cell, sparsified *core.View, weight string, order *NodeOrder, opts ...Option) (*Matrix, *Predecessors, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if sparsified == nil {
		return nil, nil, fmt.Errorf("distance: restricted: sparsified graph: %w", ErrNilGraph)
	}

	// Unique cell names keep routing attribution unambiguous.
	names := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		if _, dup := names[part.Name]; dup {
			return nil, nil, fmt.Errorf("distance: cell %q: %w", part.Name, ErrDuplicateName)
		}
		names[part.Name] = struct{}{}
	}

	// Nodes exclusive to each cell: cell membership minus the backbone.
	sparseNodes := sparsified.NodeSet()
	exclusive := make([]map[core.NodeID]struct{}, len(parts))
	for i, part := range parts {
		excl := part.Subgraph.NodeSet()
		for id := range sparseNodes {
			delete(excl, id)
		}
		exclusive[i] = excl
	}

	if cfg.CheckOverlap {
		if pairs := core.PairwiseOverlap(exclusive); len(pairs) > 0 {
			return nil, nil, fmt.Errorf("distance: cells %q and %q share nodes: %w",
				parts[pairs[0][0]].Name, parts[pairs[0][1]].Name, ErrCellOverlap)
		}
	}

	// Fail fast on negative weights over every edge the runs may touch.
	for _, e := range sparsified.Edges() {
		if w := e.Weight(weight); w < 0 {
			return nil, nil, fmt.Errorf("distance: edge %d→%d weight=%v: %w", e.U, e.V, w, ErrNegativeWeight)
		}
	}
	for _, part := range parts {
		for _, e := range part.Subgraph.Edges() {
			if w := e.Weight(weight); w < 0 {
				return nil, nil, fmt.Errorf("distance: cell %q edge %d→%d weight=%v: %w",
					part.Name, e.U, e.V, w, ErrNegativeWeight)
			}
		}
	}

	n := order.Len()
	dist := NewMatrix(n)
	pred := NewPredecessors(n)

	concurrency := int(math.Round(cfg.MaxMemFactor * float64(cfg.NumWorkers)))
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > cfg.NumWorkers {
		concurrency = cfg.NumWorkers
	}
	cfg.Logger.Debug("restricted distance computation",
		"cells", len(parts), "backbone_nodes", len(sparseNodes), "workers", concurrency)

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(concurrency)

	// Backbone-only run: backbone rows restricted to the backbone itself,
	// so no cell can serve as a shortcut between arterials.
	grp.Go(func() error {
		return runSources(gctx, sparsified, weight, order, sparsified.Nodes(), dist, pred, nil)
	})

	// Per-cell runs on (cell ∪ backbone).
	for ci, part := range parts {
		restricted, err := core.Union(part.Subgraph, sparsified)
		if err != nil {
			return nil, nil, fmt.Errorf("distance: cell %q: %w", part.Name, err)
		}
		excl := exclusive[ci]
		name := part.Name
		grp.Go(func() error {
			// Rows for the cell's own nodes cover every target in the
			// restricted subgraph.
			cellNodes := make([]core.NodeID, 0, len(excl))
			for _, id := range restricted.Nodes() {
				if _, ok := excl[id]; ok {
					cellNodes = append(cellNodes, id)
				}
			}
			if err := runSources(gctx, restricted, weight, order, cellNodes, dist, pred, nil); err != nil {
				return fmt.Errorf("cell %q: %w", name, err)
			}
			// Backbone rows gain this cell's columns only: entering the
			// cell as a destination is allowed, cutting through it is not.
			if err := runSources(gctx, restricted, weight, order, sparsified.Nodes(), dist, pred, excl); err != nil {
				return fmt.Errorf("cell %q backbone rows: %w", name, err)
			}
			cfg.Logger.Debug("cell distances composited", "cell", name, "sources", len(cellNodes))
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, nil, fmt.Errorf("distance: restricted: %w", err)
	}

	compositeCrossCells(dist, pred, order, exclusive, sparseNodes)

	return dist, pred, nil
}

// runSources runs one Dijkstra per source over set, copying results into
// the global matrices. When targetMask is non-nil only entries for masked
// target nodes are written; otherwise every reached entry is.
func runSources(ctx context.Context, set core.EdgeSet, weight string, order *NodeOrder, sources []core.NodeID, dist *Matrix, pred *Predecessors, targetMask map[core.NodeID]struct{}) error {
	n := order.Len()
	scratchDist := make([]float64, n)
	scratchPred := make([]int32, n)

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		srcIdx, ok := order.IndexOf(src)
		if !ok {
			return fmt.Errorf("distance: source %d not in node order: %w", src, ErrOrderMismatch)
		}

		for i := range scratchDist {
			scratchDist[i] = math.Inf(1)
			scratchPred[i] = NoPredecessor
		}
		scratchDist[srcIdx] = 0

		if err := sssp(set, weight, order, src, scratchDist, scratchPred); err != nil {
			return err
		}

		if targetMask == nil {
			for j := 0; j < n; j++ {
				if j == srcIdx || math.IsInf(scratchDist[j], 1) {
					continue
				}
				dist.Set(srcIdx, j, scratchDist[j])
				pred.Set(srcIdx, j, scratchPred[j])
			}
			continue
		}
		for id := range targetMask {
			j, ok := order.IndexOf(id)
			if !ok || j == srcIdx || math.IsInf(scratchDist[j], 1) {
				continue
			}
			dist.Set(srcIdx, j, scratchDist[j])
			pred.Set(srcIdx, j, scratchPred[j])
		}
	}

	return nil
}

// compositeCrossCells fills entries between nodes of different cells by
// joining through the backbone. The predecessor stored for a composite
// pair is the predecessor on the destination-side segment, preserving the
// "preceding node on a shortest path" meaning per entry.
func compositeCrossCells(dist *Matrix, pred *Predecessors, order *NodeOrder, exclusive []map[core.NodeID]struct{}, sparseNodes map[core.NodeID]struct{}) {
	sparseIdx := make([]int, 0, len(sparseNodes))
	for id := range sparseNodes {
		if k, ok := order.IndexOf(id); ok {
			sparseIdx = append(sparseIdx, k)
		}
	}
	exclIdx := make([][]int, len(exclusive))
	for ci, excl := range exclusive {
		for id := range excl {
			if i, ok := order.IndexOf(id); ok {
				exclIdx[ci] = append(exclIdx[ci], i)
			}
		}
	}

	for a := range exclIdx {
		for b := range exclIdx {
			if a == b {
				continue
			}
			for _, i := range exclIdx[a] {
				row := dist.Row(i)
				for _, j := range exclIdx[b] {
					best, bestK := math.Inf(1), -1
					for _, k := range sparseIdx {
						if d := row[k] + dist.At(k, j); d < best {
							best = d
							bestK = k
						}
					}
					if bestK >= 0 {
						dist.Set(i, j, best)
						pred.Set(i, j, pred.At(bestK, j))
					}
				}
			}
		}
	}
}
