package partition

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/urbanform/superblock/core"
)

// Validate runs the seven structural checks a partitioning must pass, in
// order, short-circuiting on the first failure. It is the sole authority
// on whether a partitioning is usable downstream; nil means valid.
//
//  1. The sparsified graph is weakly connected.
//  2. Each component is weakly connected. On failure the component's edges
//     are tagged with the highlight attribute for an external plotter,
//     then the tag is reset.
//  3. No two components share a node outside the sparsified graph. Two
//     cells may meet at a backbone junction; exclusivity applies to their
//     interior nodes.
//  4. Every graph node is in some component or the sparsified graph.
//  5. No two edge sets (components plus sparsified) share an edge.
//  6. Every graph edge is in some component or the sparsified graph.
//  7. Every component shares at least one node with the sparsified graph.
func Validate(g *core.Graph, components []Component, sparsified *core.View, logger *slog.Logger) error {
	if logger == nil {
		logger = DefaultOptions().Logger
	}
	if sparsified == nil {
		return ErrNoSparsified
	}

	// 1. Backbone connectivity.
	if !core.WeaklyConnected(sparsified) {
		logger.Error("sparsified graph is not connected")
		return ErrSparseDisconnected
	}

	// 2. Component connectivity, with the highlight side effect.
	for _, comp := range components {
		if core.WeaklyConnected(comp.Subgraph) {
			continue
		}
		logger.Error("component is not connected", "component", comp.Name)
		for _, e := range comp.Subgraph.Edges() {
			e.SetAttr(AttrHighlight, 1)
		}
		// The plotting collaborator consumes the tag here; reset so a later
		// failure does not accumulate stale highlights.
		for _, e := range comp.Subgraph.Edges() {
			e.SetAttr(AttrHighlight, math.NaN())
		}
		return fmt.Errorf("component %q: %w", comp.Name, ErrComponentDisconnected)
	}

	// 3. Pairwise node exclusivity, backbone junctions excepted. The same
	// subtraction gates the restricted distance computation, so the two
	// checks accept the same partitionings.
	sparseNodes := sparsified.NodeSet()
	nodeSets := make([]map[core.NodeID]struct{}, len(components))
	exclusive := make([]map[core.NodeID]struct{}, len(components))
	for i, comp := range components {
		nodeSets[i] = comp.Subgraph.NodeSet()
		excl := comp.Subgraph.NodeSet()
		for id := range sparseNodes {
			delete(excl, id)
		}
		exclusive[i] = excl
	}
	if pairs := core.PairwiseOverlap(exclusive); len(pairs) > 0 {
		i, j := pairs[0][0], pairs[0][1]
		logger.Error("components share nodes",
			"first", components[i].Name, "second", components[j].Name)
		return fmt.Errorf("components %q and %q: %w",
			components[i].Name, components[j].Name, ErrNodeOverlap)
	}

	// 4. Node coverage.
	var orphanNodes []core.NodeID
	for _, id := range g.Nodes() {
		if sparsified.HasNode(id) {
			continue
		}
		member := false
		for _, set := range nodeSets {
			if _, ok := set[id]; ok {
				member = true
				break
			}
		}
		if !member {
			orphanNodes = append(orphanNodes, id)
		}
	}
	if len(orphanNodes) > 0 {
		logger.Error("nodes in no component and not sparsified",
			"count", len(orphanNodes), "nodes", orphanNodes)
		return fmt.Errorf("%d nodes: %w", len(orphanNodes), ErrMissingNodes)
	}

	// 5. Pairwise edge exclusivity, sparsified included.
	edgeSets := make([]map[core.EdgeKey]struct{}, len(components)+1)
	names := make([]string, len(components)+1)
	for i, comp := range components {
		edgeSets[i] = comp.Subgraph.EdgeSet()
		names[i] = comp.Name
	}
	edgeSets[len(components)] = sparsified.EdgeSet()
	names[len(components)] = "sparse"
	if pairs := core.PairwiseOverlap(edgeSets); len(pairs) > 0 {
		i, j := pairs[0][0], pairs[0][1]
		logger.Error("edge sets overlap", "first", names[i], "second", names[j])
		return fmt.Errorf("%q and %q: %w", names[i], names[j], ErrEdgeOverlap)
	}

	// 6. Edge coverage.
	var orphanEdges []core.EdgeKey
	for _, e := range g.Edges() {
		key := e.ID()
		member := sparsified.HasEdge(key)
		for i := 0; !member && i < len(components); i++ {
			_, member = edgeSets[i][key]
		}
		if !member {
			orphanEdges = append(orphanEdges, key)
		}
	}
	if len(orphanEdges) > 0 {
		logger.Error("edges in no component and not sparsified",
			"count", len(orphanEdges), "edges", orphanEdges)
		return fmt.Errorf("%d edges: %w", len(orphanEdges), ErrMissingEdges)
	}

	// 7. Every component touches the backbone.
	for _, comp := range components {
		if !comp.Subgraph.SharesNodeWith(sparsified) {
			logger.Error("component shares no node with sparsified graph",
				"component", comp.Name)
			return fmt.Errorf("component %q: %w", comp.Name, ErrNotTouchingSparse)
		}
	}

	return nil
}

// Validate runs the structural checks over this partitioner's components
// and backbone.
func (p *Partitioner) Validate() error {
	if p.state != Partitioned && p.state != MetricsComputed {
		return fmt.Errorf("partition: validate in state %s: %w", p.state, ErrWrongState)
	}
	return Validate(p.graph, p.components, p.sparsified, p.logger)
}
