// Package attribute derives new graph attributes from existing ones and
// extracts subgraphs by attribute value.
//
// Derivation applies a pure function over one edge (or node) attribute and
// writes the result under a new name, e.g. bearing mod 90 for the
// four-fold symmetry analysis of the bearing partitioner. A missing source
// attribute propagates as NaN instead of failing: street networks routinely
// carry partial attribute coverage, and downstream consumers treat NaN as
// "not classified".
//
// Extraction returns the induced edge-subgraph of all edges whose
// attribute equals a value, as a core.View sharing node and edge identity
// with the parent graph, so later writes through the subgraph (such as a
// classification label) land on the parent.
package attribute

import (
	"math"

	"github.com/urbanform/superblock/core"
)

// Func is a pure function over a single attribute value.
type Func func(float64) float64

// NewEdgeAttr writes target = f(source) on every edge of g. Edges missing
// the source attribute get NaN without f being called.
// Complexity: O(E).
func NewEdgeAttr(g *core.Graph, source, target string, f Func) {
	for _, e := range g.Edges() {
		v := e.GetAttr(source)
		if math.IsNaN(v) {
			e.SetAttr(target, math.NaN())
			continue
		}
		e.SetAttr(target, f(v))
	}
}

// NewNodeAttr writes target = f(source) on every node of g, with the same
// NaN propagation as NewEdgeAttr.
// Complexity: O(V).
func NewNodeAttr(g *core.Graph, source, target string, f Func) {
	for _, id := range g.Nodes() {
		n := g.Node(id)
		v := n.GetAttr(source)
		if math.IsNaN(v) {
			n.SetAttr(target, math.NaN())
			continue
		}
		n.SetAttr(target, f(v))
	}
}

// EdgeSubgraph returns the induced edge-subgraph of all edges where the
// attribute equals value, including the nodes incident to those edges.
// NaN attribute values never match. The result is a view, not a copy.
// Complexity: O(E).
func EdgeSubgraph(g *core.Graph, attr string, value float64) *core.View {
	v := core.NewView(g)
	for _, e := range g.Edges() {
		if e.GetAttr(attr) == value {
			// Membership add cannot fail: the edge came from g itself.
			_ = v.AddEdge(e.ID())
		}
	}

	return v
}
