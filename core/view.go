// Subgraph views with shared node/edge identity.
//
// A View owns only membership; the *Node and *Edge values it yields are the
// parent graph's own. Attribute writes through a view therefore propagate
// to the parent, which the partitioning layer relies on to bake labels in.

package core

import (
	"fmt"
	"sort"
)

// View is a subgraph over a subset of a parent Graph's nodes and edges.
// The zero value is not usable; construct with NewView.
type View struct {
	parent *Graph
	nodes  map[NodeID]struct{}
	edges  map[EdgeKey]struct{}
}

// NewView creates an empty view over parent.
func NewView(parent *Graph) *View {
	return &View{
		parent: parent,
		nodes:  make(map[NodeID]struct{}),
		edges:  make(map[EdgeKey]struct{}),
	}
}

// FullView returns a view containing every node and edge of g.
func FullView(g *Graph) *View {
	v := NewView(g)
	for id := range g.nodes {
		v.nodes[id] = struct{}{}
	}
	for key := range g.edges {
		v.edges[key] = struct{}{}
	}

	return v
}

// Parent returns the graph this view selects from.
func (v *View) Parent() *Graph { return v.parent }

// AddNode includes a parent node in the view.
func (v *View) AddNode(id NodeID) error {
	if !v.parent.HasNode(id) {
		return fmt.Errorf("core: view AddNode(%d): %w", id, ErrNodeNotFound)
	}
	v.nodes[id] = struct{}{}

	return nil
}

// AddEdge includes a parent edge in the view, together with its endpoints.
func (v *View) AddEdge(key EdgeKey) error {
	if !v.parent.HasEdge(key) {
		return fmt.Errorf("core: view AddEdge(%v): %w", key, ErrEdgeNotFound)
	}
	v.edges[key] = struct{}{}
	v.nodes[key.U] = struct{}{}
	v.nodes[key.V] = struct{}{}

	return nil
}

// HasNode reports node membership.
func (v *View) HasNode(id NodeID) bool {
	_, ok := v.nodes[id]
	return ok
}

// HasEdge reports edge membership.
func (v *View) HasEdge(key EdgeKey) bool {
	_, ok := v.edges[key]
	return ok
}

// Node returns the parent's shared node value when it is a member, nil
// otherwise.
func (v *View) Node(id NodeID) *Node {
	if !v.HasNode(id) {
		return nil
	}
	return v.parent.Node(id)
}

// NumNodes reports the member node count.
func (v *View) NumNodes() int { return len(v.nodes) }

// NumEdges reports the member edge count.
func (v *View) NumEdges() int { return len(v.edges) }

// Nodes returns member node IDs in ascending order.
func (v *View) Nodes() []NodeID {
	ids := make([]NodeID, 0, len(v.nodes))
	for id := range v.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// Edges returns member edges sorted by (U, V, Key). The *Edge values are
// shared with the parent.
func (v *View) Edges() []*Edge {
	es := make([]*Edge, 0, len(v.edges))
	for key := range v.edges {
		es = append(es, v.parent.edges[key])
	}
	sortEdges(es)

	return es
}

// OutEdges returns the member edges leaving u, filtering the parent's
// adjacency by edge membership.
func (v *View) OutEdges(u NodeID) []*Edge {
	if !v.HasNode(u) {
		return nil
	}
	var out []*Edge
	for _, e := range v.parent.out[u] {
		if v.HasEdge(e.ID()) {
			out = append(out, e)
		}
	}

	return out
}

// NodeSet returns the membership set keyed by node ID. The returned map is
// a copy; mutating it does not affect the view.
func (v *View) NodeSet() map[NodeID]struct{} {
	set := make(map[NodeID]struct{}, len(v.nodes))
	for id := range v.nodes {
		set[id] = struct{}{}
	}

	return set
}

// EdgeSet returns the membership set keyed by edge key triple. The
// returned map is a copy.
func (v *View) EdgeSet() map[EdgeKey]struct{} {
	set := make(map[EdgeKey]struct{}, len(v.edges))
	for key := range v.edges {
		set[key] = struct{}{}
	}

	return set
}

// Union returns a new view containing the members of both views. Both must
// share the same parent graph.
func Union(a, b *View) (*View, error) {
	if a.parent != b.parent {
		return nil, ErrForeignView
	}
	u := NewView(a.parent)
	for id := range a.nodes {
		u.nodes[id] = struct{}{}
	}
	for id := range b.nodes {
		u.nodes[id] = struct{}{}
	}
	for key := range a.edges {
		u.edges[key] = struct{}{}
	}
	for key := range b.edges {
		u.edges[key] = struct{}{}
	}

	return u, nil
}

// SharesNodeWith reports whether the two views have at least one node in
// common. Iterates the smaller membership set.
func (v *View) SharesNodeWith(other *View) bool {
	small, large := v.nodes, other.nodes
	if len(large) < len(small) {
		small, large = large, small
	}
	for id := range small {
		if _, ok := large[id]; ok {
			return true
		}
	}

	return false
}
