// Graph mutation and query methods.

package core

import (
	"fmt"
	"math"
	"sort"
)

// CRS returns the coordinate reference system recorded for the node
// coordinates, or "" when none was set.
func (g *Graph) CRS() string { return g.crs }

// SetCRS overrides the recorded coordinate reference system.
func (g *Graph) SetCRS(crs string) { g.crs = crs }

// AddNode inserts a node with projected coordinates, replacing coordinates
// if the node already exists (attributes are kept).
func (g *Graph) AddNode(id NodeID, x, y float64) *Node {
	if n, ok := g.nodes[id]; ok {
		n.X, n.Y = x, y
		return n
	}
	n := &Node{ID: id, X: x, Y: y}
	g.nodes[id] = n

	return n
}

// EdgeOption configures an edge as it is added.
type EdgeOption func(*Edge)

// Length sets the physical length in meters.
func Length(m float64) EdgeOption {
	return func(e *Edge) { e.Length = m }
}

// TravelTime sets the unrestricted travel time in seconds.
func TravelTime(s float64) EdgeOption {
	return func(e *Edge) { e.TravelTime = s }
}

// TravelTimeRestricted sets the speed-capped travel time in seconds.
func TravelTimeRestricted(s float64) EdgeOption {
	return func(e *Edge) { e.TravelTimeRestricted = s }
}

// Bearing sets the compass bearing in degrees [0, 360).
func Bearing(deg float64) EdgeOption {
	return func(e *Edge) { e.Bearing = deg }
}

// AddEdge inserts a directed edge u→v and returns it. Parallel edges get
// consecutive keys starting at 0. Both endpoints must already exist;
// requiring explicit nodes keeps coordinate bookkeeping honest.
//
// Complexity: O(parallel edges between u and v) for key assignment.
func (g *Graph) AddEdge(u, v NodeID, opts ...EdgeOption) (*Edge, error) {
	if _, ok := g.nodes[u]; !ok {
		return nil, fmt.Errorf("core: AddEdge(%d→%d): %w", u, v, ErrNodeNotFound)
	}
	if _, ok := g.nodes[v]; !ok {
		return nil, fmt.Errorf("core: AddEdge(%d→%d): %w", u, v, ErrNodeNotFound)
	}

	key := 0
	for {
		if _, ok := g.edges[EdgeKey{U: u, V: v, Key: key}]; !ok {
			break
		}
		key++
	}

	e := &Edge{U: u, V: v, Key: key, Bearing: math.NaN()}
	for _, opt := range opts {
		opt(e)
	}
	g.edges[e.ID()] = e
	g.out[u] = append(g.out[u], e)
	g.in[v] = append(g.in[v], e)

	return e, nil
}

// Node returns the shared node value, or nil when absent.
func (g *Graph) Node(id NodeID) *Node { return g.nodes[id] }

// HasNode reports whether the node exists.
func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Edge returns the shared edge value for the key triple, or nil.
func (g *Graph) Edge(key EdgeKey) *Edge { return g.edges[key] }

// HasEdge reports whether the edge exists.
func (g *Graph) HasEdge(key EdgeKey) bool {
	_, ok := g.edges[key]
	return ok
}

// NumNodes reports the node count.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumEdges reports the edge count.
func (g *Graph) NumEdges() int { return len(g.edges) }

// Nodes returns all node IDs in ascending order.
// Complexity: O(V log V).
func (g *Graph) Nodes() []NodeID {
	ids := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// Edges returns all edges sorted by (U, V, Key).
// Complexity: O(E log E).
func (g *Graph) Edges() []*Edge {
	es := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		es = append(es, e)
	}
	sortEdges(es)

	return es
}

// OutEdges returns the edges leaving u in insertion order. The returned
// slice is the graph's own; callers must not modify it.
func (g *Graph) OutEdges(u NodeID) []*Edge { return g.out[u] }

// InEdges returns the edges entering v in insertion order. The returned
// slice is the graph's own; callers must not modify it.
func (g *Graph) InEdges(v NodeID) []*Edge { return g.in[v] }

// TotalEdgeWeight sums the named weight attribute over all edges of s.
// NaN attribute values are skipped.
func TotalEdgeWeight(s EdgeSet, attr string) float64 {
	var sum float64
	for _, e := range s.Edges() {
		w := e.Weight(attr)
		if !math.IsNaN(w) {
			sum += w
		}
	}

	return sum
}

func sortEdges(es []*Edge) {
	sort.Slice(es, func(i, j int) bool {
		a, b := es[i], es[j]
		if a.U != b.U {
			return a.U < b.U
		}
		if a.V != b.V {
			return a.V < b.V
		}
		return a.Key < b.Key
	})
}
