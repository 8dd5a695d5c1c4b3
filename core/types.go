// This file declares NodeID, Node, EdgeKey, Edge, Graph, the EdgeSet read
// surface, sentinel errors, and the NewGraph constructor.

package core

import (
	"errors"
	"math"
)

// Sentinel errors for core graph operations.
var (
	// ErrNodeNotFound indicates an operation referenced a non-existent node.
	ErrNodeNotFound = errors.New("core: node not found")

	// ErrEdgeNotFound indicates an operation referenced a non-existent edge.
	ErrEdgeNotFound = errors.New("core: edge not found")

	// ErrForeignView indicates two views over different parent graphs were
	// combined (Union, AddFrom).
	ErrForeignView = errors.New("core: views have different parent graphs")
)

// Well-known edge attribute names. The typed Edge fields cover these;
// derived attributes (bearing_90, partition labels, relative increase) live
// in Edge.Attr under caller-chosen names.
const (
	// AttrLength is the physical edge length in meters.
	AttrLength = "length"

	// AttrTravelTime is the unrestricted travel time in seconds.
	AttrTravelTime = "travel_time"

	// AttrTravelTimeRestricted is the travel time in seconds with LTN speed
	// caps applied.
	AttrTravelTimeRestricted = "travel_time_restricted"

	// AttrBearing is the compass bearing of the edge in degrees [0, 360).
	AttrBearing = "bearing"
)

// NodeID identifies a node within its Graph. IDs follow the upstream data
// source (OSM node ids fit in int64).
type NodeID int64

// Node is a street intersection (or dead end) with projected coordinates.
//
// X and Y are in the units of the graph's CRS. Attr stores derived node
// attributes such as normalized betweenness centrality; it is shared by
// every view containing the node.
type Node struct {
	ID NodeID

	X, Y float64

	// Attr holds derived float attributes keyed by name. Lazily allocated.
	Attr map[string]float64
}

// SetAttr writes a derived attribute on the node.
func (n *Node) SetAttr(name string, value float64) {
	if n.Attr == nil {
		n.Attr = make(map[string]float64, 2)
	}
	n.Attr[name] = value
}

// GetAttr reads a derived attribute, returning NaN when absent. Missing
// attributes propagate as NaN rather than failing, mirroring how absent
// source data flows through derived-attribute computations.
func (n *Node) GetAttr(name string) float64 {
	v, ok := n.Attr[name]
	if !ok {
		return math.NaN()
	}
	return v
}

// EdgeKey identifies a directed edge within a multigraph: the ordered
// endpoint pair plus a small integer disambiguating parallel edges.
type EdgeKey struct {
	U, V NodeID
	Key  int
}

// Edge is a directed street segment from U to V.
//
// The typed fields are the attributes every computation needs; Attr carries
// derived attributes written during a run. Edge values are shared between
// the parent graph and all views, so a write through one is visible
// through all.
type Edge struct {
	U, V NodeID
	Key  int

	// Length in meters. Always required.
	Length float64

	// TravelTime in seconds over the unrestricted network.
	TravelTime float64

	// TravelTimeRestricted in seconds with LTN speed caps applied.
	TravelTimeRestricted float64

	// Bearing in degrees [0, 360); NaN when unknown.
	Bearing float64

	// Attr holds derived float attributes keyed by name. Lazily allocated.
	Attr map[string]float64
}

// ID returns the edge's key triple.
func (e *Edge) ID() EdgeKey { return EdgeKey{U: e.U, V: e.V, Key: e.Key} }

// SetAttr writes a derived attribute on the edge.
func (e *Edge) SetAttr(name string, value float64) {
	if e.Attr == nil {
		e.Attr = make(map[string]float64, 2)
	}
	e.Attr[name] = value
}

// GetAttr reads an attribute by name, resolving the typed fields first and
// falling back to Attr. Absent attributes return NaN.
func (e *Edge) GetAttr(name string) float64 {
	switch name {
	case AttrLength:
		return e.Length
	case AttrTravelTime:
		return e.TravelTime
	case AttrTravelTimeRestricted:
		return e.TravelTimeRestricted
	case AttrBearing:
		return e.Bearing
	}
	v, ok := e.Attr[name]
	if !ok {
		return math.NaN()
	}
	return v
}

// Weight resolves the edge weight for shortest-path computations: the named
// attribute, or a hop count of 1 when name is empty.
func (e *Edge) Weight(name string) float64 {
	if name == "" {
		return 1
	}
	return e.GetAttr(name)
}

// EdgeSet is the read surface shared by Graph and View. Algorithms that
// only traverse (shortest paths, connectivity) accept an EdgeSet so they
// run unchanged on the full graph, a component, or a composed restriction.
type EdgeSet interface {
	// Nodes returns all member node IDs in ascending order.
	Nodes() []NodeID

	// NumNodes reports the number of member nodes.
	NumNodes() int

	// HasNode reports membership of a node.
	HasNode(id NodeID) bool

	// Node returns the shared *Node value, or nil when absent.
	Node(id NodeID) *Node

	// Edges returns all member edges sorted by (U, V, Key).
	Edges() []*Edge

	// NumEdges reports the number of member edges.
	NumEdges() int

	// OutEdges returns the member edges leaving u, in insertion order.
	OutEdges(u NodeID) []*Edge
}

// Graph is the mutable parent street network.
//
// Not safe for concurrent mutation; the distance engine only reads it
// concurrently and all attribute write-backs happen single-threaded.
type Graph struct {
	crs string

	nodes map[NodeID]*Node
	edges map[EdgeKey]*Edge

	// out holds the outgoing adjacency per node, in edge insertion order.
	out map[NodeID][]*Edge

	// in holds the incoming adjacency per node, in edge insertion order.
	in map[NodeID][]*Edge
}

// GraphOption configures a Graph at construction.
type GraphOption func(*Graph)

// WithCRS records the coordinate reference system of the node coordinates,
// e.g. "EPSG:32633". Geographic (degree) systems are rejected by the
// Euclidean distance computation, not here.
func WithCRS(crs string) GraphOption {
	return func(g *Graph) { g.crs = crs }
}

// NewGraph creates an empty street-network graph.
// Complexity: O(1).
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		nodes: make(map[NodeID]*Node),
		edges: make(map[EdgeKey]*Edge),
		out:   make(map[NodeID][]*Edge),
		in:    make(map[NodeID][]*Edge),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}
