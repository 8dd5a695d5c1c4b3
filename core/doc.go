// Package core defines the street-network graph model shared by every
// other package in the module: a directed multigraph whose nodes carry
// projected (x, y) coordinates and whose edges carry the attributes the
// partitioning and metric layers consume (length, travel time, restricted
// travel time, compass bearing, plus arbitrary derived float attributes).
//
// # Ownership
//
// The Graph is owned by the caller and is mutated in place: derived
// attributes are written onto the existing *Node and *Edge values, and the
// graph is never destroyed by this module.
//
// # Views
//
// A View is a subgraph over a subset of a parent Graph's nodes and edges.
// Views share node and edge identity with the parent: writing an
// attribute through a view's edge writes it on the parent's edge. This is
// what lets a partitioning strategy "bake in" a classification label via a
// component's subgraph. Views never copy topology; membership is the only
// state they own.
//
// # Determinism
//
// Nodes() and Edges() return their elements in a fixed sorted order, so
// node orderings derived from them are reproducible across runs.
//
// Errors:
//
//	ErrNodeNotFound  - an operation referenced a node absent from the graph.
//	ErrEdgeNotFound  - an operation referenced an edge absent from the graph.
//	ErrForeignView   - views over different parent graphs were combined.
package core
