// Package distance computes the dense all-pairs distance and predecessor
// matrices the metric layer aggregates, under three travel models:
//
//   - Euclidean ("E"): pairwise straight-line distance over projected node
//     coordinates. Requires a projected CRS and finite coordinates; no
//     graph traversal.
//   - Full-graph shortest path ("S"): Dijkstra from every node over the
//     complete graph with a nonnegative edge weight (length, travel time,
//     or hop count), recording predecessors for path reconstruction.
//   - Partition-restricted shortest path ("N"): shortest paths confined to
//     the trip's origin cell, the sparsified backbone, and the destination
//     cell; foreign cells are never usable as through-routes. Computed
//     per cell on the induced subgraph of (cell ∪ backbone) and composited
//     into the global matrix through the backbone nodes.
//
// # Conventions
//
// All three computations share one fixed NodeOrder assigning row/column
// indices, so the matrices compare elementwise. Unreachable pairs are
// +Inf in the distance matrix and NoPredecessor (-9999) in the
// predecessor matrix; the diagonal is exactly 0. Downstream ratio
// computations must treat +Inf pairs as undefined, never as zero.
//
// # Concurrency
//
// Only the restricted computation fans out: cells are independent, every
// matrix element is written by exactly one worker, and results land by
// node index, so worker completion order never changes the output. A
// memory factor degrades concurrency instead of failing when the caller
// wants to bound peak residency.
package distance
