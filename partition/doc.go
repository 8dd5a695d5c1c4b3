// Package partition turns a street graph into Low Traffic Neighbourhood
// cells plus one connecting sparsified backbone, and drives the lifecycle
// of that partitioning.
//
// What:
//   - Partitioner: the state machine Created -> Running -> Partitioned ->
//     MetricsComputed. A failed run reverts to Created and exposes no
//     partial partition.
//   - Strategy: pluggable partitioning approaches. BearingStrategy groups
//     edges by prominent directions of the bearing histogram modulo 90
//     degrees.
//   - Validate: the seven ordered structural checks a partitioning must
//     pass before anything downstream may consume it.
//   - WriteGeoJSON: layered vector export with a per-edge classification
//     property.
//
// Why: the partitioning itself is cheap; the value is the guarantee that
// every node and edge of the parent graph lands in exactly one cell or the
// backbone, each cell is internally connected, and each cell touches the
// backbone. The validity checker is the sole authority on that guarantee.
//
// Complexity: subgraph construction and validation are linear in nodes
// plus edges; the bearing histogram is linear in edges plus the number of
// bins.
package partition
