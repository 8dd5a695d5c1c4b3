// Package measure derives network quality statistics from the distance
// matrices of package distance.
//
// What:
//   - Coverage: weighted share of the network lying inside any cell.
//   - Average path length A(X), directness D(X,Y) and global efficiency
//     G(X;Y) over the matrix families "E", "S" and "N".
//   - Betweenness centrality reconstructed from a predecessor matrix and
//     written back onto the graph as node attributes.
//   - Spatial clustering and anisotropy of the high-betweenness node set.
//   - Relative travel increase (d_N-d_S)/d_S written per edge.
//
// Why: all measures are pure functions of matrices plus the node order, so
// they can be recomputed from a persisted Metric without the graph. The two
// exceptions, betweenness and relative increase, mutate the graph by design
// since downstream tooling reads them as attributes.
//
// The Metric type bundles the computed values and the intermediate matrices
// and round-trips through encoding/gob.
package measure
