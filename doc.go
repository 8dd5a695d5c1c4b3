// Package superblock partitions urban street networks into Low Traffic
// Neighbourhoods (LTNs) and quantifies how the partitioning changes travel
// efficiency against the unrestricted network.
//
// A partitioning splits a city's street graph into disjoint, internally
// connected cells ("components") plus one connecting sparse subgraph (the
// arterial backbone). Trips may traverse their origin cell, the backbone,
// and their destination cell, but never a third cell. The engine computes
// all-pairs distance matrices under three travel models and derives
// directness, efficiency and coverage statistics from them:
//
//	d_E(i,j): straight-line (Euclidean) distance
//	d_S(i,j): shortest path on the full, unrestricted graph
//	d_N(i,j): shortest path with through-travel banned in foreign cells
//
// Packages:
//
//	core/        - geographic directed multigraph, subgraph views, connectivity
//	attribute/   - derived edge/node attributes, subgraph extraction by value
//	distance/    - dense distance & predecessor matrices (E, S, N families)
//	measure/     - coverage, directness, efficiency, betweenness, Metric object
//	partition/   - partitioner state machine, bearing strategy, validity checks
//	config/      - tunable defaults (speed caps, percentiles, worker counts)
//
// The graph itself is owned by the caller: superblock mutates it in place by
// writing derived attributes (bearing_90, betweenness, relative increase)
// and never destroys it. Graph acquisition, caching and plotting live
// outside this module; the packages here expose the attributes and matrices
// those layers consume.
package superblock
