// Weak-connectivity probe over any EdgeSet.

package core

// WeaklyConnected reports whether s is weakly connected: ignoring edge
// direction, every member node is reachable from every other. The empty
// set and the single-node set count as connected.
//
// Time: O(V + E). Memory: O(V + E) for the undirected adjacency snapshot.
func WeaklyConnected(s EdgeSet) bool {
	nodes := s.Nodes()
	if len(nodes) <= 1 {
		return true
	}

	// Undirected adjacency from the member edges.
	adj := make(map[NodeID][]NodeID, len(nodes))
	for _, e := range s.Edges() {
		adj[e.U] = append(adj[e.U], e.V)
		adj[e.V] = append(adj[e.V], e.U)
	}

	// BFS from an arbitrary member node.
	seen := make(map[NodeID]struct{}, len(nodes))
	queue := []NodeID{nodes[0]}
	seen[nodes[0]] = struct{}{}
	for qi := 0; qi < len(queue); qi++ {
		u := queue[qi]
		for _, w := range adj[u] {
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			queue = append(queue, w)
		}
	}

	return len(seen) == len(nodes)
}
