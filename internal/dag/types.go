package dag

import "github.com/vk/paramgraph/internal/cell"

// Graph holds the "affects" edges between cells. An edge from A to B means B
// is computed from A, so a change to A dirties B.
//
// The graph is not safe for concurrent use; it is mutated and traversed on
// the single goroutine driving the scene.
type Graph struct {
	// nodes stores every known cell and its adjacency.
	nodes map[*cell.Cell]*node
}

// node is a single vertex. Adjacency is kept in insertion order so that
// resolution and propagation are deterministic.
type node struct {
	cell *cell.Cell
	// deps holds the cells this node is computed from (predecessors).
	deps []*node
	// dependents holds the cells computed from this node (successors).
	dependents []*node
}
