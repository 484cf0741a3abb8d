package dag

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/paramerr"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[*cell.Cell]*node),
	}
}

// AddNode adds a cell to the graph. Adding a known cell does nothing.
func (g *Graph) AddNode(c *cell.Cell) {
	if _, ok := g.nodes[c]; ok {
		return
	}
	g.nodes[c] = &node{cell: c}
}

// Has reports whether c is part of the graph.
func (g *Graph) Has(c *cell.Cell) bool {
	_, ok := g.nodes[c]
	return ok
}

// Len returns the number of cells in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

// AddEdge records that `to` is computed from `from`. Both cells must already
// be in the graph. Adding an existing edge again is a no-op.
func (g *Graph) AddEdge(from, to *cell.Cell) error {
	if from == to {
		return paramerr.SelfDependency(to.Path())
	}

	fromNode, ok := g.nodes[from]
	if !ok {
		return fmt.Errorf("source node not found: %s", from.Path())
	}
	toNode, ok := g.nodes[to]
	if !ok {
		return fmt.Errorf("destination node not found: %s", to.Path())
	}

	if slices.Contains(toNode.deps, fromNode) {
		return nil
	}
	toNode.deps = append(toNode.deps, fromNode)
	fromNode.dependents = append(fromNode.dependents, toNode)
	return nil
}

// RemoveEdge deletes the edge from `from` to `to` if it exists and reports
// whether it did.
func (g *Graph) RemoveEdge(from, to *cell.Cell) bool {
	fromNode, ok := g.nodes[from]
	if !ok {
		return false
	}
	toNode, ok := g.nodes[to]
	if !ok {
		return false
	}
	i := slices.Index(toNode.deps, fromNode)
	if i < 0 {
		return false
	}
	toNode.deps = slices.Delete(toNode.deps, i, i+1)
	fromNode.dependents = slices.DeleteFunc(fromNode.dependents, func(n *node) bool { return n == toNode })
	to.ForgetCause(from)
	return true
}

// RemoveNode deletes c and every edge touching it. Cells downstream of c
// forget it as a cause of their dirtiness, so nothing keeps a reference to a
// destroyed cell.
func (g *Graph) RemoveNode(c *cell.Cell) {
	n, ok := g.nodes[c]
	if !ok {
		return
	}
	for _, dep := range n.deps {
		dep.dependents = slices.DeleteFunc(dep.dependents, func(x *node) bool { return x == n })
	}
	for _, dependent := range n.dependents {
		dependent.deps = slices.DeleteFunc(dependent.deps, func(x *node) bool { return x == n })
		dependent.cell.ForgetCause(c)
	}
	delete(g.nodes, c)
}

// Dependencies returns the cells c is computed from, in edge insertion order.
func (g *Graph) Dependencies(c *cell.Cell) ([]*cell.Cell, error) {
	n, ok := g.nodes[c]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", c.Path())
	}
	return cells(n.deps), nil
}

// Dependents returns the cells computed from c, in edge insertion order.
func (g *Graph) Dependents(c *cell.Cell) ([]*cell.Cell, error) {
	n, ok := g.nodes[c]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", c.Path())
	}
	return cells(n.dependents), nil
}

// PropagateDirty marks every cell reachable from src dirty, breadth first.
// Each reachable cell is marked exactly once even when several paths lead to
// it, and records every predecessor through which the change arrived. src
// itself is not marked. The visited cells are returned in visit order.
func (g *Graph) PropagateDirty(src *cell.Cell) []*cell.Cell {
	start, ok := g.nodes[src]
	if !ok {
		return nil
	}

	var visited []*cell.Cell
	seen := map[*node]bool{start: true}
	queue := []*node{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, dependent := range n.dependents {
			dependent.cell.AddCause(n.cell)
			if seen[dependent] {
				continue
			}
			seen[dependent] = true
			dependent.cell.MarkDirty()
			visited = append(visited, dependent.cell)
			queue = append(queue, dependent)
		}
	}
	return visited
}

// DetectCycles checks the graph for any cycles. It returns a
// CyclicDependency error naming the cells on the first cycle found.
func (g *Graph) DetectCycles() error {
	// Use classic depth-first search with three sets of nodes:
	// permanent: nodes that have been fully visited and are not part of a cycle.
	// temporary: nodes currently in the recursion stack for the current traversal.
	// unvisited: all other nodes.
	permanent := make(map[*node]bool)
	temporary := make(map[*node]bool)
	var stack []*node

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n] {
			return nil
		}
		if temporary[n] {
			i := slices.Index(stack, n)
			return paramerr.Cyclic(paths(stack[i:]), n.cell.Path())
		}

		temporary[n] = true
		stack = append(stack, n)
		for _, dependent := range n.dependents {
			if err := visit(dependent); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		delete(temporary, n)
		permanent[n] = true
		return nil
	}

	// Visit in a stable order so the reported cycle does not depend on map
	// iteration.
	roots := make([]*node, 0, len(g.nodes))
	for _, n := range g.nodes {
		roots = append(roots, n)
	}
	slices.SortFunc(roots, func(a, b *node) int {
		return strings.Compare(a.cell.Path(), b.cell.Path())
	})
	for _, n := range roots {
		if !permanent[n] {
			if err := visit(n); err != nil {
				return err
			}
		}
	}
	return nil
}

func cells(nodes []*node) []*cell.Cell {
	out := make([]*cell.Cell, len(nodes))
	for i, n := range nodes {
		out[i] = n.cell
	}
	return out
}

func paths(nodes []*node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.cell.Path()
	}
	return out
}
