package scene

import (
	"context"
	"fmt"
	"slices"

	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/graph"
	"github.com/vk/paramgraph/internal/group"
	"github.com/vk/paramgraph/internal/node"
	"github.com/vk/paramgraph/internal/nodeid"
	"github.com/vk/paramgraph/internal/paramerr"
)

// Scene is a set of uniquely named nodes sharing one graph.
type Scene struct {
	graph *graph.Manager
	nodes []*node.Node
	index map[string]*node.Node

	// links maps an input cell to its sources, oldest first.
	links map[*cell.Cell][]*cell.Cell
}

// New creates an empty scene with its own graph.
func New(opts ...graph.Option) *Scene {
	s := &Scene{
		graph: graph.New(opts...),
		index: make(map[string]*node.Node),
		links: make(map[*cell.Cell][]*cell.Cell),
	}
	s.graph.OnDetach(s.forget)
	return s
}

// Graph returns the graph every node of the scene is attached to.
func (s *Scene) Graph() *graph.Manager { return s.graph }

// AddNode binds n to the scene's graph.
func (s *Scene) AddNode(n *node.Node) error {
	if _, exists := s.index[n.Name()]; exists {
		return paramerr.DuplicateName("", n.Name())
	}
	if n.Graph() != nil {
		return fmt.Errorf("node %q already belongs to a scene", n.Name())
	}
	n.Bind(s.graph)
	s.nodes = append(s.nodes, n)
	s.index[n.Name()] = n
	return nil
}

// Node returns the node with the given name.
func (s *Scene) Node(name string) (*node.Node, bool) {
	n, ok := s.index[name]
	return n, ok
}

// Nodes returns every node in insertion order.
func (s *Scene) Nodes() []*node.Node { return slices.Clone(s.nodes) }

// RemoveNode stops the node and detaches its cells from the graph, which
// drops their links.
func (s *Scene) RemoveNode(name string) error {
	n, ok := s.index[name]
	if !ok {
		return paramerr.NotFound(name)
	}
	stopErr := n.Stop()
	n.Destroy()

	delete(s.index, name)
	s.nodes = slices.DeleteFunc(s.nodes, func(x *node.Node) bool { return x == n })
	return stopErr
}

// Find resolves a scene path whose first segment is a node name. A path of
// just a node name yields the node's root group.
func (s *Scene) Find(path string) (group.Entry, bool) {
	addr, err := nodeid.Parse(path)
	if err != nil {
		return nil, false
	}
	n, ok := s.index[addr.First()]
	if !ok {
		return nil, false
	}
	rest := addr.Rest()
	if rest == nil {
		return n.Group, true
	}
	return n.FindAddress(rest)
}

// Cell resolves a scene path to a cell.
func (s *Scene) Cell(path string) (*cell.Cell, bool) {
	e, ok := s.Find(path)
	if !ok {
		return nil, false
	}
	c, ok := e.(*cell.Cell)
	return c, ok
}

// Cells returns every cell of every node.
func (s *Scene) Cells() []*cell.Cell {
	var out []*cell.Cell
	for _, n := range s.nodes {
		out = append(out, n.Cells()...)
	}
	return out
}

// Outputs returns every output pin of every node.
func (s *Scene) Outputs() []*cell.Cell {
	var out []*cell.Cell
	for _, c := range s.Cells() {
		if c.Pin() == cell.PinOutput {
			out = append(out, c)
		}
	}
	return out
}

// Start runs the start hooks of every node in insertion order. Nodes started
// before a failure are stopped again.
func (s *Scene) Start(ctx context.Context, post node.PostFunc) error {
	for i, n := range s.nodes {
		if err := n.Start(ctx, post); err != nil {
			for j := i; j >= 0; j-- {
				_ = s.nodes[j].Stop()
			}
			return err
		}
	}
	return nil
}

// Stop runs the stop hooks of every node, last added first.
func (s *Scene) Stop() error {
	var errs []error
	for i := len(s.nodes) - 1; i >= 0; i-- {
		if err := s.nodes[i].Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	return paramerr.Join("stopping scene failed", errs)
}
