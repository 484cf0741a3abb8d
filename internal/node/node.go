package node

import (
	"context"
	"fmt"

	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/group"
	"github.com/vk/paramgraph/internal/paramerr"
	"github.com/zclconf/go-cty/cty"
)

// PostFunc schedules fn on the goroutine that owns the graph.
type PostFunc func(fn func())

// StartFunc is run when the scene starts. It must not block; long-running
// work goes in a goroutine that reports back through post.
type StartFunc func(ctx context.Context, post PostFunc) error

// StopFunc is run when the scene stops or the node is removed.
type StopFunc func() error

// Node is a single vertex of the scene: a typed instance holding a tree of
// parameters.
type Node struct {
	*group.Group

	// typeName is the registry name this node was created from.
	typeName string

	starts []StartFunc
	stops  []StopFunc
}

// New creates an empty node. The node is usable on its own; its cells are
// attached to a graph once it is added to a scene.
func New(typeName, name string) (*Node, error) {
	root, err := group.New(name)
	if err != nil {
		return nil, fmt.Errorf("invalid node name: %w", err)
	}
	return &Node{Group: root, typeName: typeName}, nil
}

// TypeName returns the registry name of the node's type.
func (n *Node) TypeName() string { return n.typeName }

// AddParameter creates a cell directly under the node.
func (n *Node) AddParameter(name string, typ cell.Type, initial cty.Value, pin cell.Pin, mult cell.Multiplicity, opts ...cell.Option) (*cell.Cell, error) {
	return n.NewCell(name, typ, initial, pin, mult, opts...)
}

// Param looks a parameter up by path relative to the node.
func (n *Node) Param(path string) (*cell.Cell, error) {
	c, ok := n.Cell(path)
	if !ok {
		return nil, paramerr.NotFound(n.Path() + "." + path)
	}
	return c, nil
}

// SetComputeFunction installs fn on the named parameter.
func (n *Node) SetComputeFunction(path string, fn cell.ComputeFunc) error {
	c, err := n.Param(path)
	if err != nil {
		return err
	}
	c.SetCompute(fn)
	return nil
}

// SetChangeFunction installs fn on the named parameter.
func (n *Node) SetChangeFunction(path string, fn cell.ChangeFunc) error {
	c, err := n.Param(path)
	if err != nil {
		return err
	}
	c.SetChange(fn)
	return nil
}

// AddDependency records that the parameter at target is computed from the
// one at source. Both paths are relative to the node.
func (n *Node) AddDependency(source, target string) error {
	if n.Graph() == nil {
		return fmt.Errorf("node %q is not part of a scene", n.Name())
	}
	src, err := n.Param(source)
	if err != nil {
		return err
	}
	dst, err := n.Param(target)
	if err != nil {
		return err
	}
	return n.Graph().AddDependency(src, dst)
}

// Float reads a float or int parameter.
func (n *Node) Float(path string) (float64, error) {
	c, err := n.Param(path)
	if err != nil {
		return 0, err
	}
	return c.Float()
}

// Int reads an int parameter.
func (n *Node) Int(path string) (int64, error) {
	c, err := n.Param(path)
	if err != nil {
		return 0, err
	}
	return c.Int()
}

// Text reads a string or enum parameter.
func (n *Node) Text(path string) (string, error) {
	c, err := n.Param(path)
	if err != nil {
		return "", err
	}
	return c.Text()
}

// OnStart registers a start hook.
func (n *Node) OnStart(fn StartFunc) { n.starts = append(n.starts, fn) }

// OnStop registers a stop hook. Stop hooks run in reverse order.
func (n *Node) OnStop(fn StopFunc) { n.stops = append(n.stops, fn) }

// Start runs the start hooks in registration order, stopping at the first
// failure.
func (n *Node) Start(ctx context.Context, post PostFunc) error {
	for _, fn := range n.starts {
		if err := fn(ctx, post); err != nil {
			return fmt.Errorf("starting node %q: %w", n.Name(), err)
		}
	}
	return nil
}

// Stop runs every stop hook, newest first, and reports all failures.
func (n *Node) Stop() error {
	var errs []error
	for i := len(n.stops) - 1; i >= 0; i-- {
		if err := n.stops[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return paramerr.Join(fmt.Sprintf("stopping node %q failed", n.Name()), errs)
}
