package group

import (
	"fmt"
	"slices"

	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/graph"
	"github.com/vk/paramgraph/internal/nodeid"
	"github.com/vk/paramgraph/internal/paramerr"
	"github.com/zclconf/go-cty/cty"
)

// Entry is a child of a group: either a *cell.Cell or a *Group.
type Entry interface {
	Name() string
	Path() string
	Type() cell.Type
}

// Group is an ordered, named container of cells and groups.
type Group struct {
	name        string
	description string
	visible     bool

	parent *Group
	graph  graph.Graph

	children []Entry
	index    map[string]Entry
}

var (
	_ Entry      = (*Group)(nil)
	_ Entry      = (*cell.Cell)(nil)
	_ cell.Owner = (*Group)(nil)
)

// Option configures a Group.
type Option func(*Group)

// Hidden marks the group as not shown in panels.
func Hidden() Option { return func(g *Group) { g.visible = false } }

// WithDescription attaches help text.
func WithDescription(s string) Option { return func(g *Group) { g.description = s } }

// New creates an empty, unbound group.
func New(name string, opts ...Option) (*Group, error) {
	if !nodeid.ValidName(name) {
		return nil, fmt.Errorf("invalid group name %q", name)
	}
	g := &Group{
		name:    name,
		visible: true,
		index:   make(map[string]Entry),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *Group) Name() string        { return g.name }
func (g *Group) Type() cell.Type     { return cell.TypeGroup }
func (g *Group) Description() string { return g.description }
func (g *Group) IsVisible() bool     { return g.visible }
func (g *Group) Parent() *Group      { return g.parent }
func (g *Group) Graph() graph.Graph  { return g.graph }
func (g *Group) Len() int            { return len(g.children) }

// Path joins the names of the enclosing groups with this group's name.
func (g *Group) Path() string {
	if g.parent != nil {
		return g.parent.Path() + "." + g.name
	}
	return g.name
}

// Children returns the direct children in insertion order.
func (g *Group) Children() []Entry { return slices.Clone(g.children) }

// Child returns the direct child with the given name.
func (g *Group) Child(name string) (Entry, bool) {
	e, ok := g.index[name]
	return e, ok
}

// Bind attaches every cell of the subtree to gr. Cells added later are
// attached as they arrive.
func (g *Group) Bind(gr graph.Graph) {
	g.graph = gr
	for _, child := range g.children {
		switch c := child.(type) {
		case *cell.Cell:
			gr.Attach(c)
		case *Group:
			c.Bind(gr)
		}
	}
}

// AddCell adds c as the last child of g.
func (g *Group) AddCell(c *cell.Cell) error {
	if err := g.checkName(c.Name()); err != nil {
		return err
	}
	if err := c.SetOwner(g); err != nil {
		return err
	}
	g.insert(c)
	if g.graph != nil {
		g.graph.Attach(c)
	}
	return nil
}

// AddGroup adds sub, and everything in it, as the last child of g.
func (g *Group) AddGroup(sub *Group) error {
	if sub.parent != nil {
		return fmt.Errorf("group %q already belongs to %q", sub.name, sub.parent.Path())
	}
	if sub == g || sub.contains(g) {
		return fmt.Errorf("group %q cannot contain itself", sub.name)
	}
	if err := g.checkName(sub.name); err != nil {
		return err
	}
	sub.parent = g
	g.insert(sub)
	if g.graph != nil {
		sub.Bind(g.graph)
	}
	return nil
}

// AddChild adds a cell or group.
func (g *Group) AddChild(e Entry) error {
	switch v := e.(type) {
	case *cell.Cell:
		return g.AddCell(v)
	case *Group:
		return g.AddGroup(v)
	}
	return fmt.Errorf("unsupported entry %T", e)
}

// NewCell creates a cell and adds it to g.
func (g *Group) NewCell(name string, typ cell.Type, initial cty.Value, pin cell.Pin, mult cell.Multiplicity, opts ...cell.Option) (*cell.Cell, error) {
	c, err := cell.New(name, typ, initial, pin, mult, opts...)
	if err != nil {
		return nil, err
	}
	if err := g.AddCell(c); err != nil {
		return nil, err
	}
	return c, nil
}

// NewGroup creates an empty group and adds it to g.
func (g *Group) NewGroup(name string, opts ...Option) (*Group, error) {
	sub, err := New(name, opts...)
	if err != nil {
		return nil, err
	}
	if err := g.AddGroup(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// RemoveChild removes the named child. Every cell in the removed subtree is
// detached from the graph together with its edges.
func (g *Group) RemoveChild(name string) error {
	e, ok := g.index[name]
	if !ok {
		return paramerr.NotFound(g.Path() + "." + name)
	}
	switch v := e.(type) {
	case *cell.Cell:
		g.release(v)
	case *Group:
		v.Destroy()
		v.parent = nil
	}
	delete(g.index, name)
	g.children = slices.DeleteFunc(g.children, func(x Entry) bool { return x == e })
	return nil
}

// Destroy detaches every cell of the subtree from the graph. The group keeps
// its children, which behave as plain variables afterwards.
func (g *Group) Destroy() {
	for _, child := range g.children {
		switch v := child.(type) {
		case *cell.Cell:
			if g.graph != nil {
				g.graph.Detach(v)
			}
		case *Group:
			v.Destroy()
		}
	}
	g.graph = nil
}

func (g *Group) release(c *cell.Cell) {
	if g.graph != nil {
		g.graph.Detach(c)
	}
	c.ClearOwner()
}

func (g *Group) checkName(name string) error {
	if !nodeid.ValidName(name) {
		return fmt.Errorf("invalid name %q in group %q", name, g.Path())
	}
	if _, exists := g.index[name]; exists {
		return paramerr.DuplicateName(g.Path(), name)
	}
	return nil
}

func (g *Group) insert(e Entry) {
	g.children = append(g.children, e)
	g.index[e.Name()] = e
}

// contains reports whether other is g or one of its descendants.
func (g *Group) contains(other *Group) bool {
	for p := other; p != nil; p = p.parent {
		if p == g {
			return true
		}
	}
	return false
}
