package group

import (
	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/nodeid"
	"github.com/vk/paramgraph/internal/paramerr"
	"github.com/zclconf/go-cty/cty"
)

// Find resolves a path relative to g, e.g. "Resolution.Width" or
// "Resolution > Width". A missing segment, or a malformed path, simply
// yields false.
func (g *Group) Find(path string) (Entry, bool) {
	addr, err := nodeid.Parse(path)
	if err != nil {
		return nil, false
	}
	return g.FindAddress(addr)
}

// FindAddress is Find for an already parsed path.
func (g *Group) FindAddress(addr *nodeid.Address) (Entry, bool) {
	if addr == nil || len(addr.Path) == 0 {
		return nil, false
	}
	cur := g
	for i, name := range addr.Path {
		e, ok := cur.index[name]
		if !ok {
			return nil, false
		}
		if i == len(addr.Path)-1 {
			return e, true
		}
		sub, ok := e.(*Group)
		if !ok {
			return nil, false
		}
		cur = sub
	}
	return nil, false
}

// Cell finds a cell by relative path.
func (g *Group) Cell(path string) (*cell.Cell, bool) {
	e, ok := g.Find(path)
	if !ok {
		return nil, false
	}
	c, ok := e.(*cell.Cell)
	return c, ok
}

// SubGroup finds a nested group by relative path.
func (g *Group) SubGroup(path string) (*Group, bool) {
	e, ok := g.Find(path)
	if !ok {
		return nil, false
	}
	sub, ok := e.(*Group)
	return sub, ok
}

// MustCell is Cell for paths declared by the caller itself. It panics when
// the cell is missing.
func (g *Group) MustCell(path string) *cell.Cell {
	c, ok := g.Cell(path)
	if !ok {
		panic(paramerr.NotFound(g.Path() + "." + path))
	}
	return c
}

// Value reads the cell at path, resolving it if dirty.
func (g *Group) Value(path string) (cty.Value, error) {
	c, ok := g.Cell(path)
	if !ok {
		return cty.NilVal, paramerr.NotFound(g.Path() + "." + path)
	}
	return c.Value()
}

// SetValue writes the cell at path.
func (g *Group) SetValue(path string, v cty.Value) error {
	c, ok := g.Cell(path)
	if !ok {
		return paramerr.NotFound(g.Path() + "." + path)
	}
	return c.Set(v)
}

// Walk visits every entry of the subtree depth first, in insertion order.
// Returning an error stops the walk.
func (g *Group) Walk(fn func(e Entry) error) error {
	for _, child := range g.children {
		if err := fn(child); err != nil {
			return err
		}
		if sub, ok := child.(*Group); ok {
			if err := sub.Walk(fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Cells returns every cell of the subtree in walk order.
func (g *Group) Cells() []*cell.Cell {
	var out []*cell.Cell
	_ = g.Walk(func(e Entry) error {
		if c, ok := e.(*cell.Cell); ok {
			out = append(out, c)
		}
		return nil
	})
	return out
}
