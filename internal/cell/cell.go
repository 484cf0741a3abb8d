package cell

import (
	"fmt"

	"github.com/vk/paramgraph/internal/paramerr"
	"github.com/zclconf/go-cty/cty"
)

// Engine is the graph a cell is attached to. It owns dirty propagation,
// resolution and change notification; the cell only stores state.
type Engine interface {
	// Writable rejects a direct write, e.g. while the cell is being resolved.
	Writable(c *Cell) error
	// Changed is called after a direct write stored a new value.
	Changed(c *Cell)
	// Invalidate marks c and everything downstream of it dirty.
	Invalidate(c *Cell)
	// Resolve brings a dirty cell up to date.
	Resolve(c *Cell) error
}

// Owner is the container a cell belongs to.
type Owner interface {
	Path() string
}

// Inputs is what a compute function sees while it runs. Every upstream cell
// is already resolved.
type Inputs interface {
	// Target is the cell being computed.
	Target() *Cell
	// Upstream lists the cells with an edge into Target, in edge order.
	Upstream() []*Cell
	// Changed lists the upstream cells whose change, or whose new edge,
	// dirtied Target since its last successful compute, most recent last.
	// Every edge added before the first compute counts, so that compute
	// sees all of its wired sources.
	Changed() []*Cell
	// Value returns the value of an upstream cell by path or by name.
	Value(name string) (cty.Value, error)
}

// ComputeFunc derives a cell's value from its upstream cells.
type ComputeFunc func(in Inputs) (cty.Value, error)

// Change describes a direct write to a cell.
type Change struct {
	Cell *Cell
	Old  cty.Value
	New  cty.Value
}

// ChangeFunc is invoked synchronously after a direct write changed the value.
type ChangeFunc func(ch Change)

// Cell is a named, typed value slot.
type Cell struct {
	name         string
	typ          Type
	options      []string
	description  string
	value        cty.Value
	dirty        bool
	pin          Pin
	multiplicity Multiplicity
	readOnly     bool
	visible      bool

	compute ComputeFunc
	change  ChangeFunc

	owner  Owner
	engine Engine
	causes []*Cell
}

// Option configures optional cell attributes.
type Option func(*Cell)

// ReadOnly marks the cell as not editable from the outside.
func ReadOnly() Option { return func(c *Cell) { c.readOnly = true } }

// Hidden marks the cell as not shown in panels.
func Hidden() Option { return func(c *Cell) { c.visible = false } }

// WithOptions sets the allowed values of an enum cell.
func WithOptions(options ...string) Option {
	return func(c *Cell) { c.options = append([]string(nil), options...) }
}

// WithDescription attaches help text.
func WithDescription(s string) Option { return func(c *Cell) { c.description = s } }

// New creates a detached cell. A cty.NilVal initial value selects the type's
// zero value (the first option for enums, null for opaque cells).
func New(name string, typ Type, initial cty.Value, pin Pin, mult Multiplicity, opts ...Option) (*Cell, error) {
	if name == "" {
		return nil, fmt.Errorf("parameter name cannot be empty")
	}
	if typ == TypeGroup {
		return nil, paramerr.TypeMismatch(name, "a parameter cannot have type %s", typ)
	}
	if _, ok := typeNames[typ]; !ok {
		return nil, paramerr.TypeMismatch(name, "unknown type %s", typ)
	}

	c := &Cell{
		name:         name,
		typ:          typ,
		pin:          pin,
		multiplicity: mult,
		visible:      true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if typ == TypeEnum && len(c.options) == 0 {
		return nil, paramerr.TypeMismatch(name, "enum parameter declares no options")
	}

	if initial.Type() == cty.NilType {
		initial = zeroValue(typ, c.options)
	}
	v, err := checkValue(name, typ, c.options, initial)
	if err != nil {
		return nil, err
	}
	c.value = v
	return c, nil
}

func (c *Cell) Name() string               { return c.name }
func (c *Cell) Type() Type                 { return c.typ }
func (c *Cell) Pin() Pin                   { return c.pin }
func (c *Cell) Multiplicity() Multiplicity { return c.multiplicity }
func (c *Cell) IsReadOnly() bool           { return c.readOnly }
func (c *Cell) IsVisible() bool            { return c.visible }
func (c *Cell) Description() string        { return c.description }
func (c *Cell) Dirty() bool                { return c.dirty }
func (c *Cell) HasCompute() bool           { return c.compute != nil }
func (c *Cell) Compute() ComputeFunc       { return c.compute }
func (c *Cell) Engine() Engine             { return c.engine }
func (c *Cell) Owner() Owner               { return c.owner }

// Options returns the allowed values of an enum cell.
func (c *Cell) Options() []string {
	return append([]string(nil), c.options...)
}

// Path is the owner's path joined with the cell name, or just the name for a
// detached cell.
func (c *Cell) Path() string {
	if c.owner == nil || c.owner.Path() == "" {
		return c.name
	}
	return c.owner.Path() + "." + c.name
}

func (c *Cell) String() string { return c.Path() }

// SetOwner records the container of the cell. A cell never moves between
// containers.
func (c *Cell) SetOwner(o Owner) error {
	if c.owner != nil && c.owner != o {
		return fmt.Errorf("parameter %q already belongs to %q", c.name, c.owner.Path())
	}
	c.owner = o
	return nil
}

// ClearOwner detaches the cell from its container. Used on destruction only.
func (c *Cell) ClearOwner() { c.owner = nil }

// Attach binds the cell to a graph engine.
func (c *Cell) Attach(e Engine) { c.engine = e }

// Detach unbinds the cell from its engine and drops pending causes.
func (c *Cell) Detach() {
	c.engine = nil
	c.causes = nil
}

// MarkDirty flags the cached value as stale. Idempotent.
func (c *Cell) MarkDirty() { c.dirty = true }

// ClearDirty accepts the cached value as current.
func (c *Cell) ClearDirty() { c.dirty = false }

// SetCompute installs the function deriving this cell's value and marks the
// cell (and its downstream) dirty.
func (c *Cell) SetCompute(fn ComputeFunc) {
	c.compute = fn
	c.invalidate()
}

// SetChange installs the callback run after direct writes.
func (c *Cell) SetChange(fn ChangeFunc) { c.change = fn }

func (c *Cell) invalidate() {
	if c.engine != nil {
		c.engine.Invalidate(c)
		return
	}
	c.dirty = true
}

// Peek returns the cached value without resolving.
func (c *Cell) Peek() cty.Value { return c.value }

// Value returns the current value, resolving first when dirty. When
// resolution fails the last good value is returned alongside the error.
// Outside a graph, a dirty cell without a compute function accepts its
// current value.
func (c *Cell) Value() (cty.Value, error) {
	if !c.dirty {
		return c.value, nil
	}
	if c.engine == nil {
		if c.compute == nil {
			c.dirty = false
		}
		return c.value, nil
	}
	if err := c.engine.Resolve(c); err != nil {
		return c.value, err
	}
	return c.value, nil
}

// Set writes a value directly. Writing the current value again only clears
// the dirty flag: no change callback, no propagation, no notification.
func (c *Cell) Set(v cty.Value) error {
	nv, err := checkValue(c.Path(), c.typ, c.options, v)
	if err != nil {
		return err
	}
	if c.engine != nil {
		if err := c.engine.Writable(c); err != nil {
			return err
		}
	}

	if c.value.RawEquals(nv) {
		c.dirty = false
		return nil
	}

	old := c.value
	c.value = nv
	c.dirty = false
	c.causes = nil

	if c.change != nil {
		c.change(Change{Cell: c, Old: old, New: nv})
	}
	if c.engine != nil {
		c.engine.Changed(c)
	}
	return nil
}

// Store writes a computed value. It is meant for the scheduler: the value is
// validated, the cell is cleaned, but no callback or propagation runs.
func (c *Cell) Store(v cty.Value) error {
	nv, err := checkValue(c.Path(), c.typ, c.options, v)
	if err != nil {
		return err
	}
	c.value = nv
	c.dirty = false
	c.causes = nil
	return nil
}

// AddCause records that upstream dirtied this cell. A cause recorded again
// moves to the end, so the last cause is always the most recent.
func (c *Cell) AddCause(upstream *Cell) {
	c.ForgetCause(upstream)
	c.causes = append(c.causes, upstream)
}

// Causes lists the upstream cells recorded since the last store, oldest
// first.
func (c *Cell) Causes() []*Cell {
	return append([]*Cell(nil), c.causes...)
}

// ForgetCause drops upstream from the recorded causes.
func (c *Cell) ForgetCause(upstream *Cell) {
	for i, existing := range c.causes {
		if existing == upstream {
			c.causes = append(c.causes[:i], c.causes[i+1:]...)
			return
		}
	}
}
