package graph

import "github.com/vk/paramgraph/internal/cell"

// Listener is told about every direct write that changed a cell's value.
type Listener func(c *cell.Cell)

// Graph is the engine every cell of a scene is attached to.
type Graph interface {
	cell.Engine

	// Attach binds c to the graph. A cell with a compute function is marked
	// dirty so that its first read computes it.
	Attach(c *cell.Cell)

	// Detach removes c and every edge touching it, then unbinds it. Cells
	// downstream of c keep their values but forget c as a cause.
	Detach(c *cell.Cell)

	// AddDependency records that target is computed from source. Both cells
	// must be attached. If target has a compute function it is invalidated.
	//
	// Returns a SelfDependency error when source and target are the same
	// cell. Longer cycles are accepted here and reported on resolution.
	AddDependency(source, target *cell.Cell) error

	// RemoveDependency deletes the edge and invalidates target. Reports
	// whether the edge existed.
	RemoveDependency(source, target *cell.Cell) bool

	// Dependencies lists the cells target is computed from, in the order
	// the edges were added.
	Dependencies(target *cell.Cell) ([]*cell.Cell, error)

	// Dependents lists the cells computed from source.
	Dependents(source *cell.Cell) ([]*cell.Cell, error)

	// Subscribe registers l for change notifications and returns a function
	// that unregisters it.
	Subscribe(l Listener) (cancel func())

	// DetectCycles reports the first cycle among the declared edges, if any.
	DetectCycles() error

	// Len returns the number of attached cells.
	Len() int
}
