package scheduler

import (
	"errors"
	"io"
	"log/slog"
	"slices"

	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/dag"
	"github.com/vk/paramgraph/internal/paramerr"
	"github.com/zclconf/go-cty/cty"
)

// Scheduler brings dirty cells up to date.
type Scheduler struct {
	graph  *dag.Graph
	logger *slog.Logger
	// stack is the chain of cells currently being resolved, outermost first.
	stack []*cell.Cell
}

// New creates a scheduler over g. A nil logger discards traces.
func New(g *dag.Graph, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scheduler{graph: g, logger: logger}
}

// Resolving reports whether c is on the current resolution stack.
func (s *Scheduler) Resolving(c *cell.Cell) bool {
	return slices.Contains(s.stack, c)
}

// Depth returns the size of the current resolution stack.
func (s *Scheduler) Depth() int { return len(s.stack) }

// CycleError builds the CyclicDependency error for re-entering c, which must
// be on the resolution stack.
func (s *Scheduler) CycleError(c *cell.Cell) error {
	i := max(slices.Index(s.stack, c), 0)
	return paramerr.Cyclic(paths(s.stack[i:]), c.Path())
}

// Resolve recomputes c if it is dirty, resolving its dirty upstream cells
// first. A dirty cell without a compute function simply accepts its current
// value.
func (s *Scheduler) Resolve(c *cell.Cell) error {
	if s.Resolving(c) {
		err := s.CycleError(c)
		s.logger.Debug("Resolve: cycle detected.", "cell", c.Path(), "error", err)
		return err
	}
	if !c.Dirty() {
		return nil
	}
	fn := c.Compute()
	if fn == nil {
		c.ClearDirty()
		return nil
	}

	s.stack = append(s.stack, c)
	defer func() { s.stack = s.stack[:len(s.stack)-1] }()

	// A cell outside the graph has no upstream.
	upstream, _ := s.graph.Dependencies(c)
	for _, u := range upstream {
		if err := s.Resolve(u); err != nil {
			return err
		}
	}

	in := &inputs{target: c, upstream: upstream, changed: c.Causes()}
	s.logger.Debug("Resolve: computing.", "cell", c.Path(), "depth", len(s.stack), "changed", len(in.changed))
	v, err := fn(in)
	if err != nil {
		if errors.Is(err, paramerr.ErrCyclicDependency) || errors.Is(err, paramerr.ErrComputeFailure) {
			return err
		}
		s.logger.Debug("Resolve: compute failed.", "cell", c.Path(), "error", err)
		return paramerr.ComputeFailure(c.Path(), err)
	}
	if err := c.Store(v); err != nil {
		return paramerr.ComputeFailure(c.Path(), err)
	}
	return nil
}

// inputs is the view of the graph handed to a compute function.
type inputs struct {
	target   *cell.Cell
	upstream []*cell.Cell
	changed  []*cell.Cell
}

func (in *inputs) Target() *cell.Cell     { return in.target }
func (in *inputs) Upstream() []*cell.Cell { return slices.Clone(in.upstream) }
func (in *inputs) Changed() []*cell.Cell  { return slices.Clone(in.changed) }

// Value looks an upstream cell up by full path first, then by name.
func (in *inputs) Value(name string) (cty.Value, error) {
	for _, u := range in.upstream {
		if u.Path() == name {
			return u.Peek(), nil
		}
	}
	for _, u := range in.upstream {
		if u.Name() == name {
			return u.Peek(), nil
		}
	}
	return cty.NilVal, paramerr.NotFound(in.target.Path() + " <- " + name)
}

func paths(cells []*cell.Cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.Path()
	}
	return out
}
