package scene

import (
	"fmt"
	"slices"

	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/paramerr"
	"github.com/zclconf/go-cty/cty"
)

// Link describes one connection between two pins.
type Link struct {
	From *cell.Cell
	To   *cell.Cell
}

// Connect links the output pin at from to the input pin at to. Both are
// scene paths.
func (s *Scene) Connect(from, to string) error {
	src, ok := s.Cell(from)
	if !ok {
		return paramerr.NotFound(from)
	}
	dst, ok := s.Cell(to)
	if !ok {
		return paramerr.NotFound(to)
	}
	return s.ConnectCells(src, dst)
}

// ConnectCells is Connect for already resolved cells.
func (s *Scene) ConnectCells(src, dst *cell.Cell) error {
	if src.Pin() != cell.PinOutput {
		return fmt.Errorf("cannot link from %q: not an output pin", src.Path())
	}
	if dst.Pin() != cell.PinInput {
		return fmt.Errorf("cannot link to %q: not an input pin", dst.Path())
	}
	if !assignable(src.Type(), dst.Type()) {
		return paramerr.TypeMismatch(dst.Path(), "cannot link %s output %q to %s input", src.Type(), src.Path(), dst.Type())
	}

	sources, linked := s.links[dst]
	if !linked && dst.HasCompute() {
		return fmt.Errorf("cannot link to %q: input is computed", dst.Path())
	}
	if slices.Contains(sources, src) {
		return nil
	}
	if len(sources) > 0 && dst.Multiplicity() == cell.ExactlyOne {
		return fmt.Errorf("input %q accepts a single link and is already linked from %q", dst.Path(), sources[0].Path())
	}

	if err := s.graph.AddDependency(src, dst); err != nil {
		return err
	}
	s.links[dst] = append(sources, src)
	if !linked {
		dst.SetCompute(s.follow(dst))
	}
	return nil
}

// Disconnect removes the link between two scene paths.
func (s *Scene) Disconnect(from, to string) error {
	src, ok := s.Cell(from)
	if !ok {
		return paramerr.NotFound(from)
	}
	dst, ok := s.Cell(to)
	if !ok {
		return paramerr.NotFound(to)
	}
	if !slices.Contains(s.links[dst], src) {
		return paramerr.NotFound(from + " -> " + to)
	}
	s.unlink(src, dst)
	return nil
}

// Links returns every link, grouped by input in scene order.
func (s *Scene) Links() []Link {
	var out []Link
	for _, c := range s.Cells() {
		for _, src := range s.links[c] {
			out = append(out, Link{From: src, To: c})
		}
	}
	return out
}

// unlink drops one link. An input left without links keeps its last value
// and becomes a plain value again.
func (s *Scene) unlink(src, dst *cell.Cell) {
	s.graph.RemoveDependency(src, dst)
	sources := slices.DeleteFunc(s.links[dst], func(c *cell.Cell) bool { return c == src })
	if len(sources) > 0 {
		s.links[dst] = sources
		return
	}
	delete(s.links, dst)
	dst.SetCompute(nil)
}

// forget drops every link touching a detached cell. Inputs that lose their
// last source keep their value and become plain values again; the others
// re-pick among the sources left.
func (s *Scene) forget(c *cell.Cell) {
	delete(s.links, c)
	for dst, sources := range s.links {
		if !slices.Contains(sources, c) {
			continue
		}
		sources = slices.DeleteFunc(sources, func(x *cell.Cell) bool { return x == c })
		if len(sources) > 0 {
			s.links[dst] = sources
			s.graph.Invalidate(dst)
			continue
		}
		delete(s.links, dst)
		dst.SetCompute(nil)
	}
}

// follow returns the compute function of a linked input: the value of the
// most recently changed source, or of the newest link when nothing changed.
// Only sources still upstream of dst are considered.
func (s *Scene) follow(dst *cell.Cell) cell.ComputeFunc {
	return func(in cell.Inputs) (cty.Value, error) {
		upstream := in.Upstream()
		live := slices.DeleteFunc(slices.Clone(s.links[dst]), func(c *cell.Cell) bool {
			return !slices.Contains(upstream, c)
		})
		if len(live) == 0 {
			return dst.Peek(), nil
		}
		pick := live[len(live)-1]
		changed := in.Changed()
		for i := len(changed) - 1; i >= 0; i-- {
			if slices.Contains(live, changed[i]) {
				pick = changed[i]
				break
			}
		}
		return pick.Peek(), nil
	}
}

// assignable reports whether values of type from can be stored in a cell of
// type to.
func assignable(from, to cell.Type) bool {
	switch {
	case from == to:
		return true
	case from == cell.TypeInt && to == cell.TypeFloat:
		return true
	case from == cell.TypeEnum && to == cell.TypeString:
		return true
	}
	return false
}
