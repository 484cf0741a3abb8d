package exprs

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/paramerr"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Validate checks that expr only references the given dependency paths and
// only calls known functions. Paths are dotted and relative to the node.
func Validate(expr hcl.Expression, deps []string) error {
	c := NewContainer(expr)
	var errs []error
	for _, ref := range c.References() {
		key := TraversalKey(ref)
		if !slices.Contains(deps, key) {
			errs = append(errs, fmt.Errorf("%s is referenced but not listed in depends_on", key))
		}
	}
	known := Functions()
	for _, name := range c.CalledFunctions() {
		if _, ok := known[name]; !ok {
			errs = append(errs, fmt.Errorf("call to unknown function %q", name))
		}
	}
	if len(errs) > 0 {
		return paramerr.Join("invalid compute expression", errs)
	}
	return nil
}

// Compute returns a compute function evaluating expr. deps maps each
// dependency path to its cell. Only dependencies that are still upstream of
// the target are visible to the expression, so a removed dependency makes
// evaluation fail instead of reading a stale cell. The result is converted
// to the target's type.
func Compute(expr hcl.Expression, deps map[string]*cell.Cell) cell.ComputeFunc {
	funcs := Functions()
	return func(in cell.Inputs) (cty.Value, error) {
		ctx := &hcl.EvalContext{
			Variables: variables(deps, in.Upstream()),
			Functions: funcs,
		}
		v, diags := expr.Value(ctx)
		if diags.HasErrors() {
			return cty.NilVal, diags
		}
		target := in.Target()
		out, err := convert.Convert(v, cell.CtyType(target.Type()))
		if err != nil {
			return cty.NilVal, fmt.Errorf("result %s cannot become %s: %w", v.Type().FriendlyName(), target.Type(), err)
		}
		return out, nil
	}
}

// variables nests the values of live dependencies by path segment, so
// "Resolution.Width" is reachable as Resolution.Width.
func variables(deps map[string]*cell.Cell, upstream []*cell.Cell) map[string]cty.Value {
	tree := make(map[string]any)
	for path, c := range deps {
		if !slices.Contains(upstream, c) {
			continue
		}
		parts := strings.Split(path, ".")
		node := tree
		for _, p := range parts[:len(parts)-1] {
			next, ok := node[p].(map[string]any)
			if !ok {
				next = make(map[string]any)
				node[p] = next
			}
			node = next
		}
		node[parts[len(parts)-1]] = c.Peek()
	}
	return toObject(tree)
}

func toObject(tree map[string]any) map[string]cty.Value {
	out := make(map[string]cty.Value, len(tree))
	for k, v := range tree {
		switch v := v.(type) {
		case cty.Value:
			out[k] = v
		case map[string]any:
			out[k] = cty.ObjectVal(toObject(v))
		}
	}
	return out
}
