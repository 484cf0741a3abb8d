package app

import (
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/paramerr"
	"github.com/zclconf/go-cty/cty"
)

// evalPaths returns the parameter paths to print: the configured ones, or
// every output pin of the scene.
func (a *App) evalPaths() []string {
	if len(a.config.Eval) > 0 {
		return a.config.Eval
	}
	var out []string
	for _, c := range a.scene.Outputs() {
		out = append(out, c.Path())
	}
	return out
}

// printValues evaluates every path and writes one `path = value` line per
// path. Failures are written as comments and returned together.
func (a *App) printValues(w io.Writer) error {
	var errs []error
	for _, path := range a.evalPaths() {
		c, ok := a.scene.Cell(path)
		if !ok {
			errs = append(errs, paramerr.NotFound(path))
			fmt.Fprintf(w, "# %s: not found\n", path)
			continue
		}
		v, err := c.Value()
		if err != nil {
			errs = append(errs, err)
			fmt.Fprintf(w, "# %s: %s\n", path, err)
			continue
		}
		fmt.Fprintf(w, "%s = %s\n", c.Path(), FormatValue(v))
	}
	return paramerr.Join("evaluation failed", errs)
}

// FormatValue renders v in HCL syntax. Opaque values only show their Go type.
func FormatValue(v cty.Value) string {
	switch {
	case v.Type() == cty.NilType:
		return "null"
	case v.Type().Equals(cell.OpaqueType):
		if v.IsNull() {
			return "null"
		}
		return fmt.Sprintf("opaque(%T)", *(v.EncapsulatedValue().(*any)))
	}
	return string(hclwrite.TokensForValue(v).Bytes())
}
