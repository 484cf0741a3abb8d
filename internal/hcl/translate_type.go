// This file contains the logic for parsing HCL type expressions (e.g. `float`,
// `enum("fast", "exact")`) into type names and enum options.

package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// typeExprToTypeName converts an HCL type expression into the type name the
// registry resolves, plus the options of an enum.
func typeExprToTypeName(expr hcl.Expression) (string, []string, error) {
	switch v := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		if v.Name != "enum" {
			return "", nil, fmt.Errorf("unknown type constructor function %q", v.Name)
		}
		if len(v.Args) == 0 {
			return "", nil, fmt.Errorf("the enum() type constructor requires at least one option")
		}
		options := make([]string, 0, len(v.Args))
		for _, arg := range v.Args {
			val, diags := arg.Value(nil)
			if diags.HasErrors() || !val.IsKnown() || val.IsNull() || !val.Type().Equals(cty.String) {
				return "", nil, fmt.Errorf("enum options must be string literals")
			}
			options = append(options, val.AsString())
		}
		if dup, ok := uniqueOptions(options); !ok {
			return "", nil, fmt.Errorf("enum option %q is repeated", dup)
		}
		return "enum", options, nil

	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return "", nil, fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		return v.Traversal.RootName(), nil, nil

	default:
		return "", nil, fmt.Errorf("unsupported expression for type definition: %T", v)
	}
}
