package hcl

import (
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/paramgraph/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// translateNode converts a decoded node block into the agnostic model.
func translateNode(b *nodeBlock) (*config.Node, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	n := &config.Node{
		Type:      b.Type,
		Name:      b.Name,
		DeclRange: b.Values.Range(),
	}

	if !isAbsent(b.Values) {
		values, valueDiags := flattenValues(b.Values)
		diags = append(diags, valueDiags...)
		n.Values = values
	}

	params, paramDiags := translateParameters(b.Parameters)
	diags = append(diags, paramDiags...)
	n.Parameters = params

	for _, gb := range b.Groups {
		g, groupDiags := translateGroup(gb)
		diags = append(diags, groupDiags...)
		n.Groups = append(n.Groups, g)
	}
	return n, diags
}

func translateGroup(b *groupBlock) (*config.Group, hcl.Diagnostics) {
	g := &config.Group{
		Name:        b.Name,
		Description: deref(b.Description),
		Hidden:      b.Hidden != nil && *b.Hidden,
	}
	params, diags := translateParameters(b.Parameters)
	g.Parameters = params
	for _, sub := range b.Groups {
		child, subDiags := translateGroup(sub)
		diags = append(diags, subDiags...)
		g.Groups = append(g.Groups, child)
	}
	return g, diags
}

func translateParameters(blocks []*parameterBlock) ([]*config.Parameter, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var out []*config.Parameter
	for _, pb := range blocks {
		p, pDiags := translateParameter(pb)
		diags = append(diags, pDiags...)
		if p != nil {
			out = append(out, p)
		}
	}
	return out, diags
}

func translateParameter(b *parameterBlock) (*config.Parameter, hcl.Diagnostics) {
	typeName, options, err := typeExprToTypeName(b.Type)
	if err != nil {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid parameter type",
			Detail:   fmt.Sprintf("Parameter %q: %s.", b.Name, err),
			Subject:  b.Type.Range().Ptr(),
		}}
	}

	p := &config.Parameter{
		Name:         b.Name,
		TypeName:     typeName,
		Options:      options,
		Pin:          deref(b.Pin),
		Multiplicity: deref(b.Multiplicity),
		ReadOnly:     b.ReadOnly != nil && *b.ReadOnly,
		Hidden:       b.Hidden != nil && *b.Hidden,
		Description:  deref(b.Description),
		DependsOn:    b.DependsOn,
		DeclRange:    b.Type.Range(),
	}

	if !isAbsent(b.Value) {
		v, diags := b.Value.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		p.Value = &v
	}
	if !isAbsent(b.Compute) {
		p.Compute = b.Compute
	}
	return p, nil
}

// flattenValues evaluates a `values` object. Nested objects contribute
// dotted paths, so `{ Resolution = { Width = 1 } }` sets "Resolution.Width".
func flattenValues(expr hcl.Expression) (map[string]cty.Value, hcl.Diagnostics) {
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if !v.Type().IsObjectType() && !v.Type().IsMapType() {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid values attribute",
			Detail:   fmt.Sprintf("The values attribute must be an object, got %s.", v.Type().FriendlyName()),
			Subject:  expr.Range().Ptr(),
		}}
	}
	out := make(map[string]cty.Value)
	flatten("", v, out)
	return out, nil
}

func flatten(prefix string, v cty.Value, out map[string]cty.Value) {
	for it := v.ElementIterator(); it.Next(); {
		k, elem := it.Element()
		key := k.AsString()
		if prefix != "" {
			key = prefix + "." + key
		}
		if elem.Type().IsObjectType() && !elem.IsNull() {
			flatten(key, elem, out)
			continue
		}
		out[key] = elem
	}
}

// isAbsent reports whether expr is missing. gohcl fills missing optional
// expression attributes with a static null.
func isAbsent(expr hcl.Expression) bool {
	if expr == nil {
		return true
	}
	if len(expr.Variables()) > 0 {
		return false
	}
	v, diags := expr.Value(nil)
	return !diags.HasErrors() && v.IsNull()
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// uniqueOptions reports the first repeated entry of options.
func uniqueOptions(options []string) (string, bool) {
	for i, o := range options {
		if slices.Contains(options[:i], o) {
			return o, false
		}
	}
	return "", true
}
