package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified representation of every loaded manifest.
type Model struct {
	Nodes []*Node
	Links []*Link
}

// Node is the format-agnostic representation of a `node` block.
type Node struct {
	Type string
	Name string
	// Values overrides initial values, keyed by parameter path relative to
	// the node.
	Values     map[string]cty.Value
	Parameters []*Parameter
	Groups     []*Group
	// DeclRange points into the node block, for error messages.
	DeclRange hcl.Range
}

// Group is a nested `group` block.
type Group struct {
	Name        string
	Description string
	Hidden      bool
	Parameters  []*Parameter
	Groups      []*Group
}

// Parameter declares one extra cell on a node.
type Parameter struct {
	Name string
	// TypeName is resolved through the registry type table.
	TypeName     string
	Options      []string
	Value        *cty.Value
	Pin          string
	Multiplicity string
	ReadOnly     bool
	Hidden       bool
	Description  string
	// Compute is nil for plain values.
	Compute   hcl.Expression
	DependsOn []string
	DeclRange hcl.Range
}

// Link is a `link` block connecting an output pin to an input pin.
type Link struct {
	From string
	To   string
}

// Node returns the node named name, if declared.
func (m *Model) Node(name string) (*Node, bool) {
	for _, n := range m.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}
