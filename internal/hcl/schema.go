package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot is used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Nodes  []*nodeBlock `hcl:"node,block"`
	Links  []*linkBlock `hcl:"link,block"`
	Remain hcl.Body     `hcl:",remain"`
}

// nodeBlock is `node "<type>" "<name>" { ... }`. Values is always set;
// gohcl substitutes a null expression ranging over the block when missing.
type nodeBlock struct {
	Type       string            `hcl:"type,label"`
	Name       string            `hcl:"name,label"`
	Values     hcl.Expression    `hcl:"values,optional"`
	Parameters []*parameterBlock `hcl:"parameter,block"`
	Groups     []*groupBlock     `hcl:"group,block"`
}

// groupBlock is `group "<name>" { ... }`. Groups nest.
type groupBlock struct {
	Name        string            `hcl:"name,label"`
	Description *string           `hcl:"description,optional"`
	Hidden      *bool             `hcl:"hidden,optional"`
	Parameters  []*parameterBlock `hcl:"parameter,block"`
	Groups      []*groupBlock     `hcl:"group,block"`
}

// parameterBlock is `parameter "<name>" { ... }`.
type parameterBlock struct {
	Name         string         `hcl:"name,label"`
	Type         hcl.Expression `hcl:"type"`
	Value        hcl.Expression `hcl:"value,optional"`
	Pin          *string        `hcl:"pin,optional"`
	Multiplicity *string        `hcl:"multiplicity,optional"`
	ReadOnly     *bool          `hcl:"read_only,optional"`
	Hidden       *bool          `hcl:"hidden,optional"`
	Description  *string        `hcl:"description,optional"`
	Compute      hcl.Expression `hcl:"compute,optional"`
	DependsOn    []string       `hcl:"depends_on,optional"`
}

// linkBlock is `link { from = "a.out"  to = "b.in" }`.
type linkBlock struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}
