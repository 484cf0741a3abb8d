// Package exprs analyzes HCL compute expressions and turns them into cell
// compute functions.
package exprs

import (
	"github.com/hashicorp/hcl/v2"
)

// Container gathers HCL expressions and caches the analysis of their
// variable references and function calls.
type Container struct {
	expressions []hcl.Expression

	analyzed        bool
	references      []hcl.Traversal
	calledFunctions []string
}

// NewContainer creates a new, empty expression container.
func NewContainer(exprs ...hcl.Expression) *Container {
	c := &Container{}
	c.Add(exprs...)
	return c
}

// Add adds expressions for analysis, ignoring nil ones.
func (c *Container) Add(exprs ...hcl.Expression) {
	for _, expr := range exprs {
		if expr != nil {
			c.expressions = append(c.expressions, expr)
			c.analyzed = false
		}
	}
}

func (c *Container) analyze() {
	if c.analyzed {
		return
	}
	c.references, c.calledFunctions = extractReferencesAndFunctions(c.expressions...)
	c.analyzed = true
}

// References returns all unique variable traversals, sorted by key.
func (c *Container) References() []hcl.Traversal {
	c.analyze()
	return c.references
}

// CalledFunctions returns the names of all called functions, sorted.
func (c *Container) CalledFunctions() []string {
	c.analyze()
	return c.calledFunctions
}
