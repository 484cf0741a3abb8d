// Package registry maps node type names to the Go code that populates them,
// and parameter type names to their type tags. Node modules register
// themselves through the Module interface; ValidateRegistry checks that every
// registered type produces a well-formed, resolvable node.
package registry
