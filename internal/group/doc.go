// Package group implements ParameterGroup, the ordered container of cells
// and nested groups that every node is built from.
//
// Names are unique within a group. Paths are formed from the names of the
// enclosing groups, so two groups may each hold a cell called "x" without
// interfering. A group bound to a graph attaches every cell added to it,
// however deep, and detaches them again when they are removed, taking their
// edges with them.
package group
