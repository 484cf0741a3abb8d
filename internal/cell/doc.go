// Package cell implements the value slot of the parameter graph.
//
// A Cell is a named, typed value (backed by a cty.Value) with a dirty flag,
// optional compute and change functions, and pin metadata used when nodes
// are connected. A cell knows nothing about edges: once attached to an
// Engine it delegates dirty propagation, lazy resolution and change
// notification to it. Detached cells behave as plain typed variables.
//
// Cells are not safe for concurrent use. The whole graph is driven from a
// single goroutine; see package loop for marshalling work onto it.
package cell
