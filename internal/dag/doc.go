// Package dag stores the dependency edges between parameter cells and owns
// dirty propagation over them.
//
// Edges are added explicitly, either by node code declaring that one
// parameter is computed from another or by the builder wiring a link between
// two nodes' pins. Self-edges are rejected on insertion. Longer cycles are
// allowed into the graph, because pins can be connected in any order, and
// are reported either by DetectCycles or by the scheduler when a resolution
// re-enters a cell already on its stack.
package dag
