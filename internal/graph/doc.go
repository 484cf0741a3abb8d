// Package graph provides the engine cells are attached to: a single facade
// over the dependency edges (package dag) and the lazy resolver (package
// scheduler).
//
// # Why Graph Package Exists
//
// A cell only stores state. Everything that involves more than one cell
// (propagating dirtiness after a write, resolving a dirty read, rejecting a
// write that would re-enter an in-flight resolution) goes through the
// Manager. Containers such as groups and nodes attach their cells to one
// Manager and declare edges on it; they never touch the dag or scheduler
// directly.
//
// # Data Flow
//
//	   Set(v)                                Value()
//	     │                                      │
//	     ▼                                      ▼
//	┌─────────┐  Changed   ┌──────────────┐  Resolve  ┌─────────────┐
//	│  cell   │ ─────────▶ │   Manager    │ ────────▶ │  scheduler  │
//	└─────────┘            └──────┬───────┘           └──────┬──────┘
//	                              │ PropagateDirty           │ Dependencies
//	                              ▼                          ▼
//	                        ┌──────────────────────────────────┐
//	                        │               dag                │
//	                        └──────────────────────────────────┘
//
// After propagation, subscribers registered with Subscribe are told which
// cell was written. They run synchronously, after the cell's own change
// function.
//
// # Thread-Safety
//
// None. A Manager and every cell attached to it belong to one goroutine.
// Work produced elsewhere (network callbacks, file watchers) must be posted
// to that goroutine, see package loop.
package graph
