// Package scheduler resolves dirty cells on demand.
//
// # Why Scheduler Exists
//
// Writes only mark downstream cells dirty; nothing is recomputed until a
// dirty cell is read. The scheduler is what runs on that read: it walks the
// dirty upstream closure of the requested cell depth first, in edge order,
// and runs each compute function once its inputs are current.
//
// # Guarantees
//
//   - A compute function only ever observes resolved upstream values.
//   - In a diamond, the shared downstream cell is computed once per read.
//   - Re-entering a cell already on the resolution stack yields a
//     CyclicDependency error naming the cycle. No compute function on the
//     cycle runs and every value on it is left untouched.
//   - A failing compute function leaves its cell dirty with its last good
//     value. The error is returned, wrapped as ComputeFailure, so the next
//     read retries.
//
// # Re-entrancy
//
// The scheduler holds no locks. A compute or change function must not write
// to a cell that is being resolved further up the same stack; the graph
// rejects such writes with CyclicDependency (see Resolving).
package scheduler
