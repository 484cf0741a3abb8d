// Package node provides the Node type: a named instance of a node type whose
// parameters live in a root ParameterGroup.
//
// Node code declares its parameters, then wires them by name with
// AddDependency and SetComputeFunction once the node is part of a scene.
// Work that cannot happen inside a compute function (network I/O, timers)
// belongs in an OnStart hook, which receives a post function for pushing
// results back onto the graph's goroutine.
package node
