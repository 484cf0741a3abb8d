/*
Package builder turns a manifest model into a live scene. It is the bridge
between the static configuration (the 'config' package) and the evaluation
graph (the 'scene', 'node' and 'graph' packages).

Construction is a multi-phase process:

 1. Node Creation: every `node` block is instantiated through the registry,
    then extended with the parameters and groups the manifest declares.

 2. Compute Wiring: `depends_on` lists become dependency edges and `compute`
    expressions become compute functions. Expressions may only reference
    the parameters they depend on; edges are never inferred.

 3. Value Overrides: `values` entries are written to their parameters.
    Read-only and computed parameters refuse them.

 4. Linking: `link` blocks connect output pins to input pins.

 5. Validation: cycle detection over the finished graph.

Errors are collected across every phase and reported together, so a broken
manifest shows all its problems at once.
*/
package builder
