package builder

import (
	"github.com/vk/paramgraph/internal/config"
	"github.com/vk/paramgraph/internal/node"
	"github.com/vk/paramgraph/internal/registry"
	"github.com/vk/paramgraph/internal/scene"
)

// build carries the state of one Build call.
type build struct {
	model    *config.Model
	registry *registry.Registry
	scene    *scene.Scene

	// built pairs every successfully created node with its block.
	built []builtNode
	// pending lists declared parameters that need compute wiring.
	pending []pendingParam

	errs []error
}

type builtNode struct {
	config *config.Node
	node   *node.Node
}

// pendingParam is a declared parameter with `depends_on` or `compute`.
// Wiring waits until the whole node is declared, since dependencies may be
// declared later in the block.
type pendingParam struct {
	node   *node.Node
	path   string
	config *config.Parameter
}
