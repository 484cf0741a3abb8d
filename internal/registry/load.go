package registry

import (
	"context"

	"github.com/vk/paramgraph/internal/ctxlog"
)

// Load registers every module, in order.
func (r *Registry) Load(ctx context.Context, modules ...Module) {
	logger := ctxlog.FromContext(ctx)
	for _, m := range modules {
		m.Register(r)
	}
	logger.Debug("Registry loaded successfully.", "modules", len(modules), "node_types", len(r.nodes), "parameter_types", len(r.types))
}
