package builder

import (
	"context"

	"github.com/vk/paramgraph/internal/config"
	"github.com/vk/paramgraph/internal/ctxlog"
	"github.com/vk/paramgraph/internal/graph"
	"github.com/vk/paramgraph/internal/paramerr"
	"github.com/vk/paramgraph/internal/registry"
	"github.com/vk/paramgraph/internal/scene"
)

// Build constructs a validated scene from a manifest model.
func Build(ctx context.Context, model *config.Model, r *registry.Registry, opts ...graph.Option) (*scene.Scene, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting scene construction.")
	b := &build{
		model:    model,
		registry: r,
		scene:    scene.New(opts...),
	}

	b.createNodes(ctx)
	logger.Debug("Build: Node creation complete.", "node_count", len(b.built))

	b.wireComputes(ctx)
	logger.Debug("Build: Compute wiring complete.")

	b.applyValues(ctx)
	logger.Debug("Build: Value overrides applied.")

	b.linkNodes(ctx)
	logger.Debug("Build: Node linking complete.", "link_count", len(b.scene.Links()))

	if len(b.errs) == 0 {
		if err := b.scene.Graph().DetectCycles(); err != nil {
			b.errs = append(b.errs, err)
		} else {
			logger.Debug("Build: Cycle detection passed.")
		}
	}

	if err := paramerr.Join("building scene failed", b.errs); err != nil {
		return nil, err
	}
	logger.Info("Build: Scene construction successful.", "nodes", len(b.scene.Nodes()), "parameters", b.scene.Graph().Len())
	return b.scene, nil
}
