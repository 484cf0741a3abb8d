package app

import (
	"context"
	"fmt"

	"github.com/vk/paramgraph/internal/builder"
	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/ctxlog"
	"github.com/vk/paramgraph/internal/graph"
	"github.com/vk/paramgraph/internal/paramerr"
	"github.com/vk/paramgraph/internal/scene"
)

// loadScene reads the manifests, builds the scene and applies the -set
// overrides.
func (a *App) loadScene(ctx context.Context) (*scene.Scene, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading manifests...", "paths", a.config.ManifestPaths)

	model, err := a.loader.Load(ctx, a.config.ManifestPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifests: %w", err)
	}
	if len(model.Nodes) == 0 {
		logger.Warn("No nodes found in manifests.", "paths", a.config.ManifestPaths)
	}

	s, err := builder.Build(ctx, model, a.registry, graph.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	if err := a.applyAssignments(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// applyAssignments writes every -set override into s.
func (a *App) applyAssignments(ctx context.Context, s *scene.Scene) error {
	logger := ctxlog.FromContext(ctx)
	assignments, err := a.config.Assignments()
	if err != nil {
		return err
	}

	var errs []error
	for _, as := range assignments {
		c, ok := s.Cell(as.Path)
		if !ok {
			errs = append(errs, paramerr.NotFound(as.Path))
			continue
		}
		v, err := cell.ParseValue(c.Path(), c.Type(), c.Options(), as.Value)
		if err == nil {
			err = builder.Override(c, v)
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		logger.Debug("Applied -set override.", "path", c.Path(), "value", as.Value)
	}
	return paramerr.Join("applying overrides failed", errs)
}
