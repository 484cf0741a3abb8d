package app

import (
	"context"
	"fmt"

	"github.com/vk/paramgraph/internal/ctxlog"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.ListTypes {
		for _, name := range a.registry.NodeTypes() {
			fmt.Fprintln(a.outW, name)
		}
		return nil
	}

	s, err := a.loadScene(ctx)
	if err != nil {
		return err
	}
	a.scene = s
	a.logger.Info("Scene ready.", "nodes", len(s.Nodes()), "parameters", s.Graph().Len(), "links", len(s.Links()))

	if a.config.Watch {
		return a.watch(ctx)
	}
	if a.config.HealthcheckPort > 0 {
		a.logger.Warn("Health check server not started: requires watch mode")
	}

	if err := a.printValues(a.outW); err != nil {
		return err
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}
