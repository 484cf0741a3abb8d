package builder

import (
	"context"
	"fmt"

	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/ctxlog"
	"github.com/vk/paramgraph/internal/exprs"
)

// wireComputes performs the second pass, turning `depends_on` into edges and
// `compute` expressions into compute functions.
func (b *build) wireComputes(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting compute wiring pass.", "count", len(b.pending))

	for _, p := range b.pending {
		if err := b.wire(p); err != nil {
			b.errs = append(b.errs, located(p.config.DeclRange, fmt.Errorf("parameter %q of node %q: %w", p.path, p.node.Name(), err)))
			continue
		}
		logger.Debug("Wired parameter.", "parameter", p.node.Name()+"."+p.path, "depends_on", p.config.DependsOn)
	}
}

func (b *build) wire(p pendingParam) error {
	target, err := p.node.Param(p.path)
	if err != nil {
		return err
	}

	deps := make(map[string]*cell.Cell, len(p.config.DependsOn))
	for _, path := range p.config.DependsOn {
		dep, err := p.node.Param(path)
		if err != nil {
			return fmt.Errorf("depends_on: %w", err)
		}
		deps[path] = dep
	}

	if p.config.Compute != nil {
		if err := exprs.Validate(p.config.Compute, p.config.DependsOn); err != nil {
			return err
		}
		target.SetCompute(exprs.Compute(p.config.Compute, deps))
	}
	for _, path := range p.config.DependsOn {
		if err := p.node.AddDependency(path, p.path); err != nil {
			return err
		}
	}
	return nil
}
