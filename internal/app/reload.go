package app

import (
	"context"
	"sort"

	"github.com/vk/paramgraph/internal/builder"
	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/config"
	"github.com/vk/paramgraph/internal/ctxlog"
	"github.com/vk/paramgraph/internal/node"
	"github.com/vk/paramgraph/internal/paramerr"
	"github.com/zclconf/go-cty/cty"
)

// reload re-reads the manifests and pushes changed literal values into the
// running scene. Structural edits (new nodes, links, types) need a restart.
func (a *App) reload(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Reloading manifests...")

	model, err := a.loader.Load(ctx, a.config.ManifestPaths...)
	if err != nil {
		logger.Error("Manifest reload failed.", "error", err)
		return
	}
	err = a.loop.Do(ctx, func() error {
		if err := a.applyModel(ctx, model); err != nil {
			return err
		}
		// Command line overrides keep precedence over the manifests.
		return a.applyAssignments(ctx, a.scene)
	})
	if err != nil {
		logger.Warn("Manifest reload applied partially.", "error", err)
		return
	}
	logger.Info("Manifests reloaded.")
}

// applyModel writes the literal values of model into the matching nodes.
// Unchanged values are skipped, so read-only parameters only complain when
// their literal was edited.
func (a *App) applyModel(ctx context.Context, model *config.Model) error {
	logger := ctxlog.FromContext(ctx)

	var errs []error
	for _, nc := range model.Nodes {
		n, ok := a.scene.Node(nc.Name)
		if !ok || n.TypeName() != nc.Type {
			logger.Warn("Manifest reload: node is new or changed type, restart to apply.", "node", nc.Name, "type", nc.Type)
			continue
		}
		values := literals(nc)
		paths := make([]string, 0, len(values))
		for path := range values {
			paths = append(paths, path)
		}
		sort.Strings(paths)

		for _, path := range paths {
			if err := applyLiteral(n, path, values[path]); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return paramerr.Join("manifest reload", errs)
}

func applyLiteral(n *node.Node, path string, v cty.Value) error {
	c, err := n.Param(path)
	if err != nil {
		return err
	}
	if c.HasCompute() {
		return nil
	}
	cv, err := cell.Coerce(c.Path(), c.Type(), c.Options(), v)
	if err != nil {
		return err
	}
	if cv.RawEquals(c.Peek()) {
		return nil
	}
	return builder.Override(c, cv)
}

// literals collects the declared parameter values of a node block, with
// `values` entries taking precedence.
func literals(nc *config.Node) map[string]cty.Value {
	out := make(map[string]cty.Value)
	var walk func(prefix string, params []*config.Parameter, groups []*config.Group)
	walk = func(prefix string, params []*config.Parameter, groups []*config.Group) {
		for _, p := range params {
			if p.Value != nil && p.Compute == nil {
				out[joinPath(prefix, p.Name)] = *p.Value
			}
		}
		for _, g := range groups {
			walk(joinPath(prefix, g.Name), g.Parameters, g.Groups)
		}
	}
	walk("", nc.Parameters, nc.Groups)
	for path, v := range nc.Values {
		out[path] = v
	}
	return out
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
