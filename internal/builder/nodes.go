package builder

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/config"
	"github.com/vk/paramgraph/internal/ctxlog"
	"github.com/vk/paramgraph/internal/group"
	"github.com/vk/paramgraph/internal/node"
	"github.com/zclconf/go-cty/cty"
)

// createNodes performs the first pass, instantiating every node block and
// declaring its extra parameters and groups.
func (b *build) createNodes(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting node creation pass.")

	for _, nc := range b.model.Nodes {
		n, err := b.registry.Instantiate(b.scene, nc.Type, nc.Name)
		if err != nil {
			b.errs = append(b.errs, located(nc.DeclRange, fmt.Errorf("node %q: %w", nc.Name, err)))
			continue
		}
		logger.Debug("Created node.", "type", nc.Type, "name", nc.Name)

		b.declare(n, n.Group, "", nc.Parameters, nc.Groups)
		b.built = append(b.built, builtNode{config: nc, node: n})
	}
	logger.Debug("Finished node creation pass.")
}

// declare adds parameters and nested groups under g. prefix is g's path
// relative to the node.
func (b *build) declare(n *node.Node, g *group.Group, prefix string, params []*config.Parameter, groups []*config.Group) {
	for _, pc := range params {
		path := join(prefix, pc.Name)
		if err := b.declareParameter(g, pc); err != nil {
			b.errs = append(b.errs, located(pc.DeclRange, fmt.Errorf("parameter %q of node %q: %w", path, n.Name(), err)))
			continue
		}
		if pc.Compute != nil || len(pc.DependsOn) > 0 {
			b.pending = append(b.pending, pendingParam{node: n, path: path, config: pc})
		}
	}

	for _, gc := range groups {
		var opts []group.Option
		if gc.Description != "" {
			opts = append(opts, group.WithDescription(gc.Description))
		}
		if gc.Hidden {
			opts = append(opts, group.Hidden())
		}
		sub, err := g.NewGroup(gc.Name, opts...)
		if err != nil {
			b.errs = append(b.errs, fmt.Errorf("group %q of node %q: %w", join(prefix, gc.Name), n.Name(), err))
			continue
		}
		b.declare(n, sub, join(prefix, gc.Name), gc.Parameters, gc.Groups)
	}
}

func (b *build) declareParameter(g *group.Group, pc *config.Parameter) error {
	typ, ok := b.registry.LookupType(pc.TypeName)
	if !ok {
		return fmt.Errorf("unknown parameter type %q", pc.TypeName)
	}
	pin, err := cell.ParsePin(pc.Pin)
	if err != nil {
		return err
	}
	mult, err := cell.ParseMultiplicity(pc.Multiplicity)
	if err != nil {
		return err
	}

	var opts []cell.Option
	if len(pc.Options) > 0 {
		opts = append(opts, cell.WithOptions(pc.Options...))
	}
	if pc.ReadOnly {
		opts = append(opts, cell.ReadOnly())
	}
	if pc.Hidden {
		opts = append(opts, cell.Hidden())
	}
	if pc.Description != "" {
		opts = append(opts, cell.WithDescription(pc.Description))
	}

	initial := cty.NilVal
	if pc.Value != nil {
		initial, err = cell.Coerce(pc.Name, typ, pc.Options, *pc.Value)
		if err != nil {
			return err
		}
	}
	_, err = g.NewCell(pc.Name, typ, initial, pin, mult, opts...)
	return err
}

// located prefixes err with the manifest position, when there is one.
func located(r hcl.Range, err error) error {
	if r.Filename == "" {
		return err
	}
	return fmt.Errorf("%s: %w", r, err)
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
