package builder

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/ctxlog"
	"github.com/vk/paramgraph/internal/paramerr"
	"github.com/zclconf/go-cty/cty"
)

// applyValues performs the third pass, writing `values` overrides.
func (b *build) applyValues(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting value override pass.")

	for _, bn := range b.built {
		paths := make([]string, 0, len(bn.config.Values))
		for path := range bn.config.Values {
			paths = append(paths, path)
		}
		sort.Strings(paths)

		for _, path := range paths {
			c, err := bn.node.Param(path)
			if err == nil {
				err = Override(c, bn.config.Values[path])
			}
			if err != nil {
				b.errs = append(b.errs, located(bn.config.DeclRange, fmt.Errorf("values of node %q: %w", bn.node.Name(), err)))
				continue
			}
			logger.Debug("Applied value override.", "parameter", c.Path())
		}
	}
}

// Override writes a user-supplied value to c, converting it to c's type.
// Read-only and computed parameters refuse it.
func Override(c *cell.Cell, v cty.Value) error {
	if c.IsReadOnly() {
		return paramerr.ReadOnly(c.Path())
	}
	if c.HasCompute() {
		return fmt.Errorf("parameter %q is computed and cannot be set", c.Path())
	}
	cv, err := cell.Coerce(c.Path(), c.Type(), c.Options(), v)
	if err != nil {
		return err
	}
	return c.Set(cv)
}
