// Package print provides the "print" node, which logs its input every time
// the input changes while the scene runs, whether written directly or
// through a link.
package print

import (
	"context"

	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/ctxlog"
	"github.com/vk/paramgraph/internal/node"
	"github.com/vk/paramgraph/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Setup declares the parameters and hooks of a print node.
func Setup(n *node.Node) error {
	if _, err := n.AddParameter("label", cell.TypeString, cell.StringVal(""), cell.PinNone, cell.ExactlyOne); err != nil {
		return err
	}
	value, err := n.AddParameter("value", cell.TypeString, cell.StringVal(""), cell.PinInput, cell.OneOrMore)
	if err != nil {
		return err
	}

	var cancel func()
	n.OnStart(func(ctx context.Context, _ node.PostFunc) error {
		logger := ctxlog.FromContext(ctx).With("node", n.Name())
		show := func() {
			label, _ := n.Text("label")
			v, err := value.Text()
			if err != nil {
				logger.Warn("Print input failed to resolve.", "label", label, "error", err)
				return
			}
			logger.Info("Printing value.", "label", label, "value", v)
		}
		show()
		// Notifications arrive after propagation: a direct write names the
		// input itself, a write upstream leaves it dirty.
		cancel = n.Graph().Subscribe(func(c *cell.Cell) {
			if c == value || value.Dirty() {
				show()
			}
		})
		return nil
	})
	n.OnStop(func() error {
		if cancel != nil {
			cancel()
			cancel = nil
		}
		return nil
	})
	return nil
}

// Register registers the node type with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNode("print", Setup)
}
