// Package env_vars provides the "env_vars" node, which exposes an
// environment variable as an output pin.
package env_vars

import (
	"os"

	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/node"
	"github.com/vk/paramgraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Setup declares the parameters of an env_vars node. The variable is read
// whenever value is resolved after name or fallback changed.
func Setup(n *node.Node) error {
	if _, err := n.AddParameter("name", cell.TypeString, cell.StringVal(""), cell.PinInput, cell.ExactlyOne); err != nil {
		return err
	}
	if _, err := n.AddParameter("fallback", cell.TypeString, cell.StringVal(""), cell.PinInput, cell.ExactlyOne); err != nil {
		return err
	}
	if _, err := n.AddParameter("value", cell.TypeString, cty.NilVal, cell.PinOutput, cell.ExactlyOne, cell.ReadOnly()); err != nil {
		return err
	}
	if err := n.AddDependency("name", "value"); err != nil {
		return err
	}
	if err := n.AddDependency("fallback", "value"); err != nil {
		return err
	}
	return n.SetComputeFunction("value", lookup)
}

func lookup(in cell.Inputs) (cty.Value, error) {
	name, err := in.Value("name")
	if err != nil {
		return cty.NilVal, err
	}
	if v, ok := os.LookupEnv(name.AsString()); ok && name.AsString() != "" {
		return cty.StringVal(v), nil
	}
	return in.Value("fallback")
}

// Register registers the node type with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNode("env_vars", Setup)
}
