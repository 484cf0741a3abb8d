// Package multiplier provides the "multiplier" node: output = input * multi.
package multiplier

import (
	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/node"
	"github.com/vk/paramgraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Setup declares the parameters of a multiplier node.
func Setup(n *node.Node) error {
	if _, err := n.AddParameter("input", cell.TypeFloat, cell.FloatVal(0), cell.PinInput, cell.ExactlyOne); err != nil {
		return err
	}
	if _, err := n.AddParameter("multi", cell.TypeFloat, cell.FloatVal(1), cell.PinInput, cell.ExactlyOne); err != nil {
		return err
	}
	if _, err := n.AddParameter("output", cell.TypeFloat, cty.NilVal, cell.PinOutput, cell.ExactlyOne, cell.ReadOnly()); err != nil {
		return err
	}
	if err := n.AddDependency("input", "output"); err != nil {
		return err
	}
	if err := n.AddDependency("multi", "output"); err != nil {
		return err
	}
	return n.SetComputeFunction("output", multiply)
}

func multiply(in cell.Inputs) (cty.Value, error) {
	a, err := in.Value("input")
	if err != nil {
		return cty.NilVal, err
	}
	b, err := in.Value("multi")
	if err != nil {
		return cty.NilVal, err
	}
	return a.Multiply(b), nil
}

// Register registers the node type with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNode("multiplier", Setup)
}
