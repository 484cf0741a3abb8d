package registry

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/node"
	"github.com/vk/paramgraph/internal/scene"
)

// CustomType is the node type with no parameters of its own. Manifests use
// it to declare every parameter themselves.
const CustomType = "custom"

// Module is the interface that all node modules must implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Setup populates a freshly created node with its parameters, dependencies
// and hooks. The node is already bound to its scene's graph.
type Setup func(n *node.Node) error

// Registry holds the node types and parameter type names known to a single
// application instance.
type Registry struct {
	nodes map[string]Setup
	types map[string]cell.Type
}

// New creates a registry that knows the built-in parameter types, the
// "number" alias for float, and the custom node type.
func New() *Registry {
	r := &Registry{
		nodes: make(map[string]Setup),
		types: cell.BuiltinTypes(),
	}
	delete(r.types, cell.TypeGroup.String())
	r.types["number"] = cell.TypeFloat
	r.RegisterNode(CustomType, func(*node.Node) error { return nil })
	return r
}

// RegisterNode registers the setup function of a node type.
func (r *Registry) RegisterNode(typeName string, setup Setup) {
	if _, exists := r.nodes[typeName]; exists {
		panic(fmt.Sprintf("node type '%s' already registered", typeName))
	}
	slog.Debug("Registering node type.", "type", typeName)
	r.nodes[typeName] = setup
}

// RegisterType adds a parameter type name.
func (r *Registry) RegisterType(name string, t cell.Type) {
	if _, exists := r.types[name]; exists {
		panic(fmt.Sprintf("parameter type '%s' already registered", name))
	}
	slog.Debug("Registering parameter type.", "name", name, "type", t)
	r.types[name] = t
}

// LookupType resolves a parameter type name.
func (r *Registry) LookupType(name string) (cell.Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

// NodeTypes returns the registered node type names, sorted.
func (r *Registry) NodeTypes() []string {
	out := make([]string, 0, len(r.nodes))
	for name := range r.nodes {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Instantiate creates a node of the given type in s. A node whose setup fails
// is removed again.
func (r *Registry) Instantiate(s *scene.Scene, typeName, name string) (*node.Node, error) {
	setup, ok := r.nodes[typeName]
	if !ok {
		return nil, fmt.Errorf("unknown node type %q", typeName)
	}
	n, err := node.New(typeName, name)
	if err != nil {
		return nil, err
	}
	if err := s.AddNode(n); err != nil {
		return nil, err
	}
	if err := setup(n); err != nil {
		_ = s.RemoveNode(name)
		return nil, fmt.Errorf("setting up %s node %q: %w", typeName, name, err)
	}
	return n, nil
}
