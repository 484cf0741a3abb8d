package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/paramgraph/internal/ctxlog"
	"github.com/vk/paramgraph/internal/scene"
)

// ValidateRegistry instantiates every node type in a scratch scene and checks
// that its graph is acyclic and that every parameter resolves with the
// defaults it was given.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, typeName := range r.NodeTypes() {
		s := scene.New()
		n, err := r.Instantiate(s, typeName, "probe")
		if err != nil {
			errs = append(errs, fmt.Sprintf("node type '%s': %v", typeName, err))
			continue
		}
		if err := s.Graph().DetectCycles(); err != nil {
			errs = append(errs, fmt.Sprintf("node type '%s': %v", typeName, err))
			continue
		}
		for _, c := range n.Cells() {
			if _, err := c.Value(); err != nil {
				errs = append(errs, fmt.Sprintf("node type '%s', parameter '%s': %v", typeName, c.Path(), err))
			}
		}
		logger.Debug("Node type validated.", "type", typeName, "parameters", len(n.Cells()))
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
