package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/paramgraph/internal/app"
	"github.com/vk/paramgraph/internal/node"
	"github.com/vk/paramgraph/internal/paramerr"
	"github.com/vk/paramgraph/internal/registry"
	"github.com/vk/paramgraph/internal/testutil"
	"github.com/vk/paramgraph/modules/multiplier"
	"github.com/vk/paramgraph/modules/resolution"
)

// TestComputeFailure_IsReported checks that a failing compute function is
// reported for its path while the other paths still print.
func TestComputeFailure_IsReported(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": `
node "resolution" "cam" {
  values = { Resolution = { Height = 0 } }
}

node "multiplier" "m" {
  values = { input = 2 }
}
`,
	}

	result := testutil.RunIntegrationTest(t, files, app.Config{Eval: []string{"cam.aspect", "m.output"}})

	require.ErrorIs(t, result.Err, paramerr.ErrComputeFailure)
	require.ErrorContains(t, result.Err, "height is zero")
	require.Contains(t, result.Output, "# cam.aspect: ")
	require.Contains(t, result.Output, "m.output = 2\n")
}

// TestEval_UnknownPath is reported as not found.
func TestEval_UnknownPath(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": `
node "multiplier" "m" {}
`,
	}

	result := testutil.RunIntegrationTest(t, files, app.Config{Eval: []string{"m.missing"}})

	require.ErrorIs(t, result.Err, paramerr.ErrNotFound)
	require.Contains(t, result.Output, "# m.missing: not found\n")
}

// loopedModule registers a node type whose own parameters form a cycle.
type loopedModule struct{}

func (loopedModule) Register(r *registry.Registry) {
	r.RegisterNode("looped", func(n *node.Node) error {
		if err := multiplier.Setup(n); err != nil {
			return err
		}
		return n.AddDependency("output", "input")
	})
}

// TestBrokenNodeType_PanicsAtStartup checks that registry validation refuses
// node types that can never evaluate.
func TestBrokenNodeType_PanicsAtStartup(t *testing.T) {
	t.Parallel()

	result := testutil.RunIntegrationTest(t, nil, app.Config{}, &resolution.Module{}, loopedModule{})

	require.Error(t, result.Err)
	require.ErrorContains(t, result.Err, "application startup panicked")
	require.ErrorContains(t, result.Err, "node type 'looped'")
	require.Nil(t, result.App)
}
