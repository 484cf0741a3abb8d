package hcl

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/paramgraph/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// param wraps attribute lines in a single parameter block of node "n".
func param(lines ...string) string {
	return "node \"custom\" \"n\" {\n  parameter \"x\" {\n    " + strings.Join(lines, "\n    ") + "\n  }\n}\n"
}

const rigManifest = `
node "custom" "rig" {
  values = {
    base       = 2
    Resolution = { Width = 800 }
  }

  parameter "base" {
    type        = float
    value       = 1.5
    description = "base scale"
  }

  group "Resolution" {
    parameter "Width" {
      type = int
      value = 1920
    }
    parameter "Height" {
      type      = int
      value     = 1080
      read_only = true
    }
  }

  parameter "aspect" {
    type       = float
    pin        = "output"
    depends_on = ["Resolution.Width", "Resolution.Height"]
    compute    = Resolution.Width / Resolution.Height
  }

  parameter "mode" {
    type         = enum("fast", "exact")
    value        = "fast"
    pin          = "input"
    multiplicity = "one_or_more"
  }
}

link {
  from = "a.output"
  to   = "rig.base"
}
`

func TestLoadSource(t *testing.T) {
	m, err := NewLoader().LoadSource(testContext(), "rig.hcl", []byte(rigManifest))
	require.NoError(t, err)
	require.Len(t, m.Nodes, 1)

	n := m.Nodes[0]
	assert.Equal(t, "custom", n.Type)
	assert.Equal(t, "rig", n.Name)
	require.Len(t, n.Values, 2)
	assert.True(t, cty.NumberIntVal(2).RawEquals(n.Values["base"]))
	assert.True(t, cty.NumberIntVal(800).RawEquals(n.Values["Resolution.Width"]))

	require.Len(t, n.Parameters, 3)
	base := n.Parameters[0]
	assert.Equal(t, "base", base.Name)
	assert.Equal(t, "float", base.TypeName)
	assert.Equal(t, "base scale", base.Description)
	require.NotNil(t, base.Value)
	assert.True(t, cty.NumberFloatVal(1.5).RawEquals(*base.Value))
	assert.Nil(t, base.Compute)

	aspect := n.Parameters[1]
	assert.Nil(t, aspect.Value)
	assert.NotNil(t, aspect.Compute)
	assert.Equal(t, "output", aspect.Pin)
	assert.Equal(t, []string{"Resolution.Width", "Resolution.Height"}, aspect.DependsOn)

	mode := n.Parameters[2]
	assert.Equal(t, "enum", mode.TypeName)
	assert.Equal(t, []string{"fast", "exact"}, mode.Options)
	assert.Equal(t, "one_or_more", mode.Multiplicity)

	require.Len(t, n.Groups, 1)
	res := n.Groups[0]
	assert.Equal(t, "Resolution", res.Name)
	require.Len(t, res.Parameters, 2)
	assert.False(t, res.Parameters[0].ReadOnly)
	assert.True(t, res.Parameters[1].ReadOnly)

	require.Len(t, m.Links, 1)
	assert.Equal(t, "a.output", m.Links[0].From)
	assert.Equal(t, "rig.base", m.Links[0].To)

	got, ok := m.Node("rig")
	require.True(t, ok)
	assert.Same(t, n, got)
}

func TestLoadSource_Errors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		msg  string
	}{
		{
			name: "syntax error",
			src:  `node "a" {`,
			msg:  "failed to parse HCL file",
		},
		{
			name: "missing type",
			src:  param("value = 1"),
			msg:  "failed to decode HCL file",
		},
		{
			name: "unknown type constructor",
			src:  param("type = list(int)"),
			msg:  `unknown type constructor function "list"`,
		},
		{
			name: "empty enum",
			src:  param("type = enum()"),
			msg:  "requires at least one option",
		},
		{
			name: "repeated enum option",
			src:  param(`type = enum("a", "a")`),
			msg:  `enum option "a" is repeated`,
		},
		{
			name: "non literal enum option",
			src:  param("type = enum(a)"),
			msg:  "enum options must be string literals",
		},
		{
			name: "values not an object",
			src:  `node "custom" "n" { values = 3 }`,
			msg:  "The values attribute must be an object",
		},
		{
			name: "value referencing a variable",
			src:  param("type = int", "value = other"),
			msg:  "failed to decode HCL file",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader().LoadSource(testContext(), "bad.hcl", []byte(tc.src))
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.msg)
		})
	}
}

func TestLoad_WalksPaths(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), []byte(`node "multiplier" "a" {}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "b.hcl"), []byte(`node "multiplier" "b" {}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`not hcl`), 0o644))

	m, err := NewLoader().Load(testContext(),
		dir,
		filepath.Join(dir, "a.hcl"), // already covered by dir
		filepath.Join(dir, "missing"),
	)
	require.NoError(t, err)

	var names []string
	for _, n := range m.Nodes {
		names = append(names, n.Name)
	}
	assert.ElementsMatch(t, []string{"a", "b"}, names)
}

func TestTypeExprToTypeName(t *testing.T) {
	for _, kw := range []string{"int", "float", "number", "bool", "string", "opaque"} {
		m, err := NewLoader().LoadSource(testContext(), "t.hcl", []byte(param("type = "+kw)))
		require.NoError(t, err, kw)
		assert.Equal(t, kw, m.Nodes[0].Parameters[0].TypeName)
		assert.Empty(t, m.Nodes[0].Parameters[0].Options)
	}
}
