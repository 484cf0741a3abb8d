package group

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/graph"
	"github.com/vk/paramgraph/internal/paramerr"
	"github.com/zclconf/go-cty/cty"
)

func mustGroup(t *testing.T, name string) *Group {
	t.Helper()
	g, err := New(name)
	require.NoError(t, err)
	return g
}

func addFloat(t *testing.T, g *Group, name string, v float64) *cell.Cell {
	t.Helper()
	c, err := g.NewCell(name, cell.TypeFloat, cell.FloatVal(v), cell.PinNone, cell.ExactlyOne)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	g, err := New("Resolution", WithDescription("output size"), Hidden())
	require.NoError(t, err)
	assert.Equal(t, "Resolution", g.Name())
	assert.Equal(t, cell.TypeGroup, g.Type())
	assert.Equal(t, "output size", g.Description())
	assert.False(t, g.IsVisible())

	_, err = New("bad.name")
	assert.Error(t, err)
}

func TestAddChild(t *testing.T) {
	t.Run("keeps insertion order", func(t *testing.T) {
		g := mustGroup(t, "cam")
		addFloat(t, g, "zoom", 1)
		_, err := g.NewGroup("Resolution")
		require.NoError(t, err)
		addFloat(t, g, "aperture", 2)

		var names []string
		for _, e := range g.Children() {
			names = append(names, e.Name())
		}
		assert.Equal(t, []string{"zoom", "Resolution", "aperture"}, names)
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		g := mustGroup(t, "cam")
		addFloat(t, g, "zoom", 1)

		_, err := g.NewCell("zoom", cell.TypeInt, cty.NilVal, cell.PinNone, cell.ExactlyOne)
		assert.ErrorIs(t, err, paramerr.ErrDuplicateName)

		_, err = g.NewGroup("zoom")
		assert.ErrorIs(t, err, paramerr.ErrDuplicateName)
		assert.Equal(t, 1, g.Len())
	})

	t.Run("a cell has one owner", func(t *testing.T) {
		g1 := mustGroup(t, "a")
		g2 := mustGroup(t, "b")
		c := addFloat(t, g1, "x", 0)
		assert.Error(t, g2.AddCell(c))
	})

	t.Run("a group has one parent and cannot contain itself", func(t *testing.T) {
		root := mustGroup(t, "root")
		sub, err := root.NewGroup("sub")
		require.NoError(t, err)

		other := mustGroup(t, "other")
		assert.Error(t, other.AddGroup(sub))

		assert.Error(t, sub.AddGroup(root))
		assert.Error(t, root.AddGroup(root))
	})
}

func TestPath(t *testing.T) {
	cam := mustGroup(t, "cam")
	res, err := cam.NewGroup("Resolution")
	require.NoError(t, err)
	w, err := res.NewCell("Width", cell.TypeInt, cell.IntVal(640), cell.PinNone, cell.ExactlyOne)
	require.NoError(t, err)

	assert.Equal(t, "cam.Resolution", res.Path())
	assert.Equal(t, "cam.Resolution.Width", w.Path())
	assert.Same(t, cam, res.Parent())
}

func TestFind(t *testing.T) {
	cam := mustGroup(t, "cam")
	res, err := cam.NewGroup("Resolution")
	require.NoError(t, err)
	w, err := res.NewCell("Width", cell.TypeInt, cell.IntVal(640), cell.PinNone, cell.ExactlyOne)
	require.NoError(t, err)

	testCases := []struct {
		path  string
		want  Entry
		found bool
	}{
		{"Resolution", res, true},
		{"Resolution.Width", w, true},
		{"Resolution > Width", w, true},
		{"Resolution.Height", nil, false},
		{"Missing.Width", nil, false},
		{"Resolution.Width.Deeper", nil, false},
		{"", nil, false},
		{"Resolution..Width", nil, false},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			got, ok := cam.Find(tc.path)
			assert.Equal(t, tc.found, ok)
			if tc.found {
				assert.Same(t, tc.want, got)
			} else {
				assert.Nil(t, got)
			}
		})
	}

	c, ok := cam.Cell("Resolution.Width")
	require.True(t, ok)
	assert.Same(t, w, c)
	_, ok = cam.Cell("Resolution")
	assert.False(t, ok, "a group is not a cell")

	sub, ok := cam.SubGroup("Resolution")
	require.True(t, ok)
	assert.Same(t, res, sub)

	assert.Same(t, w, cam.MustCell("Resolution.Width"))
	assert.Panics(t, func() { cam.MustCell("nope") })
}

func TestValueAndSetValue(t *testing.T) {
	g := mustGroup(t, "n")
	addFloat(t, g, "gain", 1)

	require.NoError(t, g.SetValue("gain", cell.FloatVal(2)))
	v, err := g.Value("gain")
	require.NoError(t, err)
	assert.True(t, cell.FloatVal(2).RawEquals(v))

	_, err = g.Value("missing")
	assert.ErrorIs(t, err, paramerr.ErrNotFound)
	assert.ErrorIs(t, g.SetValue("missing", cell.FloatVal(1)), paramerr.ErrNotFound)
	assert.ErrorIs(t, g.SetValue("gain", cty.StringVal("loud")), paramerr.ErrTypeMismatch)
}

func TestWalk(t *testing.T) {
	g := mustGroup(t, "n")
	addFloat(t, g, "a", 0)
	sub, err := g.NewGroup("G")
	require.NoError(t, err)
	addFloat(t, sub, "b", 0)
	addFloat(t, g, "c", 0)

	var seen []string
	require.NoError(t, g.Walk(func(e Entry) error {
		seen = append(seen, e.Path())
		return nil
	}))
	assert.Equal(t, []string{"n.a", "n.G", "n.G.b", "n.c"}, seen)

	stop := errors.New("stop")
	count := 0
	err = g.Walk(func(Entry) error {
		count++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, count)

	var names []string
	for _, c := range g.Cells() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestBind(t *testing.T) {
	m := graph.New()
	g := mustGroup(t, "n")
	a := addFloat(t, g, "a", 0)
	sub, err := g.NewGroup("G")
	require.NoError(t, err)
	b := addFloat(t, sub, "b", 0)
	assert.Nil(t, a.Engine())

	g.Bind(m)
	assert.NotNil(t, a.Engine())
	assert.NotNil(t, b.Engine())
	assert.Equal(t, 2, m.Len())

	// Later additions are attached on arrival.
	late, err := sub.NewGroup("Late")
	require.NoError(t, err)
	c := addFloat(t, late, "c", 0)
	assert.NotNil(t, c.Engine())
	assert.Equal(t, 3, m.Len())
}

func TestRemoveChild(t *testing.T) {
	m := graph.New()
	g := mustGroup(t, "n")
	g.Bind(m)
	a := addFloat(t, g, "a", 0)
	sub, err := g.NewGroup("G")
	require.NoError(t, err)
	b := addFloat(t, sub, "b", 0)

	require.NoError(t, g.RemoveChild("a"))
	assert.Nil(t, a.Engine())
	assert.Equal(t, "a", a.Path())
	_, ok := g.Find("a")
	assert.False(t, ok)

	require.NoError(t, g.RemoveChild("G"))
	assert.Nil(t, b.Engine())
	assert.Nil(t, sub.Parent())
	assert.Zero(t, m.Len())

	assert.ErrorIs(t, g.RemoveChild("G"), paramerr.ErrNotFound)

	// The name is free again.
	addFloat(t, g, "a", 1)
}

func TestScenario_GroupIsolation(t *testing.T) {
	m := graph.New()
	root := mustGroup(t, "node")
	root.Bind(m)

	g1, err := root.NewGroup("G1")
	require.NoError(t, err)
	g2, err := root.NewGroup("G2")
	require.NoError(t, err)
	x1 := addFloat(t, g1, "x", 0)
	x2 := addFloat(t, g2, "x", 0)

	y2 := addFloat(t, g2, "y", 0)
	y2.SetCompute(func(in cell.Inputs) (cty.Value, error) { return in.Value("x") })
	require.NoError(t, m.AddDependency(x2, y2))
	_, err = y2.Value()
	require.NoError(t, err)

	require.NoError(t, root.SetValue("G1.x", cell.FloatVal(5)))
	assert.False(t, x2.Dirty())
	assert.False(t, y2.Dirty())
	assert.True(t, cell.FloatVal(0).RawEquals(x2.Peek()))
	assert.True(t, cell.FloatVal(5).RawEquals(x1.Peek()))
	assert.NotEqual(t, x1.Path(), x2.Path())
}

func TestScenario_DestroyCascades(t *testing.T) {
	m := graph.New()
	root := mustGroup(t, "node")
	root.Bind(m)

	g1, err := root.NewGroup("G1")
	require.NoError(t, err)
	g2, err := root.NewGroup("G2")
	require.NoError(t, err)
	x := addFloat(t, g1, "X", 2)
	z := addFloat(t, g2, "Z", 3)
	y := addFloat(t, g2, "Y", 0)

	var upstream [][]string
	y.SetCompute(func(in cell.Inputs) (cty.Value, error) {
		var names []string
		total := 0.0
		for _, u := range in.Upstream() {
			names = append(names, u.Path())
			f, _ := u.Peek().AsBigFloat().Float64()
			total += f
		}
		upstream = append(upstream, names)
		return cell.FloatVal(total), nil
	})
	require.NoError(t, m.AddDependency(x, y))
	require.NoError(t, m.AddDependency(z, y))

	v, err := y.Float()
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	require.NoError(t, x.SetFloat(4)) // Y now remembers X as a cause
	require.NoError(t, root.RemoveChild("G1"))

	deps, err := m.Dependencies(y)
	require.NoError(t, err)
	assert.Equal(t, []*cell.Cell{z}, deps)
	assert.NotContains(t, y.Causes(), x)

	require.NoError(t, z.SetFloat(10))
	v, err = y.Float()
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)
	assert.Equal(t, []string{"node.G2.Z"}, upstream[len(upstream)-1])

	// The destroyed cell is inert.
	require.NoError(t, x.SetFloat(100))
	assert.False(t, y.Dirty())
}
