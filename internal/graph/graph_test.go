package graph

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/paramerr"
	"github.com/zclconf/go-cty/cty"
)

// floatCell creates a float cell attached to m.
func floatCell(t *testing.T, m *Manager, name string, v float64) *cell.Cell {
	t.Helper()
	c, err := cell.New(name, cell.TypeFloat, cell.FloatVal(v), cell.PinNone, cell.ExactlyOne)
	require.NoError(t, err)
	m.Attach(c)
	return c
}

func TestAttach(t *testing.T) {
	m := New()
	c := floatCell(t, m, "x", 1)
	assert.Equal(t, 1, m.Len())
	assert.Same(t, m, c.Engine().(*Manager))
	assert.False(t, c.Dirty())

	computed, err := cell.New("y", cell.TypeFloat, cty.NilVal, cell.PinNone, cell.ExactlyOne)
	require.NoError(t, err)
	computed.SetCompute(func(cell.Inputs) (cty.Value, error) { return cell.FloatVal(2), nil })
	computed.ClearDirty()
	m.Attach(computed)
	assert.True(t, computed.Dirty(), "computed cells start dirty once attached")
}

func TestAddDependency(t *testing.T) {
	t.Run("invalidates the target", func(t *testing.T) {
		m := New()
		a := floatCell(t, m, "a", 3)
		b := floatCell(t, m, "b", 0)
		b.SetCompute(func(in cell.Inputs) (cty.Value, error) { return in.Value("a") })
		b.ClearDirty()

		require.NoError(t, m.AddDependency(a, b))
		assert.True(t, b.Dirty())
		assert.Equal(t, []*cell.Cell{a}, b.Causes())

		v, err := b.Float()
		require.NoError(t, err)
		assert.Equal(t, 3.0, v)
	})

	t.Run("rejects self dependency", func(t *testing.T) {
		m := New()
		a := floatCell(t, m, "a", 0)
		assert.ErrorIs(t, m.AddDependency(a, a), paramerr.ErrSelfDependency)
	})

	t.Run("rejects detached cells", func(t *testing.T) {
		m := New()
		a := floatCell(t, m, "a", 0)
		loose, err := cell.New("loose", cell.TypeFloat, cty.NilVal, cell.PinNone, cell.ExactlyOne)
		require.NoError(t, err)
		assert.Error(t, m.AddDependency(loose, a))
	})
}

func TestRemoveDependency(t *testing.T) {
	m := New()
	a := floatCell(t, m, "a", 1)
	b := floatCell(t, m, "b", 0)
	b.SetCompute(func(in cell.Inputs) (cty.Value, error) {
		return cty.NumberIntVal(int64(len(in.Upstream()))), nil
	})
	require.NoError(t, m.AddDependency(a, b))
	v, err := b.Float()
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	assert.True(t, m.RemoveDependency(a, b))
	assert.False(t, m.RemoveDependency(a, b))
	v, err = b.Float()
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestDetach(t *testing.T) {
	m := New()
	x := floatCell(t, m, "x", 1)
	y := floatCell(t, m, "y", 0)
	y.SetCompute(func(in cell.Inputs) (cty.Value, error) { return cell.FloatVal(float64(len(in.Upstream()))), nil })
	require.NoError(t, m.AddDependency(x, y))

	m.Detach(x)
	assert.Nil(t, x.Engine())
	assert.Equal(t, 1, m.Len())

	deps, err := m.Dependencies(y)
	require.NoError(t, err)
	assert.Empty(t, deps)

	// x is now a plain variable; writing it no longer reaches y.
	_, err = y.Value()
	require.NoError(t, err)
	require.NoError(t, x.SetFloat(9))
	assert.False(t, y.Dirty())

	m.Detach(x) // not attached any more
}

func TestSubscribe(t *testing.T) {
	m := New()
	a := floatCell(t, m, "a", 1)
	b := floatCell(t, m, "b", 0)
	b.SetCompute(func(in cell.Inputs) (cty.Value, error) { return in.Value("a") })
	require.NoError(t, m.AddDependency(a, b))

	var got []string
	cancel := m.Subscribe(func(c *cell.Cell) {
		// Propagation has already happened.
		assert.True(t, b.Dirty())
		got = append(got, c.Name())
	})

	_, err := b.Value()
	require.NoError(t, err)
	require.NoError(t, a.SetFloat(2))
	require.NoError(t, a.SetFloat(2)) // unchanged, no notification
	assert.Equal(t, []string{"a"}, got)

	cancel()
	require.NoError(t, a.SetFloat(3))
	assert.Equal(t, []string{"a"}, got)
}

func TestSubscribe_CancelDuringNotify(t *testing.T) {
	m := New()
	a := floatCell(t, m, "a", 1)

	calls := 0
	var cancel func()
	cancel = m.Subscribe(func(*cell.Cell) {
		calls++
		cancel()
	})
	other := 0
	m.Subscribe(func(*cell.Cell) { other++ })

	require.NoError(t, a.SetFloat(2))
	require.NoError(t, a.SetFloat(3))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, other)
}

func TestWritable_RejectsReentrantWrite(t *testing.T) {
	m := New()
	a := floatCell(t, m, "a", 1)
	b := floatCell(t, m, "b", 0)
	require.NoError(t, m.AddDependency(a, b))

	var writeErr error
	b.SetCompute(func(in cell.Inputs) (cty.Value, error) {
		writeErr = in.Target().SetFloat(42)
		return in.Value("a")
	})

	v, err := b.Float()
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	require.ErrorIs(t, writeErr, paramerr.ErrCyclicDependency)
	assert.ErrorContains(t, writeErr, "b -> b")
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m := New(WithLogger(logger))
	a := floatCell(t, m, "a", 1)
	b := floatCell(t, m, "b", 0)
	require.NoError(t, m.AddDependency(a, b))
	require.NoError(t, a.SetFloat(2))

	assert.Contains(t, buf.String(), "AddDependency: edge added.")
	assert.Contains(t, buf.String(), "Changed: propagated.")
}

func TestDetectCycles(t *testing.T) {
	m := New()
	a := floatCell(t, m, "a", 0)
	b := floatCell(t, m, "b", 0)
	require.NoError(t, m.AddDependency(a, b))
	assert.NoError(t, m.DetectCycles())

	require.NoError(t, m.AddDependency(b, a))
	assert.ErrorIs(t, m.DetectCycles(), paramerr.ErrCyclicDependency)
}

func TestOnDetach(t *testing.T) {
	m := New()
	x := floatCell(t, m, "x", 1)
	var seen []*cell.Cell
	m.OnDetach(func(c *cell.Cell) {
		assert.Nil(t, c.Engine())
		seen = append(seen, c)
	})

	m.Detach(x)
	m.Detach(x)
	assert.Equal(t, []*cell.Cell{x}, seen)
}
