package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/paramerr"
	"github.com/zclconf/go-cty/cty"
)

// product multiplies the float values of every upstream cell and counts
// its invocations.
func product(calls *int) cell.ComputeFunc {
	return func(in cell.Inputs) (cty.Value, error) {
		*calls++
		out := 1.0
		for _, u := range in.Upstream() {
			f, _ := u.Peek().AsBigFloat().Float64()
			out *= f
		}
		return cell.FloatVal(out), nil
	}
}

func TestScenario_Multiplier(t *testing.T) {
	m := New()
	input := floatCell(t, m, "input", 4)
	multi := floatCell(t, m, "multi", 2.5)
	output := floatCell(t, m, "output", 0)

	calls := 0
	output.SetCompute(product(&calls))
	require.NoError(t, m.AddDependency(input, output))
	require.NoError(t, m.AddDependency(multi, output))

	v, err := output.Float()
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)

	require.NoError(t, input.SetFloat(6))
	assert.True(t, output.Dirty())

	v, err = output.Float()
	require.NoError(t, err)
	assert.Equal(t, 15.0, v)
	assert.Equal(t, 2, calls)
}

func TestScenario_Diamond(t *testing.T) {
	m := New()
	a := floatCell(t, m, "A", 2)
	b := floatCell(t, m, "B", 0)
	c := floatCell(t, m, "C", 0)
	d := floatCell(t, m, "D", 0)

	var order []string
	track := func(name string, next cell.ComputeFunc) cell.ComputeFunc {
		return func(in cell.Inputs) (cty.Value, error) {
			order = append(order, name)
			return next(in)
		}
	}
	var bc, cc, dc int
	b.SetCompute(track("B", product(&bc)))
	c.SetCompute(track("C", product(&cc)))
	d.SetCompute(track("D", product(&dc)))
	require.NoError(t, m.AddDependency(a, b))
	require.NoError(t, m.AddDependency(a, c))
	require.NoError(t, m.AddDependency(b, d))
	require.NoError(t, m.AddDependency(c, d))

	_, err := d.Value()
	require.NoError(t, err)
	order = nil

	var notified []string
	m.Subscribe(func(c *cell.Cell) { notified = append(notified, c.Name()) })

	require.NoError(t, a.SetFloat(3))
	assert.True(t, b.Dirty())
	assert.True(t, c.Dirty())
	assert.True(t, d.Dirty())
	assert.Equal(t, []*cell.Cell{b, c}, d.Causes(), "D is reached through both paths but marked once")

	v, err := d.Float()
	require.NoError(t, err)
	assert.Equal(t, 9.0, v)
	assert.Equal(t, []string{"B", "C", "D"}, order)
	assert.Equal(t, 2, dc)
	assert.Equal(t, []string{"A"}, notified)
}

func TestScenario_Laziness(t *testing.T) {
	m := New()
	a := floatCell(t, m, "A", 1)
	b := floatCell(t, m, "B", 0)
	calls := 0
	b.SetCompute(product(&calls))
	require.NoError(t, m.AddDependency(a, b))

	for i := 2; i <= 100; i++ {
		require.NoError(t, a.SetFloat(float64(i)))
	}
	assert.Zero(t, calls)

	v, err := b.Float()
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)
	assert.Equal(t, 1, calls)
}

func TestScenario_IdempotentNoOp(t *testing.T) {
	m := New()
	a := floatCell(t, m, "A", 5)
	b := floatCell(t, m, "B", 0)
	calls := 0
	b.SetCompute(product(&calls))
	require.NoError(t, m.AddDependency(a, b))
	_, err := b.Value()
	require.NoError(t, err)

	changes := 0
	a.SetChange(func(cell.Change) { changes++ })
	require.NoError(t, a.SetFloat(5))
	assert.False(t, b.Dirty())
	assert.Zero(t, changes)

	_, err = b.Value()
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestScenario_Cycle(t *testing.T) {
	m := New()
	a := floatCell(t, m, "A", 1)
	b := floatCell(t, m, "B", 2)
	c := floatCell(t, m, "C", 3)

	calls := 0
	for _, x := range []*cell.Cell{a, b, c} {
		x.SetCompute(product(&calls))
	}
	require.NoError(t, m.AddDependency(a, b))
	require.NoError(t, m.AddDependency(b, c))
	require.NoError(t, m.AddDependency(c, a))

	v, err := a.Value()
	require.ErrorIs(t, err, paramerr.ErrCyclicDependency)
	assert.True(t, cell.FloatVal(1).RawEquals(v))
	assert.True(t, cell.FloatVal(2).RawEquals(b.Peek()))
	assert.True(t, cell.FloatVal(3).RawEquals(c.Peek()))
	assert.Zero(t, calls)

	// Every read keeps failing the same way.
	_, err = b.Value()
	assert.ErrorIs(t, err, paramerr.ErrCyclicDependency)
}
