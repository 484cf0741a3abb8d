package paramerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := TypeMismatch("node.width", "expected int, got %s", "string")
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.NotErrorIs(t, err, ErrComputeFailure)
	assert.Equal(t, `type mismatch at "node.width": expected int, got string`, err.Error())
}

func TestComputeFailure_WrapsCause(t *testing.T) {
	cause := errors.New("resource unavailable")
	err := ComputeFailure("cam.image", cause)

	assert.ErrorIs(t, err, ErrComputeFailure)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "resource unavailable")

	wrapped := fmt.Errorf("reading: %w", err)
	var perr *Error
	require.True(t, errors.As(wrapped, &perr))
	assert.Equal(t, "cam.image", perr.Path)
}

func TestCyclic_FormatsPath(t *testing.T) {
	err := Cyclic([]string{"a", "c", "b"}, "a")
	assert.ErrorIs(t, err, ErrCyclicDependency)
	assert.Contains(t, err.Error(), "cycle: a -> c -> b -> a")
}

func TestJoin(t *testing.T) {
	assert.NoError(t, Join("validation failed", nil))

	a := NotFound("x")
	b := ReadOnly("y")
	err := Join("validation failed", []error{a, b})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.Equal(t, "validation failed:\n- not found at \"x\"\n- read-only parameter at \"y\"", err.Error())
}
