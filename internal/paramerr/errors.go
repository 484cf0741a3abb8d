// Package paramerr defines the error taxonomy shared by the parameter graph
// packages. Every error carries a sentinel Kind so callers can branch with
// errors.Is, and the path of the parameter involved so messages point at
// something a user can find.
package paramerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTypeMismatch is returned when a value is incompatible with a cell's type.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrSelfDependency is returned when an edge would connect a cell to itself.
	ErrSelfDependency = errors.New("self dependency")
	// ErrDuplicateName is returned when a group already has a child with the same name.
	ErrDuplicateName = errors.New("duplicate name")
	// ErrCyclicDependency is returned when resolution re-enters a cell already on the stack.
	ErrCyclicDependency = errors.New("cyclic dependency")
	// ErrComputeFailure wraps any error raised by a compute function.
	ErrComputeFailure = errors.New("compute failure")

	// ErrNotFound is used by outer layers (manifests, CLI) for missing parameters.
	ErrNotFound = errors.New("not found")
	// ErrReadOnly is used by outer layers that refuse to override read-only parameters.
	ErrReadOnly = errors.New("read-only parameter")
)

// Error is the concrete error type for every failure in the taxonomy.
type Error struct {
	Kind error
	Path string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(e.Kind.Error())
	if e.Path != "" {
		fmt.Fprintf(&sb, " at %q", e.Path)
	}
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Is reports whether target is the error's kind. The wrapped cause is
// reachable through Unwrap, so errors.Is matches both.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error { return e.Err }

// TypeMismatch builds an ErrTypeMismatch error.
func TypeMismatch(path, format string, args ...any) error {
	return &Error{Kind: ErrTypeMismatch, Path: path, Msg: fmt.Sprintf(format, args...)}
}

// SelfDependency builds an ErrSelfDependency error.
func SelfDependency(path string) error {
	return &Error{Kind: ErrSelfDependency, Path: path, Msg: "a parameter cannot affect itself"}
}

// DuplicateName builds an ErrDuplicateName error.
func DuplicateName(groupPath, name string) error {
	return &Error{Kind: ErrDuplicateName, Path: groupPath, Msg: fmt.Sprintf("child %q already exists", name)}
}

// Cyclic builds an ErrCyclicDependency error from the resolution stack.
func Cyclic(stack []string, repeated string) error {
	path := append(append([]string{}, stack...), repeated)
	return &Error{Kind: ErrCyclicDependency, Path: repeated, Msg: "cycle: " + strings.Join(path, " -> ")}
}

// ComputeFailure wraps err as the failure of path's compute function.
func ComputeFailure(path string, err error) error {
	return &Error{Kind: ErrComputeFailure, Path: path, Err: err}
}

// NotFound builds an ErrNotFound error.
func NotFound(path string) error {
	return &Error{Kind: ErrNotFound, Path: path}
}

// ReadOnly builds an ErrReadOnly error.
func ReadOnly(path string) error {
	return &Error{Kind: ErrReadOnly, Path: path}
}

// Join formats several errors as a single bulleted error, or returns nil.
func Join(prefix string, errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return &joined{msg: fmt.Sprintf("%s:\n- %s", prefix, strings.Join(msgs, "\n- ")), errs: errs}
}

type joined struct {
	msg  string
	errs []error
}

func (j *joined) Error() string   { return j.msg }
func (j *joined) Unwrap() []error { return j.errs }
