// internal/nodeid/address.go
package nodeid

import (
	"slices"
	"strings"
)

// Address is the structured representation of a parameter path, broken into
// segments from the outermost container inwards.
type Address struct {
	Path []string
}

// New builds an address from already validated segments.
func New(segments ...string) *Address {
	return &Address{Path: slices.Clone(segments)}
}

// String serializes the Address into its canonical dotted form.
func (a *Address) String() string {
	if a == nil {
		return ""
	}
	return strings.Join(a.Path, ".")
}

// Equal checks for equality between two Address pointers.
func (a *Address) Equal(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return slices.Equal(a.Path, other.Path)
}

// First returns the outermost segment.
func (a *Address) First() string {
	if a == nil || len(a.Path) == 0 {
		return ""
	}
	return a.Path[0]
}

// Last returns the innermost segment.
func (a *Address) Last() string {
	if a == nil || len(a.Path) == 0 {
		return ""
	}
	return a.Path[len(a.Path)-1]
}

// Rest returns the address without its first segment, or nil when nothing
// is left.
func (a *Address) Rest() *Address {
	if a == nil || len(a.Path) < 2 {
		return nil
	}
	return New(a.Path[1:]...)
}

// Parent returns the address without its last segment, or nil for a
// single-segment address.
func (a *Address) Parent() *Address {
	if a == nil || len(a.Path) < 2 {
		return nil
	}
	return New(a.Path[:len(a.Path)-1]...)
}

// Child returns a new address with name appended.
func (a *Address) Child(name string) *Address {
	if a == nil {
		return New(name)
	}
	return New(append(slices.Clone(a.Path), name)...)
}
