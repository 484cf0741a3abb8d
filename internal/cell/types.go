package cell

import (
	"fmt"
	"strings"
)

// Type is the declared type tag of a parameter.
type Type int

const (
	// TypeInt holds whole numbers.
	TypeInt Type = iota + 1
	// TypeFloat holds any number. Int values are widened on assignment.
	TypeFloat
	// TypeBool holds true or false.
	TypeBool
	// TypeString holds free text.
	TypeString
	// TypeEnum holds one of a fixed set of strings.
	TypeEnum
	// TypeGroup tags parameter groups. No cell ever has this type.
	TypeGroup
	// TypeOpaque holds an external resource the graph only passes around.
	TypeOpaque
)

var typeNames = map[Type]string{
	TypeInt:    "int",
	TypeFloat:  "float",
	TypeBool:   "bool",
	TypeString: "string",
	TypeEnum:   "enum",
	TypeGroup:  "group",
	TypeOpaque: "opaque",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// BuiltinTypes returns the canonical name of every type tag.
func BuiltinTypes() map[string]Type {
	out := make(map[string]Type, len(typeNames))
	for t, name := range typeNames {
		out[name] = t
	}
	return out
}

// Pin is the connection direction of a parameter on its node.
type Pin int

const (
	PinNone Pin = iota
	PinInput
	PinOutput
)

func (p Pin) String() string {
	switch p {
	case PinInput:
		return "input"
	case PinOutput:
		return "output"
	default:
		return "none"
	}
}

// ParsePin accepts "", "none", "input" and "output".
func ParsePin(s string) (Pin, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return PinNone, nil
	case "input", "in":
		return PinInput, nil
	case "output", "out":
		return PinOutput, nil
	}
	return PinNone, fmt.Errorf("invalid pin direction %q: must be 'none', 'input' or 'output'", s)
}

// Multiplicity is how many connections an input pin accepts.
type Multiplicity int

const (
	ExactlyOne Multiplicity = iota
	OneOrMore
)

func (m Multiplicity) String() string {
	if m == OneOrMore {
		return "one_or_more"
	}
	return "exactly_one"
}

// ParseMultiplicity accepts "", "one", "exactly_one", "many" and "one_or_more".
func ParseMultiplicity(s string) (Multiplicity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "one", "exactly_one":
		return ExactlyOne, nil
	case "many", "one_or_more":
		return OneOrMore, nil
	}
	return ExactlyOne, fmt.Errorf("invalid multiplicity %q: must be 'one' or 'many'", s)
}
