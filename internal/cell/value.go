package cell

import (
	"reflect"
	"slices"
	"strconv"

	"github.com/vk/paramgraph/internal/paramerr"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// OpaqueType is the cty capsule type carrying opaque values.
var OpaqueType = cty.Capsule("opaque", reflect.TypeOf((*any)(nil)).Elem())

// IntVal, FloatVal, BoolVal and StringVal build values for the matching types.
func IntVal(i int64) cty.Value     { return cty.NumberIntVal(i) }
func FloatVal(f float64) cty.Value { return cty.NumberFloatVal(f) }
func BoolVal(b bool) cty.Value     { return cty.BoolVal(b) }
func StringVal(s string) cty.Value { return cty.StringVal(s) }

// OpaqueVal wraps any Go value. Two wraps of the same value are never equal,
// so every opaque write propagates.
func OpaqueVal(x any) cty.Value {
	if x == nil {
		return cty.NullVal(OpaqueType)
	}
	return cty.CapsuleVal(OpaqueType, &x)
}

// CtyType is the cty type used to store values of t.
func CtyType(t Type) cty.Type {
	switch t {
	case TypeInt, TypeFloat:
		return cty.Number
	case TypeBool:
		return cty.Bool
	case TypeString, TypeEnum:
		return cty.String
	case TypeOpaque:
		return OpaqueType
	}
	return cty.DynamicPseudoType
}

func zeroValue(t Type, options []string) cty.Value {
	switch t {
	case TypeInt, TypeFloat:
		return cty.Zero
	case TypeBool:
		return cty.False
	case TypeString:
		return cty.StringVal("")
	case TypeEnum:
		if len(options) > 0 {
			return cty.StringVal(options[0])
		}
		return cty.StringVal("")
	}
	return cty.NullVal(OpaqueType)
}

// checkValue validates v against a type. The only conversion performed is
// int to float widening, which needs no work since both share cty.Number.
func checkValue(path string, t Type, options []string, v cty.Value) (cty.Value, error) {
	if v.Type() == cty.NilType {
		return cty.NilVal, paramerr.TypeMismatch(path, "missing value")
	}
	if !v.IsKnown() {
		return cty.NilVal, paramerr.TypeMismatch(path, "value is not known")
	}

	if t == TypeOpaque {
		if v.IsNull() {
			return cty.NullVal(OpaqueType), nil
		}
		if !v.Type().Equals(OpaqueType) {
			return cty.NilVal, paramerr.TypeMismatch(path, "expected opaque value, got %s", v.Type().FriendlyName())
		}
		return v, nil
	}

	if v.IsNull() {
		return cty.NilVal, paramerr.TypeMismatch(path, "null is not a valid %s", t)
	}

	want := CtyType(t)
	if !v.Type().Equals(want) {
		return cty.NilVal, paramerr.TypeMismatch(path, "expected %s, got %s", t, v.Type().FriendlyName())
	}

	switch t {
	case TypeInt:
		if !v.AsBigFloat().IsInt() {
			return cty.NilVal, paramerr.TypeMismatch(path, "expected int, got fractional number %s", v.AsBigFloat().Text('g', -1))
		}
	case TypeEnum:
		if !slices.Contains(options, v.AsString()) {
			return cty.NilVal, paramerr.TypeMismatch(path, "%q is not one of %q", v.AsString(), options)
		}
	}
	return v, nil
}

// Coerce converts v to the storage type of t where cty allows it, so the
// string "3" becomes a valid int, then validates the result.
func Coerce(path string, t Type, options []string, v cty.Value) (cty.Value, error) {
	if t != TypeOpaque && v.Type() != cty.NilType && v.IsKnown() && !v.IsNull() {
		cv, err := convert.Convert(v, CtyType(t))
		if err != nil {
			return cty.NilVal, paramerr.TypeMismatch(path, "cannot use %s as %s: %s", v.Type().FriendlyName(), t, err)
		}
		v = cv
	}
	return checkValue(path, t, options, v)
}

// ParseValue converts user text into a value of type t.
func ParseValue(path string, t Type, options []string, s string) (cty.Value, error) {
	var v cty.Value
	switch t {
	case TypeInt:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return cty.NilVal, paramerr.TypeMismatch(path, "%q is not an int", s)
		}
		v = cty.NumberIntVal(i)
	case TypeFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return cty.NilVal, paramerr.TypeMismatch(path, "%q is not a number", s)
		}
		v = cty.NumberFloatVal(f)
	case TypeBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return cty.NilVal, paramerr.TypeMismatch(path, "%q is not a bool", s)
		}
		v = cty.BoolVal(b)
	case TypeString, TypeEnum:
		v = cty.StringVal(s)
	default:
		return cty.NilVal, paramerr.TypeMismatch(path, "%s parameters cannot be set from text", t)
	}
	return checkValue(path, t, options, v)
}

// Int returns the resolved value of an int or float cell as int64.
func (c *Cell) Int() (int64, error) {
	var i int64
	err := c.decode(&i, TypeInt, TypeFloat)
	return i, err
}

// Float returns the resolved value of a float or int cell.
func (c *Cell) Float() (float64, error) {
	var f float64
	err := c.decode(&f, TypeFloat, TypeInt)
	return f, err
}

// Bool returns the resolved value of a bool cell.
func (c *Cell) Bool() (bool, error) {
	var b bool
	err := c.decode(&b, TypeBool)
	return b, err
}

// Text returns the resolved value of a string or enum cell.
func (c *Cell) Text() (string, error) {
	var s string
	err := c.decode(&s, TypeString, TypeEnum)
	return s, err
}

// Opaque returns the Go value wrapped by an opaque cell, or nil.
func (c *Cell) Opaque() (any, error) {
	if c.typ != TypeOpaque {
		return nil, paramerr.TypeMismatch(c.Path(), "cannot read %s parameter as opaque", c.typ)
	}
	v, err := c.Value()
	if err != nil {
		return nil, err
	}
	if v.IsNull() {
		return nil, nil
	}
	return *(v.EncapsulatedValue().(*any)), nil
}

func (c *Cell) SetInt(i int64) error     { return c.Set(IntVal(i)) }
func (c *Cell) SetFloat(f float64) error { return c.Set(FloatVal(f)) }
func (c *Cell) SetBool(b bool) error     { return c.Set(BoolVal(b)) }
func (c *Cell) SetText(s string) error   { return c.Set(StringVal(s)) }
func (c *Cell) SetOpaque(x any) error    { return c.Set(OpaqueVal(x)) }

func (c *Cell) decode(target any, allowed ...Type) error {
	if !slices.Contains(allowed, c.typ) {
		return paramerr.TypeMismatch(c.Path(), "cannot read %s parameter as %s", c.typ, allowed[0])
	}
	v, err := c.Value()
	if err != nil {
		return err
	}
	if err := gocty.FromCtyValue(v, target); err != nil {
		return paramerr.TypeMismatch(c.Path(), "%s", err)
	}
	return nil
}
