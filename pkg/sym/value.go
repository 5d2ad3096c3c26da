// Package sym provides symbolic numeric values for parametric assembly
// modeling. A Value is either a concrete number or a named free parameter;
// placement and property math may only proceed once every participating
// Value has been bound to a concrete number.
package sym

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a tagged union: either a concrete float64 or a named free
// parameter. The zero value is Concrete(0).
type Value struct {
	num    float64
	symbol string
}

// Concrete returns a resolved Value holding the given number.
func Concrete(v float64) Value {
	return Value{num: v}
}

// Param returns an unresolved Value naming a free parameter.
func Param(name string) Value {
	return Value{symbol: name}
}

// IsResolved reports whether the Value holds a concrete number.
func (v Value) IsResolved() bool {
	return v.symbol == ""
}

// Symbol returns the free parameter name, or "" for a concrete Value.
func (v Value) Symbol() string {
	return v.symbol
}

// Float returns the concrete number, or an UnresolvedParameterError if the
// Value is still symbolic.
func (v Value) Float() (float64, error) {
	if !v.IsResolved() {
		return 0, &UnresolvedParameterError{Symbols: []string{v.symbol}}
	}
	return v.num, nil
}

// Bind returns the Value with the named parameter substituted by val.
// A Value whose symbol does not match name is returned unchanged, so
// binding is a no-op on concrete values and on other parameters.
func (v Value) Bind(name string, val float64) Value {
	if v.symbol == name {
		return Value{num: val}
	}
	return v
}

// FreeParams adds the Value's parameter name, if any, to set.
func (v Value) FreeParams(set map[string]struct{}) {
	if v.symbol != "" {
		set[v.symbol] = struct{}{}
	}
}

// Equal reports structural equality: same tag and same payload.
func (v Value) Equal(o Value) bool {
	return v.symbol == o.symbol && (v.symbol != "" || v.num == o.num)
}

func (v Value) String() string {
	if v.symbol != "" {
		return v.symbol
	}
	return strconv.FormatFloat(v.num, 'g', -1, 64)
}

// MarshalJSON encodes a concrete Value as a JSON number and a symbolic
// Value as a JSON string naming the free parameter.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.symbol != "" {
		return json.Marshal(v.symbol)
	}
	return json.Marshal(v.num)
}

// UnmarshalJSON decodes a JSON number as a concrete Value and a JSON
// string as a free parameter name. Any other JSON type is an error.
func (v *Value) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*v = Concrete(num)
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		if name == "" {
			return fmt.Errorf("sym: empty parameter name")
		}
		*v = Param(name)
		return nil
	}
	return fmt.Errorf("sym: value must be a number or a parameter name, got %s", string(data))
}

// binaryOp applies op to two resolved operands, or reports every symbol
// blocking the operation.
func binaryOp(a, b Value, op func(x, y float64) float64) (Value, error) {
	if a.IsResolved() && b.IsResolved() {
		return Concrete(op(a.num, b.num)), nil
	}
	e := &UnresolvedParameterError{}
	if !a.IsResolved() {
		e.Symbols = append(e.Symbols, a.symbol)
	}
	if !b.IsResolved() {
		e.Symbols = append(e.Symbols, b.symbol)
	}
	return Value{}, e
}

// Add returns a+b, or an UnresolvedParameterError if either operand is
// symbolic. Symbolic algebra is deliberately out of scope here; closed-form
// symbolic math belongs to the per-type geometry capabilities.
func Add(a, b Value) (Value, error) {
	return binaryOp(a, b, func(x, y float64) float64 { return x + y })
}

// Sub returns a-b under the same resolution rules as Add.
func Sub(a, b Value) (Value, error) {
	return binaryOp(a, b, func(x, y float64) float64 { return x - y })
}

// Mul returns a*b under the same resolution rules as Add.
func Mul(a, b Value) (Value, error) {
	return binaryOp(a, b, func(x, y float64) float64 { return x * y })
}

// Div returns a/b under the same resolution rules as Add.
func Div(a, b Value) (Value, error) {
	return binaryOp(a, b, func(x, y float64) float64 { return x / y })
}
