// Package trigger implements the trigger expression engine: a small
// condition language compiled once per controller at load time and
// evaluated once per simulation tick against live combat state.
package trigger

import (
	"fmt"
	"strconv"
)

type numberKind int

const (
	kindEmpty numberKind = iota
	kindInt
	kindFloat
	kindBool
)

// Number is the tri-state value produced by trigger evaluation. It holds
// an integer, a float, or a bool. The zero value is the empty result:
// falsy, and returned whenever evaluation cannot proceed (type mismatch,
// unsupported operator, missing capability). Immutable once constructed.
type Number struct {
	kind numberKind
	i    int64
	f    float64
	b    bool
}

// Empty returns the empty/falsy Number.
func Empty() Number {
	return Number{}
}

// FromInt wraps an integer value.
func FromInt(v int64) Number {
	return Number{kind: kindInt, i: v}
}

// FromFloat wraps a float value.
func FromFloat(v float64) Number {
	return Number{kind: kindFloat, f: v}
}

// FromBool wraps a bool value.
func FromBool(v bool) Number {
	return Number{kind: kindBool, b: v}
}

// IsEmpty reports whether n is the empty result.
func (n Number) IsEmpty() bool {
	return n.kind == kindEmpty
}

// Bool returns the truthiness of n: the bool value itself, nonzero for
// numerics, false for empty.
func (n Number) Bool() bool {
	switch n.kind {
	case kindInt:
		return n.i != 0
	case kindFloat:
		return n.f != 0
	case kindBool:
		return n.b
	}
	return false
}

// Int returns n as an integer. Bools map to 1/0, floats truncate toward
// zero, empty is 0.
func (n Number) Int() int64 {
	switch n.kind {
	case kindInt:
		return n.i
	case kindFloat:
		return int64(n.f)
	case kindBool:
		if n.b {
			return 1
		}
		return 0
	}
	return 0
}

// Float returns n as a float. Bools map to 1/0, empty is 0.
func (n Number) Float() float64 {
	if n.kind == kindFloat {
		return n.f
	}
	return float64(n.Int())
}

// String renders n for diagnostics and the /eval console command.
func (n Number) String() string {
	switch n.kind {
	case kindInt:
		return strconv.FormatInt(n.i, 10)
	case kindFloat:
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	case kindBool:
		return fmt.Sprintf("%v", n.b)
	}
	return "empty"
}

// isFloat reports whether n carries a float value.
func (n Number) isFloat() bool {
	return n.kind == kindFloat
}

// Compare applies a comparison or logical operator to two evaluated
// Numbers using the dialect's promotion rules: bools compare as 1/0, and
// if either side is a float both compare as floats, otherwise as
// integers. Either side empty, or an operator that is not a comparison
// or logical operator, yields the empty Number.
func Compare(a, b Number, op Operator) Number {
	if a.IsEmpty() || b.IsEmpty() {
		return Empty()
	}

	switch op {
	case OpAnd:
		return FromBool(a.Bool() && b.Bool())
	case OpOr:
		return FromBool(a.Bool() || b.Bool())
	}

	if a.isFloat() || b.isFloat() {
		return compareFloats(a.Float(), b.Float(), op)
	}
	return compareInts(a.Int(), b.Int(), op)
}

func compareInts(a, b int64, op Operator) Number {
	switch op {
	case OpEq:
		return FromBool(a == b)
	case OpNe:
		return FromBool(a != b)
	case OpLt:
		return FromBool(a < b)
	case OpLe:
		return FromBool(a <= b)
	case OpGt:
		return FromBool(a > b)
	case OpGe:
		return FromBool(a >= b)
	}
	return Empty()
}

func compareFloats(a, b float64, op Operator) Number {
	switch op {
	case OpEq:
		return FromBool(a == b)
	case OpNe:
		return FromBool(a != b)
	case OpLt:
		return FromBool(a < b)
	case OpLe:
		return FromBool(a <= b)
	case OpGt:
		return FromBool(a > b)
	case OpGe:
		return FromBool(a >= b)
	}
	return Empty()
}
