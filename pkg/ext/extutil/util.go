// Package extutil provides shared helpers for the ext sub-packages.
package extutil

import (
	"math"

	"github.com/sandrolain/gomml/pkg/functions"
	"github.com/sandrolain/gomml/pkg/types"
)

// Arity fails the running call unless len(args) is one of counts.
func Arity(c functions.Caller, name string, args []types.Handle, counts ...int) bool {
	for _, n := range counts {
		if len(args) == n {
			return true
		}
	}
	if len(counts) == 1 {
		c.Fail(types.ErrBadArguments, "%s expects %d arguments, got %d", name, counts[0], len(args))
	} else {
		c.Fail(types.ErrBadArguments, "%s expects %v arguments, got %d", name, counts, len(args))
	}
	return false
}

// Number evaluates h and converts it to a float64. Failed arguments are
// passed on silently; non-numeric ones are reported.
func Number(c functions.Caller, name string, h types.Handle) (float64, bool) {
	v := c.Evaluate(h)
	if !v.IsValid() {
		if v.Sentinel != types.SentinelError {
			c.Fail(types.ErrNoValue, "%s: argument has no value", name)
		}
		return 0, false
	}
	if !v.IsNumeric() {
		c.Fail(types.ErrBadArguments, "%s expects a real argument, got %s", name, v.Kind)
		return 0, false
	}
	return v.Number(), true
}

// Int evaluates h and converts it to an int. The value must be within
// 1e-14 of an integer.
func Int(c functions.Caller, name string, h types.Handle) (int, bool) {
	f, ok := Number(c, name, h)
	if !ok {
		return 0, false
	}
	r := math.Round(f)
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f-r) > 1e-14 || math.Abs(r) > math.MaxInt32 {
		c.Fail(types.ErrBadArguments, "%s expects an integer, got %s", name, c.Format(types.Real(f)))
		return 0, false
	}
	return int(r), true
}

// Vector evaluates h, which must yield a vector.
func Vector(c functions.Caller, name string, h types.Handle) (types.Value, bool) {
	v := c.Evaluate(h)
	if !v.IsValid() {
		if v.Sentinel != types.SentinelError {
			c.Fail(types.ErrNoValue, "%s: argument has no value", name)
		}
		return types.Invalid, false
	}
	if v.Kind != types.KindVector {
		c.Fail(types.ErrBadArguments, "%s expects a vector, got %s", name, v.Kind)
		return types.Invalid, false
	}
	return v, true
}

// Elements evaluates every element of the vector v.
func Elements(c functions.Caller, v types.Value) []types.Value {
	out := make([]types.Value, v.Len())
	for i := range out {
		out[i] = c.Evaluate(c.Arena().Elem(v.Vec, i))
	}
	return out
}

// Numbers evaluates h as a vector of reals.
func Numbers(c functions.Caller, name string, h types.Handle) ([]float64, bool) {
	v, ok := Vector(c, name, h)
	if !ok {
		return nil, false
	}
	nums := make([]float64, 0, v.Len())
	for _, el := range Elements(c, v) {
		if !el.IsValid() {
			return nil, false
		}
		if !el.IsNumeric() {
			c.Fail(types.ErrBadArguments, "%s expects a vector of reals, found %s", name, el.Kind)
			return nil, false
		}
		nums = append(nums, el.Number())
	}
	return nums, true
}

// NewVector allocates a vector holding vals.
func NewVector(c functions.Caller, vals []types.Value) types.Value {
	a := c.Arena()
	hs := make([]types.Handle, len(vals))
	for i, v := range vals {
		hs[i] = a.AllocValue(v)
	}
	return types.Vector(a.AllocSpan(hs))
}

// Reals converts nums to real values.
func Reals(nums []float64) []types.Value {
	out := make([]types.Value, len(nums))
	for i, f := range nums {
		out[i] = types.Real(f)
	}
	return out
}
