// Package extvector provides vector functions beyond indexing and the dot
// product: slicing, reduction, generation and reshaping.
//
// Functions that select elements return views sharing the element handles of
// their argument, so elements keep their lazy semantics.
package extvector

import (
	"math"

	"github.com/sandrolain/gomml/pkg/ext/extutil"
	"github.com/sandrolain/gomml/pkg/functions"
	"github.com/sandrolain/gomml/pkg/types"
)

// maxRangeItems bounds the vectors produced by range.
const maxRangeItems = 100000

// All returns all vector function definitions.
func All() []functions.Entry {
	return []functions.Entry{
		Len(),
		Sum(),
		First(),
		Last(),
		Take(),
		Skip(),
		Reverse(),
		Flatten(),
		Chunk(),
		Range(),
		Cross(),
	}
}

// Len returns the definition for len{v}.
func Len() functions.Entry {
	return unary("len", func(c functions.Caller, v types.Value) types.Value {
		return types.Real(float64(v.Len()))
	})
}

// Sum returns the definition for sum{v}. Elements are added with the +
// operator, so complex elements promote the result.
func Sum() functions.Entry {
	return unary("sum", func(c functions.Caller, v types.Value) types.Value {
		acc := types.Real(0)
		for _, el := range extutil.Elements(c, v) {
			acc = c.Apply(types.OpAdd, acc, el)
			if !acc.IsValid() {
				return types.Invalid
			}
		}
		return acc
	})
}

// First returns the definition for first{v}.
func First() functions.Entry {
	return unary("first", func(c functions.Caller, v types.Value) types.Value {
		if v.Len() == 0 {
			return c.Fail(types.ErrIndexOutOfRange, "first: empty vector")
		}
		return c.Evaluate(c.Arena().Elem(v.Vec, 0))
	})
}

// Last returns the definition for last{v}.
func Last() functions.Entry {
	return unary("last", func(c functions.Caller, v types.Value) types.Value {
		if v.Len() == 0 {
			return c.Fail(types.ErrIndexOutOfRange, "last: empty vector")
		}
		return c.Evaluate(c.Arena().Elem(v.Vec, v.Len()-1))
	})
}

// Take returns the definition for take{v, n}: the first n elements.
func Take() functions.Entry {
	return sliced("take", func(s types.Span, n uint32) types.Span {
		return types.Span{Off: s.Off, Len: n}
	})
}

// Skip returns the definition for skip{v, n}: all but the first n elements.
func Skip() functions.Entry {
	return sliced("skip", func(s types.Span, n uint32) types.Span {
		return types.Span{Off: s.Off + n, Len: s.Len - n}
	})
}

// Reverse returns the definition for reverse{v}.
func Reverse() functions.Entry {
	return unary("reverse", func(c functions.Caller, v types.Value) types.Value {
		a := c.Arena()
		hs := a.Elems(v.Vec)
		for i, j := 0, len(hs)-1; i < j; i, j = i+1, j-1 {
			hs[i], hs[j] = hs[j], hs[i]
		}
		return types.Vector(a.AllocSpan(hs))
	})
}

// Flatten returns the definition for flatten{v}: nested vectors are
// replaced by their elements at every depth, down to types.MaxNesting.
func Flatten() functions.Entry {
	return unary("flatten", func(c functions.Caller, v types.Value) types.Value {
		var hs []types.Handle
		if !flatten(c, v, &hs, 0) {
			return types.Invalid
		}
		return types.Vector(c.Arena().AllocSpan(hs))
	})
}

func flatten(c functions.Caller, v types.Value, out *[]types.Handle, depth int) bool {
	if depth >= types.MaxNesting {
		c.Fail(types.ErrStackOverflow, "flatten: vectors nested deeper than %d", types.MaxNesting)
		return false
	}
	a := c.Arena()
	for _, h := range a.Elems(v.Vec) {
		el := c.Evaluate(h)
		switch {
		case !el.IsValid():
			return false
		case el.Kind == types.KindVector:
			if !flatten(c, el, out, depth+1) {
				return false
			}
		default:
			*out = append(*out, h)
		}
	}
	return true
}

// Chunk returns the definition for chunk{v, n}: a vector of consecutive
// sub-vectors of length n. The last one may be shorter.
func Chunk() functions.Entry {
	return functions.Variadic{Name: "chunk", Fn: func(c functions.Caller, args []types.Handle) types.Value {
		if !extutil.Arity(c, "chunk", args, 2) {
			return types.Invalid
		}
		v, ok := extutil.Vector(c, "chunk", args[0])
		if !ok {
			return types.Invalid
		}
		n, ok := extutil.Int(c, "chunk", args[1])
		if !ok {
			return types.Invalid
		}
		if n < 1 {
			return c.Fail(types.ErrBadArguments, "chunk: size must be at least 1, got %d", n)
		}

		a := c.Arena()
		hs := a.Elems(v.Vec)
		var chunks []types.Handle
		for start := 0; start < len(hs); start += n {
			end := min(start+n, len(hs))
			chunks = append(chunks, a.AllocVector(hs[start:end], types.NoPosition))
		}
		return types.Vector(a.AllocSpan(chunks))
	}}
}

// Range returns the definition for range{start, end [, step]}. Both ends are
// inclusive; step defaults to 1.
func Range() functions.Entry {
	return functions.Variadic{Name: "range", Fn: func(c functions.Caller, args []types.Handle) types.Value {
		if !extutil.Arity(c, "range", args, 2, 3) {
			return types.Invalid
		}
		bounds := make([]float64, len(args))
		for i, h := range args {
			f, ok := extutil.Number(c, "range", h)
			if !ok {
				return types.Invalid
			}
			bounds[i] = f
		}
		start, end, step := bounds[0], bounds[1], 1.0
		if len(bounds) == 3 {
			step = bounds[2]
		}
		if step == 0 || math.IsNaN(step) {
			return c.Fail(types.ErrBadArguments, "range: step must not be zero")
		}

		var nums []float64
		for i := 0; ; i++ {
			x := start + float64(i)*step
			if step > 0 && x > end || step < 0 && x < end {
				break
			}
			if i >= maxRangeItems {
				return c.Fail(types.ErrBadArguments, "range: would produce more than %d items", maxRangeItems)
			}
			// round away accumulated error from fractional steps
			nums = append(nums, math.Round(x*1e10)/1e10)
		}
		return extutil.NewVector(c, extutil.Reals(nums))
	}}
}

// Cross returns the definition for cross{a, b}, the cross product of two
// 3-vectors.
func Cross() functions.Entry {
	return functions.Variadic{Name: "cross", Fn: func(c functions.Caller, args []types.Handle) types.Value {
		if !extutil.Arity(c, "cross", args, 2) {
			return types.Invalid
		}
		var operands [2][]types.Value
		for i, h := range args {
			v, ok := extutil.Vector(c, "cross", h)
			if !ok {
				return types.Invalid
			}
			if v.Len() != 3 {
				return c.Fail(types.ErrBadArguments, "cross expects 3-vectors, got length %d", v.Len())
			}
			operands[i] = extutil.Elements(c, v)
		}
		x, y := operands[0], operands[1]

		term := func(i, j int) types.Value {
			return c.Apply(types.OpSub,
				c.Apply(types.OpMul, x[i], y[j]),
				c.Apply(types.OpMul, x[j], y[i]))
		}
		out := []types.Value{term(1, 2), term(2, 0), term(0, 1)}
		for _, el := range out {
			if !el.IsValid() {
				return types.Invalid
			}
		}
		return extutil.NewVector(c, out)
	}}
}

// unary wraps a function of a single vector argument.
func unary(name string, fn func(functions.Caller, types.Value) types.Value) functions.Entry {
	return functions.Variadic{Name: name, Fn: func(c functions.Caller, args []types.Handle) types.Value {
		if !extutil.Arity(c, name, args, 1) {
			return types.Invalid
		}
		v, ok := extutil.Vector(c, name, args[0])
		if !ok {
			return types.Invalid
		}
		return fn(c, v)
	}}
}

// sliced wraps take and skip. n is clamped to the vector length.
func sliced(name string, cut func(s types.Span, n uint32) types.Span) functions.Entry {
	return functions.Variadic{Name: name, Fn: func(c functions.Caller, args []types.Handle) types.Value {
		if !extutil.Arity(c, name, args, 2) {
			return types.Invalid
		}
		v, ok := extutil.Vector(c, name, args[0])
		if !ok {
			return types.Invalid
		}
		n, ok := extutil.Int(c, name, args[1])
		if !ok {
			return types.Invalid
		}
		n = max(0, min(n, v.Len()))
		return types.Vector(cut(v.Vec, uint32(n)))
	}}
}
