package evaluator

import (
	"math"
	"math/cmplx"
	"sort"

	"github.com/sandrolain/gomml/pkg/functions"
	"github.com/sandrolain/gomml/pkg/types"
)

// mathFunctions returns the numeric builtins.
func mathFunctions() []functions.Entry {
	entries := []functions.Entry{
		functions.Variadic{Name: "max", Fn: fnExtremum("max", func(a, b float64) bool { return a > b })},
		functions.Variadic{Name: "min", Fn: fnExtremum("min", func(a, b float64) bool { return a < b })},
		functions.Variadic{Name: "sort", Fn: fnSort},
		functions.Variadic{Name: "root", Fn: fnRoot},
		functions.Variadic{Name: "logb", Fn: fnLogb},
		functions.Variadic{Name: "atan2", Fn: fnAtan2},

		functions.RealComplexFunc{Name: "csqrt", Fn: func(x float64) complex128 { return cmplx.Sqrt(complex(x, 0)) }},

		functions.ComplexRealFunc{Name: "phase", Fn: cmplx.Phase},
		functions.ComplexRealFunc{Name: "real", Fn: func(z complex128) float64 { return real(z) }},
		functions.ComplexRealFunc{Name: "imag", Fn: func(z complex128) float64 { return imag(z) }},
		functions.ComplexRealFunc{Name: "abs", Fn: cmplx.Abs},

		functions.ComplexFunc{Name: "conj", Fn: cmplx.Conj},
		functions.ComplexFunc{Name: "csqrt", Fn: cmplx.Sqrt},
	}

	reals := []struct {
		name string
		fn   func(float64) float64
		cfn  func(complex128) complex128
	}{
		{"sin", math.Sin, cmplx.Sin},
		{"cos", math.Cos, cmplx.Cos},
		{"tan", math.Tan, cmplx.Tan},
		{"asin", math.Asin, cmplx.Asin},
		{"acos", math.Acos, cmplx.Acos},
		{"atan", math.Atan, cmplx.Atan},
		{"sinh", math.Sinh, cmplx.Sinh},
		{"cosh", math.Cosh, cmplx.Cosh},
		{"tanh", math.Tanh, cmplx.Tanh},
		{"asinh", math.Asinh, cmplx.Asinh},
		{"acosh", math.Acosh, cmplx.Acosh},
		{"atanh", math.Atanh, cmplx.Atanh},
		{"ln", math.Log, cmplx.Log},
		{"log", math.Log, cmplx.Log},
		{"log2", math.Log2, clog2},
		{"log10", math.Log10, cmplx.Log10},
		{"sqrt", math.Sqrt, cmplx.Sqrt},
		{"floor", math.Floor, nil},
		{"ceil", math.Ceil, nil},
		{"round", math.Round, nil},
	}
	for _, r := range reals {
		entries = append(entries, functions.RealFunc{Name: r.name, Fn: r.fn})
		if r.cfn != nil {
			entries = append(entries, functions.ComplexFunc{Name: r.name, Fn: r.cfn})
		}
	}
	return entries
}

func clog2(z complex128) complex128 {
	return cmplx.Log(z) / math.Ln2
}

// noValue handles an argument that is not a value. A failed argument was
// already reported and passes through; one that never had a value, such as
// print{}, is reported as D1000.
func noValue(c functions.Caller, name string, v types.Value) types.Value {
	if v.Sentinel != types.SentinelError {
		return c.Fail(types.ErrNoValue, "%s: argument has no value", name)
	}
	return types.Invalid
}

// orderedArgs evaluates the arguments of an ordering builtin. A single
// vector argument stands for its elements.
func orderedArgs(c functions.Caller, name string, args []types.Handle) ([]types.Value, bool) {
	if len(args) == 0 {
		c.Fail(types.ErrBadArguments, "%s expects at least one argument", name)
		return nil, false
	}

	vals := make([]types.Value, 0, len(args))
	for _, h := range args {
		vals = append(vals, c.Evaluate(h))
	}
	if len(vals) == 1 && vals[0].Kind == types.KindVector {
		vals = elements(c, vals[0])
		if len(vals) == 0 {
			c.Fail(types.ErrBadArguments, "%s of an empty vector", name)
			return nil, false
		}
	}

	for _, v := range vals {
		if !v.IsValid() {
			noValue(c, name, v)
			return nil, false
		}
		if !v.IsNumeric() {
			c.Fail(types.ErrBadArguments, "%s: cannot order %s values", name, v.Kind)
			return nil, false
		}
	}
	return vals, true
}

// elements evaluates every element of vec.
func elements(c functions.Caller, vec types.Value) []types.Value {
	out := make([]types.Value, vec.Len())
	for i := range out {
		out[i] = c.Evaluate(c.Arena().Elem(vec.Vec, i))
	}
	return out
}

// fnExtremum returns max or min: the argument that beats every other one.
func fnExtremum(name string, beats func(a, b float64) bool) functions.VariadicFunc {
	return func(c functions.Caller, args []types.Handle) types.Value {
		vals, ok := orderedArgs(c, name, args)
		if !ok {
			return types.Invalid
		}
		best := vals[0]
		for _, v := range vals[1:] {
			if beats(v.Number(), best.Number()) {
				best = v
			}
		}
		return best
	}
}

// fnSort returns a new vector holding the elements of its argument in
// ascending order. Equal elements keep their order.
func fnSort(c functions.Caller, args []types.Handle) types.Value {
	if len(args) != 1 {
		return c.Fail(types.ErrBadArguments, "sort expects one vector argument, got %d arguments", len(args))
	}
	vec := c.Evaluate(args[0])
	if !vec.IsValid() {
		return types.Invalid
	}
	if vec.Kind != types.KindVector {
		return c.Fail(types.ErrBadArguments, "sort expects a vector, got %s", vec.Kind)
	}

	arena := c.Arena()
	handles := arena.Elems(vec.Vec)
	keys := make([]float64, len(handles))
	for i, h := range handles {
		v := c.Evaluate(h)
		if !v.IsValid() {
			return types.Invalid
		}
		if !v.IsNumeric() {
			return c.Fail(types.ErrBadArguments, "sort: cannot order %s values", v.Kind)
		}
		keys[i] = v.Number()
	}

	order := make([]int, len(handles))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return keys[order[i]] < keys[order[j]] })

	sorted := make([]types.Handle, len(handles))
	for i, k := range order {
		sorted[i] = handles[k]
	}
	return types.Vector(arena.AllocSpan(sorted))
}

// fnRoot computes root{x} (square root) or root{x, n} (n-th root).
func fnRoot(c functions.Caller, args []types.Handle) types.Value {
	switch len(args) {
	case 1:
		return c.ApplyUnary(types.OpRoot, c.Evaluate(args[0]))
	case 2:
		return c.Apply(types.OpRoot, c.Evaluate(args[0]), c.Evaluate(args[1]))
	}
	return c.Fail(types.ErrBadArguments, "root expects 1 or 2 arguments, got %d", len(args))
}

// fnLogb computes logb{x} (natural logarithm) or logb{x, b} (base b).
// Negative reals and complex numbers are taken on the complex plane.
func fnLogb(c functions.Caller, args []types.Handle) types.Value {
	if len(args) != 1 && len(args) != 2 {
		return c.Fail(types.ErrBadArguments, "logb expects 1 or 2 arguments, got %d", len(args))
	}

	x := naturalLog(c, c.Evaluate(args[0]))
	if len(args) == 1 || !x.IsValid() {
		return x
	}
	b := naturalLog(c, c.Evaluate(args[1]))
	if !b.IsValid() {
		return b
	}
	return c.Apply(types.OpDiv, x, b)
}

func naturalLog(c functions.Caller, v types.Value) types.Value {
	switch {
	case !v.IsValid():
		return noValue(c, "logb", v)
	case v.IsNumeric() && v.Number() >= 0:
		return types.Real(math.Log(v.Number()))
	case v.IsScalar():
		return types.Complex(cmplx.Log(v.AsComplex()))
	}
	return c.Fail(types.ErrBadArguments, "logb: %s argument", v.Kind)
}

// fnAtan2 computes atan2{y, x}.
func fnAtan2(c functions.Caller, args []types.Handle) types.Value {
	if len(args) != 2 {
		return c.Fail(types.ErrBadArguments, "atan2 expects 2 arguments, got %d", len(args))
	}
	y, x := c.Evaluate(args[0]), c.Evaluate(args[1])
	if !y.IsValid() {
		return noValue(c, "atan2", y)
	}
	if !x.IsValid() {
		return noValue(c, "atan2", x)
	}
	if y.Kind != types.KindReal && y.Kind != types.KindInteger || x.Kind != types.KindReal && x.Kind != types.KindInteger {
		return c.Fail(types.ErrBadArguments, "atan2 expects real arguments, got %s and %s", y.Kind, x.Kind)
	}
	return types.Real(math.Atan2(y.Number(), x.Number()))
}
