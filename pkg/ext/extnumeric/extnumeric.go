// Package extnumeric provides numeric functions beyond the core builtins:
// rounding helpers, clamping and descriptive statistics over vectors.
package extnumeric

import (
	"math"
	"math/cmplx"
	"sort"

	"github.com/sandrolain/gomml/pkg/ext/extutil"
	"github.com/sandrolain/gomml/pkg/functions"
	"github.com/sandrolain/gomml/pkg/types"
)

// All returns all extended numeric definitions.
func All() []functions.Entry {
	return []functions.Entry{
		Tau(),
		Sign(),
		Trunc(),
		Abs(),
		Cbrt(),
		Gamma(),
		Exp(),
		ComplexExp(),
		Clamp(),
		Hypot(),
		Median(),
		Variance(),
		Stddev(),
		Percentile(),
		Mode(),
	}
}

// Tau is the circle constant 2π.
func Tau() functions.Entry {
	return functions.Constant{Name: "tau", Value: types.Real(2 * math.Pi)}
}

// Sign returns the definition for sign{x}: -1, 0 or 1.
func Sign() functions.Entry {
	return functions.RealFunc{Name: "sign", Fn: func(x float64) float64 {
		switch {
		case math.IsNaN(x):
			return x
		case x > 0:
			return 1
		case x < 0:
			return -1
		}
		return 0
	}}
}

// Trunc returns the definition for trunc{x}, rounding toward zero.
func Trunc() functions.Entry {
	return functions.RealFunc{Name: "trunc", Fn: math.Trunc}
}

// Abs returns the definition for abs{x} over reals. The core table only
// defines the complex magnitude.
func Abs() functions.Entry {
	return functions.RealFunc{Name: "abs", Fn: math.Abs}
}

// Cbrt returns the definition for cbrt{x}.
func Cbrt() functions.Entry {
	return functions.RealFunc{Name: "cbrt", Fn: math.Cbrt}
}

// Gamma returns the definition for gamma{x}.
func Gamma() functions.Entry {
	return functions.RealFunc{Name: "gamma", Fn: math.Gamma}
}

// Exp returns the definition for exp{x}.
func Exp() functions.Entry {
	return functions.RealFunc{Name: "exp", Fn: math.Exp}
}

// ComplexExp returns the complex variant of exp.
func ComplexExp() functions.Entry {
	return functions.ComplexFunc{Name: "exp", Fn: cmplx.Exp}
}

// Clamp returns the definition for clamp{x, lo, hi}.
func Clamp() functions.Entry {
	return functions.Variadic{Name: "clamp", Fn: func(c functions.Caller, args []types.Handle) types.Value {
		if !extutil.Arity(c, "clamp", args, 3) {
			return types.Invalid
		}
		var vals [3]float64
		for i, h := range args {
			f, ok := extutil.Number(c, "clamp", h)
			if !ok {
				return types.Invalid
			}
			vals[i] = f
		}
		x, lo, hi := vals[0], vals[1], vals[2]
		if lo > hi {
			return c.Fail(types.ErrBadArguments, "clamp: lower bound %s exceeds upper bound %s",
				c.Format(types.Real(lo)), c.Format(types.Real(hi)))
		}
		return types.Real(math.Max(lo, math.Min(x, hi)))
	}}
}

// Hypot returns the definition for hypot{a, b}.
func Hypot() functions.Entry {
	return functions.Variadic{Name: "hypot", Fn: func(c functions.Caller, args []types.Handle) types.Value {
		if !extutil.Arity(c, "hypot", args, 2) {
			return types.Invalid
		}
		a, ok := extutil.Number(c, "hypot", args[0])
		if !ok {
			return types.Invalid
		}
		b, ok := extutil.Number(c, "hypot", args[1])
		if !ok {
			return types.Invalid
		}
		return types.Real(math.Hypot(a, b))
	}}
}

// Median returns the definition for median{v}.
func Median() functions.Entry {
	return stat("median", func(nums []float64) float64 {
		sorted := sortedCopy(nums)
		mid := len(sorted) / 2
		if len(sorted)%2 == 0 {
			return (sorted[mid-1] + sorted[mid]) / 2
		}
		return sorted[mid]
	})
}

// Variance returns the definition for variance{v}, the population variance.
func Variance() functions.Entry {
	return stat("variance", variance)
}

// Stddev returns the definition for stddev{v}, the population standard deviation.
func Stddev() functions.Entry {
	return stat("stddev", func(nums []float64) float64 {
		return math.Sqrt(variance(nums))
	})
}

// Percentile returns the definition for percentile{v, p}, with p in [0, 100].
// Values between ranks are interpolated linearly.
func Percentile() functions.Entry {
	return functions.Variadic{Name: "percentile", Fn: func(c functions.Caller, args []types.Handle) types.Value {
		if !extutil.Arity(c, "percentile", args, 2) {
			return types.Invalid
		}
		nums, ok := extutil.Numbers(c, "percentile", args[0])
		if !ok {
			return types.Invalid
		}
		p, ok := extutil.Number(c, "percentile", args[1])
		if !ok {
			return types.Invalid
		}
		if p < 0 || p > 100 {
			return c.Fail(types.ErrBadArguments, "percentile: p must be between 0 and 100")
		}
		if len(nums) == 0 {
			return c.Fail(types.ErrBadArguments, "percentile: empty vector")
		}

		sorted := sortedCopy(nums)
		idx := p / 100 * float64(len(sorted)-1)
		lo := int(math.Floor(idx))
		hi := int(math.Ceil(idx))
		if lo == hi {
			return types.Real(sorted[lo])
		}
		frac := idx - float64(lo)
		return types.Real(sorted[lo]*(1-frac) + sorted[hi]*frac)
	}}
}

// Mode returns the definition for mode{v}. A single most frequent value is
// returned as a real; ties yield a vector of the modes in first-seen order.
func Mode() functions.Entry {
	return functions.Variadic{Name: "mode", Fn: func(c functions.Caller, args []types.Handle) types.Value {
		if !extutil.Arity(c, "mode", args, 1) {
			return types.Invalid
		}
		nums, ok := extutil.Numbers(c, "mode", args[0])
		if !ok {
			return types.Invalid
		}
		if len(nums) == 0 {
			return c.Fail(types.ErrBadArguments, "mode: empty vector")
		}

		counts := make(map[float64]int, len(nums))
		best := 0
		for _, n := range nums {
			counts[n]++
			if counts[n] > best {
				best = counts[n]
			}
		}
		var modes []float64
		for _, n := range nums {
			if counts[n] == best {
				modes = append(modes, n)
				counts[n] = 0
			}
		}
		if len(modes) == 1 {
			return types.Real(modes[0])
		}
		return extutil.NewVector(c, extutil.Reals(modes))
	}}
}

// stat wraps a reduction over a non-empty vector of reals.
func stat(name string, fn func([]float64) float64) functions.Entry {
	return functions.Variadic{Name: name, Fn: func(c functions.Caller, args []types.Handle) types.Value {
		if !extutil.Arity(c, name, args, 1) {
			return types.Invalid
		}
		nums, ok := extutil.Numbers(c, name, args[0])
		if !ok {
			return types.Invalid
		}
		if len(nums) == 0 {
			return c.Fail(types.ErrBadArguments, "%s: empty vector", name)
		}
		return types.Real(fn(nums))
	}}
}

func sortedCopy(nums []float64) []float64 {
	sorted := make([]float64, len(nums))
	copy(sorted, nums)
	sort.Float64s(sorted)
	return sorted
}

func variance(nums []float64) float64 {
	var sum float64
	for _, n := range nums {
		sum += n
	}
	mean := sum / float64(len(nums))
	var sq float64
	for _, n := range nums {
		d := n - mean
		sq += d * d
	}
	return sq / float64(len(nums))
}
