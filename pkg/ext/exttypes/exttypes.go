// Package exttypes provides type predicate functions.
package exttypes

import (
	"math"
	"math/cmplx"

	"github.com/sandrolain/gomml/pkg/functions"
	"github.com/sandrolain/gomml/pkg/types"
)

// All returns all type predicate definitions.
func All() []functions.Entry {
	return []functions.Entry{
		IsReal(),
		IsComplex(),
		IsBoolean(),
		IsVector(),
		IsNaN(),
		IsInf(),
	}
}

// IsReal returns the definition for is_real{x}.
func IsReal() functions.Entry {
	return predicate("is_real", func(v types.Value) bool {
		return v.Kind == types.KindReal || v.Kind == types.KindInteger
	})
}

// IsComplex returns the definition for is_complex{x}.
func IsComplex() functions.Entry {
	return predicate("is_complex", func(v types.Value) bool {
		return v.Kind == types.KindComplex
	})
}

// IsBoolean returns the definition for is_boolean{x}.
func IsBoolean() functions.Entry {
	return predicate("is_boolean", func(v types.Value) bool {
		return v.Kind == types.KindBoolean
	})
}

// IsVector returns the definition for is_vector{x}.
func IsVector() functions.Entry {
	return predicate("is_vector", func(v types.Value) bool {
		return v.Kind == types.KindVector
	})
}

// IsNaN returns the definition for is_nan{x}. A complex value is NaN when
// either part is.
func IsNaN() functions.Entry {
	return predicate("is_nan", func(v types.Value) bool {
		switch v.Kind {
		case types.KindReal:
			return math.IsNaN(v.Real)
		case types.KindComplex:
			return cmplx.IsNaN(v.Complex)
		}
		return false
	})
}

// IsInf returns the definition for is_inf{x}.
func IsInf() functions.Entry {
	return predicate("is_inf", func(v types.Value) bool {
		switch v.Kind {
		case types.KindReal:
			return math.IsInf(v.Real, 0)
		case types.KindComplex:
			return cmplx.IsInf(v.Complex)
		}
		return false
	})
}

func predicate(name string, test func(types.Value) bool) functions.Entry {
	return functions.Variadic{Name: name, Fn: func(c functions.Caller, args []types.Handle) types.Value {
		if len(args) != 1 {
			return c.Fail(types.ErrBadArguments, "%s expects 1 argument, got %d", name, len(args))
		}
		v := c.Evaluate(args[0])
		if !v.IsValid() {
			if v.Sentinel != types.SentinelError {
				return c.Fail(types.ErrNoValue, "%s: argument has no value", name)
			}
			return types.Invalid
		}
		return types.Bool(test(v))
	}}
}
