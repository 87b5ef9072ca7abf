// Package ext provides optional extension functions for gomml sessions that
// go beyond the core builtins.
//
// The extension functions live in sub-packages grouped by category:
//   - extnumeric – sign, trunc, abs, exp, clamp, hypot, median, variance, …
//   - extvector  – len, sum, first, last, take, skip, flatten, chunk, range, cross, …
//   - exttypes   – is_real, is_complex, is_boolean, is_vector, is_nan, is_inf
//
// # Integration – all extensions at once
//
//	import "github.com/sandrolain/gomml/pkg/ext"
//
//	v, _, err := gomml.Eval("median{[3, 1, 2]}", ext.WithAll())
//
// # Integration – by category
//
//	ev := gomml.NewSession(
//	    ext.WithNumeric(),
//	    ext.WithVector(),
//	)
//
// # Integration – single function from a sub-package
//
//	import "github.com/sandrolain/gomml/pkg/ext/extvector"
//
//	ev := gomml.NewSession(evaluator.WithFunctions(extvector.Range()))
package ext

import (
	"github.com/sandrolain/gomml/pkg/evaluator"
	"github.com/sandrolain/gomml/pkg/ext/extnumeric"
	"github.com/sandrolain/gomml/pkg/ext/exttypes"
	"github.com/sandrolain/gomml/pkg/ext/extvector"
	"github.com/sandrolain/gomml/pkg/functions"
)

// AllEntries returns every extension definition, suitable for spreading
// into [evaluator.WithFunctions]:
//
//	evaluator.WithFunctions(ext.AllEntries()...)
func AllEntries() []functions.Entry {
	var all []functions.Entry
	all = append(all, extnumeric.All()...)
	all = append(all, extvector.All()...)
	all = append(all, exttypes.All()...)
	return all
}

// WithAll returns an EvalOption that registers all extension functions.
func WithAll() evaluator.EvalOption {
	return evaluator.WithFunctions(AllEntries()...)
}

// WithNumeric returns an EvalOption for the extended numeric functions.
func WithNumeric() evaluator.EvalOption {
	return evaluator.WithFunctions(extnumeric.All()...)
}

// WithVector returns an EvalOption for the vector functions.
func WithVector() evaluator.EvalOption {
	return evaluator.WithFunctions(extvector.All()...)
}

// WithTypes returns an EvalOption for the type predicate functions.
func WithTypes() evaluator.EvalOption {
	return evaluator.WithFunctions(exttypes.All()...)
}
