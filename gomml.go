// Package gomml provides an embeddable expression language for numeric work:
// reals, complex numbers, booleans and vectors, user variables with lazy
// evaluation, and a builtin function library dispatched by argument type.
//
// # Quick Start
//
//	// One-shot evaluation
//	s, err := gomml.EvalString("2 ^ 3 ^ 2")
//
//	// A session keeps variables and ans between statements
//	ev := gomml.NewSession(evaluator.WithPrecision(10))
//	ev.Run("r = 2")
//	v, err := ev.Run("pi r^2")
//	fmt.Println(ev.Format(v))
//
//	// With extensions
//	s, err = gomml.EvalString("median{[3, 1, 2]}", ext.WithAll())
//
// Statements are separated by ';'. Function calls use braces, as in
// sqrt{2} or max{1, 2, 3}, and vectors are indexed with '.', as in v.0.
//
// # More Information
//
// For detailed documentation, see:
//   - Parser: github.com/sandrolain/gomml/pkg/parser
//   - Evaluator: github.com/sandrolain/gomml/pkg/evaluator
//   - Functions: github.com/sandrolain/gomml/pkg/functions
//   - Types: github.com/sandrolain/gomml/pkg/types
//   - Extensions: github.com/sandrolain/gomml/pkg/ext
package gomml

import (
	"github.com/sandrolain/gomml/pkg/evaluator"
	"github.com/sandrolain/gomml/pkg/types"
)

// Version returns the current version of gomml.
func Version() string {
	return "v0.1.0-dev"
}

// NewSession creates an evaluator session with the given options.
func NewSession(opts ...evaluator.EvalOption) *evaluator.Evaluator {
	return evaluator.New(opts...)
}

// Eval is a convenience function that evaluates src in a fresh session and
// returns the value of its last statement. The session is returned so the
// value can be formatted and its vector elements resolved.
//
// Example:
//
//	v, ev, err := gomml.Eval("[1, 2, 3] * 2")
//	fmt.Println(ev.Format(v)) // [2, 4, 6]
func Eval(src string, opts ...evaluator.EvalOption) (types.Value, *evaluator.Evaluator, error) {
	ev := evaluator.New(opts...)
	v, err := ev.Run(src)
	return v, ev, err
}

// EvalString evaluates src in a fresh session and formats the result.
func EvalString(src string, opts ...evaluator.EvalOption) (string, error) {
	v, ev, err := Eval(src, opts...)
	if err != nil {
		return "", err
	}
	return ev.Format(v), nil
}

// MustEval is like EvalString but panics if src fails to evaluate.
// It simplifies the initialization of package-level constants.
func MustEval(src string, opts ...evaluator.EvalOption) string {
	s, err := EvalString(src, opts...)
	if err != nil {
		panic("gomml: Eval(" + src + "): " + err.Error())
	}
	return s
}
