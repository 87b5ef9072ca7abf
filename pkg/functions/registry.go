// Package functions provides the builtin function registry and the types for
// registering custom functions.
//
// A [Registry] is partitioned into six tables by signature: constants,
// variadic functions receiving unevaluated argument handles, and four
// single-argument numeric tables (real→real, complex→complex, complex→real,
// real→complex). The evaluator picks a table from the runtime type of the
// first argument; complex tables are keyed by "complex_" + name.
//
// # Example
//
//	ev := evaluator.New(evaluator.WithFunctions(
//	    functions.RealFunc{Name: "double", Fn: func(x float64) float64 { return 2 * x }},
//	    functions.Constant{Name: "c", Value: types.Real(299792458)},
//	))
//	v, _ := ev.Run("double{c}")
package functions

import (
	"io"
	"sort"

	"github.com/sandrolain/gomml/pkg/types"
)

// ComplexPrefix is prepended to the name of complex-argument functions.
const ComplexPrefix = "complex_"

// VariadicFunc receives its arguments unevaluated; it evaluates them through c.
type VariadicFunc func(c Caller, args []types.Handle) types.Value

// Caller gives variadic functions access to the evaluating session.
type Caller interface {
	// Evaluate evaluates the node addressed by h as part of the running statement.
	Evaluate(h types.Handle) types.Value
	// Apply applies a binary operator.
	Apply(op types.Op, a, b types.Value) types.Value
	// ApplyUnary applies a unary operator, including the one-argument root.
	ApplyUnary(op types.Op, a types.Value) types.Value
	// Arena returns the session's node store.
	Arena() *types.Arena
	// Fail records a failure for the current statement and returns types.Invalid.
	Fail(code types.ErrorCode, format string, args ...any) types.Value
	// Output returns the writer print-like functions write to.
	Output() io.Writer
	// Format renders a value with the session's formatting settings.
	Format(v types.Value) string
}

// Entry is implemented by every registrable definition. It allows mixing
// all kinds in a single variadic call to evaluator.WithFunctions.
type Entry interface {
	register(r *Registry)
}

// Constant defines a named value.
type Constant struct {
	Name  string
	Value types.Value
}

// Variadic defines a function over an unevaluated argument list.
type Variadic struct {
	Name string
	Fn   VariadicFunc
}

// RealFunc defines a real→real function.
type RealFunc struct {
	Name string
	Fn   func(float64) float64
}

// ComplexFunc defines a complex→complex function. Name is given without
// the "complex_" prefix.
type ComplexFunc struct {
	Name string
	Fn   func(complex128) complex128
}

// ComplexRealFunc defines a complex→real function. Name is given without
// the "complex_" prefix.
type ComplexRealFunc struct {
	Name string
	Fn   func(complex128) float64
}

// RealComplexFunc defines a real→complex function.
type RealComplexFunc struct {
	Name string
	Fn   func(float64) complex128
}

func (c Constant) register(r *Registry)        { r.constants[c.Name] = c.Value }
func (v Variadic) register(r *Registry)        { r.variadic[v.Name] = v.Fn }
func (f RealFunc) register(r *Registry)        { r.realReal[f.Name] = f.Fn }
func (f ComplexFunc) register(r *Registry)     { r.complexComplex[ComplexPrefix+f.Name] = f.Fn }
func (f ComplexRealFunc) register(r *Registry) { r.complexReal[ComplexPrefix+f.Name] = f.Fn }
func (f RealComplexFunc) register(r *Registry) { r.realComplex[f.Name] = f.Fn }

// Registry holds the six builtin tables.
//
// A Registry is not safe for concurrent mutation; once filled it may be
// shared read-only by any number of sessions. An overlay registry consults
// its parent for names it does not define itself.
type Registry struct {
	parent *Registry

	constants      map[string]types.Value
	variadic       map[string]VariadicFunc
	realReal       map[string]func(float64) float64
	complexComplex map[string]func(complex128) complex128
	complexReal    map[string]func(complex128) float64
	realComplex    map[string]func(float64) complex128
}

// NewRegistry creates a registry holding entries.
func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{
		constants:      make(map[string]types.Value),
		variadic:       make(map[string]VariadicFunc),
		realReal:       make(map[string]func(float64) float64),
		complexComplex: make(map[string]func(complex128) complex128),
		complexReal:    make(map[string]func(complex128) float64),
		realComplex:    make(map[string]func(float64) complex128),
	}
	r.Register(entries...)
	return r
}

// NewOverlay creates a registry holding entries on top of parent.
// The parent is never modified.
func NewOverlay(parent *Registry, entries ...Entry) *Registry {
	r := NewRegistry(entries...)
	r.parent = parent
	return r
}

// Parent returns the registry this one overlays, or nil.
func (r *Registry) Parent() *Registry {
	return r.parent
}

// Register adds entries, replacing same-named entries of the same table.
func (r *Registry) Register(entries ...Entry) {
	for _, e := range entries {
		e.register(r)
	}
}

// Constant looks up a constant.
func (r *Registry) Constant(name string) (types.Value, bool) {
	v, ok := r.constants[name]
	if !ok && r.parent != nil {
		return r.parent.Constant(name)
	}
	return v, ok
}

// Variadic looks up a variadic function.
func (r *Registry) Variadic(name string) (VariadicFunc, bool) {
	fn, ok := r.variadic[name]
	if !ok && r.parent != nil {
		return r.parent.Variadic(name)
	}
	return fn, ok
}

// RealReal looks up a real→real function.
func (r *Registry) RealReal(name string) (func(float64) float64, bool) {
	fn, ok := r.realReal[name]
	if !ok && r.parent != nil {
		return r.parent.RealReal(name)
	}
	return fn, ok
}

// RealComplex looks up a real→complex function.
func (r *Registry) RealComplex(name string) (func(float64) complex128, bool) {
	fn, ok := r.realComplex[name]
	if !ok && r.parent != nil {
		return r.parent.RealComplex(name)
	}
	return fn, ok
}

// ComplexComplex looks up a complex→complex function by its full
// "complex_"-prefixed name.
func (r *Registry) ComplexComplex(name string) (func(complex128) complex128, bool) {
	fn, ok := r.complexComplex[name]
	if !ok && r.parent != nil {
		return r.parent.ComplexComplex(name)
	}
	return fn, ok
}

// ComplexReal looks up a complex→real function by its full
// "complex_"-prefixed name.
func (r *Registry) ComplexReal(name string) (func(complex128) float64, bool) {
	fn, ok := r.complexReal[name]
	if !ok && r.parent != nil {
		return r.parent.ComplexReal(name)
	}
	return fn, ok
}

// Names returns the sorted names registered in every table, parents included.
func (r *Registry) Names() []string {
	seen := make(map[string]struct{})
	r.collect(seen)
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) collect(seen map[string]struct{}) {
	if r.parent != nil {
		r.parent.collect(seen)
	}
	add := func(name string) { seen[name] = struct{}{} }
	for k := range r.constants {
		add(k)
	}
	for k := range r.variadic {
		add(k)
	}
	for k := range r.realReal {
		add(k)
	}
	for k := range r.complexComplex {
		add(k)
	}
	for k := range r.complexReal {
		add(k)
	}
	for k := range r.realComplex {
		add(k)
	}
}
