package evaluator

import (
	"math"

	"github.com/sandrolain/gomml/pkg/functions"
	"github.com/sandrolain/gomml/pkg/types"
)

// ansName is the identifier holding the last result.
const ansName = "ans"

// evalNode is the main evaluation dispatcher.
func (e *Evaluator) evalNode(h types.Handle) types.Value {
	e.depth++
	defer func() { e.depth-- }()

	n := e.arena.Node(h)
	if e.opts.MaxDepth > 0 && e.depth > e.opts.MaxDepth {
		return e.fail(n.Position, types.ErrStackOverflow, "maximum recursion depth %d exceeded", e.opts.MaxDepth)
	}

	if e.opts.Debug {
		e.logger.Debug("evaluating node", "node", n.String(), "position", n.Position, "depth", e.depth)
	}

	switch n.Kind {
	case types.KindInteger:
		return types.Integer(n.Int)
	case types.KindReal:
		return types.Real(n.Real)
	case types.KindComplex:
		return types.Complex(n.Complex)
	case types.KindBoolean:
		return types.Bool(n.Bool)
	case types.KindVector:
		return types.Vector(n.Elems)
	case types.KindIdentifier:
		return e.lookup(n)
	case types.KindInserted:
		if bound, ok := e.bindings.Inserted(n.Name); ok {
			return e.evalNode(bound)
		}
		return e.fail(n.Position, types.ErrUndefinedVariable, "undefined inserted identifier '$%s'", n.Name)
	case types.KindOperation:
		return e.evalOperation(n)
	default:
		return e.fail(n.Position, types.ErrNoValue, "cannot evaluate %s node", n.Kind)
	}
}

// lookup resolves an identifier: ans, then constants, then variables.
func (e *Evaluator) lookup(n types.Node) types.Value {
	if n.Name == ansName {
		if !e.hasLast {
			return e.fail(n.Position, types.ErrUndefinedVariable, "no previous result for '%s'", ansName)
		}
		return e.last
	}
	if v, ok := e.registry.Constant(n.Name); ok {
		return v
	}
	if bound, ok := e.bindings.Get(n.Name); ok {
		return e.evalNode(bound)
	}
	return e.fail(n.Position, types.ErrUndefinedVariable, "undefined identifier '%s'", n.Name)
}

func (e *Evaluator) evalOperation(n types.Node) types.Value {
	switch n.Op {
	case types.OpBind:
		return e.evalBind(n)
	case types.OpFuncCall:
		return e.evalCall(n)
	}

	a := e.evalNode(n.Left)
	if n.Right == types.NoHandle {
		return e.applyUnary(n.Op, a, n.Position)
	}
	if !a.IsValid() {
		return e.invalidOperand(a, n.Position)
	}
	b := e.evalNode(n.Right)
	return e.applyBinary(n.Op, a, b, n.Position)
}

// evalBind records the unevaluated right-hand side and returns its value.
func (e *Evaluator) evalBind(n types.Node) types.Value {
	target := e.arena.Node(n.Left)
	if target.Kind != types.KindIdentifier {
		return e.fail(n.Position, types.ErrLeftSideAssign, "left side of '=' must be an identifier, got %s", target.Kind)
	}
	if e.reserved(target.Name) {
		return e.fail(n.Position, types.ErrAssignToConstant, "cannot assign to builtin constant '%s'", target.Name)
	}
	e.bindings.Set(target.Name, n.Right)
	return e.evalNode(n.Right)
}

// reserved reports whether name can never be rebound.
func (e *Evaluator) reserved(name string) bool {
	if name == ansName {
		return true
	}
	_, ok := e.registry.Constant(name)
	return ok
}

// evalCall dispatches name{args}. Variadic functions see the argument
// handles; single-argument functions are chosen by the first argument's kind.
func (e *Evaluator) evalCall(n types.Node) types.Value {
	name := e.arena.Node(n.Left).Name
	args := e.arena.Node(n.Right).Elems

	if fn, ok := e.registry.Variadic(name); ok {
		saved := e.callPos
		e.callPos = n.Position
		v := fn(e, e.arena.Elems(args))
		e.callPos = saved
		return v
	}

	if !e.knownFunction(name) {
		return e.fail(n.Position, types.ErrUndefinedFunction, "undefined function '%s'", name)
	}
	if args.Len == 0 {
		return e.fail(n.Position, types.ErrUndefinedFunction, "undefined function '%s' for empty argument list", name)
	}
	if args.Len > 1 {
		return e.fail(n.Position, types.ErrBadArguments, "function '%s' takes one argument, got %d", name, args.Len)
	}

	a := e.evalNode(e.arena.Elem(args, 0))
	if !a.IsValid() {
		return e.invalidOperand(a, n.Position)
	}
	return e.applyFunction(name, a, n.Position)
}

// applyFunction applies a single-argument builtin.
//
// A real argument tries the real→complex table first, then real→real. A
// real→real result of NaN for a non-NaN argument is retried on the complex
// plane when a complex version exists, so sqrt{-1} yields i. A complex
// argument tries "complex_" + name in the complex→real, then complex→complex tables.
func (e *Evaluator) applyFunction(name string, a types.Value, pos int) types.Value {
	switch a.Kind {
	case types.KindReal, types.KindInteger:
		x := a.Number()
		if fn, ok := e.registry.RealComplex(name); ok {
			return types.Complex(fn(x))
		}
		if fn, ok := e.registry.RealReal(name); ok {
			y := fn(x)
			if math.IsNaN(y) && !math.IsNaN(x) {
				if cfn, ok := e.registry.ComplexComplex(functions.ComplexPrefix + name); ok {
					return types.Complex(cfn(complex(x, 0)))
				}
			}
			return types.Real(y)
		}
	case types.KindComplex:
		cname := functions.ComplexPrefix + name
		if fn, ok := e.registry.ComplexReal(cname); ok {
			return types.Real(fn(a.Complex))
		}
		if fn, ok := e.registry.ComplexComplex(cname); ok {
			return types.Complex(fn(a.Complex))
		}
	}
	return e.fail(pos, types.ErrNoFunctionForType, "undefined function '%s' for %s argument", name, a.Kind)
}

// knownFunction reports whether any single-argument table defines name.
func (e *Evaluator) knownFunction(name string) bool {
	if _, ok := e.registry.RealReal(name); ok {
		return true
	}
	if _, ok := e.registry.RealComplex(name); ok {
		return true
	}
	cname := functions.ComplexPrefix + name
	if _, ok := e.registry.ComplexComplex(cname); ok {
		return true
	}
	_, ok := e.registry.ComplexReal(cname)
	return ok
}

// fail records a failure for the running statement and returns types.Invalid.
// Only the first failure of a statement is kept.
func (e *Evaluator) fail(pos int, code types.ErrorCode, format string, args ...any) types.Value {
	err := types.Errorf(code, pos, format, args...)
	if e.err == nil {
		e.err = err
	}
	if e.opts.Debug {
		e.logger.Debug("evaluation failed", "code", string(code), "position", pos, "message", err.Message)
	}
	return types.Invalid
}

// invalidOperand propagates an Invalid operand. Failed operands pass through
// silently; operands that never had a value, such as the result of print,
// are reported.
func (e *Evaluator) invalidOperand(v types.Value, pos int) types.Value {
	if v.Sentinel == types.SentinelError {
		return types.Invalid
	}
	return e.fail(pos, types.ErrNoValue, "operand has no value")
}

// Evaluate evaluates h as part of the running statement. It implements
// functions.Caller; hosts should use Eval for top-level statements.
func (e *Evaluator) Evaluate(h types.Handle) types.Value {
	if e.closed {
		return types.Invalid
	}
	return e.evalNode(h)
}

// Apply applies a binary operator at the position of the running call.
func (e *Evaluator) Apply(op types.Op, a, b types.Value) types.Value {
	if !a.IsValid() {
		return e.invalidOperand(a, e.callPos)
	}
	return e.applyBinary(op, a, b, e.callPos)
}

// ApplyUnary applies a unary operator at the position of the running call.
func (e *Evaluator) ApplyUnary(op types.Op, a types.Value) types.Value {
	return e.applyUnary(op, a, e.callPos)
}

// Fail records a failure at the position of the running call.
func (e *Evaluator) Fail(code types.ErrorCode, format string, args ...any) types.Value {
	return e.fail(e.callPos, code, format, args...)
}

var _ functions.Caller = (*Evaluator)(nil)
