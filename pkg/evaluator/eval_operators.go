package evaluator

import (
	"math"
	"math/cmplx"

	"github.com/sandrolain/gomml/pkg/types"
)

// applyUnary applies a prefix operator, magnitude or the one-argument root.
func (e *Evaluator) applyUnary(op types.Op, a types.Value, pos int) types.Value {
	if !a.IsValid() {
		return e.invalidOperand(a, pos)
	}

	switch op {
	case types.OpNop:
		return a

	case types.OpNot:
		if a.IsNumeric() {
			return types.Bool(a.Number() == 0)
		}

	case types.OpNegate:
		switch {
		case a.Kind == types.KindInteger:
			return types.Integer(-a.Int)
		case a.IsNumeric():
			return types.Real(-a.Number())
		case a.Kind == types.KindComplex:
			return types.Complex(-a.Complex)
		case a.Kind == types.KindVector:
			return e.broadcast(types.OpMul, a, types.Real(-1), true, pos)
		}

	case types.OpMagnitude:
		switch {
		case a.IsNumeric():
			return types.Real(math.Abs(a.Number()))
		case a.Kind == types.KindComplex:
			return types.Real(cmplx.Abs(a.Complex))
		case a.Kind == types.KindVector:
			return e.norm(a, pos)
		}

	case types.OpPlusMinus:
		neg := e.applyUnary(types.OpNegate, a, pos)
		if !neg.IsValid() {
			return neg
		}
		return types.Vector(e.arena.AllocSpan([]types.Handle{
			e.arena.AllocValue(a),
			e.arena.AllocValue(neg),
		}))

	case types.OpRoot:
		switch {
		case a.IsNumeric():
			if x := a.Number(); x >= 0 || math.IsNaN(x) {
				return types.Real(math.Sqrt(x))
			}
			return types.Complex(cmplx.Sqrt(a.AsComplex()))
		case a.Kind == types.KindComplex:
			return types.Complex(cmplx.Sqrt(a.Complex))
		}
	}

	return e.fail(pos, types.ErrInvalidTypeOperation, "invalid unary operator '%s' on %s operand", op, a.Kind)
}

// applyBinary applies a binary operator following the operand kinds:
// real (including integers and booleans), complex, vector index, vector with
// vector, and vector with scalar broadcasting.
func (e *Evaluator) applyBinary(op types.Op, a, b types.Value, pos int) types.Value {
	if !a.IsValid() {
		return e.invalidOperand(a, pos)
	}
	if !b.IsValid() {
		return e.invalidOperand(b, pos)
	}

	switch {
	case a.IsNumeric() && b.IsNumeric():
		if v, ok := e.realOp(op, a.Number(), b.Number()); ok {
			return v
		}

	case a.IsScalar() && b.IsScalar():
		if v, ok := complexOp(op, a.AsComplex(), b.AsComplex()); ok {
			return v
		}
		return e.fail(pos, types.ErrInvalidTypeOperation, "invalid binary operator '%s' on complex operands", op)

	case a.Kind == types.KindVector && op == types.OpIndex:
		if b.Kind == types.KindReal || b.Kind == types.KindInteger {
			return e.index(a, b, pos)
		}

	case a.Kind == types.KindVector && b.Kind == types.KindVector:
		if a.Len() == b.Len() {
			switch op {
			case types.OpMul:
				return e.dot(a, b, pos)
			case types.OpEqual:
				return e.vectorEqual(a, b, pos)
			}
		}

	case a.Kind == types.KindVector && b.IsScalar():
		if broadcastable(op) {
			return e.broadcast(op, a, b, true, pos)
		}

	case a.IsScalar() && b.Kind == types.KindVector:
		if broadcastable(op) {
			return e.broadcast(op, b, a, false, pos)
		}
	}

	return e.fail(pos, types.ErrInvalidTypeOperation, "invalid binary operator '%s' on %s and %s operands", op, a.Kind, b.Kind)
}

// realOp applies op to two reals.
func (e *Evaluator) realOp(op types.Op, x, y float64) (types.Value, bool) {
	switch op {
	case types.OpPow:
		return types.Real(math.Pow(x, y)), true
	case types.OpRoot:
		return types.Real(math.Pow(x, 1/y)), true
	case types.OpMul:
		return types.Real(x * y), true
	case types.OpDiv:
		return types.Real(x / y), true
	case types.OpMod:
		return types.Real(math.Mod(x, y)), true
	case types.OpAdd:
		return types.Real(x + y), true
	case types.OpSub:
		return types.Real(x - y), true
	case types.OpLess:
		return types.Bool(x < y), true
	case types.OpGreater:
		return types.Bool(x > y), true
	case types.OpLessEqual:
		return types.Bool(x <= y), true
	case types.OpGreaterEqual:
		return types.Bool(x >= y), true
	case types.OpEqual:
		return types.Bool(e.equal(x, y)), true
	case types.OpNotEqual:
		return types.Bool(!e.equal(x, y)), true
	case types.OpExactEqual:
		return types.Bool(x == y), true
	case types.OpExactNotEqual:
		return types.Bool(x != y), true
	}
	return types.Invalid, false
}

// equal implements ==: within Epsilon when fuzzy equality is on.
func (e *Evaluator) equal(x, y float64) bool {
	if x == y {
		return true
	}
	return e.opts.FuzzyEquality && math.Abs(x-y) < Epsilon
}

// complexOp applies op to two complex numbers. Ordering and modulo are undefined.
func complexOp(op types.Op, x, y complex128) (types.Value, bool) {
	switch op {
	case types.OpPow:
		return types.Complex(cmplx.Pow(x, y)), true
	case types.OpRoot:
		return types.Complex(cmplx.Pow(x, 1/y)), true
	case types.OpMul:
		return types.Complex(x * y), true
	case types.OpDiv:
		return types.Complex(x / y), true
	case types.OpAdd:
		return types.Complex(x + y), true
	case types.OpSub:
		return types.Complex(x - y), true
	case types.OpEqual, types.OpExactEqual:
		return types.Bool(x == y), true
	case types.OpNotEqual, types.OpExactNotEqual:
		return types.Bool(x != y), true
	}
	return types.Invalid, false
}

func broadcastable(op types.Op) bool {
	switch op {
	case types.OpAdd, types.OpSub, types.OpMul, types.OpDiv:
		return true
	}
	return false
}

// nest counts one level of an elementwise vector operation against MaxDepth.
// Element evaluation returns before the operation recurses into the element,
// so evalNode alone does not see the nesting. On success the caller must
// defer unnest.
func (e *Evaluator) nest(pos int) (types.Value, bool) {
	e.depth++
	if e.opts.MaxDepth > 0 && e.depth > e.opts.MaxDepth {
		e.depth--
		return e.fail(pos, types.ErrStackOverflow, "maximum recursion depth %d exceeded", e.opts.MaxDepth), false
	}
	return types.Value{}, true
}

func (e *Evaluator) unnest() { e.depth-- }

// index evaluates vec.idx. The index must be a non-negative integer within Epsilon.
func (e *Evaluator) index(vec, idx types.Value, pos int) types.Value {
	f := idx.Number()
	r := math.Round(f)
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || math.Abs(f-r) > Epsilon {
		return e.fail(pos, types.ErrIndexNotInteger, "vector index must be a non-negative integer, got %s", e.Format(idx))
	}
	if r >= float64(vec.Len()) {
		return e.fail(pos, types.ErrIndexOutOfRange, "index %d out of range for vector of length %d", int64(r), vec.Len())
	}
	return e.evalNode(e.arena.Elem(vec.Vec, int(r)))
}

// dot multiplies equal-length vectors elementwise and sums the real parts of
// the products. Nested vectors multiply recursively, so a vector of vectors
// sums the dot products of its rows.
func (e *Evaluator) dot(a, b types.Value, pos int) types.Value {
	if v, ok := e.nest(pos); !ok {
		return v
	}
	defer e.unnest()

	var sum float64
	for i := 0; i < a.Len(); i++ {
		x := e.evalNode(e.arena.Elem(a.Vec, i))
		y := e.evalNode(e.arena.Elem(b.Vec, i))
		p := e.applyBinary(types.OpMul, x, y, pos)
		if !p.IsValid() {
			return p
		}
		if !p.IsScalar() {
			return e.fail(pos, types.ErrInvalidTypeOperation, "dot product term %d is a %s", i, p.Kind)
		}
		sum += p.Number()
	}
	return types.Real(sum)
}

// vectorEqual compares equal-length vectors elementwise with ==.
func (e *Evaluator) vectorEqual(a, b types.Value, pos int) types.Value {
	if v, ok := e.nest(pos); !ok {
		return v
	}
	defer e.unnest()

	for i := 0; i < a.Len(); i++ {
		x := e.evalNode(e.arena.Elem(a.Vec, i))
		y := e.evalNode(e.arena.Elem(b.Vec, i))
		eq := e.applyBinary(types.OpEqual, x, y, pos)
		if !eq.IsValid() {
			return eq
		}
		if !eq.Bool {
			return types.Bool(false)
		}
	}
	return types.Bool(true)
}

// norm returns sqrt(Σ eᵢ*eᵢ), real when the root has no imaginary part.
func (e *Evaluator) norm(v types.Value, pos int) types.Value {
	if bad, ok := e.nest(pos); !ok {
		return bad
	}
	defer e.unnest()

	var sum complex128
	for i := 0; i < v.Len(); i++ {
		x := e.evalNode(e.arena.Elem(v.Vec, i))
		sq := e.applyBinary(types.OpMul, x, x, pos)
		if !sq.IsValid() {
			return sq
		}
		if !sq.IsScalar() {
			return e.fail(pos, types.ErrInvalidTypeOperation, "cannot take the magnitude of a vector holding %s", x.Kind)
		}
		sum += sq.AsComplex()
	}
	root := cmplx.Sqrt(sum)
	if imag(root) == 0 {
		return types.Real(real(root))
	}
	return types.Complex(root)
}

// broadcast applies op between every element of vec and scalar, allocating
// a new vector. vecLeft keeps the operand order of the source expression.
func (e *Evaluator) broadcast(op types.Op, vec, scalar types.Value, vecLeft bool, pos int) types.Value {
	if v, ok := e.nest(pos); !ok {
		return v
	}
	defer e.unnest()

	out := make([]types.Handle, vec.Len())
	for i := range out {
		el := e.evalNode(e.arena.Elem(vec.Vec, i))
		var r types.Value
		if vecLeft {
			r = e.applyBinary(op, el, scalar, pos)
		} else {
			r = e.applyBinary(op, scalar, el, pos)
		}
		if !r.IsValid() {
			return r
		}
		out[i] = e.arena.AllocValue(r)
	}
	return types.Vector(e.arena.AllocSpan(out))
}
