package types

import "fmt"

// Kind identifies the variant held by a Node or a Value.
type Kind uint8

// Node and value kinds.
const (
	KindInvalid Kind = iota
	KindOperation
	KindInteger
	KindReal
	KindComplex
	KindBoolean
	KindIdentifier
	KindInserted // $name, resolved against host-inserted values
	KindVector
)

// String returns the human readable kind name used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindOperation:
		return "operation"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real number"
	case KindComplex:
		return "complex number"
	case KindBoolean:
		return "boolean"
	case KindIdentifier:
		return "identifier"
	case KindInserted:
		return "inserted identifier"
	case KindVector:
		return "vector"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Op identifies the operator of an operation node.
type Op uint8

// Operators. Unary operators leave Node.Right set to NoHandle.
const (
	OpNone Op = iota
	OpFuncCall
	OpIndex // .
	OpPow
	OpRoot
	OpMul
	OpDiv
	OpMod
	OpAdd
	OpSub
	OpLess
	OpGreater
	OpLessEqual
	OpGreaterEqual
	OpEqual
	OpNotEqual
	OpExactEqual
	OpExactNotEqual
	OpBind
	OpNot
	OpNegate
	OpNop       // unary +
	OpPlusMinus // unary ~
	OpMagnitude // |e|
)

var opSymbols = [...]string{
	OpNone:          "?",
	OpFuncCall:      "call",
	OpIndex:         ".",
	OpPow:           "^",
	OpRoot:          "root",
	OpMul:           "*",
	OpDiv:           "/",
	OpMod:           "%",
	OpAdd:           "+",
	OpSub:           "-",
	OpLess:          "<",
	OpGreater:       ">",
	OpLessEqual:     "<=",
	OpGreaterEqual:  ">=",
	OpEqual:         "==",
	OpNotEqual:      "!=",
	OpExactEqual:    "===",
	OpExactNotEqual: "!==",
	OpBind:          "=",
	OpNot:           "!",
	OpNegate:        "-",
	OpNop:           "+",
	OpPlusMinus:     "~",
	OpMagnitude:     "|",
}

// String returns the operator's surface symbol.
func (o Op) String() string {
	if int(o) < len(opSymbols) {
		return opSymbols[o]
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// Unary reports whether o is a prefix or enclosing operator.
func (o Op) Unary() bool {
	switch o {
	case OpNot, OpNegate, OpNop, OpPlusMinus, OpMagnitude:
		return true
	}
	return false
}

// Handle is a stable index of a Node inside an Arena.
type Handle uint32

// NoHandle marks an absent operand.
const NoHandle Handle = ^Handle(0)

// Span addresses a run of element handles in an Arena's handle pool.
type Span struct {
	Off uint32
	Len uint32
}

// Node is an AST node. Which fields hold data depends on Kind.
type Node struct {
	Kind     Kind
	Op       Op
	Left     Handle
	Right    Handle
	Int      int64
	Real     float64
	Complex  complex128
	Bool     bool
	Name     string
	Elems    Span
	Position int
}

// Nodes synthesized at evaluation time carry this position.
const NoPosition = -1

// String returns a short description of the node.
func (n Node) String() string {
	switch n.Kind {
	case KindOperation:
		return "Operation(" + n.Op.String() + ")"
	case KindIdentifier, KindInserted:
		return n.Kind.String() + " '" + n.Name + "'"
	default:
		return n.Kind.String()
	}
}

// NewOperation builds an operation node. Pass NoHandle as right for unary operators.
func NewOperation(op Op, left, right Handle, position int) Node {
	return Node{Kind: KindOperation, Op: op, Left: left, Right: right, Position: position}
}

// NodeFromValue builds a literal node holding v. Vector values keep their span.
func NodeFromValue(v Value) Node {
	n := Node{Kind: v.Kind, Left: NoHandle, Right: NoHandle, Position: NoPosition}
	switch v.Kind {
	case KindInteger:
		n.Int = v.Int
	case KindReal:
		n.Real = v.Real
	case KindComplex:
		n.Complex = v.Complex
	case KindBoolean:
		n.Bool = v.Bool
	case KindVector:
		n.Elems = v.Vec
	default:
		n.Kind = KindInvalid
	}
	return n
}
