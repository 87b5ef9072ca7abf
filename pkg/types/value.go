package types

import "math"

// Sentinel tells why a Value is Invalid.
type Sentinel uint8

const (
	// SentinelError marks a failed evaluation.
	SentinelError Sentinel = iota
	// SentinelVoid marks an expression that produced no value, such as print.
	SentinelVoid
	// SentinelQuit is the value of the exit constant.
	SentinelQuit
	// SentinelClear is the value of the clear constant.
	SentinelClear
)

// MaxNesting bounds how deep formatting and flattening descend into vectors.
// A vector bound to a variable may contain itself.
const MaxNesting = 256

// Value is a runtime value produced by evaluation.
//
// Vector values are views over arena storage: Vec addresses element handles
// which are evaluated on access.
type Value struct {
	Kind     Kind
	Int      int64
	Real     float64
	Complex  complex128
	Bool     bool
	Vec      Span
	Sentinel Sentinel
}

// Invalid is the failed-evaluation value.
var Invalid = Value{Kind: KindInvalid, Sentinel: SentinelError}

// Void is the value of expressions evaluated for their side effects.
var Void = Value{Kind: KindInvalid, Sentinel: SentinelVoid}

// Real returns a real number value.
func Real(f float64) Value { return Value{Kind: KindReal, Real: f} }

// Integer returns an integer value.
func Integer(i int64) Value { return Value{Kind: KindInteger, Int: i} }

// Complex returns a complex number value.
func Complex(c complex128) Value { return Value{Kind: KindComplex, Complex: c} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBoolean, Bool: b} }

// Vector returns a vector value over s.
func Vector(s Span) Value { return Value{Kind: KindVector, Vec: s} }

// Signal returns an Invalid value carrying s.
func Signal(s Sentinel) Value { return Value{Kind: KindInvalid, Sentinel: s} }

// IsValid reports whether v holds data.
func (v Value) IsValid() bool { return v.Kind != KindInvalid }

// IsNumeric reports whether v is a real, integer or boolean.
func (v Value) IsNumeric() bool {
	switch v.Kind {
	case KindReal, KindInteger, KindBoolean:
		return true
	}
	return false
}

// IsScalar reports whether v is numeric or complex.
func (v Value) IsScalar() bool {
	return v.IsNumeric() || v.Kind == KindComplex
}

// Number returns v as a float64. Booleans map to 1 and 0; complex values
// yield their real part. Others yield NaN.
func (v Value) Number() float64 {
	switch v.Kind {
	case KindReal:
		return v.Real
	case KindInteger:
		return float64(v.Int)
	case KindBoolean:
		if v.Bool {
			return 1
		}
		return 0
	case KindComplex:
		return real(v.Complex)
	}
	return math.NaN()
}

// AsComplex returns v promoted to complex128.
func (v Value) AsComplex() complex128 {
	if v.Kind == KindComplex {
		return v.Complex
	}
	return complex(v.Number(), 0)
}

// Len returns the element count of a vector value, or 0.
func (v Value) Len() int {
	if v.Kind != KindVector {
		return 0
	}
	return int(v.Vec.Len)
}
