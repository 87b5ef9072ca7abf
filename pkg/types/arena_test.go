package types_test

import (
	"errors"
	"math"
	"testing"

	"github.com/sandrolain/gomml/pkg/types"
)

func TestArenaAlloc(t *testing.T) {
	a := types.NewArena(0)
	if a.Cap() == 0 {
		t.Fatal("NewArena(0) should use the default capacity")
	}

	h := a.AllocValue(types.Real(2.5))
	n := a.Node(h)
	if n.Kind != types.KindReal || n.Real != 2.5 {
		t.Errorf("Node(%d) = %v, want RealNumber(2.5)", h, n)
	}
	if !a.Valid(h) {
		t.Errorf("Valid(%d) = false", h)
	}
	if a.Valid(types.NoHandle) {
		t.Error("NoHandle should not be valid")
	}
	if got := a.Node(types.Handle(99)); got.Kind != types.KindInvalid {
		t.Errorf("Node(unknown) kind = %s, want invalid", got.Kind)
	}
}

// Handles taken before a relocation keep addressing the same nodes.
func TestArenaStableHandles(t *testing.T) {
	a := types.NewArena(2)
	first := a.AllocValue(types.Real(1))
	vec := a.AllocVector([]types.Handle{first}, 0)

	handles := make([]types.Handle, 0, 1000)
	for i := 0; i < 1000; i++ {
		handles = append(handles, a.AllocValue(types.Real(float64(i))))
	}

	if a.Grows() == 0 {
		t.Fatal("expected the arena to grow")
	}
	if got := a.Node(first); got.Real != 1 {
		t.Errorf("first node = %v after growth", got)
	}
	for i, h := range handles {
		if got := a.Node(h); got.Real != float64(i) {
			t.Fatalf("node %d = %v, want %d", h, got, i)
		}
	}
	elems := a.Elems(a.Node(vec).Elems)
	if len(elems) != 1 || elems[0] != first {
		t.Errorf("vector elements = %v, want [%d]", elems, first)
	}
}

func TestArenaSpans(t *testing.T) {
	a := types.NewArena(1)
	var hs []types.Handle
	for i := 0; i < 200; i++ {
		hs = append(hs, a.AllocValue(types.Real(float64(i))))
	}
	s := a.AllocSpan(hs)
	if s.Len != 200 {
		t.Fatalf("span length = %d, want 200", s.Len)
	}
	for i := range hs {
		if got := a.Elem(s, i); got != hs[i] {
			t.Fatalf("Elem(%d) = %d, want %d", i, got, hs[i])
		}
	}
	if got := a.Elem(s, 200); got != types.NoHandle {
		t.Errorf("Elem past the end = %d, want NoHandle", got)
	}

	// Elems returns a copy
	out := a.Elems(s)
	out[0] = types.NoHandle
	if a.Elem(s, 0) == types.NoHandle {
		t.Error("modifying Elems result changed the arena")
	}
}

func TestValueNumber(t *testing.T) {
	tests := []struct {
		name string
		v    types.Value
		want float64
	}{
		{"real", types.Real(1.5), 1.5},
		{"integer", types.Integer(3), 3},
		{"true", types.Bool(true), 1},
		{"false", types.Bool(false), 0},
		{"complex", types.Complex(2 + 3i), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Number(); got != tt.want {
				t.Errorf("Number() = %g, want %g", got, tt.want)
			}
		})
	}

	if !math.IsNaN(types.Invalid.Number()) {
		t.Error("Invalid.Number() should be NaN")
	}
	if types.Void.IsValid() {
		t.Error("Void should not be valid")
	}
	if types.Void.Sentinel != types.SentinelVoid {
		t.Errorf("Void sentinel = %v", types.Void.Sentinel)
	}
}

func TestNodeFromValue(t *testing.T) {
	n := types.NodeFromValue(types.Complex(1 - 2i))
	if n.Kind != types.KindComplex || n.Complex != 1-2i {
		t.Errorf("NodeFromValue(complex) = %v", n)
	}
	if n.Left != types.NoHandle || n.Right != types.NoHandle {
		t.Error("literal nodes must have no children")
	}
}

func TestErrorFormatting(t *testing.T) {
	err := types.NewError(types.ErrUndefinedVariable, "undefined identifier 'x'", 4)
	if got, want := err.Error(), "U1001 at position 4: undefined identifier 'x'"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := errors.New("boom")
	wrapped := types.Errorf(types.ErrSyntaxError, 0, "bad %s", "thing").WithCause(cause)
	if !errors.Is(wrapped, cause) {
		t.Error("WithCause should be unwrappable")
	}
	if wrapped.Message != "bad thing" {
		t.Errorf("Message = %q", wrapped.Message)
	}
}
