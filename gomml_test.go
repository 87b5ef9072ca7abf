package gomml_test

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/sandrolain/gomml"
	"github.com/sandrolain/gomml/pkg/evaluator"
	"github.com/sandrolain/gomml/pkg/ext"
	"github.com/sandrolain/gomml/pkg/types"
)

func TestEvalString(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"2 + 3 * 4", "14"},
		{"2 ^ 3 ^ 2", "512"},
		{"2pi", "6.28319"},
		{"sqrt{-1}", "0+1i"},
		{"[1, 2, 3] * 2", "[2, 4, 6]"},
		{"y = 2; x = 3y; y = 5; x", "15"},
		{"0.1 + 0.2 == 0.3", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := gomml.EvalString(tt.src, evaluator.WithOutput(io.Discard))
			if err != nil {
				t.Fatalf("EvalString(%q) error: %v", tt.src, err)
			}
			if got != tt.want {
				t.Errorf("EvalString(%q) = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestEvalError(t *testing.T) {
	_, _, err := gomml.Eval("1 + nope")
	var evErr *types.Error
	if !errors.As(err, &evErr) {
		t.Fatalf("err = %v, want a *types.Error", err)
	}
	if evErr.Code != types.ErrUndefinedVariable {
		t.Errorf("code = %s, want %s", evErr.Code, types.ErrUndefinedVariable)
	}

	if s, err := gomml.EvalString("2 +"); err == nil {
		t.Errorf("EvalString(\"2 +\") = %q, want an error", s)
	}
}

func TestNewSession(t *testing.T) {
	ev := gomml.NewSession(evaluator.WithPrecision(3))
	if _, err := ev.Run("r = 2"); err != nil {
		t.Fatal(err)
	}
	v, err := ev.Run("pi r^2")
	if err != nil {
		t.Fatal(err)
	}
	if got := ev.Format(v); got != "12.6" {
		t.Errorf("pi r^2 = %s, want 12.6", got)
	}
}

func TestMustEval(t *testing.T) {
	if got := gomml.MustEval("max{1, 5, 3}"); got != "5" {
		t.Errorf("MustEval = %s, want 5", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustEval should panic on failure")
		}
	}()
	gomml.MustEval("1 + nope")
}

func TestVersion(t *testing.T) {
	if gomml.Version() == "" {
		t.Error("Version() is empty")
	}
}

func ExampleEvalString() {
	s, err := gomml.EvalString("[1, 2, 3] * [4, 5, 6]")
	if err != nil {
		panic(err)
	}
	fmt.Println(s)
	// Output: 32
}

func ExampleEval() {
	v, ev, err := gomml.Eval("v = [3, 1, 2]; sort{v}")
	if err != nil {
		panic(err)
	}
	fmt.Println(ev.Format(v), v.Kind)
	// Output: [1, 2, 3] vector
}

func ExampleNewSession() {
	ev := gomml.NewSession(ext.WithAll())
	for _, line := range []string{"data = [2, 4, 4, 4, 5, 5, 7, 9]", "stddev{data}", "ans * 2"} {
		v, err := ev.Run(line)
		if err != nil {
			panic(err)
		}
		fmt.Println(ev.Format(v))
	}
	// Output:
	// [2, 4, 4, 4, 5, 5, 7, 9]
	// 2
	// 4
}
