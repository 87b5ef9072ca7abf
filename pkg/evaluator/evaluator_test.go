package evaluator_test

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/sandrolain/gomml/pkg/evaluator"
	"github.com/sandrolain/gomml/pkg/functions"
	"github.com/sandrolain/gomml/pkg/types"
)

// Helper functions

func newSession(opts ...evaluator.EvalOption) *evaluator.Evaluator {
	opts = append([]evaluator.EvalOption{evaluator.WithOutput(io.Discard)}, opts...)
	return evaluator.New(opts...)
}

func eval(t *testing.T, src string, opts ...evaluator.EvalOption) string {
	t.Helper()
	ev := newSession(opts...)
	return run(t, ev, src)
}

func run(t *testing.T, ev *evaluator.Evaluator, src string) string {
	t.Helper()
	v, err := ev.Run(src)
	if err != nil {
		t.Fatalf("Failed to eval %q: %v", src, err)
	}
	return ev.Format(v)
}

func evalExpectError(t *testing.T, src string, code types.ErrorCode, opts ...evaluator.EvalOption) *types.Error {
	t.Helper()
	ev := newSession(opts...)
	_, err := ev.Run(src)
	return expectCode(t, src, err, code)
}

func expectCode(t *testing.T, src string, err error, code types.ErrorCode) *types.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error evaluating %q but got none", src)
	}
	var evErr *types.Error
	if !errors.As(err, &evErr) {
		t.Fatalf("error %v is not a *types.Error", err)
	}
	if evErr.Code != code {
		t.Errorf("evaluating %q: code = %s, want %s (%v)", src, evErr.Code, code, err)
	}
	return evErr
}

type evalCase struct {
	src  string
	want string
}

func runCases(t *testing.T, tests []evalCase, opts ...evaluator.EvalOption) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := eval(t, tt.src, opts...); got != tt.want {
				t.Errorf("%s = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

// Arithmetic

func TestEvalArithmetic(t *testing.T) {
	runCases(t, []evalCase{
		{"2 + 3 * 4", "14"},
		{"(2 + 3) * 4", "20"},
		{"2 ^ 3 ^ 2", "512"},
		{"-2 ^ 2", "-4"},
		{"10 - 4 - 3", "3"},
		{"7 % 3", "1"},
		{"1 / 4", "0.25"},
		{"1 / 0", "inf"},
		{"-1 / 0", "-inf"},
		{"0 / 0", "nan"},
		{"+5", "5"},
		{"2pi", "6.28319"},
		{"3(1 + 1)", "6"},
		{"2e", "5.43656"},
	})
}

func TestEvalConstants(t *testing.T) {
	runCases(t, []evalCase{
		{"pi", "3.14159"},
		{"e", "2.71828"},
		{"phi", "1.61803"},
		{"i", "0+1i"},
		{"true", "true"},
		{"false", "false"},
		{"nan", "nan"},
		{"inf", "inf"},
		{"-inf", "-inf"},
	})
}

func TestEvalComparison(t *testing.T) {
	runCases(t, []evalCase{
		{"1 < 2", "true"},
		{"2 <= 2", "true"},
		{"3 > 4", "false"},
		{"3 >= 4", "false"},
		{"0.1 + 0.2 == 0.3", "true"},
		{"0.1 + 0.2 != 0.3", "false"},
		{"0.1 + 0.2 === 0.3", "false"},
		{"0.1 + 0.2 !== 0.3", "true"},
		{"inf == inf", "true"},
		{"nan == nan", "false"},
		{"1 == 1 + 1e", "false"},
	})
}

func TestEvalExactEquality(t *testing.T) {
	runCases(t, []evalCase{
		{"0.1 + 0.2 == 0.3", "false"},
		{"0.1 + 0.2 != 0.3", "true"},
		{"1 == 1", "true"},
	}, evaluator.WithFuzzyEquality(false))
}

func TestEvalBooleans(t *testing.T) {
	runCases(t, []evalCase{
		{"!0", "true"},
		{"!1", "false"},
		{"!true", "false"},
		{"true + 1", "2"},
		{"-true", "-1"},
		{"true == 1", "true"},
		{"(1 < 2) * 5", "5"},
	})
}

// Complex numbers

func TestEvalComplex(t *testing.T) {
	runCases(t, []evalCase{
		{"i * i", "-1+0i"},
		{"3 + 4i", "3+4i"},
		{"(1 + i) * (1 - i)", "2+0i"},
		{"|3 + 4i|", "5"},
		{"-(1 + 2i)", "-1-2i"},
		{"i == i", "true"},
		{"i != 1", "true"},
	})
}

func TestEvalComplexPromotion(t *testing.T) {
	runCases(t, []evalCase{
		{"sqrt{-1}", "0+1i"},
		{"sqrt{-4}", "0+2i"},
		{"csqrt{-1}", "0+1i"},
		{"csqrt{4}", "2+0i"},
		{"sqrt{16}", "4"},
		{"ln{-1}", "0+3.14159i"},
		{"sqrt{nan}", "nan"},
		{"root{-4}", "0+2i"},
	})
}

// Functions

func TestEvalFunctions(t *testing.T) {
	runCases(t, []evalCase{
		{"sin{0}", "0"},
		{"cos{pi}", "-1"},
		{"ln{e}", "1"},
		{"log10{1000}", "3"},
		{"log2{8}", "3"},
		{"floor{2.7}", "2"},
		{"ceil{2.1}", "3"},
		{"round{2.5}", "3"},
		{"sqrt{2}^2", "2"},
		{"real{3 + 4i}", "3"},
		{"imag{3 + 4i}", "4"},
		{"abs{3 + 4i}", "5"},
		{"conj{3 + 4i}", "3-4i"},
		{"phase{i}", "1.5708"},
	})
}

func TestEvalVariadic(t *testing.T) {
	runCases(t, []evalCase{
		{"max{3, 1, 2}", "3"},
		{"min{3, 1, 2}", "1"},
		{"max{[4, 9, 2]}", "9"},
		{"min{[4, 2, 8]}", "2"},
		{"max{true, 0}", "true"},
		{"sort{[3, 1, 2]}", "[1, 2, 3]"},
		{"sort{[]}", "[]"},
		{"root{16}", "4"},
		{"root{27, 3}", "3"},
		{"logb{e}", "1"},
		{"logb{8, 2}", "3"},
		{"logb{-1}", "0+3.14159i"},
		{"atan2{1, 1}", "0.785398"},
	})
}

func TestEvalCallErrors(t *testing.T) {
	tests := []struct {
		src  string
		code types.ErrorCode
	}{
		{"nosuch{1}", types.ErrUndefinedFunction},
		{"sqrt{}", types.ErrUndefinedFunction},
		{"sqrt{1, 2}", types.ErrBadArguments},
		{"sqrt{true}", types.ErrNoFunctionForType},
		{"sqrt{[1]}", types.ErrNoFunctionForType},
		{"floor{i}", types.ErrNoFunctionForType},
		{"max{}", types.ErrBadArguments},
		{"max{i, 1}", types.ErrBadArguments},
		{"sort{1}", types.ErrBadArguments},
		{"sort{[1, i]}", types.ErrBadArguments},
		{"atan2{1}", types.ErrBadArguments},
		{"atan2{i, 1}", types.ErrBadArguments},
		{"root{1, 2, 3}", types.ErrBadArguments},
		{"atan2{print{}, 1}", types.ErrNoValue},
		{"atan2{1, print{}}", types.ErrNoValue},
		{"logb{print{}}", types.ErrNoValue},
		{"logb{2, print{}}", types.ErrNoValue},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			evalExpectError(t, tt.src, tt.code)
		})
	}
}

// Arguments without a value are reported by the builtin that received them.
func TestEvalVoidArgumentNamesBuiltin(t *testing.T) {
	for _, name := range []string{"atan2", "logb", "max"} {
		src := name + "{print{}, 1}"
		perr := evalExpectError(t, src, types.ErrNoValue)
		if !strings.Contains(perr.Message, name+": argument has no value") {
			t.Errorf("%s: message %q should name %s", src, perr.Message, name)
		}
	}
}

// Vectors

func TestEvalVectors(t *testing.T) {
	runCases(t, []evalCase{
		{"[1, 2, 3]", "[1, 2, 3]"},
		{"[]", "[]"},
		{"[1, [2, i], true]", "[1, [2, 0+1i], true]"},
		{"[1, 2, 3] * 2", "[2, 4, 6]"},
		{"2 * [1, 2, 3]", "[2, 4, 6]"},
		{"[1, 2, 3] - 1", "[0, 1, 2]"},
		{"1 - [1, 2, 3]", "[0, -1, -2]"},
		{"[2, 4] / 2", "[1, 2]"},
		{"2 / [2, 4]", "[1, 0.5]"},
		{"[[1, 2], 3] * 2", "[[2, 4], 6]"},
		{"[1, 2] + i", "[1+1i, 2+1i]"},
		{"-[1, 2]", "[-1, -2]"},
		{"~2", "[2, -2]"},
		{"|[3, 4]|", "5"},
		{"|[3, 4i]|", "0+2.64575i"},
		{"[1, 2] == [1, 2]", "true"},
		{"[1, 2] == [1, 3]", "false"},
		{"[1, 2, 3] * [4, 5, 6]", "32"},
	})
}

// The vector product sums the real parts of the elementwise products, so an
// imaginary result is dropped and nested rows contribute their own dot products.
func TestEvalDotProductRealParts(t *testing.T) {
	runCases(t, []evalCase{
		{"[i] * [i]", "-1"},
		{"[2i] * [1]", "0"},
		{"[1, i] * [1, i]", "0"},
		{"[[1, 2], [3, 4]] * [[1, 2], [3, 4]]", "30"},
	})
}

func TestEvalIndex(t *testing.T) {
	runCases(t, []evalCase{
		{"[10, 20, 30].0", "10"},
		{"[10, 20, 30].2", "30"},
		{"[[1, 2], [3, 4]].1.0", "3"},
		{"[10, 20, 30].(1 + 1)", "30"},
		{"v = [5, 6]; v.1", "6"},
		{"[1, 2].(0.1 * 10 - 1)", "1"},
	})
}

func TestEvalIndexErrors(t *testing.T) {
	tests := []struct {
		src  string
		code types.ErrorCode
	}{
		{"[1, 2].5", types.ErrIndexOutOfRange},
		{"[].0", types.ErrIndexOutOfRange},
		{"[1, 2].(0.5)", types.ErrIndexNotInteger},
		{"[1, 2].(-1)", types.ErrIndexNotInteger},
		{"[1, 2].nan", types.ErrIndexNotInteger},
		{"[1, 2].inf", types.ErrIndexNotInteger},
		{"[1, 2].i", types.ErrInvalidTypeOperation},
		{"(2).0", types.ErrInvalidTypeOperation},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			evalExpectError(t, tt.src, tt.code)
		})
	}
}

func TestEvalOperatorErrors(t *testing.T) {
	tests := []struct {
		src  string
		code types.ErrorCode
	}{
		{"i < 1", types.ErrInvalidTypeOperation},
		{"i % 2", types.ErrInvalidTypeOperation},
		{"[1, 2] + [3, 4]", types.ErrInvalidTypeOperation},
		{"[1, 2] * [1, 2, 3]", types.ErrInvalidTypeOperation},
		{"[1] < 2", types.ErrInvalidTypeOperation},
		{"[1] ^ 2", types.ErrInvalidTypeOperation},
		{"![1]", types.ErrInvalidTypeOperation},
		{"!i", types.ErrInvalidTypeOperation},
		{"print{1} + 1", types.ErrNoValue},
		{"-print{1}", types.ErrNoValue},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			evalExpectError(t, tt.src, tt.code)
		})
	}
}

// The first failure of a statement is reported; the Invalid value it
// produces propagates silently.
func TestEvalFirstErrorWins(t *testing.T) {
	err := evalExpectError(t, "1 + zz + sqrt{}", types.ErrUndefinedVariable)
	if err.Position != 4 {
		t.Errorf("Position = %d, want 4", err.Position)
	}
	if !strings.Contains(err.Message, "zz") {
		t.Errorf("Message %q should name the identifier", err.Message)
	}
}

// Variables

func TestEvalBindings(t *testing.T) {
	ev := newSession()

	if got := run(t, ev, "x = 5"); got != "5" {
		t.Errorf("x = 5 returned %s", got)
	}
	if got := run(t, ev, "x * 2"); got != "10" {
		t.Errorf("x * 2 = %s, want 10", got)
	}
	if got := run(t, ev, "a = b = 3; a + b"); got != "6" {
		t.Errorf("chained binding = %s, want 6", got)
	}
	if got := ev.Bindings().Names(); strings.Join(got, ",") != "a,b,x" {
		t.Errorf("Names() = %v", got)
	}
}

func TestEvalLazyBindings(t *testing.T) {
	ev := newSession()

	_, err := ev.Run("x = y")
	expectCode(t, "x = y", err, types.ErrUndefinedVariable)
	if _, ok := ev.Variable("x"); !ok {
		t.Fatal("x should be bound even though y is undefined")
	}

	run(t, ev, "y = 5")
	if got := run(t, ev, "x"); got != "5" {
		t.Errorf("x = %s, want 5", got)
	}

	run(t, ev, "y = 7")
	if got := run(t, ev, "x"); got != "7" {
		t.Errorf("x after rebinding y = %s, want 7", got)
	}
}

func TestEvalUndefinedKeepsTable(t *testing.T) {
	ev := newSession()
	run(t, ev, "a = 1")

	_, err := ev.Run("a + undefined_name")
	expectCode(t, "a + undefined_name", err, types.ErrUndefinedVariable)

	if ev.Bindings().Len() != 1 {
		t.Errorf("binding count = %d, want 1", ev.Bindings().Len())
	}
	if got := run(t, ev, "a"); got != "1" {
		t.Errorf("a = %s, want 1", got)
	}
}

func TestEvalBindErrors(t *testing.T) {
	tests := []struct {
		src  string
		code types.ErrorCode
	}{
		{"pi = 3", types.ErrAssignToConstant},
		{"true = 0", types.ErrAssignToConstant},
		{"ans = 3", types.ErrAssignToConstant},
		{"2 = 3", types.ErrLeftSideAssign},
		{"[a] = 1", types.ErrLeftSideAssign},
		{"x = x + 1", types.ErrStackOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			evalExpectError(t, tt.src, tt.code, evaluator.WithMaxDepth(200))
		})
	}
}

func TestEvalAns(t *testing.T) {
	ev := newSession()

	_, err := ev.Run("ans")
	expectCode(t, "ans", err, types.ErrUndefinedVariable)

	run(t, ev, "2 + 3")
	if got := run(t, ev, "ans * 2"); got != "10" {
		t.Errorf("ans * 2 = %s, want 10", got)
	}

	// Failed and void statements leave ans alone
	ev.Run("nosuch")
	run(t, ev, "print{0}")
	if got := run(t, ev, "ans"); got != "10" {
		t.Errorf("ans = %s, want 10", got)
	}

	v, ok := ev.Last()
	if !ok || v.Kind != types.KindReal || v.Real != 10 {
		t.Errorf("Last() = %v, %v", v, ok)
	}
}

func TestEvalInserted(t *testing.T) {
	ev := newSession()
	if err := ev.Insert("a", types.Real(2)); err != nil {
		t.Fatal(err)
	}
	if got := run(t, ev, "$a * 3"); got != "6" {
		t.Errorf("$a * 3 = %s, want 6", got)
	}
	// $a and a are different names
	if _, err := ev.Run("a"); err == nil {
		t.Error("a should be undefined")
	}
	if _, err := ev.Run("$b"); err == nil {
		t.Error("$b should be undefined")
	}
	if err := ev.Insert("not valid", types.Real(1)); err == nil {
		t.Error("Insert should reject a non-identifier")
	}
}

func TestBindSource(t *testing.T) {
	ev := newSession()
	if err := ev.BindSource("x", "2 + 3"); err != nil {
		t.Fatal(err)
	}
	if got := run(t, ev, "x"); got != "5" {
		t.Errorf("x = %s, want 5", got)
	}

	if err := ev.BindSource("pi", "3"); err == nil {
		t.Error("binding pi should fail")
	}
	if err := ev.BindSource("y", "2 +"); err == nil {
		t.Error("binding an unparsable source should fail")
	}
	if err := ev.BindVariable("1x", 0); err == nil {
		t.Error("binding a non-identifier should fail")
	}
	if err := ev.BindVariable("z", types.Handle(1<<20)); err == nil {
		t.Error("binding a foreign handle should fail")
	}
}

// Session

func TestEvalStatements(t *testing.T) {
	runCases(t, []evalCase{
		{"1; 2; 3", "3"},
		{"x = 2; y = x ^ 2; y + 1", "5"},
		{"2;", "2"},
	})
}

func TestEvalExitStopsQueue(t *testing.T) {
	ev := newSession()
	v, err := ev.Run("a = 1; exit; a = 2")
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != types.KindInvalid || v.Sentinel != types.SentinelQuit {
		t.Errorf("value = %v, want the exit sentinel", v)
	}
	if got := run(t, ev, "a"); got != "1" {
		t.Errorf("a = %s, want 1", got)
	}

	v, err = ev.Run("clear")
	if err != nil || v.Sentinel != types.SentinelClear {
		t.Errorf("clear = %v, %v", v, err)
	}
}

func TestEvalJoinsStatementErrors(t *testing.T) {
	ev := newSession()
	v, err := ev.Run("nosuch1; 4; nosuch2{1}")
	if err == nil {
		t.Fatal("expected errors")
	}
	if !strings.Contains(err.Error(), "U1001") || !strings.Contains(err.Error(), "U1002") {
		t.Errorf("error %q should join both failures", err)
	}
	if v.IsValid() {
		t.Errorf("value = %v, want invalid", v)
	}
	if got := run(t, ev, "ans"); got != "4" {
		t.Errorf("ans = %s, want 4", got)
	}
}

func TestEvalParseErrorRunsNothing(t *testing.T) {
	ev := newSession()
	_, err := ev.Run("x = 1; x +")
	expectCode(t, "x = 1; x +", err, types.ErrMissingOperand)
	if _, ok := ev.Variable("x"); ok {
		t.Error("no statement should run when the source fails to parse")
	}
}

func TestEvalPushPending(t *testing.T) {
	ev := newSession()
	stmts, err := ev.ParseStatements("a = 3; a +; a * 2")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	ev.Push(stmts...)
	v, err := ev.EvalPending()
	if err != nil {
		t.Fatal(err)
	}
	if got := ev.Format(v); got != "6" {
		t.Errorf("last value = %s, want 6", got)
	}
}

func TestEvalClose(t *testing.T) {
	ev := newSession()
	run(t, ev, "x = 1")
	ev.Close()

	_, err := ev.Run("x")
	expectCode(t, "x", err, types.ErrSessionClosed)
	if _, err := ev.Parse("1"); err == nil {
		t.Error("Parse after Close should fail")
	}
	if _, ok := ev.Variable("x"); ok {
		t.Error("Variable after Close should report nothing")
	}
}

func TestEvalRecursionLimit(t *testing.T) {
	ev := newSession(evaluator.WithMaxDepth(50))
	ev.BindSource("f", "f + 1")
	_, err := ev.Run("f")
	expectCode(t, "f", err, types.ErrStackOverflow)

	// The session stays usable
	if got := run(t, ev, "1 + 1"); got != "2" {
		t.Errorf("1 + 1 = %s after overflow", got)
	}
}

// A vector bound to a variable can contain itself. Elementwise operators
// walk it under the recursion limit instead of exhausting the Go stack.
func TestEvalSelfReferentialVector(t *testing.T) {
	for _, src := range []string{
		"v * v",
		"|v|",
		"v == v",
		"v + 1",
		"2 * v",
		"-v",
		"~v",
	} {
		t.Run(src, func(t *testing.T) {
			ev := newSession()
			run(t, ev, "v = [v]")
			_, err := ev.Run(src)
			expectCode(t, src, err, types.ErrStackOverflow)

			if got := run(t, ev, "[1, 2] * [3, 4]"); got != "11" {
				t.Errorf("[1, 2] * [3, 4] = %s after overflow", got)
			}
		})
	}
}

func TestFormatSelfReferentialVector(t *testing.T) {
	ev := newSession()
	v, err := ev.Run("v = [1, v]; v")
	if err != nil {
		t.Fatal(err)
	}
	got := ev.Format(v)
	if !strings.HasPrefix(got, "[1, [1, ") || !strings.Contains(got, "...") {
		t.Errorf("Format = %.40s..., want a truncated nesting", got)
	}
	if n := strings.Count(got, "["); n != types.MaxNesting {
		t.Errorf("Format opened %d vectors, want %d", n, types.MaxNesting)
	}
}

func TestFormatAfterClose(t *testing.T) {
	ev := newSession()
	v, err := ev.Run("[1, 2]")
	if err != nil {
		t.Fatal(err)
	}
	if got := ev.Format(v); got != "[1, 2]" {
		t.Fatalf("Format = %s, want [1, 2]", got)
	}
	ev.Close()
	if got := ev.Format(v); got != "[?, ?]" {
		t.Errorf("Format after Close = %s, want [?, ?]", got)
	}
	if got := ev.Format(types.Real(2.5)); got != "2.5" {
		t.Errorf("Format after Close = %s, want 2.5", got)
	}
}

// Handles stay valid while the arena relocates its buffers.
func TestEvalArenaGrowth(t *testing.T) {
	ev := newSession(evaluator.WithArenaCapacity(1))
	run(t, ev, "v = [1, 2, 3]")

	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < 500; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("1")
	}
	b.WriteString("]")
	run(t, ev, "w = "+b.String())

	if ev.Arena().Grows() == 0 {
		t.Fatal("expected the arena to grow")
	}
	if got := run(t, ev, "v.2 + max{w}"); got != "4" {
		t.Errorf("v.2 + max{w} = %s, want 4", got)
	}
	if got := run(t, ev, "w * w"); got != "500" {
		t.Errorf("w * w = %s, want 500", got)
	}
}

func TestEvalCaching(t *testing.T) {
	ev := newSession(evaluator.WithCaching(true), evaluator.WithCacheSize(8))
	run(t, ev, "1 + 2")
	n := ev.Arena().Len()
	if got := run(t, ev, "1 + 2"); got != "3" {
		t.Errorf("cached run = %s", got)
	}
	if ev.Arena().Len() != n {
		t.Errorf("arena grew from %d to %d on a cached run", n, ev.Arena().Len())
	}
	if ev.Cache().Len() != 1 {
		t.Errorf("cache length = %d, want 1", ev.Cache().Len())
	}
	if st := ev.Cache().Stats(); st.Hits != 1 || st.Misses != 1 {
		t.Errorf("cache stats = %+v, want one hit and one miss", st)
	}

	if newSession().Cache() != nil {
		t.Error("caching should be off by default")
	}
}

// Output builtins

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	ev := newSession(evaluator.WithOutput(&buf))

	v, err := ev.Run("print{1, 2.5, [1, 2]}")
	if err != nil {
		t.Fatal(err)
	}
	if v.Sentinel != types.SentinelVoid {
		t.Errorf("print returned %v, want void", v)
	}
	if buf.String() != "1 2.5 [1, 2]" {
		t.Errorf("print wrote %q", buf.String())
	}
	if ev.LastPrintEndedLine() {
		t.Error("LastPrintEndedLine() = true after print")
	}

	buf.Reset()
	run(t, ev, "println{1, i}; println{}")
	if buf.String() != "1\n0+1i\n\n" {
		t.Errorf("println wrote %q", buf.String())
	}
	if !ev.LastPrintEndedLine() {
		t.Error("LastPrintEndedLine() = false after println")
	}
}

func TestPrintPropagatesFailure(t *testing.T) {
	var buf bytes.Buffer
	ev := newSession(evaluator.WithOutput(&buf))
	_, err := ev.Run("print{nosuch}")
	expectCode(t, "print{nosuch}", err, types.ErrUndefinedVariable)
	if buf.Len() != 0 {
		t.Errorf("print wrote %q for a failed argument", buf.String())
	}
}

func TestDebugBuiltins(t *testing.T) {
	var buf bytes.Buffer
	ev := newSession(evaluator.WithOutput(&buf))

	run(t, ev, "dbg{2 + x}")
	want := strings.Join([]string{
		"Operation(+):",
		"  Left:",
		"    RealNumber(2)",
		"  Right:",
		"    Identifier(x)",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("dbg wrote\n%s\nwant\n%s", buf.String(), want)
	}

	buf.Reset()
	run(t, ev, "dbg_type{2}; dbg_type{[1]}; dbg_type{i}; dbg_type{true}")
	if buf.String() != "real number\nvector\ncomplex number\nboolean\n" {
		t.Errorf("dbg_type wrote %q", buf.String())
	}

	buf.Reset()
	run(t, ev, "y = 3; dbg_ident{y}")
	if buf.String() != "y =\nRealNumber(3)\n" {
		t.Errorf("dbg_ident wrote %q", buf.String())
	}

	_, err := ev.Run("dbg_ident{nope}")
	expectCode(t, "dbg_ident{nope}", err, types.ErrUndefinedVariable)
	_, err = ev.Run("dbg_ident{1}")
	expectCode(t, "dbg_ident{1}", err, types.ErrBadArguments)
}

func TestConfigSet(t *testing.T) {
	ev := newSession()

	if got := run(t, ev, "config_set{precision, 3}; pi"); got != "3.14" {
		t.Errorf("pi at precision 3 = %s", got)
	}
	if ev.FormatConfig().Precision != 3 {
		t.Errorf("Precision = %d, want 3", ev.FormatConfig().Precision)
	}

	if got := run(t, ev, "config_set{full_prec_floats, true}; 1.5"); got != "1.500" {
		t.Errorf("1.5 with full precision = %s", got)
	}

	if got := run(t, ev, "config_set{bools_are_nums, true}; 1 < 2"); got != "1.000" {
		t.Errorf("true as number = %s", got)
	}

	if got := run(t, ev, "config_set{estimate_equality, false}; 0.1 + 0.2 == 0.3"); got != "0.000" {
		t.Errorf("exact equality result = %s", got)
	}
}

func TestConfigSetErrors(t *testing.T) {
	tests := []string{
		"config_set{nosuch, 1}",
		"config_set{precision, -1}",
		"config_set{precision, 1.5}",
		"config_set{full_prec_floats, i}",
		"config_set{1, 2}",
		"config_set{precision}",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			evalExpectError(t, src, types.ErrBadArguments)
		})
	}
}

// Custom functions

func TestWithFunctions(t *testing.T) {
	ev := newSession(evaluator.WithFunctions(
		functions.RealFunc{Name: "cube", Fn: func(x float64) float64 { return x * x * x }},
		functions.RealFunc{Name: "sin", Fn: func(float64) float64 { return 42 }},
		functions.Constant{Name: "answer", Value: types.Real(42)},
		functions.Variadic{Name: "twice", Fn: func(c functions.Caller, args []types.Handle) types.Value {
			if len(args) != 1 {
				return c.Fail(types.ErrBadArguments, "twice expects one argument")
			}
			return c.Apply(types.OpMul, c.Evaluate(args[0]), types.Real(2))
		}},
	))

	runCase := func(src, want string) {
		t.Helper()
		if got := run(t, ev, src); got != want {
			t.Errorf("%s = %s, want %s", src, got, want)
		}
	}
	runCase("cube{3}", "27")
	runCase("sin{0}", "42")
	runCase("cos{0}", "1")
	runCase("answer / 2", "21")
	runCase("twice{[1, 2]}", "[2, 4]")

	_, err := ev.Run("answer = 1")
	expectCode(t, "answer = 1", err, types.ErrAssignToConstant)

	// Other sessions keep the builtin
	if got := eval(t, "sin{0}"); got != "0" {
		t.Errorf("sin{0} in a fresh session = %s", got)
	}
}

func TestBuiltinsNames(t *testing.T) {
	names := evaluator.Builtins().Names()
	for _, want := range []string{"sqrt", "complex_sqrt", "csqrt", "print", "pi", "config_set"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Builtins().Names() is missing %q", want)
		}
	}
}

func TestEvalDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	ev := newSession(evaluator.WithDebug(true), evaluator.WithLogger(newTestLogger(&buf)))
	ev.Run("1 + nosuch")
	out := buf.String()
	if !strings.Contains(out, "evaluating node") {
		t.Errorf("debug log missing node trace:\n%s", out)
	}
	if !strings.Contains(out, "code=U1001") {
		t.Errorf("debug log missing failure:\n%s", out)
	}
}

func newTestLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
