package parser_test

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/sandrolain/gomml/pkg/parser"
	"github.com/sandrolain/gomml/pkg/types"
)

// Helper functions

// sexpr renders the tree at h as a compact s-expression.
func sexpr(a *types.Arena, h types.Handle) string {
	n := a.Node(h)
	switch n.Kind {
	case types.KindOperation:
		if n.Op == types.OpFuncCall {
			args := a.Node(n.Right)
			parts := []string{a.Node(n.Left).Name + "{}"}
			for _, el := range a.Elems(args.Elems) {
				parts = append(parts, sexpr(a, el))
			}
			return "(" + strings.Join(parts, " ") + ")"
		}
		if n.Right == types.NoHandle {
			return fmt.Sprintf("(%s %s)", unaryName(n.Op), sexpr(a, n.Left))
		}
		return fmt.Sprintf("(%s %s %s)", n.Op, sexpr(a, n.Left), sexpr(a, n.Right))
	case types.KindInteger:
		return "#" + strconv.FormatInt(n.Int, 10)
	case types.KindReal:
		return strconv.FormatFloat(n.Real, 'g', -1, 64)
	case types.KindIdentifier:
		return n.Name
	case types.KindInserted:
		return "$" + n.Name
	case types.KindVector:
		parts := make([]string, 0, n.Elems.Len)
		for _, el := range a.Elems(n.Elems) {
			parts = append(parts, sexpr(a, el))
		}
		return "[" + strings.Join(parts, " ") + "]"
	}
	return n.Kind.String()
}

func unaryName(op types.Op) string {
	switch op {
	case types.OpNegate:
		return "neg"
	case types.OpNop:
		return "pos"
	case types.OpMagnitude:
		return "abs"
	}
	return op.String()
}

func parseExpr(t *testing.T, input string) string {
	t.Helper()
	a := types.NewArena(0)
	h, err := parser.Parse(a, input)
	if err != nil {
		t.Fatalf("Failed to parse %q: %v", input, err)
	}
	return sexpr(a, h)
}

func expectCode(t *testing.T, input string, code types.ErrorCode) *types.Error {
	t.Helper()
	_, err := parser.Parse(types.NewArena(0), input)
	if err == nil {
		t.Fatalf("Expected error parsing %q but got none", input)
	}
	var perr *types.Error
	if !errors.As(err, &perr) {
		t.Fatalf("error %v is not a *types.Error", err)
	}
	if perr.Code != code {
		t.Errorf("parsing %q: code = %s, want %s (%v)", input, perr.Code, code, err)
	}
	return perr
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2 + 3 * 4", "(+ 2 (* 3 4))"},
		{"2 * 3 + 4", "(+ (* 2 3) 4)"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"8 / 4 / 2", "(/ (/ 8 4) 2)"},
		{"2 ^ 3 ^ 2", "(^ 2 (^ 3 2))"},
		{"-2 ^ 2", "(neg (^ 2 2))"},
		{"2 ^ -1", "(^ 2 (neg 1))"},
		{"(2 + 3) * 4", "(* (+ 2 3) 4)"},
		{"1 + 2 < 4", "(< (+ 1 2) 4)"},
		{"1 < 2 == 3 > 2", "(== (< 1 2) (> 3 2))"},
		{"a = b = 1 + 2", "(= a (= b (+ 1 2)))"},
		{"5 % 3 * 2", "(* (% 5 3) 2)"},
		{"!1 == 0", "(== (! 1) 0)"},
		{"a === b", "(=== a b)"},
		{"a !== b", "(!== a b)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseExpr(t, tt.input); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseImplicitMultiplication(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2pi", "(* 2 pi)"},
		{"2 pi", "(* 2 pi)"},
		{"3(x + 1)", "(* 3 (+ x 1))"},
		{"2e", "(* 2 e)"},
		{"2x^2", "(* 2 (^ x 2))"},
		{"2 $a", "(* 2 $a)"},
		{"1 + 2x", "(+ 1 (* 2 x))"},
		{"x y z", "(* (* x y) z)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseExpr(t, tt.input); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseOperands(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"3.25", "3.25"},
		{"[1, 2, 3]", "[1 2 3]"},
		{"[]", "[]"},
		{"[[1], [2, 3]]", "[[1] [2 3]]"},
		{"|x - 1|", "(abs (- x 1))"},
		{"~2", "(~ 2)"},
		{"+x", "(pos x)"},
		{"sqrt{2}", "(sqrt{} 2)"},
		{"max{1, 2, 3}", "(max{} 1 2 3)"},
		{"f{}", "(f{})"},
		{"sin{x}^2", "(^ (sin{} x) 2)"},
		{"$ans", "$ans"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseExpr(t, tt.input); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseIndex(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"v.0", "(. v #0)"},
		{"v.1.2", "(. (. v #1) #2)"},
		{"[1, 2].1 + 1", "(+ (. [1 2] #1) 1)"},
		{"v.i", "(. v i)"},
		{"v.(1 + 1)", "(. v (+ 1 1))"},
		{"2 * v.1", "(* 2 (. v #1))"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseExpr(t, tt.input); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		code  types.ErrorCode
	}{
		{"", types.ErrEmptyExpression},
		{"   ", types.ErrEmptyExpression},
		{"2 +", types.ErrMissingOperand},
		{"*", types.ErrSyntaxError},
		{"(1 + 2", types.ErrExpectedToken},
		{"[1, 2", types.ErrExpectedToken},
		{"|x", types.ErrExpectedToken},
		{"f{1,;", types.ErrMissingOperand},
		{"f{1 2;", types.ErrExpectedToken},
		{"1 )", types.ErrSyntaxError},
		{"1 # 2", types.ErrSyntaxError},
		{"1 € 2", types.ErrUnrecognizedChar},
		{"1; 2", types.ErrSyntaxError},
		{"v.99999999999999999999", types.ErrSyntaxError},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectCode(t, tt.input, tt.code)
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	perr := expectCode(t, "1 + (2 * 3", types.ErrExpectedToken)
	if perr.Position != 10 {
		t.Errorf("Position = %d, want 10", perr.Position)
	}
	if !strings.Contains(perr.Message, "position 4") {
		t.Errorf("Message %q should name the opening parenthesis", perr.Message)
	}
}

func TestParseCallBracePosition(t *testing.T) {
	perr := expectCode(t, "sin  {1", types.ErrExpectedToken)
	if !strings.Contains(perr.Message, "'{' at position 5") {
		t.Errorf("Message %q should name the brace at position 5", perr.Message)
	}

	a := types.NewArena(0)
	h, err := parser.Parse(a, "sin  {1}")
	if err != nil {
		t.Fatal(err)
	}
	if args := a.Node(a.Node(h).Right); args.Position != 5 {
		t.Errorf("argument list position = %d, want 5", args.Position)
	}
}

func TestParseNestingLimit(t *testing.T) {
	input := strings.Repeat("(", 50) + "1" + strings.Repeat(")", 50)

	if _, err := parser.Parse(types.NewArena(0), input); err != nil {
		t.Fatalf("default limit rejected %d levels: %v", 50, err)
	}

	_, err := parser.Parse(types.NewArena(0), input, parser.WithMaxDepth(10))
	var perr *types.Error
	if !errors.As(err, &perr) || perr.Code != types.ErrNestingTooDeep {
		t.Errorf("err = %v, want %s", err, types.ErrNestingTooDeep)
	}
}

func TestParseStatements(t *testing.T) {
	a := types.NewArena(0)
	stmts, err := parser.ParseStatements(a, "x = 1; ; y = x + 1;")
	if err != nil {
		t.Fatalf("ParseStatements failed: %v", err)
	}
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(stmts))
	}
	if got := sexpr(a, stmts[1]); got != "(= y (+ x 1))" {
		t.Errorf("second statement = %s", got)
	}
}

func TestParseStatementsRecovery(t *testing.T) {
	a := types.NewArena(0)
	stmts, err := parser.ParseStatements(a, "1 +; 2 * 3; (4; 5")
	if err == nil {
		t.Fatal("expected errors")
	}

	errs := parser.Errors(err)
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), err)
	}
	var first *types.Error
	if !errors.As(errs[0], &first) || first.Code != types.ErrMissingOperand {
		t.Errorf("first error = %v, want %s", errs[0], types.ErrMissingOperand)
	}

	var got []string
	for _, h := range stmts {
		got = append(got, sexpr(a, h))
	}
	if strings.Join(got, ",") != "(* 2 3),5" {
		t.Errorf("recovered statements = %v, want [(* 2 3) 5]", got)
	}
}

func TestParseProgram(t *testing.T) {
	a := types.NewArena(0)
	prog, err := parser.ParseProgram(a, "a = 2; a ^ 2")
	if err != nil {
		t.Fatalf("ParseProgram failed: %v", err)
	}
	if len(prog.Statements()) != 2 {
		t.Errorf("got %d statements, want 2", len(prog.Statements()))
	}
	if prog.Source() != "a = 2; a ^ 2" {
		t.Errorf("Source() = %q", prog.Source())
	}

	if _, err := parser.ParseProgram(a, "a = 2; a ^"); err == nil {
		t.Error("ParseProgram should fail when any statement fails")
	}
}

func TestParsePositions(t *testing.T) {
	a := types.NewArena(0)
	h, err := parser.Parse(a, "x + sqrt{y}")
	if err != nil {
		t.Fatal(err)
	}
	add := a.Node(h)
	if add.Position != 2 {
		t.Errorf("operator position = %d, want 2", add.Position)
	}
	call := a.Node(add.Right)
	if call.Position != 4 {
		t.Errorf("call position = %d, want 4", call.Position)
	}
}
