// Package parser turns gomml source text into AST nodes stored in an arena.
//
// The parser is hand written and uses precedence climbing: every operand is
// parsed first, then operators are folded in while their precedence fits the
// current ceiling. Lower precedence numbers bind tighter.
//
// # Architecture
//
// The parser consists of two components:
//   - Lexer: Tokenizes the input with a character-class table and one-token peek
//   - Parser: Builds nodes in a [types.Arena] and returns their handles
//
// # Syntax
//
//	2 + 3 * 4        precedence, = 14
//	2 ^ 3 ^ 2        power is right associative, = 512
//	2pi              implicit multiplication, = 2 * pi
//	sqrt{2}          function call, arguments inside braces
//	[1, 2, 3].0      vector literal and integer index
//	|-3|             magnitude
//	x = y; y = 5     bindings, statements separated by ';'
//
// # Example
//
//	arena := types.NewArena(0)
//	stmts, err := parser.ParseStatements(arena, "x = 2; x ^ 10")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Errors
//
// [ParseStatements] recovers at statement boundaries: a statement that fails
// to parse is skipped, the remaining ones are still returned, and the error
// joins the failures of every skipped statement.
package parser

import (
	"github.com/sandrolain/gomml/pkg/types"
)

// Parse parses exactly one statement. A trailing ';' is allowed.
//
// Example:
//
//	h, err := parser.Parse(arena, "2 + 3 * 4")
//	if err != nil {
//	    var perr *types.Error
//	    if errors.As(err, &perr) {
//	        fmt.Printf("parse error at position %d\n", perr.Position)
//	    }
//	    return
//	}
func Parse(arena *types.Arena, input string, opts ...CompileOption) (types.Handle, error) {
	p := NewParser(arena, input, opts...)
	return p.Parse()
}

// ParseStatements parses a ';'-separated list of statements.
// Empty statements are skipped. On failure it returns the statements that
// parsed together with the joined errors of those that did not.
func ParseStatements(arena *types.Arena, input string, opts ...CompileOption) ([]types.Handle, error) {
	p := NewParser(arena, input, opts...)
	return p.ParseStatements()
}

// ParseProgram parses a statement list into a [types.Program].
// Unlike ParseStatements it fails as a whole when any statement fails.
func ParseProgram(arena *types.Arena, input string, opts ...CompileOption) (*types.Program, error) {
	stmts, err := ParseStatements(arena, input, opts...)
	if err != nil {
		return nil, err
	}
	return types.NewProgram(input, stmts), nil
}

// Errors splits an error returned by ParseStatements into the
// per-statement errors it joins.
func Errors(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

// CompileOption configures parsing behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// MaxDepth limits expression nesting to prevent stack overflow.
	MaxDepth int
}

// DefaultMaxDepth is the nesting limit used when none is configured.
const DefaultMaxDepth = 1000

// WithMaxDepth sets the maximum nesting depth.
func WithMaxDepth(depth int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxDepth = depth
	}
}
