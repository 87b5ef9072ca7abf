// Package types defines the core data model of gomml.
//
// This package contains type definitions for:
//   - Node, Op and Kind: the AST stored in an Arena
//   - Arena, Handle and Span: the per-session node store
//   - Value: runtime values with a kind tag
//   - Program: a parsed list of statements
//   - Error types: structured errors with codes
package types

// Program is a parsed source text: the handles of its statements in order.
//
// The handles belong to the arena the program was parsed into.
type Program struct {
	source     string
	statements []Handle
}

// NewProgram creates a Program over already parsed statements.
func NewProgram(source string, statements []Handle) *Program {
	return &Program{source: source, statements: statements}
}

// Statements returns the statement handles.
func (p *Program) Statements() []Handle {
	return p.statements
}

// Source returns the original source text.
func (p *Program) Source() string {
	return p.source
}

// String returns the source text.
func (p *Program) String() string {
	return p.source
}
