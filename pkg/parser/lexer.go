package parser

import (
	"fmt"
	"unicode/utf8"

	"github.com/sandrolain/gomml/pkg/types"
)

const eof = -1

// Lexer converts an expression into a sequence of tokens.
// The implementation is based on Rob Pike's "Lexical Scanning in Go" technique,
// with a fixed character-class table for the first dispatch.
//
// The lexer never aborts: an unrecognized character produces a TokenInvalid
// and the error describing it is kept until the next one replaces it.
type Lexer struct {
	input   string // Input string being scanned
	length  int    // Length of input string
	start   int    // Start position of current token
	current int    // Current position in input
	width   int    // Width of last rune read
	peeked  *Token // One-token lookahead buffer
	err     error  // Most recent error
}

// NewLexer creates a new lexer from the provided input string.
// The input is tokenized by successive calls to the Next method.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		length: len(input),
	}
}

// Next returns the next token from the input, consuming it.
// When the end of the input is reached, Next returns TokenEOF for all subsequent calls.
//
// With intMode set a number is scanned as digits only, so that "v.1.2"
// indexes twice instead of reading the real literal "1.2". A number buffered
// by Peek is scanned again when integer mode asks for fewer characters.
func (l *Lexer) Next(intMode bool) Token {
	if l.peeked != nil {
		t := *l.peeked
		l.peeked = nil
		if !intMode || t.Type != TokenNumber {
			return t
		}
		l.current = t.Position
		l.start = t.Position
	}
	return l.scan(intMode)
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() Token {
	if l.peeked == nil {
		t := l.scan(false)
		l.peeked = &t
	}
	return *l.peeked
}

// Error returns the most recent lexing error, if any.
func (l *Lexer) Error() error {
	return l.err
}

func (l *Lexer) scan(intMode bool) Token {
	l.acceptAll(isWhitespace)
	l.ignore()

	ch := l.nextRune()
	if ch == eof {
		return l.eof()
	}

	switch classify(ch) {
	case classSymbol:
		return l.newToken(lookupSymbol1(ch))
	case classCompound:
		c := compounds[ch]
		if !l.acceptRune('=') {
			return l.newToken(c.one)
		}
		if c.three != 0 && l.acceptRune('=') {
			return l.newToken(c.three)
		}
		return l.newToken(c.two)
	case classDigit:
		l.backup()
		return l.scanNumber(intMode)
	case classLetter:
		l.backup()
		return l.scanIdent(TokenIdent)
	case classDollar:
		if classify(l.peekRune()) != classLetter {
			return l.error("expected identifier after '$'")
		}
		l.ignore()
		return l.scanIdent(TokenInserted)
	case classReserved:
		return l.newToken(TokenReserved)
	default:
		return l.error(fmt.Sprintf("unrecognized character %q", ch))
	}
}

// scanNumber reads a number literal from the current position.
// Format: [0-9]+(\.[0-9]+)? outside integer mode, [0-9]+ inside it.
// There is no exponent syntax: "2e" is the number 2 followed by the identifier e.
func (l *Lexer) scanNumber(intMode bool) Token {
	l.acceptAll(isDigit)

	if !intMode {
		mark := l.current
		if l.acceptRune('.') && !l.acceptAll(isDigit) {
			// "2." without digits: the dot is an operator
			l.current = mark
		}
	}

	return l.newToken(TokenNumber)
}

// scanIdent reads an identifier: a letter or underscore followed by letters,
// digits and underscores.
func (l *Lexer) scanIdent(tt TokenType) Token {
	l.accept(isLetter)
	l.acceptAll(isIdentChar)
	return l.newToken(tt)
}

// Helper methods

func (l *Lexer) eof() Token {
	return Token{
		Type:     TokenEOF,
		Position: l.current,
	}
}

func (l *Lexer) error(message string) Token {
	t := l.newToken(TokenInvalid)
	l.err = &types.Error{
		Code:     types.ErrUnrecognizedChar,
		Message:  message,
		Position: t.Position,
		Token:    t.Value,
	}
	return t
}

func (l *Lexer) newToken(tt TokenType) Token {
	t := Token{
		Type:     tt,
		Value:    l.input[l.start:l.current],
		Position: l.start,
	}
	l.width = 0
	l.start = l.current
	return t
}

func (l *Lexer) nextRune() rune {
	if l.current >= l.length {
		l.width = 0
		return eof
	}

	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

func (l *Lexer) peekRune() rune {
	r := l.nextRune()
	l.backup()
	return r
}

func (l *Lexer) backup() {
	l.current -= l.width
}

func (l *Lexer) ignore() {
	l.start = l.current
}

func (l *Lexer) acceptRune(r rune) bool {
	return l.accept(func(c rune) bool {
		return c == r
	})
}

func (l *Lexer) accept(isValid func(rune) bool) bool {
	if isValid(l.nextRune()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for l.accept(isValid) {
		matched = true
	}
	return matched
}

// Character classification functions

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool {
	return classify(r) == classDigit
}

func isLetter(r rune) bool {
	return classify(r) == classLetter
}

func isIdentChar(r rune) bool {
	c := classify(r)
	return c == classLetter || c == classDigit
}
