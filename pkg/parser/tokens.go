package parser

// TokenType represents the type of a lexical token.
type TokenType uint8

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenInvalid

	// Literals
	TokenNumber   // 123, 3.14
	TokenIdent    // name
	TokenInserted // $name

	// Grouping symbols
	TokenBracketOpen  // [
	TokenBracketClose // ]
	TokenBraceOpen    // {
	TokenBraceClose   // }
	TokenParenOpen    // (
	TokenParenClose   // )
	TokenPipe         // |

	// Basic symbols
	TokenDot       // .
	TokenComma     // ,
	TokenSemicolon // ;

	// Arithmetic operators
	TokenPow   // ^
	TokenMult  // *
	TokenDiv   // /
	TokenMod   // %
	TokenPlus  // +
	TokenMinus // -

	// Unary operators
	TokenNot   // !
	TokenTilde // ~

	// Comparison operators
	TokenLess          // <
	TokenLessEqual     // <=
	TokenGreater       // >
	TokenGreaterEqual  // >=
	TokenEqual         // ==
	TokenNotEqual      // !=
	TokenExactEqual    // ===
	TokenExactNotEqual // !==

	// Binding
	TokenAssign // =

	// Reserved punctuation: lexed, never accepted by the parser
	TokenReserved
)

var tokenNames = [...]string{
	TokenEOF:           "(eof)",
	TokenInvalid:       "(invalid)",
	TokenNumber:        "(number)",
	TokenIdent:         "(identifier)",
	TokenInserted:      "(inserted)",
	TokenBracketOpen:   "[",
	TokenBracketClose:  "]",
	TokenBraceOpen:     "{",
	TokenBraceClose:    "}",
	TokenParenOpen:     "(",
	TokenParenClose:    ")",
	TokenPipe:          "|",
	TokenDot:           ".",
	TokenComma:         ",",
	TokenSemicolon:     ";",
	TokenPow:           "^",
	TokenMult:          "*",
	TokenDiv:           "/",
	TokenMod:           "%",
	TokenPlus:          "+",
	TokenMinus:         "-",
	TokenNot:           "!",
	TokenTilde:         "~",
	TokenLess:          "<",
	TokenLessEqual:     "<=",
	TokenGreater:       ">",
	TokenGreaterEqual:  ">=",
	TokenEqual:         "==",
	TokenNotEqual:      "!=",
	TokenExactEqual:    "===",
	TokenExactNotEqual: "!==",
	TokenAssign:        "=",
	TokenReserved:      "(reserved)",
}

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	if int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return "(unknown)"
}

// Token represents a lexical token.
type Token struct {
	Type     TokenType // Type of the token
	Value    string    // Literal text of the token, a substring of the input
	Position int       // Starting byte offset in the input string
}

// charClass groups the printable ASCII range for the lexer's first dispatch.
type charClass uint8

const (
	classNone     charClass = iota // not printable ASCII
	classSymbol                    // single-character token, see symbols1
	classCompound                  // may start a two- or three-character operator
	classDigit
	classLetter // letters and underscore
	classDollar
	classReserved
)

const (
	firstPrintable = 0x21
	lastPrintable  = 0x7E
)

// charClasses covers every printable ASCII character from '!' to '~'.
var charClasses = [lastPrintable - firstPrintable + 1]charClass{
	'!' - firstPrintable:  classCompound,
	'"' - firstPrintable:  classReserved,
	'#' - firstPrintable:  classReserved,
	'$' - firstPrintable:  classDollar,
	'%' - firstPrintable:  classSymbol,
	'&' - firstPrintable:  classReserved,
	'\'' - firstPrintable: classReserved,
	'(' - firstPrintable:  classSymbol,
	')' - firstPrintable:  classSymbol,
	'*' - firstPrintable:  classSymbol,
	'+' - firstPrintable:  classSymbol,
	',' - firstPrintable:  classSymbol,
	'-' - firstPrintable:  classSymbol,
	'.' - firstPrintable:  classSymbol,
	'/' - firstPrintable:  classSymbol,
	'0' - firstPrintable:  classDigit,
	'1' - firstPrintable:  classDigit,
	'2' - firstPrintable:  classDigit,
	'3' - firstPrintable:  classDigit,
	'4' - firstPrintable:  classDigit,
	'5' - firstPrintable:  classDigit,
	'6' - firstPrintable:  classDigit,
	'7' - firstPrintable:  classDigit,
	'8' - firstPrintable:  classDigit,
	'9' - firstPrintable:  classDigit,
	':' - firstPrintable:  classReserved,
	';' - firstPrintable:  classSymbol,
	'<' - firstPrintable:  classCompound,
	'=' - firstPrintable:  classCompound,
	'>' - firstPrintable:  classCompound,
	'?' - firstPrintable:  classReserved,
	'@' - firstPrintable:  classReserved,
	'[' - firstPrintable:  classSymbol,
	'\\' - firstPrintable: classReserved,
	']' - firstPrintable:  classSymbol,
	'^' - firstPrintable:  classSymbol,
	'_' - firstPrintable:  classLetter,
	'`' - firstPrintable:  classReserved,
	'{' - firstPrintable:  classSymbol,
	'|' - firstPrintable:  classSymbol,
	'}' - firstPrintable:  classSymbol,
	'~' - firstPrintable:  classSymbol,
}

func init() {
	for c := 'a'; c <= 'z'; c++ {
		charClasses[c-firstPrintable] = classLetter
	}
	for c := 'A'; c <= 'Z'; c++ {
		charClasses[c-firstPrintable] = classLetter
	}
}

// classify returns the class of r.
func classify(r rune) charClass {
	if r < firstPrintable || r > lastPrintable {
		return classNone
	}
	return charClasses[r-firstPrintable]
}

// symbols1 maps single-character symbols to token types.
var symbols1 = [...]TokenType{
	'[': TokenBracketOpen,
	']': TokenBracketClose,
	'{': TokenBraceOpen,
	'}': TokenBraceClose,
	'(': TokenParenOpen,
	')': TokenParenClose,
	'|': TokenPipe,
	'.': TokenDot,
	',': TokenComma,
	';': TokenSemicolon,
	'^': TokenPow,
	'*': TokenMult,
	'/': TokenDiv,
	'%': TokenMod,
	'+': TokenPlus,
	'-': TokenMinus,
	'~': TokenTilde,
	'!': TokenNot,
	'<': TokenLess,
	'>': TokenGreater,
	'=': TokenAssign,
}

// compound describes the operators starting with a classCompound character:
// one, two (first + '=') or three (first + "==") characters long.
type compound struct {
	one, two, three TokenType
}

var compounds = [...]compound{
	'<': {TokenLess, TokenLessEqual, 0},
	'>': {TokenGreater, TokenGreaterEqual, 0},
	'=': {TokenAssign, TokenEqual, TokenExactEqual},
	'!': {TokenNot, TokenNotEqual, TokenExactNotEqual},
}

const symbol1Count = rune(len(symbols1))

// lookupSymbol1 returns the token type for a single-character symbol.
// Returns 0 if the rune is not a valid symbol.
func lookupSymbol1(r rune) TokenType {
	if r < 0 || r >= symbol1Count {
		return 0
	}
	return symbols1[r]
}
