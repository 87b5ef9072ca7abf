package types

import "fmt"

// ErrorCode classifies a failure. The first letter names the class:
// S for lexing and syntax, T for type errors, D for evaluation errors and
// U for unresolved names.
type ErrorCode string

// Error codes.
const (
	// S0xxx: Lexer/Syntax errors
	ErrUnrecognizedChar ErrorCode = "S0101"
	ErrSyntaxError      ErrorCode = "S0201"
	ErrExpectedToken    ErrorCode = "S0202"
	ErrMissingOperand   ErrorCode = "S0203"
	ErrEmptyExpression  ErrorCode = "S0204"
	ErrNestingTooDeep   ErrorCode = "S0205"

	// T0xxx: Type errors
	ErrNoFunctionForType    ErrorCode = "T0410"
	ErrBadArguments         ErrorCode = "T0411"
	ErrInvalidTypeOperation ErrorCode = "T1003"

	// D0xxx: Evaluation errors
	ErrNoValue          ErrorCode = "D1000"
	ErrIndexNotInteger  ErrorCode = "D1010"
	ErrIndexOutOfRange  ErrorCode = "D1011"
	ErrLeftSideAssign   ErrorCode = "D2001"
	ErrAssignToConstant ErrorCode = "D2002"
	ErrStackOverflow    ErrorCode = "D3020"
	ErrSessionClosed    ErrorCode = "D3030"

	// U0xxx: Resolution errors
	ErrUndefinedVariable ErrorCode = "U1001"
	ErrUndefinedFunction ErrorCode = "U1002"
)

// Error represents a structured diagnostic.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    string
	Err      error
}

// NewError creates a new error.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Errorf creates a new error with a formatted message.
func Errorf(code ErrorCode, position int, format string, args ...any) *Error {
	return NewError(code, fmt.Sprintf(format, args...), position)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithToken adds token information to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}
