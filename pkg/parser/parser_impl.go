package parser

import (
	"errors"
	"strconv"

	"github.com/sandrolain/gomml/pkg/types"
)

// Parser implements a precedence-climbing parser writing nodes into an arena.
type Parser struct {
	lexer *Lexer
	arena *types.Arena
	opts  CompileOptions
	depth int
}

// NewParser creates a parser for input that allocates into arena.
func NewParser(arena *types.Arena, input string, opts ...CompileOption) *Parser {
	options := CompileOptions{
		MaxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Parser{
		lexer: NewLexer(input),
		arena: arena,
		opts:  options,
	}
}

// Parse parses a single statement followed by optional ';' and the end of input.
func (p *Parser) Parse() (types.Handle, error) {
	if p.lexer.Peek().Type == TokenEOF {
		return types.NoHandle, p.error(types.ErrEmptyExpression, p.lexer.Peek(), "Empty expression")
	}

	h, err := p.parseStatement()
	if err != nil {
		return types.NoHandle, err
	}

	for p.lexer.Peek().Type == TokenSemicolon {
		p.lexer.Next(false)
	}
	if tok := p.lexer.Peek(); tok.Type != TokenEOF {
		return types.NoHandle, p.error(types.ErrSyntaxError, tok, "Unexpected token after statement: %s", tok.Value)
	}
	return h, nil
}

// ParseStatements parses every statement of the input, recovering at ';'.
func (p *Parser) ParseStatements() ([]types.Handle, error) {
	var (
		stmts []types.Handle
		errs  []error
	)

	for {
		tok := p.lexer.Peek()
		if tok.Type == TokenEOF {
			break
		}
		if tok.Type == TokenSemicolon {
			p.lexer.Next(false)
			continue
		}

		h, err := p.parseStatement()
		if err != nil {
			errs = append(errs, err)
			p.skipStatement()
			continue
		}
		stmts = append(stmts, h)
	}

	return stmts, errors.Join(errs...)
}

// Operator precedence table. Lower values bind tighter.
const (
	maxPrecedence     = 15
	indexPrecedence   = 1
	unaryPrecedence   = 2
	productPrecedence = 3
)

type infixOp struct {
	op    types.Op
	prec  int
	right bool // right associative
}

var infixOps = map[TokenType]infixOp{
	TokenDot:           {types.OpIndex, indexPrecedence, false},
	TokenPow:           {types.OpPow, 2, true},
	TokenMult:          {types.OpMul, productPrecedence, false},
	TokenDiv:           {types.OpDiv, productPrecedence, false},
	TokenMod:           {types.OpMod, productPrecedence, false},
	TokenPlus:          {types.OpAdd, 4, false},
	TokenMinus:         {types.OpSub, 4, false},
	TokenLess:          {types.OpLess, 6, false},
	TokenGreater:       {types.OpGreater, 6, false},
	TokenLessEqual:     {types.OpLessEqual, 6, false},
	TokenGreaterEqual:  {types.OpGreaterEqual, 6, false},
	TokenEqual:         {types.OpEqual, 7, false},
	TokenNotEqual:      {types.OpNotEqual, 7, false},
	TokenExactEqual:    {types.OpExactEqual, 7, false},
	TokenExactNotEqual: {types.OpExactNotEqual, 7, false},
	TokenAssign:        {types.OpBind, 14, true},
}

var prefixOps = map[TokenType]types.Op{
	TokenPlus:  types.OpNop,
	TokenMinus: types.OpNegate,
	TokenNot:   types.OpNot,
	TokenTilde: types.OpPlusMinus,
}

// implicitOperand reports whether tt, directly following an operand, starts
// another operand that is multiplied with it ("2pi", "3(x + 1)").
func implicitOperand(tt TokenType) bool {
	switch tt {
	case TokenIdent, TokenInserted, TokenNumber, TokenParenOpen:
		return true
	}
	return false
}

func (p *Parser) parseStatement() (types.Handle, error) {
	h, err := p.parseExpression(maxPrecedence, false)
	if err != nil {
		return types.NoHandle, err
	}

	switch tok := p.lexer.Peek(); tok.Type {
	case TokenSemicolon, TokenEOF:
		return h, nil
	case TokenInvalid:
		p.lexer.Next(false)
		return types.NoHandle, p.lexer.Error()
	default:
		return types.NoHandle, p.error(types.ErrSyntaxError, tok, "Unexpected token: %s", tok.Value)
	}
}

// skipStatement discards tokens up to, not including, the next ';'.
func (p *Parser) skipStatement() {
	for {
		switch p.lexer.Peek().Type {
		case TokenSemicolon, TokenEOF:
			return
		}
		p.lexer.Next(false)
	}
}

// parseExpression parses an operand followed by every infix operator whose
// precedence does not exceed maxPrec. intMode is forwarded to the first
// operand only.
func (p *Parser) parseExpression(maxPrec int, intMode bool) (types.Handle, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.opts.MaxDepth {
		return types.NoHandle, p.error(types.ErrNestingTooDeep, p.lexer.Peek(), "Expression nested deeper than %d levels", p.opts.MaxDepth)
	}

	left, err := p.parseOperand(intMode)
	if err != nil {
		return types.NoHandle, err
	}

	for {
		tok := p.lexer.Peek()
		info, ok := infixOps[tok.Type]
		implicit := false
		if !ok {
			if !implicitOperand(tok.Type) {
				break
			}
			info = infixOp{op: types.OpMul, prec: productPrecedence}
			implicit = true
		}
		if info.prec > maxPrec {
			break
		}
		if !implicit {
			p.lexer.Next(false)
		}

		next := info.prec - 1
		if info.right {
			next = info.prec
		}
		right, err := p.parseExpression(next, info.op == types.OpIndex)
		if err != nil {
			return types.NoHandle, err
		}
		left = p.arena.Alloc(types.NewOperation(info.op, left, right, tok.Position))
	}

	return left, nil
}

// parseOperand parses a literal, identifier, call, group, vector, magnitude
// or prefix operation.
func (p *Parser) parseOperand(intMode bool) (types.Handle, error) {
	// Statement terminators are left for the caller so recovery can resync on them.
	switch tok := p.lexer.Peek(); tok.Type {
	case TokenEOF:
		return types.NoHandle, p.error(types.ErrMissingOperand, tok, "Missing operand at end of input")
	case TokenSemicolon:
		return types.NoHandle, p.error(types.ErrMissingOperand, tok, "Missing operand before ';'")
	}

	tok := p.lexer.Next(intMode)
	switch tok.Type {
	case TokenNumber:
		return p.parseNumber(tok, intMode)

	case TokenIdent:
		if p.lexer.Peek().Type == TokenBraceOpen {
			return p.parseCall(tok, p.lexer.Next(false))
		}
		return p.arena.Alloc(types.Node{
			Kind:     types.KindIdentifier,
			Name:     tok.Value,
			Left:     types.NoHandle,
			Right:    types.NoHandle,
			Position: tok.Position,
		}), nil

	case TokenInserted:
		return p.arena.Alloc(types.Node{
			Kind:     types.KindInserted,
			Name:     tok.Value,
			Left:     types.NoHandle,
			Right:    types.NoHandle,
			Position: tok.Position,
		}), nil

	case TokenParenOpen:
		h, err := p.parseExpression(maxPrecedence, false)
		if err != nil {
			return types.NoHandle, err
		}
		if err := p.expect(TokenParenClose, tok); err != nil {
			return types.NoHandle, err
		}
		return h, nil

	case TokenBracketOpen:
		elems, err := p.parseList(TokenBracketClose, tok)
		if err != nil {
			return types.NoHandle, err
		}
		return p.arena.AllocVector(elems, tok.Position), nil

	case TokenPipe:
		h, err := p.parseExpression(maxPrecedence, false)
		if err != nil {
			return types.NoHandle, err
		}
		if err := p.expect(TokenPipe, tok); err != nil {
			return types.NoHandle, err
		}
		return p.arena.Alloc(types.NewOperation(types.OpMagnitude, h, types.NoHandle, tok.Position)), nil

	case TokenInvalid:
		return types.NoHandle, p.lexer.Error()
	}

	if op, ok := prefixOps[tok.Type]; ok {
		h, err := p.parseExpression(unaryPrecedence, false)
		if err != nil {
			return types.NoHandle, err
		}
		return p.arena.Alloc(types.NewOperation(op, h, types.NoHandle, tok.Position)), nil
	}

	return types.NoHandle, p.error(types.ErrSyntaxError, tok, "Unexpected token: %s", tok.Value)
}

func (p *Parser) parseNumber(tok Token, intMode bool) (types.Handle, error) {
	n := types.Node{Left: types.NoHandle, Right: types.NoHandle, Position: tok.Position}
	if intMode {
		i, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return types.NoHandle, p.error(types.ErrSyntaxError, tok, "Index out of range: %s", tok.Value).WithCause(err)
		}
		n.Kind = types.KindInteger
		n.Int = i
		return p.arena.Alloc(n), nil
	}

	f, err := strconv.ParseFloat(tok.Value, 64)
	if err != nil {
		// Only overflow is possible here; ParseFloat still yields ±Inf.
		var numErr *strconv.NumError
		if !errors.As(err, &numErr) || !errors.Is(numErr.Err, strconv.ErrRange) {
			return types.NoHandle, p.error(types.ErrSyntaxError, tok, "Invalid number: %s", tok.Value).WithCause(err)
		}
	}
	n.Kind = types.KindReal
	n.Real = f
	return p.arena.Alloc(n), nil
}

// parseCall parses the argument list of name{...} after the consumed open brace.
func (p *Parser) parseCall(name, open Token) (types.Handle, error) {
	args, err := p.parseList(TokenBraceClose, open)
	if err != nil {
		return types.NoHandle, err
	}

	ident := p.arena.Alloc(types.Node{
		Kind:     types.KindIdentifier,
		Name:     name.Value,
		Left:     types.NoHandle,
		Right:    types.NoHandle,
		Position: name.Position,
	})
	argv := p.arena.AllocVector(args, open.Position)
	return p.arena.Alloc(types.NewOperation(types.OpFuncCall, ident, argv, name.Position)), nil
}

// parseList parses comma-separated expressions up to the end token.
// The opening token is consumed already and only used for diagnostics.
func (p *Parser) parseList(end TokenType, open Token) ([]types.Handle, error) {
	var elems []types.Handle
	if p.lexer.Peek().Type == end {
		p.lexer.Next(false)
		return elems, nil
	}

	for {
		h, err := p.parseExpression(maxPrecedence, false)
		if err != nil {
			return nil, err
		}
		elems = append(elems, h)

		switch tok := p.lexer.Peek(); tok.Type {
		case end:
			p.lexer.Next(false)
			return elems, nil
		case TokenComma:
			p.lexer.Next(false)
		default:
			return nil, p.error(types.ErrExpectedToken, tok, "Expected ',' or '%s' to close '%s' at position %d", end, open.Value, open.Position)
		}
	}
}

// expect consumes the closing token tt or fails without consuming anything.
func (p *Parser) expect(tt TokenType, open Token) error {
	tok := p.lexer.Peek()
	if tok.Type != tt {
		return p.error(types.ErrExpectedToken, tok, "Expected '%s' to close '%s' at position %d", tt, open.Value, open.Position)
	}
	p.lexer.Next(false)
	return nil
}

// error creates a parse error located at tok.
func (p *Parser) error(code types.ErrorCode, tok Token, format string, args ...any) *types.Error {
	return types.Errorf(code, tok.Position, format, args...).WithToken(tok.Value)
}
