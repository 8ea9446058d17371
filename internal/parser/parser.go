// Package parser implements a Pratt parser that turns a token stream from
// internal/lexer into the internal/ast Program the evaluator walks.
//
// Key patterns:
//   - Precedence-climbing expression parsing via prefix/infix function
//     tables keyed by TokenType.
//   - A single token of lookahead (curToken/peekToken), advanced by
//     nextToken().
//   - Errors accumulate in p.errors rather than panicking, so ParseProgram
//     can report every syntax error found in one pass.
package parser

import (
	"fmt"

	"github.com/cwbudde/go-earl/internal/ast"
	"github.com/cwbudde/go-earl/internal/lexer"
)

// Precedence levels, lowest to highest.
const (
	_ int = iota
	LOWEST
	ASSIGN      // = += -= ...
	PIPE        // |>
	OR          // ||
	AND         // &&
	BITOR       // |
	BITXOR      // ^
	BITAND      // &
	EQUALS      // == !=
	LESSGREATER // < > <= >=
	SHIFT       // << >>
	SUM         // + -
	PRODUCT     // * / %
	POWER       // **
	PREFIX      // -x !x ~x
	CALL        // f(...)
	INDEX       // a[i]
	MEMBER      // a.b
)

var precedences = map[lexer.TokenType]int{
	lexer.OR:       OR,
	lexer.AND:      AND,
	lexer.PIPE:     BITOR,
	lexer.CARET:    BITXOR,
	lexer.AMP:      BITAND,
	lexer.EQ:       EQUALS,
	lexer.NOT_EQ:   EQUALS,
	lexer.LT:       LESSGREATER,
	lexer.GT:       LESSGREATER,
	lexer.LT_EQ:    LESSGREATER,
	lexer.GT_EQ:    LESSGREATER,
	lexer.SHL:      SHIFT,
	lexer.SHR:      SHIFT,
	lexer.PLUS:     SUM,
	lexer.MINUS:    SUM,
	lexer.ASTERISK: PRODUCT,
	lexer.SLASH:    PRODUCT,
	lexer.PERCENT:  PRODUCT,
	lexer.POW:      POWER,
	lexer.LPAREN:   CALL,
	lexer.LBRACKET: INDEX,
	lexer.DOT:      MEMBER,
	lexer.COLONCOLON: MEMBER,
	lexer.DOTDOT:   SUM,
	lexer.DOTDOTEQ: SUM,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser turns a token stream into an *ast.Program.
type Parser struct {
	l      *lexer.Lexer
	errors []*ParserError

	curToken  lexer.Token
	peekToken lexer.Token

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

// New constructs a Parser over l and primes the two-token lookahead.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[lexer.TokenType]prefixParseFn{}
	p.infixParseFns = map[lexer.TokenType]infixParseFn{}
	p.registerExpressionParsers()

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(tt lexer.TokenType, fn prefixParseFn) { p.prefixParseFns[tt] = fn }
func (p *Parser) registerInfix(tt lexer.TokenType, fn infixParseFn)   { p.infixParseFns[tt] = fn }

// Errors returns the accumulated syntax errors as human-readable strings.
func (p *Parser) Errors() []string {
	var out []string
	for _, e := range p.errors {
		out = append(out, e.Error())
	}
	return out
}

// ParserErrors returns the accumulated syntax errors with position info.
func (p *Parser) ParserErrors() []*ParserError { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(tt lexer.TokenType) bool  { return p.curToken.Type == tt }
func (p *Parser) peekTokenIs(tt lexer.TokenType) bool { return p.peekToken.Type == tt }

func (p *Parser) expectPeek(tt lexer.TokenType) bool {
	if p.peekTokenIs(tt) {
		p.nextToken()
		return true
	}
	p.peekError(tt)
	return false
}

func (p *Parser) peekError(tt lexer.TokenType) {
	p.errors = append(p.errors, &ParserError{
		Pos:     p.peekToken.Pos,
		Message: fmt.Sprintf("expected next token to be %s, got %s (%q) instead", tt, p.peekToken.Type, p.peekToken.Literal),
	})
}

func (p *Parser) errorf(pos lexer.Position, format string, args ...interface{}) {
	p.errors = append(p.errors, &ParserError{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram consumes the whole token stream and returns the resulting
// *ast.Program. Parse errors accumulate in p.errors; callers should check
// Errors() before evaluating the result.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}
	attachInfoStrings(program)
	return program
}

// attachInfoStrings copies each `info "..."` statement's text onto the
// function declaration that immediately follows it. The InfoStmt itself
// stays in the program (it evaluates to nothing).
func attachInfoStrings(program *ast.Program) {
	for i, stmt := range program.Statements {
		info, ok := stmt.(*ast.InfoStmt)
		if !ok || i+1 >= len(program.Statements) {
			continue
		}
		if fn, ok := program.Statements[i+1].(*ast.FuncDeclStmt); ok {
			fn.Info = info.Text
		}
	}
}

// parseAttrs consumes a run of `@name` attribute prefixes preceding a
// declaration.
func (p *Parser) parseAttrs() ast.Attrs {
	var attrs ast.Attrs
	for p.curTokenIs(lexer.AT) {
		p.nextToken() // consume '@'
		name := p.curToken.Literal
		switch name {
		case "pub":
			attrs = attrs.With(ast.AttrPub)
		case "world":
			attrs = attrs.With(ast.AttrWorld)
		case "ref":
			attrs = attrs.With(ast.AttrRef)
		case "const":
			attrs = attrs.With(ast.AttrConst)
		case "experimental":
			attrs = attrs.With(ast.AttrExperimental)
		default:
			p.errorf(p.curToken.Pos, "unknown attribute @%s", name)
		}
		p.nextToken()
	}
	return attrs
}
