package parser

import (
	"strconv"

	"github.com/cwbudde/go-earl/internal/ast"
	"github.com/cwbudde/go-earl/internal/lexer"
)

func (p *Parser) registerExpressionParsers() {
	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.INT, p.parseIntegerLiteral)
	p.registerPrefix(lexer.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.FSTR, p.parseFStringLiteral)
	p.registerPrefix(lexer.CHAR, p.parseCharLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(lexer.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(lexer.NONE, p.parseNoneLiteral)
	p.registerPrefix(lexer.SOME, p.parseIdentifier)
	p.registerPrefix(lexer.MINUS, p.parseUnaryExpression)
	p.registerPrefix(lexer.BANG, p.parseUnaryExpression)
	p.registerPrefix(lexer.TILDE, p.parseUnaryExpression)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedOrTuple)
	p.registerPrefix(lexer.LBRACKET, p.parseListLiteral)
	p.registerPrefix(lexer.LBRACE, p.parseDictLiteral)
	p.registerPrefix(lexer.PIPE, p.parseClosureLiteral)
	p.registerPrefix(lexer.MATCH, p.parseCaseExpressionFromMatch)

	for _, tt := range []lexer.TokenType{
		lexer.TYPE_INT, lexer.TYPE_FLOAT, lexer.TYPE_BOOL, lexer.TYPE_STR, lexer.TYPE_CHAR,
		lexer.TYPE_LIST, lexer.TYPE_TUPLE, lexer.TYPE_OPTION, lexer.TYPE_FILE,
		lexer.TYPE_CLOSURE, lexer.TYPE_UNIT, lexer.TYPE_TIME,
	} {
		p.registerPrefix(tt, p.parseTypeKeyword)
	}

	infixOps := []lexer.TokenType{
		lexer.PLUS, lexer.MINUS, lexer.ASTERISK, lexer.SLASH, lexer.PERCENT, lexer.POW,
		lexer.EQ, lexer.NOT_EQ, lexer.LT, lexer.GT, lexer.LT_EQ, lexer.GT_EQ,
		lexer.AND, lexer.OR, lexer.AMP, lexer.PIPE, lexer.CARET, lexer.SHL, lexer.SHR,
	}
	for _, tt := range infixOps {
		p.registerInfix(tt, p.parseBinaryExpression)
	}
	p.registerInfix(lexer.DOTDOT, p.parseRangeExpression)
	p.registerInfix(lexer.DOTDOTEQ, p.parseRangeExpression)
	p.registerInfix(lexer.LPAREN, p.parseFuncCallExpression)
	p.registerInfix(lexer.LBRACKET, p.parseArrayAccessExpression)
	p.registerInfix(lexer.DOT, p.parseGetExpression)
	p.registerInfix(lexer.COLONCOLON, p.parseModAccessExpression)
}

// parseExpression is the Pratt-parsing entry point: parse a prefix
// expression, then repeatedly fold in infix operators while the next
// token binds tighter than precedence.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorf(p.curToken.Pos, "no prefix parse function for %s (%q)", p.curToken.Type, p.curToken.Literal)
		return nil
	}
	left := prefix()

	for !p.peekTokenIs(lexer.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	tok := p.curToken
	lit := tok.Literal
	base := 10
	switch {
	case len(lit) > 2 && (lit[:2] == "0x" || lit[:2] == "0X"):
		lit, base = lit[2:], 16
	case len(lit) > 2 && (lit[:2] == "0b" || lit[:2] == "0B"):
		lit, base = lit[2:], 2
	}
	v, err := strconv.ParseInt(stripUnderscores(lit), base, 64)
	if err != nil {
		p.errorf(tok.Pos, "could not parse %q as integer", tok.Literal)
		return nil
	}
	return &ast.IntegerLiteral{Token: tok, Value: v}
}

func stripUnderscores(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	tok := p.curToken
	v, err := strconv.ParseFloat(stripUnderscores(tok.Literal), 64)
	if err != nil {
		p.errorf(tok.Pos, "could not parse %q as float", tok.Literal)
		return nil
	}
	return &ast.FloatLiteral{Token: tok, Value: v}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseFStringLiteral() ast.Expression {
	return &ast.FStringExpr{Token: p.curToken, Raw: p.curToken.Literal}
}

func (p *Parser) parseCharLiteral() ast.Expression {
	lit := p.curToken.Literal
	var b byte
	if len(lit) > 0 {
		b = lit[0]
	}
	return &ast.CharLiteral{Token: p.curToken, Value: b}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(lexer.TRUE)}
}

func (p *Parser) parseNoneLiteral() ast.Expression {
	return &ast.NoneLiteral{Token: p.curToken}
}

func (p *Parser) parseTypeKeyword() ast.Expression {
	return &ast.TypeKeywordExpr{Token: p.curToken, Name: p.curToken.Literal}
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	tok := p.curToken
	op := tok.Literal
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	return &ast.UnaryExpr{Token: tok, Operator: op, Operand: operand}
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	op := tok.Literal
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.BinaryExpr{Token: tok, Left: left, Operator: op, Right: right}
}

func (p *Parser) parseRangeExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	inclusive := p.curTokenIs(lexer.DOTDOTEQ)
	p.nextToken()
	right := p.parseExpression(SUM)
	return &ast.RangeExpr{Token: tok, Start: left, End: right, Inclusive: inclusive}
}

// parseGroupedOrTuple handles `(expr)` (grouping) and `(a, b, ...)` /
// `(a,)` (tuple literal) sharing the LPAREN prefix slot.
func (p *Parser) parseGroupedOrTuple() ast.Expression {
	tok := p.curToken
	p.nextToken()

	if p.curTokenIs(lexer.RPAREN) {
		return &ast.TupleLiteral{Token: tok}
	}

	first := p.parseExpression(LOWEST)
	if !p.peekTokenIs(lexer.COMMA) {
		if !p.expectPeek(lexer.RPAREN) {
			return nil
		}
		return first
	}

	elems := []ast.Expression{first}
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken() // consume ','
		if p.peekTokenIs(lexer.RPAREN) {
			break
		}
		p.nextToken()
		elems = append(elems, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return &ast.TupleLiteral{Token: tok, Elements: elems}
}

func (p *Parser) parseExpressionList(end lexer.TokenType) []ast.Expression {
	var list []ast.Expression
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(end) {
		return nil
	}
	return list
}

func (p *Parser) parseListLiteral() ast.Expression {
	tok := p.curToken
	elems := p.parseExpressionList(lexer.RBRACKET)
	return &ast.ListLiteral{Token: tok, Elements: elems}
}

func (p *Parser) parseDictLiteral() ast.Expression {
	tok := p.curToken
	dict := &ast.DictLiteral{Token: tok}
	for !p.peekTokenIs(lexer.RBRACE) {
		p.nextToken()
		key := p.parseExpression(LOWEST)
		if !p.expectPeek(lexer.COLON) {
			return nil
		}
		p.nextToken()
		val := p.parseExpression(LOWEST)
		dict.Keys = append(dict.Keys, key)
		dict.Vals = append(dict.Vals, val)
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}
	return dict
}

func (p *Parser) parseFuncCallExpression(callee ast.Expression) ast.Expression {
	tok := p.curToken
	args := p.parseExpressionList(lexer.RPAREN)
	return &ast.FuncCallExpr{Token: tok, Callee: callee, Args: args}
}

// parseArrayAccessExpression parses `left[index]` or `left[start:end]`
// (either slice endpoint may be omitted, meaning open/Void). Assumes
// curToken is the opening '[' on entry; leaves curToken on the closing ']'.
func (p *Parser) parseArrayAccessExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()

	var start ast.Expression
	if !p.curTokenIs(lexer.COLON) && !p.curTokenIs(lexer.RBRACKET) {
		start = p.parseExpression(LOWEST)
		p.nextToken()
	}

	if p.curTokenIs(lexer.COLON) {
		var end ast.Expression
		p.nextToken()
		if !p.curTokenIs(lexer.RBRACKET) {
			end = p.parseExpression(LOWEST)
			p.nextToken()
		}
		if !p.curTokenIs(lexer.RBRACKET) {
			p.errorf(p.curToken.Pos, "expected ']' to close slice, got %s", p.curToken.Type)
			return nil
		}
		return &ast.ArrayAccessExpr{Token: tok, Left: left, Index: &ast.SliceExpr{Token: tok, Start: start, End: end}}
	}

	if !p.curTokenIs(lexer.RBRACKET) {
		p.errorf(p.curToken.Pos, "expected ']', got %s", p.curToken.Type)
		return nil
	}
	return &ast.ArrayAccessExpr{Token: tok, Left: left, Index: start}
}

func (p *Parser) parseGetExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}
	var right ast.Expression = name
	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		right = p.parseFuncCallExpression(name)
	}
	return &ast.GetExpr{Token: tok, Left: left, Right: right}
}

func (p *Parser) parseModAccessExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	ident, ok := left.(*ast.Identifier)
	if !ok {
		p.errorf(tok.Pos, "module access requires an identifier on the left of '::'")
		return nil
	}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}
	var right ast.Expression = name
	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		right = p.parseFuncCallExpression(name)
	}
	return &ast.ModAccessExpr{Token: tok, Mod: ident.Name, Right: right}
}

// parseClosureLiteral parses `|params| { body }`. Each parameter may carry
// a leading `ref` marker, binding the caller's Value by shared handle.
func (p *Parser) parseClosureLiteral() ast.Expression {
	tok := p.curToken
	var params []*ast.ParamDecl
	for !p.peekTokenIs(lexer.PIPE) {
		p.nextToken()
		ref := false
		if p.curTokenIs(lexer.IDENT) && p.curToken.Literal == "ref" {
			ref = true
			p.nextToken()
		}
		params = append(params, &ast.ParamDecl{Token: p.curToken, Name: p.curToken.Literal, Ref: ref})
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	if !p.expectPeek(lexer.PIPE) {
		return nil
	}
	var body *ast.BlockStmt
	if p.peekTokenIs(lexer.LBRACE) {
		p.nextToken()
		body = p.parseBlockStatement()
	} else {
		// Expression-bodied form `|x| x + 1`: wrap the expression in a
		// one-statement block so the evaluator sees a uniform shape.
		p.nextToken()
		expr := p.parseExpression(LOWEST)
		body = &ast.BlockStmt{Token: tok, Statements: []ast.Statement{
			&ast.ExprStmt{Token: tok, Expr: expr},
		}}
	}
	return &ast.ClosureExpr{Token: tok, Params: params, Body: body}
}

// parseCaseExpressionFromMatch lets `match` also be used in expression
// position (`let r = match x { when 1 -> "a"; else -> "b"; };`), sharing
// the arm-parsing logic with the MatchStmt statement form.
func (p *Parser) parseCaseExpressionFromMatch() ast.Expression {
	tok := p.curToken
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	arms := p.parseCaseArms()
	return &ast.CaseExpr{Token: tok, Value: value, Arms: arms}
}

// parseCaseArms parses `when pattern -> result;` / `else -> result;` arms
// until the closing brace. Assumes curToken is LBRACE on entry and leaves
// curToken on RBRACE.
func (p *Parser) parseCaseArms() []*ast.CaseArm {
	var arms []*ast.CaseArm
	for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		p.nextToken()
		arm := &ast.CaseArm{}
		if p.curTokenIs(lexer.WHEN) {
			p.nextToken()
			arm.Pattern = p.parsePattern()
		} else if p.curTokenIs(lexer.ELSE) {
			arm.Pattern = nil
		} else {
			p.errorf(p.curToken.Pos, "expected 'when' or 'else' in case/match arm, got %s", p.curToken.Type)
		}
		if p.peekTokenIs(lexer.FAT_ARROW) {
			p.nextToken()
		} else if !p.expectPeek(lexer.ARROW) {
			return arms
		}
		p.nextToken()
		arm.Result = p.parseExpression(LOWEST)
		arms = append(arms, arm)
		if p.peekTokenIs(lexer.SEMICOLON) {
			p.nextToken()
		}
	}
	if !p.expectPeek(lexer.RBRACE) {
		return arms
	}
	return arms
}

// parsePattern parses one case/match pattern: either a captured partial
// comparison (`< 5`, `>= x`) or a plain expression tested by equality.
func (p *Parser) parsePattern() ast.Expression {
	switch p.curToken.Type {
	case lexer.LT, lexer.GT, lexer.LT_EQ, lexer.GT_EQ, lexer.EQ, lexer.NOT_EQ:
		tok := p.curToken
		op := tok.Literal
		p.nextToken()
		right := p.parseExpression(LOWEST)
		return &ast.PredicateExpr{Token: tok, Operator: op, Right: right}
	default:
		return p.parseExpression(LOWEST)
	}
}
