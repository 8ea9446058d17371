package parser

import (
	"github.com/cwbudde/go-earl/internal/ast"
	"github.com/cwbudde/go-earl/internal/lexer"
)

// parseStatement dispatches on curToken to the statement parser for that
// leading keyword, falling back to an expression/mut statement.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case lexer.AT:
		return p.parseAttributedDecl()
	case lexer.LET:
		return p.parseLetStatement(ast.Attrs(0))
	case lexer.FN:
		return p.parseFuncDeclStatement(ast.Attrs(0))
	case lexer.CLASS:
		return p.parseClassDeclStatement(ast.Attrs(0))
	case lexer.ENUM:
		return p.parseEnumDeclStatement(ast.Attrs(0))
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.LOOP:
		return p.parseLoopStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.FOREACH:
		return p.parseForeachStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.BREAK:
		stmt := &ast.BreakStmt{Token: p.curToken}
		if p.peekTokenIs(lexer.SEMICOLON) {
			p.nextToken()
		}
		return stmt
	case lexer.CONTINUE:
		stmt := &ast.ContinueStmt{Token: p.curToken}
		if p.peekTokenIs(lexer.SEMICOLON) {
			p.nextToken()
		}
		return stmt
	case lexer.IMPORT:
		return p.parseImportStatement()
	case lexer.MOD:
		return p.parseModStatement()
	case lexer.MATCH:
		return p.parseMatchStatement()
	case lexer.USE:
		return p.parseUseStatement()
	case lexer.EXEC:
		return p.parseExecStatement()
	case lexer.WITH:
		return p.parseWithStatement()
	case lexer.TRY:
		return p.parseTryStatement()
	case lexer.INFO:
		return p.parseInfoStatement()
	case lexer.BASHLIT:
		stmt := &ast.BashLiteralStmt{Token: p.curToken, Script: p.curToken.Literal}
		if p.peekTokenIs(lexer.SEMICOLON) {
			p.nextToken()
		}
		return stmt
	case lexer.LBRACE:
		return p.parseBlockStatement()
	default:
		return p.parseExprOrMutStatement()
	}
}

// parseAttributedDecl consumes a leading `@attr ...` run and routes to the
// declaration form it precedes (let/fn/class/enum are the only forms
// attributes may prefix).
func (p *Parser) parseAttributedDecl() ast.Statement {
	attrs := p.parseAttrs()
	switch p.curToken.Type {
	case lexer.LET:
		return p.parseLetStatement(attrs)
	case lexer.FN:
		return p.parseFuncDeclStatement(attrs)
	case lexer.CLASS:
		return p.parseClassDeclStatement(attrs)
	case lexer.ENUM:
		return p.parseEnumDeclStatement(attrs)
	default:
		p.errorf(p.curToken.Pos, "attributes may only precede let/fn/class/enum, got %s", p.curToken.Type)
		return nil
	}
}

func (p *Parser) parseBlockStatement() *ast.BlockStmt {
	block := &ast.BlockStmt{Token: p.curToken}
	p.nextToken()
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}

// parseLetStatement parses `let name [, name...] = expr;`, assumes
// curToken is LET on entry.
func (p *Parser) parseLetStatement(attrs ast.Attrs) ast.Statement {
	stmt := &ast.LetStmt{Token: p.curToken, Attrs: attrs}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Names = append(stmt.Names, p.curToken.Literal)
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		stmt.Names = append(stmt.Names, p.curToken.Literal)
	}
	if !p.expectPeek(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

var compoundAssignOps = map[lexer.TokenType]string{
	lexer.ASSIGN:     "=",
	lexer.PLUS_EQ:    "+=",
	lexer.MINUS_EQ:   "-=",
	lexer.STAR_EQ:    "*=",
	lexer.SLASH_EQ:   "/=",
	lexer.PERCENT_EQ: "%=",
	lexer.AMP_EQ:     "&=",
	lexer.PIPE_EQ:    "|=",
	lexer.CARET_EQ:   "^=",
	lexer.SHL_EQ:     "<<=",
	lexer.SHR_EQ:     ">>=",
}

// parseExprOrMutStatement parses a bare expression statement, or (when the
// parsed expression is followed by an assignment operator) a MutStmt.
func (p *Parser) parseExprOrMutStatement() ast.Statement {
	tok := p.curToken
	expr := p.parseExpression(LOWEST)

	if op, ok := compoundAssignOps[p.peekToken.Type]; ok {
		p.nextToken()
		p.nextToken()
		right := p.parseExpression(LOWEST)
		if p.peekTokenIs(lexer.SEMICOLON) {
			p.nextToken()
		}
		return &ast.MutStmt{Token: tok, Left: expr, Operator: op, Right: right}
	}

	if p.peekTokenIs(lexer.PIPEARROW) {
		p.nextToken()
		p.nextToken()
		right := p.parseExpression(LOWEST)
		if p.peekTokenIs(lexer.SEMICOLON) {
			p.nextToken()
		}
		return &ast.PipeStmt{Token: tok, Left: expr, Right: right}
	}

	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return &ast.ExprStmt{Token: tok, Expr: expr}
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStmt{Token: p.curToken}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Then = p.parseBlockStatement()
	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		if p.peekTokenIs(lexer.IF) {
			p.nextToken()
			stmt.Else = p.parseIfStatement()
		} else if p.expectPeek(lexer.LBRACE) {
			stmt.Else = p.parseBlockStatement()
		}
	}
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStmt{Token: p.curToken}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseLoopStatement() ast.Statement {
	stmt := &ast.LoopStmt{Token: p.curToken}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

// parseForStatement parses `for v in start..end { body }`.
func (p *Parser) parseForStatement() ast.Statement {
	stmt := &ast.ForStmt{Token: p.curToken}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Var = p.curToken.Literal
	if !p.expectPeek(lexer.IN) {
		return nil
	}
	p.nextToken()
	rangeExpr := p.parseExpression(LOWEST)
	if r, ok := rangeExpr.(*ast.RangeExpr); ok {
		stmt.Start, stmt.End = r.Start, r.End
	} else {
		p.errorf(rangeExpr.Pos(), "for loop requires a range expression (start..end)")
	}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

// parseForeachStatement parses `foreach v [, v2] in iterable { body }`.
func (p *Parser) parseForeachStatement() ast.Statement {
	stmt := &ast.ForeachStmt{Token: p.curToken}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Vars = append(stmt.Vars, p.curToken.Literal)
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		stmt.Vars = append(stmt.Vars, p.curToken.Literal)
	}
	if !p.expectPeek(lexer.IN) {
		return nil
	}
	p.nextToken()
	stmt.Iterable = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStmt{Token: p.curToken}
	if p.peekTokenIs(lexer.SEMICOLON) || p.peekTokenIs(lexer.RBRACE) {
		if p.peekTokenIs(lexer.SEMICOLON) {
			p.nextToken()
		}
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

// parseImportStatement parses `import ["almost"] "path" [as alias];`.
func (p *Parser) parseImportStatement() ast.Statement {
	stmt := &ast.ImportStmt{Token: p.curToken, Depth: "full"}
	if p.peekTokenIs(lexer.ALMOST) {
		p.nextToken()
		stmt.Depth = "almost"
	}
	if !p.expectPeek(lexer.STRING) {
		return nil
	}
	stmt.Path = p.curToken.Literal
	if p.peekTokenIs(lexer.AS) {
		p.nextToken()
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		stmt.Alias = p.curToken.Literal
	}
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseModStatement() ast.Statement {
	stmt := &ast.ModStmt{Token: p.curToken}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Name = p.curToken.Literal
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

// parseMatchStatement parses `match value { when p -> stmt; else -> stmt; }`
// evaluated for effect (as opposed to the CaseExpr expression form).
func (p *Parser) parseMatchStatement() ast.Statement {
	stmt := &ast.MatchStmt{Token: p.curToken}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Arms = p.parseCaseArms()
	return stmt
}

// parseInfoStatement parses `info "doc text";`. attachInfoStrings later
// copies the text onto the function declaration that immediately follows
// it at top level; other following statements receive nothing.
func (p *Parser) parseInfoStatement() ast.Statement {
	stmt := &ast.InfoStmt{Token: p.curToken}
	if !p.expectPeek(lexer.STRING) {
		return nil
	}
	stmt.Text = p.curToken.Literal
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

// parseUseStatement parses `use alias = "command";`.
func (p *Parser) parseUseStatement() ast.Statement {
	stmt := &ast.UseStmt{Token: p.curToken}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Alias = p.curToken.Literal
	if !p.expectPeek(lexer.ASSIGN) {
		return nil
	}
	if !p.expectPeek(lexer.STRING) {
		return nil
	}
	stmt.Path = p.curToken.Literal
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

// parseExecStatement parses `exec alias(args...);`.
func (p *Parser) parseExecStatement() ast.Statement {
	stmt := &ast.ExecStmt{Token: p.curToken}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Alias = p.curToken.Literal
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	stmt.Args = p.parseExpressionList(lexer.RPAREN)
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

// parseWithStatement parses `with id1 = expr1, id2 = expr2 { body }`.
func (p *Parser) parseWithStatement() ast.Statement {
	stmt := &ast.WithStmt{Token: p.curToken}
	for {
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		stmt.Ids = append(stmt.Ids, p.curToken.Literal)
		if !p.expectPeek(lexer.ASSIGN) {
			return nil
		}
		p.nextToken()
		stmt.Exprs = append(stmt.Exprs, p.parseExpression(LOWEST))
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

// parseTryStatement parses `try { body } catch err { body }`.
func (p *Parser) parseTryStatement() ast.Statement {
	stmt := &ast.TryStmt{Token: p.curToken}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	if !p.expectPeek(lexer.CATCH) {
		return nil
	}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.ErrName = p.curToken.Literal
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Catch = p.parseBlockStatement()
	return stmt
}

// parseFuncDeclStatement parses `fn name(params...) { body }`.
func (p *Parser) parseFuncDeclStatement(attrs ast.Attrs) ast.Statement {
	stmt := &ast.FuncDeclStmt{Token: p.curToken, Attrs: attrs}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Name = p.curToken.Literal
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	stmt.Params = p.parseParamList()
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

// parseParamList parses a `(` already consumed as curToken, up to and
// including the matching `)`.
func (p *Parser) parseParamList() []*ast.ParamDecl {
	var params []*ast.ParamDecl
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	params = append(params, p.parseOneParam())
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, p.parseOneParam())
	}
	p.expectPeek(lexer.RPAREN)
	return params
}

func (p *Parser) parseOneParam() *ast.ParamDecl {
	param := &ast.ParamDecl{}
	for p.curTokenIs(lexer.IDENT) && (p.curToken.Literal == "ref" || p.curToken.Literal == "const") {
		if p.curToken.Literal == "ref" {
			param.Ref = true
		} else {
			param.Const = true
		}
		p.nextToken()
	}
	param.Token = p.curToken
	param.Name = p.curToken.Literal
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		param.Type = p.curToken.Literal
	}
	return param
}
