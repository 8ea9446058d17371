package parser

import (
	"github.com/cwbudde/go-earl/internal/ast"
	"github.com/cwbudde/go-earl/internal/lexer"
)

// parseClassDeclStatement parses:
//
//	class Name(ctorParams...) {
//	    let field = expr;
//	    @pub fn method(params...) { ... }
//	}
func (p *Parser) parseClassDeclStatement(attrs ast.Attrs) ast.Statement {
	stmt := &ast.ClassDeclStmt{Token: p.curToken, Attrs: attrs}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Name = p.curToken.Literal

	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		stmt.CtorParams = p.parseParamList()
	}

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	p.nextToken()

	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		memberAttrs := ast.Attrs(0)
		if p.curTokenIs(lexer.AT) {
			memberAttrs = p.parseAttrs()
		}
		switch p.curToken.Type {
		case lexer.LET:
			if let, ok := p.parseLetStatement(memberAttrs).(*ast.LetStmt); ok {
				stmt.Members = append(stmt.Members, let)
			}
		case lexer.FN:
			if fn, ok := p.parseFuncDeclStatement(memberAttrs).(*ast.FuncDeclStmt); ok {
				stmt.Methods = append(stmt.Methods, fn)
			}
		default:
			p.errorf(p.curToken.Pos, "expected 'let' or 'fn' in class body, got %s", p.curToken.Type)
			p.nextToken()
			continue
		}
		p.nextToken()
	}
	return stmt
}

// parseEnumDeclStatement parses `enum Name { A, B = 5, C }`.
func (p *Parser) parseEnumDeclStatement(attrs ast.Attrs) ast.Statement {
	stmt := &ast.EnumDeclStmt{Token: p.curToken, Attrs: attrs}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Name = p.curToken.Literal
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		entry := &ast.EnumEntry{Name: p.curToken.Literal}
		if p.peekTokenIs(lexer.ASSIGN) {
			p.nextToken()
			p.nextToken()
			entry.Value = p.parseExpression(LOWEST)
		}
		stmt.Entries = append(stmt.Entries, entry)
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}
	return stmt
}
