package ast

import (
	"testing"

	"github.com/cwbudde/go-earl/internal/lexer"
)

func TestProgramString(t *testing.T) {
	program := &Program{
		Statements: []Statement{
			&LetStmt{
				Token: lexer.Token{Type: lexer.LET, Literal: "let"},
				Names: []string{"x"},
				Value: &IntegerLiteral{Token: lexer.Token{Type: lexer.INT, Literal: "5"}, Value: 5},
			},
		},
	}

	if program.String() != "let x = 5;\n" {
		t.Fatalf("unexpected program string: %q", program.String())
	}
}

func TestAttrsBitset(t *testing.T) {
	a := Attrs(0).With(AttrPub).With(AttrRef)
	if !a.Has(AttrPub) || !a.Has(AttrRef) {
		t.Fatal("expected pub and ref set")
	}
	if a.Has(AttrConst) {
		t.Fatal("did not expect const set")
	}
	if a.String() != "@pub @ref" {
		t.Fatalf("unexpected attrs string: %q", a.String())
	}
}

func TestFuncDeclStmtString(t *testing.T) {
	fn := &FuncDeclStmt{
		Token: lexer.Token{Type: lexer.FN, Literal: "fn"},
		Name:  "add",
		Params: []*ParamDecl{
			{Name: "a"},
			{Name: "b", Ref: true},
		},
		Body: &BlockStmt{
			Statements: []Statement{
				&ReturnStmt{
					Token: lexer.Token{Type: lexer.RETURN, Literal: "return"},
					Value: &BinaryExpr{
						Left:     &Identifier{Name: "a"},
						Operator: "+",
						Right:    &Identifier{Name: "b"},
					},
				},
			},
		},
	}

	want := "fn add(a, ref b) { return (a + b); }"
	if fn.String() != want {
		t.Fatalf("expected %q got %q", want, fn.String())
	}
}

func TestCaseExprString(t *testing.T) {
	ce := &CaseExpr{
		Value: &Identifier{Name: "x"},
		Arms: []*CaseArm{
			{Pattern: &PredicateExpr{Operator: "<", Right: &IntegerLiteral{Value: 5, Token: lexer.Token{Literal: "5"}}}, Result: &StringLiteral{Value: "small"}},
			{Pattern: nil, Result: &StringLiteral{Value: "big"}},
		},
	}
	want := `case x { when < 5 -> "small"; else -> "big"; }`
	if ce.String() != want {
		t.Fatalf("expected %q got %q", want, ce.String())
	}
}
