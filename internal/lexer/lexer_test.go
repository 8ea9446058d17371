package lexer

import "testing"

func TestNextTokenBasicProgram(t *testing.T) {
	input := `let x = 3 + 4 * 2;
fn add(a, b) { return a + b; }
if x >= 5 { println(x); } else { println(0); }
`
	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{LET, "let"}, {IDENT, "x"}, {ASSIGN, "="}, {INT, "3"}, {PLUS, "+"},
		{INT, "4"}, {ASTERISK, "*"}, {INT, "2"}, {SEMICOLON, ";"},
		{FN, "fn"}, {IDENT, "add"}, {LPAREN, "("}, {IDENT, "a"}, {COMMA, ","},
		{IDENT, "b"}, {RPAREN, ")"}, {LBRACE, "{"}, {RETURN, "return"},
		{IDENT, "a"}, {PLUS, "+"}, {IDENT, "b"}, {SEMICOLON, ";"}, {RBRACE, "}"},
		{IF, "if"}, {IDENT, "x"}, {GT_EQ, ">="}, {INT, "5"}, {LBRACE, "{"},
		{IDENT, "println"}, {LPAREN, "("}, {IDENT, "x"}, {RPAREN, ")"}, {SEMICOLON, ";"},
		{RBRACE, "}"}, {ELSE, "else"}, {LBRACE, "{"},
		{IDENT, "println"}, {LPAREN, "("}, {INT, "0"}, {RPAREN, ")"}, {SEMICOLON, ";"},
		{RBRACE, "}"},
		{EOF, ""},
	}

	l := New(input, "<test>")
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%s, got=%s (%q)", i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNextTokenOperators(t *testing.T) {
	input := `+= -= *= /= %= &= |= ^= <<= >>= && || == != <= >= << >> -> => .. ..= ** ~ ::`
	tests := []TokenType{
		PLUS_EQ, MINUS_EQ, STAR_EQ, SLASH_EQ, PERCENT_EQ, AMP_EQ, PIPE_EQ, CARET_EQ,
		SHL_EQ, SHR_EQ, AND, OR, EQ, NOT_EQ, LT_EQ, GT_EQ, SHL, SHR, ARROW, FAT_ARROW,
		DOTDOT, DOTDOTEQ, POW, TILDE, COLONCOLON, EOF,
	}
	l := New(input, "<test>")
	for i, want := range tests {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("tests[%d]: expected %s got %s (%q)", i, want, tok.Type, tok.Literal)
		}
	}
}

func TestNextTokenStringsAndChars(t *testing.T) {
	input := `"hello\nworld" 'a' f"x = {x}"`
	l := New(input, "<test>")

	tok := l.NextToken()
	if tok.Type != STRING || tok.Literal != "hello\nworld" {
		t.Fatalf("string literal wrong: %+v", tok)
	}
	tok = l.NextToken()
	if tok.Type != CHAR || tok.Literal != "a" {
		t.Fatalf("char literal wrong: %+v", tok)
	}
	tok = l.NextToken()
	if tok.Type != FSTR || tok.Literal != "x = {x}" {
		t.Fatalf("fstring literal wrong: %+v", tok)
	}
}

func TestNextTokenNumbers(t *testing.T) {
	input := `5 5.5 0xFF 0b1010 1e10 1.5e-3`
	tests := []struct {
		tt  TokenType
		lit string
	}{
		{INT, "5"}, {FLOAT, "5.5"}, {INT, "0xFF"}, {INT, "0b1010"}, {FLOAT, "1e10"}, {FLOAT, "1.5e-3"},
	}
	l := New(input, "<test>")
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.tt || tok.Literal != tt.lit {
			t.Fatalf("tests[%d]: expected %s %q got %s %q", i, tt.tt, tt.lit, tok.Type, tok.Literal)
		}
	}
}

func TestNextTokenComments(t *testing.T) {
	input := "let x = 1; # a comment\nlet y = 2; // another\nlet z /* block */ = 3;"
	l := New(input, "<test>")
	var gotIdents []string
	for {
		tok := l.NextToken()
		if tok.Type == EOF {
			break
		}
		if tok.Type == IDENT {
			gotIdents = append(gotIdents, tok.Literal)
		}
	}
	want := []string{"x", "y", "z"}
	if len(gotIdents) != len(want) {
		t.Fatalf("expected idents %v got %v", want, gotIdents)
	}
	for i := range want {
		if gotIdents[i] != want[i] {
			t.Fatalf("expected idents %v got %v", want, gotIdents)
		}
	}
}

func TestLookupIdentKeywords(t *testing.T) {
	if LookupIdent("let") != LET {
		t.Fatal("expected let to be a keyword")
	}
	if LookupIdent("myVar") != IDENT {
		t.Fatal("expected myVar to be IDENT")
	}
}

func TestPositionTracking(t *testing.T) {
	input := "let\nx = 1;"
	l := New(input, "file.earl")
	tok := l.NextToken() // let
	if tok.Pos.Line != 1 || tok.Pos.Column != 1 || tok.Pos.File != "file.earl" {
		t.Fatalf("unexpected position: %+v", tok.Pos)
	}
	tok = l.NextToken() // x
	if tok.Pos.Line != 2 {
		t.Fatalf("expected line 2, got %d", tok.Pos.Line)
	}
}
