package interp

import "github.com/cwbudde/go-earl/internal/ast"

// Function is a declared, named function: its parameter list, body, and
// the Attrs it carries (pub/world/ref/const/experimental).
// DefiningCtx is the Context the function was declared in, consulted by
// @world lookups and by method dispatch when Owner is a class.
type Function struct {
	Name        string
	Params      []*ast.ParamDecl
	Attrs       ast.Attrs
	Body        *ast.BlockStmt
	DefiningCtx *Context
	Info        string // doc text attached by a preceding `info` statement
}

// Class is a declared class: its constructor parameter list, field
// initializers, and method table.
type Class struct {
	Name        string
	CtorParams  []*ast.ParamDecl
	Attrs       ast.Attrs
	Members     []*ast.LetStmt
	Methods     []*ast.FuncDeclStmt
	DefiningCtx *Context
}
