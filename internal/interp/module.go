package interp

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/go-earl/internal/ast"
	"github.com/cwbudde/go-earl/internal/lexer"
	"github.com/cwbudde/go-earl/internal/parser"
)

// evalImport loads a module: canonicalize path
// against the configured include directories, reuse an already-loaded
// World by canonical path, otherwise lex/parse/evaluate it fresh, then
// attach the result to the importer's World under its module id and
// optional alias.
func (in *Interpreter) evalImport(s *ast.ImportStmt, ctx *Context) Value {
	canonical, found := in.resolveImportPath(ctx.World(), s.Path)
	if !found {
		return NewError(s.Pos(), KindFatal, "cannot resolve import %q against include directories", s.Path)
	}

	world := ctx.World()
	if cached, ok := in.ModuleCache[canonical]; ok {
		world.Imports[cached.Name] = cached
		if s.Alias != "" {
			world.Imports[s.Alias] = cached
		}
		world.ImportOrder = append(world.ImportOrder, cached.Name)
		return theUnit
	}

	src, err := os.ReadFile(canonical)
	if err != nil {
		return NewError(s.Pos(), KindFatal, "cannot read import %q: %s", s.Path, err.Error())
	}

	l := lexer.New(string(src), canonical)
	p := parser.New(l)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return NewError(s.Pos(), KindSyntax, "import %q: %s", s.Path, strings.Join(errs, "; "))
	}

	importedWorld := NewWorldContext(canonical)
	if _, err := in.RunProgramIn(prog, importedWorld); err != nil {
		return err.(*RuntimeError)
	}

	moduleID := importedWorld.ModuleID
	if moduleID == "" {
		base := filepath.Base(canonical)
		moduleID = strings.TrimSuffix(base, filepath.Ext(base))
	}

	mod := &Module{Name: moduleID, Ctx: importedWorld, Depth: s.Depth}
	in.ModuleCache[canonical] = mod

	world.Imports[moduleID] = mod
	if s.Alias != "" {
		world.Imports[s.Alias] = mod
	}
	world.ImportOrder = append(world.ImportOrder, moduleID)
	return theUnit
}

// resolveImportPath canonicalizes path against the World's own directory,
// then the configured --include directories, then the current directory;
// first match wins.
func (in *Interpreter) resolveImportPath(world *Context, path string) (string, bool) {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
		return "", false
	}

	candidates := make([]string, 0, len(in.Config.Include)+1)
	if world.FilePath != "" {
		candidates = append(candidates, filepath.Dir(world.FilePath))
	}
	candidates = append(candidates, in.Config.Include...)
	candidates = append(candidates, ".")

	for _, dir := range candidates {
		full := filepath.Join(dir, path)
		if _, err := os.Stat(full); err == nil {
			abs, err := filepath.Abs(full)
			if err != nil {
				return full, true
			}
			return abs, true
		}
	}
	return "", false
}
