package interp

import (
	"sort"

	"github.com/cwbudde/go-earl/internal/ast"
)

// DocRecord is one entry of the autodoc walk: a pub top-level function
// paired with its preceding `info` string, or a pub top-level class
// (classes carry no info string, so Info is empty). Rendering (markdown
// or otherwise) is left to the caller.
type DocRecord struct {
	Name string
	Kind string // "function" or "class"
	Info string
}

// Doc walks world's top-level function and class tables and returns a
// DocRecord for every pub-attributed declaration, sorted by name. No
// markdown rendering is performed here; a caller is free to format these
// records however it likes.
func (in *Interpreter) Doc(world *Context) []DocRecord {
	var out []DocRecord
	for name, fn := range world.Functions {
		if fn.Attrs.Has(ast.AttrPub) {
			out = append(out, DocRecord{Name: name, Kind: "function", Info: fn.Info})
		}
	}
	for name, cl := range world.Classes {
		if cl.Attrs.Has(ast.AttrPub) {
			out = append(out, DocRecord{Name: name, Kind: "class"})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
