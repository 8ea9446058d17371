package interp

import (
	"github.com/cwbudde/go-earl/internal/ast"
	"github.com/google/uuid"
)

// ContextKind distinguishes the four owner-chain context shapes a lookup
// can walk through.
type ContextKind int

const (
	WorldContext ContextKind = iota
	FunctionContext
	ClassContext
	ClosureContext
)

func (k ContextKind) String() string {
	switch k {
	case WorldContext:
		return "world"
	case FunctionContext:
		return "function"
	case ClassContext:
		return "class"
	case ClosureContext:
		return "closure"
	default:
		return "unknown"
	}
}

// Context is one link in the lexical lookup chain: a World (top-level
// script/module), a Function call frame, a Class method frame, or a
// Closure capture frame. Each carries its own Scope plus a pointer to the
// Context that owns it, forming the chain eval_expr walks to resolve a
// bare identifier.
//
// Contexts are identified by a uuid.UUID rather than a raw incrementing
// counter: the owner chain can form cycles once closures capture contexts
// that themselves reference the closure's defining context, so each
// context carries a stable opaque identity. The module cache is keyed by
// canonical path, not by this ID.
type Context struct {
	ID             uuid.UUID
	Kind           ContextKind
	Owner          *Context // lexical owner, walked for identifier lookup
	ImmediateOwner *Context // dynamic caller, recorded on each function call; lookups never read it
	Scope          *Scope

	// World-only fields.
	ModuleID     string
	FilePath     string
	Imports      map[string]*Module // by module id or alias
	ImportOrder  []string
	ReplAppended bool

	// Function-only fields.
	FuncName string
	IsWorld  bool // carries the @world attribute; variable lookup still ascends Owner only, never the caller's locals

	// Class-only fields.
	ClassName string
	Instance  *Instance
	CtorArgs  map[string]Value // temporary constructor-argument map, cleared after binding

	// Every context kind may declare nested functions/classes/enums in its
	// own table; lookup for these always ascends the Owner chain.
	Functions map[string]*Function
	Classes   map[string]*Class
	Enums     map[string]*EnumType
}

// EnumType is a declared enum: an id plus an ordered entries map.
type EnumType struct {
	Name    string
	Attrs   ast.Attrs
	Order   []string
	Entries map[string]int64
}

func newBaseContext(kind ContextKind, owner *Context) *Context {
	return &Context{
		ID:        uuid.New(),
		Kind:      kind,
		Owner:     owner,
		Scope:     NewScope(),
		Functions: make(map[string]*Function),
		Classes:   make(map[string]*Class),
		Enums:     make(map[string]*EnumType),
	}
}

// NewWorldContext creates a root World context for file, with no owner.
func NewWorldContext(file string) *Context {
	c := newBaseContext(WorldContext, nil)
	c.FilePath = file
	c.Imports = make(map[string]*Module)
	return c
}

// NewFunctionContext creates a Function call frame owned by owner, the
// nearest enclosing World/Class of the caller.
func NewFunctionContext(owner *Context, name string, isWorld bool) *Context {
	c := newBaseContext(FunctionContext, owner)
	c.FuncName = name
	c.IsWorld = isWorld
	return c
}

// NewClassContext creates a Class method frame owned by owner, bound to
// instance.
func NewClassContext(owner *Context, className string, instance *Instance) *Context {
	c := newBaseContext(ClassContext, owner)
	c.ClassName = className
	c.Instance = instance
	return c
}

// NewClosureContext creates a Closure capture frame owned by owner.
func NewClosureContext(owner *Context) *Context {
	return newBaseContext(ClosureContext, owner)
}

// World walks the owner chain up to the nearest WorldContext. Every
// context chain terminates in exactly one World.
func (c *Context) World() *Context {
	cur := c
	for cur.Kind != WorldContext {
		cur = cur.Owner
	}
	return cur
}

// NearestEnclosingWorldOrClass ascends from c to the first World or Class
// context, skipping any Function/Closure frames. This is the `owner` a
// freshly created Function context receives as its owner.
func (c *Context) NearestEnclosingWorldOrClass() *Context {
	cur := c
	for cur != nil && cur.Kind != WorldContext && cur.Kind != ClassContext {
		cur = cur.Owner
	}
	return cur
}

// FuncNameForMagicIdent resolves `__FUNC__`: the nearest enclosing
// Function context's name, or "<world>" if c is not itself inside a call.
func (c *Context) FuncNameForMagicIdent() string {
	cur := c
	for cur != nil {
		if cur.Kind == FunctionContext {
			return cur.FuncName
		}
		cur = cur.Owner
	}
	return "<world>"
}

// LookupVar resolves a variable identifier:
//
//  1. Own scope, innermost-first.
//  2. Function with @world: ascend the owner chain checking variables at
//     each level (same as Closure).
//  3. Function without @world: skip straight to the enclosing World/Class
//     owner; do not read the caller's locals.
//  4. Closure: always ascend (closures capture by reference).
//  5. Class: check own member scope, then the constructor temp-arg map
//     (only populated during constructor binding), then ascend.
func (c *Context) LookupVar(name string) (*Binding, bool) {
	if b, ok := c.Scope.Get(name); ok {
		return b, true
	}
	if c.Kind == ClassContext {
		if v, ok := c.CtorArgs[name]; ok {
			return &Binding{Name: name, Value: v}, true
		}
	}
	switch c.Kind {
	case FunctionContext:
		if !c.IsWorld {
			if c.Owner != nil {
				return c.Owner.LookupVar(name)
			}
			return nil, false
		}
		fallthrough
	case ClosureContext, ClassContext, WorldContext:
		if c.Owner != nil {
			return c.Owner.LookupVar(name)
		}
	}
	return nil, false
}

// LookupFunction ascends the owner chain looking for a function named
// name, checking each context's own Functions table. Unlike variable
// lookup, function lookup always ascends regardless of @world.
func (c *Context) LookupFunction(name string) (*Function, *Context, bool) {
	cur := c
	for cur != nil {
		if fn, ok := cur.Functions[name]; ok {
			return fn, cur, true
		}
		cur = cur.Owner
	}
	return nil, nil, false
}

// LookupClass ascends the owner chain looking for a class named name.
func (c *Context) LookupClass(name string) (*Class, bool) {
	cur := c
	for cur != nil {
		if cl, ok := cur.Classes[name]; ok {
			return cl, true
		}
		cur = cur.Owner
	}
	return nil, false
}

// LookupEnum ascends the owner chain looking for an enum type named name.
func (c *Context) LookupEnum(name string) (*EnumType, bool) {
	cur := c
	for cur != nil {
		if e, ok := cur.Enums[name]; ok {
			return e, true
		}
		cur = cur.Owner
	}
	return nil, false
}

// LookupModule ascends the owner chain to the World, then looks for an
// imported module by id/alias in that World's import table.
func (c *Context) LookupModule(name string) (*Module, bool) {
	w := c.World()
	m, ok := w.Imports[name]
	return m, ok
}
