package interp

import "github.com/cwbudde/go-earl/internal/ast"

// Binding is a named variable holder: the Value plus the
// declaration Attrs it carries (pub/ref/const/world/experimental) and an
// optional event-listener callback installed by `observe`. Mutation is
// always routed through Scope/Context so the const check and listener
// dispatch happen in one place.
type Binding struct {
	Name     string
	Value    Value
	Attrs    ast.Attrs
	Listener Value // Closure/FunctionRef invoked by the evaluator after a mutation, or nil
	Warned   bool  // experimental warning already emitted once
}

// Scope is a stack of innermost-first variable frames within a single
// Context. Block statements push a frame on entry and pop it on every
// exit path; function/class/closure Contexts start with one root frame
// that lives for the whole call.
//
// EARL identifiers are case-sensitive: `x` and `X` are distinct bindings.
type Scope struct {
	frames []map[string]*Binding
}

// NewScope returns a Scope with a single root frame.
func NewScope() *Scope {
	return &Scope{frames: []map[string]*Binding{make(map[string]*Binding)}}
}

// Push opens a new innermost frame (entering a block).
func (s *Scope) Push() {
	s.frames = append(s.frames, make(map[string]*Binding))
}

// Pop discards the innermost frame (leaving a block through any exit
// path: fall-through, return, break, continue, or error).
func (s *Scope) Pop() {
	if len(s.frames) > 1 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Depth reports the current frame-stack depth, used by tests asserting
// the push/pop balance invariant.
func (s *Scope) Depth() int { return len(s.frames) }

// Get searches frames innermost-first.
func (s *Scope) Get(name string) (*Binding, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if b, ok := s.frames[i][name]; ok {
			return b, true
		}
	}
	return nil, false
}

// Contains reports whether name is bound in any frame of this Scope.
func (s *Scope) Contains(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// ContainsInnermost reports whether name is bound in the innermost frame
// only, used to detect redeclaration within the same scope.
func (s *Scope) ContainsInnermost(name string) bool {
	_, ok := s.frames[len(s.frames)-1][name]
	return ok
}

// Declare binds name in the innermost frame, shadowing any outer binding
// of the same name.
func (s *Scope) Declare(name string, val Value, attrs ast.Attrs) *Binding {
	b := &Binding{Name: name, Value: val, Attrs: attrs}
	s.frames[len(s.frames)-1][name] = b
	return b
}

// Remove deletes name from whichever frame currently owns it.
func (s *Scope) Remove(name string) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if _, ok := s.frames[i][name]; ok {
			delete(s.frames[i], name)
			return
		}
	}
}
