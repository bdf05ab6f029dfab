// Package symbols implements the symbol model: Scope, Variable, Function,
// and Struct records, plus hierarchical lookup (spec §3 "Symbol records",
// §4.2 scope construction, §4.3 struct-scope materialization).
//
// This package has no dependency on internal/ast. A symbol's "defining AST
// node" is held as an opaque any — spec §3 calls this reference weak
// ("never used to decide deallocation"), and keeping symbols independent
// of ast avoids an import cycle (ast.Node.Scope points at a *Scope).
package symbols

import "strings"

// Variable is a declared name of a given type, living in some Scope.
type Variable struct {
	ID     string
	Type   string // primitive name or struct name
	Scope  *Scope
	Node   any // defining AST node; nil for builtins and synthesized field copies
	Offset int // byte offset within a mapped region; 0 otherwise

	Const  bool
	Export bool
	Global bool
	Mapped bool
}

// Function is a declared callable with an ordered parameter list.
type Function struct {
	ID         string
	ReturnType string
	Params     []*Variable
	Scope      *Scope
	Node       any
	Export     bool
}

// Struct is a declared aggregate type with an ordered field list.
type Struct struct {
	ID     string
	Fields []*Variable
	Scope  *Scope
	Node   any
	Export bool
}

// Scope is a lexical region holding four independently-keyed symbol maps,
// with a parent link for hierarchical lookup (spec invariant: "a scope's
// getX(id) first consults its own map for kind X, then delegates upward to
// the parent").
type Scope struct {
	ID     string // empty for anonymous block scopes
	Parent *Scope
	Node   any // defining AST node; nil for root and builtin scopes

	scopes  map[string]*Scope
	vars    map[string]*Variable
	funcs   map[string]*Function
	structs map[string]*Struct
}

// New creates a Scope with the given id, parent, and defining node.
func New(id string, parent *Scope, node any) *Scope {
	return &Scope{
		ID:      id,
		Parent:  parent,
		Node:    node,
		scopes:  make(map[string]*Scope),
		vars:    make(map[string]*Variable),
		funcs:   make(map[string]*Function),
		structs: make(map[string]*Struct),
	}
}

// --- local-only accessors, used to detect redeclaration (spec invariant 2) ---

func (s *Scope) LocalScope(id string) (*Scope, bool)     { v, ok := s.scopes[id]; return v, ok }
func (s *Scope) LocalVariable(id string) (*Variable, bool) { v, ok := s.vars[id]; return v, ok }
func (s *Scope) LocalFunction(id string) (*Function, bool) { v, ok := s.funcs[id]; return v, ok }
func (s *Scope) LocalStruct(id string) (*Struct, bool)     { v, ok := s.structs[id]; return v, ok }

// --- insertion; callers check Local* first and emit a redeclaration
// diagnostic instead of calling these when a duplicate is present ---

// AddScope registers a nested named scope. Anonymous (id == "") scopes are
// never registered — they are reachable only via their AST node's Scope
// annotation, never by name lookup.
func (s *Scope) AddScope(child *Scope) {
	if child.ID == "" {
		return
	}
	s.scopes[child.ID] = child
}

func (s *Scope) AddVariable(v *Variable) { s.vars[v.ID] = v }
func (s *Scope) AddFunction(f *Function) { s.funcs[f.ID] = f }
func (s *Scope) AddStruct(st *Struct)    { s.structs[st.ID] = st }

// --- hierarchical lookup: local map, then delegate to parent ---

func (s *Scope) GetScope(id string) *Scope {
	if v, ok := s.scopes[id]; ok {
		return v
	}
	if s.Parent != nil {
		return s.Parent.GetScope(id)
	}
	return nil
}

func (s *Scope) GetVariable(id string) *Variable {
	if v, ok := s.vars[id]; ok {
		return v
	}
	if s.Parent != nil {
		return s.Parent.GetVariable(id)
	}
	return nil
}

func (s *Scope) GetFunction(id string) *Function {
	if v, ok := s.funcs[id]; ok {
		return v
	}
	if s.Parent != nil {
		return s.Parent.GetFunction(id)
	}
	return nil
}

func (s *Scope) GetStruct(id string) *Struct {
	if v, ok := s.structs[id]; ok {
		return v
	}
	if s.Parent != nil {
		return s.Parent.GetStruct(id)
	}
	return nil
}

// Path returns the fully-qualified dot-joined name of id as declared in s:
// the chain of non-empty ancestor scope ids from the root, plus id itself.
func (s *Scope) Path(id string) string {
	var parts []string
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.ID != "" {
			parts = append([]string{cur.ID}, parts...)
		}
	}
	parts = append(parts, id)
	return strings.Join(parts, ".")
}

// Root walks up the parent chain and returns the outermost Scope.
func (s *Scope) Root() *Scope {
	cur := s
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}
