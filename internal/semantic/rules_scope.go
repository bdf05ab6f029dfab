package semantic

import (
	"strconv"

	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/symbols"
	"github.com/schwa-lang/schwa/internal/types"
)

// registerScopeRules wires every scope-construction rule from spec §4.2
// into the registry, keyed by the AST kind each applies to.
func registerScopeRules(r *registry) {
	r.addScope(ast.Program, blockScopeRule)
	r.addScope(ast.Block, blockScopeRule)
	r.addScope(ast.StructDef, structDefScopeRule)
	r.addScope(ast.FunctionDef, functionDefScopeRule)
	r.addScope(ast.VariableDef, variableDefScopeRule)
	r.addScope(ast.Access, accessScopeRule)
	r.addScope(ast.Const, constScopeRule)
	r.addScope(ast.Export, exportScopeRule)
}

// blockScopeRule backs both Program and Block: each creates a fresh
// anonymous child scope of its parent.
func blockScopeRule(a *Analyzer, n *ast.Node, parentScope *symbols.Scope) *symbols.Scope {
	return symbols.New("", parentScope, n)
}

// structDefScopeRule creates a named scope for the struct, gathers its
// field VariableDefs, and inserts a Struct record into the parent scope.
// A duplicate struct id is diagnosed and the struct is not inserted, but
// the (isolated) scope is still returned so its fields remain internally
// consistent.
func structDefScopeRule(a *Analyzer, n *ast.Node, parentScope *symbols.Scope) *symbols.Scope {
	id := n.Token.Value
	scope := symbols.New(id, parentScope, n)

	fields := gatherFieldVariables(a, n.Child(0), scope)

	if _, dup := parentScope.LocalStruct(id); dup {
		a.errorf(n, "struct %q is already declared in this scope", id)
		return scope
	}

	parentScope.AddStruct(&symbols.Struct{ID: id, Fields: fields, Scope: scope, Node: n})
	parentScope.AddScope(scope)
	return scope
}

// gatherFieldVariables walks a Fields (or Parameters) node's VariableDef
// children and turns each into a Variable record living in scope, in
// declaration order.
func gatherFieldVariables(a *Analyzer, list *ast.Node, scope *symbols.Scope) []*symbols.Variable {
	if list == nil {
		return nil
	}
	var out []*symbols.Variable
	for _, c := range list.Children {
		if c.Kind != ast.VariableDef {
			continue
		}
		typeName := variableDefTypeName(c)
		v := &symbols.Variable{ID: c.Token.Value, Type: typeName, Scope: scope, Node: c}
		out = append(out, v)
	}
	return out
}

// functionDefScopeRule creates the function's own named scope and inserts
// a Function record (return type and parameter list read off the
// FunctionDef's children) into the parent scope. It does not itself
// insert the parameters as Variables — each parameter is a VariableDef
// child of Parameters, and the ordinary scope-pass recursion visits it
// and registers it in scope via variableDefScopeRule once getScope
// descends into this function's scope; duplicating that insertion here
// would raise a spurious redeclaration diagnostic the second time the
// pass driver reaches the same node.
func functionDefScopeRule(a *Analyzer, n *ast.Node, parentScope *symbols.Scope) *symbols.Scope {
	id := n.Token.Value
	scope := symbols.New(id, parentScope, n)

	paramsNode := n.Child(1)
	params := gatherFieldVariables(a, paramsNode, scope)

	retType := variableDefTypeName(n)

	if _, dup := parentScope.LocalFunction(id); dup {
		a.errorf(n, "function %q is already declared in this scope", id)
		return scope
	}

	parentScope.AddFunction(&symbols.Function{
		ID: id, ReturnType: retType, Params: params, Scope: scope, Node: n,
	})
	parentScope.AddScope(scope)
	return scope
}

// variableDefTypeName reads the declared type name off a VariableDef or
// FunctionDef's first child, a Type node whose token carries the type
// keyword or struct-name text (spec §4.5: "the type-annotation token
// value"). It never consults the Type child's dataType, which is always
// the meta-type "type".
func variableDefTypeName(n *ast.Node) string {
	tn := n.Child(0)
	if tn == nil {
		return types.Void
	}
	if name, ok := types.FromKeyword(tn.Token.Kind); ok {
		return name
	}
	return tn.Token.Value
}

// variableDefScopeRule creates a Variable in the parent scope (VariableDef
// never creates its own scope) and walks the node's ancestors to apply the
// global/mapped modifier flags (spec §4.2).
func variableDefScopeRule(a *Analyzer, n *ast.Node, parentScope *symbols.Scope) *symbols.Scope {
	id := n.Token.Value

	if _, dup := parentScope.LocalVariable(id); dup {
		a.errorf(n, "variable %q is already declared in this scope", id)
		return nil
	}

	v := &symbols.Variable{ID: id, Type: variableDefTypeName(n), Scope: parentScope, Node: n}

	if n.HasAncestor(ast.Global) {
		v.Global = true
	}
	if mapNode := n.Ancestor(ast.Map); mapNode != nil {
		v.Global = true
		v.Mapped = true
		if lit := mapNode.Child(1); lit != nil && lit.Kind == ast.Literal {
			if offset, err := strconv.Atoi(lit.Token.Value); err == nil {
				v.Offset = offset
			}
		}
	}

	parentScope.AddVariable(v)
	// VariableDef never introduces a new scope; nil means "default to
	// parentScope" in the pass driver.
	return nil
}

// accessScopeRule resolves the "object" side of a member-access node as
// either a nested named scope (module/builtin path component) or a
// struct-typed variable (materializing its per-instance field scope on
// first use), and points the member identifier's scope at whichever it
// finds (spec §4.2, §4.3).
func accessScopeRule(a *Analyzer, n *ast.Node, parentScope *symbols.Scope) *symbols.Scope {
	base := n.Child(0)
	member := n.Child(1)
	if base == nil || member == nil {
		return parentScope
	}

	name, searchScope := accessBaseIdentifier(a, base, parentScope)
	if searchScope == nil {
		a.errorf(n, "cannot resolve %q", name)
		member.Scope = parentScope
		return parentScope
	}

	if nested := searchScope.GetScope(name); nested != nil {
		member.Scope = nested
		return nested
	}

	if v := searchScope.GetVariable(name); v != nil {
		if !types.IsPrimitive(v.Type) {
			if fieldScope := a.makeStructScope(v, searchScope); fieldScope != nil {
				member.Scope = fieldScope
				return fieldScope
			}
		}
	}

	a.errorf(n, "cannot resolve %q", name)
	member.Scope = parentScope
	return parentScope
}

// accessBaseIdentifier returns the identifier text to look up plus the
// scope to look it up in, for the "object" side of an Access node. A plain
// identifier is looked up in parentScope; a nested Access (a chain like
// x.y.z) is resolved first so that its own member identifier and
// resulting scope become the basis for the next lookup.
func accessBaseIdentifier(a *Analyzer, base *ast.Node, parentScope *symbols.Scope) (string, *symbols.Scope) {
	if base.Kind == ast.Access {
		a.getScope(base) // force resolution of the nested chain first
		innerMember := base.Child(1)
		if innerMember == nil {
			return "", nil
		}
		return innerMember.Token.Value, innerMember.Scope
	}
	return base.Token.Value, parentScope
}

// constScopeRule descends the leftmost-child chain to the declaration the
// const modifier applies to and flips that symbol's Const flag.
func constScopeRule(a *Analyzer, n *ast.Node, parentScope *symbols.Scope) *symbols.Scope {
	decl := descendToDeclaration(a, n.Child(0))
	if decl == nil || decl.Kind != ast.VariableDef {
		return parentScope
	}
	a.getScope(decl)
	if v, ok := decl.Scope.LocalVariable(decl.Token.Value); ok {
		v.Const = true
	}
	return parentScope
}

// exportScopeRule descends the leftmost-child chain to the declaration the
// export modifier applies to and flips whichever symbol kind (Variable,
// Function, or Struct) currently bears that id in scope.
func exportScopeRule(a *Analyzer, n *ast.Node, parentScope *symbols.Scope) *symbols.Scope {
	decl := descendToDeclaration(a, n.Child(0))
	if decl == nil {
		return parentScope
	}
	a.getScope(decl)
	id := decl.Token.Value
	switch decl.Kind {
	case ast.VariableDef:
		if v, ok := parentScope.LocalVariable(id); ok {
			v.Export = true
		}
	case ast.FunctionDef:
		if f, ok := parentScope.LocalFunction(id); ok {
			f.Export = true
		}
	case ast.StructDef:
		if st, ok := parentScope.LocalStruct(id); ok {
			st.Export = true
		}
	}
	return parentScope
}

// descendToDeclaration walks Child(0) repeatedly until it reaches a
// VariableDef, FunctionDef, or StructDef node (or runs out of children).
func descendToDeclaration(a *Analyzer, n *ast.Node) *ast.Node {
	for n != nil {
		switch n.Kind {
		case ast.VariableDef, ast.FunctionDef, ast.StructDef:
			return n
		}
		n = n.Child(0)
	}
	return nil
}
