package semantic

import (
	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/diag"
	"github.com/schwa-lang/schwa/internal/symbols"
	"github.com/schwa-lang/schwa/internal/types"
)

// producer is the diagnostics adapter tag this package emits under (spec
// §6, "producer tag (Analyzer)").
const producer = "Analyzer"

// maxStructDepth bounds recursive struct-size computation so a
// self-referential struct definition cannot hang the analyzer (spec §3
// invariant 7, §4.4).
const maxStructDepth = 16

// Analyzer holds all state for a single Analyze invocation: the root
// scope, the accumulated diagnostics, and the rule registries. It is not
// safe to reuse across concurrent Analyze calls or to share an AST between
// two Analyzer instances (spec §5).
type Analyzer struct {
	root *symbols.Scope
	log  *diag.Logger
	reg  *registry

	structScopes map[*symbols.Variable]*symbols.Scope
}

// Analyze runs the four fixed passes (hoist, scope, type, analysis) over
// the given validated AST root and returns the diagnostic log. The AST is
// decorated in place — including root.Scope itself, which downstream
// stages such as codegen use as the lookup root for top-level functions,
// globals, and structs (it delegates up to the builtin catalog's scope
// automatically, since builtins live in this scope's parent). Analyze
// produces no new tree.
func Analyze(root *ast.Node) *diag.Logger {
	a := &Analyzer{
		root:         symbols.New("", nil, nil),
		log:          diag.NewLogger(),
		reg:          newRegistry(),
		structScopes: make(map[*symbols.Variable]*symbols.Scope),
	}
	registerScopeRules(a.reg)
	registerTypeRules(a.reg)
	registerAnalysisRules(a.reg)
	a.injectBuiltins()

	a.hoistPass(root)
	a.scopePass(root)
	a.typePass(root)
	a.analysisPass(root)

	return a.log
}

// span builds a diag.Span from a node's token.
func span(n *ast.Node) diag.Span {
	pos := n.Pos()
	length := len(n.Token.Value)
	if length == 0 {
		length = 1
	}
	return diag.Span{Line: pos.Line, Column: pos.Column, Length: length}
}

func (a *Analyzer) errorf(n *ast.Node, format string, args ...any) {
	a.log.Errorf(producer, span(n), format, args...)
}

func (a *Analyzer) warnf(n *ast.Node, format string, args ...any) {
	a.log.Warnf(producer, span(n), format, args...)
}

// ---------------------------------------------------------------------------
// Pass 1 — hoist
// ---------------------------------------------------------------------------

// hoistPass walks the whole tree once before the general scope pass, and
// for every StructDef it finds, forces getScope on it immediately. This
// realizes every struct type (and inserts it into its enclosing scope)
// before any expression elsewhere in the file gets a chance to reference
// it, so structs may be used before their textual point of declaration
// (spec §4.1 "Hoist pass").
func (a *Analyzer) hoistPass(n *ast.Node) {
	if n.Kind == ast.StructDef {
		a.getScope(n)
	}
	for _, c := range n.Children {
		a.hoistPass(c)
	}
}

// ---------------------------------------------------------------------------
// Pass 2 — scope
// ---------------------------------------------------------------------------

func (a *Analyzer) scopePass(n *ast.Node) {
	a.getScope(n)
	for _, c := range n.Children {
		a.scopePass(c)
	}
}

// getScope returns the Scope n inhabits, computing and memoizing it on
// first call (spec §4.1: "if the node already has a scope, return it;
// else compute parent's scope, apply each scope rule in registration
// order, and finally default to the parent scope if no rule produced
// one"). Because it is memoizing, a rule may call getScope on any other
// node — an ancestor it needs the ambient scope of, or a descendant whose
// declaration it needs realized early (spec §9, "this is ordered").
func (a *Analyzer) getScope(n *ast.Node) *symbols.Scope {
	if n.Scope != nil {
		return n.Scope
	}

	var parentScope *symbols.Scope
	if n.Parent != nil {
		parentScope = a.getScope(n.Parent)
	} else {
		parentScope = a.root
	}
	// Computing the parent's scope can already have run a rule that
	// realized this node (an Export/Const rule descending to its
	// declaration).
	if n.Scope != nil {
		return n.Scope
	}
	// Provisionally memoize the ambient scope so a rule that calls back
	// into getScope for this node or one of its descendants terminates.
	n.Scope = parentScope

	var result *symbols.Scope
	for _, rule := range a.reg.scopeRules[n.Kind] {
		if s := rule(a, n, parentScope); s != nil {
			result = s
			break
		}
	}
	if result == nil {
		result = parentScope
	}
	n.Scope = result
	return result
}

// ---------------------------------------------------------------------------
// Pass 3 — type
// ---------------------------------------------------------------------------

func (a *Analyzer) typePass(n *ast.Node) {
	a.getDataType(n)
	for _, c := range n.Children {
		a.typePass(c)
	}
}

// getDataType returns n's data type, computing and memoizing it on first
// call (spec §4.1: "for non-invalid nodes with no type yet, applies type
// rules in registration order, each rule free to return null (skip) or a
// type string (commit). If all rules decline, dataType defaults to void").
//
// A node the validator marked invalid short-circuits straight to the
// invalid poison type without running any rule (spec invariant 6).
func (a *Analyzer) getDataType(n *ast.Node) string {
	if n.DataType != "" {
		return n.DataType
	}
	if !n.Valid {
		n.DataType = types.Invalid
		return n.DataType
	}

	for _, rule := range a.reg.typeRules[n.Kind] {
		if t, ok := rule(a, n); ok {
			n.DataType = t
			return t
		}
	}

	n.DataType = types.Void
	return n.DataType
}

// ---------------------------------------------------------------------------
// Pass 4 — analysis
// ---------------------------------------------------------------------------

func (a *Analyzer) analysisPass(n *ast.Node) {
	for _, rule := range a.reg.analysisRules[n.Kind] {
		rule(a, n)
	}
	for _, c := range n.Children {
		a.analysisPass(c)
	}
}
