package semantic

import (
	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/symbols"
)

// ScopeRule computes the Scope a node inhabits, given the scope its parent
// already inhabits. It may create and register a new child scope in
// parentScope, or return nil to decline (letting a later rule, or the
// pass driver's parent-scope default, apply).
type ScopeRule func(a *Analyzer, n *ast.Node, parentScope *symbols.Scope) *symbols.Scope

// TypeRule computes a node's data type. It returns ("", false) to decline,
// letting the next registered rule for the same Kind try.
type TypeRule func(a *Analyzer, n *ast.Node) (string, bool)

// AnalysisRule performs a pure side-effecting check (diagnostics only).
type AnalysisRule func(a *Analyzer, n *ast.Node)

// registry holds the three per-Kind rule lists (spec §4.1). Registration
// order is evaluation order.
type registry struct {
	scopeRules    map[ast.Kind][]ScopeRule
	typeRules     map[ast.Kind][]TypeRule
	analysisRules map[ast.Kind][]AnalysisRule
}

func newRegistry() *registry {
	return &registry{
		scopeRules:    make(map[ast.Kind][]ScopeRule),
		typeRules:     make(map[ast.Kind][]TypeRule),
		analysisRules: make(map[ast.Kind][]AnalysisRule),
	}
}

func (r *registry) addScope(k ast.Kind, rule ScopeRule) {
	r.scopeRules[k] = append(r.scopeRules[k], rule)
}

func (r *registry) addType(k ast.Kind, rule TypeRule) {
	r.typeRules[k] = append(r.typeRules[k], rule)
}

func (r *registry) addAnalysis(k ast.Kind, rule AnalysisRule) {
	r.analysisRules[k] = append(r.analysisRules[k], rule)
}
