package semantic

import "github.com/schwa-lang/schwa/internal/ast"

// registerAnalysisRules wires the pure side-effecting checks that don't
// fit the scope/type contracts — currently just missing-return detection,
// one of the warning-level checks spec §7 reserves for "future alignment
// checks, missing returns, etc." (§4.1 analysis rules are diagnostics-only
// and never mutate scope/dataType).
func registerAnalysisRules(r *registry) {
	r.addAnalysis(ast.FunctionDef, missingReturnRule)
}

// missingReturnRule warns when a non-void function's body does not end in
// a value-carrying Return statement. The source language has no control-flow
// constructs (no If/While/For AST kinds), so a function body is a flat
// statement list and "returns on all paths" reduces to "ends in a return".
func missingReturnRule(a *Analyzer, n *ast.Node) {
	retType := variableDefTypeName(n)
	if retType == "void" {
		return
	}
	body := n.Child(2)
	if body == nil || len(body.Children) == 0 {
		a.warnf(n, "function %q does not return a value on all paths", n.Token.Value)
		return
	}
	last := body.Children[len(body.Children)-1]
	if last.Kind != ast.Return {
		a.warnf(n, "function %q does not return a value on all paths", n.Token.Value)
	}
}
