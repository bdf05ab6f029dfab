package semantic

import (
	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/symbols"
	"github.com/schwa-lang/schwa/internal/token"
	"github.com/schwa-lang/schwa/internal/types"
)

// registerTypeRules wires every type-inference rule from spec §4.5 into
// the registry, keyed by the AST kind each applies to.
func registerTypeRules(r *registry) {
	r.addType(ast.VariableID, variableIDTypeRule)
	r.addType(ast.FunctionID, functionIDTypeRule)
	r.addType(ast.StructID, structIDTypeRule)
	r.addType(ast.Access, accessTypeRule)
	r.addType(ast.Type, typeTokenTypeRule)
	r.addType(ast.VariableDef, variableDefTypeRule)
	r.addType(ast.FunctionDef, functionDefTypeRule)
	r.addType(ast.StructDef, structDefTypeRule)
	r.addType(ast.Literal, literalTypeRule)
	r.addType(ast.UnaryOp, unaryOpTypeRule)
	r.addType(ast.BinaryOp, castTypeRule)
	r.addType(ast.BinaryOp, binaryOpTypeRule)
	r.addType(ast.Assignment, assignmentTypeRule)
	r.addType(ast.Global, globalTypeRule)
	r.addType(ast.FunctionCall, functionCallTypeRule)
	r.addType(ast.Return, returnTypeRule)
	r.addType(ast.ReturnVoid, returnVoidTypeRule)
}

// --- name-resolution rules -------------------------------------------------

func variableIDTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	id := n.Token.Value
	v := n.Scope.GetVariable(id)
	if v == nil {
		// The base of a builtin dotted call (`int` in `int.load`) names a
		// type's builtin scope, not a variable, and carries no value.
		if p := n.Parent; p != nil && p.Kind == ast.Access && p.Child(0) == n && n.Scope.GetScope(id) != nil {
			return types.Void, true
		}
		a.errorf(n, "undefined variable %q", id)
		return types.Invalid, true
	}
	return v.Type, true
}

func functionIDTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	id := n.Token.Value
	f := n.Scope.GetFunction(id)
	if f == nil {
		a.errorf(n, "undefined function %q", id)
		return types.Invalid, true
	}
	return f.ReturnType, true
}

func structIDTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	id := n.Token.Value
	st := n.Scope.GetStruct(id)
	if st == nil {
		a.errorf(n, "undefined struct %q", id)
		return types.Invalid, true
	}
	return st.ID, true
}

// accessTypeRule follows the innermost member identifier of a (possibly
// chained) Access node and adopts its data type (spec §4.5 "recursively
// finds the innermost identifier").
func accessTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	member := n.Child(1)
	if member == nil {
		return types.Invalid, true
	}
	for member.Kind == ast.Access {
		inner := member.Child(1)
		if inner == nil {
			return types.Invalid, true
		}
		member = inner
	}
	return a.getDataType(member), true
}

func typeTokenTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	return types.Meta, true
}

func variableDefTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	return variableDefTypeName(n), true
}

func functionDefTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	return variableDefTypeName(n), true
}

func structDefTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	return n.Token.Value, true
}

func literalTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	if t, ok := types.FromTokenKind(n.Token.Kind); ok {
		return t, true
	}
	a.errorf(n, "unrecognized literal %q", n.Token.Value)
	return types.Invalid, true
}

// --- unary operator table --------------------------------------------------

func unaryOpTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	operand := n.Child(0)
	if operand == nil {
		return types.Invalid, true
	}
	t := a.getDataType(operand)
	if t == types.Invalid {
		return types.Invalid, true
	}

	var ok bool
	switch n.Token.Kind {
	case token.MINUS:
		ok = types.IsSignedArithmetic(t)
	case token.TILDE:
		ok = types.IsFixedWidthInteger(t)
	case token.BANG:
		ok = t == types.Bool
	default:
		return "", false
	}
	if ok {
		return t, true
	}
	a.errorf(n, "invalid argument type %q for unary operator %q", t, n.Token.Value)
	return types.Invalid, true
}

// --- binary operator tables -------------------------------------------------

type binaryRow struct{ left, right, result string }

func uniformNumericRows(result func(t string) string, ts []string) []binaryRow {
	rows := make([]binaryRow, 0, len(ts))
	for _, t := range ts {
		rows = append(rows, binaryRow{t, t, result(t)})
	}
	return rows
}

func sameType(t string) string { return t }

var arithmeticRows = uniformNumericRows(sameType, numericTypes)
var bitwiseRows = uniformNumericRows(sameType, integerTypes)
var equalityRows = append(
	uniformNumericRows(func(string) string { return types.Bool }, numericTypes),
	binaryRow{types.Bool, types.Bool, types.Bool},
)
var relationalRows = uniformNumericRows(func(string) string { return types.Bool }, numericTypes)
var logicalRows = []binaryRow{{types.Bool, types.Bool, types.Bool}}

// binaryOpTable maps each non-cast binary operator token to its type-set
// table (spec §4.5 operator-rules table).
var binaryOpTable = map[token.Kind][]binaryRow{
	token.PLUS:  arithmeticRows,
	token.MINUS: arithmeticRows,
	token.STAR:  arithmeticRows,
	token.SLASH: arithmeticRows,

	token.PERCENT: bitwiseRows,
	token.AMP:     bitwiseRows,
	token.PIPE:    bitwiseRows,
	token.CARET:   bitwiseRows,
	token.SHL:     bitwiseRows,
	token.SHR:     bitwiseRows,
	token.ROTL:    bitwiseRows,
	token.ROTR:    bitwiseRows,

	token.EQ:  equalityRows,
	token.NEQ: equalityRows,

	token.LT:  relationalRows,
	token.LTE: relationalRows,
	token.GT:  relationalRows,
	token.GTE: relationalRows,

	token.AND: logicalRows,
	token.OR:  logicalRows,
}

// binaryOpTypeRule declines (returns false) for the two cast operators,
// which castTypeRule — registered ahead of it — already commits a type
// for, satisfying the "return dataType unchanged if already set" contract
// via getDataType's own memoization (spec §4.1).
func binaryOpTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	rows, ok := binaryOpTable[n.Token.Kind]
	if !ok {
		return "", false
	}

	left, right := n.Child(0), n.Child(1)
	if left == nil || right == nil {
		return types.Invalid, true
	}
	lt, rt := a.getDataType(left), a.getDataType(right)
	if lt == types.Invalid || rt == types.Invalid {
		return types.Invalid, true
	}

	for _, row := range rows {
		if row.left == lt && row.right == rt {
			return row.result, true
		}
	}
	a.errorf(n, "invalid argument types %q, %q for operator %q", lt, rt, n.Token.Value)
	return types.Invalid, true
}

// --- casts ------------------------------------------------------------------

type typePair struct{ from, to string }

// asTable is the closed set of value-preserving `as` cast pairs (spec
// §4.5).
var asTable = map[typePair]bool{
	{types.Int, types.Uint}: true, {types.Uint, types.Int}: true,
	{types.Int, types.Float}: true, {types.Float, types.Int}: true,
	{types.Uint, types.Float}: true, {types.Float, types.Uint}: true,
	{types.Long, types.Ulong}: true, {types.Ulong, types.Long}: true,
	{types.Long, types.Double}: true, {types.Double, types.Long}: true,
	{types.Ulong, types.Double}: true, {types.Double, types.Ulong}: true,
}

// toTable is the closed set of bit-reinterpret `to` cast pairs: every
// cross-pair of numeric types, excluding same-width signed/unsigned pairs
// already covered by `as` (spec §4.5 "every cross-pair except
// within-category redundant ones").
var toTable = buildToTable()

func buildToTable() map[typePair]bool {
	redundant := map[typePair]bool{
		{types.Int, types.Uint}: true, {types.Uint, types.Int}: true,
		{types.Long, types.Ulong}: true, {types.Ulong, types.Long}: true,
	}
	table := map[typePair]bool{}
	for _, from := range numericTypes {
		for _, to := range numericTypes {
			if from == to || redundant[typePair{from, to}] {
				continue
			}
			table[typePair{from, to}] = true
		}
	}
	return table
}

// castTypeRule handles the `as` and `to` binary operators, whose right
// child is a Type node rather than an expression. It declines for every
// other BinaryOp token kind so binaryOpTypeRule gets a turn.
func castTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	if n.Token.Kind != token.KwAs && n.Token.Kind != token.KwTo {
		return "", false
	}

	left, right := n.Child(0), n.Child(1)
	if left == nil || right == nil || right.Kind != ast.Type {
		a.errorf(n, "invalid cast operand")
		return types.Invalid, true
	}

	fromType := a.getDataType(left)
	toType := variableDefTypeNameOfType(right)
	if fromType == types.Invalid {
		return types.Invalid, true
	}
	if toType == types.Bool {
		a.errorf(n, "invalid argument type %q for operator %q", toType, n.Token.Value)
		return types.Invalid, true
	}

	table := asTable
	if n.Token.Kind == token.KwTo {
		table = toTable
	}
	if table[typePair{fromType, toType}] {
		return toType, true
	}
	a.errorf(n, "invalid argument type %q for operator %q", fromType, n.Token.Value)
	return types.Invalid, true
}

// variableDefTypeNameOfType reads the type name a Type node names, off its
// own token, the same way variableDefTypeName does for a VariableDef.
func variableDefTypeNameOfType(tn *ast.Node) string {
	if name, ok := types.FromKeyword(tn.Token.Kind); ok {
		return name
	}
	return tn.Token.Value
}

// --- assignment / global / call / return -----------------------------------

func assignmentTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	target, value := n.Child(0), n.Child(1)
	if target == nil || value == nil {
		return types.Invalid, true
	}

	if v := a.resolveTargetVariable(target); v != nil && v.Const {
		a.errorf(n, "Constant globals cannot be assigned to")
		return types.Invalid, true
	}

	tt, vt := a.getDataType(target), a.getDataType(value)
	if tt == types.Invalid || vt == types.Invalid {
		return types.Invalid, true
	}
	if tt != vt {
		a.errorf(n, "Both sides of an assignment must be of the same type")
		return types.Invalid, true
	}
	return tt, true
}

// globalTypeRule mirrors assignmentTypeRule but skips the const check (the
// declaration itself may be const) and reports mismatches under the
// declaration-specific message (spec §4.5, S6).
func globalTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	target, value := n.Child(0), n.Child(1)
	if target == nil || value == nil {
		return types.Invalid, true
	}
	tt, vt := a.getDataType(target), a.getDataType(value)
	if tt == types.Invalid || vt == types.Invalid || tt != vt {
		a.errorf(n, "Invalid right-hand side of assignment")
		return types.Invalid, true
	}
	return tt, true
}

// resolveTargetVariable finds the Variable an assignment target names,
// whether it's a plain identifier or the innermost member of an Access
// chain. Both scope and dataType are computed before assignmentTypeRule
// runs (the scope pass runs to completion before the type pass starts),
// so n.Scope is always populated here.
func (a *Analyzer) resolveTargetVariable(target *ast.Node) *symbols.Variable {
	ident := target
	for ident.Kind == ast.Access {
		member := ident.Child(1)
		if member == nil {
			return nil
		}
		ident = member
	}
	if ident.Scope == nil {
		return nil
	}
	return ident.Scope.GetVariable(ident.Token.Value)
}

func functionCallTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	callee, args := n.Child(0), n.Child(1)
	if callee == nil {
		return types.Invalid, true
	}

	ident := callee
	for ident.Kind == ast.Access {
		member := ident.Child(1)
		if member == nil {
			a.errorf(n, "cannot resolve function callee")
			return types.Invalid, true
		}
		ident = member
	}
	fnID := ident.Token.Value
	var fn *symbols.Function
	if ident.Scope != nil {
		fn = ident.Scope.GetFunction(fnID)
	}
	if fn == nil {
		a.errorf(n, "undefined function %q", fnID)
		return types.Invalid, true
	}

	var argNodes []*ast.Node
	if args != nil {
		argNodes = args.Children
	}
	if len(argNodes) != len(fn.Params) {
		a.errorf(n, "Function %q takes %d arguments, not %d", fnID, len(fn.Params), len(argNodes))
		return types.Invalid, true
	}

	mismatched := false
	for i, arg := range argNodes {
		at := a.getDataType(arg)
		pt := fn.Params[i].Type
		if at != pt {
			a.errorf(n, "argument %d (%q) of function %q expects type %q, got %q",
				i+1, fn.Params[i].ID, fnID, pt, at)
			mismatched = true
		}
	}
	if mismatched {
		return types.Invalid, true
	}
	return fn.ReturnType, true
}

func returnTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	child := n.Child(0)
	if child == nil {
		return types.Invalid, true
	}
	t := a.getDataType(child)

	fn := n.Ancestor(ast.FunctionDef)
	if fn == nil {
		a.errorf(n, "return statement outside of a function")
		return types.Invalid, true
	}
	retType := variableDefTypeName(fn)
	if t == types.Invalid {
		return types.Invalid, true
	}
	if t != retType || retType == types.Void {
		a.errorf(n, "cannot return value of type %q from function declared to return %q", t, retType)
		return types.Invalid, true
	}
	return t, true
}

func returnVoidTypeRule(a *Analyzer, n *ast.Node) (string, bool) {
	fn := n.Ancestor(ast.FunctionDef)
	if fn == nil {
		a.errorf(n, "return statement outside of a function")
		return types.Invalid, true
	}
	if variableDefTypeName(fn) != types.Void {
		a.errorf(n, "function %q must return a value", fn.Token.Value)
		return types.Invalid, true
	}
	return types.Void, true
}
