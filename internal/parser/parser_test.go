package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/lexer"
	"github.com/schwa-lang/schwa/internal/parser"
	"github.com/schwa-lang/schwa/internal/token"
)

func parse(t *testing.T, src string) (*ast.Node, []parser.ParseError) {
	t.Helper()
	toks, lexErrs := lexer.Lex(src)
	require.Empty(t, lexErrs)
	return parser.Parse(toks)
}

func TestParseFunctionDef(t *testing.T) {
	root, errs := parse(t, "export int add(int a, int b)\n    return a + b\n")
	require.Empty(t, errs)
	require.Len(t, root.Children, 1)

	exportNode := root.Children[0]
	assert.Equal(t, ast.Export, exportNode.Kind)

	fn := exportNode.Child(0)
	require.NotNil(t, fn)
	assert.Equal(t, ast.FunctionDef, fn.Kind)
	assert.Equal(t, "add", fn.Token.Value)

	params := fn.Child(1)
	require.NotNil(t, params)
	assert.Equal(t, ast.Parameters, params.Kind)
	assert.Len(t, params.Children, 2)

	body := fn.Child(2)
	require.NotNil(t, body)
	require.Len(t, body.Children, 1)
	assert.Equal(t, ast.Return, body.Children[0].Kind)
}

func TestParseGlobalDecl(t *testing.T) {
	root, errs := parse(t, "int counter = 0\n")
	require.Empty(t, errs)
	require.Len(t, root.Children, 1)
	assert.Equal(t, ast.Global, root.Children[0].Kind)
}

func TestParseMapDecl(t *testing.T) {
	root, errs := parse(t, "map long buffer 8\n")
	require.Empty(t, errs)
	require.Len(t, root.Children, 1)
	m := root.Children[0]
	assert.Equal(t, ast.Map, m.Kind)
	offset := m.Child(1)
	require.NotNil(t, offset)
	assert.Equal(t, "8", offset.Token.Value)
}

func TestParseStructDef(t *testing.T) {
	src := "struct Point\n    int x\n    int y\n"
	root, errs := parse(t, src)
	require.Empty(t, errs)
	require.Len(t, root.Children, 1)
	st := root.Children[0]
	assert.Equal(t, ast.StructDef, st.Kind)
	assert.Equal(t, "Point", st.Token.Value)
	fields := st.Child(0)
	require.NotNil(t, fields)
	assert.Len(t, fields.Children, 2)
}

func TestConstWrapsGlobalDecl(t *testing.T) {
	root, errs := parse(t, "const int x = 1\n")
	require.Empty(t, errs)
	require.Len(t, root.Children, 1)
	assert.Equal(t, ast.Const, root.Children[0].Kind)
	assert.Equal(t, ast.Global, root.Children[0].Child(0).Kind)
}

func TestExportAndConstMayNest(t *testing.T) {
	root, errs := parse(t, "export const int x = 1\n")
	require.Empty(t, errs)
	require.Len(t, root.Children, 1)
	assert.Equal(t, ast.Export, root.Children[0].Kind)
	assert.Equal(t, ast.Const, root.Children[0].Child(0).Kind)
}

func TestLocalVariableDeclWithInitializerDesugars(t *testing.T) {
	src := "export void f()\n    int x = 5\n"
	root, errs := parse(t, src)
	require.Empty(t, errs)
	fn := root.Children[0].Child(0)
	body := fn.Child(2)
	require.Len(t, body.Children, 2)
	assert.Equal(t, ast.VariableDef, body.Children[0].Kind)
	assign := body.Children[1]
	assert.Equal(t, ast.Assignment, assign.Kind)
	assert.Equal(t, ast.VariableID, assign.Child(0).Kind)
}

func TestLocalVariableDeclWithoutInitializer(t *testing.T) {
	src := "export void f()\n    int x\n"
	root, errs := parse(t, src)
	require.Empty(t, errs)
	fn := root.Children[0].Child(0)
	body := fn.Child(2)
	require.Len(t, body.Children, 1)
	assert.Equal(t, ast.VariableDef, body.Children[0].Kind)
}

func TestBinaryOperatorPrecedence(t *testing.T) {
	// 1 + 2 * 3 should parse as 1 + (2 * 3), i.e. STAR binds tighter and
	// ends up as the deeper child.
	src := "export int f()\n    return 1 + 2 * 3\n"
	root, errs := parse(t, src)
	require.Empty(t, errs)
	fn := root.Children[0].Child(0)
	body := fn.Child(2)
	ret := body.Children[0]
	plus := ret.Child(0)
	require.Equal(t, ast.BinaryOp, plus.Kind)
	assert.Equal(t, "+", plus.Token.Value)
	right := plus.Child(1)
	require.Equal(t, ast.BinaryOp, right.Kind)
	assert.Equal(t, "*", right.Token.Value)
}

func TestCastOperatorTakesTypeOnRight(t *testing.T) {
	src := "export float f(int x)\n    return x as float\n"
	root, errs := parse(t, src)
	require.Empty(t, errs)
	fn := root.Children[0].Child(0)
	body := fn.Child(2)
	ret := body.Children[0]
	cast := ret.Child(0)
	require.Equal(t, ast.BinaryOp, cast.Kind)
	right := cast.Child(1)
	require.NotNil(t, right)
	assert.Equal(t, ast.Type, right.Kind)
}

func TestMemberAccessChain(t *testing.T) {
	src := "export int f()\n    return a.b.c\n"
	root, errs := parse(t, src)
	require.Empty(t, errs)
	fn := root.Children[0].Child(0)
	body := fn.Child(2)
	ret := body.Children[0]
	outer := ret.Child(0)
	assert.Equal(t, ast.Access, outer.Kind)
	inner := outer.Child(0)
	assert.Equal(t, ast.Access, inner.Kind)
}

func TestFunctionCallReinterpretsCalleeAsFunctionID(t *testing.T) {
	src := "export int f()\n    return add(1, 2)\n"
	root, errs := parse(t, src)
	require.Empty(t, errs)
	fn := root.Children[0].Child(0)
	body := fn.Child(2)
	ret := body.Children[0]
	call := ret.Child(0)
	require.Equal(t, ast.FunctionCall, call.Kind)
	callee := call.Child(0)
	assert.Equal(t, ast.FunctionID, callee.Kind)
	args := call.Child(1)
	require.NotNil(t, args)
	assert.Len(t, args.Children, 2)
}

func TestBuiltinDottedCallParsesTypeKeywordAsIdentifier(t *testing.T) {
	src := "export int f(int addr)\n    return int.load(addr)\n"
	root, errs := parse(t, src)
	require.Empty(t, errs)
	fn := root.Children[0].Child(0)
	body := fn.Child(2)
	ret := body.Children[0]
	call := ret.Child(0)
	require.Equal(t, ast.FunctionCall, call.Kind)
	access := call.Child(0)
	require.Equal(t, ast.Access, access.Kind)
	assert.Equal(t, "int", access.Child(0).Token.Value)
	assert.Equal(t, ast.FunctionID, access.Child(1).Kind)
}

func TestReturnVoidHasNoChildExpression(t *testing.T) {
	src := "export void f()\n    return\n"
	root, errs := parse(t, src)
	require.Empty(t, errs)
	fn := root.Children[0].Child(0)
	body := fn.Child(2)
	require.Len(t, body.Children, 1)
	assert.Equal(t, ast.ReturnVoid, body.Children[0].Kind)
	assert.Nil(t, body.Children[0].Child(0))
}

func TestMalformedFunctionDefRecordsErrorAndRecovers(t *testing.T) {
	// A missing closing paren should record an error but still let the
	// parser recover in time to parse a subsequent, well-formed
	// declaration.
	src := "export int broken(int a\n    return a\n" +
		"export int ok()\n    return 1\n"
	root, errs := parse(t, src)
	assert.NotEmpty(t, errs)
	found := false
	for _, decl := range root.Children {
		fn := decl.Child(0)
		if fn != nil && fn.Kind == ast.FunctionDef && fn.Token.Value == "ok" {
			found = true
		}
	}
	assert.True(t, found, "parser did not recover to parse the next declaration")
}

func TestBooleanLiteralsRetagAsBoolToken(t *testing.T) {
	src := "export bool f()\n    return true\n"
	root, errs := parse(t, src)
	require.Empty(t, errs)
	fn := root.Children[0].Child(0)
	body := fn.Child(2)
	ret := body.Children[0]
	lit := ret.Child(0)
	assert.Equal(t, ast.Literal, lit.Kind)
	assert.Equal(t, token.BOOL, lit.Token.Kind)
}
