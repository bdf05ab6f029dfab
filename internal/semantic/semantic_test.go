package semantic_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/diag"
	"github.com/schwa-lang/schwa/internal/lexer"
	"github.com/schwa-lang/schwa/internal/parser"
	"github.com/schwa-lang/schwa/internal/semantic"
	"github.com/schwa-lang/schwa/internal/validator"
)

// analyze runs lex -> parse -> validate -> analyze, failing the test if any
// stage before the analyzer reports a problem, and returns the annotated
// root plus the analyzer's own diagnostic log.
func analyze(t *testing.T, src string) (*ast.Node, *diag.Logger) {
	t.Helper()
	toks, lexErrs := lexer.Lex(src)
	require.Empty(t, lexErrs)

	root, parseErrs := parser.Parse(toks)
	require.Empty(t, parseErrs)

	vlog := validator.Validate(root)
	require.False(t, vlog.HasErrors(), "%v", vlog.Entries())

	log := semantic.Analyze(root)
	return root, log
}

func messages(log *diag.Logger) []string {
	var out []string
	for _, d := range log.Entries() {
		out = append(out, d.Message)
	}
	return out
}

func containsSubstring(msgs []string, sub string) bool {
	for _, m := range msgs {
		if strings.Contains(m, sub) {
			return true
		}
	}
	return false
}

func TestEveryNodeIsAnnotated(t *testing.T) {
	root, log := analyze(t, "export int add(int a, int b)\n    return a + b\n")
	assert.False(t, log.HasErrors(), "%v", log.Entries())

	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		assert.NotNil(t, n.Scope, "node %s has no scope", n.Kind)
		assert.NotEmpty(t, n.DataType, "node %s has no data type", n.Kind)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
}

func TestUndefinedVariableProducesError(t *testing.T) {
	_, log := analyze(t, "export int broken()\n    return missing\n")
	assert.True(t, log.HasErrors())
	assert.True(t, containsSubstring(messages(log), `undefined variable "missing"`))
}

func TestUndefinedFunctionProducesError(t *testing.T) {
	_, log := analyze(t, "export void broken()\n    ghost()\n")
	assert.True(t, log.HasErrors())
	assert.True(t, containsSubstring(messages(log), `undefined function "ghost"`))
}

func TestDuplicateVariableInSameScopeIsAnError(t *testing.T) {
	src := "" +
		"export void broken()\n" +
		"    int x\n" +
		"    int x\n"
	_, log := analyze(t, src)
	assert.True(t, log.HasErrors())
	assert.True(t, containsSubstring(messages(log), `already declared`))
}

func TestVariableAndFunctionMayShareAName(t *testing.T) {
	// Per-map uniqueness: the variable map and the function map are
	// independent, so a variable and a function may share an id in the
	// same scope.
	src := "" +
		"int counter = 0\n" +
		"export void counter()\n" +
		"    counter = 1\n"
	_, log := analyze(t, src)
	assert.False(t, log.HasErrors(), "%v", log.Entries())
}

func TestStructMayBeUsedBeforeItsDeclaration(t *testing.T) {
	src := "" +
		"map Point origin 0\n" +
		"struct Point\n" +
		"    int x\n" +
		"    int y\n"
	_, log := analyze(t, src)
	assert.False(t, log.HasErrors(), "%v", log.Entries())
}

func TestDuplicateStructIsAnError(t *testing.T) {
	src := "" +
		"struct Point\n" +
		"    int x\n" +
		"struct Point\n" +
		"    int y\n"
	_, log := analyze(t, src)
	assert.True(t, log.HasErrors())
	assert.True(t, containsSubstring(messages(log), `already declared`))
}

func TestStructFieldAccessResolvesType(t *testing.T) {
	src := "" +
		"struct Point\n" +
		"    int x\n" +
		"    int y\n" +
		"map Point origin 0\n" +
		"export int getX()\n" +
		"    return origin.x\n"
	_, log := analyze(t, src)
	assert.False(t, log.HasErrors(), "%v", log.Entries())
}

func TestAssignmentTypeMismatchIsAnError(t *testing.T) {
	src := "" +
		"export void broken()\n" +
		"    int x\n" +
		"    float y\n" +
		"    x = y\n"
	_, log := analyze(t, src)
	assert.True(t, log.HasErrors())
	assert.True(t, containsSubstring(messages(log), "same type"))
}

func TestConstGlobalCannotBeAssigned(t *testing.T) {
	src := "" +
		"const int x = 1\n" +
		"export void broken()\n" +
		"    x = 2\n"
	_, log := analyze(t, src)
	assert.True(t, log.HasErrors())
	assert.True(t, containsSubstring(messages(log), "Constant globals cannot be assigned"))
}

func TestAsCastBetweenSignAndFloatIsAllowed(t *testing.T) {
	src := "export float toFloat(int x)\n    return x as float\n"
	_, log := analyze(t, src)
	assert.False(t, log.HasErrors(), "%v", log.Entries())
}

func TestAsCastToBoolIsRejected(t *testing.T) {
	src := "export bool toBool(int x)\n    return x as bool\n"
	_, log := analyze(t, src)
	assert.True(t, log.HasErrors())
}

func TestToCastReinterpretsBits(t *testing.T) {
	src := "export float bits(int x)\n    return x to float\n"
	_, log := analyze(t, src)
	assert.False(t, log.HasErrors(), "%v", log.Entries())
}

func TestSameWidthSignChangeIsRedundantUnderTo(t *testing.T) {
	// int<->uint is covered by `as`, not `to` — toTable excludes it as
	// redundant.
	src := "export uint broken(int x)\n    return x to uint\n"
	_, log := analyze(t, src)
	assert.True(t, log.HasErrors())
}

func TestFunctionCallArgCountMismatch(t *testing.T) {
	src := "" +
		"int add(int a, int b)\n" +
		"    return a + b\n" +
		"export int broken()\n" +
		"    return add(1)\n"
	_, log := analyze(t, src)
	assert.True(t, log.HasErrors())
	assert.True(t, containsSubstring(messages(log), "takes 2 arguments"))
}

func TestFunctionCallArgTypeMismatch(t *testing.T) {
	src := "" +
		"int add(int a, int b)\n" +
		"    return a + b\n" +
		"export int broken(float f)\n" +
		"    return add(f, 1)\n"
	_, log := analyze(t, src)
	assert.True(t, log.HasErrors())
}

func TestBuiltinLoadIsVisibleFromEveryScope(t *testing.T) {
	src := "export int peek(uint addr)\n    return int.load(addr)\n"
	_, log := analyze(t, src)
	assert.False(t, log.HasErrors(), "%v", log.Entries())
}

func TestMissingReturnProducesWarningNotError(t *testing.T) {
	src := "export int broken()\n    int x\n"
	_, log := analyze(t, src)
	assert.False(t, log.HasErrors())
	found := false
	for _, d := range log.Entries() {
		if d.Severity == diag.Warning {
			found = true
		}
	}
	assert.True(t, found)
}

func TestReturnTypeMismatchIsAnError(t *testing.T) {
	src := "export int broken()\n    return 1.0\n"
	_, log := analyze(t, src)
	assert.True(t, log.HasErrors())
}

func TestVoidFunctionCannotReturnAValue(t *testing.T) {
	src := "export void broken()\n    return 1\n"
	_, log := analyze(t, src)
	assert.True(t, log.HasErrors())
}

func TestReanalyzingTheSameTreeIsIdempotent(t *testing.T) {
	root, log1 := analyze(t, "export int add(int a, int b)\n    return a + b\n")
	require.False(t, log1.HasErrors())

	log2 := semantic.Analyze(root)
	assert.False(t, log2.HasErrors(), "%v", log2.Entries())
}

func TestNestedStructMemberChainResolves(t *testing.T) {
	// A three-level struct chain (C holds B holds A) accessed through a
	// mapped instance: each member access resolves against the field
	// scope of the struct before it. The nesting stays far below
	// maxStructDepth, so the depth guard itself is not reached here.
	src := "" +
		"struct A\n" +
		"    int v\n" +
		"struct B\n" +
		"    A a\n" +
		"struct C\n" +
		"    B b\n" +
		"map C top 0\n" +
		"export int read()\n" +
		"    return top.b.a.v\n"
	_, log := analyze(t, src)
	assert.False(t, log.HasErrors(), "%v", log.Entries())
}
