package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schwa-lang/schwa/internal/format"
	"github.com/schwa-lang/schwa/internal/lexer"
	"github.com/schwa-lang/schwa/internal/parser"
)

func formatSrc(t *testing.T, src string) string {
	t.Helper()
	toks, lexErrs := lexer.Lex(src)
	require.Empty(t, lexErrs)
	root, parseErrs := parser.Parse(toks)
	require.Empty(t, parseErrs)
	return format.Node(root)
}

func TestFormatFunctionDef(t *testing.T) {
	src := "export int add(int a, int b)\n    return a + b\n"
	assert.Equal(t, src, formatSrc(t, src))
}

func TestFormatGlobalDecl(t *testing.T) {
	src := "int counter = 0\n"
	assert.Equal(t, src, formatSrc(t, src))
}

func TestFormatMapDecl(t *testing.T) {
	src := "map long buffer 8\n"
	assert.Equal(t, src, formatSrc(t, src))
}

func TestFormatStructDef(t *testing.T) {
	src := "struct Point\n    int x\n    int y\n"
	assert.Equal(t, src, formatSrc(t, src))
}

func TestFormatConstGlobal(t *testing.T) {
	src := "const int x = 1\n"
	assert.Equal(t, src, formatSrc(t, src))
}

func TestFormatExportedConstNesting(t *testing.T) {
	src := "export const int x = 1\n"
	assert.Equal(t, src, formatSrc(t, src))
}

func TestFormatCastExpression(t *testing.T) {
	src := "export float toFloat(int x)\n    return x as float\n"
	assert.Equal(t, src, formatSrc(t, src))
}

func TestFormatMemberAccessAndAssignment(t *testing.T) {
	src := "" +
		"struct Point\n" +
		"    int x\n" +
		"export void reset()\n" +
		"    origin.x = 0\n"
	assert.Equal(t, src, formatSrc(t, src))
}

func TestFormatFunctionCall(t *testing.T) {
	src := "export int f()\n    return add(1, 2)\n"
	assert.Equal(t, src, formatSrc(t, src))
}

func TestFormatIsIdempotent(t *testing.T) {
	src := "export int add(int a, int b)\n    return a + b\n"
	once := formatSrc(t, src)
	twice := formatSrc(t, once)
	assert.Equal(t, once, twice)
}

func TestFormatVoidReturn(t *testing.T) {
	src := "export void f()\n    return\n"
	assert.Equal(t, src, formatSrc(t, src))
}
