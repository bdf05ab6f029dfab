package codegen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schwa-lang/schwa/internal/codegen"
	"github.com/schwa-lang/schwa/internal/lexer"
	"github.com/schwa-lang/schwa/internal/parser"
	"github.com/schwa-lang/schwa/internal/semantic"
	"github.com/schwa-lang/schwa/internal/validator"
)

// compile runs the full front end (lex, parse, validate, analyze) and
// hands the annotated tree to codegen.Module, failing the test if any
// stage reports a problem.
func compile(t *testing.T, src string) []byte {
	t.Helper()
	toks, lexErrs := lexer.Lex(src)
	require.Empty(t, lexErrs)

	root, parseErrs := parser.Parse(toks)
	require.Empty(t, parseErrs)

	vlog := validator.Validate(root)
	require.False(t, vlog.HasErrors())

	log := semantic.Analyze(root)
	require.False(t, log.HasErrors(), "%v", log.Entries())

	out, err := codegen.Module(root, log, 1)
	require.NoError(t, err)
	return out
}

func TestModuleHeader(t *testing.T) {
	out := compile(t, "export int add(int a, int b)\n    return a + b\n")
	require.True(t, len(out) >= 8)
	assert.Equal(t, []byte{0x00, 0x61, 0x73, 0x6D}, out[0:4])
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x00}, out[4:8])
}

func TestExportedFunctionAppearsInExportSection(t *testing.T) {
	out := compile(t, "export int add(int a, int b)\n    return a + b\n")

	// The export section (id 7) must carry the function's name bytes
	// somewhere in its body.
	assert.Contains(t, string(out), "add")
	assert.Contains(t, string(out), "memory")
}

func TestGlobalAndMappedDeclarationsCompile(t *testing.T) {
	src := "" +
		"int counter = 0\n" +
		"map long buffer 0\n" +
		"export void bump()\n" +
		"    counter = counter + 1\n"
	out := compile(t, src)
	assert.NotEmpty(t, out)
}

func TestStructFieldAssignmentCompiles(t *testing.T) {
	src := "" +
		"struct Point\n" +
		"    int x\n" +
		"    int y\n" +
		"map Point origin 0\n" +
		"export void reset()\n" +
		"    origin.x = 0\n" +
		"    origin.y = 0\n"
	out := compile(t, src)
	assert.NotEmpty(t, out)
}

func TestBuiltinLoadStoreCompiles(t *testing.T) {
	src := "" +
		"export int peek(uint addr)\n" +
		"    return int.load(addr)\n"
	out := compile(t, src)
	assert.NotEmpty(t, out)
}

func TestCastCompiles(t *testing.T) {
	src := "" +
		"export float toFloat(int x)\n" +
		"    return x as float\n"
	out := compile(t, src)
	assert.NotEmpty(t, out)
}

func TestModuleWithoutFunctionsStillHasHeaderAndMemory(t *testing.T) {
	out := compile(t, "int x = 1\n")
	require.True(t, len(out) > 8)
	assert.Equal(t, []byte{0x00, 0x61, 0x73, 0x6D}, out[0:4])
	// With no functions the type and function sections are skipped, so
	// the memory section (id 5) follows the header directly.
	assert.Equal(t, byte(0x05), out[8])
}
