package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/lexer"
	"github.com/schwa-lang/schwa/internal/parser"
	"github.com/schwa-lang/schwa/internal/token"
	"github.com/schwa-lang/schwa/internal/validator"
)

func TestWellFormedTreeFromRealSourceHasNoErrors(t *testing.T) {
	src := "export int add(int a, int b)\n    return a + b\n"
	toks, lexErrs := lexer.Lex(src)
	require.Empty(t, lexErrs)
	root, parseErrs := parser.Parse(toks)
	require.Empty(t, parseErrs)

	log := validator.Validate(root)
	assert.False(t, log.HasErrors(), "%v", log.Entries())
	assert.True(t, root.Valid)
}

func TestUndersizedNodeIsFlaggedInvalid(t *testing.T) {
	// A BinaryOp built with only one child violates its {2, 2} shape.
	tok := token.Token{Kind: token.PLUS, Value: "+", Line: 1, Column: 1}
	lhs := ast.New(ast.Literal, token.Token{Kind: token.INT, Value: "1"})
	bad := ast.New(ast.BinaryOp, tok, lhs)
	root := ast.New(ast.Program, token.Token{Kind: token.EOF}, bad)

	log := validator.Validate(root)
	assert.True(t, log.HasErrors())
	assert.False(t, bad.Valid)
}

func TestOversizedNodeIsFlaggedInvalid(t *testing.T) {
	// A UnaryOp built with two children violates its {1, 1} shape.
	tok := token.Token{Kind: token.MINUS, Value: "-", Line: 1, Column: 1}
	a := ast.New(ast.Literal, token.Token{Kind: token.INT, Value: "1"})
	b := ast.New(ast.Literal, token.Token{Kind: token.INT, Value: "2"})
	bad := ast.New(ast.UnaryOp, tok, a, b)
	root := ast.New(ast.Program, token.Token{Kind: token.EOF}, bad)

	log := validator.Validate(root)
	assert.True(t, log.HasErrors())
	assert.False(t, bad.Valid)
}

func TestVariadicKindsAcceptAnyChildCount(t *testing.T) {
	root := ast.New(ast.Program, token.Token{Kind: token.EOF})
	log := validator.Validate(root)
	assert.False(t, log.HasErrors())
	assert.True(t, root.Valid)
}

func TestInvalidChildDoesNotHideSiblingProblems(t *testing.T) {
	badUnary := ast.New(ast.UnaryOp, token.Token{Kind: token.MINUS, Value: "-"})
	badBinary := ast.New(ast.BinaryOp, token.Token{Kind: token.PLUS, Value: "+"})
	root := ast.New(ast.Program, token.Token{Kind: token.EOF}, badUnary, badBinary)

	log := validator.Validate(root)
	assert.Len(t, log.Entries(), 2)
	assert.False(t, badUnary.Valid)
	assert.False(t, badBinary.Valid)
}

func TestValidNodeUnaffectedByInvalidSibling(t *testing.T) {
	badUnary := ast.New(ast.UnaryOp, token.Token{Kind: token.MINUS, Value: "-"})
	goodLiteral := ast.New(ast.Literal, token.Token{Kind: token.INT, Value: "1"})
	root := ast.New(ast.Program, token.Token{Kind: token.EOF}, badUnary, goodLiteral)

	validator.Validate(root)
	assert.True(t, goodLiteral.Valid)
}
