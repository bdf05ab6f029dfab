// Package format regenerates indentation-structured Schwa source text
// from an AST, mirroring the pretty-printer style of the compiler this
// module was adapted from (its ast package carried DebugString/ExprString
// methods for the same purpose).
package format

import (
	"fmt"
	"strings"

	"github.com/schwa-lang/schwa/internal/ast"
)

const indentUnit = "    "

// Node renders n (expected to be a Program root) back into source text.
func Node(n *ast.Node) string {
	var b strings.Builder
	writeBlockChildren(&b, n, 0)
	return b.String()
}

func writeIndent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat(indentUnit, depth))
}

func writeBlockChildren(b *strings.Builder, block *ast.Node, depth int) {
	for _, c := range block.Children {
		writeStatement(b, c, depth)
	}
}

func writeStatement(b *strings.Builder, n *ast.Node, depth int) {
	switch n.Kind {
	case ast.StructDef:
		writeStructDef(b, n, depth)
	case ast.FunctionDef:
		writeFunctionDef(b, n, depth)
	case ast.Global:
		writeIndent(b, depth)
		fmt.Fprintf(b, "%s %s = %s\n", typeName(n.Child(0)), n.Child(0).Token.Value, exprString(n.Child(1)))
	case ast.Map:
		writeIndent(b, depth)
		fmt.Fprintf(b, "map %s %s %s\n", typeName(n.Child(0)), n.Child(0).Token.Value, n.Child(1).Token.Value)
	case ast.Const:
		writeIndent(b, depth)
		b.WriteString("const ")
		writeStatementInline(b, n.Child(0), depth)
	case ast.Export:
		writeIndent(b, depth)
		b.WriteString("export ")
		writeStatementInline(b, n.Child(0), depth)
	case ast.VariableDef:
		writeIndent(b, depth)
		fmt.Fprintf(b, "%s %s\n", typeName(n), n.Token.Value)
	case ast.Assignment:
		writeIndent(b, depth)
		fmt.Fprintf(b, "%s = %s\n", exprString(n.Child(0)), exprString(n.Child(1)))
	case ast.Return:
		writeIndent(b, depth)
		fmt.Fprintf(b, "return %s\n", exprString(n.Child(0)))
	case ast.ReturnVoid:
		writeIndent(b, depth)
		b.WriteString("return\n")
	default:
		writeIndent(b, depth)
		fmt.Fprintf(b, "%s\n", exprString(n))
	}
}

// writeStatementInline renders a Const/Export's wrapped declaration
// without re-emitting the leading indentation "const "/"export " already
// wrote.
func writeStatementInline(b *strings.Builder, n *ast.Node, depth int) {
	switch n.Kind {
	case ast.Global:
		fmt.Fprintf(b, "%s %s = %s\n", typeName(n.Child(0)), n.Child(0).Token.Value, exprString(n.Child(1)))
	case ast.Map:
		fmt.Fprintf(b, "map %s %s %s\n", typeName(n.Child(0)), n.Child(0).Token.Value, n.Child(1).Token.Value)
	case ast.Const:
		b.WriteString("const ")
		writeStatementInline(b, n.Child(0), depth)
	case ast.Export:
		b.WriteString("export ")
		writeStatementInline(b, n.Child(0), depth)
	case ast.VariableDef:
		fmt.Fprintf(b, "%s %s\n", typeName(n), n.Token.Value)
	case ast.StructDef:
		writeStructDef(b, n, depth)
	case ast.FunctionDef:
		writeFunctionDef(b, n, depth)
	default:
		fmt.Fprintf(b, "%s\n", exprString(n))
	}
}

func writeStructDef(b *strings.Builder, n *ast.Node, depth int) {
	writeIndent(b, depth)
	fmt.Fprintf(b, "struct %s\n", n.Token.Value)
	fields := n.Child(0)
	for _, f := range fields.Children {
		writeIndent(b, depth+1)
		fmt.Fprintf(b, "%s %s\n", typeName(f), f.Token.Value)
	}
}

func writeFunctionDef(b *strings.Builder, n *ast.Node, depth int) {
	writeIndent(b, depth)
	params := n.Child(1)
	var parts []string
	for _, p := range params.Children {
		parts = append(parts, fmt.Sprintf("%s %s", typeName(p), p.Token.Value))
	}
	fmt.Fprintf(b, "%s %s(%s)\n", typeName(n), n.Token.Value, strings.Join(parts, ", "))
	writeBlockChildren(b, n.Child(2), depth+1)
}

func typeName(defNode *ast.Node) string {
	typeChild := defNode.Child(0)
	if typeChild == nil {
		return "void"
	}
	return typeChild.Token.Value
}

// exprString renders an expression subtree back to source syntax.
func exprString(n *ast.Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case ast.Literal, ast.VariableID, ast.FunctionID, ast.StructID, ast.Type:
		return n.Token.Value
	case ast.Access:
		return exprString(n.Child(0)) + "." + exprString(n.Child(1))
	case ast.UnaryOp:
		return n.Token.Value + exprString(n.Child(0))
	case ast.BinaryOp:
		if n.Token.Value == "as" || n.Token.Value == "to" {
			return fmt.Sprintf("%s %s %s", exprString(n.Child(0)), n.Token.Value, exprString(n.Child(1)))
		}
		return fmt.Sprintf("%s %s %s", exprString(n.Child(0)), n.Token.Value, exprString(n.Child(1)))
	case ast.FunctionCall:
		var parts []string
		for _, a := range n.Child(1).Children {
			parts = append(parts, exprString(a))
		}
		return fmt.Sprintf("%s(%s)", exprString(n.Child(0)), strings.Join(parts, ", "))
	case ast.Assignment:
		return fmt.Sprintf("%s = %s", exprString(n.Child(0)), exprString(n.Child(1)))
	}
	return n.Token.Value
}
