// Package validator performs the structural pass between parsing and
// semantic analysis: it checks that every node has the child count its
// AST kind requires (the kinds of the children are not checked), and
// flags violations by clearing
// Valid rather than aborting, so the analyzer can still annotate the rest
// of the tree and accumulate further diagnostics (spec §2 "structural AST
// validation (child count/type constraints)" — the analyzer's own
// invariant 6 treats an invalid node's dataType as an immediate poison
// value).
package validator

import (
	"fmt"

	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/diag"
)

const producer = "Validator"

// shape describes the expected arity for one AST kind. minChildren and
// maxChildren bound Children length; -1 means unbounded (variadic lists
// like Program, Block, Fields, Parameters, Arguments).
type shape struct {
	minChildren int
	maxChildren int
}

var shapes = map[ast.Kind]shape{
	ast.Program:      {0, -1},
	ast.Block:        {0, -1},
	ast.StructDef:    {1, 1},
	ast.FunctionDef:  {3, 3},
	ast.VariableDef:  {1, 1},
	ast.Global:       {2, 2},
	ast.Map:          {2, 2},
	ast.Access:       {2, 2},
	ast.Const:        {1, 1},
	ast.Export:       {1, 1},
	ast.Type:         {0, 0},
	ast.VariableID:   {0, 0},
	ast.FunctionID:   {0, 0},
	ast.StructID:     {0, 0},
	ast.Literal:      {0, 0},
	ast.Assignment:   {2, 2},
	ast.BinaryOp:     {2, 2},
	ast.UnaryOp:      {1, 1},
	ast.FunctionCall: {2, 2},
	ast.Arguments:    {0, -1},
	ast.Parameters:   {0, -1},
	ast.Fields:       {0, -1},
	ast.Return:       {1, 1},
	ast.ReturnVoid:   {0, 0},
}

// Validate walks root, setting Valid=false on every node whose child
// count falls outside its kind's shape, and returns a Logger with one
// diagnostic per violation. Children are still visited regardless of
// their parent's validity, so a single malformed node never hides
// problems elsewhere in the tree.
func Validate(root *ast.Node) *diag.Logger {
	log := diag.NewLogger()
	walk(root, log)
	return log
}

func walk(n *ast.Node, log *diag.Logger) {
	if s, ok := shapes[n.Kind]; ok {
		count := len(n.Children)
		if count < s.minChildren || (s.maxChildren >= 0 && count > s.maxChildren) {
			n.Valid = false
			log.Errorf(producer, span(n), "%s expects %s, got %d children",
				n.Kind, arityDescription(s), count)
		}
	}
	for _, c := range n.Children {
		walk(c, log)
	}
}

func arityDescription(s shape) string {
	if s.maxChildren < 0 {
		return fmt.Sprintf("at least %d children", s.minChildren)
	}
	if s.minChildren == s.maxChildren {
		return fmt.Sprintf("exactly %d children", s.minChildren)
	}
	return fmt.Sprintf("between %d and %d children", s.minChildren, s.maxChildren)
}

func span(n *ast.Node) diag.Span {
	pos := n.Pos()
	length := len(n.Token.Value)
	if length == 0 {
		length = 1
	}
	return diag.Span{Line: pos.Line, Column: pos.Column, Length: length}
}
