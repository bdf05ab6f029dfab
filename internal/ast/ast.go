// Package ast defines the generic AST node shape the semantic analyzer
// operates on (spec §2 "System Overview", §3 "AST node annotations").
//
// Every node in the tree is the same Go type: a kind tag, a source token,
// an ordered list of children, a parent back-edge, a validator-supplied
// Valid flag, and the two mutable annotations the analyzer fills in
// (Scope, DataType). This uniform shape — rather than one Go type per
// syntax construct — is what lets internal/semantic dispatch rules purely
// off Kind through a fixed table (spec §9 "Rule-table dispatch").
package ast

import (
	"github.com/schwa-lang/schwa/internal/symbols"
	"github.com/schwa-lang/schwa/internal/token"
)

// Kind is the discriminant tag naming what a Node represents. The set is
// closed and matches spec §6 "AST kinds consumed" exactly.
type Kind int

const (
	Program Kind = iota
	Block
	StructDef
	FunctionDef
	VariableDef
	Global
	Map
	Access
	Const
	Export
	Type
	VariableID
	FunctionID
	StructID
	Literal
	Assignment
	BinaryOp
	UnaryOp
	FunctionCall
	Arguments
	Parameters
	Fields
	Return
	ReturnVoid
)

var kindNames = map[Kind]string{
	Program: "Program", Block: "Block", StructDef: "StructDef",
	FunctionDef: "FunctionDef", VariableDef: "VariableDef", Global: "Global",
	Map: "Map", Access: "Access", Const: "Const", Export: "Export",
	Type: "Type", VariableID: "VariableId", FunctionID: "FunctionId",
	StructID: "StructId", Literal: "Literal", Assignment: "Assignment",
	BinaryOp: "BinaryOp", UnaryOp: "UnaryOp", FunctionCall: "FunctionCall",
	Arguments: "Arguments", Parameters: "Parameters", Fields: "Fields",
	Return: "Return", ReturnVoid: "ReturnVoid",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "Unknown"
}

// Node is the single, uniform AST node type. Parent and Children form a
// doubly-linked tree; Scope and DataType are nil/empty until the analyzer
// (internal/semantic) visits the node.
type Node struct {
	Kind     Kind
	Token    token.Token
	Children []*Node
	Parent   *Node
	Valid    bool // set by internal/validator before analysis runs

	// Filled in by internal/semantic.
	Scope    *symbols.Scope
	DataType string
}

// New creates a Node of the given kind with the given token, valid by
// default (the structural validator flips this to false when it detects a
// child-count violation).
func New(kind Kind, tok token.Token, children ...*Node) *Node {
	n := &Node{Kind: kind, Token: tok, Valid: true}
	for _, c := range children {
		n.Append(c)
	}
	return n
}

// Append adds child to n's children and sets child's parent back-edge.
func (n *Node) Append(child *Node) {
	if child == nil {
		return
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Child returns the i'th child, or nil if i is out of range. Rules use
// this instead of direct indexing so a structurally-short node (one the
// validator has already flagged invalid) degrades to nil instead of
// panicking.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Pos returns the node's source position, taken from its token.
func (n *Node) Pos() token.Position { return n.Token.Pos() }

// Ancestor walks up the Parent chain and returns the first ancestor (not
// including n itself) whose Kind equals kind, or nil if none exists.
func (n *Node) Ancestor(kind Kind) *Node {
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		if cur.Kind == kind {
			return cur
		}
	}
	return nil
}

// HasAncestor reports whether any ancestor of n (not including n itself)
// has the given kind. Used by the VariableDef scope rule to test for an
// enclosing Global or Map node (spec §4.2).
func (n *Node) HasAncestor(kind Kind) bool {
	return n.Ancestor(kind) != nil
}
