// Package token defines the lexical vocabulary shared by the lexer, parser,
// and AST packages.
package token

import "fmt"

// Kind identifies the lexical category of a Token.
type Kind string

const (
	EOF     Kind = "EOF"
	ILLEGAL Kind = "ILLEGAL"

	NEWLINE Kind = "NEWLINE"
	INDENT  Kind = "INDENT"
	DEDENT  Kind = "DEDENT"

	// Literals
	IDENT  Kind = "IDENT"
	INT    Kind = "INT"
	UINT   Kind = "UINT"
	LONG   Kind = "LONG"
	ULONG  Kind = "ULONG"
	FLOAT  Kind = "FLOAT"
	DOUBLE Kind = "DOUBLE"
	BOOL   Kind = "BOOL"
	STRING Kind = "STRING"

	// Keywords
	KwStruct Kind = "KW_STRUCT"
	KwFn     Kind = "KW_FN"
	KwConst  Kind = "KW_CONST"
	KwExport Kind = "KW_EXPORT"
	KwGlobal Kind = "KW_GLOBAL"
	KwMap    Kind = "KW_MAP"
	KwReturn Kind = "KW_RETURN"
	KwTrue   Kind = "KW_TRUE"
	KwFalse  Kind = "KW_FALSE"
	KwAs     Kind = "KW_AS"
	KwTo     Kind = "KW_TO"

	// Type keywords (primitive names)
	KwVoid   Kind = "KW_VOID"
	KwInt    Kind = "KW_INT"
	KwUint   Kind = "KW_UINT"
	KwLong   Kind = "KW_LONG"
	KwUlong  Kind = "KW_ULONG"
	KwFloat  Kind = "KW_FLOAT"
	KwDouble Kind = "KW_DOUBLE"
	KwBool   Kind = "KW_BOOL"
	KwType   Kind = "KW_TYPE"

	// Delimiters
	LPAREN Kind = "LPAREN"
	RPAREN Kind = "RPAREN"
	COMMA  Kind = "COMMA"
	COLON  Kind = "COLON"
	DOT    Kind = "DOT"

	// Operators
	ASSIGN  Kind = "ASSIGN"
	PLUS    Kind = "PLUS"
	MINUS   Kind = "MINUS"
	STAR    Kind = "STAR"
	SLASH   Kind = "SLASH"
	PERCENT Kind = "PERCENT"
	AMP     Kind = "AMP"
	PIPE    Kind = "PIPE"
	CARET   Kind = "CARET"
	TILDE   Kind = "TILDE"
	BANG    Kind = "BANG"
	SHL     Kind = "SHL"
	SHR     Kind = "SHR"
	ROTL    Kind = "ROTL" // <|
	ROTR    Kind = "ROTR" // |>

	EQ  Kind = "EQ"
	NEQ Kind = "NEQ"
	LT  Kind = "LT"
	LTE Kind = "LTE"
	GT  Kind = "GT"
	GTE Kind = "GTE"

	AND Kind = "AND" // &&
	OR  Kind = "OR"  // ||
)

// Keywords maps reserved words to their token kind, including the primitive
// type names (which double as both a keyword and a type annotation token).
var Keywords = map[string]Kind{
	"struct": KwStruct,
	"fn":     KwFn,
	"const":  KwConst,
	"export": KwExport,
	"global": KwGlobal,
	"map":    KwMap,
	"return": KwReturn,
	"true":   KwTrue,
	"false":  KwFalse,
	"as":     KwAs,
	"to":     KwTo,

	"void":   KwVoid,
	"int":    KwInt,
	"uint":   KwUint,
	"long":   KwLong,
	"ulong":  KwUlong,
	"float":  KwFloat,
	"double": KwDouble,
	"bool":   KwBool,
	"type":   KwType,
}

// PrimitiveKeywords is the subset of Keywords that name a primitive data
// type; a token of one of these kinds is valid wherever a type annotation
// is expected.
var PrimitiveKeywords = map[Kind]string{
	KwVoid:   "void",
	KwInt:    "int",
	KwUint:   "uint",
	KwLong:   "long",
	KwUlong:  "ulong",
	KwFloat:  "float",
	KwDouble: "double",
	KwBool:   "bool",
}

// Token is a single lexical token with its source position.
type Token struct {
	Kind   Kind
	Value  string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Value, t.Line, t.Column)
}

// Position extracts the row/column pair carried by a Token.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Pos returns the Position of the token.
func (t Token) Pos() Position { return Position{Line: t.Line, Column: t.Column} }
