// Package types implements the closed enumeration of primitive data types
// and their sizes (spec §3, "Primitive data types" / "Primitive sizes").
//
// A data type is represented throughout the analyzer as a plain string: a
// primitive name, a struct name, or one of the two poison/meta values
// Invalid and Meta. Keeping data types as strings (rather than an enum of
// pointers) mirrors the source language's own representation and lets a
// user-defined struct's data type be exactly its name, with no boxing.
package types

import "github.com/schwa-lang/schwa/internal/token"

// The closed set of primitive type names, plus the two poison/meta values.
const (
	Void    = "void"
	Invalid = "invalid"
	Meta    = "type" // the meta-type of a type literal appearing in a cast RHS
	Int     = "int"
	Uint    = "uint"
	Long    = "long"
	Ulong   = "ulong"
	Float   = "float"
	Double  = "double"
	Bool    = "bool"
)

// primitives is the set of names IsPrimitive recognizes.
var primitives = map[string]bool{
	Void: true, Invalid: true, Meta: true,
	Int: true, Uint: true, Long: true, Ulong: true,
	Float: true, Double: true, Bool: true,
}

// IsPrimitive reports whether name is one of the closed primitive type
// names (including the void/invalid/type poison and meta values). A false
// result means name must be resolved as a user-defined struct name.
func IsPrimitive(name string) bool {
	return primitives[name]
}

// IsNumeric reports whether name is one of the six numeric primitives
// (excludes bool, void, invalid, type, and struct names).
func IsNumeric(name string) bool {
	switch name {
	case Int, Uint, Long, Ulong, Float, Double:
		return true
	}
	return false
}

// IsFixedWidthInteger reports whether name is one of the four integer
// primitives that support bitwise operators, shifts, and rotations.
func IsFixedWidthInteger(name string) bool {
	switch name {
	case Int, Uint, Long, Ulong:
		return true
	}
	return false
}

// IsSignedArithmetic reports whether name supports unary arithmetic
// negation (int, long, float, double).
func IsSignedArithmetic(name string) bool {
	switch name {
	case Int, Long, Float, Double:
		return true
	}
	return false
}

// Size returns the primitive's byte size per spec §3: 4 bytes for
// int/uint/float/bool, 8 for long/ulong/double, 0 for void/invalid/type and
// any name Size does not recognize (including struct names, which the
// caller must resolve separately via getSize's struct branch).
func Size(name string) int {
	switch name {
	case Int, Uint, Float, Bool:
		return 4
	case Long, Ulong, Double:
		return 8
	default:
		return 0
	}
}

// FromTokenKind maps a literal token kind to the primitive type name it
// produces, per DataType.fromTokenType in spec §4.5.
func FromTokenKind(k token.Kind) (string, bool) {
	switch k {
	case token.INT:
		return Int, true
	case token.UINT:
		return Uint, true
	case token.LONG:
		return Long, true
	case token.ULONG:
		return Ulong, true
	case token.FLOAT:
		return Float, true
	case token.DOUBLE:
		return Double, true
	case token.BOOL:
		return Bool, true
	}
	return "", false
}

// FromKeyword maps a primitive-type keyword token kind to its type name,
// used when a VariableDef/FunctionDef/cast-RHS type annotation is read
// straight off its token.
func FromKeyword(k token.Kind) (string, bool) {
	name, ok := token.PrimitiveKeywords[k]
	return name, ok
}
