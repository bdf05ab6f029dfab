package codegen

import (
	"github.com/schwa-lang/schwa/internal/token"
	"github.com/schwa-lang/schwa/internal/types"
)

// Wasm value types (section 5.3 of the binary format), grounded on the
// "WASM Opcode Constants" block in strager-Zong/main.go.
const (
	valI32 byte = 0x7F
	valI64 byte = 0x7E
	valF32 byte = 0x7D
	valF64 byte = 0x7C
)

// Wasm structural and control-flow opcodes.
const (
	opFuncTypeTag byte = 0x60
	opEnd         byte = 0x0B
	opReturn      byte = 0x0F
	opCall        byte = 0x10
	opLocalGet    byte = 0x20
	opLocalSet    byte = 0x21
	opGlobalGet   byte = 0x23
	opGlobalSet   byte = 0x24
)

// valType maps a Schwa primitive type name onto the Wasm value type used
// to hold it. int/uint both live in an i32 slot, long/ulong in i64,
// bool is represented as i32 0/1 — the same "small ints share a wasm
// word size" scheme strager-Zong's own type-to-opcode dispatch uses.
func valType(t string) byte {
	switch t {
	case types.Int, types.Uint, types.Bool:
		return valI32
	case types.Long, types.Ulong:
		return valI64
	case types.Float:
		return valF32
	case types.Double:
		return valF64
	default:
		// Struct-typed locals and mapped globals are addresses into
		// linear memory, represented as i32 offsets.
		return valI32
	}
}

func isFloatType(t string) bool {
	return t == types.Float || t == types.Double
}

func isI64Class(t string) bool {
	return t == types.Long || t == types.Ulong
}

func isUnsignedClass(t string) bool {
	return t == types.Uint || t == types.Ulong
}

// constOpcode returns the opcode that pushes a literal of type t.
func constOpcode(t string) byte {
	switch {
	case t == types.Float:
		return 0x43
	case t == types.Double:
		return 0x44
	case isI64Class(t):
		return 0x42
	default:
		return 0x41
	}
}

// loadOpcode/storeOpcode return the natural-width memory access opcode
// for t, used both for mapped globals/struct fields and for the load/
// store builtins.
func loadOpcode(t string) byte {
	switch {
	case t == types.Float:
		return 0x2A
	case t == types.Double:
		return 0x2B
	case isI64Class(t):
		return 0x29
	default:
		return 0x28
	}
}

func storeOpcode(t string) byte {
	switch {
	case t == types.Float:
		return 0x38
	case t == types.Double:
		return 0x39
	case isI64Class(t):
		return 0x37
	default:
		return 0x36
	}
}

// binaryOpcode picks the Wasm instruction for a binary AST operator over
// operands of type t, following strager-Zong's getBinaryOpcode/
// isComparisonOp dispatch-by-operand-class pattern but widened to
// Schwa's six numeric primitives instead of a single word size.
func binaryOpcode(op token.Kind, t string) (byte, bool) {
	f := isFloatType(t)
	i64 := isI64Class(t)
	unsigned := isUnsignedClass(t)

	pick := func(i32, i64op, f32, f64 byte) byte {
		switch {
		case f && t == types.Double:
			return f64
		case f:
			return f32
		case i64:
			return i64op
		default:
			return i32
		}
	}

	switch op {
	case token.PLUS:
		return pick(0x6A, 0x7C, 0x92, 0xA0), true
	case token.MINUS:
		return pick(0x6B, 0x7D, 0x93, 0xA1), true
	case token.STAR:
		return pick(0x6C, 0x7E, 0x94, 0xA2), true
	case token.SLASH:
		if f {
			return pick(0, 0, 0x95, 0xA3), true
		}
		if unsigned {
			return pick(0x6E, 0x80, 0, 0), true
		}
		return pick(0x6D, 0x7F, 0, 0), true
	case token.PERCENT:
		if unsigned {
			return pick(0x70, 0x82, 0, 0), true
		}
		return pick(0x6F, 0x81, 0, 0), true
	case token.AMP:
		return pick(0x71, 0x83, 0, 0), true
	case token.PIPE:
		return pick(0x72, 0x84, 0, 0), true
	case token.CARET:
		return pick(0x73, 0x85, 0, 0), true
	case token.SHL:
		return pick(0x74, 0x86, 0, 0), true
	case token.SHR:
		if unsigned {
			return pick(0x76, 0x88, 0, 0), true
		}
		return pick(0x75, 0x87, 0, 0), true
	case token.ROTL:
		return pick(0x77, 0x89, 0, 0), true
	case token.ROTR:
		return pick(0x78, 0x8A, 0, 0), true
	case token.EQ:
		return pick(0x46, 0x51, 0x5B, 0x61), true
	case token.NEQ:
		return pick(0x47, 0x52, 0x5C, 0x62), true
	case token.LT:
		if unsigned {
			return pick(0x49, 0x54, 0x5D, 0x63), true
		}
		return pick(0x48, 0x53, 0x5D, 0x63), true
	case token.GT:
		if unsigned {
			return pick(0x4B, 0x56, 0x5E, 0x64), true
		}
		return pick(0x4A, 0x55, 0x5E, 0x64), true
	case token.LTE:
		if unsigned {
			return pick(0x4D, 0x58, 0x5F, 0x65), true
		}
		return pick(0x4C, 0x57, 0x5F, 0x65), true
	case token.GTE:
		if unsigned {
			return pick(0x4F, 0x5A, 0x60, 0x66), true
		}
		return pick(0x4E, 0x59, 0x60, 0x66), true
	}
	return 0, false
}

// isComparisonOp mirrors strager-Zong's helper of the same purpose: a
// comparison always leaves an i32 boolean on the stack regardless of the
// operand type. Nothing in this package calls it; result types come from
// the analyzer's DataType annotations.
func isComparisonOp(op token.Kind) bool {
	switch op {
	case token.EQ, token.NEQ, token.LT, token.GT, token.LTE, token.GTE:
		return true
	}
	return false
}

func isLogicalOp(op token.Kind) bool {
	return op == token.AND || op == token.OR
}
