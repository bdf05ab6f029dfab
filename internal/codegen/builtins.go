package codegen

import (
	"bytes"
	"strings"

	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/types"
)

// emitBuiltinCall recognizes calls into the fixed builtin catalog
// internal/semantic registers under each primitive type's own scope
// (memory load/store families, bit-counting ops, float math) and inlines
// the matching Wasm instruction instead of emitting a `call` — none of
// these have a function-section entry of their own. Reports handled=false
// for anything that isn't a builtin, so the caller falls through to an
// ordinary user-function call.
func (fc *funcCtx) emitBuiltinCall(buf *bytes.Buffer, callee, args *ast.Node) (handled bool, err error) {
	if callee.Kind != ast.Access {
		if callee.Token.Value == "nop" {
			writeByte(buf, 0x01) // nop
			return true, nil
		}
		return false, nil
	}
	base := callee.Child(0)
	typeName := base.Token.Value
	if !types.IsPrimitive(typeName) {
		return false, nil
	}
	name := callee.Child(1).Token.Value

	switch {
	case strings.HasPrefix(name, "load"):
		return true, fc.emitBuiltinLoad(buf, typeName, name, args)
	case strings.HasPrefix(name, "store"):
		return true, fc.emitBuiltinStore(buf, typeName, name, args)
	}

	if op, ok := bitUtilOpcode(typeName, name); ok {
		if err := fc.emitExpr(buf, args.Child(0)); err != nil {
			return true, err
		}
		writeByte(buf, op)
		return true, nil
	}
	if op, ok := floatUnaryOpcode(typeName, name); ok {
		if err := fc.emitExpr(buf, args.Child(0)); err != nil {
			return true, err
		}
		writeByte(buf, op)
		return true, nil
	}
	if op, ok := floatBinaryOpcode(typeName, name); ok {
		if err := fc.emitExpr(buf, args.Child(0)); err != nil {
			return true, err
		}
		if err := fc.emitExpr(buf, args.Child(1)); err != nil {
			return true, err
		}
		writeByte(buf, op)
		return true, nil
	}
	return false, nil
}

func (fc *funcCtx) emitBuiltinLoad(buf *bytes.Buffer, typeName, name string, args *ast.Node) error {
	if err := fc.emitExpr(buf, args.Child(0)); err != nil {
		return err
	}
	op, ok := narrowingLoadOpcode(typeName, name)
	if !ok {
		op = loadOpcode(typeName)
	}
	writeByte(buf, op)
	writeMemArg(buf, typeName)
	return nil
}

func (fc *funcCtx) emitBuiltinStore(buf *bytes.Buffer, typeName, name string, args *ast.Node) error {
	if err := fc.emitExpr(buf, args.Child(0)); err != nil {
		return err
	}
	if err := fc.emitExpr(buf, args.Child(1)); err != nil {
		return err
	}
	op, ok := narrowingStoreOpcode(typeName, name)
	if !ok {
		op = storeOpcode(typeName)
	}
	writeByte(buf, op)
	writeMemArg(buf, typeName)
	return nil
}

// narrowingLoadOpcode covers the loadSByte/loadByte, loadShort/loadUShort
// and loadInt/loadUInt family internal/semantic registers (its
// narrowingLoads catalog): sub-word memory reads sign- or zero-extended
// up to an integer type's full width. Float types, and the 32-bit pair on
// a 32-bit type, report false and keep the natural-width load.
func narrowingLoadOpcode(typeName, name string) (byte, bool) {
	if isFloatType(typeName) {
		return 0, false
	}
	wide := isI64Class(typeName)
	signed := name == "loadSByte" || name == "loadShort" || name == "loadInt"
	switch {
	case name == "loadSByte" || name == "loadByte":
		if wide {
			if signed {
				return 0x30, true
			}
			return 0x31, true
		}
		if signed {
			return 0x2C, true
		}
		return 0x2D, true
	case name == "loadShort" || name == "loadUShort":
		if wide {
			if signed {
				return 0x32, true
			}
			return 0x33, true
		}
		if signed {
			return 0x2E, true
		}
		return 0x2F, true
	case name == "loadInt" || name == "loadUInt":
		if wide {
			if signed {
				return 0x34, true
			}
			return 0x35, true
		}
	}
	return 0, false
}

func narrowingStoreOpcode(typeName, name string) (byte, bool) {
	if isFloatType(typeName) {
		return 0, false
	}
	wide := isI64Class(typeName)
	switch name {
	case "storeSByte", "storeByte":
		if wide {
			return 0x3C, true
		}
		return 0x3A, true
	case "storeShort", "storeUShort":
		if wide {
			return 0x3D, true
		}
		return 0x3B, true
	case "storeInt", "storeUInt":
		if wide {
			return 0x3E, true
		}
	}
	return 0, false
}

// bitUtilOpcode covers clz/ctz/popcnt/eqz, registered for every integer
// type in the builtin catalog.
func bitUtilOpcode(typeName, name string) (byte, bool) {
	wide := isI64Class(typeName)
	switch name {
	case "clz":
		if wide {
			return 0x79, true
		}
		return 0x67, true
	case "ctz":
		if wide {
			return 0x7A, true
		}
		return 0x68, true
	case "popcnt":
		if wide {
			return 0x7B, true
		}
		return 0x69, true
	case "eqz":
		if wide {
			return 0x50, true
		}
		return 0x45, true
	}
	return 0, false
}

// floatUnaryOpcode covers abs/ceil/floor/truncate/round/sqrt, registered
// for float and double.
func floatUnaryOpcode(typeName, name string) (byte, bool) {
	isDouble := typeName == types.Double
	switch name {
	case "abs":
		if isDouble {
			return 0x99, true
		}
		return 0x8B, true
	case "ceil":
		if isDouble {
			return 0x9B, true
		}
		return 0x8D, true
	case "floor":
		if isDouble {
			return 0x9C, true
		}
		return 0x8E, true
	case "truncate":
		if isDouble {
			return 0x9D, true
		}
		return 0x8F, true
	case "round":
		if isDouble {
			return 0x9E, true
		}
		return 0x90, true
	case "sqrt":
		if isDouble {
			return 0x9F, true
		}
		return 0x91, true
	}
	return 0, false
}

// floatBinaryOpcode covers copysign/min/max, registered for float and
// double.
func floatBinaryOpcode(typeName, name string) (byte, bool) {
	isDouble := typeName == types.Double
	switch name {
	case "min":
		if isDouble {
			return 0xA4, true
		}
		return 0x96, true
	case "max":
		if isDouble {
			return 0xA5, true
		}
		return 0x97, true
	case "copysign":
		if isDouble {
			return 0xA6, true
		}
		return 0x98, true
	}
	return 0, false
}
