package codegen

import (
	"bytes"

	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/types"
)

// emitTypeSection writes one function type per registered function, in
// call-index order. Types are not deduplicated: strager-Zong's own type
// section skips dedup too, and a handful of duplicate (i32,i32)->i32
// entries costs a few bytes, not correctness.
func (cg *compiler) emitTypeSection(buf *bytes.Buffer) {
	if len(cg.functions) == 0 {
		return
	}
	writeByte(buf, secType)
	withLengthPrefix(buf, func(b *bytes.Buffer) {
		writeLEB128(b, uint32(len(cg.functions)))
		for _, info := range cg.functions {
			writeByte(b, opFuncTypeTag)
			writeLEB128(b, uint32(len(info.fn.Params)))
			for _, p := range info.fn.Params {
				writeByte(b, valType(p.Type))
			}
			if info.fn.ReturnType == "void" || info.fn.ReturnType == "" {
				writeLEB128(b, 0)
			} else {
				writeLEB128(b, 1)
				writeByte(b, valType(info.fn.ReturnType))
			}
		}
	})
}

func (cg *compiler) emitFunctionSection(buf *bytes.Buffer) {
	if len(cg.functions) == 0 {
		return
	}
	writeByte(buf, secFunction)
	withLengthPrefix(buf, func(b *bytes.Buffer) {
		writeLEB128(b, uint32(len(cg.functions)))
		for _, info := range cg.functions {
			writeLEB128(b, info.index) // type index == function index, one-to-one
		}
	})
}

func (cg *compiler) emitMemorySection(buf *bytes.Buffer) {
	writeByte(buf, secMemory)
	withLengthPrefix(buf, func(b *bytes.Buffer) {
		writeLEB128(b, 1) // one memory
		writeByte(b, 0x00) // flags: min only, no max
		writeLEB128(b, cg.memPages)
	})
}

// emitGlobalSection writes a Wasm global per non-mapped module-level
// variable. Only a constant-literal initializer can appear in a Wasm
// global's init expression, so a global initialized from a non-literal
// expression falls back to a zero value here. Such an initializer is not
// evaluated anywhere: the global starts at zero.
func (cg *compiler) emitGlobalSection(buf *bytes.Buffer) {
	if len(cg.globals) == 0 {
		return
	}
	writeByte(buf, secGlobal)
	withLengthPrefix(buf, func(b *bytes.Buffer) {
		writeLEB128(b, uint32(len(cg.globals)))
		for _, g := range cg.globals {
			writeByte(b, valType(g.v.Type))
			if g.v.Const {
				writeByte(b, 0x00)
			} else {
				writeByte(b, 0x01)
			}
			emitConstExpr(b, g.v.Type, g.init)
			writeByte(b, opEnd)
		}
	})
}

// emitConstExpr writes the constant initializer expression required by a
// Wasm global. Only Literal nodes are valid Wasm const exprs; anything
// else degrades to the type's zero value.
func emitConstExpr(b *bytes.Buffer, t string, init *ast.Node) {
	if init != nil && init.Kind == ast.Literal {
		emitLiteral(b, t, init)
		return
	}
	emitZero(b, t)
}

func emitZero(b *bytes.Buffer, t string) {
	writeByte(b, constOpcode(t))
	if isFloatType(t) {
		if t == types.Double {
			writeBytes(b, make([]byte, 8))
		} else {
			writeBytes(b, make([]byte, 4))
		}
		return
	}
	writeLEB128Signed(b, 0)
}

func (cg *compiler) emitExportSection(buf *bytes.Buffer) {
	var exported []*funcInfo
	for _, f := range sortedFunctions(cg.functions) {
		if f.export {
			exported = append(exported, f)
		}
	}
	total := len(exported) + 1 // +1 for memory, always exported
	for _, g := range cg.globals {
		if g.export {
			total++
		}
	}

	writeByte(buf, secExport)
	withLengthPrefix(buf, func(b *bytes.Buffer) {
		writeLEB128(b, uint32(total))
		writeName(b, "memory")
		writeByte(b, 0x02) // export kind: memory
		writeLEB128(b, 0)
		for _, f := range exported {
			writeName(b, f.name)
			writeByte(b, 0x00) // export kind: func
			writeLEB128(b, f.index)
		}
		for _, g := range cg.globals {
			if !g.export {
				continue
			}
			writeName(b, g.v.ID)
			writeByte(b, 0x03) // export kind: global
			writeLEB128(b, g.index)
		}
	})
}
