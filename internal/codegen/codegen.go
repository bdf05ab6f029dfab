// Package codegen lowers a fully analyzed AST (every node's Scope and
// DataType already populated by internal/semantic, and internal/validator
// having reported no shape errors) into a binary Wasm module.
//
// The section layout and emission order — header, type, function, memory,
// global, export, code — and the low-level writeByte/writeLEB128 plumbing
// are grounded on strager-Zong/main.go's CompileToWASM and its Emit*
// helpers, the one repo in the retrieval pack that targets this same
// binary format. Where strager-Zong's toy language only had one operand
// width, this package widens the same dispatch-by-operand-class pattern
// (see opcodes.go's binaryOpcode) across Schwa's six numeric primitives.
package codegen

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/diag"
	"github.com/schwa-lang/schwa/internal/symbols"
)

const producer = "Codegen"

// Wasm section ids.
const (
	secType     byte = 1
	secFunction byte = 3
	secMemory   byte = 5
	secGlobal   byte = 6
	secExport   byte = 7
	secCode     byte = 10
)

const wasmPageSize = 65536

// funcInfo carries what the code section needs to know about one
// function beyond its symbols.Function record: its assigned index in
// the eventual call table and, for builtins, nothing (builtins never
// occupy a function index — every call to one is inlined).
type funcInfo struct {
	name   string
	fn     *symbols.Function
	def    *ast.Node
	export bool
	index  uint32
}

type globalInfo struct {
	v      *symbols.Variable
	init   *ast.Node
	export bool
	index  uint32
}

// compiler holds the whole-module state threaded through section
// emission: the root scope (for struct/function/global lookup), the
// ordered function and global tables, and the memory size the mapped
// declarations require.
type compiler struct {
	root      *symbols.Scope
	log       *diag.Logger
	functions []*funcInfo
	funcIndex map[string]*funcInfo
	globals   []*globalInfo
	globalIdx map[string]*globalInfo
	memPages  uint32
}

// Module compiles root (a Program node produced by the parser, shaped by
// the validator, and annotated by the analyzer) into a Wasm binary
// module. It refuses to emit anything if log reports errors, mirroring
// the driver's "never hand a broken module to the toolchain" rule. root's
// own Scope field — populated by semantic.Analyze — is used as the
// lookup root for top-level functions, globals, and structs; it
// transparently delegates up to the builtin catalog's scope for anything
// it doesn't declare itself.
//
// minPages sets a floor on the memory section's initial size (in 64KiB
// Wasm pages), letting a project's schwa.yaml ask for more than the
// module's own mapped declarations strictly require; pass 1 for no
// floor beyond the module's own needs.
func Module(root *ast.Node, log *diag.Logger, minPages uint32) ([]byte, error) {
	if log.HasErrors() {
		return nil, fmt.Errorf("refusing to emit a module: analysis reported errors")
	}
	if root.Kind != ast.Program {
		return nil, fmt.Errorf("codegen: expected a Program root, got %s", root.Kind)
	}
	if root.Scope == nil {
		return nil, fmt.Errorf("codegen: root has not been analyzed")
	}

	cg := &compiler{
		root:      root.Scope,
		log:       log,
		funcIndex: make(map[string]*funcInfo),
		globalIdx: make(map[string]*globalInfo),
		memPages:  1,
	}
	if minPages > cg.memPages {
		cg.memPages = minPages
	}
	cg.collect(root)

	var out bytes.Buffer
	emitHeader(&out)
	cg.emitTypeSection(&out)
	cg.emitFunctionSection(&out)
	cg.emitMemorySection(&out)
	cg.emitGlobalSection(&out)
	cg.emitExportSection(&out)
	if err := cg.emitCodeSection(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func emitHeader(buf *bytes.Buffer) {
	writeBytes(buf, []byte{0x00, 0x61, 0x73, 0x6D}) // "\0asm"
	writeBytes(buf, []byte{0x01, 0x00, 0x00, 0x00}) // version 1
}

// collect walks the top-level declarations, registering every function
// and non-const-folded global, and sizing linear memory to cover the
// highest mapped byte any `map` declaration or struct field reaches.
func (cg *compiler) collect(program *ast.Node) {
	var maxMappedByte int
	for _, child := range program.Children {
		decl, isExport, isConst := unwrapDecl(child)
		switch decl.Kind {
		case ast.FunctionDef:
			cg.registerFunction(decl, isExport)
		case ast.Global:
			cg.registerGlobal(decl, isExport, isConst)
			if end := mappedEnd(cg.root, decl.Child(0)); end > maxMappedByte {
				maxMappedByte = end
			}
		case ast.Map:
			if end := mappedEnd(cg.root, decl.Child(0)); end > maxMappedByte {
				maxMappedByte = end
			}
		case ast.StructDef:
			// Struct definitions have no runtime representation of
			// their own; they only describe the layout used when
			// sizing struct-typed variables above.
		}
	}
	if pages := uint32(maxMappedByte/wasmPageSize) + 1; pages > cg.memPages {
		cg.memPages = pages
	}
}

// unwrapDecl strips any Const/Export wrapper layers off a top-level
// declaration, reporting whether either modifier was present anywhere in
// the chain. Const and Export may wrap in either order.
func unwrapDecl(n *ast.Node) (decl *ast.Node, isExport, isConst bool) {
	decl = n
	for {
		switch decl.Kind {
		case ast.Export:
			isExport = true
			decl = decl.Child(0)
			continue
		case ast.Const:
			isConst = true
			decl = decl.Child(0)
			continue
		}
		return decl, isExport, isConst
	}
}

func (cg *compiler) registerFunction(def *ast.Node, export bool) {
	name := def.Token.Value
	fn := cg.root.GetFunction(name)
	if fn == nil {
		cg.log.Errorf(producer, span(def), "internal error: function %q missing from symbol table", name)
		return
	}
	info := &funcInfo{name: name, fn: fn, def: def, export: export, index: uint32(len(cg.functions))}
	cg.functions = append(cg.functions, info)
	cg.funcIndex[name] = info
}

func (cg *compiler) registerGlobal(def *ast.Node, export, isConst bool) {
	varDef := def.Child(0)
	name := varDef.Token.Value
	v := cg.root.GetVariable(name)
	if v == nil {
		cg.log.Errorf(producer, span(def), "internal error: global %q missing from symbol table", name)
		return
	}
	if v.Mapped {
		// Mapped globals live in linear memory at a fixed offset, not
		// as Wasm global entities; nothing to register beyond the
		// memory sizing collect() already does.
		return
	}
	info := &globalInfo{v: v, init: def.Child(1), export: export, index: uint32(len(cg.globals))}
	cg.globals = append(cg.globals, info)
	cg.globalIdx[name] = info
}

// mappedEnd returns the byte offset one past the end of the storage a
// `map`-declared or ordinary global variable occupies, used to size the
// memory section. Non-mapped globals contribute 0 since they live in the
// global section, not linear memory.
func mappedEnd(root *symbols.Scope, varDef *ast.Node) int {
	name := varDef.Token.Value
	v := root.GetVariable(name)
	if v == nil || !v.Mapped {
		return 0
	}
	return v.Offset + sizeOf(root, v.Type)
}

// sizeOf mirrors the analyzer's own struct-sizing pass (internal/semantic
// computes the same numbers while checking declarations) but is
// reimplemented locally: codegen only needs sizes for address
// arithmetic once analysis has already succeeded, and importing the
// analyzer package here would run a second, needless dependency from the
// emission stage back onto the analysis stage.
func sizeOf(root *symbols.Scope, typeName string) int {
	return sizeOfDepth(root, typeName, 0)
}

const maxStructDepth = 16

func sizeOfDepth(root *symbols.Scope, typeName string, depth int) int {
	if size, ok := primitiveSize(typeName); ok {
		return size
	}
	if depth >= maxStructDepth {
		return 0
	}
	st := root.GetStruct(typeName)
	if st == nil {
		return 0
	}
	total := 0
	for _, f := range st.Fields {
		total += sizeOfDepth(root, f.Type, depth+1)
	}
	return total
}

// fieldOffset returns the byte offset and type of fieldName within
// structName, relative to the start of the struct instance.
func fieldOffset(root *symbols.Scope, structName, fieldName string) (offset int, fieldType string, ok bool) {
	st := root.GetStruct(structName)
	if st == nil {
		return 0, "", false
	}
	cursor := 0
	for _, f := range st.Fields {
		if f.ID == fieldName {
			return cursor, f.Type, true
		}
		cursor += sizeOf(root, f.Type)
	}
	return 0, "", false
}

func span(n *ast.Node) diag.Span {
	pos := n.Pos()
	length := len(n.Token.Value)
	if length == 0 {
		length = 1
	}
	return diag.Span{Line: pos.Line, Column: pos.Column, Length: length}
}

// sortedFunctions is used by emitExportSection to make export order
// deterministic (map iteration over funcIndex/globalIdx would otherwise
// make two compiles of the same source produce different bytes).
func sortedFunctions(fns []*funcInfo) []*funcInfo {
	out := append([]*funcInfo(nil), fns...)
	sort.Slice(out, func(i, j int) bool { return out[i].index < out[j].index })
	return out
}
