package codegen

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/symbols"
	"github.com/schwa-lang/schwa/internal/token"
	"github.com/schwa-lang/schwa/internal/types"
)

func float32Bits(f float32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(f))
	return b
}

func float64Bits(f float64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(f))
	return b
}

// funcCtx carries the per-function state EmitStatement/EmitExpression
// need: the local-variable index table (grounded on strager-Zong's own
// collectLocalVariables/collectLocalsRecursive pre-scan, here driven off
// the already-resolved Variable.Node pointers rather than a second name
// lookup) and the function's own declared return type, which is recorded
// here but not consulted by any emitter.
type funcCtx struct {
	cg         *compiler
	localIndex map[*ast.Node]uint32
	localTypes []string
	returnType string
}

func (cg *compiler) emitCodeSection(buf *bytes.Buffer) error {
	if len(cg.functions) == 0 {
		return nil
	}
	writeByte(buf, secCode)
	var sectionErr error
	withLengthPrefix(buf, func(b *bytes.Buffer) {
		writeLEB128(b, uint32(len(cg.functions)))
		for _, info := range cg.functions {
			body, err := cg.emitFunctionBody(info)
			if err != nil && sectionErr == nil {
				sectionErr = err
			}
			withLengthPrefix(b, func(fb *bytes.Buffer) {
				writeBytes(fb, body)
			})
		}
	})
	return sectionErr
}

// emitFunctionBody builds one function's local declarations followed by
// its instruction stream and a trailing END opcode, following the
// per-function body shape strager-Zong's EmitCodeSection writes.
func (cg *compiler) emitFunctionBody(info *funcInfo) ([]byte, error) {
	fc := &funcCtx{cg: cg, localIndex: make(map[*ast.Node]uint32), returnType: info.fn.ReturnType}

	params := info.def.Child(1)
	for _, p := range params.Children {
		fc.localIndex[p] = uint32(len(fc.localTypes))
		fc.localTypes = append(fc.localTypes, p.DataType)
	}
	body := info.def.Child(2)
	collectLocalsRecursive(body, fc)

	var out bytes.Buffer
	emitLocalDecls(&out, fc.localTypes[len(params.Children):])

	for _, stmt := range body.Children {
		if err := fc.emitStatement(&out, stmt); err != nil {
			return nil, fmt.Errorf("function %q: %w", info.name, err)
		}
	}
	writeByte(&out, opEnd)
	return out.Bytes(), nil
}

// collectLocalsRecursive walks a function body's statement list, giving
// every declared local an index right after the parameters. Schwa's
// grammar has no nested blocks (no if/while/for AST kinds), so unlike
// strager-Zong's recursive walk over an arbitrary statement tree this
// only ever needs to look at the body's direct children — kept as its
// own function, and named the same as the routine it's grounded on,
// because a future control-flow extension would need it to recurse.
func collectLocalsRecursive(body *ast.Node, fc *funcCtx) {
	for _, stmt := range body.Children {
		if stmt.Kind == ast.VariableDef {
			fc.localIndex[stmt] = uint32(len(fc.localTypes))
			fc.localTypes = append(fc.localTypes, stmt.DataType)
		}
	}
}

// emitLocalDecls writes the code section's local-variable declaration
// vector: runs of consecutive same-typed locals, each written as a
// (count, valtype) pair.
func emitLocalDecls(buf *bytes.Buffer, types_ []string) {
	type run struct {
		count uint32
		typ   byte
	}
	var runs []run
	for _, t := range types_ {
		vt := valType(t)
		if len(runs) > 0 && runs[len(runs)-1].typ == vt {
			runs[len(runs)-1].count++
			continue
		}
		runs = append(runs, run{1, vt})
	}
	writeLEB128(buf, uint32(len(runs)))
	for _, r := range runs {
		writeLEB128(buf, r.count)
		writeByte(buf, r.typ)
	}
}

func (fc *funcCtx) emitStatement(buf *bytes.Buffer, n *ast.Node) error {
	switch n.Kind {
	case ast.VariableDef:
		// A bare declaration reserves a local slot (handled above by
		// collectLocalsRecursive); Wasm locals already default to
		// zero, so there is nothing to emit here.
		return nil
	case ast.Assignment:
		return fc.emitAssignment(buf, n)
	case ast.Return:
		if err := fc.emitExpr(buf, n.Child(0)); err != nil {
			return err
		}
		writeByte(buf, opReturn)
		return nil
	case ast.ReturnVoid:
		writeByte(buf, opReturn)
		return nil
	case ast.FunctionCall:
		// A call used as a bare statement: emit it and, if it leaves a
		// value on the stack, drop it.
		if err := fc.emitExpr(buf, n); err != nil {
			return err
		}
		if returnTypeOf(fc.cg, n) != types.Void {
			writeByte(buf, 0x1A) // drop
		}
		return nil
	default:
		return fmt.Errorf("codegen: unsupported statement kind %s", n.Kind)
	}
}

func returnTypeOf(cg *compiler, call *ast.Node) string {
	if call.DataType != "" {
		return call.DataType
	}
	return types.Void
}

func (fc *funcCtx) emitAssignment(buf *bytes.Buffer, n *ast.Node) error {
	target, value := n.Child(0), n.Child(1)

	if v, idx, ok := fc.localOf(target); ok {
		if err := fc.emitExpr(buf, value); err != nil {
			return err
		}
		_ = v
		writeByte(buf, opLocalSet)
		writeLEB128(buf, idx)
		return nil
	}
	if v := resolveVariable(fc.cg, target); v != nil {
		if !v.Mapped && v.Global {
			g := fc.cg.globalIdx[v.ID]
			if g == nil {
				return fmt.Errorf("codegen: global %q not registered", v.ID)
			}
			if err := fc.emitExpr(buf, value); err != nil {
				return err
			}
			writeByte(buf, opGlobalSet)
			writeLEB128(buf, g.index)
			return nil
		}
	}

	// Anything else is a memory-resident location: a mapped global, a
	// struct field, or a field reached through a chain of accesses.
	addrType, err := fc.emitAddress(buf, target)
	if err != nil {
		return err
	}
	if err := fc.emitExpr(buf, value); err != nil {
		return err
	}
	writeByte(buf, storeOpcode(addrType))
	writeMemArg(buf, addrType)
	return nil
}

// localOf reports whether n is a VariableID referring to a local
// (parameter or declared-in-body) variable, returning its symbol and
// local index.
func (fc *funcCtx) localOf(n *ast.Node) (*symbols.Variable, uint32, bool) {
	if n.Kind != ast.VariableID {
		return nil, 0, false
	}
	v := resolveVariable(fc.cg, n)
	if v == nil {
		return nil, 0, false
	}
	idx, ok := fc.localIndex[declNodeOf(v)]
	return v, idx, ok
}

// declNodeOf returns the VariableDef AST node a symbol was declared on,
// which is what localIndex is keyed by.
func declNodeOf(v *symbols.Variable) *ast.Node {
	if n, ok := v.Node.(*ast.Node); ok {
		return n
	}
	return nil
}

func resolveVariable(cg *compiler, n *ast.Node) *symbols.Variable {
	if n == nil || n.Scope == nil {
		return nil
	}
	return n.Scope.GetVariable(n.Token.Value)
}

// emitExpr pushes n's value onto the stack.
func (fc *funcCtx) emitExpr(buf *bytes.Buffer, n *ast.Node) error {
	switch n.Kind {
	case ast.Literal:
		emitLiteral(buf, n.DataType, n)
		return nil
	case ast.VariableID:
		return fc.emitVariableRead(buf, n)
	case ast.Access:
		return fc.emitAccessRead(buf, n)
	case ast.UnaryOp:
		return fc.emitUnary(buf, n)
	case ast.BinaryOp:
		return fc.emitBinary(buf, n)
	case ast.FunctionCall:
		return fc.emitCall(buf, n)
	default:
		return fmt.Errorf("codegen: unsupported expression kind %s", n.Kind)
	}
}

func emitLiteral(buf *bytes.Buffer, t string, n *ast.Node) {
	writeByte(buf, constOpcode(t))
	switch {
	case t == types.Bool:
		if n.Token.Value == "true" {
			writeLEB128Signed(buf, 1)
		} else {
			writeLEB128Signed(buf, 0)
		}
	case isFloatType(t):
		f, _ := strconv.ParseFloat(trimNumericSuffix(n.Token.Value), 64)
		if t == types.Double {
			writeBytes(buf, float64Bits(f))
		} else {
			writeBytes(buf, float32Bits(float32(f)))
		}
	case isI64Class(t):
		v, _ := strconv.ParseInt(trimNumericSuffix(n.Token.Value), 10, 64)
		writeLEB128Signed(buf, v)
	default:
		v, _ := strconv.ParseInt(trimNumericSuffix(n.Token.Value), 10, 64)
		writeLEB128Signed(buf, v)
	}
}

// trimNumericSuffix strips the lexer's u/l/ul/f/d numeric suffix so the
// remaining text parses as a plain number.
func trimNumericSuffix(s string) string {
	for _, suf := range []string{"ul", "u", "l", "f", "d"} {
		if len(s) > len(suf) && s[len(s)-len(suf):] == suf {
			allDigits := true
			for _, r := range s[:len(s)-len(suf)] {
				if (r < '0' || r > '9') && r != '.' {
					allDigits = false
					break
				}
			}
			if allDigits {
				return s[:len(s)-len(suf)]
			}
		}
	}
	return s
}

func (fc *funcCtx) emitVariableRead(buf *bytes.Buffer, n *ast.Node) error {
	if _, idx, ok := fc.localOf(n); ok {
		writeByte(buf, opLocalGet)
		writeLEB128(buf, idx)
		return nil
	}
	v := resolveVariable(fc.cg, n)
	if v == nil {
		return fmt.Errorf("codegen: unresolved variable %q", n.Token.Value)
	}
	if v.Global && !v.Mapped {
		g := fc.cg.globalIdx[v.ID]
		if g == nil {
			return fmt.Errorf("codegen: global %q not registered", v.ID)
		}
		writeByte(buf, opGlobalGet)
		writeLEB128(buf, g.index)
		return nil
	}
	// Mapped: a fixed linear-memory address.
	if types.IsPrimitive(v.Type) {
		writeByte(buf, constOpcode(types.Int))
		writeLEB128Signed(buf, int64(v.Offset))
		writeByte(buf, loadOpcode(v.Type))
		writeMemArg(buf, v.Type)
		return nil
	}
	// Struct-typed: its "value" is its address.
	writeByte(buf, constOpcode(types.Int))
	writeLEB128Signed(buf, int64(v.Offset))
	return nil
}

// emitAddress pushes the i32 memory address n refers to, for a struct-
// typed base, a mapped/global variable, or a field reached through an
// Access chain. Returns the primitive type stored at that address (used
// by the caller to select the right load/store opcode).
func (fc *funcCtx) emitAddress(buf *bytes.Buffer, n *ast.Node) (string, error) {
	switch n.Kind {
	case ast.VariableID:
		v := resolveVariable(fc.cg, n)
		if v == nil {
			return "", fmt.Errorf("codegen: unresolved variable %q", n.Token.Value)
		}
		if _, idx, ok := fc.localOf(n); ok && !types.IsPrimitive(v.Type) {
			// A struct-typed parameter/local already holds an address.
			writeByte(buf, opLocalGet)
			writeLEB128(buf, idx)
			return v.Type, nil
		}
		writeByte(buf, constOpcode(types.Int))
		writeLEB128Signed(buf, int64(v.Offset))
		return v.Type, nil
	case ast.Access:
		baseType, err := fc.emitAddress(buf, n.Child(0))
		if err != nil {
			return "", err
		}
		member := n.Child(1)
		offset, fieldType, ok := fieldOffset(fc.cg.root, baseType, member.Token.Value)
		if !ok {
			return "", fmt.Errorf("codegen: %q has no field %q", baseType, member.Token.Value)
		}
		if offset != 0 {
			writeByte(buf, constOpcode(types.Int))
			writeLEB128Signed(buf, int64(offset))
			writeByte(buf, 0x6A) // i32.add
		}
		return fieldType, nil
	default:
		return "", fmt.Errorf("codegen: %s is not an addressable location", n.Kind)
	}
}

func (fc *funcCtx) emitAccessRead(buf *bytes.Buffer, n *ast.Node) error {
	t, err := fc.emitAddress(buf, n)
	if err != nil {
		return err
	}
	if !types.IsPrimitive(t) {
		// A struct-typed field: its value IS the address just computed.
		return nil
	}
	writeByte(buf, loadOpcode(t))
	writeMemArg(buf, t)
	return nil
}

// writeMemArg writes the (align, offset) pair every Wasm memory
// instruction carries; offset is always 0 here because the full address
// is already computed and pushed on the stack.
func writeMemArg(buf *bytes.Buffer, t string) {
	align := byte(2)
	switch {
	case isI64Class(t) || t == types.Double:
		align = 3
	case t == types.Bool:
		align = 0
	}
	writeLEB128(buf, uint32(align))
	writeLEB128(buf, 0)
}

func (fc *funcCtx) emitUnary(buf *bytes.Buffer, n *ast.Node) error {
	operand := n.Child(0)
	t := n.DataType
	switch n.Token.Kind {
	case token.MINUS:
		if isFloatType(t) {
			if err := fc.emitExpr(buf, operand); err != nil {
				return err
			}
			if t == types.Double {
				writeByte(buf, 0x9A) // f64.neg
			} else {
				writeByte(buf, 0x8C) // f32.neg
			}
			return nil
		}
		// Integer negation: 0 - x.
		writeByte(buf, constOpcode(t))
		writeLEB128Signed(buf, 0)
		if err := fc.emitExpr(buf, operand); err != nil {
			return err
		}
		if isI64Class(t) {
			writeByte(buf, 0x7D) // i64.sub
		} else {
			writeByte(buf, 0x6B) // i32.sub
		}
		return nil
	case token.TILDE:
		if err := fc.emitExpr(buf, operand); err != nil {
			return err
		}
		writeByte(buf, constOpcode(t))
		writeLEB128Signed(buf, -1)
		if isI64Class(t) {
			writeByte(buf, 0x85) // i64.xor
		} else {
			writeByte(buf, 0x73) // i32.xor
		}
		return nil
	case token.BANG:
		if err := fc.emitExpr(buf, operand); err != nil {
			return err
		}
		writeByte(buf, 0x45) // i32.eqz
		return nil
	}
	return fmt.Errorf("codegen: unsupported unary operator %s", n.Token.Kind)
}

func (fc *funcCtx) emitBinary(buf *bytes.Buffer, n *ast.Node) error {
	left, right := n.Child(0), n.Child(1)

	if n.Token.Kind == token.KwAs || n.Token.Kind == token.KwTo {
		return fc.emitCast(buf, n)
	}
	if isLogicalOp(n.Token.Kind) {
		return fc.emitLogical(buf, n)
	}

	operandType := left.DataType
	if err := fc.emitExpr(buf, left); err != nil {
		return err
	}
	if err := fc.emitExpr(buf, right); err != nil {
		return err
	}
	opcode, ok := binaryOpcode(n.Token.Kind, operandType)
	if !ok {
		return fmt.Errorf("codegen: unsupported binary operator %s on %s", n.Token.Kind, operandType)
	}
	writeByte(buf, opcode)
	return nil
}

// emitLogical open-codes && and || with an i32.and/i32.or, since Schwa
// booleans always resolve to an i32 0/1 and the language has no
// short-circuiting control-flow AST kind for select to piggyback on.
func (fc *funcCtx) emitLogical(buf *bytes.Buffer, n *ast.Node) error {
	if err := fc.emitExpr(buf, n.Child(0)); err != nil {
		return err
	}
	if err := fc.emitExpr(buf, n.Child(1)); err != nil {
		return err
	}
	if n.Token.Kind == token.AND {
		writeByte(buf, 0x71) // i32.and
	} else {
		writeByte(buf, 0x72) // i32.or
	}
	return nil
}

// emitCast handles both `as` (value-preserving convert) and `to`
// (bit-reinterpret) operators. The exact opcode is looked up by
// (fromType, toType, isReinterpret), mirroring the semantic package's
// own asTable/toTable pairing. A `to` cast the analyzer accepted between
// types of different widths has no opcode and yields an "unsupported
// cast" error.
func (fc *funcCtx) emitCast(buf *bytes.Buffer, n *ast.Node) error {
	left := n.Child(0)
	toType := n.Child(1).Token.Value
	fromType := left.DataType
	if err := fc.emitExpr(buf, left); err != nil {
		return err
	}
	op, ok := castOpcode(fromType, toType, n.Token.Kind == token.KwTo)
	if !ok {
		return fmt.Errorf("codegen: unsupported cast %s %s %s", fromType, n.Token.Value, toType)
	}
	if op != 0 {
		writeByte(buf, op)
	}
	return nil
}

func (fc *funcCtx) emitCall(buf *bytes.Buffer, n *ast.Node) error {
	callee, args := n.Child(0), n.Child(1)
	if handled, err := fc.emitBuiltinCall(buf, callee, args); handled {
		return err
	}
	name := calleeName(callee)
	info := fc.cg.funcIndex[name]
	if info == nil {
		return fmt.Errorf("codegen: call to unregistered function %q", name)
	}
	for _, a := range args.Children {
		if err := fc.emitExpr(buf, a); err != nil {
			return err
		}
	}
	writeByte(buf, opCall)
	writeLEB128(buf, info.index)
	return nil
}

// calleeName reads the plain function name off a call's callee, which is
// either a bare FunctionID or the innermost FunctionID member of an
// Access chain (the parser retags whichever position that is via
// reinterpretAsCallee).
func calleeName(callee *ast.Node) string {
	if callee.Kind == ast.Access {
		return calleeName(callee.Child(1))
	}
	return callee.Token.Value
}
