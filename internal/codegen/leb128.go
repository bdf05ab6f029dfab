package codegen

import "bytes"

// writeByte, writeBytes, and the two writeLEB128 variants below hand-roll
// the handful of primitives the Wasm binary format needs; this package's
// section-emission style is grounded on a from-scratch Wasm emitter in
// the wider example pack that hand-rolls the same primitives rather than
// import a Wasm-authoring library — no example repo in the pack wires one
// in, so this is the one part of the driver pipeline that stays on raw
// byte-buffer plumbing rather than a third-party dependency.
func writeByte(buf *bytes.Buffer, b byte) {
	buf.WriteByte(b)
}

func writeBytes(buf *bytes.Buffer, data []byte) {
	buf.Write(data)
}

// writeLEB128 encodes val as unsigned LEB128, the varint form used
// throughout the Wasm binary format for section/vector lengths, type and
// function indices, and unsigned immediates.
func writeLEB128(buf *bytes.Buffer, val uint32) {
	for {
		b := byte(val & 0x7F)
		val >>= 7
		if val != 0 {
			b |= 0x80
		}
		buf.WriteByte(b)
		if val == 0 {
			break
		}
	}
}

// writeLEB128Signed encodes val as signed LEB128, used for i32.const/
// i64.const immediates.
func writeLEB128Signed(buf *bytes.Buffer, val int64) {
	more := true
	for more {
		b := byte(val & 0x7F)
		val >>= 7
		if (val == 0 && b&0x40 == 0) || (val == -1 && b&0x40 != 0) {
			more = false
		} else {
			b |= 0x80
		}
		buf.WriteByte(b)
	}
}

// writeName writes a Wasm "name": a LEB128 byte length followed by the
// UTF-8 bytes, used for import/export/custom-section identifiers.
func writeName(buf *bytes.Buffer, name string) {
	writeLEB128(buf, uint32(len(name)))
	writeBytes(buf, []byte(name))
}

// withLengthPrefix runs build against a scratch buffer, then appends the
// scratch buffer's byte length (LEB128) followed by its contents to buf —
// the "size-prefixed section/body" pattern every Wasm section and every
// function body in the code section uses.
func withLengthPrefix(buf *bytes.Buffer, build func(*bytes.Buffer)) {
	var scratch bytes.Buffer
	build(&scratch)
	writeLEB128(buf, uint32(scratch.Len()))
	writeBytes(buf, scratch.Bytes())
}
