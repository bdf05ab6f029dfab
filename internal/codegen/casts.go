package codegen

import "github.com/schwa-lang/schwa/internal/types"

// castOpcode returns the Wasm instruction implementing a Schwa `as`
// (value-preserving convert) or `to` (bit reinterpret) cast between two
// primitive types, mirroring the shape of internal/semantic's asTable/
// toTable. Every `as` pair the analyzer accepts has an entry here; for
// `to`, only the same-width integer<->float pairs (int/uint<->float,
// long/ulong<->double) do, and any other pair returns ok=false.
//
// An opcode of 0 with ok=true means the two types already share a
// representation (e.g. int<->uint, long<->ulong) and the cast is a
// no-op at the bit level.
func castOpcode(from, to string, reinterpret bool) (byte, bool) {
	if from == to {
		return 0, true
	}
	if reinterpret {
		return reinterpretOpcode(from, to)
	}
	return convertOpcode(from, to)
}

func reinterpretOpcode(from, to string) (byte, bool) {
	switch {
	case from == types.Int && to == types.Float, from == types.Uint && to == types.Float:
		return 0xBE, true // f32.reinterpret_i32
	case from == types.Float && (to == types.Int || to == types.Uint):
		return 0xBC, true // i32.reinterpret_f32
	case from == types.Long && to == types.Double, from == types.Ulong && to == types.Double:
		return 0xBF, true // f64.reinterpret_i64
	case from == types.Double && (to == types.Long || to == types.Ulong):
		return 0xBD, true // i64.reinterpret_f64
	case from == types.Int && to == types.Uint, from == types.Uint && to == types.Int:
		return 0, true
	case from == types.Long && to == types.Ulong, from == types.Ulong && to == types.Long:
		return 0, true
	}
	return 0, false
}

func convertOpcode(from, to string) (byte, bool) {
	switch {
	// Widening between the two integer word sizes.
	case from == types.Int && to == types.Long:
		return 0xAC, true // i64.extend_i32_s
	case from == types.Uint && (to == types.Long || to == types.Ulong):
		return 0xAD, true // i64.extend_i32_u
	case from == types.Int && to == types.Ulong:
		return 0xAC, true
	case (from == types.Long || from == types.Ulong) && to == types.Int:
		return 0xA7, true // i32.wrap_i64
	case (from == types.Long || from == types.Ulong) && to == types.Uint:
		return 0xA7, true

	// Integer <-> float, per source signedness.
	case from == types.Int && to == types.Float:
		return 0xB2, true // f32.convert_i32_s
	case from == types.Uint && to == types.Float:
		return 0xB3, true // f32.convert_i32_u
	case from == types.Int && to == types.Double:
		return 0xB7, true // f64.convert_i32_s
	case from == types.Uint && to == types.Double:
		return 0xB8, true // f64.convert_i32_u
	case from == types.Long && to == types.Float:
		return 0xB4, true // f32.convert_i64_s
	case from == types.Ulong && to == types.Float:
		return 0xB5, true // f32.convert_i64_u
	case from == types.Long && to == types.Double:
		return 0xB9, true // f64.convert_i64_s
	case from == types.Ulong && to == types.Double:
		return 0xBA, true // f64.convert_i64_u

	case from == types.Float && to == types.Int:
		return 0xA8, true // i32.trunc_f32_s
	case from == types.Float && to == types.Uint:
		return 0xA9, true // i32.trunc_f32_u
	case from == types.Double && to == types.Int:
		return 0xAA, true // i32.trunc_f64_s
	case from == types.Double && to == types.Uint:
		return 0xAB, true // i32.trunc_f64_u
	case from == types.Float && to == types.Long:
		return 0xAE, true // i64.trunc_f32_s
	case from == types.Float && to == types.Ulong:
		return 0xAF, true // i64.trunc_f32_u
	case from == types.Double && to == types.Long:
		return 0xB0, true // i64.trunc_f64_s
	case from == types.Double && to == types.Ulong:
		return 0xB1, true // i64.trunc_f64_u

	// Float <-> double.
	case from == types.Float && to == types.Double:
		return 0xBB, true // f64.promote_f32
	case from == types.Double && to == types.Float:
		return 0xB6, true // f32.demote_f64

	// Same-width sign changes: bit pattern is unchanged.
	case from == types.Int && to == types.Uint, from == types.Uint && to == types.Int:
		return 0, true
	case from == types.Long && to == types.Ulong, from == types.Ulong && to == types.Long:
		return 0, true
	}
	return 0, false
}
