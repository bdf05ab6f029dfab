package codegen

import "github.com/schwa-lang/schwa/internal/types"

// primitiveSize reports the byte width of a primitive type name, or
// false for a struct name (whose size is the sum of its fields, see
// sizeOfDepth in codegen.go).
func primitiveSize(typeName string) (int, bool) {
	if !types.IsPrimitive(typeName) {
		return 0, false
	}
	return types.Size(typeName), true
}
