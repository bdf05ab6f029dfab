package semantic

import (
	"github.com/schwa-lang/schwa/internal/symbols"
	"github.com/schwa-lang/schwa/internal/types"
)

// getSize returns the byte size of a named type: a primitive's fixed
// width, or a struct's recursive field sum. Cyclic struct definitions
// (a field whose type is, transitively, the struct itself) are guarded
// by maxStructDepth — past that depth getSize reports 0 rather than
// recursing forever (spec §3 invariant 7, §4.4).
func (a *Analyzer) getSize(typeName string, scope *symbols.Scope) int {
	return a.getSizeDepth(typeName, scope, 0)
}

func (a *Analyzer) getSizeDepth(typeName string, scope *symbols.Scope, depth int) int {
	if types.IsPrimitive(typeName) {
		return types.Size(typeName)
	}
	if depth >= maxStructDepth {
		return 0
	}
	st := scope.GetStruct(typeName)
	if st == nil {
		return 0
	}
	total := 0
	for _, f := range st.Fields {
		total += a.getSizeDepth(f.Type, scope, depth+1)
	}
	return total
}

// makeStructScope lazily builds the per-instance field scope for a
// struct-typed variable: one Variable per struct field, each copying the
// field's declared type but with Offset computed relative to v's own
// Offset instead of starting at zero, so member access on a mapped
// struct variable resolves to the correct absolute byte offset (spec
// §4.3, §4.4 "field offsets accumulate from the parent variable's own
// offset").
func (a *Analyzer) makeStructScope(v *symbols.Variable, parent *symbols.Scope) *symbols.Scope {
	if cached, ok := a.structScopes[v]; ok {
		return cached
	}
	st := parent.GetStruct(v.Type)
	if st == nil {
		return nil
	}
	scope := symbols.New(v.Type, parent, v.Node)
	offset := v.Offset
	for _, f := range st.Fields {
		fv := &symbols.Variable{
			ID:     f.ID,
			Type:   f.Type,
			Scope:  scope,
			Node:   f.Node,
			Offset: offset,
			Global: v.Global,
			Mapped: v.Mapped,
		}
		scope.AddVariable(fv)
		offset += a.getSize(f.Type, parent)
	}
	a.structScopes[v] = scope
	return scope
}
