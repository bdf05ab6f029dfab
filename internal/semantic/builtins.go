package semantic

import "github.com/schwa-lang/schwa/internal/symbols"

// numericTypes is every primitive the memory load/store family and the
// integer/float utility families are registered under (spec §4.6).
var numericTypes = []string{
	"int", "uint", "long", "ulong", "float", "double",
}

var integerTypes = []string{"int", "uint", "long", "ulong"}
var floatTypes = []string{"float", "double"}

// narrowingLoads and narrowingStores are the sign/zero-extending memory
// access variants registered alongside the plain <type>.load/<type>.store
// pair, all sharing the owning type's load/store shape (spec §4.6).
var narrowingLoads = []string{
	"loadSByte", "loadShort", "loadByte", "loadUShort", "loadInt", "loadUInt",
}
var narrowingStores = []string{
	"storeSByte", "storeShort", "storeByte", "storeUShort", "storeInt", "storeUInt",
}

// injectBuiltins preloads the fixed builtin-function catalog into the root
// scope before any user code is analyzed, so it is visible from every
// scope in the tree regardless of source order (spec §4.6, testable
// property 4 "Builtin visibility"). Builtins are registered by dotted
// path: each path-prefix component becomes a nested named scope under
// root, and the final component is a Function record within it.
func (a *Analyzer) injectBuiltins() {
	a.root.AddFunction(builtinFunc("nop", "void"))

	for _, t := range numericTypes {
		scope := a.builtinTypeScope(t)

		scope.AddFunction(builtinFunc("load", t, param("addr", "uint")))
		scope.AddFunction(builtinFunc("store", "void", param("addr", "uint"), param("val", t)))

		for _, name := range narrowingLoads {
			scope.AddFunction(builtinFunc(name, t, param("addr", "uint")))
		}
		for _, name := range narrowingStores {
			scope.AddFunction(builtinFunc(name, "void", param("addr", "uint"), param("val", t)))
		}
	}

	for _, t := range integerTypes {
		scope := a.builtinTypeScope(t)
		scope.AddFunction(builtinFunc("clz", t, param("val", t)))
		scope.AddFunction(builtinFunc("ctz", t, param("val", t)))
		scope.AddFunction(builtinFunc("popcnt", t, param("val", t)))
		scope.AddFunction(builtinFunc("eqz", t, param("val", t)))
	}

	for _, t := range floatTypes {
		scope := a.builtinTypeScope(t)
		scope.AddFunction(builtinFunc("abs", t, param("val", t)))
		scope.AddFunction(builtinFunc("ceil", t, param("val", t)))
		scope.AddFunction(builtinFunc("floor", t, param("val", t)))
		scope.AddFunction(builtinFunc("truncate", t, param("val", t)))
		scope.AddFunction(builtinFunc("round", t, param("val", t)))
		scope.AddFunction(builtinFunc("sqrt", t, param("val", t)))
		scope.AddFunction(builtinFunc("copysign", t, param("a", t), param("b", t)))
		scope.AddFunction(builtinFunc("min", t, param("a", t), param("b", t)))
		scope.AddFunction(builtinFunc("max", t, param("a", t), param("b", t)))
	}
}

// builtinTypeScope returns (creating and registering on first use) the
// named nested scope under root that a primitive type's dotted-path
// builtins live in, e.g. "int" in "int.load".
func (a *Analyzer) builtinTypeScope(name string) *symbols.Scope {
	if s := a.root.GetScope(name); s != nil {
		return s
	}
	s := symbols.New(name, a.root, nil)
	a.root.AddScope(s)
	return s
}

func param(id, typeName string) *symbols.Variable {
	return &symbols.Variable{ID: id, Type: typeName}
}

func builtinFunc(id, returnType string, params ...*symbols.Variable) *symbols.Function {
	return &symbols.Function{ID: id, ReturnType: returnType, Params: params}
}
