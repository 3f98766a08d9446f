package vm

import (
	"github.com/kelp-lang/kelp/source/env"
	"github.com/kelp-lang/kelp/source/value"
)

// newTestLib returns a minimal Library (spec.md §4.7: an Env of
// NativeFunctions) used to exercise IMPORT/AddLibrary.
func newTestLib() *env.Environment {
	lib := env.New()
	lib.Set("double", value.Native(&value.NativeFunction{
		Name:  "double",
		Arity: 1,
		Fn: func(args []value.Value) value.Value {
			return args[0].Mul(value.Number(2))
		},
	}))
	return lib
}
