package vm

import (
	"strings"

	"github.com/kelp-lang/kelp/source/env"
	"github.com/kelp-lang/kelp/source/value"
)

// installGlobals seeds the global env with the built-ins spec.md §6
// requires at load time: the four Type casters, the variadic `print`,
// and the two kernel-polled predicates.
func installGlobals(root *env.Environment, vm *VM) {
	root.Set("bool", value.TypeVal(value.BoolType))
	root.Set("number", value.TypeVal(value.NumberType))
	root.Set("string", value.TypeVal(value.StringType))
	root.Set("function", value.TypeVal(value.FunctionType))

	root.Set("print", value.Native(&value.NativeFunction{
		Name:  "print",
		Arity: -1,
		Fn: func(args []value.Value) value.Value {
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = a.String()
			}
			vm.console(strings.Join(parts, " "))
			return value.Undefined
		},
	}))

	root.Set("__needs_update", value.Native(&value.NativeFunction{
		Name:  "__needs_update",
		Arity: 0,
		Fn: func(args []value.Value) value.Value {
			return value.Bool(vm.takeNeedsUpdate())
		},
	}))

	root.Set("__needs_draw", value.Native(&value.NativeFunction{
		Name:  "__needs_draw",
		Arity: 0,
		Fn: func(args []value.Value) value.Value {
			return value.Bool(vm.takeNeedsDraw())
		},
	}))
}

// console is the VM's one I/O side effect: emitting a `print`ed line. A
// Hub/REPL host can redirect it via SetConsole; the zero value writes to
// the process's standard output.
func (vm *VM) console(line string) {
	if vm.consoleFn != nil {
		vm.consoleFn(line)
		return
	}
	defaultConsole(line)
}

// SetConsole redirects `print` output, letting a Hub capture a
// cartridge's console lines per-session instead of sharing stdout.
func (vm *VM) SetConsole(fn func(string)) {
	vm.consoleFn = fn
}
