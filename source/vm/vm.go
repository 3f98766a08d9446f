// Package vm implements the stack-based virtual machine described in
// spec.md §4.6: it executes the flat bytecode the compiler produces
// against a value stack, an environment stack, and a call-frame stack,
// and exposes a library registry host code populates before Load.
//
// Grounded on the teacher's source/vm package shape (one exhaustive
// opcode switch inside a fetch loop, a Describe-style disassembler) but
// built over a stack-and-environment model rather than the teacher's
// typed register file, since spec.md's VM is a different machine
// entirely.
package vm

import (
	"sync"

	"github.com/kelp-lang/kelp/source/compiler"
	"github.com/kelp-lang/kelp/source/env"
	"github.com/kelp-lang/kelp/source/report"
	"github.com/kelp-lang/kelp/source/value"
)

// maxValueStack and maxEnvStack are the resource quotas from spec.md §3/§5:
// both bounds are defensive, not fatal — a push past the bound is simply
// dropped and execution continues.
const (
	maxValueStack = 65536
	maxEnvStack   = 256
)

// State is the VM's run state, mirroring the load/run/pause/stop lifecycle
// of spec.md §4.6.
type State int

const (
	Stopped State = iota
	Paused
	Running
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Paused:
		return "paused"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// frame is one call-frame: a code array and the program counter into it.
// envPushed records whether CALL actually pushed a new Environment for
// this frame (it may not have, if the env stack was already at its
// quota), so RETURN knows whether to pop one back off.
type frame struct {
	code      []int
	pc        int
	envPushed bool
}

// VM is one instance of the Kelp virtual machine.
type VM struct {
	mu sync.Mutex // guards needsUpdate/needsDraw, set by a Driver goroutine

	stack  []value.Value
	envs   []*env.Environment
	frames []*frame

	constants []value.Value

	libraries map[string]*env.Environment

	state     State
	lastError *report.Error

	needsUpdate bool
	needsDraw   bool

	consoleFn func(string)
}

// New returns an idle VM with no program loaded.
func New() *VM {
	return &VM{libraries: make(map[string]*env.Environment)}
}

// AddLibrary registers a Library (spec.md §4.7: an Env of
// NativeFunctions) under name, reachable from user code via
// `(import name)`.
func (vm *VM) AddLibrary(name string, lib *env.Environment) {
	vm.libraries[name] = lib
}

// State reports the VM's current lifecycle state.
func (vm *VM) State() State { return vm.state }

// LastError reports the diagnostic that stopped the VM, or nil if it
// hasn't stopped on an error.
func (vm *VM) LastError() *report.Error { return vm.lastError }

// Load compiles source together with the kernel loop (spec.md §6) and
// resets the VM to a freshly seeded root frame and global environment.
// Built-in globals (§6) are installed into the global env; registered
// libraries are not auto-imported — only `(import ...)` merges them in.
func (vm *VM) Load(source string) error {
	constants, code, err := compiler.New(source + "\n" + kernelSource).Compile()
	if err != nil {
		return err
	}

	vm.constants = constants
	vm.stack = vm.stack[:0]

	root := env.New()
	installGlobals(root, vm)

	vm.envs = []*env.Environment{root}
	vm.frames = []*frame{{code: code}}
	vm.state = Paused
	vm.lastError = nil
	vm.needsUpdate = false
	vm.needsDraw = false
	return nil
}

// SetNeedsUpdate and SetNeedsDraw are called by a Driver (spec.md §5) on
// its update/draw ticks. Both flags are read-and-cleared by the
// corresponding native predicate the kernel polls every pass.
func (vm *VM) SetNeedsUpdate() {
	vm.mu.Lock()
	vm.needsUpdate = true
	vm.mu.Unlock()
}

func (vm *VM) SetNeedsDraw() {
	vm.mu.Lock()
	vm.needsDraw = true
	vm.mu.Unlock()
}

func (vm *VM) takeNeedsUpdate() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	v := vm.needsUpdate
	vm.needsUpdate = false
	return v
}

func (vm *VM) takeNeedsDraw() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	v := vm.needsDraw
	vm.needsDraw = false
	return v
}

// Run transitions a loaded, non-stopped VM to Running. It does not itself
// drive execution — a Driver (source/driver) calls Step/MultiStep.
func (vm *VM) Run() {
	if vm.state != Stopped {
		vm.state = Running
	}
}

// Pause halts driver-driven execution, leaving all state intact.
func (vm *VM) Pause() {
	if vm.state == Running {
		vm.state = Paused
	}
}

// Stop transitions to Stopped. Frames are discarded; Load is required
// before the VM can run again.
func (vm *VM) Stop() {
	vm.state = Stopped
	vm.frames = nil
}

func (vm *VM) push(v value.Value) {
	if len(vm.stack) < maxValueStack {
		vm.stack = append(vm.stack, v)
	}
}

func (vm *VM) pop() value.Value {
	if len(vm.stack) == 0 {
		return value.Undefined
	}
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

// popN pops n values off the stack and returns them in the order they
// were pushed (source/left-to-right order), per CALL's "pop n args
// (right-to-left)" wording in spec.md §4.5.
func (vm *VM) popN(n int) []value.Value {
	if n <= 0 {
		return nil
	}
	args := make([]value.Value, n)
	for i := n - 1; i >= 0; i-- {
		args[i] = vm.pop()
	}
	return args
}

func (vm *VM) pushEnv(e *env.Environment) bool {
	if len(vm.envs) >= maxEnvStack {
		return false
	}
	vm.envs = append(vm.envs, e)
	return true
}

func (vm *VM) popEnv() {
	if len(vm.envs) > 1 {
		vm.envs = vm.envs[:len(vm.envs)-1]
	}
}

func (vm *VM) topEnv() *env.Environment { return vm.envs[len(vm.envs)-1] }

func (vm *VM) curFrame() *frame { return vm.frames[len(vm.frames)-1] }

// lookupVar implements GET_VARIABLE's "find nearest env containing name"
// rule: scan the env stack from top to bottom.
func (vm *VM) lookupVar(name string) value.Value {
	for i := len(vm.envs) - 1; i >= 0; i-- {
		if vm.envs[i].Has(name) {
			return vm.envs[i].Get(name)
		}
	}
	return value.Undefined
}

// assignVar implements SET_VARIABLE's "assign in nearest enclosing env
// that has name, else define in top env" rule.
func (vm *VM) assignVar(name string, v value.Value) {
	for i := len(vm.envs) - 1; i >= 0; i-- {
		if vm.envs[i].Has(name) {
			vm.envs[i].Set(name, v)
			return
		}
	}
	vm.topEnv().Set(name, v)
}
