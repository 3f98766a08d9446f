package vm

import (
	"strconv"
	"strings"

	"github.com/kelp-lang/kelp/source/env"
	"github.com/kelp-lang/kelp/source/opcode"
	"github.com/kelp-lang/kelp/source/report"
	"github.com/kelp-lang/kelp/source/token"
	"github.com/kelp-lang/kelp/source/value"
)

// Step advances the VM by exactly one instruction. It is a no-op once the
// VM is Stopped or has no frames left. Per spec.md §4.6's per-step try
// boundary, any catastrophic failure (slice bounds, nil dereference from
// a malformed constant reference) is recovered, surfaced as the VM's
// lastError, printed through the console, and transitions the VM to
// Stopped (§7 tier 3).
func (vm *VM) Step() {
	if vm.state == Stopped || len(vm.frames) == 0 {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			err := report.New("vm/catastrophic", token.Position{}, describePanic(r))
			err.Trace = vm.trace()
			vm.haltOn(err)
		}
	}()

	f := vm.curFrame()
	if f.pc >= len(f.code) {
		vm.Stop()
		return
	}

	op := opcode.Op(f.code[f.pc])
	f.pc++
	vm.exec(op, f)
}

// MultiStep runs up to n instructions, stopping early if the VM halts.
// This is the driver's update-tick batch (spec.md §5: "~160 bytecode
// instructions").
func (vm *VM) MultiStep(n int) {
	for i := 0; i < n; i++ {
		if vm.state == Stopped || len(vm.frames) == 0 {
			return
		}
		vm.Step()
	}
}

func (vm *VM) haltOn(err *report.Error) {
	vm.lastError = err
	vm.state = Stopped
	vm.frames = nil
	vm.console(err.Error())
}

func describePanic(r any) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	return "internal error"
}

// trace renders one line per live call frame, innermost first, naming the
// last instruction that frame executed before the panic — the tier-3
// diagnostic's call-frame trace (spec.md §7), built on opcode.Describe the
// same way the teacher's disassembler would report a crash site.
func (vm *VM) trace() []string {
	lines := make([]string, len(vm.frames))
	for i, f := range vm.frames {
		end := f.pc
		if end > len(f.code) {
			end = len(f.code)
		}
		disasm := strings.TrimRight(opcode.Describe(f.code[:end]), "\n")
		last := disasm
		if idx := strings.LastIndexByte(disasm, '\n'); idx >= 0 {
			last = disasm[idx+1:]
		}
		if last == "" {
			last = "<frame start>"
		}
		lines[len(vm.frames)-1-i] = "frame " + strconv.Itoa(len(vm.frames)-1-i) + ": " + last
	}
	return lines
}

func (vm *VM) readOperand(f *frame) int {
	v := f.code[f.pc]
	f.pc++
	return v
}

// exec dispatches a single decoded opcode, per spec.md §4.5's table.
func (vm *VM) exec(op opcode.Op, f *frame) {
	switch op {
	case opcode.GET_CONST:
		vm.push(vm.constants[vm.readOperand(f)])

	case opcode.DEF_VARIABLE:
		name := vm.constants[vm.readOperand(f)].AsString()
		v := vm.pop()
		top := vm.topEnv()
		if !top.Has(name) {
			top.Set(name, v)
		}

	case opcode.GET_VARIABLE:
		name := vm.constants[vm.readOperand(f)].AsString()
		vm.push(vm.lookupVar(name))

	case opcode.SET_VARIABLE:
		name := vm.constants[vm.readOperand(f)].AsString()
		v := vm.pop()
		vm.assignVar(name, v)

	case opcode.TRUE:
		vm.push(value.Bool(true))
	case opcode.FALSE:
		vm.push(value.Bool(false))
	case opcode.UNDEFINED:
		vm.push(value.Undefined)
	case opcode.POP:
		vm.pop()
	case opcode.DUP:
		top := vm.pop()
		vm.push(top)
		vm.push(top)

	case opcode.EQUAL:
		vm.binop(func(a, b value.Value) value.Value { return a.Eq(b) })
	case opcode.NOT_EQUAL:
		vm.binop(func(a, b value.Value) value.Value { return a.Neq(b) })
	case opcode.GREATER:
		vm.binop(func(a, b value.Value) value.Value { return a.Gt(b) })
	case opcode.GREATER_EQUAL:
		vm.binop(func(a, b value.Value) value.Value { return a.Gteq(b) })
	case opcode.LESS:
		vm.binop(func(a, b value.Value) value.Value { return a.Lt(b) })
	case opcode.LESS_EQUAL:
		vm.binop(func(a, b value.Value) value.Value { return a.Lteq(b) })
	case opcode.ADD:
		vm.binop(func(a, b value.Value) value.Value { return a.Add(b) })
	case opcode.SUB:
		vm.binop(func(a, b value.Value) value.Value { return a.Sub(b) })
	case opcode.MUL:
		vm.binop(func(a, b value.Value) value.Value { return a.Mul(b) })
	case opcode.DIV:
		vm.binop(func(a, b value.Value) value.Value { return a.Div(b) })
	case opcode.FLOOR_DIV:
		vm.binop(func(a, b value.Value) value.Value { return a.FDiv(b) })
	case opcode.MOD:
		vm.binop(func(a, b value.Value) value.Value { return a.Mod(b) })
	case opcode.DOT:
		vm.binop(func(a, b value.Value) value.Value { return a.Dot(b) })
	case opcode.IS:
		vm.binop(func(a, b value.Value) value.Value { return a.Is(b) })

	case opcode.AND:
		// spec.md §9: AND/OR pop both operands unconditionally before
		// short-circuiting via truthy(a) — a documented semantic, not true
		// short-circuit evaluation.
		b := vm.pop()
		a := vm.pop()
		if !a.Truthy() {
			vm.push(a)
		} else {
			vm.push(b)
		}
	case opcode.OR:
		b := vm.pop()
		a := vm.pop()
		if a.Truthy() {
			vm.push(a)
		} else {
			vm.push(b)
		}

	case opcode.NEGATE:
		vm.push(vm.pop().Negate())
	case opcode.NOT:
		vm.push(vm.pop().Not())

	case opcode.JUMP:
		off := vm.readOperand(f)
		f.pc += off
	case opcode.JUMP_IF_FALSE:
		off := vm.readOperand(f)
		c := vm.pop()
		if !c.Truthy() {
			f.pc += off
		}

	case opcode.CALL:
		n := vm.readOperand(f)
		i := vm.readOperand(f)
		vm.execCall(n, i)

	case opcode.RETURN:
		vm.execReturn()

	case opcode.IMPORT:
		name := vm.constants[vm.readOperand(f)].AsString()
		if lib, ok := vm.libraries[name]; ok {
			vm.topEnv().MergeFrom(lib)
		}

	default:
		panic("unhandled opcode " + op.String())
	}
}

func (vm *VM) binop(f func(a, b value.Value) value.Value) {
	b := vm.pop()
	a := vm.pop()
	vm.push(f(a, b))
}

// execCall implements CALL n,i: resolve the callee by name, then either
// invoke a NativeFunction synchronously or transfer into a Function's own
// code array.
func (vm *VM) execCall(n, i int) {
	name := vm.constants[i].AsString()
	callee := vm.lookupVar(name)

	switch callee.Kind {
	case value.KindNative:
		args := vm.popN(n)
		vm.push(callee.Call(args))

	case value.KindType:
		args := vm.popN(n)
		vm.push(callee.Call(args))

	case value.KindFunction:
		fn := callee.AsFunction()
		if len(fn.Params) != n {
			// spec.md §9: unwind the n already-evaluated args rather than
			// leaving the stack inconsistent.
			vm.popN(n)
			vm.push(value.Err(fn.Name + ": expected " + strconv.Itoa(len(fn.Params)) + " arguments, got " + strconv.Itoa(n)))
			return
		}

		callEnv := env.New()
		for _, param := range fn.Params {
			callEnv.Set(param, vm.pop())
		}

		pushed := vm.pushEnv(callEnv)
		vm.frames = append(vm.frames, &frame{code: fn.Code, envPushed: pushed})

	default:
		vm.popN(n)
		vm.push(value.Err(name + " is not callable"))
	}
}

// execReturn implements RETURN: the root frame simply stops the VM;
// any other frame pops its return value, its frame, and (if one was
// pushed) its environment, then pushes the return value for the caller.
func (vm *VM) execReturn() {
	if len(vm.frames) == 1 {
		vm.Stop()
		return
	}

	retval := vm.pop()
	finished := vm.frames[len(vm.frames)-1]
	vm.frames = vm.frames[:len(vm.frames)-1]
	if finished.envPushed {
		vm.popEnv()
	}
	vm.push(retval)
}
