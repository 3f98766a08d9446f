package value

import (
	"math"
	"strconv"
)

// unsupported is the default for any operation/variant combination spec.md
// §4.1 doesn't define: "any unsupported combination returns an Error value
// rather than aborting."
func unsupported(op string, a, b Value) Value {
	if b.Kind == KindUndefined && op != "" {
		return Err(op + " not defined for " + a.Kind.String())
	}
	return Err(op + " not defined for " + a.Kind.String() + " and " + b.Kind.String())
}

// Truthy reports whether v counts as true when used as a branch condition.
// Error values are falsey (spec.md §7 tier 2): "if the VM uses one as a
// branch condition, it is treated as falsey."
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindBool:
		return v.AsBool()
	case KindError:
		return false
	case KindUndefined:
		return false
	default:
		return true
	}
}

func (v Value) Not() Value {
	if v.Kind == KindBool {
		return Bool(!v.AsBool())
	}
	return unsupported("not", v, Value{})
}

func (v Value) Negate() Value {
	if v.Kind == KindNumber {
		return Number(-v.AsNumber())
	}
	return unsupported("negate", v, Value{})
}

func (v Value) Add(w Value) Value {
	switch v.Kind {
	case KindNumber:
		if w.Kind == KindNumber {
			return Number(v.AsNumber() + w.AsNumber())
		}
	case KindString:
		if w.Kind == KindString {
			return String(v.AsString() + w.AsString())
		}
	}
	return unsupported("add", v, w)
}

func (v Value) Sub(w Value) Value {
	if v.Kind == KindNumber && w.Kind == KindNumber {
		return Number(v.AsNumber() - w.AsNumber())
	}
	return unsupported("sub", v, w)
}

func (v Value) Mul(w Value) Value {
	if v.Kind == KindNumber && w.Kind == KindNumber {
		return Number(v.AsNumber() * w.AsNumber())
	}
	if v.Kind == KindNumber && w.Kind == KindString {
		return String(repeatString(w.AsString(), v.AsNumber()))
	}
	if v.Kind == KindString && w.Kind == KindNumber {
		return String(repeatString(v.AsString(), w.AsNumber()))
	}
	return unsupported("mul", v, w)
}

func repeatString(s string, n float64) string {
	count := int(n)
	if count <= 0 {
		return ""
	}
	out := make([]byte, 0, len(s)*count)
	for i := 0; i < count; i++ {
		out = append(out, s...)
	}
	return string(out)
}

func (v Value) Div(w Value) Value {
	if v.Kind == KindNumber && w.Kind == KindNumber {
		if w.AsNumber() == 0 {
			return Err("division by zero")
		}
		return Number(v.AsNumber() / w.AsNumber())
	}
	return unsupported("div", v, w)
}

func (v Value) FDiv(w Value) Value {
	if v.Kind == KindNumber && w.Kind == KindNumber {
		if w.AsNumber() == 0 {
			return Err("division by zero")
		}
		return Number(math.Floor(v.AsNumber() / w.AsNumber()))
	}
	return unsupported("fdiv", v, w)
}

func (v Value) Mod(w Value) Value {
	if v.Kind == KindNumber && w.Kind == KindNumber {
		if w.AsNumber() == 0 {
			return Err("division by zero")
		}
		return Number(math.Mod(v.AsNumber(), w.AsNumber()))
	}
	return unsupported("mod", v, w)
}

func (v Value) Eq(w Value) Value {
	if v.Kind != w.Kind {
		return Bool(false)
	}
	switch v.Kind {
	case KindBool:
		return Bool(v.AsBool() == w.AsBool())
	case KindNumber:
		return Bool(v.AsNumber() == w.AsNumber())
	case KindString:
		return Bool(v.AsString() == w.AsString())
	case KindUndefined:
		return Bool(true)
	case KindType:
		return Bool(v.AsType().Target == w.AsType().Target)
	case KindFunction:
		return Bool(v.AsFunction() == w.AsFunction())
	case KindNative:
		return Bool(v.AsNative() == w.AsNative())
	case KindError:
		return Bool(v.AsError() == w.AsError())
	default:
		return Bool(false)
	}
}

func (v Value) Neq(w Value) Value {
	eq := v.Eq(w)
	if eq.IsError() {
		return eq
	}
	return eq.Not()
}

func (v Value) Lt(w Value) Value {
	if v.Kind == KindNumber && w.Kind == KindNumber {
		return Bool(v.AsNumber() < w.AsNumber())
	}
	if v.Kind == KindString && w.Kind == KindString {
		return Bool(v.AsString() < w.AsString())
	}
	return unsupported("lt", v, w)
}

func (v Value) Gt(w Value) Value {
	if v.Kind == KindNumber && w.Kind == KindNumber {
		return Bool(v.AsNumber() > w.AsNumber())
	}
	if v.Kind == KindString && w.Kind == KindString {
		return Bool(v.AsString() > w.AsString())
	}
	return unsupported("gt", v, w)
}

func (v Value) Lteq(w Value) Value {
	gt := v.Gt(w)
	if gt.IsError() {
		return gt
	}
	return gt.Not()
}

func (v Value) Gteq(w Value) Value {
	lt := v.Lt(w)
	if lt.IsError() {
		return lt
	}
	return lt.Not()
}

// Is implements the `is` operator: Bool(variant tag of v equals target
// Kind) when v is a Type, Error otherwise (only Type supports Is per
// spec.md §4.1).
func (v Value) Is(w Value) Value {
	if v.Kind != KindType {
		return unsupported("is", v, w)
	}
	return Bool(w.Kind == v.AsType().Target)
}

// Dot implements member/index access: String.Dot(Number) is character
// indexing (spec.md §4.1).
func (v Value) Dot(w Value) Value {
	if v.Kind == KindString && w.Kind == KindNumber {
		s := v.AsString()
		i := int(w.AsNumber())
		if i < 0 || i >= len(s) {
			return Err("index out of bounds")
		}
		return String(string(s[i]))
	}
	return unsupported("dot", v, w)
}

// Call implements direct calls on values that support being called
// outside of the CALL opcode's own Function-transfer path: NativeFunction
// dispatch and Type casts.
func (v Value) Call(args []Value) Value {
	switch v.Kind {
	case KindNative:
		nf := v.AsNative()
		if nf.Arity >= 0 && len(args) != nf.Arity {
			return Err(nf.Name + ": expected " + strconv.Itoa(nf.Arity) + " arguments, got " + strconv.Itoa(len(args)))
		}
		return nf.Fn(args)
	case KindType:
		t := v.AsType()
		if len(args) == 0 {
			return Err(t.Name + ": cast requires one argument")
		}
		if args[0].Kind == t.Target {
			return args[0]
		}
		return t.Cast(args[0])
	default:
		return unsupported("call", v, Value{})
	}
}
