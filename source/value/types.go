package value

import "strconv"

// BoolType, NumberType, StringType, and FunctionType are the four built-in
// casters spec.md §6 requires to exist as global Type values. Identity
// (already the target Kind) is handled by Value.Call before Cast ever
// runs; Cast only has to handle cross-variant coercion.

var BoolType = &TypeValue{Target: KindBool, Name: "bool", Cast: castToBool}
var NumberType = &TypeValue{Target: KindNumber, Name: "number", Cast: castToNumber}
var StringType = &TypeValue{Target: KindString, Name: "string", Cast: castToString}
var FunctionType = &TypeValue{Target: KindFunction, Name: "function", Cast: castToFunction}

func castToBool(v Value) Value {
	switch v.Kind {
	case KindNumber:
		return Bool(v.AsNumber() != 0)
	case KindString:
		switch v.AsString() {
		case "true":
			return Bool(true)
		case "false":
			return Bool(false)
		default:
			return Err("cannot cast \"" + v.AsString() + "\" to bool")
		}
	default:
		return Err("cannot cast " + v.Kind.String() + " to bool")
	}
}

func castToNumber(v Value) Value {
	switch v.Kind {
	case KindBool:
		if v.AsBool() {
			return Number(1)
		}
		return Number(0)
	case KindString:
		n, err := strconv.ParseFloat(v.AsString(), 64)
		if err != nil {
			return Err("cannot cast \"" + v.AsString() + "\" to number")
		}
		return Number(n)
	default:
		return Err("cannot cast " + v.Kind.String() + " to number")
	}
}

func castToString(v Value) Value {
	switch v.Kind {
	case KindNumber, KindBool, KindError, KindUndefined:
		return String(v.String())
	case KindFunction, KindNative, KindType:
		return String(v.String())
	default:
		return Err("cannot cast " + v.Kind.String() + " to string")
	}
}

func castToFunction(v Value) Value {
	return Err("cannot cast " + v.Kind.String() + " to function")
}
