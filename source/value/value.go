// Package value implements the Kelp runtime value model: a closed sum of
// variants (spec.md §3) each supporting a uniform operation set (§4.1).
package value

// Kind discriminates the closed set of runtime value variants.
type Kind int

const (
	KindUndefined Kind = iota
	KindBool
	KindNumber
	KindString
	KindFunction
	KindNative
	KindType
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindNative:
		return "native function"
	case KindType:
		return "type"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Function is a user-defined Kelp function: a name, its parameter names in
// reverse source order (so CALL binds them by popping the arguments), and
// the bytecode array the compiler lifted out of the enclosing program for
// it (spec.md §4.4 "fun").
type Function struct {
	Name   string
	Params []string
	Code   []int
}

// NativeFunction wraps a host-provided Go callable. Arity is the number of
// arguments it requires, or -1 if it is variadic.
type NativeFunction struct {
	Name  string
	Arity int
	Fn    func(args []Value) Value
}

// TypeValue is a callable cast target: calling it attempts to coerce its
// single argument to Target, and Is reports whether a value already has
// that tag.
type TypeValue struct {
	Target Kind
	Name   string
	Cast   func(v Value) Value
}

// Value is the tagged union every Kelp runtime value is an instance of. V
// holds the Go representation appropriate to Kind: nil for Undefined, bool
// for Bool, float64 for Number, string for String and Error (the message),
// *Function, *NativeFunction, or *TypeValue.
type Value struct {
	Kind Kind
	V    any
}

// Constructors.

var Undefined = Value{Kind: KindUndefined}

func Bool(b bool) Value { return Value{Kind: KindBool, V: b} }

func Number(n float64) Value { return Value{Kind: KindNumber, V: n} }

func String(s string) Value { return Value{Kind: KindString, V: s} }

func Err(message string) Value { return Value{Kind: KindError, V: message} }

func Fn(f *Function) Value { return Value{Kind: KindFunction, V: f} }

func Native(f *NativeFunction) Value { return Value{Kind: KindNative, V: f} }

func TypeVal(t *TypeValue) Value { return Value{Kind: KindType, V: t} }

// Accessors panic if called against the wrong Kind; callers are expected
// to check Kind (or use the Value-returning operations below) first.

func (v Value) AsBool() bool       { return v.V.(bool) }
func (v Value) AsNumber() float64  { return v.V.(float64) }
func (v Value) AsString() string   { return v.V.(string) }
func (v Value) AsError() string    { return v.V.(string) }
func (v Value) AsFunction() *Function       { return v.V.(*Function) }
func (v Value) AsNative() *NativeFunction   { return v.V.(*NativeFunction) }
func (v Value) AsType() *TypeValue          { return v.V.(*TypeValue) }

// IsError reports whether v is the Error variant.
func (v Value) IsError() bool { return v.Kind == KindError }

// String renders v for console output (the `print` builtin, §6) and for
// Error.to_string() (§7).
func (v Value) String() string {
	switch v.Kind {
	case KindUndefined:
		return "undefined"
	case KindBool:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case KindNumber:
		return formatNumber(v.AsNumber())
	case KindString:
		return v.AsString()
	case KindFunction:
		return "<function " + v.AsFunction().Name + ">"
	case KindNative:
		return "<native function " + v.AsNative().Name + ">"
	case KindType:
		return "<type " + v.AsType().Name + ">"
	case KindError:
		return "Error: " + v.AsError()
	default:
		return "<unknown>"
	}
}
