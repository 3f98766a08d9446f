// Package env implements the insertion-order-stable name→value mapping
// described in spec.md §3/§4.2. An Environment has no parent pointer of
// its own; lexical scope chaining is the VM's job (it holds a stack of
// Environments, spec.md §4.6), not this package's.
package env

import (
	"src.elv.sh/pkg/persistent/vector"

	"github.com/kelp-lang/kelp/source/value"
)

// Environment is one lexical scope: a flat map from identifier to Value,
// plus a persistent vector recording the order names were first defined
// in, so iteration and dumps are insertion-order-stable even though Go
// maps are not.
type Environment struct {
	values map[string]value.Value
	order  vector.Vector
}

// New returns an empty Environment.
func New() *Environment {
	return &Environment{
		values: make(map[string]value.Value),
		order:  vector.Empty,
	}
}

// Has reports whether name is bound directly in this Environment.
func (e *Environment) Has(name string) bool {
	_, ok := e.values[name]
	return ok
}

// Get returns the value bound to name, or Undefined if absent.
func (e *Environment) Get(name string) value.Value {
	if v, ok := e.values[name]; ok {
		return v
	}
	return value.Undefined
}

// Set inserts name→v if name is not yet bound, or overwrites its value if
// it is, preserving the original insertion position either way.
func (e *Environment) Set(name string, v value.Value) {
	if !e.Has(name) {
		e.order = e.order.Conj(name)
	}
	e.values[name] = v
}

// MergeFrom copies every binding of other into e, each taking e's
// insertion-order rules (new names appended, existing names overwritten
// in place). Used by IMPORT (spec.md §4.5) to merge a library's Env into
// the current top environment.
func (e *Environment) MergeFrom(other *Environment) {
	for i := 0; i < other.order.Len(); i++ {
		name, _ := other.order.Index(i)
		n := name.(string)
		e.Set(n, other.values[n])
	}
}

// Names returns the bound identifiers in insertion order.
func (e *Environment) Names() []string {
	names := make([]string, 0, e.order.Len())
	for i := 0; i < e.order.Len(); i++ {
		name, _ := e.order.Index(i)
		names = append(names, name.(string))
	}
	return names
}
