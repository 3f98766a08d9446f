// Package test_helper holds a small table-driven testing utility used by
// the VM test suite.
//
// Grounded on the teacher's source/test_helper/test_helper.go (a
// TestItem{Input, Want} table plus a RunTest driving a per-case service);
// adapted to drive Kelp's Compile/VM entry points instead of a Pipefish
// service, since Kelp has no file-based "service" concept to initialize.
package test_helper

import (
	"testing"

	"github.com/kelp-lang/kelp/source/text"
)

// TestItem is one input/expected-output pair for a table-driven test.
type TestItem struct {
	Input string
	Want  string
}

// RunTest runs F against every test.Input and fails the test if the
// result doesn't match test.Want.
func RunTest(t *testing.T, tests []TestItem, F func(input string) (string, error)) {
	t.Helper()
	for _, test := range tests {
		got, err := F(test.Input)
		if err != nil {
			t.Fatalf(text.Red(test.Input)+": unexpected error: %v", err)
		}
		if got != test.Want {
			t.Fatalf("input %q: wanted %q, got %q", test.Input, test.Want, got)
		}
	}
}
