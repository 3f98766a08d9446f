package vm

import (
	"strings"
	"testing"

	"github.com/kelp-lang/kelp/source/test_helper"
)

// TestPrintExpressionTable exercises a table of small programs through
// test_helper.RunTest, each expected to print a single line.
func TestPrintExpressionTable(t *testing.T) {
	tests := []test_helper.TestItem{
		{Input: `(print (+ 2 2))`, Want: "4"},
		{Input: `(print (* 3 3))`, Want: "9"},
		{Input: `(print (> 5 2))`, Want: "true"},
		{Input: `(print (. "hello" 0))`, Want: "h"},
	}
	test_helper.RunTest(t, tests, func(input string) (string, error) {
		lines := runCapture(t, input, 1000)
		return strings.Join(lines, "\n"), nil
	})
}
