// Package report holds the registry of short error identifiers the lexer,
// compiler, and VM attach to diagnostics, and renders them as host-facing
// "line:col: message" strings. Grounded on Pipefish's
// source/report/errorfile.go + errortype.go, cut down to a small set of
// identifiers for this toolchain's diagnostics. vm/arity-mismatch is
// registered but not raised: a Function arity mismatch at run time is a
// plain Error value (source/vm/step.go), not a report.Error.
package report

import "github.com/kelp-lang/kelp/source/token"

// Error is a diagnostic carrying an identifier (for programmatic
// matching/testing), a rendered message, a source position, and an
// optional call-frame trace (populated only for tier-3 runtime errors,
// §7).
type Error struct {
	ID      string
	Message string
	Pos     token.Position
	Trace   []string
}

func (e *Error) Error() string {
	s := e.Pos.String() + ": " + e.Message
	for _, frame := range e.Trace {
		s += "\n  at " + frame
	}
	return s
}

// templates maps each identifier this toolchain raises to a human
// readable message template. Lex and compile errors are constructed
// through New so every caller draws from the same registry instead of
// hand-writing prose at each call site.
var templates = map[string]string{
	"lex/unclosed-string":   "unclosed string literal",
	"lex/bad-escape":        "invalid escape sequence",
	"lex/bad-digit":         "invalid digit for this number base",
	"lex/bad-char":          "invalid character",
	"comp/unbalanced-paren": "unbalanced parenthesis",
	"comp/bad-atom":         "expected an expression",
	"comp/expected-ident":   "expected an identifier",
	"comp/expected-block":   "expected a block",
	"comp/unterminated":     "unterminated form",
	"comp/break-outside":    "break outside a loop",
	"comp/continue-outside": "continue outside a loop",
	"vm/arity-mismatch":     "wrong number of arguments",
	"vm/catastrophic":       "internal VM error",
}

// New builds an Error from a registered identifier. detail, if non-empty,
// is appended to the template ("unclosed string literal: " + detail).
func New(id string, pos token.Position, detail string) *Error {
	msg, ok := templates[id]
	if !ok {
		msg = id
	}
	if detail != "" {
		msg = msg + ": " + detail
	}
	return &Error{ID: id, Message: msg, Pos: pos}
}
