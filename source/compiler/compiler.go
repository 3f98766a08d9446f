// Package compiler implements the single-pass token-stream-to-bytecode
// compiler described in spec.md §4.4: it walks s-expressions emitted by
// the lexer and produces a constant pool plus a flat opcode array, with no
// intermediate AST.
package compiler

import (
	"github.com/kelp-lang/kelp/source/lexer"
	"github.com/kelp-lang/kelp/source/opcode"
	"github.com/kelp-lang/kelp/source/report"
	"github.com/kelp-lang/kelp/source/token"
	"github.com/kelp-lang/kelp/source/value"
)

// Compiler turns one source string into (constants, code). It is single-use:
// construct with New, call Compile once.
type Compiler struct {
	lex       *lexer.Lexer
	code      []int
	constants []value.Value
	interned  map[constKey]int
	loops     []*loopScope
}

type constKey struct {
	kind   value.Kind
	scalar any
}

// loopScope tracks the information needed to compile break/continue inside
// the body of one enclosing while loop.
type loopScope struct {
	condStart    int
	breakPatches []int
}

// New returns a Compiler reading from source.
func New(source string) *Compiler {
	return &Compiler{
		lex:      lexer.New(source),
		interned: make(map[constKey]int),
	}
}

// compileAbort unwinds the recursive descent to Compile's recover on the
// first compile error, per spec.md §7 ("the compiler stops at the first
// such error").
type compileAbort struct{ err *report.Error }

// fail raises a registered report.Error (source/report) and aborts the
// compile. id is a report registry key (e.g. "comp/unbalanced-paren");
// detail, if non-empty, is appended to the template's message.
func (c *Compiler) fail(id string, pos token.Position, detail string) {
	panic(compileAbort{report.New(id, pos, detail)})
}

// Compile reads the whole token stream and returns the constant pool and
// bytecode array. The returned code always ends in RETURN.
func (c *Compiler) Compile() (constants []value.Value, code []int, err error) {
	defer func() {
		if r := recover(); r != nil {
			abort, ok := r.(compileAbort)
			if !ok {
				panic(r)
			}
			err = abort.err
		}
	}()

	for c.lex.Peek().Type != token.EOF {
		c.compileSExpr()
	}
	c.emit(int(opcode.RETURN))
	return c.constants, c.code, nil
}

func (c *Compiler) emit(ints ...int) int {
	pos := len(c.code)
	c.code = append(c.code, ints...)
	return pos
}

// emitJump appends op followed by a placeholder operand and returns the
// operand's position, to be filled in later by patch.
func (c *Compiler) emitJump(op opcode.Op) int {
	c.code = append(c.code, int(op), 0)
	return len(c.code) - 1
}

// patch fills in a jump operand so that, per spec.md §4.4's jump-offset
// semantics (offsets are deltas from the position immediately after the
// operand), executing it lands the program counter at target.
func (c *Compiler) patch(operandPos, target int) {
	c.code[operandPos] = target - (operandPos + 1)
}

// internConst interns Number and String constants by (variant, scalar) so
// that equal primitive literals and equal identifier names share one slot
// — spec.md §9's resolution of the interning open question. Every other
// variant (chiefly Function) is appended fresh, matching §3's "Function
// values... are not required to intern."
func (c *Compiler) internConst(v value.Value) int {
	switch v.Kind {
	case value.KindNumber, value.KindString:
		key := constKey{kind: v.Kind, scalar: v.V}
		if idx, ok := c.interned[key]; ok {
			return idx
		}
		idx := len(c.constants)
		c.constants = append(c.constants, v)
		c.interned[key] = idx
		return idx
	default:
		idx := len(c.constants)
		c.constants = append(c.constants, v)
		return idx
	}
}

func (c *Compiler) internName(name string) int {
	return c.internConst(value.String(name))
}
