package compiler

import (
	"strings"

	"github.com/kelp-lang/kelp/source/opcode"
	"github.com/kelp-lang/kelp/source/token"
	"github.com/kelp-lang/kelp/source/value"
)

// binaryOps covers every head token that compiles as "(op A B) -> compile
// A, compile B, emit opcode" per spec.md §4.4's table. `and`/`or` are
// added to this table even though the table's prose list omits them:
// AND/OR are real opcodes (§4.5) with no other grammar row that could ever
// reach them, so they are wired here the same way `is` is.
var binaryOps = map[token.Type]opcode.Op{
	token.PLUS:    opcode.ADD,
	token.STAR:    opcode.MUL,
	token.SLASH:   opcode.DIV,
	token.FSLASH:  opcode.FLOOR_DIV,
	token.PERCENT: opcode.MOD,
	token.DOT:     opcode.DOT,
	token.EQ:      opcode.EQUAL,
	token.NOT_EQ:  opcode.NOT_EQUAL,
	token.LT:      opcode.LESS,
	token.LT_EQ:   opcode.LESS_EQUAL,
	token.GT:      opcode.GREATER,
	token.GT_EQ:   opcode.GREATER_EQUAL,
	token.KW_IS:   opcode.IS,
	token.KW_AND:  opcode.AND,
	token.KW_OR:   opcode.OR,
}

// compoundOps covers "(op VAR A) -> emit GET_VARIABLE var, compile A, emit
// op, emit SET_VARIABLE var".
var compoundOps = map[token.Type]opcode.Op{
	token.PLUS_EQ:    opcode.ADD,
	token.MINUS_EQ:   opcode.SUB,
	token.STAR_EQ:    opcode.MUL,
	token.SLASH_EQ:   opcode.DIV,
	token.FSLASH_EQ:  opcode.FLOOR_DIV,
	token.PERCENT_EQ: opcode.MOD,
}

// compileSExpr compiles one s-expression at the current lexer position:
// an atom, or a parenthesized form.
func (c *Compiler) compileSExpr() {
	tok := c.lex.Next()
	switch tok.Type {
	case token.LPAREN:
		c.compileParen()
		closing := c.lex.Next()
		if closing.Type != token.RPAREN {
			c.fail("comp/unterminated", closing.Pos, "expected closing )")
		}
	case token.IDENT:
		c.emit(int(opcode.GET_VARIABLE), c.internName(tok.Raw))
	case token.NUMBER:
		c.emit(int(opcode.GET_CONST), c.internConst(value.Number(tok.Num)))
	case token.STRING:
		c.emit(int(opcode.GET_CONST), c.internConst(value.String(tok.Str)))
	case token.KW_TRUE:
		c.emit(int(opcode.TRUE))
	case token.KW_FALSE:
		c.emit(int(opcode.FALSE))
	case token.KW_UNDEFINED:
		c.emit(int(opcode.UNDEFINED))
	case token.ERROR:
		id := "lex/bad-char"
		switch {
		case tok.Str == "unclosed string":
			id = "lex/unclosed-string"
		case strings.HasSuffix(tok.Str, " escape"):
			id = "lex/bad-escape"
		case strings.HasPrefix(tok.Str, "invalid number literal"), strings.HasPrefix(tok.Str, "invalid digit"):
			id = "lex/bad-digit"
		}
		c.fail(id, tok.Pos, tok.Str)
	default:
		c.fail("comp/bad-atom", tok.Pos, "got "+string(tok.Type))
	}
}

// compileParen compiles the inside of a "(...)" form, dispatching on its
// head token. It does not consume the closing ")"; the caller does.
func (c *Compiler) compileParen() {
	head := c.lex.Next()

	switch head.Type {
	case token.RPAREN:
		c.fail("comp/unbalanced-paren", head.Pos, "")
	case token.MINUS:
		c.compileSExpr()
		if c.lex.Peek().Type == token.RPAREN {
			c.emit(int(opcode.NEGATE))
		} else {
			c.compileSExpr()
			c.emit(int(opcode.SUB))
		}
	case token.BANG:
		c.compileSExpr()
		c.emit(int(opcode.NOT))
	case token.ASSIGN:
		c.compileAssign(head.Pos)
	case token.IDENT:
		c.compileCall(head)
	case token.KW_LET, token.KW_CONST:
		c.compileLet(head.Pos)
	case token.KW_IF:
		c.compileIf()
	case token.KW_WHILE:
		c.compileWhile()
	case token.KW_FUN:
		c.compileFun()
	case token.KW_IMPORT:
		c.compileImport(head.Pos)
	case token.KW_RETURN:
		c.compileReturn()
	case token.KW_BREAK:
		c.compileBreak(head.Pos)
	case token.KW_CONTINUE:
		c.compileContinue(head.Pos)
	default:
		if op, ok := compoundOps[head.Type]; ok {
			c.compileCompoundAssign(head.Pos, op)
			return
		}
		if op, ok := binaryOps[head.Type]; ok {
			c.compileSExpr()
			c.compileSExpr()
			c.emit(int(op))
			return
		}
		c.fail("comp/bad-atom", head.Pos, "unexpected form head "+string(head.Type))
	}
}

func (c *Compiler) expectIdent(what string) token.Token {
	tok := c.lex.Next()
	if tok.Type != token.IDENT {
		c.fail("comp/expected-ident", tok.Pos, "expected "+what+", got "+string(tok.Type))
	}
	return tok
}

func (c *Compiler) compileAssign(pos token.Position) {
	nameTok := c.expectIdent("variable name")
	c.compileSExpr()
	c.emit(int(opcode.SET_VARIABLE), c.internName(nameTok.Raw))
}

func (c *Compiler) compileCompoundAssign(pos token.Position, op opcode.Op) {
	nameTok := c.expectIdent("variable name")
	idx := c.internName(nameTok.Raw)
	c.emit(int(opcode.GET_VARIABLE), idx)
	c.compileSExpr()
	c.emit(int(op))
	c.emit(int(opcode.SET_VARIABLE), idx)
}

func (c *Compiler) compileLet(pos token.Position) {
	nameTok := c.expectIdent("variable name")
	c.compileSExpr()
	c.emit(int(opcode.DEF_VARIABLE), c.internName(nameTok.Raw))
}

// compileCall compiles "(name arg*)": each arg left-to-right, then CALL.
func (c *Compiler) compileCall(name token.Token) {
	idx := c.internName(name.Raw)
	argc := 0
	for {
		peeked := c.lex.Peek()
		if peeked.Type == token.RPAREN {
			break
		}
		if peeked.Type == token.EOF {
			c.fail("comp/unterminated", peeked.Pos, "call to "+name.Raw)
		}
		c.compileSExpr()
		argc++
	}
	c.emit(int(opcode.CALL), argc, idx)
}

// compileBlock compiles "(s-expr*)": its own opening and closing paren,
// wrapping a sequence of s-expressions.
func (c *Compiler) compileBlock() {
	open := c.lex.Next()
	if open.Type != token.LPAREN {
		c.fail("comp/expected-block", open.Pos, "")
	}
	for {
		peeked := c.lex.Peek()
		if peeked.Type == token.RPAREN {
			break
		}
		if peeked.Type == token.EOF {
			c.fail("comp/unterminated", peeked.Pos, "block")
		}
		c.compileSExpr()
	}
	c.lex.Next() // consume the block's closing )
}

// compileIf implements spec.md §4.4's if patch arithmetic, restated with
// self-consistent offsets: JUMP_IF_FALSE skips the true block (and, when
// present, the jump that skips the else block); the trailing JUMP (when
// present) lands after the else block.
func (c *Compiler) compileIf() {
	c.compileSExpr() // COND
	p1 := c.emitJump(opcode.JUMP_IF_FALSE)
	c.compileBlock() // TRUE_BLOCK

	if c.lex.Peek().Type == token.LPAREN {
		p2 := c.emitJump(opcode.JUMP)
		c.patch(p1, len(c.code))
		c.compileBlock() // ELSE_BLOCK
		c.patch(p2, len(c.code))
	} else {
		c.patch(p1, len(c.code))
	}
}

// compileWhile implements the while loop, wiring break/continue through a
// loopScope so nested forms inside BODY_BLOCK can reach them.
func (c *Compiler) compileWhile() {
	scope := &loopScope{condStart: len(c.code)}
	c.loops = append(c.loops, scope)

	c.compileSExpr() // COND
	p := c.emitJump(opcode.JUMP_IF_FALSE)
	c.compileBlock() // BODY_BLOCK
	back := c.emitJump(opcode.JUMP)
	c.patch(back, scope.condStart)
	c.patch(p, len(c.code))

	for _, bp := range scope.breakPatches {
		c.patch(bp, len(c.code))
	}
	c.loops = c.loops[:len(c.loops)-1]
}

func (c *Compiler) compileBreak(pos token.Position) {
	if len(c.loops) == 0 {
		c.fail("comp/break-outside", pos, "")
	}
	p := c.emitJump(opcode.JUMP)
	scope := c.loops[len(c.loops)-1]
	scope.breakPatches = append(scope.breakPatches, p)
}

func (c *Compiler) compileContinue(pos token.Position) {
	if len(c.loops) == 0 {
		c.fail("comp/continue-outside", pos, "")
	}
	scope := c.loops[len(c.loops)-1]
	p := c.emitJump(opcode.JUMP)
	c.patch(p, scope.condStart)
}

// compileReturn compiles `return` as a dedicated flow-control form per
// spec.md §9's resolution of the open question (the E2E scenario in §8
// requires functions to be able to return explicitly). `(return)` with no
// argument returns Undefined.
func (c *Compiler) compileReturn() {
	if c.lex.Peek().Type == token.RPAREN {
		c.emit(int(opcode.UNDEFINED))
	} else {
		c.compileSExpr()
	}
	c.emit(int(opcode.RETURN))
}

// compileFun implements spec.md §4.4's fun rule: the body is compiled into
// the main code array, then sliced out into its own array so Function
// values carry independently addressable code.
func (c *Compiler) compileFun() {
	nameTok := c.expectIdent("function name")

	open := c.lex.Next()
	if open.Type != token.LPAREN {
		c.fail("comp/expected-block", open.Pos, "parameter list")
	}
	var params []string
	for c.lex.Peek().Type != token.RPAREN {
		p := c.expectIdent("parameter name")
		params = append(params, p.Raw)
	}
	c.lex.Next() // consume )

	fp := len(c.code)
	c.compileBlock() // BODY_BLOCK
	body := append([]int(nil), c.code[fp:]...)
	c.code = c.code[:fp]
	body = append(body, int(opcode.RETURN))

	for i, j := 0, len(params)-1; i < j; i, j = i+1, j-1 {
		params[i], params[j] = params[j], params[i]
	}

	fn := &value.Function{Name: nameTok.Raw, Params: params, Code: body}
	fnIdx := c.internConst(value.Fn(fn))
	c.emit(int(opcode.GET_CONST), fnIdx)
	c.emit(int(opcode.DEF_VARIABLE), c.internName(nameTok.Raw))
}

func (c *Compiler) compileImport(pos token.Position) {
	nameTok := c.expectIdent("module name")
	c.emit(int(opcode.IMPORT), c.internName(nameTok.Raw))
}
