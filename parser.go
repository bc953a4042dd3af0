// parser.go — recursive-descent parser with precedence climbing.
//
// OVERVIEW
// --------
// The parser consumes the token slice produced by lexer.go and builds
// a Program: an ordered list of statements. It is a single pass with
// 1–2 token lookahead and no error recovery; the first malformed
// sequence aborts with a *ParseError.
//
// Statements:
//
//	name = expr          binding (global)
//	expr                 expression statement
//	// text              comment (kept in the AST)
//	<eof>                end-of-input marker
//
// Expressions climb four precedence levels, lowest first:
//
//	Lowest < Sum(+ -) < Product(* /) < Bitwise(& |) < Call
//
// Binary operators fold left-to-right: after consuming an operator at
// level L the right operand is parsed *at level L*, so a following
// operator of the same level is not absorbed into the right side and
// `10-3-2` becomes `(10-3)-2`.
//
// Parentheses are application, never grouping. A '(' parses its
// content at Call precedence — no binary operator can be absorbed
// inside — then the whole expression after ')' (at Lowest) becomes the
// argument:
//
//	(f) a + b        Application{f, a+b}
//	((f) a) b        curried two-argument call
//	(2 + 3)          parse error: '+' cannot appear inside '( )'
//
// Call exists only as the internal threshold for that rule; no token
// maps to it.
package lambda

import (
	"fmt"
	"strconv"
)

// Program is an ordered sequence of statements, immutable once built.
type Program struct {
	Statements []Statement
}

// Statement is one of Binding, ExpressionStmt, Comment, EndOfInput.
type Statement interface{ stmtNode() }

// Binding declares or overwrites a global name.
type Binding struct {
	Name  string
	Value Expr
}

// ExpressionStmt is a standalone expression evaluated for its value.
type ExpressionStmt struct {
	Expr Expr
}

// Comment carries a source comment through the AST; it evaluates to
// the unit value.
type Comment struct {
	Text string
}

// EndOfInput terminates the program; it evaluates to the unit value.
type EndOfInput struct{}

func (*Binding) stmtNode()        {}
func (*ExpressionStmt) stmtNode() {}
func (*Comment) stmtNode()        {}
func (*EndOfInput) stmtNode()     {}

// Expr is the expression tree. Trees are simple (no sharing, no
// cycles) and never mutated after parsing.
type Expr interface{ exprNode() }

// Identifier is a free or bound variable reference.
type Identifier struct {
	Name string
}

// Literal is a floating-point constant.
type Literal struct {
	Value float64
}

// Abstraction is a single-parameter function literal λparam.body. The
// body extends as far right as the surrounding precedence allows.
type Abstraction struct {
	Param string
	Body  Expr
}

// Recursion wraps an expression produced by the 𝑓(expr) form. It is
// only meaningful as the result of evaluating an abstraction body.
type Recursion struct {
	Inner Expr
}

// Application applies Func to Arg.
type Application struct {
	Func Expr
	Arg  Expr
}

// ApplicationIf is a reserved variant: the evaluator defines its
// semantics but the grammar no longer produces it.
type ApplicationIf struct {
	Func Expr
	Arg1 Expr
	Arg2 Expr
}

// BinaryOp identifies a binary arithmetic or bitwise operator.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpBitAnd
	OpBitOr
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpBitAnd:
		return "&"
	case OpBitOr:
		return "|"
	}
	return "?"
}

// BinaryOperation applies Op to two numeric operands.
type BinaryOperation struct {
	Op  BinaryOp
	Lhs Expr
	Rhs Expr
}

func (*Identifier) exprNode()      {}
func (*Literal) exprNode()         {}
func (*Abstraction) exprNode()     {}
func (*Recursion) exprNode()       {}
func (*Application) exprNode()     {}
func (*ApplicationIf) exprNode()   {}
func (*BinaryOperation) exprNode() {}

type precedence int

const (
	precLowest precedence = iota
	precSum                // + -
	precProduct            // * /
	precBitwise            // & |
	precCall               // '(' contents; internal threshold only
)

// Parse builds a Program from a finished token sequence. The sequence
// must end with exactly one EOF token, which becomes the final
// EndOfInput statement.
func Parse(tokens []Token) (*Program, error) {
	if len(tokens) == 0 {
		return nil, &ParseError{Line: 1, Col: 1, Expected: "end-of-input marker", Found: "empty token sequence"}
	}
	p := &parser{toks: tokens}
	var statements []Statement
	for {
		st, err := p.statement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, st)
		if _, done := st.(*EndOfInput); done {
			break
		}
	}
	return &Program{Statements: statements}, nil
}

// ParseSource lexes and parses in one step.
func ParseSource(src string) (*Program, error) {
	toks, err := NewLexer(src).Scan()
	if err != nil {
		return nil, err
	}
	return Parse(toks)
}

type parser struct {
	toks []Token
	i    int
}

// ───────────────────────── token basics & helpers ────────────────────────

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF, by the lexer's contract
	}
	return p.toks[p.i]
}

func (p *parser) peekNext() Token {
	if p.i+1 >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+1]
}

func (p *parser) next() Token {
	t := p.peek()
	if p.i < len(p.toks) {
		p.i++
	}
	return t
}

// need consumes the next token and checks its type, failing with the
// expected/found pair otherwise.
func (p *parser) need(tt TokenType, expected string) (Token, error) {
	t := p.next()
	if t.Type != tt {
		return Token{}, p.errAt(t, expected)
	}
	return t, nil
}

func (p *parser) errAt(t Token, expected string) *ParseError {
	return &ParseError{Line: t.Line, Col: t.Col, Expected: expected, Found: describeToken(t)}
}

func describeToken(t Token) string {
	switch t.Type {
	case EOF:
		return "end of input"
	case COMMENT:
		return "comment"
	case LAMBDA:
		return "'λ'"
	case RECURSE:
		return "'𝑓'"
	case IDENT:
		return fmt.Sprintf("identifier %q", t.Lexeme)
	case NUMBER:
		return "number " + t.Lexeme
	default:
		return strconv.Quote(t.Lexeme)
	}
}

// ───────────────────────────── statements ────────────────────────────────

func (p *parser) statement() (Statement, error) {
	switch p.peek().Type {
	case IDENT:
		if p.peekNext().Type == ASSIGN {
			return p.binding()
		}
		return p.expressionStmt()
	case LAMBDA, NUMBER, LROUND:
		return p.expressionStmt()
	case COMMENT:
		t := p.next()
		return &Comment{Text: t.Literal.(string)}, nil
	case EOF:
		p.next()
		return &EndOfInput{}, nil
	default:
		return nil, p.errAt(p.peek(), "a statement")
	}
}

func (p *parser) binding() (Statement, error) {
	name, err := p.need(IDENT, "identifier")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(ASSIGN, "'='"); err != nil {
		return nil, err
	}
	value, err := p.expression(precLowest)
	if err != nil {
		return nil, err
	}
	return &Binding{Name: name.Lexeme, Value: value}, nil
}

func (p *parser) expressionStmt() (Statement, error) {
	expr, err := p.expression(precLowest)
	if err != nil {
		return nil, err
	}
	return &ExpressionStmt{Expr: expr}, nil
}

// ──────────────────────────── expressions ────────────────────────────────

func (p *parser) expression(prec precedence) (Expr, error) {
	left, err := p.prefix()
	if err != nil {
		return nil, err
	}
	for tokenPrecedence(p.peek().Type) > prec {
		left, err = p.infix(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *parser) prefix() (Expr, error) {
	t := p.next()
	switch t.Type {
	case IDENT:
		return &Identifier{Name: t.Lexeme}, nil
	case NUMBER:
		return &Literal{Value: t.Literal.(float64)}, nil
	case LAMBDA:
		return p.abstraction()
	case RECURSE:
		return p.recursion()
	case LROUND:
		return p.application()
	default:
		return nil, p.errAt(t, "an expression")
	}
}

func (p *parser) abstraction() (Expr, error) {
	param, err := p.need(IDENT, "parameter name")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(PERIOD, "'.'"); err != nil {
		return nil, err
	}
	body, err := p.expression(precLowest)
	if err != nil {
		return nil, err
	}
	return &Abstraction{Param: param.Lexeme, Body: body}, nil
}

func (p *parser) recursion() (Expr, error) {
	if _, err := p.need(LROUND, "'('"); err != nil {
		return nil, err
	}
	inner, err := p.expression(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RROUND, "')'"); err != nil {
		return nil, err
	}
	return &Recursion{Inner: inner}, nil
}

// application parses "(term) argument" after the '(' has been
// consumed. Parsing the parenthesized term at Call precedence keeps
// every binary operator outside: the content reduces to a single
// prefix term, so '( )' can never mean arithmetic grouping.
func (p *parser) application() (Expr, error) {
	fn, err := p.expression(precCall)
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RROUND, "')'"); err != nil {
		return nil, err
	}
	arg, err := p.expression(precLowest)
	if err != nil {
		return nil, err
	}
	return &Application{Func: fn, Arg: arg}, nil
}

func (p *parser) infix(left Expr) (Expr, error) {
	t := p.next()
	var op BinaryOp
	var level precedence
	switch t.Type {
	case PLUS:
		op, level = OpAdd, precSum
	case MINUS:
		op, level = OpSub, precSum
	case MULT:
		op, level = OpMul, precProduct
	case DIV:
		op, level = OpDiv, precProduct
	case BITAND:
		op, level = OpBitAnd, precBitwise
	case BITOR:
		op, level = OpBitOr, precBitwise
	default:
		return nil, p.errAt(t, "a binary operator")
	}
	// Right operand at the operator's own level: same-level operators
	// stay in the outer loop, folding left-to-right.
	rhs, err := p.expression(level)
	if err != nil {
		return nil, err
	}
	return &BinaryOperation{Op: op, Lhs: left, Rhs: rhs}, nil
}

func tokenPrecedence(tt TokenType) precedence {
	switch tt {
	case PLUS, MINUS:
		return precSum
	case MULT, DIV:
		return precProduct
	case BITAND, BITOR:
		return precBitwise
	default:
		return precLowest
	}
}
