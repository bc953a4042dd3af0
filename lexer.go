// lexer.go — tokenizer for the Lambda language.
//
// The scanner turns a source string into a flat token slice consumed
// front-to-back by the parser. The surface is deliberately tiny:
//
//   - ten single-character operators: + - * / = ( ) . & |
//   - two single-codepoint keywords: 'λ' (abstraction), '𝑓' (recursion)
//   - identifiers [A-Za-z_][A-Za-z0-9_]*
//   - numeric literals digit+('_'digit)* ['.'digit+('_'digit)*]
//     [('e'|'E')['+'|'-']digit+('_'digit)*] — underscores are visual
//     separators, stripped before strconv.ParseFloat
//   - '//' line comments, preserved as tokens (trailing '\r' stripped)
//
// Scan appends exactly one EOF token last. Every token carries its
// 1-based start line/column; because the keywords are non-ASCII the
// scanner walks runes, and columns count runes, not bytes.
package lambda

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	COMMENT

	// Keywords
	LAMBDA  // 'λ'
	RECURSE // '𝑓'

	// Literals & identifiers
	IDENT
	NUMBER

	// Operators
	PLUS   // "+"
	MINUS  // "-"
	MULT   // "*"
	DIV    // "/"
	ASSIGN // "="
	LROUND // "("
	RROUND // ")"
	PERIOD // "."
	BITAND // "&"
	BITOR  // "|"
)

// Token is a lexical token with an optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice (underscores included for numbers)
	Literal interface{} // float64 for NUMBER, string for COMMENT
	Line    int         // 1-based
	Col     int         // 1-based, in runes
}

// Lexer scans a Lambda source string into tokens.
type Lexer struct {
	src    string
	cur    int // byte index into src
	line   int
	col    int
	tokens []Token

	// start position of the token being scanned
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Scan tokenizes the whole source. On failure it returns a *LexError
// pointing at the offending position; no tokens are returned then.
func (l *Lexer) Scan() ([]Token, error) {
	for {
		l.skipWhitespace()
		if l.atEnd() {
			break
		}
		l.tokStartLine, l.tokStartCol = l.line, l.col
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	l.tokStartLine, l.tokStartCol = l.line, l.col
	l.add(EOF, "", nil)
	return l.tokens, nil
}

func (l *Lexer) atEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() rune {
	if l.atEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.cur:])
	return r
}

func (l *Lexer) peekAt(byteOff int) rune {
	if l.cur+byteOff >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.cur+byteOff:])
	return r
}

func (l *Lexer) advance() rune {
	if l.atEnd() {
		return 0
	}
	r, size := utf8.DecodeRuneInString(l.src[l.cur:])
	l.cur += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) add(tt TokenType, lexeme string, lit interface{}) {
	l.tokens = append(l.tokens, Token{
		Type:    tt,
		Lexeme:  lexeme,
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	})
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// errf reports at the current token's start so the caret lands on the
// offending lexeme rather than wherever the scan stopped.
func (l *Lexer) errf(msg string) *LexError {
	return &LexError{Line: l.tokStartLine, Col: l.tokStartCol, Msg: msg}
}

func (l *Lexer) scanToken() error {
	ch := l.advance()
	switch ch {
	case '(':
		l.add(LROUND, "(", nil)
	case ')':
		l.add(RROUND, ")", nil)
	case '+':
		l.add(PLUS, "+", nil)
	case '-':
		l.add(MINUS, "-", nil)
	case '*':
		l.add(MULT, "*", nil)
	case '=':
		l.add(ASSIGN, "=", nil)
	case '.':
		l.add(PERIOD, ".", nil)
	case '&':
		l.add(BITAND, "&", nil)
	case '|':
		l.add(BITOR, "|", nil)
	case '/':
		if l.peek() == '/' {
			l.advance()
			l.scanComment()
			return nil
		}
		l.add(DIV, "/", nil)
	case 'λ':
		l.add(LAMBDA, "λ", nil)
	case '𝑓':
		l.add(RECURSE, "𝑓", nil)
	default:
		switch {
		case isIdentStart(ch):
			l.scanIdentifier(ch)
		case isDigit(ch):
			return l.scanNumber(ch)
		default:
			return l.errf("unrecognized character " + strconv.QuoteRune(ch))
		}
	}
	return nil
}

// scanComment consumes to end of line (newline stays for the
// whitespace skipper). A trailing '\r' is stripped from the text.
func (l *Lexer) scanComment() {
	var b strings.Builder
	for !l.atEnd() && l.peek() != '\n' {
		b.WriteRune(l.advance())
	}
	text := strings.TrimSuffix(b.String(), "\r")
	l.add(COMMENT, "//"+text, text)
}

func (l *Lexer) scanIdentifier(first rune) {
	var b strings.Builder
	b.WriteRune(first)
	for !l.atEnd() && isIdentPart(l.peek()) {
		b.WriteRune(l.advance())
	}
	name := b.String()
	l.add(IDENT, name, nil)
}

// scanNumber reads digit runs with non-consecutive underscore
// separators, an optional fraction, and an optional signed exponent.
// Underscores must sit between digits; they are stripped before
// parsing.
func (l *Lexer) scanNumber(first rune) error {
	var b strings.Builder
	b.WriteRune(first)
	if err := l.scanDigits(&b); err != nil {
		return err
	}

	// Fraction only when '.' is followed by a digit; a bare '.' after a
	// number is the abstraction-body operator.
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		b.WriteRune(l.advance())
		b.WriteRune(l.advance())
		if err := l.scanDigits(&b); err != nil {
			return err
		}
	}

	if l.peek() == 'e' || l.peek() == 'E' {
		b.WriteRune(l.advance())
		if l.peek() == '+' || l.peek() == '-' {
			b.WriteRune(l.advance())
		}
		if !isDigit(l.peek()) {
			return l.errf("malformed numeric literal: exponent has no digits")
		}
		b.WriteRune(l.advance())
		if err := l.scanDigits(&b); err != nil {
			return err
		}
	}

	lexeme := b.String()
	value, err := strconv.ParseFloat(strings.ReplaceAll(lexeme, "_", ""), 64)
	if err != nil {
		return &LexError{Line: l.tokStartLine, Col: l.tokStartCol, Msg: "malformed numeric literal " + strconv.Quote(lexeme)}
	}
	l.add(NUMBER, lexeme, value)
	return nil
}

// scanDigits continues a digit run already holding at least one digit.
// An underscore is consumed only when a digit follows it directly.
func (l *Lexer) scanDigits(b *strings.Builder) error {
	for {
		switch {
		case isDigit(l.peek()):
			b.WriteRune(l.advance())
		case l.peek() == '_':
			if !isDigit(l.peekAt(1)) {
				return l.errf("malformed numeric literal: '_' must separate digits")
			}
			b.WriteRune(l.advance())
			b.WriteRune(l.advance())
		default:
			return nil
		}
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isIdentPart(r rune) bool { return isIdentStart(r) || isDigit(r) }
