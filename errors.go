// errors.go — structured error kinds and caret-snippet rendering.
//
// Three error classes cross the library boundary, one per pipeline
// stage:
//
//   - *LexError   — malformed numeric literal, unrecognized codepoint.
//   - *ParseError — unexpected/missing token; carries the expected and
//     found token descriptions.
//   - *EvalError  — unbound identifier, bad operand types, builtin
//     argument violations. Positions are best-effort: an EvalError may
//     carry no location at all, in which case rendering omits the
//     caret snippet instead of fabricating one.
//
// All three are plain error values returned to the caller; nothing in
// this package panics or exits. `WrapErrorWithSource` upgrades any of
// them to a multi-line, plain-text snippet with a caret under the
// offending column:
//
//	PARSE ERROR at 2:5: expected ')', found '+'
//
//	   1 | a = λx.x
//	   2 | (2 + 3)
//	     |     ^
//
// Other error values pass through unchanged.
package lambda

import (
	"fmt"
	"strings"
)

// LexError reports a tokenizer failure at a 1-based source position.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// ParseError reports a grammar violation. Expected and Found hold
// human token descriptions ("')'", "identifier", "end of input").
type ParseError struct {
	Line     int
	Col      int
	Expected string
	Found    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: expected %s, found %s", e.Line, e.Col, e.Expected, e.Found)
}

// EvalError reports a semantic failure during evaluation. Line/Col are
// zero when no position is known.
type EvalError struct {
	Line int
	Col  int
	Msg  string
}

func (e *EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("evaluation error at %d:%d: %s", e.Line, e.Col, e.Msg)
	}
	return fmt.Sprintf("evaluation error: %s", e.Msg)
}

func evalErrf(format string, args ...any) *EvalError {
	return &EvalError{Msg: fmt.Sprintf(format, args...)}
}

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes the three library error
// kinds and leaves other errors untouched.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source label ("in
// <name>") included in the header line.
func WrapErrorWithName(err error, srcName, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", snippet(src, "LEX ERROR", srcName, e.Line, e.Col, e.Msg))
	case *ParseError:
		msg := fmt.Sprintf("expected %s, found %s", e.Expected, e.Found)
		return fmt.Errorf("%s", snippet(src, "PARSE ERROR", srcName, e.Line, e.Col, msg))
	case *EvalError:
		if e.Line == 0 {
			// No position to point at; keep the plain message.
			if srcName != "" {
				return fmt.Errorf("EVALUATION ERROR in %s: %s", srcName, e.Msg)
			}
			return fmt.Errorf("EVALUATION ERROR: %s", e.Msg)
		}
		return fmt.Errorf("%s", snippet(src, "EVALUATION ERROR", srcName, e.Line, e.Col, e.Msg))
	default:
		return err
	}
}

// snippet builds the header plus a numbered source excerpt with a caret
// under the 1-based column. It shows at most one previous and one next
// line. Out-of-range coordinates are clamped so rendering never fails.
func snippet(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
