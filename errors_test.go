// errors_test.go
package lambda

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Wrap_ParseError_Snippet(t *testing.T) {
	src := "a = λx.x\n(2 + 3)"
	_, err := ParseSource(src)
	require.Error(t, err)

	wrapped := WrapErrorWithSource(err, src)
	msg := wrapped.Error()
	assert.Contains(t, msg, "PARSE ERROR at 2:")
	assert.Contains(t, msg, "expected ')'")
	assert.Contains(t, msg, "   1 | a = λx.x")
	assert.Contains(t, msg, "   2 | (2 + 3)")
	assert.Contains(t, msg, "^")
}

func Test_Wrap_With_Name(t *testing.T) {
	src := "$"
	_, err := ParseSource(src)
	require.Error(t, err)
	wrapped := WrapErrorWithName(err, "prog.lam", src)
	assert.Contains(t, wrapped.Error(), "LEX ERROR in prog.lam at 1:1")
}

func Test_Wrap_EvalError_Without_Position(t *testing.T) {
	ip, _ := newTestInterpreter()
	_, err := ip.EvalSource("missing")
	require.Error(t, err)

	wrapped := WrapErrorWithSource(err, "missing")
	msg := wrapped.Error()
	assert.Contains(t, msg, "EVALUATION ERROR")
	assert.Contains(t, msg, "unbound binding: missing")
	// No fabricated caret when no position is known.
	assert.NotContains(t, msg, "^")
}

func Test_Wrap_Passes_Other_Errors_Through(t *testing.T) {
	sentinel := errors.New("boom")
	assert.Same(t, sentinel, WrapErrorWithSource(sentinel, "src"))
}

func Test_Snippet_Clamps_Out_Of_Range(t *testing.T) {
	err := &LexError{Line: 99, Col: 99, Msg: "x"}
	msg := WrapErrorWithSource(err, "ab").Error()
	assert.Contains(t, msg, "   1 | ab")
}

func Test_Error_Strings(t *testing.T) {
	le := &LexError{Line: 1, Col: 2, Msg: "bad"}
	assert.Equal(t, "lex error at 1:2: bad", le.Error())

	pe := &ParseError{Line: 3, Col: 4, Expected: "')'", Found: "'+'"}
	assert.True(t, strings.Contains(pe.Error(), "expected ')', found '+'"))

	ee := &EvalError{Msg: "nope"}
	assert.Equal(t, "evaluation error: nope", ee.Error())
}
