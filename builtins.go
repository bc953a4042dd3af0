// builtins.go — the five effectful builtin capabilities.
//
// Capabilities surfaced (dispatched by closure parameter name, one
// call per successful application — see interpreter.go):
//
//  1. ascii(n)  — echo byte n (0..254) raw to output, return n
//  2. print(n)  — write n's decimal text form to output, return n
//  3. time(_)   — current epoch time in milliseconds
//  4. sleep(ms) — block for ms milliseconds, return ms
//  5. input(m)  — m==0: block for one key press, return its char code
//     (Enter → 10); m==1: interactive numeral entry (digits, one '.',
//     optional e/E exponent with optional leading sign, Enter ends),
//     return the parsed number
//
// Conventions:
//   - Argument validation happens here, before the effect runs; every
//     violation is an *EvalError.
//   - Output goes to the interpreter's Stdout, input comes from its
//     Stdin, so hosts and tests can redirect both. When Stdin is a
//     real terminal, input switches it to raw mode for the duration of
//     one read (x/term); otherwise it falls back to plain byte reads.
package lambda

import (
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"golang.org/x/term"
)

// CapabilityFunc is one effectful builtin. It receives the evaluated
// abstraction-body result and returns the value that replaces it.
type CapabilityFunc func(ip *Interpreter, arg Value) (Value, error)

type capabilityTable map[string]CapabilityFunc

// defaultCapabilities builds the standard name→capability table. The
// keys are the reserved parameter names.
func defaultCapabilities() capabilityTable {
	return capabilityTable{
		"ascii": capAscii,
		"input": capInput,
		"time":  capTime,
		"print": capPrint,
		"sleep": capSleep,
	}
}

func capAscii(ip *Interpreter, arg Value) (Value, error) {
	if arg.Tag != VTNumber {
		return Value{}, evalErrf("λascii only takes ASCII values in decimal form, ranging from 0 to 254")
	}
	n := arg.number()
	if math.IsNaN(n) || n < 0 || n >= 255 {
		return Value{}, evalErrf("λascii only takes ASCII values in decimal form, ranging from 0 to 254")
	}
	b := byte(n)
	if _, err := ip.Stdout.Write([]byte{b}); err != nil {
		return Value{}, evalErrf("λascii: %v", err)
	}
	return NumberVal(float64(b)), nil
}

func capPrint(ip *Interpreter, arg Value) (Value, error) {
	if arg.Tag != VTNumber {
		return Value{}, evalErrf("λprint only takes a numeric value")
	}
	if _, err := io.WriteString(ip.Stdout, formatNumber(arg.number())); err != nil {
		return Value{}, evalErrf("λprint: %v", err)
	}
	return arg, nil
}

func capTime(_ *Interpreter, _ Value) (Value, error) {
	return NumberVal(float64(time.Now().UnixMilli())), nil
}

func capSleep(_ *Interpreter, arg Value) (Value, error) {
	if arg.Tag != VTNumber {
		return Value{}, evalErrf("λsleep only takes a numeric value")
	}
	time.Sleep(time.Duration(arg.number()) * time.Millisecond)
	return arg, nil
}

func capInput(ip *Interpreter, arg Value) (Value, error) {
	if arg.Tag != VTNumber {
		return Value{}, evalErrf("λinput only takes numeric value either, 0, or 1")
	}
	switch arg.number() {
	case 0:
		return inputChar(ip)
	case 1:
		return inputNumeric(ip)
	default:
		return Value{}, evalErrf("λinput only takes numeric value either, 0, or 1")
	}
}

// rawReader yields single bytes from the interpreter's Stdin, holding
// the terminal in raw mode for its lifetime when Stdin is one.
type rawReader struct {
	src     io.Reader
	fd      int
	restore *term.State
}

func newRawReader(ip *Interpreter) (*rawReader, error) {
	r := &rawReader{src: ip.Stdin, fd: -1}
	if f, ok := ip.Stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		st, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return nil, evalErrf("λinput: cannot enter raw mode: %v", err)
		}
		r.fd, r.restore = int(f.Fd()), st
	}
	return r, nil
}

func (r *rawReader) readByte() (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r.src, buf[:]); err != nil {
		return 0, evalErrf("λinput: %v", err)
	}
	return buf[0], nil
}

func (r *rawReader) close() {
	if r.restore != nil {
		_ = term.Restore(r.fd, r.restore)
	}
}

// inputChar blocks for a single key press and returns its character
// code. Enter normalizes to 10 whether the terminal sends CR or LF.
func inputChar(ip *Interpreter) (Value, error) {
	r, err := newRawReader(ip)
	if err != nil {
		return Value{}, err
	}
	defer r.close()

	b, err := r.readByte()
	if err != nil {
		return Value{}, err
	}
	if b == '\r' {
		b = '\n'
	}
	return NumberVal(float64(b)), nil
}

// inputNumeric runs the numeral-entry loop: digits always accepted, at
// most one '.', one e/E exponent once a digit exists, an optional sign
// directly after the exponent marker. Accepted characters are echoed;
// everything else is ignored. Enter terminates and the collected text
// is parsed as a number.
func inputNumeric(ip *Interpreter) (Value, error) {
	r, err := newRawReader(ip)
	if err != nil {
		return Value{}, err
	}
	defer r.close()

	var entry []byte
	seenDot, seenExp := false, false
	for {
		b, err := r.readByte()
		if err != nil {
			return Value{}, err
		}

		accept := false
		switch {
		case b == '\r' || b == '\n':
			num, perr := strconv.ParseFloat(string(entry), 64)
			if perr != nil {
				return Value{}, evalErrf("λinput: malformed numeric entry %q", string(entry))
			}
			return NumberVal(num), nil
		case b >= '0' && b <= '9':
			accept = true
		case b == '.' && !seenDot && !seenExp:
			seenDot, accept = true, true
		case (b == 'e' || b == 'E') && !seenExp && len(entry) > 0:
			seenExp, accept = true, true
		case (b == '+' || b == '-') && len(entry) > 0 && (entry[len(entry)-1] == 'e' || entry[len(entry)-1] == 'E'):
			accept = true
		}

		if accept {
			entry = append(entry, b)
			if _, err := ip.Stdout.Write([]byte{b}); err != nil {
				return Value{}, evalErrf("λinput: %v", err)
			}
		}
	}
}
