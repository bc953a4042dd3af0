// builtins_test.go
package lambda

import (
	"strings"
	"testing"
	"time"
)

func Test_Builtin_Print_Dispatch(t *testing.T) {
	ip, out := newTestInterpreter()
	vals, err := ip.EvalSource("(λprint.print) 5")
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	wantNumber(t, vals[0], 5)
	if out.String() != "5" {
		t.Fatalf("want output %q, got %q", "5", out.String())
	}
}

func Test_Builtin_Print_Decimal_Form(t *testing.T) {
	ip, out := newTestInterpreter()
	if _, err := ip.EvalSource("(λprint.print) 2.5"); err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if out.String() != "2.5" {
		t.Fatalf("want output %q, got %q", "2.5", out.String())
	}
}

func Test_Builtin_Print_Never_Uses_Scientific_Notation(t *testing.T) {
	// Large magnitudes stay in decimal text form; epoch milliseconds
	// from the time capability are the everyday case.
	cases := []struct {
		src  string
		want string
	}{
		{"(λprint.print) 1_000_000", "1000000"},
		{"(λprint.print) 1_756_000_000_000", "1756000000000"},
		{"(λprint.print) 5/100_000", "0.00005"},
	}
	for _, tc := range cases {
		ip, out := newTestInterpreter()
		if _, err := ip.EvalSource(tc.src); err != nil {
			t.Fatalf("eval error for %q: %v", tc.src, err)
		}
		if out.String() != tc.want {
			t.Fatalf("want output %q, got %q\nsource: %s", tc.want, out.String(), tc.src)
		}
	}
}

func Test_Builtin_Dispatch_Keys_On_Parameter_Name(t *testing.T) {
	// A non-reserved parameter name suppresses the capability while
	// still returning the body's value.
	ip, out := newTestInterpreter()
	vals, err := ip.EvalSource("(λprnt.prnt) 5")
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	wantNumber(t, vals[0], 5)
	if out.Len() != 0 {
		t.Fatalf("capability must not fire, got output %q", out.String())
	}
}

func Test_Builtin_Dispatch_Fires_Per_Application(t *testing.T) {
	// Dispatch keys on the parameter name, not the call site: every
	// application of an abstraction naming its parameter `print`
	// performs the effect after the body evaluates.
	ip, out := newTestInterpreter()
	if _, err := ip.EvalSource("show = λprint.print+0\n(show) 1\n(show) 2"); err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if out.String() != "12" {
		t.Fatalf("want output %q, got %q", "12", out.String())
	}
}

func Test_Builtin_Replacement_Value(t *testing.T) {
	// The capability's return value replaces the body result.
	ip, _ := newTestInterpreter()
	ip.SetCapability("print", func(_ *Interpreter, arg Value) (Value, error) {
		return NumberVal(arg.number() * 10), nil
	})
	vals, err := ip.EvalSource("(λprint.print) 4")
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	wantNumber(t, vals[0], 40)
}

func Test_Builtin_Ascii(t *testing.T) {
	ip, out := newTestInterpreter()
	vals, err := ip.EvalSource("(λascii.ascii) 65")
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	wantNumber(t, vals[0], 65)
	if out.String() != "A" {
		t.Fatalf("want raw byte %q, got %q", "A", out.String())
	}
}

func Test_Builtin_Ascii_Range(t *testing.T) {
	mustFailEval(t, "(λascii.ascii) 255", "λascii")
	mustFailEval(t, "(λascii.ascii) 300", "λascii")
	mustFailEval(t, "(λascii.ascii) 0-1", "λascii")
	// NaN compares false against both range bounds; it must still be
	// rejected before the byte conversion.
	mustFailEval(t, "(λascii.ascii) 0/0", "λascii")
}

func Test_Builtin_Sleep_Returns_Duration(t *testing.T) {
	ip, _ := newTestInterpreter()
	start := time.Now()
	vals, err := ip.EvalSource("(λsleep.sleep) 10")
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	wantNumber(t, vals[0], 10)
	if time.Since(start) < 10*time.Millisecond {
		t.Fatal("sleep returned too early")
	}
}

func Test_Builtin_Time_Epoch_Millis(t *testing.T) {
	ip, _ := newTestInterpreter()
	before := time.Now().UnixMilli()
	vals, err := ip.EvalSource("(λtime.time) 0")
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	after := time.Now().UnixMilli()
	got := int64(vals[0].number())
	if got < before || got > after {
		t.Fatalf("time %d outside [%d, %d]", got, before, after)
	}
}

func Test_Builtin_Input_Char(t *testing.T) {
	ip, _ := newTestInterpreter()
	ip.Stdin = strings.NewReader("q")
	vals, err := ip.EvalSource("(λinput.input) 0")
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	wantNumber(t, vals[0], float64('q'))
}

func Test_Builtin_Input_Char_Enter_Is_10(t *testing.T) {
	for _, in := range []string{"\n", "\r"} {
		ip, _ := newTestInterpreter()
		ip.Stdin = strings.NewReader(in)
		vals, err := ip.EvalSource("(λinput.input) 0")
		if err != nil {
			t.Fatalf("eval error: %v", err)
		}
		wantNumber(t, vals[0], 10)
	}
}

func Test_Builtin_Input_Numeric(t *testing.T) {
	cases := []struct {
		typed string
		want  float64
	}{
		{"42\n", 42},
		{"3.25\n", 3.25},
		{"1e2\n", 100},
		{"2.5e+1\n", 25},
		{"12x34\n", 1234},   // non-numeral keys are ignored
		{"1.2.3\n", 1.23},   // second '.' ignored
	}
	for _, tc := range cases {
		ip, _ := newTestInterpreter()
		ip.Stdin = strings.NewReader(tc.typed)
		vals, err := ip.EvalSource("(λinput.input) 1")
		if err != nil {
			t.Fatalf("eval error for %q: %v", tc.typed, err)
		}
		wantNumber(t, vals[0], tc.want)
	}
}

func Test_Builtin_Input_Numeric_Echoes_Accepted_Keys(t *testing.T) {
	ip, out := newTestInterpreter()
	ip.Stdin = strings.NewReader("4x2\n")
	if _, err := ip.EvalSource("(λinput.input) 1"); err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if out.String() != "42" {
		t.Fatalf("want echo %q, got %q", "42", out.String())
	}
}

func Test_Builtin_Input_Numeric_Empty_Entry(t *testing.T) {
	ip, _ := newTestInterpreter()
	ip.Stdin = strings.NewReader("\n")
	_, err := ip.EvalSource("(λinput.input) 1")
	if err == nil || !strings.Contains(err.Error(), "malformed numeric entry") {
		t.Fatalf("want malformed-entry error, got %v", err)
	}
}

func Test_Builtin_Input_Mode_Validation(t *testing.T) {
	mustFailEval(t, "(λinput.input) 2", "λinput")
	mustFailEval(t, "(λinput.input) λx.x", "λinput")
}

func Test_Builtin_Print_Rejects_NonNumeric(t *testing.T) {
	mustFailEval(t, "(λprint.λy.y) 1", "λprint")
}

func Test_Builtin_Runs_During_Recursion(t *testing.T) {
	// An ascii-named parameter echoes every iteration's byte until the
	// recursion sentinel halts the loop.
	ip, out := newTestInterpreter()
	if _, err := ip.EvalSource("beep = λascii.𝑓(ascii-1)\n(beep) 3"); err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if out.String() != "\x02\x01\x00" {
		t.Fatalf("want bytes 2,1,0, got %q", out.String())
	}
}
