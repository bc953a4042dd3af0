// interpreter.go — tree-walking evaluator for the Lambda language.
//
// OVERVIEW
// --------
// The interpreter walks a Program against a chain of environment
// frames and yields one Value per statement. Three mechanisms carry
// the whole language:
//
//   - Lexical-scope closures: an abstraction captures the frame it was
//     defined in (by reference, not by copy). Applying it creates a
//     child of the *captured* frame and binds the parameter there.
//
//   - Builtin dispatch by parameter name: after a closure body has
//     been evaluated, the closure's parameter name is looked up in a
//     static capability table (ascii, input, time, print, sleep; see
//     builtins.go). A hit replaces the body's result with the
//     capability's result. There is no other builtin-call syntax.
//
//   - The recursion/halt protocol: a body that evaluates to a
//     recursion marker 𝑓(next) makes the same function expression get
//     re-applied to next, evaluated in the just-created frame, with
//     recursion context active. In recursion context an argument equal
//     to literal 0 yields Halt, which then propagates unchanged
//     through every enclosing application — the system's only
//     cancellation signal.
//
// Execution is strictly sequential and unbounded: no step limit, no
// stack-depth guard, no concurrency. Frames are plain Go values linked
// upward by parent pointers; shared ownership between closures and
// in-flight calls is the garbage collector's problem.
//
// ERRORS
// ------
// Every Eval* method returns (*EvalError)-typed failures as ordinary
// errors. Evaluation stops at the first error; EvalProgram still
// returns the values produced before the failure so the caller can
// decide what to surface.
package lambda

import (
	"io"
	"os"
)

////////////////////////////////////////////////////////////////////////////////
//                                   VALUES
////////////////////////////////////////////////////////////////////////////////

// ValueTag enumerates the runtime kinds a Value may hold.
type ValueTag int

const (
	VTNumber    ValueTag = iota // float64
	VTClosure                   // *Closure
	VTUnit                      // no payload
	VTRecursion                 // Expr (unevaluated 𝑓-marker payload)
	VTHalt                      // no payload
)

// Value is the tagged carrier produced by evaluation. The tag
// determines which Go type Data holds (see ValueTag).
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Unit is the result of statements with no visible value.
var Unit = Value{Tag: VTUnit}

// HaltValue propagates unchanged through every enclosing application.
var HaltValue = Value{Tag: VTHalt}

// NumberVal wraps a float64 as a literal value.
func NumberVal(f float64) Value { return Value{Tag: VTNumber, Data: f} }

// Closure is an abstraction plus the frame it was defined in.
type Closure struct {
	Param string
	Body  Expr
	Env   *Env
}

func closureVal(c *Closure) Value   { return Value{Tag: VTClosure, Data: c} }
func recursionVal(inner Expr) Value { return Value{Tag: VTRecursion, Data: inner} }

func (v Value) number() float64 { return v.Data.(float64) }

func (v Value) isNumber(f float64) bool {
	return v.Tag == VTNumber && v.Data.(float64) == f
}

////////////////////////////////////////////////////////////////////////////////
//                                ENVIRONMENTS
////////////////////////////////////////////////////////////////////////////////

// Env is a frame: a name→value mapping with an optional parent. Frames
// form an upward-only chain; lookups walk outward to the root.
type Env struct {
	bindings map[string]Value
	parent   *Env
}

// NewEnv creates a frame whose lookups fall back to parent (nil for a
// root frame).
func NewEnv(parent *Env) *Env {
	return &Env{bindings: map[string]Value{}, parent: parent}
}

// Define binds name in this frame, overwriting any prior value.
func (e *Env) Define(name string, v Value) { e.bindings[name] = v }

// Get resolves name in this frame or any ancestor.
func (e *Env) Get(name string) (Value, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.bindings[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

////////////////////////////////////////////////////////////////////////////////
//                                 INTERPRETER
////////////////////////////////////////////////////////////////////////////////

// Interpreter owns the root frame and the effect surface used by the
// builtin capabilities. Stdout/Stdin are injectable so hosts and tests
// can capture effects; the capability table itself can be swapped the
// same way.
type Interpreter struct {
	Global *Env

	Stdout io.Writer
	Stdin  io.Reader

	caps capabilityTable
}

// NewInterpreter returns an interpreter with a fresh global frame, the
// standard capability table, and the process's stdio.
func NewInterpreter() *Interpreter {
	return &Interpreter{
		Global: NewEnv(nil),
		Stdout: os.Stdout,
		Stdin:  os.Stdin,
		caps:   defaultCapabilities(),
	}
}

// SetCapability replaces (or adds) a single capability implementation.
// Tests use this to spy on effects.
func (ip *Interpreter) SetCapability(name string, fn CapabilityFunc) {
	ip.caps[name] = fn
}

// EvalProgram evaluates every statement in order. On failure it
// returns the values produced so far together with the error; a
// partial run is never reported as success.
func (ip *Interpreter) EvalProgram(prog *Program) ([]Value, error) {
	results := make([]Value, 0, len(prog.Statements))
	for _, st := range prog.Statements {
		v, err := ip.EvalStatement(st)
		if err != nil {
			return results, err
		}
		results = append(results, v)
	}
	return results, nil
}

// EvalSource lexes, parses and evaluates src against this
// interpreter's global frame.
func (ip *Interpreter) EvalSource(src string) ([]Value, error) {
	prog, err := ParseSource(src)
	if err != nil {
		return nil, err
	}
	return ip.EvalProgram(prog)
}

// EvalStatement evaluates a single statement in the global frame.
// Bindings write into the global frame; comments and the end marker
// yield Unit.
func (ip *Interpreter) EvalStatement(st Statement) (Value, error) {
	switch s := st.(type) {
	case *Binding:
		v, err := ip.eval(s.Value, ip.Global)
		if err != nil {
			return Value{}, err
		}
		ip.Global.Define(s.Name, v)
		return v, nil
	case *ExpressionStmt:
		return ip.eval(s.Expr, ip.Global)
	case *Comment, *EndOfInput:
		return Unit, nil
	default:
		return Value{}, evalErrf("unexpected statement kind %T", st)
	}
}

func (ip *Interpreter) eval(e Expr, env *Env) (Value, error) {
	switch x := e.(type) {
	case *Literal:
		return NumberVal(x.Value), nil
	case *Identifier:
		if v, ok := env.Get(x.Name); ok {
			return v, nil
		}
		return Value{}, evalErrf("unbound binding: %s", x.Name)
	case *Abstraction:
		return closureVal(&Closure{Param: x.Param, Body: x.Body, Env: env}), nil
	case *BinaryOperation:
		return ip.evalBinary(x, env)
	case *Recursion:
		return recursionVal(x.Inner), nil
	case *Application:
		return ip.apply(x.Func, x.Arg, env, false)
	case *ApplicationIf:
		return ip.evalApplicationIf(x, env)
	default:
		return Value{}, evalErrf("unexpected expression kind %T", e)
	}
}

// evalBinary evaluates both operands left to right; both must reduce
// to numbers. Arithmetic follows IEEE float semantics unguarded.
// Bitwise operators reinterpret both operands as 64-bit unsigned
// integers, operate, and convert back — deliberately a raw truncation,
// kept for compatibility with the language's reference behavior.
func (ip *Interpreter) evalBinary(x *BinaryOperation, env *Env) (Value, error) {
	lv, err := ip.eval(x.Lhs, env)
	if err != nil {
		return Value{}, err
	}
	rv, err := ip.eval(x.Rhs, env)
	if err != nil {
		return Value{}, err
	}
	if lv.Tag != VTNumber || rv.Tag != VTNumber {
		return Value{}, evalErrf("expected numeric literal for binary operation '%s'", x.Op)
	}
	l, r := lv.number(), rv.number()
	var out float64
	switch x.Op {
	case OpAdd:
		out = l + r
	case OpSub:
		out = l - r
	case OpMul:
		out = l * r
	case OpDiv:
		out = l / r
	case OpBitAnd:
		out = float64(uint64(l) & uint64(r))
	case OpBitOr:
		out = float64(uint64(l) | uint64(r))
	}
	return NumberVal(out), nil
}

// evalApplicationIf implements the reserved conditional application:
// evaluate Func applied to Arg1 (outside recursion context); literal 1
// selects Arg2's value, any other literal halts, anything else is a
// type error. The grammar never produces this node; the semantics are
// kept so the variant stays well-defined.
func (ip *Interpreter) evalApplicationIf(x *ApplicationIf, env *Env) (Value, error) {
	cond, err := ip.apply(x.Func, x.Arg1, env, false)
	if err != nil {
		return Value{}, err
	}
	alt, err := ip.eval(x.Arg2, env)
	if err != nil {
		return Value{}, err
	}
	switch {
	case cond.isNumber(1):
		return alt, nil
	case cond.Tag == VTNumber:
		return HaltValue, nil
	default:
		return Value{}, evalErrf("conditional-application only takes numeric value")
	}
}

// apply is the application algorithm. Both the function expression and
// the argument are evaluated eagerly in env, in that order. In
// recursion context an argument of exactly 0 is the termination
// sentinel and yields Halt before anything is invoked.
func (ip *Interpreter) apply(fnExpr, argExpr Expr, env *Env, recursionContext bool) (Value, error) {
	fn, err := ip.eval(fnExpr, env)
	if err != nil {
		return Value{}, err
	}
	arg, err := ip.eval(argExpr, env)
	if err != nil {
		return Value{}, err
	}

	if recursionContext && arg.isNumber(0) {
		return HaltValue, nil
	}

	switch fn.Tag {
	case VTClosure:
		cl := fn.Data.(*Closure)

		// Child of the *captured* frame — lexical, not dynamic, scoping.
		frame := NewEnv(cl.Env)
		frame.Define(cl.Param, arg)

		result, err := ip.eval(cl.Body, frame)
		if err != nil {
			return Value{}, err
		}

		// A recursion marker as the direct body result carries the next
		// argument expression forward; its value must reduce to a number
		// or Halt, one level deep only.
		var pendingNext Expr
		if result.Tag == VTRecursion {
			pendingNext = result.Data.(Expr)
			result, err = ip.eval(pendingNext, frame)
			if err != nil {
				return Value{}, err
			}
			if result.Tag != VTNumber && result.Tag != VTHalt {
				return Value{}, evalErrf("recursion only accepts a numeric value or halt")
			}
		}

		if result.Tag == VTHalt {
			return HaltValue, nil
		}

		// Builtin dispatch keys on the parameter name the abstraction
		// chose, nothing else.
		if capability, ok := ip.caps[cl.Param]; ok {
			result, err = capability(ip, result)
			if err != nil {
				return Value{}, err
			}
		}

		if pendingNext != nil {
			// Tail-loop: re-apply the same original function expression to
			// the produced expression, in the frame just created, with
			// recursion context active.
			return ip.apply(fnExpr, pendingNext, frame, true)
		}
		return result, nil

	case VTNumber:
		// A number in function position passes through: a fully reduced
		// partial application can still meet a trailing argument.
		return fn, nil
	case VTUnit:
		return Unit, nil
	case VTHalt:
		return HaltValue, nil
	default:
		return Value{}, evalErrf("unexpected evaluation value in function position")
	}
}
