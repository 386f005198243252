// Package jserror defines the small, closed set of native error kinds the
// engine itself can raise (as opposed to user code throwing an arbitrary
// Value via `throw`), plus the Go-level plumbing used to surface an
// unhandled JavaScript exception across the host API boundary.
//
// jserror intentionally has no dependency on internal/object or
// internal/heap: constructing the actual Error object (with its prototype
// chain and `message`/`name` properties) is the heap's job, wired through a
// factory function the heap calls back into (see internal/heap's
// SetErrorFactory). jserror only names which kind of error and carries the
// message text.
package jserror

// Kind enumerates the native error constructors spec.md §7 requires.
type Kind uint8

const (
	GenericError Kind = iota
	TypeError
	RangeError
	ReferenceError
	SyntaxError
	EvalError
)

// Name returns the ECMAScript constructor name, used for the error object's
// `name` property and for `Error.prototype.toString`-style formatting.
func (k Kind) Name() string {
	switch k {
	case TypeError:
		return "TypeError"
	case RangeError:
		return "RangeError"
	case ReferenceError:
		return "ReferenceError"
	case SyntaxError:
		return "SyntaxError"
	case EvalError:
		return "EvalError"
	default:
		return "Error"
	}
}

// Fault identifies a host/engine-internal failure that is not itself a
// catchable JavaScript exception: malformed bytecode, a literal/name pool
// index out of range. These are raised as Go panics of type *Fault and
// recovered exactly once, at the Runtime.Call/Eval boundary (see the root
// package's recoverFault), rather than threaded through every return value —
// mirroring how the teacher's engine reserves panic/recover for faults the
// Wasm spec itself calls traps, not for ordinary control flow.
type Fault struct {
	Message string
}

func (f *Fault) Error() string { return "js: fault: " + f.Message }

// NewFault panics with a *Fault carrying msg. Call sites use this instead of
// a bare panic(string) so the recover at the Runtime boundary can
// type-assert cleanly.
func NewFault(msg string) {
	panic(&Fault{Message: msg})
}

// StackOverflow panics with a call-stack-overflow Fault. The interpreter's
// own call-depth check does not use it: exceeding the ceiling there throws a
// catchable RangeError (see Interpreter.invoke).
func StackOverflow() {
	panic(&Fault{Message: "call stack size exceeded"})
}
