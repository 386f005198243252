package js

import (
	"fmt"

	"github.com/playXE/js/api"
)

// ThrownError wraps a JavaScript value thrown from Eval, Compile, or Call —
// from an explicit `throw`, or from one of the engine's own native errors
// (TypeError, RangeError, ...). It is the api.Error a host type-asserts a
// returned error against to recover the actual thrown Value rather than
// just its message.
type ThrownError struct {
	Value Value
	kind  api.ErrorKind
}

func (e *ThrownError) Error() string {
	return fmt.Sprintf("Uncaught %s: %s", api.ErrorKindName(e.kind), e.Value.String())
}

// ErrorKind reports which native constructor produced the thrown value,
// or api.ErrorKindGeneric for an arbitrary thrown value (`throw "boom"`,
// `throw 42`) that isn't one of the engine's own Error instances.
func (e *ThrownError) ErrorKind() api.ErrorKind { return e.kind }

var _ api.Error = (*ThrownError)(nil)

func (rt *Runtime) thrownError(v Value) *ThrownError {
	return &ThrownError{Value: v, kind: errorValueKind(rt.heap, v.v)}
}

// EngineError reports a fault in the engine or host usage itself —
// anything recoverable here means a built-in violated its own invariants (bad bytecode, a Host callback
// panicking) rather than user JavaScript throwing normally. Eval/Compile/
// Call recover these at the call boundary rather than letting them cross
// into host Go code as a bare panic.
type EngineError struct {
	msg   string
	cause error
}

func (e *EngineError) Error() string { return e.msg }
func (e *EngineError) Unwrap() error { return e.cause }
