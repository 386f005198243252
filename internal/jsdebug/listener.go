package jsdebug

import "github.com/playXE/js/internal/value"

// Listener is the call-boundary trace hook, invoked by the interpreter
// around every CALL/NEW when a Runtime is configured with one (or with
// DumpBytecode). Before/After mirrors internal/logging's param/result
// logger split, adapted from per-wasm-value-type loggers to a single pair
// of calls carrying the already-boxed argument/result Values a JS host
// actually wants to print or trace — there is no fixed arity/type table to
// precompute here the way logging.Config builds one per wasm signature.
type Listener interface {
	// Before fires immediately before a function body starts executing.
	// construct is true for `new`.
	Before(funcName string, construct bool, args []value.Value)
	// After fires once the call returns, either with a result or with a
	// thrown value (exactly one of the two is non-nil/non-zero; check
	// thrown first).
	After(funcName string, result value.Value, thrown *value.Value)
}

// Listeners combines zero or more Listener values into one, so a Runtime
// can register several independent observers (e.g. a disassembly dumper
// and a call-count profiler) without the interpreter itself knowing how
// many there are.
type Listeners []Listener

func (ls Listeners) Before(funcName string, construct bool, args []value.Value) {
	for _, l := range ls {
		l.Before(funcName, construct, args)
	}
}

func (ls Listeners) After(funcName string, result value.Value, thrown *value.Value) {
	for _, l := range ls {
		l.After(funcName, result, thrown)
	}
}
