// Package js is the embeddable JavaScript engine: compile an already-parsed
// AST to bytecode, run it against a Runtime's heap, and call back into
// compiled functions from Go. Source text parsing is out of scope — a host
// brings its own parser and hands this package an *ast.Program or function
// AST node.
package js

import (
	"fmt"

	"github.com/playXE/js/internal/ast"
	"github.com/playXE/js/internal/builtins"
	"github.com/playXE/js/internal/compiler"
	"github.com/playXE/js/internal/environment"
	"github.com/playXE/js/internal/heap"
	"github.com/playXE/js/internal/interpreter"
	"github.com/playXE/js/internal/jsdebug"
	"github.com/playXE/js/internal/jserror"
	"github.com/playXE/js/internal/symbol"
	"github.com/playXE/js/internal/value"
)

// Runtime is one isolated engine instance: its own heap, global object, and
// interpreter. Values produced by one Runtime must not be passed to
// another — a Value's object/string payloads are handles into its owning
// Runtime's heap, meaningless anywhere else.
type Runtime struct {
	config  *Config
	symbols *symbol.Table
	heap    *heap.Heap
	global  *environment.Environment
	ip      *interpreter.Interpreter
}

// New constructs a Runtime. A nil config is equivalent to NewConfig().
func New(config *Config) *Runtime {
	if config == nil {
		config = NewConfig()
	}

	symbols := symbol.NewTable()
	h := heap.New(symbols)
	global := environment.New(h.Roots.Global, nil)
	ip := interpreter.New(h, global)
	ip.CallStackCeiling = config.CallStackCeiling

	rt := &Runtime{config: config, symbols: symbols, heap: h, global: global, ip: ip}

	builtins.Bootstrap(ip)

	if config.DumpBytecode {
		ip.Listener = newTracer()
	}

	return rt
}

// GlobalThis returns the Value bound to `this` at top level (spec.md §3's
// global object).
func (rt *Runtime) GlobalThis() Value { return rt.wrap(rt.ip.GlobalThis) }

// Global looks up a binding on the global object by name — the `Object`,
// `Array`, `Error` (and friends) constructors installed by bootstrap, or
// anything a prior Eval/Call added to it. Returns undefined if name is not
// bound, the same miss behavior a plain property read gets.
func (rt *Runtime) Global(name string) Value {
	obj := rt.heap.ResolveObject(rt.ip.GlobalThis.AsObjectHandle())
	return rt.wrap(obj.Get(rt.heap, rt.symbols.Intern(name)))
}

// Undefined returns the `undefined` Value.
func (rt *Runtime) Undefined() Value { return rt.wrap(value.Undefined()) }

func (rt *Runtime) recoverFault(out *error) {
	r := recover()
	if r == nil {
		return
	}
	if fault, ok := r.(*jserror.Fault); ok {
		*out = &EngineError{msg: fault.Message}
		return
	}
	eb := jsdebug.NewErrorBuilder()
	*out = &EngineError{msg: fmt.Sprintf("panic: %v", r), cause: eb.FromRecovered(r)}
}

// Eval compiles prog and runs it as a top-level program, per spec.md §6's
// `eval`, returning the value of the last top-level expression statement it
// evaluated, or undefined if none ran. Expression statements nested inside
// a block, if, loop or try statement do not set the result.
func (rt *Runtime) Eval(strict bool, prog *ast.Program) (result Value, err error) {
	defer rt.recoverFault(&err)

	cb := compiler.CompileProgram(rt.symbols, rt.heap, prog, strict)
	v, thrown := rt.ip.RunProgram(cb)
	if thrown != nil {
		return Value{}, rt.thrownError(rt.wrap(*thrown))
	}
	return rt.wrap(v), nil
}

// Compile compiles params and body as a standalone top-level function (closing only
// over the global scope) named name, returning a callable Value per
// spec.md §6's `compile`.
func (rt *Runtime) Compile(strict bool, params []*ast.Param, body *ast.BlockStatement, name string) (fn Value, err error) {
	defer rt.recoverFault(&err)

	cb := compiler.CompileTopLevelFunction(rt.symbols, rt.heap, name, params, body, strict)
	return rt.wrap(rt.ip.NewInterpretedFunction(cb, name)), nil
}

// Call invokes fn with the given `this` binding and arguments, per spec.md
// §6's `call`.
func (rt *Runtime) Call(fn Value, this Value, args []Value) (result Value, err error) {
	defer rt.recoverFault(&err)

	v, thrown := rt.ip.Call(fn.v, this.v, valuesToInternal(args))
	if thrown != nil {
		return Value{}, rt.thrownError(rt.wrap(*thrown))
	}
	return rt.wrap(v), nil
}

// Construct invokes fn as `new fn(...args)`, per the `new` operator's own
// semantics rather than a plain call.
func (rt *Runtime) Construct(fn Value, args []Value) (result Value, err error) {
	defer rt.recoverFault(&err)

	v, thrown := rt.ip.Construct(fn.v, valuesToInternal(args))
	if thrown != nil {
		return Value{}, rt.thrownError(rt.wrap(*thrown))
	}
	return rt.wrap(v), nil
}
