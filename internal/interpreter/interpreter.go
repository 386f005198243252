// Package interpreter executes a compiled bytecode.CodeBlock: a
// fetch/decode/dispatch loop over a per-activation frame, plus the
// function-call/construct machinery (parameter binding, arguments object,
// closures) and the inline-cache logic GET_BY_ID/PUT_BY_ID/GET_VAR use.
package interpreter

import (
	"github.com/playXE/js/internal/bytecode"
	"github.com/playXE/js/internal/buildoptions"
	"github.com/playXE/js/internal/environment"
	"github.com/playXE/js/internal/heap"
	"github.com/playXE/js/internal/jsdebug"
	"github.com/playXE/js/internal/jserror"
	"github.com/playXE/js/internal/object"
	"github.com/playXE/js/internal/structure"
	"github.com/playXE/js/internal/symbol"
	"github.com/playXE/js/internal/value"
)

// BuiltinFunc is the calling convention CALL_BUILTIN dispatches through:
// exactly argc argument values (already popped off the caller's stack, in
// push order) and a construct flag, returning exactly one result value or a
// thrown one.
type BuiltinFunc func(ip *Interpreter, args []value.Value, construct bool) (value.Value, *value.Value)

// Interpreter is one engine instance: a Heap, the global Environment/object,
// the CALL_BUILTIN dispatch table, and the handful of prototype Values that
// have no home on Heap.Roots (which holds only empty root Structures, not
// concrete prototype objects — see internal/builtins' bootstrap).
type Interpreter struct {
	Heap       *heap.Heap
	Global     *environment.Environment
	GlobalThis value.Value

	Builtins []BuiltinFunc

	ObjectProto   value.Value
	FunctionProto value.Value
	ArrayProto    value.Value
	ErrorProto    value.Value
	StringProto   value.Value

	// Listener, when set, is traced around every CALL/NEW (see invoke). A
	// Runtime installs this from its Config; nil means no tracing overhead
	// beyond the one nil check per call.
	Listener jsdebug.Listener

	// CallStackCeiling bounds nested Go recursion (one Go call per JS call,
	// per frame.go's doc comment); exceeding it raises a RangeError rather
	// than letting the Go stack itself overflow. New defaults this to
	// buildoptions.CallStackCeiling; a Runtime's Config can override it.
	CallStackCeiling int

	depth int
}

// New creates an Interpreter over an already-allocated Heap and global
// Environment. Prototype values and further builtins are installed
// afterward by internal/builtins' bootstrap; until that runs, object/array/
// function literals get a `null`-ish prototype slot (ObjectProto's zero
// value is the all-zero-bits Value, the number +0, which is not an object
// and so acts as "no prototype", a safe default before bootstrap populates
// the real one).
func New(h *heap.Heap, global *environment.Environment) *Interpreter {
	global.Record.Tag = object.TagGlobal
	ip := &Interpreter{
		Heap:             h,
		Global:           global,
		CallStackCeiling: buildoptions.CallStackCeiling,
	}
	ip.GlobalThis = h.NewObject(global.Record)
	ip.Builtins = make([]BuiltinFunc, 3)
	ip.Builtins[bytecode.BuiltinArrayPush] = builtinArrayPush
	ip.Builtins[bytecode.BuiltinArrayPushSpread] = builtinArrayPushSpread
	ip.Builtins[bytecode.BuiltinApply] = builtinApply
	return ip
}

// RegisterBuiltin installs fn at id, growing the dispatch table as needed,
// for ids beyond the three the compiler's own lowering emits (New installs
// those three).
func (ip *Interpreter) RegisterBuiltin(id uint32, fn BuiltinFunc) {
	for uint32(len(ip.Builtins)) <= id {
		ip.Builtins = append(ip.Builtins, nil)
	}
	ip.Builtins[id] = fn
}

// Call invokes calleeVal as a plain function call with the given `this` and
// arguments.
func (ip *Interpreter) Call(calleeVal, thisVal value.Value, args []value.Value) (value.Value, *value.Value) {
	return ip.invoke(calleeVal, thisVal, args, false)
}

// Construct invokes calleeVal as `new calleeVal(...args)`.
func (ip *Interpreter) Construct(calleeVal value.Value, args []value.Value) (value.Value, *value.Value) {
	return ip.invoke(calleeVal, value.Undefined(), args, true)
}

func (ip *Interpreter) notAFunction() *value.Value {
	thrown := ip.Heap.NewError(jserror.TypeError, "value is not a function")
	return &thrown
}

func (ip *Interpreter) invoke(calleeVal value.Value, thisVal value.Value, args []value.Value, construct bool) (value.Value, *value.Value) {
	if !calleeVal.IsObject() {
		return value.Undefined(), ip.notAFunction()
	}
	obj := ip.Heap.Object(calleeVal)
	if !obj.Callable {
		return value.Undefined(), ip.notAFunction()
	}
	if construct && !obj.Constructable {
		thrown := ip.Heap.NewError(jserror.TypeError, obj.FuncData().Name+" is not a constructor")
		return value.Undefined(), &thrown
	}

	ip.depth++
	if ip.depth > ip.CallStackCeiling {
		ip.depth--
		thrown := ip.Heap.NewError(jserror.RangeError, "Maximum call stack size exceeded")
		return value.Undefined(), &thrown
	}
	defer func() { ip.depth-- }()

	data := obj.FuncData()

	var newInstance value.Value
	actualThis := thisVal
	if construct {
		proto := ip.ObjectProto
		if protoVal := obj.Get(ip.Heap, symbol.PrototypeSymbol()); protoVal.IsObject() {
			proto = protoVal
		}
		inst := object.NewOrdinary(ip.Heap.Roots.Ordinary, proto)
		newInstance = ip.Heap.NewObject(inst)
		actualThis = newInstance
	}

	if ip.Listener != nil {
		ip.Listener.Before(data.Name, construct, args)
	}

	if data.Go != nil {
		result, thrown := data.Go(ip.Heap, actualThis, args)
		if thrown != nil {
			if ip.Listener != nil {
				ip.Listener.After(data.Name, value.Undefined(), thrown)
			}
			return value.Undefined(), thrown
		}
		if construct && !result.IsObject() {
			result = newInstance
		}
		if ip.Listener != nil {
			ip.Listener.After(data.Name, result, nil)
		}
		return result, nil
	}

	cb, ok := data.CodeBlock.(*bytecode.CodeBlock)
	if !ok || cb == nil {
		return value.Undefined(), ip.notAFunction()
	}

	closureEnv, _ := data.Closure.(*environment.Environment)
	if closureEnv == nil {
		closureEnv = ip.Global
	}

	f, thrown := ip.buildFrame(cb, closureEnv, actualThis, args)
	if thrown != nil {
		return value.Undefined(), thrown
	}

	result, thrown := ip.run(f)
	if thrown != nil {
		if ip.Listener != nil {
			ip.Listener.After(data.Name, value.Undefined(), thrown)
		}
		return value.Undefined(), thrown
	}
	if construct && !result.IsObject() {
		result = newInstance
	}
	if ip.Listener != nil {
		ip.Listener.After(data.Name, result, nil)
	}
	return result, nil
}

// RunProgram executes a top-level CodeBlock (one produced by
// compiler.CompileProgram) directly against the global Environment and
// GlobalThis, without wrapping it in a function object first — a Runtime's
// Eval entry point, as opposed to Call, which always goes through invoke.
func (ip *Interpreter) RunProgram(cb *bytecode.CodeBlock) (value.Value, *value.Value) {
	f, thrown := ip.buildFrame(cb, ip.Global, ip.GlobalThis, nil)
	if thrown != nil {
		return value.Undefined(), thrown
	}
	return ip.run(f)
}

// NewInterpretedFunction wraps a CodeBlock produced by
// compiler.CompileFunction/CompileProgram in a callable, constructable
// function object closing over the global Environment — a Runtime's Compile
// entry point, which hands the caller back a Value it can later pass to
// Call.
func (ip *Interpreter) NewInterpretedFunction(cb *bytecode.CodeBlock, name string) value.Value {
	data := &object.FunctionData{
		CodeBlock: cb,
		Name:      name,
		ParamsLen: uint32(cb.ParamCount),
		Closure:   ip.Global,
	}
	return ip.newFunctionObject(data, value.Undefined(), true)
}

// buildFrame allocates the Environment for one call activation and binds its
// parameters (including a rest parameter and an unmapped `arguments`
// object), per spec.md §4.5/§12. Hoisted `var`s and function declarations
// are NOT pre-declared here: CompileProgram/CompileFunction already emit
// DECL_LET instructions for them at the top of the bytecode stream itself,
// which this frame's first instructions will execute.
func (ip *Interpreter) buildFrame(cb *bytecode.CodeBlock, closureEnv *environment.Environment, this value.Value, args []value.Value) (*frame, *value.Value) {
	env := environment.New(ip.Heap.Roots.Ordinary, closureEnv)

	limit := int(cb.ParamCount)
	if cb.RestAt >= 0 {
		limit = int(cb.RestAt)
	}
	for i := 0; i < limit; i++ {
		pname := cb.Params[i]
		env.DeclareVar(pname)
		var v value.Value
		if i < len(args) {
			v = args[i]
		} else {
			v = value.Undefined()
		}
		if thrown := env.SetMutableBinding(ip.Heap, pname, v); thrown != nil {
			return nil, thrown
		}
	}

	if cb.RestAt >= 0 {
		restName := cb.Params[cb.RestAt]
		restObj := object.NewArray(ip.Heap.Roots.Array, ip.ArrayProto)
		n := uint32(0)
		for i := int(cb.RestAt); i < len(args); i++ {
			restObj.Indexed.Put(n, args[i])
			n++
		}
		env.DeclareVar(restName)
		if thrown := env.SetMutableBinding(ip.Heap, restName, ip.Heap.NewObject(restObj)); thrown != nil {
			return nil, thrown
		}
	}

	if cb.UseArguments {
		argsVal := ip.makeArguments(env, args)
		argsName := symbol.ArgumentsSymbol()
		env.DeclareVar(argsName)
		if thrown := env.SetMutableBinding(ip.Heap, argsName, argsVal); thrown != nil {
			return nil, thrown
		}
	}

	return newFrame(cb, env, this), nil
}

// newFunctionObject builds a callable object for data and gives it its own
// writable, non-enumerable, non-configurable `prototype` property — a fresh
// ordinary object, unless proto is already an object (the case for native
// constructors bootstrapped onto a fixed prototype, e.g. Array/Error) — whose
// own `constructor` property points back to the function. This is the pairing
// `new` relies on to resolve the constructed instance's prototype (see
// invoke's construct branch) and is required for every function, not just
// explicit `class`-style constructors (spec.md §12 supplemented feature).
func (ip *Interpreter) newFunctionObject(data *object.FunctionData, proto value.Value, constructable bool) value.Value {
	fnObj := object.NewFunction(ip.Heap.Roots.Function, ip.FunctionProto, data)
	fnObj.Constructable = constructable
	fnVal := ip.Heap.NewObject(fnObj)
	if !proto.IsObject() {
		p := object.NewOrdinary(ip.Heap.Roots.Ordinary, ip.ObjectProto)
		proto = ip.Heap.NewObject(p)
	}
	ip.Heap.Object(proto).DefineOwnNonIndexedPropertySlot(ip.Heap, symbol.ConstructorSymbol(), fnVal, structure.Writable|structure.Configurable)
	fnObj.DefineOwnNonIndexedPropertySlot(ip.Heap, symbol.PrototypeSymbol(), proto, structure.Writable)
	return fnVal
}

// NewNativeFunction builds a callable object backed by a Go function instead
// of a CodeBlock, for internal/builtins' bootstrap. proto, when already an
// object, is reused as the function's own `prototype` property rather than
// allocating a fresh one — the case every built-in constructor needs (e.g.
// wiring Array's constructor function to the one shared Array.prototype
// instead of a prototype object nothing else references). constructable
// should be true only for the handful of native functions meant to be used
// with `new` (Object, Array, the Error family); ordinary built-in methods
// like Array.isArray are callable-only, matching real ECMAScript built-ins.
func (ip *Interpreter) NewNativeFunction(name string, length int, fn func(object.Host, value.Value, []value.Value) (value.Value, *value.Value), proto value.Value, constructable bool) value.Value {
	data := &object.FunctionData{Go: fn, Name: name, ParamsLen: uint32(length)}
	return ip.newFunctionObject(data, proto, constructable)
}

// makeArguments builds an unmapped arguments object: a snapshot array-like
// of the call's actual arguments. Live aliasing to the named parameter
// slots (mapped arguments, sloppy-mode only) is not implemented; every
// caller of the engine only ever observes strict-style unmapped semantics,
// a deliberate simplification recorded in DESIGN.md.
func (ip *Interpreter) makeArguments(env *environment.Environment, args []value.Value) value.Value {
	o := object.NewArguments(ip.Heap.Roots.Arguments, ip.ObjectProto)
	for i, a := range args {
		o.Indexed.Put(uint32(i), a)
	}
	o.Native = &object.ArgumentsData{Env: env, Mapped: make([]bool, len(args))}
	o.DefineOwnNonIndexedPropertySlot(ip.Heap, symbol.LengthSymbol(), value.Int32(int32(len(args))), structure.Writable|structure.Configurable)
	return ip.Heap.NewObject(o)
}
