// Package builtins installs the global object, the per-kind prototype
// objects (Object/Function/Array/Error/String), the Error constructor
// family, and the Array constructor onto a freshly-created
// interpreter.Interpreter. The interpreter package itself never references
// this one (the reverse would be an import cycle: builtins imports
// interpreter for its BuiltinFunc/Interpreter types and object/value/heap
// below it) — a Runtime calls Bootstrap once, right after
// interpreter.New, before any user bytecode runs.
package builtins

import (
	"github.com/playXE/js/internal/heap"
	"github.com/playXE/js/internal/interpreter"
	"github.com/playXE/js/internal/jserror"
	"github.com/playXE/js/internal/object"
	"github.com/playXE/js/internal/structure"
	"github.com/playXE/js/internal/value"
)

// method is the non-enumerable-but-writable-and-configurable attribute set
// every built-in property below uses, matching the original's own "W | C"
// shorthand (see vm.rs's init_error/init_array): visible to `for`/`in`
// enumeration would make every built-in leak into user iteration, which no
// ECMAScript engine does.
const method = structure.Writable | structure.Configurable

// Bootstrap populates ip's prototype fields, installs the heap's
// ErrorFactory, and defines the global bindings a program can observe:
// `Object`, `Array` (+ `Array.isArray`), and the Error constructor family
// (`Error`, `TypeError`, `RangeError`, `ReferenceError`, `SyntaxError`,
// `EvalError`).
func Bootstrap(ip *interpreter.Interpreter) {
	h := ip.Heap

	objectProtoObj := object.NewOrdinary(h.Roots.Ordinary, value.Undefined())
	ip.ObjectProto = h.NewObject(objectProtoObj)

	functionProtoObj := object.NewOrdinary(h.Roots.Ordinary, ip.ObjectProto)
	ip.FunctionProto = h.NewObject(functionProtoObj)

	arrayProtoObj := object.NewOrdinary(h.Roots.Ordinary, ip.ObjectProto)
	ip.ArrayProto = h.NewObject(arrayProtoObj)

	stringProtoObj := object.NewOrdinary(h.Roots.Ordinary, ip.ObjectProto)
	ip.StringProto = h.NewObject(stringProtoObj)

	errorProto := initErrorFamily(ip)
	ip.ErrorProto = errorProto[jserror.GenericError]
	h.SetErrorFactory(makeErrorFactory(ip, errorProto))

	initObjectGlobal(ip)
	initArrayGlobal(ip)
}

// defineValue installs name as a non-enumerable, writable, configurable own
// property of owner — the shape every global binding and prototype method
// below uses.
func defineValue(h *heap.Heap, owner value.Value, name string, v value.Value) {
	h.Object(owner).DefineOwnNonIndexedPropertySlot(h, h.Symbols().Intern(name), v, method)
}

// defineMethod installs an ordinary (callable-only, not constructable) native
// method — the shape every built-in method (Array.isArray,
// Error.prototype.toString, ...) uses.
func defineMethod(ip *interpreter.Interpreter, owner value.Value, name string, length int, fn func(object.Host, value.Value, []value.Value) (value.Value, *value.Value)) {
	defineValue(ip.Heap, owner, name, ip.NewNativeFunction(name, length, fn, value.Undefined(), false))
}
