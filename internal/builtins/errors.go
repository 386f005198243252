package builtins

import (
	"github.com/playXE/js/internal/heap"
	"github.com/playXE/js/internal/interpreter"
	"github.com/playXE/js/internal/jserror"
	"github.com/playXE/js/internal/object"
	"github.com/playXE/js/internal/symbol"
	"github.com/playXE/js/internal/value"
)

// errorKinds lists every jserror.Kind the Error constructor family covers,
// GenericError (bound to the global name "Error") first since every other
// kind's prototype chains up to it.
var errorKinds = []struct {
	kind jserror.Kind
	name string
}{
	{jserror.GenericError, "Error"},
	{jserror.TypeError, "TypeError"},
	{jserror.RangeError, "RangeError"},
	{jserror.ReferenceError, "ReferenceError"},
	{jserror.SyntaxError, "SyntaxError"},
	{jserror.EvalError, "EvalError"},
}

// initErrorFamily builds one prototype object per jserror.Kind (TypeError's
// etc. chaining up to Error's, matching vm.rs's init_error nesting), each
// carrying its own `name`/`message`/`toString`, and a matching constructor
// function bound onto the global object. It returns the kind→prototype map
// makeErrorFactory needs to build a thrown-ready Error Value for any kind.
func initErrorFamily(ip *interpreter.Interpreter) map[jserror.Kind]value.Value {
	h := ip.Heap
	protos := make(map[jserror.Kind]value.Value, len(errorKinds))

	for _, k := range errorKinds {
		parentProto := ip.ObjectProto
		if k.kind != jserror.GenericError {
			parentProto = protos[jserror.GenericError]
		}
		protoObj := object.NewOrdinary(h.Roots.Ordinary, parentProto)
		protoVal := h.NewObject(protoObj)

		defineValue(h, protoVal, "name", h.NewString(k.name))
		defineValue(h, protoVal, "message", h.NewString(""))
		defineMethod(ip, protoVal, "toString", 0, errorToString)

		protos[k.kind] = protoVal

		ctor := ip.NewNativeFunction(k.name, 1, makeErrorConstructor(ip, k.kind, protoVal), protoVal, true)
		defineValue(h, ip.GlobalThis, k.name, ctor)
	}
	return protos
}

// makeErrorFactory adapts protos into the heap.ErrorFactory callback every
// engine-internal NewError call (ReferenceError on an unresolved identifier,
// TypeError on a non-callable invocation, RangeError on stack overflow, ...)
// goes through, so a fault raised deep inside the interpreter produces a
// real Error instance with the right prototype chain rather than a bare
// Go value.
func makeErrorFactory(ip *interpreter.Interpreter, protos map[jserror.Kind]value.Value) heap.ErrorFactory {
	return func(h *heap.Heap, kind jserror.Kind, message string) value.Value {
		proto, ok := protos[kind]
		if !ok {
			proto = protos[jserror.GenericError]
		}
		o := object.NewError(h.Roots.Error, proto, uint8(kind), message)
		o.DefineOwnNonIndexedPropertySlot(h, symbol.MessageSymbol(), h.NewString(message), method)
		return h.NewObject(o)
	}
}

// makeErrorConstructor backs `new TypeError(msg)` / `TypeError(msg)` (called
// without `new` still produces a fresh Error instance, matching the
// ECMAScript Error constructor's special-casing of a non-constructor call —
// the native function always allocates its own object rather than relying on
// Interpreter.invoke's implicit `this`, since a plain call's `this` is
// whatever the caller passed, not a fresh instance).
func makeErrorConstructor(ip *interpreter.Interpreter, kind jserror.Kind, proto value.Value) func(object.Host, value.Value, []value.Value) (value.Value, *value.Value) {
	return func(_ object.Host, _ value.Value, args []value.Value) (value.Value, *value.Value) {
		h := ip.Heap
		msg := ""
		if len(args) > 0 && !args[0].IsUndefined() {
			s, thrown := ip.ToStringValue(args[0])
			if thrown != nil {
				return value.Undefined(), thrown
			}
			msg = s
		}
		o := object.NewError(h.Roots.Error, proto, uint8(kind), msg)
		o.DefineOwnNonIndexedPropertySlot(h, symbol.MessageSymbol(), h.NewString(msg), method)
		return h.NewObject(o), nil
	}
}

// errorToString implements Error.prototype.toString: "name: message", or
// just "name" when message is empty, per the ECMAScript algorithm
// (simplified: name/message are read via ordinary Get rather than spec's
// exact "or throw if not a string" coercion, since every Error instance this
// engine produces already has string-valued name/message).
func errorToString(host object.Host, this value.Value, args []value.Value) (value.Value, *value.Value) {
	if !this.IsObject() {
		thrown := host.NewError(jserror.TypeError, "Error.prototype.toString called on non-object")
		return value.Value(0), &thrown
	}
	o := host.ResolveObject(this.AsObjectHandle())
	name := "Error"
	if nameVal := o.Get(host, symbol.NameSymbol()); nameVal.IsString() {
		name = host.ResolveString(nameVal.AsStringHandle())
	}
	msg := ""
	if msgVal := o.Get(host, symbol.MessageSymbol()); msgVal.IsString() {
		msg = host.ResolveString(msgVal.AsStringHandle())
	}
	if msg == "" {
		return host.NewString(name), nil
	}
	return host.NewString(name + ": " + msg), nil
}
