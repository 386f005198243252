package builtins

import (
	"github.com/playXE/js/internal/interpreter"
	"github.com/playXE/js/internal/object"
	"github.com/playXE/js/internal/value"
)

// initObjectGlobal wires the global `Object` constructor: `new Object()` /
// `Object()` with no argument (or a non-object argument) allocates a fresh
// plain object; called with an object argument it passes that object
// through unchanged, matching ECMAScript's ToObject-on-an-object-is-a-no-op
// rule.
func initObjectGlobal(ip *interpreter.Interpreter) {
	ctor := ip.NewNativeFunction("Object", 1, objectConstructor(ip), ip.ObjectProto, true)
	defineValue(ip.Heap, ip.GlobalThis, "Object", ctor)
}

func objectConstructor(ip *interpreter.Interpreter) func(object.Host, value.Value, []value.Value) (value.Value, *value.Value) {
	return func(_ object.Host, _ value.Value, args []value.Value) (value.Value, *value.Value) {
		if len(args) > 0 && args[0].IsObject() {
			return args[0], nil
		}
		o := object.NewOrdinary(ip.Heap.Roots.Ordinary, ip.ObjectProto)
		return ip.Heap.NewObject(o), nil
	}
}

// initArrayGlobal wires the global `Array` constructor plus its one static
// method, `Array.isArray`. Elements built via NEWARRAY bytecode (array
// literals) never go through this constructor — only an explicit `new
// Array(...)`/`Array(...)` call does.
func initArrayGlobal(ip *interpreter.Interpreter) {
	ctor := ip.NewNativeFunction("Array", 1, arrayConstructor(ip), ip.ArrayProto, true)
	defineMethod(ip, ctor, "isArray", 1, arrayIsArray)
	defineValue(ip.Heap, ip.GlobalThis, "Array", ctor)
}

// arrayConstructor follows ECMAScript's single-numeric-argument special
// case (`new Array(5)` is a length-5 hole-filled array, not a one-element
// array `[5]`); any other argument count/shape is a literal element list.
func arrayConstructor(ip *interpreter.Interpreter) func(object.Host, value.Value, []value.Value) (value.Value, *value.Value) {
	return func(_ object.Host, _ value.Value, args []value.Value) (value.Value, *value.Value) {
		o := object.NewArray(ip.Heap.Roots.Array, ip.ArrayProto)
		if len(args) == 1 && args[0].IsNumber() {
			n, thrown := ip.ToNumberValue(args[0])
			if thrown != nil {
				return value.Undefined(), thrown
			}
			o.Indexed.SetLength(uint32(int64(n)))
		} else {
			for i, a := range args {
				o.Indexed.Put(uint32(i), a)
			}
		}
		return ip.Heap.NewObject(o), nil
	}
}

func arrayIsArray(host object.Host, this value.Value, args []value.Value) (value.Value, *value.Value) {
	if len(args) == 0 || !args[0].IsObject() {
		return value.Bool(false), nil
	}
	o := host.ResolveObject(args[0].AsObjectHandle())
	return value.Bool(o.Tag == object.TagArray), nil
}
