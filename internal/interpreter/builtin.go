package interpreter

import (
	"github.com/playXE/js/internal/jserror"
	"github.com/playXE/js/internal/value"
)

// builtinArrayPush backs bytecode.BuiltinArrayPush: appends one element to
// an array being built by compileArrayLiteral/compileArguments. Its result
// is always discarded by the compiler (an OpPop immediately follows every
// CALL_BUILTIN site that uses it, since a OpDup kept the array itself on
// the stack underneath), so the return value is a plain Undefined.
func builtinArrayPush(ip *Interpreter, args []value.Value, construct bool) (value.Value, *value.Value) {
	arr := ip.Heap.Object(args[0])
	arr.Indexed.Put(arr.Indexed.Length, args[1])
	return value.Undefined(), nil
}

// builtinArrayPushSpread backs bytecode.BuiltinArrayPushSpread: expands a
// spread element (`...x`) into the array being built. x must be a string or
// an array-like object (own indexed elements); generator/iterator-protocol
// spreading is not implemented.
func builtinArrayPushSpread(ip *Interpreter, args []value.Value, construct bool) (value.Value, *value.Value) {
	arr := ip.Heap.Object(args[0])
	src := args[1]
	if src.IsString() {
		for _, r := range ip.Heap.String(src) {
			arr.Indexed.Put(arr.Indexed.Length, ip.Heap.NewString(string(r)))
		}
		return value.Undefined(), nil
	}
	if !src.IsObject() {
		thrown := ip.Heap.NewError(jserror.TypeError, "value is not iterable")
		return value.Undefined(), &thrown
	}
	srcObj := ip.Heap.Object(src)
	if srcObj.Indexed == nil {
		thrown := ip.Heap.NewError(jserror.TypeError, "value is not iterable")
		return value.Undefined(), &thrown
	}
	n := srcObj.Indexed.Length
	for i := uint32(0); i < n; i++ {
		v, _ := srcObj.Indexed.Get(i)
		arr.Indexed.Put(arr.Indexed.Length, v)
	}
	return value.Undefined(), nil
}

// builtinApply backs bytecode.BuiltinApply: the lowering every spread call
// (`f(...xs)`) and spread `new` (`new F(...xs)`) goes through, since the
// compiler cannot know argc at compile time when the argument list contains
// a spread. args is always exactly [this, callee, argsArray]; construct
// mirrors the CALL_BUILTIN effect operand (0 = call, 1 = new).
func builtinApply(ip *Interpreter, args []value.Value, construct bool) (value.Value, *value.Value) {
	thisVal, callee, arrVal := args[0], args[1], args[2]
	var elems []value.Value
	if arrVal.IsObject() {
		if o := ip.Heap.Object(arrVal); o.Indexed != nil {
			elems = make([]value.Value, o.Indexed.Length)
			for i := range elems {
				v, _ := o.Indexed.Get(uint32(i))
				elems[i] = v
			}
		}
	}
	return ip.invoke(callee, thisVal, elems, construct)
}
