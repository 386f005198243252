package js

import (
	"github.com/playXE/js/api"
	"github.com/playXE/js/internal/heap"
	"github.com/playXE/js/internal/jserror"
	"github.com/playXE/js/internal/object"
	"github.com/playXE/js/internal/value"
)

// Value is a host-facing handle on an engine value: wide enough to hold any
// JavaScript value (including an object living on a Runtime's heap), safe to
// copy, but only meaningful against the Runtime that produced it — resolving
// a string or object payload always goes back through that Runtime's heap.
type Value struct {
	rt *Runtime
	v  value.Value
}

func (rt *Runtime) wrap(v value.Value) Value { return Value{rt: rt, v: v} }

// Kind reports v's runtime type.
func (v Value) Kind() api.Kind {
	switch {
	case v.v.IsUndefined():
		return api.KindUndefined
	case v.v.IsNull():
		return api.KindNull
	case v.v.IsBool():
		return api.KindBoolean
	case v.v.IsNumber():
		return api.KindNumber
	case v.v.IsString():
		return api.KindString
	case v.v.IsObject():
		if v.isCallable() {
			return api.KindFunction
		}
		return api.KindObject
	}
	return api.KindUndefined
}

func (v Value) isCallable() bool {
	if !v.v.IsObject() {
		return false
	}
	o := v.rt.heap.ResolveObject(v.v.AsObjectHandle())
	return o.Callable
}

// IsUndefined reports whether v is the `undefined` value.
func (v Value) IsUndefined() bool { return v.v.IsUndefined() }

// IsNull reports whether v is the `null` value.
func (v Value) IsNull() bool { return v.v.IsNull() }

// ToBoolean implements ECMAScript ToBoolean.
func (v Value) ToBoolean() bool { return v.rt.ip.ToBooleanValue(v.v) }

// ToFloat64 returns v's numeric value, valid only when Kind is KindNumber.
func (v Value) ToFloat64() float64 { return v.v.AsNumber() }

// String renders v as a Go string using the engine's own ToString
// conversion, the same one the `+` operator's string concatenation uses
// internally (object ToString runs any user-defined toString/valueOf).
func (v Value) String() string {
	s, thrown := v.rt.ip.ToStringValue(v.v)
	if thrown != nil {
		return "<error converting value to string>"
	}
	return s
}

func valuesToInternal(vs []Value) []value.Value {
	out := make([]value.Value, len(vs))
	for i, v := range vs {
		out[i] = v.v
	}
	return out
}

// errorValueKind classifies a thrown Value that happens to be one of the
// engine's own Error instances, falling back to ErrorKindGeneric for an
// arbitrary thrown non-Error value (`throw 42` is valid JavaScript).
func errorValueKind(h *heap.Heap, v value.Value) api.ErrorKind {
	if !v.IsObject() {
		return api.ErrorKindGeneric
	}
	o := h.ResolveObject(v.AsObjectHandle())
	if o.Tag != object.TagError {
		return api.ErrorKindGeneric
	}
	switch jserror.Kind(o.ErrData().Kind) {
	case jserror.TypeError:
		return api.ErrorKindType
	case jserror.RangeError:
		return api.ErrorKindRange
	case jserror.ReferenceError:
		return api.ErrorKindReference
	case jserror.SyntaxError:
		return api.ErrorKindSyntax
	case jserror.EvalError:
		return api.ErrorKindEval
	default:
		return api.ErrorKindGeneric
	}
}
