package interpreter

import (
	"github.com/playXE/js/internal/jserror"
	"github.com/playXE/js/internal/symbol"
	"github.com/playXE/js/internal/value"
)

// add implements the ECMAScript `+` operator's dual string-concatenation /
// numeric-addition behavior.
func (ip *Interpreter) add(a, b value.Value) (value.Value, *value.Value) {
	pa, thrown := ip.toPrimitive(a, "")
	if thrown != nil {
		return value.Undefined(), thrown
	}
	pb, thrown := ip.toPrimitive(b, "")
	if thrown != nil {
		return value.Undefined(), thrown
	}
	if pa.IsString() || pb.IsString() {
		sa, thrown := ip.toStringGo(pa)
		if thrown != nil {
			return value.Undefined(), thrown
		}
		sb, thrown := ip.toStringGo(pb)
		if thrown != nil {
			return value.Undefined(), thrown
		}
		return ip.Heap.NewString(sa + sb), nil
	}
	na, thrown := ip.toNumber(pa)
	if thrown != nil {
		return value.Undefined(), thrown
	}
	nb, thrown := ip.toNumber(pb)
	if thrown != nil {
		return value.Undefined(), thrown
	}
	return numberValue(na + nb), nil
}

// numericBinary implements the rest of the arithmetic opcodes, which (unlike
// `+`) always coerce both operands straight to Number.
func (ip *Interpreter) numericBinary(a, b value.Value, op func(x, y float64) float64) (value.Value, *value.Value) {
	na, thrown := ip.toNumber(a)
	if thrown != nil {
		return value.Undefined(), thrown
	}
	nb, thrown := ip.toNumber(b)
	if thrown != nil {
		return value.Undefined(), thrown
	}
	return numberValue(op(na, nb)), nil
}

func (ip *Interpreter) toInt32(v value.Value) (int32, *value.Value) {
	n, thrown := ip.toNumber(v)
	if thrown != nil {
		return 0, thrown
	}
	return value.ToInt32(n), nil
}

func (ip *Interpreter) toUint32(v value.Value) (uint32, *value.Value) {
	n, thrown := ip.toNumber(v)
	if thrown != nil {
		return 0, thrown
	}
	return value.ToUint32(n), nil
}

func (ip *Interpreter) bitwiseBinary(a, b value.Value, op func(x, y int32) int32) (value.Value, *value.Value) {
	ia, thrown := ip.toInt32(a)
	if thrown != nil {
		return value.Undefined(), thrown
	}
	ib, thrown := ip.toInt32(b)
	if thrown != nil {
		return value.Undefined(), thrown
	}
	return numberValue(float64(op(ia, ib))), nil
}

func (ip *Interpreter) shiftLeft(a, b value.Value) (value.Value, *value.Value) {
	ia, thrown := ip.toInt32(a)
	if thrown != nil {
		return value.Undefined(), thrown
	}
	ub, thrown := ip.toUint32(b)
	if thrown != nil {
		return value.Undefined(), thrown
	}
	return numberValue(float64(ia << (ub & 31))), nil
}

func (ip *Interpreter) shiftRight(a, b value.Value) (value.Value, *value.Value) {
	ia, thrown := ip.toInt32(a)
	if thrown != nil {
		return value.Undefined(), thrown
	}
	ub, thrown := ip.toUint32(b)
	if thrown != nil {
		return value.Undefined(), thrown
	}
	return numberValue(float64(ia >> (ub & 31))), nil
}

func (ip *Interpreter) unsignedShiftRight(a, b value.Value) (value.Value, *value.Value) {
	ua, thrown := ip.toUint32(a)
	if thrown != nil {
		return value.Undefined(), thrown
	}
	ub, thrown := ip.toUint32(b)
	if thrown != nil {
		return value.Undefined(), thrown
	}
	return numberValue(float64(ua >> (ub & 31))), nil
}

// typeofValue needs heap access to distinguish callable objects (functions)
// from plain ones, which value.Value.TypeName cannot do on its own.
func (ip *Interpreter) typeofValue(v value.Value) string {
	if v.IsObject() {
		if ip.Heap.Object(v).Callable {
			return "function"
		}
		return "object"
	}
	return v.TypeName()
}

// strictEquals implements `===`: numbers compare by value across the
// Int32/Double split, strings compare by content (not heap handle, so two
// separately-allocated equal strings still compare equal), everything else
// compares by raw identity (covers bool/null/undefined/object handle
// equality).
func (ip *Interpreter) strictEquals(a, b value.Value) bool {
	if a.IsNumber() && b.IsNumber() {
		return a.AsNumber() == b.AsNumber()
	}
	if a.IsString() && b.IsString() {
		return ip.Heap.String(a) == ip.Heap.String(b)
	}
	return a == b
}

// looseEquals implements `==`'s abstract equality comparison.
func (ip *Interpreter) looseEquals(a, b value.Value) (bool, *value.Value) {
	if a.IsNumber() && b.IsNumber() {
		return a.AsNumber() == b.AsNumber(), nil
	}
	if a.IsString() && b.IsString() {
		return ip.Heap.String(a) == ip.Heap.String(b), nil
	}
	if a.IsBool() && b.IsBool() {
		return a.AsBool() == b.AsBool(), nil
	}
	if a.IsObject() && b.IsObject() {
		return a == b, nil
	}
	if a.IsNullOrUndefined() && b.IsNullOrUndefined() {
		return true, nil
	}
	if a.IsNullOrUndefined() || b.IsNullOrUndefined() {
		return false, nil
	}
	if a.IsBool() {
		na, thrown := ip.toNumber(a)
		if thrown != nil {
			return false, thrown
		}
		return ip.looseEquals(numberValue(na), b)
	}
	if b.IsBool() {
		nb, thrown := ip.toNumber(b)
		if thrown != nil {
			return false, thrown
		}
		return ip.looseEquals(a, numberValue(nb))
	}
	if a.IsNumber() && b.IsString() {
		nb, thrown := ip.toNumber(b)
		if thrown != nil {
			return false, thrown
		}
		return a.AsNumber() == nb, nil
	}
	if a.IsString() && b.IsNumber() {
		na, thrown := ip.toNumber(a)
		if thrown != nil {
			return false, thrown
		}
		return na == b.AsNumber(), nil
	}
	if a.IsObject() && !b.IsObject() {
		pa, thrown := ip.toPrimitive(a, "")
		if thrown != nil {
			return false, thrown
		}
		return ip.looseEquals(pa, b)
	}
	if b.IsObject() && !a.IsObject() {
		pb, thrown := ip.toPrimitive(b, "")
		if thrown != nil {
			return false, thrown
		}
		return ip.looseEquals(a, pb)
	}
	return false, nil
}

// lessThan implements the ECMAScript abstract relational comparison (the
// `<` direction); Less/LessEq/Greater/GreaterEq are all derived from this by
// choosing operand order and how a CompareUndefined (NaN involved) result
// maps to a boolean, per the spec's own definition of those four operators
// in terms of one primitive.
func (ip *Interpreter) lessThan(a, b value.Value) (value.CompareResult, *value.Value) {
	pa, thrown := ip.toPrimitive(a, "number")
	if thrown != nil {
		return value.CompareUndefined, thrown
	}
	pb, thrown := ip.toPrimitive(b, "number")
	if thrown != nil {
		return value.CompareUndefined, thrown
	}
	if pa.IsString() && pb.IsString() {
		sa, sb := ip.Heap.String(pa), ip.Heap.String(pb)
		if sa < sb {
			return value.CompareTrue, nil
		}
		return value.CompareFalse, nil
	}
	na, thrown := ip.toNumber(pa)
	if thrown != nil {
		return value.CompareUndefined, thrown
	}
	nb, thrown := ip.toNumber(pb)
	if thrown != nil {
		return value.CompareUndefined, thrown
	}
	return value.NumberCompare(na, nb), nil
}

func (ip *Interpreter) less(a, b value.Value) (bool, *value.Value) {
	r, thrown := ip.lessThan(a, b)
	return r == value.CompareTrue, thrown
}

func (ip *Interpreter) greater(a, b value.Value) (bool, *value.Value) {
	r, thrown := ip.lessThan(b, a)
	return r == value.CompareTrue, thrown
}

func (ip *Interpreter) lessEq(a, b value.Value) (bool, *value.Value) {
	r, thrown := ip.lessThan(b, a)
	return !(r == value.CompareTrue || r == value.CompareUndefined), thrown
}

func (ip *Interpreter) greaterEq(a, b value.Value) (bool, *value.Value) {
	r, thrown := ip.lessThan(a, b)
	return !(r == value.CompareTrue || r == value.CompareUndefined), thrown
}

// inOperator implements `key in obj`.
func (ip *Interpreter) inOperator(key, obj value.Value) (bool, *value.Value) {
	if !obj.IsObject() {
		thrown := ip.Heap.NewError(jserror.TypeError, "Cannot use 'in' operator to search for a key in a non-object value")
		return false, &thrown
	}
	sym, thrown := ip.keyFromValue(key)
	if thrown != nil {
		return false, thrown
	}
	o := ip.Heap.Object(obj)
	if sym.IsIndex() {
		return o.GetIndexedPropertySlot(ip.Heap, sym.IndexValue()).Found, nil
	}
	return o.GetNonIndexedPropertySlot(ip.Heap, sym).Found, nil
}

// instanceOf implements `a instanceof ctor`.
func (ip *Interpreter) instanceOf(a, ctor value.Value) (bool, *value.Value) {
	if !ctor.IsObject() || !ip.Heap.Object(ctor).Callable {
		thrown := ip.Heap.NewError(jserror.TypeError, "Right-hand side of 'instanceof' is not callable")
		return false, &thrown
	}
	if !a.IsObject() {
		return false, nil
	}
	proto := ip.Heap.Object(ctor).Get(ip.Heap, symbol.PrototypeSymbol())
	if !proto.IsObject() {
		thrown := ip.Heap.NewError(jserror.TypeError, "Function has non-object prototype in instanceof check")
		return false, &thrown
	}
	cur := ip.Heap.Object(a).Prototype()
	for i := 0; i < 4096; i++ {
		if !cur.IsObject() {
			return false, nil
		}
		if cur == proto {
			return true, nil
		}
		cur = ip.Heap.Object(cur).Prototype()
	}
	thrown := ip.Heap.NewError(jserror.RangeError, "Maximum prototype chain length exceeded")
	return false, &thrown
}
