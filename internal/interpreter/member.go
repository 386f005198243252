package interpreter

import (
	"strconv"

	"github.com/playXE/js/internal/jserror"
	"github.com/playXE/js/internal/object"
	"github.com/playXE/js/internal/symbol"
	"github.com/playXE/js/internal/value"
)

// keyFromValue converts a computed member-access key (GET_BY_VAL/PUT_BY_VAL/
// DELETE_BY_VAL/`in`'s left operand) into the Symbol property-key
// representation: an Index for a nonnegative integer or integer-looking
// string, an interned name otherwise.
func (ip *Interpreter) keyFromValue(v value.Value) (symbol.Symbol, *value.Value) {
	if v.IsInt32() {
		if i := v.AsInt32(); i >= 0 {
			return symbol.Index(uint32(i)), nil
		}
	}
	s, thrown := ip.toStringGo(v)
	if thrown != nil {
		return symbol.Symbol{}, thrown
	}
	if idx, ok := parseArrayIndex(s); ok {
		return symbol.Index(idx), nil
	}
	return ip.Heap.Symbols().Intern(s), nil
}

// parseArrayIndex reports whether s is the canonical decimal form of a
// uint32 (no leading zeros except "0" itself, no sign), the string shape an
// array index property key must have.
func parseArrayIndex(s string) (uint32, bool) {
	if s == "" {
		return 0, false
	}
	if s == "0" {
		return 0, true
	}
	if s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

func nullOrUndefinedLabel(v value.Value) string {
	if v.IsNull() {
		return "null"
	}
	return "undefined"
}

// getMember implements GET_BY_VAL's general case (and GET_BY_ID's fallback
// once the inline cache in ic.go has declined): property read against any
// receiver, including the primitive-string `.length`/index special case
// spec.md §4.3 requires without boxing a full String wrapper object.
func (ip *Interpreter) getMember(obj value.Value, key symbol.Symbol) (value.Value, *value.Value) {
	if obj.IsNullOrUndefined() {
		label := "undefined"
		if key.IsInterned() {
			label = ip.Heap.Symbols().String(key)
		}
		thrown := ip.Heap.NewError(jserror.TypeError, "Cannot read properties of "+nullOrUndefinedLabel(obj)+" (reading '"+label+"')")
		return value.Undefined(), &thrown
	}
	if obj.IsString() {
		s := ip.Heap.String(obj)
		if key.IsIndex() {
			runes := []rune(s)
			if int(key.IndexValue()) < len(runes) {
				return ip.Heap.NewString(string(runes[key.IndexValue()])), nil
			}
			return value.Undefined(), nil
		}
		if key == symbol.LengthSymbol() {
			return value.Int32(int32(len([]rune(s)))), nil
		}
		if ip.StringProto.IsObject() {
			slot := ip.Heap.Object(ip.StringProto).GetNonIndexedPropertySlot(ip.Heap, key)
			if slot.Found {
				return slot.Value, nil
			}
		}
		return value.Undefined(), nil
	}
	if !obj.IsObject() {
		return value.Undefined(), nil
	}
	o := ip.Heap.Object(obj)
	if key.IsIndex() {
		slot := o.GetIndexedPropertySlot(ip.Heap, key.IndexValue())
		if !slot.Found {
			return value.Undefined(), nil
		}
		return slot.Value, nil
	}
	if key == symbol.LengthSymbol() && o.Indexed != nil {
		return numberValue(float64(o.Indexed.Length)), nil
	}
	slot := o.GetNonIndexedPropertySlot(ip.Heap, key)
	if !slot.Found {
		return value.Undefined(), nil
	}
	return slot.Value, nil
}

// putMember implements PUT_BY_VAL's general case.
func (ip *Interpreter) putMember(obj value.Value, key symbol.Symbol, v value.Value) *value.Value {
	if obj.IsNullOrUndefined() {
		label := "undefined"
		if key.IsInterned() {
			label = ip.Heap.Symbols().String(key)
		}
		thrown := ip.Heap.NewError(jserror.TypeError, "Cannot set properties of "+nullOrUndefinedLabel(obj)+" (setting '"+label+"')")
		return &thrown
	}
	if !obj.IsObject() {
		// Assignment through a primitive receiver (e.g. `"x".y = 1`) has no
		// observable effect in non-strict mode and nothing to reject in
		// strict mode either, since no property is actually created.
		return nil
	}
	o := ip.Heap.Object(obj)
	if key.IsIndex() {
		return o.PutIndexedSlot(ip.Heap, key.IndexValue(), v)
	}
	if key == symbol.LengthSymbol() && o.Tag == object.TagArray {
		n, thrown := ip.toNumber(v)
		if thrown != nil {
			return thrown
		}
		o.Indexed.SetLength(uint32(int64(n)))
		return nil
	}
	return o.PutNonIndexedSlot(ip.Heap, key, v)
}

// deleteMember implements DELETE_BY_VAL/DELETE_BY_ID.
func (ip *Interpreter) deleteMember(obj value.Value, key symbol.Symbol) bool {
	if !obj.IsObject() {
		return true
	}
	o := ip.Heap.Object(obj)
	if key.IsIndex() {
		return o.DeleteIndexed(key.IndexValue())
	}
	return o.DeleteNonIndexed(key)
}
