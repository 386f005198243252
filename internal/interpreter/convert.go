package interpreter

import (
	"math"
	"strconv"
	"strings"

	"github.com/playXE/js/internal/jserror"
	"github.com/playXE/js/internal/object"
	"github.com/playXE/js/internal/value"
)

// toPrimitive implements the ECMAScript ToPrimitive abstract operation.
// hint is "string", "number", or "" (the default, which tries valueOf
// before toString, same order as the number hint).
func (ip *Interpreter) toPrimitive(v value.Value, hint string) (value.Value, *value.Value) {
	if !v.IsObject() {
		return v, nil
	}
	obj := ip.Heap.Object(v)
	for _, name := range object.DefaultValueMethodOrder(hint) {
		fnVal := obj.Get(ip.Heap, name)
		if !fnVal.IsObject() {
			continue
		}
		if !ip.Heap.Object(fnVal).Callable {
			continue
		}
		result, thrown := ip.Call(fnVal, v, nil)
		if thrown != nil {
			return value.Undefined(), thrown
		}
		if !result.IsObject() {
			return result, nil
		}
	}
	thrown := ip.Heap.NewError(jserror.TypeError, "Cannot convert object to primitive value")
	return value.Undefined(), &thrown
}

// toBoolean implements ToBoolean. Value.ToBoolean already handles every kind
// except strings (whose truthiness depends on length, unreachable without
// heap access), so that one case is special-cased here.
func (ip *Interpreter) toBoolean(v value.Value) bool {
	if v.IsString() {
		return ip.Heap.String(v) != ""
	}
	return v.ToBoolean()
}

// toNumber implements ToNumber.
func (ip *Interpreter) toNumber(v value.Value) (float64, *value.Value) {
	switch {
	case v.IsInt32():
		return float64(v.AsInt32()), nil
	case v.IsDouble():
		return v.AsDouble(), nil
	case v.IsBool():
		if v.AsBool() {
			return 1, nil
		}
		return 0, nil
	case v.IsNull():
		return 0, nil
	case v.IsUndefined():
		return math.NaN(), nil
	case v.IsString():
		return parseNumericString(ip.Heap.String(v)), nil
	case v.IsObject():
		prim, thrown := ip.toPrimitive(v, "number")
		if thrown != nil {
			return 0, thrown
		}
		return ip.toNumber(prim)
	}
	return math.NaN(), nil
}

func parseNumericString(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// toStringGo implements ToString, returning a plain Go string (the caller
// wraps it in a heap string Value when one is needed on the stack).
func (ip *Interpreter) toStringGo(v value.Value) (string, *value.Value) {
	switch {
	case v.IsString():
		return ip.Heap.String(v), nil
	case v.IsInt32():
		return strconv.FormatInt(int64(v.AsInt32()), 10), nil
	case v.IsDouble():
		return formatNumber(v.AsDouble()), nil
	case v.IsBool():
		if v.AsBool() {
			return "true", nil
		}
		return "false", nil
	case v.IsNull():
		return "null", nil
	case v.IsUndefined():
		return "undefined", nil
	case v.IsObject():
		prim, thrown := ip.toPrimitive(v, "string")
		if thrown != nil {
			return "", thrown
		}
		return ip.toStringGo(prim)
	}
	return "", nil
}

// ToStringValue, ToNumberValue and ToBooleanValue are the exported forms of
// toStringGo/toNumber/toBoolean, for internal/builtins' native functions:
// FunctionData.Go only receives an object.Host (the heap), not an
// *Interpreter, so a builtin that needs full ToString/ToNumber coercion
// (rather than just a heap string/number literal) closes over the
// Interpreter itself at registration time and calls these.
func (ip *Interpreter) ToStringValue(v value.Value) (string, *value.Value) { return ip.toStringGo(v) }
func (ip *Interpreter) ToNumberValue(v value.Value) (float64, *value.Value) { return ip.toNumber(v) }
func (ip *Interpreter) ToBooleanValue(v value.Value) bool                  { return ip.toBoolean(v) }

// formatNumber renders a float64 the way ECMAScript's Number::toString does:
// no trailing ".0" on integers, "Infinity"/"-Infinity"/"NaN" spelled out,
// and a minimal-digit exponential form outside the normal range.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		return normalizeExponent(strconv.FormatFloat(f, 'e', -1, 64))
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// normalizeExponent rewrites Go's "1e+07"/"1e-07" into ECMAScript's
// "1e+7"/"1e-7" (no leading zero in the exponent digits).
func normalizeExponent(s string) string {
	idx := strings.IndexAny(s, "eE")
	if idx < 0 {
		return s
	}
	mantissa, rest := s[:idx], s[idx+1:]
	sign, digits := rest[0], strings.TrimLeft(rest[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + string(sign) + digits
}

// numberValue collapses a float64 result back to the Int32 fast path when
// it represents one exactly (excluding negative zero, which must stay a
// Double to preserve its sign for Object.is/String conversion).
func numberValue(f float64) value.Value {
	if f == 0 {
		if math.Signbit(f) {
			return value.Double(f)
		}
		return value.Int32(0)
	}
	if i := int32(f); float64(i) == f {
		return value.Int32(i)
	}
	return value.Double(f)
}
