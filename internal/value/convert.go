package value

import (
	"math"

	"github.com/playXE/js/internal/moremath"
)

// ToInt32 implements the ECMAScript ToInt32 abstract operation.
func ToInt32(f float64) int32 { return moremath.ToInt32(f) }

// ToUint32 implements the ECMAScript ToUint32 abstract operation.
func ToUint32(f float64) uint32 { return moremath.ToUint32(f) }

// CompareResult is the tri-state result of the ECMAScript abstract
// relational comparison: CompareTrue, CompareFalse, or CompareUndefined
// (when either operand is NaN).
type CompareResult int

const (
	CompareFalse CompareResult = iota
	CompareTrue
	CompareUndefined
)

// NumberCompare implements the numeric leg of the ECMAScript abstract
// relational comparison (the object/string legs live in
// internal/interpreter, which can call ToPrimitive).
func NumberCompare(x, y float64) CompareResult {
	if math.IsNaN(x) || math.IsNaN(y) {
		return CompareUndefined
	}
	if x == y {
		return CompareFalse
	}
	if x < y {
		return CompareTrue
	}
	return CompareFalse
}
