// Package moremath holds numeric helpers the standard library's math
// package doesn't provide with ECMAScript-compatible semantics.
package moremath

import "math"

// ToInt32 implements the ECMAScript ToInt32 abstract operation: modular
// 32-bit wrap of the double's truncated magnitude.
func ToInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f == 0 {
		return 0
	}
	trunc := math.Trunc(f)
	m := math.Mod(trunc, 4294967296) // 2^32
	if m < 0 {
		m += 4294967296
	}
	if m >= 2147483648 { // 2^31
		m -= 4294967296
	}
	return int32(m)
}

// ToUint32 implements the ECMAScript ToUint32 abstract operation.
func ToUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f == 0 {
		return 0
	}
	trunc := math.Trunc(f)
	m := math.Mod(trunc, 4294967296)
	if m < 0 {
		m += 4294967296
	}
	return uint32(m)
}
