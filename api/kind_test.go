package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindName(t *testing.T) {
	tests := []struct {
		name     string
		input    Kind
		expected string
	}{
		{"undefined", KindUndefined, "undefined"},
		{"null", KindNull, "null"},
		{"boolean", KindBoolean, "boolean"},
		{"number", KindNumber, "number"},
		{"string", KindString, "string"},
		{"object", KindObject, "object"},
		{"function", KindFunction, "function"},
		{"unknown", Kind(100), "unknown(0x64)"},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, KindName(tc.input))
		})
	}
}

func TestErrorKindName(t *testing.T) {
	tests := []struct {
		name     string
		input    ErrorKind
		expected string
	}{
		{"generic", ErrorKindGeneric, "Error"},
		{"type", ErrorKindType, "TypeError"},
		{"range", ErrorKindRange, "RangeError"},
		{"reference", ErrorKindReference, "ReferenceError"},
		{"syntax", ErrorKindSyntax, "SyntaxError"},
		{"eval", ErrorKindEval, "EvalError"},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, ErrorKindName(tc.input))
		})
	}
}
