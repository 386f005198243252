package jsdebug

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFuncName(t *testing.T) {
	tests := []struct {
		name, input, expected string
	}{
		{name: "named", input: "f", expected: "f"},
		{name: "anonymous", input: "", expected: "<anonymous>"},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, FuncName(tc.input))
		})
	}
}

func TestErrorBuilder(t *testing.T) {
	argErr := errors.New("invalid argument")
	rteErr := testRuntimeErr("index out of bounds")

	tests := []struct {
		name         string
		build        func(ErrorBuilder) error
		expectedErr  string
		expectUnwrap error
	}{
		{
			name: "no frames",
			build: func(b ErrorBuilder) error {
				return b.FromRecovered(argErr)
			},
			expectedErr:  "invalid argument (recovered by js engine)",
			expectUnwrap: argErr,
		},
		{
			name: "one frame",
			build: func(b ErrorBuilder) error {
				b.AddFrame("f")
				return b.FromRecovered(argErr)
			},
			expectedErr: `invalid argument (recovered by js engine)
JS stack trace:
	at f (<anonymous>:1)`,
			expectUnwrap: argErr,
		},
		{
			name: "anonymous frame",
			build: func(b ErrorBuilder) error {
				b.AddFrame("")
				b.AddFrame("outer")
				return b.FromRecovered(argErr)
			},
			expectedErr: `invalid argument (recovered by js engine)
JS stack trace:
	at <anonymous> (<anonymous>:1)
	at outer (<anonymous>:2)`,
			expectUnwrap: argErr,
		},
		{
			name: "runtime.Error",
			build: func(b ErrorBuilder) error {
				b.AddFrame("f")
				return b.FromRecovered(rteErr)
			},
			expectedErr: `index out of bounds (recovered by js engine)
JS stack trace:
	at f (<anonymous>:1)`,
			expectUnwrap: rteErr,
		},
		{
			name: "non-error panic value",
			build: func(b ErrorBuilder) error {
				b.AddFrame("f")
				return b.FromRecovered(42)
			},
			expectedErr: `42 (recovered by js engine)
JS stack trace:
	at f (<anonymous>:1)`,
		},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			withStackTrace := tc.build(NewErrorBuilder())
			require.EqualError(t, withStackTrace, tc.expectedErr)
			if tc.expectUnwrap != nil {
				require.Equal(t, tc.expectUnwrap, errors.Unwrap(withStackTrace))
			}
		})
	}
}

var _ runtime.Error = testRuntimeErr("")

type testRuntimeErr string

func (e testRuntimeErr) RuntimeError() {}

func (e testRuntimeErr) Error() string { return string(e) }
