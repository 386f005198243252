package js

import "github.com/playXE/js/internal/buildoptions"

// Config controls Runtime behavior, with the default implementation
// returned by NewConfig. Following config.go's immutable-clone-builder
// idiom: every With* method returns a modified copy, leaving the receiver
// untouched.
type Config struct {
	// DumpBytecode, when true, installs a jsdebug.Listener on the
	// Runtime's Interpreter that prints a call trace around every CALL/NEW
	// (spec.md §6's `dump_bytecode` option).
	DumpBytecode bool

	// InlineCaches records spec.md §6's `inline_caches` option. New does not
	// pass it to the Interpreter: the GET_BY_ID/PUT_BY_ID/GET_VAR
	// structure-identity caches in internal/interpreter/ic.go are used
	// whatever its value.
	InlineCaches bool

	// StackSize records a per-frame value stack capacity (spec.md §3 Stack:
	// "typical 16Ki values"). New does not consult it; each call frame's
	// value stack starts with a capacity of 16 and grows as needed.
	StackSize int

	// CallStackCeiling bounds nested JS call depth before a RangeError is
	// raised in place of a native Go stack overflow.
	CallStackCeiling int
}

// NewConfig returns the default Config.
func NewConfig() *Config {
	return &Config{
		InlineCaches:     true,
		StackSize:        16 * 1024,
		CallStackCeiling: buildoptions.CallStackCeiling,
	}
}

func (c *Config) clone() *Config {
	ret := *c
	return &ret
}

// WithDumpBytecode toggles call-trace dumping, defaulting to false.
func (c *Config) WithDumpBytecode(dumpBytecode bool) *Config {
	ret := c.clone()
	ret.DumpBytecode = dumpBytecode
	return ret
}

// WithInlineCaches sets the InlineCaches field, defaulting to true; see the
// field's comment for its (lack of) effect on the Runtime.
func (c *Config) WithInlineCaches(inlineCaches bool) *Config {
	ret := c.clone()
	ret.InlineCaches = inlineCaches
	return ret
}

// WithStackSize sets the StackSize field; see the field's comment for its
// (lack of) effect on the Runtime.
func (c *Config) WithStackSize(stackSize int) *Config {
	ret := c.clone()
	ret.StackSize = stackSize
	return ret
}

// WithCallStackCeiling sets the nested-call-depth ceiling that raises a
// RangeError in place of a native stack overflow.
func (c *Config) WithCallStackCeiling(callStackCeiling int) *Config {
	ret := c.clone()
	ret.CallStackCeiling = callStackCeiling
	return ret
}
