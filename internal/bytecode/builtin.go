package bytecode

// Builtin ids index into the interpreter's Builtins dispatch table, the
// CALL_BUILTIN operand spec.md §6 describes as "builtin_id (u32)". They are
// declared here, rather than locally in internal/compiler or
// internal/builtins, so both packages reference the same numbering without
// importing one another.
const (
	BuiltinArrayPush uint32 = iota
	BuiltinArrayPushSpread
	BuiltinApply
)
