// Package bytecode defines the flat instruction format the compiler emits
// and the interpreter executes: a fixed 1-byte opcode followed by
// little-endian u32 operand fields, per spec.md §4.4/§6.
package bytecode

// Op is a single bytecode opcode. Operand counts/shapes are documented per
// constant below and enforced by the compiler's emitter (see
// internal/compiler) and relied on by the interpreter's decode step.
type Op byte

const (
	OpNop Op = iota

	// Loads. No operands except where noted; each pushes exactly one value.
	OpPushUndef
	OpPushNull
	OpPushTrue
	OpPushFalse
	OpPushNaN
	OpPushThis
	OpPushInt      // operand: i32 immediate
	OpPushLiteral  // operand: literal pool index (u32)
	OpGetFunction  // operand: nested CodeBlock index (u32)

	// Stack shuffling.
	OpPop  // -1
	OpDup  // +1, duplicates top
	OpSwap // exchange top two

	// Arithmetic / bitwise, each -1 net (binary: consume 2 push 1).
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpUShr

	// Unary, net 0 (consume 1 push 1).
	OpNeg
	OpPos
	OpBitNot
	OpLogicalNot
	OpTypeof

	// Comparison, each -1 net (consume 2 push 1 bool).
	OpEq
	OpNeq
	OpStrictEq
	OpNStrictEq
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpIn
	OpInstanceof

	// Control flow. Jump operands are a signed i32 relative displacement
	// measured from the byte immediately after the instruction.
	OpJmp         // operand: rel i32
	OpJmpIfTrue   // operand: rel i32; consumes 1
	OpJmpIfFalse  // operand: rel i32; consumes 1
	OpRet         // consumes top or treats empty stack as undefined
	OpThrow       // consumes 1, aborts frame unless a handler catches it

	// Calls. Stack before (top last): this, callee, arg0..argN-1.
	OpCall        // operand: argc (u32)
	OpNew         // operand: argc (u32)
	OpCallBuiltin // operands: argc (u32), builtin_id (u32), effect (u32; 0=call 1=construct)

	// Properties. Stack order is "pushed-first is deepest": for OpPutById the
	// object is pushed before the value, so the value is on top.
	OpGetById  // operands: name_ix (u32), feedback_ix (u32); consumes object, pushes value
	OpPutById  // operands: name_ix (u32), feedback_ix (u32); stack [object, value] -> [value] (stores, then leaves the assigned value on top)
	OpGetByVal // consumes object, key (key on top); pushes value
	OpPutByVal // stack [object, key, value] -> [value]

	// Environments / variables.
	OpPushEnv   // pushes a new lexical Environment as current
	OpPopEnv    // pops the current Environment
	OpGetEnv    // operand: depth (u32); pushes the env object `depth` scopes out
	OpGetVar    // operands: name_ix (u32), feedback_ix (u32)
	OpSetVar    // operands: name_ix (u32), feedback_ix (u32); stack [value] -> [value] (stores, leaves value on top)
	OpDeclLet   // operand: name_ix (u32); stack [value] -> [value] (declares, initializes, leaves value on top)
	OpDeclConst // operand: name_ix (u32); stack [value] -> [value] (declares, initializes, leaves value on top)
	OpGetGlobal // operand: name_ix (u32)
	OpSetGlobal // operand: name_ix (u32); stack [value] -> [value]
	OpGlobalThis

	// Exceptions.
	OpPushCatch // operand: rel i32, target relative to byte after instruction
	OpPopCatch

	// Iteration / misc.
	OpForInSetup
	OpForInEnumerate // operand: rel (i32); pushes next key, or jumps by rel when enumeration is exhausted
	OpForInLeave
	OpNewArray  // operand: count (u32); pops count values, pushes array (spread handled at CALL_BUILTIN/apply, not here)
	OpNewObject // pushes an empty ordinary object
	OpSpread    // marks the preceding array element as requiring spread expansion at call sites; consumed by the compiler's spread lowering, never reaches the interpreter
	OpDeleteVar   // operand: name_ix (u32); pushes bool
	OpDeleteById  // operand: name_ix (u32); consumes object, pushes bool
	OpDeleteByVal // consumes object, key; pushes bool
	OpLoopHint

	opCount
)

// OperandWords gives the number of u32 operand fields following the opcode
// byte, for opcodes with a fixed operand count; jump opcodes' one operand is
// a signed i32 of the same width. Variadic-looking opcodes (none currently)
// would need special-casing here; every opcode in this table is fixed-width.
var operandWords = [opCount]int{
	OpNop: 0,

	OpPushUndef: 0, OpPushNull: 0, OpPushTrue: 0, OpPushFalse: 0, OpPushNaN: 0, OpPushThis: 0,
	OpPushInt: 1, OpPushLiteral: 1, OpGetFunction: 1,

	OpPop: 0, OpDup: 0, OpSwap: 0,

	OpAdd: 0, OpSub: 0, OpMul: 0, OpDiv: 0, OpRem: 0,
	OpBitAnd: 0, OpBitOr: 0, OpBitXor: 0, OpShl: 0, OpShr: 0, OpUShr: 0,

	OpNeg: 0, OpPos: 0, OpBitNot: 0, OpLogicalNot: 0, OpTypeof: 0,

	OpEq: 0, OpNeq: 0, OpStrictEq: 0, OpNStrictEq: 0,
	OpLess: 0, OpLessEq: 0, OpGreater: 0, OpGreaterEq: 0, OpIn: 0, OpInstanceof: 0,

	OpJmp: 1, OpJmpIfTrue: 1, OpJmpIfFalse: 1, OpRet: 0, OpThrow: 0,

	OpCall: 1, OpNew: 1, OpCallBuiltin: 3,

	OpGetById: 2, OpPutById: 2, OpGetByVal: 0, OpPutByVal: 0,

	OpPushEnv: 0, OpPopEnv: 0, OpGetEnv: 1, OpGetVar: 2, OpSetVar: 2,
	OpDeclLet: 1, OpDeclConst: 1, OpGetGlobal: 1, OpSetGlobal: 1, OpGlobalThis: 0,

	OpPushCatch: 1, OpPopCatch: 0,

	OpForInSetup: 0, OpForInEnumerate: 1, OpForInLeave: 0,
	OpNewArray: 1, OpNewObject: 0, OpSpread: 0,
	OpDeleteVar: 1, OpDeleteById: 1, OpDeleteByVal: 0,
	OpLoopHint: 0,
}

// OperandWords returns how many little-endian u32 fields follow op's opcode
// byte.
func (op Op) OperandWords() int { return operandWords[op] }

// Size returns the total instruction width in bytes: 1 opcode byte plus 4
// bytes per operand word.
func (op Op) Size() int { return 1 + 4*op.OperandWords() }
