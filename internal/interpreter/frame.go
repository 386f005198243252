package interpreter

import (
	"github.com/playXE/js/internal/bytecode"
	"github.com/playXE/js/internal/environment"
	"github.com/playXE/js/internal/symbol"
	"github.com/playXE/js/internal/value"
)

// forInState is one FOR_IN_SETUP's live enumeration: the snapshot of keys to
// walk and how far FOR_IN_ENUMERATE has gotten. Nested for-in loops push one
// of these per level; FOR_IN_LEAVE pops it.
type forInState struct {
	keys []symbol.Symbol
	idx  int
}

// catchHandler is what a PUSH_CATCH instruction records: where to resume
// (the catch/finally entry point), and the value-stack/environment state to
// restore before resuming, so a throw unwinds cleanly past any expression
// evaluation or block scopes the try body was partway through.
type catchHandler struct {
	target   int
	stackLen int
	env      *environment.Environment
}

// frame is one activation of a CodeBlock: its own value stack, program
// counter, current lexical Environment (mutated in place as PUSH_ENV/POP_ENV
// execute) and try-handler stack. One frame exists per nested JavaScript
// call; nested calls recurse at the Go level (see Interpreter.invoke),
// one Go call per JS call, rather than maintaining an explicit frame stack
// of our own.
type frame struct {
	cb   *bytecode.CodeBlock
	code []byte
	pc   int

	stack []value.Value
	env   *environment.Environment
	this  value.Value

	handlers []catchHandler
	forIn    []forInState
}

func newFrame(cb *bytecode.CodeBlock, env *environment.Environment, this value.Value) *frame {
	return &frame{
		cb:    cb,
		code:  cb.Code,
		env:   env,
		this:  this,
		stack: make([]value.Value, 0, 16),
	}
}

func (f *frame) push(v value.Value) { f.stack = append(f.stack, v) }

func (f *frame) pop() value.Value {
	n := len(f.stack) - 1
	v := f.stack[n]
	f.stack = f.stack[:n]
	return v
}

func (f *frame) top() value.Value { return f.stack[len(f.stack)-1] }

// popArgs removes the last n stack values and returns them, in the order
// they were pushed (args[0] deepest), as a freshly-allocated slice so the
// callee can hold onto it independent of this frame's own stack churn.
func (f *frame) popArgs(n int) []value.Value {
	start := len(f.stack) - n
	out := make([]value.Value, n)
	copy(out, f.stack[start:])
	f.stack = f.stack[:start]
	return out
}

func (f *frame) readU32() uint32 {
	v := bytecode.Uint32At(f.code, f.pc)
	f.pc += 4
	return v
}

func (f *frame) readI32() int32 {
	v := bytecode.Int32At(f.code, f.pc)
	f.pc += 4
	return v
}

// jumpRel applies a relative displacement read from the operand field that
// f.pc currently sits at (i.e. immediately after readI32 advanced past it),
// matching bytecode.Writer.PatchJump's "relative to the byte after the
// instruction" convention.
func (f *frame) jumpRel(disp int32) {
	f.pc += int(disp)
}

// pushHandler records a PUSH_CATCH site's recovery state.
func (f *frame) pushHandler(target int) {
	f.handlers = append(f.handlers, catchHandler{
		target:   target,
		stackLen: len(f.stack),
		env:      f.env,
	})
}

func (f *frame) popHandler() {
	f.handlers = f.handlers[:len(f.handlers)-1]
}

// raise attempts to hand thrown to the innermost try handler in this frame.
// It reports whether a handler accepted it; when false, the caller must
// treat thrown as an abrupt completion of the whole frame (propagated to
// whatever Go call invoked it, per spec.md §7's unwind-to-native-call-stack
// behavior for exceptions that cross a JS call boundary without being
// caught).
func (f *frame) raise(thrown value.Value) bool {
	if len(f.handlers) == 0 {
		return false
	}
	h := f.handlers[len(f.handlers)-1]
	f.handlers = f.handlers[:len(f.handlers)-1]
	f.stack = f.stack[:h.stackLen]
	f.env = h.env
	f.push(thrown)
	f.pc = h.target
	return true
}
