package bytecode

import (
	"github.com/playXE/js/internal/structure"
	"github.com/playXE/js/internal/symbol"
	"github.com/playXE/js/internal/value"
)

// FeedbackState discriminates a feedback slot's cache state.
type FeedbackState uint8

const (
	FeedbackUncached FeedbackState = iota
	FeedbackCached
	// FeedbackMegamorphic marks a cached site whose latest lookup could not
	// be cached (a prototype-chain hit or a miss). It is not sticky: the
	// next cacheable own-property hit caches the site again.
	FeedbackMegamorphic
)

// FeedbackSlot backs one GET_BY_ID/PUT_BY_ID/GET_VAR/SET_VAR inline cache.
// Structure is compared by pointer identity against the current object's
// Structure on every visit (see spec §4.5); spec.md's own design notes (§9)
// call for a *weak* Structure reference here, cleared by the GC when the
// Structure becomes unreachable. Go 1.21 (the version this module targets,
// matching the teacher) predates the standard library's weak-pointer
// support, and GC internals are explicitly out of scope (spec.md §1), so
// this is implemented as an ordinary strong pointer: a documented,
// deliberate substitution (see DESIGN.md) rather than a silent omission. A
// stale strong reference cannot point at a different live Structure (two
// Structures are never equal by pointer unless identical), so correctness
// is unaffected; only a Structure that would otherwise be collectable stays
// reachable slightly longer than the spec's weak-handle design intends.
type FeedbackSlot struct {
	State     FeedbackState
	Structure *structure.Structure
	Offset    uint32
}

// CodeBlock is the compiler's emission target: a flat instruction stream
// plus the pools GET_BY_ID/PUSH_LITERAL/GET_FUNCTION index into, immutable
// after compilation except Feedback (the interior-mutable inline-cache
// array).
type CodeBlock struct {
	Code    []byte
	Literals []value.Value
	Names   []symbol.Symbol
	Codes   []*CodeBlock
	Feedback []FeedbackSlot

	Params    []symbol.Symbol
	RestAt    int32 // -1 when there is no rest parameter
	Variables []symbol.Symbol

	ParamCount uint16
	VarCount   uint16

	TopLevel     bool
	Strict       bool
	UseArguments bool
	ArgsAt       uint32

	Name symbol.Symbol
}

// NewCodeBlock returns an empty CodeBlock ready for the emitter to append
// to.
func NewCodeBlock() *CodeBlock {
	return &CodeBlock{RestAt: -1}
}

// AddLiteral appends v to the literal pool, returning its index. Unlike
// symbol interning, literal values are not deduplicated: every call adds a
// new entry.
func (cb *CodeBlock) AddLiteral(v value.Value) uint32 {
	idx := uint32(len(cb.Literals))
	cb.Literals = append(cb.Literals, v)
	return idx
}

// AddName interns sym in the name pool, returning its index.
func (cb *CodeBlock) AddName(sym symbol.Symbol) uint32 {
	idx := uint32(len(cb.Names))
	cb.Names = append(cb.Names, sym)
	return idx
}

// AddNested appends a nested CodeBlock (compiled function literal body),
// returning its index for GET_FUNCTION.
func (cb *CodeBlock) AddNested(nested *CodeBlock) uint32 {
	idx := uint32(len(cb.Codes))
	cb.Codes = append(cb.Codes, nested)
	return idx
}

// AddFeedbackSlot reserves a new, uncached feedback slot, returning its
// index.
func (cb *CodeBlock) AddFeedbackSlot() uint32 {
	idx := uint32(len(cb.Feedback))
	cb.Feedback = append(cb.Feedback, FeedbackSlot{})
	return idx
}
