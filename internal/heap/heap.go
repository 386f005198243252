// Package heap owns the handle tables that back Value's String and Object
// tags: a []*object.Object and a []string, indexed by the 32-bit payload a
// NaN-boxed Value carries instead of a raw pointer (see internal/value's
// package doc for why). Heap implements object.Host, letting the object
// package resolve handles and allocate new ones without importing heap
// itself.
package heap

import (
	"sync"

	"github.com/playXE/js/internal/jserror"
	"github.com/playXE/js/internal/object"
	"github.com/playXE/js/internal/structure"
	"github.com/playXE/js/internal/symbol"
	"github.com/playXE/js/internal/value"
)

// ErrorFactory constructs a fully-formed Error object (prototype chain,
// `message`/`name` properties) for the given kind and message text. It is
// supplied by internal/builtins at bootstrap via SetErrorFactory: the heap
// itself has no notion of which Structure/prototype an Error object should
// use, only builtins' global-object bootstrap does, so this is the
// dependency-inversion seam that lets Heap.NewError satisfy object.Host
// without heap importing builtins (which itself imports heap).
type ErrorFactory func(h *Heap, kind jserror.Kind, message string) value.Value

// Heap is the engine's single allocation arena for objects and strings. It
// is not safe for concurrent allocation from multiple goroutines running
// the same Runtime (spec.md scopes the engine to a single logical thread of
// execution per Runtime); the mutex here only protects the rare case of a
// host-side goroutine reading heap state (e.g. for diagnostics) concurrently
// with execution.
type Heap struct {
	mu sync.RWMutex

	objects []*object.Object
	strings []string

	symbols *symbol.Table

	errorFactory ErrorFactory

	// Roots holds the small set of canonical empty Structures the runtime
	// seeds once at bootstrap, one per object-shape family, so that e.g.
	// every `{}` literal starts from the same Structure (see
	// internal/object's NewOrdinary).
	Roots Roots
}

// Roots collects the bootstrap Structures object constructors start from.
type Roots struct {
	Ordinary  *structure.Structure
	Array     *structure.Structure
	Function  *structure.Structure
	Error     *structure.Structure
	Arguments *structure.Structure
	Global    *structure.Structure
}

// New creates an empty Heap using symbols as its Symbol interner.
func New(symbols *symbol.Table) *Heap {
	return &Heap{
		symbols: symbols,
		Roots: Roots{
			Ordinary:  structure.NewRoot(),
			Array:     structure.NewRoot(),
			Function:  structure.NewRoot(),
			Error:     structure.NewRoot(),
			Arguments: structure.NewRoot(),
			Global:    structure.NewRoot(),
		},
	}
}

// SetErrorFactory installs the callback Heap.NewError delegates to. Must be
// called during bootstrap before any code that might throw runs.
func (h *Heap) SetErrorFactory(f ErrorFactory) { h.errorFactory = f }

// ResolveObject returns the Object a handle refers to. Panics (a jserror
// Fault in all call sites that matter) on an out-of-range handle, which can
// only happen from a corrupted Value and indicates an engine bug.
func (h *Heap) ResolveObject(handle uint32) *object.Object {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if int(handle) >= len(h.objects) {
		jserror.NewFault("object handle out of range")
	}
	return h.objects[handle]
}

// ResolveString returns the string a handle refers to.
func (h *Heap) ResolveString(handle uint32) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if int(handle) >= len(h.strings) {
		jserror.NewFault("string handle out of range")
	}
	return h.strings[handle]
}

// NewString interns s as a new heap string and returns its Value. Unlike
// internal/symbol's Table, this is NOT deduplicated: two `NewString("x")`
// calls get distinct handles, matching JavaScript string values having no
// observable identity beyond equality (only property *keys* are interned,
// via internal/symbol).
func (h *Heap) NewString(s string) value.Value {
	h.mu.Lock()
	defer h.mu.Unlock()
	idx := uint32(len(h.strings))
	h.strings = append(h.strings, s)
	return value.StringHandle(idx)
}

// NewObject registers o and returns a Value handle to it.
func (h *Heap) NewObject(o *object.Object) value.Value {
	h.mu.Lock()
	defer h.mu.Unlock()
	idx := uint32(len(h.objects))
	h.objects = append(h.objects, o)
	return value.ObjectHandle(idx)
}

// Symbols returns the shared Symbol interner.
func (h *Heap) Symbols() *symbol.Table { return h.symbols }

// NewError constructs a thrown-ready Error Value via the installed
// ErrorFactory. Panics with a Fault if called before bootstrap installs one
// (an engine bug, not a user-triggerable condition).
func (h *Heap) NewError(kind jserror.Kind, message string) value.Value {
	if h.errorFactory == nil {
		jserror.NewFault("heap: NewError called before bootstrap installed an error factory")
	}
	return h.errorFactory(h, kind, message)
}

// Object is a convenience non-Host-interface accessor used by code that
// already holds a concrete *Heap (builtins bootstrap, the interpreter) and
// would rather not spell ResolveObject's handle-panic contract out at every
// call site that already knows the handle is valid.
func (h *Heap) Object(v value.Value) *object.Object {
	return h.ResolveObject(v.AsObjectHandle())
}

// String is Object's string-handle analogue.
func (h *Heap) String(v value.Value) string {
	return h.ResolveString(v.AsStringHandle())
}
