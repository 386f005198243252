package object

import (
	"github.com/playXE/js/internal/structure"
	"github.com/playXE/js/internal/value"
)

// Slot records the result of a property lookup in enough detail for the
// interpreter's inline caches to validate and replay it: which Structure
// the lookup resolved against (by pointer identity) and at what offset.
// Resolving through the prototype chain sets Base to the object the
// property actually lives on, which may differ from the receiver.
type Slot struct {
	Value      value.Value
	Attributes structure.Attributes

	Base   *Object
	Offset uint32

	// CacheStructure is the Structure pointer the inline cache must compare
	// against on the next visit to this bytecode site; nil when the result
	// is not cacheable (e.g. resolved via a sparse indexed map).
	CacheStructure *structure.Structure

	Found bool
}

// NotFound is the zero Slot with Found left false.
func NotFound() Slot { return Slot{} }
