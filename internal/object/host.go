package object

import (
	"github.com/playXE/js/internal/jserror"
	"github.com/playXE/js/internal/symbol"
	"github.com/playXE/js/internal/value"
)

// Host is the set of heap operations the object model needs to resolve
// handles, allocate new heap entries and construct native error values. It
// is defined on the consumer side (package object) rather than imported from
// internal/heap so that object never imports heap — heap imports object to
// hold a []*Object table, and Go has no cyclic imports. heap.Heap satisfies
// Host implicitly; this is the "accept interfaces, return structs" idiom
// applied to break the natural two-way dependency between a heap and the
// cells it owns.
type Host interface {
	ResolveObject(handle uint32) *Object
	ResolveString(handle uint32) string
	NewString(s string) value.Value
	NewObject(o *Object) value.Value

	Symbols() *symbol.Table

	NewError(kind jserror.Kind, message string) value.Value
}
