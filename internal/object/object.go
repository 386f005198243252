package object

import (
	"github.com/playXE/js/internal/structure"
	"github.com/playXE/js/internal/value"
)

// FunctionData holds the fields specific to TagFunction objects. CodeBlock is
// declared as interface{} here (rather than importing internal/bytecode)
// because internal/bytecode in turn references only internal/value,
// internal/symbol and internal/structure, and
// object is lower in the dependency graph than bytecode's consumers
// (compiler, interpreter); the interpreter type-asserts this back to
// *bytecode.CodeBlock when it calls the function. Native functions instead
// set Go, a direct Go closure, leaving CodeBlock nil.
type FunctionData struct {
	CodeBlock interface{}
	Go        func(host Host, this value.Value, args []value.Value) (value.Value, *value.Value)
	Name      string
	ParamsLen uint32

	// Closure is the lexical Environment active where this function literal
	// was evaluated (the global Environment for a top-level function; nil
	// for native Go functions). Declared as
	// interface{} for the same reason CodeBlock is: object sits below
	// internal/environment's own dependents in the import graph. The
	// interpreter type-asserts this back to *environment.Environment when
	// it builds the call's Environment chain.
	Closure interface{}
}

// ErrorData holds the fields specific to TagError objects.
type ErrorData struct {
	Kind    uint8
	Message string
}

// StringData holds the wrapped primitive for a `new String(...)` boxed
// string object.
type StringData struct {
	Value string
}

// ArgumentsData marks an object as an arguments object. The interpreter's
// makeArguments copies the call's argument values into the object's indexed
// storage; no index aliases a parameter binding (Mapped is all false and
// ParamName is left nil), so a later write to arguments[i] or to the
// parameter is not seen through the other.
type ArgumentsData struct {
	Env       interface{} // *environment.Environment; kept opaque to avoid an import cycle
	ParamName []uint32    // symbol ids of the aliased parameters, by argument index
	Mapped    []bool
}

// Object is the heap cell every JavaScript object is represented by: a
// Structure pointer plus a flat slot vector for named properties, optional
// IndexedElements for array-style access, and a Tag + Native payload for the
// handful of object kinds that need extra state. Per spec §4.3/§9's guidance,
// per-kind behavior is a check of Tag at the few places that need it (e.g.
// the interpreter's array `length` write), not a vtable of function
// pointers.
type Object struct {
	Structure *structure.Structure
	Slots     []value.Value

	Indexed *IndexedElements

	Tag       Tag
	Native    interface{}
	Extensible bool
	Callable   bool
	Constructable bool
}

// New allocates an Object of the given Tag, rooted at structure (normally a
// per-Tag-family root Structure seeded at bootstrap).
func New(tag Tag, str *structure.Structure) *Object {
	return &Object{
		Structure:  str,
		Extensible: true,
		Tag:        tag,
	}
}

// Prototype returns the object's prototype, or value.Undefined() for none.
func (o *Object) Prototype() value.Value { return o.Structure.Prototype() }

// growSlots ensures Slots has room for a value at offset, per the monotone
// growth invariant a Structure's AddPropertyTransition guarantees.
func (o *Object) growSlots(offset uint32) {
	for uint32(len(o.Slots)) <= offset {
		o.Slots = append(o.Slots, value.Undefined())
	}
}

// PutDirect writes to an already-known slot offset without going through the
// Structure transition machinery; used when the caller (typically an inline
// cache hit, or bootstrap code building a known-shape object) has already
// established that offset is valid for o's current Structure.
func (o *Object) PutDirect(offset uint32, v value.Value) {
	o.growSlots(offset)
	o.Slots[offset] = v
}

// GetDirect reads an already-known slot offset.
func (o *Object) GetDirect(offset uint32) value.Value {
	if offset >= uint32(len(o.Slots)) {
		return value.Undefined()
	}
	return o.Slots[offset]
}

func (o *Object) ensureIndexed() *IndexedElements {
	if o.Indexed == nil {
		o.Indexed = NewIndexedElements()
		o.Structure = o.Structure.ChangeIndexedTransition()
	}
	return o.Indexed
}

func (o *Object) IsIndexed() bool { return o.Structure.IsIndexed() }
