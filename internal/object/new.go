package object

import (
	"github.com/playXE/js/internal/structure"
	"github.com/playXE/js/internal/value"
)

// NewOrdinary allocates a plain object with no own properties, prototype
// proto, rooted at the shared empty-ordinary Structure the heap seeds at
// bootstrap (so that two freshly-created `{}` literals start out sharing a
// Structure, the common case the inline-cache scheme is optimized for).
func NewOrdinary(root *structure.Structure, proto value.Value) *Object {
	o := New(TagOrdinary, root.ChangePrototypeTransition(proto))
	return o
}

// NewArray allocates an empty array object backed by IndexedElements.
func NewArray(root *structure.Structure, proto value.Value) *Object {
	o := New(TagArray, root.ChangePrototypeTransition(proto).ChangeIndexedTransition())
	o.Indexed = NewIndexedElements()
	return o
}

// NewFunction allocates a callable object. data.CodeBlock is set for
// interpreted functions; data.Go is set for natively-implemented ones
// (built-ins); exactly one of the two is expected to be non-nil.
func NewFunction(root *structure.Structure, proto value.Value, data *FunctionData) *Object {
	o := New(TagFunction, root.ChangePrototypeTransition(proto))
	o.Native = data
	o.Callable = true
	o.Constructable = data.Go == nil // interpreted functions are constructable via `new`; native built-ins default to callable-only
	return o
}

// NewError allocates an Error-family object (Error, TypeError, ...).
func NewError(root *structure.Structure, proto value.Value, kind uint8, message string) *Object {
	o := New(TagError, root.ChangePrototypeTransition(proto))
	o.Native = &ErrorData{Kind: kind, Message: message}
	return o
}

// NewArguments allocates an arguments object for a function activation.
func NewArguments(root *structure.Structure, proto value.Value) *Object {
	o := New(TagArguments, root.ChangePrototypeTransition(proto).ChangeIndexedTransition())
	o.Indexed = NewIndexedElements()
	return o
}

// FuncData type-asserts o.Native to *FunctionData; caller must know o.Tag ==
// TagFunction.
func (o *Object) FuncData() *FunctionData { return o.Native.(*FunctionData) }

// ErrData type-asserts o.Native to *ErrorData; caller must know o.Tag ==
// TagError.
func (o *Object) ErrData() *ErrorData { return o.Native.(*ErrorData) }
