package object

import (
	"strconv"

	"github.com/playXE/js/internal/jserror"
	"github.com/playXE/js/internal/structure"
	"github.com/playXE/js/internal/symbol"
	"github.com/playXE/js/internal/value"
)

// maxProtoChain bounds prototype-chain walks so a cyclic __proto__ (which
// ChangePrototypeTransition cannot itself prevent) faults instead of looping
// forever.
const maxProtoChain = 4096

// GetOwnNonIndexedPropertySlot resolves name against o's own properties only
// (no prototype walk), filling Slot.CacheStructure so an inline cache can
// validate future hits by comparing o.Structure's pointer.
func (o *Object) GetOwnNonIndexedPropertySlot(name symbol.Symbol) Slot {
	e, ok := o.Structure.Get(name)
	if !ok {
		return NotFound()
	}
	return Slot{
		Value:          o.GetDirect(e.Offset),
		Attributes:     e.Attributes,
		Base:           o,
		Offset:         e.Offset,
		CacheStructure: o.Structure,
		Found:          true,
	}
}

// GetNonIndexedPropertySlot resolves name against o and then its prototype
// chain, per spec §4.3's GetPropertySlot contract.
func (o *Object) GetNonIndexedPropertySlot(host Host, name symbol.Symbol) Slot {
	cur := o
	for i := 0; i < maxProtoChain; i++ {
		if slot := cur.GetOwnNonIndexedPropertySlot(name); slot.Found {
			return slot
		}
		proto := cur.Prototype()
		if !proto.IsObject() {
			return NotFound()
		}
		cur = host.ResolveObject(proto.AsObjectHandle())
	}
	return NotFound()
}

func indexedAttrs(ie *IndexedElements) structure.Attributes {
	attrs := structure.Enumerable | structure.Configurable
	if ie.Writable {
		attrs |= structure.Writable
	}
	return attrs
}

// GetOwnIndexedPropertySlot resolves an integer index against o's own
// indexed storage only.
func (o *Object) GetOwnIndexedPropertySlot(index uint32) Slot {
	if o.Indexed == nil {
		return NotFound()
	}
	v, ok := o.Indexed.Get(index)
	if !ok {
		return NotFound()
	}
	return Slot{Value: v, Attributes: indexedAttrs(o.Indexed), Found: true}
}

// GetIndexedPropertySlot resolves an integer index against o and then its
// prototype chain (needed since e.g. Array.prototype can itself carry
// indexed properties, however unusual).
func (o *Object) GetIndexedPropertySlot(host Host, index uint32) Slot {
	cur := o
	for i := 0; i < maxProtoChain; i++ {
		if slot := cur.GetOwnIndexedPropertySlot(index); slot.Found {
			return slot
		}
		proto := cur.Prototype()
		if !proto.IsObject() {
			return NotFound()
		}
		cur = host.ResolveObject(proto.AsObjectHandle())
	}
	return NotFound()
}

// Get is the high-level "obj.name" read: dispatches to the indexed or named
// path depending on the Symbol kind, and returns Undefined (not an error)
// for a miss, matching ECMAScript's non-throwing property read.
func (o *Object) Get(host Host, name symbol.Symbol) value.Value {
	var slot Slot
	if name.IsIndex() {
		slot = o.GetIndexedPropertySlot(host, name.IndexValue())
	} else {
		slot = o.GetNonIndexedPropertySlot(host, name)
	}
	if !slot.Found {
		return value.Undefined()
	}
	return slot.Value
}

func readOnlyError(host Host, label string) *value.Value {
	thrown := host.NewError(jserror.TypeError, "Cannot assign to read only property '"+label+"'")
	return &thrown
}

func notExtensibleError(host Host, label string) *value.Value {
	thrown := host.NewError(jserror.TypeError, "Cannot add property "+label+", object is not extensible")
	return &thrown
}

// PutNonIndexedSlot implements `obj.name = v` for a named property. spec.md
// treats every assignment as if in strict mode (sloppy-mode silent failure
// is out of scope), so a rejected write returns a thrown TypeError rather
// than succeeding silently.
func (o *Object) PutNonIndexedSlot(host Host, name symbol.Symbol, v value.Value) *value.Value {
	if e, ok := o.Structure.Get(name); ok {
		if e.Attributes&structure.Writable == 0 {
			return readOnlyError(host, host.Symbols().String(name))
		}
		o.PutDirect(e.Offset, v)
		return nil
	}
	proto := o.Prototype()
	for proto.IsObject() {
		p := host.ResolveObject(proto.AsObjectHandle())
		if e, ok := p.Structure.Get(name); ok {
			if e.Attributes&structure.Writable == 0 {
				return readOnlyError(host, host.Symbols().String(name))
			}
			break
		}
		proto = p.Prototype()
	}
	if !o.Extensible {
		return notExtensibleError(host, host.Symbols().String(name))
	}
	newStr, offset := o.Structure.AddPropertyTransition(name, structure.Default)
	o.Structure = newStr
	o.PutDirect(offset, v)
	return nil
}

// PutIndexedSlot implements `obj[i] = v` for an integer index.
func (o *Object) PutIndexedSlot(host Host, index uint32, v value.Value) *value.Value {
	already := o.Indexed != nil && presentIndex(o.Indexed, index)
	if !o.Extensible && !already {
		return notExtensibleError(host, strconv.FormatUint(uint64(index), 10))
	}
	ie := o.ensureIndexed()
	if already && !ie.Writable {
		return readOnlyError(host, strconv.FormatUint(uint64(index), 10))
	}
	ie.Put(index, v)
	return nil
}

func presentIndex(ie *IndexedElements, index uint32) bool {
	_, ok := ie.Get(index)
	return ok
}

// DefineOwnNonIndexedPropertySlot implements Object.defineProperty's named
// leg: attrs fully replaces the property's attributes. The Absent*
// attribute bits are not interpreted here; every caller in this module
// passes a complete attribute set.
func (o *Object) DefineOwnNonIndexedPropertySlot(host Host, name symbol.Symbol, v value.Value, attrs structure.Attributes) *value.Value {
	if e, ok := o.Structure.Get(name); ok {
		if e.Attributes&structure.Configurable == 0 && attrs != e.Attributes {
			thrown := host.NewError(jserror.TypeError, "Cannot redefine property: "+host.Symbols().String(name))
			return &thrown
		}
		offset := e.Offset
		if attrs != e.Attributes {
			o.Structure = o.Structure.ChangeAttributesTransition(name, attrs)
		}
		o.PutDirect(offset, v)
		return nil
	}
	if !o.Extensible {
		return notExtensibleError(host, host.Symbols().String(name))
	}
	newStr, offset := o.Structure.AddPropertyTransition(name, attrs)
	o.Structure = newStr
	o.PutDirect(offset, v)
	return nil
}

// DefineOwnIndexedPropertySlot implements Object.defineProperty's indexed
// leg.
func (o *Object) DefineOwnIndexedPropertySlot(host Host, index uint32, v value.Value, attrs structure.Attributes) *value.Value {
	ie := o.ensureIndexed()
	if attrs&structure.Writable == 0 {
		ie.Writable = false
	}
	ie.Put(index, v)
	return nil
}

// DeleteNonIndexed removes a named own property, returning false (not a
// throw — the caller decides whether `delete` failing should throw, per
// strict-mode rules) when name is non-configurable.
func (o *Object) DeleteNonIndexed(name symbol.Symbol) bool {
	e, ok := o.Structure.Get(name)
	if !ok {
		return true
	}
	if e.Attributes&structure.Configurable == 0 {
		return false
	}
	o.Structure = o.Structure.DeletePropertyTransition(name)
	return true
}

// DeleteIndexed removes an integer-indexed own property.
func (o *Object) DeleteIndexed(index uint32) bool {
	if o.Indexed == nil {
		return true
	}
	o.Indexed.Delete(index)
	return true
}

// GetOwnPropertyNames returns this object's own property keys: indexed keys
// first in ascending numeric order, then named keys in insertion order,
// matching the enumeration order spec.md §4.3 and ECMAScript's
// OrdinaryOwnPropertyKeys both require.
func (o *Object) GetOwnPropertyNames(enumerableOnly bool) []symbol.Symbol {
	var out []symbol.Symbol
	if o.Indexed != nil {
		for _, idx := range o.Indexed.OwnIndices() {
			out = append(out, symbol.Index(idx))
		}
	}
	for _, n := range o.Structure.OwnNames() {
		if enumerableOnly {
			e, _ := o.Structure.Get(n)
			if e.Attributes&structure.Enumerable == 0 {
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

// GetPropertyNames walks the prototype chain collecting property keys,
// de-duplicating by Symbol as it goes (an own shadowing name beats a
// prototype's), matching for-in enumeration order.
func (o *Object) GetPropertyNames(host Host, enumerableOnly bool) []symbol.Symbol {
	seen := make(map[symbol.Symbol]bool)
	var out []symbol.Symbol
	cur := o
	for i := 0; i < maxProtoChain; i++ {
		for _, n := range cur.GetOwnPropertyNames(enumerableOnly) {
			if seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
		proto := cur.Prototype()
		if !proto.IsObject() {
			break
		}
		cur = host.ResolveObject(proto.AsObjectHandle())
	}
	return out
}

// DefaultValueMethodOrder returns the "valueOf"/"toString" method-name pair
// in the order OrdinaryToPrimitive tries them for the given hint ("string"
// or "number"/""). internal/interpreter performs the actual Get+Call of each
// candidate in turn, since invoking a function is an interpreter operation
// this package has no access to.
func DefaultValueMethodOrder(hint string) [2]symbol.Symbol {
	if hint == "string" {
		return [2]symbol.Symbol{symbol.ToStringSymbol(), symbol.ValueOfSymbol()}
	}
	return [2]symbol.Symbol{symbol.ValueOfSymbol(), symbol.ToStringSymbol()}
}
