// Package structure implements the hidden-class ("Structure") machine: an
// immutable map from property name to (slot offset, attributes) plus a
// transition table keyed by (name, attributes), canonicalized so that
// identical transitions from the same Structure return the same successor
// pointer. That canonicalization is what lets the interpreter's inline
// caches reduce a property lookup to a single pointer comparison.
package structure

import (
	"sync"

	"github.com/playXE/js/internal/symbol"
	"github.com/playXE/js/internal/value"
)

// Attributes packs the ECMAScript property attribute bits plus the four
// "absent" flags DefineOwnProperty merging needs to tell "caller didn't
// specify writable" apart from "caller specified writable=false".
type Attributes uint8

const (
	Writable Attributes = 1 << iota
	Enumerable
	Configurable
	Accessor

	AbsentWritable
	AbsentEnumerable
	AbsentConfigurable
	AbsentValueOrAccessor
)

// Default is the attribute set ordinary `obj.x = 1` property creation uses:
// writable, enumerable and configurable, data (non-accessor) property.
const Default = Writable | Enumerable | Configurable

// Entry is a resolved (slot offset, attributes) pair.
type Entry struct {
	Offset     uint32
	Attributes Attributes
}

// transitionKey identifies one outgoing edge of the transition DAG.
type transitionKey struct {
	name  symbol.Symbol
	attrs Attributes
}

// Structure is an immutable hidden class: a snapshot of "every object that
// has this Structure added exactly these properties, with exactly these
// attributes, in exactly this order". Structures form a DAG rooted at the
// small set of empty root Structures created at startup (see NewRoot);
// transitions out of a given Structure are cached on that Structure so
// that repeating the same transition from the same source always yields
// the same pointer (the engine's inline-cache soundness invariant).
type Structure struct {
	mu sync.Mutex // guards the transition caches below; Structure fields above are write-once at construction

	// names/entries hold the own-property table in insertion order; deleted
	// slots are tombstoned (kept in the map with their offset retained) so a
	// later re-add does not reuse the slot until a compaction transition
	// runs. compaction is deliberately not implemented (no SPEC_FULL
	// component requires it); the tombstone still satisfies invariant (iii).
	names   []symbol.Symbol
	entries map[symbol.Symbol]Entry
	deleted map[symbol.Symbol]bool

	slotsSize uint32

	prototype value.Value // an Object handle, or value.Undefined() for none
	isIndexed bool

	addTransitions    map[transitionKey]*Structure
	deleteTransitions map[symbol.Symbol]*Structure
	attrTransitions   map[transitionKey]*Structure
	protoTransitions  map[value.Value]*Structure
	indexedTransition *Structure
}

// NewRoot creates a fresh empty Structure with no properties and no
// prototype, the kind of Structure the runtime seeds a handful of at
// startup (one per built-in "shape family": ordinary object, array,
// function, etc.) per spec §3 Lifecycle/ownership.
func NewRoot() *Structure {
	return &Structure{
		entries: make(map[symbol.Symbol]Entry),
		deleted: make(map[symbol.Symbol]bool),
		prototype: value.Undefined(),
	}
}

// clone returns a shallow, detached copy used as the basis for a new
// transition target; the transition caches are intentionally NOT copied
// since they describe edges leaving the clone, which starts with none.
func (s *Structure) clone() *Structure {
	names := make([]symbol.Symbol, len(s.names))
	copy(names, s.names)
	entries := make(map[symbol.Symbol]Entry, len(s.entries)+1)
	for k, v := range s.entries {
		entries[k] = v
	}
	deleted := make(map[symbol.Symbol]bool, len(s.deleted))
	for k, v := range s.deleted {
		deleted[k] = v
	}
	return &Structure{
		names:     names,
		entries:   entries,
		deleted:   deleted,
		slotsSize: s.slotsSize,
		prototype: s.prototype,
		isIndexed: s.isIndexed,
	}
}

// Get looks up an own property by name. The bool is false when name is not
// (currently) an own property, whether because it was never added or
// because it was deleted (tombstoned).
func (s *Structure) Get(name symbol.Symbol) (Entry, bool) {
	if s.deleted[name] {
		return Entry{}, false
	}
	e, ok := s.entries[name]
	return e, ok
}

// SlotsSize returns the number of value slots an object with this
// Structure must allocate; monotone across add-transitions (invariant ii).
func (s *Structure) SlotsSize() uint32 { return s.slotsSize }

// IsIndexed reports whether this Structure is marked as belonging to an
// object that also carries indexed (array-style) elements.
func (s *Structure) IsIndexed() bool { return s.isIndexed }

// Prototype returns the prototype Object handle, or value.Undefined() if
// this Structure's objects have no prototype.
func (s *Structure) Prototype() value.Value { return s.prototype }

// OwnNames iterates own, non-tombstoned property names in insertion order.
func (s *Structure) OwnNames() []symbol.Symbol {
	out := make([]symbol.Symbol, 0, len(s.names))
	for _, n := range s.names {
		if !s.deleted[n] {
			out = append(out, n)
		}
	}
	return out
}

// AddPropertyTransition returns the Structure that results from adding name
// with attrs to an object currently shaped like s, and the slot offset the
// caller must write the value at. Two calls with equal (s, name, attrs)
// return the identical *Structure (invariant i).
func (s *Structure) AddPropertyTransition(name symbol.Symbol, attrs Attributes) (*Structure, uint32) {
	key := transitionKey{name: name, attrs: attrs}

	s.mu.Lock()
	if s.addTransitions == nil {
		s.addTransitions = make(map[transitionKey]*Structure)
	}
	if succ, ok := s.addTransitions[key]; ok {
		s.mu.Unlock()
		return succ, succ.entries[name].Offset
	}
	s.mu.Unlock()

	succ := s.clone()
	offset := s.slotsSize
	succ.names = append(succ.names, name)
	succ.entries[name] = Entry{Offset: offset, Attributes: attrs}
	delete(succ.deleted, name)
	succ.slotsSize = s.slotsSize + 1

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.addTransitions[key]; ok {
		// Another goroutine raced us; canonical successor already recorded.
		return existing, existing.entries[name].Offset
	}
	s.addTransitions[key] = succ
	return succ, offset
}

// DeletePropertyTransition returns the Structure resulting from deleting
// name from an object shaped like s. The slot is tombstoned, not reused,
// until a compaction transition (not implemented, see field comment) runs.
func (s *Structure) DeletePropertyTransition(name symbol.Symbol) *Structure {
	s.mu.Lock()
	if s.deleteTransitions == nil {
		s.deleteTransitions = make(map[symbol.Symbol]*Structure)
	}
	if succ, ok := s.deleteTransitions[name]; ok {
		s.mu.Unlock()
		return succ
	}
	s.mu.Unlock()

	succ := s.clone()
	succ.deleted[name] = true

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.deleteTransitions[name]; ok {
		return existing
	}
	s.deleteTransitions[name] = succ
	return succ
}

// ChangeAttributesTransition returns the Structure resulting from rewriting
// name's attributes to attrs on an object shaped like s. name must already
// be an own property of s.
func (s *Structure) ChangeAttributesTransition(name symbol.Symbol, attrs Attributes) *Structure {
	key := transitionKey{name: name, attrs: attrs}

	s.mu.Lock()
	if s.attrTransitions == nil {
		s.attrTransitions = make(map[transitionKey]*Structure)
	}
	if succ, ok := s.attrTransitions[key]; ok {
		s.mu.Unlock()
		return succ
	}
	s.mu.Unlock()

	succ := s.clone()
	if e, ok := succ.entries[name]; ok {
		e.Attributes = attrs
		succ.entries[name] = e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.attrTransitions[key]; ok {
		return existing
	}
	s.attrTransitions[key] = succ
	return succ
}

// ChangePrototypeTransition returns the Structure resulting from rebinding
// the prototype of an object shaped like s to proto (an Object handle
// Value, or value.Undefined() for null prototype).
func (s *Structure) ChangePrototypeTransition(proto value.Value) *Structure {
	s.mu.Lock()
	if s.protoTransitions == nil {
		s.protoTransitions = make(map[value.Value]*Structure)
	}
	if succ, ok := s.protoTransitions[proto]; ok {
		s.mu.Unlock()
		return succ
	}
	s.mu.Unlock()

	succ := s.clone()
	succ.prototype = proto

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.protoTransitions[proto]; ok {
		return existing
	}
	s.protoTransitions[proto] = succ
	return succ
}

// ChangePrototypeWithNoTransition mutates s's prototype in place. Used only
// during bootstrap and for structures the runtime has already guaranteed
// are unique (never shared), per spec §4.2.
func (s *Structure) ChangePrototypeWithNoTransition(proto value.Value) {
	s.prototype = proto
}

// ChangeIndexedTransition returns the Structure marking objects shaped like
// s as also carrying indexed elements.
func (s *Structure) ChangeIndexedTransition() *Structure {
	if s.isIndexed {
		return s
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexedTransition != nil {
		return s.indexedTransition
	}
	succ := s.clone()
	succ.isIndexed = true
	s.indexedTransition = succ
	return succ
}
