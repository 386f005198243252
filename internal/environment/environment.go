// Package environment implements lexical scope chains as ordinary heap
// objects, per spec.md §3/§4.4: each Environment record IS an
// *object.Object (sharing the same Structure/inline-cache machinery that
// ordinary property access uses), linked to its lexical parent, so that
// variable reads and writes reuse the same Structure lookups and slot
// storage as property access — there is deliberately no separate "binding"
// representation.
package environment

import (
	"github.com/playXE/js/internal/jserror"
	"github.com/playXE/js/internal/object"
	"github.com/playXE/js/internal/structure"
	"github.com/playXE/js/internal/symbol"
	"github.com/playXE/js/internal/value"
)

// Kind distinguishes the binding discipline a declaration in this scope
// uses, needed to reject `let`/`const` temporal-dead-zone violations and
// const reassignment (spec.md §4.4 edge cases).
type Kind uint8

const (
	KindVar Kind = iota
	KindLexical
	KindConst
)

// Environment is one lexical scope. Record is the ordinary object backing
// variable storage; Outer is the enclosing scope, or nil for the global
// environment's outer link.
type Environment struct {
	Record *object.Object
	Outer  *Environment

	// kinds tracks, per own property of Record, whether it is a var, a let,
	// or a const binding — Structure's Attributes bitmask has no spare bits
	// left for this, so it is tracked out of band here instead of forcing a
	// redesign of structure.Attributes for a concern only environment needs.
	kinds map[symbol.Symbol]Kind

	// initialized tracks which lexical/const bindings have executed past
	// their declaration (left the temporal dead zone). Var bindings are
	// always considered initialized (to `undefined`) from scope entry.
	initialized map[symbol.Symbol]bool
}

// New allocates a fresh Environment whose Record is rooted at root (normally
// the heap's Roots.Ordinary, or a dedicated environment-record root).
func New(root *structure.Structure, outer *Environment) *Environment {
	rec := object.New(object.TagOrdinary, root)
	rec.Extensible = true
	return &Environment{
		Record:      rec,
		Outer:       outer,
		kinds:       make(map[symbol.Symbol]Kind),
		initialized: make(map[symbol.Symbol]bool),
	}
}

// DeclareVar creates (or no-ops over an existing) var binding, initialized
// to undefined, per hoisting semantics: a var declaration is visible for the
// whole function body from entry, regardless of where the `var` statement
// textually sits.
func (e *Environment) DeclareVar(name symbol.Symbol) {
	if _, ok := e.Record.Structure.Get(name); ok {
		e.kinds[name] = KindVar
		e.initialized[name] = true
		return
	}
	newStr, offset := e.Record.Structure.AddPropertyTransition(name, structure.Default)
	e.Record.Structure = newStr
	e.Record.PutDirect(offset, value.Undefined())
	e.kinds[name] = KindVar
	e.initialized[name] = true
}

// DeclareLexical creates an uninitialized let/const binding in the temporal
// dead zone; Initialize must run when control reaches the declaration. A
// declaration point that re-executes against an Environment instance already
// holding the binding (e.g. a loop body that reuses one Environment across
// iterations) resets it to uninitialized in place rather than adding a
// second same-named Structure transition, mirroring DeclareVar's guard.
func (e *Environment) DeclareLexical(name symbol.Symbol, isConst bool) {
	if _, ok := e.Record.Structure.Get(name); !ok {
		newStr, offset := e.Record.Structure.AddPropertyTransition(name, structure.Default)
		e.Record.Structure = newStr
		e.Record.PutDirect(offset, value.Undefined())
	}
	if isConst {
		e.kinds[name] = KindConst
	} else {
		e.kinds[name] = KindLexical
	}
	e.initialized[name] = false
}

// Initialize marks a lexical binding as having left the temporal dead zone
// and stores its initializer value.
func (e *Environment) Initialize(name symbol.Symbol, v value.Value) {
	if slot := e.Record.GetOwnNonIndexedPropertySlot(name); slot.Found {
		e.Record.PutDirect(slot.Offset, v)
	}
	e.initialized[name] = true
}

// Lookup resolves name by walking Outer links starting at e, returning the
// Environment owning the binding, or nil if unresolved (a ReferenceError at
// the call site).
func (e *Environment) Lookup(name symbol.Symbol) *Environment {
	for env := e; env != nil; env = env.Outer {
		if _, ok := env.Record.Structure.Get(name); ok {
			return env
		}
	}
	return nil
}

// GetBindingValue reads name's current value. The read is an own-property
// lookup on Record with no prototype-chain walk (a binding is always own on
// the Environment whose Lookup found it); host is needed only to build the
// ReferenceError thrown for a binding still in its temporal dead zone.
func (e *Environment) GetBindingValue(host object.Host, name symbol.Symbol) (value.Value, *value.Value) {
	if !e.initialized[name] {
		thrown := host.NewError(jserror.ReferenceError, "Cannot access '"+host.Symbols().String(name)+"' before initialization")
		return value.Value(0), &thrown
	}
	slot := e.Record.GetOwnNonIndexedPropertySlot(name)
	if !slot.Found {
		return value.Undefined(), nil
	}
	return slot.Value, nil
}

// SetMutableBinding writes name's value, rejecting writes to an
// uninitialized lexical binding (TDZ) or a const after initialization.
func (e *Environment) SetMutableBinding(host object.Host, name symbol.Symbol, v value.Value) *value.Value {
	if !e.initialized[name] {
		thrown := host.NewError(jserror.ReferenceError, "Cannot access '"+host.Symbols().String(name)+"' before initialization")
		return &thrown
	}
	if e.kinds[name] == KindConst {
		thrown := host.NewError(jserror.TypeError, "Assignment to constant variable.")
		return &thrown
	}
	slot := e.Record.GetOwnNonIndexedPropertySlot(name)
	if slot.Found {
		e.Record.PutDirect(slot.Offset, v)
	}
	return nil
}

// HasBinding reports whether name is declared directly in e (not walking
// Outer).
func (e *Environment) HasBinding(name symbol.Symbol) bool {
	_, ok := e.Record.Structure.Get(name)
	return ok
}
