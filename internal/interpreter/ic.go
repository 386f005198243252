package interpreter

import (
	"github.com/playXE/js/internal/bytecode"
	"github.com/playXE/js/internal/jserror"
	"github.com/playXE/js/internal/symbol"
	"github.com/playXE/js/internal/value"
)

// getById implements GET_BY_ID: a feedback-slot-guarded fast path that only
// ever caches an *own*-property hit (slot.Base == the receiver itself), so
// a hit never needs to re-walk the prototype chain to validate — comparing
// the receiver's current Structure pointer against the cached one is
// sufficient, because canonicalized Structure transitions (see
// internal/structure) guarantee two objects only share a Structure pointer
// when they have identical own-property shape. A prototype-chain hit (own
// property absent, found higher up) is deliberately never cached: caching
// it soundly would also require comparing the prototype's Structure, which
// this slot has no room for, so those sites just fall back to the general
// lookup on every visit.
func (ip *Interpreter) getById(obj value.Value, nameSym symbol.Symbol, fs *bytecode.FeedbackSlot) (value.Value, *value.Value) {
	if !obj.IsObject() {
		return ip.getMember(obj, nameSym)
	}
	o := ip.Heap.Object(obj)
	if fs.State == bytecode.FeedbackCached && fs.Structure == o.Structure {
		return o.GetDirect(fs.Offset), nil
	}
	if nameSym == symbol.LengthSymbol() && o.Indexed != nil {
		return numberValue(float64(o.Indexed.Length)), nil
	}
	slot := o.GetNonIndexedPropertySlot(ip.Heap, nameSym)
	if !slot.Found {
		if fs.State == bytecode.FeedbackCached {
			fs.State = bytecode.FeedbackMegamorphic
		}
		return value.Undefined(), nil
	}
	if slot.Base == o {
		fs.State = bytecode.FeedbackCached
		fs.Structure = slot.CacheStructure
		fs.Offset = slot.Offset
	} else if fs.State == bytecode.FeedbackCached {
		fs.State = bytecode.FeedbackMegamorphic
	}
	return slot.Value, nil
}

// putById implements PUT_BY_ID with the same own-property-only caching
// discipline as getById.
func (ip *Interpreter) putById(obj value.Value, nameSym symbol.Symbol, v value.Value, fs *bytecode.FeedbackSlot) *value.Value {
	if !obj.IsObject() {
		return ip.putMember(obj, nameSym, v)
	}
	o := ip.Heap.Object(obj)
	if fs.State == bytecode.FeedbackCached && fs.Structure == o.Structure {
		o.PutDirect(fs.Offset, v)
		return nil
	}
	if thrown := ip.putMember(obj, nameSym, v); thrown != nil {
		return thrown
	}
	if e, ok := o.Structure.Get(nameSym); ok {
		fs.State = bytecode.FeedbackCached
		fs.Structure = o.Structure
		fs.Offset = e.Offset
	} else if fs.State == bytecode.FeedbackCached {
		fs.State = bytecode.FeedbackMegamorphic
	}
	return nil
}

// getVar implements GET_VAR: caches only an innermost-scope hit (the
// binding lives directly on the current frame's Environment, not an outer
// one), and a cache hit skips the temporal-dead-zone check entirely. That
// is sound because a given bytecode site's position relative to its own
// DECL_LET/DECL_CONST is static: if control has already reached this
// GET_VAR once and found the binding initialized, every future execution of
// the *same* site within the *same* function necessarily executes after
// that DECL_LET has already run too (the compiler never emits a GET_VAR for
// a name before hoisting/declaring it in the same or an enclosing scope),
// so the TDZ check can never newly fail on a later visit.
func (ip *Interpreter) getVar(f *frame, nameSym symbol.Symbol, fs *bytecode.FeedbackSlot) (value.Value, *value.Value) {
	if fs.State == bytecode.FeedbackCached && fs.Structure == f.env.Record.Structure {
		return f.env.Record.GetDirect(fs.Offset), nil
	}
	target := f.env.Lookup(nameSym)
	if target == nil {
		thrown := ip.Heap.NewError(jserror.ReferenceError, ip.Heap.Symbols().String(nameSym)+" is not defined")
		return value.Undefined(), &thrown
	}
	v, thrown := target.GetBindingValue(ip.Heap, nameSym)
	if thrown != nil {
		return value.Undefined(), thrown
	}
	if target == f.env {
		if e, ok := target.Record.Structure.Get(nameSym); ok {
			fs.State = bytecode.FeedbackCached
			fs.Structure = target.Record.Structure
			fs.Offset = e.Offset
		}
	} else if fs.State == bytecode.FeedbackCached {
		fs.State = bytecode.FeedbackMegamorphic
	}
	return v, nil
}

// setVar implements SET_VAR with deliberately no inline-cache fast path:
// every write re-derives its const/TDZ check from the live Environment
// instance, since (unlike a read) a cached write that skipped those checks
// could silently let a const reassignment through.
func (ip *Interpreter) setVar(f *frame, nameSym symbol.Symbol, v value.Value) *value.Value {
	target := f.env.Lookup(nameSym)
	if target == nil {
		thrown := ip.Heap.NewError(jserror.ReferenceError, ip.Heap.Symbols().String(nameSym)+" is not defined")
		return &thrown
	}
	return target.SetMutableBinding(ip.Heap, nameSym, v)
}

func (ip *Interpreter) getGlobal(nameSym symbol.Symbol) (value.Value, *value.Value) {
	slot := ip.Global.Record.GetNonIndexedPropertySlot(ip.Heap, nameSym)
	if !slot.Found {
		thrown := ip.Heap.NewError(jserror.ReferenceError, ip.Heap.Symbols().String(nameSym)+" is not defined")
		return value.Undefined(), &thrown
	}
	return slot.Value, nil
}

func (ip *Interpreter) setGlobal(nameSym symbol.Symbol, v value.Value) *value.Value {
	if _, ok := ip.Global.Record.Structure.Get(nameSym); !ok {
		thrown := ip.Heap.NewError(jserror.ReferenceError, ip.Heap.Symbols().String(nameSym)+" is not defined")
		return &thrown
	}
	return ip.Global.Record.PutNonIndexedSlot(ip.Heap, nameSym, v)
}
