package object

import "github.com/playXE/js/internal/value"

// IndexedElements is the storage backing an object's integer-indexed
// ("array-like") properties, kept deliberately separate from the named-slot
// vector per spec §4.3: dense arrays live in Vector, non-contiguous or
// huge-index arrays fall back to Map, and the switch between the two is a
// one-way ratchet (see MakeSparse).
type IndexedElements struct {
	Vector []value.Value // dense storage; Empty() marks a hole
	Map    map[uint32]value.Value

	Length uint32

	sparse bool

	// Writable mirrors the array's [[Writable]] bit for its elements.
	Writable bool
}

// NewIndexedElements returns an empty, dense indexed-elements block.
func NewIndexedElements() *IndexedElements {
	return &IndexedElements{Writable: true}
}

// IsSparse reports whether storage has switched to the map representation.
func (ie *IndexedElements) IsSparse() bool { return ie.sparse }

// denseThreshold bounds how large a gap a Put is allowed to create in Vector
// before storage switches to the sparse map, so that `a[0]=1; a[1e9]=2` does
// not allocate a billion-element slice.
const denseThreshold = 4096

// MakeSparse migrates Vector into Map. One-way: a sparse IndexedElements
// never converts back to dense, matching spec §4.3's documented choice to
// keep the transition monotone rather than re-densify on shrink.
func (ie *IndexedElements) MakeSparse() {
	if ie.sparse {
		return
	}
	ie.Map = make(map[uint32]value.Value, len(ie.Vector))
	for i, v := range ie.Vector {
		if !v.IsEmpty() {
			ie.Map[uint32(i)] = v
		}
	}
	ie.Vector = nil
	ie.sparse = true
}

// Get returns the element at index and whether it is present (not a hole).
func (ie *IndexedElements) Get(index uint32) (value.Value, bool) {
	if ie.sparse {
		v, ok := ie.Map[index]
		return v, ok
	}
	if index >= uint32(len(ie.Vector)) {
		return value.Value(0), false
	}
	v := ie.Vector[index]
	if v.IsEmpty() {
		return value.Value(0), false
	}
	return v, true
}

// Put stores v at index, growing Vector or switching to sparse storage as
// needed, and advancing Length when index >= Length.
func (ie *IndexedElements) Put(index uint32, v value.Value) {
	if !ie.sparse {
		if index >= uint32(len(ie.Vector)) {
			gap := int(index) - len(ie.Vector)
			if gap > denseThreshold {
				ie.MakeSparse()
			} else {
				for len(ie.Vector) <= int(index) {
					ie.Vector = append(ie.Vector, value.Empty())
				}
			}
		}
	}
	if ie.sparse {
		if ie.Map == nil {
			ie.Map = make(map[uint32]value.Value)
		}
		ie.Map[index] = v
	} else {
		ie.Vector[index] = v
	}
	if index >= ie.Length {
		ie.Length = index + 1
	}
}

// Delete removes index, leaving a hole (the slot reads back as absent, not
// undefined) per spec §4.3's array deletion semantics.
func (ie *IndexedElements) Delete(index uint32) {
	if ie.sparse {
		delete(ie.Map, index)
		return
	}
	if index < uint32(len(ie.Vector)) {
		ie.Vector[index] = value.Empty()
	}
}

// SetLength truncates Length, deleting any element at or above the new
// length (the semantics `arr.length = n` needs for n < current length).
func (ie *IndexedElements) SetLength(n uint32) {
	if n >= ie.Length {
		ie.Length = n
		return
	}
	if ie.sparse {
		for k := range ie.Map {
			if k >= n {
				delete(ie.Map, k)
			}
		}
	} else if int(n) < len(ie.Vector) {
		ie.Vector = ie.Vector[:n]
	}
	ie.Length = n
}

// OwnIndices returns the set of present (non-hole) indices in ascending
// order, used by GetOwnPropertyNames/for-in enumeration.
func (ie *IndexedElements) OwnIndices() []uint32 {
	if ie.sparse {
		out := make([]uint32, 0, len(ie.Map))
		for k := range ie.Map {
			out = append(out, k)
		}
		// Simple insertion sort: index sets here are expected small relative
		// to dense arrays, which never go through this branch.
		for i := 1; i < len(out); i++ {
			for j := i; j > 0 && out[j-1] > out[j]; j-- {
				out[j-1], out[j] = out[j], out[j-1]
			}
		}
		return out
	}
	out := make([]uint32, 0, len(ie.Vector))
	for i, v := range ie.Vector {
		if !v.IsEmpty() {
			out = append(out, uint32(i))
		}
	}
	return out
}
