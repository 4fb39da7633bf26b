//go:build !hostalloc

package malloc

import "unsafe"
import "sync/atomic"

import "github.com/aijle/co/lib"

// bitset is a view over a fixed array of 64-bit occupancy words kept
// inside a block header. Plain methods are owner-thread only, atomic
// methods are safe against concurrent foreign writers.
type bitset []uint64

func mkbitset(p unsafe.Pointer, nbits uint32) bitset {
	return unsafe.Slice((*uint64)(p), nbits>>bbits)
}

func (bs bitset) set(i uint32) {
	bs[i>>bbits] |= 1 << (i & wordmask)
}

func (bs bitset) unset(i uint32) {
	bs[i>>bbits] &^= 1 << (i & wordmask)
}

// atomicset set bit `i`, callable from foreign threads.
func (bs bitset) atomicset(i uint32) {
	w := &bs[i>>bbits]
	x := uint64(1) << (i & wordmask)
	for {
		old := atomic.LoadUint64(w)
		if atomic.CompareAndSwapUint64(w, old, old|x) {
			return
		}
	}
}

// andnot atomically clear the bits of `x` in the `w`th word.
func (bs bitset) andnot(w int32, x uint64) {
	p := &bs[w]
	for {
		old := atomic.LoadUint64(p)
		if atomic.CompareAndSwapUint64(p, old, old&^x) {
			return
		}
	}
}

// testandunset clear bit `i` and return its prior value.
func (bs bitset) testandunset(i uint32) bool {
	w := &bs[i>>bbits]
	x := uint64(1) << (i & wordmask)
	for {
		old := atomic.LoadUint64(w)
		if atomic.CompareAndSwapUint64(w, old, old&^x) {
			return old&x != 0
		}
	}
}

// rfind return the highest set bit at or below the word holding `i`,
// -1 if every word down to the first is clear.
func (bs bitset) rfind(i uint32) int32 {
	for n := int32(i >> bbits); n >= 0; n-- {
		if x := bs[n]; x != 0 {
			return int32(lib.Bit64(x).Findlastset()) + (n << bbits)
		}
	}
	return -1
}
