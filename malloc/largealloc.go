//go:build !hostalloc

package malloc

import "unsafe"
import "sync/atomic"

import "github.com/aijle/co/lib"

// largealloc is a large block outfitted as a slab of page cells for
// requests in (Smallsize, Maxallocsize]. Header and both bitmaps fit
// in the first page, the payload begins at the second page. Same
// bump-with-reclamation scheme as smallalloc.
type largealloc struct {
	link   dlink
	parent *hugeblock
	owner  uint32 // thread-cache id, immutable after construction
	curbit uint32
}

func (la *largealloc) self() uintptr {
	return uintptr(unsafe.Pointer(la))
}

func (la *largealloc) bs() bitset {
	return mkbitset(unsafe.Pointer(la.self()+lasize), labits)
}

func (la *largealloc) xbs() bitset {
	return mkbitset(unsafe.Pointer(la.self()+lasize+(labits>>3)), labits)
}

func (la *largealloc) payload() uintptr {
	return la.self() + pagesize
}

// alloc `n` page cells, nil if the bump path would overflow.
func (la *largealloc) alloc(n uint32) unsafe.Pointer {
	if la.curbit+n <= lamaxbit {
		la.bs().set(la.curbit)
		p := unsafe.Pointer(la.payload() + uintptr(la.curbit)<<pagebits)
		la.curbit += n
		return p
	}
	return nil
}

// tryhardalloc fold foreign frees into the owner bitmap, lower the
// high-water mark over the reclaimed range, and retry the bump path.
func (la *largealloc) tryhardalloc(n uint32) unsafe.Pointer {
	bs, xbs := la.bs(), la.xbs()
	for i := int32(la.curbit >> bbits); i >= 0; i-- {
		x := atomic.LoadUint64(&xbs[i])
		if x == 0 {
			continue
		}
		xbs.andnot(i, x)
		bs[i] &^= x
		lsb := int32(lib.Bit64(x).Findfirstset()) + (i << bbits)
		r := bs.rfind(la.curbit)
		if r >= lsb {
			break
		}
		if r >= 0 {
			la.curbit = uint32(lsb)
		} else {
			la.curbit = 0
		}
		if la.curbit == 0 {
			break
		}
	}
	return la.alloc(n)
}

// free cell at `p`, owner thread only. Report whether the slab went
// empty.
func (la *largealloc) free(p unsafe.Pointer) bool {
	i := int32((uintptr(p) - la.payload()) >> pagebits)
	bs := la.bs()
	bs.unset(uint32(i))
	r := bs.rfind(la.curbit)
	if r < i {
		if r >= 0 {
			la.curbit = uint32(i)
		} else {
			la.curbit = 0
		}
		return la.curbit == 0
	}
	return false
}

// xfree park cell at `p` for the owner to reclaim, foreign threads
// only.
func (la *largealloc) xfree(p unsafe.Pointer) {
	i := uint32((uintptr(p) - la.payload()) >> pagebits)
	la.xbs().atomicset(i)
}

// realloc grow the chunk at `p` from `o` to `n` pages in place.
func (la *largealloc) realloc(p unsafe.Pointer, o, n uint32) unsafe.Pointer {
	i := uint32((uintptr(p) - la.payload()) >> pagebits)
	if la.curbit == i+o && i+n <= lamaxbit {
		la.curbit = i + n
		return p
	}
	return nil
}
