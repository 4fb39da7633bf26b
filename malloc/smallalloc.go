//go:build !hostalloc

package malloc

import "unsafe"
import "sync/atomic"

import "github.com/aijle/co/lib"

// smallalloc is a small block outfitted as a slab of 16-byte cells
// for requests up to Smallsize bytes. The 64-byte header sits at the
// head of the block, followed by the owner-side occupancy bitmap
// `bs`, the foreign-free bitmap `xbs`, and the cell payload.
//
// Allocation is bump-with-reclamation: curbit is a high-water mark
// that only the slow path and the free path lower. One occupancy bit
// marks the first cell of every allocation. `xbs` is the only field
// foreign threads write, through relaxed atomic OR.
type smallalloc struct {
	link   dlink
	parent *largeblock
	owner  uint32 // thread-cache id, immutable after construction
	curbit uint32
}

func (sa *smallalloc) self() uintptr {
	return uintptr(unsafe.Pointer(sa))
}

func (sa *smallalloc) bs() bitset {
	return mkbitset(unsafe.Pointer(sa.self()+sasize), sabits)
}

func (sa *smallalloc) xbs() bitset {
	return mkbitset(unsafe.Pointer(sa.self()+sasize+(sabits>>3)), sabits)
}

func (sa *smallalloc) payload() uintptr {
	return sa.self() + sasize + (sabits >> 2)
}

// alloc `n` cells, nil if the bump path would overflow the slab.
func (sa *smallalloc) alloc(n uint32) unsafe.Pointer {
	if sa.curbit+n <= samaxbit {
		sa.bs().set(sa.curbit)
		p := unsafe.Pointer(sa.payload() + uintptr(sa.curbit)<<cellbits)
		sa.curbit += n
		return p
	}
	return nil
}

// tryhardalloc fold foreign frees into the owner bitmap, lower the
// high-water mark over the reclaimed range, and retry the bump path.
func (sa *smallalloc) tryhardalloc(n uint32) unsafe.Pointer {
	bs, xbs := sa.bs(), sa.xbs()
	for i := int32(sa.curbit >> bbits); i >= 0; i-- {
		x := atomic.LoadUint64(&xbs[i])
		if x == 0 {
			continue
		}
		xbs.andnot(i, x)
		bs[i] &^= x
		lsb := int32(lib.Bit64(x).Findfirstset()) + (i << bbits)
		r := bs.rfind(sa.curbit)
		if r >= lsb {
			break
		}
		if r >= 0 {
			sa.curbit = uint32(lsb)
		} else {
			sa.curbit = 0
		}
		if sa.curbit == 0 {
			break
		}
	}
	return sa.alloc(n)
}

// free cell at `p`, owner thread only. Report whether the slab went
// empty.
func (sa *smallalloc) free(p unsafe.Pointer) bool {
	i := int32((uintptr(p) - sa.payload()) >> cellbits)
	bs := sa.bs()
	bs.unset(uint32(i))
	r := bs.rfind(sa.curbit)
	if r < i {
		if r >= 0 {
			sa.curbit = uint32(i)
		} else {
			sa.curbit = 0
		}
		return sa.curbit == 0
	}
	return false
}

// xfree park cell at `p` for the owner to reclaim, foreign threads
// only.
func (sa *smallalloc) xfree(p unsafe.Pointer) {
	i := uint32((uintptr(p) - sa.payload()) >> cellbits)
	sa.xbs().atomicset(i)
}

// realloc grow the chunk at `p` from `o` to `n` cells in place.
// Succeeds only when `p` is the latest allocation and the slab has
// room, otherwise returns nil and the caller copies.
func (sa *smallalloc) realloc(p unsafe.Pointer, o, n uint32) unsafe.Pointer {
	i := uint32((uintptr(p) - sa.payload()) >> cellbits)
	if sa.curbit == i+o && i+n <= samaxbit {
		sa.curbit = i + n
		return p
	}
	return nil
}
