//go:build !hostalloc

package malloc

import "unsafe"
import "sync/atomic"

import "github.com/aijle/co/lib"
import "github.com/aijle/co/vmem"
import "github.com/bnclabs/golog"
import "github.com/dustin/go-humanize"

// hugeblock header for a 128MB reservation carved into 2MB slots.
// The header lives in the first page of the reservation, the slot
// array begins at the first 2MB boundary past the header. Occupancy
// is one word, bit i for slot i, the reserved top bit stays clear.
// All fields are guarded by the owning arena shard's mutex.
type hugeblock struct {
	link dlink
	base uintptr
	bits uint64
}

// alloc the first free slot, nil if all slots are taken.
func (hb *hugeblock) alloc() unsafe.Pointer {
	i := uint32(lib.Bit64(^hb.bits).Findfirstset())
	if i < wordmask {
		hb.bits |= 1 << i
		return unsafe.Pointer(hb.base + uintptr(i)<<lbbits)
	}
	return nil
}

// free slot at `p`, report whether the block went empty.
func (hb *hugeblock) free(p unsafe.Pointer) bool {
	i := uint32((uintptr(p) - hb.base) >> lbbits)
	hb.bits &^= 1 << i
	return hb.bits == 0
}

var nhugeblocks int64 // atomic, count of live huge blocks

func makehugeblock() *hugeblock {
	p, err := vmem.Reserve(1 << hbbits)
	if err != nil {
		log.Errorf("malloc: hugeblock reserve %v failed: %v\n",
			humanize.IBytes(1<<hbbits), err)
		return nil
	}
	if err := vmem.Commit(p, pagesize); err != nil {
		log.Errorf("malloc: hugeblock header commit failed: %v\n", err)
		vmem.Release(p, 1<<hbbits)
		return nil
	}
	base := lib.AlignUp(uintptr(p), 1<<lbbits)
	if base == uintptr(p) { // header would overlap slot 0
		base += 1 << lbbits
	}
	hb := (*hugeblock)(p)
	hb.link = dlink{}
	hb.base, hb.bits = base, 0
	n := atomic.AddInt64(&nhugeblocks, 1)
	log.Debugf("malloc: new hugeblock %p, %v live\n", p, n)
	return hb
}

// largeblock header for a 2MB slot carved into 32KB small blocks.
// The header lives in the first small block, bookkeeping is the same
// shape as hugeblock. Accessed only by the owning thread cache.
type largeblock struct {
	link   dlink
	parent *hugeblock
	bits   uint64
}

func (lb *largeblock) base() uintptr {
	return uintptr(unsafe.Pointer(lb)) + 1<<sbbits
}

// alloc the first free small block, nil if all are taken.
func (lb *largeblock) alloc() unsafe.Pointer {
	i := uint32(lib.Bit64(^lb.bits).Findfirstset())
	if i < wordmask {
		lb.bits |= 1 << i
		return unsafe.Pointer(lb.base() + uintptr(i)<<sbbits)
	}
	return nil
}

// free small block at `p`, report whether the block went empty.
func (lb *largeblock) free(p unsafe.Pointer) bool {
	i := uint32((uintptr(p) - lb.base()) >> sbbits)
	lb.bits &^= 1 << i
	return lb.bits == 0
}

// makesmallalloc outfit a free small block as a cell slab owned by
// thread cache `owner`.
func (lb *largeblock) makesmallalloc(owner uint32) *smallalloc {
	x := lb.alloc()
	if x == nil {
		return nil
	}
	sa := (*smallalloc)(x)
	sa.link = dlink{}
	sa.parent, sa.owner, sa.curbit = lb, owner, 0
	return sa
}
