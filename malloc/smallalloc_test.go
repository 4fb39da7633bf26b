//go:build !hostalloc

package malloc

import "testing"
import "unsafe"

import "github.com/aijle/co/lib"

func mintsmallalloc(t *testing.T, owner uint32) (*smallalloc, *largeblock) {
	t.Helper()
	lb := galloc.makelargeblock(owner)
	if lb == nil {
		t.Fatalf("largeblock allocation failed")
	}
	sa := lb.makesmallalloc(owner)
	if sa == nil {
		t.Fatalf("smallalloc allocation failed")
	}
	return sa, lb
}

func releasesmallalloc(sa *smallalloc, lb *largeblock, owner uint32) {
	lb.free(unsafe.Pointer(sa))
	galloc.free(unsafe.Pointer(lb), lb.parent, owner)
}

func TestSmallallocLayout(t *testing.T) {
	if x := unsafe.Sizeof(smallalloc{}); x > sasize {
		t.Fatalf("header %v exceeds %v bytes", x, sasize)
	}
	if samaxbit != 2012 {
		t.Errorf("expected %v, got %v", 2012, samaxbit)
	}
	sa, lb := mintsmallalloc(t, 0)
	defer releasesmallalloc(sa, lb, 0)

	base := uintptr(unsafe.Pointer(sa))
	if base&((1<<sbbits)-1) != 0 {
		t.Errorf("header %x is not small-block aligned", base)
	} else if sa.payload() != base+576 {
		t.Errorf("expected %x, got %x", base+576, sa.payload())
	}
	// last cell ends exactly at the end of the small block.
	end := sa.payload() + samaxbit<<cellbits
	if end != base+(1<<sbbits) {
		t.Errorf("expected %x, got %x", base+(1<<sbbits), end)
	}
}

func TestSmallallocAlloc(t *testing.T) {
	sa, lb := mintsmallalloc(t, 0)
	defer releasesmallalloc(sa, lb, 0)

	p := sa.alloc(1)
	if uintptr(p) != sa.payload() {
		t.Errorf("expected %x, got %x", sa.payload(), uintptr(p))
	} else if uintptr(p)&15 != 0 {
		t.Errorf("pointer %p is not 16 byte aligned", p)
	}
	q := sa.alloc(2)
	if uintptr(q) != sa.payload()+16 {
		t.Errorf("expected %x, got %x", sa.payload()+16, uintptr(q))
	} else if sa.curbit != 3 {
		t.Errorf("expected %v, got %v", 3, sa.curbit)
	}
	// occupancy bit marks the first cell of each allocation.
	if sa.bs()[0] != 0x3 {
		t.Errorf("expected %x, got %x", 3, sa.bs()[0])
	}

	// exhaust the slab with single cells.
	n := 2
	for sa.alloc(1) != nil {
		n++
	}
	if n != samaxbit-1 { // 3 cells were already taken
		t.Errorf("expected %v, got %v", samaxbit-1, n)
	}
}

func TestSmallallocFree(t *testing.T) {
	sa, lb := mintsmallalloc(t, 0)
	defer releasesmallalloc(sa, lb, 0)

	ptrs := make([]unsafe.Pointer, 0, 100)
	for i := 0; i < 100; i++ {
		ptrs = append(ptrs, sa.alloc(1))
	}
	// free in allocation order, only the last free empties the slab.
	for i, p := range ptrs {
		empty := sa.free(p)
		if i < 99 && empty {
			t.Fatalf("unexpected empty after %v frees", i+1)
		} else if i == 99 && !empty {
			t.Fatalf("expected empty after the last free")
		}
	}
	if sa.curbit != 0 {
		t.Errorf("expected %v, got %v", 0, sa.curbit)
	}

	// freeing the top allocation lowers the high-water mark.
	p, q := sa.alloc(2), sa.alloc(2)
	if sa.free(q) {
		t.Errorf("slab should not be empty")
	}
	if sa.curbit != 2 {
		t.Errorf("expected %v, got %v", 2, sa.curbit)
	}
	// and the next allocation reissues the same address.
	if x := sa.alloc(2); x != q {
		t.Errorf("expected %p, got %p", q, x)
	}
	// freeing a middle allocation leaves the mark alone.
	if sa.free(p) {
		t.Errorf("slab should not be empty")
	}
	if sa.curbit != 4 {
		t.Errorf("expected %v, got %v", 4, sa.curbit)
	}
	sa.free(q)
	if sa.curbit != 0 {
		t.Errorf("expected %v, got %v", 0, sa.curbit)
	}
}

func TestSmallallocXfree(t *testing.T) {
	sa, lb := mintsmallalloc(t, 0)
	defer releasesmallalloc(sa, lb, 0)

	p := sa.alloc(3)
	q := sa.alloc(3)
	sa.xfree(q)
	sa.xfree(p)
	if sa.xbs()[0] != (1 | (1 << 3)) {
		t.Errorf("expected %x, got %x", 1|(1<<3), sa.xbs()[0])
	}
	// the foreign frees are folded in and the first chunk reissued.
	if x := sa.tryhardalloc(3); x != p {
		t.Errorf("expected %p, got %p", p, x)
	}
	if sa.xbs()[0] != 0 {
		t.Errorf("expected %v, got %v", 0, sa.xbs()[0])
	}
}

func TestSmallallocTryhardFull(t *testing.T) {
	sa, lb := mintsmallalloc(t, 0)
	defer releasesmallalloc(sa, lb, 0)

	for sa.alloc(1) != nil {
	}
	// no foreign frees parked, nothing to reclaim.
	if p := sa.tryhardalloc(1); p != nil {
		t.Errorf("expected nil, got %p", p)
	}
	// a foreign free below live cells does not lower the mark.
	sa.xfree(unsafe.Pointer(sa.payload()))
	if p := sa.tryhardalloc(1); p != nil {
		t.Errorf("expected nil, got %p", p)
	}
}

func TestSmallallocRealloc(t *testing.T) {
	sa, lb := mintsmallalloc(t, 0)
	defer releasesmallalloc(sa, lb, 0)

	p := sa.alloc(2)
	if x := sa.realloc(p, 2, 3); x != p {
		t.Errorf("expected %p, got %p", p, x)
	}
	if sa.curbit != 3 {
		t.Errorf("expected %v, got %v", 3, sa.curbit)
	}
	// not the latest allocation, in-place growth fails.
	sa.alloc(1)
	if x := sa.realloc(p, 3, 4); x != nil {
		t.Errorf("expected nil, got %p", x)
	}
}

func TestSmallallocZeroed(t *testing.T) {
	sa, lb := mintsmallalloc(t, 0)
	defer releasesmallalloc(sa, lb, 0)

	p := sa.alloc(4)
	lib.Memset(p, 0xee, 64)
	blk := unsafe.Slice((*byte)(p), 64)
	for i := range blk {
		if blk[i] != 0xee {
			t.Fatalf("expected %v, got %v", 0xee, blk[i])
		}
	}
}
