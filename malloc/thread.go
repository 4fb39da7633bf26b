//go:build !hostalloc

package malloc

import "runtime"
import "sync"
import "sync/atomic"
import "unsafe"

import "github.com/aijle/co/lib"

//go:linkname runtime_procPin sync.runtime_procPin
func runtime_procPin() int

//go:linkname runtime_procUnpin sync.runtime_procUnpin
func runtime_procUnpin()

// threadalloc per-thread front-end cache. Holds the warm small,
// large and block allocators for its size classes, the head of each
// list being the one the fast path tries first. A threadalloc is
// only ever touched by the goroutine currently leasing it, frees of
// chunks minted by some other cache go through the foreign-free
// bitmaps.
type threadalloc struct {
	lb *largeblock
	la *largealloc
	sa *smallalloc
	id uint32
	ka staticallocator

	nalloc int64 // bytes issued minus bytes returned, approximate
}

var allocid = ^uint32(0) // atomic

func newthreadalloc() *threadalloc {
	return &threadalloc{id: atomic.AddUint32(&allocid, 1)}
}

// percpu one parked thread cache per P. A goroutine leases the
// cache of the P it is running on, so consecutive operations of the
// same goroutine keep hitting the same warm cache and frees take the
// home path. While pinned no other goroutine runs on the P, the
// atomic swap only orders the slot against goroutines that migrate
// between Ps.
var percpu = make([]atomic.Pointer[threadalloc], runtime.GOMAXPROCS(0))

// tcaches overflow reserve and the registry of every cache ever
// minted. Caches are never destroyed, their blocks drain through the
// usual free path. Leasing touches it only when a P slot misses,
// Info walks the registry on every call.
var tcaches struct {
	sync.Mutex
	reserve []*threadalloc
	all     []*threadalloc
}

func getallocator() *threadalloc {
	pid := runtime_procPin()
	if pid < len(percpu) {
		if ta := percpu[pid].Swap(nil); ta != nil {
			runtime_procUnpin()
			return ta
		}
	}
	runtime_procUnpin()

	tcaches.Lock()
	if n := len(tcaches.reserve); n > 0 {
		ta := tcaches.reserve[n-1]
		tcaches.reserve = tcaches.reserve[:n-1]
		tcaches.Unlock()
		return ta
	}
	tcaches.Unlock()
	ta := newthreadalloc()
	tcaches.Lock()
	tcaches.all = append(tcaches.all, ta)
	tcaches.Unlock()
	return ta
}

func putallocator(ta *threadalloc) {
	pid := runtime_procPin()
	if pid < len(percpu) && percpu[pid].CompareAndSwap(nil, ta) {
		runtime_procUnpin()
		return
	}
	runtime_procUnpin()

	tcaches.Lock()
	tcaches.reserve = append(tcaches.reserve, ta)
	tcaches.Unlock()
}

func (ta *threadalloc) staticalloc(n int64) unsafe.Pointer {
	return ta.ka.alloc(n)
}

func (ta *threadalloc) alloc(n int64) unsafe.Pointer {
	if n <= Smallsize {
		u := uint32(1)
		if n > 16 {
			u = uint32(lib.AlignUp(uintptr(n), 16)) >> cellbits
		}
		p := ta.allocsmall(u)
		if p != nil {
			ta.nalloc += int64(u) << cellbits
		}
		return p

	} else if n <= Maxallocsize {
		u := uint32(lib.AlignUp(uintptr(n), pagesize)) >> pagebits
		p := ta.alloclarge(u)
		if p != nil {
			ta.nalloc += int64(u) << pagebits
		}
		return p
	}
	return osalloc(n)
}

func (ta *threadalloc) allocsmall(u uint32) unsafe.Pointer {
	if ta.sa != nil {
		if p := ta.sa.alloc(u); p != nil {
			return p
		}
	}
	if ta.sa != nil && ta.sa.link.next != nil {
		// demote the exhausted head, reclaim foreign frees from a
		// couple of secondary slabs.
		l := (**dlink)(unsafe.Pointer(&ta.sa))
		h, k := &ta.sa.link, ta.sa.link.next
		moveheadback(l)
		for i := int64(0); i < sascan && k != h; k, i = k.next, i+1 {
			sa := (*smallalloc)(unsafe.Pointer(k))
			if p := sa.tryhardalloc(u); p != nil {
				movefront(l, k)
				return p
			}
		}
	}
	if ta.lb != nil {
		if sa := ta.lb.makesmallalloc(ta.id); sa != nil {
			pushfront((**dlink)(unsafe.Pointer(&ta.sa)), &sa.link)
			return sa.alloc(u)
		}
	}
	if ta.lb != nil && ta.lb.link.next != nil {
		l := (**dlink)(unsafe.Pointer(&ta.lb))
		h, k := &ta.lb.link, ta.lb.link.next
		moveheadback(l)
		for i := int64(0); i < lbscan && k != h; k, i = k.next, i+1 {
			lb := (*largeblock)(unsafe.Pointer(k))
			if sa := lb.makesmallalloc(ta.id); sa != nil {
				movefront(l, k)
				pushfront((**dlink)(unsafe.Pointer(&ta.sa)), &sa.link)
				return sa.alloc(u)
			}
		}
	}
	lb := galloc.makelargeblock(ta.id)
	if lb == nil {
		return nil
	}
	pushfront((**dlink)(unsafe.Pointer(&ta.lb)), &lb.link)
	sa := lb.makesmallalloc(ta.id)
	pushfront((**dlink)(unsafe.Pointer(&ta.sa)), &sa.link)
	return sa.alloc(u)
}

func (ta *threadalloc) alloclarge(u uint32) unsafe.Pointer {
	if ta.la != nil {
		if p := ta.la.alloc(u); p != nil {
			return p
		}
	}
	if ta.la != nil && ta.la.link.next != nil {
		l := (**dlink)(unsafe.Pointer(&ta.la))
		h, k := &ta.la.link, ta.la.link.next
		moveheadback(l)
		for i := int64(0); i < lascan && k != h; k, i = k.next, i+1 {
			la := (*largealloc)(unsafe.Pointer(k))
			if p := la.tryhardalloc(u); p != nil {
				movefront(l, k)
				return p
			}
		}
	}
	la := galloc.makelargealloc(ta.id, ta.id)
	if la == nil {
		return nil
	}
	pushfront((**dlink)(unsafe.Pointer(&ta.la)), &la.link)
	return la.alloc(u)
}

func (ta *threadalloc) free(p unsafe.Pointer, n int64) {
	if p == nil {
		return
	}
	if n <= Smallsize {
		sa := (*smallalloc)(unsafe.Pointer(lib.AlignDown(uintptr(p), 1<<sbbits)))
		u := int64(16)
		if n > 16 {
			u = int64(lib.AlignUp(uintptr(n), 16))
		}
		ta.nalloc -= u
		if sa.owner == ta.id {
			if sa.free(p) && sa != ta.sa {
				erase((**dlink)(unsafe.Pointer(&ta.sa)), &sa.link)
				lb := sa.parent
				if lb.free(unsafe.Pointer(sa)) && lb != ta.lb {
					erase((**dlink)(unsafe.Pointer(&ta.lb)), &lb.link)
					galloc.free(unsafe.Pointer(lb), lb.parent, ta.id)
				}
			}
		} else {
			sa.xfree(p)
		}

	} else if n <= Maxallocsize {
		la := (*largealloc)(unsafe.Pointer(lib.AlignDown(uintptr(p), 1<<lbbits)))
		ta.nalloc -= int64(lib.AlignUp(uintptr(n), pagesize))
		if la.owner == ta.id {
			if la.free(p) && la != ta.la {
				erase((**dlink)(unsafe.Pointer(&ta.la)), &la.link)
				galloc.free(unsafe.Pointer(la), la.parent, ta.id)
			}
		} else {
			la.xfree(p)
		}

	} else {
		osfree(p, n)
	}
}

func (ta *threadalloc) realloc(p unsafe.Pointer, o, n int64) unsafe.Pointer {
	if p == nil {
		return ta.alloc(n)
	}
	if o > Maxallocsize {
		return osrealloc(p, o, n)
	}
	if o >= n {
		panicerr("Realloc: new size %v must exceed old size %v", n, o)
	}

	if o <= Smallsize {
		k := int64(16)
		if o > 16 {
			k = int64(lib.AlignUp(uintptr(o), 16))
		}
		if n <= k {
			return p
		}
		sa := (*smallalloc)(unsafe.Pointer(lib.AlignDown(uintptr(p), 1<<sbbits)))
		if sa == ta.sa && n <= Smallsize {
			l := int64(lib.AlignUp(uintptr(n), 16))
			if x := sa.realloc(p, uint32(k>>cellbits), uint32(l>>cellbits)); x != nil {
				ta.nalloc += l - k
				return x
			}
		}

	} else {
		k := int64(lib.AlignUp(uintptr(o), pagesize))
		if n <= k {
			return p
		}
		la := (*largealloc)(unsafe.Pointer(lib.AlignDown(uintptr(p), 1<<lbbits)))
		if la == ta.la && n <= Maxallocsize {
			l := int64(lib.AlignUp(uintptr(n), pagesize))
			if x := la.realloc(p, uint32(k>>pagebits), uint32(l>>pagebits)); x != nil {
				ta.nalloc += l - k
				return x
			}
		}
	}

	x := ta.alloc(n)
	if x != nil {
		lib.Memcpy(x, p, int(o))
		ta.free(p, o)
	}
	return x
}
