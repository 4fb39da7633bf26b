//go:build !hostalloc

package malloc

import "unsafe"
import "sync"
import "sync/atomic"

import "github.com/aijle/co/vmem"
import "github.com/bnclabs/golog"

// globalalloc process-wide arena of huge blocks, sharded by
// thread-cache id to spread mutex pressure. Each shard owns a list
// of huge blocks whose head is the shard's warm block. Thread caches
// land here only to mint or retire a 2MB slot.
type globalalloc struct {
	// 64-bit aligned stats
	ncommitted int64 // bytes committed for large slots

	shards [nshards]struct {
		mu sync.Mutex
		hb *hugeblock
	}
}

var galloc globalalloc

// alloc a committed 2MB slot and its parent huge block, nil on OOM.
func (g *globalalloc) alloc(id uint32) (unsafe.Pointer, *hugeblock) {
	x := &g.shards[id&(nshards-1)]
	var p unsafe.Pointer
	var parent *hugeblock

	x.mu.Lock()
	if x.hb != nil {
		if p = x.hb.alloc(); p != nil {
			parent = x.hb
		}
	}
	if p == nil && x.hb != nil && x.hb.link.next != nil {
		// rotate the exhausted head back and scan a few blocks.
		l := (**dlink)(unsafe.Pointer(&x.hb))
		h, k := &x.hb.link, x.hb.link.next
		moveheadback(l)
		for i := int64(0); i < hbscan && k != h; k, i = k.next, i+1 {
			hb := (*hugeblock)(unsafe.Pointer(k))
			if p = hb.alloc(); p != nil {
				parent = hb
				movefront(l, k)
				break
			}
		}
	}
	if p == nil {
		if hb := makehugeblock(); hb != nil {
			pushfront((**dlink)(unsafe.Pointer(&x.hb)), &hb.link)
			p = hb.alloc()
			parent = hb
		}
	}
	x.mu.Unlock()

	if p != nil {
		if err := vmem.Commit(p, 1<<lbbits); err != nil {
			log.Errorf("malloc: slot commit failed: %v\n", err)
			g.freeslot(p, parent, id)
			return nil, nil
		}
		atomic.AddInt64(&g.ncommitted, 1<<lbbits)
	}
	return p, parent
}

// free retire the 2MB slot at `p`, decommitting its pages. The huge
// block itself is released once empty, unless it is the shard's warm
// head.
func (g *globalalloc) free(p unsafe.Pointer, hb *hugeblock, id uint32) {
	vmem.Decommit(p, 1<<lbbits)
	atomic.AddInt64(&g.ncommitted, -(1 << lbbits))
	g.freeslot(p, hb, id)
}

func (g *globalalloc) freeslot(p unsafe.Pointer, hb *hugeblock, id uint32) {
	x := &g.shards[id&(nshards-1)]
	x.mu.Lock()
	r := hb.free(p) && hb != x.hb
	if r {
		erase((**dlink)(unsafe.Pointer(&x.hb)), &hb.link)
	}
	x.mu.Unlock()
	if r {
		n := atomic.AddInt64(&nhugeblocks, -1)
		log.Debugf("malloc: released hugeblock %p, %v live\n", hb, n)
		vmem.Release(unsafe.Pointer(hb), 1<<hbbits)
	}
}

// makelargeblock mint a 2MB slot and outfit it as a largeblock.
func (g *globalalloc) makelargeblock(id uint32) *largeblock {
	p, parent := g.alloc(id)
	if p == nil {
		return nil
	}
	lb := (*largeblock)(p)
	lb.link = dlink{}
	lb.parent, lb.bits = parent, 0
	return lb
}

// makelargealloc mint a 2MB slot and outfit it as a largealloc owned
// by thread cache `owner`.
func (g *globalalloc) makelargealloc(id, owner uint32) *largealloc {
	p, parent := g.alloc(id)
	if p == nil {
		return nil
	}
	la := (*largealloc)(p)
	la.link = dlink{}
	la.parent, la.owner, la.curbit = parent, owner, 0
	return la
}
