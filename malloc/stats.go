//go:build !hostalloc

package malloc

import "sync/atomic"

func heapinfo() (capacity, heap, alloc, overhead int64) {
	nhb := atomic.LoadInt64(&nhugeblocks)
	osbytes := atomic.LoadInt64(&osnbytes)

	capacity = nhb*(1<<hbbits) + osbytes
	heap = atomic.LoadInt64(&galloc.ncommitted) + nhb*pagesize + osbytes
	overhead = nhb * pagesize

	tcaches.Lock()
	for _, ta := range tcaches.all {
		alloc += ta.nalloc
		overhead += ta.ka.overhead()
	}
	tcaches.Unlock()
	alloc += osbytes
	return capacity, heap, alloc, overhead
}
