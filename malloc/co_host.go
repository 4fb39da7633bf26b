//go:build hostalloc

package malloc

import "unsafe"
import "sync"

import "github.com/aijle/co/api"
import "github.com/aijle/co/lib"

// Host-allocator build: every entry point becomes a thin forwarder
// to go-heap buffers and none of the block machinery is linked in.
// Buffers are anchored in a registry so the collector keeps them
// alive until the sized Free.

var hostheap struct {
	sync.Mutex
	chunks map[uintptr][]byte
	static [][]byte
	nalloc int64
}

func hostalloc(n int64) unsafe.Pointer {
	blk := make([]byte, n)
	p := unsafe.Pointer(&blk[0])
	hostheap.Lock()
	if hostheap.chunks == nil {
		hostheap.chunks = make(map[uintptr][]byte)
	}
	hostheap.chunks[uintptr(p)] = blk
	hostheap.nalloc += n
	hostheap.Unlock()
	return p
}

// Alloc allocate `n` bytes from the go heap.
func Alloc(n int64) unsafe.Pointer {
	if n <= 0 {
		panicerr("Alloc size %v must be positive", n)
	}
	return hostalloc(n)
}

// Zalloc same as Alloc, go-heap memory is already zeroed.
func Zalloc(n int64) unsafe.Pointer {
	return Alloc(n)
}

// Free chunk at `p`. Free of nil is a no-op.
func Free(p unsafe.Pointer, n int64) {
	if p == nil {
		return
	}
	hostheap.Lock()
	if _, ok := hostheap.chunks[uintptr(p)]; !ok {
		hostheap.Unlock()
		panicerr("Free of unknown pointer %p", p)
	}
	delete(hostheap.chunks, uintptr(p))
	hostheap.nalloc -= n
	hostheap.Unlock()
}

// Realloc grow chunk at `p` from `o` to `n` bytes.
func Realloc(p unsafe.Pointer, o, n int64) unsafe.Pointer {
	if p == nil {
		return Alloc(n)
	}
	x := Alloc(n)
	if o > n {
		o = n
	}
	lib.Memcpy(x, p, int(o))
	Free(p, o)
	return x
}

// StaticAlloc allocate `n` bytes that will never be freed.
func StaticAlloc(n int64) unsafe.Pointer {
	blk := make([]byte, n)
	hostheap.Lock()
	hostheap.static = append(hostheap.static, blk)
	hostheap.Unlock()
	return unsafe.Pointer(&blk[0])
}

// Info of memory accounting for the host-allocator build.
func Info() (capacity, heap, alloc, overhead int64) {
	hostheap.Lock()
	alloc = hostheap.nalloc
	for _, blk := range hostheap.static {
		overhead += int64(len(blk))
	}
	hostheap.Unlock()
	return alloc, alloc, alloc, overhead
}

// Default the process-wide allocator as an api.Mallocer.
func Default() api.Mallocer {
	return processheap{}
}

type processheap struct{}

func (h processheap) Alloc(n int64) unsafe.Pointer  { return Alloc(n) }
func (h processheap) Zalloc(n int64) unsafe.Pointer { return Zalloc(n) }
func (h processheap) Realloc(p unsafe.Pointer, o, n int64) unsafe.Pointer {
	return Realloc(p, o, n)
}
func (h processheap) Free(p unsafe.Pointer, n int64)     { Free(p, n) }
func (h processheap) StaticAlloc(n int64) unsafe.Pointer { return StaticAlloc(n) }

func (h processheap) Info() (capacity, heap, alloc, overhead int64) {
	return Info()
}
