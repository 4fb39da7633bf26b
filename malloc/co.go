//go:build !hostalloc

package malloc

import "unsafe"

import "github.com/aijle/co/api"
import "github.com/aijle/co/lib"

// Alloc allocate `n` bytes, nil if the OS ran out of memory. Chunks
// up to Smallsize bytes are 16-byte aligned, chunks up to
// Maxallocsize are page aligned.
func Alloc(n int64) unsafe.Pointer {
	if n <= 0 {
		panicerr("Alloc size %v must be positive", n)
	}
	ta := getallocator()
	p := ta.alloc(n)
	putallocator(ta)
	return p
}

// Zalloc allocate `n` bytes and zero them.
func Zalloc(n int64) unsafe.Pointer {
	p := Alloc(n)
	if p != nil {
		lib.Memset(p, 0, int(n))
	}
	return p
}

// Free chunk of `n` bytes at `p`, where `n` is the size passed to
// the allocating call. Free of nil is a no-op.
func Free(p unsafe.Pointer, n int64) {
	if p == nil {
		return
	}
	ta := getallocator()
	ta.free(p, n)
	putallocator(ta)
}

// Realloc grow chunk at `p` from `o` to `n` bytes, `n` greater than
// `o`. Returns `p` itself when the chunk can grow in place, a fresh
// chunk with the first `o` bytes copied otherwise, nil on OOM (the
// chunk at `p` stays valid in that case).
func Realloc(p unsafe.Pointer, o, n int64) unsafe.Pointer {
	ta := getallocator()
	x := ta.realloc(p, o, n)
	putallocator(ta)
	return x
}

// StaticAlloc allocate `n` bytes of bookkeeping memory that will
// never be freed.
func StaticAlloc(n int64) unsafe.Pointer {
	ta := getallocator()
	p := ta.staticalloc(n)
	putallocator(ta)
	return p
}

// Info of memory accounting. `capacity` is reserved address space,
// `heap` is memory committed from the OS, `alloc` is memory issued
// to the application and `overhead` the bookkeeping cost. alloc and
// overhead are approximate while other threads are allocating.
func Info() (capacity, heap, alloc, overhead int64) {
	return heapinfo()
}

// Default the process-wide allocator as an api.Mallocer.
func Default() api.Mallocer {
	return processheap{}
}

// processheap hands the process-wide allocator around as a value.
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
