package api

import "unsafe"

// Mallocer interface for custom memory management. Allocations are
// sized: the application shall remember the size it requested and
// pass the same size while freeing or reallocating the pointer.
type Mallocer interface {
	// Alloc allocate a chunk of `n` bytes. Returns nil if the
	// operating system ran out of memory.
	Alloc(n int64) unsafe.Pointer

	// Zalloc same as Alloc, additionally zeroes the chunk.
	Zalloc(n int64) unsafe.Pointer

	// Realloc grow chunk `ptr` from `o` bytes to `n` bytes, `n`
	// greater than `o`. Chunk is extended in place when possible,
	// otherwise a fresh chunk is returned with the first `o` bytes
	// copied over.
	Realloc(ptr unsafe.Pointer, o, n int64) unsafe.Pointer

	// Free chunk of `n` bytes at `ptr`. `n` shall be the size passed
	// to the allocating call. Free on nil pointer is a no-op.
	Free(ptr unsafe.Pointer, n int64)

	// StaticAlloc allocate `n` bytes of bookkeeping memory that will
	// never be freed.
	StaticAlloc(n int64) unsafe.Pointer

	// Info of memory accounting: reserved address space, memory
	// committed from OS, memory issued to application, and the
	// overhead of managing it.
	Info() (capacity, heap, alloc, overhead int64)
}
