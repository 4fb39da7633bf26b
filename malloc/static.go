//go:build !hostalloc

package malloc

import "unsafe"

import "github.com/aijle/co/lib"

// staticallocator append-only bump allocator for bookkeeping memory
// that is never freed. Memory is drawn from the go heap in fixed
// chunks, the chunks stay anchored for the collector's sake.
type staticallocator struct {
	p, e   uintptr
	nbytes int64
	chunks [][]byte
}

func (ka *staticallocator) alloc(n int64) unsafe.Pointer {
	n = int64(lib.AlignUp(uintptr(n), 8))
	ka.nbytes += n
	if ka.p+uintptr(n) <= ka.e {
		p := ka.p
		ka.p += uintptr(n)
		return unsafe.Pointer(p)
	}

	if n <= 4096 {
		// drop the remainder of the current chunk.
		chunk := make([]byte, staticchunksize)
		ka.chunks = append(ka.chunks, chunk)
		ka.p = uintptr(unsafe.Pointer(&chunk[0]))
		ka.e = ka.p + uintptr(len(chunk))
		p := ka.p
		ka.p += uintptr(n)
		return unsafe.Pointer(p)
	}

	chunk := make([]byte, n)
	ka.chunks = append(ka.chunks, chunk)
	return unsafe.Pointer(&chunk[0])
}

// overhead memory held by this allocator, including dropped
// remainders.
func (ka *staticallocator) overhead() (n int64) {
	for _, chunk := range ka.chunks {
		n += int64(len(chunk))
	}
	return n
}
