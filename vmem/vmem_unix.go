//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd

package vmem

import "unsafe"

import "golang.org/x/sys/unix"

// Reserve address space of `n` bytes, without backing pages. The
// range is mapped PROT_NONE until committed.
func Reserve(n int) (unsafe.Pointer, error) {
	b, err := unix.Mmap(
		-1, 0, n, unix.PROT_NONE,
		unix.MAP_PRIVATE|unix.MAP_ANON|mapnoreserve)
	if err != nil {
		return nil, err
	}
	return unsafe.Pointer(&b[0]), nil
}

// Commit `n` bytes at `p`, making [p, p+n) readable and writable.
// `p` shall fall within a reserved range.
func Commit(p unsafe.Pointer, n int) error {
	blk := unsafe.Slice((*byte)(p), n)
	return unix.Mprotect(blk, unix.PROT_READ|unix.PROT_WRITE)
}

// Decommit return the pages backing [p, p+n) to the OS, keeping the
// address range reserved. The range reads as fresh zero pages once
// recommitted.
func Decommit(p unsafe.Pointer, n int) {
	blk := unsafe.Slice((*byte)(p), n)
	unix.Madvise(blk, unix.MADV_DONTNEED)
	unix.Mprotect(blk, unix.PROT_NONE)
}

// Release the whole reservation of `n` bytes at `p`.
func Release(p unsafe.Pointer, n int) {
	unix.Munmap(unsafe.Slice((*byte)(p), n))
}
