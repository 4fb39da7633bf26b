// Package vmem supplies raw virtual-memory primitives on which the
// malloc package builds its block hierarchy. Address ranges move
// through three states:
//
//	reserved  : address space claimed from the OS, not backed by pages.
//	committed : readable and writable, backed on first touch.
//	released  : returned to the OS, the range must not be touched.
//
// All lengths shall be multiples of the OS page size. On posix
// systems the primitives map to mmap/mprotect/madvise/munmap
// recipes, on windows to VirtualAlloc/VirtualFree.
package vmem
