package vmem

import "unsafe"

import "golang.org/x/sys/windows"

// Reserve address space of `n` bytes, without backing pages.
func Reserve(n int) (unsafe.Pointer, error) {
	addr, err := windows.VirtualAlloc(
		0, uintptr(n), windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, err
	}
	return unsafe.Pointer(addr), nil
}

// Commit `n` bytes at `p`, making [p, p+n) readable and writable.
// `p` shall fall within a reserved range.
func Commit(p unsafe.Pointer, n int) error {
	_, err := windows.VirtualAlloc(
		uintptr(p), uintptr(n), windows.MEM_COMMIT, windows.PAGE_READWRITE)
	return err
}

// Decommit return the pages backing [p, p+n) to the OS, keeping the
// address range reserved.
func Decommit(p unsafe.Pointer, n int) {
	windows.VirtualFree(uintptr(p), uintptr(n), windows.MEM_DECOMMIT)
}

// Release the whole reservation of `n` bytes at `p`.
func Release(p unsafe.Pointer, n int) {
	windows.VirtualFree(uintptr(p), 0, windows.MEM_RELEASE)
}
