//go:build !hostalloc

package malloc

import "unsafe"
import "sync/atomic"

import "github.com/aijle/co/lib"
import "github.com/aijle/co/vmem"
import "github.com/bnclabs/golog"

// Oversize requests bypass the block hierarchy and are mapped
// straight from the OS, page rounded. Nothing in the arena is
// touched.

var osnbytes int64 // atomic, bytes mapped for oversize chunks

func osalloc(n int64) unsafe.Pointer {
	sz := int(lib.AlignUp(uintptr(n), pagesize))
	p, err := vmem.Reserve(sz)
	if err != nil {
		log.Errorf("malloc: oversize reserve %v failed: %v\n", n, err)
		return nil
	}
	if err := vmem.Commit(p, sz); err != nil {
		log.Errorf("malloc: oversize commit %v failed: %v\n", n, err)
		vmem.Release(p, sz)
		return nil
	}
	atomic.AddInt64(&osnbytes, int64(sz))
	return p
}

func osfree(p unsafe.Pointer, n int64) {
	sz := int(lib.AlignUp(uintptr(n), pagesize))
	vmem.Release(p, sz)
	atomic.AddInt64(&osnbytes, -int64(sz))
}

func osrealloc(p unsafe.Pointer, o, n int64) unsafe.Pointer {
	osz, nsz := lib.AlignUp(uintptr(o), pagesize), lib.AlignUp(uintptr(n), pagesize)
	if nsz <= osz {
		return p
	}
	x := osalloc(n)
	if x != nil {
		lib.Memcpy(x, p, int(o))
		osfree(p, o)
	}
	return x
}
