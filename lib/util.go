package lib

import "unsafe"

// Memcpy copy memory block of length `ln` from `src` to `dst`. This
// function is useful if either block was obtained outside the golang
// runtime.
func Memcpy(dst, src unsafe.Pointer, ln int) int {
	dstnd := unsafe.Slice((*byte)(dst), ln)
	srcnd := unsafe.Slice((*byte)(src), ln)
	return copy(dstnd, srcnd)
}

// Memset fill memory block of length `ln` at `dst` with byte `c`.
func Memset(dst unsafe.Pointer, c byte, ln int) {
	dstnd := unsafe.Slice((*byte)(dst), ln)
	for i := range dstnd {
		dstnd[i] = c
	}
}

// AlignUp round `n` up to the nearest multiple of `align`, where
// `align` is a power of 2.
func AlignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

// AlignDown round `n` down to the nearest multiple of `align`, where
// `align` is a power of 2.
func AlignDown(n, align uintptr) uintptr {
	return n &^ (align - 1)
}
