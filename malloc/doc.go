// Package malloc supplies a thread-caching memory allocator for
// applications that make many small-to-medium allocations with high
// concurrency, with a limited scope:
//
//   - Allocations are sized: the application shall pass the requested
//     size back while freeing or reallocating a pointer.
//   - Memory is organized as a three level hierarchy, huge blocks of
//     128MB reserved from the OS are carved into large blocks of 2MB,
//     which are carved into small blocks of 32KB.
//   - Requests up to 2KB are served from small blocks as 16-byte
//     cells, requests up to 128KB are served from large blocks as
//     4KB page cells, larger requests are mapped straight from the
//     OS.
//   - Every allocation path goes through a per-P thread cache, the
//     steady state fast path takes no lock: leasing the cache is one
//     atomic swap on the current P's slot, the bump allocation itself
//     touches no shared state.
//   - Pointers freed by a thread other than the allocating one are
//     parked in a per-slab bitmap and reclaimed lazily by the owner.
//
// Chunks returned for small requests are 16-byte aligned, chunks for
// the large class are 4096-byte aligned.
package malloc
