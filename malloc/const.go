//go:build !hostalloc

package malloc

// Geometry of the block hierarchy. A 64-bit word tracks slot
// occupancy at every level, the most significant bit of each word is
// kept clear so that a full word can still report "no free slot".

const bbits = 6             // log2 of occupancy word width
const wordsz = 1 << bbits   // bits per occupancy word
const wordmask = wordsz - 1 // index mask, also the reserved bit

const sbbits = 15            // small block, 32KB
const lbbits = sbbits + bbits // large block, 2MB
const hbbits = lbbits + bbits // huge block, 128MB

const cellbits = 4  // small cell, 16 bytes
const pagebits = 12 // large cell, one page

const pagesize = 1 << pagebits

// Smallsize largest request served from small-block cells.
const Smallsize = int64(2048)

// Maxallocsize largest request served by the block hierarchy, beyond
// this requests are mapped straight from the OS.
const Maxallocsize = int64(1 << 17)

// number of shards in the global arena.
const nshards = 32

// small-alloc header geometry: 64-byte header, then the occupancy
// bitmap, then the foreign-free bitmap, then 16-byte cells up to the
// end of the small block.
const sasize = 64
const sabits = 1 << (sbbits - cellbits)
const samaxbit = sabits - ((sasize + (sabits >> 2)) >> cellbits)

// large-alloc header geometry: header and both bitmaps fit in the
// first page, page cells follow.
const lasize = 64
const labits = 1 << (lbbits - pagebits)
const lamaxbit = labits - 1
