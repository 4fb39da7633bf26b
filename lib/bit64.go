package lib

import "math/bits"

// Bit64 alias for uint64, provides bit twiddling methods on 64-bit number.
type Bit64 uint64

// Ones return number of set bits.
func (b Bit64) Ones() int8 {
	return int8(bits.OnesCount64(uint64(b)))
}

// Zeros return number of clear bits.
func (b Bit64) Zeros() int8 {
	return 64 - b.Ones()
}

// Setbit set bit `i` and return the new number.
func (b Bit64) Setbit(i uint8) Bit64 {
	return b | (1 << i)
}

// Clearbit clear bit `i` and return the new number.
func (b Bit64) Clearbit(i uint8) Bit64 {
	return b &^ (1 << i)
}

// Findfirstset return the position of the least significant set bit,
// -1 if no bit is set.
func (b Bit64) Findfirstset() int8 {
	if b == 0 {
		return -1
	}
	return int8(bits.TrailingZeros64(uint64(b)))
}

// Findlastset return the position of the most significant set bit,
// -1 if no bit is set.
func (b Bit64) Findlastset() int8 {
	if b == 0 {
		return -1
	}
	return int8(63 - bits.LeadingZeros64(uint64(b)))
}
