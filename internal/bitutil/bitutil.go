// Package bitutil contains helpers for 128-bit words used as raw float storage.
package bitutil

import (
	"math/bits"

	"lukechampine.com/uint128"
)

// Mask returns a word with the n lowest bits set.
// n must not exceed 128.
func Mask(n uint) uint128.Uint128 {
	return uint128.Max.Rsh(128 - n)
}

// Bit returns true if the i-th bit of x is set.
func Bit(x uint128.Uint128, i uint) bool {
	return x.Rsh(i).Lo&1 == 1
}

// BinaryDigits returns the number of bits needed to represent x.
func BinaryDigits(x uint128.Uint128) int {
	if x.Hi != 0 {
		return 128 - bits.LeadingZeros64(x.Hi)
	}
	return bits.Len64(x.Lo)
}

// Field extracts 'width' bits of x starting at bit 'offset'.
func Field(x uint128.Uint128, offset, width uint) uint128.Uint128 {
	return x.Rsh(offset).And(Mask(width))
}

// Split shifts x right by 'shift' bits and returns the remaining bits,
// the highest discarded bit (round) and the OR of all lower discarded bits (sticky).
//	x = kept<<shift | round<<(shift-1) | rest, sticky = rest != 0
// shift must be in (0, 128].
func Split(x uint128.Uint128, shift uint) (kept uint128.Uint128, round, sticky bool) {
	kept = x.Rsh(shift)
	round = Bit(x, shift-1)
	sticky = !x.And(Mask(shift - 1)).IsZero()
	return kept, round, sticky
}

// Truncate keeps the lowest n bits of x.
func Truncate(x uint128.Uint128, n uint) uint128.Uint128 {
	return x.And(Mask(n))
}
