package softfloat

import (
	"golang.org/x/exp/constraints"
	"lukechampine.com/uint128"
)

var (
	quadToDouble   = MustNarrower(Binary128, Binary64)
	quadToSingle   = MustNarrower(Binary128, Binary32)
	quadToHalf     = MustNarrower(Binary128, Binary16)
	quadToExtended = MustNarrower(Binary128, Extended80)

	extendedToDouble = MustNarrower(Extended80, Binary64)
	extendedToSingle = MustNarrower(Extended80, Binary32)

	doubleToSingle = MustNarrower(Binary64, Binary32)
	doubleToHalf   = MustNarrower(Binary64, Binary16)
	doubleToBrain  = MustNarrower(Binary64, BFloat16)

	singleToHalf  = MustNarrower(Binary32, Binary16)
	singleToBrain = MustNarrower(Binary32, BFloat16)
)

func narrowTo[T constraints.Unsigned](n *Narrower, x uint128.Uint128) T {
	return T(n.Narrow(x).Lo)
}

func extended(se uint16, m uint64) uint128.Uint128 {
	return uint128.New(m, uint64(se))
}

// Float128ToFloat64 converts binary128 bits, given as high and low halves, to binary64 bits.
func Float128ToFloat64(hi, lo uint64) uint64 {
	return narrowTo[uint64](quadToDouble, uint128.New(lo, hi))
}

// Float128ToFloat32 converts binary128 bits to binary32 bits.
func Float128ToFloat32(hi, lo uint64) uint32 {
	return narrowTo[uint32](quadToSingle, uint128.New(lo, hi))
}

// Float128ToFloat16 converts binary128 bits to binary16 bits.
func Float128ToFloat16(hi, lo uint64) uint16 {
	return narrowTo[uint16](quadToHalf, uint128.New(lo, hi))
}

// Float128ToFloat80 converts binary128 bits to x87 extended bits,
// returned as sign-exponent and significand words.
func Float128ToFloat80(hi, lo uint64) (se uint16, m uint64) {
	r := quadToExtended.Narrow(uint128.New(lo, hi))
	return uint16(r.Hi), r.Lo
}

// Float80ToFloat64 converts x87 extended bits to binary64 bits.
func Float80ToFloat64(se uint16, m uint64) uint64 {
	return narrowTo[uint64](extendedToDouble, extended(se, m))
}

// Float80ToFloat32 converts x87 extended bits to binary32 bits.
func Float80ToFloat32(se uint16, m uint64) uint32 {
	return narrowTo[uint32](extendedToSingle, extended(se, m))
}

// Float64ToFloat32 converts binary64 bits to binary32 bits.
func Float64ToFloat32(b uint64) uint32 {
	return narrowTo[uint32](doubleToSingle, uint128.From64(b))
}

// Float64ToFloat16 converts binary64 bits to binary16 bits.
func Float64ToFloat16(b uint64) uint16 {
	return narrowTo[uint16](doubleToHalf, uint128.From64(b))
}

// Float64ToBFloat16 converts binary64 bits to bfloat16 bits.
func Float64ToBFloat16(b uint64) uint16 {
	return narrowTo[uint16](doubleToBrain, uint128.From64(b))
}

// Float32ToFloat16 converts binary32 bits to binary16 bits.
func Float32ToFloat16(b uint32) uint16 {
	return narrowTo[uint16](singleToHalf, uint128.From64(uint64(b)))
}

// Float32ToBFloat16 converts binary32 bits to bfloat16 bits.
func Float32ToBFloat16(b uint32) uint16 {
	return narrowTo[uint16](singleToBrain, uint128.From64(uint64(b)))
}
