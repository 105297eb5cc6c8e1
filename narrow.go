// Copyright 2020 Aleksandr Demakin. All rights reserved.

package softfloat

import (
	"fmt"

	"lukechampine.com/uint128"

	"github.com/avdva/softfloat/internal/bitutil"
)

// Narrower converts values of a source format into a narrower destination format.
// It is immutable and can be used concurrently.
type Narrower struct {
	src, dst Format
	// shift is the difference of mantissa widths.
	shift uint
}

// rounded is the result of rounding a finite value to the destination precision.
type rounded struct {
	// exponent is the biased destination exponent, 0 for subnormal results.
	exponent int
	// mantissa is the truncated significand including the leading bit.
	mantissa uint128.Uint128
	roundUp  bool
	overflow bool
	flush    bool
}

// NewNarrower returns a Narrower for the given pair of formats.
// The destination must have fewer mantissa bits and no more exponent bits than the source.
func NewNarrower(src, dst Format) (*Narrower, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if err := dst.Validate(); err != nil {
		return nil, err
	}
	if src.MantissaBits <= dst.MantissaBits || src.ExponentBits < dst.ExponentBits {
		return nil, fmt.Errorf("%w: %v -> %v", ErrNotNarrowing, src, dst)
	}
	return &Narrower{src: src, dst: dst, shift: src.MantissaBits - dst.MantissaBits}, nil
}

// MustNarrower is like NewNarrower, but panics on error.
func MustNarrower(src, dst Format) *Narrower {
	n, err := NewNarrower(src, dst)
	if err != nil {
		panic(err)
	}
	return n
}

// Source returns the source format.
func (n *Narrower) Source() Format {
	return n.src
}

// Destination returns the destination format.
func (n *Narrower) Destination() Format {
	return n.dst
}

// Narrow converts x, an encoding in the source format, into the destination format.
// The result is rounded to nearest, ties to even. Values out of range become infinities
// or signed zeros, NaNs stay NaNs with the quiet bit set and the payload truncated.
func (n *Narrower) Narrow(x uint128.Uint128) uint128.Uint128 {
	d := n.src.Decompose(x)
	switch d.Class {
	case Zero:
		return n.dst.Zero(d.Sign)
	case Infinity:
		return n.dst.Infinity(d.Sign)
	case NaN:
		return n.packNaN(d)
	default:
		return n.packFinite(d.Sign, n.round(d))
	}
}

func (n *Narrower) round(d Decomposed) rounded {
	sig, exp := n.src.significand(d)
	e := exp + n.dst.Bias
	if e >= n.dst.infExponent() {
		return rounded{overflow: true}
	}
	shift := n.shift
	if e <= 0 {
		extra := uint(1 - e)
		if extra > n.dst.MantissaBits+1 { // nothing reaches the round bit.
			return rounded{flush: true}
		}
		shift += extra
		e = 0
	}
	kept, round, sticky := bitutil.Split(sig, shift)
	return rounded{
		exponent: e,
		mantissa: kept,
		roundUp:  round && (sticky || kept.Lo&1 == 1),
	}
}

func (n *Narrower) packFinite(neg bool, r rounded) uint128.Uint128 {
	switch {
	case r.overflow:
		return n.dst.Infinity(neg)
	case r.flush:
		return n.dst.Zero(neg)
	}
	mant, exp := r.mantissa, r.exponent
	if r.roundUp {
		mant = mant.Add64(1)
	}
	switch {
	case exp == 0:
		// a subnormal rounded up to the smallest normal.
		if bitutil.Bit(mant, n.dst.MantissaBits) {
			exp = 1
		}
	case bitutil.Bit(mant, n.dst.MantissaBits+1):
		// carry out of the significand.
		mant = mant.Rsh(1)
		exp++
		if exp >= n.dst.infExponent() {
			return n.dst.Infinity(neg)
		}
	}
	return n.dst.pack(neg, exp, mant)
}

func (n *Narrower) packNaN(d Decomposed) uint128.Uint128 {
	payload := d.Mantissa.And(n.src.payloadMask()).Rsh(n.shift).And(n.dst.payloadMask())
	return n.dst.pack(d.Sign, n.dst.infExponent(), n.dst.leadingBit().Or(n.dst.quietBit()).Or(payload))
}
