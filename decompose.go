package softfloat

import (
	"lukechampine.com/uint128"

	"github.com/avdva/softfloat/internal/bitutil"
)

// Class is a category of a floating-point value.
type Class int

const (
	// Zero is a positive or a negative zero.
	Zero Class = iota
	// Subnormal is a nonzero value with zero exponent field.
	Subnormal
	// Normal is a finite value with the leading significand bit set.
	Normal
	// Infinity is a positive or a negative infinity.
	Infinity
	// NaN is not-a-number, including invalid x87 encodings.
	NaN
)

var classNames = [...]string{"zero", "subnormal", "normal", "infinity", "nan"}

func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return "unknown"
	}
	return classNames[c]
}

// IsFinite returns true for zeros, subnormals and normals.
func (c Class) IsFinite() bool {
	return c <= Normal
}

// Decomposed holds the fields of an encoded value.
type Decomposed struct {
	Sign bool
	// Exponent is the biased exponent field.
	Exponent uint32
	// Mantissa is the fraction field, without the leading bit.
	Mantissa uint128.Uint128
	// Leading is the explicit leading bit. Always false for implicit formats.
	Leading bool
	Class   Class
}

// Decompose splits x into its fields and classifies it.
// Bits above TotalBits are ignored.
func (f Format) Decompose(x uint128.Uint128) Decomposed {
	d := Decomposed{
		Sign:     bitutil.Bit(x, f.signShift()),
		Exponent: uint32(bitutil.Field(x, f.significandBits(), f.ExponentBits).Lo),
		Mantissa: bitutil.Truncate(x, f.MantissaBits),
	}
	if f.ExplicitLeadingBit {
		d.Leading = bitutil.Bit(x, f.MantissaBits)
	}
	d.Class = f.classify(d)
	return d
}

func (f Format) classify(d Decomposed) Class {
	empty := d.Mantissa.IsZero()
	if !f.ExplicitLeadingBit {
		switch int(d.Exponent) {
		case 0:
			if empty {
				return Zero
			}
			return Subnormal
		case f.infExponent():
			if empty {
				return Infinity
			}
			return NaN
		default:
			return Normal
		}
	}
	// x87: denormals and pseudo-denormals have zero exponent, other values
	// without the integer bit are invalid operands.
	switch int(d.Exponent) {
	case 0:
		if empty && !d.Leading {
			return Zero
		}
		return Subnormal
	case f.infExponent():
		if empty && d.Leading {
			return Infinity
		}
		return NaN
	default:
		if d.Leading {
			return Normal
		}
		return NaN
	}
}

// significand returns the full significand of a finite nonzero value, normalized so that
// its leading bit is at position MantissaBits, and the unbiased exponent of that bit.
func (f Format) significand(d Decomposed) (uint128.Uint128, int) {
	leading := uint128.From64(1).Lsh(f.MantissaBits)
	if d.Class == Normal {
		return d.Mantissa.Or(leading), int(d.Exponent) - f.Bias
	}
	sig, exp := d.Mantissa, 1-f.Bias
	if d.Leading {
		sig = sig.Or(leading)
	}
	lz := int(f.MantissaBits) + 1 - bitutil.BinaryDigits(sig)
	return sig.Lsh(uint(lz)), exp - lz
}
