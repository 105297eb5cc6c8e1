// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package softfloat implements narrowing conversions between binary floating-point
// formats using integer operations only.
// It can be used where a compiler needs a runtime routine instead of a native
// conversion instruction, e.g. for quad (binary128) to double (binary64).
//
// Every conversion is performed by a generic algorithm parametrized by two Format
// values: the source value is decomposed, its significand is rounded to the
// destination precision (round half to even), and the result is packed into the
// destination layout.
//   127 126          112 111                                                          0
//   _|_|_______________|___________________________________________________________|
//   s eeeeeeeeeeeeeee  mmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmm   binary128
package softfloat

import (
	"errors"
	"fmt"
	"strings"

	"lukechampine.com/uint128"

	"github.com/avdva/softfloat/internal/bitutil"
)

var (
	// ErrInvalidFormat is returned for inconsistent format descriptors.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrNotNarrowing is returned if the destination format is not narrower than the source.
	ErrNotNarrowing = errors.New("not a narrowing conversion")
)

// Format describes the layout of a binary floating-point value.
// The sign is always the highest bit, followed by the exponent field,
// the optional explicit leading significand bit, and the fraction.
type Format struct {
	Name string
	// TotalBits is the width of the encoding.
	TotalBits uint
	// MantissaBits is the number of stored fraction bits, the leading bit excluded.
	MantissaBits uint
	ExponentBits uint
	Bias         int
	// ExplicitLeadingBit is set for formats that store the integer bit of
	// the significand, like x87 double extended.
	ExplicitLeadingBit bool
}

var (
	// Binary128 is IEEE-754 quadruple precision.
	Binary128 = Format{Name: "binary128", TotalBits: 128, MantissaBits: 112, ExponentBits: 15, Bias: 16383}
	// Extended80 is x87 double extended precision.
	Extended80 = Format{Name: "extended80", TotalBits: 80, MantissaBits: 63, ExponentBits: 15, Bias: 16383, ExplicitLeadingBit: true}
	// Binary64 is IEEE-754 double precision.
	Binary64 = Format{Name: "binary64", TotalBits: 64, MantissaBits: 52, ExponentBits: 11, Bias: 1023}
	// Binary32 is IEEE-754 single precision.
	Binary32 = Format{Name: "binary32", TotalBits: 32, MantissaBits: 23, ExponentBits: 8, Bias: 127}
	// Binary16 is IEEE-754 half precision.
	Binary16 = Format{Name: "binary16", TotalBits: 16, MantissaBits: 10, ExponentBits: 5, Bias: 15}
	// BFloat16 is the brain floating-point format.
	BFloat16 = Format{Name: "bfloat16", TotalBits: 16, MantissaBits: 7, ExponentBits: 8, Bias: 127}

	formats = []Format{Binary128, Extended80, Binary64, Binary32, Binary16, BFloat16}

	aliases = map[string]string{
		"quad":     "binary128",
		"float128": "binary128",
		"f128":     "binary128",
		"extended": "extended80",
		"float80":  "extended80",
		"f80":      "extended80",
		"double":   "binary64",
		"float64":  "binary64",
		"f64":      "binary64",
		"single":   "binary32",
		"float32":  "binary32",
		"f32":      "binary32",
		"half":     "binary16",
		"float16":  "binary16",
		"f16":      "binary16",
		"bf16":     "bfloat16",
	}
)

// Formats returns all predefined formats, from the widest to the narrowest.
func Formats() []Format {
	return append([]Format(nil), formats...)
}

// FormatByName returns a predefined format by its name or a common alias.
func FormatByName(name string) (Format, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, found := aliases[name]; found {
		name = alias
	}
	for _, f := range formats {
		if f.Name == name {
			return f, true
		}
	}
	return Format{}, false
}

// String returns the format's name.
func (f Format) String() string {
	if f.Name == "" {
		return fmt.Sprintf("format(%d,%d,%d)", f.TotalBits, f.ExponentBits, f.MantissaBits)
	}
	return f.Name
}

// Validate checks the consistency of the descriptor.
func (f Format) Validate() error {
	leading := uint(0)
	if f.ExplicitLeadingBit {
		leading = 1
	}
	switch {
	case f.ExponentBits < 1 || f.ExponentBits > 30:
		return fmt.Errorf("%w %v: exponent width %d", ErrInvalidFormat, f, f.ExponentBits)
	case f.MantissaBits < 1:
		return fmt.Errorf("%w %v: empty mantissa", ErrInvalidFormat, f)
	case f.TotalBits > 128:
		return fmt.Errorf("%w %v: %d bits exceed 128", ErrInvalidFormat, f, f.TotalBits)
	case f.TotalBits != 1+f.ExponentBits+leading+f.MantissaBits:
		return fmt.Errorf("%w %v: field widths do not sum up to %d", ErrInvalidFormat, f, f.TotalBits)
	case f.Bias <= 0 || f.Bias >= f.infExponent():
		return fmt.Errorf("%w %v: bias %d", ErrInvalidFormat, f, f.Bias)
	}
	return nil
}

// infExponent is the all-ones exponent code of infinities and NaNs.
func (f Format) infExponent() int {
	return 1<<f.ExponentBits - 1
}

// significandBits is the number of bits below the exponent field.
func (f Format) significandBits() uint {
	if f.ExplicitLeadingBit {
		return f.MantissaBits + 1
	}
	return f.MantissaBits
}

func (f Format) signShift() uint {
	return f.TotalBits - 1
}

// quietBit is the highest fraction bit.
func (f Format) quietBit() uint128.Uint128 {
	return uint128.From64(1).Lsh(f.MantissaBits - 1)
}

// payloadMask covers the fraction bits below the quiet bit.
func (f Format) payloadMask() uint128.Uint128 {
	return bitutil.Mask(f.MantissaBits - 1)
}

// pack assembles an encoding. The significand must fit into significandBits().
// For implicit formats the leading bit is stripped.
func (f Format) pack(neg bool, exp int, significand uint128.Uint128) uint128.Uint128 {
	if !f.ExplicitLeadingBit {
		significand = bitutil.Truncate(significand, f.MantissaBits)
	}
	return f.withSign(uint128.From64(uint64(exp)).Lsh(f.significandBits()).Or(significand), neg)
}

func (f Format) withSign(abs uint128.Uint128, neg bool) uint128.Uint128 {
	if !neg {
		return abs
	}
	return abs.Or(uint128.From64(1).Lsh(f.signShift()))
}

func (f Format) leadingBit() uint128.Uint128 {
	if !f.ExplicitLeadingBit {
		return uint128.Zero
	}
	return uint128.From64(1).Lsh(f.MantissaBits)
}

// Zero returns a signed zero.
func (f Format) Zero(neg bool) uint128.Uint128 {
	return f.withSign(uint128.Zero, neg)
}

// Infinity returns a signed infinity.
func (f Format) Infinity(neg bool) uint128.Uint128 {
	return f.pack(neg, f.infExponent(), f.leadingBit())
}

// NaN returns the default quiet NaN.
func (f Format) NaN() uint128.Uint128 {
	return f.pack(false, f.infExponent(), f.leadingBit().Or(f.quietBit()))
}

// MaxFinite returns the largest finite value.
func (f Format) MaxFinite(neg bool) uint128.Uint128 {
	return f.pack(neg, f.infExponent()-1, bitutil.Mask(f.significandBits()))
}

// SmallestSubnormal returns the smallest positive subnormal value.
func (f Format) SmallestSubnormal(neg bool) uint128.Uint128 {
	return f.pack(neg, 0, uint128.From64(1))
}
