// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package quad implements a binary128 (quadruple precision) value,
// which can be constructed exactly from decimals and narrowed to the
// hardware formats using integer operations only.
package quad

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"math/bits"
	"strings"

	"github.com/robaho/fixed"
	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"

	"github.com/avdva/softfloat"
)

const (
	signMask = 1 << 63
	expShift = 48 // the exponent's position in the high word.
	expMask  = 1<<15 - 1
	bias     = 16383

	f64ExpMask  = 1<<11 - 1
	f64FracBits = 52
	f64Bias     = 1023
)

// Quad is an IEEE-754 binary128 value.
//   127 126          112 111                       64 63                          0
//   _|_|_______________|___________________________|____________________________|
//   s  eeeeeeeeeeeeeee  mmmmmmmmmmmmmmmmmmmmmmmmmmmm mmmmmmmmmmmmmmmmmmmmmmmmmmmm
//      hi                                             lo
type Quad struct {
	hi, lo uint64
}

// FromBits returns a value for the given high and low words.
func FromBits(hi, lo uint64) Quad {
	return Quad{hi: hi, lo: lo}
}

func fromWord(w uint128.Uint128) Quad {
	return Quad{hi: w.Hi, lo: w.Lo}
}

func (q Quad) word() uint128.Uint128 {
	return uint128.New(q.lo, q.hi)
}

// Inf returns positive infinity if sign >= 0, negative infinity if sign < 0.
func Inf(sign int) Quad {
	return fromWord(softfloat.Binary128.Infinity(sign < 0))
}

// NaN returns a quiet not-a-number value.
func NaN() Quad {
	return fromWord(softfloat.Binary128.NaN())
}

// FromFloat64 returns the exact binary128 value of f.
// NaN payloads are preserved.
func FromFloat64(f float64) Quad {
	b := math.Float64bits(f)
	sign := b & signMask
	exp := int(b >> f64FracBits & f64ExpMask)
	frac := b & (1<<f64FracBits - 1)
	switch exp {
	case f64ExpMask:
		exp = expMask
	case 0:
		if frac == 0 {
			return Quad{hi: sign}
		}
		// normalize the subnormal, so that its leading bit becomes implicit.
		lz := f64FracBits + 1 - bits.Len64(frac)
		frac = frac << uint(lz) & (1<<f64FracBits - 1)
		exp = 1 - lz + bias - f64Bias
	default:
		exp += bias - f64Bias
	}
	// 112 - 52 = 60 bits of the fraction go to the low word.
	return Quad{
		hi: sign | uint64(exp)<<expShift | frac>>4,
		lo: frac << 60,
	}
}

// FromRat returns r rounded to the nearest binary128 value, ties to even.
func FromRat(r *big.Rat) Quad {
	return fromWord(softfloat.Encode(softfloat.Binary128, r.Sign() < 0, r))
}

// FromDecimal returns d rounded to the nearest binary128 value.
func FromDecimal(d decimal.Decimal) Quad {
	return FromRat(d.Rat())
}

// FromFixed returns f rounded to the nearest binary128 value.
// A NaN fixed value becomes a NaN.
func FromFixed(f fixed.Fixed) (Quad, error) {
	if f.IsNaN() {
		return NaN(), nil
	}
	d, err := decimal.NewFromString(f.String())
	if err != nil {
		return Quad{}, fmt.Errorf("bad fixed value %q: %w", f.String(), err)
	}
	return FromDecimal(d), nil
}

// FromString parses a decimal number, like "-1.25e-4000", or one of "inf", "-inf", "nan".
func FromString(s string) (Quad, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return Quad{}, fmt.Errorf("empty input")
	}
	neg := s[0] == '-'
	switch strings.ToLower(strings.TrimLeft(s, "+-")) {
	case "inf", "infinity":
		if neg {
			return Inf(-1), nil
		}
		return Inf(1), nil
	case "nan":
		return NaN(), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Quad{}, fmt.Errorf("parsing failed: %w", err)
	}
	q := FromDecimal(d)
	if neg && q.IsZero() && !q.Signbit() {
		q = q.Neg()
	}
	return q, nil
}

// MustFromString is like FromString, but panics on error.
func MustFromString(s string) Quad {
	q, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return q
}

// Bits returns the high and low words of the encoding.
func (q Quad) Bits() (hi, lo uint64) {
	return q.hi, q.lo
}

// Class returns the category of the value.
func (q Quad) Class() softfloat.Class {
	return softfloat.Binary128.Decompose(q.word()).Class
}

// Signbit reports whether the value is negative or negative zero.
func (q Quad) Signbit() bool {
	return q.hi&signMask != 0
}

// IsNaN reports whether the value is not-a-number.
func (q Quad) IsNaN() bool {
	return q.Class() == softfloat.NaN
}

// IsInf reports whether the value is an infinity, according to sign.
// If sign > 0, IsInf reports whether q is positive infinity.
// If sign < 0, IsInf reports whether q is negative infinity.
// If sign == 0, IsInf reports whether q is either infinity.
func (q Quad) IsInf(sign int) bool {
	if q.Class() != softfloat.Infinity {
		return false
	}
	return sign == 0 || sign > 0 && !q.Signbit() || sign < 0 && q.Signbit()
}

// IsZero reports whether the value is a positive or a negative zero.
func (q Quad) IsZero() bool {
	return q.Class() == softfloat.Zero
}

// Neg returns the value with the opposite sign.
func (q Quad) Neg() Quad {
	return Quad{hi: q.hi ^ signMask, lo: q.lo}
}

// Float64 returns the nearest float64 value.
func (q Quad) Float64() float64 {
	return math.Float64frombits(softfloat.Float128ToFloat64(q.hi, q.lo))
}

// Float32 returns the nearest float32 value.
func (q Quad) Float32() float32 {
	return math.Float32frombits(softfloat.Float128ToFloat32(q.hi, q.lo))
}

// Float16 returns the bits of the nearest binary16 value.
func (q Quad) Float16() uint16 {
	return softfloat.Float128ToFloat16(q.hi, q.lo)
}

// Float80 returns the nearest x87 extended value as sign-exponent and significand words.
func (q Quad) Float80() (se uint16, m uint64) {
	return softfloat.Float128ToFloat80(q.hi, q.lo)
}

// Rat returns the exact value. Returns nil for infinities and NaNs.
func (q Quad) Rat() *big.Rat {
	d, r := softfloat.Decode(softfloat.Binary128, q.word())
	if r != nil && d.Sign {
		r.Neg(r)
	}
	return r
}

// String returns the shortest decimal representation, which identifies the value.
func (q Quad) String() string {
	switch q.Class() {
	case softfloat.NaN:
		return "NaN"
	case softfloat.Infinity:
		if q.Signbit() {
			return "-Inf"
		}
		return "+Inf"
	case softfloat.Zero:
		if q.Signbit() {
			return "-0"
		}
		return "0"
	}
	f := new(big.Float).SetPrec(softfloat.Binary128.MantissaBits + 1).SetRat(q.Rat())
	return f.Text('g', -1)
}

// GoString returns debug string representation.
func (q Quad) GoString() string {
	return q.String() + fmt.Sprintf(" {%#016x, %#016x}", q.hi, q.lo)
}

// MarshalJSON marshals the value as a json string.
func (q Quad) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.String())
}

// UnmarshalJSON unmarshals a json string or a number.
func (q *Quad) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty json")
	}
	s := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	value, err := FromString(s)
	if err != nil {
		return err
	}
	*q = value
	return nil
}
