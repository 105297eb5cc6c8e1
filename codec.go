package softfloat

import (
	"math/big"

	"lukechampine.com/uint128"
)

var bigOne = big.NewInt(1)

// Decode decomposes x and returns the exact magnitude of a finite value.
// For infinities and NaNs the returned value is nil.
func Decode(f Format, x uint128.Uint128) (Decomposed, *big.Rat) {
	d := f.Decompose(x)
	switch d.Class {
	case Zero:
		return d, new(big.Rat)
	case Infinity, NaN:
		return d, nil
	}
	sig, exp := f.significand(d)
	num := sig.Big()
	den := big.NewInt(1)
	// value = sig * 2^(exp - MantissaBits)
	if pow := exp - int(f.MantissaBits); pow >= 0 {
		num.Lsh(num, uint(pow))
	} else {
		den.Lsh(den, uint(-pow))
	}
	return d, new(big.Rat).SetFrac(num, den)
}

// Encode returns the encoding of |r| with the given sign, rounded to nearest, ties to even.
// Magnitudes beyond the largest finite value become infinities.
func Encode(f Format, neg bool, r *big.Rat) uint128.Uint128 {
	if r.Sign() == 0 {
		return f.Zero(neg)
	}
	num := new(big.Int).Abs(r.Num())
	den := new(big.Int).Set(r.Denom())

	// find e such that 2^e <= |r| < 2^(e+1).
	e := num.BitLen() - den.BitLen()
	if cmpScaled(num, den, e) < 0 {
		e--
	}
	if minExp := 1 - f.Bias; e < minExp {
		e = minExp
	}
	if e+f.Bias >= f.infExponent() {
		return f.Infinity(neg)
	}

	// q = round(|r| * 2^(MantissaBits - e))
	if shift := int(f.MantissaBits) - e; shift >= 0 {
		num.Lsh(num, uint(shift))
	} else {
		den.Lsh(den, uint(-shift))
	}
	q, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	switch rem.Lsh(rem, 1).Cmp(den) {
	case 1:
		q.Add(q, bigOne)
	case 0:
		if q.Bit(0) == 1 {
			q.Add(q, bigOne)
		}
	}
	if q.BitLen() > int(f.MantissaBits)+1 {
		q.Rsh(q, 1)
		e++
	}
	exp := 0
	if q.BitLen() == int(f.MantissaBits)+1 {
		exp = e + f.Bias
	}
	if exp >= f.infExponent() {
		return f.Infinity(neg)
	}
	return f.pack(neg, exp, uint128.FromBig(q))
}

// cmpScaled compares a with b*2^e.
func cmpScaled(a, b *big.Int, e int) int {
	if e >= 0 {
		return a.Cmp(new(big.Int).Lsh(b, uint(e)))
	}
	return new(big.Int).Lsh(a, uint(-e)).Cmp(b)
}
