package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/x448/float16"
	"lukechampine.com/uint128"

	"github.com/avdva/softfloat"
	"github.com/avdva/softfloat/quad"
)

var errSyntax = errors.New("unknown input syntax")

type config struct {
	narrower   *softfloat.Narrower
	parse      func(f softfloat.Format, s string) (uint128.Uint128, error)
	newEncoder func(w io.Writer) encoder
}

// record describes one conversion.
type record struct {
	Input  string `json:"input" cbor:"input"`
	Class  string `json:"class" cbor:"class"`
	Source string `json:"src" cbor:"src"`
	Result string `json:"dst" cbor:"dst"`
	Value  string `json:"value" cbor:"value"`
}

func newConfig(from, to, input, output string) (*config, error) {
	src, found := softfloat.FormatByName(from)
	if !found {
		return nil, fmt.Errorf("unknown source format %q", from)
	}
	dst, found := softfloat.FormatByName(to)
	if !found {
		return nil, fmt.Errorf("unknown destination format %q", to)
	}
	n, err := softfloat.NewNarrower(src, dst)
	if err != nil {
		return nil, err
	}
	cfg := &config{narrower: n}
	switch input {
	case "hex":
		cfg.parse = parseHex
	case "decimal":
		cfg.parse = parseDecimal
	default:
		return nil, fmt.Errorf("%w %q", errSyntax, input)
	}
	if cfg.newEncoder, err = encoderFor(output); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *config) convert(input string) (record, error) {
	src, dst := cfg.narrower.Source(), cfg.narrower.Destination()
	x, err := cfg.parse(src, input)
	if err != nil {
		return record{}, err
	}
	y := cfg.narrower.Narrow(x)
	return record{
		Input:  input,
		Class:  src.Decompose(x).Class.String(),
		Source: hexBits(src, x),
		Result: hexBits(dst, y),
		Value:  formatValue(dst, y),
	}, nil
}

// parseHex parses a bit pattern, like "0x3fff0000000000000000000000000000".
func parseHex(f softfloat.Format, s string) (uint128.Uint128, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	s = strings.ReplaceAll(s, "_", "")
	if len(s) == 0 || len(s) > int(f.TotalBits+3)/4 {
		return uint128.Zero, fmt.Errorf("bad %v bit pattern %q", f, s)
	}
	i, ok := new(big.Int).SetString(s, 16)
	if !ok || i.BitLen() > int(f.TotalBits) {
		return uint128.Zero, fmt.Errorf("bad %v bit pattern %q", f, s)
	}
	return uint128.FromBig(i), nil
}

// parseDecimal rounds a decimal number, "inf" or "nan" into the format.
func parseDecimal(f softfloat.Format, s string) (uint128.Uint128, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	switch strings.ToLower(strings.TrimLeft(s, "+-")) {
	case "inf", "infinity":
		return f.Infinity(neg), nil
	case "nan":
		return f.NaN(), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return uint128.Zero, fmt.Errorf("parsing failed: %w", err)
	}
	return softfloat.Encode(f, neg, d.Rat()), nil
}

func hexBits(f softfloat.Format, x uint128.Uint128) string {
	s := fmt.Sprintf("%016x%016x", x.Hi, x.Lo)
	return s[len(s)-int(f.TotalBits+3)/4:]
}

// formatValue returns the shortest decimal representation of an encoded value.
func formatValue(f softfloat.Format, x uint128.Uint128) string {
	switch f {
	case softfloat.Binary64:
		return strconv.FormatFloat(math.Float64frombits(x.Lo), 'g', -1, 64)
	case softfloat.Binary32:
		return strconv.FormatFloat(float64(math.Float32frombits(uint32(x.Lo))), 'g', -1, 32)
	case softfloat.Binary16:
		return strconv.FormatFloat(float64(float16.Frombits(uint16(x.Lo)).Float32()), 'g', -1, 32)
	case softfloat.BFloat16:
		return strconv.FormatFloat(float64(math.Float32frombits(uint32(x.Lo)<<16)), 'g', -1, 32)
	case softfloat.Binary128:
		return quad.FromBits(x.Hi, x.Lo).String()
	}
	d, r := softfloat.Decode(f, x)
	switch {
	case d.Class == softfloat.NaN:
		return "NaN"
	case d.Class == softfloat.Infinity && d.Sign:
		return "-Inf"
	case d.Class == softfloat.Infinity:
		return "+Inf"
	case d.Class == softfloat.Zero && d.Sign:
		return "-0"
	}
	v := new(big.Float).SetPrec(f.MantissaBits + 1).SetRat(r)
	if d.Sign {
		v.Neg(v)
	}
	return v.Text('g', -1)
}
