package bitutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"lukechampine.com/uint128"
)

func TestMask(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		n        uint
		expected uint128.Uint128
	}{
		{0, uint128.Zero},
		{1, uint128.From64(1)},
		{52, uint128.From64(1<<52 - 1)},
		{64, uint128.From64(math.MaxUint64)},
		{65, uint128.New(math.MaxUint64, 1)},
		{112, uint128.New(math.MaxUint64, 1<<48-1)},
		{128, uint128.Max},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			a.Equal(test.expected, Mask(test.n))
		})
	}
}

func TestBinaryDigits(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		x        uint128.Uint128
		expected int
	}{
		{uint128.Zero, 0},
		{uint128.From64(1), 1},
		{uint128.From64(math.MaxUint64), 64},
		{uint128.New(0, 1), 65},
		{uint128.New(0, 1<<48), 113},
		{uint128.Max, 128},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			a.Equal(test.expected, BinaryDigits(test.x))
		})
	}
}

func TestSplit(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		x             uint128.Uint128
		shift         uint
		kept          uint128.Uint128
		round, sticky bool
	}{
		{uint128.From64(0b1011), 1, uint128.From64(0b101), true, false},
		{uint128.From64(0b1011), 2, uint128.From64(0b10), true, true},
		{uint128.From64(0b1000), 3, uint128.From64(0b1), false, false},
		{uint128.From64(0b1100), 3, uint128.From64(0b1), true, false},
		{uint128.New(1<<59, 1), 60, uint128.From64(1 << 4), true, false},
		{uint128.New(1<<59|1, 1), 60, uint128.From64(1 << 4), true, true},
		{uint128.New(0, 1<<63), 128, uint128.Zero, true, false},
		{uint128.Max, 128, uint128.Zero, true, true},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			kept, round, sticky := Split(test.x, test.shift)
			a.Equal(test.kept, kept)
			a.Equal(test.round, round)
			a.Equal(test.sticky, sticky)
		})
	}
}

func TestField(t *testing.T) {
	a := assert.New(t)
	x := uint128.New(0, 0x3FFF<<48)
	a.Equal(uint128.From64(0x3FFF), Field(x, 112, 15))
	a.True(Bit(x, 112))
	a.False(Bit(x, 126))
	a.Equal(uint128.From64(0xF), Truncate(uint128.From64(0xFF), 4))
}
