package dsp

import (
	"math/rand"
	"testing"
)

func TestSubtractGreen_AddGreen_Inverse(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	pixels := make([]uint32, 1000)
	for i := range pixels {
		pixels[i] = rng.Uint32()
	}
	orig := append([]uint32(nil), pixels...)

	SubtractGreen(pixels, len(pixels))
	AddGreenToBlueAndRed(pixels, len(pixels))

	for i := range pixels {
		if pixels[i] != orig[i] {
			t.Fatalf("pixel %d: got %08x, want %08x", i, pixels[i], orig[i])
		}
	}
}

func TestSubtractGreen_Known(t *testing.T) {
	// A=0x80 R=0x50 G=0x20 B=0x10: red and blue each lose 0x20 mod 256.
	pixels := []uint32{0x80502010}
	SubtractGreen(pixels, 1)
	if pixels[0] != 0x803020F0 {
		t.Errorf("SubtractGreen = %08x, want 803020f0", pixels[0])
	}

	// Wraparound: G > R and G > B.
	pixels[0] = 0xFF10FF10
	SubtractGreen(pixels, 1)
	if pixels[0] != 0xFF11FF11 {
		t.Errorf("SubtractGreen wrap = %08x, want ff11ff11", pixels[0])
	}
}

func TestSubtractGreen_LeavesAlphaGreen(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	pixels := make([]uint32, 256)
	for i := range pixels {
		pixels[i] = rng.Uint32()
	}
	orig := append([]uint32(nil), pixels...)

	SubtractGreen(pixels, len(pixels))
	for i := range pixels {
		if pixels[i]&0xff00ff00 != orig[i]&0xff00ff00 {
			t.Fatalf("pixel %d: alpha/green changed: %08x -> %08x", i, orig[i], pixels[i])
		}
	}
}

func TestTransformColor_Inverse(t *testing.T) {
	rng := rand.New(rand.NewSource(34))

	for trial := 0; trial < 200; trial++ {
		m := Multipliers{
			GreenToRed:  uint8(rng.Intn(256)),
			GreenToBlue: uint8(rng.Intn(256)),
			RedToBlue:   uint8(rng.Intn(256)),
		}
		pixels := make([]uint32, 64)
		for i := range pixels {
			pixels[i] = rng.Uint32()
		}
		orig := append([]uint32(nil), pixels...)

		TransformColor(&m, pixels, len(pixels), pixels)
		out := make([]uint32, len(pixels))
		TransformColorInverse(&m, pixels, len(pixels), out)

		for i := range out {
			if out[i] != orig[i] {
				t.Fatalf("trial %d pixel %d (m=%+v): got %08x, want %08x",
					trial, i, m, out[i], orig[i])
			}
		}
	}
}

func TestTransformColor_ExtremeMultipliers(t *testing.T) {
	// The most negative and most positive int8 coefficients.
	for _, m := range []Multipliers{
		{0x80, 0x80, 0x80},
		{0x7F, 0x7F, 0x7F},
		{0, 0, 0},
		{0xFF, 0x01, 0x80},
	} {
		pixels := []uint32{0x00000000, 0xFFFFFFFF, 0x80808080, 0x12345678, 0xFEDCBA98}
		orig := append([]uint32(nil), pixels...)

		TransformColor(&m, pixels, len(pixels), pixels)
		TransformColorInverse(&m, pixels, len(pixels), pixels)

		for i := range pixels {
			if pixels[i] != orig[i] {
				t.Fatalf("m=%+v pixel %d: got %08x, want %08x", m, i, pixels[i], orig[i])
			}
		}
	}
}

func TestTransformColor_LeavesAlphaGreen(t *testing.T) {
	m := Multipliers{GreenToRed: 0xC3, GreenToBlue: 0x35, RedToBlue: 0x99}
	pixels := []uint32{0xDEADBEEF, 0x01020304}
	orig := append([]uint32(nil), pixels...)

	TransformColor(&m, pixels, len(pixels), pixels)
	for i := range pixels {
		if pixels[i]&0xff00ff00 != orig[i]&0xff00ff00 {
			t.Errorf("pixel %d: alpha/green changed: %08x -> %08x", i, orig[i], pixels[i])
		}
	}
}

func TestColorDelta_SignExtension(t *testing.T) {
	// (coef * value) >> 5 with both operands sign-extended from 8 bits.
	cases := []struct {
		coef  int8
		value int32
		want  int32
	}{
		{0, 0xFF, 0},
		{32, 32, 32},       // (32*32)>>5
		{-32, 32, -32},     // arithmetic shift keeps the sign
		{127, 0x80, -508},  // value sign-extends to -128: (127*-128)>>5
		{-128, 0x80, 512},  // (-128*-128)>>5
		{1, 0x1F, 0},       // small product truncates toward -inf
		{-1, 1, -1},        // (-1*1)>>5 = -1 with arithmetic shift
	}
	for _, c := range cases {
		if got := colorDelta(c.coef, c.value); got != c.want {
			t.Errorf("colorDelta(%d, %#x) = %d, want %d", c.coef, c.value, got, c.want)
		}
	}
}
