package dsp

// Multipliers holds the three cross-color transform coefficients. They
// are stored as the raw bitstream bytes and interpreted as signed 8-bit
// values by the delta computation. One tuple is fixed per transform
// tile; the decoder must apply the inverse with the same tuple.
type Multipliers struct {
	GreenToRed  uint8
	GreenToBlue uint8
	RedToBlue   uint8
}

// SubtractGreen subtracts the green channel from both the red and blue
// channels of each pixel, mod 256. This is the forward decorrelation
// applied before entropy coding; AddGreenToBlueAndRed is its inverse.
func SubtractGreen(argb []uint32, numPixels int) {
	for i := 0; i < numPixels; i++ {
		p := argb[i]
		green := (p >> 8) & 0xff
		r := ((p >> 16) & 0xff) - green
		b := (p & 0xff) - green
		argb[i] = (p & 0xff00ff00) | ((r & 0xff) << 16) | (b & 0xff)
	}
}

// AddGreenToBlueAndRed adds the green channel back onto red and blue,
// exactly inverting SubtractGreen. Both lanes are updated in one
// masked 32-bit addition.
func AddGreenToBlueAndRed(argb []uint32, numPixels int) {
	for i := 0; i < numPixels; i++ {
		p := argb[i]
		green := (p >> 8) & 0xff
		redBlue := (p & 0x00ff00ff) + green*0x00010001
		redBlue &= 0x00ff00ff
		argb[i] = (p & 0xff00ff00) | redBlue
	}
}

// TransformColor applies the forward cross-color transform to a row of
// pixels: red loses a green-derived delta, blue loses green- and
// red-derived deltas, where the red delta uses the original red value.
// Alpha and green pass through. dst may alias src.
func TransformColor(m *Multipliers, src []uint32, numPixels int, dst []uint32) {
	for i := 0; i < numPixels; i++ {
		argb := src[i]
		green := int32((argb >> 8) & 0xff)
		red := int32((argb >> 16) & 0xff)
		blue := int32(argb & 0xff)

		newRed := red - colorDelta(int8(m.GreenToRed), green)
		newRed &= 0xff
		newBlue := blue - colorDelta(int8(m.GreenToBlue), green)
		newBlue -= colorDelta(int8(m.RedToBlue), red)
		newBlue &= 0xff

		dst[i] = (argb & 0xff00ff00) | (uint32(newRed) << 16) | uint32(newBlue)
	}
}

// TransformColorInverse undoes TransformColor. Red is reconstructed
// first so that the red-to-blue delta is computed from the same red
// value the forward transform consumed; reordering the two breaks
// invertibility. dst may alias src.
func TransformColorInverse(m *Multipliers, src []uint32, numPixels int, dst []uint32) {
	for i := 0; i < numPixels; i++ {
		argb := src[i]
		green := int32((argb >> 8) & 0xff)
		red := int32((argb >> 16) & 0xff)
		blue := int32(argb & 0xff)

		red += colorDelta(int8(m.GreenToRed), green)
		red &= 0xff
		blue += colorDelta(int8(m.GreenToBlue), green)
		blue += colorDelta(int8(m.RedToBlue), red)
		blue &= 0xff

		dst[i] = (argb & 0xff00ff00) | (uint32(red) << 16) | uint32(blue)
	}
}

// colorDelta computes (multiplier * value) >> 5 with both operands
// sign-extended from 8 bits and an arithmetic shift.
func colorDelta(multiplier int8, value int32) int32 {
	return (int32(multiplier) * int32(int8(value))) >> 5
}
