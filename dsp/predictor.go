// Package dsp contains the pixel-domain engines of the codec core: the
// spatial predictor bank and the inter-channel color decorrelation
// transforms used by the lossless pipeline.
//
// Pixels are packed ARGB uint32 values in native bit order:
// bits [31:24] = A, [23:16] = R, [15:8] = G, [7:0] = B. All channel
// arithmetic is mod 256 per byte lane; none of the routines here
// allocate or keep state.
package dsp

// PredictorMode selects one of the 14 spatial predictors. A predictor
// estimates a pixel from up to four already-reconstructed neighbors so
// that only the residual needs to be entropy coded.
type PredictorMode uint8

const (
	PredBlack     PredictorMode = iota // opaque black, no neighbors
	PredLeft                           // L
	PredTop                            // T
	PredTopRight                       // TR
	PredTopLeft                        // TL
	PredAvgLTTR                        // Average3(L, T, TR)
	PredAvgLTL                         // Average2(L, TL)
	PredAvgLT                          // Average2(L, T)
	PredAvgTLT                         // Average2(TL, T)
	PredAvgTTR                         // Average2(T, TR)
	PredAvgAll                         // Average4(L, TL, T, TR)
	PredSelect                         // gradient select between T and L
	PredGradFull                       // ClampedAddSubtractFull(L, T, TL)
	PredGradHalf                       // ClampedAddSubtractHalf(L, T, TL)

	// NumPredictorModes is the count of valid modes.
	NumPredictorModes
)

// Predict returns the predicted pixel for the given mode.
//
// Convention: the caller passes the top row slice already offset so
// that top[0] is the top-left pixel (TL), top[1] the pixel directly
// above (T) and top[2] the top-right pixel (TR). Out-of-image neighbors
// at the edges are synthesized by the caller. An invalid mode panics.
func Predict(mode PredictorMode, left uint32, top []uint32) uint32 {
	switch mode {
	case PredBlack:
		return 0xff000000
	case PredLeft:
		return left
	case PredTop:
		return top[1]
	case PredTopRight:
		return top[2]
	case PredTopLeft:
		return top[0]
	case PredAvgLTTR:
		return average3(left, top[1], top[2])
	case PredAvgLTL:
		return average2(left, top[0])
	case PredAvgLT:
		return average2(left, top[1])
	case PredAvgTLT:
		return average2(top[0], top[1])
	case PredAvgTTR:
		return average2(top[1], top[2])
	case PredAvgAll:
		return average4(left, top[0], top[1], top[2])
	case PredSelect:
		return sel(top[1], left, top[0])
	case PredGradFull:
		return clampedAddSubtractFull(left, top[1], top[0])
	case PredGradHalf:
		return clampedAddSubtractHalf(left, top[1], top[0])
	default:
		panic("dsp: invalid predictor mode")
	}
}

// average2 averages two ARGB pixels on all four lanes at once without
// overflow. The rounding of this exact formula (floor per lane) is part
// of the format; a per-channel loop with different rounding would
// desynchronise encoder and decoder.
func average2(a, b uint32) uint32 {
	return (((a ^ b) & 0xfefefefe) >> 1) + (a & b)
}

func average3(a, b, c uint32) uint32 {
	return average2(average2(a, c), b)
}

func average4(a, b, c, d uint32) uint32 {
	return average2(average2(a, b), average2(c, d))
}

// sel picks a (top) or b (left) depending on which the gradient around
// c (top-left) favors, summing the per-lane distance differences.
func sel(a, b, c uint32) uint32 {
	paMinusPb := int32(0)
	for shift := uint(0); shift < 32; shift += 8 {
		ac := int32((a>>shift)&0xff) - int32((c>>shift)&0xff)
		bc := int32((b>>shift)&0xff) - int32((c>>shift)&0xff)
		paMinusPb += abs32(bc) - abs32(ac)
	}
	if paMinusPb <= 0 {
		return a
	}
	return b
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// clip255 saturates an intermediate lane value to [0, 255] using
// wraparound detection: values outside the band have bits above bit 7
// set, and the arithmetic shift of ^v yields 0 for negatives and 255
// for overflows.
func clip255(v int32) uint32 {
	if uint32(v) < 256 {
		return uint32(v)
	}
	return uint32(^v>>24) & 0xff
}

// clampedAddSubtractFull computes L + T - TL per lane, clamped.
func clampedAddSubtractFull(a, b, c uint32) uint32 {
	var out uint32
	for shift := uint(0); shift < 32; shift += 8 {
		va := int32((a >> shift) & 0xff)
		vb := int32((b >> shift) & 0xff)
		vc := int32((c >> shift) & 0xff)
		out |= clip255(va+vb-vc) << shift
	}
	return out
}

// clampedAddSubtractHalf computes avg + (avg - TL)/2 per lane on
// avg = Average2(L, T), clamped. The /2 truncates toward zero.
func clampedAddSubtractHalf(a, b, c uint32) uint32 {
	avg := average2(a, b)
	var out uint32
	for shift := uint(0); shift < 32; shift += 8 {
		va := int32((avg >> shift) & 0xff)
		vc := int32((c >> shift) & 0xff)
		out |= clip255(va+(va-vc)/2) << shift
	}
	return out
}
