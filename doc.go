// Package bitpix is the bit-level serialization and pixel decorrelation
// core shared by the lossy and lossless WebP code paths.
//
// It contains four small, self-contained, bit-exact engines:
//
//   - bitio.RangeEncoder / bitio.RangeDecoder: the adaptive binary
//     range coder used for lossy mode and residual coding.
//   - bitio.PackedWriter / bitio.PackedReader: the raw LSB-first bit
//     packer used for lossless symbol and codeword emission.
//   - dsp.Predict: the 14-mode spatial predictor bank over packed ARGB
//     pixels.
//   - dsp.TransformColor and friends: inter-channel color
//     decorrelation (subtract-green and cross-color transforms).
//
// Container framing, Huffman tree construction, backward-reference
// matching, quantization and SIMD dispatch all live in the consuming
// codec, not here. Every engine is deterministic: given the same inputs
// the encode and decode sides visit the identical renormalization and
// clamping points, which is the round-trip contract the surrounding
// format depends on.
package bitpix
