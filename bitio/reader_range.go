// Package bitio provides the bit-level serialization engines of the
// codec core: an adaptive binary range coder (RangeEncoder and
// RangeDecoder) and a raw LSB-first bit packer (PackedWriter and
// PackedReader).
//
// The two schemes are independent. The range coder spends fractional
// bits per symbol according to caller-supplied probabilities; the
// packer stores pre-computed fixed-width codes verbatim. Both are
// bit-exact: an encoder and decoder fed the same symbol/probability
// sequence visit identical renormalisation points, byte for byte.
package bitio

import (
	"encoding/binary"
	"math/bits"
)

// rangePrefetchBits is the number of cached look-ahead bits kept in the
// decoder's value register (7 bytes at a time on 64-bit Go).
const rangePrefetchBits = 56

// RangeDecoder is the decoding counterpart of RangeEncoder.
//
// It maintains the same probability-weighted interval as the encoder
// and narrows it on every decoded symbol. A 64-bit value register
// caches up to 56 look-ahead bits so bulk byte loads are amortised over
// many decoded symbols.
//
// Reads past the end of the input are served as zero bits and latch a
// sticky exhausted flag; a decoder reporting EOF before the caller has
// decoded all expected symbols has hit truncated or corrupt input (see
// Err). The decoder never touches memory beyond the supplied slice.
type RangeDecoder struct {
	value uint64 // value register (rangePrefetchBits+8 bits active)
	rng   uint32 // current range minus 1, kept in [127, 254]
	bits  int    // number of valid bits remaining in value
	buf   []byte
	pos   int
	eof   bool // input exhausted; missing bits served as zeros
}

// NewRangeDecoder creates a RangeDecoder over the byte slice and loads
// the initial bits into the value register.
func NewRangeDecoder(data []byte) *RangeDecoder {
	d := &RangeDecoder{
		rng:  255 - 1,
		bits: -8, // forces an immediate load of the first bytes
		buf:  data,
	}
	d.load()
	return d
}

// load reads up to 7 bytes (56 bits) from the input into the value
// register, falling back to byte-at-a-time loads near the end.
func (d *RangeDecoder) load() {
	// Fast path: read 8 bytes, use 7.
	if d.pos+8 <= len(d.buf) {
		in := binary.LittleEndian.Uint64(d.buf[d.pos:])
		in = bits.ReverseBytes64(in)
		in >>= 64 - rangePrefetchBits
		d.value = in | (d.value << rangePrefetchBits)
		d.pos += rangePrefetchBits >> 3
		d.bits += rangePrefetchBits
		return
	}
	d.loadFinal()
}

// loadFinal loads one byte at a time; once the buffer is exhausted it
// feeds zero bytes and latches the eof flag.
func (d *RangeDecoder) loadFinal() {
	if d.pos < len(d.buf) {
		d.bits += 8
		d.value = uint64(d.buf[d.pos]) | (d.value << 8)
		d.pos++
	} else if !d.eof {
		d.value <<= 8
		d.bits += 8
		d.eof = true
	} else {
		d.bits = 0 // keep shift amounts defined
	}
}

// GetBit decodes one boolean symbol with the given probability that the
// bit is 0 (1..255). Probability 0 leaves the split formula undefined
// and panics, mirroring RangeEncoder.PutBit. The split computation must
// match the encoder exactly; any rounding difference desynchronises the
// two permanently.
func (d *RangeDecoder) GetBit(prob uint8) int {
	if prob == 0 {
		panic("bitio: range coder probability out of [1, 255]")
	}
	rng := d.rng
	if d.bits < 0 {
		d.load()
	}

	pos := d.bits
	split := (rng * uint32(prob)) >> 8
	value := uint32(d.value >> uint(pos))

	var bit int
	if value > split {
		bit = 1
		rng -= split
		d.value -= uint64(split+1) << uint(pos)
	} else {
		rng = split + 1
	}

	// Renormalise: shift rng up until its MSB sits in bit 7.
	shift := 7 ^ (bits.Len32(rng) - 1)
	rng <<= uint(shift)
	d.bits -= shift

	d.rng = rng - 1
	return bit
}

// GetBitUniform decodes one symbol at probability 128.
func (d *RangeDecoder) GetBitUniform() int {
	return d.GetBit(128)
}

// GetSigned decodes a sign at uniform probability and returns +v or -v.
func (d *RangeDecoder) GetSigned(v int) int {
	if d.bits < 0 {
		d.load()
	}

	pos := d.bits
	split := d.rng >> 1
	value := uint32(d.value >> uint(pos))

	// mask is -1 when value >= split+1, 0 otherwise.
	mask := int32(split-value) >> 31

	d.bits--
	d.rng += uint32(mask)
	d.rng |= 1
	d.value -= uint64((split+1)&uint32(mask)) << uint(pos)

	return (v ^ int(mask)) - int(mask)
}

// GetValue reads numBits bits MSB first, each decoded at uniform
// probability. Mirrors RangeEncoder.PutBits.
func (d *RangeDecoder) GetValue(numBits int) uint32 {
	var v uint32
	for i := numBits - 1; i >= 0; i-- {
		v |= uint32(d.GetBit(128)) << uint(i)
	}
	return v
}

// GetSignedValue reads a numBits magnitude followed by a sign bit.
func (d *RangeDecoder) GetSignedValue(numBits int) int32 {
	value := int32(d.GetValue(numBits))
	if d.GetBit(128) != 0 {
		return -value
	}
	return value
}

// EOF reports whether the decoder has consumed past the end of the
// input buffer and is now serving zero bits.
func (d *RangeDecoder) EOF() bool {
	return d.eof
}

// Err returns ErrTruncated once the decoder has read past the input.
// Callers that know how many symbols the stream holds should check this
// after decoding them; EOF before that point means the input was
// truncated or corrupt.
func (d *RangeDecoder) Err() error {
	if d.eof {
		return ErrTruncated
	}
	return nil
}
