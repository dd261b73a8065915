package bitio

import "github.com/deepteams/bitpix/internal/pool"

// RangeEncoder is the adaptive binary range (arithmetic) encoder.
//
// Symbols are encoded by narrowing a probability-weighted interval and
// emitting bytes as the interval shrinks below the normalisation
// threshold. The probability argument is the chance, scaled to /256,
// that the encoded bit is 0; it must lie in [1, 255]. The matching
// decoder is RangeDecoder.
//
// The range register holds the interval width minus one and is kept in
// [127, 254] by renormalisation. Carry propagation is handled without a
// wide accumulator: completed 0xff bytes are withheld in a run counter
// until a non-0xff byte (or a carry) resolves them.
type RangeEncoder struct {
	rng    int32 // current range minus 1, kept in [127, 254]
	value  int32 // fractional value accumulated for pending output
	run    int   // count of withheld 0xff bytes (carry resolution)
	nbBits int   // pending bit count; a byte is emitted when it goes positive
	buf    []byte
	pos    int
	limit  int // output budget in bytes; 0 means unlimited
	err    error
}

// NewRangeEncoder creates a RangeEncoder whose output buffer is sized
// for expectedSize bytes. Pass 0 for a minimal default allocation. The
// buffer comes from the shared pool; it is handed to the caller by
// Finish or returned to the pool by Abort.
func NewRangeEncoder(expectedSize int) *RangeEncoder {
	if expectedSize < pool.Size1K {
		expectedSize = pool.Size1K
	}
	return &RangeEncoder{
		rng:    255 - 1,
		nbBits: -8,
		buf:    pool.Get(expectedSize)[:0],
	}
}

// Reset restores the initial state for reuse, keeping the current
// buffer when it is large enough. This avoids reallocation when
// encoding many partitions of similar size.
func (e *RangeEncoder) Reset(expectedSize int) {
	if expectedSize < pool.Size1K {
		expectedSize = pool.Size1K
	}
	if cap(e.buf) >= expectedSize {
		e.buf = e.buf[:0]
	} else {
		if e.buf != nil {
			pool.Put(e.buf)
		}
		e.buf = pool.Get(expectedSize)[:0]
	}
	e.rng = 255 - 1
	e.value = 0
	e.run = 0
	e.nbBits = -8
	e.pos = 0
	e.limit = 0
	e.err = nil
}

// SetSizeLimit installs an output budget of maxBytes. Once the encoded
// output would exceed it, the error flag is set, every later PutBit is
// a no-op and Finish fails with ErrSizeLimit. A limit of 0 removes the
// budget.
func (e *RangeEncoder) SetSizeLimit(maxBytes int) {
	e.limit = maxBytes
}

// PutBit encodes one boolean symbol with the given probability that the
// bit is 0, in [1, 255]. Probability 0 leaves the split formula
// undefined and panics; silently clamping it would produce a stream the
// decoder cannot follow. Returns the input bit unchanged.
func (e *RangeEncoder) PutBit(bit int, prob int) int {
	if prob <= 0 || prob > 255 {
		panic("bitio: range coder probability out of [1, 255]")
	}
	if e.err != nil {
		return bit
	}
	// The lower sub-interval is split+1 wide, i.e. 1 + (((rng+1)-1)*prob)>>8.
	split := (e.rng * int32(prob)) >> 8
	if bit != 0 {
		e.value += split + 1
		e.rng -= split + 1
	} else {
		e.rng = split
	}
	if e.rng < 127 {
		shift := kRangeShift[e.rng]
		e.rng = int32(kRangeNorm[e.rng])
		e.value <<= uint(shift)
		e.nbBits += int(shift)
		if e.nbBits > 0 {
			e.emit()
		}
	}
	return bit
}

// PutBitUniform encodes one symbol at probability 128 (a fair coin).
// The halved-range special case skips the multiply.
func (e *RangeEncoder) PutBitUniform(bit int) int {
	if e.err != nil {
		return bit
	}
	split := e.rng >> 1
	if bit != 0 {
		e.value += split + 1
		e.rng -= split + 1
	} else {
		e.rng = split
	}
	if e.rng < 127 {
		e.rng = int32(kRangeNorm[e.rng])
		e.value <<= 1
		e.nbBits++
		if e.nbBits > 0 {
			e.emit()
		}
	}
	return bit
}

// PutBits encodes the low nbBits bits of value, MSB first, each at
// uniform probability.
func (e *RangeEncoder) PutBits(value uint32, nbBits int) {
	for mask := uint32(1) << uint(nbBits-1); mask != 0; mask >>= 1 {
		bit := 0
		if value&mask != 0 {
			bit = 1
		}
		e.PutBitUniform(bit)
	}
}

// PutSignedBits encodes a signed value: a flag bit for non-zero, then
// the magnitude and a sign bit.
func (e *RangeEncoder) PutSignedBits(value int, nbBits int) {
	flag := 0
	if value != 0 {
		flag = 1
	}
	if e.PutBitUniform(flag) == 0 {
		return
	}
	if value < 0 {
		e.PutBits(uint32(-value)<<1|1, nbBits+1)
	} else {
		e.PutBits(uint32(value)<<1, nbBits+1)
	}
}

// emit moves one completed byte out of the value register, resolving
// any carry through the withheld 0xff run.
func (e *RangeEncoder) emit() {
	s := 8 + e.nbBits
	bits := e.value >> uint(s)
	e.value -= bits << uint(s)
	e.nbBits -= 8
	if bits&0xff == 0xff {
		e.run++ // withhold 0xff bytes until the carry is known
		return
	}
	carry := bits&0x100 != 0
	if carry && e.pos > 0 {
		e.buf[e.pos-1]++
	}
	if e.run > 0 {
		fill := byte(0xff)
		if carry {
			fill = 0x00
		}
		for ; e.run > 0; e.run-- {
			e.append(fill)
		}
	}
	e.append(byte(bits & 0xff))
}

// append writes one output byte, enforcing the size budget.
func (e *RangeEncoder) append(b byte) {
	if e.limit > 0 && e.pos >= e.limit {
		e.err = ErrSizeLimit
		return
	}
	e.buf = append(e.buf, b)
	e.pos++
}

// Finish flushes the remaining fractional bits and returns the encoded
// stream. The trailing padding bits are zeros; their count is part of
// the format, not recoverable from the bytes. Ownership of the returned
// slice passes to the caller. Finish fails if the size budget was
// exceeded at any point.
func (e *RangeEncoder) Finish() ([]byte, error) {
	e.PutBits(0, 9-e.nbBits)
	e.nbBits = 0
	e.emit()
	if e.err != nil {
		return nil, e.err
	}
	return e.buf[:e.pos], nil
}

// Abort discards all encoder state and returns the output buffer to the
// pool without producing output. The encoder must not be used again
// until Reset.
func (e *RangeEncoder) Abort() {
	if e.buf != nil {
		pool.Put(e.buf)
		e.buf = nil
	}
	e.pos = 0
	e.run = 0
}

// Bytes returns the bytes emitted so far, without finalising.
func (e *RangeEncoder) Bytes() []byte {
	return e.buf[:e.pos]
}

// Err returns the sticky error flag, if set.
func (e *RangeEncoder) Err() error {
	return e.err
}

// BitPos returns the approximate output position in bits, including
// withheld 0xff bytes and pending fractional bits.
func (e *RangeEncoder) BitPos() uint64 {
	nb := uint64(8 + e.nbBits) // nbBits is <= 0 between calls
	return uint64(e.pos+e.run)*8 + nb
}

// kRangeShift maps range values [0..127] to the left-shift count needed
// for renormalisation: 7 - floor(log2(range+1)).
var kRangeShift = [128]uint8{
	7, 6, 6, 5, 5, 5, 5, 4, 4, 4, 4, 4, 4, 4, 4, 3, 3, 3, 3, 3, 3, 3,
	3, 3, 3, 3, 3, 3, 3, 3, 3, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
	2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0,
}

// kRangeNorm maps range values [0..127] to the renormalised range:
// ((range + 1) << kRangeShift[range]) - 1.
var kRangeNorm = [128]uint8{
	127, 127, 191, 127, 159, 191, 223, 127, 143, 159, 175, 191, 207, 223, 239,
	127, 135, 143, 151, 159, 167, 175, 183, 191, 199, 207, 215, 223, 231, 239,
	247, 127, 131, 135, 139, 143, 147, 151, 155, 159, 163, 167, 171, 175, 179,
	183, 187, 191, 195, 199, 203, 207, 211, 215, 219, 223, 227, 231, 235, 239,
	243, 247, 251, 127, 129, 131, 133, 135, 137, 139, 141, 143, 145, 147, 149,
	151, 153, 155, 157, 159, 161, 163, 165, 167, 169, 171, 173, 175, 177, 179,
	181, 183, 185, 187, 189, 191, 193, 195, 197, 199, 201, 203, 205, 207, 209,
	211, 213, 215, 217, 219, 221, 223, 225, 227, 229, 231, 233, 235, 237, 239,
	241, 243, 245, 247, 249, 251, 253, 127,
}
