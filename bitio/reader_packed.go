package bitio

import "encoding/binary"

const (
	// MaxBitsPerCall is the widest value a single WriteBits or ReadBits
	// call may carry. Wider values are split by the caller.
	MaxBitsPerCall = 24
	// packedWindowBits is the bit-size of the reader's sliding window.
	packedWindowBits = 64
	// packedReadyBits is the minimum number of ready bits after
	// FillWindow.
	packedReadyBits = 32
)

// PackedReader is the decoding counterpart of PackedWriter.
//
// It maintains a 64-bit sliding window over the input and advances 4
// bytes at a time, falling back to byte-at-a-time loads near the end of
// the buffer.
//
// Under-read policy: reading past the end of the input never touches
// out-of-bounds memory; the missing bits are served as zeros and a
// sticky end-of-stream flag is latched (IsEndOfStream, Err). Callers
// that track the expected bit count treat a premature end of stream as
// truncated input. This mirrors the writer asymmetrically on purpose:
// the writer hard-fails at Finish, the reader keeps producing zeros so
// a decode loop can finish its row before bailing out.
type PackedReader struct {
	window uint64 // pre-fetched bits
	buf    []byte
	pos    int  // byte position in buf
	bitPos int  // read position inside window
	eos    bool // end of stream reached
}

// NewPackedReader creates a PackedReader over the byte slice,
// pre-loading the first 8 (or fewer) bytes into the window.
func NewPackedReader(data []byte) *PackedReader {
	r := &PackedReader{buf: data}
	n := len(data)
	if n > 8 {
		n = 8
	}
	var w uint64
	for i := 0; i < n; i++ {
		w |= uint64(data[i]) << uint(8*i)
	}
	r.window = w
	r.pos = n
	return r
}

// ReadBits consumes nBits (0..MaxBitsPerCall) and returns them
// zero-extended. nBits outside that range is a programming error and
// panics. Past the end of the input, zeros are returned and the
// end-of-stream flag is set.
func (r *PackedReader) ReadBits(nBits int) uint32 {
	if nBits < 0 || nBits > MaxBitsPerCall {
		panic("bitio: packed read width out of [0, 24]")
	}
	if r.eos {
		return 0
	}
	v := r.PrefetchBits() & kBitMask[nBits]
	r.bitPos += nBits
	r.shiftBytes()
	return v
}

// FillWindow ensures at least packedReadyBits bits are ready in the
// window. Callers pairing PrefetchBits with SkipBits must call it first.
func (r *PackedReader) FillWindow() {
	if r.bitPos < packedReadyBits {
		return
	}
	// Fast path: 4+ bytes remain.
	if r.pos+4 <= len(r.buf) {
		r.window >>= packedReadyBits
		r.bitPos -= packedReadyBits
		r.window |= uint64(binary.LittleEndian.Uint32(r.buf[r.pos:])) << (packedWindowBits - packedReadyBits)
		r.pos += 4
		return
	}
	r.shiftBytes()
}

// shiftBytes loads single bytes into the window until bitPos < 8 or the
// buffer is exhausted.
func (r *PackedReader) shiftBytes() {
	for r.bitPos >= 8 && r.pos < len(r.buf) {
		r.window >>= 8
		r.window |= uint64(r.buf[r.pos]) << (packedWindowBits - 8)
		r.pos++
		r.bitPos -= 8
	}
	if r.IsEndOfStream() {
		r.eos = true
		r.bitPos = 0
		r.window = 0 // every later prefetch serves zeros
	}
}

// PrefetchBits returns the next window bits without advancing. The
// caller must have called FillWindow to guarantee enough ready bits.
// With the window fully consumed (bitPos at or past 64) the shift
// drains to zero, so the zero-fill policy holds at every alignment.
func (r *PackedReader) PrefetchBits() uint32 {
	if r.bitPos >= packedWindowBits {
		return 0
	}
	return uint32(r.window >> uint(r.bitPos))
}

// SkipBits advances past n prefetched bits. Used after the caller has
// inspected PrefetchBits and knows how many of them it consumed.
func (r *PackedReader) SkipBits(n int) {
	r.bitPos += n
	r.shiftBytes()
}

// BitPos returns the read position inside the window.
func (r *PackedReader) BitPos() int {
	return r.bitPos
}

// IsEndOfStream reports whether the reader has attempted to consume
// past the end of the buffer.
func (r *PackedReader) IsEndOfStream() bool {
	return r.eos || (r.pos == len(r.buf) && r.bitPos > packedWindowBits)
}

// Err returns ErrTruncated once the end of stream has been passed.
func (r *PackedReader) Err() error {
	if r.eos {
		return ErrTruncated
	}
	return nil
}

// kBitMask maps a bit count (0..MaxBitsPerCall) to its mask (2^n - 1).
var kBitMask = [MaxBitsPerCall + 1]uint32{
	0x000000, // 0
	0x000001, // 1
	0x000003, // 2
	0x000007, // 3
	0x00000f, // 4
	0x00001f, // 5
	0x00003f, // 6
	0x00007f, // 7
	0x0000ff, // 8
	0x0001ff, // 9
	0x0003ff, // 10
	0x0007ff, // 11
	0x000fff, // 12
	0x001fff, // 13
	0x003fff, // 14
	0x007fff, // 15
	0x00ffff, // 16
	0x01ffff, // 17
	0x03ffff, // 18
	0x07ffff, // 19
	0x0fffff, // 20
	0x1fffff, // 21
	0x3fffff, // 22
	0x7fffff, // 23
	0xffffff, // 24
}
