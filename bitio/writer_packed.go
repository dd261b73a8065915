package bitio

import (
	"encoding/binary"

	"github.com/deepteams/bitpix/internal/pool"
)

const (
	// packedFlushBits is the number of bits flushed at a time.
	packedFlushBits = 32
	// packedFlushBytes is the number of bytes written per flush.
	packedFlushBytes = 4
)

// PackedWriter is the raw LSB-first bit packer.
//
// There is no entropy coding: WriteBits stores the low nBits of each
// value verbatim, LSB first within each byte, in call order. Bits are
// accumulated in a 64-bit register and flushed 32 bits (4 little-endian
// bytes) at a time, which is the layout PackedReader expects.
//
// The final partial byte is zero padded by Finish; the total bit count
// is not recoverable from the byte stream, so the consumer must know it
// from elsewhere.
type PackedWriter struct {
	bits  uint64 // bit accumulator
	used  int    // number of valid bits in the accumulator
	buf   []byte
	cur   int // write position in buf
	limit int // output budget in bytes; 0 means unlimited
	err   error
}

// NewPackedWriter creates a PackedWriter with a pooled buffer sized for
// expectedSize bytes.
func NewPackedWriter(expectedSize int) *PackedWriter {
	if expectedSize < pool.Size1K {
		expectedSize = pool.Size1K
	}
	// Round up to the next 1k boundary.
	expectedSize = ((expectedSize >> 10) + 1) << 10
	return &PackedWriter{
		buf: pool.Get(expectedSize),
	}
}

// SetSizeLimit installs an output budget of maxBytes; see
// RangeEncoder.SetSizeLimit for the semantics.
func (w *PackedWriter) SetSizeLimit(maxBytes int) {
	w.limit = maxBytes
}

// WriteBits appends the low nBits bits of v, LSB first. nBits must be
// in [0, MaxBitsPerCall]; wider values are split by the caller into
// low/high halves. An out-of-range nBits sets the sticky ErrInvalidBits
// flag (reported by Finish) and the call is ignored -- clamping would
// silently desynchronise the reader.
func (w *PackedWriter) WriteBits(v uint32, nBits int) {
	if nBits < 0 || nBits > MaxBitsPerCall {
		if w.err == nil {
			w.err = ErrInvalidBits
		}
		return
	}
	if nBits == 0 || w.err != nil {
		return
	}
	if w.used >= packedFlushBits {
		w.flushBits()
		if w.err != nil {
			return
		}
	}
	w.bits |= uint64(v&kBitMask[nBits]) << uint(w.used)
	w.used += nBits
}

// flushBits moves the low 32 accumulator bits to the output buffer as 4
// little-endian bytes.
func (w *PackedWriter) flushBits() {
	if !w.grow(packedFlushBytes) {
		return
	}
	binary.LittleEndian.PutUint32(w.buf[w.cur:], uint32(w.bits))
	w.cur += packedFlushBytes
	w.bits >>= packedFlushBits
	w.used -= packedFlushBits
}

// grow ensures n bytes of room at w.cur, enforcing the size budget.
// Reports whether the room is available.
func (w *PackedWriter) grow(n int) bool {
	if w.limit > 0 && w.cur+n > w.limit {
		if w.err == nil {
			w.err = ErrSizeLimit
		}
		return false
	}
	if w.cur+n <= len(w.buf) {
		return true
	}
	newSize := len(w.buf) * 3 / 2
	if need := w.cur + n; newSize < need {
		newSize = need
	}
	// Round up to the next 1k boundary.
	newSize = ((newSize >> 10) + 1) << 10
	tmp := pool.Get(newSize)
	copy(tmp, w.buf[:w.cur])
	pool.Put(w.buf)
	w.buf = tmp
	return true
}

// Finish flushes the accumulator, zero-padding the final partial byte,
// and returns the packed stream. Ownership of the returned slice passes
// to the caller. Finish fails if any WriteBits call was invalid or the
// size budget was exceeded.
func (w *PackedWriter) Finish() ([]byte, error) {
	for w.used >= packedFlushBits {
		w.flushBits()
	}
	if w.grow((w.used + 7) >> 3) {
		for w.used > 0 {
			w.buf[w.cur] = byte(w.bits)
			w.cur++
			w.bits >>= 8
			w.used -= 8
		}
	}
	w.used = 0
	if w.err != nil {
		return nil, w.err
	}
	return w.buf[:w.cur], nil
}

// Abort discards all writer state and returns the buffer to the pool
// without producing output.
func (w *PackedWriter) Abort() {
	if w.buf != nil {
		pool.Put(w.buf)
		w.buf = nil
	}
	w.cur = 0
	w.used = 0
}

// NumBytes returns the encoded size so far, counting any partial byte
// still in the accumulator.
func (w *PackedWriter) NumBytes() int {
	return w.cur + (w.used+7)/8
}

// Err returns the sticky error flag, if set.
func (w *PackedWriter) Err() error {
	return w.err
}
