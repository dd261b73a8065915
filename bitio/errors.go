package bitio

import "errors"

var (
	// ErrSizeLimit is reported by Finish when an encoder exceeded the
	// output budget installed with SetSizeLimit. Once the budget is hit
	// all further writes are no-ops.
	ErrSizeLimit = errors.New("bitio: output size limit exceeded")

	// ErrInvalidBits is reported by PackedWriter.Finish after a
	// WriteBits call with a bit count outside [0, MaxBitsPerCall].
	ErrInvalidBits = errors.New("bitio: bit count out of range")

	// ErrTruncated is reported by a decoder that was asked to consume
	// more bits than the input buffer holds. The missing bits are
	// served as zeros; the flag is sticky.
	ErrTruncated = errors.New("bitio: truncated input")
)
