package mem

import (
	"errors"
	"fmt"
)

// Sizing constants of the linear memory model.
const (
	// SampleSize is the byte width of one float32 sample.
	SampleSize = 4

	// PageSize is the growth granularity of a linear memory in bytes.
	PageSize = 65536
)

// Handle is a byte offset into an arena. Handles stay valid for the lifetime
// of the allocation they address and are the currency shared with native
// kernels operating on the same memory.
type Handle uint32

// Errors returned by arena and conversion functions.
var (
	ErrInvalidSize = errors.New("mem: size must be positive")
	ErrOutOfMemory = errors.New("mem: out of memory")
	ErrBadHandle   = errors.New("mem: handle does not address a live allocation")
	ErrMisaligned  = errors.New("mem: not sample aligned")
	ErrViewBounds  = errors.New("mem: view outside any live allocation")
)

// SampleCount converts a byte count into a float32 sample count.
// The byte count must be non-negative and a multiple of SampleSize.
func SampleCount(byteSize int) (int, error) {
	if byteSize < 0 {
		return 0, fmt.Errorf("%w: %d bytes", ErrInvalidSize, byteSize)
	}
	if byteSize%SampleSize != 0 {
		return 0, fmt.Errorf("%w: %d bytes", ErrMisaligned, byteSize)
	}
	return byteSize / SampleSize, nil
}

// ByteSize converts a float32 sample count into a byte count.
// Negative counts are treated as zero.
func ByteSize(samples int) int {
	if samples < 0 {
		return 0
	}
	return samples * SampleSize
}
