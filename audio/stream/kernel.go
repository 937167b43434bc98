package stream

import (
	"errors"
	"fmt"

	"github.com/AndreyDodonov-EH/web-audio-samples/audio/core"
)

// Errors returned by kernels and processors.
var (
	ErrNilKernel       = errors.New("stream: kernel is nil")
	ErrInvalidChannels = errors.New("stream: channel count must be >= 1")
	ErrInvalidWindow   = errors.New("stream: window must be >= 1")
	ErrBlockGeometry   = errors.New("stream: block frames must be a positive multiple of quantum frames")
	ErrShapeMismatch   = errors.New("stream: dst and src shapes differ")
	ErrBadQuantum      = errors.New("stream: block is not exactly one render quantum")
	ErrClosed          = errors.New("stream: processor closed")
)

// Kernel processes one multichannel block of samples. dst and src always
// carry the same shape; implementations must tolerate dst aliasing src.
type Kernel interface {
	ProcessBlock(dst, src [][]float32) error
}

// blockShape validates that dst and src are congruent multichannel blocks
// and returns the frame count per channel.
func blockShape(dst, src [][]float32) (int, error) {
	if len(dst) != len(src) {
		return 0, fmt.Errorf("%w: %d vs %d channels", ErrShapeMismatch, len(dst), len(src))
	}
	frames, ok := core.Frames(src)
	if !ok {
		return 0, ErrShapeMismatch
	}
	dstFrames, ok := core.Frames(dst)
	if !ok || dstFrames != frames {
		return 0, ErrShapeMismatch
	}
	return frames, nil
}

// Bypass copies input to output unchanged.
type Bypass struct{}

// ProcessBlock copies src into dst.
func (Bypass) ProcessBlock(dst, src [][]float32) error {
	if _, err := blockShape(dst, src); err != nil {
		return err
	}
	core.CopyBlock(dst, src)
	return nil
}

// Gain scales every sample by a constant level.
type Gain struct {
	Level float32
}

// ProcessBlock writes src scaled by Level into dst.
func (g Gain) ProcessBlock(dst, src [][]float32) error {
	if _, err := blockShape(dst, src); err != nil {
		return err
	}
	for ch := range src {
		in, out := src[ch], dst[ch]
		for i := range in {
			out[i] = in[i] * g.Level
		}
	}
	return nil
}
