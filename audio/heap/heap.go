package heap

import (
	"errors"
	"fmt"

	"github.com/AndreyDodonov-EH/web-audio-samples/audio/core"
	"github.com/AndreyDodonov-EH/web-audio-samples/mem"
)

// MaxChannelCount is the ceiling on channels a single buffer can carry.
const MaxChannelCount = 32

// Errors returned by buffer operations.
var (
	ErrNilAllocator        = errors.New("heap: allocator is nil")
	ErrInvalidFrameLength  = errors.New("heap: frame length must be >= 1")
	ErrInvalidChannelCount = errors.New("heap: channel count out of range")
	ErrChannelIndex        = errors.New("heap: channel index out of range")
	ErrReleased            = errors.New("heap: buffer released")
)

// Allocator is the linear-memory contract a Buffer builds on. *mem.Arena
// satisfies it.
type Allocator interface {
	Alloc(byteSize int) (mem.Handle, error)
	Free(h mem.Handle) error
	Float32View(h mem.Handle, samples int) ([]float32, error)
}

// settings holds construction options.
type settings struct {
	maxChannels int
}

// Option configures buffer construction.
type Option func(*settings)

// WithMaxChannels sizes the allocation for up to n channels, so the active
// count can later grow via AdaptChannelCount without reallocation. The
// default maximum is the initial channel count.
func WithMaxChannels(n int) Option {
	return func(s *settings) {
		s.maxChannels = n
	}
}

// Buffer is a channel-data view over one channel-major allocation.
type Buffer struct {
	alloc       Allocator
	frameLength int
	channels    int // active count
	maxChannels int
	base        mem.Handle
	views       [][]float32 // one per potential channel, built up front
	released    bool
}

// New allocates a buffer of frameLength frames for the given channel count.
// The allocation covers the maximum channel count, every channel view is
// constructed and bounds-checked immediately, and the samples start zeroed.
// Allocation failure propagates from the allocator.
func New(a Allocator, frameLength, channels int, opts ...Option) (*Buffer, error) {
	if a == nil {
		return nil, ErrNilAllocator
	}
	if frameLength < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFrameLength, frameLength)
	}
	s := settings{maxChannels: channels}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if channels < 1 || channels > s.maxChannels || s.maxChannels > MaxChannelCount {
		return nil, fmt.Errorf("%w: %d of max %d", ErrInvalidChannelCount, channels, s.maxChannels)
	}

	base, err := a.Alloc(mem.ByteSize(s.maxChannels * frameLength))
	if err != nil {
		return nil, fmt.Errorf("heap: allocation failed: %w", err)
	}

	views := make([][]float32, s.maxChannels)
	for ch := range views {
		offset := base + mem.Handle(mem.ByteSize(ch*frameLength))
		view, err := a.Float32View(offset, frameLength)
		if err != nil {
			_ = a.Free(base)
			return nil, fmt.Errorf("heap: view construction failed: %w", err)
		}
		core.Zero(view)
		views[ch] = view
	}

	return &Buffer{
		alloc:       a,
		frameLength: frameLength,
		channels:    channels,
		maxChannels: s.maxChannels,
		base:        base,
		views:       views,
	}, nil
}

// FrameLength returns the frames per channel.
func (b *Buffer) FrameLength() int {
	return b.frameLength
}

// ChannelCount returns the active channel count.
func (b *Buffer) ChannelCount() int {
	return b.channels
}

// MaxChannelCount returns the channel ceiling the allocation covers.
func (b *Buffer) MaxChannelCount() int {
	return b.maxChannels
}

// AdaptChannelCount changes the active channel count without reallocating.
// The base address and all existing views stay valid; n must lie between 1
// and the constructed maximum.
func (b *Buffer) AdaptChannelCount(n int) error {
	if b.released {
		return ErrReleased
	}
	if n < 1 || n > b.maxChannels {
		return fmt.Errorf("%w: %d of max %d", ErrInvalidChannelCount, n, b.maxChannels)
	}
	b.channels = n
	return nil
}

// ChannelData returns the view of one active channel. Requesting a channel
// at or beyond the active count fails rather than exposing reserve memory.
func (b *Buffer) ChannelData(ch int) ([]float32, error) {
	if b.released {
		return nil, ErrReleased
	}
	if ch < 0 || ch >= b.channels {
		return nil, fmt.Errorf("%w: %d of %d", ErrChannelIndex, ch, b.channels)
	}
	return b.views[ch], nil
}

// ChannelViews returns the views of all active channels, or nil after
// release. The views alias buffer memory; callers must not retain them
// across AdaptChannelCount or Release. The slice capacity is capped so an
// append cannot reach the reserve view table.
func (b *Buffer) ChannelViews() [][]float32 {
	if b.released {
		return nil
	}
	return b.views[:b.channels:b.channels]
}

// BaseAddress returns the byte offset of the allocation inside its arena,
// the address handed to native kernels.
func (b *Buffer) BaseAddress() (mem.Handle, error) {
	if b.released {
		return 0, ErrReleased
	}
	return b.base, nil
}

// IsReleased reports whether the buffer has been released.
func (b *Buffer) IsReleased() bool {
	return b.released
}

// Release frees the allocation and invalidates all views and the base
// address. A second release fails with ErrReleased.
func (b *Buffer) Release() error {
	if b.released {
		return ErrReleased
	}
	b.released = true
	b.views = nil
	return b.alloc.Free(b.base)
}
