package ring

import (
	"errors"
	"fmt"

	"github.com/AndreyDodonov-EH/web-audio-samples/audio/core"
)

// Errors returned by ring buffer operations.
var (
	ErrInvalidChannels = errors.New("ring: channel count must be >= 1")
	ErrInvalidCapacity = errors.New("ring: capacity must be >= 1")
	ErrChannelMismatch = errors.New("ring: block channel count mismatch")
	ErrRaggedBlock     = errors.New("ring: channels differ in frame count")
	ErrBlockTooLarge   = errors.New("ring: frame count exceeds capacity")
)

// Buffer is a circular multichannel FIFO with a fixed frame capacity.
// All channels share one pair of read/write cursors, so frames stay
// aligned across channels.
type Buffer struct {
	channels   int
	capacity   int
	readIndex  int
	writeIndex int
	available  int
	data       [][]float32
}

// New returns an empty buffer holding up to capacity frames per channel.
func New(channels, capacity int) (*Buffer, error) {
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}
	if capacity < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	return &Buffer{
		channels: channels,
		capacity: capacity,
		data:     core.MakeBlock(channels, capacity),
	}, nil
}

// Channels returns the channel count fixed at construction.
func (b *Buffer) Channels() int {
	return b.channels
}

// Capacity returns the frame capacity per channel.
func (b *Buffer) Capacity() int {
	return b.capacity
}

// FramesAvailable returns the number of unread frames, saturated at the
// capacity.
func (b *Buffer) FramesAvailable() int {
	return b.available
}

// Push writes one block of frames at the write cursor, wrapping at the
// capacity. The write always completes: when fewer free frames remain than
// the block holds, the oldest unread frames are overwritten and the read
// cursor stays where it is. The returned count is the number of frames
// stored without displacing unread data.
//
// The block must match the channel count, carry equal frames per channel,
// and hold at most Capacity frames.
func (b *Buffer) Push(block [][]float32) (int, error) {
	frames, err := b.checkShape(block)
	if err != nil {
		return 0, err
	}
	if frames == 0 {
		return 0, nil
	}

	stored := frames
	if free := b.capacity - b.available; stored > free {
		stored = free
	}

	first := b.capacity - b.writeIndex
	if first > frames {
		first = frames
	}
	for ch, src := range block {
		dst := b.data[ch]
		copy(dst[b.writeIndex:b.writeIndex+first], src[:first])
		copy(dst[:frames-first], src[first:])
	}

	b.writeIndex = (b.writeIndex + frames) % b.capacity
	b.available += frames
	if b.available > b.capacity {
		b.available = b.capacity
	}
	return stored, nil
}

// Pull copies frames from the read cursor into dst, wrapping at the
// capacity. When no unread frames exist the destination is left untouched
// and Pull returns 0. Otherwise every destination frame is filled, even
// beyond the unread count; the returned value reports how many of the
// leading frames carried unread data. The unread count saturates at zero.
//
// The destination must match the channel count, carry equal frames per
// channel, and hold at most Capacity frames.
func (b *Buffer) Pull(dst [][]float32) (int, error) {
	frames, err := b.checkShape(dst)
	if err != nil {
		return 0, err
	}
	if frames == 0 || b.available == 0 {
		return 0, nil
	}

	valid := frames
	if valid > b.available {
		valid = b.available
	}

	first := b.capacity - b.readIndex
	if first > frames {
		first = frames
	}
	for ch, out := range dst {
		src := b.data[ch]
		copy(out[:first], src[b.readIndex:b.readIndex+first])
		copy(out[first:], src[:frames-first])
	}

	b.readIndex = (b.readIndex + frames) % b.capacity
	b.available -= frames
	if b.available < 0 {
		b.available = 0
	}
	return valid, nil
}

// Reset clears all stored frames and rewinds both cursors.
func (b *Buffer) Reset() {
	core.ZeroBlock(b.data)
	b.readIndex = 0
	b.writeIndex = 0
	b.available = 0
}

// checkShape validates a push or pull block and returns its frame count.
func (b *Buffer) checkShape(block [][]float32) (int, error) {
	if len(block) != b.channels {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrChannelMismatch, len(block), b.channels)
	}
	frames, ok := core.Frames(block)
	if !ok {
		return 0, ErrRaggedBlock
	}
	if frames > b.capacity {
		return 0, fmt.Errorf("%w: %d > %d", ErrBlockTooLarge, frames, b.capacity)
	}
	return frames, nil
}
