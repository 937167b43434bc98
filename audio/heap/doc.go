// Package heap provides channel-addressed float32 buffers laid out in
// linear memory for zero-copy exchange with native audio kernels.
//
// A Buffer owns one contiguous channel-major allocation: all frames of
// channel 0, then all frames of channel 1, and so on. Per-channel views are
// constructed once, with bounds checked against the allocation, and alias
// the underlying memory directly; writing through a view is writing the
// memory a native kernel reads.
//
// The allocation is sized for the maximum channel count up front, so the
// active channel count can move anywhere below that ceiling without
// reallocating or invalidating the base address. Release returns the
// allocation to its arena exactly once and invalidates every view.
//
// # Usage
//
//	arena, err := mem.NewArena(mem.PageSize)
//	buf, err := heap.New(arena, 128, 2, heap.WithMaxChannels(8))
//	left, err := buf.ChannelData(0)
//	defer buf.Release()
package heap
