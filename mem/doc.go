// Package mem provides a fixed-size linear memory arena with explicit
// allocation handles and bounds-checked typed views.
//
// The arena models the flat byte-addressed memory shared with native audio
// kernels. Allocations return stable byte offsets rather than pointers, and
// sample data is accessed through float32 views constructed once per block.
// All view validation happens at construction time, so the views themselves
// are plain slices with no per-access cost.
//
// # Usage
//
//	arena, err := mem.NewArena(1 << 20)
//	h, err := arena.Alloc(mem.ByteSize(1024))
//	view, err := arena.Float32View(h, 1024)
package mem
