package mem

import (
	"fmt"
	"sort"
)

// span is a contiguous free byte range inside an arena.
type span struct {
	off  int
	size int
}

// Arena is a fixed-size linear memory with explicit allocation bookkeeping.
// It stands in for a memory region shared with native kernels: allocations
// hand out stable byte offsets instead of pointers, and sample data is read
// and written through bounds-checked float32 views.
//
// An Arena is not safe for concurrent use.
type Arena struct {
	words  []float32
	free   []span         // sorted by offset, pairwise non-adjacent
	blocks map[Handle]int // live allocation byte sizes keyed by base offset
}

// maxArenaBytes caps an arena at the 32-bit space a Handle can address.
const maxArenaBytes = 1 << 32

// NewArena returns an arena of at least byteSize bytes, rounded up to a
// whole number of pages. Arenas larger than the Handle address space are
// rejected.
func NewArena(byteSize int) (*Arena, error) {
	if byteSize < 1 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidSize, byteSize)
	}
	if uint64(byteSize) > maxArenaBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds the handle space", ErrInvalidSize, byteSize)
	}
	pages := (byteSize + PageSize - 1) / PageSize
	total := pages * PageSize
	return &Arena{
		words:  make([]float32, total/SampleSize),
		free:   []span{{off: 0, size: total}},
		blocks: make(map[Handle]int),
	}, nil
}

// Size returns the arena capacity in bytes.
func (a *Arena) Size() int {
	return len(a.words) * SampleSize
}

// Used returns the number of bytes held by live allocations.
func (a *Arena) Used() int {
	used := 0
	for _, size := range a.blocks {
		used += size
	}
	return used
}

// Alloc reserves byteSize bytes and returns the base offset of the block.
// Reservations are rounded up so every block starts sample aligned.
// Fails with ErrOutOfMemory when no free span can hold the request.
func (a *Arena) Alloc(byteSize int) (Handle, error) {
	if byteSize < 1 {
		return 0, fmt.Errorf("%w: %d bytes", ErrInvalidSize, byteSize)
	}
	need := roundUp(byteSize, SampleSize)
	for i, s := range a.free {
		if s.size < need {
			continue
		}
		h := Handle(s.off)
		if s.size == need {
			a.free = append(a.free[:i], a.free[i+1:]...)
		} else {
			a.free[i] = span{off: s.off + need, size: s.size - need}
		}
		a.blocks[h] = need
		return h, nil
	}
	return 0, fmt.Errorf("%w: %d bytes requested", ErrOutOfMemory, byteSize)
}

// Free returns a block to the arena. The handle must be the base offset of a
// live allocation; anything else, including a second free, fails with
// ErrBadHandle.
func (a *Arena) Free(h Handle) error {
	size, ok := a.blocks[h]
	if !ok {
		return fmt.Errorf("%w: %d", ErrBadHandle, h)
	}
	delete(a.blocks, h)
	a.insertFree(span{off: int(h), size: size})
	return nil
}

// insertFree adds s to the free list, merging with adjacent spans.
func (a *Arena) insertFree(s span) {
	i := sort.Search(len(a.free), func(k int) bool { return a.free[k].off > s.off })
	a.free = append(a.free, span{})
	copy(a.free[i+1:], a.free[i:])
	a.free[i] = s

	if i+1 < len(a.free) && a.free[i].off+a.free[i].size == a.free[i+1].off {
		a.free[i].size += a.free[i+1].size
		a.free = append(a.free[:i+1], a.free[i+2:]...)
	}
	if i > 0 && a.free[i-1].off+a.free[i-1].size == a.free[i].off {
		a.free[i-1].size += a.free[i].size
		a.free = append(a.free[:i], a.free[i+1:]...)
	}
}

// Float32View returns a typed view of samples float32 values starting at h.
// The handle must be sample aligned and the view must lie entirely inside a
// single live allocation. The returned slice aliases arena memory; its
// capacity is capped so growth cannot spill into neighboring blocks.
func (a *Arena) Float32View(h Handle, samples int) ([]float32, error) {
	if samples < 1 {
		return nil, fmt.Errorf("%w: %d samples", ErrInvalidSize, samples)
	}
	off := int(h)
	if off%SampleSize != 0 {
		return nil, fmt.Errorf("%w: offset %d", ErrMisaligned, off)
	}
	end := off + samples*SampleSize
	if !a.contains(off, end) {
		return nil, fmt.Errorf("%w: [%d, %d)", ErrViewBounds, off, end)
	}
	lo := off / SampleSize
	hi := end / SampleSize
	return a.words[lo:hi:hi], nil
}

// contains reports whether the byte range [off, end) lies inside one live
// allocation.
func (a *Arena) contains(off, end int) bool {
	for base, size := range a.blocks {
		b := int(base)
		if off >= b && end <= b+size {
			return true
		}
	}
	return false
}

// roundUp rounds n up to the next multiple of m.
func roundUp(n, m int) int {
	return (n + m - 1) / m * m
}
