package heap

import (
	"errors"
	"testing"

	"github.com/AndreyDodonov-EH/web-audio-samples/mem"
)

func newTestArena(t *testing.T) *mem.Arena {
	t.Helper()
	arena, err := mem.NewArena(mem.PageSize)
	if err != nil {
		t.Fatalf("NewArena failed: %v", err)
	}
	return arena
}

func TestNewValidation(t *testing.T) {
	arena := newTestArena(t)

	if _, err := New(nil, 16, 2); !errors.Is(err, ErrNilAllocator) {
		t.Fatalf("nil allocator error = %v, want ErrNilAllocator", err)
	}
	if _, err := New(arena, 0, 2); !errors.Is(err, ErrInvalidFrameLength) {
		t.Fatalf("zero frame length error = %v, want ErrInvalidFrameLength", err)
	}
	if _, err := New(arena, 16, 0); !errors.Is(err, ErrInvalidChannelCount) {
		t.Fatalf("zero channels error = %v, want ErrInvalidChannelCount", err)
	}
	if _, err := New(arena, 16, MaxChannelCount+1); !errors.Is(err, ErrInvalidChannelCount) {
		t.Fatalf("33 channels error = %v, want ErrInvalidChannelCount", err)
	}
	if _, err := New(arena, 16, 2, WithMaxChannels(MaxChannelCount+1)); !errors.Is(err, ErrInvalidChannelCount) {
		t.Fatalf("33 max channels error = %v, want ErrInvalidChannelCount", err)
	}
	if _, err := New(arena, 16, 4, WithMaxChannels(2)); !errors.Is(err, ErrInvalidChannelCount) {
		t.Fatalf("channels above max error = %v, want ErrInvalidChannelCount", err)
	}
}

func TestNewAtChannelCeiling(t *testing.T) {
	arena := newTestArena(t)

	b, err := New(arena, 16, MaxChannelCount)
	if err != nil {
		t.Fatalf("New with %d channels failed: %v", MaxChannelCount, err)
	}
	if b.ChannelCount() != MaxChannelCount {
		t.Fatalf("ChannelCount() = %d, want %d", b.ChannelCount(), MaxChannelCount)
	}
	for ch := 0; ch < MaxChannelCount; ch++ {
		data, err := b.ChannelData(ch)
		if err != nil {
			t.Fatalf("ChannelData(%d) failed: %v", ch, err)
		}
		if len(data) != 16 {
			t.Fatalf("ChannelData(%d) length = %d, want 16", ch, len(data))
		}
	}
}

func TestNewAllocationFailurePropagates(t *testing.T) {
	arena := newTestArena(t)

	// Two channels of a full page of frames cannot fit in a one-page arena.
	if _, err := New(arena, mem.PageSize, 2); !errors.Is(err, mem.ErrOutOfMemory) {
		t.Fatalf("oversized New error = %v, want mem.ErrOutOfMemory", err)
	}
	if arena.Used() != 0 {
		t.Fatalf("Used() = %d after failed New, want 0", arena.Used())
	}
}

func TestNewSizesForMaxChannels(t *testing.T) {
	arena := newTestArena(t)

	b, err := New(arena, 128, 2, WithMaxChannels(8))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got, want := arena.Used(), mem.ByteSize(8*128); got != want {
		t.Fatalf("Used() = %d, want %d: allocation must cover the channel ceiling", got, want)
	}
	if b.MaxChannelCount() != 8 {
		t.Fatalf("MaxChannelCount() = %d, want 8", b.MaxChannelCount())
	}
}

func TestChannelMajorLayout(t *testing.T) {
	arena := newTestArena(t)
	const frameLength = 32

	b, err := New(arena, frameLength, 3)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	base, err := b.BaseAddress()
	if err != nil {
		t.Fatalf("BaseAddress failed: %v", err)
	}

	// Each channel view must alias the arena at base + ch*frameLength
	// samples, with no bleed between neighbors.
	for ch := 0; ch < 3; ch++ {
		data, err := b.ChannelData(ch)
		if err != nil {
			t.Fatalf("ChannelData(%d) failed: %v", ch, err)
		}
		data[0] = float32(ch + 1)
		data[frameLength-1] = float32(10 * (ch + 1))

		raw, err := arena.Float32View(base+mem.Handle(mem.ByteSize(ch*frameLength)), frameLength)
		if err != nil {
			t.Fatalf("arena view for channel %d failed: %v", ch, err)
		}
		if raw[0] != float32(ch+1) || raw[frameLength-1] != float32(10*(ch+1)) {
			t.Fatalf("channel %d view does not alias channel-major memory", ch)
		}
	}

	for ch := 0; ch < 3; ch++ {
		data, _ := b.ChannelData(ch)
		if data[0] != float32(ch+1) {
			t.Fatalf("channel %d corrupted by writes to other channels", ch)
		}
	}
}

func TestNewZeroesReusedMemory(t *testing.T) {
	arena := newTestArena(t)

	h, err := arena.Alloc(mem.ByteSize(64))
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	dirty, _ := arena.Float32View(h, 64)
	for i := range dirty {
		dirty[i] = 1
	}
	if err := arena.Free(h); err != nil {
		t.Fatalf("Free failed: %v", err)
	}

	b, err := New(arena, 16, 4)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for ch := 0; ch < 4; ch++ {
		data, _ := b.ChannelData(ch)
		for i, v := range data {
			if v != 0 {
				t.Fatalf("channel %d sample %d = %v, want 0 on fresh buffer", ch, i, v)
			}
		}
	}
}

func TestAdaptChannelCount(t *testing.T) {
	arena := newTestArena(t)

	b, err := New(arena, 16, 2, WithMaxChannels(8))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	baseBefore, _ := b.BaseAddress()
	usedBefore := arena.Used()

	first, _ := b.ChannelData(0)
	first[0] = 42

	if err := b.AdaptChannelCount(5); err != nil {
		t.Fatalf("AdaptChannelCount(5) failed: %v", err)
	}
	if b.ChannelCount() != 5 {
		t.Fatalf("ChannelCount() = %d, want 5", b.ChannelCount())
	}
	if len(b.ChannelViews()) != 5 {
		t.Fatalf("ChannelViews() length = %d, want 5", len(b.ChannelViews()))
	}

	baseAfter, _ := b.BaseAddress()
	if baseAfter != baseBefore {
		t.Fatalf("BaseAddress changed on adapt: %d -> %d", baseBefore, baseAfter)
	}
	if arena.Used() != usedBefore {
		t.Fatalf("Used() changed on adapt: %d -> %d", usedBefore, arena.Used())
	}

	// Existing views and data survive the adaptation.
	if first[0] != 42 {
		t.Fatal("channel data lost on adapt")
	}
	again, _ := b.ChannelData(0)
	if again[0] != 42 {
		t.Fatal("re-fetched channel view lost data on adapt")
	}

	if err := b.AdaptChannelCount(8); err != nil {
		t.Fatalf("AdaptChannelCount to the maximum failed: %v", err)
	}
	if err := b.AdaptChannelCount(1); err != nil {
		t.Fatalf("AdaptChannelCount(1) failed: %v", err)
	}
	for _, n := range []int{0, 9} {
		if err := b.AdaptChannelCount(n); !errors.Is(err, ErrInvalidChannelCount) {
			t.Fatalf("AdaptChannelCount(%d) error = %v, want ErrInvalidChannelCount", n, err)
		}
	}
}

func TestChannelDataOutOfRange(t *testing.T) {
	arena := newTestArena(t)

	b, _ := New(arena, 16, 2, WithMaxChannels(4))
	if _, err := b.ChannelData(2); !errors.Is(err, ErrChannelIndex) {
		t.Fatalf("ChannelData beyond active count error = %v, want ErrChannelIndex", err)
	}
	if _, err := b.ChannelData(-1); !errors.Is(err, ErrChannelIndex) {
		t.Fatalf("ChannelData(-1) error = %v, want ErrChannelIndex", err)
	}
}

func TestChannelViewsAliasChannelData(t *testing.T) {
	arena := newTestArena(t)

	b, _ := New(arena, 16, 2)
	views := b.ChannelViews()
	if len(views) != 2 {
		t.Fatalf("ChannelViews() length = %d, want 2", len(views))
	}
	views[1][7] = 3
	data, _ := b.ChannelData(1)
	if data[7] != 3 {
		t.Fatal("ChannelViews and ChannelData must alias the same memory")
	}
}

func TestChannelViewsCapacityIsCapped(t *testing.T) {
	arena := newTestArena(t)

	b, _ := New(arena, 16, 2, WithMaxChannels(4))
	views := b.ChannelViews()
	if cap(views) != 2 {
		t.Fatalf("cap(ChannelViews()) = %d, want 2: appends could reach reserve views", cap(views))
	}

	// An append must land in fresh storage, so widening the buffer
	// afterwards still hands out the allocation's own zeroed view.
	foreign := make([]float32, 16)
	foreign[0] = -1
	grown := append(views, foreign)
	if len(grown) != 3 {
		t.Fatalf("append length = %d, want 3", len(grown))
	}

	if err := b.AdaptChannelCount(3); err != nil {
		t.Fatalf("AdaptChannelCount failed: %v", err)
	}
	third, err := b.ChannelData(2)
	if err != nil {
		t.Fatalf("ChannelData(2) failed: %v", err)
	}
	if third[0] != 0 {
		t.Fatalf("ChannelData(2)[0] = %v, want 0 from the allocation view", third[0])
	}
}

func TestReleaseLifecycle(t *testing.T) {
	arena := newTestArena(t)

	b, _ := New(arena, 16, 2)
	if b.IsReleased() {
		t.Fatal("IsReleased() = true before Release")
	}
	if err := b.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if !b.IsReleased() {
		t.Fatal("IsReleased() = false after Release")
	}
	if arena.Used() != 0 {
		t.Fatalf("Used() = %d after Release, want 0", arena.Used())
	}

	if err := b.Release(); !errors.Is(err, ErrReleased) {
		t.Fatalf("second Release error = %v, want ErrReleased", err)
	}
	if _, err := b.ChannelData(0); !errors.Is(err, ErrReleased) {
		t.Fatalf("ChannelData after Release error = %v, want ErrReleased", err)
	}
	if _, err := b.BaseAddress(); !errors.Is(err, ErrReleased) {
		t.Fatalf("BaseAddress after Release error = %v, want ErrReleased", err)
	}
	if err := b.AdaptChannelCount(1); !errors.Is(err, ErrReleased) {
		t.Fatalf("AdaptChannelCount after Release error = %v, want ErrReleased", err)
	}
	if b.ChannelViews() != nil {
		t.Fatal("ChannelViews() after Release should be nil")
	}
}

func TestReleaseReturnsMemoryForReuse(t *testing.T) {
	arena := newTestArena(t)

	// Fill the whole arena, release, and allocate again.
	frames, err := mem.SampleCount(mem.PageSize)
	if err != nil {
		t.Fatalf("SampleCount failed: %v", err)
	}
	b, err := New(arena, frames, 1)
	if err != nil {
		t.Fatalf("full-arena New failed: %v", err)
	}
	if _, err := New(arena, frames, 1); !errors.Is(err, mem.ErrOutOfMemory) {
		t.Fatalf("second full-arena New error = %v, want mem.ErrOutOfMemory", err)
	}
	if err := b.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	b2, err := New(arena, frames, 1)
	if err != nil {
		t.Fatalf("New after Release failed: %v", err)
	}
	if err := b2.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
}
