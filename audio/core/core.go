package core

// MakeBlock returns a channel-major block of float32 samples backed by one
// contiguous allocation. Each channel slice is capped so it cannot grow into
// its neighbor.
func MakeBlock(channels, frames int) [][]float32 {
	if channels < 1 || frames < 0 {
		return nil
	}
	backing := make([]float32, channels*frames)
	block := make([][]float32, channels)
	for ch := range block {
		lo := ch * frames
		hi := lo + frames
		block[ch] = backing[lo:hi:hi]
	}
	return block
}

// Frames returns the per-channel frame count of block. ok is false when the
// channels differ in length.
func Frames(block [][]float32) (frames int, ok bool) {
	if len(block) == 0 {
		return 0, true
	}
	frames = len(block[0])
	for _, ch := range block[1:] {
		if len(ch) != frames {
			return 0, false
		}
	}
	return frames, true
}

// ZeroBlock sets every sample in block to 0.
func ZeroBlock(block [][]float32) {
	for _, ch := range block {
		for i := range ch {
			ch[i] = 0
		}
	}
}

// CopyBlock copies src into dst channel by channel and returns the number of
// frames copied per channel, limited by the smaller shape.
func CopyBlock(dst, src [][]float32) int {
	channels := len(dst)
	if len(src) < channels {
		channels = len(src)
	}
	frames := -1
	for ch := 0; ch < channels; ch++ {
		n := copy(dst[ch], src[ch])
		if frames < 0 || n < frames {
			frames = n
		}
	}
	if frames < 0 {
		return 0
	}
	return frames
}

// Zero sets all values in buf to 0.
func Zero(buf []float32) {
	for i := range buf {
		buf[i] = 0
	}
}
