package stream

import "fmt"

// MovingAverage is a length-w averaging kernel with per-channel history, so
// the average stays continuous across block boundaries. Frames before the
// start of the stream count as silence.
type MovingAverage struct {
	window  int
	head    int
	history [][]float32 // previous window-1 raw inputs per channel
	sums    []float64   // running history sums, kept wide for exactness
}

// NewMovingAverage returns an averaging kernel bound to a channel count.
func NewMovingAverage(channels, window int) (*MovingAverage, error) {
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}
	if window < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindow, window)
	}
	history := make([][]float32, channels)
	for ch := range history {
		history[ch] = make([]float32, window-1)
	}
	return &MovingAverage{
		window:  window,
		history: history,
		sums:    make([]float64, channels),
	}, nil
}

// Window returns the averaging length in frames.
func (m *MovingAverage) Window() int {
	return m.window
}

// ProcessBlock writes the moving average of the input stream into dst.
// The block's channel count must match the kernel's.
func (m *MovingAverage) ProcessBlock(dst, src [][]float32) error {
	frames, err := blockShape(dst, src)
	if err != nil {
		return err
	}
	if len(src) != len(m.history) {
		return fmt.Errorf("%w: got %d channels, want %d", ErrShapeMismatch, len(src), len(m.history))
	}
	if m.window == 1 {
		for ch := range src {
			copy(dst[ch], src[ch])
		}
		return nil
	}
	if frames == 0 {
		return nil
	}

	inv := 1 / float64(m.window)
	span := m.window - 1
	for ch := range src {
		in, out := src[ch], dst[ch]
		h := m.history[ch]
		head := m.head
		sum := m.sums[ch]
		for i := range in {
			x := float64(in[i])
			y := (sum + x) * inv
			sum += x - float64(h[head])
			h[head] = in[i]
			head++
			if head == span {
				head = 0
			}
			// Write after all reads so dst may alias src.
			out[i] = float32(y)
		}
		m.sums[ch] = sum
	}
	m.head = (m.head + frames) % span
	return nil
}

// Reset clears the history so the next block starts from silence.
func (m *MovingAverage) Reset() {
	for _, h := range m.history {
		for i := range h {
			h[i] = 0
		}
	}
	for i := range m.sums {
		m.sums[i] = 0
	}
	m.head = 0
}
