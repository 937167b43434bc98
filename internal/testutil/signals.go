package testutil

import "math/rand"

// RampBlock generates a multichannel block whose samples encode channel
// and absolute frame position: channel ch at frame i holds ch*1000+start+i.
// Blocks produced with advancing start values form one continuous ramp per
// channel, so reordering, loss, and stale reads show up in failures.
func RampBlock(channels, frames, start int) [][]float32 {
	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = make([]float32, frames)
		for i := range out[ch] {
			out[ch][i] = float32(ch*1000 + start + i)
		}
	}
	return out
}

// NoiseBlock generates a multichannel block of white noise in [-1, 1) with
// a fixed seed for reproducibility.
func NoiseBlock(seed int64, channels, frames int) [][]float32 {
	rng := rand.New(rand.NewSource(seed))
	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = make([]float32, frames)
		for i := range out[ch] {
			out[ch][i] = float32(rng.Float64()*2 - 1)
		}
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}
