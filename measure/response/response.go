package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/AndreyDodonov-EH/web-audio-samples/audio/core"
	"github.com/AndreyDodonov-EH/web-audio-samples/audio/stream"
)

// Errors returned by response measurement functions.
var (
	ErrNilKernel       = errors.New("response: kernel is nil")
	ErrInvalidChannels = errors.New("response: channel count must be >= 1")
	ErrInvalidFrames   = errors.New("response: frame count must be >= 1")
	ErrInvalidFFTSize  = errors.New("response: fft size must be a power of two >= 2")
)

// dbFloor is the level reported for silent bins.
const dbFloor = -200

// Analyzer measures kernel responses at a given sample rate.
type Analyzer struct {
	SampleRate float64
}

// NewAnalyzer creates an analyzer with the given sample rate.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{SampleRate: sampleRate}
}

// ImpulseResponse drives k with a unit impulse on every channel and returns
// the first frames samples of the response per channel, widened to float64.
// Kernels carrying inter-block state are reset before measurement.
func (a *Analyzer) ImpulseResponse(k stream.Kernel, channels, frames int) ([][]float64, error) {
	if k == nil {
		return nil, ErrNilKernel
	}
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}
	if frames < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFrames, frames)
	}
	if r, ok := k.(interface{ Reset() }); ok {
		r.Reset()
	}

	impulse := core.MakeBlock(channels, frames)
	for ch := range impulse {
		impulse[ch][0] = 1
	}
	resp := core.MakeBlock(channels, frames)
	if err := k.ProcessBlock(resp, impulse); err != nil {
		return nil, fmt.Errorf("response: kernel failed: %w", err)
	}

	ir := make([][]float64, channels)
	for ch := range resp {
		ir[ch] = make([]float64, frames)
		for i, v := range resp[ch] {
			ir[ch][i] = float64(v)
		}
	}
	return ir, nil
}

// Magnitude returns |H(f)| per channel over bins 0..fftSize/2, measured
// from an impulse response of fftSize frames.
func (a *Analyzer) Magnitude(k stream.Kernel, channels, fftSize int) ([][]float64, error) {
	return a.spectrum(k, channels, fftSize, vecmath.Magnitude)
}

// Power returns |H(f)|^2 per channel over bins 0..fftSize/2.
func (a *Analyzer) Power(k stream.Kernel, channels, fftSize int) ([][]float64, error) {
	return a.spectrum(k, channels, fftSize, vecmath.Power)
}

// MagnitudeDB returns 20*log10 |H(f)| per channel over bins 0..fftSize/2.
// Silent bins report the -200 dB floor.
func (a *Analyzer) MagnitudeDB(k stream.Kernel, channels, fftSize int) ([][]float64, error) {
	mag, err := a.Magnitude(k, channels, fftSize)
	if err != nil {
		return nil, err
	}
	for _, bins := range mag {
		for i, v := range bins {
			if v <= 0 {
				bins[i] = dbFloor
			} else {
				bins[i] = 20 * math.Log10(v)
			}
		}
	}
	return mag, nil
}

// BinFrequency returns the center frequency in Hz of an FFT bin.
// SampleRate must be positive.
func (a *Analyzer) BinFrequency(bin, fftSize int) float64 {
	if fftSize <= 0 {
		return 0
	}
	return a.SampleRate * float64(bin) / float64(fftSize)
}

// spectrum measures the impulse response and maps its spectrum bins through
// combine (magnitude or power) per channel.
func (a *Analyzer) spectrum(k stream.Kernel, channels, fftSize int, combine func(out, re, im []float64)) ([][]float64, error) {
	if !isPowerOf2(fftSize) || fftSize < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, fftSize)
	}
	ir, err := a.ImpulseResponse(k, channels, fftSize)
	if err != nil {
		return nil, err
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("response: failed to create FFT plan: %w", err)
	}

	bins := fftSize/2 + 1
	timeDomain := make([]complex128, fftSize)
	freqDomain := make([]complex128, fftSize)
	re := make([]float64, bins)
	im := make([]float64, bins)

	out := make([][]float64, channels)
	for ch, h := range ir {
		for i, v := range h {
			timeDomain[i] = complex(v, 0)
		}
		if err := plan.Forward(freqDomain, timeDomain); err != nil {
			return nil, fmt.Errorf("response: forward FFT failed: %w", err)
		}
		for i := 0; i < bins; i++ {
			re[i] = real(freqDomain[i])
			im[i] = imag(freqDomain[i])
		}
		out[ch] = make([]float64, bins)
		combine(out[ch], re, im)
	}
	return out, nil
}

// isPowerOf2 returns true if n is a power of 2.
func isPowerOf2(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
