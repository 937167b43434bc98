package stream

import (
	"fmt"

	"github.com/AndreyDodonov-EH/web-audio-samples/audio/core"
	"github.com/AndreyDodonov-EH/web-audio-samples/audio/heap"
	"github.com/AndreyDodonov-EH/web-audio-samples/audio/ring"
	"github.com/AndreyDodonov-EH/web-audio-samples/mem"
)

// Processor feeds a kernel from a stream of render quanta. Input quanta
// queue in a ring until a full kernel block is ready; the kernel processes
// it in linear-memory buffers, and the result drains through a second ring
// one quantum per call.
type Processor struct {
	kernel   Kernel
	channels int
	quantum  int
	block    int

	input     *ring.Buffer
	output    *ring.Buffer
	kernelIn  *heap.Buffer
	kernelOut *heap.Buffer
	closed    bool
}

// NewProcessor builds a processor around kernel for the given channel
// count. The block size must be a positive multiple of the quantum size.
// Without WithAllocator, kernel-side buffers live in a private arena sized
// for exactly the two blocks.
func NewProcessor(kernel Kernel, channels int, opts ...Option) (*Processor, error) {
	if kernel == nil {
		return nil, ErrNilKernel
	}
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.QuantumFrames < 1 || cfg.BlockFrames < 1 || cfg.BlockFrames%cfg.QuantumFrames != 0 {
		return nil, fmt.Errorf("%w: block %d, quantum %d", ErrBlockGeometry, cfg.BlockFrames, cfg.QuantumFrames)
	}

	alloc := cfg.Allocator
	if alloc == nil {
		arena, err := mem.NewArena(mem.ByteSize(2 * channels * cfg.BlockFrames))
		if err != nil {
			return nil, err
		}
		alloc = arena
	}

	kernelIn, err := heap.New(alloc, cfg.BlockFrames, channels)
	if err != nil {
		return nil, err
	}
	kernelOut, err := heap.New(alloc, cfg.BlockFrames, channels)
	if err != nil {
		_ = kernelIn.Release()
		return nil, err
	}

	// One quantum of headroom keeps the rings from ever overwriting under
	// the quantum-in, quantum-out call pattern.
	capacity := cfg.BlockFrames + cfg.QuantumFrames
	input, err := ring.New(channels, capacity)
	if err != nil {
		_ = kernelIn.Release()
		_ = kernelOut.Release()
		return nil, err
	}
	output, err := ring.New(channels, capacity)
	if err != nil {
		_ = kernelIn.Release()
		_ = kernelOut.Release()
		return nil, err
	}

	return &Processor{
		kernel:    kernel,
		channels:  channels,
		quantum:   cfg.QuantumFrames,
		block:     cfg.BlockFrames,
		input:     input,
		output:    output,
		kernelIn:  kernelIn,
		kernelOut: kernelOut,
	}, nil
}

// Channels returns the channel count.
func (p *Processor) Channels() int {
	return p.channels
}

// QuantumFrames returns the frames exchanged per Process call.
func (p *Processor) QuantumFrames() int {
	return p.quantum
}

// BlockFrames returns the kernel-side block size.
func (p *Processor) BlockFrames() int {
	return p.block
}

// Latency returns the constant pipeline delay in frames between a sample
// entering Process and leaving it.
func (p *Processor) Latency() int {
	return p.block - p.quantum
}

// Process advances the stream by exactly one render quantum: src is queued,
// complete kernel blocks are processed, and dst receives the oldest
// processed quantum. While the pipeline is priming, dst frames beyond the
// processed data are zeroed.
func (p *Processor) Process(dst, src [][]float32) error {
	if p.closed {
		return ErrClosed
	}
	frames, err := blockShape(dst, src)
	if err != nil {
		return err
	}
	if len(src) != p.channels || frames != p.quantum {
		return fmt.Errorf("%w: got %d frames on %d channels, want %d on %d",
			ErrBadQuantum, frames, len(src), p.quantum, p.channels)
	}

	if _, err := p.input.Push(src); err != nil {
		return err
	}

	for p.input.FramesAvailable() >= p.block {
		if _, err := p.input.Pull(p.kernelIn.ChannelViews()); err != nil {
			return err
		}
		if err := p.kernel.ProcessBlock(p.kernelOut.ChannelViews(), p.kernelIn.ChannelViews()); err != nil {
			return fmt.Errorf("stream: kernel failed: %w", err)
		}
		if _, err := p.output.Push(p.kernelOut.ChannelViews()); err != nil {
			return err
		}
	}

	ready, err := p.output.Pull(dst)
	if err != nil {
		return err
	}
	for _, ch := range dst {
		core.Zero(ch[ready:])
	}
	return nil
}

// Reset drops all queued and processed frames and clears kernel state for
// kernels that carry any. The pipeline primes from silence again.
func (p *Processor) Reset() {
	p.input.Reset()
	p.output.Reset()
	if r, ok := p.kernel.(interface{ Reset() }); ok {
		r.Reset()
	}
}

// Close releases the kernel-side buffers. Further Process calls fail with
// ErrClosed. Close is idempotent.
func (p *Processor) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	errIn := p.kernelIn.Release()
	errOut := p.kernelOut.Release()
	if errIn != nil {
		return errIn
	}
	return errOut
}
