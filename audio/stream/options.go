package stream

import "github.com/AndreyDodonov-EH/web-audio-samples/audio/heap"

// DefaultQuantumFrames is the frame count of one render boundary call.
const DefaultQuantumFrames = 128

// DefaultBlockFrames is the default kernel-side block size.
const DefaultBlockFrames = 1024

// Config defines processor buffering geometry and memory placement.
type Config struct {
	QuantumFrames int
	BlockFrames   int
	Allocator     heap.Allocator
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the standard render-quantum geometry with a private
// arena for kernel-side buffers.
func DefaultConfig() Config {
	return Config{
		QuantumFrames: DefaultQuantumFrames,
		BlockFrames:   DefaultBlockFrames,
	}
}

// WithQuantumFrames sets the frame count exchanged per Process call.
func WithQuantumFrames(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.QuantumFrames = n
		}
	}
}

// WithBlockFrames sets the kernel-side block size.
func WithBlockFrames(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.BlockFrames = n
		}
	}
}

// WithAllocator places kernel-side buffers in the given allocator instead
// of a private arena.
func WithAllocator(a heap.Allocator) Option {
	return func(cfg *Config) {
		if a != nil {
			cfg.Allocator = a
		}
	}
}
