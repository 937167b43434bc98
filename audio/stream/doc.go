// Package stream adapts fixed-size render quanta to kernels that process
// larger blocks.
//
// Audio render boundaries deliver a fixed number of frames per call, while
// native kernels often want a bigger block. A Processor bridges the two
// with a pair of multichannel FIFOs around the kernel: incoming quanta
// accumulate until a full kernel block is ready, the kernel runs over
// linear-memory buffers, and processed frames drain back out one quantum
// per call. The cost is a constant pipeline latency of
// BlockFrames - QuantumFrames; until the pipeline is primed, output frames
// are silence.
//
// Process neither allocates nor blocks once the processor is constructed.
//
// # Usage
//
//	p, err := stream.NewProcessor(stream.Gain{Level: 0.5}, 2,
//		stream.WithBlockFrames(512))
//	defer p.Close()
//
//	err = p.Process(out, in) // once per render quantum
package stream
