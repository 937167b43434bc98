// Package ring provides a fixed-capacity multichannel FIFO for float32
// sample frames.
//
// The buffer decouples producer and consumer block sizes: a producer can
// push render quanta while a consumer pulls larger kernel blocks, or the
// other way around. Frames advance in lock step across all channels.
//
// Overflow follows overwrite semantics. A push always completes, discarding
// the oldest frames when unread data is displaced; the return value reports
// how many frames landed without displacing anything. Pulling from an empty
// buffer leaves the destination untouched.
//
// Push and Pull never allocate or block. A Buffer is not safe for
// concurrent use; callers sharing one across goroutines own the
// serialization.
//
// # Usage
//
//	rb, err := ring.New(2, 1024)
//	stored, err := rb.Push(quantum)   // 128 frames in
//	valid, err := rb.Pull(kernelIn)   // 512 frames out, once enough accumulated
package ring
