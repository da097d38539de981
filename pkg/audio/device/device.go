// Package device provides microphone sources and speaker sinks.
//
// A Source delivers mono float32 sample frames from an input device; a
// Sink plays little-endian PCM16 bytes on an output device. The default
// implementations shell out to ffmpeg (capture) and ffplay (playback) so
// no CGO audio bindings are required. Memory-backed implementations are
// provided for tests.
package device

import "errors"

// ErrClosed is returned by reads and writes on a closed device.
var ErrClosed = errors.New("device: closed")

// Source delivers mono float32 samples in [-1.0, 1.0] from an input
// device at a fixed sample rate.
type Source interface {
	// ReadFrame fills frame with captured samples and returns the number
	// of samples read. It blocks until at least one sample is available.
	ReadFrame(frame []float32) (int, error)

	// SampleRate returns the rate the source delivers, in Hz.
	SampleRate() int

	// Close releases the input device. It is safe to call more than once.
	Close() error
}

// Sink plays mono little-endian PCM16 audio on an output device.
type Sink interface {
	// Write queues pcm bytes for playback. The write is expected to be
	// fast; the device buffers internally.
	Write(pcm []byte) error

	// SampleRate returns the rate the sink plays at, in Hz.
	SampleRate() int

	// Close releases the output device. It is safe to call more than once.
	Close() error
}
