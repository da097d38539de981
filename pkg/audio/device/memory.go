package device

import (
	"io"
	"sync"
)

// MemorySource is a Source backed by an in-memory sample buffer. It is
// used by tests and dry runs in place of a real microphone.
type MemorySource struct {
	rate int

	mu      sync.Mutex
	samples []float32
	pos     int
	closed  bool
}

// NewMemorySource creates a MemorySource delivering the given samples at
// the given rate.
func NewMemorySource(rate int, samples []float32) *MemorySource {
	return &MemorySource{rate: rate, samples: samples}
}

// SampleRate returns the configured rate.
func (s *MemorySource) SampleRate() int { return s.rate }

// ReadFrame copies the next chunk of samples into frame. It returns
// io.EOF when the buffer is exhausted.
func (s *MemorySource) ReadFrame(frame []float32) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	if s.pos >= len(s.samples) {
		return 0, io.EOF
	}
	n := copy(frame, s.samples[s.pos:])
	s.pos += n
	return n, nil
}

// Close marks the source closed.
func (s *MemorySource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// MemorySink is a Sink that records written PCM bytes.
type MemorySink struct {
	rate int

	mu     sync.Mutex
	data   []byte
	writes int
	closed bool
}

// NewMemorySink creates a MemorySink at the given rate.
func NewMemorySink(rate int) *MemorySink {
	return &MemorySink{rate: rate}
}

// SampleRate returns the configured rate.
func (s *MemorySink) SampleRate() int { return s.rate }

// Write records pcm.
func (s *MemorySink) Write(pcm []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.data = append(s.data, pcm...)
	s.writes++
	return nil
}

// Bytes returns a copy of everything written so far.
func (s *MemorySink) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out
}

// Writes returns the number of Write calls observed.
func (s *MemorySink) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Close marks the sink closed.
func (s *MemorySink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
