package cli

import "sync"

// Transcript is a bounded, thread-safe tail of conversation lines for
// the live view. Old lines are evicted once the capacity is reached.
type Transcript struct {
	mu    sync.Mutex
	lines []string
	max   int
}

// NewTranscript creates a transcript keeping at most max lines.
func NewTranscript(max int) *Transcript {
	if max <= 0 {
		max = 100
	}
	return &Transcript{max: max}
}

// Add appends a line, evicting the oldest when full.
func (t *Transcript) Add(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
	if len(t.lines) > t.max {
		t.lines = t.lines[len(t.lines)-t.max:]
	}
}

// AppendToLast extends the most recent line, starting one if empty.
// Used for streamed text fragments.
func (t *Transcript) AppendToLast(fragment string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.lines) == 0 {
		t.lines = []string{fragment}
		return
	}
	t.lines[len(t.lines)-1] += fragment
}

// Lines returns a copy of the current tail.
func (t *Transcript) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.lines...)
}
