package duplex

import (
	"context"
	"errors"
	"iter"
	"sync"
	"testing"
	"time"

	"github.com/genstudio/genstudio/pkg/audio/device"
	"github.com/genstudio/genstudio/pkg/audio/pcm"
	"github.com/genstudio/genstudio/pkg/live"
)

// fakeSession is an in-memory Session for pipeline tests.
type fakeSession struct {
	mu     sync.Mutex
	chunks [][]byte
	mimes  []string
	texts  []string
	closes int

	events chan *live.Event
	done   chan struct{}
	once   sync.Once
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		events: make(chan *live.Event, 100),
		done:   make(chan struct{}),
	}
}

func (s *fakeSession) SendMedia(mimeType string, data []byte) error {
	select {
	case <-s.done:
		return errors.New("closed")
	default:
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.chunks = append(s.chunks, buf)
	s.mimes = append(s.mimes, mimeType)
	return nil
}

func (s *fakeSession) SendText(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
	return nil
}

func (s *fakeSession) Recv() iter.Seq2[*live.Event, error] {
	return func(yield func(*live.Event, error) bool) {
		for {
			select {
			case event, ok := <-s.events:
				if !ok {
					return
				}
				if !yield(event, nil) {
					return
				}
			case <-s.done:
				return
			}
		}
	}
}

func (s *fakeSession) Close() error {
	s.once.Do(func() { close(s.done) })
	s.mu.Lock()
	s.closes++
	s.mu.Unlock()
	return nil
}

func (s *fakeSession) sentChunks() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.chunks...)
}

func (s *fakeSession) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

func dialFake(sess *fakeSession) DialFunc {
	return func(ctx context.Context) (Session, error) {
		return sess, nil
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestPipelineStreamsCapture(t *testing.T) {
	samples := make([]float32, 3*DefaultFrameSize)
	for i := range samples {
		samples[i] = 0.5
	}
	sess := newFakeSession()
	pipe := New(Config{
		Dial:   dialFake(sess),
		Source: device.NewMemorySource(16000, samples),
		Sink:   device.NewMemorySink(24000),
	})
	pipe.sleep = func(time.Duration) {}

	if err := pipe.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer pipe.Disconnect()

	if got := pipe.State(); got != StateLive {
		t.Fatalf("state = %v, want live", got)
	}

	waitFor(t, func() bool { return len(sess.sentChunks()) == 3 })

	for i, chunk := range sess.sentChunks() {
		if len(chunk) != DefaultFrameSize*2 {
			t.Errorf("chunk %d: %d bytes, want %d", i, len(chunk), DefaultFrameSize*2)
		}
	}
	sess.mu.Lock()
	mime := sess.mimes[0]
	sess.mu.Unlock()
	if mime != "audio/pcm;rate=16000" {
		t.Errorf("mime = %q", mime)
	}
	if pipe.Level() == 0 {
		t.Error("capture level never updated")
	}
}

func TestPipelineSingleActiveSession(t *testing.T) {
	sess := newFakeSession()
	pipe := New(Config{
		Dial:   dialFake(sess),
		Source: device.NewMemorySource(16000, nil),
		Sink:   device.NewMemorySink(24000),
	})
	if err := pipe.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer pipe.Disconnect()

	if err := pipe.Connect(context.Background()); !errors.Is(err, ErrActive) {
		t.Fatalf("second connect: %v, want ErrActive", err)
	}
	if sess.closeCount() != 0 {
		t.Error("rejected connect must not touch the active session")
	}
}

func TestPipelineDisconnectIdempotent(t *testing.T) {
	sess := newFakeSession()
	pipe := New(Config{
		Dial:   dialFake(sess),
		Source: device.NewMemorySource(16000, nil),
		Sink:   device.NewMemorySink(24000),
	})
	if err := pipe.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if err := pipe.Disconnect(); err != nil {
			t.Fatalf("disconnect %d: %v", i, err)
		}
	}
	if got := pipe.State(); got != StateDisconnected {
		t.Errorf("state = %v, want disconnected", got)
	}
	if got := sess.closeCount(); got == 0 {
		t.Error("session never closed")
	}

	// Disconnect with no session at all is also a no-op.
	fresh := New(Config{
		Dial:   dialFake(newFakeSession()),
		Source: device.NewMemorySource(16000, nil),
		Sink:   device.NewMemorySink(24000),
	})
	if err := fresh.Disconnect(); err != nil {
		t.Fatal(err)
	}
}

func TestPipelinePlaysChunksInOrder(t *testing.T) {
	sess := newFakeSession()
	sink := device.NewMemorySink(24000)
	pipe := New(Config{
		Dial:   dialFake(sess),
		Source: device.NewMemorySource(16000, nil),
		Sink:   sink,
	})
	pipe.sleep = func(time.Duration) {}

	if err := pipe.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer pipe.Disconnect()

	want := []byte{}
	for i := 0; i < 4; i++ {
		chunk := make([]byte, 480) // 10 ms at 24 kHz
		for j := range chunk {
			chunk[j] = byte(i)
		}
		want = append(want, chunk...)
		sess.events <- &live.Event{Type: live.EventAudio, Audio: chunk, MIMEType: "audio/pcm;rate=24000"}
	}

	waitFor(t, func() bool { return sink.Writes() == 4 })
	got := sink.Bytes()
	if len(got) != len(want) {
		t.Fatalf("sink has %d bytes, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %d, want %d (chunks out of order)", i, got[i], want[i])
		}
	}
}

func TestPipelineDropsMalformedChunks(t *testing.T) {
	sess := newFakeSession()
	sink := device.NewMemorySink(24000)
	pipe := New(Config{
		Dial:   dialFake(sess),
		Source: device.NewMemorySource(16000, nil),
		Sink:   sink,
	})
	pipe.sleep = func(time.Duration) {}

	if err := pipe.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer pipe.Disconnect()

	sess.events <- &live.Event{Type: live.EventAudio, Audio: []byte{1, 2, 3}, MIMEType: "audio/pcm;rate=24000"}
	sess.events <- &live.Event{Type: live.EventAudio, Audio: nil, MIMEType: "audio/pcm;rate=24000"}
	sess.events <- &live.Event{Type: live.EventAudio, Audio: []byte{1, 2, 3, 4}, MIMEType: "image/png"}
	valid := []byte{9, 9, 9, 9}
	sess.events <- &live.Event{Type: live.EventAudio, Audio: valid, MIMEType: "audio/pcm;rate=24000"}

	waitFor(t, func() bool { return sink.Writes() == 1 })
	got := sink.Bytes()
	if len(got) != len(valid) || got[0] != 9 {
		t.Errorf("sink = %v, want only the valid chunk", got)
	}
	if pipe.State() != StateLive {
		t.Errorf("state = %v, malformed chunks must not kill the session", pipe.State())
	}
}

func TestPipelineMaxAheadDropsNewest(t *testing.T) {
	sess := newFakeSession()
	sink := device.NewMemorySink(24000)
	pipe := New(Config{
		Dial:     dialFake(sess),
		Source:   device.NewMemorySource(16000, nil),
		Sink:     sink,
		MaxAhead: 100 * time.Millisecond,
	})
	pipe.sleep = func(time.Duration) {}

	if err := pipe.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer pipe.Disconnect()

	// 80 ms fits the bound, a second 80 ms chunk would extend the
	// horizon past it and gets dropped.
	chunk := make([]byte, pcm.L16Mono24K.BytesInDuration(80*time.Millisecond))
	sess.events <- &live.Event{Type: live.EventAudio, Audio: chunk, MIMEType: "audio/pcm;rate=24000"}
	sess.events <- &live.Event{Type: live.EventAudio, Audio: chunk, MIMEType: "audio/pcm;rate=24000"}
	waitFor(t, func() bool { return sink.Writes() >= 1 })
	// Give the second chunk a chance to land if the bound were broken.
	time.Sleep(50 * time.Millisecond)
	if got := sink.Writes(); got != 1 {
		t.Errorf("sink writes = %d, want 1 (over-horizon chunk dropped)", got)
	}
}

func TestPipelineInterruptResetsHorizon(t *testing.T) {
	sess := newFakeSession()
	sink := device.NewMemorySink(24000)

	var mu sync.Mutex
	var waits []time.Duration

	pipe := New(Config{
		Dial:   dialFake(sess),
		Source: device.NewMemorySource(16000, nil),
		Sink:   sink,
	})
	pipe.sleep = func(d time.Duration) {
		mu.Lock()
		waits = append(waits, d)
		mu.Unlock()
	}

	if err := pipe.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer pipe.Disconnect()

	long := make([]byte, pcm.L16Mono24K.BytesInDuration(2*time.Second))
	sess.events <- &live.Event{Type: live.EventAudio, Audio: long, MIMEType: "audio/pcm;rate=24000"}
	sess.events <- &live.Event{Type: live.EventInterrupted}
	short := make([]byte, pcm.L16Mono24K.BytesInDuration(20*time.Millisecond))
	sess.events <- &live.Event{Type: live.EventAudio, Audio: short, MIMEType: "audio/pcm;rate=24000"}

	waitFor(t, func() bool { return sink.Writes() == 2 })

	mu.Lock()
	defer mu.Unlock()
	for _, w := range waits {
		if w > time.Second {
			t.Errorf("waited %v after interrupt, horizon not reset", w)
		}
	}
}

func TestPipelineSendText(t *testing.T) {
	sess := newFakeSession()
	pipe := New(Config{
		Dial:   dialFake(sess),
		Source: device.NewMemorySource(16000, nil),
		Sink:   device.NewMemorySink(24000),
	})

	if err := pipe.SendText("early"); err == nil {
		t.Error("SendText before connect should fail")
	}
	if err := pipe.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer pipe.Disconnect()

	if err := pipe.SendText("hello"); err != nil {
		t.Fatal(err)
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if len(sess.texts) != 1 || sess.texts[0] != "hello" {
		t.Errorf("texts = %v", sess.texts)
	}
}

func TestPipelineDialFailure(t *testing.T) {
	pipe := New(Config{
		Dial: func(ctx context.Context) (Session, error) {
			return nil, errors.New("dial refused")
		},
		Source: device.NewMemorySource(16000, nil),
		Sink:   device.NewMemorySink(24000),
	})

	if err := pipe.Connect(context.Background()); err == nil {
		t.Fatal("expected dial error")
	}
	if got := pipe.State(); got != StateError {
		t.Errorf("state = %v, want error", got)
	}

	// A failed connect does not poison the pipeline.
	sess := newFakeSession()
	pipe.cfg.Dial = dialFake(sess)
	if err := pipe.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer pipe.Disconnect()
	if got := pipe.State(); got != StateLive {
		t.Errorf("state = %v, want live", got)
	}
}

func TestPipelineServerCloseEndsSession(t *testing.T) {
	sess := newFakeSession()
	pipe := New(Config{
		Dial:   dialFake(sess),
		Source: device.NewMemorySource(16000, nil),
		Sink:   device.NewMemorySink(24000),
	})
	if err := pipe.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}

	close(sess.events)
	waitFor(t, func() bool { return pipe.State() == StateDisconnected })
	pipe.Disconnect()
}
