package duplex

import (
	"context"
	"errors"
	"io"
	"iter"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/genstudio/genstudio/pkg/audio/device"
	"github.com/genstudio/genstudio/pkg/audio/pcm"
	"github.com/genstudio/genstudio/pkg/audio/resample"
	"github.com/genstudio/genstudio/pkg/live"
)

// DefaultFrameSize is the capture frame length in samples.
const DefaultFrameSize = 4096

// The service consumes 16 kHz uplink audio and produces 24 kHz
// downlink audio. The two rates are independent.
const (
	captureFormat  = pcm.L16Mono16K
	playbackFormat = pcm.L16Mono24K
)

// ErrActive is returned by Connect when a session already exists or a
// connect is in flight.
var ErrActive = errors.New("duplex: session already active")

// Session is the transport the pipeline streams over. *live.Session
// satisfies it; tests substitute fakes.
type Session interface {
	SendMedia(mimeType string, data []byte) error
	SendText(text string) error
	Recv() iter.Seq2[*live.Event, error]
	Close() error
}

// DialFunc opens a new session.
type DialFunc func(ctx context.Context) (Session, error)

// Config configures a Pipeline.
type Config struct {
	// Dial opens the underlying session. Required.
	Dial DialFunc

	// Source is the capture device. Required.
	Source device.Source

	// Sink is the playback device. Required.
	Sink device.Sink

	// FrameSize is the capture frame length in samples. Defaults to
	// DefaultFrameSize.
	FrameSize int

	// MaxAhead bounds how far playback may be scheduled past now.
	// Chunks that would land beyond the bound are dropped. Zero means
	// unbounded.
	MaxAhead time.Duration

	// OnEvent observes non-audio session events (text, turn
	// boundaries). May be nil. Called from the playback goroutine.
	OnEvent func(*live.Event)
}

// Pipeline is a full-duplex voice pipeline. At most one session is
// active at a time.
type Pipeline struct {
	cfg Config

	mu     sync.Mutex
	state  State
	sess   Session
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// level holds the latest capture amplitude as float32 bits. It is
	// a side signal only and never feeds back into the encode path.
	level atomic.Uint32

	clock *playbackClock

	// sleep, when set, replaces timed waits in the playback path.
	sleep func(time.Duration)
}

// New creates a pipeline. It does not connect.
func New(cfg Config) *Pipeline {
	if cfg.FrameSize <= 0 {
		cfg.FrameSize = DefaultFrameSize
	}
	return &Pipeline{
		cfg:   cfg,
		clock: newPlaybackClock(nil),
	}
}

// State reports the current connection state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Level reports the most recent capture amplitude in [0, 1].
func (p *Pipeline) Level() float32 {
	return math.Float32frombits(p.level.Load())
}

// Connect dials a session and starts the capture and playback loops.
// It fails with ErrActive if a session exists or a connect is already
// in flight.
func (p *Pipeline) Connect(ctx context.Context) error {
	p.mu.Lock()
	if p.state == StateConnecting || p.state == StateLive {
		p.mu.Unlock()
		return ErrActive
	}
	p.state = StateConnecting
	p.mu.Unlock()

	// Loops from a previously failed session may still be draining.
	p.wg.Wait()

	sess, err := p.cfg.Dial(ctx)
	if err != nil {
		p.mu.Lock()
		p.state = StateError
		p.mu.Unlock()
		return err
	}

	loopCtx, cancel := context.WithCancel(context.Background())

	p.mu.Lock()
	p.sess = sess
	p.cancel = cancel
	p.state = StateLive
	p.clock.reset()
	p.mu.Unlock()

	p.wg.Add(2)
	go p.captureLoop(loopCtx, sess)
	go p.playbackLoop(loopCtx, sess)
	return nil
}

// Disconnect tears the session down. It is idempotent: calling it with
// no session, or repeatedly, is a no-op.
func (p *Pipeline) Disconnect() error {
	p.mu.Lock()
	sess := p.sess
	cancel := p.cancel
	p.sess = nil
	p.cancel = nil
	p.state = StateDisconnected
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if sess != nil {
		_ = sess.Close()
	}
	p.wg.Wait()
	return nil
}

// SendText submits a typed user turn over the active session.
func (p *Pipeline) SendText(text string) error {
	p.mu.Lock()
	sess := p.sess
	state := p.state
	p.mu.Unlock()
	if state != StateLive || sess == nil {
		return errors.New("duplex: not live")
	}
	return sess.SendText(text)
}

// fail records a session failure and tears the transport down. The
// first failure wins; anything after teardown is ignored.
func (p *Pipeline) fail(err error) {
	_ = err
	p.teardownTo(StateError)
}

// finish handles a clean server-side close.
func (p *Pipeline) finish() {
	p.teardownTo(StateDisconnected)
}

func (p *Pipeline) teardownTo(next State) {
	p.mu.Lock()
	if p.state != StateLive {
		p.mu.Unlock()
		return
	}
	p.state = next
	sess := p.sess
	cancel := p.cancel
	p.sess = nil
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if sess != nil {
		_ = sess.Close()
	}
}

func (p *Pipeline) captureLoop(ctx context.Context, sess Session) {
	defer p.wg.Done()

	var conv *resample.Converter
	if rate := p.cfg.Source.SampleRate(); rate != captureFormat.SampleRate() {
		c, err := resample.New(rate, captureFormat.SampleRate())
		if err != nil {
			p.fail(err)
			return
		}
		conv = c
	}

	frame := make([]float32, p.cfg.FrameSize)
	mimeType := captureFormat.MIMEType()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := p.cfg.Source.ReadFrame(frame)
		if err != nil {
			if !errors.Is(err, device.ErrClosed) && !errors.Is(err, io.EOF) && ctx.Err() == nil {
				p.fail(err)
			}
			return
		}
		if n == 0 {
			continue
		}
		samples := frame[:n]

		p.level.Store(math.Float32bits(float32(pcm.Level(samples))))

		if conv != nil {
			samples, err = conv.Process(samples)
			if err != nil {
				p.fail(err)
				return
			}
			if len(samples) == 0 {
				continue
			}
		}

		// Frames captured while the session is not live are dropped,
		// not queued.
		if p.State() != StateLive {
			continue
		}
		if err := sess.SendMedia(mimeType, pcm.EncodeFloat32(samples)); err != nil {
			if ctx.Err() == nil {
				p.fail(err)
			}
			return
		}
	}
}

func (p *Pipeline) playbackLoop(ctx context.Context, sess Session) {
	defer p.wg.Done()

	for event, err := range sess.Recv() {
		if err != nil {
			p.fail(err)
			return
		}
		switch event.Type {
		case live.EventAudio:
			if !p.playChunk(ctx, event) {
				return
			}
		case live.EventInterrupted:
			p.clock.reset()
			p.notify(event)
		default:
			p.notify(event)
		}
	}
	p.finish()
}

// playChunk schedules one inbound audio chunk. Malformed chunks are
// dropped without moving the playback clock. It returns false when the
// session is being torn down.
func (p *Pipeline) playChunk(ctx context.Context, event *live.Event) bool {
	data := event.Audio
	if len(data) == 0 || len(data)%playbackFormat.BytesPerSample() != 0 {
		return true
	}
	if event.MIMEType != "" && !strings.HasPrefix(event.MIMEType, "audio/pcm") {
		return true
	}

	dur := playbackFormat.Duration(len(data))
	if p.cfg.MaxAhead > 0 && p.clock.ahead()+dur > p.cfg.MaxAhead {
		return true
	}

	start := p.clock.schedule(dur)
	if wait := start.Sub(p.clock.now()); wait > 0 {
		if !p.await(ctx, wait) {
			return false
		}
	}
	if err := p.cfg.Sink.Write(data); err != nil {
		if !errors.Is(err, device.ErrClosed) {
			p.fail(err)
			return false
		}
	}
	return true
}

// await blocks for d or until ctx is cancelled.
func (p *Pipeline) await(ctx context.Context, d time.Duration) bool {
	if p.sleep != nil {
		p.sleep(d)
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (p *Pipeline) notify(event *live.Event) {
	if p.cfg.OnEvent != nil {
		p.cfg.OnEvent(event)
	}
}
