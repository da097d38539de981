package device

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sync"
)

// Speaker plays mono PCM16 audio through an ffplay subprocess fed raw
// s16le on stdin.
type Speaker struct {
	sampleRate int
	path       string
	volume     int

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	closed bool
}

// SpeakerConfig configures an ffplay-backed Speaker.
type SpeakerConfig struct {
	// SampleRate is the playback rate in Hz. Defaults to 24000.
	SampleRate int

	// FFplayPath is the ffplay binary. Defaults to "ffplay".
	FFplayPath string

	// Volume is the ffplay volume 0-100. Defaults to 80.
	Volume int
}

// OpenSpeaker acquires the default output device.
func OpenSpeaker(cfg SpeakerConfig) (*Speaker, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 24000
	}
	if cfg.FFplayPath == "" {
		cfg.FFplayPath = "ffplay"
	}
	if cfg.Volume <= 0 {
		cfg.Volume = 80
	}
	s := &Speaker{
		sampleRate: cfg.SampleRate,
		path:       cfg.FFplayPath,
		volume:     cfg.Volume,
	}
	if err := s.start(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Speaker) start() error {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostats",
		"-nodisp",
		"-volume", fmt.Sprintf("%d", s.volume),
		"-f", "s16le",
		// ffplay does not accept ffmpeg-style -ac; mono layout is fixed.
		"-ch_layout", "mono",
		"-ar", fmt.Sprintf("%d", s.sampleRate),
		"-i", "-",
	}
	cmd := exec.Command(s.path, args...)
	if runtime.GOOS == "darwin" && os.Getenv("SDL_AUDIODRIVER") == "" {
		// SDL can pick a silent dummy backend on macOS; prefer CoreAudio.
		cmd.Env = append(os.Environ(), "SDL_AUDIODRIVER=coreaudio")
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("device: open playback pipe: %w", err)
	}
	cmd.Stdout = io.Discard
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return fmt.Errorf("device: start playback: %w", err)
	}
	s.cmd = cmd
	s.stdin = stdin
	return nil
}

// SampleRate returns the playback rate in Hz.
func (s *Speaker) SampleRate() int { return s.sampleRate }

// Write queues pcm bytes for playback.
func (s *Speaker) Write(pcm []byte) error {
	if len(pcm) == 0 {
		return nil
	}
	s.mu.Lock()
	stdin := s.stdin
	closed := s.closed
	s.mu.Unlock()
	if closed || stdin == nil {
		return ErrClosed
	}
	if _, err := stdin.Write(pcm); err != nil {
		return fmt.Errorf("device: playback write: %w", err)
	}
	return nil
}

// Close stops playback and releases the device. Safe to call more than
// once. Audio already buffered by the playback process may finish
// playing naturally.
func (s *Speaker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.stdin != nil {
		_ = s.stdin.Close()
	}
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
		_ = s.cmd.Wait()
	}
	return nil
}
