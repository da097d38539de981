package device

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os/exec"
	"runtime"
	"sync"
)

// Microphone captures mono float32 audio from the default input device
// through an ffmpeg subprocess reading raw f32le from the OS capture
// backend (pulse/alsa on Linux, avfoundation on macOS).
type Microphone struct {
	sampleRate int

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdout io.ReadCloser
	closed bool
}

// MicrophoneConfig configures an ffmpeg-backed Microphone.
type MicrophoneConfig struct {
	// SampleRate is the capture rate in Hz. Defaults to 16000.
	SampleRate int

	// FFmpegPath is the ffmpeg binary. Defaults to "ffmpeg".
	FFmpegPath string

	// Input overrides the capture input (for example "hw:1" for a
	// specific ALSA card). Defaults to the platform default device.
	Input string

	// Backend overrides the ffmpeg input format (for example "alsa").
	// Defaults per platform.
	Backend string
}

// OpenMicrophone acquires the default input device. A refused or missing
// device surfaces as an error here, before any capture state exists.
func OpenMicrophone(cfg MicrophoneConfig) (*Microphone, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	backend, input := cfg.Backend, cfg.Input
	if backend == "" {
		switch runtime.GOOS {
		case "darwin":
			backend = "avfoundation"
		default:
			backend = "pulse"
		}
	}
	if input == "" {
		switch backend {
		case "avfoundation":
			input = ":0"
		default:
			input = "default"
		}
	}

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", backend,
		"-i", input,
		"-f", "f32le",
		"-ar", fmt.Sprintf("%d", cfg.SampleRate),
		"-ac", "1",
		"-",
	}
	cmd := exec.Command(cfg.FFmpegPath, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("device: open capture pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		_ = stdout.Close()
		return nil, fmt.Errorf("device: start capture: %w", err)
	}

	return &Microphone{
		sampleRate: cfg.SampleRate,
		cmd:        cmd,
		stdout:     stdout,
	}, nil
}

// SampleRate returns the capture rate in Hz.
func (m *Microphone) SampleRate() int { return m.sampleRate }

// ReadFrame fills frame with captured samples. A device failure (or the
// capture process exiting, for example because access was denied after
// startup) is reported as an error.
func (m *Microphone) ReadFrame(frame []float32) (int, error) {
	m.mu.Lock()
	stdout := m.stdout
	closed := m.closed
	m.mu.Unlock()
	if closed || stdout == nil {
		return 0, ErrClosed
	}

	buf := make([]byte, len(frame)*4)
	n, err := io.ReadFull(stdout, buf)
	samples := n / 4
	for i := 0; i < samples; i++ {
		frame[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	if err != nil {
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if samples > 0 {
			return samples, nil
		}
		return 0, err
	}
	return samples, nil
}

// Close terminates the capture process and releases the device. Safe to
// call more than once.
func (m *Microphone) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	if m.stdout != nil {
		_ = m.stdout.Close()
	}
	if m.cmd != nil && m.cmd.Process != nil {
		_ = m.cmd.Process.Kill()
		_ = m.cmd.Wait()
	}
	return nil
}
