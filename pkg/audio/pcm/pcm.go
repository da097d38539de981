package pcm

import "time"

const (
	// L16Mono16K represents audio/pcm; rate=16000, mono, 16-bit.
	L16Mono16K Format = iota
	// L16Mono24K represents audio/pcm; rate=24000, mono, 16-bit.
	L16Mono24K
	// L16Mono44K1 represents audio/pcm; rate=44100, mono, 16-bit.
	L16Mono44K1
	// L16Mono48K represents audio/pcm; rate=48000, mono, 16-bit.
	L16Mono48K
)

// Format identifies a mono 16-bit linear PCM stream at a fixed sample rate.
type Format int

// SampleRate returns the sample rate in Hz.
func (f Format) SampleRate() int {
	switch f {
	case L16Mono16K:
		return 16000
	case L16Mono24K:
		return 24000
	case L16Mono44K1:
		return 44100
	case L16Mono48K:
		return 48000
	}
	panic("pcm: invalid format")
}

// BytesPerSample returns the number of bytes per sample (always 2).
func (f Format) BytesPerSample() int { return 2 }

// MIMEType returns the media-chunk MIME type for this format.
func (f Format) MIMEType() string {
	switch f {
	case L16Mono16K:
		return "audio/pcm;rate=16000"
	case L16Mono24K:
		return "audio/pcm;rate=24000"
	case L16Mono44K1:
		return "audio/pcm;rate=44100"
	case L16Mono48K:
		return "audio/pcm;rate=48000"
	}
	panic("pcm: invalid format")
}

// Samples returns the number of samples in the given number of bytes.
func (f Format) Samples(bytes int) int {
	return bytes / f.BytesPerSample()
}

// SamplesInDuration returns the number of samples in the given duration.
func (f Format) SamplesInDuration(d time.Duration) int {
	return int(time.Duration(f.SampleRate()) * d / time.Second)
}

// BytesInDuration returns the number of bytes in the given duration.
func (f Format) BytesInDuration(d time.Duration) int {
	return f.SamplesInDuration(d) * f.BytesPerSample()
}

// Duration returns the play time of the given number of bytes.
func (f Format) Duration(bytes int) time.Duration {
	return time.Duration(f.Samples(bytes)) * time.Second / time.Duration(f.SampleRate())
}

// BytesRate returns the byte rate of the stream.
func (f Format) BytesRate() int {
	return f.SampleRate() * f.BytesPerSample()
}

// String returns a human-readable description of the format.
func (f Format) String() string { return f.MIMEType() }
