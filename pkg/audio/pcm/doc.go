// Package pcm provides PCM audio format arithmetic and sample conversion.
//
// A Format describes a linear 16-bit mono PCM stream at a fixed sample
// rate and knows how to convert between byte counts, sample counts and
// durations. The package also converts between float32 samples in
// [-1.0, 1.0] and little-endian PCM16 bytes, which is the wire format
// for realtime audio media chunks.
package pcm
