// Package audio is an umbrella for audio-related sub-packages:
//
//   - pcm: PCM format arithmetic and float32/PCM16 sample conversion
//   - resample: mono sample-rate conversion for capture sources
//   - device: microphone sources and speaker sinks
package audio
