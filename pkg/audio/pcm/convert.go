package pcm

import "math"

// EncodeFloat32 converts float32 samples in [-1.0, 1.0] to little-endian
// PCM16 bytes. Values at or above 1.0 saturate to 32767 and values at or
// below -1.0 saturate to -32768; everything in between scales linearly by
// 32767 and rounds to nearest. The saturation is asymmetric on purpose:
// floating-point audio can clip past unity in either direction.
func EncodeFloat32(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, v := range samples {
		s := EncodeSample(v)
		out[i*2] = byte(s)
		out[i*2+1] = byte(uint16(s) >> 8)
	}
	return out
}

// EncodeSample converts a single float32 sample to a PCM16 value.
func EncodeSample(v float32) int16 {
	switch {
	case v >= 1.0:
		return math.MaxInt16
	case v <= -1.0:
		return math.MinInt16
	}
	return int16(math.Round(float64(v) * math.MaxInt16))
}

// DecodeFloat32 converts little-endian PCM16 bytes to float32 samples in
// [-1.0, 1.0). A trailing odd byte is ignored.
func DecodeFloat32(data []byte) []float32 {
	n := len(data) / 2
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		s := int16(data[i*2]) | int16(data[i*2+1])<<8
		out[i] = float32(s) / 32768.0
	}
	return out
}

// Level returns the mean absolute amplitude of the samples, in [0, 1].
// It is the signal behind UI level meters; an empty frame reports 0.
func Level(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, v := range samples {
		sum += math.Abs(float64(v))
	}
	return sum / float64(len(samples))
}
