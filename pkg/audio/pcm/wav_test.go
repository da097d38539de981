package pcm

import (
	"bytes"
	"testing"
)

func TestWAVRoundTrip(t *testing.T) {
	data := EncodeFloat32([]float32{0, 0.5, -0.5, 0.25})

	wav, err := EncodeWAV(data, L16Mono24K)
	if err != nil {
		t.Fatal(err)
	}
	if len(wav) != 44+len(data) {
		t.Fatalf("wav length = %d, want %d", len(wav), 44+len(data))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Error("missing RIFF/WAVE markers")
	}

	got, rate, err := DecodeWAV(wav)
	if err != nil {
		t.Fatal(err)
	}
	if rate != 24000 {
		t.Errorf("rate = %d, want 24000", rate)
	}
	if !bytes.Equal(got, data) {
		t.Error("payload changed through wav round trip")
	}
}

func TestEncodeWAVRejectsBadInput(t *testing.T) {
	if _, err := EncodeWAV(nil, L16Mono16K); err == nil {
		t.Error("empty input should fail")
	}
	if _, err := EncodeWAV([]byte{1, 2, 3}, L16Mono16K); err == nil {
		t.Error("odd byte count should fail")
	}
}

func TestDecodeWAVRejectsBadInput(t *testing.T) {
	if _, _, err := DecodeWAV([]byte("too short")); err == nil {
		t.Error("short input should fail")
	}
	junk := make([]byte, 64)
	copy(junk, "JUNKdata")
	if _, _, err := DecodeWAV(junk); err == nil {
		t.Error("non-RIFF input should fail")
	}
}
