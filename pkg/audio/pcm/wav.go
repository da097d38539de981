package pcm

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// wavHeader is the canonical 44-byte RIFF/WAVE header for PCM data.
type wavHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32
}

// EncodeWAV wraps raw PCM16 bytes in a WAV container for the given
// format.
func EncodeWAV(data []byte, f Format) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("pcm: cannot encode empty audio")
	}
	if len(data)%f.BytesPerSample() != 0 {
		return nil, fmt.Errorf("pcm: truncated sample data (%d bytes)", len(data))
	}

	header := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + uint32(len(data)),
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1, // PCM
		NumChannels:   1,
		SampleRate:    uint32(f.SampleRate()),
		ByteRate:      uint32(f.BytesRate()),
		BlockAlign:    uint16(f.BytesPerSample()),
		BitsPerSample: 16,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: uint32(len(data)),
	}

	buf := bytes.NewBuffer(make([]byte, 0, 44+len(data)))
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("pcm: write wav header: %w", err)
	}
	buf.Write(data)
	return buf.Bytes(), nil
}

// DecodeWAV extracts raw PCM16 bytes and the sample rate from a mono
// PCM WAV file.
func DecodeWAV(data []byte) ([]byte, int, error) {
	if len(data) < 44 {
		return nil, 0, fmt.Errorf("pcm: wav too short (%d bytes)", len(data))
	}

	var header wavHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &header); err != nil {
		return nil, 0, fmt.Errorf("pcm: read wav header: %w", err)
	}
	if string(header.ChunkID[:]) != "RIFF" || string(header.Format[:]) != "WAVE" {
		return nil, 0, fmt.Errorf("pcm: not a wav file")
	}
	if header.AudioFormat != 1 {
		return nil, 0, fmt.Errorf("pcm: unsupported wav format %d, want PCM", header.AudioFormat)
	}
	if header.BitsPerSample != 16 {
		return nil, 0, fmt.Errorf("pcm: unsupported bit depth %d, want 16", header.BitsPerSample)
	}
	if header.NumChannels != 1 {
		return nil, 0, fmt.Errorf("pcm: unsupported channel count %d, want mono", header.NumChannels)
	}

	size := int(header.Subchunk2Size)
	if size <= 0 || 44+size > len(data) {
		size = len(data) - 44
	}
	return data[44 : 44+size], int(header.SampleRate), nil
}
