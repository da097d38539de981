// Package duplex runs a full-duplex voice pipeline over a live session:
// microphone frames are converted to PCM16 and streamed up while model
// audio chunks are scheduled gaplessly onto the speaker.
//
// The pipeline owns one session at a time. Capture runs at 16 kHz mono
// and playback at 24 kHz mono; the two paths never share a clock.
//
//	pipe := duplex.New(duplex.Config{
//		Dial:   dial,
//		Source: mic,
//		Sink:   speaker,
//	})
//	if err := pipe.Connect(ctx); err != nil {
//		return err
//	}
//	defer pipe.Disconnect()
package duplex
