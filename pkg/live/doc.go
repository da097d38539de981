// Package live implements the bidirectional websocket session of the
// Gemini Live API (BidiGenerateContent).
//
// A session is opened with a model, response modality, voice and system
// prompt; the client then streams base64 media chunks up and receives
// inline audio (24 kHz PCM16) or text down. Events are consumed through
// Session.Recv:
//
//	sess, err := client.Connect(ctx, &live.Config{
//	    Model: live.DefaultModel,
//	    Voice: "Puck",
//	})
//	if err != nil { ... }
//	defer sess.Close()
//
//	for event, err := range sess.Recv() {
//	    ...
//	}
package live
