package live

// Wire types for the BidiGenerateContent websocket protocol. All frames
// are JSON text messages; binary payloads travel base64-encoded inside
// inline-data parts and media chunks.

// clientMessage is the envelope for every client-to-server frame.
// Exactly one field is set per frame.
type clientMessage struct {
	Setup         *setup         `json:"setup,omitempty"`
	RealtimeInput *realtimeInput `json:"realtimeInput,omitempty"`
	ClientContent *clientContent `json:"clientContent,omitempty"`
}

// setup is the first frame of a session.
type setup struct {
	Model             string            `json:"model"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
}

type generationConfig struct {
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

type speechConfig struct {
	VoiceConfig *voiceConfig `json:"voiceConfig,omitempty"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig *prebuiltVoiceConfig `json:"prebuiltVoiceConfig,omitempty"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName,omitempty"`
}

// realtimeInput carries streamed media chunks.
type realtimeInput struct {
	MediaChunks []mediaBlob `json:"mediaChunks,omitempty"`
}

// mediaBlob is a media chunk: a MIME type plus base64 payload.
type mediaBlob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// clientContent carries discrete (non-realtime) turns, such as typed text.
type clientContent struct {
	Turns        []content `json:"turns,omitempty"`
	TurnComplete bool      `json:"turnComplete,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts,omitempty"`
}

type part struct {
	Text       string     `json:"text,omitempty"`
	InlineData *mediaBlob `json:"inlineData,omitempty"`
}

// serverMessage is the envelope for every server-to-client frame.
type serverMessage struct {
	SetupComplete *struct{}      `json:"setupComplete,omitempty"`
	ServerContent *serverContent `json:"serverContent,omitempty"`
	GoAway        *goAway        `json:"goAway,omitempty"`
}

type serverContent struct {
	ModelTurn    *content `json:"modelTurn,omitempty"`
	TurnComplete bool     `json:"turnComplete,omitempty"`
	Interrupted  bool     `json:"interrupted,omitempty"`
}

type goAway struct {
	TimeLeft string `json:"timeLeft,omitempty"`
}
