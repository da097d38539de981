package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// SpeechService provides speech synthesis.
type SpeechService struct {
	client *Client
}

func newSpeechService(c *Client) *SpeechService {
	return &SpeechService{client: c}
}

// SpeechRequest is a speech synthesis request.
type SpeechRequest struct {
	// Model is the model name. Defaults to DefaultSpeechModel.
	Model string `json:"model,omitempty"`

	// Text is the text to speak.
	Text string `json:"text"`

	// Voice selects a prebuilt voice, e.g. "Kore". Empty uses the
	// model default.
	Voice string `json:"voice,omitempty"`
}

// SpeechResponse holds synthesized audio.
type SpeechResponse struct {
	// Audio is raw PCM16 at 24 kHz mono.
	Audio []byte `json:"audio"`

	// MIMEType is the declared audio type.
	MIMEType string `json:"mime_type"`
}

// Synthesize converts text to speech.
func (s *SpeechService) Synthesize(ctx context.Context, req *SpeechRequest) (*SpeechResponse, error) {
	model := req.Model
	if model == "" {
		model = DefaultSpeechModel
	}

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
	}
	if req.Voice != "" {
		cfg.SpeechConfig = &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: req.Voice,
				},
			},
		}
	}

	contents := []*genai.Content{{
		Role:  string(RoleUser),
		Parts: []*genai.Part{{Text: req.Text}},
	}}
	resp, err := s.client.genai.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return nil, wrapErr("speech", err)
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && len(p.InlineData.Data) > 0 {
				return &SpeechResponse{
					Audio:    p.InlineData.Data,
					MIMEType: p.InlineData.MIMEType,
				}, nil
			}
		}
	}
	return nil, fmt.Errorf("speech: response contains no audio")
}
