package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// TranscribeService provides audio transcription.
type TranscribeService struct {
	client *Client
}

func newTranscribeService(c *Client) *TranscribeService {
	return &TranscribeService{client: c}
}

// TranscribeRequest is an audio transcription request.
type TranscribeRequest struct {
	// Model is the model name. Defaults to DefaultChatModel.
	Model string `json:"model,omitempty"`

	// Audio is the encoded audio bytes.
	Audio []byte `json:"audio"`

	// MIMEType is the audio encoding, e.g. "audio/wav", "audio/mp3".
	MIMEType string `json:"mime_type"`

	// Prompt optionally steers the transcription, e.g. asking for
	// timestamps or speaker labels.
	Prompt string `json:"prompt,omitempty"`
}

// TranscribeResponse is a completed transcription.
type TranscribeResponse struct {
	// Text is the transcript.
	Text string `json:"text"`
}

// Transcribe converts speech audio to text.
func (s *TranscribeService) Transcribe(ctx context.Context, req *TranscribeRequest) (*TranscribeResponse, error) {
	model := req.Model
	if model == "" {
		model = DefaultChatModel
	}
	if len(req.Audio) == 0 {
		return nil, fmt.Errorf("transcribe: empty audio")
	}
	mimeType := req.MIMEType
	if mimeType == "" {
		mimeType = "audio/wav"
	}
	prompt := req.Prompt
	if prompt == "" {
		prompt = "Transcribe this audio verbatim."
	}

	contents := []*genai.Content{{
		Role: string(RoleUser),
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: req.Audio}},
			{Text: prompt},
		},
	}}
	resp, err := s.client.genai.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return nil, wrapErr("transcribe", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("transcribe: no candidates")
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p.Text != "" {
			sb.WriteString(p.Text)
		}
	}
	return &TranscribeResponse{Text: strings.TrimSpace(sb.String())}, nil
}
