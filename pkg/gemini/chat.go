package gemini

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"google.golang.org/genai"
)

// ChatService provides text generation with optional grounding.
type ChatService struct {
	client *Client
}

func newChatService(c *Client) *ChatService {
	return &ChatService{client: c}
}

// Role is a conversation role.
type Role string

const (
	// RoleUser is the end-user role.
	RoleUser Role = "user"
	// RoleModel is the model role.
	RoleModel Role = "model"
)

// Message is one conversation turn.
type Message struct {
	// Role is the speaker. Defaults to RoleUser when empty.
	Role Role `json:"role"`

	// Text is the turn content.
	Text string `json:"text"`
}

// ChatRequest is a text generation request.
type ChatRequest struct {
	// Model is the model name. Defaults to DefaultChatModel.
	Model string `json:"model,omitempty"`

	// Prompt is the current user message.
	Prompt string `json:"prompt"`

	// History holds prior turns, oldest first.
	History []Message `json:"history,omitempty"`

	// System is the system instruction.
	System string `json:"system,omitempty"`

	// Search enables web search grounding.
	Search bool `json:"search,omitempty"`

	// Maps enables place grounding.
	Maps bool `json:"maps,omitempty"`

	// Location is an optional geolocation hint for grounding.
	Location *LatLng `json:"location,omitempty"`

	// Temperature overrides the sampling temperature when non-nil.
	Temperature *float32 `json:"temperature,omitempty"`

	// MaxTokens caps the response length when positive.
	MaxTokens int32 `json:"max_tokens,omitempty"`
}

// LatLng is a geographic point used to localize grounded answers.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CitationKind distinguishes grounding sources.
type CitationKind string

const (
	// CitationWeb is a web search grounding source.
	CitationWeb CitationKind = "web"
	// CitationMap is a place grounding source.
	CitationMap CitationKind = "map"
)

// Citation is one grounding source attached to a response.
type Citation struct {
	// Title is the source title.
	Title string `json:"title"`

	// URI is the source link.
	URI string `json:"uri"`

	// Kind is the source type.
	Kind CitationKind `json:"kind"`
}

// ChatResponse is a completed text generation.
type ChatResponse struct {
	// Text is the generated text.
	Text string `json:"text"`

	// Citations lists grounding sources, in source order. Empty when
	// the response was not grounded.
	Citations []Citation `json:"citations,omitempty"`
}

// ChatChunk is one streamed fragment.
type ChatChunk struct {
	// Text is the incremental text delta.
	Text string `json:"text"`

	// Citations is populated on the final chunk of a grounded
	// response.
	Citations []Citation `json:"citations,omitempty"`
}

// Generate runs a single blocking text generation.
func (s *ChatService) Generate(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	model, contents, cfg := s.convert(req)

	resp, err := s.client.genai.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return nil, wrapErr("chat", err)
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("chat: no candidates")
	}
	cand := resp.Candidates[0]

	var sb strings.Builder
	if cand.Content != nil {
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				sb.WriteString(p.Text)
			}
		}
	}
	return &ChatResponse{
		Text:      sb.String(),
		Citations: citationsFrom(cand.GroundingMetadata),
	}, nil
}

// GenerateStream runs a streaming text generation. Citations, if any,
// arrive on the final chunk.
func (s *ChatService) GenerateStream(ctx context.Context, req *ChatRequest) iter.Seq2[*ChatChunk, error] {
	model, contents, cfg := s.convert(req)

	return func(yield func(*ChatChunk, error) bool) {
		var citations []Citation
		for resp, err := range s.client.genai.Models.GenerateContentStream(ctx, model, contents, cfg) {
			if err != nil {
				yield(nil, wrapErr("chat stream", err))
				return
			}
			if len(resp.Candidates) == 0 {
				continue
			}
			cand := resp.Candidates[0]
			if cs := citationsFrom(cand.GroundingMetadata); len(cs) > 0 {
				citations = cs
			}

			var sb strings.Builder
			if cand.Content != nil {
				for _, p := range cand.Content.Parts {
					if p.Text != "" {
						sb.WriteString(p.Text)
					}
				}
			}
			if sb.Len() > 0 {
				if !yield(&ChatChunk{Text: sb.String()}, nil) {
					return
				}
			}
		}
		if len(citations) > 0 {
			yield(&ChatChunk{Citations: citations}, nil)
		}
	}
}

func (s *ChatService) convert(req *ChatRequest) (string, []*genai.Content, *genai.GenerateContentConfig) {
	model := req.Model
	if model == "" {
		model = DefaultChatModel
	}

	var contents []*genai.Content
	for _, msg := range req.History {
		role := string(msg.Role)
		if role == "" {
			role = string(RoleUser)
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Text}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  string(RoleUser),
		Parts: []*genai.Part{{Text: req.Prompt}},
	})

	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	if req.Search {
		cfg.Tools = append(cfg.Tools, &genai.Tool{GoogleSearch: &genai.GoogleSearch{}})
	}
	if req.Maps {
		cfg.Tools = append(cfg.Tools, &genai.Tool{GoogleMaps: &genai.GoogleMaps{}})
	}
	if req.Location != nil {
		cfg.ToolConfig = &genai.ToolConfig{
			RetrievalConfig: &genai.RetrievalConfig{
				LatLng: &genai.LatLng{
					Latitude:  genai.Ptr(req.Location.Latitude),
					Longitude: genai.Ptr(req.Location.Longitude),
				},
			},
		}
	}
	if req.Temperature != nil {
		cfg.Temperature = req.Temperature
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = req.MaxTokens
	}
	return model, contents, cfg
}

// citationsFrom flattens grounding metadata into citations, keeping
// source order. Chunks without a resolvable source are skipped.
func citationsFrom(md *genai.GroundingMetadata) []Citation {
	if md == nil {
		return nil
	}
	var out []Citation
	for _, chunk := range md.GroundingChunks {
		switch {
		case chunk.Web != nil:
			out = append(out, Citation{
				Title: chunk.Web.Title,
				URI:   chunk.Web.URI,
				Kind:  CitationWeb,
			})
		case chunk.Maps != nil:
			out = append(out, Citation{
				Title: chunk.Maps.Title,
				URI:   chunk.Maps.URI,
				Kind:  CitationMap,
			})
		}
	}
	return out
}
