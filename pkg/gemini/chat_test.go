package gemini

import (
	"testing"

	"google.golang.org/genai"
)

func TestCitationsFrom(t *testing.T) {
	md := &genai.GroundingMetadata{
		GroundingChunks: []*genai.GroundingChunk{
			{Web: &genai.GroundingChunkWeb{Title: "Example", URI: "https://example.com"}},
			{}, // source-less chunk is skipped
			{Maps: &genai.GroundingChunkMaps{Title: "Cafe", URI: "https://maps.example.com/cafe"}},
		},
	}

	got := citationsFrom(md)
	if len(got) != 2 {
		t.Fatalf("got %d citations, want 2", len(got))
	}
	if got[0].Kind != CitationWeb || got[0].Title != "Example" || got[0].URI != "https://example.com" {
		t.Errorf("citation 0 = %+v", got[0])
	}
	if got[1].Kind != CitationMap || got[1].Title != "Cafe" {
		t.Errorf("citation 1 = %+v", got[1])
	}

	if cs := citationsFrom(nil); cs != nil {
		t.Errorf("nil metadata produced citations: %v", cs)
	}
}

func TestChatConvert(t *testing.T) {
	s := &ChatService{}
	temp := float32(0.2)
	req := &ChatRequest{
		Prompt:      "hello",
		History:     []Message{{Role: RoleUser, Text: "hi"}, {Role: RoleModel, Text: "hey"}},
		System:      "be brief",
		Search:      true,
		Maps:        true,
		Location:    &LatLng{Latitude: 52.52, Longitude: 13.405},
		Temperature: &temp,
		MaxTokens:   128,
	}

	model, contents, cfg := s.convert(req)
	if model != DefaultChatModel {
		t.Errorf("model = %q", model)
	}
	if len(contents) != 3 {
		t.Fatalf("contents = %d, want 3 (history + prompt)", len(contents))
	}
	if contents[1].Role != "model" {
		t.Errorf("history role = %q", contents[1].Role)
	}
	if contents[2].Parts[0].Text != "hello" {
		t.Errorf("prompt part = %q", contents[2].Parts[0].Text)
	}
	if cfg.SystemInstruction == nil || cfg.SystemInstruction.Parts[0].Text != "be brief" {
		t.Error("system instruction not set")
	}
	if len(cfg.Tools) != 2 {
		t.Fatalf("tools = %d, want 2", len(cfg.Tools))
	}
	if cfg.Tools[0].GoogleSearch == nil || cfg.Tools[1].GoogleMaps == nil {
		t.Error("grounding tools not wired")
	}
	if cfg.ToolConfig == nil || cfg.ToolConfig.RetrievalConfig == nil ||
		cfg.ToolConfig.RetrievalConfig.LatLng == nil ||
		*cfg.ToolConfig.RetrievalConfig.LatLng.Latitude != 52.52 {
		t.Error("location hint not wired")
	}
	if cfg.Temperature == nil || *cfg.Temperature != 0.2 {
		t.Error("temperature not set")
	}
	if cfg.MaxOutputTokens != 128 {
		t.Errorf("max tokens = %d", cfg.MaxOutputTokens)
	}
}

func TestChatConvertMinimal(t *testing.T) {
	s := &ChatService{}
	model, contents, cfg := s.convert(&ChatRequest{Prompt: "q", Model: "custom"})
	if model != "custom" {
		t.Errorf("model = %q", model)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(contents))
	}
	if len(cfg.Tools) != 0 {
		t.Errorf("tools = %d, want none", len(cfg.Tools))
	}
	if cfg.SystemInstruction != nil {
		t.Error("unexpected system instruction")
	}
}
