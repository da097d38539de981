package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// ImageService provides image generation and editing.
type ImageService struct {
	client *Client
}

func newImageService(c *Client) *ImageService {
	return &ImageService{client: c}
}

// GeneratedImage is one produced image.
type GeneratedImage struct {
	// Data is the encoded image bytes.
	Data []byte `json:"data"`

	// MIMEType is the image encoding, e.g. "image/png".
	MIMEType string `json:"mime_type"`
}

// ImageRequest is an image generation request.
type ImageRequest struct {
	// Model is the model name. Defaults to DefaultImageModel.
	Model string `json:"model,omitempty"`

	// Prompt describes the image to generate.
	Prompt string `json:"prompt"`

	// Count is the number of images to produce. Defaults to 1.
	Count int32 `json:"count,omitempty"`

	// AspectRatio is e.g. "1:1", "16:9". Empty uses the model default.
	AspectRatio string `json:"aspect_ratio,omitempty"`

	// NegativePrompt describes what to avoid.
	NegativePrompt string `json:"negative_prompt,omitempty"`
}

// ImageResponse holds generated images.
type ImageResponse struct {
	// Images holds the produced images, at most Count of them.
	Images []GeneratedImage `json:"images"`
}

// Generate produces images from a text prompt.
func (s *ImageService) Generate(ctx context.Context, req *ImageRequest) (*ImageResponse, error) {
	model := req.Model
	if model == "" {
		model = DefaultImageModel
	}
	count := req.Count
	if count <= 0 {
		count = 1
	}

	cfg := &genai.GenerateImagesConfig{
		NumberOfImages: count,
	}
	if req.AspectRatio != "" {
		cfg.AspectRatio = req.AspectRatio
	}
	if req.NegativePrompt != "" {
		cfg.NegativePrompt = req.NegativePrompt
	}

	resp, err := s.client.genai.Models.GenerateImages(ctx, model, req.Prompt, cfg)
	if err != nil {
		return nil, wrapErr("image generate", err)
	}
	if len(resp.GeneratedImages) == 0 {
		return nil, fmt.Errorf("image generate: no images returned")
	}

	out := &ImageResponse{}
	for _, img := range resp.GeneratedImages {
		if img.Image == nil || len(img.Image.ImageBytes) == 0 {
			continue
		}
		out.Images = append(out.Images, GeneratedImage{
			Data:     img.Image.ImageBytes,
			MIMEType: img.Image.MIMEType,
		})
	}
	if len(out.Images) == 0 {
		return nil, fmt.Errorf("image generate: all images empty")
	}
	return out, nil
}

// ImageEditRequest is an image editing request: a source image plus an
// instruction describing the change.
type ImageEditRequest struct {
	// Model is the model name. Defaults to DefaultImageEditModel.
	Model string `json:"model,omitempty"`

	// Prompt is the edit instruction.
	Prompt string `json:"prompt"`

	// Image is the source image bytes.
	Image []byte `json:"image"`

	// MIMEType is the source encoding, e.g. "image/png".
	MIMEType string `json:"mime_type"`
}

// Edit applies a text instruction to an existing image and returns the
// edited result.
func (s *ImageService) Edit(ctx context.Context, req *ImageEditRequest) (*GeneratedImage, error) {
	model := req.Model
	if model == "" {
		model = DefaultImageEditModel
	}
	if len(req.Image) == 0 {
		return nil, fmt.Errorf("image edit: empty source image")
	}
	mimeType := req.MIMEType
	if mimeType == "" {
		mimeType = "image/png"
	}

	contents := []*genai.Content{{
		Role: string(RoleUser),
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: req.Image}},
			{Text: req.Prompt},
		},
	}}

	resp, err := s.client.genai.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return nil, wrapErr("image edit", err)
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && len(p.InlineData.Data) > 0 {
				return &GeneratedImage{
					Data:     p.InlineData.Data,
					MIMEType: p.InlineData.MIMEType,
				}, nil
			}
		}
	}
	return nil, fmt.Errorf("image edit: response contains no image")
}
