package gemini

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"google.golang.org/genai"
)

// VideoService provides video generation via long-running operations.
type VideoService struct {
	client *Client
}

func newVideoService(c *Client) *VideoService {
	return &VideoService{client: c}
}

// VideoRequest is a video generation request.
type VideoRequest struct {
	// Model is the model name. Defaults to DefaultVideoModel.
	Model string `json:"model,omitempty"`

	// Prompt describes the video to generate.
	Prompt string `json:"prompt"`

	// Image, when set, is a first-frame conditioning image.
	Image []byte `json:"image,omitempty"`

	// ImageMIMEType is the conditioning image encoding.
	ImageMIMEType string `json:"image_mime_type,omitempty"`

	// AspectRatio is e.g. "16:9". Empty uses the model default.
	AspectRatio string `json:"aspect_ratio,omitempty"`

	// NegativePrompt describes what to avoid.
	NegativePrompt string `json:"negative_prompt,omitempty"`
}

// VideoResult is a completed video generation.
type VideoResult struct {
	// Data is the encoded video bytes.
	Data []byte `json:"data"`

	// MIMEType is the video encoding, e.g. "video/mp4".
	MIMEType string `json:"mime_type"`

	// URI is the server-side location the video was fetched from,
	// when the service returned one.
	URI string `json:"uri,omitempty"`
}

// Generate starts a video generation and returns a Task tracking it.
// The operation runs server-side for tens of seconds to minutes.
func (s *VideoService) Generate(ctx context.Context, req *VideoRequest) (*Task[VideoResult], error) {
	model := req.Model
	if model == "" {
		model = DefaultVideoModel
	}

	var image *genai.Image
	if len(req.Image) > 0 {
		mimeType := req.ImageMIMEType
		if mimeType == "" {
			mimeType = "image/png"
		}
		image = &genai.Image{ImageBytes: req.Image, MIMEType: mimeType}
	}

	var cfg *genai.GenerateVideosConfig
	if req.AspectRatio != "" || req.NegativePrompt != "" {
		cfg = &genai.GenerateVideosConfig{
			AspectRatio:    req.AspectRatio,
			NegativePrompt: req.NegativePrompt,
		}
	}

	op, err := s.client.genai.Models.GenerateVideos(ctx, model, req.Prompt, image, cfg)
	if err != nil {
		return nil, wrapErr("video generate", err)
	}

	// The poll closure carries the latest operation snapshot; genai
	// requires the previous snapshot to query again.
	var mu sync.Mutex
	return &Task[VideoResult]{
		ID: op.Name,
		poll: func(ctx context.Context) (*VideoResult, bool, error) {
			mu.Lock()
			defer mu.Unlock()
			if !op.Done {
				next, err := s.client.genai.Operations.GetVideosOperation(ctx, op, nil)
				if err != nil {
					return nil, false, wrapErr("video poll", err)
				}
				op = next
			}
			if !op.Done {
				return nil, false, nil
			}
			result, err := s.extract(ctx, op)
			if err != nil {
				return nil, false, err
			}
			return result, true, nil
		},
	}, nil
}

func (s *VideoService) extract(ctx context.Context, op *genai.GenerateVideosOperation) (*VideoResult, error) {
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 {
		return nil, fmt.Errorf("video %s: operation finished without videos", op.Name)
	}
	video := op.Response.GeneratedVideos[0].Video
	if video == nil {
		return nil, fmt.Errorf("video %s: empty video in response", op.Name)
	}

	result := &VideoResult{
		MIMEType: video.MIMEType,
		URI:      video.URI,
	}
	if len(video.VideoBytes) > 0 {
		result.Data = video.VideoBytes
		return result, nil
	}
	if video.URI == "" {
		return nil, fmt.Errorf("video %s: response has neither bytes nor URI", op.Name)
	}

	data, err := s.download(ctx, video.URI)
	if err != nil {
		return nil, fmt.Errorf("video %s: %w", op.Name, err)
	}
	result.Data = data
	if result.MIMEType == "" {
		result.MIMEType = "video/mp4"
	}
	return result, nil
}

// download fetches a generated video from its file URI.
func (s *VideoService) download(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	q := u.Query()
	if q.Get("key") == "" {
		q.Set("key", s.client.config.apiKey)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	resp, err := s.client.config.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Code:    resp.StatusCode,
			Message: fmt.Sprintf("video download failed: %s", resp.Status),
		}
	}
	return io.ReadAll(resp.Body)
}
