package gemini

import (
	"context"
	"net/http"
	"time"

	"google.golang.org/genai"
)

const (
	// DefaultChatModel is the default model for chat and transcription.
	DefaultChatModel = "gemini-2.5-flash"

	// DefaultImageModel is the default image generation model.
	DefaultImageModel = "imagen-4.0-generate-001"

	// DefaultImageEditModel is the default image editing model.
	DefaultImageEditModel = "gemini-2.5-flash-image"

	// DefaultVideoModel is the default video generation model.
	DefaultVideoModel = "veo-3.0-generate-001"

	// DefaultSpeechModel is the default speech synthesis model.
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 60 * time.Second
)

// Client is the API client.
type Client struct {
	// Chat provides text generation with optional grounding.
	Chat *ChatService

	// Image provides image generation and editing.
	Image *ImageService

	// Video provides video generation via long-running operations.
	Video *VideoService

	// Speech provides speech synthesis.
	Speech *SpeechService

	// Transcribe provides audio transcription.
	Transcribe *TranscribeService

	config *clientConfig
	genai  *genai.Client
}

// clientConfig holds the client configuration.
type clientConfig struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option is a function that configures the client.
type Option func(*clientConfig)

// WithBaseURL sets a custom API base URL.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// NewClient creates a new API client.
//
// The apiKey is required and can be obtained from Google AI Studio.
func NewClient(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		apiKey:  apiKey,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{
			Timeout: cfg.timeout,
		}
	}

	gcfg := &genai.ClientConfig{
		APIKey:     cfg.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.httpClient,
	}
	if cfg.baseURL != "" {
		gcfg.HTTPOptions.BaseURL = cfg.baseURL
	}
	gc, err := genai.NewClient(ctx, gcfg)
	if err != nil {
		return nil, err
	}

	c := &Client{
		config: cfg,
		genai:  gc,
	}
	c.Chat = newChatService(c)
	c.Image = newImageService(c)
	c.Video = newVideoService(c)
	c.Speech = newSpeechService(c)
	c.Transcribe = newTranscribeService(c)
	return c, nil
}
