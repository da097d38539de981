package live

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"iter"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// DefaultModel is the default live-dialog model.
	DefaultModel = "gemini-2.0-flash-live-001"

	// DefaultEndpoint is the production live websocket endpoint.
	DefaultEndpoint = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"

	// DefaultConnectTimeout bounds dialing plus the setup handshake.
	DefaultConnectTimeout = 15 * time.Second
)

// Config configures a live session.
type Config struct {
	// Model is the live model name. Defaults to DefaultModel.
	Model string

	// ResponseModality is "AUDIO" or "TEXT". Defaults to "AUDIO".
	ResponseModality string

	// Voice selects the prebuilt voice for audio responses.
	Voice string

	// SystemPrompt is the session's system instruction.
	SystemPrompt string
}

// Client opens live sessions.
type Client struct {
	apiKey         string
	endpoint       string
	connectTimeout time.Duration
	dialer         *websocket.Dialer
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithEndpoint overrides the websocket endpoint.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithConnectTimeout overrides the handshake timeout.
func WithConnectTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.connectTimeout = d }
}

// NewClient creates a live session client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:         apiKey,
		endpoint:       DefaultEndpoint,
		connectTimeout: DefaultConnectTimeout,
		dialer:         websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EventType identifies a session event.
type EventType int

const (
	// EventAudio carries decoded model audio bytes (PCM16, 24 kHz).
	EventAudio EventType = iota
	// EventText carries a model text fragment.
	EventText
	// EventTurnComplete marks the end of a model turn.
	EventTurnComplete
	// EventInterrupted signals the model turn was cut off; queued
	// playback for the turn should be considered stale.
	EventInterrupted
	// EventGoAway signals the server will close the connection soon.
	EventGoAway
)

// Event is one inbound session event.
type Event struct {
	Type EventType

	// Audio is the decoded chunk payload for EventAudio.
	Audio []byte

	// MIMEType is the declared media type for EventAudio.
	MIMEType string

	// Text is the fragment for EventText.
	Text string
}

// Session is a live bidirectional session. It is owned by a single
// caller; concurrent sends are serialized internally.
type Session struct {
	conn *websocket.Conn

	recvChan  chan *Event
	errChan   chan error
	closeChan chan struct{}
	closeOnce sync.Once
	writeMu   sync.Mutex
}

// Connect opens a live session and completes the setup handshake. The
// returned session is live: capture may start streaming immediately.
func (c *Client) Connect(ctx context.Context, cfg *Config) (*Session, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	modality := strings.ToUpper(cfg.ResponseModality)
	if modality == "" {
		modality = "AUDIO"
	}

	dialCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, c.connectTimeout)
		defer cancel()
	}

	conn, _, err := c.dialer.DialContext(dialCtx, c.wsURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("live: dial: %w", err)
	}

	msg := clientMessage{
		Setup: &setup{
			Model: "models/" + strings.TrimPrefix(model, "models/"),
			GenerationConfig: &generationConfig{
				ResponseModalities: []string{modality},
			},
		},
	}
	if cfg.Voice != "" {
		msg.Setup.GenerationConfig.SpeechConfig = &speechConfig{
			VoiceConfig: &voiceConfig{
				PrebuiltVoiceConfig: &prebuiltVoiceConfig{VoiceName: cfg.Voice},
			},
		}
	}
	if cfg.SystemPrompt != "" {
		msg.Setup.SystemInstruction = &content{
			Parts: []part{{Text: cfg.SystemPrompt}},
		}
	}
	if err := conn.WriteJSON(msg); err != nil {
		conn.Close()
		return nil, fmt.Errorf("live: send setup: %w", err)
	}

	// The first frame must acknowledge setup before any media flows.
	_ = conn.SetReadDeadline(time.Now().Add(c.connectTimeout))
	_, data, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("live: read setup ack: %w", err)
	}
	_ = conn.SetReadDeadline(time.Time{})

	var ack serverMessage
	if err := json.Unmarshal(data, &ack); err != nil || ack.SetupComplete == nil {
		conn.Close()
		return nil, fmt.Errorf("live: unexpected setup response: %s", data)
	}

	sess := &Session{
		conn:      conn,
		recvChan:  make(chan *Event, 100),
		errChan:   make(chan error, 1),
		closeChan: make(chan struct{}),
	}
	go sess.receiveLoop()
	return sess, nil
}

func (c *Client) wsURL() string {
	return c.endpoint + "?key=" + url.QueryEscape(c.apiKey)
}

// SendMedia submits one media chunk: raw bytes plus their MIME type. The
// payload is base64-encoded for transport.
func (s *Session) SendMedia(mimeType string, data []byte) error {
	return s.sendJSON(clientMessage{
		RealtimeInput: &realtimeInput{
			MediaChunks: []mediaBlob{{
				MIMEType: mimeType,
				Data:     base64.StdEncoding.EncodeToString(data),
			}},
		},
	})
}

// SendText submits a typed user turn.
func (s *Session) SendText(text string) error {
	return s.sendJSON(clientMessage{
		ClientContent: &clientContent{
			Turns: []content{{
				Role:  "user",
				Parts: []part{{Text: text}},
			}},
			TurnComplete: true,
		},
	})
}

func (s *Session) sendJSON(v any) error {
	select {
	case <-s.closeChan:
		return fmt.Errorf("live: session closed")
	default:
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(v)
}

// Recv yields inbound events in arrival order until the session ends.
// A transport or protocol failure is yielded once as the final error.
func (s *Session) Recv() iter.Seq2[*Event, error] {
	return func(yield func(*Event, error) bool) {
		for {
			select {
			case event, ok := <-s.recvChan:
				if !ok {
					// The receive loop is gone; surface its error if
					// it left one behind.
					select {
					case err := <-s.errChan:
						yield(nil, err)
					default:
					}
					return
				}
				if !yield(event, nil) {
					return
				}
			case err := <-s.errChan:
				yield(nil, err)
				return
			case <-s.closeChan:
				return
			}
		}
	}
}

// Close terminates the session. Safe to call more than once and after
// the server has already gone away.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		close(s.closeChan)
		s.writeMu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(2*time.Second))
		s.writeMu.Unlock()
		_ = s.conn.Close()
	})
	return nil
}

func (s *Session) receiveLoop() {
	defer close(s.recvChan)

	for {
		select {
		case <-s.closeChan:
			return
		default:
		}

		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				select {
				case s.errChan <- fmt.Errorf("live: read: %w", err):
				default:
				}
			}
			return
		}

		for _, event := range decodeServerFrame(data) {
			select {
			case s.recvChan <- event:
			case <-s.closeChan:
				return
			}
		}
	}
}

// decodeServerFrame turns one server frame into zero or more events.
// Parts with undecodable payloads are dropped: an isolated corrupt chunk
// must not take down a live call.
func decodeServerFrame(data []byte) []*Event {
	var msg serverMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil
	}

	var events []*Event
	if sc := msg.ServerContent; sc != nil {
		if sc.ModelTurn != nil {
			for _, p := range sc.ModelTurn.Parts {
				switch {
				case p.InlineData != nil:
					audio, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
					if err != nil || len(audio) == 0 {
						continue
					}
					events = append(events, &Event{
						Type:     EventAudio,
						Audio:    audio,
						MIMEType: p.InlineData.MIMEType,
					})
				case p.Text != "":
					events = append(events, &Event{Type: EventText, Text: p.Text})
				}
			}
		}
		if sc.Interrupted {
			events = append(events, &Event{Type: EventInterrupted})
		}
		if sc.TurnComplete {
			events = append(events, &Event{Type: EventTurnComplete})
		}
	}
	if msg.GoAway != nil {
		events = append(events, &Event{Type: EventGoAway})
	}
	return events
}
