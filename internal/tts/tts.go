package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultVoice is a natural-sounding English neural voice.
const DefaultVoice = "en-US-JennyNeural"

// Voice is one selectable synthesis voice.
type Voice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Voices lists the neural voices offered to the frontend.
var Voices = []Voice{
	{ID: "en-US-JennyNeural", Label: "Jenny (US, natural)"},
	{ID: "en-US-GuyNeural", Label: "Guy (US, male)"},
	{ID: "en-US-SarahNeural", Label: "Sarah (US)"},
	{ID: "en-GB-SoniaNeural", Label: "Sonia (UK)"},
}

// Synthesizer turns text into speech audio. Consumed only by the boundary
// layer; the analysis pipeline never speaks.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// Client calls an edge-tts-compatible synthesis service over HTTP and
// returns MP3 bytes.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("tts service not configured")
	}
	if voice == "" {
		voice = DefaultVoice
	}
	payload, _ := json.Marshal(map[string]string{"text": text, "voice": voice})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/synthesize", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tts %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return io.ReadAll(resp.Body)
}
