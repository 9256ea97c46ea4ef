package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"interview-coach-go/internal/config"
	"interview-coach-go/internal/logger"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"

// Gemini calls the Gemini REST API. The system message is attached as a
// system_instruction rather than a chat message; that shaping is internal
// to this provider.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	log     *logrus.Entry
}

func NewGemini(cfg config.LLM) *Gemini {
	return &Gemini{
		apiKey:  cfg.GeminiAPIKey,
		model:   cfg.GeminiModel,
		baseURL: geminiEndpoint,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     logger.Component("llm.gemini"),
	}
}

func (g *Gemini) Name() string { return config.ProviderGemini }

// Available is true only when a credential is configured; without one the
// gateway skips this provider entirely.
func (g *Gemini) Available() bool { return g.apiKey != "" }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent   `json:"system_instruction,omitempty"`
	Contents          []geminiContent  `json:"contents"`
	GenerationConfig  *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiGenConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (g *Gemini) Chat(ctx context.Context, system, user string, wantJSON bool) (string, error) {
	if system == "" {
		system = "You are a helpful assistant."
	}
	reqBody := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: system}}},
		Contents:          []geminiContent{{Role: "user", Parts: []geminiPart{{Text: user}}}},
	}
	if wantJSON {
		reqBody.GenerationConfig = &geminiGenConfig{ResponseMimeType: "application/json"}
	}
	data, _ := json.Marshal(reqBody)

	url := fmt.Sprintf("%s/%s:generateContent", g.baseURL, g.model)

	var content string
	var lastErr error
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", g.apiKey)

		resp, err := g.client.Do(req)
		if err != nil {
			lastErr = err
			return err
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			lastErr = fmt.Errorf("gemini %s: %s", resp.Status, string(body))
			return backoff.Permanent(lastErr)
		}
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("gemini server error: %s", resp.Status)
			return lastErr
		}

		var parsed geminiResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			lastErr = fmt.Errorf("gemini decode: %w", err)
			return lastErr
		}
		if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
			lastErr = fmt.Errorf("gemini returned no candidates")
			return lastErr
		}
		content = parsed.Candidates[0].Content.Parts[0].Text
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 20 * time.Second
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		g.log.WithError(lastErr).Debug("gemini call failed")
		if lastErr != nil {
			return "", lastErr
		}
		return "", err
	}
	return content, nil
}
