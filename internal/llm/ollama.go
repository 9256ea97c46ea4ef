package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"interview-coach-go/internal/config"
	"interview-coach-go/internal/logger"
)

// fallbackModels are tried in order when the preferred model is not pulled;
// larger models first since they produce better-formed JSON.
var fallbackModels = []string{"qwen2.5", "llama3.1", "llama3.2", "mistral", "llama2"}

// Ollama calls a local Ollama server over its chat API.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
	log     *logrus.Entry
}

func NewOllama(cfg config.LLM) *Ollama {
	return &Ollama{
		baseURL: strings.TrimRight(cfg.OllamaURL, "/"),
		model:   cfg.OllamaModel,
		client:  &http.Client{Timeout: 120 * time.Second},
		log:     logger.Component("llm.ollama"),
	}
}

func (o *Ollama) Name() string { return config.ProviderOllama }

// Available is always true: a local server needs no credential, and an
// unreachable one fails at call time and falls through at the gateway.
func (o *Ollama) Available() bool { return true }

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   string          `json:"format,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Error   string        `json:"error,omitempty"`
}

func (o *Ollama) Chat(ctx context.Context, system, user string, wantJSON bool) (string, error) {
	msgs := make([]ollamaMessage, 0, 2)
	if system != "" {
		msgs = append(msgs, ollamaMessage{Role: "system", Content: system})
	}
	msgs = append(msgs, ollamaMessage{Role: "user", Content: user})

	reqBody := ollamaChatRequest{
		Model:    o.resolveModel(ctx),
		Messages: msgs,
		Stream:   false,
	}
	if wantJSON {
		reqBody.Format = "json"
	}
	data, _ := json.Marshal(reqBody)

	var content string
	var lastErr error
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewReader(data))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := o.client.Do(req)
		if err != nil {
			lastErr = err
			return err
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			lastErr = fmt.Errorf("ollama %s: %s", resp.Status, string(body))
			return backoff.Permanent(lastErr)
		}
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("ollama server error: %s", resp.Status)
			return lastErr
		}

		var parsed ollamaChatResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			lastErr = fmt.Errorf("ollama decode: %w", err)
			return lastErr
		}
		if parsed.Error != "" {
			lastErr = fmt.Errorf("ollama: %s", parsed.Error)
			return lastErr
		}
		content = parsed.Message.Content
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 15 * time.Second
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		o.log.WithError(lastErr).Debug("ollama call failed")
		if lastErr != nil {
			return "", lastErr
		}
		return "", err
	}
	return content, nil
}

// Models lists the model tags the local server has pulled.
func (o *Ollama) Models(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama tags: %s", resp.Status)
	}
	var parsed struct {
		Models []struct {
			Name  string `json:"name"`
			Model string `json:"model"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(parsed.Models))
	for _, m := range parsed.Models {
		if m.Name != "" {
			names = append(names, m.Name)
		} else {
			names = append(names, m.Model)
		}
	}
	return names, nil
}

// resolveModel maps the preferred model to a pulled tag (llama3.2 becomes
// llama3.2:latest), falling back through fallbackModels when the preferred
// one is absent. If the server cannot be asked, the preferred name is used
// as-is and the chat call reports the real failure.
func (o *Ollama) resolveModel(ctx context.Context) string {
	names, err := o.Models(ctx)
	if err != nil {
		return o.model
	}
	for _, n := range names {
		if strings.Contains(n, o.model) {
			return n
		}
	}
	for _, fb := range fallbackModels {
		for _, n := range names {
			if strings.Contains(n, fb) {
				return n
			}
		}
	}
	return o.model
}
