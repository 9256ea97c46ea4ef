package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"interview-coach-go/internal/logger"
	"interview-coach-go/internal/types"
)

// WhisperClient talks to a local whisper transcription service over HTTP.
// The service accepts a multipart audio upload on /transcribe and returns
// timed segments.
type WhisperClient struct {
	baseURL string
	client  *http.Client
	log     *logrus.Entry
}

func NewWhisperClient(baseURL string) *WhisperClient {
	return &WhisperClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 120 * time.Second},
		log:     logger.Component("transcription.whisper"),
	}
}

type whisperResponse struct {
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
	Language string `json:"language"`
}

// Transcribe stages the upload in a temp file, posts it to the whisper
// service, and returns the non-blank spans. The temp file is removed on
// every exit path.
func (w *WhisperClient) Transcribe(ctx context.Context, audio []byte, suffix string) ([]types.Segment, error) {
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: empty audio", ErrUndecodable)
	}

	tmp, err := os.CreateTemp("", "coach-upload-*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(audio); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("stage upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}

	parsed, err := w.post(ctx, path)
	if err != nil {
		return nil, err
	}

	spans := make([]types.Segment, 0, len(parsed.Segments))
	for _, s := range parsed.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		spans = append(spans, types.Segment{Start: s.Start, End: s.End, Text: text})
	}
	w.log.WithFields(logrus.Fields{
		"spans":    len(spans),
		"language": parsed.Language,
	}).Info("transcription finished")
	return spans, nil
}

func (w *WhisperClient) post(ctx context.Context, path string) (*whisperResponse, error) {
	var out *whisperResponse
	var lastErr error

	op := func() error {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", filepath.Base(path))
		if err != nil {
			return backoff.Permanent(err)
		}
		fd, err := os.Open(path)
		if err != nil {
			return backoff.Permanent(err)
		}
		if _, err = io.Copy(fw, fd); err != nil {
			fd.Close()
			return backoff.Permanent(err)
		}
		fd.Close()
		if err = mw.Close(); err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/transcribe", &buf)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())

		resp, err := w.client.Do(req)
		if err != nil {
			lastErr = err
			return err
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			lastErr = fmt.Errorf("%w: %s", ErrUndecodable, strings.TrimSpace(string(body)))
			return backoff.Permanent(lastErr)
		}
		if resp.StatusCode >= 300 {
			lastErr = fmt.Errorf("whisper %s: %s", resp.Status, string(body))
			return lastErr
		}

		var parsed whisperResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			lastErr = fmt.Errorf("whisper decode: %w", err)
			return lastErr
		}
		out = &parsed
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, err
	}
	return out, nil
}
