package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"interview-coach-go/internal/config"
	"interview-coach-go/internal/llm"
	"interview-coach-go/internal/logger"
	"interview-coach-go/internal/pipeline"
	"interview-coach-go/internal/questions"
	"interview-coach-go/internal/scorer"
	"interview-coach-go/internal/transcription"
	"interview-coach-go/internal/tts"
)

var allowedSuffixes = map[string]bool{
	".webm": true, ".mp4": true, ".ogg": true,
	".wav": true, ".mp3": true, ".m4a": true,
}

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "interview-coach").Info("starting service")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	gemini := llm.NewGemini(cfg.LLM)
	ollama := llm.NewOllama(cfg.LLM)
	gateway := llm.NewGatewayWith(cfg.LLM.Provider, gemini, ollama)

	bank := questions.Defaults
	if cfg.QuestionBank != "" {
		loaded, err := questions.LoadBank(cfg.QuestionBank)
		if err != nil {
			log.WithError(err).WithField("path", cfg.QuestionBank).Fatal("failed to load question bank")
		}
		log.WithField("questions", len(loaded)).Info("custom question bank loaded")
		bank = loaded
	}
	questionSvc := questions.NewService(gateway, bank)

	p := pipeline.New(transcription.NewWhisperClient(cfg.Whisper.URL), scorer.New(gateway))
	speech := tts.NewClient(cfg.TTS.URL)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("/api/analyze", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "analyze")
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		file, header, err := r.FormFile("audio")
		if err != nil {
			reqLog.Warn("missing audio upload")
			http.Error(w, "missing audio file", http.StatusBadRequest)
			return
		}
		defer file.Close()
		audio, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, "failed to read upload", http.StatusBadRequest)
			return
		}
		if len(audio) == 0 {
			http.Error(w, "empty audio file", http.StatusBadRequest)
			return
		}

		suffix := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedSuffixes[suffix] {
			suffix = ".webm"
		}

		opts := pipeline.Options{
			IncludeRewrites: boolValue(r.FormValue("include_rewrites")) || boolValue(r.URL.Query().Get("include_rewrites")),
			QuestionText:    r.FormValue("question_text"),
			JobDescription:  r.FormValue("job_description"),
		}
		reqLog = reqLog.WithField("bytes", len(audio)).WithField("suffix", suffix)
		reqLog.Info("analysis started")

		start := time.Now()
		result, err := p.Analyze(r.Context(), audio, suffix, opts)
		if err != nil {
			if errors.Is(err, transcription.ErrUndecodable) {
				reqLog.WithError(err).Warn("undecodable upload")
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			reqLog.WithError(err).Error("analysis failed")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		reqLog.WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("segments", len(result.Segments)).Info("analysis finished")
		writeJSON(w, http.StatusOK, result)
	})

	mux.HandleFunc("/api/questions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"questions": questionSvc.Bank()})
	})

	mux.HandleFunc("/api/adapt-questions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var body struct {
			JobDescription string `json:"job_description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		qs := questionSvc.Adapt(r.Context(), body.JobDescription)
		writeJSON(w, http.StatusOK, map[string]any{"questions": qs})
	})

	mux.HandleFunc("/api/tts/voices", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"voices": tts.Voices})
	})

	mux.HandleFunc("/api/tts", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "tts")
		text := r.URL.Query().Get("text")
		if text == "" {
			http.Error(w, "missing text", http.StatusBadRequest)
			return
		}
		audio, err := speech.Synthesize(r.Context(), text, r.URL.Query().Get("voice"))
		if err != nil {
			reqLog.WithError(err).Warn("synthesis failed")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(audio)
	})

	mux.HandleFunc("/api/debug-llm", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()
		reply := gateway.Chat(ctx, "", `Return only this JSON: {"test": true}`, true)
		preview := reply.Content
		if len(preview) > 500 {
			preview = preview[:500]
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":               reply.Provider != llm.ProviderNone,
			"provider":         reply.Provider,
			"response_preview": preview,
		})
	})

	mux.HandleFunc("/api/check", func(w http.ResponseWriter, r *http.Request) {
		_, ffmpegErr := exec.LookPath("ffmpeg")
		result := map[string]any{
			"ffmpeg":            ffmpegErr == nil,
			"gemini_configured": gemini.Available(),
			"ollama":            false,
			"model":             cfg.LLM.OllamaModel,
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if models, err := ollama.Models(ctx); err == nil {
			for _, m := range models {
				if strings.Contains(m, cfg.LLM.OllamaModel) {
					result["ollama"] = true
					break
				}
			}
		}
		result["llm_ready"] = result["gemini_configured"] == true || result["ollama"] == true
		writeJSON(w, http.StatusOK, result)
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      cors(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).WithField("llm_provider", cfg.LLM.Provider).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logger.New().WithError(err).Error("failed to write response")
	}
}

func boolValue(s string) bool {
	return s == "true" || s == "1"
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
