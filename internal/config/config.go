package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Provider modes accepted for LLM.Provider.
const (
	ProviderAuto   = "auto"
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// LLM holds provider credentials and selection. It is resolved once at
// startup and threaded into the gateway; nothing below main reads the
// environment directly.
type LLM struct {
	Provider     string `yaml:"provider"` // auto | gemini | ollama
	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`
	OllamaURL    string `yaml:"ollama_url"`
	OllamaModel  string `yaml:"ollama_model"`
}

type Service struct {
	URL string `yaml:"url"`
}

type Config struct {
	Port         string  `yaml:"port"`
	LLM          LLM     `yaml:"llm"`
	Whisper      Service `yaml:"whisper"`
	TTS          Service `yaml:"tts"`
	QuestionBank string  `yaml:"question_bank"`
}

// Load builds the config from defaults, an optional YAML file (CONFIG_PATH
// or ./config.yaml), and finally environment overrides, in that order.
func Load() (*Config, error) {
	cfg := &Config{
		Port: "8080",
		LLM: LLM{
			Provider:    ProviderAuto,
			GeminiModel: "gemini-1.5-flash",
			OllamaURL:   "http://localhost:11434",
			OllamaModel: "llama3.2",
		},
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if os.Getenv("CONFIG_PATH") != "" {
		// an explicitly named file must exist
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnv(cfg)

	switch cfg.LLM.Provider {
	case ProviderAuto, ProviderGemini, ProviderOllama:
	default:
		return nil, fmt.Errorf("invalid llm provider %q", cfg.LLM.Provider)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Port = envOr("PORT", cfg.Port)
	cfg.LLM.Provider = envOr("LLM_PROVIDER", cfg.LLM.Provider)
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.LLM.GeminiAPIKey = key
	} else if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		cfg.LLM.GeminiAPIKey = key
	}
	cfg.LLM.GeminiModel = envOr("GEMINI_MODEL", cfg.LLM.GeminiModel)
	cfg.LLM.OllamaURL = envOr("OLLAMA_URL", cfg.LLM.OllamaURL)
	cfg.LLM.OllamaModel = envOr("OLLAMA_MODEL", cfg.LLM.OllamaModel)
	cfg.Whisper.URL = envOr("WHISPER_URL", cfg.Whisper.URL)
	cfg.TTS.URL = envOr("TTS_URL", cfg.TTS.URL)
	cfg.QuestionBank = envOr("QUESTION_BANK_PATH", cfg.QuestionBank)
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
