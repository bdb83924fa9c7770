package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	LLMProvider      string // anthropic, openai, ollama
	AnthropicKey     string
	OpenAIKey        string
	LLMModel         string
	OllamaBaseURL    string
	Port             string
	MaxToolRounds    int
	MaxToolCalls     int
	RoundTimeout     time.Duration
	MaxContextTokens int
}

func Load() *Config {
	_ = godotenv.Load() // ignore error if no .env

	return &Config{
		LLMProvider:      envOr("LLM_PROVIDER", "openai"),
		AnthropicKey:     os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		LLMModel:         os.Getenv("LLM_MODEL"),
		OllamaBaseURL:    envOr("OLLAMA_BASE_URL", "http://localhost:11434/v1"),
		Port:             envOr("PORT", "3000"),
		MaxToolRounds:    envOrInt("MAX_TOOL_ROUNDS", 8),
		MaxToolCalls:     envOrInt("MAX_TOOL_CALLS", 24),
		RoundTimeout:     time.Duration(envOrInt("ROUND_TIMEOUT_SECONDS", 60)) * time.Second,
		MaxContextTokens: envOrInt("MAX_CONTEXT_TOKENS", 100000),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
