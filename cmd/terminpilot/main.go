package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SaltSixteen/terminpilot-agent/config"
	"github.com/SaltSixteen/terminpilot-agent/internal/agent"
	"github.com/SaltSixteen/terminpilot-agent/internal/booking"
	"github.com/SaltSixteen/terminpilot-agent/internal/llm"
	"github.com/SaltSixteen/terminpilot-agent/internal/server"
)

func main() {
	cfg := config.Load()

	apiKey := cfg.OpenAIKey
	if cfg.LLMProvider == "anthropic" {
		apiKey = cfg.AnthropicKey
	}

	client, err := llm.NewClient(llm.ProviderConfig{
		Provider: cfg.LLMProvider,
		APIKey:   apiKey,
		Model:    cfg.LLMModel,
		BaseURL:  cfg.OllamaBaseURL,
	})
	if err != nil {
		log.Fatalf("failed to create LLM client: %v", err)
	}

	registry := booking.NewRegistry(booking.DefaultServices)
	ag := agent.New(client, registry, agent.Options{
		SystemPrompt:     llm.SystemPrompt,
		Catalog:          llm.AgentTools,
		MaxRounds:        cfg.MaxToolRounds,
		MaxToolCalls:     cfg.MaxToolCalls,
		RoundTimeout:     cfg.RoundTimeout,
		MaxContextTokens: cfg.MaxContextTokens,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.NewHandler(ag),
	}

	go func() {
		log.Printf("agent listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down.")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
