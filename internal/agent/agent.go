// Package agent drives the tool-call loop: send the conversation to the
// model, execute whatever tools it asks for, feed the results back, repeat
// until it answers in plain text or runs into the round ceiling.
package agent

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/SaltSixteen/terminpilot-agent/internal/llm"
)

const (
	defaultMaxRounds    = 8
	defaultMaxToolCalls = 24
)

// Dispatcher executes one tool call and returns the result payload as a
// JSON string. Implementations must fold their own failures into the
// payload — the loop forwards whatever comes back to the model verbatim.
type Dispatcher interface {
	Dispatch(name string, args any) string
}

// Options is the immutable loop configuration, built once at startup.
type Options struct {
	SystemPrompt     string
	Catalog          []llm.Tool
	MaxRounds        int           // model rounds per request
	MaxToolCalls     int           // total tool dispatches per request
	RoundTimeout     time.Duration // per model call; 0 disables
	MaxContextTokens int
}

// RoundLimitError is returned when a request exhausts its round or
// tool-call budget without the model producing a final answer.
type RoundLimitError struct {
	Rounds    int
	ToolCalls int
}

func (e *RoundLimitError) Error() string {
	return fmt.Sprintf("tool loop gave up after %d rounds and %d tool calls", e.Rounds, e.ToolCalls)
}

type Agent struct {
	client llm.Client
	tools  Dispatcher
	opts   Options
}

func New(client llm.Client, tools Dispatcher, opts Options) *Agent {
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = defaultMaxRounds
	}
	if opts.MaxToolCalls <= 0 {
		opts.MaxToolCalls = defaultMaxToolCalls
	}
	return &Agent{client: client, tools: tools, opts: opts}
}

// Run takes a user message, runs the tool-calling loop, and returns the
// final text response along with the full transcript.
func (a *Agent) Run(ctx context.Context, history []llm.Message, userMessage string) (string, []llm.Message, error) {
	messages := make([]llm.Message, len(history))
	copy(messages, history)
	messages = append(messages, llm.Message{Role: "user", Content: userMessage})

	// Fixed costs: system prompt + tool catalog.
	messageBudget := a.opts.MaxContextTokens - llm.EstimateTokens(a.opts.SystemPrompt) - llm.EstimateToolsTokens(a.opts.Catalog)
	if messageBudget < 1000 {
		messageBudget = 1000 // floor so the current turn always fits
	}

	totalCalls := 0
	for round := 0; round < a.opts.MaxRounds; round++ {
		trimmed := llm.TrimMessages(messages, messageBudget)
		if len(trimmed) < len(messages) {
			log.Printf("context trimmed: %d → %d messages", len(messages), len(trimmed))
		}

		resp, err := a.chat(ctx, trimmed)
		if err != nil {
			return "", nil, fmt.Errorf("llm chat: %w", err)
		}

		// No tool calls — final answer.
		if len(resp.ToolCalls) == 0 {
			messages = append(messages, llm.Message{Role: "assistant", Content: resp.Content})
			return resp.Content, messages, nil
		}

		totalCalls += len(resp.ToolCalls)
		if totalCalls > a.opts.MaxToolCalls {
			return "", messages, &RoundLimitError{Rounds: round + 1, ToolCalls: totalCalls}
		}

		messages = append(messages, llm.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		// Dispatch the round's calls and append results in call order so
		// the model can correlate them by id.
		results := a.dispatchAll(resp.ToolCalls)
		for i, tc := range resp.ToolCalls {
			messages = append(messages, llm.Message{
				Role:       "user",
				Content:    results[i],
				ToolCallID: tc.ID,
			})
		}
	}

	return "", messages, &RoundLimitError{Rounds: a.opts.MaxRounds, ToolCalls: totalCalls}
}

// chat bounds a single model round with the configured timeout.
func (a *Agent) chat(ctx context.Context, messages []llm.Message) (*llm.Response, error) {
	if a.opts.RoundTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.RoundTimeout)
		defer cancel()
	}
	return a.client.Chat(ctx, a.opts.SystemPrompt, messages, a.opts.Catalog)
}

// dispatchAll runs the round's tool calls concurrently. Handlers share no
// state, so only the result ordering matters: results[i] answers calls[i].
func (a *Agent) dispatchAll(calls []llm.ToolCall) []string {
	results := make([]string, len(calls))
	var wg sync.WaitGroup
	for i, tc := range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = a.tools.Dispatch(tc.Name, tc.Params)
			log.Printf("tool %s → %s", tc.Name, truncate(results[i], 200))
		}()
	}
	wg.Wait()
	return results
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
