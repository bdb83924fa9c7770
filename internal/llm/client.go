package llm

import "context"

// Message is one turn in the conversation sent to the model. Tool results
// are user-role messages carrying the ToolCallID they answer.
type Message struct {
	Role       string     `json:"role"` // user, assistant
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a tool invocation the model requested in one round. ID
// correlates the eventual result back to this call.
type ToolCall struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Params map[string]any `json:"params"`
}

// Response is what one model round produced: either tool calls to execute,
// or (when ToolCalls is empty) the final answer text. ToolCalls preserves
// the order the model declared them in.
type Response struct {
	Content   string
	ToolCalls []ToolCall
}

// Tool describes one entry of the tool catalog exposed to the model.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

type Client interface {
	Chat(ctx context.Context, systemPrompt string, messages []Message, tools []Tool) (*Response, error)
}
