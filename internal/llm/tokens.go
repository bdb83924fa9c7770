package llm

import "encoding/json"

// charsPerToken is a rough average for budgeting purposes. Real tokenizers
// vary, but 4 chars/token is close enough for deciding when to trim history.
const charsPerToken = 4

// EstimateTokens returns a rough token count for a string.
func EstimateTokens(s string) int {
	if len(s) == 0 {
		return 0
	}
	return (len(s) + charsPerToken - 1) / charsPerToken // round up
}

// EstimateMessageTokens returns the estimated token count for a single
// message, including tool calls and per-message framing overhead.
func EstimateMessageTokens(m Message) int {
	tokens := 4 // role tokens, delimiters
	tokens += EstimateTokens(m.Content)
	for _, tc := range m.ToolCalls {
		tokens += EstimateTokens(tc.Name)
		if params, err := json.Marshal(tc.Params); err == nil {
			tokens += EstimateTokens(string(params))
		}
		tokens += 4 // tool call framing
	}
	if m.ToolCallID != "" {
		tokens += EstimateTokens(m.ToolCallID) + 2
	}
	return tokens
}

// EstimateMessagesTokens returns the total estimated tokens for a slice of messages.
func EstimateMessagesTokens(messages []Message) int {
	total := 0
	for _, m := range messages {
		total += EstimateMessageTokens(m)
	}
	return total
}

// EstimateToolsTokens returns the estimated tokens for the tool catalog.
// Schemas are serialized as JSON in API requests and count against context.
func EstimateToolsTokens(tools []Tool) int {
	total := 0
	for _, t := range tools {
		total += EstimateTokens(t.Name)
		total += EstimateTokens(t.Description)
		if schema, err := json.Marshal(t.Parameters); err == nil {
			total += EstimateTokens(string(schema))
		}
		total += 10 // per-tool framing
	}
	return total
}
