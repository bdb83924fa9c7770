package llm

// TrimMessages trims a message history to fit within a token budget.
//
// The budget should already account for the system prompt, the tool catalog,
// and a reserve for the model's output; this function only manages the
// message list. Oldest exchanges are dropped first, and the most recent
// group (the active turn) is always kept.
//
// A tool-call round — an assistant message with tool calls plus all its
// tool-result messages — is never split: the model cannot correlate a
// tool_result whose tool_use has been trimmed away.
func TrimMessages(messages []Message, maxTokens int) []Message {
	if len(messages) == 0 {
		return messages
	}

	groups := groupMessages(messages)

	total := 0
	for _, g := range groups {
		total += g.tokens
	}

	if total <= maxTokens {
		return messages
	}

	kept := total
	dropUntil := 0
	for dropUntil < len(groups)-1 && kept > maxTokens {
		kept -= groups[dropUntil].tokens
		dropUntil++
	}

	var trimmed []Message
	for _, g := range groups[dropUntil:] {
		trimmed = append(trimmed, g.messages...)
	}
	return trimmed
}

// messageGroup is a unit of conversation that is kept or dropped whole.
type messageGroup struct {
	messages []Message
	tokens   int
}

func groupMessages(messages []Message) []messageGroup {
	var groups []messageGroup
	i := 0
	for i < len(messages) {
		msg := messages[i]

		// Assistant message with tool calls: group with its tool results.
		if msg.Role == "assistant" && len(msg.ToolCalls) > 0 {
			group := messageGroup{}
			group.messages = append(group.messages, msg)
			group.tokens += EstimateMessageTokens(msg)
			i++
			for i < len(messages) && messages[i].ToolCallID != "" {
				group.messages = append(group.messages, messages[i])
				group.tokens += EstimateMessageTokens(messages[i])
				i++
			}
			groups = append(groups, group)
			continue
		}

		groups = append(groups, messageGroup{
			messages: []Message{msg},
			tokens:   EstimateMessageTokens(msg),
		})
		i++
	}
	return groups
}
