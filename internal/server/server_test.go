package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaltSixteen/terminpilot-agent/internal/agent"
	"github.com/SaltSixteen/terminpilot-agent/internal/booking"
	"github.com/SaltSixteen/terminpilot-agent/internal/llm"
)

// scriptedClient replays canned model responses and records what it saw.
type scriptedClient struct {
	responses    []*llm.Response
	calls        int
	userMessages []string
}

func (c *scriptedClient) Chat(_ context.Context, _ string, messages []llm.Message, _ []llm.Tool) (*llm.Response, error) {
	for _, m := range messages {
		if m.Role == "user" && m.ToolCallID == "" {
			c.userMessages = append(c.userMessages, m.Content)
		}
	}
	resp := c.responses[c.calls]
	if c.calls < len(c.responses)-1 {
		c.calls++
	}
	return resp, nil
}

func newTestHandler(client llm.Client) http.Handler {
	registry := booking.NewRegistry(booking.DefaultServices)
	ag := agent.New(client, registry, agent.Options{
		SystemPrompt:     llm.SystemPrompt,
		Catalog:          llm.AgentTools,
		MaxRounds:        4,
		MaxContextTokens: 100000,
	})
	return NewHandler(ag)
}

func TestLiveness(t *testing.T) {
	h := newTestHandler(&scriptedClient{responses: []*llm.Response{{Content: "ok"}}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "TerminPilot Agent is running.", rec.Body.String())
}

func TestChat_FinalAnswer(t *testing.T) {
	h := newTestHandler(&scriptedClient{responses: []*llm.Response{
		{Content: "Gerne! Wann passt es Ihnen?"},
	}})

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"userMessage":"Ich brauche einen Haarschnitt"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, "Gerne! Wann passt es Ihnen?", body.Reply)
	assert.Empty(t, body.Error)
}

func TestChat_DefaultGreeting(t *testing.T) {
	client := &scriptedClient{responses: []*llm.Response{{Content: "Hallo!"}}}
	h := newTestHandler(client)

	req := httptest.NewRequest(http.MethodPost, "/chat", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, client.userMessages)
	assert.Equal(t, "Hallo!", client.userMessages[0])
}

func TestChat_ToolRoundTrip(t *testing.T) {
	// Model asks for an availability check, then answers from the result.
	h := newTestHandler(&scriptedClient{responses: []*llm.Response{
		{ToolCalls: []llm.ToolCall{{
			ID:   "call_1",
			Name: "getAvailability",
			Params: map[string]any{
				"service":  "Herrenhaarschnitt",
				"dateFrom": "2026-09-01T10:00:00Z",
			},
		}}},
		{Content: "Drei Termine sind frei."},
	}})

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"userMessage":"Wann ist was frei?"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, "Drei Termine sind frei.", body.Reply)
}

func TestChat_RoundLimitSurfacesAsError(t *testing.T) {
	// A model that never produces a final answer.
	h := newTestHandler(&scriptedClient{responses: []*llm.Response{
		{ToolCalls: []llm.ToolCall{{ID: "c", Name: "sendMessage", Params: map[string]any{}}}},
	}})

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"userMessage":"Hallo"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.OK)
	assert.Contains(t, body.Error, "tool loop")
}

func TestChat_MalformedBodyFallsBackToGreeting(t *testing.T) {
	client := &scriptedClient{responses: []*llm.Response{{Content: "Hallo!"}}}
	h := newTestHandler(client)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, client.userMessages)
	assert.Equal(t, "Hallo!", client.userMessages[0])
}
