package conversation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroqClientRequiresKey(t *testing.T) {
	_, err := NewGroqLLMClient(" ", "", "llama", nil)
	require.Error(t, err)
}

func TestGroqClientComplete(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "llama-3.3-70b-versatile",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Detox Morning Tea is Rs. 1,090! "}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 120, "completion_tokens": 12, "total_tokens": 132}
		}`))
	}))
	defer server.Close()

	client, err := NewGroqLLMClient("gsk_test", server.URL+"/", "llama-3.3-70b-versatile", server.Client())
	require.NoError(t, err)

	resp, err := client.Complete(context.Background(), LLMRequest{
		System: []string{"be brief", "catalog"},
		Messages: []ChatMessage{
			{Role: ChatRoleUser, Content: "hi"},
			{Role: ChatRoleAssistant, Content: "hello"},
			{Role: ChatRoleUser, Content: "Detox Morning Tea price?"},
		},
		MaxTokens:   300,
		Temperature: 0.9,
		TopP:        0.95,
	})
	require.NoError(t, err)
	assert.Equal(t, "Detox Morning Tea is Rs. 1,090! ", resp.Text)
	assert.Equal(t, "stop", resp.StopReason)
	assert.Equal(t, "groq", resp.Provider)
	assert.Equal(t, int32(132), resp.Usage.TotalTokens)

	assert.Equal(t, "llama-3.3-70b-versatile", received["model"])
	assert.InDelta(t, 0.9, received["temperature"], 0.0001)
	assert.InDelta(t, 0.95, received["top_p"], 0.0001)
	assert.EqualValues(t, 300, received["max_tokens"])

	msgs, ok := received["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 4)
	first := msgs[0].(map[string]any)
	assert.Equal(t, "system", first["role"])
	assert.Equal(t, "be brief\n\ncatalog", first["content"])
	last := msgs[3].(map[string]any)
	assert.Equal(t, "user", last["role"])
	assert.Equal(t, "Detox Morning Tea price?", last["content"])
}

func TestGroqClientErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited", "type": "tokens"}}`))
	}))
	defer server.Close()

	client, err := NewGroqLLMClient("gsk_test", server.URL, "llama", server.Client())
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), LLMRequest{Messages: []ChatMessage{{Role: ChatRoleUser, Content: "hi"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "groq completion failed")

	_, err = client.Complete(context.Background(), LLMRequest{})
	require.Error(t, err)

	_, err = client.Complete(context.Background(), LLMRequest{Messages: []ChatMessage{{Role: "tool", Content: "x"}}})
	require.Error(t, err)
}
