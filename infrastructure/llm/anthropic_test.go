package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sol-backend/application/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAnthropicProvider_Complete(t *testing.T) {
	var body map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-haiku-latest",
			"stop_reason": "end_turn",
			"content": [{"type": "text", "text": "Keep the next step small."}],
			"usage": {"input_tokens": 10, "output_tokens": 7}
		}`))
	}))
	defer server.Close()

	provider := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL}, nil, nil, zap.NewNop())

	text, err := provider.Complete(context.Background(), "What now?", ports.CompletionOptions{System: "Be brief.", Temperature: 0.5})

	require.NoError(t, err)
	assert.Equal(t, "Keep the next step small.", text)
	assert.EqualValues(t, defaultAnthropicMaxTokens, body["max_tokens"])
	assert.NotNil(t, body["system"])
	assert.Equal(t, "anthropic", provider.Name())
}
