package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sol-backend/application/ports"
	"sol-backend/pkg/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenAIProvider_Complete(t *testing.T) {
	var body map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "INSIGHTS: [\nValues steady growth\n]"}}]
		}`))
	}))
	defer server.Close()

	metrics := observability.NewCollector("test")
	provider := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL}, metrics, nil, zap.NewNop())

	text, err := provider.Complete(context.Background(), "extract please", ports.CompletionOptions{
		System:      "You are a coach.",
		Temperature: 0.3,
		MaxTokens:   600,
	})

	require.NoError(t, err)
	assert.Contains(t, text, "Values steady growth")
	assert.Equal(t, "openai", provider.Name())
	assert.Equal(t, DefaultOpenAIModel, body["model"])
	assert.EqualValues(t, 600, body["max_tokens"])

	messages := body["messages"].([]interface{})
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.LLMCalls.WithLabelValues("openai", "success")))
}

func TestOpenAIProvider_ErrorIsNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"message": "boom", "type": "server_error"}}`))
	}))
	defer server.Close()

	metrics := observability.NewCollector("test")
	provider := NewOpenAIProvider(Config{APIKey: "k", BaseURL: server.URL}, metrics, nil, zap.NewNop())

	_, err := provider.Complete(context.Background(), "hi", ports.CompletionOptions{})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.LLMCalls.WithLabelValues("openai", "error")))
}
