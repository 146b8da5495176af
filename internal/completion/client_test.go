package completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.Completion{
		BaseURL:           baseURL,
		APIKey:            "test-key",
		DefaultModel:      "gpt-4o",
		CompletionTimeout: 5 * time.Second,
	})
}

func TestGenerateChatResponse(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "Hello! How can I help?"}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	answer, err := client.GenerateChatResponse(context.Background(), []Message{
		{Role: "system", Content: "You are a helpful AI assistant."},
		{Role: "user", Content: "hi"},
	}, "", 0.7, 512)
	require.NoError(t, err)
	assert.Equal(t, "Hello! How can I help?", answer)
	assert.Equal(t, "gpt-4o", gotReq.Model, "пустая модель заменяется на модель по умолчанию")
	assert.Equal(t, 512, gotReq.MaxTokens)
}

func TestGenerateChatResponse_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GenerateChatResponse(context.Background(), []Message{
		{Role: "user", Content: "hi"},
	}, "gpt-4o", 0.7, 512)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestGenerateChatResponse_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GenerateChatResponse(context.Background(), []Message{
		{Role: "user", Content: "hi"},
	}, "gpt-4o", 0.7, 512)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty choices")
}

func TestGenerateEmbedding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	embedding, err := client.GenerateEmbedding(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, embedding)
}

func TestListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"gpt-4o"},{"id":"whisper-1"},{"id":"claude-3-opus"},{"id":"dall-e-3"}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-4o", "claude-3-opus"}, models, "оставляем только модели генерации текста")
}
