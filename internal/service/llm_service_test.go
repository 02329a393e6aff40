package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abdallahade1/ConceptCatch/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeLLM(t *testing.T, reply string) (*httptest.Server, *LLMService) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.NotEmpty(t, req.Messages)

		json.NewEncoder(w).Encode(ChatCompletionResponse{
			Choices: []struct {
				Message ChatMessage `json:"message"`
			}{
				{Message: ChatMessage{Role: "assistant", Content: reply}},
			},
		})
	}))
	t.Cleanup(server.Close)

	svc := NewLLMService(config.AIConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "test-model",
	})
	return server, svc
}

func TestChatReturnsCompletion(t *testing.T) {
	_, svc := newFakeLLM(t, "The answer is 4.")

	text, err := svc.Chat(context.Background(), "test", "You are a tutor.", "What is 2+2?")
	require.NoError(t, err)
	assert.Equal(t, "The answer is 4.", text)
}

func TestChatJSONCoercesFencedReply(t *testing.T) {
	_, svc := newFakeLLM(t, "Here you go:\n```json\n{\"title\":\"Fractions Quiz\"}\n```")

	var out struct {
		Title string `json:"title"`
	}
	err := svc.ChatJSON(context.Background(), "test", "", "make a quiz", &out)
	require.NoError(t, err)
	assert.Equal(t, "Fractions Quiz", out.Title)
}

func TestChatPropagatesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	t.Cleanup(server.Close)

	svc := NewLLMService(config.AIConfig{BaseURL: server.URL, APIKey: "k", Model: "m"})
	_, err := svc.Chat(context.Background(), "test", "", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestChatNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	t.Cleanup(server.Close)

	svc := NewLLMService(config.AIConfig{BaseURL: server.URL, APIKey: "k", Model: "m"})
	_, err := svc.Chat(context.Background(), "test", "", "hello")
	assert.Error(t, err)
}
