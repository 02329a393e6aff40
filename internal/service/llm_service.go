package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/abdallahade1/ConceptCatch/internal/config"
	"github.com/abdallahade1/ConceptCatch/internal/util"
	"github.com/abdallahade1/ConceptCatch/pkg/monitoring"
)

// LLMService talks to any OpenAI-compatible chat completions endpoint.
type LLMService struct {
	config config.AIConfig
	client *http.Client
}

func NewLLMService(cfg config.AIConfig) *LLMService {
	return &LLMService{
		config: cfg,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Chat sends a system/user prompt pair and returns the raw completion
// text. The operation label only feeds metrics.
func (s *LLMService) Chat(ctx context.Context, operation, systemPrompt, userPrompt string) (string, error) {
	start := time.Now()
	text, err := s.chat(ctx, systemPrompt, userPrompt)
	monitoring.ObserveLLMCall(operation, start, err)
	return text, err
}

// ChatJSON runs Chat and coerces the completion into v, tolerating
// markdown fences and surrounding prose.
func (s *LLMService) ChatJSON(ctx context.Context, operation, systemPrompt, userPrompt string, v interface{}) error {
	text, err := s.Chat(ctx, operation, systemPrompt, userPrompt)
	if err != nil {
		return err
	}
	return util.ExtractJSONObject(text, v)
}

func (s *LLMService) chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []ChatMessage{}
	if systemPrompt != "" {
		messages = append(messages, ChatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, ChatMessage{Role: "user", Content: userPrompt})

	reqBody := ChatCompletionRequest{
		Model:    s.config.Model,
		Messages: messages,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("LLM API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	if result.Error != nil {
		return "", fmt.Errorf("LLM API error: %s", result.Error.Message)
	}

	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("LLM returned no choices")
}
