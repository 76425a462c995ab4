// Package providers defines the interfaces for talking to chat models and
// embedding models, independent of the backend (OpenAI, Gemini, Ollama).
package providers

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMissingAPIKey is returned when a hosted provider is built without credentials.
	ErrMissingAPIKey = errors.New("missing api key")
	// ErrEmptyResponse is returned when a provider answers without any content.
	ErrEmptyResponse = errors.New("empty response")
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in a chat conversation.
// It contains the role of the message sender (e.g., "user", "assistant") and the message content.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is one non-streaming chat completion call.
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	Messages     []ChatMessage
	Temperature  float64
}

// Usage reports token accounting when the backend provides it.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the model reply for a CompletionRequest.
type Completion struct {
	Model    string
	Content  string
	Usage    Usage
	Duration time.Duration
}

// ChatProvider is the interface that all chat model backends implement.
type ChatProvider interface {
	// Name identifies the backend, e.g. "openai".
	Name() string
	// Complete sends one request and waits for the full reply.
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
	// Close cleans up any resources used by the provider.
	Close() error
}

// Embedder turns one text into one vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// UserPrompt builds a single-turn request.
func UserPrompt(model, prompt string, temperature float64) CompletionRequest {
	return CompletionRequest{
		Model:       model,
		Messages:    []ChatMessage{{Role: RoleUser, Content: prompt}},
		Temperature: temperature,
	}
}

// WithSystem returns the request messages with the system prompt, if any, first.
func (r CompletionRequest) WithSystem() []ChatMessage {
	if r.SystemPrompt == "" {
		return r.Messages
	}
	out := make([]ChatMessage, 0, len(r.Messages)+1)
	out = append(out, ChatMessage{Role: RoleSystem, Content: r.SystemPrompt})
	return append(out, r.Messages...)
}
