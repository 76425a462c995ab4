// Package ollama provides chat and embedding clients backed by Ollama HTTP endpoints.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mwiater/vqabench/internal/logging"
	"github.com/mwiater/vqabench/internal/providers"
)

const (
	// Name is the provider identifier used in config and metrics.
	Name = "ollama"
	// DefaultBaseURL is the address of a local Ollama server.
	DefaultBaseURL = "http://localhost:11434"
)

// Config holds the Ollama client settings.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Provider implements the providers.ChatProvider interface using the /api/chat endpoint.
type Provider struct {
	client  *http.Client
	baseURL string
	model   string
	timeout time.Duration
}

// New constructs a Provider configured with the application's request timeout.
func New(cfg Config) *Provider {
	return &Provider{
		client:  newHTTPClient(cfg.Timeout),
		baseURL: baseURL(cfg.BaseURL),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &http.Transport{ForceAttemptHTTP2: false},
	}
}

func baseURL(u string) string {
	u = strings.TrimRight(strings.TrimSpace(u), "/")
	if u == "" {
		return DefaultBaseURL
	}
	return u
}

// chatResponse defines the structure of a non-streaming /api/chat reply.
type chatResponse struct {
	Model   string `json:"model"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done            bool  `json:"done"`
	TotalDuration   int64 `json:"total_duration"`
	PromptEvalCount int   `json:"prompt_eval_count"`
	EvalCount       int   `json:"eval_count"`
}

// Name implements providers.ChatProvider.
func (p *Provider) Name() string { return Name }

// Complete issues a non-streaming chat request.
func (p *Provider) Complete(ctx context.Context, req providers.CompletionRequest) (providers.Completion, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}
	messages := req.WithSystem()
	if len(messages) == 0 {
		messages = []providers.ChatMessage{}
	}

	payload := map[string]any{
		"model":    model,
		"messages": messages,
		"options":  map[string]any{"temperature": req.Temperature},
		"stream":   false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return providers.Completion{}, err
	}
	logging.LogRequest("VQA->LLM", p.baseURL, model, "chat", body)

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return providers.Completion{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return providers.Completion{}, fmt.Errorf("ollama: chat request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return providers.Completion{}, err
	}
	logging.LogRequest("LLM->VQA", p.baseURL, model, "chat", raw)

	if resp.StatusCode != http.StatusOK {
		return providers.Completion{}, fmt.Errorf("ollama: /api/chat returned %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	var result chatResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return providers.Completion{}, fmt.Errorf("ollama: parse chat response: %w", err)
	}
	content := strings.TrimSpace(result.Message.Content)
	if content == "" {
		return providers.Completion{}, fmt.Errorf("ollama chat: %w", providers.ErrEmptyResponse)
	}

	modelName := result.Model
	if modelName == "" {
		modelName = model
	}
	return providers.Completion{
		Model:   modelName,
		Content: content,
		Usage: providers.Usage{
			PromptTokens:     result.PromptEvalCount,
			CompletionTokens: result.EvalCount,
			TotalTokens:      result.PromptEvalCount + result.EvalCount,
		},
		Duration: time.Since(start),
	}, nil
}

// Close implements providers.ChatProvider.
func (p *Provider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}
