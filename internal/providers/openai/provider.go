// Package openai provides chat and embedding clients for OpenAI-compatible APIs.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mwiater/vqabench/internal/logging"
	"github.com/mwiater/vqabench/internal/providers"
)

// Name is the provider identifier used in config and metrics.
const Name = "openai"

// Config holds the client settings shared by chat and embeddings.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	Timeout    time.Duration
}

func newClient(cfg Config) (*openai.Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" && strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("openai: %w (set OPENAI_API_KEY)", providers.ErrMissingAPIKey)
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientCfg), nil
}

// Provider implements providers.ChatProvider with the chat completions API.
type Provider struct {
	client  *openai.Client
	model   string
	host    string
	timeout time.Duration
}

// New constructs a chat provider.
func New(cfg Config) (*Provider, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	host := cfg.BaseURL
	if host == "" {
		host = "api.openai.com"
	}
	return &Provider{client: client, model: cfg.Model, host: host, timeout: cfg.Timeout}, nil
}

// Name implements providers.ChatProvider.
func (p *Provider) Name() string { return Name }

// Complete implements providers.ChatProvider.
func (p *Provider) Complete(ctx context.Context, req providers.CompletionRequest) (providers.Completion, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	for _, m := range req.WithSystem() {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature(req.Temperature),
	}
	logging.LogRequest("VQA->LLM", p.host, model, "chat", chatReq)

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return providers.Completion{}, parseAPIError("chat", err)
	}
	logging.LogRequest("LLM->VQA", p.host, model, "chat", resp)

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return providers.Completion{}, fmt.Errorf("openai chat: %w", providers.ErrEmptyResponse)
	}

	respModel := resp.Model
	if respModel == "" {
		respModel = model
	}
	return providers.Completion{
		Model:   respModel,
		Content: strings.TrimSpace(resp.Choices[0].Message.Content),
		Usage: providers.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
		Duration: time.Since(start),
	}, nil
}

// Close implements providers.ChatProvider.
func (p *Provider) Close() error { return nil }

// temperature maps 0 to the smallest positive float32 because the request
// field is omitempty and an omitted temperature means the API default of 1.
func temperature(t float64) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

// parseAPIError extracts a human-readable error from the API response.
func parseAPIError(op string, err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("openai %s error %d: %s", op, reqErr.HTTPStatusCode, detail)
		}
		return fmt.Errorf("openai %s error %d: %w", op, reqErr.HTTPStatusCode, err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("openai %s error %d: %s", op, apiErr.HTTPStatusCode, apiErr.Message)
	}

	return fmt.Errorf("openai %s request failed: %w", op, err)
}

// extractDetail reads the "detail" or "error.message" field of a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
		Error  struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &parsed) != nil {
		return ""
	}
	if parsed.Detail != "" {
		return parsed.Detail
	}
	return parsed.Error.Message
}
