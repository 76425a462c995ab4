// Package gemini provides a ChatProvider backed by the Gemini generateContent REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mwiater/vqabench/internal/logging"
	"github.com/mwiater/vqabench/internal/providers"
)

const (
	// Name is the provider identifier used in config and metrics.
	Name = "gemini"
	// DefaultBaseURL is the public Generative Language API endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
)

// harmCategories are all sent with BLOCK_NONE so benchmark questions are
// never dropped by the safety filter.
var harmCategories = []string{
	"HARM_CATEGORY_HARASSMENT",
	"HARM_CATEGORY_HATE_SPEECH",
	"HARM_CATEGORY_SEXUALLY_EXPLICIT",
	"HARM_CATEGORY_DANGEROUS_CONTENT",
}

// Config holds the Gemini client settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Provider implements providers.ChatProvider for Gemini models.
type Provider struct {
	client  *http.Client
	apiKey  string
	baseURL string
	model   string
	timeout time.Duration
}

// New constructs a Provider. An API key is required.
func New(cfg Config) (*Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini: %w (set GEMINI_API_KEY)", providers.ErrMissingAPIKey)
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Provider{
		client:  &http.Client{Timeout: cfg.Timeout},
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateRequest struct {
	Contents          []content        `json:"contents"`
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	GenerationConfig  generationConfig `json:"generationConfig"`
	SafetySettings    []safetySetting  `json:"safetySettings"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	ModelVersion string `json:"modelVersion"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Name implements providers.ChatProvider.
func (p *Provider) Name() string { return Name }

// Complete implements providers.ChatProvider.
func (p *Provider) Complete(ctx context.Context, req providers.CompletionRequest) (providers.Completion, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	payload := buildRequest(req)
	body, err := json.Marshal(payload)
	if err != nil {
		return providers.Completion{}, fmt.Errorf("gemini: marshal request: %w", err)
	}
	logging.LogRequest("VQA->LLM", p.baseURL, model, "generateContent", body)

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", p.baseURL, url.PathEscape(model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return providers.Completion{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", p.apiKey)

	start := time.Now()
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return providers.Completion{}, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return providers.Completion{}, fmt.Errorf("gemini: read response: %w", err)
	}
	logging.LogRequest("LLM->VQA", p.baseURL, model, "generateContent", raw)

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			return providers.Completion{}, fmt.Errorf("gemini error %d (%s): %s", resp.StatusCode, apiErr.Error.Status, apiErr.Error.Message)
		}
		return providers.Completion{}, fmt.Errorf("gemini: %s returned %s: %s", endpoint, resp.Status, strings.TrimSpace(string(raw)))
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return providers.Completion{}, fmt.Errorf("gemini: parse response: %w", err)
	}
	text, err := responseText(parsed)
	if err != nil {
		return providers.Completion{}, err
	}

	respModel := parsed.ModelVersion
	if respModel == "" {
		respModel = model
	}
	return providers.Completion{
		Model:   respModel,
		Content: text,
		Usage: providers.Usage{
			PromptTokens:     parsed.UsageMetadata.PromptTokenCount,
			CompletionTokens: parsed.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      parsed.UsageMetadata.TotalTokenCount,
		},
		Duration: time.Since(start),
	}, nil
}

// Close implements providers.ChatProvider.
func (p *Provider) Close() error { return nil }

func buildRequest(req providers.CompletionRequest) generateRequest {
	out := generateRequest{
		GenerationConfig: generationConfig{Temperature: req.Temperature},
	}
	for _, c := range harmCategories {
		out.SafetySettings = append(out.SafetySettings, safetySetting{Category: c, Threshold: "BLOCK_NONE"})
	}
	if req.SystemPrompt != "" {
		out.SystemInstruction = &content{Parts: []part{{Text: req.SystemPrompt}}}
	}
	for _, m := range req.Messages {
		role := "user"
		if m.Role == providers.RoleAssistant {
			role = "model"
		}
		out.Contents = append(out.Contents, content{Role: role, Parts: []part{{Text: m.Content}}})
	}
	return out
}

// responseText joins the parts of the first candidate. A blocked prompt or
// a candidate without text is an error.
func responseText(resp generateResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		if reason := resp.PromptFeedback.BlockReason; reason != "" {
			return "", fmt.Errorf("gemini: prompt blocked: %s", reason)
		}
		return "", fmt.Errorf("gemini: %w", providers.ErrEmptyResponse)
	}
	cand := resp.Candidates[0]
	var b strings.Builder
	for _, p := range cand.Content.Parts {
		b.WriteString(p.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		if cand.FinishReason != "" && cand.FinishReason != "STOP" {
			return "", fmt.Errorf("gemini: no text returned (finish reason %s)", cand.FinishReason)
		}
		return "", fmt.Errorf("gemini: %w", providers.ErrEmptyResponse)
	}
	return text, nil
}
