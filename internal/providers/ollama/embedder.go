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

type embeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embedder implements providers.Embedder with the /api/embeddings endpoint.
type Embedder struct {
	client  *http.Client
	baseURL string
	model   string
	timeout time.Duration
}

// NewEmbedder constructs an embedding client for model.
func NewEmbedder(cfg Config) (*Embedder, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("ollama: embedding model is empty")
	}
	return &Embedder{
		client:  newHTTPClient(cfg.Timeout),
		baseURL: baseURL(cfg.BaseURL),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

// Embed requests an embedding vector for text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(map[string]any{
		"model":  e.model,
		"prompt": text,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}
	logging.LogRequest("VQA->EMB", e.baseURL, e.model, "embed", body)

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embedding response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding request failed: %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse embedding response: %w", err)
	}
	if len(parsed.Embedding) == 0 {
		return nil, fmt.Errorf("ollama embedding: %w", providers.ErrEmptyResponse)
	}
	return parsed.Embedding, nil
}
