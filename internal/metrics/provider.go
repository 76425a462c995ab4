package metrics

import (
	"context"
	"time"

	"github.com/mwiater/vqabench/internal/logging"
	"github.com/mwiater/vqabench/internal/providers"
)

// Provider is a decorator that wraps a ChatProvider to record metrics.
type Provider struct {
	wrapped providers.ChatProvider
	model   string
}

// NewProvider creates a metrics-enabled provider around wrapped. model is the
// label used when a request does not name one.
func NewProvider(wrapped providers.ChatProvider, model string) *Provider {
	logging.LogEvent("[METRICS] Wrapping %s provider with metrics provider", wrapped.Name())
	return &Provider{wrapped: wrapped, model: model}
}

// Name passes the call through to the wrapped provider.
func (p *Provider) Name() string { return p.wrapped.Name() }

// Complete times the wrapped call and records status and token usage.
func (p *Provider) Complete(ctx context.Context, req providers.CompletionRequest) (providers.Completion, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}
	name := p.wrapped.Name()

	start := time.Now()
	resp, err := p.wrapped.Complete(ctx, req)
	ModelRequestDuration.WithLabelValues(name, model).Observe(time.Since(start).Seconds())
	if err != nil {
		ModelRequestsTotal.WithLabelValues(name, model, StatusError).Inc()
		return resp, err
	}
	ModelRequestsTotal.WithLabelValues(name, model, StatusOK).Inc()
	if resp.Usage.PromptTokens > 0 {
		ModelTokensTotal.WithLabelValues(name, model, "prompt").Add(float64(resp.Usage.PromptTokens))
	}
	if resp.Usage.CompletionTokens > 0 {
		ModelTokensTotal.WithLabelValues(name, model, "completion").Add(float64(resp.Usage.CompletionTokens))
	}
	return resp, nil
}

// Close passes the call through to the wrapped provider.
func (p *Provider) Close() error {
	return p.wrapped.Close()
}

// Embedder wraps a providers.Embedder to record request counts and latency.
type Embedder struct {
	wrapped  providers.Embedder
	provider string
	model    string
}

// NewEmbedder creates a metrics-enabled embedder.
func NewEmbedder(wrapped providers.Embedder, provider, model string) *Embedder {
	return &Embedder{wrapped: wrapped, provider: provider, model: model}
}

// Embed times the wrapped call.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	vec, err := e.wrapped.Embed(ctx, text)
	EmbeddingRequestDuration.WithLabelValues(e.provider, e.model).Observe(time.Since(start).Seconds())
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	EmbeddingRequestsTotal.WithLabelValues(e.provider, e.model, status).Inc()
	return vec, err
}
