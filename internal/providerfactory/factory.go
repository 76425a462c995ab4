// Package providerfactory builds chat and embedding providers from configuration.
package providerfactory

import (
	"fmt"
	"strings"

	"github.com/mwiater/vqabench/internal/appconfig"
	"github.com/mwiater/vqabench/internal/logging"
	"github.com/mwiater/vqabench/internal/metrics"
	"github.com/mwiater/vqabench/internal/providers"
	"github.com/mwiater/vqabench/internal/providers/gemini"
	"github.com/mwiater/vqabench/internal/providers/ollama"
	"github.com/mwiater/vqabench/internal/providers/openai"
)

// NewChatProvider selects and configures the chat provider named by mc and
// wraps it with metrics collection when a metrics file is configured.
func NewChatProvider(cfg *appconfig.Config, mc appconfig.ModelConfig) (providers.ChatProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config provided to provider factory")
	}

	var provider providers.ChatProvider
	switch normalizeProvider(mc.Provider) {
	case appconfig.ProviderOpenAI:
		p, err := openai.New(openai.Config{
			APIKey:  mc.APIKey,
			BaseURL: mc.BaseURL,
			Model:   mc.Model,
			Timeout: cfg.RequestTimeout(),
		})
		if err != nil {
			return nil, err
		}
		provider = p
	case appconfig.ProviderGemini:
		p, err := gemini.New(gemini.Config{
			APIKey:  mc.APIKey,
			BaseURL: mc.BaseURL,
			Model:   mc.Model,
			Timeout: cfg.RequestTimeout(),
		})
		if err != nil {
			return nil, err
		}
		provider = p
	case appconfig.ProviderOllama:
		provider = ollama.New(ollama.Config{
			BaseURL: mc.BaseURL,
			Model:   mc.Model,
			Timeout: cfg.RequestTimeout(),
		})
	default:
		return nil, fmt.Errorf("unsupported chat provider %q", mc.Provider)
	}
	logging.LogEvent("chat provider ready: %s model=%s", provider.Name(), mc.Model)

	if cfg.MetricsEnabled() {
		provider = metrics.NewProvider(provider, mc.Model)
	}

	return provider, nil
}

// NewEmbedder builds the embedder configured in cfg.Embedding.
func NewEmbedder(cfg *appconfig.Config) (providers.Embedder, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config provided to provider factory")
	}
	mc := cfg.Embedding
	name := normalizeProvider(mc.Provider)

	var embedder providers.Embedder
	switch name {
	case appconfig.ProviderOpenAI:
		e, err := openai.NewEmbedder(openai.Config{
			APIKey:     mc.APIKey,
			BaseURL:    mc.BaseURL,
			Model:      mc.Model,
			Dimensions: mc.Dimensions,
			Timeout:    cfg.RequestTimeout(),
		})
		if err != nil {
			return nil, err
		}
		embedder = e
	case appconfig.ProviderOllama:
		e, err := ollama.NewEmbedder(ollama.Config{
			BaseURL: mc.BaseURL,
			Model:   mc.Model,
			Timeout: cfg.RequestTimeout(),
		})
		if err != nil {
			return nil, err
		}
		embedder = e
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", mc.Provider)
	}
	logging.LogEvent("embedder ready: %s model=%s", name, mc.Model)

	if cfg.MetricsEnabled() {
		embedder = metrics.NewEmbedder(embedder, name, mc.Model)
	}
	return embedder, nil
}

func normalizeProvider(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
