// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/subosito/gotenv"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultRequestTimeout is the default timeout for model and embedding requests.
	defaultRequestTimeout = 600 * time.Second

	DefaultSimilarityThreshold = 0.6
	DefaultMaxRows             = 5000
	DefaultTopK                = 5
	DefaultSearchThreshold     = 0.70
	MaxTopK                    = 10
)

// Provider names understood by the provider factory.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// Environment variables consulted for API keys when the config omits them.
const (
	EnvOpenAIKey = "OPENAI_API_KEY"
	EnvGeminiKey = "GEMINI_API_KEY"
	EnvHubToken  = "HF_TOKEN"
)

// Config represents the top-level application configuration.
type Config struct {
	DataDir             string       `json:"dataDir" mapstructure:"dataDir"`
	ResultsDir          string       `json:"resultsDir" mapstructure:"resultsDir"`
	DatasetsFile        string       `json:"datasetsFile" mapstructure:"datasetsFile"`
	LogFile             string       `json:"logFile,omitempty" mapstructure:"logFile"`
	LogLevel            string       `json:"logLevel,omitempty" mapstructure:"logLevel"`
	Debug               bool         `json:"debug" mapstructure:"debug"`
	TimeoutSeconds      int          `json:"timeout,omitempty" mapstructure:"timeout"`
	SimilarityThreshold float64      `json:"similarityThreshold" mapstructure:"similarityThreshold"`
	MaxRows             int          `json:"maxRows" mapstructure:"maxRows"`
	NumSamples          int          `json:"numSamples" mapstructure:"numSamples"`
	MetricsFile         string       `json:"metricsFile,omitempty" mapstructure:"metricsFile"`
	HubToken            string       `json:"hubToken,omitempty" mapstructure:"hubToken"`
	LLM                 ModelConfig  `json:"llm" mapstructure:"llm"`
	Critic              ModelConfig  `json:"critic" mapstructure:"critic"`
	Embedding           ModelConfig  `json:"embedding" mapstructure:"embedding"`
	Search              SearchConfig `json:"search" mapstructure:"search"`
	ConfigPath          string       `json:"-" mapstructure:"-"`
}

// ModelConfig selects a provider and model for one role (benchmark model,
// demo critic, embedder).
type ModelConfig struct {
	Provider    string  `json:"provider" mapstructure:"provider"`
	Model       string  `json:"model" mapstructure:"model"`
	BaseURL     string  `json:"baseURL,omitempty" mapstructure:"baseURL"`
	APIKey      string  `json:"apiKey,omitempty" mapstructure:"apiKey"`
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
	Dimensions  int     `json:"dimensions,omitempty" mapstructure:"dimensions"`
}

// SearchConfig holds the semantic QA demo settings.
type SearchConfig struct {
	TopK      int     `json:"topK" mapstructure:"topK"`
	Threshold float64 `json:"threshold" mapstructure:"threshold"`
	Critique  bool    `json:"critique" mapstructure:"critique"`
}

// Default returns a configuration populated with the built-in defaults.
func Default() Config {
	cfg := Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero values with defaults. A similarityThreshold of 0
// cannot be expressed; it selects DefaultSimilarityThreshold.
func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = "data"
	}
	if strings.TrimSpace(c.ResultsDir) == "" {
		c.ResultsDir = "results"
	}
	if strings.TrimSpace(c.DatasetsFile) == "" {
		c.DatasetsFile = "config/datasets.yaml"
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = "info"
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}
	if c.SimilarityThreshold == 0 {
		c.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if c.MaxRows <= 0 {
		c.MaxRows = DefaultMaxRows
	}
	if c.NumSamples < 0 {
		c.NumSamples = 0
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderGemini
	}
	if c.LLM.Model == "" {
		c.LLM.Model = defaultModel(c.LLM.Provider)
	}
	if c.Critic.Provider == "" {
		c.Critic.Provider = ProviderOpenAI
	}
	if c.Critic.Model == "" {
		c.Critic.Model = defaultModel(c.Critic.Provider)
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = ProviderOllama
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = defaultEmbeddingModel(c.Embedding.Provider)
	}
	if c.Search.TopK == 0 {
		c.Search.TopK = DefaultTopK
	}
	if c.Search.Threshold == 0 {
		c.Search.Threshold = DefaultSearchThreshold
	}
}

func defaultModel(provider string) string {
	switch provider {
	case ProviderGemini:
		return "gemini-1.5-pro-latest"
	case ProviderOllama:
		return "llama3.1"
	default:
		return "gpt-4o-mini"
	}
}

func defaultEmbeddingModel(provider string) string {
	if provider == ProviderOpenAI {
		return "text-embedding-3-small"
	}
	return "paraphrase-multilingual"
}

// Validate rejects configurations the commands cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		errs = append(errs, fmt.Errorf("similarityThreshold must be within (0,1] (0 selects the default %v), got %v", DefaultSimilarityThreshold, c.SimilarityThreshold))
	}
	if c.Search.Threshold < -1 || c.Search.Threshold > 1 {
		errs = append(errs, fmt.Errorf("search.threshold must be within [-1,1], got %v", c.Search.Threshold))
	}
	if c.Search.TopK < 1 || c.Search.TopK > MaxTopK {
		errs = append(errs, fmt.Errorf("search.topK must be within 1..%d, got %d", MaxTopK, c.Search.TopK))
	}
	for role, mc := range map[string]ModelConfig{"llm": c.LLM, "critic": c.Critic} {
		switch mc.Provider {
		case ProviderOpenAI, ProviderGemini, ProviderOllama:
		default:
			errs = append(errs, fmt.Errorf("%s.provider: unknown provider %q", role, mc.Provider))
		}
	}
	switch c.Embedding.Provider {
	case ProviderOpenAI, ProviderOllama:
	default:
		errs = append(errs, fmt.Errorf("embedding.provider: unsupported provider %q", c.Embedding.Provider))
	}
	if c.Embedding.Dimensions < 0 {
		errs = append(errs, fmt.Errorf("embedding.dimensions must not be negative"))
	}
	return errors.Join(errs...)
}

// RequestTimeout returns the timeout duration for model requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "vqabench.log"
}

// MetricsEnabled reports whether provider calls should be measured.
func (c Config) MetricsEnabled() bool {
	return strings.TrimSpace(c.MetricsFile) != ""
}

// ResolveAPIKeys fills empty API keys from the environment. A .env file in
// the working directory is loaded first; variables already set win.
func (c *Config) ResolveAPIKeys() error {
	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	for _, mc := range []*ModelConfig{&c.LLM, &c.Critic, &c.Embedding} {
		if mc.APIKey != "" {
			continue
		}
		mc.APIKey = strings.TrimSpace(os.Getenv(envKeyFor(mc.Provider)))
	}
	if c.HubToken == "" {
		c.HubToken = strings.TrimSpace(os.Getenv(EnvHubToken))
	}
	return nil
}

func envKeyFor(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return EnvOpenAIKey
	case ProviderGemini:
		return EnvGeminiKey
	default:
		return ""
	}
}

// Load reads the application configuration from a JSON file and applies defaults.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("no configuration file found at %q", path)
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}
	config.ConfigPath = path
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return config, nil
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}
