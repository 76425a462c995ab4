package appconfig

import (
	"fmt"
	"io"

	"github.com/k0kubun/pp"
)

// ShowConfig prints the current configuration summary with secrets masked.
func ShowConfig(out io.Writer, file string, cfg *Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		def := Default()
		cfg = &def
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Data Dir:        %s\n", cfg.DataDir)
	fmt.Fprintf(out, "  Results Dir:     %s\n", cfg.ResultsDir)
	fmt.Fprintf(out, "  Datasets File:   %s\n", cfg.DatasetsFile)
	fmt.Fprintf(out, "  Log File:        %s (%s)\n", cfg.LogFilePath(), cfg.LogLevel)
	fmt.Fprintf(out, "  Request Timeout: %s\n", cfg.RequestTimeout())
	fmt.Fprintf(out, "  Threshold:       %.2f\n", cfg.SimilarityThreshold)
	fmt.Fprintf(out, "  Max Rows:        %d\n", cfg.MaxRows)
	fmt.Fprintf(out, "  Num Samples:     %d\n", cfg.NumSamples)
	fmt.Fprintln(out)

	masked := Masked(*cfg)
	pp.Fprintln(out, masked.LLM)
	pp.Fprintln(out, masked.Critic)
	pp.Fprintln(out, masked.Embedding)
	pp.Fprintln(out, masked.Search)
}

// Masked returns a copy of cfg with API keys and tokens replaced.
func Masked(cfg Config) Config {
	cfg.HubToken = mask(cfg.HubToken)
	cfg.LLM.APIKey = mask(cfg.LLM.APIKey)
	cfg.Critic.APIKey = mask(cfg.Critic.APIKey)
	cfg.Embedding.APIKey = mask(cfg.Embedding.APIKey)
	return cfg
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "********"
	}
	return secret[:4] + "..." + secret[len(secret)-2:]
}
