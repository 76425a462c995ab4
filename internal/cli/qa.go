package vqabench

import (
	"github.com/spf13/cobra"

	"github.com/mwiater/vqabench/internal/appconfig"
	"github.com/mwiater/vqabench/internal/index"
	"github.com/mwiater/vqabench/internal/logging"
	"github.com/mwiater/vqabench/internal/providerfactory"
	"github.com/mwiater/vqabench/internal/semqa"
)

var (
	qaTopK       int
	qaThreshold  float64
	qaNoCritique bool
	qaRephrase   bool
)

// addQAFlags registers the retrieval flags shared by ask and tui.
func addQAFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&qaTopK, "top-k", "k", 0, "candidates to retrieve, 1-10 (defaults to config search.topK)")
	cmd.Flags().Float64Var(&qaThreshold, "threshold", 0, "minimum cosine score (defaults to config search.threshold)")
	cmd.Flags().BoolVar(&qaNoCritique, "no-critique", false, "skip the critic model and show the baseline answer")
	cmd.Flags().BoolVar(&qaRephrase, "rephrase", false, "ask the critic to rephrase the matched answer only")
}

// qaOptions merges flag values over the search config.
func qaOptions(cmd *cobra.Command, cfg *appconfig.Config) semqa.Options {
	opts := semqa.Options{
		TopK:      cfg.Search.TopK,
		Threshold: cfg.Search.Threshold,
		Critique:  cfg.Search.Critique,
		Rephrase:  qaRephrase,
	}
	if cmd.Flags().Changed("top-k") {
		opts.TopK = qaTopK
	}
	if cmd.Flags().Changed("threshold") {
		opts.Threshold = qaThreshold
	}
	if qaNoCritique {
		opts.Critique = false
	}
	return opts
}

// newQAService loads the index and builds the embedder and, when wanted,
// the critic. A critic that cannot be created is logged and left out so
// answers fall back to the baseline. The returned cleanup closes the critic.
func newQAService(cfg *appconfig.Config, opts semqa.Options) (*semqa.Service, func(), error) {
	idx, err := index.Load(index.DefaultPaths(cfg.DataDir))
	if err != nil {
		return nil, nil, err
	}
	emb, err := providerfactory.NewEmbedder(cfg)
	if err != nil {
		return nil, nil, err
	}

	svc := &semqa.Service{
		Index:       idx,
		Embedder:    emb,
		CriticModel: cfg.Critic.Model,
		Temperature: cfg.Critic.Temperature,
		DatasetName: semqa.DefaultDatasetName,
		Source:      semqa.DefaultSource,
	}
	cleanup := func() {}
	if opts.Critique || opts.Rephrase {
		critic, err := providerfactory.NewChatProvider(cfg, cfg.Critic)
		if err != nil {
			logging.LogWarn("critic unavailable, answers use the baseline: %v", err)
		} else {
			svc.Critic = critic
			cleanup = func() {
				if cerr := critic.Close(); cerr != nil {
					logging.LogWarn("close critic: %v", cerr)
				}
			}
		}
	}
	return svc, cleanup, nil
}
