package vqabench

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/vqabench/internal/experiment"
	"github.com/mwiater/vqabench/internal/logging"
	"github.com/mwiater/vqabench/internal/providerfactory"
)

var (
	benchmarkDatasets []string
	benchmarkSamples  int
)

// runBenchmarkCmd runs the baseline versus self-critique experiment.
var runBenchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Compare baseline and self-critique prompting over benchmark files",
	Long: `Benchmark sends every question of each benchmark_<name>.csv in dataDir to
the configured llm twice: once with the baseline prompt and once with the
self-critique prompt. Answers are scored against the ground truth and
results_<name>.csv, results_<name>.jsonl and summary_<name>.txt are written
to resultsDir.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		provider, err := providerfactory.NewChatProvider(cfg, cfg.LLM)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := provider.Close(); cerr != nil {
				logging.LogWarn("close provider: %v", cerr)
			}
		}()

		samples := cfg.NumSamples
		if cmd.Flags().Changed("samples") {
			samples = benchmarkSamples
		}

		out := cmd.OutOrStdout()
		suite := &experiment.Suite{
			Runner: &experiment.Runner{
				Provider:    provider,
				Model:       cfg.LLM.Model,
				Temperature: cfg.LLM.Temperature,
				Threshold:   cfg.SimilarityThreshold,
				Progress:    out,
			},
			ProviderName: cfg.LLM.Provider,
			DataDir:      cfg.DataDir,
			ResultsDir:   cfg.ResultsDir,
			NumSamples:   samples,
			Out:          out,
		}

		results, err := suite.RunDatasets(cmd.Context(), benchmarkDatasets)
		fmt.Fprintf(out, "\nCompleted %d dataset(s).\n", len(results))
		return err
	},
}

func init() {
	runBenchmarkCmd.Flags().StringSliceVar(&benchmarkDatasets, "dataset", nil, "dataset(s) to run (default: every benchmark file)")
	runBenchmarkCmd.Flags().IntVar(&benchmarkSamples, "samples", 0, "rows per dataset (0 = all; defaults to config numSamples)")
	runCmd.AddCommand(runBenchmarkCmd)
}
