package vqabench

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/vqabench/internal/dataset"
	"github.com/mwiater/vqabench/internal/index"
	"github.com/mwiater/vqabench/internal/logging"
	"github.com/mwiater/vqabench/internal/providerfactory"
)

var (
	indexBenchmark string
	indexDataset   string
)

// indexBuildCmd embeds every benchmark question and saves the index artifacts.
var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Embed a benchmark file and save the index artifacts",
	Long: `Build reads a benchmark CSV (question, ground_truth), embeds every
question with the configured embedding model, L2-normalises the vectors and
writes questions.json, answers.json and embeddings.npy into dataDir.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		path := indexBenchmark
		if path == "" {
			path = dataset.BenchmarkPath(cfg.DataDir, indexDataset)
		}
		records, err := dataset.ReadBenchmark(path)
		if err != nil {
			return err
		}

		emb, err := providerfactory.NewEmbedder(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Embedding %d questions from %s with %s/%s\n", len(records), path, cfg.Embedding.Provider, cfg.Embedding.Model)
		idx, err := index.BuildFromRecords(cmd.Context(), emb, records)
		if err != nil {
			return err
		}
		if err := index.Save(cfg.DataDir, idx); err != nil {
			return err
		}
		logging.LogEvent("index saved: %d entries, dim %d, dir %s", idx.Len(), idx.Dim(), cfg.DataDir)
		fmt.Fprintf(out, "Index saved: %d entries (dim %d) in %s\n", idx.Len(), idx.Dim(), cfg.DataDir)
		return nil
	},
}

// indexInfoCmd prints the size of the saved index.
var indexInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the size and dimension of the saved index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		paths := index.DefaultPaths(cfg.DataDir)
		idx, err := index.Load(paths)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Questions:  %s\n", paths.Questions)
		fmt.Fprintf(out, "Answers:    %s\n", paths.Answers)
		fmt.Fprintf(out, "Embeddings: %s\n", paths.Embeddings)
		fmt.Fprintf(out, "Entries:    %d\n", idx.Len())
		fmt.Fprintf(out, "Dimension:  %d\n", idx.Dim())
		return nil
	},
}

func init() {
	indexBuildCmd.Flags().StringVar(&indexBenchmark, "benchmark", "", "benchmark CSV to index (overrides --dataset)")
	indexBuildCmd.Flags().StringVar(&indexDataset, "dataset", "viquad_v2_train", "dataset whose benchmark file is indexed")
	indexCmd.AddCommand(indexBuildCmd, indexInfoCmd)
}
