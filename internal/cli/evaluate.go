package vqabench

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/vqabench/internal/evaluate"
)

var evaluateThreshold float64

// evaluateCmd scores one predicted answer against a ground truth.
var evaluateCmd = &cobra.Command{
	Use:   "evaluate <predicted> <ground_truth>",
	Short: "Score a predicted answer against the ground truth",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		threshold := cfg.SimilarityThreshold
		if cmd.Flags().Changed("threshold") {
			threshold = evaluateThreshold
		}
		res := evaluate.Evaluate(args[0], args[1], threshold)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Similarity: %.4f\n", res.Similarity)
		fmt.Fprintf(out, "Threshold:  %.2f\n", threshold)
		fmt.Fprintf(out, "Correct:    %t\n", res.Correct)
		return nil
	},
}

func init() {
	evaluateCmd.Flags().Float64Var(&evaluateThreshold, "threshold", evaluate.DefaultThreshold, "similarity threshold (defaults to config similarityThreshold)")
	rootCmd.AddCommand(evaluateCmd)
}
