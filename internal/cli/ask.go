package vqabench

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mwiater/vqabench/internal/semqa"
)

var askJSON bool

// askCmd answers one question from the semantic index.
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question from the nearest indexed benchmark questions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		opts := qaOptions(cmd, cfg)
		svc, cleanup, err := newQAService(cfg, opts)
		if err != nil {
			return err
		}
		defer cleanup()

		ans, err := svc.Ask(cmd.Context(), strings.Join(args, " "), opts)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if askJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(ans)
		}
		printAnswer(out, ans)
		return nil
	},
}

func init() {
	addQAFlags(askCmd)
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

// printAnswer writes the retrieval results and the final answer.
func printAnswer(out io.Writer, ans semqa.Answer) {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintln(out, bold("Kết quả tìm gần nhất"))
	for _, c := range ans.Candidates {
		fmt.Fprintf(out, "  #%d · score = %.3f  %s\n", c.Rank, c.Score, c.Question)
	}
	fmt.Fprintln(out)

	if !ans.Accepted {
		fmt.Fprintln(out, yellow("Không tìm thấy câu hỏi tương tự đủ ngưỡng. Thử diễn đạt lại hoặc hạ ngưỡng threshold."))
		return
	}

	fmt.Fprintf(out, "%s %s\n", bold("Baseline:"), ans.Baseline)
	fmt.Fprintln(out, bold("Self-Critique:"))
	fmt.Fprintln(out, ans.Critique)
	if ans.CritiqueError != "" {
		fmt.Fprintln(out, red("Critic unavailable, showing baseline: "+ans.CritiqueError))
	}
	fmt.Fprintf(out, "\n%s %s\n", bold("Đáp án:"), green(ans.Final))
	if best, ok := ans.Best(); ok {
		fmt.Fprintf(out, "Semantic confidence: %s (cosine=%.3f)\n", ans.Confidence, best.Score)
	}
}
