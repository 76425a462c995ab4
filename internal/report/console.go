package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold).SprintFunc()
	goodColor   = color.New(color.FgGreen, color.Bold).SprintFunc()
	badColor    = color.New(color.FgRed, color.Bold).SprintFunc()
	mutedColor  = color.New(color.FgYellow).SprintFunc()
)

// PrintConsole writes a short coloured summary for interactive runs.
func PrintConsole(w io.Writer, s Summary, m Meta) {
	rule := strings.Repeat("=", 70)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%s %s (%d câu hỏi)\n", headerColor("DATASET:"), strings.ToUpper(m.Dataset), s.Total)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Baseline accuracy:      %6.2f%%  (similarity %.4f)\n", s.BaselineAccuracy, s.BaselineMeanSimilarity)
	fmt.Fprintf(w, "Self-critique accuracy: %6.2f%%  (similarity %.4f)\n", s.CritiqueAccuracy, s.CritiqueMeanSimilarity)
	fmt.Fprintf(w, "Improvement:            %s (relative %+.2f%%)\n", improvement(s.AccuracyImprovement), s.RelativeImprovement)
	fmt.Fprintf(w, "Breakdown: critique better %d, baseline better %d, equal %d\n",
		s.CritiqueBetter, s.BaselineBetter, s.Equal)
}

func improvement(v float64) string {
	text := fmt.Sprintf("%+.2f%%", v)
	switch {
	case v > 0:
		return goodColor(text)
	case v < 0:
		return badColor(text)
	default:
		return mutedColor(text)
	}
}
