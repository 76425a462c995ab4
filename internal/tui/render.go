package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/vqabench/internal/semqa"
	"github.com/mwiater/vqabench/internal/util"
)

var (
	userStyle    = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	badgeStyle   = lipgloss.NewStyle().Background(lipgloss.Color("0")).Foreground(lipgloss.Color("255")).Padding(0, 1).MarginLeft(1)
)

var confidenceColors = map[string]lipgloss.Color{
	semqa.ConfidenceHigh:   lipgloss.Color("46"),
	semqa.ConfidenceMedium: lipgloss.Color("226"),
	semqa.ConfidenceLow:    lipgloss.Color("196"),
}

func renderOptions(opts semqa.Options) string {
	critique := "off"
	if opts.Critique {
		critique = "on"
	}
	return badgeStyle.Render(fmt.Sprintf("top-k: %d", opts.TopK)) +
		badgeStyle.Render(fmt.Sprintf("threshold: %.2f", opts.Threshold)) +
		badgeStyle.Render("self-critique: "+critique)
}

// renderExchange formats one question and its answer for the history pane.
func renderExchange(ex exchange, width int) string {
	var b strings.Builder
	b.WriteString(userStyle.Render("Q: ") + util.WrapToWidth(ex.question, width-3) + "\n")

	if ex.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", ex.err)) + "\n")
		return b.String()
	}
	ans := ex.answer

	b.WriteString(sectionStyle.Render("Kết quả tìm gần nhất") + "\n")
	for _, c := range ans.Candidates {
		b.WriteString(scoreStyle.Render(fmt.Sprintf("  #%d · score = %.3f ", c.Rank, c.Score)))
		b.WriteString(util.Preview(c.Question, width-24) + "\n")
	}

	if !ans.Accepted {
		b.WriteString(warnStyle.Render("Không tìm thấy câu hỏi tương tự đủ ngưỡng. Thử diễn đạt lại hoặc hạ ngưỡng threshold.") + "\n")
		return b.String()
	}

	b.WriteString(sectionStyle.Render("Baseline") + " " + ans.Baseline + "\n")
	b.WriteString(sectionStyle.Render("Self-Critique") + "\n")
	b.WriteString(util.WrapToWidth(ans.Critique, width-2) + "\n")
	if ans.CritiqueError != "" {
		b.WriteString(errorStyle.Render("Critic unavailable, showing baseline: "+ans.CritiqueError) + "\n")
	}
	b.WriteString(sectionStyle.Render("Đáp án") + " " + ans.Final + "\n")

	if best, ok := ans.Best(); ok {
		conf := lipgloss.NewStyle().Foreground(confidenceColors[ans.Confidence]).Render(ans.Confidence)
		b.WriteString(fmt.Sprintf("Semantic confidence: %s (cosine=%.3f)", conf, best.Score))
		b.WriteString(scoreStyle.Render(fmt.Sprintf(" · %s", ex.elapsed.Round(time.Millisecond))) + "\n")
	}
	return b.String()
}
