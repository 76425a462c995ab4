package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RenderText renders the plain-text research summary written to summary_<name>.txt.
func RenderText(s Summary, m Meta) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== BÁO CÁO NGHIÊN CỨU: REDUCING HALLUCINATIONS ===\n\n")
	fmt.Fprintf(&b, "** 1. RESEARCH QUESTION **\n")
	fmt.Fprintf(&b, "Liệu kỹ thuật Self-Critique prompting có giảm hallucination và cải thiện\n")
	fmt.Fprintf(&b, "factual accuracy so với direct prompting không?\n\n")

	fmt.Fprintf(&b, "** 2. METHODOLOGY **\n")
	fmt.Fprintf(&b, "- Dataset: %s (%d câu hỏi)\n", strings.ToUpper(m.Dataset), s.Total)
	fmt.Fprintf(&b, "- Model: %s\n", modelLabel(m))
	fmt.Fprintf(&b, "- Baseline: Direct prompt đơn giản\n")
	fmt.Fprintf(&b, "- Treatment: Self-Critique 3-step prompt (Initial Answer → Critique → Final Answer)\n")
	fmt.Fprintf(&b, "- Evaluation: Similarity score với ground truth (threshold = %s)\n", strconv.FormatFloat(m.Threshold, 'f', -1, 64))
	if m.RunID != "" {
		fmt.Fprintf(&b, "- Run ID: %s\n", m.RunID)
	}
	if !m.Started.IsZero() {
		fmt.Fprintf(&b, "- Started: %s", m.Started.Format("2006-01-02 15:04:05"))
		if m.Duration > 0 {
			fmt.Fprintf(&b, " (%s)", m.Duration.Round(time.Millisecond))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "** 3. RESULTS **\n\n")
	fmt.Fprintf(&b, "Baseline Accuracy:       %.2f%%\n", s.BaselineAccuracy)
	fmt.Fprintf(&b, "Self-Critique Accuracy:  %.2f%%\n", s.CritiqueAccuracy)
	fmt.Fprintf(&b, "Improvement:             %+.2f%% (absolute)\n", s.AccuracyImprovement)
	fmt.Fprintf(&b, "Relative Improvement:    %+.2f%%\n\n", s.RelativeImprovement)
	fmt.Fprintf(&b, "Average Similarity:\n")
	fmt.Fprintf(&b, "  - Baseline:        %.4f\n", s.BaselineMeanSimilarity)
	fmt.Fprintf(&b, "  - Self-Critique:   %.4f\n", s.CritiqueMeanSimilarity)
	fmt.Fprintf(&b, "  - Difference:      %+.4f\n\n", s.SimilarityDelta())

	fmt.Fprintf(&b, "** 4. CONCLUSION **\n")
	b.WriteString(conclusion(s))
	b.WriteString("\n")

	fmt.Fprintf(&b, "** 5. DETAILED BREAKDOWN **\n")
	fmt.Fprintf(&b, "Self-Critique performs better: %d cases (%.1f%%)\n", s.CritiqueBetter, s.Share(s.CritiqueBetter))
	fmt.Fprintf(&b, "Baseline performs better:      %d cases (%.1f%%)\n", s.BaselineBetter, s.Share(s.BaselineBetter))
	fmt.Fprintf(&b, "Equal performance:             %d cases (%.1f%%)\n\n", s.Equal, s.Share(s.Equal))
	b.WriteString("===================================================\n")
	return b.String()
}

func conclusion(s Summary) string {
	switch {
	case s.AccuracyImprovement > 0:
		return fmt.Sprintf("Self-Critique prompting ĐÃ THÀNH CÔNG trong việc giảm hallucination,\n"+
			"cải thiện accuracy %.2f%% so với baseline.\n"+
			"Kỹ thuật này cho thấy tiềm năng trong việc tăng độ tin cậy của LLM responses.\n", s.AccuracyImprovement)
	case s.AccuracyImprovement == 0:
		return "Self-Critique prompting KHÔNG CHO THẤY SỰ KHÁC BIỆT so với baseline.\n" +
			"Cần xem xét kỹ hơn các trường hợp cụ thể.\n"
	default:
		return fmt.Sprintf("Self-Critique prompting cho kết quả KÉM HƠN baseline (%.2f%%) trong thí nghiệm này.\n"+
			"Có thể prompt design chưa tối ưu hoặc model gặp khó khăn trong việc tự sửa lỗi.\n", s.AccuracyImprovement)
	}
}

func modelLabel(m Meta) string {
	switch {
	case m.Model == "":
		return "unknown"
	case m.Provider == "":
		return m.Model
	default:
		return fmt.Sprintf("%s (%s)", m.Model, m.Provider)
	}
}
