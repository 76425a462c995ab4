package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func makeItems(total, baselineCorrect, critiqueCorrect int) []Item {
	items := make([]Item, total)
	for i := range items {
		items[i] = Item{ID: i, Question: "q", GroundTruth: "a"}
		if i < baselineCorrect {
			items[i].BaselineCorrect = true
			items[i].BaselineSimilarity = 1
		}
		if i < critiqueCorrect {
			items[i].CritiqueCorrect = true
			items[i].CritiqueSimilarity = 1
		}
	}
	return items
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSummarize(t *testing.T) {
	s := Summarize(makeItems(10, 6, 8))

	if s.Total != 10 || s.BaselineCorrect != 6 || s.CritiqueCorrect != 8 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if !approx(s.BaselineAccuracy, 60) || !approx(s.CritiqueAccuracy, 80) {
		t.Fatalf("unexpected accuracies: %+v", s)
	}
	if !approx(s.AccuracyImprovement, 20) {
		t.Fatalf("expected +20 improvement, got %v", s.AccuracyImprovement)
	}
	if !approx(s.RelativeImprovement, 100.0/3) {
		t.Fatalf("expected 33.33 relative improvement, got %v", s.RelativeImprovement)
	}
	if s.CritiqueBetter != 2 || s.BaselineBetter != 0 || s.Equal != 8 {
		t.Fatalf("unexpected breakdown: %+v", s)
	}
	if !approx(s.Share(s.CritiqueBetter), 20) {
		t.Fatalf("unexpected share: %v", s.Share(s.CritiqueBetter))
	}
}

func TestSummarizeRelativeImprovementEdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		items    []Item
		relative float64
	}{
		{"zero baseline with gain", makeItems(4, 0, 1), 100},
		{"zero baseline no gain", makeItems(4, 0, 0), 0},
		{"regression", makeItems(4, 2, 1), -50},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(tt.items)
			if !approx(s.RelativeImprovement, tt.relative) {
				t.Fatalf("relative = %v, want %v", s.RelativeImprovement, tt.relative)
			}
		})
	}
	if s := Summarize(nil); s != (Summary{}) {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestRenderText(t *testing.T) {
	s := Summarize(makeItems(10, 6, 8))
	text := RenderText(s, Meta{Dataset: "viquad", Model: "gemini-1.5-pro-latest", Provider: "gemini", RunID: "run-1", Threshold: 0.6})

	for _, want := range []string{
		"- Dataset: VIQUAD (10 câu hỏi)",
		"- Model: gemini-1.5-pro-latest (gemini)",
		"(threshold = 0.6)",
		"- Run ID: run-1",
		"Baseline Accuracy:       60.00%",
		"Self-Critique Accuracy:  80.00%",
		"Improvement:             +20.00% (absolute)",
		"Relative Improvement:    +33.33%",
		"  - Difference:      +0.2000",
		"ĐÃ THÀNH CÔNG",
		"cải thiện accuracy 20.00% so với baseline.",
		"Self-Critique performs better: 2 cases (20.0%)",
		"Equal performance:             8 cases (80.0%)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}
}

func TestRenderTextConclusionBranches(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
		want  string
	}{
		{"no change", makeItems(5, 2, 2), "KHÔNG CHO THẤY SỰ KHÁC BIỆT"},
		{"worse", makeItems(5, 3, 1), "KÉM HƠN baseline (-40.00%)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := RenderText(Summarize(tt.items), Meta{Dataset: "x"})
			if !strings.Contains(text, tt.want) {
				t.Fatalf("expected %q in:\n%s", tt.want, text)
			}
		})
	}
}

func TestPrintConsole(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	PrintConsole(&buf, Summarize(makeItems(10, 6, 8)), Meta{Dataset: "viquad"})
	out := buf.String()
	for _, want := range []string{"VIQUAD (10 câu hỏi)", "60.00%", "+20.00%", "relative +33.33%"} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteCSVAndJSONL(t *testing.T) {
	dir := t.TempDir()
	items := []Item{{
		RunID: "run-1", ID: 0, Question: "Thủ đô, Việt Nam?", GroundTruth: "Hà Nội",
		BaselineAnswer: "Hà Nội", BaselineCorrect: true, BaselineSimilarity: 1,
		CritiqueAnswerFull: "**Bước 3:** Hà Nội", CritiqueAnswerFinal: "Hà Nội",
		CritiqueCorrect: true, CritiqueSimilarity: 1,
	}}

	csvPath := filepath.Join(dir, "results_viquad.csv")
	if err := WriteCSV(csvPath, items); err != nil {
		t.Fatalf("WriteCSV returned error: %v", err)
	}
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		t.Fatal("expected UTF-8 byte order mark")
	}
	rows, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 2 || rows[0][0] != "id" || rows[1][1] != "Thủ đô, Việt Nam?" || rows[1][4] != "true" {
		t.Fatalf("unexpected rows: %v", rows)
	}

	jsonlPath := filepath.Join(dir, "results_viquad.jsonl")
	if err := WriteJSONL(jsonlPath, items); err != nil {
		t.Fatalf("WriteJSONL returned error: %v", err)
	}
	raw, err := os.ReadFile(jsonlPath)
	if err != nil {
		t.Fatalf("read jsonl: %v", err)
	}
	var got Item
	if err := json.Unmarshal(bytes.TrimSpace(raw), &got); err != nil {
		t.Fatalf("decode jsonl: %v", err)
	}
	if got != items[0] {
		t.Fatalf("jsonl mismatch: %+v", got)
	}
}
