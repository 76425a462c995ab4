package report

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

var csvHeader = []string{
	"id", "question", "ground_truth",
	"baseline_answer", "baseline_correct", "baseline_similarity",
	"critique_answer_full", "critique_answer_final", "critique_correct", "critique_similarity",
}

// WriteCSV writes items as UTF-8 CSV with a byte order mark so spreadsheet
// tools detect the encoding.
func WriteCSV(path string, items []Item) error {
	return writeFile(path, func(w *bufio.Writer) error {
		if _, err := w.WriteString("\ufeff"); err != nil {
			return err
		}
		cw := csv.NewWriter(w)
		if err := cw.Write(csvHeader); err != nil {
			return err
		}
		for _, it := range items {
			row := []string{
				strconv.Itoa(it.ID),
				it.Question,
				it.GroundTruth,
				it.BaselineAnswer,
				strconv.FormatBool(it.BaselineCorrect),
				formatFloat(it.BaselineSimilarity),
				it.CritiqueAnswerFull,
				it.CritiqueAnswerFinal,
				strconv.FormatBool(it.CritiqueCorrect),
				formatFloat(it.CritiqueSimilarity),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// WriteJSONL writes one JSON object per item.
func WriteJSONL(path string, items []Item) error {
	return writeFile(path, func(w *bufio.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		for _, it := range items {
			if err := enc.Encode(it); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteSummary writes the rendered text summary.
func WriteSummary(path string, s Summary, m Meta) error {
	return writeFile(path, func(w *bufio.Writer) error {
		_, err := w.WriteString(RenderText(s, m))
		return err
	})
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeFile(path string, fill func(*bufio.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	bw := bufio.NewWriter(f)
	if err := fill(bw); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
