package vqabench

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/vqabench/internal/dataset"
)

// setupWorkspace writes a config and dataset registry into a temp dir and
// returns the dir.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	raw := filepath.Join(dir, "toy.jsonl")
	rows := strings.Join([]string{
		`{"question": " Thủ đô của Việt Nam là gì? ", "answers": {"text": ["Hà Nội"]}}`,
		`{"question": "Thủ đô của Việt Nam là gì?", "answers": {"text": ["Hà Nội"]}}`,
		`{"question": "Sông dài nhất Việt Nam?", "answers": {"text": ["Sông Mê Kông"]}}`,
		`{"question": "", "answers": {"text": ["bỏ qua"]}}`,
	}, "\n")
	if err := os.WriteFile(raw, []byte(rows), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}

	registry := filepath.Join(dir, "datasets.yaml")
	reg := fmt.Sprintf("datasets:\n  toy:\n    source: %q\n    answer_field: answers.text.0\n    hub:\n      dataset: org/toy\n", raw)
	if err := os.WriteFile(registry, []byte(reg), 0o644); err != nil {
		t.Fatalf("write registry: %v", err)
	}

	cfg := fmt.Sprintf(`{"dataDir": %q, "resultsDir": %q, "datasetsFile": %q, "logFile": %q}`,
		filepath.Join(dir, "data"), filepath.Join(dir, "results"), registry, filepath.Join(dir, "vqabench.log"))
	configPath := filepath.Join(dir, "config.json")
	if err := os.WriteFile(configPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	useConfig(t, configPath)
	return dir
}

func TestPrepareCommand(t *testing.T) {
	dir := setupWorkspace(t)
	resetRootFlags(prepareCmd)

	out, err := execute(t, "prepare", "toy")
	if err != nil {
		t.Fatalf("prepare error: %v\n%s", err, out)
	}

	path := dataset.BenchmarkPath(filepath.Join(dir, "data"), "toy")
	if !strings.Contains(out, "Saved 2 rows to "+path) {
		t.Fatalf("unexpected output:\n%s", out)
	}
	records, err := dataset.ReadBenchmark(path)
	if err != nil {
		t.Fatalf("read benchmark: %v", err)
	}
	if len(records) != 2 || records[0].Question != "Thủ đô của Việt Nam là gì?" || records[1].Answer != "Sông Mê Kông" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestPrepareCommandMaxRows(t *testing.T) {
	dir := setupWorkspace(t)
	resetRootFlags(prepareCmd)

	if out, err := execute(t, "prepare", "--all", "--max-rows", "1"); err != nil {
		t.Fatalf("prepare error: %v\n%s", err, out)
	}
	records, err := dataset.ReadBenchmark(dataset.BenchmarkPath(filepath.Join(dir, "data"), "toy"))
	if err != nil {
		t.Fatalf("read benchmark: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

func TestPrepareCommandRepeatedRunsUseCurrentConfig(t *testing.T) {
	first := setupWorkspace(t)
	resetRootFlags(prepareCmd)
	if out, err := execute(t, "prepare", "toy"); err != nil {
		t.Fatalf("first prepare error: %v\n%s", err, out)
	}
	if err := os.RemoveAll(first); err != nil {
		t.Fatalf("remove first workspace: %v", err)
	}

	second := setupWorkspace(t)
	resetRootFlags(prepareCmd)
	out, err := execute(t, "prepare", "toy")
	if err != nil {
		t.Fatalf("second prepare error: %v\n%s", err, out)
	}
	if got := GetConfig().DatasetsFile; got != filepath.Join(second, "datasets.yaml") {
		t.Fatalf("expected datasets file from second config, got %s", got)
	}
	if _, err := os.Stat(dataset.BenchmarkPath(filepath.Join(second, "data"), "toy")); err != nil {
		t.Fatalf("expected benchmark in second workspace: %v", err)
	}
}

func TestPrepareCommandErrors(t *testing.T) {
	setupWorkspace(t)
	resetRootFlags(prepareCmd)

	if _, err := execute(t, "prepare"); err == nil {
		t.Fatalf("expected error without dataset names")
	}
	resetRootFlags(prepareCmd)
	out, err := execute(t, "prepare", "missing")
	if err == nil || !strings.Contains(out, "unknown dataset") {
		t.Fatalf("expected unknown dataset error, got %v\n%s", err, out)
	}
}

func TestListDatasetsCommand(t *testing.T) {
	setupWorkspace(t)
	resetRootFlags(datasetsCmd)

	out, err := execute(t, "list", "datasets")
	if err != nil {
		t.Fatalf("list datasets error: %v", err)
	}
	if !strings.Contains(out, "toy") || !strings.Contains(out, "org/toy") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestEvaluateCommand(t *testing.T) {
	setupWorkspace(t)
	resetRootFlags(evaluateCmd)

	out, err := execute(t, "evaluate", "Hà Nội", "hà nội")
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}
	if !strings.Contains(out, "Similarity: 1.0000") || !strings.Contains(out, "Correct:    true") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	resetRootFlags(evaluateCmd)
	out, err = execute(t, "evaluate", "--threshold", "0.9", "abcd", "abxy")
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}
	if !strings.Contains(out, "Similarity: 0.5000") || !strings.Contains(out, "Correct:    false") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestExtractCommandStdin(t *testing.T) {
	setupWorkspace(t)
	resetRootFlags(extractCmd)

	rootCmd.SetIn(strings.NewReader("**Bước 1:** Hà Nội\n\n**Bước 3: Câu trả lời cuối cùng**\nHà Nội\n"))
	out, err := execute(t, "extract")
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	if strings.TrimSpace(out) != "Hà Nội" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestExtractCommandFile(t *testing.T) {
	dir := setupWorkspace(t)
	resetRootFlags(extractCmd)

	path := filepath.Join(dir, "response.txt")
	if err := os.WriteFile(path, []byte("Giải thích dài\nĐáp án cuối: Huế"), 0o644); err != nil {
		t.Fatalf("write response: %v", err)
	}
	out, err := execute(t, "extract", path)
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	if strings.TrimSpace(out) != "Huế" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestFetchCommandRequiresHub(t *testing.T) {
	dir := setupWorkspace(t)
	resetRootFlags(fetchCmd)

	reg := fmt.Sprintf("datasets:\n  local:\n    source: %q\n", filepath.Join(dir, "toy.jsonl"))
	if err := os.WriteFile(filepath.Join(dir, "datasets.yaml"), []byte(reg), 0o644); err != nil {
		t.Fatalf("write registry: %v", err)
	}
	out, err := execute(t, "fetch", "local")
	if err == nil || !strings.Contains(out, "no hub reference") {
		t.Fatalf("expected missing hub error, got %v\n%s", err, out)
	}
}

func TestAskRequiresIndex(t *testing.T) {
	setupWorkspace(t)
	resetRootFlags(askCmd)

	if _, err := execute(t, "ask", "--no-critique", "Thủ đô?"); err == nil {
		t.Fatalf("expected error without a saved index")
	}
}
