package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPrepare(t *testing.T) {
	records := []Record{
		{Question: "a", Answer: "1"},
		{Question: "b", Answer: "2"},
		{Question: "a", Answer: "duplicate"},
		{Question: " ", Answer: "blank"},
		{Question: "c", Answer: "3"},
		{Question: "d", Answer: "4"},
	}

	tests := []struct {
		name    string
		maxRows int
		want    []string
	}{
		{"all", 10, []string{"a", "b", "c", "d"}},
		{"cap after dedupe", 3, []string{"a", "b", "c"}},
		{"minimum one", 0, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Prepare(records, tt.maxRows)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d records, got %+v", len(tt.want), got)
			}
			for i, q := range tt.want {
				if got[i].Question != q {
					t.Fatalf("record %d question = %q, want %q", i, got[i].Question, q)
				}
			}
			if got[0].Answer != "1" {
				t.Fatalf("first occurrence should win, got %q", got[0].Answer)
			}
		})
	}
}

func TestBenchmarkRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := BenchmarkPath(dir, "viquad")
	if filepath.Base(path) != "benchmark_viquad.csv" {
		t.Fatalf("unexpected benchmark path: %s", path)
	}
	records := []Record{
		{Question: "Ai là tác giả \"Truyện Kiều\"?", Answer: "Nguyễn Du"},
		{Question: "Năm 1975, sự kiện gì?", Answer: "Thống nhất đất nước"},
	}
	if err := WriteBenchmark(path, records); err != nil {
		t.Fatalf("WriteBenchmark returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read benchmark: %v", err)
	}
	if !strings.HasPrefix(string(data), "question,ground_truth\n") {
		t.Fatalf("unexpected header: %q", data)
	}

	got, err := ReadBenchmark(path)
	if err != nil {
		t.Fatalf("ReadBenchmark returned error: %v", err)
	}
	if len(got) != 2 || got[0] != records[0] || got[1] != records[1] {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if BenchmarkName(path) != "viquad" {
		t.Fatalf("unexpected name: %s", BenchmarkName(path))
	}
}

func TestReadBenchmarkFallbackColumns(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "benchmark_old.csv", "\ufeffquestion,gold\nThủ đô?,Hà Nội\n")
	got, err := ReadBenchmark(path)
	if err != nil {
		t.Fatalf("ReadBenchmark returned error: %v", err)
	}
	if len(got) != 1 || got[0].Answer != "Hà Nội" {
		t.Fatalf("unexpected records: %+v", got)
	}

	bad := writeFile(t, dir, "benchmark_bad.csv", "q,a\nx,y\n")
	if _, err := ReadBenchmark(bad); err == nil {
		t.Fatal("expected error for missing columns")
	}
}

func TestDiscoverBenchmarks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "benchmark_b.csv", "question,ground_truth\n")
	writeFile(t, dir, "benchmark_a.csv", "question,ground_truth\n")
	writeFile(t, dir, "results_a.csv", "")

	files, err := DiscoverBenchmarks(dir)
	if err != nil {
		t.Fatalf("DiscoverBenchmarks returned error: %v", err)
	}
	if len(files) != 2 || BenchmarkName(files[0]) != "a" || BenchmarkName(files[1]) != "b" {
		t.Fatalf("unexpected files: %v", files)
	}
}
