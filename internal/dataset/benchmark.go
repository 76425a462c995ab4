package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	benchmarkPrefix = "benchmark_"
	benchmarkExt    = ".csv"

	questionColumn = "question"
	answerColumn   = "ground_truth"
)

// fallback answer column names accepted by ReadBenchmark.
var answerFallbacks = []string{"gold", "answer"}

// BenchmarkPath returns the benchmark file path for a dataset name.
func BenchmarkPath(dir, name string) string {
	return filepath.Join(dir, benchmarkPrefix+name+benchmarkExt)
}

// BenchmarkName extracts the dataset name from a benchmark file path.
func BenchmarkName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, benchmarkExt)
	return strings.TrimPrefix(base, benchmarkPrefix)
}

// DiscoverBenchmarks lists benchmark_*.csv files in dir, sorted by name.
func DiscoverBenchmarks(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, benchmarkPrefix+"*"+benchmarkExt))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// WriteBenchmark writes records as a question,ground_truth CSV. The file is
// replaced atomically.
func WriteBenchmark(path string, records []Record) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create benchmark dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".benchmark-*.csv")
	if err != nil {
		return fmt.Errorf("create temp benchmark file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	w := csv.NewWriter(bw)
	if err = w.Write([]string{questionColumn, answerColumn}); err != nil {
		return err
	}
	for _, r := range records {
		if err = w.Write([]string{r.Question, r.Answer}); err != nil {
			return err
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ReadBenchmark reads a benchmark CSV. The answer column is ground_truth,
// falling back to gold or answer for files written by older exports.
func ReadBenchmark(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := newCSVReader(f)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", path, err)
	}
	qi := columnIndex(header, questionColumn)
	ai := columnIndex(header, answerColumn)
	for _, name := range answerFallbacks {
		if ai >= 0 {
			break
		}
		ai = columnIndex(header, name)
	}
	if qi < 0 || ai < 0 {
		return nil, fmt.Errorf("%s: %w: need %s and %s columns", path, ErrFieldNotFound, questionColumn, answerColumn)
	}

	var records []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if qi >= len(row) || ai >= len(row) {
			continue
		}
		if rec := newRecord(row[qi], row[ai]); rec.valid() {
			records = append(records, rec)
		}
	}
	return records, nil
}
