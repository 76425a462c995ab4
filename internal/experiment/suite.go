package experiment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/mwiater/vqabench/internal/dataset"
	"github.com/mwiater/vqabench/internal/evaluate"
	"github.com/mwiater/vqabench/internal/logging"
	"github.com/mwiater/vqabench/internal/report"
)

// ErrNoBenchmarks is returned when the data directory has no benchmark files.
var ErrNoBenchmarks = errors.New("no benchmark files found")

// Suite runs a Runner over every benchmark file in DataDir and writes the
// reports into ResultsDir.
type Suite struct {
	Runner       *Runner
	ProviderName string
	DataDir      string
	ResultsDir   string
	// NumSamples limits the rows taken from each benchmark; 0 means all.
	NumSamples int
	Out        io.Writer
}

// ResultPaths are the files written for one dataset.
type ResultPaths struct {
	CSV     string
	JSONL   string
	Summary string
}

// ResultFiles returns the output locations for dataset name inside dir.
func ResultFiles(dir, name string) ResultPaths {
	return ResultPaths{
		CSV:     filepath.Join(dir, "results_"+name+".csv"),
		JSONL:   filepath.Join(dir, "results_"+name+".jsonl"),
		Summary: filepath.Join(dir, "summary_"+name+".txt"),
	}
}

// RunDatasets runs the named datasets, or every discovered benchmark when
// names is empty, in sorted order. A dataset that cannot be read is logged
// and skipped; its error is part of the returned joined error.
func (s *Suite) RunDatasets(ctx context.Context, names []string) ([]Result, error) {
	files, err := dataset.DiscoverBenchmarks(s.DataDir)
	if err != nil {
		return nil, err
	}
	if len(names) > 0 {
		files = slices.DeleteFunc(files, func(path string) bool {
			return !slices.Contains(names, dataset.BenchmarkName(path))
		})
		for _, name := range names {
			if !slices.ContainsFunc(files, func(p string) bool { return dataset.BenchmarkName(p) == name }) {
				return nil, fmt.Errorf("%w: %s", ErrNoBenchmarks, dataset.BenchmarkPath(s.DataDir, name))
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s (run 'vqabench prepare' first)", ErrNoBenchmarks, s.DataDir)
	}
	if err := os.MkdirAll(s.ResultsDir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating results directory: %w", err)
	}

	s.printf("Found %d benchmark datasets:\n", len(files))
	for _, f := range files {
		s.printf("  - %s\n", filepath.Base(f))
	}

	var results []Result
	var errs []error
	for _, path := range files {
		res, err := s.RunFile(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return results, errors.Join(append(errs, err)...)
			}
			logging.LogWarn("dataset %s failed: %v", filepath.Base(path), err)
			s.printf("dataset %s failed: %v\n", dataset.BenchmarkName(path), err)
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

// RunFile runs one benchmark file and writes its reports.
func (s *Suite) RunFile(ctx context.Context, path string) (Result, error) {
	name := dataset.BenchmarkName(path)
	records, err := dataset.ReadBenchmark(path)
	if err != nil {
		return Result{}, err
	}
	if s.NumSamples > 0 && len(records) > s.NumSamples {
		records = records[:s.NumSamples]
	}
	if len(records) == 0 {
		return Result{}, fmt.Errorf("%s: %w", filepath.Base(path), dataset.ErrNoRows)
	}

	s.printf("\n=== DATASET: %s (%d questions) ===\n", name, len(records))
	res, runErr := s.Runner.Run(ctx, name, records)
	if len(res.Items) == 0 {
		return res, runErr
	}

	paths := ResultFiles(s.ResultsDir, name)
	meta := res.Meta(s.ProviderName, s.Runner.Model, s.threshold())
	if err := s.write(paths, res, meta); err != nil {
		return res, errors.Join(runErr, err)
	}

	if s.Out != nil {
		report.PrintConsole(s.Out, res.Summary, meta)
	}
	s.printf("Full results saved to: %s\n", paths.CSV)
	s.printf("Summary saved to: %s\n", paths.Summary)
	return res, runErr
}

func (s *Suite) write(paths ResultPaths, res Result, meta report.Meta) error {
	if err := report.WriteCSV(paths.CSV, res.Items); err != nil {
		return err
	}
	if err := report.WriteJSONL(paths.JSONL, res.Items); err != nil {
		return err
	}
	return report.WriteSummary(paths.Summary, res.Summary, meta)
}

func (s *Suite) threshold() float64 {
	if s.Runner.Threshold == 0 {
		return evaluate.DefaultThreshold
	}
	return s.Runner.Threshold
}

func (s *Suite) printf(format string, args ...any) {
	if s.Out != nil {
		fmt.Fprintf(s.Out, format, args...)
	}
}
