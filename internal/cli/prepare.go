package vqabench

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/vqabench/internal/dataset"
	"github.com/mwiater/vqabench/internal/logging"
)

var (
	prepareAll     bool
	prepareMaxRows int
)

// prepareCmd converts registry datasets into benchmark CSV files.
var prepareCmd = &cobra.Command{
	Use:   "prepare [dataset...]",
	Short: "Build benchmark CSV files from registry datasets",
	Long: `Prepare loads each named dataset (or every registry dataset with --all),
trims question and answer, drops empty rows and duplicate questions, keeps
at most maxRows rows and writes data/benchmark_<name>.csv.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		reg, err := dataset.LoadRegistry(cfg.DatasetsFile)
		if err != nil {
			return err
		}

		names := args
		if prepareAll {
			names = reg.Names()
		}
		if len(names) == 0 {
			return errors.New("name at least one dataset or pass --all")
		}
		maxRows := prepareMaxRows
		if !cmd.Flags().Changed("max-rows") {
			maxRows = cfg.MaxRows
		}

		out := cmd.OutOrStdout()
		var errs []error
		for _, name := range names {
			spec, err := reg.Lookup(name)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			n, path, err := prepareDataset(cmd, spec, cfg.DataDir, maxRows)
			if err != nil {
				logging.LogWarn("prepare %s: %v", name, err)
				fmt.Fprintf(out, "Skipping %s: %v\n", name, err)
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				continue
			}
			fmt.Fprintf(out, "Saved %d rows to %s\n", n, path)
		}
		return errors.Join(errs...)
	},
}

func prepareDataset(cmd *cobra.Command, spec dataset.Spec, dataDir string, maxRows int) (int, string, error) {
	records, err := dataset.Load(cmd.Context(), spec)
	if err != nil {
		return 0, "", err
	}
	records = dataset.Prepare(records, maxRows)
	if len(records) == 0 {
		return 0, "", dataset.ErrNoRows
	}
	path := dataset.BenchmarkPath(dataDir, spec.Name)
	if err := dataset.WriteBenchmark(path, records); err != nil {
		return 0, "", err
	}
	logging.LogEvent("prepared %s: %d rows -> %s", spec.Name, len(records), path)
	return len(records), path, nil
}

func init() {
	prepareCmd.Flags().BoolVar(&prepareAll, "all", false, "prepare every dataset in the registry")
	prepareCmd.Flags().IntVar(&prepareMaxRows, "max-rows", 0, "maximum rows per dataset (defaults to config maxRows)")
	rootCmd.AddCommand(prepareCmd)
}
