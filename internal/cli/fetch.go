package vqabench

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mwiater/vqabench/internal/dataset"
	"github.com/mwiater/vqabench/internal/logging"
)

var (
	fetchMaxRows int
	fetchParquet bool
)

// fetchCmd downloads a registry dataset from the hub into its local source.
var fetchCmd = &cobra.Command{
	Use:   "fetch <dataset>",
	Short: "Fetch a dataset from the hub into its local source",
	Long: `Fetch pages the hub rows API for the dataset's hub reference and writes
one JSON object per row to the dataset source. Datasets declared with the
parquet format (or --parquet) download the parquet export instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		reg, err := dataset.LoadRegistry(cfg.DatasetsFile)
		if err != nil {
			return err
		}
		spec, err := reg.Lookup(args[0])
		if err != nil {
			return err
		}
		if spec.Hub.Dataset == "" {
			return fmt.Errorf("dataset %q has no hub reference", spec.Name)
		}

		fetcher := dataset.NewFetcher(cfg.HubToken, cfg.RequestTimeout())
		out := cmd.OutOrStdout()

		if fetchParquet || spec.Format == dataset.FormatParquet {
			dir := filepath.Dir(spec.Source)
			files, err := fetcher.FetchParquet(cmd.Context(), spec.Hub, dir)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", spec.Name, err)
			}
			for _, f := range files {
				fmt.Fprintf(out, "Saved %s\n", f)
			}
			return nil
		}

		if spec.Format != dataset.FormatJSONL {
			return errors.New("rows fetch writes JSONL; set format: jsonl or use --parquet")
		}
		maxRows := fetchMaxRows
		if !cmd.Flags().Changed("max-rows") {
			maxRows = cfg.MaxRows
		}
		n, err := fetcher.Fetch(cmd.Context(), spec.Hub, maxRows, spec.Source)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", spec.Name, err)
		}
		logging.LogEvent("fetched %d rows of %s into %s", n, spec.Hub.Dataset, spec.Source)
		fmt.Fprintf(out, "Saved %d rows to %s\n", n, spec.Source)
		return nil
	},
}

func init() {
	fetchCmd.Flags().IntVar(&fetchMaxRows, "max-rows", 0, "maximum rows to fetch (0 = all; defaults to config maxRows)")
	fetchCmd.Flags().BoolVar(&fetchParquet, "parquet", false, "download the parquet export instead of paging rows")
	rootCmd.AddCommand(fetchCmd)
}
