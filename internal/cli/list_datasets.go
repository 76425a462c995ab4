package vqabench

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mwiater/vqabench/internal/dataset"
)

// datasetsCmd lists the datasets declared in the registry.
var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List datasets declared in the registry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		reg, err := dataset.LoadRegistry(cfg.DatasetsFile)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tFORMAT\tSOURCE\tHUB\tBENCHMARK")
		for _, name := range reg.Names() {
			spec, _ := reg.Lookup(name)
			hub := "-"
			if spec.Hub.Dataset != "" {
				hub = spec.Hub.Dataset
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", name, spec.Format, spec.Source, hub, dataset.BenchmarkPath(cfg.DataDir, name))
		}
		return tw.Flush()
	},
}

func init() {
	listCmd.AddCommand(datasetsCmd)
}
