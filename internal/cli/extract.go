package vqabench

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mwiater/vqabench/internal/extract"
)

// extractCmd prints the final answer contained in a model response.
var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract the final answer from a model response (file or stdin)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if len(args) == 1 && args[0] != "-" {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), extract.Final(string(data)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
