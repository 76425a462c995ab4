package vqabench

import (
	"github.com/spf13/cobra"

	"github.com/mwiater/vqabench/internal/semqa"
	"github.com/mwiater/vqabench/internal/tui"
)

// tuiCmd starts the interactive semantic QA screen.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive semantic QA in the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		opts := qaOptions(cmd, cfg)
		// The critic stays available so critique can be toggled on screen.
		svc, cleanup, err := newQAService(cfg, semqa.Options{Critique: true, Rephrase: opts.Rephrase})
		if err != nil {
			return err
		}
		defer cleanup()
		return tui.Start(cmd.Context(), svc, opts)
	},
}

func init() {
	addQAFlags(tuiCmd)
	rootCmd.AddCommand(tuiCmd)
}
