package vqabench

import "github.com/spf13/cobra"

// indexCmd groups commands operating on the embedding index.
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Group commands for the embedding index",
	Long:  `The 'index' command groups subcommands that build or inspect the embedding index. It performs no action on its own.`,
}

// runCmd represents the 'run' command group for running workflows.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Group commands for running workflows",
	Long:  `The 'run' command groups subcommands that run higher-level workflows.`,
}

// showCmd represents the 'show' command group for displaying resources.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Group commands for displaying resources",
	Long:  `The 'show' command groups subcommands that display resources or information related to vqabench.`,
}

// listCmd represents the 'list' command group.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Group commands for listing resources",
	Long:  `The 'list' command groups subcommands that list datasets, commands and other resources.`,
}

func init() {
	rootCmd.AddCommand(indexCmd, runCmd, showCmd, listCmd)
}
