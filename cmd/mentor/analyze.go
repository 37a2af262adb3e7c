package main

import (
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|-]",
	Short: "Lint, format-check and measure Python source",
	Long: `Run flake8, black and radon on Python source and print the combined result
as JSON. Missing tools are reported inside the result and the complexity
section falls back to a structural count.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	tk, err := loadToolkit(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	code, err := readSource(cmd, args, tk.maxCodeLength)
	if err != nil {
		return err
	}
	return printJSON(cmd, tk.analyzer.Analyze(cmd.Context(), code))
}
