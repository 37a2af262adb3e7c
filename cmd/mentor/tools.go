package main

import (
	"github.com/spf13/cobra"

	"github.com/sakif/coding-mentor/internal/executor"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Report which runtimes and analysis tools are installed",
	Args:  cobra.NoArgs,
	RunE:  runTools,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

type toolsOutput struct {
	Runtimes map[executor.Language]bool `json:"runtimes"`
	Analysis map[string]bool            `json:"analysis"`
}

func runTools(cmd *cobra.Command, args []string) error {
	tk, err := loadToolkit(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	return printJSON(cmd, toolsOutput{
		Runtimes: tk.engine.CheckRuntimes(cmd.Context()),
		Analysis: tk.tools.CheckTools(cmd.Context()),
	})
}
