// Command mentor runs and analyzes code from the terminal with the same
// engine and analysis pipeline the server uses.
//
//	mentor run --lang python main.py
//	mentor analyze - < main.py
//	mentor tools
//
// Results are printed as JSON. The exit status is 1 only when the command
// itself is misused; a failing program still exits 0.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	toolchainFlag string
	verboseFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "mentor",
	Short: "Run and analyze code with the coding mentor toolchain",
	Long: `mentor executes Python, JavaScript and Java programs in a fresh workspace
and runs the Python analysis pipeline (flake8, black, radon) on source files.

Configuration is read from the environment and an optional .env file, the
same way the server reads it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&toolchainFlag, "toolchain", "", "Toolchain YAML file (overrides TOOLCHAIN_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log each tool invocation to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
