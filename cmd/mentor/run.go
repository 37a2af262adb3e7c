package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sakif/coding-mentor/internal/executor"
)

var langFlag string

var runCmd = &cobra.Command{
	Use:   "run [file|-]",
	Short: "Execute a program and print the result",
	Long: `Execute a program in a fresh workspace and print stdout, stderr, the exit
code and the failure kind as JSON. The language comes from --lang or, when
omitted, from the file extension.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&langFlag, "lang", "l", "", "Language (python, javascript, java or a configured one)")
}

type runOutput struct {
	*executor.ExecutionResult
	Language executor.Language    `json:"language"`
	Status   executor.FailureKind `json:"status"`
}

func runRun(cmd *cobra.Command, args []string) error {
	tk, err := loadToolkit(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	lang, err := resolveLanguage(langFlag, args, tk.engine.Languages())
	if err != nil {
		return err
	}
	code, err := readSource(cmd, args, tk.maxCodeLength)
	if err != nil {
		return err
	}

	res := tk.engine.Execute(cmd.Context(), executor.ExecutionRequest{Code: code, Language: lang})
	return printJSON(cmd, runOutput{ExecutionResult: res, Language: lang, Status: res.Status()})
}

var extLanguages = map[string]executor.Language{
	".py":   executor.Python,
	".js":   executor.JavaScript,
	".mjs":  executor.JavaScript,
	".java": executor.Java,
}

func resolveLanguage(flag string, args []string, configured []executor.Language) (executor.Language, error) {
	if flag != "" {
		if lang, ok := executor.ParseLanguage(flag); ok {
			return lang, nil
		}
		if lang := executor.Language(strings.ToLower(flag)); slices.Contains(configured, lang) {
			return lang, nil
		}
		return "", fmt.Errorf("unknown language %q", flag)
	}
	if len(args) == 1 && args[0] != "-" {
		if lang, ok := extLanguages[strings.ToLower(filepath.Ext(args[0]))]; ok {
			return lang, nil
		}
	}
	return "", errors.New("cannot tell the language; pass --lang")
}
