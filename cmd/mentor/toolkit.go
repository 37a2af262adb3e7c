package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sakif/coding-mentor/internal/analyzer"
	"github.com/sakif/coding-mentor/internal/artifact"
	"github.com/sakif/coding-mentor/internal/config"
	"github.com/sakif/coding-mentor/internal/executor"
	"github.com/sakif/coding-mentor/internal/executor/local"
	"github.com/sakif/coding-mentor/internal/process"
)

// engine is what the commands need from the execution backend.
type engine interface {
	executor.Executor
	Languages() []executor.Language
	CheckRuntimes(ctx context.Context) map[executor.Language]bool
}

type toolChecker interface {
	CheckTools(ctx context.Context) map[string]bool
}

type toolkit struct {
	engine        engine
	analyzer      analyzer.Analyzer
	tools         toolChecker
	maxCodeLength int
}

// loadToolkit is replaced in tests.
var loadToolkit = defaultToolkit

func defaultToolkit(stderr io.Writer) (*toolkit, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	getenv := os.Getenv
	if toolchainFlag != "" {
		getenv = func(key string) string {
			if key == "TOOLCHAIN_FILE" {
				return toolchainFlag
			}
			return os.Getenv(key)
		}
	}
	cfg, err := config.Load(getenv)
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if verboseFlag {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	runner := process.NewOSRunner(os.Environ(), logger)
	artifacts := artifact.NewAllocator(cfg.TempDir)
	pipeline := analyzer.New(cfg.Analysis, runner, artifacts, logger)

	return &toolkit{
		engine:        local.New(cfg.Execution, runner, artifacts, logger),
		analyzer:      pipeline,
		tools:         pipeline,
		maxCodeLength: cfg.MaxCodeLength,
	}, nil
}

// readSource reads the file named by the only argument, or stdin when the
// argument is "-" or absent.
func readSource(cmd *cobra.Command, args []string, maxLen int) (string, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return "", fmt.Errorf("reading source: %w", err)
	}
	if len(data) == 0 {
		return "", errors.New("source is empty")
	}
	if maxLen > 0 && len(data) > maxLen {
		return "", fmt.Errorf("source is %d bytes; the limit is %d (MAX_CODE_LENGTH)", len(data), maxLen)
	}
	return string(data), nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
