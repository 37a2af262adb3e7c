// Package local implements executor.Executor by running toolchains installed
// on the host as child processes.
//
// EXECUTION STATE MACHINE (per request):
//
//	absent → probed → [compiled] → run → cleaned up
//	- probe:   optional; a missing runtime stops here with tool_missing
//	- prepare: a fresh workspace is allocated and the source written into it
//	- compile: optional; a non-zero exit stops here with compile_error
//	- run:     the program's stdout/stderr/exit code are returned as-is
//	- cleanup: the workspace is removed on every path, including panics
//
// Which steps exist, and the command lines they use, come from LanguageSpec
// data. Python, JavaScript and Java differ only in configuration.
package local

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/sakif/coding-mentor/internal/artifact"
	"github.com/sakif/coding-mentor/internal/executor"
	"github.com/sakif/coding-mentor/internal/process"
)

const noPublicClassMessage = "Error: No public class found in Java code. " +
	"Declare one with `public class Main`; the file is named after it."

var _ executor.Executor = (*Engine)(nil)

// Engine implements executor.Executor for locally installed toolchains.
type Engine struct {
	runner    process.Runner
	artifacts *artifact.Allocator
	config    Config
	logger    *slog.Logger
}

// New creates an Engine. It holds no per-request state and is safe for
// concurrent use.
func New(cfg Config, runner process.Runner, artifacts *artifact.Allocator, logger *slog.Logger) *Engine {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Engine{
		runner:    runner,
		artifacts: artifacts,
		config:    cfg,
		logger:    logger,
	}
}

// Languages returns the languages this engine has a toolchain for: the
// built-in ones in display order, then any extra configured ones by name.
func (e *Engine) Languages() []executor.Language {
	var langs, extra []executor.Language
	for _, lang := range executor.SupportedLanguages() {
		if _, ok := e.config.Languages[lang]; ok {
			langs = append(langs, lang)
		}
	}
	for lang := range e.config.Languages {
		if _, builtin := executor.ParseLanguage(string(lang)); !builtin {
			extra = append(extra, lang)
		}
	}
	slices.Sort(extra)
	return append(langs, extra...)
}

// Execute runs req.Code and always returns a result.
func (e *Engine) Execute(ctx context.Context, req executor.ExecutionRequest) (res *executor.ExecutionResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("execution harness panicked",
				slog.String("language", string(req.Language)),
				slog.Any("panic", r),
			)
			res = failure(executor.FailureInternalError, fmt.Sprintf("Error: %v", r))
		}
		res.Duration = time.Since(start)
	}()

	spec, ok := e.config.Languages[req.Language]
	if !ok {
		return failure(executor.FailureInternalError,
			fmt.Sprintf("Error: code execution not supported for %q", req.Language))
	}

	return e.execute(ctx, req, spec)
}

func (e *Engine) execute(ctx context.Context, req executor.ExecutionRequest, spec LanguageSpec) *executor.ExecutionResult {
	env := childEnv(e.config.Env, spec.Env)

	// === 1. PROBE ===
	if spec.Probe != "" {
		if res := e.probe(ctx, req.Language, spec, env); res != nil {
			return res
		}
	}

	// === 2. RESOLVE THE SOURCE FILE NAME ===
	var vars placeholders
	if strings.Contains(spec.SourceFile+spec.Compile+spec.Run, "{class}") {
		class, ok := PublicClassName(req.Code)
		if !ok {
			return failure(executor.FailureCompileError, noPublicClassMessage)
		}
		vars.class = class
	}

	// === 3. MATERIALISE ===
	ws, err := e.artifacts.NewWorkspace(string(req.Language))
	if err != nil {
		return e.internalError(req.Language, err)
	}
	defer func() {
		if err := ws.Remove(); err != nil {
			e.logger.Error("failed to remove workspace",
				slog.String("workspace", ws.ID()),
				slog.String("error", err.Error()),
			)
		}
	}()

	vars.dir = ws.Dir()
	vars.src, err = ws.WriteFile(vars.expand(spec.SourceFile), req.Code)
	if err != nil {
		return e.internalError(req.Language, err)
	}

	e.logger.Debug("executing snippet",
		slog.String("language", string(req.Language)),
		slog.String("workspace", ws.ID()),
	)

	// === 4. COMPILE ===
	if spec.Compile != "" {
		out, res := e.step(ctx, req.Language, spec, spec.Compile, vars, env)
		if res != nil {
			return res
		}
		if out.ExitCode != 0 {
			return &executor.ExecutionResult{
				Stderr:      "Compilation Error: " + compilerMessage(out),
				ExitCode:    out.ExitCode,
				FailureKind: executor.FailureCompileError,
			}
		}
	}

	// === 5. RUN ===
	out, res := e.step(ctx, req.Language, spec, spec.Run, vars, env)
	if res != nil {
		return res
	}

	return &executor.ExecutionResult{
		Stdout:      out.Stdout,
		Stderr:      out.Stderr,
		ExitCode:    out.ExitCode,
		FailureKind: executor.FailureNone,
		Truncated:   out.Truncated,
	}
}

// probe returns a tool_missing result when the runtime does not answer.
func (e *Engine) probe(ctx context.Context, lang executor.Language, spec LanguageSpec, env []string) *executor.ExecutionResult {
	cmd, err := buildCommand(spec.Probe, placeholders{}, env)
	if err != nil {
		return e.internalError(lang, err)
	}
	cmd.Timeout = e.config.Timeout

	out, err := e.runner.Run(ctx, cmd)
	if err == nil && out.ExitCode == 0 {
		return nil
	}

	e.logger.Warn("runtime probe failed",
		slog.String("language", string(lang)),
		slog.String("cmd", cmd.String()),
	)
	return failure(executor.FailureToolMissing, missingMessage(lang, spec))
}

// step runs one compile or run command. A non-nil result means the harness
// failed and the caller must return it unchanged.
func (e *Engine) step(ctx context.Context, lang executor.Language, spec LanguageSpec, tpl string, vars placeholders, env []string) (*process.Result, *executor.ExecutionResult) {
	cmd, err := buildCommand(tpl, vars, env)
	if err != nil {
		return nil, e.internalError(lang, err)
	}
	cmd.Timeout = e.config.Timeout

	out, err := e.runner.Run(ctx, cmd)
	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, process.ErrTimeout):
		return nil, &executor.ExecutionResult{
			Stdout:      "",
			Stderr:      timeoutMessage(e.config.Timeout),
			ExitCode:    -1,
			FailureKind: executor.FailureTimeout,
		}
	case errors.Is(err, process.ErrNotFound):
		e.logger.Warn("toolchain binary missing",
			slog.String("language", string(lang)),
			slog.String("binary", cmd.Name),
		)
		return nil, failure(executor.FailureToolMissing, missingMessage(lang, spec))
	default:
		return nil, e.internalError(lang, err)
	}
}

func (e *Engine) internalError(lang executor.Language, err error) *executor.ExecutionResult {
	e.logger.Error("execution harness failed",
		slog.String("language", string(lang)),
		slog.String("error", err.Error()),
	)
	return failure(executor.FailureInternalError, "Error: "+err.Error())
}

func failure(kind executor.FailureKind, message string) *executor.ExecutionResult {
	return &executor.ExecutionResult{Stderr: message, FailureKind: kind}
}

func missingMessage(lang executor.Language, spec LanguageSpec) string {
	if spec.MissingMessage != "" {
		return spec.MissingMessage
	}
	return fmt.Sprintf("Error: the %s toolchain is not installed or not in PATH", lang)
}

func timeoutMessage(limit time.Duration) string {
	return fmt.Sprintf("Error: Code execution timed out (%s limit)", limit)
}

// compilerMessage prefers stderr (javac reports there) but keeps stdout for
// compilers that print diagnostics to it.
func compilerMessage(out *process.Result) string {
	msg := strings.TrimSpace(out.Stderr)
	if msg == "" {
		msg = strings.TrimSpace(out.Stdout)
	}
	return msg
}
