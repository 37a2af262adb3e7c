package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/shlex"

	"github.com/sakif/coding-mentor/internal/artifact"
	"github.com/sakif/coding-mentor/internal/process"
)

// sourceName is the file name of the temporary artifact the tools inspect.
const sourceName = "main.py"

var _ Analyzer = (*Pipeline)(nil)

// Pipeline is the Analyzer backed by external tools.
type Pipeline struct {
	runner    process.Runner
	artifacts *artifact.Allocator
	config    Config
	env       []string
	logger    *slog.Logger
}

// New creates a Pipeline. It is safe for concurrent use.
func New(cfg Config, runner process.Runner, artifacts *artifact.Allocator, logger *slog.Logger) *Pipeline {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Pipeline{
		runner:    runner,
		artifacts: artifacts,
		config:    cfg,
		env:       flattenEnv(cfg.Env),
		logger:    logger,
	}
}

// Analyze runs lint, format check and complexity analysis over source.
func (p *Pipeline) Analyze(ctx context.Context, source string) *AnalysisResult {
	start := time.Now()
	res := &AnalysisResult{LintIssues: []LintIssue{}, FormattedSource: source}

	ws, err := p.artifacts.NewWorkspace("analysis")
	if err != nil {
		p.logger.Error("failed to allocate analysis workspace", slog.String("error", err.Error()))
		res.LintIssues = []LintIssue{errorIssue("Flake8", err)}
		res.FormattingNeeded, res.FormattedSource = p.guardFormat(ctx, source)
		res.Complexity = basicComplexity(source)
		res.Duration = time.Since(start)
		return res
	}
	defer func() {
		if err := ws.Remove(); err != nil {
			p.logger.Error("failed to remove workspace",
				slog.String("workspace", ws.ID()),
				slog.String("error", err.Error()),
			)
		}
	}()

	path, err := ws.WriteFile(sourceName, source)
	if err != nil {
		p.logger.Error("failed to write analysis source", slog.String("error", err.Error()))
		res.LintIssues = []LintIssue{errorIssue("Flake8", err)}
		res.FormattingNeeded, res.FormattedSource = p.guardFormat(ctx, source)
		res.Complexity = basicComplexity(source)
		res.Duration = time.Since(start)
		return res
	}

	res.LintIssues = p.guardLint(ctx, path)
	res.FormattingNeeded, res.FormattedSource = p.guardFormat(ctx, source)
	res.Complexity = p.guardComplexity(ctx, path, source)
	res.Duration = time.Since(start)
	return res
}

// The guard* wrappers keep a panic in one step from reaching the others.

func (p *Pipeline) guardLint(ctx context.Context, path string) (issues []LintIssue) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("lint step panicked", slog.Any("panic", r))
			issues = []LintIssue{errorIssue("Flake8", fmt.Errorf("%v", r))}
		}
	}()
	return p.lint(ctx, path)
}

func (p *Pipeline) guardFormat(ctx context.Context, source string) (needed bool, formatted string) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("format step panicked", slog.Any("panic", r))
			needed, formatted = false, source
		}
	}()
	return p.format(ctx, source)
}

func (p *Pipeline) guardComplexity(ctx context.Context, path, source string) (rep ComplexityReport) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("complexity step panicked", slog.Any("panic", r))
			rep = basicComplexity(source)
		}
	}()
	return p.complexity(ctx, path, source)
}

// run expands tpl, substituting {src}, and runs it under the tool timeout.
func (p *Pipeline) run(ctx context.Context, tpl, src, stdin string) (*process.Result, error) {
	fields, err := shlex.Split(tpl)
	if err != nil {
		return nil, fmt.Errorf("analyzer: parsing command template %q: %w", tpl, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("analyzer: command template %q is empty", tpl)
	}
	for i, f := range fields {
		fields[i] = strings.ReplaceAll(f, "{src}", src)
	}

	cmd := process.Command{
		Name:    fields[0],
		Args:    fields[1:],
		Stdin:   stdin,
		Env:     p.env,
		Timeout: p.config.Timeout,
	}
	p.logger.Debug("running analysis tool", slog.String("cmd", cmd.String()))
	return p.runner.Run(ctx, cmd)
}

func flattenEnv(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}
