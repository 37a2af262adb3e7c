package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/sakif/coding-mentor/internal/process"
)

// lintParser turns one lint output into issues. ok is false when the output
// is not in the parser's format, so the next parser gets a turn.
type lintParser struct {
	name  string
	parse func(out string) (issues []LintIssue, ok bool)
}

var (
	structuredParsers = []lintParser{
		{"json-object", parseLintJSONObject},
		{"json-array", parseLintJSONArray},
		{"text", parseLintText},
	}
	textParsers = []lintParser{
		{"text", parseLintText},
	}
)

// lintAttempt is one linter invocation and the parsers tried on its stdout.
type lintAttempt struct {
	template string
	parsers  []lintParser
}

// lint runs the attempts in order. An attempt wins when its output parses and
// either reports issues or the linter exited cleanly. A linter that exits
// non-zero with nothing parsable falls through to the next attempt.
func (p *Pipeline) lint(ctx context.Context, path string) []LintIssue {
	attempts := []lintAttempt{
		{p.config.Tools.Lint, structuredParsers},
		{p.config.Tools.LintText, textParsers},
	}

	var last *process.Result
	for _, attempt := range attempts {
		if attempt.template == "" {
			continue
		}
		out, err := p.run(ctx, attempt.template, path, "")
		if err != nil {
			return []LintIssue{lintFailure(p.logger, err)}
		}
		last = out

		issues, parser, ok := parseLint(attempt.parsers, out.Stdout)
		if ok && (len(issues) > 0 || out.ExitCode == 0) {
			p.logger.Debug("lint parsed",
				slog.String("parser", parser),
				slog.Int("issues", len(issues)),
			)
			return issues
		}
	}

	if last == nil || last.ExitCode == 0 {
		return []LintIssue{}
	}
	return []LintIssue{{
		Code:    CodeError,
		Message: fmt.Sprintf("Flake8 analysis failed: exit status %d%s", last.ExitCode, firstLine(last.Stderr)),
	}}
}

func parseLint(parsers []lintParser, out string) ([]LintIssue, string, bool) {
	for _, lp := range parsers {
		if issues, ok := lp.parse(out); ok {
			return issues, lp.name, true
		}
	}
	return nil, "", false
}

// lintFailure converts a run error into the matching sentinel issue.
func lintFailure(logger *slog.Logger, err error) LintIssue {
	switch {
	case errors.Is(err, process.ErrNotFound):
		logger.Warn("flake8 not installed")
		return LintIssue{Code: CodeMissing, Message: "Flake8 not installed. Install with: pip install flake8"}
	case errors.Is(err, process.ErrTimeout):
		logger.Warn("flake8 timed out")
		return LintIssue{Code: CodeTimeout, Message: "Flake8 analysis timed out"}
	default:
		logger.Error("flake8 failed", slog.String("error", err.Error()))
		return errorIssue("Flake8", err)
	}
}

func errorIssue(tool string, err error) LintIssue {
	return LintIssue{Code: CodeError, Message: fmt.Sprintf("%s analysis failed: %v", tool, err)}
}

// jsonIssue is one entry of flake8's JSON formatter.
type jsonIssue struct {
	Code   string `json:"code"`
	Line   int    `json:"line_number"`
	Column int    `json:"column_number"`
	Text   string `json:"text"`
}

func (j jsonIssue) issue() LintIssue {
	return LintIssue{Line: max(j.Line, 0), Column: max(j.Column, 0), Message: j.Text, Code: j.Code}
}

// parseLintJSONObject reads {"<path>": [issue, ...], ...}. Paths are visited
// in sorted order; there is normally exactly one.
func parseLintJSONObject(out string) ([]LintIssue, bool) {
	var byPath map[string][]jsonIssue
	if err := json.Unmarshal([]byte(out), &byPath); err != nil {
		return nil, false
	}
	paths := make([]string, 0, len(byPath))
	for path := range byPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	issues := []LintIssue{}
	for _, path := range paths {
		for _, j := range byPath[path] {
			issues = append(issues, j.issue())
		}
	}
	return issues, true
}

// parseLintJSONArray reads a flat [issue, ...] list.
func parseLintJSONArray(out string) ([]LintIssue, bool) {
	var list []jsonIssue
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		return nil, false
	}
	issues := make([]LintIssue, 0, len(list))
	for _, j := range list {
		issues = append(issues, j.issue())
	}
	return issues, true
}

// parseLintText reads flake8's default "<path>:<line>:<col>: <code> <message>"
// lines. Lines of any other shape are skipped. The output counts as parsed
// when it is blank or at least one line matched.
func parseLintText(out string) ([]LintIssue, bool) {
	issues := []LintIssue{}
	for _, line := range strings.Split(out, "\n") {
		if issue, ok := parseLintLine(line); ok {
			issues = append(issues, issue)
		}
	}
	return issues, len(issues) > 0 || strings.TrimSpace(out) == ""
}

func parseLintLine(line string) (LintIssue, bool) {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return LintIssue{}, false
	}
	parts := strings.SplitN(line, ":", 4)
	if len(parts) < 4 {
		return LintIssue{}, false
	}
	lineNo, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || lineNo < 0 {
		return LintIssue{}, false
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil || col < 0 {
		return LintIssue{}, false
	}

	rest := strings.TrimSpace(parts[3])
	code, message, found := strings.Cut(rest, " ")
	if !found {
		message = rest
	}
	return LintIssue{
		Line:    lineNo,
		Column:  col,
		Message: strings.TrimSpace(message),
		Code:    code,
	}, true
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	line, _, _ := strings.Cut(s, "\n")
	return ": " + line
}
