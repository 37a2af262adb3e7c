// Package mentor produces tutoring text (hints, next steps, full solutions)
// for a problem the student is working on.
//
// Text comes from a language model behind the narrow Completer interface.
// When no model is configured or the call fails, a canned offline response is
// returned instead, so Respond always has something to show.
package mentor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/coding-mentor/internal/analyzer"
	"github.com/sakif/coding-mentor/internal/executor"
)

// ErrUnknownKind is returned for a Kind the service does not produce.
var ErrUnknownKind = errors.New("mentor: unknown response kind")

// Kind selects what the mentor writes.
type Kind string

const (
	// Hint explains the idea without code.
	Hint Kind = "hint"
	// NextSteps suggests the next one to three lines.
	NextSteps Kind = "next_steps"
	// FullSolution writes a complete, tested solution.
	FullSolution Kind = "full_solution"
)

// ParseKind validates a user-supplied kind.
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Hint, NextSteps, FullSolution:
		return k, true
	}
	return "", false
}

// Source says where a Response's text came from.
type Source string

const (
	SourceModel   Source = "model"
	SourceOffline Source = "offline"
)

// Request is one mentoring request.
type Request struct {
	Kind     Kind              `json:"kind"`
	Problem  string            `json:"problem"`
	Code     string            `json:"code"`
	Language executor.Language `json:"language"`
	// Stdout and Stderr of the student's most recent run, if any.
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// Response is the mentor's answer.
type Response struct {
	Kind   Kind   `json:"kind"`
	Text   string `json:"text"`
	Source Source `json:"source"`
}

// Prompt is one chat completion request.
type Prompt struct {
	System      string
	User        string
	MaxTokens   int64
	Temperature float64
}

// Completer sends a prompt to a language model and returns its reply.
type Completer interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

// Service answers mentoring requests.
type Service struct {
	completer Completer
	analyzer  analyzer.Analyzer
	logger    *slog.Logger
}

// NewService creates a Service. completer may be nil, in which case every
// answer is an offline one. analyzer may be nil, in which case lint findings
// are left out of prompts.
func NewService(completer Completer, an analyzer.Analyzer, logger *slog.Logger) *Service {
	return &Service{completer: completer, analyzer: an, logger: logger}
}

// Respond answers req. The only error is ErrUnknownKind; model failures fall
// back to offline text.
func (s *Service) Respond(ctx context.Context, req Request) (*Response, error) {
	if _, ok := ParseKind(string(req.Kind)); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, req.Kind)
	}

	if s.completer == nil {
		return s.offline(req), nil
	}

	prompt := buildPrompt(req, s.lintFindings(ctx, req))
	text, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		s.logger.Warn("language model unavailable, answering offline",
			slog.String("kind", string(req.Kind)),
			slog.String("error", err.Error()),
		)
		return s.offline(req), nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return s.offline(req), nil
	}
	return &Response{Kind: req.Kind, Text: text, Source: SourceModel}, nil
}

func (s *Service) offline(req Request) *Response {
	return &Response{Kind: req.Kind, Text: offlineText(req), Source: SourceOffline}
}

// lintFindings lists real lint issues in Python code to enrich the prompt.
func (s *Service) lintFindings(ctx context.Context, req Request) []analyzer.LintIssue {
	if s.analyzer == nil || req.Language != executor.Python || strings.TrimSpace(req.Code) == "" {
		return nil
	}
	limit := 3
	if req.Kind == NextSteps {
		limit = 5
	}

	var issues []analyzer.LintIssue
	for _, issue := range s.analyzer.Analyze(ctx, req.Code).LintIssues {
		if issue.IsSentinel() {
			continue
		}
		issues = append(issues, issue)
		if len(issues) == limit {
			break
		}
	}
	return issues
}
