// Package analyzer runs external static-analysis tools over Python source and
// merges their output into a single AnalysisResult.
//
// Three tools are consulted against one temporary artifact:
//
//	lint        flake8, structured output first, legacy text second
//	format      black over stdin, diff preview then full format
//	complexity  radon cc + mi, with a built-in structural scan as fallback
//
// Every step degrades on its own. A missing tool, a timeout or a crash in one
// step is recorded in that step's part of the result and the other steps still
// run.
package analyzer

import (
	"context"
	"time"
)

// Sentinel lint codes emitted by the harness instead of tool findings.
const (
	CodeMissing = "MISSING"
	CodeTimeout = "TIMEOUT"
	CodeError   = "ERROR"
)

// LintIssue is one finding reported by the linter, or a harness sentinel.
type LintIssue struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// IsSentinel reports whether the issue stands in for a failed lint run.
func (i LintIssue) IsSentinel() bool {
	switch i.Code {
	case CodeMissing, CodeTimeout, CodeError:
		return true
	}
	return false
}

// ComplexitySource says which analysis produced a ComplexityReport.
type ComplexitySource string

const (
	SourceExternalTool  ComplexitySource = "external_tool"
	SourceBasicFallback ComplexitySource = "basic_fallback"
)

// ComplexityReport holds whichever metrics could be computed. Absent metrics
// are nil and omitted from JSON. When Error is set no metric is present.
type ComplexityReport struct {
	AverageComplexity    *float64 `json:"averageComplexity,omitempty"`
	MaxComplexity        *float64 `json:"maxComplexity,omitempty"`
	FunctionCount        *int     `json:"functionCount,omitempty"`
	MaintainabilityIndex *float64 `json:"maintainabilityIndex,omitempty"`

	// Populated by the structural fallback only.
	ClassCount          *int `json:"classCount,omitempty"`
	ControlFlowCount    *int `json:"controlFlowCount,omitempty"`
	EstimatedComplexity *int `json:"estimatedComplexity,omitempty"`

	Source ComplexitySource `json:"source,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// AnalysisResult is the merged output of one analysis.
type AnalysisResult struct {
	LintIssues       []LintIssue      `json:"lintIssues"`
	FormattingNeeded bool             `json:"formattingNeeded"`
	FormattedSource  string           `json:"formattedSource"`
	Complexity       ComplexityReport `json:"complexity"`
	Duration         time.Duration    `json:"duration"`
}

// Degraded reports whether a transient harness failure shaped the result.
// Missing tools are not transient.
func (r *AnalysisResult) Degraded() bool {
	for _, issue := range r.LintIssues {
		if issue.Code == CodeTimeout || issue.Code == CodeError {
			return true
		}
	}
	return r.Complexity.Error != ""
}

func (r *AnalysisResult) clone() *AnalysisResult {
	c := *r
	c.LintIssues = append([]LintIssue(nil), r.LintIssues...)
	if c.LintIssues == nil {
		c.LintIssues = []LintIssue{}
	}
	return &c
}

// Analyzer analyses Python source. Implementations never fail: every failure
// is encoded in the returned result.
type Analyzer interface {
	Analyze(ctx context.Context, source string) *AnalysisResult
}
