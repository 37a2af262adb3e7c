// Package executor defines the contract for running user-submitted code.
//
// The caller hands over source text and a language tag and always gets an
// ExecutionResult back. Execute never returns an error: every harness failure
// (missing toolchain, compile failure, timeout, internal fault) is encoded in
// ExecutionResult.FailureKind so the UI can render a banner from it.
package executor

import (
	"context"
	"strings"
	"time"
)

// Language identifies a supported toolchain.
type Language string

const (
	Python     Language = "python"
	JavaScript Language = "javascript"
	Java       Language = "java"
)

// SupportedLanguages lists the languages in display order.
func SupportedLanguages() []Language {
	return []Language{Python, JavaScript, Java}
}

var languageAliases = map[string]Language{
	"python":     Python,
	"py":         Python,
	"javascript": JavaScript,
	"js":         JavaScript,
	"node":       JavaScript,
	"java":       Java,
}

// ParseLanguage maps a user-supplied tag (case-insensitive, common aliases
// allowed) to a Language.
func ParseLanguage(s string) (Language, bool) {
	lang, ok := languageAliases[strings.ToLower(strings.TrimSpace(s))]
	return lang, ok
}

// FailureKind describes whether the harness managed to run the program.
// It says nothing about whether the program itself succeeded.
type FailureKind string

const (
	FailureNone          FailureKind = "none"
	FailureTimeout       FailureKind = "timeout"
	FailureToolMissing   FailureKind = "tool_missing"
	FailureCompileError  FailureKind = "compile_error"
	FailureRuntimeError  FailureKind = "runtime_error"
	FailureInternalError FailureKind = "internal_error"
)

// ExecutionRequest represents a request to execute code.
type ExecutionRequest struct {
	Code     string   `json:"code"`
	Language Language `json:"language"`
}

// ExecutionResult represents the output and status of the code execution.
type ExecutionResult struct {
	Stdout      string        `json:"stdout"`
	Stderr      string        `json:"stderr"`
	ExitCode    int           `json:"exitCode"`
	FailureKind FailureKind   `json:"failureKind"`
	Duration    time.Duration `json:"duration"`
	// Truncated is set when the program wrote more output than is kept.
	Truncated bool `json:"truncated,omitempty"`
}

// Status folds the program's own exit status into the failure taxonomy:
// a harness success with a non-zero exit reads as runtime_error. The engine
// never stores runtime_error in FailureKind itself.
func (r *ExecutionResult) Status() FailureKind {
	if r.FailureKind == FailureNone && r.ExitCode != 0 {
		return FailureRuntimeError
	}
	return r.FailureKind
}

// Executor represents the core interface for running code out of process.
type Executor interface {
	Execute(ctx context.Context, req ExecutionRequest) *ExecutionResult
}
