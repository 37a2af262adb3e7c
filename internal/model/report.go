// Package model defines the data structures shared by the service, repository
// and handler layers.
package model

import (
	"time"

	"github.com/sakif/coding-mentor/internal/analyzer"
)

// Interaction is one piece of mentor output the learner received during a
// session.
type Interaction struct {
	Kind      string    `json:"kind"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ReportInput is what a client submits to save a session report.
type ReportInput struct {
	Problem      string                   `json:"problem"`
	Language     string                   `json:"language"`
	Code         string                   `json:"code"`
	Analysis     *analyzer.AnalysisResult `json:"analysis,omitempty"`
	Interactions []Interaction            `json:"interactions,omitempty"`
}

// Report is a persisted session export.
type Report struct {
	ID        string         `json:"id"`
	Problem   string         `json:"problem"`
	Language  string         `json:"language"`
	Document  ReportDocument `json:"document"`
	CreatedAt time.Time      `json:"createdAt"`
}

// ReportSummary is the list view of a report.
type ReportSummary struct {
	ID        string    `json:"id"`
	Problem   string    `json:"problem"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReportDocument is the self-contained export a learner downloads.
type ReportDocument struct {
	Metadata     ReportMetadata `json:"reportMetadata"`
	Session      SessionData    `json:"sessionData"`
	CodeAnalysis CodeAnalysis   `json:"codeAnalysis"`
	Assistance   Assistance     `json:"aiAssistance"`
	CodeSnapshot string         `json:"codeSnapshot"`
}

type ReportMetadata struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Tool        string    `json:"tool"`
	Version     string    `json:"version"`
}

type SessionData struct {
	Problem    string         `json:"problemStatement"`
	Language   string         `json:"programmingLanguage"`
	CodeLength int            `json:"codeLength"`
	Statistics CodeStatistics `json:"codeStatistics"`
	Timestamp  time.Time      `json:"timestamp"`
}

type CodeStatistics struct {
	TotalLines     int `json:"totalLines"`
	NonEmptyLines  int `json:"nonEmptyLines"`
	CommentLines   int `json:"commentLines"`
	CharacterCount int `json:"characterCount"`
}

// CodeAnalysis carries either Status (nothing was analyzed) or the sections.
type CodeAnalysis struct {
	Status     string                     `json:"status,omitempty"`
	Linting    *LintingSection            `json:"linting,omitempty"`
	Formatting *FormattingSection         `json:"formatting,omitempty"`
	Complexity *analyzer.ComplexityReport `json:"complexity,omitempty"`
}

type LintingSection struct {
	IssuesFound int                  `json:"issuesFound"`
	Issues      []analyzer.LintIssue `json:"issues"`
}

type FormattingSection struct {
	NeedsFormatting        bool `json:"needsFormatting"`
	FormattedCodeAvailable bool `json:"formattedCodeAvailable"`
}

// Assistance carries either Status (no mentor output) or the interactions.
type Assistance struct {
	Status            string             `json:"status,omitempty"`
	TotalInteractions int                `json:"totalInteractions,omitempty"`
	Interactions      []InteractionEntry `json:"interactions,omitempty"`
}

type InteractionEntry struct {
	Type           string    `json:"type"`
	Timestamp      time.Time `json:"timestamp"`
	ContentPreview string    `json:"contentPreview"`
	FullContent    string    `json:"fullContent"`
}
