// Package service holds the business rules that sit between the HTTP
// handlers and the repositories. Services take primitives and domain types,
// return apperror values, and know nothing about HTTP.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sakif/coding-mentor/internal/apperror"
	"github.com/sakif/coding-mentor/internal/executor"
	"github.com/sakif/coding-mentor/internal/model"
	"github.com/sakif/coding-mentor/internal/repository"
)

const (
	ReportTool    = "AI Coding Mentor"
	ReportVersion = "2.0"

	DefaultListLimit = 20
	MaxListLimit     = 100

	previewLength = 200
)

// ReportService turns a mentoring session into a persisted export document.
type ReportService struct {
	repo          repository.ReportRepository
	maxCodeLength int
	logger        *slog.Logger
	now           func() time.Time
}

func NewReportService(repo repository.ReportRepository, maxCodeLength int, logger *slog.Logger) *ReportService {
	return &ReportService{
		repo:          repo,
		maxCodeLength: maxCodeLength,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Create validates the session, builds its document and saves it.
func (s *ReportService) Create(ctx context.Context, in model.ReportInput) (*model.Report, error) {
	lang, ok := executor.ParseLanguage(in.Language)
	if !ok {
		return nil, apperror.ValidationFailed("language",
			fmt.Sprintf("unknown language %q", in.Language))
	}
	problem := strings.TrimSpace(in.Problem)
	if problem == "" && strings.TrimSpace(in.Code) == "" {
		return nil, apperror.ValidationFailed("code", "a report needs a problem statement or code")
	}
	if s.maxCodeLength > 0 && len(in.Code) > s.maxCodeLength {
		return nil, apperror.ValidationFailed("code",
			fmt.Sprintf("code must be %d characters or less", s.maxCodeLength))
	}

	report := &model.Report{
		Problem:  problem,
		Language: string(lang),
		Document: s.buildDocument(problem, lang, in),
	}

	if err := s.repo.Create(ctx, report); err != nil {
		s.logger.Error("failed to create report",
			slog.String("language", string(lang)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating report: %w", err)
	}

	s.logger.Info("report created",
		slog.String("id", report.ID),
		slog.String("language", report.Language),
		slog.Int("interactions", len(in.Interactions)),
	)
	return report, nil
}

func (s *ReportService) GetByID(ctx context.Context, id string) (*model.Report, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "report ID is required")
	}
	return s.repo.GetByID(ctx, id)
}

// List returns report summaries. limit is clamped to [1, MaxListLimit] with
// DefaultListLimit for non-positive values; a negative offset becomes 0.
func (s *ReportService) List(ctx context.Context, limit, offset int) ([]model.ReportSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	reports, err := s.repo.List(ctx, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		s.logger.Error("failed to list reports", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	return reports, nil
}

func (s *ReportService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "report ID is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("report deleted", slog.String("id", id))
	return nil
}

func (s *ReportService) buildDocument(problem string, lang executor.Language, in model.ReportInput) model.ReportDocument {
	now := s.now()
	return model.ReportDocument{
		Metadata: model.ReportMetadata{
			GeneratedAt: now,
			Tool:        ReportTool,
			Version:     ReportVersion,
		},
		Session: model.SessionData{
			Problem:    problem,
			Language:   string(lang),
			CodeLength: utf8.RuneCountInString(in.Code),
			Statistics: CodeStatistics(in.Code, lang),
			Timestamp:  now,
		},
		CodeAnalysis: codeAnalysis(in),
		Assistance:   assistance(in.Interactions),
		CodeSnapshot: in.Code,
	}
}

func codeAnalysis(in model.ReportInput) model.CodeAnalysis {
	a := in.Analysis
	if a == nil {
		return model.CodeAnalysis{Status: "No analysis performed"}
	}
	complexity := a.Complexity
	return model.CodeAnalysis{
		Linting: &model.LintingSection{
			IssuesFound: len(a.LintIssues),
			Issues:      a.LintIssues,
		},
		Formatting: &model.FormattingSection{
			NeedsFormatting:        a.FormattingNeeded,
			FormattedCodeAvailable: a.FormattingNeeded && a.FormattedSource != in.Code,
		},
		Complexity: &complexity,
	}
}

func assistance(interactions []model.Interaction) model.Assistance {
	if len(interactions) == 0 {
		return model.Assistance{Status: "No AI assistance requested"}
	}
	entries := make([]model.InteractionEntry, 0, len(interactions))
	for _, it := range interactions {
		entries = append(entries, model.InteractionEntry{
			Type:           it.Kind,
			Timestamp:      it.Timestamp,
			ContentPreview: preview(it.Content),
			FullContent:    it.Content,
		})
	}
	return model.Assistance{
		TotalInteractions: len(entries),
		Interactions:      entries,
	}
}

func preview(s string) string {
	if utf8.RuneCountInString(s) <= previewLength {
		return s
	}
	return string([]rune(s)[:previewLength]) + "..."
}

// CodeStatistics counts lines and characters of source. A comment line is
// one whose first non-blank text is the language's line-comment marker.
func CodeStatistics(code string, lang executor.Language) model.CodeStatistics {
	stats := model.CodeStatistics{CharacterCount: utf8.RuneCountInString(code)}
	if code == "" {
		return stats
	}

	marker := "//"
	if lang == executor.Python {
		marker = "#"
	}

	lines := strings.Split(code, "\n")
	stats.TotalLines = len(lines)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		stats.NonEmptyLines++
		if strings.HasPrefix(line, marker) {
			stats.CommentLines++
		}
	}
	return stats
}
